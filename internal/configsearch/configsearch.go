// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package configsearch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matt-FFFFFF/mush/internal/color"
	"github.com/matt-FFFFFF/mush/internal/ctxlog"
	"github.com/spf13/afero"
)

var (
	// ErrOpenDir is returned when the directory to scan cannot be read.
	ErrOpenDir = errors.New("cannot open directory")
	// ErrReadFile is returned when a matched file cannot be read.
	ErrReadFile = errors.New("cannot read file")
)

var (
	// Extensions mark a file name as a configuration file.
	Extensions = []string{".config", ".conf", ".json", ".xml", ".ini"}
	// Keywords also mark a file name as a configuration file.
	Keywords = []string{"config", "settings", "configuration", "setup", "file"}
	// ImportantWords select the lines printed from a matched file.
	ImportantWords = []string{"key", "password", "token", "secret", "user", "host", "port", "metrics"}
)

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// IsConfigFile reports whether name contains a known extension or keyword.
func IsConfigFile(name string) bool {
	contains := func(s string) bool { return strings.Contains(name, s) }
	return slices.ContainsFunc(Extensions, contains) || slices.ContainsFunc(Keywords, contains)
}

// List prints the regular files directly inside dir whose names look like
// configuration files, and returns their paths.
func List(fsys afero.Fs, dir string, w io.Writer) ([]string, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenDir, dir, err)
	}

	fmt.Fprintln(w, color.Colorize("Listing configuration files in directory: "+dir, color.FgCyan)) // nolint:errcheck

	var found []string

	for _, e := range entries {
		if !e.Mode().IsRegular() || !IsConfigFile(e.Name()) {
			continue
		}

		path := filepath.Join(dir, e.Name())
		found = append(found, path)
		fmt.Fprintln(w, color.Colorize("Configuration file found: "+path, color.FgMagenta)) // nolint:errcheck
	}

	fmt.Fprintln(w) // nolint:errcheck

	return found, nil
}

// Search walks dir recursively. Every file whose name contains ext is
// announced and its important lines printed. Unreadable subdirectories and
// files are logged and skipped.
func Search(ctx context.Context, fsys afero.Fs, dir, ext string, w io.Writer) ([]string, error) {
	if _, err := fsys.Stat(dir); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenDir, dir, err)
	}

	var found []string

	err := afero.Walk(fsys, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			ctxlog.Warn(ctx, "skipping unreadable path", "path", path, "error", err)
			return nil
		}

		if info.IsDir() {
			fmt.Fprintf(w, "Exploring directory: %s for files with extension '%s'\n", path, ext) // nolint:errcheck
			return nil
		}

		if !strings.Contains(info.Name(), ext) {
			return nil
		}

		found = append(found, path)
		fmt.Fprintln(w, color.Colorize("Configuration file found: "+path, color.FgYellow)) // nolint:errcheck

		lines, err := ImportantLines(fsys, path)
		if err != nil {
			ctxlog.Warn(ctx, "skipping unreadable file", "path", path, "error", err)
			return nil
		}

		header := color.Colorize("Contents of "+path+" (important configurations only):", color.FgGreen)
		fmt.Fprintf(w, "\n%s\n", header) // nolint:errcheck

		for _, l := range lines {
			fmt.Fprintln(w, l) // nolint:errcheck
		}

		fmt.Fprintln(w) // nolint:errcheck

		return nil
	})

	return found, err
}

// ImportantLines returns the lines of path that contain one of ImportantWords.
func ImportantLines(fsys afero.Fs, path string) ([]string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFile, path, err)
	}
	defer f.Close() //nolint:errcheck

	var out []string

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if slices.ContainsFunc(ImportantWords, func(s string) bool { return strings.Contains(line, s) }) {
			out = append(out, line)
		}
	}

	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("%w: %s: %w", ErrReadFile, path, err)
	}

	return out, nil
}
