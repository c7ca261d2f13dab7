// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/mush/internal/ctxlog"
	"github.com/spf13/afero"
)

// ErrGetBatchFile is returned when the batch file cannot be read or fetched.
var ErrGetBatchFile = errors.New("failed to get batch file")

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	goGetterForce         = "::"
	minimumGetterParts    = 3 // scheme, host and path
)

// LoadBatch returns at most limit lines of the batch file at src. src is a
// local path or any go-getter source such as an https URL or a git repository.
// Lines are not length-limited.
func LoadBatch(ctx context.Context, src string, limit int) ([]string, error) {
	data, err := readSource(ctx, src)
	if err != nil {
		return nil, err
	}

	var lines []string

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), max(len(data)+1, bufio.MaxScanTokenSize))

	for sc.Scan() && (limit <= 0 || len(lines) < limit) {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrGetBatchFile, src, err)
	}

	return lines, nil
}

func readSource(ctx context.Context, src string) ([]byte, error) {
	if src == "" {
		return nil, ErrGetBatchFile
	}

	fs := FsFactory()

	if !isRemote(src) {
		data, err := afero.ReadFile(fs, src)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGetBatchFile, err)
		}

		return data, nil
	}

	ctxlog.Debug(ctx, "fetching batch file", "source", src)

	return fetch(ctx, src)
}

func isRemote(src string) bool {
	return strings.Contains(src, "://") || strings.Contains(src, goGetterForce)
}

// fetch downloads the batch file with go-getter into a temporary directory
// and reads it from there.
func fetch(ctx context.Context, url string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "mush-getter-*")
	if err != nil {
		return nil, errors.Join(ErrGetBatchFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrGetBatchFile, err)
	}

	// A "//" subdirectory names the file inside a fetched directory;
	// anything else is fetched as a single file.
	req := &getter.Request{
		Src:     url,
		Dst:     filepath.Join(tmpDir, "batch"),
		Pwd:     wd,
		GetMode: getter.ModeFile,
	}

	src, fileName := splitFileNameFromGetterURL(url)
	if src != "" {
		req.Src = src
		req.Dst = filepath.Join(tmpDir, "g")
		req.GetMode = getter.ModeDir
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, errors.Join(ErrGetBatchFile, err)
	}

	path := res.Dst
	if req.GetMode == getter.ModeDir {
		path = filepath.Join(res.Dst, fileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrGetBatchFile, err)
	}

	return data, nil
}

// splitFileNameFromGetterURL splits a go-getter URL into the URL of the
// enclosing directory and the file name. A ?ref= query is kept on the
// directory URL. Both results are empty when the URL names no file.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]
	if before, after, ok := strings.Cut(last, goGetterRefSeparator); ok {
		last, ref = before, after
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName := filepath.Base(last)

	if dir := filepath.Dir(last); dir == "." {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = dir
	}

	newURL := strings.Join(parts, goGetterPathSeparator)
	if ref != "" {
		newURL += goGetterRefSeparator + ref
	}

	return newURL, fileName
}
