// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matt-FFFFFF/mush/internal/cmdline"
)

const (
	// ProjectRootEnv names the directory redirection paths are resolved against.
	ProjectRootEnv = "PROJECT_ROOT"
	// OutputFileMode is the permission of files created by output redirection.
	OutputFileMode os.FileMode = 0o644
)

var (
	// ErrProjectRootNotSet is returned when a command needs PROJECT_ROOT and it is unset.
	ErrProjectRootNotSet = errors.New("PROJECT_ROOT environment variable is not set")
	// ErrOpenInput is returned when the input redirection file cannot be opened.
	ErrOpenInput = errors.New("open input file")
	// ErrOpenOutput is returned when the output redirection file cannot be opened.
	ErrOpenOutput = errors.New("open output file")
)

// ProjectRoot returns $PROJECT_ROOT or ErrProjectRootNotSet.
func ProjectRoot() (string, error) {
	root := os.Getenv(ProjectRootEnv)
	if root == "" {
		return "", ErrProjectRootNotSet
	}

	return root, nil
}

// Redirects holds the files opened for one command. Nil members mean "not redirected".
type Redirects struct {
	In  *os.File
	Out *os.File
}

// Close closes every opened file.
func (r *Redirects) Close() error {
	if r == nil {
		return nil
	}

	var errs []error

	if r.In != nil {
		errs = append(errs, r.In.Close())
	}

	if r.Out != nil {
		errs = append(errs, r.Out.Close())
	}

	return errors.Join(errs...)
}

// OpenRedirects opens the command's redirection targets relative to PROJECT_ROOT.
// The input file must exist; the output file is created or truncated.
// Nothing stays open when an error is returned.
func OpenRedirects(cmd *cmdline.Command) (*Redirects, error) {
	r := &Redirects{}
	if !cmd.Redirected() {
		return r, nil
	}

	root, err := ProjectRoot()
	if err != nil {
		return nil, err
	}

	if cmd.Input != "" {
		path := filepath.Join(root, cmd.Input)

		r.In, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrOpenInput, path, unwrapPathError(err))
		}
	}

	if cmd.Output != "" {
		path := filepath.Join(root, cmd.Output)

		r.Out, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, OutputFileMode)
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("%w: %s: %w", ErrOpenOutput, path, unwrapPathError(err))
		}
	}

	return r, nil
}

// unwrapPathError drops the PathError wrapper so the path is not printed twice.
func unwrapPathError(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}

	return err
}
