// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/matt-FFFFFF/mush/internal/cmdline"
	"github.com/matt-FFFFFF/mush/internal/ctxlog"
	"github.com/matt-FFFFFF/mush/internal/jobcontrol"
)

var (
	// ErrCommandNotFound is returned when a program cannot be resolved on PATH.
	ErrCommandNotFound = errors.New("command not found")
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
)

// Executor runs external programs on behalf of the read loop.
type Executor struct {
	Supervisor *jobcontrol.Supervisor
	Limits     cmdline.Limits

	// Standard streams handed to children that are not redirected.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Out receives job announcements such as "[1] 4242".
	Out io.Writer

	lookPath func(string) (string, error)
}

// New creates an Executor wired to the interpreter's own standard streams.
func New(sup *jobcontrol.Supervisor, lim cmdline.Limits) *Executor {
	return &Executor{
		Supervisor: sup,
		Limits:     lim,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Out:        os.Stdout,
		lookPath:   exec.LookPath,
	}
}

func (e *Executor) resolve(name string) (string, error) {
	lookPath := e.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	path, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrCommandNotFound)
	}

	return path, nil
}

// spawn starts path with exactly the three given standard streams and
// returns its pid. The os.Process handle is released at once: children are
// waited on by pid through jobcontrol so that stops can be observed.
func (e *Executor) spawn(ctx context.Context, path string, args []string, stdin, stdout, stderr *os.File) (int, error) {
	ps, err := os.StartProcess(path, args, &os.ProcAttr{
		Env:   os.Environ(),
		Files: []*os.File{stdin, stdout, stderr},
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %w", args[0], ErrCouldNotStartProcess, err)
	}

	pid := ps.Pid
	if err := ps.Release(); err != nil {
		ctxlog.Debug(ctx, "release process handle", "pid", pid, "error", err)
	}

	ctxlog.Debug(ctx, "process started", "pid", pid, "path", path, "args", args)

	return pid, nil
}
