// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/mush/internal/cmdline"
	"github.com/matt-FFFFFF/mush/internal/ctxlog"
	"github.com/matt-FFFFFF/mush/internal/jobcontrol"
)

// Result describes how a foreground command finished.
type Result struct {
	Pid      int
	ExitCode int
	Stopped  bool
	Job      jobcontrol.Job // set when the command was backgrounded or stopped
}

// Run executes a single external command.
//
// Redirection files are opened before the child starts and closed in the
// parent once it has. A background command is announced as "[n] pid" and Run
// returns immediately; a foreground command is waited for until it exits,
// is killed by a signal, or stops.
func (e *Executor) Run(ctx context.Context, cmd *cmdline.Command) (Result, error) {
	redirects, err := OpenRedirects(cmd)
	if err != nil {
		return Result{}, err
	}

	defer func() {
		if cerr := redirects.Close(); cerr != nil {
			ctxlog.Debug(ctx, "close redirection files", "error", cerr)
		}
	}()

	path, err := e.resolve(cmd.Name())
	if err != nil {
		return Result{}, err
	}

	stdin, stdout := e.Stdin, e.Stdout
	if redirects.In != nil {
		stdin = redirects.In
	}

	if redirects.Out != nil {
		stdout = redirects.Out
	}

	pid, err := e.spawn(ctx, path, cmd.Args, stdin, stdout, e.Stderr)
	if err != nil {
		return Result{}, err
	}

	if cmd.Background {
		job := e.Supervisor.Background(pid, cmd.String())
		fmt.Fprintf(e.Out, "[%d] %d\n", job.ID, pid) //nolint:errcheck

		return Result{Pid: pid, Job: job}, nil
	}

	return e.waitForeground(ctx, pid, cmd.String())
}

func (e *Executor) waitForeground(ctx context.Context, pid int, label string) (Result, error) {
	e.Supervisor.SetForeground(pid)
	defer e.Supervisor.ClearForeground(pid)

	st, err := jobcontrol.Wait(pid, true)
	if err != nil {
		return Result{Pid: pid}, err
	}

	res := Result{Pid: pid, ExitCode: st.ExitCode, Stopped: st.Stopped}

	if st.Stopped {
		res.Job = e.Supervisor.Suspended(pid, label)
		fmt.Fprintf(e.Out, "\n%s\n", res.Job) //nolint:errcheck
	}

	ctxlog.Debug(ctx, "foreground process finished",
		"pid", pid, "exit_code", st.ExitCode, "signalled", st.Signalled, "stopped", st.Stopped)

	return res, nil
}
