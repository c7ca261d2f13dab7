// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/mush/internal/cmdline"
	"github.com/matt-FFFFFF/mush/internal/ctxlog"
	"github.com/matt-FFFFFF/mush/internal/jobcontrol"
)

type pipe struct {
	r, w *os.File
}

// RunPipeline executes a line containing '|' as one process per stage.
//
// Stage i reads from stage i-1 and writes to stage i+1; the first stage reads
// the interpreter's input and the last writes to its output. A stage that
// cannot be started is reported in the returned error while the remaining
// stages still run. The parent closes every pipe end once all stages are
// started and waits for all of them.
func (e *Executor) RunPipeline(ctx context.Context, line string) error {
	stages, err := cmdline.SplitPipeline(line, e.Limits)
	if err != nil {
		return err
	}

	argvs := make([][]string, len(stages))
	for i, s := range stages {
		if argvs[i], err = cmdline.ParseStage(s, e.Limits); err != nil {
			return err
		}
	}

	pipes, err := makePipes(len(stages) - 1)
	if err != nil {
		return err
	}

	var (
		merr *multierror.Error
		pids = make([]int, 0, len(stages))
	)

	for i, argv := range argvs {
		stdin, stdout := e.Stdin, e.Stdout
		if i > 0 {
			stdin = pipes[i-1].r
		}

		if i < len(pipes) {
			stdout = pipes[i].w
		}

		path, err := e.resolve(argv[0])
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}

		pid, err := e.spawn(ctx, path, argv, stdin, stdout, e.Stderr)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}

		pids = append(pids, pid)
	}

	closePipes(ctx, pipes)

	if len(pids) > 0 {
		if err := e.waitPipeline(ctx, pids, cmdline.TrimNewline(line)); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	ctxlog.Debug(ctx, "pipeline finished", "stages", len(stages), "started", len(pids))

	return merr.ErrorOrNil()
}

// waitPipeline waits for every stage with all of them in the foreground slot,
// so a forwarded signal reaches each stage. When a stage stops, the pipeline
// is recorded as a stopped job and the stages not yet collected are left to
// the reaper.
func (e *Executor) waitPipeline(ctx context.Context, pids []int, label string) error {
	e.Supervisor.SetForeground(pids...)
	defer e.Supervisor.ClearForeground(pids[len(pids)-1])

	var merr *multierror.Error

	for i, pid := range pids {
		st, err := jobcontrol.Wait(pid, true)
		if err != nil {
			merr = multierror.Append(merr, err)
			e.Supervisor.RemoveForeground(pid)

			continue
		}

		if !st.Stopped {
			e.Supervisor.RemoveForeground(pid)
			continue
		}

		job := e.Supervisor.Suspended(pid, label)
		for _, rest := range pids[i+1:] {
			e.Supervisor.Track(rest, label)
		}

		fmt.Fprintf(e.Out, "\n%s\n", job) //nolint:errcheck
		ctxlog.Debug(ctx, "pipeline stopped", "job", job.ID, "pid", pid, "pending", len(pids[i+1:]))

		break
	}

	return merr.ErrorOrNil()
}

func makePipes(n int) ([]pipe, error) {
	pipes := make([]pipe, 0, n)

	for range n {
		r, w, err := os.Pipe()
		if err != nil {
			closePipes(context.Background(), pipes)
			return nil, fmt.Errorf("%w: %w", ErrFailedToCreatePipe, err)
		}

		pipes = append(pipes, pipe{r: r, w: w})
	}

	return pipes, nil
}

func closePipes(ctx context.Context, pipes []pipe) {
	for _, p := range pipes {
		if err := p.r.Close(); err != nil {
			ctxlog.Debug(ctx, "close pipe read end", "error", err)
		}

		if err := p.w.Close(); err != nil {
			ctxlog.Debug(ctx, "close pipe write end", "error", err)
		}
	}
}
