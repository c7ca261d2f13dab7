// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/mush/internal/builtins"
	"github.com/matt-FFFFFF/mush/internal/cmdline"
	"github.com/matt-FFFFFF/mush/internal/config"
	"github.com/matt-FFFFFF/mush/internal/ctxlog"
	"github.com/matt-FFFFFF/mush/internal/executor"
	"github.com/matt-FFFFFF/mush/internal/jobcontrol"
)

// Name prefixes diagnostics printed by the read loop.
const Name = "mush"

// Options configure a Shell.
type Options struct {
	User       string
	Host       string
	Settings   *config.Settings
	Supervisor *jobcontrol.Supervisor
	Monitor    builtins.Monitor
}

// Shell dispatches lines to builtins and the executor.
type Shell struct {
	User string
	Host string

	Registry   *builtins.Registry
	Env        *builtins.Env
	Exec       *executor.Executor
	Supervisor *jobcontrol.Supervisor

	Limits        cmdline.Limits
	MaxBatchLines int

	// Out receives prompts and job notices, Err diagnostics.
	Out io.Writer
	Err io.Writer

	quitting bool
	exitCode int
}

// New wires a Shell to the process' standard streams.
func New(opts Options) *Shell {
	settings := opts.Settings
	if settings == nil {
		settings = config.Default()
	}

	sup := opts.Supervisor
	if sup == nil {
		sup = jobcontrol.New()
	}

	lim := settings.Limits()

	s := &Shell{
		User:          opts.User,
		Host:          opts.Host,
		Registry:      builtins.NewRegistry(),
		Exec:          executor.New(sup, lim),
		Supervisor:    sup,
		Limits:        lim,
		MaxBatchLines: settings.MaxBatchLines,
		Out:           os.Stdout,
		Err:           os.Stderr,
	}

	s.Env = &builtins.Env{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Path:       builtins.NewPathView(*settings.ShowFullPath),
		Supervisor: sup,
		Monitor:    opts.Monitor,
		Quit:       s.requestQuit,
	}

	return s
}

func (s *Shell) requestQuit(code int) {
	s.quitting, s.exitCode = true, code
}

// Quitting reports whether quit has run.
func (s *Shell) Quitting() bool {
	return s.quitting
}

// ExitCode is the status requested by quit.
func (s *Shell) ExitCode() int {
	return s.exitCode
}

// Execute runs one line. Errors concern only this line; the caller reports
// them and carries on.
func (s *Shell) Execute(ctx context.Context, line string) error {
	line = cmdline.TrimNewline(line)

	fields := cmdline.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	if fn, ok := s.Registry.Lookup(fields[0]); ok {
		cmd, err := cmdline.ParseLine(line, s.Limits)
		if err != nil {
			return err
		}

		return s.runBuiltin(ctx, fn, cmd)
	}

	if cmdline.HasPipe(line) {
		return s.Exec.RunPipeline(ctx, line)
	}

	cmd, err := cmdline.ParseLine(line, s.Limits)
	if err != nil {
		return err
	}

	if len(cmd.Args) == 0 {
		return nil
	}

	res, err := s.Exec.Run(ctx, cmd)
	if err != nil {
		return err
	}

	ctxlog.Debug(ctx, "command finished", "command", cmd.String(), "exit_code", res.ExitCode)

	return nil
}

// runBuiltin runs fn in-process. echo is the one builtin that honours
// output redirection; every other redirection and & are ignored.
func (s *Shell) runBuiltin(ctx context.Context, fn builtins.Builtin, cmd *cmdline.Command) error {
	env := *s.Env

	if cmd.Name() == "echo" && cmd.Output != "" {
		r, err := executor.OpenRedirects(&cmdline.Command{Args: cmd.Args, Output: cmd.Output})
		if err != nil {
			return fmt.Errorf("%s: %w", cmd.Name(), err)
		}

		defer r.Close() //nolint:errcheck

		env.Stdout = r.Out
	}

	if err := fn(ctx, &env, cmd.Args); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}

	return nil
}

// Report prints a line error on the diagnostic stream.
func (s *Shell) Report(ctx context.Context, err error) {
	ctxlog.Debug(ctx, "command failed", "error", err)
	fmt.Fprintf(s.Err, "%s: %v\n", Name, err) // nolint:errcheck
}

// PrintNotices reaps finished jobs and prints every queued job notice.
func (s *Shell) PrintNotices(ctx context.Context) {
	s.Supervisor.Reap(ctx)

	for _, j := range s.Supervisor.Notices() {
		fmt.Fprintln(s.Out, j) // nolint:errcheck
	}
}
