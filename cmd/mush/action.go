// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/mush/internal/config"
	"github.com/matt-FFFFFF/mush/internal/ctxlog"
	"github.com/matt-FFFFFF/mush/internal/jobcontrol"
	"github.com/matt-FFFFFF/mush/internal/monitor"
	"github.com/matt-FFFFFF/mush/internal/shell"
	"github.com/matt-FFFFFF/mush/internal/signalbroker"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	if lvl := cmd.String(logLevelFlag); lvl != "" {
		l, err := ctxlog.ParseLevel(lvl)
		if err != nil {
			return cli.Exit(err.Error(), exitUsage)
		}

		ctxlog.LevelVar.Set(l)
	}

	if cmd.Args().Len() > 1 {
		return cli.Exit("usage: "+cmd.Usage, exitUsage)
	}

	settings, err := config.Load(ctx, cmd.String(configFlag))
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	user, host, err := shell.Identity()
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	if err := shell.InitWorkingDir(); err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	ms, err := settings.MonitorSettings()
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	sup := jobcontrol.New()

	sigCh := signalbroker.New(ctx)
	defer signalbroker.Stop(sigCh)

	chldCh := signalbroker.Child(ctx)
	defer signalbroker.Stop(chldCh)

	stop := sup.Start(ctx, sigCh, chldCh)
	defer stop()

	sh := shell.New(shell.Options{
		User:       user,
		Host:       host,
		Settings:   settings,
		Supervisor: sup,
		Monitor:    monitor.New(ms, sup),
	})

	if cmd.Args().Len() == 1 {
		src := cmd.Args().First()

		lines, err := shell.LoadBatch(ctx, src, settings.MaxBatchLines)
		if err != nil {
			return cli.Exit(err.Error(), exitFailure)
		}

		ctxlog.Debug(ctx, "running batch", "source", src, "lines", len(lines))
		sh.RunBatch(ctx, lines, shell.NewPlainReader(os.Stdin, os.Stdout))

		return exit(sh)
	}

	r := newReader(ctx, settings)

	runErr := sh.Run(ctx, r)

	if err := r.Close(); err != nil {
		ctxlog.Warn(ctx, "could not save history", "error", err)
	}

	if runErr != nil {
		return cli.Exit(runErr.Error(), exitFailure)
	}

	return exit(sh)
}

// newReader uses the line editor only when stdin is a terminal.
func newReader(ctx context.Context, settings *config.Settings) shell.LineReader {
	if *settings.LineEditing && term.IsTerminal(int(os.Stdin.Fd())) {
		return shell.NewLineEditor(ctx, settings.HistoryFile)
	}

	return shell.NewPlainReader(os.Stdin, os.Stdout)
}

func exit(sh *shell.Shell) error {
	if code := sh.ExitCode(); code != 0 {
		return cli.Exit("", code)
	}

	return nil
}
