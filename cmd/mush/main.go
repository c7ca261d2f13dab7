// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the mush command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/mush"
	"github.com/matt-FFFFFF/mush/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

const (
	configFlag   = "config"
	logLevelFlag = "log-level"
)

// newRootCmd builds the root command. Each call returns a fresh command so
// that flag state is never shared between runs.
func newRootCmd() *cli.Command {
	return &cli.Command{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "mush",
		Description: `mush is a small line-oriented command interpreter. Without arguments
it reads commands from the terminal; given a BATCHFILE (a local path or any
go-getter source) it executes the file's lines in order and exits.`,
		Usage:     "mush [--config FILE] [--log-level LEVEL] [BATCHFILE]",
		ArgsUsage: "[BATCHFILE]",
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		Version: fmt.Sprintf("%s (commit: %s)", mush.Version, mush.Commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      configFlag,
				Aliases:   []string{"c"},
				Usage:     "path to a YAML settings file, defaults to $MUSH_CONFIG",
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:  logLevelFlag,
				Usage: "diagnostic log level (debug, info, warn, error)",
			},
		},
		Action: actionFunc,
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	err := newRootCmd().Run(ctx, os.Args) // exit codes are handled by the cli framework

	cancel()

	if err != nil {
		ctxlog.Logger(ctx).Error("mush failed", "error", err)
		os.Exit(1)
	}
}
