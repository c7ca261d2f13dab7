// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Run is the interactive loop. It returns nil at end of input, after quit,
// or when ctx is cancelled, and an error only when reading fails.
// r also answers the questions builtins ask.
func (s *Shell) Run(ctx context.Context, r LineReader) error {
	s.Env.Prompter = r

	for !s.quitting && ctx.Err() == nil {
		s.PrintNotices(ctx)

		line, err := r.Prompt(s.Prompt())

		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(s.Out) // nolint:errcheck
			return nil
		case errors.Is(err, ErrInterrupted):
			continue
		case err != nil:
			return err
		}

		if strings.TrimSpace(line) != "" {
			r.AppendHistory(line)
		}

		if err := s.Execute(ctx, line); err != nil {
			s.Report(ctx, err)
		}
	}

	return nil
}

// RunBatch executes lines in order, at most MaxBatchLines of them. It stops
// early after quit or when ctx is cancelled. Prompts issued by builtins read from p.
func (s *Shell) RunBatch(ctx context.Context, lines []string, p LineReader) {
	s.Env.Prompter = p

	if s.MaxBatchLines > 0 && len(lines) > s.MaxBatchLines {
		lines = lines[:s.MaxBatchLines]
	}

	for _, line := range lines {
		if s.quitting || ctx.Err() != nil {
			return
		}

		if err := s.Execute(ctx, line); err != nil {
			s.Report(ctx, err)
		}

		s.PrintNotices(ctx)
	}
}
