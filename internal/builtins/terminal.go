// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package builtins

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/mush/internal/color"
	"github.com/matt-FFFFFF/mush/internal/ctxlog"
)

// Clear homes the cursor and clears the screen.
func Clear(_ context.Context, env *Env, _ []string) error {
	_, err := fmt.Fprint(env.Stdout, color.ClearScreen)
	return err
}

// Quit ends the interpreter with status 0.
func Quit(ctx context.Context, env *Env, _ []string) error {
	ctxlog.Debug(ctx, "quit requested")
	env.quit(0)

	return nil
}

// TogglePath switches the prompt between the full directory and its last element.
func TogglePath(ctx context.Context, env *Env, _ []string) error {
	full := env.Path.Toggle()
	ctxlog.Debug(ctx, "prompt path view toggled", "full", full)

	return nil
}

// Jobs lists the numbered jobs that have not finished.
func Jobs(_ context.Context, env *Env, _ []string) error {
	if env.Supervisor == nil {
		return nil
	}

	for _, j := range env.Supervisor.Jobs() {
		if _, err := fmt.Fprintln(env.Stdout, j); err != nil {
			return err
		}
	}

	return nil
}
