// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package builtins

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matt-FFFFFF/mush/internal/ctxlog"
)

// ChangeDir implements cd.
//
// "cd -" switches to $OLDPWD and prints the new directory. On success OLDPWD
// holds the previous $PWD (or the previous working directory when PWD was
// unset) and PWD the new working directory. On failure neither the working
// directory nor the environment changes.
func ChangeDir(ctx context.Context, env *Env, args []string) error {
	target := strings.Join(args[1:], " ")
	if target == "" {
		return ErrMissingArgument
	}

	announce := false

	if target == "-" {
		old := os.Getenv("OLDPWD")
		if old == "" {
			return ErrOldPwdNotSet
		}

		target, announce = old, true
	}

	prev, err := os.Getwd()
	if err != nil {
		return err
	}

	if !filepath.IsAbs(target) {
		target = filepath.Join(prev, target)
	}

	if err := os.Chdir(target); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			err = pe.Err
		}

		return fmt.Errorf("%s: %w", target, err)
	}

	now, err := os.Getwd()
	if err != nil {
		now = filepath.Clean(target)
	}

	oldpwd := os.Getenv("PWD")
	if oldpwd == "" {
		oldpwd = prev
	}

	if err := errors.Join(os.Setenv("OLDPWD", oldpwd), os.Setenv("PWD", now)); err != nil {
		return err
	}

	ctxlog.Debug(ctx, "changed directory", "from", oldpwd, "to", now)

	if announce {
		fmt.Fprintln(env.Stdout, now) // nolint:errcheck
	}

	return nil
}
