// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package builtins

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/mush/internal/configsearch"
	"github.com/spf13/afero"
)

func (e *Env) fs() afero.Fs {
	if e.Fs != nil {
		return e.Fs
	}

	return configsearch.FsFactory()
}

// ListConfig lists configuration files in a directory: list_config DIR.
func ListConfig(_ context.Context, env *Env, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: usage: list_config DIR", ErrMissingArgument)
	}

	_, err := configsearch.List(env.fs(), args[1], env.Stdout)

	return err
}

// SearchConfig searches a tree for files by extension: search_config DIR EXT.
func SearchConfig(ctx context.Context, env *Env, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: usage: search_config DIR EXT", ErrMissingArgument)
	}

	_, err := configsearch.Search(ctx, env.fs(), args[1], args[2], env.Stdout)

	return err
}
