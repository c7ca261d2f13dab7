// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package builtins

import (
	"context"
	"os"
	"testing"

	"github.com/matt-FFFFFF/mush/internal/cmdline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEcho(t *testing.T) {
	t.Setenv("USER", "alice")
	t.Setenv("MUSH_GREETING", "hi there")
	t.Setenv("MUSH_UNSET", "")
	require.NoError(t, os.Unsetenv("MUSH_UNSET"))

	tests := []struct {
		name       string
		line       string
		wantOut    string
		wantStderr string
	}{
		{
			name:    "plain text",
			line:    "echo hello   world",
			wantOut: "hello world\n",
		},
		{
			name:    "no arguments",
			line:    "echo",
			wantOut: "\n",
		},
		{
			name:    "variable",
			line:    "echo Hello $USER",
			wantOut: "Hello alice\n",
		},
		{
			name:    "variable in the middle",
			line:    "echo [$USER ]",
			wantOut: "[alice ]\n",
		},
		{
			name:    "value with spaces",
			line:    "echo $MUSH_GREETING",
			wantOut: "hi there\n",
		},
		{
			name:       "name runs to the next space",
			line:       "echo $USER!",
			wantOut:    "\n",
			wantStderr: "echo: USER!: variable not set\n",
		},
		{
			name:       "unset variable",
			line:       "echo $MUSH_UNSET",
			wantOut:    "\n",
			wantStderr: "echo: MUSH_UNSET: variable not set\n",
		},
		{
			name:       "unset variable continues",
			line:       "echo a $MUSH_UNSET b $USER",
			wantOut:    "a  b alice\n",
			wantStderr: "echo: MUSH_UNSET: variable not set\n",
		},
		{
			name:       "lone dollar",
			line:       "echo cost $ 5",
			wantOut:    "cost  5\n",
			wantStderr: "echo: : variable not set\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := cmdline.ParseLine(tc.line, cmdline.DefaultLimits())
			require.NoError(t, err)

			env, stdout, stderr := newEnv()

			require.NoError(t, Echo(context.Background(), env, cmd.Args))
			assert.Equal(t, tc.wantOut, stdout.String())
			assert.Equal(t, tc.wantStderr, stderr.String())
		})
	}
}
