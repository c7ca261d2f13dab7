// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"testing"

	"github.com/matt-FFFFFF/mush/internal/cmdline"
	"github.com/matt-FFFFFF/mush/internal/monitor"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestDefault(t *testing.T) {
	t.Setenv("HOME", "/home/alice")

	s := Default()
	assert.True(t, *s.ShowFullPath)
	assert.False(t, *s.LineEditing, "the coloured prompt is the default")
	assert.Equal(t, cmdline.DefaultLimits(), s.Limits())
	assert.Equal(t, DefaultMaxBatchLines, s.MaxBatchLines)
	assert.Equal(t, "/home/alice/.mush_history", s.HistoryFile)

	ms, err := s.MonitorSettings()
	require.NoError(t, err)
	assert.Equal(t, monitor.DefaultSettings(), ms)
}

func TestParse(t *testing.T) {
	t.Setenv("HOME", "/home/alice")

	s, err := Parse([]byte(`
show_full_path: false
line_editing: true
max_args: 16
max_stages: 4
max_batch_lines: 10
history_file: ~/hist/mush
monitor:
  executable: bin/exporter
  config_file: etc/exporter.json
  pid_file: run/exporter.pid
  stop_signal: SIGTERM
  reload_signal: usr1
`))
	require.NoError(t, err)

	assert.False(t, *s.ShowFullPath)
	assert.True(t, *s.LineEditing)
	assert.Equal(t, cmdline.Limits{MaxArgs: 16, MaxStages: 4, MaxPath: cmdline.DefaultMaxPath}, s.Limits())
	assert.Equal(t, 10, s.MaxBatchLines)
	assert.Equal(t, "/home/alice/hist/mush", s.HistoryFile)

	ms, err := s.MonitorSettings()
	require.NoError(t, err)
	assert.Equal(t, monitor.Settings{
		Executable:   "bin/exporter",
		ConfigFile:   "etc/exporter.json",
		PidFile:      "run/exporter.pid",
		StopSignal:   unix.SIGTERM,
		ReloadSignal: unix.SIGUSR1,
	}, ms)
}

func TestParse_NonPositiveLimitsUseDefaults(t *testing.T) {
	s, err := Parse([]byte("max_args: -1\nmax_stages: 0\nmax_batch_lines: -5\n"))
	require.NoError(t, err)

	assert.Equal(t, cmdline.DefaultLimits(), s.Limits())
	assert.Equal(t, DefaultMaxBatchLines, s.MaxBatchLines)
}

func TestParse_Empty(t *testing.T) {
	s, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, cmdline.DefaultLimits(), s.Limits())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "unknown key",
			yaml: "max_argz: 5\n",
			want: ErrInvalidYaml,
		},
		{
			name: "wrong type",
			yaml: "max_args: lots\n",
			want: ErrInvalidYaml,
		},
		{
			name: "unknown stop signal",
			yaml: "monitor:\n  stop_signal: SIGBOGUS\n",
			want: ErrUnknownSignal,
		},
		{
			name: "unknown reload signal",
			yaml: "monitor:\n  reload_signal: SIGWINCH\n",
			want: ErrUnknownSignal,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/mush.yaml", []byte("max_args: 8\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/etc/env.yaml", []byte("max_args: 9\n"), 0o644))

	stubs := gostub.Stub(&FsFactory, func() afero.Fs {
		return fs
	})
	defer stubs.Reset()

	ctx := context.Background()

	t.Run("explicit path", func(t *testing.T) {
		t.Setenv(EnvVar, "/etc/env.yaml")

		s, err := Load(ctx, "/etc/mush.yaml")
		require.NoError(t, err)
		assert.Equal(t, 8, s.MaxArgs)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(EnvVar, "/etc/env.yaml")

		s, err := Load(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, 9, s.MaxArgs)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv(EnvVar, "")

		s, err := Load(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, cmdline.DefaultMaxArgs, s.MaxArgs)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(ctx, "/etc/missing.yaml")
		assert.ErrorIs(t, err, ErrReadConfig)
	})
}

func TestParseSignal(t *testing.T) {
	tests := []struct {
		in   string
		want unix.Signal
	}{
		{"SIGINT", unix.SIGINT},
		{"sighup", unix.SIGHUP},
		{"TERM", unix.SIGTERM},
		{" usr2 ", unix.SIGUSR2},
		{"SIGKILL", unix.SIGKILL},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseSignal(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseSignal("SIGSEGV")
	assert.ErrorIs(t, err, ErrUnknownSignal)
}
