// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package monitor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matt-FFFFFF/mush/internal/color"
	"github.com/matt-FFFFFF/mush/internal/executor"
	"github.com/matt-FFFFFF/mush/internal/jobcontrol"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type tracked struct {
	pid   int
	label string
}

type fakeTracker struct {
	got []tracked
}

func (f *fakeTracker) Track(pid int, label string) {
	f.got = append(f.got, tracked{pid, label})
}

type killCall struct {
	pid int
	sig unix.Signal
}

type fixture struct {
	c       *Controller
	fs      afero.Fs
	out     *bytes.Buffer
	tracker *fakeTracker
	kills   []killCall
	killErr error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	prev := color.SetEnabled(false)
	t.Cleanup(func() { color.SetEnabled(prev) })
	t.Setenv(executor.ProjectRootEnv, "/proj")

	fs := afero.NewMemMapFs()
	stubs := gostub.Stub(&FsFactory, func() afero.Fs {
		return fs
	})
	t.Cleanup(stubs.Reset)

	f := &fixture{fs: fs, out: &bytes.Buffer{}, tracker: &fakeTracker{}}
	f.c = New(Settings{}, f.tracker)
	f.c.Out = f.out
	f.c.kill = func(pid int, sig unix.Signal) error {
		f.kills = append(f.kills, killCall{pid, sig})
		return f.killErr
	}
	f.c.spawn = func(string, []string) (int, error) {
		return 4242, nil
	}

	return f
}

func (f *fixture) writePid(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(f.fs, "/proj/monitor.pid", []byte(content), 0o644))
}

func TestStart(t *testing.T) {
	f := newFixture(t)

	var gotPath string

	var gotArgs []string

	f.c.spawn = func(path string, args []string) (int, error) {
		gotPath, gotArgs = path, args
		return 4242, nil
	}

	require.NoError(t, f.c.Start(context.Background()))

	assert.Equal(t, "/proj/monitor/metrics", gotPath)
	assert.Equal(t, []string{"/proj/monitor/metrics", "/proj/config.json"}, gotArgs)
	assert.Equal(t, []tracked{{4242, "metrics"}}, f.tracker.got)
	assert.Equal(t, "Monitor started with PID 4242\n", f.out.String())

	pid, err := afero.ReadFile(f.fs, "/proj/monitor.pid")
	require.NoError(t, err)
	assert.Equal(t, "4242\n", string(pid))
}

func TestStart_SpawnFailure(t *testing.T) {
	f := newFixture(t)
	f.c.spawn = func(string, []string) (int, error) {
		return 0, os.ErrNotExist
	}

	err := f.c.Start(context.Background())
	require.ErrorIs(t, err, ErrStart)
	assert.Empty(t, f.tracker.got)

	exists, _ := afero.Exists(f.fs, "/proj/monitor.pid")
	assert.False(t, exists)
}

func TestStart_PidFileFailureKillsExporter(t *testing.T) {
	f := newFixture(t)
	f.c.Fs = afero.NewReadOnlyFs(f.fs)

	err := f.c.Start(context.Background())
	require.ErrorIs(t, err, ErrPidFile)

	assert.Equal(t, []killCall{{4242, unix.SIGKILL}}, f.kills)
	assert.Equal(t, []tracked{{4242, "metrics"}}, f.tracker.got, "the killed exporter is still reaped")
	assert.Empty(t, f.out.String())
}

func TestOperations_RequireProjectRoot(t *testing.T) {
	f := newFixture(t)
	t.Setenv(executor.ProjectRootEnv, "")

	ctx := context.Background()
	for name, op := range map[string]func(context.Context) error{
		"start":  f.c.Start,
		"stop":   f.c.Stop,
		"update": f.c.Update,
		"status": f.c.Status,
	} {
		assert.ErrorIs(t, op(ctx), executor.ErrProjectRootNotSet, name)
	}

	assert.ErrorIs(t, f.c.Configure(ctx, &scripted{}), executor.ErrProjectRootNotSet)
}

func TestStopAndUpdate(t *testing.T) {
	tests := []struct {
		name string
		op   func(*Controller) func(context.Context) error
		sig  unix.Signal
		out  string
	}{
		{
			name: "stop",
			op:   func(c *Controller) func(context.Context) error { return c.Stop },
			sig:  unix.SIGINT,
			out:  "Monitor stopped\n",
		},
		{
			name: "update",
			op:   func(c *Controller) func(context.Context) error { return c.Update },
			sig:  unix.SIGHUP,
			out:  "Monitor updated\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.writePid(t, "777\n")

			require.NoError(t, tc.op(f.c)(context.Background()))
			assert.Equal(t, []killCall{{777, tc.sig}}, f.kills)
			assert.Equal(t, tc.out, f.out.String())
		})
	}
}

func TestStop_Failures(t *testing.T) {
	t.Run("no pid file", func(t *testing.T) {
		f := newFixture(t)

		err := f.c.Stop(context.Background())
		require.ErrorIs(t, err, ErrPidFile)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Empty(t, f.kills)
	})

	t.Run("garbage pid file", func(t *testing.T) {
		f := newFixture(t)
		f.writePid(t, "not a pid\n")

		assert.ErrorIs(t, f.c.Stop(context.Background()), ErrPidFile)
		assert.Empty(t, f.kills)
	})

	t.Run("process gone", func(t *testing.T) {
		f := newFixture(t)
		f.writePid(t, "777\n")
		f.killErr = unix.ESRCH

		err := f.c.Stop(context.Background())
		require.ErrorIs(t, err, ErrSignal)
		assert.ErrorIs(t, err, unix.ESRCH)
		assert.Empty(t, f.out.String())
	})
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name    string
		pidFile string
		killErr error
		want    string
		wantErr error
	}{
		{
			name: "no pid file",
			want: "Monitor is not running\n",
		},
		{
			name:    "stale pid",
			pidFile: "777\n",
			killErr: unix.ESRCH,
			want:    "Monitor is not running\n",
		},
		{
			name:    "running",
			pidFile: "777\n",
			want:    "Monitor is running with PID 777\n",
		},
		{
			name:    "not permitted",
			pidFile: "1\n",
			killErr: unix.EPERM,
			wantErr: ErrSignal,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.killErr = tc.killErr

			if tc.pidFile != "" {
				f.writePid(t, tc.pidFile)
			}

			err := f.c.Status(context.Background())
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, f.out.String())

			if tc.pidFile != "" {
				assert.Equal(t, unix.Signal(0), f.kills[0].sig)
			}
		})
	}
}

func TestSettings_Override(t *testing.T) {
	f := newFixture(t)
	f.c.Settings = Settings{
		Executable:   "bin/exporter",
		ConfigFile:   "etc/exporter.json",
		PidFile:      "run/exporter.pid",
		StopSignal:   unix.SIGTERM,
		ReloadSignal: unix.SIGUSR1,
	}.withDefaults()

	require.NoError(t, afero.WriteFile(f.fs, "/proj/run/exporter.pid", []byte("55\n"), 0o644))
	require.NoError(t, f.c.Stop(context.Background()))
	require.NoError(t, f.c.Update(context.Background()))
	assert.Equal(t, []killCall{{55, unix.SIGTERM}, {55, unix.SIGUSR1}}, f.kills)
}

func TestStart_RealExporter(t *testing.T) {
	prev := color.SetEnabled(false)
	t.Cleanup(func() { color.SetEnabled(prev) })

	root := t.TempDir()
	t.Setenv(executor.ProjectRootEnv, root)

	require.NoError(t, os.Mkdir(filepath.Join(root, "monitor"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "monitor", "metrics"), []byte("#!/bin/sh\nexec sleep 30\n"), 0o755))

	sup := jobcontrol.New()
	c := New(DefaultSettings(), sup)
	out := &bytes.Buffer{}
	c.Out = out
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))

	pid, err := c.readPid()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = unix.Kill(pid, unix.SIGKILL)
		_, _ = jobcontrol.Wait(pid, false)
	})

	require.NoError(t, c.Status(ctx))
	assert.Contains(t, out.String(), "Monitor is running with PID")

	require.NoError(t, c.Stop(ctx))

	st, err := jobcontrol.Wait(pid, false)
	require.NoError(t, err)
	assert.True(t, st.Signalled)
	assert.Equal(t, unix.SIGINT, st.Signal)

	out.Reset()
	require.NoError(t, c.Status(ctx))
	assert.Equal(t, "Monitor is not running\n", out.String())
	assert.Empty(t, sup.Jobs(), "the exporter is tracked silently")
}

var errAborted = errors.New("aborted")
