// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/matt-FFFFFF/mush/internal/color"
	"github.com/matt-FFFFFF/mush/internal/ctxlog"
	"github.com/matt-FFFFFF/mush/internal/executor"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

var (
	// ErrPidFile is returned when the pid file cannot be read or written.
	ErrPidFile = errors.New("monitor pid file")
	// ErrConfigWrite is returned when the exporter configuration cannot be written.
	ErrConfigWrite = errors.New("cannot write monitor configuration")
	// ErrSignal is returned when the exporter cannot be signalled.
	ErrSignal = errors.New("cannot signal monitor")
	// ErrStart is returned when the exporter cannot be started.
	ErrStart = errors.New("cannot start monitor")
)

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Tracker receives the exporter pid so that it is reaped when it exits.
type Tracker interface {
	Track(pid int, label string)
}

// Controller starts, signals and configures the exporter.
type Controller struct {
	Settings Settings
	Fs       afero.Fs
	Tracker  Tracker
	Out      io.Writer

	kill  func(pid int, sig unix.Signal) error
	spawn func(path string, args []string) (int, error)
}

// New creates a Controller using FsFactory and the process' own streams.
func New(s Settings, t Tracker) *Controller {
	return &Controller{
		Settings: s.withDefaults(),
		Fs:       FsFactory(),
		Tracker:  t,
		Out:      os.Stdout,
		kill:     unix.Kill,
		spawn:    startProcess,
	}
}

func startProcess(path string, args []string) (int, error) {
	ps, err := os.StartProcess(path, args, &os.ProcAttr{
		Env:   os.Environ(),
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
		// Own process group: a Ctrl-C at the prompt must not reach the daemon.
		Sys: &syscall.SysProcAttr{Setpgid: true},
	})
	if err != nil {
		return 0, err
	}

	pid := ps.Pid

	return pid, ps.Release()
}

func (c *Controller) path(rel string) (string, error) {
	root, err := executor.ProjectRoot()
	if err != nil {
		return "", err
	}

	return filepath.Join(root, rel), nil
}

// Start launches the exporter with its configuration path and records its pid.
func (c *Controller) Start(ctx context.Context) error {
	exe, err := c.path(c.Settings.Executable)
	if err != nil {
		return err
	}

	cfg, _ := c.path(c.Settings.ConfigFile)
	pidPath, _ := c.path(c.Settings.PidFile)

	pid, err := c.spawn(exe, []string{exe, cfg})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStart, exe, err)
	}

	if c.Tracker != nil {
		c.Tracker.Track(pid, filepath.Base(exe))
	}

	ctxlog.Debug(ctx, "monitor started", "pid", pid, "executable", exe, "config", cfg)

	if err := afero.WriteFile(c.Fs, pidPath, []byte(strconv.Itoa(pid)+"\n"), 0o644); err != nil {
		if kerr := c.kill(pid, unix.SIGKILL); kerr != nil {
			ctxlog.Warn(ctx, "cannot kill unrecorded monitor", "pid", pid, "error", kerr)
		}

		return fmt.Errorf("%w: %s: %w", ErrPidFile, pidPath, err)
	}

	c.say(color.FgGreen, "Monitor started with PID %d", pid)

	return nil
}

// Stop sends the stop signal to the recorded exporter.
func (c *Controller) Stop(ctx context.Context) error {
	if err := c.signal(ctx, c.Settings.StopSignal); err != nil {
		return err
	}

	c.say(color.FgGreen, "Monitor stopped")

	return nil
}

// Update sends the reload signal so the exporter re-reads its configuration.
func (c *Controller) Update(ctx context.Context) error {
	if err := c.signal(ctx, c.Settings.ReloadSignal); err != nil {
		return err
	}

	c.say(color.FgGreen, "Monitor updated")

	return nil
}

// Status probes the recorded pid with signal 0.
func (c *Controller) Status(ctx context.Context) error {
	pid, err := c.readPid()

	switch {
	case errors.Is(err, os.ErrNotExist):
		c.say(color.FgRed, "Monitor is not running")
		return nil
	case err != nil:
		return err
	}

	err = c.kill(pid, 0)

	switch {
	case errors.Is(err, unix.ESRCH):
		c.say(color.FgRed, "Monitor is not running")
	case err != nil:
		return fmt.Errorf("%w: pid %d: %w", ErrSignal, pid, err)
	default:
		c.say(color.FgGreen, "Monitor is running with PID %d", pid)
	}

	ctxlog.Debug(ctx, "monitor probed", "pid", pid, "error", err)

	return nil
}

func (c *Controller) signal(ctx context.Context, sig unix.Signal) error {
	pid, err := c.readPid()
	if err != nil {
		return err
	}

	ctxlog.Debug(ctx, "signalling monitor", "pid", pid, "signal", unix.SignalName(sig))

	if err := c.kill(pid, sig); err != nil {
		return fmt.Errorf("%w: %s to pid %d: %w", ErrSignal, unix.SignalName(sig), pid, err)
	}

	return nil
}

func (c *Controller) readPid() (int, error) {
	path, err := c.path(c.Settings.PidFile)
	if err != nil {
		return 0, err
	}

	b, err := afero.ReadFile(c.Fs, path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrPidFile, path, err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%w: %s: no pid recorded", ErrPidFile, path)
	}

	return pid, nil
}

func (c *Controller) say(code color.Code, format string, args ...any) {
	fmt.Fprintln(c.Out, color.Colorize(fmt.Sprintf(format, args...), code)) // nolint:errcheck
}
