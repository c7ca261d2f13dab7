// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/mush/internal/cmdline"
	"github.com/matt-FFFFFF/mush/internal/ctxlog"
	"github.com/matt-FFFFFF/mush/internal/monitor"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

const (
	// EnvVar names the settings file when no path is given explicitly.
	EnvVar = "MUSH_CONFIG"
	// DefaultMaxBatchLines is the number of lines read from a batch file.
	DefaultMaxBatchLines = 100
	// DefaultHistoryFile is the history file name inside the home directory.
	DefaultHistoryFile = ".mush_history"
)

var (
	// ErrReadConfig is returned when the settings file cannot be read.
	ErrReadConfig = errors.New("cannot read settings file")
	// ErrInvalidYaml is returned when the settings file is not valid.
	ErrInvalidYaml = errors.New("invalid YAML")
	// ErrUnknownSignal is returned for a signal name that cannot be sent to the monitor.
	ErrUnknownSignal = errors.New("unknown signal")
)

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

var signals = map[string]unix.Signal{
	"SIGINT":  unix.SIGINT,
	"SIGTERM": unix.SIGTERM,
	"SIGHUP":  unix.SIGHUP,
	"SIGUSR1": unix.SIGUSR1,
	"SIGUSR2": unix.SIGUSR2,
	"SIGQUIT": unix.SIGQUIT,
	"SIGKILL": unix.SIGKILL,
}

// Settings is the decoded settings file.
type Settings struct {
	ShowFullPath  *bool           `yaml:"show_full_path"`
	LineEditing   *bool           `yaml:"line_editing"`
	MaxArgs       int             `yaml:"max_args"`
	MaxStages     int             `yaml:"max_stages"`
	MaxBatchLines int             `yaml:"max_batch_lines"`
	MaxPath       int             `yaml:"max_path"`
	HistoryFile   string          `yaml:"history_file"`
	Monitor       MonitorSettings `yaml:"monitor"`
}

// MonitorSettings locate the metrics exporter, relative to PROJECT_ROOT.
type MonitorSettings struct {
	Executable   string `yaml:"executable"`
	ConfigFile   string `yaml:"config_file"`
	PidFile      string `yaml:"pid_file"`
	StopSignal   string `yaml:"stop_signal"`
	ReloadSignal string `yaml:"reload_signal"`
}

// Default returns the settings used when there is no settings file.
func Default() *Settings {
	s := &Settings{}
	s.applyDefaults()

	return s
}

// Load reads the settings file at path. An empty path falls back to
// $MUSH_CONFIG and then to Default.
func Load(ctx context.Context, path string) (*Settings, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}

	if path == "" {
		ctxlog.Debug(ctx, "no settings file, using defaults")
		return Default(), nil
	}

	data, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadConfig, path, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	ctxlog.Debug(ctx, "settings loaded", "path", path)

	return s, nil
}

// Parse decodes and validates settings YAML.
func Parse(data []byte) (*Settings, error) {
	s := &Settings{}
	if err := yaml.UnmarshalWithOptions(data, s, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidYaml, err)
	}

	s.applyDefaults()

	if _, err := s.MonitorSettings(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Settings) applyDefaults() {
	if s.ShowFullPath == nil {
		full := true
		s.ShowFullPath = &full
	}

	if s.LineEditing == nil {
		editing := false
		s.LineEditing = &editing
	}

	if s.MaxBatchLines <= 0 {
		s.MaxBatchLines = DefaultMaxBatchLines
	}

	lim := s.Limits()
	s.MaxArgs, s.MaxStages, s.MaxPath = lim.MaxArgs, lim.MaxStages, lim.MaxPath

	if s.HistoryFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			s.HistoryFile = filepath.Join(home, DefaultHistoryFile)
		}
	} else if rest, ok := strings.CutPrefix(s.HistoryFile, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			s.HistoryFile = filepath.Join(home, rest)
		}
	}

	d := monitor.DefaultSettings()

	if s.Monitor.Executable == "" {
		s.Monitor.Executable = d.Executable
	}

	if s.Monitor.ConfigFile == "" {
		s.Monitor.ConfigFile = d.ConfigFile
	}

	if s.Monitor.PidFile == "" {
		s.Monitor.PidFile = d.PidFile
	}

	if s.Monitor.StopSignal == "" {
		s.Monitor.StopSignal = unix.SignalName(d.StopSignal)
	}

	if s.Monitor.ReloadSignal == "" {
		s.Monitor.ReloadSignal = unix.SignalName(d.ReloadSignal)
	}
}

// Limits returns the parser limits, with defaults for unset values.
func (s *Settings) Limits() cmdline.Limits {
	lim := cmdline.Limits{MaxArgs: s.MaxArgs, MaxStages: s.MaxStages, MaxPath: s.MaxPath}
	d := cmdline.DefaultLimits()

	if lim.MaxArgs <= 0 {
		lim.MaxArgs = d.MaxArgs
	}

	if lim.MaxStages <= 0 {
		lim.MaxStages = d.MaxStages
	}

	if lim.MaxPath <= 0 {
		lim.MaxPath = d.MaxPath
	}

	return lim
}

// MonitorSettings converts the monitor section, resolving signal names.
func (s *Settings) MonitorSettings() (monitor.Settings, error) {
	stop, err := ParseSignal(s.Monitor.StopSignal)
	if err != nil {
		return monitor.Settings{}, fmt.Errorf("monitor.stop_signal: %w", err)
	}

	reload, err := ParseSignal(s.Monitor.ReloadSignal)
	if err != nil {
		return monitor.Settings{}, fmt.Errorf("monitor.reload_signal: %w", err)
	}

	return monitor.Settings{
		Executable:   s.Monitor.Executable,
		ConfigFile:   s.Monitor.ConfigFile,
		PidFile:      s.Monitor.PidFile,
		StopSignal:   stop,
		ReloadSignal: reload,
	}, nil
}

// ParseSignal resolves a signal name such as "SIGHUP" or "hup".
func ParseSignal(name string) (unix.Signal, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(key, "SIG") {
		key = "SIG" + key
	}

	sig, ok := signals[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSignal, name)
	}

	return sig, nil
}
