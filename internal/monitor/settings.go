// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package monitor

import (
	"golang.org/x/sys/unix"
)

// Default locations, relative to PROJECT_ROOT.
const (
	DefaultExecutable = "monitor/metrics"
	DefaultConfigFile = "config.json"
	DefaultPidFile    = "monitor.pid"
)

// Settings locate the exporter and choose the signals sent to it.
type Settings struct {
	Executable   string
	ConfigFile   string
	PidFile      string
	StopSignal   unix.Signal
	ReloadSignal unix.Signal
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		Executable:   DefaultExecutable,
		ConfigFile:   DefaultConfigFile,
		PidFile:      DefaultPidFile,
		StopSignal:   unix.SIGINT,
		ReloadSignal: unix.SIGHUP,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()

	if s.Executable == "" {
		s.Executable = d.Executable
	}

	if s.ConfigFile == "" {
		s.ConfigFile = d.ConfigFile
	}

	if s.PidFile == "" {
		s.PidFile = d.PidFile
	}

	if s.StopSignal == 0 {
		s.StopSignal = d.StopSignal
	}

	if s.ReloadSignal == 0 {
		s.ReloadSignal = d.ReloadSignal
	}

	return s
}
