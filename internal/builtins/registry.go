// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package builtins

import (
	"context"
	"errors"
	"io"
	"os"
	"sync/atomic"

	"github.com/matt-FFFFFF/mush/internal/jobcontrol"
	"github.com/matt-FFFFFF/mush/internal/monitor"
	"github.com/spf13/afero"
)

var (
	// ErrMissingArgument is returned when a builtin needs an argument that was not given.
	ErrMissingArgument = errors.New("missing argument")
	// ErrVariableNotSet is reported by echo for unknown variables.
	ErrVariableNotSet = errors.New("variable not set")
	// ErrOldPwdNotSet is returned by "cd -" when there is no previous directory.
	ErrOldPwdNotSet = errors.New("OLDPWD not set")
	// ErrMonitorUnavailable is returned by the monitor builtins when no controller is configured.
	ErrMonitorUnavailable = errors.New("monitor is not configured")
	// ErrNoPrompter is returned by config_monitor when there is no way to ask questions.
	ErrNoPrompter = errors.New("no interactive input available")
)

// Builtin runs one in-process command. args[0] is the builtin name.
type Builtin func(ctx context.Context, env *Env, args []string) error

// Monitor is the exporter control surface the monitor builtins call into.
type Monitor interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Update(ctx context.Context) error
	Status(ctx context.Context) error
	Configure(ctx context.Context, p monitor.Prompter) error
}

// PathView selects how the prompt shows the working directory.
type PathView struct {
	full atomic.Bool
}

// NewPathView creates a PathView showing the full path when full is set.
func NewPathView(full bool) *PathView {
	v := &PathView{}
	v.full.Store(full)

	return v
}

// Full reports whether the prompt shows the full working directory.
func (v *PathView) Full() bool {
	return v.full.Load()
}

// Toggle flips the view and returns the new value.
func (v *PathView) Toggle() bool {
	for {
		old := v.full.Load()
		if v.full.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Env is everything a builtin may touch.
type Env struct {
	Stdout     io.Writer
	Stderr     io.Writer
	Path       *PathView
	Supervisor *jobcontrol.Supervisor
	Monitor    Monitor
	Prompter   monitor.Prompter
	Fs         afero.Fs
	// Quit ends the interpreter. It does not return in production.
	Quit func(code int)
}

func (e *Env) quit(code int) {
	if e.Quit != nil {
		e.Quit(code)
		return
	}

	os.Exit(code)
}

type entry struct {
	name string
	fn   Builtin
}

// Registry maps builtin names to their implementations in dispatch order.
type Registry struct {
	entries []entry
	index   map[string]int
}

// NewRegistry returns the registry of every builtin.
func NewRegistry() *Registry {
	r := &Registry{index: make(map[string]int)}

	r.Register("togglepath", TogglePath)
	r.Register("cd", ChangeDir)
	r.Register("clr", Clear)
	r.Register("quit", Quit)
	r.Register("start_monitor", StartMonitor)
	r.Register("stop_monitor", StopMonitor)
	r.Register("update_monitor", UpdateMonitor)
	r.Register("status_monitor", StatusMonitor)
	r.Register("config_monitor", ConfigMonitor)
	r.Register("echo", Echo)
	r.Register("jobs", Jobs)
	r.Register("list_config", ListConfig)
	r.Register("search_config", SearchConfig)

	return r
}

// Register adds or replaces a builtin. A new name is appended to the dispatch order.
func (r *Registry) Register(name string, fn Builtin) {
	if i, ok := r.index[name]; ok {
		r.entries[i].fn = fn
		return
	}

	r.index[name] = len(r.entries)
	r.entries = append(r.entries, entry{name: name, fn: fn})
}

// Lookup returns the builtin named name.
func (r *Registry) Lookup(name string) (Builtin, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}

	return r.entries[i].fn, true
}

// Names lists the builtins in dispatch order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}

	return names
}
