// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package builtins

import (
	"context"

	"github.com/matt-FFFFFF/mush/internal/monitor"
)

var _ Monitor = (*monitor.Controller)(nil)

func withMonitor(env *Env, fn func(Monitor) error) error {
	if env.Monitor == nil {
		return ErrMonitorUnavailable
	}

	return fn(env.Monitor)
}

// StartMonitor launches the metrics exporter.
func StartMonitor(ctx context.Context, env *Env, _ []string) error {
	return withMonitor(env, func(m Monitor) error { return m.Start(ctx) })
}

// StopMonitor stops the metrics exporter.
func StopMonitor(ctx context.Context, env *Env, _ []string) error {
	return withMonitor(env, func(m Monitor) error { return m.Stop(ctx) })
}

// UpdateMonitor makes the exporter reload its configuration.
func UpdateMonitor(ctx context.Context, env *Env, _ []string) error {
	return withMonitor(env, func(m Monitor) error { return m.Update(ctx) })
}

// StatusMonitor reports whether the exporter is running.
func StatusMonitor(ctx context.Context, env *Env, _ []string) error {
	return withMonitor(env, func(m Monitor) error { return m.Status(ctx) })
}

// ConfigMonitor asks for a new exporter configuration.
func ConfigMonitor(ctx context.Context, env *Env, _ []string) error {
	return withMonitor(env, func(m Monitor) error {
		if env.Prompter == nil {
			return ErrNoPrompter
		}

		return m.Configure(ctx, env.Prompter)
	})
}
