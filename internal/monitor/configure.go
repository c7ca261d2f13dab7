// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/TylerBrock/colorjson"
	"github.com/matt-FFFFFF/mush/internal/color"
	"github.com/matt-FFFFFF/mush/internal/ctxlog"
	"github.com/spf13/afero"
)

// DefaultSleepTime is used when the sleep time answer is not a positive integer.
const DefaultSleepTime = 1

// Prompter asks the user one question and returns the answer line.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// Metrics selects the collectors the exporter runs.
type Metrics struct {
	CPU             bool `json:"cpu"`
	Memory          bool `json:"memory"`
	DiskIO          bool `json:"disk_io"`
	Network         bool `json:"network"`
	ProcessCount    bool `json:"process_count"`
	ContextSwitches bool `json:"context_switches"`
}

// Config is the exporter configuration file.
type Config struct {
	Metrics   Metrics `json:"metrics"`
	SleepTime int     `json:"sleep_time"`
}

// Configure asks for every metric toggle and the sampling interval, then
// writes the exporter configuration. Invalid answers fall back to true and
// DefaultSleepTime respectively. End of input counts as an invalid answer;
// any other prompt error aborts without writing.
func (c *Controller) Configure(ctx context.Context, p Prompter) error {
	path, err := c.path(c.Settings.ConfigFile)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.Out, "Enter 't' or 'f' for the following metrics:") // nolint:errcheck

	var cfg Config

	toggles := []struct {
		label string
		dst   *bool
	}{
		{"CPU", &cfg.Metrics.CPU},
		{"Memory", &cfg.Metrics.Memory},
		{"Disk IO", &cfg.Metrics.DiskIO},
		{"Network", &cfg.Metrics.Network},
		{"Process Count", &cfg.Metrics.ProcessCount},
		{"Context Switches", &cfg.Metrics.ContextSwitches},
	}

	for _, t := range toggles {
		answer, err := ask(p, t.label+": ")
		if err != nil {
			return err
		}

		switch {
		case strings.HasPrefix(answer, "t"):
			*t.dst = true
		case strings.HasPrefix(answer, "f"):
			*t.dst = false
		default:
			*t.dst = true
			c.say(color.FgRed, "Invalid input. Setting %s to true by default.", t.label)
		}
	}

	answer, err := ask(p, "Enter sleep time (in seconds): ")
	if err != nil {
		return err
	}

	if cfg.SleepTime = leadingInt(answer); cfg.SleepTime <= 0 {
		cfg.SleepTime = DefaultSleepTime
		c.say(color.FgRed, "Invalid input. Setting sleep time to %d second by default.", DefaultSleepTime)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigWrite, err)
	}

	if err := afero.WriteFile(c.Fs, path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConfigWrite, path, err)
	}

	ctxlog.Debug(ctx, "monitor configuration written", "path", path)

	c.say(color.FgGreen, "Configuration updated successfully.")
	c.printConfig(ctx, data)
	fmt.Fprintln(c.Out, "Please update the monitor process to apply the changes with the update_monitor command.") // nolint:errcheck

	return nil
}

func (c *Controller) printConfig(ctx context.Context, data []byte) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		ctxlog.Debug(ctx, "cannot decode written configuration", "error", err)
		return
	}

	f := colorjson.NewFormatter()
	f.Indent = 2
	f.DisabledColor = !color.Enabled()

	out, err := f.Marshal(obj)
	if err != nil {
		ctxlog.Debug(ctx, "cannot format written configuration", "error", err)
		return
	}

	fmt.Fprintln(c.Out, string(out)) // nolint:errcheck
}

func ask(p Prompter, prompt string) (string, error) {
	answer, err := p.Prompt(prompt)
	if errors.Is(err, io.EOF) {
		return "", nil
	}

	return strings.TrimSpace(answer), err
}

// leadingInt parses the optional sign and digits at the start of s, like atoi.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)

	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0

	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}

		n = n*10 + int(r-'0')
		if n > 1<<30 {
			break
		}
	}

	if neg {
		return -n
	}

	return n
}
