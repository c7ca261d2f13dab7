// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdline

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultMaxArgs is the largest argument vector accepted by default.
	DefaultMaxArgs = 512
	// DefaultMaxStages is the largest number of pipeline stages accepted by default.
	DefaultMaxStages = 100
	// DefaultMaxPath is the longest redirection path accepted by default.
	DefaultMaxPath = 4096

	backgroundToken = "&"
	pipeSeparator   = "|"
	redirectIn      = '<'
	redirectOut     = '>'
)

var (
	// ErrTooManyArguments is returned when a line has more arguments than allowed.
	ErrTooManyArguments = errors.New("too many arguments")
	// ErrTooManyStages is returned when a pipeline has more stages than allowed.
	ErrTooManyStages = errors.New("too many commands in pipeline")
	// ErrEmptyStage is returned when a pipeline stage has no command.
	ErrEmptyStage = errors.New("empty pipeline stage")
	// ErrMissingRedirectTarget is returned when < or > is not followed by a path.
	ErrMissingRedirectTarget = errors.New("missing redirection path")
	// ErrDuplicateRedirect is returned when a line redirects the same stream twice.
	ErrDuplicateRedirect = errors.New("duplicate redirection")
	// ErrPathTooLong is returned when a redirection path exceeds the limit.
	ErrPathTooLong = errors.New("path too long")
)

// Limits bounds the size of a parsed line.
type Limits struct {
	MaxArgs   int
	MaxStages int
	MaxPath   int
}

// DefaultLimits returns the limits used when no settings override them.
func DefaultLimits() Limits {
	return Limits{
		MaxArgs:   DefaultMaxArgs,
		MaxStages: DefaultMaxStages,
		MaxPath:   DefaultMaxPath,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()

	if l.MaxArgs <= 0 {
		l.MaxArgs = d.MaxArgs
	}

	if l.MaxStages <= 0 {
		l.MaxStages = d.MaxStages
	}

	if l.MaxPath <= 0 {
		l.MaxPath = d.MaxPath
	}

	return l
}

// Command is a single parsed command line.
type Command struct {
	Args       []string // Args[0] is the command name.
	Input      string   // Input redirection path, empty if none.
	Output     string   // Output redirection path, empty if none.
	Background bool     // A trailing & was present.
}

// Name returns the command name, or an empty string for a blank line.
func (c *Command) Name() string {
	if c == nil || len(c.Args) == 0 {
		return ""
	}

	return c.Args[0]
}

// Text returns the arguments after the command name joined by single spaces.
func (c *Command) Text() string {
	if c == nil || len(c.Args) < 2 {
		return ""
	}

	return strings.Join(c.Args[1:], " ")
}

// String renders the argument vector, used as a job label.
func (c *Command) String() string {
	if c == nil {
		return ""
	}

	return strings.Join(c.Args, " ")
}

// Redirected reports whether either stream is redirected.
func (c *Command) Redirected() bool {
	return c.Input != "" || c.Output != ""
}

// TrimNewline removes one trailing line terminator.
func TrimNewline(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// ParseLine splits a single (non-pipeline) line into a Command.
// The < and > operators may appear anywhere and in any order; each takes
// the next blank-delimited word as its path.
// A blank line yields a Command with no arguments.
func ParseLine(line string, lim Limits) (*Command, error) {
	lim = lim.withDefaults()
	line = TrimNewline(line)

	cmd := &Command{}

	var rest strings.Builder

	rest.Grow(len(line))

	for i := 0; i < len(line); i++ {
		c := line[i]
		if c != redirectIn && c != redirectOut {
			rest.WriteByte(c)
			continue
		}

		target := &cmd.Input
		if c == redirectOut {
			target = &cmd.Output
		}

		if *target != "" {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRedirect, string(c))
		}

		j := i + 1
		for j < len(line) && isBlank(line[j]) {
			j++
		}

		start := j
		for j < len(line) && !isBlank(line[j]) && line[j] != redirectIn && line[j] != redirectOut {
			j++
		}

		path := line[start:j]
		if path == "" {
			return nil, fmt.Errorf("%w after %q", ErrMissingRedirectTarget, string(c))
		}

		if len(path) > lim.MaxPath {
			return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrPathTooLong, len(path), lim.MaxPath)
		}

		*target = path
		// keep words on either side of the operator apart
		rest.WriteByte(' ')

		i = j - 1
	}

	args := Fields(rest.String())

	if n := len(args); n > 0 && args[n-1] == backgroundToken {
		cmd.Background = true
		args = args[:n-1]
	}

	if len(args) > lim.MaxArgs {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyArguments, len(args), lim.MaxArgs)
	}

	cmd.Args = args

	return cmd, nil
}

// HasPipe reports whether the line is a pipeline.
func HasPipe(line string) bool {
	return strings.Contains(line, pipeSeparator)
}

// SplitPipeline splits a pipeline line into its stage texts.
func SplitPipeline(line string, lim Limits) ([]string, error) {
	lim = lim.withDefaults()
	stages := strings.Split(TrimNewline(line), pipeSeparator)

	if len(stages) > lim.MaxStages {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyStages, len(stages), lim.MaxStages)
	}

	for i, s := range stages {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, fmt.Errorf("%w: stage %d", ErrEmptyStage, i+1)
		}

		stages[i] = s
	}

	return stages, nil
}

// ParseStage splits one pipeline stage into an argument vector.
// Redirection characters have no special meaning inside a stage.
func ParseStage(text string, lim Limits) ([]string, error) {
	lim = lim.withDefaults()

	args := Fields(text)
	if len(args) == 0 {
		return nil, ErrEmptyStage
	}

	if len(args) > lim.MaxArgs {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyArguments, len(args), lim.MaxArgs)
	}

	return args, nil
}

// Fields splits s on runs of spaces and tabs.
func Fields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t'
	})
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}
