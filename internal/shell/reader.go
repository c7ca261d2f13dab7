// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/matt-FFFFFF/mush/internal/ctxlog"
	"github.com/peterh/liner"
	"github.com/spf13/afero"
)

// ErrInterrupted is returned by a LineReader when the user pressed Ctrl-C at the prompt.
var ErrInterrupted = errors.New("prompt interrupted")

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// LineReader reads one line per prompt. It returns io.EOF at end of input.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

var ansiSequence = regexp.MustCompile("\x1b\\[[0-9;]*m")

// LineEditor is a LineReader with line editing and history, for terminals.
type LineEditor struct {
	state       *liner.State
	historyFile string
}

// NewLineEditor puts liner in charge of the terminal and loads history from
// historyFile when it exists. An empty historyFile disables history persistence.
func NewLineEditor(ctx context.Context, historyFile string) *LineEditor {
	st := liner.NewLiner()
	st.SetCtrlCAborts(true)

	e := &LineEditor{state: st, historyFile: historyFile}

	if historyFile == "" {
		return e
	}

	f, err := FsFactory().Open(historyFile)
	if err != nil {
		ctxlog.Debug(ctx, "no history loaded", "path", historyFile, "error", err)
		return e
	}
	defer f.Close() //nolint:errcheck

	if _, err := st.ReadHistory(f); err != nil {
		ctxlog.Warn(ctx, "cannot read history", "path", historyFile, "error", err)
	}

	return e
}

// Prompt reads a line. liner cannot measure escape sequences, so colours are dropped.
func (e *LineEditor) Prompt(prompt string) (string, error) {
	line, err := e.state.Prompt(ansiSequence.ReplaceAllString(prompt, ""))
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrInterrupted
	}

	return line, err
}

// AppendHistory records line in the in-memory history.
func (e *LineEditor) AppendHistory(line string) {
	e.state.AppendHistory(line)
}

// Close saves the history and gives the terminal back.
func (e *LineEditor) Close() error {
	var errs []error

	if e.historyFile != "" {
		errs = append(errs, e.saveHistory())
	}

	errs = append(errs, e.state.Close())

	return errors.Join(errs...)
}

func (e *LineEditor) saveHistory() error {
	f, err := FsFactory().OpenFile(e.historyFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if _, err := e.state.WriteHistory(f); err != nil {
		return fmt.Errorf("save history: %w", err)
	}

	return nil
}

// PlainReader is a LineReader over any io.Reader. The prompt is written as is.
type PlainReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPlainReader reads lines from in and writes prompts to out.
func NewPlainReader(in io.Reader, out io.Writer) *PlainReader {
	return &PlainReader{in: bufio.NewReader(in), out: out}
}

// Prompt writes prompt and reads up to the next newline.
// A final line without a newline is returned before io.EOF.
func (r *PlainReader) Prompt(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(r.out, prompt) // nolint:errcheck
	}

	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// AppendHistory is a no-op.
func (r *PlainReader) AppendHistory(string) {}

// Close is a no-op.
func (r *PlainReader) Close() error { return nil }
