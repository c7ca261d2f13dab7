// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matt-FFFFFF/mush/internal/color"
	"github.com/matt-FFFFFF/mush/internal/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testShell struct {
	*Shell
	out    *bytes.Buffer
	errOut *bytes.Buffer
	stdout *os.File
	root   string
}

func newTestShell(t *testing.T) *testShell {
	t.Helper()

	prev := color.SetEnabled(false)
	t.Cleanup(func() { color.SetEnabled(prev) })

	root := t.TempDir()
	t.Setenv(executor.ProjectRootEnv, root)

	stdin, err := os.Open(os.DevNull)
	require.NoError(t, err)
	t.Cleanup(func() { stdin.Close() }) //nolint:errcheck

	stdout, err := os.CreateTemp(t.TempDir(), "stdout")
	require.NoError(t, err)
	t.Cleanup(func() { stdout.Close() }) //nolint:errcheck

	s := New(Options{User: "alice", Host: "box"})
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	s.Out, s.Err = out, errOut
	s.Env.Stdout, s.Env.Stderr = out, errOut
	s.Exec.Stdin, s.Exec.Stdout, s.Exec.Out = stdin, stdout, out

	return &testShell{Shell: s, out: out, errOut: errOut, stdout: stdout, root: root}
}

func (ts *testShell) external(t *testing.T) string {
	t.Helper()

	b, err := os.ReadFile(ts.stdout.Name())
	require.NoError(t, err)

	return string(b)
}

func TestExecute_Dispatch(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		builtin  string
		external string
	}{
		{
			name:    "builtin",
			line:    "echo hi\n",
			builtin: "hi\n",
		},
		{
			name:    "builtin is checked before pipes",
			line:    "echo a | tr a b",
			builtin: "a | tr a b\n",
		},
		{
			name:     "external",
			line:     "printf hi",
			external: "hi",
		},
		{
			name:     "pipeline",
			line:     "printf abc | tr a-z A-Z",
			external: "ABC",
		},
		{
			name: "blank",
			line: "   \n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestShell(t)

			require.NoError(t, ts.Execute(context.Background(), tc.line))
			assert.Equal(t, tc.builtin, ts.out.String())
			assert.Equal(t, tc.external, ts.external(t))
			assert.Empty(t, ts.errOut.String())
		})
	}
}

func TestExecute_EchoRedirection(t *testing.T) {
	ts := newTestShell(t)
	t.Setenv("MUSH_WHO", "world")

	require.NoError(t, ts.Execute(context.Background(), "echo hello $MUSH_WHO > greeting.txt"))
	assert.Empty(t, ts.out.String())

	got, err := os.ReadFile(filepath.Join(ts.root, "greeting.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", string(got))
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
		is   error
	}{
		{
			name: "command not found",
			line: "no-such-command-x9 --flag",
			want: "no-such-command-x9: command not found",
			is:   executor.ErrCommandNotFound,
		},
		{
			name: "builtin error names the builtin",
			line: "cd",
			want: "cd: missing argument",
		},
		{
			name: "echo redirection needs PROJECT_ROOT",
			line: "echo x > out.txt",
			is:   executor.ErrProjectRootNotSet,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestShell(t)
			if tc.is == executor.ErrProjectRootNotSet {
				t.Setenv(executor.ProjectRootEnv, "")
			}

			err := ts.Execute(context.Background(), tc.line)
			require.Error(t, err)

			if tc.want != "" {
				assert.Equal(t, tc.want, err.Error())
			}

			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
		})
	}
}

func TestReport(t *testing.T) {
	ts := newTestShell(t)

	ts.Report(context.Background(), errors.New("cd: missing argument"))
	assert.Equal(t, "mush: cd: missing argument\n", ts.errOut.String())
}

func TestPrintNotices_BackgroundJobCompletes(t *testing.T) {
	ts := newTestShell(t)
	ctx := context.Background()

	require.NoError(t, ts.Execute(ctx, "true &"))
	assert.Regexp(t, `^\[1\] \d+\n$`, ts.out.String())

	require.Eventually(t, func() bool {
		ts.PrintNotices(ctx)
		return strings.Contains(ts.out.String(), "[1] Done")
	}, 5*time.Second, 10*time.Millisecond)

	assert.Empty(t, ts.Supervisor.Jobs())
}

type scriptedReader struct {
	lines   []string
	errs    []error
	prompts []string
	history []string
}

func (r *scriptedReader) Prompt(p string) (string, error) {
	r.prompts = append(r.prompts, p)

	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]

		if err != nil {
			return "", err
		}
	}

	if len(r.lines) == 0 {
		return "", io.EOF
	}

	l := r.lines[0]
	r.lines = r.lines[1:]

	return l, nil
}

func (r *scriptedReader) AppendHistory(l string) { r.history = append(r.history, l) }

func (r *scriptedReader) Close() error { return nil }

func TestRun_QuitStopsTheLoop(t *testing.T) {
	ts := newTestShell(t)
	t.Chdir(ts.root)

	r := &scriptedReader{lines: []string{"echo one", "", "quit", "echo never"}}

	require.NoError(t, ts.Run(context.Background(), r))
	assert.True(t, ts.Quitting())
	assert.Equal(t, 0, ts.ExitCode())
	assert.Equal(t, "one\n", ts.out.String())
	assert.Equal(t, []string{"echo one", "quit"}, r.history)
	require.Len(t, r.prompts, 3)
	assert.Equal(t, "alice@box:"+ts.root+"$ ", r.prompts[0])
}

func TestRun_EndOfInput(t *testing.T) {
	ts := newTestShell(t)

	r := &scriptedReader{lines: []string{"echo last"}}

	require.NoError(t, ts.Run(context.Background(), r))
	assert.False(t, ts.Quitting())
	assert.Equal(t, "last\n\n", ts.out.String())
}

func TestRun_InterruptReprompts(t *testing.T) {
	ts := newTestShell(t)

	r := &scriptedReader{errs: []error{ErrInterrupted, ErrInterrupted}}

	require.NoError(t, ts.Run(context.Background(), r))
	assert.Len(t, r.prompts, 3)
}

func TestRun_ReadFailure(t *testing.T) {
	ts := newTestShell(t)
	boom := errors.New("boom")

	err := ts.Run(context.Background(), &scriptedReader{errs: []error{boom}})
	assert.ErrorIs(t, err, boom)
}

func TestRun_ErrorsDoNotEndTheLoop(t *testing.T) {
	ts := newTestShell(t)

	r := &scriptedReader{lines: []string{"cd /definitely/not/here", "echo still here"}}

	require.NoError(t, ts.Run(context.Background(), r))
	assert.Contains(t, ts.errOut.String(), "mush: cd: /definitely/not/here: no such file or directory\n")
	assert.Contains(t, ts.out.String(), "still here\n")
}

func TestRun_CancelledContext(t *testing.T) {
	ts := newTestShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &scriptedReader{lines: []string{"echo never"}}

	require.NoError(t, ts.Run(ctx, r))
	assert.Empty(t, r.prompts)
}

func TestRunBatch(t *testing.T) {
	ts := newTestShell(t)

	ts.RunBatch(context.Background(), []string{"echo a", "", "no-such-command-x9", "echo b", "quit", "echo c"}, nil)
	assert.Equal(t, "a\nb\n", ts.out.String())
	assert.Equal(t, "mush: no-such-command-x9: command not found\n", ts.errOut.String())
	assert.True(t, ts.Quitting())
}

func TestRunBatch_LineLimit(t *testing.T) {
	ts := newTestShell(t)
	ts.MaxBatchLines = 2

	ts.RunBatch(context.Background(), []string{"echo 1", "echo 2", "echo 3"}, nil)
	assert.Equal(t, "1\n2\n", ts.out.String())
}

func TestRunBatch_PromptsReadFromReader(t *testing.T) {
	ts := newTestShell(t)
	fm := &promptingMonitor{}
	ts.Env.Monitor = fm

	in := NewPlainReader(strings.NewReader("t\n"), io.Discard)
	ts.RunBatch(context.Background(), []string{"config_monitor"}, in)

	assert.Equal(t, "t", fm.answer)
}
