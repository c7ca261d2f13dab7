// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainReader(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewPlainReader(strings.NewReader("first\r\n\nlast"), out)

	for _, want := range []string{"first", "", "last"} {
		got, err := r.Prompt("> ")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := r.Prompt("> ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "> > > > ", out.String())

	r.AppendHistory("ignored")
	assert.NoError(t, r.Close())
}

func TestPlainReader_EmptyPromptWritesNothing(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewPlainReader(strings.NewReader("x\n"), out)

	got, err := r.Prompt("")
	require.NoError(t, err)
	assert.Equal(t, "x", got)
	assert.Empty(t, out.String())
}
