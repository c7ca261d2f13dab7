// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"os"
	"strings"

	"github.com/matt-FFFFFF/mush/internal/color"
)

// RenderPrompt builds "user@host:dir$ ". When full is false only the last
// element of dir is shown; the root directory is always shown as is.
func RenderPrompt(user, host, dir string, full bool) string {
	if !full {
		if i := strings.LastIndexByte(dir, '/'); i >= 0 && i+1 < len(dir) {
			dir = dir[i+1:]
		}
	}

	var sb strings.Builder

	sb.WriteString(color.Colorize(user, color.PromptUser...))
	sb.WriteByte('@')
	sb.WriteString(color.Colorize(host, color.PromptHost...))
	sb.WriteByte(':')
	sb.WriteString(color.Colorize(dir, color.PromptDir...))
	sb.WriteString("$ ")

	return sb.String()
}

// Prompt renders the prompt for the current working directory.
func (s *Shell) Prompt() string {
	dir, err := os.Getwd()
	if err != nil {
		dir = os.Getenv("PWD")
	}

	return RenderPrompt(s.User, s.Host, dir, s.Env.Path.Full())
}
