// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package shell is the read loop of the interpreter.
//
// A line is dispatched in a fixed order: builtins first (by the first word
// of the whole line), then pipelines (the line contains '|'), then a single
// external command. Interactive mode renders the prompt and reads from a
// LineReader until end of input or quit. Batch mode runs the lines of a file.
package shell
