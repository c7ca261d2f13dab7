// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package executor spawns external programs for single commands and pipelines.
//
// Children are started with os.StartProcess and an explicit Files slice, so
// each child inherits exactly its standard input, output and error. Every
// other descriptor the interpreter holds, pipe ends included, is opened
// close-on-exec by the Go runtime and never reaches the child.
//
// Foreground children are registered with the jobcontrol.Supervisor so that
// terminal signals reach them, and are waited for with WUNTRACED so a stopped
// child hands the terminal back. Background children become numbered jobs.
package executor
