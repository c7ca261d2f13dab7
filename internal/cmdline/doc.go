// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdline turns a raw input line into an argument vector, optional
// input/output redirection targets and a background flag, and splits
// pipelines into their stages.
//
// The grammar is deliberately small: arguments are separated by blanks,
// there is no quoting, and pipeline stages do not take part in redirection.
// Every limit is checked explicitly; nothing is silently truncated.
package cmdline
