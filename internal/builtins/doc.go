// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package builtins provides the commands the interpreter runs in-process.
//
// Builtins are looked up by the first word of a line before any pipe
// detection or PATH search, so a builtin always shadows an external program
// of the same name.
package builtins
