// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color colorizes interpreter output with ANSI escape codes.
// Color is disabled when NO_COLOR is set or stdout is not a terminal
// (detected with golang.org/x/term), and forced on by FORCE_COLOR.
// It also carries the prompt palette and the clear-screen sequence used by clr.
package color
