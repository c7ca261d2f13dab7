// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package jobcontrol supervises the interpreter's child processes.
//
// A Supervisor owns the foreground slot (the pid that currently receives
// terminal signals), the job counter and the job table. Signals arrive on
// channels from the signalbroker package and are handled on their own
// goroutines: interactive signals are forwarded to the foreground pid, and
// SIGCHLD triggers a non-blocking reap of every tracked job. Those goroutines
// never print; state changes are queued as notices that the read loop drains
// between prompts.
package jobcontrol
