// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker subscribes the interpreter to OS signals.
// By default it listens for the interactive terminal signals SIGINT, SIGTSTP
// and SIGQUIT, which the interpreter must survive and pass on to whatever is
// running in the foreground. Child also subscribes to SIGCHLD so that
// terminated or stopped background children can be reaped.
//
// Watch drains a signal channel on its own goroutine and hands every signal
// to a callback until the context is cancelled or the channel is closed.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/mush/internal/ctxlog"
)

const (
	interactiveBuffer = 4
	childBuffer       = 1 // SIGCHLD coalesces; one pending notification is enough.
)

var interactiveSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTSTP,
	syscall.SIGQUIT,
}

// Interactive returns the signals a terminal sends to its foreground process group.
func Interactive() []os.Signal {
	out := make([]os.Signal, len(interactiveSignals))
	copy(out, interactiveSignals)

	return out
}

// New creates a channel that receives the given signals, or the interactive set if none are given.
// While subscribed the interpreter is not stopped or terminated by those signals.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, interactiveBuffer)

	if len(sigs) == 0 {
		sigs = interactiveSignals
	}

	ctxlog.Debug(ctx, "signalbroker", "detail", "subscribing to signals", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}

// Child creates a channel that is notified whenever a child changes state.
func Child(ctx context.Context) chan os.Signal {
	ch := make(chan os.Signal, childBuffer)

	ctxlog.Debug(ctx, "signalbroker", "detail", "subscribing to SIGCHLD")
	signal.Notify(ch, syscall.SIGCHLD)

	return ch
}

// Stop unsubscribes the channel. Signals it carried revert to their default disposition.
func Stop(ch chan os.Signal) {
	signal.Stop(ch)
}
