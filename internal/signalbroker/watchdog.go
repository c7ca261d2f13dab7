// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/mush/internal/ctxlog"
)

// Handler receives one signal taken off a broker channel.
type Handler func(ctx context.Context, sig os.Signal)

// Watch calls handle for every signal on sigCh.
// It returns when ctx is done or sigCh is closed.
func Watch(ctx context.Context, sigCh <-chan os.Signal, handle Handler) {
	for {
		select {
		case <-ctx.Done():
			ctxlog.Debug(ctx, "watchdog", "detail", "context done, stop watching")
			return
		case sig, ok := <-sigCh:
			if !ok {
				ctxlog.Debug(ctx, "watchdog", "detail", "signal channel closed")
				return
			}

			ctxlog.Debug(ctx, "watchdog", "detail", "received signal", "signal", sig.String())
			handle(ctx, sig)
		}
	}
}
