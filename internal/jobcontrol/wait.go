// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobcontrol

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// ErrWait is returned when waiting on a child fails.
var ErrWait = errors.New("wait failed")

// Wait blocks until pid terminates or, when untraced is set, stops.
// Interrupted waits are retried.
func Wait(pid int, untraced bool) (WaitStatus, error) {
	opts := 0
	if untraced {
		opts |= unix.WUNTRACED
	}

	var ws unix.WaitStatus

	for {
		wpid, err := unix.Wait4(pid, &ws, opts, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}

		if err != nil {
			return WaitStatus{Pid: pid}, fmt.Errorf("%w: pid %d: %w", ErrWait, pid, err)
		}

		return decode(wpid, ws), nil
	}
}

// poll checks pid without blocking. ok is false when nothing changed.
func poll(pid int) (st WaitStatus, ok bool, err error) {
	var ws unix.WaitStatus

	for {
		wpid, err := unix.Wait4(pid, &ws, unix.WNOHANG|unix.WUNTRACED|unix.WCONTINUED, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}

		if err != nil {
			return WaitStatus{Pid: pid}, false, err
		}

		if wpid == 0 {
			return WaitStatus{Pid: pid}, false, nil
		}

		return decode(wpid, ws), true, nil
	}
}
