// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobcontrol

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/matt-FFFFFF/mush/internal/ctxlog"
	"github.com/matt-FFFFFF/mush/internal/signalbroker"
	"golang.org/x/sys/unix"
)

const noticeBuffer = 64

// ErrSignalDelivery is returned when a signal cannot be sent to a tracked process.
var ErrSignalDelivery = errors.New("failed to deliver signal")

// Supervisor tracks the foreground processes and the job table.
// The foreground slot and the job counter are atomics; they are written by
// the read loop and read by the signal goroutine without locking.
// The slot holds every stage of a foreground pipeline, or a single pid.
type Supervisor struct {
	fg      atomic.Pointer[[]int]
	lastJob atomic.Int64

	mu   sync.Mutex
	jobs map[int]*Job // keyed by pid

	notices chan Job
	kill    func(pid int, sig unix.Signal) error
}

// New creates an empty Supervisor.
func New() *Supervisor {
	return &Supervisor{
		jobs:    make(map[int]*Job),
		notices: make(chan Job, noticeBuffer),
		kill:    unix.Kill,
	}
}

// Foreground returns the last foreground pid, or 0 when nothing is in the foreground.
func (s *Supervisor) Foreground() int {
	p := s.fg.Load()
	if p == nil || len(*p) == 0 {
		return 0
	}

	return (*p)[len(*p)-1]
}

// ForegroundGroup returns every pid in the foreground slot.
func (s *Supervisor) ForegroundGroup() []int {
	p := s.fg.Load()
	if p == nil {
		return nil
	}

	return slices.Clone(*p)
}

// SetForeground records pids as the processes receiving terminal signals.
// Calling it without pids empties the slot.
func (s *Supervisor) SetForeground(pids ...int) {
	if len(pids) == 0 {
		s.fg.Store(nil)
		return
	}

	group := slices.Clone(pids)
	s.fg.Store(&group)
}

// ClearForeground empties the slot if it still holds pid.
func (s *Supervisor) ClearForeground(pid int) bool {
	for {
		p := s.fg.Load()
		if p == nil || !slices.Contains(*p, pid) {
			return false
		}

		if s.fg.CompareAndSwap(p, nil) {
			return true
		}
	}
}

// RemoveForeground drops pid from the slot once it has been waited for,
// leaving the rest of the group in place.
func (s *Supervisor) RemoveForeground(pid int) {
	for {
		p := s.fg.Load()
		if p == nil || !slices.Contains(*p, pid) {
			return
		}

		var next *[]int

		if rest := slices.DeleteFunc(slices.Clone(*p), func(v int) bool { return v == pid }); len(rest) > 0 {
			next = &rest
		}

		if s.fg.CompareAndSwap(p, next) {
			return
		}
	}
}

// NextJobID allocates a job number. Numbers start at 1 and are never reused.
func (s *Supervisor) NextJobID() int {
	return int(s.lastJob.Add(1))
}

// Background records a running background process and returns its job.
func (s *Supervisor) Background(pid int, label string) Job {
	return s.add(&Job{ID: s.NextJobID(), Pid: pid, Label: label, State: StateRunning})
}

// Suspended records a foreground process that stopped, so it is reaped once it ends.
func (s *Supervisor) Suspended(pid int, label string) Job {
	return s.add(&Job{ID: s.NextJobID(), Pid: pid, Label: label, State: StateStopped})
}

// Track records a child that must be reaped but is not a numbered job.
func (s *Supervisor) Track(pid int, label string) {
	s.add(&Job{Pid: pid, Label: label, State: StateRunning})
}

func (s *Supervisor) add(j *Job) Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[j.Pid] = j

	return *j
}

// Jobs returns the numbered jobs still being tracked, ordered by job number.
func (s *Supervisor) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Job, 0, len(s.jobs))

	for _, j := range s.jobs {
		if !j.Silent() {
			out = append(out, *j)
		}
	}

	slices.SortFunc(out, func(a, b Job) int { return a.ID - b.ID })

	return out
}

// Forward sends sig to every foreground process. It is a no-op when the slot is empty.
// A failure for one pid does not stop delivery to the others.
func (s *Supervisor) Forward(sig os.Signal) error {
	pids := s.ForegroundGroup()
	if len(pids) == 0 {
		return nil
	}

	ssig, ok := sig.(syscall.Signal)
	if !ok {
		return fmt.Errorf("%w: %s to pid %d: not a unix signal", ErrSignalDelivery, sig, pids[len(pids)-1])
	}

	var errs []error

	for _, pid := range pids {
		if err := s.kill(pid, ssig); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s to pid %d: %w", ErrSignalDelivery, sig, pid, err))
		}
	}

	return errors.Join(errs...)
}

// Reap collects state changes of every tracked job without blocking.
// Only tracked pids are waited on, so the read loop's own foreground and
// pipeline waits never lose their status to the reaper.
func (s *Supervisor) Reap(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for pid, j := range s.jobs {
		st, changed, err := poll(pid)
		if err != nil {
			// ECHILD: somebody else already collected it.
			ctxlog.Debug(ctx, "reap failed, dropping job", "pid", pid, "error", err)
			delete(s.jobs, pid)

			continue
		}

		if !changed {
			continue
		}

		j.apply(st)
		ctxlog.Debug(ctx, "job changed state", "job", j.ID, "pid", pid, "state", j.State.String())

		if j.State.Final() {
			delete(s.jobs, pid)
		}

		if !j.Silent() {
			s.notify(ctx, *j)
		}
	}
}

func (s *Supervisor) notify(ctx context.Context, j Job) {
	select {
	case s.notices <- j:
	default:
		ctxlog.Warn(ctx, "notice queue full, dropping job notice", "job", j.ID, "pid", j.Pid)
	}
}

// Notices drains the job state changes queued since the last call.
func (s *Supervisor) Notices() []Job {
	var out []Job

	for {
		select {
		case j := <-s.notices:
			out = append(out, j)
		default:
			return out
		}
	}
}

// Start runs the signal forwarder and the reaper until the returned stop function is called.
func (s *Supervisor) Start(ctx context.Context, sigCh, chldCh <-chan os.Signal) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()
		signalbroker.Watch(ctx, sigCh, s.handleInteractive)
	}()

	go func() {
		defer wg.Done()
		signalbroker.Watch(ctx, chldCh, func(ctx context.Context, _ os.Signal) { s.Reap(ctx) })
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}

func (s *Supervisor) handleInteractive(ctx context.Context, sig os.Signal) {
	pid := s.Foreground()
	if pid == 0 {
		ctxlog.Debug(ctx, "no foreground process, ignoring signal", "signal", sig.String())
		return
	}

	if err := s.Forward(sig); err != nil {
		// usually the process exited between the slot read and the kill
		ctxlog.Info(ctx, "signal not delivered", "signal", sig.String(), "pid", pid, "error", err)
		return
	}

	ctxlog.Debug(ctx, "forwarded signal", "signal", sig.String(), "pid", pid)
}
