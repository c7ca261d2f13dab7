// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobcontrol

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// State is the lifecycle position of a job.
type State int

// Job states. Running and Stopped may alternate; Exited and Signalled are final.
const (
	StateRunning State = iota
	StateStopped
	StateExited
	StateSignalled
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateStopped:
		return "Stopped"
	case StateExited:
		return "Done"
	case StateSignalled:
		return "Terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Final reports whether the job can no longer change state.
func (s State) Final() bool {
	return s == StateExited || s == StateSignalled
}

// Job is a tracked child process.
// Silent jobs (ID 0) are reaped like any other but never announced.
type Job struct {
	ID       int
	Pid      int
	Label    string
	State    State
	ExitCode int
	Signal   unix.Signal
}

// Silent reports whether the job was tracked without a job number.
func (j Job) Silent() bool {
	return j.ID == 0
}

// Status renders the state column of a job listing.
func (j Job) Status() string {
	switch {
	case j.State == StateExited && j.ExitCode != 0:
		return fmt.Sprintf("Exit %d", j.ExitCode)
	case j.State == StateSignalled:
		return fmt.Sprintf("Terminated (%s)", unix.SignalName(j.Signal))
	default:
		return j.State.String()
	}
}

// String renders the job the way notices and the jobs builtin print it.
func (j Job) String() string {
	return fmt.Sprintf("[%d] %s %d %s", j.ID, j.Status(), j.Pid, j.Label)
}

// WaitStatus is the decoded result of waiting on a child.
type WaitStatus struct {
	Pid       int
	Exited    bool
	ExitCode  int
	Signalled bool
	Signal    unix.Signal
	Stopped   bool
	Continued bool
}

func decode(pid int, ws unix.WaitStatus) WaitStatus {
	st := WaitStatus{Pid: pid}

	switch {
	case ws.Exited():
		st.Exited = true
		st.ExitCode = ws.ExitStatus()
	case ws.Signaled():
		st.Signalled = true
		st.Signal = ws.Signal()
		st.ExitCode = 128 + int(ws.Signal())
	case ws.Stopped():
		st.Stopped = true
		st.Signal = ws.StopSignal()
	case ws.Continued():
		st.Continued = true
	}

	return st
}

func (j *Job) apply(st WaitStatus) {
	switch {
	case st.Exited:
		j.State = StateExited
		j.ExitCode = st.ExitCode
	case st.Signalled:
		j.State = StateSignalled
		j.ExitCode = st.ExitCode
		j.Signal = st.Signal
	case st.Stopped:
		j.State = StateStopped
		j.Signal = st.Signal
	case st.Continued:
		j.State = StateRunning
	}
}
