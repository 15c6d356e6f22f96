// Package clock provides the scheduling facility used for every timed
// transition: a wall-clock implementation backed by time.AfterFunc and a
// manually advanced implementation for tests and simulations.
package clock

import "time"

// Timer is a handle to a scheduled task.
type Timer interface {
	// Stop cancels the task. It returns false if the task already ran or was
	// already stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay against a monotonic clock.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Real schedules tasks on the wall clock. Callbacks run on their own
// goroutine, as with time.AfterFunc.
type Real struct{}

var _ Scheduler = Real{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
