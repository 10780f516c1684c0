// Package clock provides the timebase the loop recorder and metronome schedule against.
//
// All instants are seconds since the clock's reference point. Deferred work is expressed
// as AfterFunc callbacks; a callback may still run after Stop returned false, so callers
// that care must tag their callbacks with a generation of their own.
package clock

import "time"

// Clock is a monotonic timebase with deferred callbacks
type Clock interface {
	Now() float64
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback
type Timer interface {
	Stop() bool
}

// System is a Clock backed by the monotonic wall clock
type System struct {
	start time.Time
}

// NewSystem creates a clock whose zero is the moment of creation
func NewSystem() *System {
	return &System{start: time.Now()}
}

// Now returns seconds elapsed since the clock was created
func (c *System) Now() float64 {
	return time.Since(c.start).Seconds()
}

// AfterFunc runs f in its own goroutine after d
func (c *System) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Seconds converts a float second count to a Duration
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
