// Package timer provides a pausable countdown driven by an injectable clock.
package timer

import "time"

// Stopper cancels a scheduled callback.
// Stop reports whether the call prevented the callback from running.
type Stopper interface {
	Stop() bool
}

// Clock is the time source used by Timer.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Stopper
}

type realClock struct{}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}
