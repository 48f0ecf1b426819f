package form

import "time"

// RedirectDelay is how long a success alert stays up before navigating away.
const RedirectDelay = 2 * time.Second

type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealScheduler is backed by time.AfterFunc.
var RealScheduler Scheduler = realScheduler{}

// Redirect is the pending navigation scheduled after a successful submit.
type Redirect struct {
	Delay time.Duration
	timer Timer
}

// Cancel stops the navigation if it has not fired yet.
func (r *Redirect) Cancel() bool {
	if r == nil || r.timer == nil {
		return false
	}
	return r.timer.Stop()
}
