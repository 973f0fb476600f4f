package session

import (
	"sync"
	"time"
)

type timerState int

const (
	timerRunning timerState = iota
	timerFired
	timerCancelled
)

// Timer fires a callback once after a duration unless cancelled first.
// Firing and cancelling are mutually exclusive. It is safe for concurrent use.
type Timer struct {
	mu       sync.Mutex
	timer    *time.Timer
	state    timerState
	deadline time.Time
}

// NewTimer creates and starts a timer that calls onFire after duration.
// onFire is called in a separate goroutine.
//
// Precondition: duration > 0; onFire must not be nil.
// Postcondition: onFire is called exactly once unless Cancel returns true first.
func NewTimer(duration time.Duration, onFire func()) *Timer {
	t := &Timer{deadline: time.Now().Add(duration)}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer = time.AfterFunc(duration, func() {
		t.mu.Lock()
		if t.state != timerRunning {
			t.mu.Unlock()
			return
		}
		t.state = timerFired
		t.mu.Unlock()
		onFire()
	})
	return t
}

// Cancel stops the timer. It reports whether this call prevented the
// callback; false means the timer already fired or was already cancelled.
//
// Postcondition: onFire will not start after Cancel returns.
func (t *Timer) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != timerRunning {
		return false
	}
	t.state = timerCancelled
	t.timer.Stop()
	return true
}

// Remaining returns the time left before the timer fires, or zero once it
// has fired or been cancelled.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != timerRunning {
		return 0
	}
	return max(0, time.Until(t.deadline))
}

// Running reports whether the timer has neither fired nor been cancelled.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == timerRunning
}
