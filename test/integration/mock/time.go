package mock

import (
	"sync"
	"time"
)

// Time is a clock that can be moved to an arbitrary instant and keeps
// ticking from there.
type Time struct {
	mu      sync.Mutex
	current time.Time
	setAt   time.Time
}

func NewTime() *Time {
	now := time.Now()
	return &Time{current: now, setAt: now}
}

// SetCurrentTime moves the clock to currentTime.
func (t *Time) SetCurrentTime(currentTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = currentTime
	t.setAt = time.Now()
}

// Reset puts the clock back on wall time.
func (t *Time) Reset() {
	t.SetCurrentTime(time.Now())
}

func (t *Time) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current.Add(time.Since(t.setAt))
}
