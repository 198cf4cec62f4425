package clock

import (
	"sync"
	"time"
)

// Clock provides the current time. It is swapped in tests to make elapsed
// times deterministic.
type Clock interface {
	Now() time.Time
}

// type check
var _ Clock = Real{}

// Real is the Clock backed by the time package.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Stepper is a Clock that advances by a fixed step on every Now call.
type Stepper struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func NewStepper(start time.Time, step time.Duration) *Stepper {
	return &Stepper{now: start, step: step}
}

// Now returns the current fake time and then moves it forward by one step.
func (s *Stepper) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now
	s.now = s.now.Add(s.step)
	return now
}
