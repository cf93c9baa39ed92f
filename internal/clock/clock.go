// Package clock supplies the time and identifier sources injected into the
// engine so that lifecycle and notification timestamps stay deterministic.
package clock

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// System is the wall clock, reported in UTC.
var System Clock = Func(func() time.Time { return time.Now().UTC() })

// IDFunc produces a fresh unique identifier.
type IDFunc func() string

// NewID is the default identifier source.
var NewID IDFunc = uuid.NewString

// Fixed is a manually advanced clock for tests.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}
