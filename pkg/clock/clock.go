package clock

import "time"

// Clock abstracts time retrieval so capture and retention logic can be
// tested against a fixed instant.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct{ t time.Time }

// NewFixed returns a FixedClock pinned to t.
func NewFixed(t time.Time) FixedClock { return FixedClock{t: t} }

func (f FixedClock) Now() time.Time { return f.t }
