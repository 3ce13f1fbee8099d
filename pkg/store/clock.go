package store

import "time"

// Clock provides the current time for dateCreated.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the system time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock returns a fixed time that only changes when it is set or advanced.
type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.FixedNow = m.FixedNow.Add(d)
}
