package utils

import "time"

// Clock abstracts the wall clock. Everything time-dependent takes one, so
// tests can pin the instant that mints local expense ids and decides
// whether a cached profile is stale.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real clock used outside tests.
type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock reports a fixed instant, adjustable mid-test with SetNow.
type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}
