package clock

import "time"

// Clock supplies the current time. Services take one so tests can pin "now".
type Clock interface {
	Now() time.Time
}

// DefaultClock implements Clock using the system clock.
type DefaultClock struct{}

func (DefaultClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
