package ports

import "time"

// Clock is the source of "now" for command handlers.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock returns the wall clock in UTC.
var SystemClock = ClockFunc(func() time.Time { return time.Now().UTC() })
