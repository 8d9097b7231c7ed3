package ports

import "time"

// Clock provides the current time. Use cases take it as a dependency so
// protection windows and urgency are testable against a fixed instant.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
