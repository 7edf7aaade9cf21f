package interfaces

import "time"

// TimeProvider supplies the current time for heartbeat stamping and health classification.
// Injected so tests can drive the clock (helpers.TestClock) instead of waiting on time.Now().
//
//go:generate moq -stub -out mock/time_provider.go -pkg mock . TimeProvider
type TimeProvider interface {
	// Now returns the current time (UTC in prod).
	Now() time.Time
}
