package domain

import (
	"errors"
	"time"
)

// Health is the liveness classification of a node.
type Health string

const (
	HealthHealthy   Health = "healthy"
	HealthUnhealthy Health = "unhealthy"
	HealthStale     Health = "stale"
)

// Thresholds bound the three health bands. Unhealthy must be strictly below Stale.
type Thresholds struct {
	Unhealthy time.Duration
	Stale     time.Duration
}

// Validate checks that both thresholds are positive and ordered.
func (t Thresholds) Validate() error {
	if t.Unhealthy <= 0 || t.Stale <= 0 {
		return errors.New("thresholds must be positive")
	}
	if t.Unhealthy >= t.Stale {
		return errors.New("unhealthy threshold must be below stale threshold")
	}
	return nil
}

// Classify maps the time since the last heartbeat to a Health value.
func (t Thresholds) Classify(elapsed time.Duration) Health {
	switch {
	case elapsed < t.Unhealthy:
		return HealthHealthy
	case elapsed < t.Stale:
		return HealthUnhealthy
	default:
		return HealthStale
	}
}
