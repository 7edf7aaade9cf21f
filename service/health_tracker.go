package service

import (
	"context"
	"time"

	"maxwellmaster/domain"
	"maxwellmaster/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// SweepStats summarizes one sweep.
type SweepStats struct {
	Visited int
	Changed int
	Evicted int
	Failed  int
}

// HealthTracker periodically reclassifies every registered node. Stale nodes are evicted and
// Healthy/Unhealthy flips recorded; the registry publishes both while it holds the node's lock.
type HealthTracker struct {
	registry *NodeRegistry
	interval time.Duration
	logger   log.Logger
	onSweep  func(SweepStats)
}

// NewHealthTracker creates a tracker sweeping registry every interval. Panics on nil dependencies
// or a non-positive interval.
func NewHealthTracker(registry *NodeRegistry, interval time.Duration, logger log.Logger) *HealthTracker {
	if interval <= 0 {
		panic("service.health_tracker.go: interval must be positive")
	}
	return &HealthTracker{
		registry: helpers.NilPanic(registry, "service.health_tracker.go: registry is required"),
		interval: interval,
		logger:   log.With(helpers.NilPanic(logger, "service.health_tracker.go: logger is required"), "component", "health_tracker"),
	}
}

// SetOnSweep installs a callback invoked after every sweep with its stats. cmd/main uses it to
// report store degradation on the gRPC health service.
func (h *HealthTracker) SetOnSweep(fn func(SweepStats)) {
	h.onSweep = fn
}

// Run sweeps on every tick until ctx is cancelled. Always returns nil.
func (h *HealthTracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	level.Info(h.logger).Log("msg", "health tracker started", "interval", h.interval)
	for {
		select {
		case <-ctx.Done():
			level.Info(h.logger).Log("msg", "health tracker stopped")
			return nil
		case <-ticker.C:
			h.Sweep(ctx)
		}
	}
}

// Sweep visits every node of every class exactly once. Each node is reclassified under its own
// lock, so a heartbeat that completes before the sweep reaches the node always wins.
func (h *HealthTracker) Sweep(ctx context.Context) SweepStats {
	var stats SweepStats
	for _, class := range domain.Classes {
		for _, id := range h.registry.IDs(class) {
			if ctx.Err() != nil {
				return stats
			}
			stats.Visited++
			ev, err := h.registry.Reclassify(ctx, class, id)
			if err != nil {
				stats.Failed++
				level.Warn(h.logger).Log("msg", "reclassify failed", "class", class, "id", id, "err", err)
				continue
			}
			if ev == nil {
				continue
			}
			switch ev.Kind {
			case domain.EventRemoved:
				stats.Evicted++
			case domain.EventHealthChanged:
				stats.Changed++
				level.Info(h.logger).Log("msg", "node health changed", "class", class, "id", id, "health", ev.Health)
			}
		}
	}

	if stats.Changed+stats.Evicted+stats.Failed > 0 {
		level.Debug(h.logger).Log("msg", "sweep finished", "visited", stats.Visited, "changed", stats.Changed, "evicted", stats.Evicted, "failed", stats.Failed)
	}
	if h.onSweep != nil {
		h.onSweep(stats)
	}
	return stats
}
