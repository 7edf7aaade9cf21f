package service

import (
	"context"
	"testing"
	"time"

	"maxwellmaster/domain"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHealthTracker_Panics(t *testing.T) {
	f := newRegistryFixture(t)
	logger := log.NewNopLogger()

	t.Run("registry_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.health_tracker.go: registry is required", func() {
			NewHealthTracker(nil, time.Second, logger)
		})
	})
	t.Run("logger_nil", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.health_tracker.go: logger is required", func() {
			NewHealthTracker(f.registry, time.Second, nil)
		})
	})
	t.Run("interval_zero", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.health_tracker.go: interval must be positive", func() {
			NewHealthTracker(f.registry, 0, logger)
		})
	})
}

func TestHealthTracker_Sweep(t *testing.T) {
	ctx := context.Background()
	f := newRegistryFixture(t)
	tracker := NewHealthTracker(f.registry, time.Second, log.NewNopLogger())

	_, _, err := f.registry.Register(ctx, domain.ClassBackend, "quiet", backendAddr(9000), "")
	require.NoError(t, err)
	f.clock.Set(1000 * time.Second)
	_, _, err = f.registry.Register(ctx, domain.ClassBackend, "lagging", backendAddr(9001), "")
	require.NoError(t, err)
	_, _, err = f.registry.Register(ctx, domain.ClassFrontend, "fe", domain.Address{PrivateIP: "10.0.0.1", PublicIP: "1.2.3.4", HTTPPort: 80}, "")
	require.NoError(t, err)

	f.clock.Set(1800 * time.Second)
	var seen []SweepStats
	tracker.SetOnSweep(func(s SweepStats) { seen = append(seen, s) })

	stats := tracker.Sweep(ctx)
	assert.Equal(t, SweepStats{Visited: 3, Changed: 2, Evicted: 1}, stats)
	assert.Equal(t, []SweepStats{stats}, seen)

	t.Run("second_sweep_is_quiet", func(t *testing.T) {
		before := len(f.published())
		stats := tracker.Sweep(ctx)
		assert.Equal(t, SweepStats{Visited: 2}, stats)
		assert.Len(t, f.published(), before)
	})

	t.Run("store_failure_keeps_node_for_next_sweep", func(t *testing.T) {
		f.clock.Set(3000 * time.Second)
		f.mem.failNext(2)
		stats := tracker.Sweep(ctx)
		assert.Equal(t, 1, stats.Failed)
		assert.Equal(t, 1, stats.Evicted)
		assert.Len(t, f.registry.IDs(domain.ClassBackend), 1)
		assert.Empty(t, f.registry.IDs(domain.ClassFrontend))

		stats = tracker.Sweep(ctx)
		assert.Equal(t, SweepStats{Visited: 1, Evicted: 1}, stats)
	})
}

func TestHealthTracker_RunStopsOnCancel(t *testing.T) {
	f := newRegistryFixture(t)
	tracker := NewHealthTracker(f.registry, 5*time.Millisecond, log.NewNopLogger())

	sweeps := make(chan SweepStats, 16)
	tracker.SetOnSweep(func(s SweepStats) {
		select {
		case sweeps <- s:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tracker.Run(ctx) }()

	select {
	case <-sweeps:
	case <-time.After(2 * time.Second):
		t.Fatal("tracker did not sweep")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("tracker did not stop")
	}
}
