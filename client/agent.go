package client

import (
	"context"
	"time"

	"maxwellmaster/domain"
	"maxwellmaster/helpers"
	"maxwellmaster/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Agent keeps one node registered: it registers, heartbeats every interval, registers again when
// the master has forgotten the node, and deregisters when its context ends.
type Agent struct {
	master     *masterHTTP
	class      domain.NodeClass
	descriptor domain.NodeDescriptor
	interval   time.Duration
	logger     log.Logger
}

// NewAgent creates an Agent. interval should be well below the master's unhealthy threshold.
func NewAgent(master *masterHTTP, class domain.NodeClass, descriptor domain.NodeDescriptor, interval time.Duration, logger log.Logger) *Agent {
	if interval <= 0 {
		panic("client.agent.go: interval must be positive")
	}
	return &Agent{
		master:     helpers.NilPanic(master, "client.agent.go: master is required"),
		class:      class,
		descriptor: descriptor,
		interval:   interval,
		logger:     log.With(helpers.NilPanic(logger, "client.agent.go: logger is required"), "component", "agent", "class", class, "id", descriptor.ID),
	}
}

// Run blocks until ctx ends. Transient failures are logged and retried on the next tick.
func (a *Agent) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	registered := a.register(ctx)
	for {
		select {
		case <-ctx.Done():
			if registered {
				a.deregister()
			}
			return nil
		case <-ticker.C:
		}

		if !registered {
			registered = a.register(ctx)
			continue
		}
		health, err := a.master.Heartbeat(ctx, a.class, a.descriptor.ID)
		switch {
		case err == nil:
			level.Debug(a.logger).Log("msg", "heartbeat sent", "health", health)
		case service.IsUnknownNodeError(err):
			level.Warn(a.logger).Log("msg", "master forgot the node, registering again")
			registered = a.register(ctx)
		default:
			level.Warn(a.logger).Log("msg", "heartbeat failed", "err", err)
		}
	}
}

func (a *Agent) register(ctx context.Context) bool {
	_, rejoined, err := a.master.Register(ctx, a.class, a.descriptor)
	if err != nil {
		if ctx.Err() == nil {
			level.Warn(a.logger).Log("msg", "register failed", "err", err)
		}
		return false
	}
	level.Info(a.logger).Log("msg", "registered", "rejoined", rejoined)
	return true
}

func (a *Agent) deregister() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := a.master.Deregister(ctx, a.class, a.descriptor.ID); err != nil {
		level.Warn(a.logger).Log("msg", "deregister failed", "err", err)
		return
	}
	level.Info(a.logger).Log("msg", "deregistered")
}
