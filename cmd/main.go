// Package main runs the maxwell master: the registry of frontend and backend nodes. It loads
// configuration (YAML + env), opens the store (pebble or redis), restores persisted nodes, starts the
// health tracker, and serves the HTTP/websocket API and the gRPC health service until SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"maxwellmaster/api"
	"maxwellmaster/handlers"
	"maxwellmaster/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	config, err := LoadConfig()
	if err != nil {
		logger := newLogger(os.Stderr, "info")
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	logger := newLogger(os.Stderr, config.Log.Level)

	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"service_port_http", config.HTTPPort,
		"service_port_grpc", config.GRPCPort,
		"db_backend", config.DB.Backend,
		"unhealthy_threshold", config.ServiceMgr.UnhealthyThreshold,
		"stale_threshold", config.ServiceMgr.StaleThreshold,
	)

	if err := run(config, logger); err != nil {
		level.Error(logger).Log("msg", "Master stopped with error", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "Master stopped")
}

func run(config *Config, logger log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(config.DB, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	clock := service.NewTimeProvider(func() time.Time { return time.Now().UTC() })
	broker := service.NewBroker(logger)
	defer broker.Close()

	registry := service.NewNodeRegistry(store, clock, broker, config.Thresholds(), logger)
	if err := registry.Load(ctx); err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	registryService := service.NewRegistryService(registry, broker, classPolicies(config), config.ServiceMgr.SubscriberBuffer, logger)

	grpcServer, healthServer := newGRPCServer()
	reportHealth(healthServer, registry.Degraded())

	tracker := service.NewHealthTracker(registry, config.ServiceMgr.SweepInterval, logger)
	tracker.SetOnSweep(func(service.SweepStats) {
		reportHealth(healthServer, registry.Degraded())
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	service.RegisterErrorHandler(e, logger)
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", config.Transport.MaxFrameSize)))

	doc, err := api.Load(ctx)
	if err != nil {
		return fmt.Errorf("load openapi: %w", err)
	}
	validator, err := handlers.NewRequestValidator(doc)
	if err != nil {
		return fmt.Errorf("build request validator: %w", err)
	}
	httpServer := handlers.NewHTTPServer(registryService, handlers.Options{
		Workers:      config.Workers,
		MaxFrameSize: config.Transport.MaxFrameSize,
	}, logger)
	handlers.RegisterHandlers(e, httpServer, validator)

	listenerCfg, err := listenerConfig(config.Transport)
	if err != nil {
		return err
	}
	httpLis, err := handlers.NewListener(ctx, ":"+strconv.Itoa(config.HTTPPort), listenerCfg)
	if err != nil {
		return err
	}
	grpcLis, err := net.Listen("tcp", ":"+strconv.Itoa(config.GRPCPort))
	if err != nil {
		httpLis.Close()
		return fmt.Errorf("can't listen on grpc port: %w", err)
	}

	srv := &http.Server{
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tracker.Run(gctx)
	})
	g.Go(func() error {
		level.Info(logger).Log("msg", "Starting HTTP server", "addr", httpLis.Addr(), "tls", listenerCfg.TLS != nil)
		if err := srv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		level.Info(logger).Log("msg", "Starting gRPC server", "addr", grpcLis.Addr())
		return grpcServer.Serve(grpcLis)
	})
	g.Go(func() error {
		<-gctx.Done()
		level.Info(logger).Log("msg", "Shutting down...")
		healthServer.Shutdown()
		// Subscribers get a going-away frame before the server waits for idle connections.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			level.Warn(logger).Log("msg", "HTTP shutdown timed out", "err", err)
			srv.Close()
		}

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			grpcServer.Stop()
		}
		return nil
	})
	return g.Wait()
}
