package main

import (
	"crypto/tls"
	"fmt"
	"io"
	"strings"

	"maxwellmaster/adapters/myredis"
	"maxwellmaster/adapters/pebbledb"
	"maxwellmaster/domain"
	"maxwellmaster/handlers"
	"maxwellmaster/interfaces"
	"maxwellmaster/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func newLogger(w io.Writer, logLevel string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)
	if opt, ok := parseLevel(logLevel); ok {
		logger = level.NewFilter(logger, opt)
	}
	return logger
}

func parseLevel(s string) (level.Option, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return level.AllowDebug(), true
	case "info":
		return level.AllowInfo(), true
	case "warn", "warning":
		return level.AllowWarn(), true
	case "error":
		return level.AllowError(), true
	}
	return nil, false
}

// openStore opens the configured store backend.
func openStore(cfg DBConfig, logger log.Logger) (interfaces.Store, error) {
	switch cfg.Backend {
	case backendRedis:
		client, err := myredis.NewRedisUniversalClient(cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return myredis.NewStore(client, cfg.RedisPrefix), nil
	default:
		store, err := pebbledb.NewStore(cfg.Path, cfg.SeriesDB, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

func classPolicies(cfg *Config) map[domain.NodeClass]service.ClassPolicy {
	return map[domain.NodeClass]service.ClassPolicy{
		domain.ClassFrontend: {Seeds: cfg.FrontendMgr.Frontends, Strict: cfg.FrontendMgr.Strict},
		domain.ClassBackend:  {Seeds: cfg.BackendMgr.Backends, Strict: cfg.BackendMgr.Strict},
	}
}

func listenerConfig(cfg TransportConfig) (handlers.ListenerConfig, error) {
	lc := handlers.ListenerConfig{
		MaxConnections:    cfg.MaxConnections,
		MaxConnectionRate: cfg.MaxConnectionRate,
		Backlog:           cfg.Backlog,
	}
	if cfg.TLSCertFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return handlers.ListenerConfig{}, fmt.Errorf("can't load tls key pair: %w", err)
		}
		lc.TLS = &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
	}
	return lc, nil
}

// newGRPCServer builds the gRPC server carrying the health and reflection services.
func newGRPCServer() (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer()

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)
	return grpcServer, healthServer
}

// reportHealth maps registry degradation to the serving status of the health service.
func reportHealth(healthServer *health.Server, degraded bool) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if degraded {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	healthServer.SetServingStatus("", status)
}
