package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"maxwellmaster/adapters/pebbledb"
	"maxwellmaster/domain"

	"gopkg.in/yaml.v3"
)

// Env variable names.
const (
	envConfigPath = "CONFIG_PATH"
	envHTTPPort   = "SERVICE_PORT_HTTP"
	envGRPCPort   = "SERVICE_PORT_GRPC"
	envDBPath     = "DB_PATH"
	envRedisAddr  = "REDIS_ADDR"
	envLogLevel   = "LOG_LEVEL"
)

const defaultConfigPath = "config/config.yaml"

// Store backends.
const (
	backendPebble = "pebble"
	backendRedis  = "redis"
)

// Config is the master configuration: the YAML file at CONFIG_PATH with environment overrides.
type Config struct {
	HTTPPort    int               `yaml:"http_port"`
	GRPCPort    int               `yaml:"grpc_port"`
	Workers     int               `yaml:"workers"`
	Transport   TransportConfig   `yaml:"transport"`
	FrontendMgr FrontendMgrConfig `yaml:"frontend_mgr"`
	BackendMgr  BackendMgrConfig  `yaml:"backend_mgr"`
	ServiceMgr  ServiceMgrConfig  `yaml:"service_mgr"`
	DB          DBConfig          `yaml:"db"`
	Log         LogConfig         `yaml:"log"`
}

type TransportConfig struct {
	Backlog           int     `yaml:"backlog"`
	MaxConnections    int     `yaml:"max_connections"`
	MaxConnectionRate float64 `yaml:"max_connection_rate"`
	MaxFrameSize      int64   `yaml:"max_frame_size"`
	TLSCertFile       string  `yaml:"tls_cert_file"`
	TLSKeyFile        string  `yaml:"tls_key_file"`
}

type FrontendMgrConfig struct {
	Frontends []domain.NodeDescriptor `yaml:"frontends"`
	Strict    bool                    `yaml:"strict"`
}

type BackendMgrConfig struct {
	Backends []domain.NodeDescriptor `yaml:"backends"`
	Strict   bool                    `yaml:"strict"`
}

type ServiceMgrConfig struct {
	UnhealthyThreshold time.Duration `yaml:"unhealthy_threshold"`
	StaleThreshold     time.Duration `yaml:"stale_threshold"`
	SweepInterval      time.Duration `yaml:"sweep_interval"`
	SubscriberBuffer   int           `yaml:"subscriber_buffer"`
}

type DBConfig struct {
	Backend     string           `yaml:"backend"`
	Path        string           `yaml:"path"`
	RedisAddr   string           `yaml:"redis_addr"`
	RedisPrefix string           `yaml:"redis_prefix"`
	SeriesDB    pebbledb.Options `yaml:"seriesdb"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Thresholds returns the health thresholds of the service manager section.
func (c *Config) Thresholds() domain.Thresholds {
	return domain.Thresholds{Unhealthy: c.ServiceMgr.UnhealthyThreshold, Stale: c.ServiceMgr.StaleThreshold}
}

// LoadConfig reads the YAML file at CONFIG_PATH (default config/config.yaml), applies environment
// overrides and defaults, and validates the result. A missing default file is not an error; a
// missing explicit CONFIG_PATH is.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	path := strings.TrimSpace(os.Getenv(envConfigPath))
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		path = abs
	}
	if err := loadYAMLConfig(path, cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAMLConfig(path string, out *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(envHTTPPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envHTTPPort, err)
		}
		c.HTTPPort = port
	}
	if v := strings.TrimSpace(os.Getenv(envGRPCPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envGRPCPort, err)
		}
		c.GRPCPort = port
	}
	if v := strings.TrimSpace(os.Getenv(envDBPath)); v != "" {
		c.DB.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(envRedisAddr)); v != "" {
		c.DB.RedisAddr = v
		if c.DB.Backend == "" {
			c.DB.Backend = backendRedis
		}
	}
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		c.Log.Level = v
	}
	return nil
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	if c.HTTPPort == 0 {
		c.HTTPPort = 8080
	}
	if c.GRPCPort == 0 {
		c.GRPCPort = 9090
	}
	if c.Workers == 0 {
		c.Workers = 64
	}
	if c.Transport.Backlog == 0 {
		c.Transport.Backlog = 128
	}
	if c.Transport.MaxFrameSize == 0 {
		c.Transport.MaxFrameSize = 128 << 10
	}
	if c.ServiceMgr.UnhealthyThreshold == 0 {
		c.ServiceMgr.UnhealthyThreshold = 30 * time.Second
	}
	if c.ServiceMgr.StaleThreshold == 0 {
		c.ServiceMgr.StaleThreshold = 30 * time.Minute
	}
	if c.ServiceMgr.SweepInterval == 0 {
		c.ServiceMgr.SweepInterval = 5 * time.Second
	}
	if c.ServiceMgr.SubscriberBuffer == 0 {
		c.ServiceMgr.SubscriberBuffer = 256
	}
	if c.DB.Backend == "" {
		c.DB.Backend = backendPebble
	}
	if c.DB.Path == "" {
		c.DB.Path = "data/registry"
	}
	if c.DB.RedisPrefix == "" {
		c.DB.RedisPrefix = "maxwell:"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks ranges and cross-field rules.
func (c *Config) Validate() error {
	if err := validatePort("http_port", c.HTTPPort); err != nil {
		return err
	}
	if err := validatePort("grpc_port", c.GRPCPort); err != nil {
		return err
	}
	if c.HTTPPort == c.GRPCPort {
		return fmt.Errorf("http_port and grpc_port must differ, both are %d", c.HTTPPort)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if c.Transport.Backlog < 1 {
		return fmt.Errorf("transport.backlog must be positive")
	}
	if c.Transport.MaxConnections < 0 {
		return fmt.Errorf("transport.max_connections must not be negative")
	}
	if c.Transport.MaxConnectionRate < 0 {
		return fmt.Errorf("transport.max_connection_rate must not be negative")
	}
	if c.Transport.MaxFrameSize < 1 {
		return fmt.Errorf("transport.max_frame_size must be positive")
	}
	if (c.Transport.TLSCertFile == "") != (c.Transport.TLSKeyFile == "") {
		return fmt.Errorf("transport.tls_cert_file and transport.tls_key_file must be set together")
	}
	if err := c.Thresholds().Validate(); err != nil {
		return fmt.Errorf("service_mgr: %w", err)
	}
	if c.ServiceMgr.SweepInterval <= 0 {
		return fmt.Errorf("service_mgr.sweep_interval must be positive")
	}
	if c.ServiceMgr.SweepInterval > c.ServiceMgr.UnhealthyThreshold {
		return fmt.Errorf("service_mgr.sweep_interval must not exceed unhealthy_threshold")
	}
	if c.ServiceMgr.SubscriberBuffer < 1 {
		return fmt.Errorf("service_mgr.subscriber_buffer must be positive")
	}
	if err := validateSeeds("frontend_mgr.frontends", domain.ClassFrontend, c.FrontendMgr.Frontends); err != nil {
		return err
	}
	if err := validateSeeds("backend_mgr.backends", domain.ClassBackend, c.BackendMgr.Backends); err != nil {
		return err
	}
	switch c.DB.Backend {
	case backendPebble:
		if strings.TrimSpace(c.DB.Path) == "" {
			return fmt.Errorf("db.path is required for the pebble backend")
		}
		if err := c.DB.SeriesDB.Validate(); err != nil {
			return fmt.Errorf("db.seriesdb: %w", err)
		}
	case backendRedis:
		if strings.TrimSpace(c.DB.RedisAddr) == "" {
			return fmt.Errorf("db.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("db.backend must be %s|%s", backendPebble, backendRedis)
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return fmt.Errorf("log.level must be debug|info|warn|error")
	}
	return nil
}

func validatePort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be 1-65535, got %d", name, port)
	}
	return nil
}

// validateSeeds checks that every seed has a unique id and parsable addresses. Ports may be left
// to the node's register request.
func validateSeeds(section string, class domain.NodeClass, seeds []domain.NodeDescriptor) error {
	seen := make(map[domain.NodeID]struct{}, len(seeds))
	for i, d := range seeds {
		if strings.TrimSpace(string(d.ID)) == "" {
			return fmt.Errorf("%s[%d]: id is required", section, i)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("%s[%d]: duplicate id %q", section, i, d.ID)
		}
		seen[d.ID] = struct{}{}
		if d.Address.PrivateIP != "" {
			if _, err := netip.ParseAddr(d.Address.PrivateIP); err != nil {
				return fmt.Errorf("%s[%d]: invalid private_ip: %w", section, i, err)
			}
		}
		if d.Address.PublicIP != "" {
			if _, err := netip.ParseAddr(d.Address.PublicIP); err != nil {
				return fmt.Errorf("%s[%d]: invalid public_ip: %w", section, i, err)
			}
		}
		if class == domain.ClassFrontend && d.Address.HTTPSPort != 0 && strings.TrimSpace(d.Domain) == "" {
			return fmt.Errorf("%s[%d]: domain is required with https_port", section, i)
		}
	}
	return nil
}
