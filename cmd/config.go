package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-kit/log/level"
	"gopkg.in/yaml.v3"
)

// Env variable names.
const (
	envPort            = "PORT"
	envRedisURL        = "REDIS_URL"
	envBackendPort     = "BACKEND_PORT"
	envBackendTimeout  = "BACKEND_TIMEOUT"
	envShutdownTimeout = "SHUTDOWN_TIMEOUT"
	envGRPCPort        = "SERVICE_PORT_GRPC"
	envTouchQueueSize  = "TOUCH_QUEUE_SIZE"
	envTouchWorkers    = "TOUCH_WORKERS"
	envLogLevel        = "LOG_LEVEL"
	envConfigPath      = "CONFIG_PATH"
)

// Config holds the router configuration. Defaults are overridden by the YAML file at CONFIG_PATH (if set),
// which is in turn overridden by environment variables.
type Config struct {
	HTTPPort        int
	RedisURL        string
	BackendPort     int
	BackendTimeout  time.Duration // 0 = no limit
	ShutdownTimeout time.Duration
	GRPCPort        int // 0 = gRPC health disabled
	TouchQueueSize  int
	TouchWorkers    int
	LogLevel        string
}

func defaultConfig() Config {
	return Config{
		HTTPPort:        5001,
		RedisURL:        "redis://localhost:6379",
		BackendPort:     3000,
		ShutdownTimeout: 5 * time.Second,
		TouchQueueSize:  1024,
		TouchWorkers:    4,
		LogLevel:        "info",
	}
}

// yamlConfig mirrors Config; unset fields keep their defaults.
type yamlConfig struct {
	Port            *int    `yaml:"port"`
	RedisURL        *string `yaml:"redis_url"`
	BackendPort     *int    `yaml:"backend_port"`
	BackendTimeout  *string `yaml:"backend_timeout"`
	ShutdownTimeout *string `yaml:"shutdown_timeout"`
	GRPCPort        *int    `yaml:"grpc_port"`
	TouchQueueSize  *int    `yaml:"touch_queue_size"`
	TouchWorkers    *int    `yaml:"touch_workers"`
	LogLevel        *string `yaml:"log_level"`
}

func loadYAMLConfig(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out yamlConfig
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (y *yamlConfig) apply(cfg *Config) error {
	if y.Port != nil {
		cfg.HTTPPort = *y.Port
	}
	if y.RedisURL != nil {
		cfg.RedisURL = *y.RedisURL
	}
	if y.BackendPort != nil {
		cfg.BackendPort = *y.BackendPort
	}
	if y.BackendTimeout != nil {
		d, err := time.ParseDuration(*y.BackendTimeout)
		if err != nil {
			return fmt.Errorf("backend_timeout: %w", err)
		}
		cfg.BackendTimeout = d
	}
	if y.ShutdownTimeout != nil {
		d, err := time.ParseDuration(*y.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("shutdown_timeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	if y.GRPCPort != nil {
		cfg.GRPCPort = *y.GRPCPort
	}
	if y.TouchQueueSize != nil {
		cfg.TouchQueueSize = *y.TouchQueueSize
	}
	if y.TouchWorkers != nil {
		cfg.TouchWorkers = *y.TouchWorkers
	}
	if y.LogLevel != nil {
		cfg.LogLevel = *y.LogLevel
	}
	return nil
}

// LoadConfig builds the router config from defaults, the optional YAML file at CONFIG_PATH and the environment.
// Returns an error naming the offending setting when a value does not parse or is out of range.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if configPath := strings.TrimSpace(os.Getenv(envConfigPath)); configPath != "" {
		if !filepath.IsAbs(configPath) {
			abs, err := filepath.Abs(configPath)
			if err != nil {
				return nil, err
			}
			configPath = abs
		}
		raw, err := loadYAMLConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
		if err := raw.apply(&cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
	}

	for _, v := range []struct {
		name string
		dst  *int
	}{
		{envPort, &cfg.HTTPPort},
		{envBackendPort, &cfg.BackendPort},
		{envGRPCPort, &cfg.GRPCPort},
		{envTouchQueueSize, &cfg.TouchQueueSize},
		{envTouchWorkers, &cfg.TouchWorkers},
	} {
		if err := envInt(v.name, v.dst); err != nil {
			return nil, err
		}
	}
	if err := envDuration(envBackendTimeout, &cfg.BackendTimeout); err != nil {
		return nil, err
	}
	if err := envDuration(envShutdownTimeout, &cfg.ShutdownTimeout); err != nil {
		return nil, err
	}
	if s := strings.TrimSpace(os.Getenv(envRedisURL)); s != "" {
		cfg.RedisURL = s
	}
	if s := strings.TrimSpace(os.Getenv(envLogLevel)); s != "" {
		cfg.LogLevel = s
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("%s must be 1-65535, got %d", envPort, c.HTTPPort)
	}
	if c.BackendPort <= 0 || c.BackendPort > 65535 {
		return fmt.Errorf("%s must be 1-65535, got %d", envBackendPort, c.BackendPort)
	}
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("%s must be 0-65535, got %d", envGRPCPort, c.GRPCPort)
	}
	if c.GRPCPort != 0 && c.GRPCPort == c.HTTPPort {
		return fmt.Errorf("%s must differ from %s", envGRPCPort, envPort)
	}
	if c.RedisURL == "" {
		return fmt.Errorf("%s is required", envRedisURL)
	}
	if c.BackendTimeout < 0 {
		return fmt.Errorf("%s must not be negative", envBackendTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%s must be positive", envShutdownTimeout)
	}
	if c.TouchQueueSize <= 0 {
		return fmt.Errorf("%s must be positive", envTouchQueueSize)
	}
	if c.TouchWorkers <= 0 {
		return fmt.Errorf("%s must be positive", envTouchWorkers)
	}
	if _, err := c.LevelOption(); err != nil {
		return err
	}
	return nil
}

// LevelOption maps LogLevel to a go-kit level filter.
func (c *Config) LevelOption() (level.Option, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return level.AllowDebug(), nil
	case "info":
		return level.AllowInfo(), nil
	case "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	}
	return nil, fmt.Errorf("%s must be one of debug, info, warn, error, got %q", envLogLevel, c.LogLevel)
}

func envInt(name string, dst *int) error {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = n
	return nil
}

func envDuration(name string, dst *time.Duration) error {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = d
	return nil
}
