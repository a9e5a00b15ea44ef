package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCacheCapacity  = 100
	DefaultCacheTTLMillis = int64(5 * time.Minute / time.Millisecond)

	DefaultAuditListKey    = "catalog:audit"
	DefaultAuditMaxRecords = 10000

	DefaultServerAddress = ":8080"
)

// Config represents the main configuration structure
type Config struct {
	Cache   CacheConfig   `yaml:"cache"`
	Storage StorageConfig `yaml:"storage"`
	Audit   AuditConfig   `yaml:"audit"`
	Server  ServerConfig  `yaml:"server"`
}

// CacheConfig configures the catalog read cache. Values are read once at startup.
type CacheConfig struct {
	Enabled   *bool  `yaml:"enabled"`
	Capacity  *int   `yaml:"capacity" validate:"required,gt=0"`
	TTLMillis *int64 `yaml:"ttl_millis" validate:"required,gte=0"`
}

// IsEnabled reports whether caching is on
func (c CacheConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// GetCapacity returns the configured capacity
func (c CacheConfig) GetCapacity() int {
	if c.Capacity == nil {
		return DefaultCacheCapacity
	}
	return *c.Capacity
}

// GetTTL returns the configured time-to-live
func (c CacheConfig) GetTTL() time.Duration {
	if c.TTLMillis == nil {
		return time.Duration(DefaultCacheTTLMillis) * time.Millisecond
	}
	return time.Duration(*c.TTLMillis) * time.Millisecond
}

// StorageConfig selects the product repository
type StorageConfig struct {
	Driver string `yaml:"driver" validate:"oneof=memory postgres"`
	Seed   bool   `yaml:"seed"`
}

// AuditConfig selects where audit records go
type AuditConfig struct {
	Sink  string      `yaml:"sink" validate:"oneof=log keydb"`
	KeyDB KeyDBConfig `yaml:"keydb"`
}

// ConnectionConfig holds connection timeouts in milliseconds
type ConnectionConfig struct {
	ConnectTimeout int `yaml:"connect_timeout" validate:"gte=0"`
	SendTimeout    int `yaml:"send_timeout" validate:"gte=0"`
	ReadTimeout    int `yaml:"read_timeout" validate:"gte=0"`
}

// KeepaliveConfig holds connection pool settings
type KeepaliveConfig struct {
	PoolSize       int `yaml:"pool_size" validate:"gte=0"`
	MaxIdleTimeout int `yaml:"max_idle_timeout" validate:"gte=0"` // ms
}

// KeyDBConfig configures the KeyDB audit sink
type KeyDBConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Keepalive  KeepaliveConfig  `yaml:"keepalive"`
	ListKey    string           `yaml:"list_key"`
	MaxRecords int64            `yaml:"max_records" validate:"gte=0"`
}

// GetConnectTimeout returns the dial timeout
func (k KeyDBConfig) GetConnectTimeout() time.Duration {
	return time.Duration(k.Connection.ConnectTimeout) * time.Millisecond
}

// GetSendTimeout returns the write timeout
func (k KeyDBConfig) GetSendTimeout() time.Duration {
	return time.Duration(k.Connection.SendTimeout) * time.Millisecond
}

// GetReadTimeout returns the read timeout
func (k KeyDBConfig) GetReadTimeout() time.Duration {
	return time.Duration(k.Connection.ReadTimeout) * time.Millisecond
}

// GetMaxIdleTimeout returns the idle connection timeout
func (k KeyDBConfig) GetMaxIdleTimeout() time.Duration {
	return time.Duration(k.Keepalive.MaxIdleTimeout) * time.Millisecond
}

// ServerConfig configures the HTTP API. SocketPath wins over Address when both are set.
type ServerConfig struct {
	SocketPath   string `yaml:"socket_path"`
	Address      string `yaml:"address"`
	ReadTimeout  int    `yaml:"read_timeout" validate:"gte=0"`  // ms
	WriteTimeout int    `yaml:"write_timeout" validate:"gte=0"` // ms
}

// GetReadTimeout returns the read timeout
func (s ServerConfig) GetReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Millisecond
}

// GetWriteTimeout returns the write timeout
func (s ServerConfig) GetWriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Millisecond
}

var validate = validator.New()

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	// Apply defaults
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Configuration loaded",
		zap.Bool("cache_enabled", config.Cache.IsEnabled()),
		zap.Int("cache_capacity", config.Cache.GetCapacity()),
		zap.Duration("cache_ttl", config.Cache.GetTTL()),
		zap.String("storage_driver", config.Storage.Driver),
		zap.String("audit_sink", config.Audit.Sink))

	return &config, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	var config Config
	config.applyDefaults()
	return &config
}

// Validate checks the configuration. A non-positive cache capacity is rejected
// rather than treated as unbounded.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Cache.Enabled == nil {
		enabled := true
		c.Cache.Enabled = &enabled
	}
	if c.Cache.Capacity == nil {
		capacity := DefaultCacheCapacity
		c.Cache.Capacity = &capacity
	}
	if c.Cache.TTLMillis == nil {
		ttl := DefaultCacheTTLMillis
		c.Cache.TTLMillis = &ttl
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}

	if c.Audit.Sink == "" {
		c.Audit.Sink = "log"
	}
	c.Audit.KeyDB.applyDefaults()

	if c.Server.SocketPath == "" && c.Server.Address == "" {
		c.Server.Address = DefaultServerAddress
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30000
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30000
	}
}

func (k *KeyDBConfig) applyDefaults() {
	if k.Connection.ConnectTimeout == 0 {
		k.Connection.ConnectTimeout = 1000
	}
	if k.Connection.SendTimeout == 0 {
		k.Connection.SendTimeout = 1000
	}
	if k.Connection.ReadTimeout == 0 {
		k.Connection.ReadTimeout = 1000
	}
	if k.Keepalive.PoolSize == 0 {
		k.Keepalive.PoolSize = 10
	}
	if k.Keepalive.MaxIdleTimeout == 0 {
		k.Keepalive.MaxIdleTimeout = 10000
	}
	if k.ListKey == "" {
		k.ListKey = DefaultAuditListKey
	}
	if k.MaxRecords == 0 {
		k.MaxRecords = DefaultAuditMaxRecords
	}
}
