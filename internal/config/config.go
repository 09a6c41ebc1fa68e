package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/kinsearch/internal/domain/actor"
)

// Config holds the kinsearch API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Search   SearchConfig   `yaml:"search"`
	Audit    AuditConfig    `yaml:"audit"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig maps bearer API keys to actors. Requests without a key are
// served as the public actor.
type AuthConfig struct {
	APIKeys []APIKeyConfig `yaml:"api_keys"`
}

// APIKeyConfig binds one API key to an account.
type APIKeyConfig struct {
	Key      string `yaml:"key"`
	Role     string `yaml:"role"` // public, mortuary_staff, police, admin
	ActorID  string `yaml:"actor_id"`
	Approval string `yaml:"approval"` // pending, approved, rejected (default: approved)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Database drivers.
const (
	DriverValkey = "valkey"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// DatabaseConfig holds record store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis, sqlite (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	SQLitePath       string   `yaml:"sqlite_path"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds search limits.
type SearchConfig struct {
	MaxResults     int `yaml:"max_results"`
	StoreTimeoutMs int `yaml:"store_timeout_ms"`
}

// Audit sinks.
const (
	AuditSinkStream = "stream"
	AuditSinkSQLite = "sqlite"
	AuditSinkLog    = "log"
	AuditSinkNone   = "none"
)

// AuditConfig selects where search audit events go.
type AuditConfig struct {
	Sink      string `yaml:"sink"`       // stream, sqlite, log, none (default: log)
	StreamKey string `yaml:"stream_key"` // appended to storage.key_prefix (default: audit)
	MaxLen    int64  `yaml:"stream_max_len"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverValkey
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 100
	}
	if c.Search.StoreTimeoutMs <= 0 {
		c.Search.StoreTimeoutMs = 3000
	}
	if c.Audit.Sink == "" {
		c.Audit.Sink = AuditSinkLog
	}
	if c.Audit.StreamKey == "" {
		c.Audit.StreamKey = "audit"
	}
	if c.Audit.MaxLen <= 0 {
		c.Audit.MaxLen = 100_000
	}
	if c.Audit.TimeoutMs <= 0 {
		c.Audit.TimeoutMs = 1000
	}
	for i := range c.Auth.APIKeys {
		if c.Auth.APIKeys[i].Approval == "" {
			c.Auth.APIKeys[i].Approval = string(actor.Approved)
		}
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "kinsearch:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Database.Driver {
	case DriverValkey, DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path is required for driver %q", DriverSQLite)
		}
	default:
		return fmt.Errorf("database.driver must be valkey, redis or sqlite, got %q", c.Database.Driver)
	}

	switch c.Audit.Sink {
	case AuditSinkLog, AuditSinkNone:
	case AuditSinkStream:
		if c.Database.Driver == DriverSQLite {
			return fmt.Errorf("audit.sink %q requires a valkey or redis database", AuditSinkStream)
		}
	case AuditSinkSQLite:
		if c.Database.Driver != DriverSQLite {
			return fmt.Errorf("audit.sink %q requires the sqlite database driver", AuditSinkSQLite)
		}
	default:
		return fmt.Errorf("audit.sink must be stream, sqlite, log or none, got %q", c.Audit.Sink)
	}

	seen := make(map[string]bool, len(c.Auth.APIKeys))
	for i, k := range c.Auth.APIKeys {
		if k.Key == "" {
			return fmt.Errorf("auth.api_keys[%d].key is required", i)
		}
		if seen[k.Key] {
			return fmt.Errorf("auth.api_keys[%d]: duplicate key", i)
		}
		seen[k.Key] = true
		if _, err := actor.ParseRole(k.Role); err != nil {
			return fmt.Errorf("auth.api_keys[%d].role: %w", i, err)
		}
		if !actor.Approval(k.Approval).IsValid() {
			return fmt.Errorf("auth.api_keys[%d].approval must be pending, approved or rejected, got %q", i, k.Approval)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
