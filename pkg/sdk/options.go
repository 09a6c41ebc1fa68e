package kinsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

const (
	driverValkey = "valkey"
	driverRedis  = "redis"
	driverSQLite = "sqlite"
)

type clientConfig struct {
	driver     string // "valkey", "redis" or "sqlite"
	addrs      []string
	password   string
	sqlitePath string
	keyPrefix  string

	maxResults   int
	storeTimeout time.Duration

	auditStream    bool
	auditStreamKey string
	auditMaxLen    int64
	auditTable     bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to read records from a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to read records from a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSQLite configures the client to use an SQLite database file.
// The schema is created on first use. ":memory:" opens a private database.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverSQLite
		c.sqlitePath = path
	})
}

// WithKeyPrefix sets the Valkey/Redis key prefix. Default: "kinsearch:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithMaxResults caps results per search. Default: 100.
func WithMaxResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxResults = n
	})
}

// WithStoreTimeout bounds each record store read. Default: 3s.
func WithStoreTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.storeTimeout = d
	})
}

// WithAuditStream records one audit event per search in a Valkey/Redis
// stream at <prefix><key>, trimmed to about maxLen entries.
// Empty key defaults to "audit"; maxLen <= 0 uses 100000.
func WithAuditStream(key string, maxLen int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.auditStream = true
		c.auditStreamKey = key
		c.auditMaxLen = maxLen
	})
}

// WithAuditTable records one audit event per search in the SQLite
// audit_logs table.
func WithAuditTable() Option {
	return optionFunc(func(c *clientConfig) {
		c.auditTable = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithMetrics registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithMetrics(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
