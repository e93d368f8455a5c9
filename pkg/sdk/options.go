package nearby

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/nearby/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	indexDriver string
	addrs       []string
	password    string

	catalogDriver string
	dsn           string

	keyPrefix      string
	candidateLimit int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		indexDriver:   config.DriverMemory,
		catalogDriver: config.CatalogSQLite,
		dsn:           ":memory:",
	}
}

func (c *clientConfig) validate() error {
	if c.indexDriver == config.DriverRedis && len(c.addrs) == 0 {
		return errors.New("nearby: redis address required")
	}
	if c.dsn == "" {
		return errors.New("nearby: catalog dsn required")
	}
	if c.candidateLimit < 0 {
		return errors.New("nearby: candidate limit must be >= 0")
	}
	return nil
}

// WithRedis stores the search projection in Redis 8+ (Query Engine required).
func WithRedis(addr, password string) Option {
	return WithRedisAddrs([]string{addr}, password)
}

// WithRedisAddrs is WithRedis for several seed addresses, e.g. a cluster.
// Empty entries are ignored.
func WithRedisAddrs(addrs []string, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexDriver = config.DriverRedis
		c.addrs = nil
		for _, a := range addrs {
			if a != "" {
				c.addrs = append(c.addrs, a)
			}
		}
		c.password = password
	})
}

// WithMemory keeps the search projection in process memory.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.indexDriver = config.DriverMemory
		c.addrs = nil
	})
}

// WithSQLite stores the catalog in SQLite. Use ":memory:" for a throwaway catalog.
func WithSQLite(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogDriver = config.CatalogSQLite
		c.dsn = dsn
	})
}

// WithPostgres stores the catalog in Postgres.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogDriver = config.CatalogPostgres
		c.dsn = dsn
	})
}

// WithKeyPrefix namespaces projection keys and the index name.
// Default: "nearby:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithCandidateLimit sets how many shops one geo index page returns.
// Searches page until every shop in the radius is seen. Default: 10000.
func WithCandidateLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.candidateLimit = n
	})
}

// WithLogger logs failed and rejected calls (and completed ones at debug).
// nil disables logging, the default.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers nearby_sdk_* metrics on reg. Clients sharing a
// registry share the collectors. nil disables metrics, the default.
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
