package cache

import (
	"time"

	"github.com/agentuity/go-collections/eventing"
	"github.com/agentuity/go-collections/logger"
)

// config holds the resolved configuration for a cache.
type config struct {
	ttl     time.Duration
	maxSize int
	now     func() time.Time
	logger  logger.Logger
	emitter *eventing.Emitter
}

// Option configures a Cache, LRU or memoized function.
type Option func(*config)

func defaultConfig() config {
	return config{
		now: time.Now,
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithTTL sets the store-wide time-to-live used when Set is called with
// ttl <= 0. Zero (the default) means entries never expire.
func WithTTL(d time.Duration) Option {
	return func(c *config) { c.ttl = d }
}

// WithMaxSize bounds the number of entries. Values <= 0 leave the store
// unbounded.
func WithMaxSize(n int) Option {
	return func(c *config) { c.maxSize = n }
}

// WithClock replaces the wall clock used for insertion timestamps and expiry
// checks.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithLogger logs evictions and expirations at trace level.
func WithLogger(l logger.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithEmitter publishes entry removals on e. See the Subject constants.
func WithEmitter(e *eventing.Emitter) Option {
	return func(c *config) { c.emitter = e }
}
