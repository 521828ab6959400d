package queue

import (
	"time"

	"github.com/agentuity/go-collections/eventing"
	"github.com/agentuity/go-collections/logger"
)

type config struct {
	maxSize int
	now     func() time.Time
	newID   func() string
	logger  logger.Logger
	emitter *eventing.Emitter
}

// Option configures a Queue.
type Option func(*config)

func defaultConfig() config {
	return config{
		now:   time.Now,
		newID: NewID,
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMaxSize bounds the queue. Enqueuing into a full queue drops the front
// item first. Values <= 0 leave the queue unbounded.
func WithMaxSize(n int) Option {
	return func(c *config) { c.maxSize = n }
}

// WithClock replaces the clock used for EnqueuedAt.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithIDGenerator replaces NewID. Generated ids must be unique for the
// lifetime of the queue.
func WithIDGenerator(fn func() string) Option {
	return func(c *config) { c.newID = fn }
}

// WithLogger logs overflow drops at trace level.
func WithLogger(l logger.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithEmitter publishes overflow drops, removals and clears on e.
func WithEmitter(e *eventing.Emitter) Option {
	return func(c *config) { c.emitter = e }
}
