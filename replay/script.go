package replay

import (
	"io"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"
)

const (
	KindCache    = "cache"
	KindLRU      = "lru"
	KindQueue    = "queue"
	KindPriority = "priority"
	KindCircular = "circular"
)

var kinds = []string{KindCache, KindLRU, KindQueue, KindPriority, KindCircular}

// ErrInvalidScript wraps every validation failure returned by Load.
var ErrInvalidScript = errors.New("replay: invalid script")

// Script describes one container and the operations to run against it.
type Script struct {
	Kind    string `yaml:"kind"`
	MaxSize int    `yaml:"maxSize"`
	TTL     string `yaml:"ttl"`
	Steps   []Step `yaml:"steps"`
}

// Step is a single operation. Which fields matter depends on Op.
type Step struct {
	Op       string `yaml:"op"`
	Key      string `yaml:"key,omitempty"`
	Value    string `yaml:"value,omitempty"`
	TTL      string `yaml:"ttl,omitempty"`
	Priority int    `yaml:"priority,omitempty"`
	// Ref names an enqueued item so a later remove can target it.
	Ref string `yaml:"ref,omitempty"`
	// By is the amount of virtual time an advance step moves the clock.
	By string `yaml:"by,omitempty"`
}

// Load decodes and validates a YAML script.
func Load(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "replay: decode script")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the kind, sizes and every duration in the script.
func (s *Script) Validate() error {
	if !slices.Contains(kinds, s.Kind) {
		return errors.Wrapf(ErrInvalidScript, "unknown kind %q", s.Kind)
	}
	if (s.Kind == KindLRU || s.Kind == KindCircular) && s.MaxSize <= 0 {
		return errors.Wrapf(ErrInvalidScript, "%s requires a positive maxSize", s.Kind)
	}
	if _, err := parseDuration(s.TTL); err != nil {
		return errors.Wrapf(ErrInvalidScript, "ttl: %s", err)
	}
	for i, step := range s.Steps {
		if step.Op == "" {
			return errors.Wrapf(ErrInvalidScript, "step %d: missing op", i+1)
		}
		if _, err := parseDuration(step.TTL); err != nil {
			return errors.Wrapf(ErrInvalidScript, "step %d: ttl: %s", i+1, err)
		}
		if _, err := parseDuration(step.By); err != nil {
			return errors.Wrapf(ErrInvalidScript, "step %d: by: %s", i+1, err)
		}
	}
	return nil
}

// parseDuration accepts the extended units of str2duration (for example
// "1d12h"). An empty string is zero.
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return str2duration.ParseDuration(s)
}
