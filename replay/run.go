package replay

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agentuity/go-collections/cache"
	"github.com/agentuity/go-collections/eventing"
	"github.com/agentuity/go-collections/logger"
	"github.com/agentuity/go-collections/queue"
	"github.com/cockroachdb/errors"
)

// ErrUnsupportedOp is returned when a step's op does not apply to the
// script's kind.
var ErrUnsupportedOp = errors.New("replay: unsupported op")

const absent = "<absent>"

// Epoch is the virtual clock's start time.
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Result is the outcome of one step.
type Result struct {
	Step   int      `json:"step"`
	Op     string   `json:"op"`
	Output string   `json:"output"`
	Events []string `json:"events,omitempty"`
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

type target interface {
	apply(step Step) (string, error)
}

// Run executes every step against a fresh container on a virtual clock that
// only moves on advance steps. log may be nil.
func Run(s *Script, log logger.Logger) ([]Result, error) {
	clk := &clock{now: Epoch}
	emitter := eventing.NewEmitter()
	var events []string
	emitter.Subscribe(">", func(ev eventing.Event) {
		events = append(events, ev.Subject)
	})
	t, err := newTarget(s, clk, emitter, log)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(s.Steps))
	for i, step := range s.Steps {
		events = nil
		var out string
		if step.Op == "advance" {
			d, _ := parseDuration(step.By)
			clk.now = clk.now.Add(d)
			out = clk.now.Sub(Epoch).String()
		} else if out, err = t.apply(step); err != nil {
			return results, errors.Wrapf(err, "step %d", i+1)
		}
		if log != nil {
			log.Debug("step %d %s -> %s", i+1, step.Op, out)
		}
		results = append(results, Result{Step: i + 1, Op: step.Op, Output: out, Events: events})
	}
	return results, nil
}

func newTarget(s *Script, clk *clock, emitter *eventing.Emitter, log logger.Logger) (target, error) {
	ttl, err := parseDuration(s.TTL)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidScript, "ttl: %s", err)
	}
	switch s.Kind {
	case KindCache, KindLRU:
		opts := []cache.Option{
			cache.WithTTL(ttl),
			cache.WithMaxSize(s.MaxSize),
			cache.WithClock(clk.Now),
			cache.WithEmitter(emitter),
		}
		if log != nil {
			opts = append(opts, cache.WithLogger(log.WithPrefix("[cache]")))
		}
		if s.Kind == KindCache {
			return &storeTarget{store: cache.New[string, string](opts...)}, nil
		}
		l, err := cache.NewLRU[string, string](s.MaxSize, opts...)
		if err != nil {
			return nil, err
		}
		return &storeTarget{store: l}, nil
	case KindQueue:
		var n int
		opts := []queue.Option{
			queue.WithMaxSize(s.MaxSize),
			queue.WithClock(clk.Now),
			queue.WithEmitter(emitter),
			queue.WithIDGenerator(func() string {
				n++
				return "q" + strconv.Itoa(n)
			}),
		}
		if log != nil {
			opts = append(opts, queue.WithLogger(log.WithPrefix("[queue]")))
		}
		return &queueTarget{q: queue.New[string](opts...), refs: make(map[string]string)}, nil
	case KindPriority:
		return &priorityTarget{q: queue.NewPriority[string]()}, nil
	case KindCircular:
		q, err := queue.NewCircular[string](s.MaxSize)
		if err != nil {
			return nil, err
		}
		return &circularTarget{q: q}, nil
	}
	return nil, errors.Wrapf(ErrInvalidScript, "unknown kind %q", s.Kind)
}

// store is satisfied by both cache.Cache and cache.LRU.
type store interface {
	Get(key string) (string, bool)
	Set(key, val string, ttl time.Duration)
	Has(key string) bool
	Delete(key string) bool
	Clear()
	Size() int
	Keys() []string
	Values() []string
	Cleanup() int
}

type storeTarget struct {
	store store
}

func (t *storeTarget) apply(step Step) (string, error) {
	switch step.Op {
	case "set":
		ttl, _ := parseDuration(step.TTL)
		t.store.Set(step.Key, step.Value, ttl)
		return "ok", nil
	case "get":
		return optional(t.store.Get(step.Key)), nil
	case "has":
		return strconv.FormatBool(t.store.Has(step.Key)), nil
	case "delete":
		return strconv.FormatBool(t.store.Delete(step.Key)), nil
	case "clear":
		t.store.Clear()
		return "ok", nil
	case "size":
		return strconv.Itoa(t.store.Size()), nil
	case "keys":
		return list(t.store.Keys()), nil
	case "values":
		return list(t.store.Values()), nil
	case "cleanup":
		return strconv.Itoa(t.store.Cleanup()), nil
	}
	return "", unsupported(step.Op, "cache")
}

type queueTarget struct {
	q    *queue.Queue[string]
	refs map[string]string
}

func (t *queueTarget) apply(step Step) (string, error) {
	switch step.Op {
	case "enqueue":
		id := t.q.EnqueueWithPriority(step.Value, step.Priority)
		if step.Ref != "" {
			t.refs[step.Ref] = id
		}
		return id, nil
	case "dequeue":
		return optional(t.q.Dequeue()), nil
	case "peek":
		return optional(t.q.Peek()), nil
	case "remove":
		id := step.Key
		if ref, ok := t.refs[step.Ref]; ok {
			id = ref
		}
		return strconv.FormatBool(t.q.Remove(id)), nil
	case "size":
		return strconv.Itoa(t.q.Size()), nil
	case "isEmpty":
		return strconv.FormatBool(t.q.IsEmpty()), nil
	case "isFull":
		return strconv.FormatBool(t.q.IsFull()), nil
	case "clear":
		t.q.Clear()
		return "ok", nil
	case "toArray":
		return list(t.q.ToArray()), nil
	}
	return "", unsupported(step.Op, KindQueue)
}

type priorityTarget struct {
	q *queue.PriorityQueue[string]
}

func (t *priorityTarget) apply(step Step) (string, error) {
	switch step.Op {
	case "enqueue":
		t.q.Enqueue(step.Value, step.Priority)
		return "ok", nil
	case "dequeue":
		return optional(t.q.Dequeue()), nil
	case "peek":
		return optional(t.q.Peek()), nil
	case "size":
		return strconv.Itoa(t.q.Size()), nil
	case "isEmpty":
		return strconv.FormatBool(t.q.IsEmpty()), nil
	case "clear":
		t.q.Clear()
		return "ok", nil
	case "toArray":
		return list(t.q.ToArray()), nil
	}
	return "", unsupported(step.Op, KindPriority)
}

type circularTarget struct {
	q *queue.CircularQueue[string]
}

func (t *circularTarget) apply(step Step) (string, error) {
	switch step.Op {
	case "enqueue":
		return strconv.FormatBool(t.q.Enqueue(step.Value)), nil
	case "dequeue":
		return optional(t.q.Dequeue()), nil
	case "peek":
		return optional(t.q.Peek()), nil
	case "size":
		return strconv.Itoa(t.q.Size()), nil
	case "isEmpty":
		return strconv.FormatBool(t.q.IsEmpty()), nil
	case "isFull":
		return strconv.FormatBool(t.q.IsFull()), nil
	case "clear":
		t.q.Clear()
		return "ok", nil
	case "toArray":
		return list(t.q.ToArray()), nil
	}
	return "", unsupported(step.Op, KindCircular)
}

func unsupported(op, kind string) error {
	return errors.Wrapf(ErrUnsupportedOp, "%q on %s", op, kind)
}

func optional(val string, ok bool) string {
	if !ok {
		return absent
	}
	return val
}

func list(vals []string) string {
	return fmt.Sprintf("[%s]", strings.Join(vals, " "))
}
