package eventing

import (
	"slices"
	"strings"
)

// Event is what subscribers receive when a subject they match is published.
type Event struct {
	Subject string
	Payload any
	Headers Headers
}

// Headers represents event headers
type Headers map[string]string

func (h Headers) Get(key string) string {
	return h[key]
}

func (h Headers) Set(key string, value string) {
	h[key] = value
}

func (h Headers) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	return keys
}

type Callback func(ev Event)

type Subscriber interface {
	// Close stops the subscriber. Closing twice is a no-op.
	Close() error
}

type PublishOption func(*publishOptions)

type publishOptions struct {
	Headers [][]string
}

func WithHeader(key, value string) PublishOption {
	return func(o *publishOptions) {
		o.Headers = append(o.Headers, []string{key, value})
	}
}

type subscription struct {
	emitter *Emitter
	pattern []string
	cb      Callback
	once    bool
	closed  bool
}

func (s *subscription) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.emitter.subs = slices.DeleteFunc(s.emitter.subs, func(other *subscription) bool {
		return other == s
	})
	return nil
}

// Emitter is a synchronous in-process publish/subscribe hub.
//
// Subjects are dot separated tokens. A subscription pattern may use `*` to
// match exactly one token and a trailing `>` to match one or more remaining
// tokens, so "cache.*" matches "cache.evicted" and "queue.>" matches
// "queue.overflow".
//
// Callbacks run on the publisher's goroutine in subscription order. An
// Emitter is not safe for concurrent use.
type Emitter struct {
	subs []*subscription
}

// NewEmitter returns an Emitter with no subscribers.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Subscribe registers cb for every published subject matching pattern.
func (e *Emitter) Subscribe(pattern string, cb Callback) Subscriber {
	return e.add(pattern, cb, false)
}

// Once registers cb for the first published subject matching pattern only.
func (e *Emitter) Once(pattern string, cb Callback) Subscriber {
	return e.add(pattern, cb, true)
}

func (e *Emitter) add(pattern string, cb Callback, once bool) *subscription {
	s := &subscription{
		emitter: e,
		pattern: splitSubject(pattern),
		cb:      cb,
		once:    once,
	}
	e.subs = append(e.subs, s)
	return s
}

// Publish delivers payload to every subscriber matching subject and returns
// the number of callbacks invoked. Subscriptions added or closed by a
// callback take effect for subsequent publishes.
func (e *Emitter) Publish(subject string, payload any, opts ...PublishOption) int {
	if len(e.subs) == 0 {
		return 0
	}
	var o publishOptions
	for _, opt := range opts {
		opt(&o)
	}
	ev := Event{Subject: subject, Payload: payload, Headers: Headers{}}
	for _, kv := range o.Headers {
		ev.Headers.Set(kv[0], kv[1])
	}
	tokens := splitSubject(subject)
	var delivered int
	for _, s := range slices.Clone(e.subs) {
		if s.closed || !match(s.pattern, tokens) {
			continue
		}
		if s.once {
			s.Close()
		}
		s.cb(ev)
		delivered++
	}
	return delivered
}

// SubscriberCount returns how many active subscriptions match subject.
func (e *Emitter) SubscriberCount(subject string) int {
	tokens := splitSubject(subject)
	var n int
	for _, s := range e.subs {
		if match(s.pattern, tokens) {
			n++
		}
	}
	return n
}

func splitSubject(subject string) []string {
	return strings.Split(subject, ".")
}

func match(pattern, subject []string) bool {
	for i, p := range pattern {
		if p == ">" {
			return i == len(pattern)-1 && len(subject) > i
		}
		if i >= len(subject) {
			return false
		}
		if p != "*" && p != subject[i] {
			return false
		}
	}
	return len(pattern) == len(subject)
}
