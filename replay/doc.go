// Package replay runs scripted operations against a cache or queue on a
// virtual clock and reports the result of every step. Scripts are YAML:
//
//	kind: cache        # cache | lru | queue | priority | circular
//	maxSize: 2
//	ttl: 1m            # store default, cache and lru only
//	steps:
//	  - {op: set, key: a, value: "1", ttl: 100ms}
//	  - {op: advance, by: 150ms}
//	  - {op: get, key: a}
//
// Durations accept day and week units ("1d", "2w") in addition to the
// standard Go units.
package replay
