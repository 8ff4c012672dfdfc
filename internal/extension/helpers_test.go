package extension

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// component is a distinct pointer per construction so tests can compare identity.
type component struct {
	key    string
	closed atomic.Bool
}

func (c *component) Close() error {
	c.closed.Store(true)
	return nil
}

// countingResolver builds a fresh *component per lookup and counts constructions per key.
type countingResolver struct {
	mu     sync.Mutex
	counts map[string]int
	known  map[string]bool
}

func newCountingResolver(keys ...string) *countingResolver {
	known := make(map[string]bool, len(keys))
	for _, k := range keys {
		known[k] = true
	}
	return &countingResolver{counts: make(map[string]int), known: known}
}

func (r *countingResolver) Lookup(_ context.Context, key string) (Capability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.known[key] {
		return nil, fmt.Errorf("component '%s' not found", key)
	}
	r.counts[key]++
	return &component{key: key}, nil
}

func (r *countingResolver) count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[key]
}
