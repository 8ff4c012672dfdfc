package extension

import (
	"context"
	"errors"
	"slices"

	"github.com/specialistvlad/extgrid/internal/ctxlog"
)

// Resolve returns the capability bound to name, constructing it through the
// Resolver on first use. Subsequent calls return the cached instance until
// the extension is rebound.
func (r *Registry) Resolve(ctx context.Context, name string) (Capability, error) {
	s, ok := r.lookupSlot(name)
	if !ok {
		return nil, &UnboundExtensionError{Name: name}
	}
	if res := s.resolved.Load(); res != nil {
		return res.instance, nil
	}

	parent := chainFromContext(ctx)
	if parent.contains(name) {
		return nil, &CyclicResolutionError{Path: append(slices.Clone(parent.path), name)}
	}
	c := parent.push(name)
	return r.resolveSlot(c.withContext(ctx), c, s)
}

// resolveSlot either takes ownership of s and constructs the instance, or
// waits for the current owner and re-checks.
func (r *Registry) resolveSlot(ctx context.Context, c *chain, s *slot) (Capability, error) {
	for {
		r.waitMu.Lock()
		if res := s.resolved.Load(); res != nil {
			r.waitMu.Unlock()
			return res.instance, nil
		}
		if s.owner == "" {
			s.owner = c.id()
			s.done = make(chan struct{})
			r.waitMu.Unlock()
			return r.construct(ctx, c, s)
		}
		if r.closesCycle(c, s) {
			r.waitMu.Unlock()
			return nil, &CyclicResolutionError{Path: slices.Clone(c.path), Concurrent: true}
		}
		r.waiting[c.id()] = &waiter{chain: c, slot: s}
		done := s.done
		r.waitMu.Unlock()

		var err error
		select {
		case <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}

		r.waitMu.Lock()
		delete(r.waiting, c.id())
		r.waitMu.Unlock()

		if err != nil {
			return nil, &ResolutionError{Name: s.binding.ExtensionName, Key: s.binding.TargetKey, Err: err}
		}
	}
}

// construct calls the Resolver while owning s. Ownership is released even
// if the Resolver panics; only a successful result is cached.
func (r *Registry) construct(ctx context.Context, c *chain, s *slot) (Capability, error) {
	name, key := s.binding.ExtensionName, s.binding.TargetKey
	logger := ctxlog.FromContext(ctx)

	var (
		instance Capability
		ok       bool
	)
	defer func() {
		r.waitMu.Lock()
		if ok {
			s.resolved.Store(&resolved{instance: instance})
		}
		s.owner = ""
		close(s.done)
		r.waitMu.Unlock()
	}()

	logger.Debug("Resolving extension.", "extension", name, "ref", key, "path", c.path)
	instance, err := r.resolver.Lookup(ctx, key)
	if err != nil {
		var cyc *CyclicResolutionError
		if errors.As(err, &cyc) {
			return nil, cyc
		}
		return nil, &ResolutionError{Name: name, Key: key, Err: err}
	}
	if instance == nil {
		return nil, &ResolutionError{Name: name, Key: key, Err: errors.New("resolver returned a nil component")}
	}

	ok = true
	logger.Debug("Extension resolved.", "extension", name, "ref", key)
	return instance, nil
}

// closesCycle reports whether frame c waiting on s would wait on itself.
// A frame is blocked by its descendants, so c transitively waits on every
// ancestor too. Starting from the owner of s, it follows owner -> waiting
// descendant -> owner of the slot that descendant waits on, and reports a
// cycle when it reaches c or one of c's ancestors. Caller holds waitMu.
func (r *Registry) closesCycle(c *chain, s *slot) bool {
	visited := make(map[string]bool)
	queue := []string{s.owner}
	for len(queue) > 0 {
		owner := queue[0]
		queue = queue[1:]
		if c.descendsFrom(owner) {
			return true
		}
		if visited[owner] {
			continue
		}
		visited[owner] = true
		for _, w := range r.waiting {
			if w.chain.descendsFrom(owner) && w.slot.owner != "" {
				queue = append(queue, w.slot.owner)
			}
		}
	}
	return false
}
