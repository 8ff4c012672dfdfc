package extension

import (
	"context"
	"errors"
	"iter"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/extgrid/internal/ctxlog"
	"github.com/specialistvlad/extgrid/internal/reftable"
)

// Capability is the opaque handle to a resolved component.
type Capability = any

// Resolver produces a live component for a target key. It is the only
// capability the registry needs from its host container.
type Resolver interface {
	Lookup(ctx context.Context, key string) (Capability, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, key string) (Capability, error)

// Lookup implements Resolver.
func (f ResolverFunc) Lookup(ctx context.Context, key string) (Capability, error) {
	return f(ctx, key)
}

// Registry owns the bindings and the resolved instance of every extension.
type Registry struct {
	resolver Resolver

	mu     sync.Mutex // serializes mutations while open
	frozen atomic.Bool
	table  *reftable.Table
	slots  map[string]*slot

	waitMu  sync.Mutex         // guards slot ownership and waiting
	waiting map[string]*waiter // frame ID -> what that frame waits on
}

// slot holds the resolution state of a single binding. Rebind replaces the
// slot, which is how a cached instance is invalidated.
type slot struct {
	binding  reftable.Binding
	resolved atomic.Pointer[resolved]

	owner string        // frame ID constructing the instance, guarded by waitMu
	done  chan struct{} // closed when owner finishes, guarded by waitMu
}

// waiter is a resolution frame blocked on a slot owned by another frame.
type waiter struct {
	chain *chain
	slot  *slot
}

type resolved struct {
	instance Capability
}

// Status describes a binding and whether it has been resolved.
type Status struct {
	reftable.Binding
	Resolved bool
	// Type is the Go type of the resolved instance, empty until resolved.
	Type string
}

// New creates an open registry that resolves target keys through resolver.
func New(resolver Resolver) *Registry {
	return &Registry{
		resolver: resolver,
		table:    reftable.New(),
		slots:    make(map[string]*slot),
		waiting:  make(map[string]*waiter),
	}
}

// Register binds name to the component identified by key.
func (r *Registry) Register(name, key string) error {
	return r.RegisterBinding(reftable.NewBinding(name, key))
}

// RegisterBinding is Register with origin information for diagnostics.
// Registering an identical binding twice is a no-op; a conflicting one
// returns *reftable.DuplicateBindingError.
func (r *Registry) RegisterBinding(b reftable.Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return &FrozenRegistryError{Op: "register", Name: b.ExtensionName}
	}

	added, err := r.table.Register(b)
	if err != nil {
		return err
	}
	if added {
		r.slots[b.ExtensionName] = &slot{binding: b}
	}
	return nil
}

// Rebind points an already registered extension at a different component and
// drops any cached instance.
func (r *Registry) Rebind(name, key string) error {
	return r.RebindBinding(reftable.NewBinding(name, key))
}

// RebindBinding is Rebind with origin information for diagnostics.
func (r *Registry) RebindBinding(b reftable.Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return &FrozenRegistryError{Op: "rebind", Name: b.ExtensionName}
	}
	if _, ok := r.table.Lookup(b.ExtensionName); !ok {
		return &UnboundExtensionError{Name: b.ExtensionName}
	}
	if err := r.table.Replace(b); err != nil {
		return err
	}
	r.slots[b.ExtensionName] = &slot{binding: b}
	return nil
}

// Freeze forbids further Register and Rebind calls. It is idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen.Store(true)
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}

// Binding returns the binding registered under name.
func (r *Registry) Binding(name string) (reftable.Binding, bool) {
	s, ok := r.lookupSlot(name)
	if !ok {
		return reftable.Binding{}, false
	}
	return s.binding, true
}

// Bindings yields every binding in registration order.
func (r *Registry) Bindings() iter.Seq[reftable.Binding] {
	return func(yield func(reftable.Binding) bool) {
		for _, b := range r.snapshot() {
			if !yield(b) {
				return
			}
		}
	}
}

// Len returns the number of bindings.
func (r *Registry) Len() int {
	return len(r.snapshot())
}

// Status reports the state of a single extension.
func (r *Registry) Status(name string) (Status, bool) {
	s, ok := r.lookupSlot(name)
	if !ok {
		return Status{}, false
	}
	return s.status(), true
}

// Statuses reports the state of every extension in registration order.
func (r *Registry) Statuses() []Status {
	bindings := r.snapshot()
	out := make([]Status, 0, len(bindings))
	for _, b := range bindings {
		if s, ok := r.lookupSlot(b.ExtensionName); ok {
			out = append(out, s.status())
		}
	}
	return out
}

// ResolveAll resolves every bound extension. It is the eager counterpart to
// lazy resolution and returns all failures joined.
func (r *Registry) ResolveAll(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []error
	for _, b := range r.snapshot() {
		if _, err := r.Resolve(ctx, b.ExtensionName); err != nil {
			logger.Error("Eager resolution failed.", "extension", b.ExtensionName, "ref", b.TargetKey, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases every resolved instance that implements io.Closer. Resolved
// instances are kept; Close is meant for process teardown.
func (r *Registry) Close(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []error
	for _, b := range r.snapshot() {
		s, ok := r.lookupSlot(b.ExtensionName)
		if !ok {
			continue
		}
		res := s.resolved.Load()
		if res == nil {
			continue
		}
		closer, ok := res.instance.(interface{ Close() error })
		if !ok {
			continue
		}
		logger.Debug("Closing extension.", "extension", b.ExtensionName)
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// lookupSlot reads the slot map. Once frozen the map never changes, so the
// lock is skipped.
func (r *Registry) lookupSlot(name string) (*slot, bool) {
	if r.frozen.Load() {
		s, ok := r.slots[name]
		return s, ok
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[name]
	return s, ok
}

func (r *Registry) snapshot() []reftable.Binding {
	if r.frozen.Load() {
		return slices.Collect(r.table.All())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Collect(r.table.All())
}

func (s *slot) status() Status {
	st := Status{Binding: s.binding}
	if res := s.resolved.Load(); res != nil {
		st.Resolved = true
		st.Type = reflect.TypeOf(res.instance).String()
	}
	return st
}
