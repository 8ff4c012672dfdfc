package extension

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolve_ConcurrentFirstAccess verifies at-most-once construction when
// many goroutines race on the first resolution of the same name.
func TestResolve_ConcurrentFirstAccess(t *testing.T) {
	var constructions atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	var enterOnce sync.Once

	reg := New(ResolverFunc(func(_ context.Context, key string) (Capability, error) {
		constructions.Add(1)
		enterOnce.Do(func() { close(entered) })
		<-release
		return &component{key: key}, nil
	}))
	require.NoError(t, reg.Register("x", "slow"))
	reg.Freeze()

	const workers = 16
	results := make([]Capability, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = reg.Resolve(context.Background(), "x")
		}(i)
	}

	<-entered
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), constructions.Load())
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], results[i])
	}
}

func TestResolve_ReentrantCycle(t *testing.T) {
	var reg *Registry
	reg = New(ResolverFunc(func(ctx context.Context, key string) (Capability, error) {
		if _, err := reg.Resolve(ctx, "self"); err != nil {
			return nil, err
		}
		return &component{key: key}, nil
	}))
	require.NoError(t, reg.Register("self", "loop"))

	_, err := reg.Resolve(context.Background(), "self")

	var cyc *CyclicResolutionError
	require.True(t, errors.As(err, &cyc))
	assert.Equal(t, []string{"self", "self"}, cyc.Path)
	assert.False(t, cyc.Concurrent)

	st, _ := reg.Status("self")
	assert.False(t, st.Resolved)
}

func TestResolve_TransitiveCycle(t *testing.T) {
	deps := map[string]string{"A": "b", "B": "c", "C": "a"}

	var reg *Registry
	reg = New(ResolverFunc(func(ctx context.Context, key string) (Capability, error) {
		if _, err := reg.Resolve(ctx, deps[key]); err != nil {
			return nil, err
		}
		return &component{key: key}, nil
	}))
	require.NoError(t, reg.Register("a", "A"))
	require.NoError(t, reg.Register("b", "B"))
	require.NoError(t, reg.Register("c", "C"))
	reg.Freeze()

	_, err := reg.Resolve(context.Background(), "a")

	var cyc *CyclicResolutionError
	require.True(t, errors.As(err, &cyc))
	assert.Equal(t, []string{"a", "b", "c", "a"}, cyc.Path)
}

func TestResolve_TransitiveWithoutCycle(t *testing.T) {
	var reg *Registry
	reg = New(ResolverFunc(func(ctx context.Context, key string) (Capability, error) {
		if key == "Outer" {
			inner, err := reg.Resolve(ctx, "inner")
			if err != nil {
				return nil, err
			}
			return &component{key: "Outer+" + inner.(*component).key}, nil
		}
		return &component{key: key}, nil
	}))
	require.NoError(t, reg.Register("outer", "Outer"))
	require.NoError(t, reg.Register("inner", "Inner"))

	c, err := reg.Resolve(context.Background(), "outer")
	require.NoError(t, err)
	assert.Equal(t, "Outer+Inner", c.(*component).key)

	st, _ := reg.Status("inner")
	assert.True(t, st.Resolved, "transitively resolved extensions are cached too")
}

// fanOut resolves every name on its own goroutine with the caller's context
// and returns the first error.
func fanOut(ctx context.Context, reg *Registry, names ...string) error {
	errs := make(chan error, len(names))
	for _, name := range names {
		go func(name string) {
			_, err := reg.Resolve(ctx, name)
			errs <- err
		}(name)
	}
	var first error
	for range names {
		if err := <-errs; err != nil && first == nil {
			first = err
		}
	}
	return first
}

// TestResolve_ParallelFanOutWithoutCycle resolves a diamond: A builds b and c
// in parallel, and B also needs c while C is still being built by A's other
// goroutine. Sibling resolutions share ancestry but must not be mistaken for
// a cycle.
func TestResolve_ParallelFanOutWithoutCycle(t *testing.T) {
	cEntered, releaseC := make(chan struct{}), make(chan struct{})

	var reg *Registry
	reg = New(ResolverFunc(func(ctx context.Context, key string) (Capability, error) {
		switch key {
		case "A":
			if err := fanOut(ctx, reg, "c", "b"); err != nil {
				return nil, err
			}
		case "B":
			<-cEntered
			if _, err := reg.Resolve(ctx, "c"); err != nil {
				return nil, err
			}
		case "C":
			close(cEntered)
			<-releaseC
		}
		return &component{key: key}, nil
	}))
	require.NoError(t, reg.Register("a", "A"))
	require.NoError(t, reg.Register("b", "B"))
	require.NoError(t, reg.Register("c", "C"))
	reg.Freeze()

	done := make(chan error, 1)
	go func() {
		_, err := reg.Resolve(context.Background(), "a")
		done <- err
	}()

	// Hold C until B is queued behind it.
	require.Eventually(t, func() bool {
		reg.waitMu.Lock()
		defer reg.waitMu.Unlock()
		return len(reg.waiting) == 1
	}, 5*time.Second, time.Millisecond)
	close(releaseC)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("resolution deadlocked")
	}
	for _, name := range []string{"a", "b", "c"} {
		st, _ := reg.Status(name)
		assert.True(t, st.Resolved, "%s should be resolved", name)
	}
}

// TestResolve_ParallelFanOutCycle lets two sibling goroutines of the same
// resolution need each other's slot. The cycle must be reported, not hang.
func TestResolve_ParallelFanOutCycle(t *testing.T) {
	bEntered, cEntered := make(chan struct{}), make(chan struct{})
	var bOnce, cOnce sync.Once

	var reg *Registry
	reg = New(ResolverFunc(func(ctx context.Context, key string) (Capability, error) {
		switch key {
		case "A":
			if err := fanOut(ctx, reg, "b", "c"); err != nil {
				return nil, err
			}
		case "B":
			bOnce.Do(func() { close(bEntered) })
			<-cEntered
			if _, err := reg.Resolve(ctx, "c"); err != nil {
				return nil, err
			}
		case "C":
			cOnce.Do(func() { close(cEntered) })
			<-bEntered
			if _, err := reg.Resolve(ctx, "b"); err != nil {
				return nil, err
			}
		}
		return &component{key: key}, nil
	}))
	require.NoError(t, reg.Register("a", "A"))
	require.NoError(t, reg.Register("b", "B"))
	require.NoError(t, reg.Register("c", "C"))
	reg.Freeze()

	done := make(chan error, 1)
	go func() {
		_, err := reg.Resolve(context.Background(), "a")
		done <- err
	}()

	select {
	case err := <-done:
		var cyc *CyclicResolutionError
		require.ErrorAs(t, err, &cyc)
		assert.Equal(t, "a", cyc.Path[0])
	case <-time.After(5 * time.Second):
		t.Fatal("resolution deadlocked")
	}
}

// TestResolve_CrossGoroutineCycle runs two resolutions that each hold one slot
// and need the other's. One of them must detect the cycle instead of both
// blocking forever.
func TestResolve_CrossGoroutineCycle(t *testing.T) {
	aEntered, bEntered := make(chan struct{}), make(chan struct{})
	var aOnce, bOnce sync.Once

	var reg *Registry
	reg = New(ResolverFunc(func(ctx context.Context, key string) (Capability, error) {
		switch key {
		case "A":
			aOnce.Do(func() { close(aEntered) })
			<-bEntered
			if _, err := reg.Resolve(ctx, "b"); err != nil {
				return nil, err
			}
		case "B":
			bOnce.Do(func() { close(bEntered) })
			<-aEntered
			if _, err := reg.Resolve(ctx, "a"); err != nil {
				return nil, err
			}
		}
		return &component{key: key}, nil
	}))
	require.NoError(t, reg.Register("a", "A"))
	require.NoError(t, reg.Register("b", "B"))
	reg.Freeze()

	errs := make(chan error, 2)
	for _, name := range []string{"a", "b"} {
		go func(name string) {
			_, err := reg.Resolve(context.Background(), name)
			errs <- err
		}(name)
	}

	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			var cyc *CyclicResolutionError
			assert.True(t, errors.As(err, &cyc), "got %v", err)
		case <-time.After(5 * time.Second):
			t.Fatal("resolution deadlocked")
		}
	}
}

func TestResolve_WaiterHonoursContext(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	reg := New(ResolverFunc(func(_ context.Context, key string) (Capability, error) {
		close(entered)
		<-release
		return &component{key: key}, nil
	}))
	require.NoError(t, reg.Register("x", "slow"))

	go func() { _, _ = reg.Resolve(context.Background(), "x") }()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := reg.Resolve(ctx, "x")

	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolve_PanicReleasesOwnership(t *testing.T) {
	calls := 0
	reg := New(ResolverFunc(func(_ context.Context, key string) (Capability, error) {
		calls++
		if calls == 1 {
			panic("boom")
		}
		return &component{key: key}, nil
	}))
	require.NoError(t, reg.Register("x", "k"))

	assert.Panics(t, func() { _, _ = reg.Resolve(context.Background(), "x") })

	c, err := reg.Resolve(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "k", c.(*component).key)
}
