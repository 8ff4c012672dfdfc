package extension

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

// chain is the resolution path of one Resolve call. Every frame has its own
// ID; frames holds the IDs of the enclosing resolutions, outermost first, and
// ends with the frame's own ID.
type chain struct {
	frames []string
	path   []string
}

type chainKey struct{}

func chainFromContext(ctx context.Context) *chain {
	if c, ok := ctx.Value(chainKey{}).(*chain); ok {
		return c
	}
	return &chain{}
}

func (c *chain) contains(name string) bool {
	return slices.Contains(c.path, name)
}

// id is the frame's own identity, used as slot owner and wait-for key.
func (c *chain) id() string {
	return c.frames[len(c.frames)-1]
}

// descendsFrom reports whether frame is c itself or one of its ancestors.
func (c *chain) descendsFrom(frame string) bool {
	return slices.Contains(c.frames, frame)
}

// push returns a child frame resolving name. Chains are never mutated so
// sibling resolutions, on any goroutine, can share a parent.
func (c *chain) push(name string) *chain {
	return &chain{
		frames: append(slices.Clip(c.frames), uuid.NewString()),
		path:   append(slices.Clip(c.path), name),
	}
}

func (c *chain) withContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, chainKey{}, c)
}

// Path returns the extension names currently being resolved on ctx's
// resolution chain, outermost first. It is empty outside a resolution.
func Path(ctx context.Context) []string {
	if c, ok := ctx.Value(chainKey{}).(*chain); ok {
		return slices.Clone(c.path)
	}
	return nil
}
