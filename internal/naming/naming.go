// Package naming generates unique identifiers for configuration records.
// The identifiers exist for bookkeeping and diagnostics only; nothing in the
// registry depends on their format.
package naming

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator returns a unique name for a record of the given kind.
type Generator interface {
	Generate(kind string) string
}

// Sequence names records "<kind>#<n>", counting per kind from zero.
type Sequence struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewSequence returns an empty Sequence.
func NewSequence() *Sequence {
	return &Sequence{counts: make(map[string]int)}
}

// Generate implements Generator.
func (s *Sequence) Generate(kind string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.counts[kind]
	s.counts[kind] = n + 1
	return fmt.Sprintf("%s#%d", kind, n)
}

// UUID names records "<kind>#<random uuid>".
type UUID struct{}

// Generate implements Generator.
func (UUID) Generate(kind string) string {
	return kind + "#" + uuid.NewString()
}

// ByName returns the generator selected by a configuration value.
func ByName(name string) (Generator, error) {
	switch name {
	case "", "sequence":
		return NewSequence(), nil
	case "uuid":
		return UUID{}, nil
	default:
		return nil, fmt.Errorf("unknown naming strategy '%s': must be 'sequence' or 'uuid'", name)
	}
}
