// Package extension implements the extension registry and the extension
// point handles application code calls through.
//
// # Phases
//
// The registry has two states. While Open, configuration code registers and
// rebinds extensions; every mutation is serialized by the registry. Freeze
// moves it to Frozen, after which the binding set never changes and lookups
// read the slot map without taking a lock.
//
// # Resolution
//
// Resolve turns a binding's target key into a live capability through the
// injected Resolver and caches it per extension name. The first resolution of
// a name is guarded by a per-slot owner: concurrent callers wait for the owner
// and receive the same instance, so a component is constructed at most once
// per binding. Failed constructions are not cached.
//
// # Cycles
//
// Every top-level Resolve starts a resolution chain that travels in the
// context. A Resolver that needs another extension while constructing a
// component must call Resolve with the context it was given; a name that is
// already on the chain fails with *CyclicResolutionError. Cycles that span
// goroutines are caught through the registry's wait-for map.
package extension
