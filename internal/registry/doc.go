// Package registry is the component container behind the extension registry.
//
// Go modules register component factories by type name. Configuration
// declares named components of those types. The Registry resolves a
// component name (the target key of an extension binding) into a live
// instance by decoding the component's arguments and calling its factory.
//
// During application startup the registry is populated and then validated so
// that every configured component refers to a factory compiled into the
// binary, preventing a class of runtime errors.
package registry
