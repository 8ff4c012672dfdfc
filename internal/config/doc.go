// Package config defines the format-agnostic configuration model, along with
// the Loader and Converter interfaces that format-specific adapters (such as
// the HCL adapter) implement.
//
// A Model carries three kinds of records: components (named, configured
// instances of a module-provided type), extension bindings, and overrides
// that rebind an extension declared elsewhere. Loading a Model never
// resolves anything.
package config
