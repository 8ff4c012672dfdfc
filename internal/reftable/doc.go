// Package reftable holds the raw extension bindings collected from
// configuration sources before anything is resolved.
//
// A Table maps an extension name to exactly one Binding. Registering the same
// (name, target key) pair twice is a no-op; registering a different target key
// under an existing name is a conflict reported as *DuplicateBindingError.
//
// A Table is not safe for concurrent mutation. The extension registry owns
// the table and serializes every write.
package reftable
