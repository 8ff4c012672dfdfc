// Package app contains the core application logic. It loads configuration,
// applies extension bindings to a frozen registry, and exposes inspection,
// invocation and an HTTP surface, decoupled from any specific entrypoint
// like a CLI or server.
package app
