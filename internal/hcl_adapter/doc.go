// Package hcl_adapter is the HCL implementation of config.Loader and
// config.Converter.
//
// It reads `.hcl` and `.hcl.json` files containing `component`,
// `extension_point` and `override` blocks and merges them into a single
// config.Model. Every binding record receives a generated ID from a
// naming.Generator. Component arguments are left as raw bodies and decoded
// by the Converter with gohcl when the component is first constructed; their
// expressions may reference `env.<NAME>`.
package hcl_adapter
