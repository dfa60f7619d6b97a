// Package source is the Rust front end of the resolver.
//
// It parses a source file with tree-sitter and scans its top-level items,
// keeping public functions (in declaration order) and public structs (indexed
// by name). Everything downstream works on the plain declaration values in
// this package, never on tree-sitter nodes, so the tree can be released as
// soon as extraction finishes.
//
// Only items whose visibility is exactly `pub` are kept. Restricted
// visibility (`pub(crate)`, `pub(super)`, ...) is treated as private.
//
// Type strings are normalized by removing all whitespace, so that wrapper
// shapes such as `Vec < Point >` and `Vec<Point>` match identically.
package source
