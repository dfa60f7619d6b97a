// Package ir provides the intermediate representation produced by the
// signature resolver and consumed by the binding emitter.
//
// This package contains type definitions, their JSON encoding and the
// canonical hashing used for content-addressed identity. All other internal
// packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - ApiType is a closed union; only the six variants in this package exist
//   - StructRef never embeds the struct, it is resolved through ApiFile.StructPool
//   - Function, parameter and field order is a contract with the emitter
//   - All JSON tags use snake_case
package ir
