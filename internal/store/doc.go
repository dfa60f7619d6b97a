// Package store records resolved ApiFiles in SQLite.
//
// Each successful `frbgen parse --db` appends one row to the runs table:
//   - id: random UUID
//   - seq: logical clock, strictly increasing per database
//   - source_hash: content hash of the Rust file that was resolved
//   - ir_json: canonical JSON of the resulting ApiFile
//
// # Parse cache
//
// FindBySourceHash turns the run log into a cache: an unchanged file maps
// to the newest run with the same source hash and the current IR version,
// looked up through idx_runs_source_hash (source_hash, ir_version, seq).
// Bumping ir.IRVersion therefore forces a fresh resolution without
// touching old rows.
//
// # Ordering
//
// Runs are ordered by seq, never by wall time. ListRuns returns the newest
// run first.
//
// # Concurrency
//
// The database runs in WAL mode with a 5s busy timeout so `runs` and `show`
// can read while a watching `parse` keeps writing.
package store
