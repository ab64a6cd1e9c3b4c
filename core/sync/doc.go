// Package sync keeps the persisted track model consistent with the real
// filesystem.
//
// A synchronization run walks a registered tree, diffs the discovered files
// against the tracks currently marked present, and persists the resulting
// track upserts together with append-only change-log entries in a single
// per-tree transaction. Re-running against an unchanged tree writes nothing.
//
// Runs move Idle → Scanning → Diffing → Persisting → Done, or Failed.
// Per-path filesystem errors are recorded as skipped entries and never abort
// the run; only a transaction failure is fatal, and then only to that run.
package sync
