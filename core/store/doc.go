// Package store is the repository layer over the library database.
//
// It wraps gorm with the domain's access patterns: registration of trees,
// tree types and prefixes with duplicate/nesting checks, track and change-log
// queries, and the per-tree synchronization transaction that serializes runs
// against the same tree while leaving other trees uncontended.
//
// All lookup and registration failures are reported through the sentinel
// errors in errors.go and matched with errors.Is.
package store
