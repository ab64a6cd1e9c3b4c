package store

import "errors"

var (
	// ErrNotFound reports a lookup of an unregistered tree, prefix, track,
	// playlist or codec.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEntry reports a second registration of a singular entity.
	// The first registration is left untouched.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrNestedTree reports a tree registration whose root lies inside, or
	// contains, an already registered root.
	ErrNestedTree = errors.New("nested tree")

	// ErrSyncInProgress reports contention on a tree that already has a
	// synchronization run in flight.
	ErrSyncInProgress = errors.New("synchronization already in progress")

	// ErrTransactionAborted reports a store-level transaction failure. It is
	// fatal to the current run only; previously committed runs are intact.
	ErrTransactionAborted = errors.New("transaction aborted")
)
