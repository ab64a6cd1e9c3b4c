// Package tags holds the format-independent tag model and the multi-source
// reconciler.
//
// Tag sets and playlists are keyed by (entity, source) where a source is a
// named provenance such as "filesystem" or an external program's export.
// Writes only ever touch their own (entity, source) pair; combining sources
// is an explicit, caller-directed Merge, never an implicit side effect of
// synchronization or comparison.
package tags
