// Package library is the query and import surface over the synchronized
// track model.
//
// It exposes trees, tracks, the change log and per-source tag sets over the
// HTTP API, and imports standardized tags from the files themselves (source
// "filesystem") through the dhowden/tag adapter. Import touches only the
// filesystem source; externally imported sources are never overwritten.
package library
