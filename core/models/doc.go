// Package models defines the persisted entities of the soundforest library
// database: registered trees, their tracks, per-source tag entries and
// playlists, the append-only change log, path prefixes, and codec commands.
//
// All structs are plain gorm models; behavior lives in core/store and the
// services built on top of it.
package models
