package models

import (
	"strings"
	"time"
)

// SourceFilesystem is the default provenance for metadata read from disk.
const SourceFilesystem = "filesystem"

// ChangeKind classifies a change-log entry.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
)

// CommandRole classifies a codec command template.
type CommandRole string

const (
	RoleDecoder CommandRole = "decoder"
	RoleEncoder CommandRole = "encoder"
	RoleTester  CommandRole = "tester"
)

// TreeType is a user-registrable tree classification ("music", "loops", ...).
type TreeType struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:64"`
	Description string
}

// Tree is a registered root directory of audio content.
type Tree struct {
	ID uint `gorm:"primaryKey"`
	// Root is the absolute filesystem path of the tree. A path is registered
	// under at most one tree root; nested roots are rejected at registration.
	Root string `gorm:"uniqueIndex;size:512"`
	// Type references a registered TreeType by name.
	Type         string `gorm:"size:64"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastSyncedAt *time.Time
}

// Track is one audio file's identity and state within a tree. Identity is
// the path relative to the tree root; rows are soft-deleted (Present=false)
// when the file disappears from disk so the change log keeps its history.
type Track struct {
	ID      uint   `gorm:"primaryKey"`
	TreeID  uint   `gorm:"uniqueIndex:idx_tree_relpath"`
	RelPath string `gorm:"uniqueIndex:idx_tree_relpath;size:512"`
	// Codec is the detected format name, matched by extension.
	Codec string `gorm:"size:32"`
	// Size and MTime are the stat snapshot from the last successful sync.
	Size         int64
	MTime        int64
	Present      bool `gorm:"index"`
	LastSyncedAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TagEntry is one (name, value) pair of a track's tag set under a given
// source. Names repeat to carry multi-valued fields; Position preserves the
// adapter's ordering.
type TagEntry struct {
	ID       uint   `gorm:"primaryKey"`
	TrackID  uint   `gorm:"index:idx_tag_track_source"`
	Source   string `gorm:"index:idx_tag_track_source;size:64"`
	Name     string `gorm:"size:64"`
	Value    string
	Position int
}

// Playlist is a named, ordered track sequence attributed to a source. The
// same name under two sources is two distinct rows, comparable but never
// unified implicitly.
type Playlist struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex:idx_playlist_name_source;size:256"`
	Source    string `gorm:"uniqueIndex:idx_playlist_name_source;size:64"`
	CreatedAt time.Time
}

// PlaylistEntry is one member of a playlist.
type PlaylistEntry struct {
	ID         uint `gorm:"primaryKey"`
	PlaylistID uint `gorm:"index"`
	TrackID    uint
	Position   int
}

// ChangeEntry is an immutable record of a track change observed during a
// synchronization run. Rows are append-only and never mutated.
type ChangeEntry struct {
	ID      uint `gorm:"primaryKey"`
	TreeID  uint `gorm:"index"`
	TrackID uint
	RelPath string     `gorm:"size:512"`
	Kind    ChangeKind `gorm:"size:16"`
	// SyncRun groups all entries written by one synchronization run.
	SyncRun   string `gorm:"size:36;index"`
	CreatedAt time.Time
}

// Prefix is a registered path segment (e.g. a removable-media mount point)
// used to normalize absolute paths. The autoincrement ID doubles as the
// registration sequence for recency tie-breaks.
type Prefix struct {
	ID        uint   `gorm:"primaryKey"`
	Path      string `gorm:"uniqueIndex;size:512"`
	CreatedAt time.Time
}

// Codec is a named audio format with an extension set and its command
// templates. Commands have no lifecycle of their own; they are removed with
// the codec.
type Codec struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:32"`
	Description string
	// Extensions is the comma-joined, dot-less extension list ("flac" or
	// "aac,m4a,mp4").
	Extensions string `gorm:"size:256"`
	Commands   []CodecCommand
}

// ExtensionList splits the stored extension set.
func (c Codec) ExtensionList() []string {
	if c.Extensions == "" {
		return nil
	}
	parts := strings.Split(c.Extensions, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}

// HasExtension reports whether ext (without dot, any case) belongs to the
// codec.
func (c Codec) HasExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, e := range c.ExtensionList() {
		if e == ext {
			return true
		}
	}
	return false
}

// CodecCommand is one decoder/encoder/tester command template of a codec.
type CodecCommand struct {
	ID       uint        `gorm:"primaryKey"`
	CodecID  uint        `gorm:"index"`
	Role     CommandRole `gorm:"size:16"`
	Template string
	// Priority orders alternatives; higher wins.
	Priority int
}

// SyncRunLock marks a tree as having a synchronization run in flight. The
// row is created and deleted inside the run's transaction, so the store's
// own concurrency control serializes runs against the same tree.
type SyncRunLock struct {
	TreeID     uint   `gorm:"primaryKey"`
	RunID      string `gorm:"size:36"`
	AcquiredAt time.Time
}
