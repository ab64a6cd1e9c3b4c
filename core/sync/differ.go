package sync

import (
	"path/filepath"
	"strings"

	"github.com/pombreda/soundforest/core/models"
)

// ModifiedTrack pairs a stored track with the on-disk state that superseded
// its snapshot.
type ModifiedTrack struct {
	Track     models.Track
	Candidate Candidate
}

// Changes is the minimal change set between a scan and the stored state.
type Changes struct {
	Added     []Candidate
	Modified  []ModifiedTrack
	Removed   []models.Track
	Unchanged int
}

// Empty reports whether the run observed no changes at all.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Modified) == 0 && len(c.Removed) == 0
}

// Diff compares the candidate set against the tracks currently marked
// present. Unchanged paths (same size and mtime) contribute nothing, which
// is what makes re-synchronization of an unchanged tree a no-op.
func Diff(candidates []Candidate, existing []models.Track) Changes {
	var changes Changes

	byPath := make(map[string]models.Track, len(existing))
	for _, t := range existing {
		byPath[t.RelPath] = t
	}

	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		seen[c.RelPath] = true
		track, ok := byPath[c.RelPath]
		if !ok {
			changes.Added = append(changes.Added, c)
			continue
		}
		if track.Size != c.Size || track.MTime != c.MTime {
			changes.Modified = append(changes.Modified, ModifiedTrack{Track: track, Candidate: c})
		} else {
			changes.Unchanged++
		}
	}

	for _, t := range existing {
		if !seen[t.RelPath] {
			changes.Removed = append(changes.Removed, t)
		}
	}
	return changes
}

// PruneShadowedRemovals drops tracks from the removal set when their absolute
// path lies under a path the scan could not read. An unreadable directory
// hides its files from the candidate set without saying anything about the
// files themselves, so those tracks stay as they are instead of being
// soft-deleted.
func PruneShadowedRemovals(removed []models.Track, root string, skipped []SkippedPath) []models.Track {
	if len(removed) == 0 || len(skipped) == 0 {
		return removed
	}

	kept := make([]models.Track, 0, len(removed))
	for _, t := range removed {
		abs := filepath.Join(root, t.RelPath)
		shadowed := false
		for _, sp := range skipped {
			if abs == sp.Path || strings.HasPrefix(abs, sp.Path+string(filepath.Separator)) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			kept = append(kept, t)
		}
	}
	return kept
}
