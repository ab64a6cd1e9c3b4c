package sync

import (
	"context"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"
)

// Candidate is one regular file discovered under a tree root, with the stat
// snapshot used for change detection. No file content is read.
type Candidate struct {
	RelPath string
	Size    int64
	MTime   int64
}

// SkippedPath records a path the scanner could not read. Skips are reported
// with the run result; they never abort the run.
type SkippedPath struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Scanner walks tree roots. Symlinks are not followed, so link cycles cannot
// trap a run.
type Scanner struct {
	logger *zap.Logger
}

// NewScanner creates a scanner.
func NewScanner(logger *zap.Logger) *Scanner {
	return &Scanner{logger: logger}
}

// Scan walks root and returns the candidate set. Cancellation is cooperative
// and checked between file visits; a cancelled scan returns ctx.Err() with
// nothing persisted. An unreadable root is fatal; any other unreadable path
// is recorded and skipped.
func (s *Scanner) Scan(ctx context.Context, root string) ([]Candidate, []SkippedPath, error) {
	root = filepath.Clean(root)
	var candidates []Candidate
	var skipped []SkippedPath

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if path == root {
				return err
			}
			skipped = append(skipped, SkippedPath{Path: path, Reason: err.Error()})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		// Only regular files become tracks; symlinks and special files are
		// ignored.
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			skipped = append(skipped, SkippedPath{Path: path, Reason: err.Error()})
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			skipped = append(skipped, SkippedPath{Path: path, Reason: err.Error()})
			return nil
		}

		candidates = append(candidates, Candidate{
			RelPath: rel,
			Size:    info.Size(),
			MTime:   info.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		return nil, skipped, err
	}

	s.logger.Debug("Scan finished",
		zap.String("root", root),
		zap.Int("candidates", len(candidates)),
		zap.Int("skipped", len(skipped)))
	return candidates, skipped, nil
}
