package library

import (
	"context"
	"path/filepath"
	"time"

	"github.com/pombreda/soundforest/core/models"
	"github.com/pombreda/soundforest/core/store"
	"github.com/pombreda/soundforest/core/tags"

	"go.uber.org/zap"
)

// Service answers library queries and imports filesystem tags.
type Service struct {
	store  *store.Store
	tags   *tags.Service
	logger *zap.Logger
}

// NewService creates the library service.
func NewService(s *store.Store, tagService *tags.Service, logger *zap.Logger) *Service {
	return &Service{store: s, tags: tagService, logger: logger}
}

// Trees lists the registered trees.
func (s *Service) Trees() ([]models.Tree, error) {
	return s.store.Trees()
}

// Tracks lists a tree's tracks; includeRemoved keeps soft-deleted rows in.
func (s *Service) Tracks(treeID uint, includeRemoved bool) ([]models.Track, error) {
	if _, err := s.store.TreeByID(treeID); err != nil {
		return nil, err
	}
	if includeRemoved {
		return s.store.Tracks(treeID)
	}
	return s.store.TracksPresent(treeID)
}

// ChangesSince answers "what changed since time T" for a tree.
func (s *Service) ChangesSince(treeID uint, since time.Time) ([]models.ChangeEntry, error) {
	if _, err := s.store.TreeByID(treeID); err != nil {
		return nil, err
	}
	return s.store.ChangesSince(treeID, since)
}

// TrackTags returns a track's tag sets grouped by source.
func (s *Service) TrackTags(trackID uint) (map[string][]tags.Tag, error) {
	if _, err := s.store.TrackByID(trackID); err != nil {
		return nil, err
	}
	return s.tags.Compare(trackID)
}

// ImportFailure records one file whose tags could not be read.
type ImportFailure struct {
	RelPath string `json:"rel_path"`
	Reason  string `json:"reason"`
}

// ImportReport summarizes a filesystem tag import over one tree.
type ImportReport struct {
	Imported int             `json:"imported"`
	Failed   []ImportFailure `json:"failed,omitempty"`
}

// ImportFileTags reads every present track's tags from disk and stores them
// under the filesystem source. Unreadable files are collected and reported;
// the import never stops at the first failure, and sources other than
// "filesystem" are left exactly as they were.
func (s *Service) ImportFileTags(ctx context.Context, treeID uint) (*ImportReport, error) {
	tree, err := s.store.TreeByID(treeID)
	if err != nil {
		return nil, err
	}
	tracks, err := s.store.TracksPresent(treeID)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	for _, track := range tracks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		fileTags, err := ReadFileTags(filepath.Join(tree.Root, track.RelPath))
		if err != nil {
			report.Failed = append(report.Failed, ImportFailure{RelPath: track.RelPath, Reason: err.Error()})
			continue
		}
		if err := s.tags.PutTags(track.ID, models.SourceFilesystem, fileTags); err != nil {
			report.Failed = append(report.Failed, ImportFailure{RelPath: track.RelPath, Reason: err.Error()})
			continue
		}
		report.Imported++
	}

	s.logger.Info("Imported filesystem tags",
		zap.String("tree", tree.Root),
		zap.Int("imported", report.Imported),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}
