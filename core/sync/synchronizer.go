package sync

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pombreda/soundforest/core/codec"
	"github.com/pombreda/soundforest/core/models"
	"github.com/pombreda/soundforest/core/prefix"
	"github.com/pombreda/soundforest/core/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunState is the synchronization run state machine.
type RunState string

const (
	StateIdle       RunState = "idle"
	StateScanning   RunState = "scanning"
	StateDiffing    RunState = "diffing"
	StatePersisting RunState = "persisting"
	StateDone       RunState = "done"
	StateFailed     RunState = "failed"
)

// Report summarizes one synchronization run.
type Report struct {
	RunID     string        `json:"run_id"`
	TreeRoot  string        `json:"tree_root"`
	State     RunState      `json:"state"`
	Added     int           `json:"added"`
	Removed   int           `json:"removed"`
	Modified  int           `json:"modified"`
	Unchanged int           `json:"unchanged"`
	Skipped   []SkippedPath `json:"skipped,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Synchronizer orchestrates scan → diff → persist for registered trees.
type Synchronizer struct {
	store    *store.Store
	registry *codec.Registry
	resolver *prefix.Resolver
	scanner  *Scanner
	logger   *zap.Logger
}

// NewSynchronizer wires the orchestrator.
func NewSynchronizer(s *store.Store, registry *codec.Registry, resolver *prefix.Resolver, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		store:    s,
		registry: registry,
		resolver: resolver,
		scanner:  NewScanner(logger),
		logger:   logger,
	}
}

// ResolveTree maps a path to its registered tree. Exact root match first;
// otherwise the prefix resolver normalizes both the query path and the
// stored roots, so a tree registered under one mount point is found when
// addressed through another registered prefix.
func (s *Synchronizer) ResolveTree(path string) (*models.Tree, error) {
	path = filepath.Clean(path)
	if tree, err := s.store.TreeByRoot(path); err == nil {
		return tree, nil
	}

	rest, ok := s.stripPrefix(path)
	if !ok {
		return nil, fmt.Errorf("tree %q: %w", path, store.ErrNotFound)
	}
	trees, err := s.store.Trees()
	if err != nil {
		return nil, err
	}
	for i, t := range trees {
		if treeRest, ok := s.stripPrefix(t.Root); ok && treeRest == rest {
			return &trees[i], nil
		}
	}
	return nil, fmt.Errorf("tree %q: %w", path, store.ErrNotFound)
}

func (s *Synchronizer) stripPrefix(path string) (string, bool) {
	if s.resolver == nil {
		return "", false
	}
	_, rest, err := s.resolver.Split(path)
	if err != nil {
		return "", false
	}
	return rest, true
}

// SyncPath resolves the tree owning path and synchronizes it.
func (s *Synchronizer) SyncPath(ctx context.Context, path string) (*Report, error) {
	tree, err := s.ResolveTree(path)
	if err != nil {
		return nil, err
	}
	return s.SyncTree(ctx, tree)
}

// SyncTree runs one synchronization against the tree. All track upserts and
// change-log entries land in a single transaction holding the tree's run
// lock; a concurrent run against the same tree fails with
// store.ErrSyncInProgress, and cancellation rolls the open transaction back.
func (s *Synchronizer) SyncTree(ctx context.Context, tree *models.Tree) (*Report, error) {
	started := time.Now()
	report := &Report{
		RunID:    uuid.NewString(),
		TreeRoot: tree.Root,
		State:    StateIdle,
	}
	log := s.logger.With(
		zap.String("run_id", report.RunID),
		zap.String("tree", tree.Root))

	fail := func(err error) (*Report, error) {
		report.State = StateFailed
		report.Duration = time.Since(started)
		log.Error("Synchronization failed", zap.String("state", string(report.State)), zap.Error(err))
		return report, err
	}

	report.State = StateScanning
	log.Info("Scanning tree")
	candidates, skipped, err := s.scanner.Scan(ctx, tree.Root)
	if err != nil {
		return fail(err)
	}
	report.Skipped = skipped

	report.State = StateDiffing
	present, err := s.store.TracksPresent(tree.ID)
	if err != nil {
		return fail(err)
	}
	changes := Diff(candidates, present)
	changes.Removed = PruneShadowedRemovals(changes.Removed, tree.Root, skipped)
	report.Added = len(changes.Added)
	report.Modified = len(changes.Modified)
	report.Removed = len(changes.Removed)
	report.Unchanged = changes.Unchanged

	report.State = StatePersisting
	if err := s.persist(ctx, tree, report.RunID, changes); err != nil {
		return fail(err)
	}

	report.State = StateDone
	report.Duration = time.Since(started)
	log.Info("Synchronization done",
		zap.Int("added", report.Added),
		zap.Int("modified", report.Modified),
		zap.Int("removed", report.Removed),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("skipped", len(report.Skipped)),
		zap.Duration("duration", report.Duration))
	return report, nil
}

// persist writes the run's changes atomically. Soft-deleted tracks whose
// files reappeared are revived in place so the relative path keeps its
// identity across remove/add cycles.
func (s *Synchronizer) persist(ctx context.Context, tree *models.Tree, runID string, changes Changes) error {
	// Extension → codec name, resolved once per run.
	matchCodec := s.codecMatcher()

	return s.store.WithSyncTransaction(ctx, tree.ID, runID, func(tx *gorm.DB) error {
		now := time.Now()

		var all []models.Track
		if err := tx.Where("tree_id = ?", tree.ID).Find(&all).Error; err != nil {
			return err
		}
		byPath := make(map[string]models.Track, len(all))
		for _, t := range all {
			byPath[t.RelPath] = t
		}

		appendChange := func(trackID uint, relPath string, kind models.ChangeKind) error {
			entry := models.ChangeEntry{
				TreeID:  tree.ID,
				TrackID: trackID,
				RelPath: relPath,
				Kind:    kind,
				SyncRun: runID,
			}
			return tx.Create(&entry).Error
		}

		for _, c := range changes.Added {
			if existing, ok := byPath[c.RelPath]; ok {
				// Revived soft-deleted row.
				err := tx.Model(&models.Track{}).Where("id = ?", existing.ID).Updates(map[string]any{
					"present":        true,
					"size":           c.Size,
					"m_time":         c.MTime,
					"codec":          matchCodec(c.RelPath),
					"last_synced_at": now,
				}).Error
				if err != nil {
					return err
				}
				if err := appendChange(existing.ID, c.RelPath, models.ChangeAdded); err != nil {
					return err
				}
				continue
			}
			track := models.Track{
				TreeID:       tree.ID,
				RelPath:      c.RelPath,
				Codec:        matchCodec(c.RelPath),
				Size:         c.Size,
				MTime:        c.MTime,
				Present:      true,
				LastSyncedAt: now,
			}
			if err := tx.Create(&track).Error; err != nil {
				return err
			}
			if err := appendChange(track.ID, c.RelPath, models.ChangeAdded); err != nil {
				return err
			}
		}

		for _, m := range changes.Modified {
			err := tx.Model(&models.Track{}).Where("id = ?", m.Track.ID).Updates(map[string]any{
				"size":           m.Candidate.Size,
				"m_time":         m.Candidate.MTime,
				"last_synced_at": now,
			}).Error
			if err != nil {
				return err
			}
			if err := appendChange(m.Track.ID, m.Track.RelPath, models.ChangeModified); err != nil {
				return err
			}
		}

		for _, t := range changes.Removed {
			// Soft delete: the row stays for the change log's history.
			err := tx.Model(&models.Track{}).Where("id = ?", t.ID).Updates(map[string]any{
				"present":        false,
				"last_synced_at": now,
			}).Error
			if err != nil {
				return err
			}
			if err := appendChange(t.ID, t.RelPath, models.ChangeRemoved); err != nil {
				return err
			}
		}

		return tx.Model(&models.Tree{}).Where("id = ?", tree.ID).Update("last_synced_at", now).Error
	})
}

// codecMatcher loads the extension map once and resolves codec names from
// relative paths. Unknown extensions yield an empty codec.
func (s *Synchronizer) codecMatcher() func(relPath string) string {
	byExt := map[string]string{}
	if s.registry != nil {
		if codecs, err := s.registry.Codecs(); err == nil {
			for _, c := range codecs {
				for _, ext := range c.ExtensionList() {
					if _, taken := byExt[ext]; !taken {
						byExt[ext] = c.Name
					}
				}
			}
		}
	}
	return func(relPath string) string {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(relPath), "."))
		return byExt[ext]
	}
}

// TreeResult pairs one tree with its run outcome inside a batch.
type TreeResult struct {
	Tree   models.Tree
	Report *Report
	Err    error
}

// SyncAll synchronizes every registered tree, accumulating per-tree failures
// instead of aborting the batch. The returned error count is explicit in the
// results.
func (s *Synchronizer) SyncAll(ctx context.Context) []TreeResult {
	trees, err := s.store.Trees()
	if err != nil {
		return []TreeResult{{Err: err}}
	}
	results := make([]TreeResult, 0, len(trees))
	for i := range trees {
		report, err := s.SyncTree(ctx, &trees[i])
		results = append(results, TreeResult{Tree: trees[i], Report: report, Err: err})
	}
	return results
}
