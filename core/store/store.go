package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pombreda/soundforest/core/models"

	"gorm.io/gorm"
)

// DefaultTreeTypes are seeded on first migration; users may register more.
var DefaultTreeTypes = map[string]string{
	"music":   "Music library tree",
	"loops":   "Loop and groove collection",
	"samples": "Sample collection",
}

// Store provides domain access to the library database.
type Store struct {
	db *gorm.DB
}

// New wraps an open gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for services that compose their own
// queries (tags, playlists).
func (s *Store) DB() *gorm.DB {
	return s.db
}

// translate maps gorm errors to the store's sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateEntry
	default:
		return err
	}
}

// EnsureDefaultTreeTypes registers the built-in tree types, skipping any the
// user already has.
func (s *Store) EnsureDefaultTreeTypes() error {
	for name, desc := range DefaultTreeTypes {
		err := s.RegisterTreeType(name, desc)
		if err != nil && !errors.Is(err, ErrDuplicateEntry) {
			return err
		}
	}
	return nil
}

// RegisterTreeType adds a tree type to the registry.
func (s *Store) RegisterTreeType(name, description string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("tree type name must not be empty")
	}
	err := s.db.Create(&models.TreeType{Name: name, Description: description}).Error
	if err := translate(err); err != nil {
		return fmt.Errorf("register tree type %q: %w", name, err)
	}
	return nil
}

// TreeTypes returns all registered tree types.
func (s *Store) TreeTypes() ([]models.TreeType, error) {
	var types []models.TreeType
	if err := s.db.Order("name").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// RegisterTree registers a new tree root with the given type. The type must
// be registered; the root must not duplicate or nest with an existing root.
// Registration never touches the filesystem.
func (s *Store) RegisterTree(root, treeType string) (*models.Tree, error) {
	root = filepath.Clean(root)
	treeType = strings.ToLower(strings.TrimSpace(treeType))

	var tt models.TreeType
	err := s.db.Where("name = ?", treeType).First(&tt).Error
	if err := translate(err); err != nil {
		return nil, fmt.Errorf("tree type %q: %w", treeType, err)
	}

	existing, err := s.Trees()
	if err != nil {
		return nil, err
	}
	for _, t := range existing {
		if t.Root == root {
			return nil, fmt.Errorf("tree %q: %w", root, ErrDuplicateEntry)
		}
		if isPathPrefix(t.Root, root) || isPathPrefix(root, t.Root) {
			return nil, fmt.Errorf("tree %q nests with %q: %w", root, t.Root, ErrNestedTree)
		}
	}

	tree := &models.Tree{Root: root, Type: treeType}
	if err := translate(s.db.Create(tree).Error); err != nil {
		return nil, fmt.Errorf("register tree %q: %w", root, err)
	}
	return tree, nil
}

// UnregisterTree removes a tree and its dependent rows (tracks, tags, change
// log). Underlying files are never deleted.
func (s *Store) UnregisterTree(root string) error {
	root = filepath.Clean(root)
	tree, err := s.TreeByRoot(root)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var trackIDs []uint
		if err := tx.Model(&models.Track{}).Where("tree_id = ?", tree.ID).Pluck("id", &trackIDs).Error; err != nil {
			return err
		}
		if len(trackIDs) > 0 {
			if err := tx.Where("track_id IN ?", trackIDs).Delete(&models.TagEntry{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("tree_id = ?", tree.ID).Delete(&models.Track{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tree_id = ?", tree.ID).Delete(&models.ChangeEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tree{}, tree.ID).Error
	})
}

// Trees returns all registered trees ordered by root.
func (s *Store) Trees() ([]models.Tree, error) {
	var trees []models.Tree
	if err := s.db.Order("root").Find(&trees).Error; err != nil {
		return nil, err
	}
	return trees, nil
}

// TreeByRoot looks up a tree by its exact root path.
func (s *Store) TreeByRoot(root string) (*models.Tree, error) {
	var tree models.Tree
	err := s.db.Where("root = ?", filepath.Clean(root)).First(&tree).Error
	if err := translate(err); err != nil {
		return nil, fmt.Errorf("tree %q: %w", root, err)
	}
	return &tree, nil
}

// TreeByID looks up a tree by primary key.
func (s *Store) TreeByID(id uint) (*models.Tree, error) {
	var tree models.Tree
	err := s.db.First(&tree, id).Error
	if err := translate(err); err != nil {
		return nil, fmt.Errorf("tree #%d: %w", id, err)
	}
	return &tree, nil
}

// TracksPresent returns the tracks currently marked present for a tree.
func (s *Store) TracksPresent(treeID uint) ([]models.Track, error) {
	var tracks []models.Track
	err := s.db.Where("tree_id = ? AND present = ?", treeID, true).Order("rel_path").Find(&tracks).Error
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

// Tracks returns all tracks of a tree, including soft-deleted ones.
func (s *Store) Tracks(treeID uint) ([]models.Track, error) {
	var tracks []models.Track
	if err := s.db.Where("tree_id = ?", treeID).Order("rel_path").Find(&tracks).Error; err != nil {
		return nil, err
	}
	return tracks, nil
}

// TrackByPath looks up one track by its tree-relative path.
func (s *Store) TrackByPath(treeID uint, relPath string) (*models.Track, error) {
	var track models.Track
	err := s.db.Where("tree_id = ? AND rel_path = ?", treeID, relPath).First(&track).Error
	if err := translate(err); err != nil {
		return nil, fmt.Errorf("track %q: %w", relPath, err)
	}
	return &track, nil
}

// TrackByID looks up one track by primary key.
func (s *Store) TrackByID(id uint) (*models.Track, error) {
	var track models.Track
	err := s.db.First(&track, id).Error
	if err := translate(err); err != nil {
		return nil, fmt.Errorf("track #%d: %w", id, err)
	}
	return &track, nil
}

// ChangesSince answers "what changed since time T" for a tree from the
// append-only change log.
func (s *Store) ChangesSince(treeID uint, since time.Time) ([]models.ChangeEntry, error) {
	var changes []models.ChangeEntry
	err := s.db.Where("tree_id = ? AND created_at > ?", treeID, since).Order("id").Find(&changes).Error
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// ChangesForRun returns the change entries written by one synchronization run.
func (s *Store) ChangesForRun(runID string) ([]models.ChangeEntry, error) {
	var changes []models.ChangeEntry
	if err := s.db.Where("sync_run = ?", runID).Order("id").Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}

// RegisterPrefix registers a path prefix used for path normalization.
func (s *Store) RegisterPrefix(path string) error {
	path = filepath.Clean(path)
	err := translate(s.db.Create(&models.Prefix{Path: path}).Error)
	if err != nil {
		return fmt.Errorf("register prefix %q: %w", path, err)
	}
	return nil
}

// UnregisterPrefix removes a registered prefix.
func (s *Store) UnregisterPrefix(path string) error {
	path = filepath.Clean(path)
	res := s.db.Where("path = ?", path).Delete(&models.Prefix{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("prefix %q: %w", path, ErrNotFound)
	}
	return nil
}

// Prefixes returns all registered prefixes in registration order.
func (s *Store) Prefixes() ([]models.Prefix, error) {
	var prefixes []models.Prefix
	if err := s.db.Order("id").Find(&prefixes).Error; err != nil {
		return nil, err
	}
	return prefixes, nil
}

// WithSyncTransaction runs fn inside the tree's synchronization transaction.
// The run lock row is created and deleted inside the same transaction, so a
// second run against the same tree fails with ErrSyncInProgress (or blocks on
// the store's own locking until the first commits) while runs against other
// trees do not contend. Either all of fn's writes are committed, or none
// are.
func (s *Store) WithSyncTransaction(ctx context.Context, treeID uint, runID string, fn func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lock := models.SyncRunLock{TreeID: treeID, RunID: runID, AcquiredAt: time.Now()}
		if err := translate(tx.Create(&lock).Error); err != nil {
			if errors.Is(err, ErrDuplicateEntry) {
				return fmt.Errorf("tree #%d: %w", treeID, ErrSyncInProgress)
			}
			return err
		}
		if err := fn(tx); err != nil {
			return err
		}
		return tx.Delete(&models.SyncRunLock{}, treeID).Error
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSyncInProgress) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrTransactionAborted, err)
}

// isPathPrefix reports whether parent contains child on a path-segment
// boundary.
func isPathPrefix(parent, child string) bool {
	if parent == child {
		return true
	}
	if parent == string(filepath.Separator) {
		return strings.HasPrefix(child, parent)
	}
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}
