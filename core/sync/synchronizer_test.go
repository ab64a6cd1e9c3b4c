package sync_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pombreda/soundforest/core/codec"
	"github.com/pombreda/soundforest/core/database"
	"github.com/pombreda/soundforest/core/models"
	"github.com/pombreda/soundforest/core/prefix"
	"github.com/pombreda/soundforest/core/store"
	syncer "github.com/pombreda/soundforest/core/sync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type syncFixture struct {
	store *store.Store
	sync  *syncer.Synchronizer
	root  string
	tree  *models.Tree
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	s := store.New(db)
	require.NoError(t, s.EnsureDefaultTreeTypes())

	registry := codec.NewRegistry(s, zap.NewNop())
	_, err = registry.Seed()
	require.NoError(t, err)

	root := t.TempDir()
	tree, err := s.RegisterTree(root, "music")
	require.NoError(t, err)

	return &syncFixture{
		store: s,
		sync:  syncer.NewSynchronizer(s, registry, prefix.NewResolver(s), zap.NewNop()),
		root:  root,
		tree:  tree,
	}
}

func TestSyncTreeInitialRun(t *testing.T) {
	f := newSyncFixture(t)
	writeFile(t, f.root, "a.flac", "aaaa")
	writeFile(t, f.root, "jazz/b.mp3", "bb")

	report, err := f.sync.SyncTree(context.Background(), f.tree)
	require.NoError(t, err)

	assert.Equal(t, syncer.StateDone, report.State)
	assert.Equal(t, 2, report.Added)
	assert.Zero(t, report.Modified)
	assert.Zero(t, report.Removed)
	assert.NotEmpty(t, report.RunID)

	tracks, err := f.store.TracksPresent(f.tree.ID)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "a.flac", tracks[0].RelPath)
	assert.Equal(t, "flac", tracks[0].Codec)
	assert.EqualValues(t, 4, tracks[0].Size)
	assert.Equal(t, "mp3", tracks[1].Codec)

	// Every change carries the run ID in the log.
	changes, err := f.store.ChangesForRun(report.RunID)
	require.NoError(t, err)
	assert.Len(t, changes, 2)
	for _, c := range changes {
		assert.Equal(t, models.ChangeAdded, c.Kind)
	}

	tree, err := f.store.TreeByID(f.tree.ID)
	require.NoError(t, err)
	assert.NotNil(t, tree.LastSyncedAt)
}

func TestSyncTreeIdempotent(t *testing.T) {
	f := newSyncFixture(t)
	writeFile(t, f.root, "a.flac", "aaaa")

	_, err := f.sync.SyncTree(context.Background(), f.tree)
	require.NoError(t, err)

	report, err := f.sync.SyncTree(context.Background(), f.tree)
	require.NoError(t, err)
	assert.Zero(t, report.Added)
	assert.Zero(t, report.Modified)
	assert.Zero(t, report.Removed)
	assert.Equal(t, 1, report.Unchanged)

	changes, err := f.store.ChangesForRun(report.RunID)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestSyncTreeDetectsModificationsAndRemovals(t *testing.T) {
	f := newSyncFixture(t)
	aPath := writeFile(t, f.root, "a.flac", "aaaa")
	writeFile(t, f.root, "b.flac", "bb")

	_, err := f.sync.SyncTree(context.Background(), f.tree)
	require.NoError(t, err)

	// Modify a, remove b.
	require.NoError(t, os.WriteFile(aPath, []byte("aaaa-longer"), 0o644))
	require.NoError(t, os.Chtimes(aPath, time.Now(), time.Now().Add(time.Hour)))
	require.NoError(t, os.Remove(filepath.Join(f.root, "b.flac")))

	report, err := f.sync.SyncTree(context.Background(), f.tree)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Modified)
	assert.Equal(t, 1, report.Removed)
	assert.Zero(t, report.Added)

	// b is soft-deleted, not purged.
	b, err := f.store.TrackByPath(f.tree.ID, "b.flac")
	require.NoError(t, err)
	assert.False(t, b.Present)

	present, err := f.store.TracksPresent(f.tree.ID)
	require.NoError(t, err)
	require.Len(t, present, 1)
	assert.EqualValues(t, len("aaaa-longer"), present[0].Size)

	changes, err := f.store.ChangesForRun(report.RunID)
	require.NoError(t, err)
	kinds := map[models.ChangeKind]int{}
	for _, c := range changes {
		kinds[c.Kind]++
	}
	assert.Equal(t, 1, kinds[models.ChangeModified])
	assert.Equal(t, 1, kinds[models.ChangeRemoved])
}

func TestSyncTreeRevivesSoftDeletedTrack(t *testing.T) {
	f := newSyncFixture(t)
	path := writeFile(t, f.root, "a.flac", "aaaa")

	_, err := f.sync.SyncTree(context.Background(), f.tree)
	require.NoError(t, err)
	original, err := f.store.TrackByPath(f.tree.ID, "a.flac")
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	_, err = f.sync.SyncTree(context.Background(), f.tree)
	require.NoError(t, err)

	// The file comes back; the row keeps its identity.
	writeFile(t, f.root, "a.flac", "reborn")
	report, err := f.sync.SyncTree(context.Background(), f.tree)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)

	revived, err := f.store.TrackByPath(f.tree.ID, "a.flac")
	require.NoError(t, err)
	assert.Equal(t, original.ID, revived.ID)
	assert.True(t, revived.Present)
	assert.EqualValues(t, len("reborn"), revived.Size)
}

func TestSyncTreeContention(t *testing.T) {
	f := newSyncFixture(t)
	writeFile(t, f.root, "a.flac", "x")

	// Another run already holds the tree.
	require.NoError(t, f.store.DB().Create(&models.SyncRunLock{
		TreeID: f.tree.ID, RunID: "other", AcquiredAt: time.Now(),
	}).Error)

	report, err := f.sync.SyncTree(context.Background(), f.tree)
	assert.ErrorIs(t, err, store.ErrSyncInProgress)
	assert.Equal(t, syncer.StateFailed, report.State)

	// The failed run persisted nothing.
	tracks, err := f.store.Tracks(f.tree.ID)
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestSyncTreeCancellation(t *testing.T) {
	f := newSyncFixture(t)
	writeFile(t, f.root, "a.flac", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := f.sync.SyncTree(ctx, f.tree)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, syncer.StateFailed, report.State)

	tracks, err := f.store.Tracks(f.tree.ID)
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestResolveTreeThroughPrefix(t *testing.T) {
	f := newSyncFixture(t)

	resolver := prefix.NewResolver(f.store)
	require.NoError(t, resolver.Register(filepath.Dir(f.root)))
	require.NoError(t, resolver.Register("/media/usb"))

	// Exact root.
	tree, err := f.sync.ResolveTree(f.root)
	require.NoError(t, err)
	assert.Equal(t, f.tree.ID, tree.ID)

	// The same tree addressed through another registered prefix.
	alias := filepath.Join("/media/usb", filepath.Base(f.root))
	tree, err = f.sync.ResolveTree(alias)
	require.NoError(t, err)
	assert.Equal(t, f.tree.ID, tree.ID)

	_, err = f.sync.ResolveTree("/somewhere/else")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSyncAllAccumulatesResults(t *testing.T) {
	f := newSyncFixture(t)
	writeFile(t, f.root, "a.flac", "x")

	secondRoot := t.TempDir()
	writeFile(t, secondRoot, "b.flac", "y")
	_, err := f.store.RegisterTree(secondRoot, "music")
	require.NoError(t, err)

	results := f.sync.SyncAll(context.Background())
	require.Len(t, results, 2)
	for _, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, 1, res.Report.Added)
	}
}
