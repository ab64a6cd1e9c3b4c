package prefix_test

import (
	"testing"

	"github.com/pombreda/soundforest/core/database"
	"github.com/pombreda/soundforest/core/prefix"
	"github.com/pombreda/soundforest/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *prefix.Resolver {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return prefix.NewResolver(store.New(db))
}

func TestMatchLongestWins(t *testing.T) {
	r := newTestResolver(t)

	require.NoError(t, r.Register("/mnt"))
	require.NoError(t, r.Register("/mnt/music"))

	got, err := r.Match("/mnt/music/jazz/a.flac")
	require.NoError(t, err)
	assert.Equal(t, "/mnt/music", got)

	got, err = r.Match("/mnt/video/b.mkv")
	require.NoError(t, err)
	assert.Equal(t, "/mnt", got)
}

func TestMatchSegmentBoundary(t *testing.T) {
	r := newTestResolver(t)

	require.NoError(t, r.Register("/mnt/music"))

	// "/mnt/music2" shares the string prefix but not a path segment.
	_, err := r.Match("/mnt/music2/a.flac")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The prefix matches itself.
	got, err := r.Match("/mnt/music")
	require.NoError(t, err)
	assert.Equal(t, "/mnt/music", got)
}

func TestMatchRecencyBreaksTies(t *testing.T) {
	r := newTestResolver(t)

	// Equal-length candidates; the later registration wins.
	require.NoError(t, r.Register("/media/a"))
	require.NoError(t, r.Register("/media/b"))

	got, err := r.Match("/media/b/x.flac")
	require.NoError(t, err)
	assert.Equal(t, "/media/b", got)
}

func TestMatchNothingRegistered(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Match("/mnt/music/a.flac")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSplit(t *testing.T) {
	r := newTestResolver(t)

	require.NoError(t, r.Register("/mnt/music"))

	matched, rest, err := r.Split("/mnt/music/jazz/a.flac")
	require.NoError(t, err)
	assert.Equal(t, "/mnt/music", matched)
	assert.Equal(t, "jazz/a.flac", rest)

	matched, rest, err = r.Split("/mnt/music")
	require.NoError(t, err)
	assert.Equal(t, "/mnt/music", matched)
	assert.Empty(t, rest)
}

func TestRegisterDuplicate(t *testing.T) {
	r := newTestResolver(t)

	require.NoError(t, r.Register("/mnt"))
	assert.ErrorIs(t, r.Register("/mnt"), store.ErrDuplicateEntry)
	// Normalization makes the trailing slash the same prefix.
	assert.ErrorIs(t, r.Register("/mnt/"), store.ErrDuplicateEntry)
}

func TestUnregisterMissing(t *testing.T) {
	r := newTestResolver(t)

	assert.ErrorIs(t, r.Unregister("/mnt"), store.ErrNotFound)
}
