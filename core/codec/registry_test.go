package codec_test

import (
	"testing"

	"github.com/pombreda/soundforest/core/codec"
	"github.com/pombreda/soundforest/core/database"
	"github.com/pombreda/soundforest/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRegistry(t *testing.T) *codec.Registry {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return codec.NewRegistry(store.New(db), zap.NewNop())
}

func TestRegisterCodec(t *testing.T) {
	r := newTestRegistry(t)

	c, err := r.Register("AAC", "Advanced Audio Coding", []string{".AAC", "m4a", " mp4 "})
	require.NoError(t, err)
	assert.Equal(t, "aac", c.Name)
	assert.Equal(t, "aac,m4a,mp4", c.Extensions)

	_, err = r.Register("aac", "again", []string{"aac"})
	assert.ErrorIs(t, err, store.ErrDuplicateEntry)
}

func TestUnregisterCodecRemovesCommands(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Register("flac", "", []string{"flac"})
	require.NoError(t, err)
	require.NoError(t, r.AddTester("flac", "flac --silent --test FILE", 0))

	require.NoError(t, r.Unregister("flac"))

	_, err = r.Get("flac")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = r.Unregister("flac")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddCommandValidatesFirst(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Register("flac", "", []string{"flac"})
	require.NoError(t, err)

	err = r.AddDecoder("flac", "flac --decode FILE", 0)
	assert.ErrorIs(t, err, codec.ErrInvalidCodecCommand)

	c, err := r.Get("flac")
	require.NoError(t, err)
	assert.Empty(t, c.Commands)

	// Unknown codec is reported after the template checks out.
	err = r.AddDecoder("opus", "opusdec FILE OUTFILE", 0)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMatchByExtension(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Register("aac", "", []string{"aac", "m4a", "mp4"})
	require.NoError(t, err)

	c, err := r.Match("/music/album/song.M4A")
	require.NoError(t, err)
	assert.Equal(t, "aac", c.Name)

	_, err = r.Match("/music/album/song.opus")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = r.Match("/music/album/README")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCommandsOrderedByPriority(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Register("aac", "", []string{"aac"})
	require.NoError(t, err)
	require.NoError(t, r.AddEncoder("aac", "afconvert -b 256000 -v -f m4af -d aac FILE OUTFILE", 1))
	require.NoError(t, r.AddEncoder("aac", "neroAacEnc -if FILE -of OUTFILE -br 256000 -2pass", 2))

	c, err := r.Get("aac")
	require.NoError(t, err)

	encoders := r.Encoders(c)
	require.Len(t, encoders, 2)
	assert.Contains(t, string(encoders[0]), "neroAacEnc")
	assert.Empty(t, r.Decoders(c))
	assert.Empty(t, r.Testers(c))
}

func TestSeedInstallsDefaults(t *testing.T) {
	r := newTestRegistry(t)

	installed, err := r.Seed()
	require.NoError(t, err)
	assert.Equal(t, 8, installed)

	flac, err := r.Get("flac")
	require.NoError(t, err)
	assert.Len(t, r.Testers(flac), 1)
	assert.Len(t, r.Decoders(flac), 1)
	assert.Len(t, r.Encoders(flac), 1)

	c, err := r.Match("/music/a.ogg")
	require.NoError(t, err)
	assert.Equal(t, "vorbis", c.Name)
}

func TestSeedSkipsExistingCodecs(t *testing.T) {
	r := newTestRegistry(t)

	// A user-customized flac must survive the seed untouched.
	_, err := r.Register("flac", "custom", []string{"flac"})
	require.NoError(t, err)

	installed, err := r.Seed()
	require.NoError(t, err)
	assert.Equal(t, 7, installed)

	flac, err := r.Get("flac")
	require.NoError(t, err)
	assert.Equal(t, "custom", flac.Description)
	assert.Empty(t, flac.Commands)

	// A second seed is a no-op.
	installed, err = r.Seed()
	require.NoError(t, err)
	assert.Zero(t, installed)
}
