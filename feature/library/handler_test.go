package library_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pombreda/soundforest/core/models"
	"github.com/pombreda/soundforest/core/tags"
	"github.com/pombreda/soundforest/feature/library"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) (*fiber.App, *fixture) {
	t.Helper()

	f := newFixture(t)
	app := fiber.New()

	feature := library.NewFeature(f.store, f.tags, zap.NewNop())
	require.NoError(t, feature.Load(app))
	return app, f
}

func doRequest(t *testing.T, app *fiber.App, path string) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHandleListTrees(t *testing.T) {
	app, f := newTestApp(t)

	resp, body := doRequest(t, app, "/trees")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var trees []models.Tree
	require.NoError(t, json.Unmarshal(body, &trees))
	require.Len(t, trees, 1)
	assert.Equal(t, f.tree.Root, trees[0].Root)
}

func TestHandleListTracks(t *testing.T) {
	app, f := newTestApp(t)
	f.seedTrack(t, "a.mp3", true)
	f.seedTrack(t, "b.mp3", false)

	resp, body := doRequest(t, app, fmt.Sprintf("/trees/%d/tracks", f.tree.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var tracks []models.Track
	require.NoError(t, json.Unmarshal(body, &tracks))
	assert.Len(t, tracks, 1)

	// removed=true includes soft-deleted rows.
	resp, body = doRequest(t, app, fmt.Sprintf("/trees/%d/tracks?removed=true", f.tree.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &tracks))
	assert.Len(t, tracks, 2)
}

func TestHandleListTracksErrors(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doRequest(t, app, "/trees/999/tracks")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, app, "/trees/abc/tracks")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleListChanges(t *testing.T) {
	app, f := newTestApp(t)

	entry := models.ChangeEntry{TreeID: f.tree.ID, RelPath: "a.mp3", Kind: models.ChangeAdded, SyncRun: "run-1"}
	require.NoError(t, f.store.DB().Create(&entry).Error)

	resp, body := doRequest(t, app, fmt.Sprintf("/trees/%d/changes", f.tree.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var changes []models.ChangeEntry
	require.NoError(t, json.Unmarshal(body, &changes))
	require.Len(t, changes, 1)
	assert.Equal(t, models.ChangeAdded, changes[0].Kind)

	// A future cutoff excludes the entry.
	future := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	resp, body = doRequest(t, app, fmt.Sprintf("/trees/%d/changes?since=%s", f.tree.ID, future))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &changes))
	assert.Empty(t, changes)

	// Malformed cutoff is rejected.
	resp, _ = doRequest(t, app, fmt.Sprintf("/trees/%d/changes?since=yesterday", f.tree.ID))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleTrackTags(t *testing.T) {
	app, f := newTestApp(t)
	track := f.seedTrack(t, "a.mp3", true)
	require.NoError(t, f.tags.PutTags(track.ID, "filesystem", []tags.Tag{{Name: "artist", Value: "x"}}))

	resp, body := doRequest(t, app, fmt.Sprintf("/tracks/%d/tags", track.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var bySource map[string][]tags.Tag
	require.NoError(t, json.Unmarshal(body, &bySource))
	assert.Equal(t, []tags.Tag{{Name: "artist", Value: "x"}}, bySource["filesystem"])

	resp, _ = doRequest(t, app, "/tracks/999/tags")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
