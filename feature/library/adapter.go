package library

import (
	"fmt"
	"os"
	"strconv"

	dtag "github.com/dhowden/tag"

	"github.com/pombreda/soundforest/core/tags"
)

// ReadFileTags reads a file's standardized tags through the dhowden/tag
// adapter. The adapter detects the container itself, so selection by
// extension stays with the caller's codec match.
func ReadFileTags(path string) ([]tags.Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meta, err := dtag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("read tags from %q: %w", path, err)
	}

	var out []tags.Tag
	add := func(name, value string) {
		if value != "" {
			out = append(out, tags.Tag{Name: name, Value: value})
		}
	}

	add(tags.TagArtist, meta.Artist())
	add(tags.TagAlbumArtist, meta.AlbumArtist())
	add(tags.TagAlbum, meta.Album())
	add(tags.TagTitle, meta.Title())
	add(tags.TagGenre, meta.Genre())
	add(tags.TagComposer, meta.Composer())
	add(tags.TagComment, meta.Comment())
	if year := meta.Year(); year != 0 {
		add(tags.TagYear, strconv.Itoa(year))
	}
	if n, _ := meta.Track(); n != 0 {
		add(tags.TagTrackNumber, strconv.Itoa(n))
	}
	if n, _ := meta.Disc(); n != 0 {
		add(tags.TagDiscNumber, strconv.Itoa(n))
	}

	// Raw frames the standard vocabulary does not cover ride along in the
	// extension namespace.
	for name, value := range meta.Raw() {
		if s, ok := value.(string); ok && s != "" {
			norm := tags.NormalizeName(name)
			if !isStandardCovered(norm) {
				out = append(out, tags.Tag{Name: norm, Value: s})
			}
		}
	}
	return out, nil
}

func isStandardCovered(name string) bool {
	switch name {
	case tags.TagArtist, tags.TagAlbumArtist, tags.TagAlbum, tags.TagTitle,
		tags.TagGenre, tags.TagComposer, tags.TagComment, tags.TagYear,
		tags.TagTrackNumber, tags.TagDiscNumber:
		return true
	}
	return false
}
