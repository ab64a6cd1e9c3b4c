package tags

import "strings"

// Tag is one (name, value) pair of a track's metadata. Names repeat for
// multi-valued fields; order is significant.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Standard tag vocabulary shared across formats. Anything else is carried
// verbatim in the open extension namespace.
const (
	TagArtist      = "artist"
	TagAlbum       = "album"
	TagAlbumArtist = "albumartist"
	TagTitle       = "title"
	TagGenre       = "genre"
	TagComposer    = "composer"
	TagComment     = "comment"
	TagYear        = "year"
	TagTrackNumber = "tracknumber"
	TagDiscNumber  = "discnumber"
)

// aliases folds common per-format spellings into the standard vocabulary.
var aliases = map[string]string{
	"track":        TagTrackNumber,
	"trck":         TagTrackNumber,
	"tracknum":     TagTrackNumber,
	"disc":         TagDiscNumber,
	"disk":         TagDiscNumber,
	"date":         TagYear,
	"album_artist": TagAlbumArtist,
	"band":         TagAlbumArtist,
	"performer":    TagArtist,
}

// NormalizeName lowercases a tag name and folds known aliases into the
// standard vocabulary. Unknown names pass through unchanged (extension
// namespace).
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if std, ok := aliases[name]; ok {
		return std
	}
	return name
}
