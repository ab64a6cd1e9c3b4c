package prefix

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pombreda/soundforest/core/models"
	"github.com/pombreda/soundforest/core/store"
)

// Resolver maps absolute paths to registered prefixes.
type Resolver struct {
	store *store.Store
}

// NewResolver creates a resolver over the store's prefix set.
func NewResolver(s *store.Store) *Resolver {
	return &Resolver{store: s}
}

// Register adds a prefix. Registering an existing prefix fails with
// store.ErrDuplicateEntry and leaves the first registration untouched.
func (r *Resolver) Register(path string) error {
	return r.store.RegisterPrefix(path)
}

// Unregister removes a prefix, failing with store.ErrNotFound if absent.
func (r *Resolver) Unregister(path string) error {
	return r.store.UnregisterPrefix(path)
}

// Match returns the best matching prefix for path: the longest registered
// prefix that contains path on a segment boundary, most recently registered
// on equal length. store.ErrNotFound when nothing matches.
func (r *Resolver) Match(path string) (string, error) {
	prefixes, err := r.store.Prefixes()
	if err != nil {
		return "", err
	}
	best := matchPrefix(filepath.Clean(path), prefixes)
	if best == "" {
		return "", fmt.Errorf("prefix for %q: %w", path, store.ErrNotFound)
	}
	return best, nil
}

// Split returns the matched prefix and the path's remainder relative to it.
func (r *Resolver) Split(path string) (prefix, rest string, err error) {
	prefix, err = r.Match(path)
	if err != nil {
		return "", "", err
	}
	rest = strings.TrimPrefix(filepath.Clean(path), prefix)
	rest = strings.TrimPrefix(rest, string(filepath.Separator))
	return prefix, rest, nil
}

// matchPrefix is the pure matching core. Rows arrive in registration order,
// so >= on length makes later registrations win ties.
func matchPrefix(path string, prefixes []models.Prefix) string {
	var best string
	for _, p := range prefixes {
		if !contains(p.Path, path) {
			continue
		}
		if len(p.Path) >= len(best) {
			best = p.Path
		}
	}
	return best
}

// contains reports whether prefix contains path on a path-segment boundary.
func contains(prefix, path string) bool {
	if prefix == path {
		return true
	}
	if prefix == string(filepath.Separator) {
		return strings.HasPrefix(path, prefix)
	}
	return strings.HasPrefix(path, prefix+string(filepath.Separator))
}
