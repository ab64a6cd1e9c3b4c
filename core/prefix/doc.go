// Package prefix resolves absolute filesystem paths against the registered
// prefix set (typically removable-media mount points), so the synchronizer
// can normalize paths into tree-relative form.
//
// Matching is longest-prefix-wins on path segment boundaries; ties are
// broken by the most recently registered prefix. The prefix set itself lives
// in the store; matching is a pure function over the loaded rows.
package prefix
