// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface with its lifecycle hooks and
// route registration; the Manager registers and loads enabled features into
// the HTTP app. This keeps query surfaces developed and tested in isolation.
package loader
