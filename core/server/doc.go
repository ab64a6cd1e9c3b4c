// Package server holds configuration for the read-only HTTP query surface.
package server
