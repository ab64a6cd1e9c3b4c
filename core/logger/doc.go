// Package logger builds the application's zap logger and derives
// request-scoped child loggers for the HTTP query surface.
package logger
