// Package config loads application configuration from environment variables
// and an optional .env file, with defaults declared as struct tags on the
// per-package Config sections.
package config
