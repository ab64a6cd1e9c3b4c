// Package database opens and migrates the library database.
//
// It supports a local sqlite file (the default) and mysql for shared
// deployments; both are accessed through gorm with error translation
// enabled so the store layer can match duplicate-key violations portably.
package database
