// Package db provides database migration and change notification utilities.
package db

import (
	"io/fs"
	"path"

	"github.com/pressly/goose/v3"

	"github.com/persistorai/movierec/internal/db/migrations"
)

// SchemaVersion returns the highest migration version embedded in the
// binary. The readiness endpoint reports it.
func SchemaVersion() int64 {
	return latestVersion(migrations.FS)
}

func latestVersion(fsys fs.FS) int64 {
	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return 0
	}

	var latest int64
	for _, f := range files {
		v, err := goose.NumericComponent(path.Base(f))
		if err == nil && v > latest {
			latest = v
		}
	}

	return latest
}
