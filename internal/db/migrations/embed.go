// Package migrations holds the goose SQL files for the catalog schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
