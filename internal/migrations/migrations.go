// Package migrations embeds the goose migration scripts for the quiz and question tables.
package migrations

import "embed"

// FS holds the SQL migration files.
//
//go:embed *.sql
var FS embed.FS
