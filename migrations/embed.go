// Package migrations embeds the SQL schema migrations.
package migrations

import "embed"

// FS holds the NNN_name.sql files applied by database.Migrator
//
//go:embed *.sql
var FS embed.FS
