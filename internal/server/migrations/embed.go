// Package migrations embeds the SQL schema migrations applied by goose when
// the server runs with the PostgreSQL backend.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
