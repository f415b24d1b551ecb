// Package migrations embeds the SQL schema so the binary can migrate itself.
package migrations

import "embed"

//go:embed postgres/*.sql
var Postgres embed.FS

const PostgresDir = "postgres"
