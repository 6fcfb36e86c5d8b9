// Package migrations embeds the registry read-model schema used by the
// Postgres registry adapter, its integration tests and tooling.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
