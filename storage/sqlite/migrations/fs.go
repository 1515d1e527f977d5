// Package migrations embeds the SQLite schema for the key/value driver.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
