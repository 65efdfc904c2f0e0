// Package migrations holds the embedded schema applied through goose at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
