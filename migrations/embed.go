// Package migrations embeds the goose SQL migrations that define the
// books, users, and loan_history schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
