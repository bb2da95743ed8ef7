// Package migrations holds the candidate index schema as numbered
// up/down SQL pairs.
package migrations

import "embed"

// FS is read by the sqlite store's migrator on open.
//
//go:embed *.sql
var FS embed.FS
