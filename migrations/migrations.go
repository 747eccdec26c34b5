// Package migrations embeds the SQL schema applied by `risk-engine migrate`.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
