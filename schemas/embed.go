// Package schemas embeds the MySQL schema of the learning item store.
package schemas

import "embed"

// Migrations holds the ordered migration files under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
