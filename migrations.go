// Package recipebook holds resources shared by the binaries of the module.
package recipebook

import "embed"

// Migrations contains the goose SQL migrations for the PostgreSQL backend.
//
//go:embed migrations/*.sql
var Migrations embed.FS
