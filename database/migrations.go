package database

import "embed"

// Migrations holds the golang-migrate SQL files, applied at startup.
//
//go:embed migration/*.sql
var Migrations embed.FS
