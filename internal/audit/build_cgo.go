//go:build cgo_sqlite
// +build cgo_sqlite

package audit

// This file is compiled when building with CGO and the cgo_sqlite tag.
// It uses the C SQLite driver for the audit database.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "cgo_sqlite" ./...
//
// The C implementation provides:
//   - Faster writes under sustained load
//   - Smaller binary when SQLite is already linked
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
