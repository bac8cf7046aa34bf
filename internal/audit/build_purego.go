//go:build purego || !cgo_sqlite
// +build purego !cgo_sqlite

package audit

// This file is compiled when building without CGO or with the purego tag.
// It uses a pure Go SQLite implementation for the audit database.
//
// Build command:
//   CGO_ENABLED=0 go build -tags "purego" ./...
//
// The pure Go implementation provides:
//   - No C compiler required
//   - Cross-platform compilation
//   - Suitable for the low write volume of request auditing
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
