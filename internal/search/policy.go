package search

import (
	"path/filepath"
	"strings"
)

// Exclusion policy tables. Process-wide constants, never mutated after init,
// so concurrent requests read them without locking. The exact contents are
// part of the tool's behavioral contract.

// ignoredDirs are directory names pruned from traversal before their
// children are listed: version-control metadata, dependency trees, virtual
// environments, build output, and interpreter caches.
var ignoredDirs = map[string]struct{}{
	"node_modules":  {},
	".git":          {},
	"__pycache__":   {},
	".venv":         {},
	"venv":          {},
	"dist":          {},
	"build":         {},
	".pytest_cache": {},
	".mypy_cache":   {},
}

// binaryExts are file extensions treated as binary and skipped without being
// opened. Matched case-insensitively on the extension only.
var binaryExts = map[string]struct{}{
	// Compiled code and data
	".pyc": {}, ".pyo": {}, ".pyd": {}, ".class": {},
	".o": {}, ".so": {}, ".dll": {}, ".exe": {}, ".dylib": {},
	".db": {}, ".sqlite": {}, ".sqlite3": {},
	// Archives
	".zip": {}, ".tar": {}, ".gz": {}, ".7z": {}, ".rar": {}, ".whl": {},
	// Media
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".ico": {}, ".svg": {},
	".mp3": {}, ".mp4": {}, ".mov": {}, ".avi": {},
	".pdf": {}, ".docx": {}, ".xlsx": {},
	// Fonts
	".ttf": {}, ".otf": {}, ".woff": {}, ".woff2": {},
}

// IsIgnoredDir reports whether a directory name is pruned from traversal.
func IsIgnoredDir(name string) bool {
	_, ok := ignoredDirs[name]
	return ok
}

// IsBinaryName reports whether a file should be skipped based on its
// extension alone, without opening it.
func IsBinaryName(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := binaryExts[ext]
	return ok
}
