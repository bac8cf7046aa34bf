// Package audit persists per-request search summaries in SQLite.
//
// Every completed grep_search invocation is recorded with its sandbox
// identity, parameters, outcome counts, and duration. Match contents are
// never stored: the audit log is operational telemetry, not a search index.
//
// The store follows the same SQLite conventions as the rest of the server:
// WAL journaling, a single-writer connection pool, and versioned migrations.
// Migration application is guarded by a file lock so multiple server
// processes can safely share one database file.
//
// Recording is best-effort by design. Callers log and discard Record errors;
// a broken audit database must never fail a search.
//
// Old entries are removed by PruneOlderThan, which the server runs
// periodically using the configured retention window.
package audit
