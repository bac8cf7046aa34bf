// Package types provides shared type definitions for the grep-search MCP server.
//
// This package defines the request and result envelope exchanged between the
// transport layer and the search engine, plus the closed error taxonomy used
// to classify terminal failures.
//
// # Core Types
//
// SearchRequest fully determines one search operation:
//
//	req := types.SearchRequest{
//	    Path:        "src",
//	    Pattern:     `func \w+\(`,
//	    WorkspaceID: "ws-1",
//	    AgentID:     "agent-1",
//	    SessionID:   "sess-1",
//	    Recursive:   true,
//	}
//
// SearchResult is the success envelope. It echoes the request, carries the
// ordered match sequence, and optionally a warning when the match cap
// truncated output:
//
//	{
//	    "success": true,
//	    "pattern": "func \\w+\\(",
//	    "path": "src",
//	    "recursive": true,
//	    "matches": [{"file": "src/main.go", "line_number": 3, "line_content": "func main() {"}],
//	    "total_matches": 1
//	}
//
// Failures are ordinary Go errors matching one of the sentinel values in this
// package; the transport layer renders them as a separate {"error": ...}
// envelope. A response is either a success envelope or an error envelope,
// never both.
//
// # Error Taxonomy
//
// Top-level failures form a closed set:
//
//	types.ErrInvalidPattern    // pattern failed to compile, reported before any I/O
//	types.ErrNotFound          // resolved target does not exist
//	types.ErrPermissionDenied  // resolution or access to the target denied
//	types.ErrEscapesSandbox    // logical path would leave the sandbox root
//
// Anything else is an unexpected failure. Per-file errors during scanning are
// absorbed by the engine and never reach this taxonomy.
package types
