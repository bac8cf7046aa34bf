// Package search implements the bounded recursive grep engine.
//
// One request flows through a single synchronous pipeline:
//
//  1. Pattern compilation (fail fast, before any filesystem access)
//  2. Path resolution via the consumed Resolver interface
//  3. Traversal with eager directory pruning and binary-extension skipping
//  4. Per-line regex matching with 1-based numbering
//  5. Envelope assembly
//
// Data flows strictly downward; no component calls back upward, and there is
// no internal parallelism. Concurrent requests are independent: the only
// process-wide shared state is the read-only exclusion policy.
//
// # Basic Usage
//
//	engine := search.New(sandbox.New(workspacesDir))
//
//	result, err := engine.Search(ctx, types.SearchRequest{
//	    Path:        "src",
//	    Pattern:     "TODO",
//	    WorkspaceID: "ws-1",
//	    AgentID:     "agent-1",
//	    SessionID:   "sess-1",
//	    Recursive:   true,
//	})
//
// # Traversal Modes
//
// A resolved target selects one of three modes:
//
//   - Single file: the target itself is the only candidate.
//   - Non-recursive directory: only immediate child files are scanned.
//   - Recursive directory: full subtree walk. Directories whose name is in
//     the exclusion set are pruned before their children are listed, not
//     filtered afterwards, so vendored and generated trees cost nothing.
//
// # The Match Cap
//
// MaxMatches (1000) bounds total work per request. The running count is
// checked before each file, before each directory descent, and inside the
// per-line loop; once reached, enumeration halts by ordinary control flow
// (fs.SkipAll from the walk callback, early return from the scanner). A
// result whose output was truncated carries CapWarning; a result with
// exactly MaxMatches matches and nothing suppressed does not.
//
// # Failure Containment
//
// Errors opening or reading an individual file, oversized lines, and content
// that turns out not to be text are all skip-this-file conditions: the
// search continues and they never surface in the result. Only pattern
// compilation and target resolution failures are terminal.
package search
