// Package sandbox resolves logical paths into per-session filesystem roots.
//
// Every request carries a workspace/agent/session identity triple. The
// sandbox maps that triple to a root directory and confines any user-supplied
// path beneath it:
//
//	sb := sandbox.New("/var/lib/grepsearch/workspaces")
//
//	abs, err := sb.Resolve("src/main.go", "ws-1", "agent-1", "sess-1")
//	// abs == /var/lib/grepsearch/workspaces/ws-1/agent-1/sess-1/src/main.go
//
// Resolve is the single trust boundary: traversal sequences (..), absolute
// paths, and identity components containing separators are all rejected with
// types.ErrEscapesSandbox before any filesystem access. Existence and
// permission checks happen only after confinement succeeds.
//
// SessionRoot performs the same root derivation without touching the
// filesystem; the engine uses it as the base for relative display paths.
package sandbox
