package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adenhq/grep-search-mcp/pkg/types"
)

// Sandbox confines logical paths to per-session roots laid out as
// <workspacesDir>/<workspace>/<agent>/<session>.
type Sandbox struct {
	workspacesDir string
}

// New creates a Sandbox rooted at workspacesDir. The directory itself is not
// created; sessions are provisioned elsewhere.
func New(workspacesDir string) *Sandbox {
	return &Sandbox{workspacesDir: filepath.Clean(workspacesDir)}
}

// WorkspacesDir returns the root under which all sessions live.
func (s *Sandbox) WorkspacesDir() string {
	return s.workspacesDir
}

// SessionRoot derives the absolute root directory for a sandbox identity.
// Pure path arithmetic, no filesystem access. This is the canonical base for
// all display paths.
func (s *Sandbox) SessionRoot(workspaceID, agentID, sessionID string) string {
	return filepath.Join(s.workspacesDir, workspaceID, agentID, sessionID)
}

// Resolve maps a logical path to an absolute path guaranteed to lie within
// the session root, and verifies the target exists and is accessible.
//
// Errors wrap the closed taxonomy in pkg/types:
//   - types.ErrEscapesSandbox when the path would leave the session root
//   - types.ErrNotFound when the confined target does not exist
//   - types.ErrPermissionDenied when the target cannot be stat'd for
//     permission reasons
func (s *Sandbox) Resolve(path, workspaceID, agentID, sessionID string) (string, error) {
	if err := validIdentity(workspaceID, agentID, sessionID); err != nil {
		return "", err
	}

	root := s.SessionRoot(workspaceID, agentID, sessionID)

	// Logical paths are always interpreted relative to the session root,
	// even when written with a leading separator.
	rel := strings.TrimPrefix(filepath.ToSlash(path), "/")
	abs := filepath.Join(root, filepath.FromSlash(rel))

	if !contains(root, abs) {
		return "", fmt.Errorf("%w: %s", types.ErrEscapesSandbox, path)
	}

	if _, err := os.Stat(abs); err != nil {
		switch {
		case os.IsNotExist(err):
			return "", fmt.Errorf("%w: %s", types.ErrNotFound, path)
		case os.IsPermission(err):
			return "", fmt.Errorf("%w: %s", types.ErrPermissionDenied, path)
		default:
			return "", fmt.Errorf("resolving %s: %w", path, err)
		}
	}

	return abs, nil
}

// validIdentity rejects identity components that are empty or contain path
// separators, which would let one session name address another's tree.
func validIdentity(parts ...string) error {
	for _, p := range parts {
		if p == "" || p != filepath.Base(p) || p == "." || p == ".." {
			return fmt.Errorf("%w: invalid sandbox identity %q", types.ErrEscapesSandbox, p)
		}
	}
	return nil
}

// contains reports whether abs is root itself or lies beneath it.
// Both paths must already be cleaned.
func contains(root, abs string) bool {
	if abs == root {
		return true
	}
	return strings.HasPrefix(abs, root+string(filepath.Separator))
}
