package sandbox

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adenhq/grep-search-mcp/pkg/types"
)

func setupSession(t *testing.T) (*Sandbox, string) {
	t.Helper()
	base := t.TempDir()
	sb := New(base)
	root := sb.SessionRoot("ws", "ag", "sess")
	require.NoError(t, os.MkdirAll(root, 0o755))
	return sb, root
}

func TestSessionRoot(t *testing.T) {
	sb := New("/data/workspaces")
	got := sb.SessionRoot("ws-1", "agent-1", "sess-1")
	assert.Equal(t, filepath.Join("/data/workspaces", "ws-1", "agent-1", "sess-1"), got)
}

func TestResolveWithinRoot(t *testing.T) {
	sb, root := setupSession(t)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), []byte("package main\n"), 0o644))

	abs, err := sb.Resolve("src/main.go", "ws", "ag", "sess")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src", "main.go"), abs)
}

func TestResolveLeadingSlashIsRelative(t *testing.T) {
	sb, root := setupSession(t)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x\n"), 0o644))

	abs, err := sb.Resolve("/notes.txt", "ws", "ag", "sess")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "notes.txt"), abs)
}

func TestResolveSessionRootItself(t *testing.T) {
	sb, root := setupSession(t)

	abs, err := sb.Resolve(".", "ws", "ag", "sess")
	require.NoError(t, err)
	assert.Equal(t, root, abs)
}

func TestResolveEscapeAttempts(t *testing.T) {
	sb, _ := setupSession(t)

	tests := []struct {
		name string
		path string
	}{
		{"parent traversal", "../../../etc/passwd"},
		{"nested traversal", "src/../../../../etc/passwd"},
		{"bare parent", ".."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sb.Resolve(tt.path, "ws", "ag", "sess")
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrEscapesSandbox), "want ErrEscapesSandbox, got %v", err)
		})
	}
}

func TestResolveRejectsBadIdentity(t *testing.T) {
	sb, _ := setupSession(t)

	tests := []struct {
		name            string
		ws, agent, sess string
	}{
		{"empty workspace", "", "ag", "sess"},
		{"separator in agent", "ws", "evil/../..", "sess"},
		{"dotdot session", "ws", "ag", ".."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sb.Resolve("file.txt", tt.ws, tt.agent, tt.sess)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrEscapesSandbox))
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	sb, _ := setupSession(t)

	_, err := sb.Resolve("missing.txt", "ws", "ag", "sess")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}
