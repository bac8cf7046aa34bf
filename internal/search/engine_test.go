package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adenhq/grep-search-mcp/pkg/types"
)

// stubResolver resolves every logical path under a fixed root and counts
// invocations so tests can assert the fail-fast ordering.
type stubResolver struct {
	root         string
	resolveCalls int
	resolveErr   error
}

func (r *stubResolver) Resolve(path, _, _, _ string) (string, error) {
	r.resolveCalls++
	if r.resolveErr != nil {
		return "", r.resolveErr
	}
	return filepath.Join(r.root, filepath.FromSlash(path)), nil
}

func (r *stubResolver) SessionRoot(_, _, _ string) string {
	return r.root
}

func newTestEngine(t *testing.T) (*Engine, *stubResolver, string) {
	t.Helper()
	root := t.TempDir()
	resolver := &stubResolver{root: root}
	return New(resolver), resolver, root
}

func writeFile(t *testing.T, root string, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func searchReq(path, pattern string, recursive bool) types.SearchRequest {
	return types.SearchRequest{
		Path:        path,
		Pattern:     pattern,
		WorkspaceID: "ws",
		AgentID:     "ag",
		SessionID:   "sess",
		Recursive:   recursive,
	}
}

func matchFiles(result *types.SearchResult) []string {
	files := make([]string, 0, len(result.Matches))
	for _, m := range result.Matches {
		files = append(files, filepath.ToSlash(m.File))
	}
	return files
}

func TestInvalidPatternFailsBeforeResolution(t *testing.T) {
	engine, resolver, _ := newTestEngine(t)

	_, err := engine.Search(context.Background(), searchReq(".", "[unclosed", true))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidPattern))

	// Fail-fast ordering: a malformed pattern must never reach the
	// resolver or the filesystem.
	assert.Equal(t, 0, resolver.resolveCalls)
}

func TestSingleFileSearch(t *testing.T) {
	engine, _, root := newTestEngine(t)
	writeFile(t, root, "app.log", "boot ok\nerror: disk full\nshutdown\nerror: cpu on fire\n")

	result, err := engine.Search(context.Background(), searchReq("app.log", "error:", false))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "error:", result.Pattern)
	assert.Equal(t, "app.log", result.Path)
	assert.False(t, result.Recursive)
	assert.Equal(t, 2, result.TotalMatches)
	assert.Empty(t, result.Warning)

	require.Len(t, result.Matches, 2)
	assert.Equal(t, 2, result.Matches[0].LineNumber)
	assert.Equal(t, "error: disk full", result.Matches[0].LineContent)
	assert.Equal(t, 4, result.Matches[1].LineNumber)
	assert.Equal(t, "error: cpu on fire", result.Matches[1].LineContent)

	require.NoError(t, result.Validate())
}

func TestLineContentIsTrimmed(t *testing.T) {
	engine, _, root := newTestEngine(t)
	writeFile(t, root, "code.py", "    indented_match()   \n")

	result, err := engine.Search(context.Background(), searchReq("code.py", "indented", false))
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "indented_match()", result.Matches[0].LineContent)
}

func TestRegexSemantics(t *testing.T) {
	engine, _, root := newTestEngine(t)
	writeFile(t, root, "words.txt", "cat\ncategory\ndog\ncart\n")

	tests := []struct {
		name    string
		pattern string
		lines   []int
	}{
		{"anchored", "^cat$", []int{1}},
		{"character class", "c[ao]", []int{1, 2, 4}},
		{"quantifier", "ca.t*", []int{1, 2, 4}},
		{"alternation", "dog|cart", []int{3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Search(context.Background(), searchReq("words.txt", tt.pattern, false))
			require.NoError(t, err)

			var lines []int
			for _, m := range result.Matches {
				lines = append(lines, m.LineNumber)
			}
			assert.Equal(t, tt.lines, lines)
		})
	}
}

func TestRecursivePrunesIgnoredDirs(t *testing.T) {
	engine, _, root := newTestEngine(t)

	// Concrete scenario from the tool contract: matching content inside
	// node_modules must never be reported.
	writeFile(t, root, "src/foo.txt", "hello world\n")
	writeFile(t, root, "node_modules/bar.txt", "hello world\n")
	writeFile(t, root, ".git/objects/blob.txt", "hello world\n")
	writeFile(t, root, "__pycache__/cache.txt", "hello world\n")
	writeFile(t, root, "deep/.venv/lib/pkg.py", "hello world\n")

	result, err := engine.Search(context.Background(), searchReq(".", "hello", true))
	require.NoError(t, err)

	files := matchFiles(result)
	assert.Equal(t, []string{"src/foo.txt"}, files)
	assert.Equal(t, 1, result.TotalMatches)
}

func TestBinaryExtensionsSkipped(t *testing.T) {
	engine, _, root := newTestEngine(t)

	// icon.png decodes as text and would match, but the extension filter
	// must keep it from ever being opened.
	writeFile(t, root, "notes.txt", "TODO: fix\n")
	writeFile(t, root, "icon.png", "TODO: fix\n")
	writeFile(t, root, "shout.PNG", "TODO: fix\n")
	writeFile(t, root, "lib.So", "TODO: fix\n")

	for _, recursive := range []bool{false, true} {
		t.Run(fmt.Sprintf("recursive=%v", recursive), func(t *testing.T) {
			result, err := engine.Search(context.Background(), searchReq(".", "TODO", recursive))
			require.NoError(t, err)
			assert.Equal(t, []string{"notes.txt"}, matchFiles(result))
		})
	}
}

func TestNonRecursiveDoesNotDescend(t *testing.T) {
	engine, _, root := newTestEngine(t)
	writeFile(t, root, "top.txt", "needle\n")
	writeFile(t, root, "sub/inner.txt", "needle\n")

	result, err := engine.Search(context.Background(), searchReq(".", "needle", false))
	require.NoError(t, err)
	assert.Equal(t, []string{"top.txt"}, matchFiles(result))

	// Sanity: recursive mode does find the nested match.
	result, err = engine.Search(context.Background(), searchReq(".", "needle", true))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"top.txt", "sub/inner.txt"}, matchFiles(result))
}

func TestCapTruncatesWithWarning(t *testing.T) {
	engine, _, root := newTestEngine(t)
	writeFile(t, root, "big.log", strings.Repeat("error: crash happened\n", MaxMatches+100))

	result, err := engine.Search(context.Background(), searchReq("big.log", "error", false))
	require.NoError(t, err)

	assert.Equal(t, MaxMatches, result.TotalMatches)
	assert.Len(t, result.Matches, MaxMatches)
	assert.Equal(t, CapWarning, result.Warning)
	assert.Contains(t, result.Warning, "MAX_MATCHES")
}

func TestExactlyAtCapNoWarning(t *testing.T) {
	engine, _, root := newTestEngine(t)
	writeFile(t, root, "exact.log", strings.Repeat("error: crash happened\n", MaxMatches))

	result, err := engine.Search(context.Background(), searchReq("exact.log", "error", false))
	require.NoError(t, err)

	assert.Equal(t, MaxMatches, result.TotalMatches)
	assert.Empty(t, result.Warning, "nothing was suppressed, so no warning")
}

func TestCapSpansFilesInDirectory(t *testing.T) {
	engine, _, root := newTestEngine(t)
	writeFile(t, root, "a.log", strings.Repeat("hit\n", 600))
	writeFile(t, root, "b.log", strings.Repeat("hit\n", 600))

	result, err := engine.Search(context.Background(), searchReq(".", "hit", true))
	require.NoError(t, err)

	assert.Equal(t, MaxMatches, result.TotalMatches)
	assert.Equal(t, CapWarning, result.Warning)
}

func TestIdempotentOrdering(t *testing.T) {
	engine, _, root := newTestEngine(t)
	writeFile(t, root, "a/one.txt", "needle a1\nneedle a2\n")
	writeFile(t, root, "b/two.txt", "needle b1\n")
	writeFile(t, root, "zzz.txt", "needle z\n")

	first, err := engine.Search(context.Background(), searchReq(".", "needle", true))
	require.NoError(t, err)
	second, err := engine.Search(context.Background(), searchReq(".", "needle", true))
	require.NoError(t, err)

	assert.Equal(t, first.Matches, second.Matches)
}

func TestUnreadableFileSkipped(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	engine, _, root := newTestEngine(t)
	writeFile(t, root, "open.txt", "needle\n")
	writeFile(t, root, "locked.txt", "needle\n")
	require.NoError(t, os.Chmod(filepath.Join(root, "locked.txt"), 0o000))

	result, err := engine.Search(context.Background(), searchReq(".", "needle", true))
	require.NoError(t, err)

	// One inaccessible file must not abort the tree-wide search.
	assert.Equal(t, []string{"open.txt"}, matchFiles(result))
}

func TestBinaryContentSkippedMidRead(t *testing.T) {
	engine, _, root := newTestEngine(t)
	writeFile(t, root, "good.txt", "needle\n")

	// Text extension hiding binary content: NUL bytes on the first line.
	raw := append([]byte{0x00, 0x01, 0x02}, []byte("needle\n")...)
	require.NoError(t, os.WriteFile(filepath.Join(root, "sneaky.txt"), raw, 0o644))

	result, err := engine.Search(context.Background(), searchReq(".", "needle", true))
	require.NoError(t, err)
	assert.Equal(t, []string{"good.txt"}, matchFiles(result))
}

func TestResolverFailurePropagates(t *testing.T) {
	engine, resolver, _ := newTestEngine(t)
	resolver.resolveErr = fmt.Errorf("%w: nope", types.ErrNotFound)

	_, err := engine.Search(context.Background(), searchReq("gone", "x", false))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestEmptyDirectoryYieldsEmptyEnvelope(t *testing.T) {
	engine, _, root := newTestEngine(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	result, err := engine.Search(context.Background(), searchReq("empty", "anything", true))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NotNil(t, result.Matches, "matches must marshal as [] not null")
	assert.Equal(t, 0, result.TotalMatches)
}

func TestDisplayPathsRelativeToSessionRoot(t *testing.T) {
	engine, _, root := newTestEngine(t)
	writeFile(t, root, "nested/dir/file.txt", "needle\n")

	result, err := engine.Search(context.Background(), searchReq("nested", "needle", true))
	require.NoError(t, err)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "nested/dir/file.txt", filepath.ToSlash(result.Matches[0].File))
	assert.False(t, filepath.IsAbs(result.Matches[0].File))
}

func TestPolicyTables(t *testing.T) {
	assert.True(t, IsIgnoredDir("node_modules"))
	assert.True(t, IsIgnoredDir(".git"))
	assert.False(t, IsIgnoredDir("src"))
	assert.False(t, IsIgnoredDir("gitlike"))

	assert.True(t, IsBinaryName("a/b/photo.JPG"))
	assert.True(t, IsBinaryName("font.woff2"))
	assert.False(t, IsBinaryName("readme.md"))
	assert.False(t, IsBinaryName("Makefile"))
}
