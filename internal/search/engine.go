package search

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/adenhq/grep-search-mcp/pkg/types"
)

// MaxMatches caps the number of match records a single request may return.
// It bounds worst-case I/O and memory on pathological inputs (huge files,
// deep trees) and is part of the tool's behavioral contract.
const MaxMatches = 1000

// maxLineBytes is the scanner buffer ceiling. Lines longer than this abort
// the scan of that file only.
const maxLineBytes = 1024 * 1024

// CapWarning is the warning attached to a result whose output was truncated
// by MaxMatches.
var CapWarning = fmt.Sprintf("Stopped early after reaching MAX_MATCHES=%d", MaxMatches)

// Resolver is the consumed path-security interface. Resolve confines a
// logical path to the sandbox identified by the triple; SessionRoot derives
// the sandbox root without filesystem access, used only for computing
// relative display paths.
type Resolver interface {
	Resolve(path, workspaceID, agentID, sessionID string) (string, error)
	SessionRoot(workspaceID, agentID, sessionID string) string
}

// Engine executes search requests. Stateless and safe for concurrent use:
// every request owns its own compiled pattern and match accumulator.
type Engine struct {
	resolver Resolver
}

// New creates an Engine backed by the given resolver.
func New(resolver Resolver) *Engine {
	return &Engine{resolver: resolver}
}

// Search runs a single synchronous search. On success it returns the result
// envelope; any terminal failure is returned as an error wrapping the
// pkg/types taxonomy. Per-file read failures are absorbed and never abort
// the request.
func (e *Engine) Search(ctx context.Context, req types.SearchRequest) (*types.SearchResult, error) {
	// Compile before any path resolution or filesystem access so a
	// malformed pattern never costs I/O.
	re, err := regexp.Compile(req.Pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidPattern, regexErrText(err))
	}

	target, err := e.resolver.Resolve(req.Path, req.WorkspaceID, req.AgentID, req.SessionID)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, statErr(req.Path, err)
	}

	c := &collector{
		re:          re,
		sessionRoot: e.resolver.SessionRoot(req.WorkspaceID, req.AgentID, req.SessionID),
		matches:     []types.Match{},
	}

	switch {
	case !info.IsDir():
		c.scanFile(target)
	case req.Recursive:
		if err := c.walk(ctx, target); err != nil {
			return nil, err
		}
	default:
		if err := c.listFiles(ctx, target, req.Path); err != nil {
			return nil, err
		}
	}

	result := &types.SearchResult{
		Success:      true,
		Pattern:      req.Pattern,
		Path:         req.Path,
		Recursive:    req.Recursive,
		Matches:      c.matches,
		TotalMatches: len(c.matches),
	}
	if c.capped {
		result.Warning = CapWarning
	}
	return result, nil
}

// collector owns the mutable state of one request execution: the running
// match sequence and the truncation flag. The cap is checked at three
// granularities (before each file, before each directory descent, inside the
// per-line loop) so a single oversized input cannot overshoot it by more
// than one in-flight file scan.
type collector struct {
	re          *regexp.Regexp
	sessionRoot string
	matches     []types.Match
	capped      bool
}

func (c *collector) full() bool {
	return len(c.matches) >= MaxMatches
}

// walk enumerates a subtree with eager pruning: excluded directories are
// removed from the frontier before their children are listed, bounding both
// I/O and scanning on large generated or vendored trees.
func (c *collector) walk(ctx context.Context, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries below the root are skip-and-continue.
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && IsIgnoredDir(d.Name()) {
				return fs.SkipDir
			}
			if path != root && c.full() {
				// Halting with an unexplored directory pending.
				c.capped = true
				return fs.SkipAll
			}
			return nil
		}

		if !d.Type().IsRegular() || IsBinaryName(path) {
			return nil
		}
		if c.full() {
			c.capped = true
			return fs.SkipAll
		}

		c.scanFile(path)
		return nil
	})
}

// listFiles scans only the immediate child files of dir; subdirectories are
// not descended.
func (c *collector) listFiles(ctx context.Context, dir, logicalPath string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return statErr(logicalPath, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		if IsBinaryName(entry.Name()) {
			continue
		}
		if c.full() {
			c.capped = true
			break
		}
		c.scanFile(filepath.Join(dir, entry.Name()))
	}
	return nil
}

// scanFile reads one candidate as text, line by line with 1-based numbering,
// appending a match record per hit. Open failures, oversized lines, and
// non-text content are treated as skip-this-file; matches gathered before
// the failure are kept. Once the cap is reached, scanning continues only
// far enough to learn whether a match was suppressed.
func (c *collector) scanFile(path string) {
	if IsBinaryName(path) {
		return
	}

	display, err := filepath.Rel(c.sessionRoot, path)
	if err != nil {
		// Degenerate fallback when no relative form exists.
		display = path
	}

	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := scanner.Bytes()

		// Not caught by the extension filter: binary content detected
		// mid-read. Abandon the rest of the file.
		if bytes.IndexByte(line, 0) >= 0 || !utf8.Valid(line) {
			return
		}

		if c.full() {
			if c.re.Match(line) {
				c.capped = true
				return
			}
			continue
		}

		if c.re.Match(line) {
			c.matches = append(c.matches, types.Match{
				File:        display,
				LineNumber:  lineNum,
				LineContent: strings.TrimSpace(string(line)),
			})
		}
	}
	// scanner.Err() is deliberately ignored: a read failure mid-file is a
	// per-file condition, not a request failure.
}

// statErr maps a filesystem error on the search target onto the terminal
// taxonomy.
func statErr(logicalPath string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s", types.ErrNotFound, logicalPath)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s", types.ErrPermissionDenied, logicalPath)
	default:
		return fmt.Errorf("reading %s: %w", logicalPath, err)
	}
}

// regexErrText strips the "error parsing regexp: " prefix Go's regexp
// package puts on every compile error, leaving just the diagnostic.
func regexErrText(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "error parsing regexp: "); ok {
		return rest
	}
	return msg
}
