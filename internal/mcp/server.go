package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/adenhq/grep-search-mcp/internal/audit"
	"github.com/adenhq/grep-search-mcp/internal/config"
	"github.com/adenhq/grep-search-mcp/internal/sandbox"
	"github.com/adenhq/grep-search-mcp/internal/search"
)

const (
	// ServerName is the MCP server name
	ServerName = "grep-search-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"

	// pruneInterval is how often expired audit entries are removed
	pruneInterval = time.Hour
)

// BuildInfo describes the compiled-in SQLite driver configuration.
func BuildInfo() string {
	return audit.BuildMode + "/" + audit.DriverName
}

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp    *server.MCPServer
	cfg    *config.Config
	engine *search.Engine
	audit  *audit.Store // nil when auditing is disabled
}

// NewServer creates a new MCP server instance from configuration
func NewServer(cfg *config.Config) (*Server, error) {
	if err := os.MkdirAll(cfg.WorkspacesDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspaces directory: %w", err)
	}

	sb := sandbox.New(cfg.WorkspacesDir)
	engine := search.New(sb)

	var store *audit.Store
	if cfg.Audit.Enabled {
		if err := os.MkdirAll(filepath.Dir(cfg.Audit.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create audit directory: %w", err)
		}
		var err error
		store, err = audit.NewStore(cfg.Audit.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audit store: %w", err)
		}
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:    mcpServer,
		cfg:    cfg,
		engine: engine,
		audit:  store,
	}

	s.registerTools()

	return s, nil
}

// Serve runs the stdio transport and the audit retention loop until the
// transport shuts down.
func (s *Server) Serve(ctx context.Context) error {
	defer func() {
		if s.audit != nil {
			_ = s.audit.Close()
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.ServeStdio(s.mcp)
	})

	if s.audit != nil && s.cfg.Audit.KeepDays > 0 {
		g.Go(func() error {
			s.pruneLoop(ctx)
			return nil
		})
	}

	return g.Wait()
}

// pruneLoop periodically removes audit entries past the retention window.
func (s *Server) pruneLoop(ctx context.Context) {
	retention := time.Duration(s.cfg.Audit.KeepDays) * 24 * time.Hour

	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.audit.PruneOlderThan(ctx, retention)
			if err != nil {
				log.Printf("audit prune failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("audit prune removed %d entries", removed)
			}
		}
	}
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(grepSearchTool(), s.handleGrepSearch)
}
