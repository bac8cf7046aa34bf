package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adenhq/grep-search-mcp/internal/config"
	"github.com/adenhq/grep-search-mcp/internal/mcp"
)

// NewServeCommand creates the serve command that runs the MCP server on stdio
func NewServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Starts the grep-search MCP server. The server reads JSON-RPC messages
from stdin and writes responses to stdout; all diagnostics go to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (yaml)")

	return cmd
}

func runServe(configPath string) error {
	// Stdout is reserved for the MCP protocol
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log.Printf("%s v%s starting (build mode: %s)", mcp.ServerName, Version, mcp.BuildInfo())
	log.Printf("workspaces dir: %s, audit enabled: %v", cfg.WorkspacesDir, cfg.Audit.Enabled)

	server, err := mcp.NewServer(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("received signal %v, shutting down", sig)
		cancel()
	}()

	log.Println("MCP server ready, listening on stdio...")
	if err := server.Serve(ctx); err != nil {
		return err
	}

	log.Println("server stopped")
	return nil
}
