package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for grepsearch
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grepsearch",
		Short: "Sandboxed grep search MCP server",
		Long: `grepsearch exposes a bounded, sandboxed regex search over per-session
file trees as an MCP tool.

Agents call grep_search with a logical path, a regex pattern, and a
workspace/agent/session identity; the server confines the path to that
session's sandbox and returns structured match records.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCommand())

	return cmd
}
