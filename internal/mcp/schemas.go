package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// grepSearchTool returns the tool definition for grep_search
func grepSearchTool() mcp.Tool {
	return mcp.Tool{
		Name: "grep_search",
		Description: "Search for a regex pattern in a file or directory within the session sandbox. " +
			"Set recursive=true to search through all subdirectories.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "The path to search in (file or directory, relative to session root)",
				},
				"pattern": map[string]interface{}{
					"type":        "string",
					"description": "The regex pattern to search for",
				},
				"workspace_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the workspace",
				},
				"agent_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the agent",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "The ID of the current session",
				},
				"recursive": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether to search recursively in directories",
					"default":     false,
				},
			},
			Required: []string{"path", "pattern", "workspace_id", "agent_id", "session_id"},
		},
	}
}
