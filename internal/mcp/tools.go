package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/adenhq/grep-search-mcp/internal/audit"
	"github.com/adenhq/grep-search-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
)

// handleGrepSearch handles the grep_search tool invocation.
//
// Two failure surfaces are kept distinct: malformed tool calls (missing or
// mistyped parameters) are MCP protocol errors, while failures of the search
// itself (bad pattern, unresolvable target) are reported inside the tool
// result as an error envelope, so the calling agent sees them as data.
func (s *Server) handleGrepSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	req := types.SearchRequest{Recursive: getBoolDefault(args, "recursive", false)}

	for _, p := range []struct {
		key  string
		dest *string
	}{
		{"path", &req.Path},
		{"pattern", &req.Pattern},
		{"workspace_id", &req.WorkspaceID},
		{"agent_id", &req.AgentID},
		{"session_id", &req.SessionID},
	} {
		val, ok := args[p.key].(string)
		if !ok || val == "" {
			return nil, newMCPError(ErrorCodeInvalidParams, p.key+" parameter is required", map[string]interface{}{
				"param":  p.key,
				"reason": "missing or empty",
			})
		}
		*p.dest = val
	}

	start := time.Now()
	result, err := s.engine.Search(ctx, req)
	s.recordAudit(ctx, req, result, err, time.Since(start))

	if err != nil {
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"error": errorMessage(err, req),
		})), nil
	}

	return mcp.NewToolResultText(marshalResult(result)), nil
}

// recordAudit writes the request summary to the audit log. Best-effort: a
// failure here is logged and never affects the response.
func (s *Server) recordAudit(ctx context.Context, req types.SearchRequest, result *types.SearchResult, searchErr error, duration time.Duration) {
	if s.audit == nil {
		return
	}
	entry := audit.FromRequest(req, result, searchErr, duration)
	if err := s.audit.Record(ctx, entry); err != nil {
		log.Printf("audit record failed: %v", err)
	}
}

// errorMessage renders a terminal search failure as the error envelope text.
// The wording per failure kind is part of the tool's contract.
func errorMessage(err error, req types.SearchRequest) string {
	switch {
	case errors.Is(err, types.ErrInvalidPattern):
		return fmt.Sprintf("Invalid regex pattern: %s", trailerAfter(err, types.ErrInvalidPattern))
	case errors.Is(err, types.ErrNotFound):
		return fmt.Sprintf("Directory or file not found: %s", req.Path)
	case errors.Is(err, types.ErrPermissionDenied):
		return fmt.Sprintf("Permission denied accessing: %s", req.Path)
	default:
		return fmt.Sprintf("Failed to perform grep search: %s", err)
	}
}

// trailerAfter returns the text following "<sentinel>: " in err's message,
// or the whole message if the sentinel prefix is absent.
func trailerAfter(err error, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}

// marshalResult renders the success envelope as indented JSON.
func marshalResult(result *types.SearchResult) string {
	bytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", result)
	}
	return string(bytes)
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}
