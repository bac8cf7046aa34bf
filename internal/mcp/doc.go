// Package mcp implements the Model Context Protocol (MCP) server exposing
// the sandboxed grep tool.
//
// The server registers a single tool:
//   - grep_search: bounded regex search over a session sandbox
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output.
// Stdout carries only protocol messages; all logging goes to stderr.
//
// # Tool: grep_search
//
// Search a file or directory inside a session sandbox:
//
//	Request:
//	{
//	  "name": "grep_search",
//	  "arguments": {
//	    "path": "src",
//	    "pattern": "TODO",
//	    "workspace_id": "ws-1",
//	    "agent_id": "agent-1",
//	    "session_id": "sess-1",
//	    "recursive": true
//	  }
//	}
//
//	Response (success):
//	{
//	  "success": true,
//	  "pattern": "TODO",
//	  "path": "src",
//	  "recursive": true,
//	  "matches": [
//	    {"file": "src/main.go", "line_number": 12, "line_content": "// TODO: retry"}
//	  ],
//	  "total_matches": 1
//	}
//
//	Response (failure):
//	{
//	  "error": "Directory or file not found: src"
//	}
//
// The two response shapes are mutually exclusive. Search failures travel
// inside the tool result so the calling agent can read them as data;
// malformed tool calls (missing required parameters) are MCP protocol
// errors instead.
//
// # Auditing
//
// When enabled in configuration, every invocation is summarized into the
// audit store, and Serve runs a retention loop that prunes old entries.
package mcp
