// Package mcp implements the Model Context Protocol (MCP) server for RepoLens.
//
// The MCP server exposes five tools to AI coding assistants:
//   - analyze_repository: Analyze a repository and load it for questioning
//   - ask_question: Ask a natural-language question about an analyzed repository
//   - suggest_questions: Suggest questions worth asking about a repository
//   - repository_status: Report session and snapshot state
//   - export_report: Render a full analysis report as Markdown or JSON
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output,
// making it simple to integrate with any MCP-compatible client.
//
// # Basic Usage
//
// The MCP server is typically started via the mcp command:
//
//	repolens mcp
//
// It then listens on stdin for MCP protocol messages and writes responses
// to stdout. Each analyzed repository becomes a session keyed by its root
// path; tools that accept an optional path fall back to the most recently
// used session when the path is omitted.
//
// # Tool: analyze_repository
//
// Analyze a repository and make it available for questions:
//
//	Request:
//	{
//	  "name": "analyze_repository",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "save": true
//	  }
//	}
//
//	Response:
//	{
//	  "analyzed": true,
//	  "path": "/path/to/project",
//	  "snapshot_id": "0f8fad5b-d9cb-469f-a165-70867728950e",
//	  "total_files": 247,
//	  "analyzed_files": 198,
//	  "total_lines": 35720,
//	  "languages": {"python": {"files": 120, "lines": 28000}},
//	  "duration_ms": 1840,
//	  "saved": true
//	}
//
// With save set, the snapshot is persisted to the local SQLite store and
// survives server restarts.
//
// # Tool: ask_question
//
// Ask a question about an analyzed repository:
//
//	Request:
//	{
//	  "name": "ask_question",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "question": "Where is authentication handled?"
//	  }
//	}
//
//	Response:
//	{
//	  "answer": "Authentication lives in src/auth/...",
//	  "intent": "structure",
//	  "context": {"files": 3, "functions": 5, "classes": 1}
//	}
//
// The path may be omitted; the most recently used session answers. When a
// path names a repository with a saved snapshot but no live session, the
// snapshot and its conversation history are restored from the store before
// answering.
//
// # Tool: suggest_questions
//
// Suggest questions tailored to the repository's contents:
//
//	Request:
//	{
//	  "name": "suggest_questions",
//	  "arguments": {"path": "/path/to/project"}
//	}
//
//	Response:
//	{
//	  "questions": [
//	    "What does this repository do?",
//	    "What is the main functionality?"
//	  ]
//	}
//
// # Tool: repository_status
//
// Check whether a repository has been analyzed:
//
//	Request:
//	{
//	  "name": "repository_status",
//	  "arguments": {"path": "/path/to/project"}
//	}
//
//	Response (live session):
//	{
//	  "analyzed": true,
//	  "loaded": true,
//	  "path": "/path/to/project",
//	  "snapshot": {"id": "...", "total_files": 247},
//	  "has_summary": false,
//	  "history_turns": 4
//	}
//
// Omitting the path returns an overview listing every live session and
// every stored snapshot.
//
// # Tool: export_report
//
// Render the analysis report:
//
//	Request:
//	{
//	  "name": "export_report",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "format": "markdown"
//	  }
//	}
//
// The response content is the report itself rather than a JSON envelope:
// Markdown text for format "markdown", an indented JSON document for
// format "json". Generating the report produces the repository summary on
// first use and caches it on the session.
//
// # MCP Client Configuration
//
// Configure in an MCP client's settings:
//
//	{
//	  "mcpServers": {
//	    "repolens": {
//	      "command": "/usr/local/bin/repolens",
//	      "args": ["mcp"],
//	      "env": {
//	        "OPENROUTER_API_KEY": "your-api-key"
//	      }
//	    }
//	  }
//	}
//
// Without an LLM provider configured, analysis and retrieval still work;
// answers and summaries degrade to fixed fallback text.
//
// # Error Handling
//
// The MCP server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32602,
//	    "message": "Invalid params",
//	    "data": {
//	      "param": "path",
//	      "reason": "Path does not exist"
//	    }
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (database, filesystem, etc.)
//   - -32001: Analysis failed
//   - -32002: Question missing or empty
//   - -32003: No repository loaded
//
// # Logging
//
// The MCP server logs to stderr (stdout is reserved for MCP protocol).
package mcp
