package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// analyzeRepositoryTool returns the tool definition for analyze_repository
func analyzeRepositoryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "analyze_repository",
		Description: "Analyze a code repository so questions can be asked about it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the repository root",
				},
				"save": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, persist the analysis snapshot so it survives restarts",
					"default":     false,
				},
			},
			Required: []string{"path"},
		},
	}
}

// askQuestionTool returns the tool definition for ask_question
func askQuestionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ask_question",
		Description: "Ask a natural-language question about an analyzed repository",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the repository (defaults to the most recently used one)",
				},
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer (e.g. 'What does the main function do?')",
				},
			},
			Required: []string{"question"},
		},
	}
}

// suggestQuestionsTool returns the tool definition for suggest_questions
func suggestQuestionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "suggest_questions",
		Description: "Suggest questions worth asking about an analyzed repository",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the repository (defaults to the most recently used one)",
				},
			},
		},
	}
}

// repositoryStatusTool returns the tool definition for repository_status
func repositoryStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "repository_status",
		Description: "Report analysis status for one repository, or list all known repositories",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the repository (omit to list every live session and stored snapshot)",
				},
			},
		},
	}
}

// exportReportTool returns the tool definition for export_report
func exportReportTool() mcp.Tool {
	return mcp.Tool{
		Name:        "export_report",
		Description: "Render an analysis report for a repository, generating the summary on first use",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the repository",
				},
				"format": map[string]interface{}{
					"type":        "string",
					"description": "Report format",
					"enum":        []string{"markdown", "json"},
					"default":     "markdown",
				},
			},
			Required: []string{"path"},
		},
	}
}
