package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/repolens/internal/report"
	"github.com/dshills/repolens/internal/storage"
	"github.com/dshills/repolens/internal/summarizer"
	"github.com/dshills/repolens/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams  = -32602 // Invalid method parameters
	ErrorCodeInternalError  = -32603 // Internal JSON-RPC error
	ErrorCodeAnalysisFailed = -32001 // Repository analysis could not complete
	ErrorCodeEmptyQuestion  = -32002 // Question parameter is empty
	ErrorCodeNoSession      = -32003 // No repository loaded and no path given
)

// handleAnalyzeRepository handles the analyze_repository tool invocation
func (s *Server) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	save := getBoolDefault(args, "save", false)

	start := time.Now()
	analysis, err := s.analyzer.Analyze(ctx, path, nil)
	if err != nil {
		return nil, newMCPError(ErrorCodeAnalysisFailed, "analysis failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	duration := time.Since(start)

	// A fresh analysis replaces any previous session for this root
	engine := s.newEngine()
	engine.LoadSnapshot(analysis, nil)
	s.putSession(&session{root: path, engine: engine})

	languages := make(map[string]interface{}, len(analysis.Languages))
	for name, stat := range analysis.Languages {
		languages[name] = map[string]interface{}{
			"files": stat.Files,
			"lines": stat.Lines,
		}
	}

	response := map[string]interface{}{
		"analyzed":       true,
		"path":           path,
		"snapshot_id":    analysis.ID,
		"total_files":    analysis.TotalFiles,
		"analyzed_files": analysis.AnalyzedFiles,
		"total_lines":    analysis.Totals.Lines,
		"languages":      languages,
		"duration_ms":    duration.Milliseconds(),
	}

	if save {
		if err := s.store.SaveSnapshot(ctx, &storage.Snapshot{Analysis: analysis}); err != nil {
			s.log.Warn("failed to save snapshot", "path", path, "error", err)
			response["saved"] = false
			response["save_error"] = err.Error()
		} else {
			response["saved"] = true
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleAskQuestion handles the ask_question tool invocation
func (s *Server) handleAskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	question := strings.TrimSpace(getStringDefault(args, "question", ""))
	if question == "" {
		return nil, newMCPError(ErrorCodeEmptyQuestion, "question parameter is required and cannot be empty", map[string]interface{}{
			"param":  "question",
			"reason": "missing or empty",
		})
	}

	sess, err := s.resolveSession(ctx, getStringDefault(args, "path", ""))
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	answer, qctx := sess.engine.Answer(ctx, question)
	history := sess.engine.History()
	sess.mu.Unlock()

	// Best effort: persist the turn when the repository has a saved snapshot
	if len(history) > 0 {
		turn := history[len(history)-1]
		if err := s.store.AppendTurns(ctx, sess.root, []types.ConversationTurn{turn}); err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("failed to persist conversation turn", "path", sess.root, "error", err)
		}
	}

	response := map[string]interface{}{
		"answer": answer,
		"intent": string(qctx.Intent),
		"context": map[string]interface{}{
			"files":     len(qctx.Files),
			"functions": len(qctx.Functions),
			"classes":   len(qctx.Classes),
		},
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSuggestQuestions handles the suggest_questions tool invocation
func (s *Server) handleSuggestQuestions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	sess, err := s.resolveSession(ctx, getStringDefault(args, "path", ""))
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	suggestions := sess.engine.Suggest()
	sess.mu.Unlock()

	response := map[string]interface{}{
		"questions": suggestions,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRepositoryStatus handles the repository_status tool invocation
func (s *Server) handleRepositoryStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	path := getStringDefault(args, "path", "")

	if path == "" {
		return s.statusOverview(ctx)
	}

	// Live session first
	if sess := s.getSession(path); sess != nil {
		sess.mu.Lock()
		analysis := sess.engine.Snapshot()
		historyLen := len(sess.engine.History())
		hasSummary := sess.summary != nil || sess.engine.Summary() != nil
		sess.mu.Unlock()

		response := map[string]interface{}{
			"analyzed": true,
			"loaded":   true,
			"path":     path,
			"snapshot": map[string]interface{}{
				"id":             analysis.ID,
				"generated_at":   analysis.GeneratedAt.Format(time.RFC3339),
				"total_files":    analysis.TotalFiles,
				"analyzed_files": analysis.AnalyzedFiles,
				"total_lines":    analysis.Totals.Lines,
			},
			"has_summary":   hasSummary,
			"history_turns": historyLen,
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	// Fall back to the store
	repo, err := s.store.GetRepository(ctx, path)
	if errors.Is(err, storage.ErrNotFound) {
		response := map[string]interface{}{
			"analyzed": false,
			"path":     path,
			"message":  "Repository not analyzed. Use the analyze_repository tool to analyze it.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get repository status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"analyzed": true,
		"loaded":   false,
		"path":     repo.RootPath,
		"stored": map[string]interface{}{
			"snapshot_id":      repo.SnapshotID,
			"total_files":      repo.TotalFiles,
			"analyzed_files":   repo.AnalyzedFiles,
			"total_lines":      repo.TotalLines,
			"primary_language": repo.PrimaryLanguage,
			"analyzed_at":      repo.AnalyzedAt.Format(time.RFC3339),
		},
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// statusOverview reports every live session and stored repository
func (s *Server) statusOverview(ctx context.Context) (*mcp.CallToolResult, error) {
	s.mu.RLock()
	roots := make([]string, 0, len(s.sessions))
	for root := range s.sessions {
		roots = append(roots, root)
	}
	s.mu.RUnlock()
	sort.Strings(roots)

	repos, err := s.store.ListRepositories(ctx, 0)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list repositories", map[string]interface{}{
			"error": err.Error(),
		})
	}

	stored := make([]map[string]interface{}, 0, len(repos))
	for _, repo := range repos {
		stored = append(stored, map[string]interface{}{
			"path":             repo.RootPath,
			"total_files":      repo.TotalFiles,
			"primary_language": repo.PrimaryLanguage,
			"analyzed_at":      repo.AnalyzedAt.Format(time.RFC3339),
		})
	}

	response := map[string]interface{}{
		"sessions": roots,
		"stored":   stored,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleExportReport handles the export_report tool invocation
func (s *Server) handleExportReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	format := getStringDefault(args, "format", "markdown")
	if format != "markdown" && format != "md" && format != "json" {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid format", map[string]interface{}{
			"param":   "format",
			"value":   format,
			"allowed": []string{"markdown", "json"},
		})
	}

	sess, err := s.resolveSession(ctx, path)
	if err != nil {
		return nil, err
	}

	summary, err := s.ensureSummary(ctx, sess)
	if err != nil {
		return nil, err
	}

	if format == "json" {
		out, err := report.JSON(summary)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to render report", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return mcp.NewToolResultText(string(out)), nil
	}
	return mcp.NewToolResultText(string(report.Markdown(summary))), nil
}

// ensureSummary returns the session summary, generating one on first use.
// Generated summaries stay on the session; the engine keeps its snapshot
// and history untouched.
func (s *Server) ensureSummary(ctx context.Context, sess *session) (*types.RepositorySummary, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.summary != nil {
		return sess.summary, nil
	}
	if summary := sess.engine.Summary(); summary != nil {
		sess.summary = summary
		return summary, nil
	}

	sum := summarizer.New(summarizer.Options{Generator: s.gen, Logger: s.log})
	summary, err := sum.Summarize(ctx, sess.engine.Snapshot())
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to generate summary", map[string]interface{}{
			"error": err.Error(),
		})
	}
	sess.summary = summary
	return summary, nil
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

// validatePath checks if a path exists and is an accessible directory
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	// Check if path is absolute
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	// Check if path exists
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	// Check if it's a directory
	if !info.IsDir() {
		return ErrNotDirectory
	}

	// Check if directory is readable
	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
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

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)
