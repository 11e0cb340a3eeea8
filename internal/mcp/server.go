package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/repolens/internal/analyzer"
	"github.com/dshills/repolens/internal/llm"
	"github.com/dshills/repolens/internal/qa"
	"github.com/dshills/repolens/internal/storage"
	"github.com/dshills/repolens/pkg/types"
)

const (
	// ServerName is the MCP server name
	ServerName = "repolens"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the snapshot database
	DefaultDBPath = "~/.repolens"
)

// Options configures a Server
type Options struct {
	DBPath    string        // snapshot database directory, DefaultDBPath when empty
	Generator llm.Generator // nil degrades answers and summaries to fixed fallbacks
	Logger    *slog.Logger
}

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	store    storage.Storage
	analyzer *analyzer.Analyzer
	gen      llm.Generator
	log      *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*session
	lastRoot string
}

// session is one loaded repository: its QA engine plus the summary
// rendered for reports. The engine is single-threaded; the session mutex
// serializes tool calls that reach it.
type session struct {
	mu      sync.Mutex
	root    string
	engine  *qa.Engine
	summary *types.RepositorySummary
}

// NewServer creates a new MCP server instance
func NewServer(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	// Expand home directory if needed
	dbPath := opts.DBPath
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".repolens")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(filepath.Join(dbPath, "repolens.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		store:    store,
		analyzer: analyzer.New(analyzer.Options{Logger: opts.Logger}),
		gen:      opts.Generator,
		log:      opts.Logger,
		sessions: make(map[string]*session),
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.store.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(analyzeRepositoryTool(), s.handleAnalyzeRepository)
	s.mcp.AddTool(askQuestionTool(), s.handleAskQuestion)
	s.mcp.AddTool(suggestQuestionsTool(), s.handleSuggestQuestions)
	s.mcp.AddTool(repositoryStatusTool(), s.handleRepositoryStatus)
	s.mcp.AddTool(exportReportTool(), s.handleExportReport)
	return nil
}

// newEngine builds a QA engine wired to the server's generator
func (s *Server) newEngine() *qa.Engine {
	return qa.New(qa.Options{Generator: s.gen, Logger: s.log})
}

// putSession installs a session and marks its root as most recently used
func (s *Server) putSession(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.root] = sess
	s.lastRoot = sess.root
}

// getSession returns the session for root. An empty root means the most
// recently used session.
func (s *Server) getSession(root string) *session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if root == "" {
		root = s.lastRoot
	}
	return s.sessions[root]
}

// resolveSession returns the session for path, restoring a stored snapshot
// or analyzing from scratch when none is live. An empty path means the
// most recently used session.
func (s *Server) resolveSession(ctx context.Context, path string) (*session, error) {
	if path == "" {
		if sess := s.getSession(""); sess != nil {
			return sess, nil
		}
		return nil, newMCPError(ErrorCodeNoSession, "no repository loaded", map[string]interface{}{
			"reason": "pass a path or call analyze_repository first",
		})
	}

	if sess := s.getSession(path); sess != nil {
		return sess, nil
	}

	// A stored snapshot restores the session across restarts, history
	// included
	snap, err := s.store.LoadSnapshot(ctx, path)
	if err == nil {
		engine := s.newEngine()
		engine.LoadSnapshot(snap.Analysis, snap.Summary)
		if turns, terr := s.store.ListTurns(ctx, path, 0); terr == nil && len(turns) > 0 {
			engine.SetHistory(turns)
		}
		sess := &session{root: path, engine: engine, summary: snap.Summary}
		s.putSession(sess)
		return sess, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		s.log.Warn("stored snapshot unusable, re-analyzing", "path", path, "error", err)
	}

	// Nothing stored: analyze fresh
	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}
	analysis, err := s.analyzer.Analyze(ctx, path, nil)
	if err != nil {
		return nil, newMCPError(ErrorCodeAnalysisFailed, "analysis failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	engine := s.newEngine()
	engine.LoadSnapshot(analysis, nil)
	sess := &session{root: path, engine: engine}
	s.putSession(sess)
	return sess, nil
}
