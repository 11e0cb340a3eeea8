// Package types provides shared type definitions for the RepoLens analyzer.
//
// This package defines the domain records passed between the path classifier,
// file analyzer, repository analyzer, search index, and retrieval engine.
//
// # Core Types
//
// FileRecord is the structural record extracted from one source file:
//
//	record := &types.FileRecord{
//	    Path:     "src/server.py",
//	    Language: types.LangPython,
//	    Lines:    120,
//	    Functions: []types.FunctionRecord{
//	        {Name: "handle_request", Line: 14, Args: []string{"self", "req"}},
//	    },
//	}
//
// RepositoryAnalysis is the immutable result of one analysis run. It holds
// every surviving FileRecord, per-language statistics, the directory tree
// model, and aggregate totals. A run that cannot proceed returns the empty
// sentinel from NewEmptyAnalysis rather than a partial structure.
//
// # Skips Instead of Exceptions
//
// File analysis never raises for a problem file. It returns a SkipResult
// with a typed reason instead:
//
//	record, skip := analyzer.AnalyzeFile(path, root)
//	if skip != nil {
//	    log.Warn("file skipped", "reason", skip.Reason)
//	}
//
// # Question Context
//
// QuestionContext carries the bounded fact selection for one question: the
// classified Intent plus matched files, functions, classes, and components.
// ConversationTurn records a completed exchange; the retrieval engine keeps
// at most ten turns, oldest evicted first.
//
// # Validation
//
// Domain types implement Validate methods to ensure structural integrity:
//
//	if err := record.Validate(); err != nil {
//	    return fmt.Errorf("bad record: %w", err)
//	}
package types
