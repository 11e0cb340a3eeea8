package analyzer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/repolens/internal/lang"
	"github.com/dshills/repolens/internal/parser"
	"github.com/dshills/repolens/pkg/types"
)

// ProgressFunc receives advisory progress messages during analysis.
// Callbacks never affect the result; nil disables them.
type ProgressFunc func(message string)

// Options configures an Analyzer
type Options struct {
	MaxFileSize    int64    // per-file byte cap, parser default when zero
	RetainUnder    int      // full-content retention threshold in characters
	IgnorePatterns []string // extra glob patterns applied to every root
	Logger         *slog.Logger
}

// Analyzer coordinates the analysis pipeline: discover -> analyze ->
// aggregate -> structure.
type Analyzer struct {
	files    *parser.FileAnalyzer
	patterns []string
	log      *slog.Logger
}

// New creates an Analyzer
func New(opts Options) *Analyzer {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Analyzer{
		files: parser.NewFileAnalyzer(parser.Options{
			MaxFileSize: opts.MaxFileSize,
			RetainUnder: opts.RetainUnder,
			Logger:      opts.Logger,
		}),
		patterns: opts.IgnorePatterns,
		log:      opts.Logger,
	}
}

// Analyze walks rootPath and produces the repository analysis. A walk
// that cannot proceed at all returns the empty sentinel alongside the
// error; per-file trouble is logged and skipped, never fatal.
func (a *Analyzer) Analyze(ctx context.Context, rootPath string, onProgress ProgressFunc) (*types.RepositoryAnalysis, error) {
	report := func(msg string) {
		if onProgress != nil {
			onProgress(msg)
		}
	}
	report("Starting repository analysis...")

	info, err := os.Stat(rootPath)
	if err != nil {
		return types.NewEmptyAnalysis(rootPath), fmt.Errorf("stat repository root: %w", err)
	}
	if !info.IsDir() {
		return types.NewEmptyAnalysis(rootPath), fmt.Errorf("%s is not a directory: %w", rootPath, types.ErrInvalidPath)
	}

	cls := a.classifier(rootPath)

	files, err := a.discover(rootPath, cls)
	if err != nil {
		return types.NewEmptyAnalysis(rootPath), fmt.Errorf("walk repository: %w", err)
	}
	report(fmt.Sprintf("Discovered %d files", len(files)))

	analysis := &types.RepositoryAnalysis{
		ID:          uuid.NewString(),
		RootPath:    rootPath,
		GeneratedAt: time.Now().UTC(),
		TotalFiles:  len(files),
		Languages:   make(map[string]*types.LanguageStat),
		Files:       make([]*types.FileRecord, 0, len(files)),
	}

	for i, rel := range files {
		if err := ctx.Err(); err != nil {
			return types.NewEmptyAnalysis(rootPath), err
		}
		if i%10 == 0 {
			report(fmt.Sprintf("Analyzing file %d/%d", i+1, len(files)))
		}

		record, skip := a.files.AnalyzeFile(filepath.Join(rootPath, filepath.FromSlash(rel)), rel)
		if skip != nil {
			a.log.Debug("file skipped",
				"path", skip.Path, "reason", skip.Reason, "detail", skip.Detail)
			continue
		}
		a.accumulate(analysis, record)
	}

	analysis.Structure = a.buildStructure(rootPath, cls)
	report("Directory structure mapped")

	report("Repository analysis completed!")
	return analysis, nil
}

// classifier builds the path classifier for one root, folding in any
// ignore file found there.
func (a *Analyzer) classifier(rootPath string) *lang.Classifier {
	patterns := append([]string(nil), a.patterns...)
	filePatterns, err := lang.LoadIgnoreFile(rootPath)
	if err != nil {
		a.log.Warn("ignore file unreadable", "root", rootPath, "error", err)
	}
	patterns = append(patterns, filePatterns...)
	if len(patterns) == 0 {
		return lang.New()
	}
	return lang.NewWithPatterns(patterns)
}

// discover returns the classifier survivors as slash-separated relative
// paths in lexical walk order. Ignored directories are pruned before
// descent, so their subtrees are never traversed.
func (a *Analyzer) discover(rootPath string, cls *lang.Classifier) ([]string, error) {
	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == rootPath {
				return walkErr
			}
			a.log.Warn("path unreadable during walk", "path", path, "error", walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && cls.Classify(rel).Ignorable {
				return fs.SkipDir
			}
			return nil
		}
		if cls.Classify(rel).Ignorable {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// accumulate folds one analyzed file into the aggregates. Unclassified
// files count toward totals but not the language table.
func (a *Analyzer) accumulate(analysis *types.RepositoryAnalysis, record *types.FileRecord) {
	analysis.Files = append(analysis.Files, record)
	analysis.AnalyzedFiles++

	if record.Language != types.LangUnclassified {
		stat, ok := analysis.Languages[string(record.Language)]
		if !ok {
			stat = &types.LanguageStat{}
			analysis.Languages[string(record.Language)] = stat
		}
		stat.Files++
		stat.Lines += record.Lines
	}

	analysis.Totals.Lines += record.Lines
	analysis.Totals.Functions += len(record.Functions)
	analysis.Totals.Classes += len(record.Classes)
	analysis.Totals.Imports += len(record.Imports)
}

// buildStructure groups surviving file names under their parent
// directory's node in a second walk. The tree is filtered by ignore
// rules only, so files the analysis skipped still appear, and empty
// directories keep their nodes.
func (a *Analyzer) buildStructure(rootPath string, cls *lang.Classifier) *types.TreeNode {
	root := types.NewTreeNode()
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == rootPath {
				return walkErr
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if cls.Classify(rel).Ignorable {
				return fs.SkipDir
			}
			root.Dir(rel)
			return nil
		}
		if cls.Classify(rel).Ignorable {
			return nil
		}
		root.Add(rel)
		return nil
	})
	if err != nil {
		a.log.Warn("structure walk failed", "root", rootPath, "error", err)
	}
	return root
}
