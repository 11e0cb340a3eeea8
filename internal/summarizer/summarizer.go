package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/repolens/internal/llm"
	"github.com/dshills/repolens/internal/rank"
	"github.com/dshills/repolens/pkg/types"
)

// ErrNoAnalysis is returned when Summarize is called without a snapshot.
var ErrNoAnalysis = errors.New("analysis is required")

const (
	// maxFileSummaries bounds the per-file generation calls per run
	maxFileSummaries = 50
	defaultWorkers   = 4
	progressEvery    = 5
)

// Options configures a Summarizer.
type Options struct {
	Generator llm.Generator
	Logger    *slog.Logger
	Workers   int // concurrent per-file summary calls

	// OnProgress receives one human-readable line per pipeline stage.
	// Calls are serialized, including those from concurrent file workers.
	OnProgress func(stage string)
}

// Summarizer builds comprehensive repository summaries by combining
// local aggregation with generated prose for the open-ended parts.
type Summarizer struct {
	gen        llm.Generator
	log        *slog.Logger
	workers    int
	onProgress func(string)
	progressMu sync.Mutex
}

// New creates a summarizer. A nil generator is allowed; every generated
// part then degrades to its placeholder.
func New(opts Options) *Summarizer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Summarizer{
		gen:        opts.Generator,
		log:        log,
		workers:    workers,
		onProgress: opts.OnProgress,
	}
}

// Summarize produces the full summary for one analysis snapshot:
// overview, per-file summaries for the most important files, structure
// analysis, key components, and recommendations. A failed generation
// degrades its part to a fixed placeholder; the only errors returned
// are a missing analysis and context cancellation.
func (s *Summarizer) Summarize(ctx context.Context, analysis *types.RepositoryAnalysis) (*types.RepositorySummary, error) {
	if analysis == nil {
		return nil, ErrNoAnalysis
	}

	s.progress("Generating repository overview...")
	summary := &types.RepositorySummary{
		GeneratedAt:   time.Now().UTC(),
		RootPath:      analysis.RootPath,
		TotalFiles:    analysis.TotalFiles,
		AnalyzedFiles: analysis.AnalyzedFiles,
		Languages:     analysis.Languages,
	}

	s.progress("Analyzing repository structure...")
	summary.Overview = s.generate(ctx, overviewSystemPrompt, overviewUserPrompt(analysis),
		overviewMaxTokens, overviewTemperature, overviewFallback)

	fileSummaries, err := s.fileSummaries(ctx, analysis.Files)
	if err != nil {
		return nil, err
	}
	summary.FileSummaries = fileSummaries

	s.progress("Analyzing project structure...")
	summary.StructureAnalysis = s.generate(ctx, structureSystemPrompt, structureUserPrompt(analysis),
		structureMaxTokens, structureTemperature, structureFallback)

	summary.Components = rank.Components(analysis.Files)

	s.progress("Generating recommendations...")
	summary.Recommendations = s.generate(ctx, recommendSystemPrompt, recommendUserPrompt(analysis),
		recommendMaxTokens, recommendTemperature, recommendFallback)

	s.progress("Summary generation completed!")
	return summary, nil
}

// fileSummaries summarizes the most important files concurrently,
// preserving rank order in the result regardless of completion order.
func (s *Summarizer) fileSummaries(ctx context.Context, files []*types.FileRecord) ([]types.FileSummary, error) {
	important := rank.Top(files, maxFileSummaries)
	if len(important) == 0 {
		return nil, nil
	}
	s.progress("Generating file summaries...")

	results := make([]types.FileSummary, len(important))
	semaphore := make(chan struct{}, s.workers)
	var done int32

	g, gctx := errgroup.WithContext(ctx)
	for i, rec := range important {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			select {
			case <-gctx.Done():
				return gctx.Err()
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[i] = types.FileSummary{
				Path:     rec.Path,
				Language: string(rec.Language),
				Lines:    rec.Lines,
				Summary: s.generate(gctx, fileSystemPrompt, fileUserPrompt(rec),
					fileMaxTokens, fileTemperature, fileFallback),
			}
			if n := atomic.AddInt32(&done, 1); n%progressEvery == 0 || int(n) == len(important) {
				s.progress(fmt.Sprintf("Summarizing file %d/%d", n, len(important)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// generate runs one generation call and degrades to the part's
// placeholder on any failure or empty reply.
func (s *Summarizer) generate(ctx context.Context, system, user string, maxTokens int, temperature float32, fallback string) string {
	if s.gen == nil {
		return fallback
	}
	reply, err := s.gen.Generate(ctx, llm.GenerateRequest{
		System:      system,
		User:        user,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		s.log.Warn("summary generation failed", "error", err)
		return fallback
	}
	if reply == "" {
		return fallback
	}
	return reply
}

func (s *Summarizer) progress(stage string) {
	if s.onProgress != nil {
		s.progressMu.Lock()
		s.onProgress(stage)
		s.progressMu.Unlock()
	}
	s.log.Debug("summary progress", "stage", stage)
}
