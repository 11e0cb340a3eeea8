package qa

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/repolens/internal/index"
	"github.com/dshills/repolens/internal/llm"
	"github.com/dshills/repolens/internal/rank"
	"github.com/dshills/repolens/pkg/types"
)

// Defaults for the tunable engine limits.
const (
	DefaultContentCap   = 3000
	DefaultHistoryLimit = 10
)

// Options configures an Engine.
type Options struct {
	Generator    llm.Generator
	Logger       *slog.Logger
	ContentCap   int // rendered per-file content cap in characters
	HistoryLimit int // conversation turns retained
	CacheSize    int
	CacheTTL     time.Duration
}

// Engine answers natural-language questions about one loaded analysis
// snapshot. It is owned by a single logical session; concurrent callers
// need their own engine or external serialization.
type Engine struct {
	gen          llm.Generator
	log          *slog.Logger
	contentCap   int
	historyLimit int

	snapshot *types.RepositoryAnalysis
	summary  *types.RepositorySummary
	idx      *index.Index
	history  []types.ConversationTurn
	cache    *answerCache
}

// New creates an engine with no snapshot loaded. Questions asked before
// LoadSnapshot see an empty index and degrade accordingly.
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	contentCap := opts.ContentCap
	if contentCap <= 0 {
		contentCap = DefaultContentCap
	}
	historyLimit := opts.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}

	return &Engine{
		gen:          opts.Generator,
		log:          log,
		contentCap:   contentCap,
		historyLimit: historyLimit,
		idx:          index.Build(nil, nil),
		cache:        newAnswerCache(opts.CacheSize, opts.CacheTTL),
	}
}

// LoadSnapshot replaces the loaded repository context. The search
// index, conversation history, and answer cache are swapped wholesale,
// never merged with the previous snapshot's state.
func (e *Engine) LoadSnapshot(analysis *types.RepositoryAnalysis, summary *types.RepositorySummary) {
	var components []types.ComponentRecord
	switch {
	case summary != nil && len(summary.Components) > 0:
		components = summary.Components
	case analysis != nil:
		components = rank.Components(analysis.Files)
	}

	e.snapshot = analysis
	e.summary = summary
	e.idx = index.Build(analysis, components)
	e.history = nil
	e.cache.purge()
}

// Answer classifies the question, gathers and renders its context, and
// delegates to the text generator. It never returns an error: an
// extraction or rendering failure produces an apology with an empty
// context, and a failed or empty generation produces a fixed fallback
// answer. Every completed exchange lands in the conversation history.
func (e *Engine) Answer(ctx context.Context, question string) (answer string, qctx *types.QuestionContext) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("question processing failed", "question", question, "error", r)
			answer = fmt.Sprintf("I'm sorry, I encountered an error while processing your question: %v", r)
			qctx = types.NewQuestionContext()
		}
	}()

	key := answerKey(e.snapshotID(), question)
	if hit, hitCtx, ok := e.cache.get(key); ok {
		e.recordTurn(question, hit, hitCtx.Intent)
		return hit, hitCtx
	}

	qctx = e.extractContext(question)
	rendered := e.renderContext(qctx, question)

	answer, genErr := e.generate(ctx, rendered, question)
	if genErr != nil {
		e.log.Warn("answer generation failed", "error", genErr)
	}
	cacheable := genErr == nil && answer != ""
	if answer == "" {
		answer = noAnswerFallback
	}

	e.recordTurn(question, answer, qctx.Intent)
	if cacheable {
		e.cache.set(key, answer, qctx)
	}
	return answer, qctx
}

func (e *Engine) generate(ctx context.Context, rendered, question string) (string, error) {
	if e.gen == nil {
		return "", fmt.Errorf("no generator configured")
	}
	return e.gen.Generate(ctx, llm.GenerateRequest{
		System:      answerSystemPrompt,
		User:        answerUserPrompt(rendered, question),
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
}

func (e *Engine) recordTurn(question, answer string, intent types.Intent) {
	e.history = append(e.history, types.ConversationTurn{
		Question: question,
		Answer:   answer,
		Intent:   intent,
		AskedAt:  time.Now().UTC(),
	})
	if len(e.history) > e.historyLimit {
		e.history = e.history[len(e.history)-e.historyLimit:]
	}
}

func (e *Engine) snapshotID() string {
	if e.snapshot == nil {
		return ""
	}
	return e.snapshot.ID
}

// History returns the retained conversation turns, oldest first.
func (e *Engine) History() []types.ConversationTurn {
	return append([]types.ConversationTurn(nil), e.history...)
}

// ClearHistory drops the conversation without touching the snapshot.
func (e *Engine) ClearHistory() {
	e.history = nil
}

// SetHistory seeds the conversation history, trimming to the retention
// limit. Used when resuming a persisted conversation.
func (e *Engine) SetHistory(turns []types.ConversationTurn) {
	e.history = append([]types.ConversationTurn(nil), turns...)
	if len(e.history) > e.historyLimit {
		e.history = e.history[len(e.history)-e.historyLimit:]
	}
}

// Snapshot returns the loaded analysis, or nil before LoadSnapshot.
func (e *Engine) Snapshot() *types.RepositoryAnalysis { return e.snapshot }

// Summary returns the loaded summary, or nil.
func (e *Engine) Summary() *types.RepositorySummary { return e.summary }

// Index returns the current search index.
func (e *Engine) Index() *index.Index { return e.idx }
