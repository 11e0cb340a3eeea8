package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dshills/repolens/internal/config"
	"github.com/dshills/repolens/internal/llm"
	"github.com/dshills/repolens/internal/logging"
	"github.com/dshills/repolens/internal/qa"
	"github.com/dshills/repolens/internal/storage"
)

// loadEngine returns a QA engine loaded for root, restoring a stored
// snapshot (conversation history included) when one exists and analyzing
// fresh otherwise. The bool reports whether the snapshot came from the
// store.
func loadEngine(ctx context.Context, cfg *config.Config, log *slog.Logger, gen llm.Generator, store storage.Storage, root string) (*qa.Engine, bool, error) {
	engine := qa.New(qa.Options{
		Generator:    gen,
		Logger:       logging.Component(log, "qa"),
		ContentCap:   cfg.QA.ContentCap,
		HistoryLimit: cfg.QA.HistoryLimit,
		CacheSize:    cfg.QA.CacheSize,
		CacheTTL:     cfg.QA.CacheTTL(),
	})

	if store != nil {
		snap, err := store.LoadSnapshot(ctx, root)
		switch {
		case err == nil:
			engine.LoadSnapshot(snap.Analysis, snap.Summary)
			if turns, terr := store.ListTurns(ctx, root, 0); terr == nil && len(turns) > 0 {
				engine.SetHistory(turns)
			}
			return engine, true, nil
		case !errors.Is(err, storage.ErrNotFound):
			log.Warn("stored snapshot unusable, re-analyzing", "path", root, "error", err)
		}
	}

	analysis, err := newAnalyzer(cfg, log).Analyze(ctx, root, nil)
	if err != nil {
		return nil, false, fmt.Errorf("analysis failed: %w", err)
	}
	engine.LoadSnapshot(analysis, nil)
	return engine, false, nil
}
