// Package storage provides SQLite-based persistence for repository
// analysis snapshots.
//
// The storage layer manages:
//   - Repository metadata rows keyed by absolute root path
//   - One compressed snapshot payload per repository
//   - A bounded trail of conversation turns per repository
//
// Snapshot payloads are JSON compressed with zstd. A sha256 of the raw
// JSON is stored beside each blob and verified on load; a failed check
// surfaces as ErrCorrupted.
//
// # Database Schema
//
// Tables:
//   - repositories: metadata (root path, snapshot id, file and line totals)
//   - snapshots: compressed analysis and summary blobs with integrity hashes
//   - conversations: question/answer turns, trimmed to the newest 50 rows
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage("~/.repolens/repolens.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	err = store.SaveSnapshot(ctx, &storage.Snapshot{
//	    Analysis: analysis,
//	    Summary:  summary, // optional
//	})
//
//	snap, err := store.LoadSnapshot(ctx, rootPath)
//
// Saving a snapshot replaces the previous one for the same root path and
// clears its stored conversation turns; persisted history never outlives
// the analysis it was recorded against.
//
// # Build Tags
//
// Two SQLite drivers are supported:
//
// Pure Go build (default):
//
//   - Uses modernc.org/sqlite
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build ./...
//
// CGO build (sqlite_cgo tag):
//
//   - Uses github.com/mattn/go-sqlite3
//
//   - Requires a C compiler
//
//     CGO_ENABLED=1 go build -tags "sqlite_cgo" ./...
package storage
