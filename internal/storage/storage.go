package storage

import (
	"context"
	"time"

	"github.com/dshills/repolens/pkg/types"
)

// Storage defines the interface for persisting analysis snapshots and
// conversation history
type Storage interface {
	// Repository operations
	GetRepository(ctx context.Context, rootPath string) (*Repository, error)
	ListRepositories(ctx context.Context, limit int) ([]*Repository, error)
	DeleteRepository(ctx context.Context, rootPath string) error

	// Snapshot operations. Saving replaces any previous snapshot for the
	// same root path and clears its stored conversation turns.
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
	LoadSnapshot(ctx context.Context, rootPath string) (*Snapshot, error)

	// Conversation operations. History is bounded per repository; appends
	// trim the stored trail to the newest turns.
	AppendTurns(ctx context.Context, rootPath string, turns []types.ConversationTurn) error
	ListTurns(ctx context.Context, rootPath string, limit int) ([]types.ConversationTurn, error)

	// Database operations
	Close() error
}

// Repository is the stored metadata row for one analyzed codebase
type Repository struct {
	ID              int64
	RootPath        string
	SnapshotID      string
	TotalFiles      int
	AnalyzedFiles   int
	TotalLines      int
	PrimaryLanguage string
	AnalyzedAt      time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Snapshot bundles one persisted analysis with its optional summary.
// Repository is derived from Analysis on save and filled on load.
type Snapshot struct {
	Repository *Repository
	Analysis   *types.RepositoryAnalysis
	Summary    *types.RepositorySummary
}
