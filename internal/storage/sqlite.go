package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/dshills/repolens/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrCorrupted is returned when a stored snapshot fails its integrity check
	ErrCorrupted = errors.New("snapshot corrupted")
)

const (
	// maxStoredTurns bounds the conversation trail kept per repository
	maxStoredTurns = 50
	// defaultListLimit applies when ListRepositories gets a non-positive limit
	defaultListLimit = 20
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage opens or creates the snapshot database at dbPath and
// applies pending migrations
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &SQLiteStorage{db: db, enc: enc, dec: dec}, nil
}

// Close closes the database connection and codec state
func (s *SQLiteStorage) Close() error {
	_ = s.enc.Close()
	s.dec.Close()
	return s.db.Close()
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Repository operations

// getRepositoryWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getRepositoryWithQuerier(ctx context.Context, q querier, rootPath string) (*Repository, error) {
	query := `
		SELECT id, root_path, snapshot_id, total_files, analyzed_files, total_lines,
		       primary_language, analyzed_at, created_at, updated_at
		FROM repositories
		WHERE root_path = ?
	`
	var repo Repository
	var primaryLang sql.NullString
	var analyzedAt sql.NullTime
	err := q.QueryRowContext(ctx, query, rootPath).Scan(
		&repo.ID, &repo.RootPath, &repo.SnapshotID, &repo.TotalFiles,
		&repo.AnalyzedFiles, &repo.TotalLines, &primaryLang,
		&analyzedAt, &repo.CreatedAt, &repo.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if primaryLang.Valid {
		repo.PrimaryLanguage = primaryLang.String
	}
	if analyzedAt.Valid {
		repo.AnalyzedAt = analyzedAt.Time
	}
	return &repo, nil
}

func (s *SQLiteStorage) GetRepository(ctx context.Context, rootPath string) (*Repository, error) {
	return s.getRepositoryWithQuerier(ctx, s.querier(), rootPath)
}

// ListRepositories returns the most recently updated repositories,
// newest first
func (s *SQLiteStorage) ListRepositories(ctx context.Context, limit int) ([]*Repository, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := `
		SELECT id, root_path, snapshot_id, total_files, analyzed_files, total_lines,
		       primary_language, analyzed_at, created_at, updated_at
		FROM repositories
		ORDER BY updated_at DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	repos := make([]*Repository, 0)
	for rows.Next() {
		var repo Repository
		var primaryLang sql.NullString
		var analyzedAt sql.NullTime

		err := rows.Scan(
			&repo.ID, &repo.RootPath, &repo.SnapshotID, &repo.TotalFiles,
			&repo.AnalyzedFiles, &repo.TotalLines, &primaryLang,
			&analyzedAt, &repo.CreatedAt, &repo.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if primaryLang.Valid {
			repo.PrimaryLanguage = primaryLang.String
		}
		if analyzedAt.Valid {
			repo.AnalyzedAt = analyzedAt.Time
		}
		repos = append(repos, &repo)
	}
	return repos, rows.Err()
}

// DeleteRepository removes a repository row; snapshots and conversations
// cascade with it
func (s *SQLiteStorage) DeleteRepository(ctx context.Context, rootPath string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM repositories WHERE root_path = ?`, rootPath)
	if err != nil {
		return fmt.Errorf("failed to delete repository: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// upsertRepositoryWithQuerier writes the metadata row derived from an analysis
func (s *SQLiteStorage) upsertRepositoryWithQuerier(ctx context.Context, q querier, analysis *types.RepositoryAnalysis) (*Repository, error) {
	repo := &Repository{
		RootPath:        analysis.RootPath,
		SnapshotID:      analysis.ID,
		TotalFiles:      analysis.TotalFiles,
		AnalyzedFiles:   analysis.AnalyzedFiles,
		TotalLines:      analysis.Totals.Lines,
		PrimaryLanguage: primaryLanguage(analysis.Languages),
		AnalyzedAt:      analysis.GeneratedAt,
	}
	query := `
		INSERT INTO repositories (
			root_path, snapshot_id, total_files, analyzed_files, total_lines,
			primary_language, analyzed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(root_path) DO UPDATE SET
			snapshot_id = excluded.snapshot_id,
			total_files = excluded.total_files,
			analyzed_files = excluded.analyzed_files,
			total_lines = excluded.total_lines,
			primary_language = excluded.primary_language,
			analyzed_at = excluded.analyzed_at,
			updated_at = excluded.updated_at
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		repo.RootPath, repo.SnapshotID, repo.TotalFiles, repo.AnalyzedFiles,
		repo.TotalLines, repo.PrimaryLanguage, repo.AnalyzedAt, now, now,
	).Scan(&repo.ID, &repo.CreatedAt, &repo.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert repository: %w", err)
	}
	return repo, nil
}

// primaryLanguage picks the language with the most files, ties broken by name
func primaryLanguage(langs map[string]*types.LanguageStat) string {
	best := ""
	bestFiles := 0
	for name, stat := range langs {
		if stat == nil || stat.Files == 0 {
			continue
		}
		if stat.Files > bestFiles || (stat.Files == bestFiles && name < best) {
			best = name
			bestFiles = stat.Files
		}
	}
	return best
}

// Snapshot operations

// SaveSnapshot persists the analysis and optional summary for a root path,
// replacing any previous snapshot. Conversation turns recorded against the
// old snapshot are cleared in the same transaction.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	if snap == nil || snap.Analysis == nil {
		return fmt.Errorf("snapshot requires an analysis")
	}
	if snap.Analysis.RootPath == "" {
		return fmt.Errorf("snapshot requires a root path")
	}

	analysisBlob, analysisSum, err := s.encodeBlob(snap.Analysis)
	if err != nil {
		return err
	}
	var summaryBlob, summarySum interface{}
	if snap.Summary != nil {
		blob, sum, err := s.encodeBlob(snap.Summary)
		if err != nil {
			return err
		}
		summaryBlob, summarySum = blob, sum
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	repo, err := s.upsertRepositoryWithQuerier(ctx, tx, snap.Analysis)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO snapshots (
			repository_id, encoding, analysis, analysis_hash,
			summary, summary_hash, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(repository_id) DO UPDATE SET
			encoding = excluded.encoding,
			analysis = excluded.analysis,
			analysis_hash = excluded.analysis_hash,
			summary = excluded.summary,
			summary_hash = excluded.summary_hash,
			updated_at = excluded.updated_at
	`
	now := time.Now()
	if _, err := tx.ExecContext(ctx, query,
		repo.ID, snapshotEncoding, analysisBlob, analysisSum,
		summaryBlob, summarySum, now, now); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	// A fresh analysis invalidates turns recorded against the old one
	if _, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE repository_id = ?`, repo.ID); err != nil {
		return fmt.Errorf("failed to clear conversations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	snap.Repository = repo
	return nil
}

// LoadSnapshot returns the stored snapshot for a root path
func (s *SQLiteStorage) LoadSnapshot(ctx context.Context, rootPath string) (*Snapshot, error) {
	repo, err := s.GetRepository(ctx, rootPath)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT encoding, analysis, analysis_hash, summary, summary_hash
		FROM snapshots
		WHERE repository_id = ?
	`
	var encoding string
	var analysisBlob, analysisSum, summaryBlob, summarySum []byte
	err = s.db.QueryRowContext(ctx, query, repo.ID).Scan(
		&encoding, &analysisBlob, &analysisSum, &summaryBlob, &summarySum)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if encoding != snapshotEncoding {
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrCorrupted, encoding)
	}

	snap := &Snapshot{Repository: repo, Analysis: &types.RepositoryAnalysis{}}
	if err := s.decodeBlob(analysisBlob, analysisSum, snap.Analysis); err != nil {
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}
	if len(summaryBlob) > 0 {
		snap.Summary = &types.RepositorySummary{}
		if err := s.decodeBlob(summaryBlob, summarySum, snap.Summary); err != nil {
			return nil, fmt.Errorf("failed to load summary: %w", err)
		}
	}
	return snap, nil
}

// Conversation operations

// AppendTurns records question/answer turns for a repository and trims the
// stored trail to the newest maxStoredTurns rows
func (s *SQLiteStorage) AppendTurns(ctx context.Context, rootPath string, turns []types.ConversationTurn) error {
	if len(turns) == 0 {
		return nil
	}
	repo, err := s.GetRepository(ctx, rootPath)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	insert := `
		INSERT INTO conversations (repository_id, question, answer, intent, asked_at)
		VALUES (?, ?, ?, ?, ?)
	`
	for _, turn := range turns {
		askedAt := turn.AskedAt
		if askedAt.IsZero() {
			askedAt = time.Now().UTC()
		}
		if _, err := tx.ExecContext(ctx, insert,
			repo.ID, turn.Question, turn.Answer, string(turn.Intent), askedAt); err != nil {
			return fmt.Errorf("failed to append turn: %w", err)
		}
	}

	trim := `
		DELETE FROM conversations
		WHERE repository_id = ?
		  AND id NOT IN (
			SELECT id FROM conversations
			WHERE repository_id = ?
			ORDER BY id DESC
			LIMIT ?
		  )
	`
	if _, err := tx.ExecContext(ctx, trim, repo.ID, repo.ID, maxStoredTurns); err != nil {
		return fmt.Errorf("failed to trim conversations: %w", err)
	}

	return tx.Commit()
}

// ListTurns returns up to limit stored turns for a repository in
// chronological order. A non-positive or oversized limit means the full
// stored trail.
func (s *SQLiteStorage) ListTurns(ctx context.Context, rootPath string, limit int) ([]types.ConversationTurn, error) {
	repo, err := s.GetRepository(ctx, rootPath)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxStoredTurns {
		limit = maxStoredTurns
	}

	query := `
		SELECT question, answer, intent, asked_at
		FROM conversations
		WHERE repository_id = ?
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, repo.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	turns := make([]types.ConversationTurn, 0)
	for rows.Next() {
		var turn types.ConversationTurn
		var intent sql.NullString
		if err := rows.Scan(&turn.Question, &turn.Answer, &intent, &turn.AskedAt); err != nil {
			return nil, err
		}
		turn.Intent = types.Intent(intent.String)
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows come back newest first; callers want chronological order
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}
