package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/repolens/pkg/types"
)

func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "repolens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testAnalysis(root string) *types.RepositoryAnalysis {
	analysis := types.NewEmptyAnalysis(root)
	analysis.TotalFiles = 4
	analysis.AnalyzedFiles = 3
	analysis.Languages = map[string]*types.LanguageStat{
		"python":   {Files: 2, Lines: 300},
		"markdown": {Files: 1, Lines: 40},
	}
	analysis.Files = []*types.FileRecord{
		{
			Path:     "main.py",
			Language: "python",
			Size:     2048,
			Lines:    220,
			Content:  "def main():\n    pass\n",
			Functions: []types.FunctionRecord{
				{Name: "main", Line: 1, Docstring: "Entry point."},
			},
		},
		{
			Path:     "src/util.py",
			Language: "python",
			Size:     640,
			Lines:    80,
			Imports:  []string{"os", "sys"},
		},
		{
			Path:     "README.md",
			Language: "markdown",
			Size:     400,
			Lines:    40,
			Preview:  "# Demo\n",
		},
	}
	analysis.Totals = types.Totals{Lines: 340, Functions: 1, Imports: 2}
	return analysis
}

func testSummary(root string) *types.RepositorySummary {
	return &types.RepositorySummary{
		GeneratedAt:   time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC),
		RootPath:      root,
		TotalFiles:    4,
		AnalyzedFiles: 3,
		Overview:      "A small demo project.",
	}
}

func testTurns(n int) []types.ConversationTurn {
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	turns := make([]types.ConversationTurn, 0, n)
	for i := 0; i < n; i++ {
		turns = append(turns, types.ConversationTurn{
			Question: fmt.Sprintf("question %02d", i+1),
			Answer:   fmt.Sprintf("answer %02d", i+1),
			Intent:   types.IntentGeneral,
			AskedAt:  base.Add(time.Duration(i) * time.Minute),
		})
	}
	return turns
}

func TestNewSQLiteStorage_AppliesMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "repolens.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)

	var version string
	err = store.db.QueryRow("SELECT version FROM schema_version ORDER BY applied_at DESC LIMIT 1").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)
	require.NoError(t, store.Close())

	// Reopening the same database must be a no-op for migrations
	store, err = NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestSaveSnapshot_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	root := "/tmp/demo"
	analysis := testAnalysis(root)
	snap := &Snapshot{Analysis: analysis, Summary: testSummary(root)}
	require.NoError(t, store.SaveSnapshot(ctx, snap))

	require.NotNil(t, snap.Repository)
	assert.Greater(t, snap.Repository.ID, int64(0))
	assert.Equal(t, analysis.ID, snap.Repository.SnapshotID)
	assert.Equal(t, "python", snap.Repository.PrimaryLanguage)
	assert.Equal(t, 340, snap.Repository.TotalLines)

	loaded, err := store.LoadSnapshot(ctx, root)
	require.NoError(t, err)

	assert.Equal(t, analysis.ID, loaded.Analysis.ID)
	assert.Equal(t, root, loaded.Analysis.RootPath)
	assert.Equal(t, 4, loaded.Analysis.TotalFiles)
	assert.Equal(t, 300, loaded.Analysis.Languages["python"].Lines)
	require.Len(t, loaded.Analysis.Files, 3)
	assert.Equal(t, "main.py", loaded.Analysis.Files[0].Path)
	assert.Equal(t, "main", loaded.Analysis.Files[0].Functions[0].Name)
	assert.Equal(t, []string{"os", "sys"}, loaded.Analysis.Files[1].Imports)

	require.NotNil(t, loaded.Summary)
	assert.Equal(t, "A small demo project.", loaded.Summary.Overview)

	require.NotNil(t, loaded.Repository)
	assert.Equal(t, root, loaded.Repository.RootPath)
}

func TestSaveSnapshot_WithoutSummary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	root := "/tmp/nosummary"
	require.NoError(t, store.SaveSnapshot(ctx, &Snapshot{Analysis: testAnalysis(root)}))

	loaded, err := store.LoadSnapshot(ctx, root)
	require.NoError(t, err)
	assert.Nil(t, loaded.Summary)
	assert.NotNil(t, loaded.Analysis)
}

func TestSaveSnapshot_ReplacesPreviousAndClearsTurns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	root := "/tmp/replace"
	first := testAnalysis(root)
	require.NoError(t, store.SaveSnapshot(ctx, &Snapshot{Analysis: first}))
	require.NoError(t, store.AppendTurns(ctx, root, testTurns(2)))

	second := testAnalysis(root)
	second.TotalFiles = 9
	require.NoError(t, store.SaveSnapshot(ctx, &Snapshot{Analysis: second}))

	loaded, err := store.LoadSnapshot(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, second.ID, loaded.Analysis.ID)
	assert.Equal(t, 9, loaded.Analysis.TotalFiles)

	turns, err := store.ListTurns(ctx, root, 0)
	require.NoError(t, err)
	assert.Empty(t, turns)

	repos, err := store.ListRepositories(ctx, 0)
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, second.ID, repos[0].SnapshotID)
}

func TestSaveSnapshot_RequiresAnalysis(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.SaveSnapshot(ctx, nil))
	assert.Error(t, store.SaveSnapshot(ctx, &Snapshot{}))

	missing := testAnalysis("")
	assert.Error(t, store.SaveSnapshot(ctx, &Snapshot{Analysis: missing}))
}

func TestLoadSnapshot_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadSnapshot(context.Background(), "/tmp/never-saved")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadSnapshot_Corrupted(t *testing.T) {
	t.Run("garbage blob", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()
		root := "/tmp/garbage"
		require.NoError(t, store.SaveSnapshot(ctx, &Snapshot{Analysis: testAnalysis(root)}))

		_, err := store.db.Exec("UPDATE snapshots SET analysis = ?", []byte{0xde, 0xad, 0xbe, 0xef})
		require.NoError(t, err)

		_, err = store.LoadSnapshot(ctx, root)
		assert.ErrorIs(t, err, ErrCorrupted)
	})

	t.Run("hash mismatch", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()
		root := "/tmp/forged"
		require.NoError(t, store.SaveSnapshot(ctx, &Snapshot{Analysis: testAnalysis(root)}))

		// Valid zstd of a different payload; the stored hash no longer matches
		forged := store.enc.EncodeAll([]byte(`{"id":"forged"}`), nil)
		_, err := store.db.Exec("UPDATE snapshots SET analysis = ?", forged)
		require.NoError(t, err)

		_, err = store.LoadSnapshot(ctx, root)
		assert.ErrorIs(t, err, ErrCorrupted)
	})

	t.Run("unknown encoding", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()
		root := "/tmp/encoding"
		require.NoError(t, store.SaveSnapshot(ctx, &Snapshot{Analysis: testAnalysis(root)}))

		_, err := store.db.Exec("UPDATE snapshots SET encoding = 'gzip+xml'")
		require.NoError(t, err)

		_, err = store.LoadSnapshot(ctx, root)
		assert.ErrorIs(t, err, ErrCorrupted)
	})
}

func TestDeleteRepository_Cascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	root := "/tmp/deleted"
	require.NoError(t, store.SaveSnapshot(ctx, &Snapshot{Analysis: testAnalysis(root)}))
	require.NoError(t, store.AppendTurns(ctx, root, testTurns(3)))

	require.NoError(t, store.DeleteRepository(ctx, root))

	_, err := store.GetRepository(ctx, root)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.LoadSnapshot(ctx, root)
	assert.ErrorIs(t, err, ErrNotFound)

	var snapshots, conversations int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&snapshots))
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM conversations").Scan(&conversations))
	assert.Zero(t, snapshots)
	assert.Zero(t, conversations)
}

func TestDeleteRepository_NotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.DeleteRepository(context.Background(), "/tmp/never-saved")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRepositories_RecentFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, root := range []string{"/tmp/alpha", "/tmp/beta", "/tmp/gamma"} {
		require.NoError(t, store.SaveSnapshot(ctx, &Snapshot{Analysis: testAnalysis(root)}))
	}

	repos, err := store.ListRepositories(ctx, 0)
	require.NoError(t, err)
	require.Len(t, repos, 3)
	assert.Equal(t, "/tmp/gamma", repos[0].RootPath)
	assert.Equal(t, "/tmp/alpha", repos[2].RootPath)

	repos, err = store.ListRepositories(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, repos, 2)
}

func TestAppendTurns_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	root := "/tmp/turns"
	require.NoError(t, store.SaveSnapshot(ctx, &Snapshot{Analysis: testAnalysis(root)}))

	want := testTurns(3)
	require.NoError(t, store.AppendTurns(ctx, root, want))

	got, err := store.ListTurns(ctx, root, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range want {
		assert.Equal(t, want[i].Question, got[i].Question)
		assert.Equal(t, want[i].Answer, got[i].Answer)
		assert.Equal(t, want[i].Intent, got[i].Intent)
		assert.WithinDuration(t, want[i].AskedAt, got[i].AskedAt, time.Second)
	}
}

func TestAppendTurns_TrimsToNewest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	root := "/tmp/trimmed"
	require.NoError(t, store.SaveSnapshot(ctx, &Snapshot{Analysis: testAnalysis(root)}))
	require.NoError(t, store.AppendTurns(ctx, root, testTurns(60)))

	got, err := store.ListTurns(ctx, root, 0)
	require.NoError(t, err)
	require.Len(t, got, maxStoredTurns)
	assert.Equal(t, "question 11", got[0].Question)
	assert.Equal(t, "question 60", got[len(got)-1].Question)
}

func TestAppendTurns_UnknownRepository(t *testing.T) {
	store := newTestStore(t)

	err := store.AppendTurns(context.Background(), "/tmp/never-saved", testTurns(1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendTurns_EmptyIsNoOp(t *testing.T) {
	store := newTestStore(t)

	// No repository lookup happens for an empty batch
	require.NoError(t, store.AppendTurns(context.Background(), "/tmp/never-saved", nil))
}

func TestListTurns_Limit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	root := "/tmp/limited"
	require.NoError(t, store.SaveSnapshot(ctx, &Snapshot{Analysis: testAnalysis(root)}))
	require.NoError(t, store.AppendTurns(ctx, root, testTurns(10)))

	got, err := store.ListTurns(ctx, root, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// The newest three, still in chronological order
	assert.Equal(t, "question 08", got[0].Question)
	assert.Equal(t, "question 10", got[2].Question)
}

func TestPrimaryLanguage(t *testing.T) {
	tests := []struct {
		name  string
		langs map[string]*types.LanguageStat
		want  string
	}{
		{"empty", nil, ""},
		{"single", map[string]*types.LanguageStat{"go": {Files: 3}}, "go"},
		{"most files wins", map[string]*types.LanguageStat{
			"python":   {Files: 5},
			"markdown": {Files: 2},
		}, "python"},
		{"tie broken by name", map[string]*types.LanguageStat{
			"ruby": {Files: 2},
			"java": {Files: 2},
		}, "java"},
		{"zero counts skipped", map[string]*types.LanguageStat{
			"text": {Files: 0},
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, primaryLanguage(tt.langs))
		})
	}
}
