package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/dshills/repolens/internal/analyzer"
	"github.com/dshills/repolens/internal/logging"
	"github.com/dshills/repolens/internal/qa"
	"github.com/dshills/repolens/internal/storage"
	"github.com/dshills/repolens/pkg/types"
)

// SnapshotTestSuite covers persistence round-trips: analyze, save, close
// the database, reopen it, and keep answering questions from the stored
// snapshot.
type SnapshotTestSuite struct {
	suite.Suite
	ctx      context.Context
	analysis *types.RepositoryAnalysis
	dbPath   string
	store    *storage.SQLiteStorage
}

func (s *SnapshotTestSuite) SetupSuite() {
	s.ctx = context.Background()

	wd, err := os.Getwd()
	s.Require().NoError(err)
	fixturesDir := filepath.Join(filepath.Dir(wd), "testdata", "fixtures")

	s.analysis, err = analyzer.New(analyzer.Options{}).Analyze(s.ctx, fixturesDir, nil)
	s.Require().NoError(err)
}

func (s *SnapshotTestSuite) SetupTest() {
	s.dbPath = filepath.Join(s.T().TempDir(), "repolens.db")
	store, err := storage.NewSQLiteStorage(s.dbPath)
	s.Require().NoError(err)
	s.store = store
}

func (s *SnapshotTestSuite) TearDownTest() {
	if s.store != nil {
		s.Require().NoError(s.store.Close())
	}
}

// reopen closes the current handle and opens a fresh one on the same
// file, proving the data survives the process boundary.
func (s *SnapshotTestSuite) reopen() {
	s.Require().NoError(s.store.Close())
	store, err := storage.NewSQLiteStorage(s.dbPath)
	s.Require().NoError(err)
	s.store = store
}

func (s *SnapshotTestSuite) TestSnapshotSurvivesReopen() {
	err := s.store.SaveSnapshot(s.ctx, &storage.Snapshot{Analysis: s.analysis})
	s.Require().NoError(err)

	s.reopen()

	snap, err := s.store.LoadSnapshot(s.ctx, s.analysis.RootPath)
	s.Require().NoError(err)
	s.Require().NotNil(snap.Analysis)

	s.Equal(s.analysis.ID, snap.Analysis.ID)
	s.Equal(s.analysis.TotalFiles, snap.Analysis.TotalFiles)
	s.Len(snap.Analysis.Files, len(s.analysis.Files))
	s.Equal(s.analysis.Totals, snap.Analysis.Totals)

	s.Require().NotNil(snap.Repository)
	s.Equal(s.analysis.ID, snap.Repository.SnapshotID)
	s.Equal("python", snap.Repository.PrimaryLanguage)
	s.Nil(snap.Summary, "no summary was saved")
}

func (s *SnapshotTestSuite) TestEngineAnswersFromStoredSnapshot() {
	err := s.store.SaveSnapshot(s.ctx, &storage.Snapshot{Analysis: s.analysis})
	s.Require().NoError(err)

	s.reopen()

	snap, err := s.store.LoadSnapshot(s.ctx, s.analysis.RootPath)
	s.Require().NoError(err)

	stub := newStubGenerator("Task persistence lives in src/tasks.py.")
	engine := qa.New(qa.Options{Generator: stub, Logger: logging.Discard()})
	engine.LoadSnapshot(snap.Analysis, snap.Summary)

	answer, qctx := engine.Answer(s.ctx, "What does the render_table function do?")
	s.Equal("Task persistence lives in src/tasks.py.", answer)
	s.Equal(types.IntentFunction, qctx.Intent)
	s.NotEmpty(qctx.Functions, "stored records must still resolve mentions")
}

func (s *SnapshotTestSuite) TestSummaryRoundTrip() {
	summary := &types.RepositorySummary{
		GeneratedAt: time.Now().UTC(),
		RootPath:    s.analysis.RootPath,
		TotalFiles:  s.analysis.TotalFiles,
		Overview:    "A small task tracker exercised by tests.",
	}
	err := s.store.SaveSnapshot(s.ctx, &storage.Snapshot{Analysis: s.analysis, Summary: summary})
	s.Require().NoError(err)

	s.reopen()

	snap, err := s.store.LoadSnapshot(s.ctx, s.analysis.RootPath)
	s.Require().NoError(err)
	s.Require().NotNil(snap.Summary)
	s.Equal("A small task tracker exercised by tests.", snap.Summary.Overview)
}

func (s *SnapshotTestSuite) TestConversationTrailSurvivesReopen() {
	err := s.store.SaveSnapshot(s.ctx, &storage.Snapshot{Analysis: s.analysis})
	s.Require().NoError(err)

	turns := []types.ConversationTurn{
		{Question: "What is this?", Answer: "A task tracker.", Intent: types.IntentGeneral, AskedAt: time.Now().UTC()},
		{Question: "Which class stores tasks?", Answer: "TaskStore.", Intent: types.IntentClass, AskedAt: time.Now().UTC()},
	}
	s.Require().NoError(s.store.AppendTurns(s.ctx, s.analysis.RootPath, turns[:1]))
	s.Require().NoError(s.store.AppendTurns(s.ctx, s.analysis.RootPath, turns[1:]))

	s.reopen()

	got, err := s.store.ListTurns(s.ctx, s.analysis.RootPath, 10)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("What is this?", got[0].Question)
	s.Equal("Which class stores tasks?", got[1].Question)
	s.Equal(types.IntentClass, got[1].Intent)
}

func (s *SnapshotTestSuite) TestSaveClearsConversationTrail() {
	err := s.store.SaveSnapshot(s.ctx, &storage.Snapshot{Analysis: s.analysis})
	s.Require().NoError(err)

	turn := types.ConversationTurn{Question: "Old?", Answer: "Yes.", Intent: types.IntentGeneral, AskedAt: time.Now().UTC()}
	s.Require().NoError(s.store.AppendTurns(s.ctx, s.analysis.RootPath, []types.ConversationTurn{turn}))

	// Re-analyzing the same root replaces the snapshot; the stale trail
	// must not outlive the analysis it discussed.
	err = s.store.SaveSnapshot(s.ctx, &storage.Snapshot{Analysis: s.analysis})
	s.Require().NoError(err)

	got, err := s.store.ListTurns(s.ctx, s.analysis.RootPath, 10)
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *SnapshotTestSuite) TestListAndDeleteRepositories() {
	err := s.store.SaveSnapshot(s.ctx, &storage.Snapshot{Analysis: s.analysis})
	s.Require().NoError(err)

	repos, err := s.store.ListRepositories(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(repos, 1)
	s.Equal(s.analysis.RootPath, repos[0].RootPath)

	s.Require().NoError(s.store.DeleteRepository(s.ctx, s.analysis.RootPath))

	_, err = s.store.LoadSnapshot(s.ctx, s.analysis.RootPath)
	s.ErrorIs(err, storage.ErrNotFound)
	_, err = s.store.GetRepository(s.ctx, s.analysis.RootPath)
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *SnapshotTestSuite) TestLoadUnknownRepository() {
	_, err := s.store.LoadSnapshot(s.ctx, "/no/such/root")
	s.ErrorIs(err, storage.ErrNotFound)
}

func TestSnapshotSuite(t *testing.T) {
	suite.Run(t, new(SnapshotTestSuite))
}
