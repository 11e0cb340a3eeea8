package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dshills/repolens/internal/analyzer"
	"github.com/dshills/repolens/internal/logging"
	"github.com/dshills/repolens/internal/qa"
	"github.com/dshills/repolens/pkg/types"
)

// QATestSuite runs real questions through analysis, context extraction,
// prompt rendering, and the (stubbed) generator.
type QATestSuite struct {
	suite.Suite
	ctx      context.Context
	analysis *types.RepositoryAnalysis
	stub     *stubGenerator
	engine   *qa.Engine
}

func (s *QATestSuite) SetupSuite() {
	s.ctx = context.Background()

	wd, err := os.Getwd()
	s.Require().NoError(err)
	fixturesDir := filepath.Join(filepath.Dir(wd), "testdata", "fixtures")

	s.analysis, err = analyzer.New(analyzer.Options{}).Analyze(s.ctx, fixturesDir, nil)
	s.Require().NoError(err)
}

// SetupTest gives every test a fresh engine and generator so cache and
// history state never leak between tests.
func (s *QATestSuite) SetupTest() {
	s.stub = newStubGenerator("The repository tracks tasks from the command line.")
	s.engine = qa.New(qa.Options{Generator: s.stub, Logger: logging.Discard()})
	s.engine.LoadSnapshot(s.analysis, nil)
}

func (s *QATestSuite) TestGeneralQuestion() {
	answer, qctx := s.engine.Answer(s.ctx, "What does this repository do?")

	s.Equal("The repository tracks tasks from the command line.", answer)
	s.Require().NotNil(qctx)
	s.Equal(types.IntentGeneral, qctx.Intent)
	s.Equal(1, s.stub.calls())
}

func (s *QATestSuite) TestFunctionQuestionPullsDefinition() {
	answer, qctx := s.engine.Answer(s.ctx, "What does the render_table function do?")

	s.NotEmpty(answer)
	s.Equal(types.IntentFunction, qctx.Intent)

	var found bool
	for _, ref := range qctx.Functions {
		if ref.Function.Name == "render_table" {
			found = true
			s.Equal("src/render.py", ref.File)
		}
	}
	s.True(found, "mentioned function should be in context")

	req, ok := s.stub.lastRequest()
	s.Require().True(ok)
	s.Contains(req.User, "render_table")
	s.Contains(req.User, "Render tasks as an aligned text table.")
}

func (s *QATestSuite) TestReadmeQuestionPullsReadme() {
	_, qctx := s.engine.Answer(s.ctx, "Tell me about the readme")

	s.Equal(types.IntentReadme, qctx.Intent)

	paths := make([]string, 0, len(qctx.Files))
	for _, f := range qctx.Files {
		paths = append(paths, f.Path)
	}
	s.Contains(paths, "README.md")

	req, ok := s.stub.lastRequest()
	s.Require().True(ok)
	s.Contains(req.User, "# TaskHub", "readme content should reach the prompt")
}

func (s *QATestSuite) TestDocumentationQuestionPullsDocs() {
	_, qctx := s.engine.Answer(s.ctx, "Where is the documentation?")

	s.Equal(types.IntentDocumentation, qctx.Intent)

	paths := make([]string, 0, len(qctx.Files))
	for _, f := range qctx.Files {
		paths = append(paths, f.Path)
	}
	s.Contains(paths, "README.md")
	s.Contains(paths, "docs/guide.md")
}

func (s *QATestSuite) TestRepeatedQuestionHitsCache() {
	first, _ := s.engine.Answer(s.ctx, "What does this repository do?")
	second, _ := s.engine.Answer(s.ctx, "What does this repository do?")

	s.Equal(first, second)
	s.Equal(1, s.stub.calls(), "second ask should be served from cache")
	s.Len(s.engine.History(), 2, "cache hits still extend the conversation")
}

func (s *QATestSuite) TestHistoryRetentionLimit() {
	engine := qa.New(qa.Options{Generator: s.stub, HistoryLimit: 3, Logger: logging.Discard()})
	engine.LoadSnapshot(s.analysis, nil)

	for i := 0; i < 5; i++ {
		engine.Answer(s.ctx, fmt.Sprintf("Question number %d about nothing in particular?", i))
	}

	history := engine.History()
	s.Require().Len(history, 3)
	s.Equal("Question number 2 about nothing in particular?", history[0].Question)
	s.Equal("Question number 4 about nothing in particular?", history[2].Question)
}

func (s *QATestSuite) TestNoGeneratorFallsBack() {
	engine := qa.New(qa.Options{Logger: logging.Discard()})
	engine.LoadSnapshot(s.analysis, nil)

	answer, qctx := engine.Answer(s.ctx, "What is the TaskStore class used for?")

	s.Contains(answer, "unable to answer")
	s.Equal(types.IntentClass, qctx.Intent)
	s.Len(engine.History(), 1, "failed exchanges still land in history")
}

func (s *QATestSuite) TestSuggestionsReflectRepository() {
	suggestions := s.engine.Suggest()

	s.Require().NotEmpty(suggestions)
	s.LessOrEqual(len(suggestions), 10)
	s.Contains(suggestions, "What is the main purpose of this repository?")
	s.Contains(suggestions, "What is the task class used for?")

	var mentionsFunction bool
	for _, sug := range suggestions {
		if strings.HasSuffix(sug, "function do?") {
			mentionsFunction = true
		}
	}
	s.True(mentionsFunction, "suggestions should name indexed entities")
}

func TestQASuite(t *testing.T) {
	suite.Run(t, new(QATestSuite))
}
