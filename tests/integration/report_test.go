package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dshills/repolens/internal/analyzer"
	"github.com/dshills/repolens/internal/logging"
	"github.com/dshills/repolens/internal/report"
	"github.com/dshills/repolens/internal/summarizer"
	"github.com/dshills/repolens/pkg/types"
)

// ReportTestSuite drives the summarizer over a real analysis and renders
// the result through both report formats.
type ReportTestSuite struct {
	suite.Suite
	ctx      context.Context
	analysis *types.RepositoryAnalysis
}

func (s *ReportTestSuite) SetupSuite() {
	s.ctx = context.Background()

	wd, err := os.Getwd()
	s.Require().NoError(err)
	fixturesDir := filepath.Join(filepath.Dir(wd), "testdata", "fixtures")

	s.analysis, err = analyzer.New(analyzer.Options{}).Analyze(s.ctx, fixturesDir, nil)
	s.Require().NoError(err)
}

func (s *ReportTestSuite) TestSummarizeProducesFullSummary() {
	stub := newStubGenerator("Generated prose for the report.")
	var stages []string
	sum := summarizer.New(summarizer.Options{
		Generator: stub,
		Logger:    logging.Discard(),
		Workers:   2,
		OnProgress: func(stage string) {
			stages = append(stages, stage)
		},
	})

	summary, err := sum.Summarize(s.ctx, s.analysis)
	s.Require().NoError(err)

	s.Equal(s.analysis.RootPath, summary.RootPath)
	s.Equal(10, summary.TotalFiles)
	s.Equal("Generated prose for the report.", summary.Overview)
	s.Equal("Generated prose for the report.", summary.StructureAnalysis)
	s.Equal("Generated prose for the report.", summary.Recommendations)

	s.Require().Len(summary.FileSummaries, 10, "every fixture file is worth summarizing")
	s.Equal("main.py", summary.FileSummaries[0].Path, "entry point ranks first")
	for _, fs := range summary.FileSummaries {
		s.Equal("Generated prose for the report.", fs.Summary)
	}

	s.Require().Contains(summary.Languages, "python")
	s.Equal(3, summary.Languages["python"].Files)

	names := make([]string, 0, len(summary.Components))
	for _, comp := range summary.Components {
		names = append(names, comp.Name)
	}
	s.ElementsMatch([]string{"root", "src", "web"}, names, "single-file directories are not components")

	s.NotEmpty(stages)
	s.Contains(stages, "Summary generation completed!")
}

func (s *ReportTestSuite) TestSummarizeWithoutGeneratorDegrades() {
	sum := summarizer.New(summarizer.Options{Logger: logging.Discard()})

	summary, err := sum.Summarize(s.ctx, s.analysis)
	s.Require().NoError(err)

	s.NotEmpty(summary.Overview, "placeholders stand in for generated prose")
	s.NotEmpty(summary.StructureAnalysis)
	s.NotEmpty(summary.Recommendations)
	s.Require().Len(summary.FileSummaries, 10)
	for _, fs := range summary.FileSummaries {
		s.NotEmpty(fs.Summary)
	}
}

func (s *ReportTestSuite) TestMarkdownReport() {
	stub := newStubGenerator("Generated prose for the report.")
	sum := summarizer.New(summarizer.Options{Generator: stub, Logger: logging.Discard(), Workers: 2})
	summary, err := sum.Summarize(s.ctx, s.analysis)
	s.Require().NoError(err)

	rendered := string(report.Markdown(summary))

	s.True(strings.HasPrefix(rendered, "# Repository Analysis Report"))
	s.Contains(rendered, "**Total Files:** 10")
	s.Contains(rendered, "## Overview\n\nGenerated prose for the report.")
	s.Contains(rendered, "- **Python**: 3 files,")
	s.Contains(rendered, "- **Javascript**: 2 files,")
	s.Contains(rendered, "## Key Components")
	s.Contains(rendered, "### `main.py`")
	s.Contains(rendered, "## Recommendations")
}

func (s *ReportTestSuite) TestJSONReport() {
	stub := newStubGenerator("Generated prose for the report.")
	sum := summarizer.New(summarizer.Options{Generator: stub, Logger: logging.Discard(), Workers: 2})
	summary, err := sum.Summarize(s.ctx, s.analysis)
	s.Require().NoError(err)

	raw, err := report.JSON(summary)
	s.Require().NoError(err)

	var decoded map[string]any
	s.Require().NoError(json.Unmarshal(raw, &decoded))
	s.Equal("Generated prose for the report.", decoded["overview"])
	s.Equal(float64(10), decoded["total_files"])

	summaries, ok := decoded["file_summaries"].([]any)
	s.Require().True(ok)
	s.Len(summaries, 10)
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}
