package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dshills/repolens/pkg/types"
)

// Section caps for the rendered report.
const (
	maxReportComponents = 5
	maxReportSummaries  = 20
)

// Markdown renders the summary as a standalone analysis report. Missing
// parts render as "No ... available" placeholders, never as gaps.
func Markdown(summary *types.RepositorySummary) []byte {
	if summary == nil {
		summary = &types.RepositorySummary{}
	}

	var b strings.Builder
	b.WriteString("# Repository Analysis Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s  \n", generatedStamp(summary.GeneratedAt))
	fmt.Fprintf(&b, "**Total Files:** %d  \n", summary.TotalFiles)
	fmt.Fprintf(&b, "**Analyzed Files:** %d  \n\n", summary.AnalyzedFiles)

	fmt.Fprintf(&b, "## Overview\n\n%s\n\n", textOr(summary.Overview, "No overview available"))
	fmt.Fprintf(&b, "## Project Structure Analysis\n\n%s\n\n",
		textOr(summary.StructureAnalysis, "No structure analysis available"))

	b.WriteString("## Language Breakdown\n\n")
	for _, name := range sortedLanguages(summary.Languages) {
		stat := summary.Languages[name]
		fmt.Fprintf(&b, "- **%s**: %d files, %d lines\n", capitalize(name), stat.Files, stat.Lines)
	}

	b.WriteString("\n## Key Components\n\n")
	components := summary.Components
	if len(components) > maxReportComponents {
		components = components[:maxReportComponents]
	}
	for _, comp := range components {
		fmt.Fprintf(&b, "### %s\n", comp.Name)
		fmt.Fprintf(&b, "- Files: %d\n", comp.Files)
		fmt.Fprintf(&b, "- Lines of code: %d\n", comp.Lines)
		fmt.Fprintf(&b, "- Functions: %d\n", comp.Functions)
		fmt.Fprintf(&b, "- Classes: %d\n", comp.Classes)
		fmt.Fprintf(&b, "- Languages: %s\n\n", strings.Join(comp.Languages, ", "))
	}

	b.WriteString("## File Summaries\n\n")
	summaries := summary.FileSummaries
	if len(summaries) > maxReportSummaries {
		summaries = summaries[:maxReportSummaries]
	}
	for _, fs := range summaries {
		fmt.Fprintf(&b, "### `%s`\n", fs.Path)
		fmt.Fprintf(&b, "**Language:** %s | **Lines:** %d\n\n", fs.Language, fs.Lines)
		fmt.Fprintf(&b, "%s\n\n", textOr(fs.Summary, "No summary available"))
	}

	fmt.Fprintf(&b, "## Recommendations\n\n%s\n",
		textOr(summary.Recommendations, "No recommendations available"))

	return []byte(b.String())
}

// JSON renders the summary as indented JSON with the struct tag field
// order, suitable for machine consumption.
func JSON(summary *types.RepositorySummary) ([]byte, error) {
	if summary == nil {
		summary = &types.RepositorySummary{}
	}
	return json.MarshalIndent(summary, "", "  ")
}

func generatedStamp(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format(time.RFC3339)
}

func textOr(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func sortedLanguages(stats map[string]*types.LanguageStat) []string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
