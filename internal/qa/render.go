package qa

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/repolens/pkg/types"
)

// Rendering caps. Each section keeps at most this many entries, in
// extraction order; the rest are dropped silently.
const (
	maxRenderedFiles      = 10
	maxRenderedFunctions  = 10
	maxRenderedClasses    = 10
	maxRenderedComponents = 5
	maxRenderedSummaries  = 5
	maxRenderedMethods    = 5
	historyTurnsRendered  = 3

	docstringRenderLimit = 200
	summaryRenderLimit   = 300
	questionRenderLimit  = 100
	answerRenderLimit    = 200

	// Files shorter than this are always quoted verbatim when matched
	verbatimLineLimit = 100
)

// docNameMarkers flag the canonical repository documents whose content
// is always quoted when matched.
var docNameMarkers = []string{"readme", "license", "changelog", "contributing"}

// renderContext assembles the bounded context string for one question.
// Sections render in fixed order and are omitted when their data is
// empty; which sections appear depends on the classified intent.
func (e *Engine) renderContext(qctx *types.QuestionContext, question string) string {
	var parts []string

	if e.summary != nil && e.summary.Overview != "" {
		parts = append(parts, fmt.Sprintf("Repository Overview:\n%s\n", e.summary.Overview))
	}

	if qctx.Intent == types.IntentStructure || qctx.Intent == types.IntentFile {
		parts = e.renderFileStructure(parts)
	}

	if qctx.Intent == types.IntentStructure || qctx.Intent == types.IntentGeneral {
		if e.summary != nil && e.summary.StructureAnalysis != "" {
			parts = append(parts, fmt.Sprintf("Project Structure Analysis:\n%s\n", e.summary.StructureAnalysis))
		}
	}

	if qctx.Intent == types.IntentTechnology || qctx.Intent == types.IntentGeneral {
		if e.snapshot != nil && len(e.snapshot.Languages) > 0 {
			if breakdown, err := json.MarshalIndent(e.snapshot.Languages, "", "  "); err == nil {
				parts = append(parts, fmt.Sprintf("Language Breakdown:\n%s\n", breakdown))
			}
		}
	}

	parts = e.renderFiles(parts, qctx, question)
	parts = renderFunctions(parts, qctx)
	parts = renderClasses(parts, qctx)
	parts = renderComponents(parts, qctx)
	parts = e.renderSummaries(parts, qctx)
	parts = e.renderHistory(parts)

	return strings.Join(parts, "\n")
}

// renderFileStructure enumerates literally every analyzed file. Answer
// generation is instructed to treat this list as ground truth for
// which files exist, so it is never sampled or truncated.
func (e *Engine) renderFileStructure(parts []string) []string {
	if e.snapshot == nil || len(e.snapshot.Files) == 0 {
		return parts
	}

	parts = append(parts, "Complete File Structure:")
	for _, rec := range e.snapshot.Files {
		parts = append(parts, fmt.Sprintf("- %s (%s, %d bytes, %d lines)", rec.Path, rec.Language, rec.Size, rec.Lines))
	}
	parts = append(parts, fmt.Sprintf("\nTotal files: %d, Analyzed files: %d", e.snapshot.TotalFiles, e.snapshot.AnalyzedFiles))
	parts = append(parts, "")
	return parts
}

func (e *Engine) renderFiles(parts []string, qctx *types.QuestionContext, question string) []string {
	if len(qctx.Files) == 0 {
		return parts
	}

	parts = append(parts, "Relevant Files:")
	files := qctx.Files
	if len(files) > maxRenderedFiles {
		files = files[:maxRenderedFiles]
	}
	questionLower := strings.ToLower(question)

	for _, rec := range files {
		parts = append(parts, fmt.Sprintf("- %s (%s, %d lines, %d functions, %d classes)",
			rec.Path, rec.Language, rec.Lines, len(rec.Functions), len(rec.Classes)))

		content := rec.Content
		if content == "" {
			content = rec.Preview
		}
		if content == "" || !includeVerbatim(rec, questionLower) {
			continue
		}

		if utf8.RuneCountInString(content) > e.contentCap {
			parts = append(parts, fmt.Sprintf("  Content (first %d chars):\n```\n%s...\n```",
				e.contentCap, truncateRunes(content, e.contentCap)))
		} else {
			parts = append(parts, fmt.Sprintf("  Full Content:\n```\n%s\n```", content))
		}
	}
	parts = append(parts, "")
	return parts
}

// includeVerbatim reports whether a matched file's text belongs in the
// context: canonical repo documents, prose formats, short files, and
// files the question names directly.
func includeVerbatim(rec *types.FileRecord, questionLower string) bool {
	pathLower := strings.ToLower(rec.Path)
	if containsAny(pathLower, docNameMarkers) {
		return true
	}
	if rec.Language.IsProse() {
		return true
	}
	if rec.Lines < verbatimLineLimit {
		return true
	}
	for _, part := range strings.Split(pathLower, "/") {
		if part != "" && strings.Contains(questionLower, part) {
			return true
		}
	}
	return false
}

func renderFunctions(parts []string, qctx *types.QuestionContext) []string {
	if len(qctx.Functions) == 0 {
		return parts
	}

	parts = append(parts, "Relevant Functions:")
	refs := qctx.Functions
	if len(refs) > maxRenderedFunctions {
		refs = refs[:maxRenderedFunctions]
	}
	for _, ref := range refs {
		fn := ref.Function
		parts = append(parts, fmt.Sprintf("- %s(%s) in %s:%d", fn.Name, strings.Join(fn.Args, ", "), ref.File, fn.Line))
		if fn.Docstring != "" {
			parts = append(parts, fmt.Sprintf("  Description: %s...", truncateRunes(fn.Docstring, docstringRenderLimit)))
		}
	}
	parts = append(parts, "")
	return parts
}

func renderClasses(parts []string, qctx *types.QuestionContext) []string {
	if len(qctx.Classes) == 0 {
		return parts
	}

	parts = append(parts, "Relevant Classes:")
	refs := qctx.Classes
	if len(refs) > maxRenderedClasses {
		refs = refs[:maxRenderedClasses]
	}
	for _, ref := range refs {
		cls := ref.Class
		parts = append(parts, fmt.Sprintf("- %s in %s:%d", cls.Name, ref.File, cls.Line))
		if len(cls.Methods) > 0 {
			methods := cls.Methods
			if len(methods) > maxRenderedMethods {
				methods = methods[:maxRenderedMethods]
			}
			parts = append(parts, fmt.Sprintf("  Methods: %s", strings.Join(methods, ", ")))
		}
		if cls.Docstring != "" {
			parts = append(parts, fmt.Sprintf("  Description: %s...", truncateRunes(cls.Docstring, docstringRenderLimit)))
		}
	}
	parts = append(parts, "")
	return parts
}

func renderComponents(parts []string, qctx *types.QuestionContext) []string {
	if len(qctx.Components) == 0 {
		return parts
	}

	parts = append(parts, "Relevant Components:")
	comps := qctx.Components
	if len(comps) > maxRenderedComponents {
		comps = comps[:maxRenderedComponents]
	}
	for _, comp := range comps {
		parts = append(parts, fmt.Sprintf("- %s: %d files, %d lines, %d functions, %d classes",
			comp.Name, comp.Files, comp.Lines, comp.Functions, comp.Classes))
	}
	parts = append(parts, "")
	return parts
}

// renderSummaries adds general file summaries only when no specific
// files matched, as broad background for broad questions.
func (e *Engine) renderSummaries(parts []string, qctx *types.QuestionContext) []string {
	if qctx.Intent != types.IntentGeneral && qctx.Intent != types.IntentFile {
		return parts
	}
	if len(qctx.Files) > 0 || e.summary == nil || len(e.summary.FileSummaries) == 0 {
		return parts
	}

	sums := e.summary.FileSummaries
	if len(sums) > maxRenderedSummaries {
		sums = sums[:maxRenderedSummaries]
	}
	parts = append(parts, "Key File Summaries:")
	for _, fs := range sums {
		parts = append(parts, fmt.Sprintf("- %s: %s...", fs.Path, truncateRunes(fs.Summary, summaryRenderLimit)))
	}
	parts = append(parts, "")
	return parts
}

func (e *Engine) renderHistory(parts []string) []string {
	if len(e.history) == 0 {
		return parts
	}

	parts = append(parts, "Recent Conversation:")
	turns := e.history
	if len(turns) > historyTurnsRendered {
		turns = turns[len(turns)-historyTurnsRendered:]
	}
	for _, turn := range turns {
		parts = append(parts, fmt.Sprintf("Q: %s...", truncateRunes(turn.Question, questionRenderLimit)))
		parts = append(parts, fmt.Sprintf("A: %s...", truncateRunes(turn.Answer, answerRenderLimit)))
	}
	parts = append(parts, "")
	return parts
}

// truncateRunes clips s to at most n characters. Counting is by rune so
// multibyte text never splits mid-character.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
