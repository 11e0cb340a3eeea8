package qa

import (
	"strings"

	"github.com/dshills/repolens/pkg/types"
)

// Keyword groups tested in priority order; first hit wins.
var (
	functionKeywords  = []string{"function", "method", "def ", "function named"}
	classKeywords     = []string{"class", "object", "inheritance"}
	fileKeywords      = []string{"file", "module", "script"}
	structureKeywords = []string{"structure", "architecture", "organization", "folder", "directory"}
	techKeywords      = []string{"language", "technology", "framework"}

	docIntentKeywords = []string{"documentation", "docs", "doc"}
	docPathIndicators = []string{"readme", "doc", "guide", "manual"}
)

// Names this short (run, app, get) are too ambiguous to treat as a
// mention inside free-form question text.
const minMentionLen = 3

// classifyIntent runs the fixed-priority keyword chain over a lowercased
// question. The readme and documentation overrides live in
// extractContext because they pull files as a side effect.
func classifyIntent(q string) types.Intent {
	switch {
	case containsAny(q, functionKeywords):
		return types.IntentFunction
	case containsAny(q, classKeywords):
		return types.IntentClass
	case containsAny(q, fileKeywords):
		return types.IntentFile
	case containsAny(q, structureKeywords):
		return types.IntentStructure
	case containsAny(q, techKeywords):
		return types.IntentTechnology
	default:
		return types.IntentGeneral
	}
}

// extractContext gathers every indexed entity the question mentions.
// Scans run in index insertion order and collect all matches; there is
// no ranking and no early exit.
func (e *Engine) extractContext(question string) *types.QuestionContext {
	q := strings.ToLower(question)
	qctx := types.NewQuestionContext()
	qctx.Intent = classifyIntent(q)

	// Path-segment mentions
	for _, rec := range e.idx.Files() {
		for _, part := range strings.Split(strings.ToLower(rec.Path), "/") {
			if len(part) > minMentionLen && strings.Contains(q, part) {
				qctx.Files = appendFileOnce(qctx.Files, rec)
				break
			}
		}
	}

	// README questions force the intent and pull every README file
	if strings.Contains(q, "readme") {
		qctx.Intent = types.IntentReadme
		for _, rec := range e.idx.Files() {
			if strings.Contains(strings.ToLower(rec.Path), "readme") {
				qctx.Files = appendFileOnce(qctx.Files, rec)
			}
		}
	}

	// Documentation questions pull anything doc-shaped
	if containsAny(q, docIntentKeywords) {
		qctx.Intent = types.IntentDocumentation
		for _, rec := range e.idx.Files() {
			if containsAny(strings.ToLower(rec.Path), docPathIndicators) {
				qctx.Files = appendFileOnce(qctx.Files, rec)
			}
		}
	}

	// Function mentions
	for _, name := range e.idx.FunctionNames() {
		if len(name) > minMentionLen && strings.Contains(q, name) {
			qctx.Functions = append(qctx.Functions, e.idx.Functions(name)...)
		}
	}

	// Class mentions
	for _, name := range e.idx.ClassNames() {
		if len(name) > minMentionLen && strings.Contains(q, name) {
			qctx.Classes = append(qctx.Classes, e.idx.Classes(name)...)
		}
	}

	// Component mentions
	for _, comp := range e.idx.Components() {
		name := strings.ToLower(comp.Name)
		if len(name) > minMentionLen && strings.Contains(q, name) {
			qctx.Components = append(qctx.Components, comp)
		}
	}

	if qctx.IsEmpty() {
		e.fillFallbackContext(qctx)
	}
	return qctx
}

// fillFallbackContext hands intent-appropriate defaults to questions
// that name nothing the index knows, so no question receives an empty
// context.
func (e *Engine) fillFallbackContext(qctx *types.QuestionContext) {
	switch qctx.Intent {
	case types.IntentFunction:
		names := e.idx.FunctionNames()
		if len(names) > 10 {
			names = names[:10]
		}
		for _, name := range names {
			qctx.Functions = append(qctx.Functions, e.idx.Functions(name)...)
		}
		if len(qctx.Functions) > 20 {
			qctx.Functions = qctx.Functions[:20]
		}
	case types.IntentFile:
		files := e.idx.Files()
		if len(files) > 15 {
			files = files[:15]
		}
		qctx.Files = files
	case types.IntentClass:
		names := e.idx.ClassNames()
		if len(names) > 10 {
			names = names[:10]
		}
		for _, name := range names {
			qctx.Classes = append(qctx.Classes, e.idx.Classes(name)...)
		}
		if len(qctx.Classes) > 15 {
			qctx.Classes = qctx.Classes[:15]
		}
	}
}

func appendFileOnce(files []*types.FileRecord, rec *types.FileRecord) []*types.FileRecord {
	for _, f := range files {
		if f.Path == rec.Path {
			return files
		}
	}
	return append(files, rec)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
