package parser

import (
	"github.com/dshills/repolens/pkg/types"
)

// Extraction holds the structural facts one strategy pulled from a file
type Extraction struct {
	Functions  []types.FunctionRecord
	Classes    []types.ClassRecord
	Imports    []string
	Variables  []types.VariableRecord
	Comments   []string
	CodeBlocks int
}

// Strategy extracts structural facts from one file's decoded content.
// Strategies other than the generic one may fail; the file analyzer then
// retries with the generic strategy instead of propagating the error.
type Strategy interface {
	Name() string
	Extract(content string) (*Extraction, error)
}

// Registry maps languages to their extraction strategy. Languages without
// a specific strategy use the generic fallback.
type Registry struct {
	strategies map[types.Language]Strategy
	fallback   Strategy
}

// NewRegistry builds the default registry: syntax-tree strategies for Go
// and Python, pattern strategies for JavaScript/TypeScript and Java, the
// header strategy for prose languages, and the generic fallback for the
// rest.
func NewRegistry() *Registry {
	js := newPatternStrategy("javascript", jsFunctionPatterns, jsClassPatterns, jsImportPatterns)
	plain := newProseStrategy("text", false)
	r := &Registry{
		strategies: map[types.Language]Strategy{
			types.LangGo:         newGoStrategy(),
			types.LangPython:     newPythonStrategy(),
			types.LangJavaScript: js,
			types.LangTypeScript: js,
			types.LangJava:       newPatternStrategy("java", javaFunctionPatterns, javaClassPatterns, javaImportPatterns),
			types.LangMarkdown:   newProseStrategy("markdown", true),
			types.LangText:       plain,
			types.LangRST:        plain,
		},
		fallback: newGenericStrategy(),
	}
	return r
}

// For returns the strategy for a language, or the generic fallback
func (r *Registry) For(lang types.Language) Strategy {
	if s, ok := r.strategies[lang]; ok {
		return s
	}
	return r.fallback
}

// Fallback returns the generic strategy
func (r *Registry) Fallback() Strategy {
	return r.fallback
}
