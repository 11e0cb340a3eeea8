package parser

import (
	"regexp"
	"strings"

	"github.com/dshills/repolens/pkg/types"
)

// Language-agnostic comment shapes: hash, line, block, and HTML
// comments. Line comments stop at the newline; block comments span it.
var genericCommentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`#[^\n]*`),
	regexp.MustCompile(`//[^\n]*`),
	regexp.MustCompile(`(?s)/\*.*?\*/`),
	regexp.MustCompile(`(?s)<!--.*?-->`),
}

// Permissive pseudo-function heuristic: an identifier followed by an
// argument list and an opening brace or colon.
var genericFunctionPattern = regexp.MustCompile(`(\w+)\s*\([^)]*\)\s*[{:]`)

// genericStrategy is the always-succeeding fallback for unclassified
// languages and for specific strategies that failed. Its output is
// best-effort: comment-like substrings plus pseudo-function names.
type genericStrategy struct{}

func newGenericStrategy() *genericStrategy {
	return &genericStrategy{}
}

func (s *genericStrategy) Name() string { return "generic" }

func (s *genericStrategy) Extract(content string) (*Extraction, error) {
	ext := &Extraction{}

	for _, pattern := range genericCommentPatterns {
		ext.Comments = append(ext.Comments, pattern.FindAllString(content, -1)...)
	}

	for _, loc := range genericFunctionPattern.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[2]:loc[3]]
		ext.Functions = append(ext.Functions, types.FunctionRecord{
			Name: name,
			Line: lineAt(content, loc[0]),
			Kind: types.KindGenericFunction,
		})
	}

	return ext, nil
}

// lineAt computes the 1-based line of a byte offset by counting the
// newlines that precede it.
func lineAt(content string, offset int) int {
	return 1 + strings.Count(content[:offset], "\n")
}
