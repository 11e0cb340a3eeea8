package parser

import (
	"regexp"
	"strings"

	"github.com/dshills/repolens/pkg/types"
)

// Pattern-strategy regexes. This layer is frankly lossy: it will misparse
// nested braces, string literals containing keywords, and arrow-function
// parameter lists. The Q&A layer treats its output as approximate metadata,
// never ground truth.

var jsFunctionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`function\s+(\w+)\s*\(`),
	regexp.MustCompile(`(\w+)\s*:\s*function\s*\(`),
	regexp.MustCompile(`(\w+)\s*=>\s*\{`),
	regexp.MustCompile(`(\w+)\s*=\s*function\s*\(`),
	regexp.MustCompile(`(\w+)\s*=\s*\([^)]*\)\s*=>`),
}

var jsClassPatterns = []*regexp.Regexp{
	regexp.MustCompile(`class\s+(\w+)`),
}

var jsImportPatterns = []*regexp.Regexp{
	regexp.MustCompile(`import\s+.*?\s+from\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`import\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`require\(['"]([^'"]+)['"]\)`),
}

var javaFunctionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:public\s+|private\s+|protected\s+)?(?:static\s+)?(?:\w+\s+)+(\w+)\s*\([^)]*\)\s*\{`),
}

var javaClassPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:public\s+)?(?:abstract\s+)?class\s+(\w+)`),
}

var javaImportPatterns = []*regexp.Regexp{
	regexp.MustCompile(`import\s+([^;]+);`),
}

// patternStrategy extracts declarations by regex for languages without a
// syntax-tree parser. Argument lists are not recovered; line numbers come
// from counting newlines before each match offset.
type patternStrategy struct {
	name             string
	functionPatterns []*regexp.Regexp
	classPatterns    []*regexp.Regexp
	importPatterns   []*regexp.Regexp
}

func newPatternStrategy(name string, functions, classes, imports []*regexp.Regexp) *patternStrategy {
	return &patternStrategy{
		name:             name,
		functionPatterns: functions,
		classPatterns:    classes,
		importPatterns:   imports,
	}
}

func (s *patternStrategy) Name() string { return s.name }

func (s *patternStrategy) Extract(content string) (*Extraction, error) {
	ext := &Extraction{}

	for _, pattern := range s.functionPatterns {
		for _, loc := range pattern.FindAllStringSubmatchIndex(content, -1) {
			ext.Functions = append(ext.Functions, types.FunctionRecord{
				Name: content[loc[2]:loc[3]],
				Line: lineAt(content, loc[0]),
			})
		}
	}

	for _, pattern := range s.classPatterns {
		for _, loc := range pattern.FindAllStringSubmatchIndex(content, -1) {
			ext.Classes = append(ext.Classes, types.ClassRecord{
				Name: content[loc[2]:loc[3]],
				Line: lineAt(content, loc[0]),
			})
		}
	}

	for _, pattern := range s.importPatterns {
		for _, m := range pattern.FindAllStringSubmatch(content, -1) {
			ext.Imports = append(ext.Imports, strings.TrimSpace(m[1]))
		}
	}

	return ext, nil
}
