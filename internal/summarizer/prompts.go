package summarizer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/repolens/pkg/types"
)

// Generation parameters per summary part.
const (
	overviewMaxTokens   = 800
	overviewTemperature = 0.3
	overviewKeyFiles    = 10

	fileMaxTokens   = 500
	fileTemperature = 0.2

	structureMaxTokens   = 600
	structureTemperature = 0.3

	recommendMaxTokens   = 600
	recommendTemperature = 0.4

	// Rune caps on generated prompt material
	previewCap       = 3000
	structureJSONCap = 2000

	largeFileLines = 500
)

// Placeholders substituted when a part's generation fails.
const (
	overviewFallback  = "Failed to generate repository summary."
	fileFallback      = "Failed to generate summary for this file."
	structureFallback = "Unable to analyze project structure."
	recommendFallback = "Unable to generate recommendations."
)

const overviewSystemPrompt = `You are an expert software architect and code analyst. Your task is to analyze repository structure and provide comprehensive project summaries.

For each repository, provide:
1. **Project Overview**: What this project appears to be (web app, library, tool, etc.)
2. **Architecture**: How the code is organized and structured
3. **Key Technologies**: Main languages, frameworks, and tools used
4. **Main Components**: Important modules, directories, or subsystems
5. **Purpose and Functionality**: What the project does and its main features
6. **Development Patterns**: Any notable coding patterns, architectural decisions

Keep your response well-structured, informative, and under 500 words. Use markdown formatting.`

const fileSystemPrompt = `You are an expert code analyst. Your task is to analyze source code files and provide clear, concise summaries.

For each file, provide:
1. **Purpose**: What this file does in 1-2 sentences
2. **Key Components**: Main functions, classes, or important elements
3. **Dependencies**: Important imports or dependencies
4. **Notable Features**: Any interesting patterns, design choices, or important details

Keep your response well-structured and under 300 words. Use markdown formatting for clarity.`

const structureSystemPrompt = `You are a software architecture expert. Analyze the project structure and provide insights about:

1. **Project Organization**: How directories and files are organized
2. **Architecture Pattern**: What architectural pattern is being used (MVC, microservices, monolith, etc.)
3. **Technology Stack**: What technologies and frameworks are evident
4. **Code Organization**: How the codebase is structured and modularized
5. **Build and Configuration**: What build tools and configuration files are present

Provide a clear, structured analysis in markdown format, under 400 words.`

const recommendSystemPrompt = `You are a senior software architect and code quality expert. Based on the repository analysis, provide actionable recommendations for:

1. **Code Organization**: Suggestions for better structure and modularity
2. **Documentation**: Areas that need better documentation
3. **Testing**: Testing strategy recommendations
4. **Performance**: Potential performance improvements
5. **Maintainability**: Ways to improve code maintainability
6. **Best Practices**: Language-specific best practices

Provide 5-7 specific, actionable recommendations in markdown format, under 400 words.`

// Path markers counted as configuration in the two distribution reports.
var (
	structureConfigMarkers = []string{"config", "settings", ".env", "package.json", "requirements.txt"}
	recommendConfigMarkers = []string{"config", "setup", "package.json", "requirements"}
)

// sourceLanguages are the languages counted as source code in the
// file-distribution block.
var sourceLanguages = map[types.Language]bool{
	types.LangPython:     true,
	types.LangJavaScript: true,
	types.LangTypeScript: true,
	types.LangJava:       true,
	types.LangCPP:        true,
	types.LangC:          true,
	types.LangGo:         true,
	types.LangRust:       true,
}

func overviewUserPrompt(analysis *types.RepositoryAnalysis) string {
	var b strings.Builder
	b.WriteString("Please analyze this repository and provide a comprehensive project summary:\n\n")

	breakdown, _ := json.MarshalIndent(analysis.Languages, "", "  ")
	fmt.Fprintf(&b, `
Repository Analysis Summary:
- Total files: %d
- Analyzed files: %d
- Programming languages: %v
- Total lines of code: %d
- Total functions: %d
- Total classes: %d

Language breakdown:
%s

Key files analyzed:
`, analysis.TotalFiles, analysis.AnalyzedFiles, languageNames(analysis.Languages),
		analysis.Totals.Lines, analysis.Totals.Functions, analysis.Totals.Classes, breakdown)

	for _, rec := range largestFiles(analysis.Files, overviewKeyFiles) {
		fmt.Fprintf(&b, "- %s (%s, %d lines)\n", rec.Path, rec.Language, rec.Lines)
	}
	return b.String()
}

func fileUserPrompt(rec *types.FileRecord) string {
	preview := rec.Preview
	if preview == "" {
		preview = rec.Content
	}
	preview = clip(preview, previewCap)

	functionList, _ := json.MarshalIndent(functionNames(rec), "", "  ")
	classList, _ := json.MarshalIndent(classNames(rec), "", "  ")

	var b strings.Builder
	b.WriteString("Please analyze this code file and provide a comprehensive summary:\n\n")
	fmt.Fprintf(&b, "\nFile: %s\nLanguage: %s\nLines of code: %d\nFunctions: %d\nClasses: %d\n\n",
		rec.Path, rec.Language, rec.Lines, len(rec.Functions), len(rec.Classes))
	fmt.Fprintf(&b, "Content preview:\n```%s\n%s\n```\n\n", rec.Language, preview)
	fmt.Fprintf(&b, "Functions found:\n%s\n\nClasses found:\n%s\n", functionList, classList)
	return b.String()
}

func structureUserPrompt(analysis *types.RepositoryAnalysis) string {
	tree := "{}"
	if analysis.Structure != nil {
		if data, err := json.MarshalIndent(analysis.Structure, "", "  "); err == nil {
			tree = clip(string(data), structureJSONCap)
		}
	}
	languages, _ := json.MarshalIndent(analysis.Languages, "", "  ")

	var configFiles, docFiles, sourceFiles int
	for _, rec := range analysis.Files {
		if containsAny(strings.ToLower(rec.Path), structureConfigMarkers) {
			configFiles++
		}
		if rec.Language.IsProse() {
			docFiles++
		}
		if sourceLanguages[rec.Language] {
			sourceFiles++
		}
	}

	return fmt.Sprintf(`Analyze this project structure:


Directory Structure:
%s...

Languages Used:
%s

File Distribution:
- Total files: %d
- Configuration files: %d
- Documentation files: %d
- Source code files: %d
`, tree, languages, len(analysis.Files), configFiles, docFiles, sourceFiles)
}

func recommendUserPrompt(analysis *types.RepositoryAnalysis) string {
	var largeFiles, undocumented, configFiles int
	for _, rec := range analysis.Files {
		if rec.Lines > largeFileLines {
			largeFiles++
		}
		if !hasDocumentedFunction(rec) {
			undocumented++
		}
		if containsAny(strings.ToLower(rec.Path), recommendConfigMarkers) {
			configFiles++
		}
	}

	return fmt.Sprintf(`Analyze this repository and provide recommendations:


Repository Statistics:
- Total files analyzed: %d
- Total lines of code: %d
- Programming languages: %v
- Functions: %d
- Classes: %d

Large files (>500 lines): %d
Files without documentation: %d
Configuration files present: %d
`, len(analysis.Files), analysis.Totals.Lines, languageNames(analysis.Languages),
		analysis.Totals.Functions, analysis.Totals.Classes, largeFiles, undocumented, configFiles)
}

func languageNames(stats map[string]*types.LanguageStat) []string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// largestFiles returns the n longest files without mutating the input.
func largestFiles(files []*types.FileRecord, n int) []*types.FileRecord {
	sorted := append([]*types.FileRecord(nil), files...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Lines > sorted[j].Lines })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func functionNames(rec *types.FileRecord) []string {
	names := make([]string, 0, len(rec.Functions))
	for _, fn := range rec.Functions {
		names = append(names, fn.Name)
	}
	return names
}

func classNames(rec *types.FileRecord) []string {
	names := make([]string, 0, len(rec.Classes))
	for _, cls := range rec.Classes {
		names = append(names, cls.Name)
	}
	return names
}

// hasDocumentedFunction reports whether any extracted function carries
// a docstring. Files with no functions count as undocumented.
func hasDocumentedFunction(rec *types.FileRecord) bool {
	for _, fn := range rec.Functions {
		if fn.Docstring != "" {
			return true
		}
	}
	return false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// clip truncates s to at most n runes.
func clip(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
