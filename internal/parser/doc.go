// Package parser turns one file's content into a structural record:
// functions, classes, imports, variables, comments, and code blocks.
//
// A FileAnalyzer reads the file, applies the size and encoding gates,
// decides how much content to keep, and hands the decoded text to the
// extraction strategy registered for the file's language.
//
// # Basic Usage
//
//	a := parser.NewFileAnalyzer(parser.Options{})
//	record, skip := a.AnalyzeFile("/repo/src/service.py", "src/service.py")
//	if skip != nil {
//	    log.Printf("skipped: %s", skip)
//	    return
//	}
//
//	for _, fn := range record.Functions {
//	    fmt.Printf("%s:%d %s\n", record.Path, fn.Line, fn.Name)
//	}
//
// # Strategies
//
// Extraction quality is tiered by language support:
//   - Go and Python get a full syntax-tree walk (go/ast, tree-sitter)
//   - JavaScript, TypeScript, and Java get regex pattern extraction
//   - Markdown and plain prose get heading and code fence extraction
//   - Everything else gets the generic comment/pseudo-function scan
//
// The pattern tier is approximate. It misreads nested braces, string
// literals containing keywords, and constructors, and it never recovers
// argument names. Consumers treat its output as metadata, not ground
// truth.
//
// # Failure Behavior
//
// AnalyzeFile never returns an error. Files that cannot contribute (too
// large, unreadable, undecodable) come back as a typed SkipResult, and a
// strategy failure of any kind, including a panic, silently degrades to
// the generic strategy:
//
//	record, skip := a.AnalyzeFile(abs, "broken.py")
//	// skip is nil; record.Functions holds generic pseudo-functions
//
// The caller's walk loop stays oblivious to per-file trouble either way.
package parser
