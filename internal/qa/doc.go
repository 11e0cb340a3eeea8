// Package qa answers natural-language questions about an analyzed repository.
//
// The engine classifies each question's intent, gathers matching files,
// functions, classes, and components from the search index, renders them
// into a bounded context document, and asks the configured text generator
// for an answer grounded in that document.
//
// # Basic Usage
//
//	engine := qa.New(qa.Options{Generator: gen})
//	engine.LoadSnapshot(analysis, summary)
//
//	answer, qctx := engine.Answer(ctx, "What does the parse_file function do?")
//	fmt.Println(answer)
//	fmt.Printf("Intent: %s, matched %d functions\n", qctx.Intent, len(qctx.Functions))
//
// # Question Intents
//
// Intent is decided by keyword groups, first match wins:
//   - function: "function", "method", "def ", "function named"
//   - class: "class", "object", "inheritance"
//   - file: "file", "module", "script"
//   - structure: "structure", "architecture", "organization", "folder", "directory"
//   - technology: "language", "technology", "framework"
//   - general: everything else
//
// Two overrides run after classification: a question mentioning a README
// becomes intent readme, and documentation keywords switch to intent
// documentation and pull doc-like paths into the context.
//
// # Context Gathering
//
// Matching is case-insensitive substring search over the question:
//   - files whose path segments appear in the question
//   - functions, classes, and components whose names appear (names of
//     three characters or fewer are skipped as too ambiguous)
//
// When nothing matches, the engine falls back by intent so the answer
// has something to stand on: the first functions, files, or classes in
// index order.
//
// # Rendered Context
//
// The context document is assembled section by section:
//   - repository overview totals
//   - complete file structure (structure and file intents list every file)
//   - language breakdown (technology and general intents)
//   - matched files with content, small and doc-like files verbatim,
//     larger ones truncated at the configured cap
//   - matched functions, classes, and components
//   - key file summaries when no file matched
//   - the last three conversation turns
//
// # Degradation
//
// Answer never returns an error. A failed or empty generation yields a
// fixed fallback answer, and a panic anywhere in the pipeline is
// recovered into an apology with an empty context. Both still append a
// conversation turn, so history reflects what the user saw.
//
// # Caching
//
// Successful answers are cached by (snapshot, question) with a TTL.
// LoadSnapshot replaces the index, clears the history, and purges the
// cache in one step so answers never mix repositories.
package qa
