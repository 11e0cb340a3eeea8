// Package analyzer walks a repository tree and aggregates per-file
// records into a RepositoryAnalysis.
//
// The walk is single-threaded and deterministic: directories are
// visited in lexical order, ignorable directories are pruned before
// descent, and every surviving file is analyzed in isolation. A file
// that cannot be analyzed is logged and dropped; it still counts toward
// TotalFiles and still appears in the structure tree, because both are
// defined over classifier survivors, not analysis successes.
//
//	a := analyzer.New(analyzer.Options{})
//	analysis, err := a.Analyze(ctx, "/path/to/repo", func(msg string) {
//	    fmt.Println(msg)
//	})
//
// Only a walk that cannot proceed at all (missing root, unreadable
// root) returns an error, and even then the returned analysis is the
// usable empty sentinel rather than nil.
package analyzer
