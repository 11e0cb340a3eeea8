// Package rank scores analyzed files by importance and derives
// directory-level components from an analysis snapshot.
//
// The score is a fixed additive heuristic over the file path, language,
// and extraction counts. Entry points (main, index, app, server, api,
// __init__) weigh the most, documentation and configuration follow,
// and dependency manifests get a flat bonus. Very long files are
// penalized so a 3000-line generated file does not outrank a focused
// entry point.
//
// Both Rank and Components are pure functions over their inputs. They
// never read the filesystem and never fail; an empty slice in yields an
// empty slice out.
package rank
