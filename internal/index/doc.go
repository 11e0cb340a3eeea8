// Package index builds the in-memory search index over an analysis
// snapshot: files by path, functions and classes by name (one-to-many),
// and components by name.
//
// Building is a pure, total function. Keys are lowercased once at
// insertion and every lookup folds its argument the same way, so
// queries are case-insensitive by construction. Iteration never exposes
// map order: each table keeps an insertion-order key slice and all
// ordered accessors read through it.
package index
