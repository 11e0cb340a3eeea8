package types

import "errors"

// Language identifies the detected source language of a file
type Language string

const (
	LangPython       Language = "python"
	LangJavaScript   Language = "javascript"
	LangTypeScript   Language = "typescript"
	LangJava         Language = "java"
	LangCPP          Language = "cpp"
	LangC            Language = "c"
	LangCSharp       Language = "csharp"
	LangPHP          Language = "php"
	LangRuby         Language = "ruby"
	LangGo           Language = "go"
	LangRust         Language = "rust"
	LangSwift        Language = "swift"
	LangKotlin       Language = "kotlin"
	LangScala        Language = "scala"
	LangR            Language = "r"
	LangSQL          Language = "sql"
	LangBash         Language = "bash"
	LangYAML         Language = "yaml"
	LangJSON         Language = "json"
	LangXML          Language = "xml"
	LangHTML         Language = "html"
	LangCSS          Language = "css"
	LangMarkdown     Language = "markdown"
	LangText         Language = "text"
	LangRST          Language = "restructuredtext"
	LangUnclassified Language = "unclassified"
)

// IsProse returns true for prose/markup languages whose full content is
// always retained and rendered verbatim in question context.
func (l Language) IsProse() bool {
	return l == LangMarkdown || l == LangText || l == LangRST
}

// Extraction-kind tags attached by non-syntax-tree strategies. Syntax-tree
// strategies leave Kind empty. Header records use KindHeaderPrefix followed
// by the heading depth, e.g. "header_h2".
const (
	KindGenericFunction = "generic_function"
	KindHeaderPrefix    = "header_h"
)

// FunctionRecord represents one extracted function or method declaration
type FunctionRecord struct {
	Name       string   `json:"name"`
	Line       int      `json:"line"`
	Args       []string `json:"args,omitempty"`
	Docstring  string   `json:"docstring,omitempty"`
	Decorators []string `json:"decorators,omitempty"`
	Kind       string   `json:"kind,omitempty"`
}

// Validate checks the function record for structural integrity
func (f *FunctionRecord) Validate() error {
	if f.Name == "" {
		return errors.New("function name is required")
	}
	if f.Line < 1 {
		return errors.New("function line must be 1-based")
	}
	return nil
}

// ClassRecord represents one extracted class or type declaration
type ClassRecord struct {
	Name      string   `json:"name"`
	Line      int      `json:"line"`
	Bases     []string `json:"bases,omitempty"`
	Docstring string   `json:"docstring,omitempty"`
	Methods   []string `json:"methods,omitempty"`
}

// Validate checks the class record for structural integrity
func (c *ClassRecord) Validate() error {
	if c.Name == "" {
		return errors.New("class name is required")
	}
	if c.Line < 1 {
		return errors.New("class line must be 1-based")
	}
	return nil
}

// VariableRecord represents an extracted variable assignment
type VariableRecord struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

// FileRecord is the structural record for a single analyzed file
type FileRecord struct {
	// Identity
	Path    string `json:"path"`     // relative to the repository root, unique per snapshot
	AbsPath string `json:"abs_path"` // absolute path on disk

	// Attributes
	Language Language `json:"language"`
	Size     int64    `json:"size"`
	Lines    int      `json:"lines"`
	Hash     string   `json:"hash,omitempty"` // sha256 hex of raw content

	// Content retention (see the File Analyzer retention policy)
	Preview string `json:"preview,omitempty"` // first 500 chars, "..." suffix when truncated
	Content string `json:"content,omitempty"` // full content, only when retained

	// Structural facts
	Functions  []FunctionRecord `json:"functions,omitempty"`
	Classes    []ClassRecord    `json:"classes,omitempty"`
	Imports    []string         `json:"imports,omitempty"`
	Variables  []VariableRecord `json:"variables,omitempty"`
	Comments   []string         `json:"comments,omitempty"`
	CodeBlocks int              `json:"code_blocks,omitempty"` // fenced blocks, markdown only
}

// HasFullContent returns true when the retention policy kept the whole file
func (f *FileRecord) HasFullContent() bool {
	return f.Content != ""
}

// Validate performs comprehensive validation of the file record
func (f *FileRecord) Validate() error {
	if f.Path == "" {
		return errors.New("file path is required")
	}
	if f.Language == "" {
		return errors.New("file language is required")
	}
	if f.Size < 0 {
		return errors.New("file size must be non-negative")
	}
	if f.Lines < 0 {
		return errors.New("file line count must be non-negative")
	}
	for i := range f.Functions {
		if err := f.Functions[i].Validate(); err != nil {
			return err
		}
	}
	for i := range f.Classes {
		if err := f.Classes[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
