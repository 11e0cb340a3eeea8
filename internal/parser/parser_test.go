package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/repolens/pkg/types"
)

func writeFixture(t *testing.T, name, content string) (absPath, relPath string) {
	t.Helper()
	dir := t.TempDir()
	absPath = filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(absPath, []byte(content), 0o644))
	return absPath, name
}

func functionNames(record *types.FileRecord) []string {
	names := make([]string, 0, len(record.Functions))
	for _, fn := range record.Functions {
		names = append(names, fn.Name)
	}
	return names
}

func TestAnalyzeFile_PythonFile(t *testing.T) {
	content := `"""Service module."""
import os
from pathlib import Path

MAX_RETRIES = 3

@dataclass
class Service(BaseService):
    """Runs things."""

    def __init__(self, name):
        self.name = name

    def start(self, timeout=30):
        """Start the service."""
        return True

def run(service, *args):
    """Run a service to completion."""
    return service.start()
`
	absPath, relPath := writeFixture(t, "service.py", content)

	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(absPath, relPath)

	require.Nil(t, skip)
	require.NotNil(t, record)
	assert.Equal(t, types.LangPython, record.Language)

	// Module-level definitions come first, then methods; methods appear
	// both in the flat function list and in their class record.
	assert.Equal(t, []string{"run", "__init__", "start"}, functionNames(record))

	require.Len(t, record.Classes, 1)
	cls := record.Classes[0]
	assert.Equal(t, "Service", cls.Name)
	assert.Equal(t, []string{"BaseService"}, cls.Bases)
	assert.Equal(t, []string{"__init__", "start"}, cls.Methods)
	assert.Equal(t, "Runs things.", cls.Docstring)

	// from-imports are qualified by their module
	assert.Equal(t, []string{"os", "pathlib.Path"}, record.Imports)

	// Only identifier targets become variables; self.name does not
	require.Len(t, record.Variables, 1)
	assert.Equal(t, "MAX_RETRIES", record.Variables[0].Name)

	for _, fn := range record.Functions {
		switch fn.Name {
		case "start":
			assert.Equal(t, []string{"self", "timeout"}, fn.Args)
			assert.Equal(t, "Start the service.", fn.Docstring)
		case "run":
			assert.Equal(t, []string{"service"}, fn.Args)
		}
	}
}

func TestAnalyzeFile_PythonDecorators(t *testing.T) {
	content := `@app.route('/health')
def health():
    return 'ok'
`
	absPath, relPath := writeFixture(t, "routes.py", content)

	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(absPath, relPath)

	require.Nil(t, skip)
	require.Len(t, record.Functions, 1)
	assert.Equal(t, "health", record.Functions[0].Name)
	assert.Equal(t, []string{"app.route('/health')"}, record.Functions[0].Decorators)
	assert.Equal(t, 2, record.Functions[0].Line)
}

func TestAnalyzeFile_GoFile(t *testing.T) {
	content := `package store

import (
	"errors"
	"fmt"
)

const defaultLimit = 10

// Base provides shared behavior
type Base struct{}

// Store keeps records in memory
type Store struct {
	Base
	items map[string]string
}

// Get returns one record
func (s *Store) Get(key string) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	return s.items[key], nil
}

// Reader reads records
type Reader interface {
	Read(key string) (string, error)
}

// NewStore builds an empty store
func NewStore() *Store {
	return &Store{items: make(map[string]string)}
}

func format(v string) string {
	return fmt.Sprintf("%q", v)
}
`
	absPath, relPath := writeFixture(t, "store.go", content)

	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(absPath, relPath)

	require.Nil(t, skip)
	assert.Equal(t, types.LangGo, record.Language)

	assert.Equal(t, []string{"Get", "NewStore", "format"}, functionNames(record))

	classes := make(map[string]types.ClassRecord)
	for _, cls := range record.Classes {
		classes[cls.Name] = cls
	}
	require.Len(t, classes, 3)
	assert.Equal(t, []string{"Base"}, classes["Store"].Bases)
	assert.Equal(t, []string{"Get"}, classes["Store"].Methods)
	assert.Equal(t, []string{"Read"}, classes["Reader"].Methods)
	assert.Equal(t, "Store keeps records in memory", classes["Store"].Docstring)

	assert.Equal(t, []string{"errors", "fmt"}, record.Imports)

	require.Len(t, record.Variables, 1)
	assert.Equal(t, "defaultLimit", record.Variables[0].Name)

	for _, fn := range record.Functions {
		if fn.Name == "Get" {
			assert.Equal(t, []string{"key"}, fn.Args)
			assert.Equal(t, "Get returns one record", fn.Docstring)
		}
	}
}

func TestAnalyzeFile_JavaScriptPatterns(t *testing.T) {
	content := `import React from 'react';
import 'polyfill';
const fs = require('fs');

function greet(name) {
  return 'hi ' + name;
}

const obj = {
  run: function() {},
};

handler = function() {};

const add = (a, b) => {
  return a + b;
};

class Widget extends Base {
}
`
	absPath, relPath := writeFixture(t, "app.js", content)

	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(absPath, relPath)

	require.Nil(t, skip)
	assert.Equal(t, types.LangJavaScript, record.Language)

	// Pattern-major order: each declaration shape is scanned in turn
	assert.Equal(t, []string{"greet", "run", "handler", "add"}, functionNames(record))
	for _, fn := range record.Functions {
		assert.Empty(t, fn.Args)
	}

	require.Len(t, record.Classes, 1)
	assert.Equal(t, "Widget", record.Classes[0].Name)

	assert.Equal(t, []string{"react", "polyfill", "fs"}, record.Imports)
}

func TestAnalyzeFile_TypeScriptUsesJavaScriptPatterns(t *testing.T) {
	content := "export function parse(input: string): Token[] {\n  return [];\n}\n"
	absPath, relPath := writeFixture(t, "lexer.ts", content)

	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(absPath, relPath)

	require.Nil(t, skip)
	assert.Equal(t, types.LangTypeScript, record.Language)
	require.Len(t, record.Functions, 1)
	assert.Equal(t, "parse", record.Functions[0].Name)
	assert.Equal(t, 1, record.Functions[0].Line)
}

func TestAnalyzeFile_JavaPatterns(t *testing.T) {
	content := `import java.util.List;

public class OrderService {
    private final List<Order> orders;

    public OrderService(List<Order> orders) {
        this.orders = orders;
    }

    public Order findOrder(String id) {
        return null;
    }

    private static int count() {
        return 0;
    }
}
`
	absPath, relPath := writeFixture(t, "OrderService.java", content)

	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(absPath, relPath)

	require.Nil(t, skip)
	assert.Equal(t, types.LangJava, record.Language)

	// The heuristic cannot tell constructors from methods
	assert.Equal(t, []string{"OrderService", "findOrder", "count"}, functionNames(record))

	require.Len(t, record.Classes, 1)
	assert.Equal(t, "OrderService", record.Classes[0].Name)

	assert.Equal(t, []string{"java.util.List"}, record.Imports)
}

func TestAnalyzeFile_MarkdownHeaders(t *testing.T) {
	content := "# Title\n\nIntro text.\n\n## Install\n\n```bash\nmake install\n```\n\n### Notes\n"
	absPath, relPath := writeFixture(t, "guide.md", content)

	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(absPath, relPath)

	require.Nil(t, skip)
	assert.Equal(t, types.LangMarkdown, record.Language)

	require.Len(t, record.Functions, 3)
	assert.Equal(t, "Title", record.Functions[0].Name)
	assert.Equal(t, "header_h1", record.Functions[0].Kind)
	assert.Equal(t, 1, record.Functions[0].Line)
	assert.Equal(t, "Install", record.Functions[1].Name)
	assert.Equal(t, "header_h2", record.Functions[1].Kind)
	assert.Equal(t, 5, record.Functions[1].Line)
	assert.Equal(t, "Notes", record.Functions[2].Name)
	assert.Equal(t, "header_h3", record.Functions[2].Kind)

	assert.Equal(t, 1, record.CodeBlocks)

	// Prose languages always keep full content
	assert.Equal(t, content, record.Content)
}

func TestAnalyzeFile_PlainTextCountsFences(t *testing.T) {
	content := "notes\n```\nsnippet\n```\n# not a header here\n"
	absPath, relPath := writeFixture(t, "notes.txt", content)

	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(absPath, relPath)

	require.Nil(t, skip)
	assert.Equal(t, types.LangText, record.Language)
	assert.Equal(t, 1, record.CodeBlocks)
	assert.Empty(t, record.Functions)
	assert.Empty(t, record.Comments)
}

func TestAnalyzeFile_GenericFallbackForUnknown(t *testing.T) {
	content := "# main configuration\n// legacy comment\nsetup(arg1) {\nvalue = 10\n"
	absPath, relPath := writeFixture(t, "app.cfg", content)

	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(absPath, relPath)

	require.Nil(t, skip)
	assert.Equal(t, types.LangUnclassified, record.Language)

	require.Len(t, record.Functions, 1)
	assert.Equal(t, "setup", record.Functions[0].Name)
	assert.Equal(t, 3, record.Functions[0].Line)
	assert.Equal(t, types.KindGenericFunction, record.Functions[0].Kind)

	assert.Contains(t, record.Comments, "# main configuration")
	assert.Contains(t, record.Comments, "// legacy comment")
}

func TestAnalyzeFile_PythonSyntaxErrorFallsBack(t *testing.T) {
	content := "def broken(:\n    pass\n\n# a comment\nhelper(x):\n"
	absPath, relPath := writeFixture(t, "broken.py", content)

	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(absPath, relPath)

	require.Nil(t, skip)
	assert.Equal(t, types.LangPython, record.Language)

	// The generic strategy takes over instead of the error propagating
	foundHelper := false
	for _, fn := range record.Functions {
		if fn.Name == "helper" {
			foundHelper = true
			assert.Equal(t, types.KindGenericFunction, fn.Kind)
		}
	}
	assert.True(t, foundHelper)
	assert.Contains(t, record.Comments, "# a comment")
}

func TestAnalyzeFile_GoSyntaxErrorFallsBack(t *testing.T) {
	content := "package broken\n\nfunc oops( {\n"
	absPath, relPath := writeFixture(t, "broken.go", content)

	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(absPath, relPath)

	require.Nil(t, skip)
	for _, fn := range record.Functions {
		assert.Equal(t, types.KindGenericFunction, fn.Kind)
	}
}

func TestAnalyzeFile_LineCount(t *testing.T) {
	absPath, relPath := writeFixture(t, "lines.txt", "a\nb\nc\n")

	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(absPath, relPath)

	require.Nil(t, skip)
	assert.Equal(t, 4, record.Lines) // three newlines make four segments
}

func TestAnalyzeFile_EmptyFile(t *testing.T) {
	absPath, relPath := writeFixture(t, "empty.py", "")

	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(absPath, relPath)

	require.Nil(t, skip)
	assert.Equal(t, 1, record.Lines)
	assert.Empty(t, record.Functions)
}

func TestAnalyzeFile_TooLarge(t *testing.T) {
	absPath, relPath := writeFixture(t, "big.py", strings.Repeat("x = 1\n", 40))

	a := NewFileAnalyzer(Options{MaxFileSize: 100})
	record, skip := a.AnalyzeFile(absPath, relPath)

	assert.Nil(t, record)
	require.NotNil(t, skip)
	assert.Equal(t, types.SkipTooLarge, skip.Reason)
}

func TestAnalyzeFile_MissingFile(t *testing.T) {
	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(filepath.Join(t.TempDir(), "nope.py"), "nope.py")

	assert.Nil(t, record)
	require.NotNil(t, skip)
	assert.Equal(t, types.SkipRead, skip.Reason)
}

func TestAnalyzeFile_BinaryContentSkipped(t *testing.T) {
	dir := t.TempDir()
	absPath := filepath.Join(dir, "x.blob")
	require.NoError(t, os.WriteFile(absPath, []byte{0xFF, 0x00, 0x10, 0xFE}, 0o644))

	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(absPath, "x.blob")

	assert.Nil(t, record)
	require.NotNil(t, skip)
	assert.Equal(t, types.SkipDecode, skip.Reason)
}

func TestAnalyzeFile_Latin1Fallback(t *testing.T) {
	dir := t.TempDir()
	absPath := filepath.Join(dir, "accents.txt")
	// "café" in Latin-1: 0xE9 is invalid UTF-8
	require.NoError(t, os.WriteFile(absPath, []byte{0x63, 0x61, 0x66, 0xE9}, 0o644))

	a := NewFileAnalyzer(Options{})
	record, skip := a.AnalyzeFile(absPath, "accents.txt")

	require.Nil(t, skip)
	assert.Equal(t, "café", record.Content)
	assert.Equal(t, 1, record.Lines)
}

func TestAnalyzeFile_RetentionPolicy(t *testing.T) {
	// Documentation-named files keep full content regardless of size
	longDoc := strings.Repeat("documentation line\n", 40)
	absPath, relPath := writeFixture(t, "README.rst", longDoc)

	a := NewFileAnalyzer(Options{RetainUnder: 10})
	record, skip := a.AnalyzeFile(absPath, relPath)
	require.Nil(t, skip)
	assert.Equal(t, longDoc, record.Content)

	// Large code files keep only the preview
	bigCode := strings.Repeat("x = 1\n", 200)
	absPath, relPath = writeFixture(t, "module.py", bigCode)
	record, skip = a.AnalyzeFile(absPath, relPath)
	require.Nil(t, skip)
	assert.Empty(t, record.Content)
	assert.True(t, strings.HasSuffix(record.Preview, "..."))
	assert.Equal(t, PreviewLength+3, len(record.Preview))

	// Small code files keep everything
	small := "x = 1\n"
	absPath, relPath = writeFixture(t, "tiny.py", small)
	record, skip = a.AnalyzeFile(absPath, relPath)
	require.Nil(t, skip)
	assert.Equal(t, small, record.Content)
	assert.Equal(t, small, record.Preview)
}

func TestPreviewOf(t *testing.T) {
	assert.Equal(t, "abc", previewOf("abc"))

	exact := strings.Repeat("a", PreviewLength)
	assert.Equal(t, exact, previewOf(exact))

	long := strings.Repeat("a", PreviewLength+1)
	assert.Equal(t, exact+"...", previewOf(long))

	// Truncation counts characters, not bytes
	wide := strings.Repeat("é", PreviewLength+1)
	assert.Equal(t, strings.Repeat("é", PreviewLength)+"...", previewOf(wide))
}

func TestRetainsContent(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		language types.Language
		length   int
		want     bool
	}{
		{"readme substring", "docs/ReadMe.first.dat", types.LangUnclassified, 100000, true},
		{"license", "LICENSE", types.LangUnclassified, 100000, true},
		{"changelog", "CHANGELOG.old", types.LangUnclassified, 100000, true},
		{"contributing", "contributing.md", types.LangMarkdown, 100000, true},
		{"prose language", "notes/todo.rst", types.LangRST, 100000, true},
		{"small code", "a.py", types.LangPython, 4999, true},
		{"large code", "a.py", types.LangPython, 5000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := retainsContent(tt.path, tt.language, tt.length, DefaultRetainUnder)
			assert.Equal(t, tt.want, got)
		})
	}
}
