package analyzer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/repolens/pkg/types"
)

// writeTree creates files (keyed by slash-separated relative path) under
// a fresh temporary root and returns it.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func filePaths(analysis *types.RepositoryAnalysis) []string {
	paths := make([]string, 0, len(analysis.Files))
	for _, f := range analysis.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

func TestAnalyze_ReadmeAndMain(t *testing.T) {
	readme := "# Demo\n" + strings.Repeat("text\n", 38) // 39 newlines, 40 lines
	mainPy := "def run():\n    pass\n\nclass App:\n    def start(self):\n        pass\n"
	root := writeTree(t, map[string]string{
		"README.md": readme,
		"main.py":   mainPy,
	})

	analysis, err := New(Options{}).Analyze(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, analysis.TotalFiles)
	assert.Equal(t, 2, analysis.AnalyzedFiles)

	require.Contains(t, analysis.Languages, "markdown")
	assert.Equal(t, 1, analysis.Languages["markdown"].Files)
	assert.Equal(t, 40, analysis.Languages["markdown"].Lines)

	require.Contains(t, analysis.Languages, "python")
	assert.Equal(t, 1, analysis.Languages["python"].Files)
	assert.Equal(t, 7, analysis.Languages["python"].Lines)

	// Lexical walk order
	assert.Equal(t, []string{"README.md", "main.py"}, filePaths(analysis))

	var py *types.FileRecord
	for _, f := range analysis.Files {
		if f.Path == "main.py" {
			py = f
		}
	}
	require.NotNil(t, py)
	require.Len(t, py.Functions, 2)
	assert.Equal(t, "run", py.Functions[0].Name)
	assert.Equal(t, "start", py.Functions[1].Name)
	require.Len(t, py.Classes, 1)
	assert.Equal(t, "App", py.Classes[0].Name)
	assert.Equal(t, []string{"start"}, py.Classes[0].Methods)

	assert.Equal(t, 47, analysis.Totals.Lines)
	assert.Equal(t, 2+1, analysis.Totals.Functions+analysis.Totals.Classes)
	require.NoError(t, analysis.Validate())
}

func TestAnalyze_PrunesIgnoredDirectories(t *testing.T) {
	root := writeTree(t, map[string]string{
		"node_modules/pkg/index.js": "function hidden() {}\n",
		".git/config":               "[core]\n",
		"src/app.js":                "function visible() {}\n",
		"keep.py":                   "x = 1\n",
		"image.png":                 "\x89PNG",
		"package-lock.json":         "{}\n",
	})

	analysis, err := New(Options{}).Analyze(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, analysis.TotalFiles)
	assert.Equal(t, []string{"keep.py", "src/app.js"}, filePaths(analysis))

	// Pruned subtrees never reach the structure tree either
	assert.NotContains(t, analysis.Structure.Dirs, "node_modules")
	assert.NotContains(t, analysis.Structure.Dirs, ".git")
	assert.Contains(t, analysis.Structure.Dirs, "src")
}

func TestAnalyze_OversizeFileCountedNotAnalyzed(t *testing.T) {
	root := writeTree(t, map[string]string{
		"ok.py":  "x = 1\n",
		"big.py": strings.Repeat("y = 2\n", 40),
	})

	analysis, err := New(Options{MaxFileSize: 64}).Analyze(context.Background(), root, nil)
	require.NoError(t, err)

	// The oversize file survives classification, so it counts toward the
	// total and stays in the structure tree, but produces no record.
	assert.Equal(t, 2, analysis.TotalFiles)
	assert.Equal(t, 1, analysis.AnalyzedFiles)
	assert.Equal(t, []string{"ok.py"}, filePaths(analysis))
	assert.Equal(t, 2, analysis.Structure.CountFiles())
	require.NoError(t, analysis.Validate())
}

func TestAnalyze_Idempotence(t *testing.T) {
	root := writeTree(t, map[string]string{
		"README.md":      "# Demo\n",
		"src/app.py":     "def go():\n    pass\n",
		"src/util.js":    "function u() {}\n",
		"docs/notes.txt": "notes\n",
	})

	a := New(Options{})
	first, err := a.Analyze(context.Background(), root, nil)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), root, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.TotalFiles, second.TotalFiles)
	assert.Equal(t, first.AnalyzedFiles, second.AnalyzedFiles)
	assert.Equal(t, first.Totals, second.Totals)
	assert.Equal(t, first.Languages, second.Languages)
	assert.Equal(t, filePaths(first), filePaths(second))

	firstTree, err := json.Marshal(first.Structure)
	require.NoError(t, err)
	secondTree, err := json.Marshal(second.Structure)
	require.NoError(t, err)
	assert.Equal(t, string(firstTree), string(secondTree))
}

func TestAnalyze_MissingRoot(t *testing.T) {
	analysis, err := New(Options{}).Analyze(context.Background(),
		filepath.Join(t.TempDir(), "gone"), nil)

	require.Error(t, err)
	require.NotNil(t, analysis)
	assert.True(t, analysis.IsEmpty())
	assert.Equal(t, 0, analysis.TotalFiles)
}

func TestAnalyze_EmptyRoot(t *testing.T) {
	analysis, err := New(Options{}).Analyze(context.Background(), t.TempDir(), nil)

	require.NoError(t, err)
	assert.True(t, analysis.IsEmpty())
	assert.Equal(t, 0, analysis.TotalFiles)
	assert.Empty(t, analysis.Languages)
}

func TestAnalyze_IgnoreFilePatterns(t *testing.T) {
	root := writeTree(t, map[string]string{
		".repolensignore": "# comment\n*.log\nsecret/**\n",
		"app.log":         "log line\n",
		"secret/key.txt":  "hunter2\n",
		"main.py":         "x = 1\n",
	})

	analysis, err := New(Options{}).Analyze(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"main.py"}, filePaths(analysis))
	assert.Equal(t, 1, analysis.TotalFiles)
}

func TestAnalyze_ProgressMessages(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "x = 1\n",
		"b.py": "y = 2\n",
	})

	var messages []string
	_, err := New(Options{}).Analyze(context.Background(), root, func(msg string) {
		messages = append(messages, msg)
	})
	require.NoError(t, err)

	require.NotEmpty(t, messages)
	assert.Equal(t, "Starting repository analysis...", messages[0])
	assert.Contains(t, messages, "Discovered 2 files")
	assert.Contains(t, messages, "Analyzing file 1/2")
	assert.Equal(t, "Repository analysis completed!", messages[len(messages)-1])
}

func TestAnalyze_UnclassifiedExcludedFromLanguageTable(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Makefile": "all:\n\techo hi\n",
		"run.py":   "x = 1\n",
	})

	analysis, err := New(Options{}).Analyze(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, analysis.AnalyzedFiles)
	assert.NotContains(t, analysis.Languages, string(types.LangUnclassified))
	assert.Len(t, analysis.Languages, 1)
	assert.Equal(t, 5, analysis.Totals.Lines) // both files still counted
}