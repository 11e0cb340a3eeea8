package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/repolens/pkg/types"
)

func TestRepoRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	t.Run("valid directory", func(t *testing.T) {
		got, err := repoRoot(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, got)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := repoRoot(filepath.Join(dir, "nope"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("file instead of directory", func(t *testing.T) {
		_, err := repoRoot(file)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})
}

func TestLanguagesByFiles(t *testing.T) {
	langs := map[string]*types.LanguageStat{
		"markdown": {Files: 2, Lines: 100},
		"python":   {Files: 9, Lines: 4000},
		"yaml":     {Files: 2, Lines: 40},
	}

	got := languagesByFiles(langs)

	// Most files first, ties broken by name
	assert.Equal(t, []string{"python", "markdown", "yaml"}, got)
}
