package lang

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dshills/repolens/pkg/types"
)

// Classification is the result of classifying one file-system path
type Classification struct {
	Ignorable bool
	Language  types.Language // empty when the extension is unmapped
}

// Classifier decides whether a path is ignorable and what language it
// represents. Pure function of the path string and the static tables plus
// any user-supplied ignore globs; it never touches the filesystem.
type Classifier struct {
	userPatterns []string
}

// New returns a classifier using only the built-in tables
func New() *Classifier {
	return &Classifier{}
}

// NewWithPatterns returns a classifier that additionally ignores paths
// matching the given doublestar globs (typically loaded from a
// .repolensignore file).
func NewWithPatterns(patterns []string) *Classifier {
	return &Classifier{userPatterns: patterns}
}

// Classify classifies a repository-relative or absolute path
func (c *Classifier) Classify(path string) Classification {
	slashed := filepath.ToSlash(path)

	if c.ignorable(slashed) {
		return Classification{Ignorable: true}
	}
	return Classification{Language: LanguageFor(slashed)}
}

func (c *Classifier) ignorable(slashed string) bool {
	for _, segment := range strings.Split(slashed, "/") {
		if _, ok := ignoreDirs[segment]; ok {
			return true
		}
	}

	base := filepath.Base(slashed)
	if _, ok := ignoreFiles[base]; ok {
		return true
	}

	ext := strings.ToLower(filepath.Ext(base))
	if _, ok := binaryExtensions[ext]; ok {
		return true
	}

	for _, pattern := range c.userPatterns {
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			return true
		}
	}
	return false
}

// LanguageFor resolves a language purely from the path extension
func LanguageFor(path string) types.Language {
	ext := strings.ToLower(filepath.Ext(path))
	return extensionLanguages[ext]
}

// IsManifest reports whether the file name is a dependency manifest
func IsManifest(name string) bool {
	switch strings.ToLower(name) {
	case "requirements.txt", "package.json", "pom.xml", "cargo.toml",
		"go.mod", "build.gradle", "setup.py", "pyproject.toml":
		return true
	}
	return false
}
