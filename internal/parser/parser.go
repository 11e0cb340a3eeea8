package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dshills/repolens/internal/lang"
	"github.com/dshills/repolens/pkg/types"
)

const (
	// DefaultMaxFileSize caps how large a file may be before it is skipped
	DefaultMaxFileSize int64 = 1 << 20 // 1 MiB

	// DefaultRetainUnder is the content length below which full content is
	// always kept on the record
	DefaultRetainUnder = 5000

	// PreviewLength bounds the always-present content preview
	PreviewLength = 500
)

// Options tunes a FileAnalyzer. Zero values select the defaults.
type Options struct {
	MaxFileSize int64
	RetainUnder int
	Logger      *slog.Logger
}

// FileAnalyzer produces one FileRecord (or an explicit skip) per file.
// It never fails the caller: every problem path degrades to a SkipResult.
type FileAnalyzer struct {
	registry    *Registry
	maxFileSize int64
	retainUnder int
	log         *slog.Logger
}

// NewFileAnalyzer creates a file analyzer with the default strategy registry
func NewFileAnalyzer(opts Options) *FileAnalyzer {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.RetainUnder <= 0 {
		opts.RetainUnder = DefaultRetainUnder
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &FileAnalyzer{
		registry:    NewRegistry(),
		maxFileSize: opts.MaxFileSize,
		retainUnder: opts.RetainUnder,
		log:         opts.Logger,
	}
}

// AnalyzeFile reads and analyzes a single file. relPath is the
// slash-separated path relative to the repository root and becomes the
// record's identity. Exactly one of the return values is non-nil.
func (a *FileAnalyzer) AnalyzeFile(absPath, relPath string) (record *types.FileRecord, skip *types.SkipResult) {
	defer func() {
		if r := recover(); r != nil {
			record = nil
			skip = types.NewSkip(relPath, types.SkipInternal, fmt.Sprintf("%v", r))
		}
	}()

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, types.NewSkip(relPath, types.SkipRead, err.Error())
	}
	if info.Size() > a.maxFileSize {
		return nil, types.NewSkip(relPath, types.SkipTooLarge,
			fmt.Sprintf("%d bytes exceeds %d byte limit", info.Size(), a.maxFileSize))
	}

	raw, err := os.ReadFile(absPath)
	if err != nil {
		return nil, types.NewSkip(relPath, types.SkipRead, err.Error())
	}

	content, err := decodeContent(raw)
	if err != nil {
		return nil, types.NewSkip(relPath, types.SkipDecode, err.Error())
	}

	language := lang.LanguageFor(relPath)
	if language == "" {
		language = types.LangUnclassified
	}

	sum := sha256.Sum256(raw)
	record = &types.FileRecord{
		Path:     filepath.ToSlash(relPath),
		AbsPath:  absPath,
		Language: language,
		Size:     info.Size(),
		Lines:    1 + strings.Count(content, "\n"),
		Hash:     hex.EncodeToString(sum[:]),
		Preview:  previewOf(content),
	}

	if retainsContent(relPath, language, utf8.RuneCountInString(content), a.retainUnder) {
		record.Content = content
	}

	ext := a.extract(language, content)
	record.Functions = ext.Functions
	record.Classes = ext.Classes
	record.Imports = ext.Imports
	record.Variables = ext.Variables
	record.Comments = ext.Comments
	record.CodeBlocks = ext.CodeBlocks

	return record, nil
}

// extract runs the language strategy, falling back to the generic one on
// any failure. Strategy panics count as failures.
func (a *FileAnalyzer) extract(language types.Language, content string) *Extraction {
	strategy := a.registry.For(language)
	ext, err := safeExtract(strategy, content)
	if err == nil {
		return ext
	}
	a.log.Debug("strategy failed, using generic fallback",
		"strategy", strategy.Name(), "error", err)

	ext, err = safeExtract(a.registry.Fallback(), content)
	if err != nil {
		return &Extraction{}
	}
	return ext
}

func safeExtract(s Strategy, content string) (ext *Extraction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy panic: %v", r)
		}
	}()
	return s.Extract(content)
}

// decodeContent decodes file bytes as UTF-8, falling back to Latin-1.
// Invalid UTF-8 containing NUL bytes is rejected as non-text.
func decodeContent(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	if bytes.IndexByte(raw, 0) >= 0 {
		return "", errors.New("content is not text")
	}
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes), nil
}

// previewOf returns the first PreviewLength characters, with a marker
// when there was more.
func previewOf(content string) string {
	n := 0
	for i := range content {
		if n == PreviewLength {
			return content[:i] + "..."
		}
		n++
	}
	return content
}

// retainsContent applies the content-retention policy: documentation-like
// file names, prose languages, and small files keep their full content.
func retainsContent(relPath string, language types.Language, contentLen, retainUnder int) bool {
	name := strings.ToLower(filepath.Base(relPath))
	for _, key := range []string{"readme", "license", "changelog", "contributing"} {
		if strings.Contains(name, key) {
			return true
		}
	}
	if language.IsProse() {
		return true
	}
	return contentLen < retainUnder
}
