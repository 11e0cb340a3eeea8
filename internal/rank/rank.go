package rank

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/repolens/internal/lang"
	"github.com/dshills/repolens/pkg/types"
)

var (
	entryKeywords  = []string{"main", "index", "app", "server", "api", "__init__"}
	docKeywords    = []string{"readme", "documentation", "doc"}
	configKeywords = []string{"config", "settings", "setup"}
)

// languagePriority weights mainstream source languages over data and
// markup formats.
var languagePriority = map[types.Language]int{
	types.LangPython:     20,
	types.LangJavaScript: 20,
	types.LangTypeScript: 20,
	types.LangJava:       20,
	types.LangCPP:        20,
	types.LangMarkdown:   10,
	types.LangYAML:       10,
	types.LangJSON:       10,
}

// Score computes the importance heuristic for one file. The result is
// deterministic: same record, same score.
func Score(file *types.FileRecord) int {
	score := 0
	path := strings.ToLower(file.Path)

	if containsAny(path, entryKeywords) {
		score += 50
	}
	if containsAny(path, docKeywords) {
		score += 40
	}
	if containsAny(path, configKeywords) {
		score += 30
	}
	if lang.IsManifest(filepath.Base(path)) {
		score += 35
	}

	score += languagePriority[file.Language]

	if file.Lines > 100 {
		score += min(file.Lines/50, 20)
	}
	if n := len(file.Functions); n > 0 {
		score += min(n*3, 30)
	}
	if n := len(file.Classes); n > 0 {
		score += min(n*5, 25)
	}
	if file.Lines > 2000 {
		score -= 20
	}

	// Root-adjacent files and anything under a src segment get a boost
	if strings.Count(path, "/") <= 1 || strings.Contains(path, "/src/") {
		score += 15
	}

	return score
}

// Rank returns the files ordered by descending importance. The sort is
// stable, so equal scores keep their original enumeration order.
func Rank(files []*types.FileRecord) []*types.FileRecord {
	type scored struct {
		file  *types.FileRecord
		score int
	}
	scoredFiles := make([]scored, len(files))
	for i, f := range files {
		scoredFiles[i] = scored{file: f, score: Score(f)}
	}
	sort.SliceStable(scoredFiles, func(i, j int) bool {
		return scoredFiles[i].score > scoredFiles[j].score
	})

	out := make([]*types.FileRecord, len(scoredFiles))
	for i, sf := range scoredFiles {
		out[i] = sf.file
	}
	return out
}

// Top returns the first n ranked files, fewer when the repository is
// smaller than n.
func Top(files []*types.FileRecord, n int) []*types.FileRecord {
	ranked := Rank(files)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func containsAny(path string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}
