package types

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LanguageStat aggregates per-language counts across a snapshot
type LanguageStat struct {
	Files int `json:"files"`
	Lines int `json:"lines"`
}

// Totals holds repository-wide aggregate counts
type Totals struct {
	Lines     int `json:"lines"`
	Functions int `json:"functions"`
	Classes   int `json:"classes"`
	Imports   int `json:"imports"`
}

// TreeNode is one directory level of the repository structure model.
// Dirs maps a child directory name to its subtree; Files lists the
// surviving file names directly under this level.
type TreeNode struct {
	Dirs  map[string]*TreeNode
	Files []string
}

// NewTreeNode returns an empty directory node
func NewTreeNode() *TreeNode {
	return &TreeNode{Dirs: make(map[string]*TreeNode)}
}

// Dir materializes the node for a slash-separated relative directory
// path, creating intermediate nodes as needed. "." means this node.
func (t *TreeNode) Dir(relPath string) *TreeNode {
	if relPath == "" || relPath == "." {
		return t
	}
	node := t
	for _, part := range strings.Split(relPath, "/") {
		child, ok := node.Dirs[part]
		if !ok {
			child = NewTreeNode()
			node.Dirs[part] = child
		}
		node = child
	}
	return node
}

// Add inserts a slash-separated relative file path into the tree,
// creating intermediate directory nodes as needed.
func (t *TreeNode) Add(relPath string) {
	parts := strings.Split(relPath, "/")
	node := t.Dir(strings.Join(parts[:len(parts)-1], "/"))
	node.Files = append(node.Files, parts[len(parts)-1])
}

// CountFiles returns the number of files in this subtree
func (t *TreeNode) CountFiles() int {
	n := len(t.Files)
	for _, child := range t.Dirs {
		n += child.CountFiles()
	}
	return n
}

// MarshalJSON renders the tree as nested objects keyed by directory
// name, with this level's files under the reserved "_files" key. Keys
// serialize in sorted order, so equal trees produce equal bytes.
func (t *TreeNode) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Dirs)+1)
	for name, child := range t.Dirs {
		out[name] = child
	}
	if len(t.Files) > 0 {
		out["_files"] = t.Files
	}
	return json.Marshal(out)
}

// UnmarshalJSON reverses MarshalJSON's shape.
func (t *TreeNode) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Dirs = make(map[string]*TreeNode, len(raw))
	t.Files = nil
	for name, msg := range raw {
		if name == "_files" {
			if err := json.Unmarshal(msg, &t.Files); err != nil {
				return err
			}
			continue
		}
		child := NewTreeNode()
		if err := json.Unmarshal(msg, child); err != nil {
			return err
		}
		t.Dirs[name] = child
	}
	return nil
}

// ComponentRecord describes a directory-level grouping of related files
type ComponentRecord struct {
	Name      string   `json:"name"` // directory path, or "root" for top-level files
	Files     int      `json:"files"`
	Lines     int      `json:"lines"`
	Functions int      `json:"functions"`
	Classes   int      `json:"classes"`
	Languages []string `json:"languages,omitempty"`
	KeyFiles  []string `json:"key_files,omitempty"`
}

// RepositoryAnalysis is the complete result of one analysis run.
// It is immutable once returned; a failed run yields the empty sentinel
// from NewEmptyAnalysis rather than a partial structure.
type RepositoryAnalysis struct {
	ID          string    `json:"id"`
	RootPath    string    `json:"root_path"`
	GeneratedAt time.Time `json:"generated_at"`

	TotalFiles    int `json:"total_files"`    // classifier survivors, pre-analysis
	AnalyzedFiles int `json:"analyzed_files"` // files that produced a FileRecord

	Languages map[string]*LanguageStat `json:"languages"`
	Files     []*FileRecord            `json:"files"`
	Structure *TreeNode                `json:"structure"`
	Totals    Totals                   `json:"totals"`
}

// NewEmptyAnalysis returns the empty-result sentinel for a root path
func NewEmptyAnalysis(rootPath string) *RepositoryAnalysis {
	return &RepositoryAnalysis{
		ID:          uuid.NewString(),
		RootPath:    rootPath,
		GeneratedAt: time.Now().UTC(),
		Languages:   make(map[string]*LanguageStat),
		Structure:   NewTreeNode(),
	}
}

// IsEmpty reports whether this analysis carries no analyzed files
func (a *RepositoryAnalysis) IsEmpty() bool {
	return a == nil || len(a.Files) == 0
}

// Validate performs comprehensive validation of the analysis
func (a *RepositoryAnalysis) Validate() error {
	if a.RootPath == "" {
		return errors.New("analysis root path is required")
	}
	if a.TotalFiles < 0 || a.AnalyzedFiles < 0 {
		return errors.New("file counts must be non-negative")
	}
	if a.AnalyzedFiles > a.TotalFiles {
		return errors.New("analyzed count cannot exceed total count")
	}
	if len(a.Files) != a.AnalyzedFiles {
		return errors.New("file record count must match analyzed count")
	}
	for _, f := range a.Files {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}
