package index

import (
	"strings"

	"github.com/dshills/repolens/pkg/types"
)

// Index is the searchable view over one analysis snapshot. All keys are
// lowercased at insertion and lookups fold the same way. An Index is
// immutable once built; loading a new snapshot replaces it wholesale.
//
// Key order is the enumeration order of the analysis, recorded in the
// order slices, so every scan over the index is deterministic.
type Index struct {
	files      map[string]*types.FileRecord
	fileOrder  []string
	functions  map[string][]types.FunctionRef
	funcOrder  []string
	classes    map[string][]types.ClassRef
	classOrder []string
	components map[string]types.ComponentRecord
	compOrder  []string
}

// Build constructs the index for an analysis snapshot plus its derived
// components. It is total: a nil or empty analysis yields a valid empty
// index, never an error.
func Build(analysis *types.RepositoryAnalysis, components []types.ComponentRecord) *Index {
	idx := &Index{
		files:      make(map[string]*types.FileRecord),
		functions:  make(map[string][]types.FunctionRef),
		classes:    make(map[string][]types.ClassRef),
		components: make(map[string]types.ComponentRecord),
	}
	if analysis == nil {
		return idx
	}

	for _, file := range analysis.Files {
		key := strings.ToLower(file.Path)
		if _, seen := idx.files[key]; !seen {
			idx.fileOrder = append(idx.fileOrder, key)
		}
		idx.files[key] = file

		for _, fn := range file.Functions {
			name := strings.ToLower(fn.Name)
			if name == "" {
				continue
			}
			if _, seen := idx.functions[name]; !seen {
				idx.funcOrder = append(idx.funcOrder, name)
			}
			idx.functions[name] = append(idx.functions[name], types.FunctionRef{File: file.Path, Function: fn})
		}

		for _, cls := range file.Classes {
			name := strings.ToLower(cls.Name)
			if name == "" {
				continue
			}
			if _, seen := idx.classes[name]; !seen {
				idx.classOrder = append(idx.classOrder, name)
			}
			idx.classes[name] = append(idx.classes[name], types.ClassRef{File: file.Path, Class: cls})
		}
	}

	for _, comp := range components {
		name := strings.ToLower(comp.Name)
		if name == "" {
			continue
		}
		if _, seen := idx.components[name]; !seen {
			idx.compOrder = append(idx.compOrder, name)
		}
		idx.components[name] = comp
	}

	return idx
}

// File looks up a file record by path, case-insensitively.
func (idx *Index) File(path string) (*types.FileRecord, bool) {
	rec, ok := idx.files[strings.ToLower(path)]
	return rec, ok
}

// Files returns the indexed file records in enumeration order.
func (idx *Index) Files() []*types.FileRecord {
	out := make([]*types.FileRecord, len(idx.fileOrder))
	for i, key := range idx.fileOrder {
		out[i] = idx.files[key]
	}
	return out
}

// Functions returns every occurrence of the named function, or nil.
func (idx *Index) Functions(name string) []types.FunctionRef {
	return idx.functions[strings.ToLower(name)]
}

// FunctionNames returns the lowercased function keys in insertion order.
func (idx *Index) FunctionNames() []string {
	return idx.funcOrder
}

// Classes returns every occurrence of the named class, or nil.
func (idx *Index) Classes(name string) []types.ClassRef {
	return idx.classes[strings.ToLower(name)]
}

// ClassNames returns the lowercased class keys in insertion order.
func (idx *Index) ClassNames() []string {
	return idx.classOrder
}

// Component looks up a component by name, case-insensitively.
func (idx *Index) Component(name string) (types.ComponentRecord, bool) {
	comp, ok := idx.components[strings.ToLower(name)]
	return comp, ok
}

// Components returns the indexed components in insertion order.
func (idx *Index) Components() []types.ComponentRecord {
	out := make([]types.ComponentRecord, len(idx.compOrder))
	for i, key := range idx.compOrder {
		out[i] = idx.components[key]
	}
	return out
}

// FileCount returns the number of indexed files.
func (idx *Index) FileCount() int { return len(idx.fileOrder) }

// FunctionCount returns the number of distinct function names.
func (idx *Index) FunctionCount() int { return len(idx.funcOrder) }

// ClassCount returns the number of distinct class names.
func (idx *Index) ClassCount() int { return len(idx.classOrder) }

// ComponentCount returns the number of indexed components.
func (idx *Index) ComponentCount() int { return len(idx.compOrder) }
