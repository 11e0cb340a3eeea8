package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/repolens/pkg/types"
)

func sampleAnalysis() *types.RepositoryAnalysis {
	return &types.RepositoryAnalysis{
		Files: []*types.FileRecord{
			{
				Path:     "cmd/Main.py",
				Language: types.LangPython,
				Functions: []types.FunctionRecord{
					{Name: "Run", Line: 3},
					{Name: "helper", Line: 9},
				},
				Classes: []types.ClassRecord{
					{Name: "App", Line: 1, Methods: []string{"start"}},
				},
			},
			{
				Path:     "lib/tasks.py",
				Language: types.LangPython,
				Functions: []types.FunctionRecord{
					{Name: "run", Line: 5},
					{Name: "schedule", Line: 12},
				},
			},
		},
	}
}

func TestBuild_CaseFoldsKeysAndLookups(t *testing.T) {
	idx := Build(sampleAnalysis(), nil)

	refs := idx.Functions("RUN")
	require.Len(t, refs, 2)
	assert.Equal(t, "cmd/Main.py", refs[0].File)
	assert.Equal(t, 3, refs[0].Function.Line)
	assert.Equal(t, "lib/tasks.py", refs[1].File)
	assert.Equal(t, 5, refs[1].Function.Line)

	rec, ok := idx.File("CMD/MAIN.PY")
	require.True(t, ok)
	assert.Equal(t, "cmd/Main.py", rec.Path)

	cls := idx.Classes("app")
	require.Len(t, cls, 1)
	assert.Equal(t, []string{"start"}, cls[0].Class.Methods)
}

func TestBuild_KeyOrderFollowsEnumeration(t *testing.T) {
	idx := Build(sampleAnalysis(), nil)

	assert.Equal(t, []string{"run", "helper", "schedule"}, idx.FunctionNames())
	assert.Equal(t, []string{"app"}, idx.ClassNames())

	files := idx.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "cmd/Main.py", files[0].Path)
	assert.Equal(t, "lib/tasks.py", files[1].Path)
}

// Every function name present in any FileRecord must be reachable through
// the index, and each ref must point back at its owning file.
func TestBuild_IndexCoversAllExtractions(t *testing.T) {
	analysis := sampleAnalysis()
	idx := Build(analysis, nil)

	for _, file := range analysis.Files {
		for _, fn := range file.Functions {
			refs := idx.Functions(fn.Name)
			require.NotEmpty(t, refs, "function %q missing from index", fn.Name)

			found := false
			for _, ref := range refs {
				if ref.File == file.Path && ref.Function.Line == fn.Line {
					found = true
				}
			}
			assert.True(t, found, "no ref for %q in %s", fn.Name, file.Path)
		}
	}
}

func TestBuild_Components(t *testing.T) {
	comps := []types.ComponentRecord{
		{Name: "src", Files: 2, Lines: 300},
		{Name: "Docs", Files: 3, Lines: 120},
		{Name: ""}, // unnamed groups are not indexed
	}
	idx := Build(sampleAnalysis(), comps)

	require.Equal(t, 2, idx.ComponentCount())

	got, ok := idx.Component("SRC")
	require.True(t, ok)
	assert.Equal(t, 300, got.Lines)

	ordered := idx.Components()
	assert.Equal(t, "src", ordered[0].Name)
	assert.Equal(t, "Docs", ordered[1].Name)
}

func TestBuild_EmptyAnalysis(t *testing.T) {
	for _, idx := range []*Index{Build(nil, nil), Build(types.NewEmptyAnalysis("/tmp/none"), nil)} {
		assert.Zero(t, idx.FileCount())
		assert.Zero(t, idx.FunctionCount())
		assert.Zero(t, idx.ClassCount())
		assert.Zero(t, idx.ComponentCount())
		assert.Empty(t, idx.Files())
		assert.Nil(t, idx.Functions("anything"))
	}
}

func TestBuild_BlankNamesSkipped(t *testing.T) {
	analysis := &types.RepositoryAnalysis{
		Files: []*types.FileRecord{
			{
				Path:      "odd.py",
				Language:  types.LangPython,
				Functions: []types.FunctionRecord{{Name: "", Line: 1}},
				Classes:   []types.ClassRecord{{Name: "", Line: 1}},
			},
		},
	}
	idx := Build(analysis, nil)

	assert.Zero(t, idx.FunctionCount())
	assert.Zero(t, idx.ClassCount())
	assert.Equal(t, 1, idx.FileCount())
}

func TestBuild_DuplicateNamesShareOneKey(t *testing.T) {
	analysis := sampleAnalysis()
	idx := Build(analysis, nil)

	// "Run" and "run" collapse to a single key
	var runKeys int
	for _, name := range idx.FunctionNames() {
		if strings.EqualFold(name, "run") {
			runKeys++
		}
	}
	assert.Equal(t, 1, runKeys)
	assert.Len(t, idx.Functions("run"), 2)
}
