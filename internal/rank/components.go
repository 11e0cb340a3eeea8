package rank

import (
	"path"
	"sort"
	"strings"

	"github.com/dshills/repolens/pkg/types"
)

const maxComponents = 10

// Components groups files by their parent directory and returns the ten
// weightiest groups. Files at the repository root form the "root"
// component. Directories holding a single file are not components.
//
// Ordering is deterministic: groups are discovered in file enumeration
// order, weighted by lines + functions*10 + classes*20, and sorted with
// a stable sort so equal weights keep discovery order.
func Components(files []*types.FileRecord) []types.ComponentRecord {
	var order []string
	grouped := make(map[string][]*types.FileRecord)
	for _, f := range files {
		dir := "root"
		if strings.Contains(f.Path, "/") {
			dir = path.Dir(f.Path)
		}
		if _, seen := grouped[dir]; !seen {
			order = append(order, dir)
		}
		grouped[dir] = append(grouped[dir], f)
	}

	var components []types.ComponentRecord
	for _, dir := range order {
		members := grouped[dir]
		if len(members) < 2 {
			continue
		}
		components = append(components, summarize(dir, members))
	}

	sort.SliceStable(components, func(i, j int) bool {
		return weight(components[i]) > weight(components[j])
	})
	if len(components) > maxComponents {
		components = components[:maxComponents]
	}
	return components
}

func summarize(dir string, members []*types.FileRecord) types.ComponentRecord {
	comp := types.ComponentRecord{Name: dir, Files: len(members)}
	langs := make(map[string]struct{})
	for _, f := range members {
		comp.Lines += f.Lines
		comp.Functions += len(f.Functions)
		comp.Classes += len(f.Classes)
		if f.Language != types.LangUnclassified {
			langs[string(f.Language)] = struct{}{}
		}
	}
	comp.Languages = sortedLanguages(langs)
	comp.KeyFiles = keyFiles(members)
	return comp
}

func weight(c types.ComponentRecord) int {
	return c.Lines + c.Functions*10 + c.Classes*20
}

// keyFiles picks the three longest members, ties broken by enumeration
// order.
func keyFiles(members []*types.FileRecord) []string {
	ranked := append([]*types.FileRecord(nil), members...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Lines > ranked[j].Lines
	})
	n := min(len(ranked), 3)
	names := make([]string, n)
	for i, f := range ranked[:n] {
		names[i] = f.Path
	}
	return names
}

func sortedLanguages(langs map[string]struct{}) []string {
	if len(langs) == 0 {
		return nil
	}
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
