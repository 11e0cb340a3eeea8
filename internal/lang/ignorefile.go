package lang

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFileName is looked up at the repository root for user ignore globs
const IgnoreFileName = ".repolensignore"

// LoadIgnoreFile reads user ignore patterns from root/.repolensignore.
// A missing file is not an error and yields no patterns. Blank lines and
// lines starting with '#' are skipped; patterns are doublestar globs
// matched against slash-separated repository-relative paths.
func LoadIgnoreFile(root string) ([]string, error) {
	path := filepath.Join(root, IgnoreFileName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", IgnoreFileName, err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFileName, err)
	}
	return patterns, nil
}
