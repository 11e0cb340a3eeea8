// Package lang classifies file-system paths for repository analysis.
//
// Classification is a pure function of the path string and three static
// tables: ignored directory names (VCS metadata, dependency caches, build
// outputs), ignored file names (lock files, environment files), and binary
// extensions. Language detection uses a closed extension table; unmapped
// extensions simply yield no language.
//
//	c := lang.New()
//	cls := c.Classify("src/node_modules/lib/index.js")
//	// cls.Ignorable == true, regardless of extension
//
//	cls = c.Classify("src/server.py")
//	// cls.Language == types.LangPython
//
// A .repolensignore file at the repository root can add doublestar globs:
//
//	patterns, _ := lang.LoadIgnoreFile(root)
//	c := lang.NewWithPatterns(patterns)
package lang
