package lang

import "github.com/dshills/repolens/pkg/types"

// extensionLanguages maps a lowercased file extension to its language.
// Closed table; unmapped extensions yield no language, which is not an error.
var extensionLanguages = map[string]types.Language{
	".py":    types.LangPython,
	".js":    types.LangJavaScript,
	".jsx":   types.LangJavaScript,
	".ts":    types.LangTypeScript,
	".tsx":   types.LangTypeScript,
	".java":  types.LangJava,
	".cpp":   types.LangCPP,
	".hpp":   types.LangCPP,
	".c":     types.LangC,
	".h":     types.LangC,
	".cs":    types.LangCSharp,
	".php":   types.LangPHP,
	".rb":    types.LangRuby,
	".go":    types.LangGo,
	".rs":    types.LangRust,
	".swift": types.LangSwift,
	".kt":    types.LangKotlin,
	".scala": types.LangScala,
	".r":     types.LangR,
	".sql":   types.LangSQL,
	".sh":    types.LangBash,
	".yaml":  types.LangYAML,
	".yml":   types.LangYAML,
	".json":  types.LangJSON,
	".xml":   types.LangXML,
	".html":  types.LangHTML,
	".css":   types.LangCSS,
	".md":    types.LangMarkdown,
	".txt":   types.LangText,
	".rst":   types.LangRST,
}

// ignoreDirs lists directory names whose entire subtree is excluded:
// version control metadata, dependency caches, build outputs, IDE state.
var ignoreDirs = map[string]struct{}{
	"__pycache__":   {},
	".git":          {},
	".svn":          {},
	".hg":           {},
	"node_modules":  {},
	"venv":          {},
	"env":           {},
	".env":          {},
	"build":         {},
	"dist":          {},
	".tox":          {},
	"coverage":      {},
	".coverage":     {},
	".pytest_cache": {},
	".mypy_cache":   {},
	"target":        {},
	"bin":           {},
	"obj":           {},
	".gradle":       {},
	".idea":         {},
	".vscode":       {},
	"vendor":        {},
	"deps":          {},
	"_build":        {},
	".next":         {},
	".nuxt":         {},
}

// ignoreFiles lists exact file names excluded from analysis: lock files
// and environment files carry no structural information worth extracting.
var ignoreFiles = map[string]struct{}{
	".gitignore":        {},
	".dockerignore":     {},
	".env":              {},
	".env.local":        {},
	IgnoreFileName:      {},
	"package-lock.json": {},
	"yarn.lock":         {},
	"poetry.lock":       {},
	"Pipfile.lock":      {},
	"composer.lock":     {},
}

// binaryExtensions lists extensions treated as binary regardless of content
var binaryExtensions = map[string]struct{}{
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".bin": {}, ".dat": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {}, ".svg": {}, ".ico": {},
	".mp3": {}, ".mp4": {}, ".avi": {}, ".mov": {}, ".wmv": {}, ".flv": {},
	".zip": {}, ".rar": {}, ".tar": {}, ".gz": {}, ".7z": {},
	".jar": {}, ".war": {}, ".ear": {},
	".pyc": {}, ".pyo": {}, ".pyd": {},
}
