package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/dshills/repolens/pkg/types"
)

// pythonStrategy extracts structure from a full tree-sitter parse.
type pythonStrategy struct {
	language *sitter.Language
}

func newPythonStrategy() *pythonStrategy {
	return &pythonStrategy{language: python.GetLanguage()}
}

func (s *pythonStrategy) Name() string { return "python" }

func (s *pythonStrategy) Extract(content string) (*Extraction, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(s.language)

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(content))
	if err != nil {
		return nil, fmt.Errorf("parse python source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, errors.New("python source contains syntax errors")
	}

	ex := &pyExtractor{source: []byte(content), out: &Extraction{}}
	ex.walk(root)
	return ex.out, nil
}

type pyExtractor struct {
	source []byte
	out    *Extraction
}

// walk visits nodes breadth-first, so module-level definitions are
// recorded before anything nested inside them. Decorator wrappers are
// transparent: the wrapped definition is queued at the wrapper's depth.
func (ex *pyExtractor) walk(root *sitter.Node) {
	queue := []*sitter.Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		ex.visit(n)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "decorated_definition" {
				if def := child.ChildByFieldName("definition"); def != nil {
					queue = append(queue, def)
					continue
				}
			}
			queue = append(queue, child)
		}
	}
}

func (ex *pyExtractor) visit(n *sitter.Node) {
	switch n.Type() {
	case "function_definition":
		ex.function(n)
	case "class_definition":
		ex.class(n)
	case "import_statement":
		ex.imports(n)
	case "import_from_statement":
		ex.fromImports(n)
	case "assignment":
		if p := n.Parent(); p != nil && p.Type() == "assignment" {
			return // chained targets are recorded with the outermost node
		}
		ex.assignment(n)
	}
}

func (ex *pyExtractor) function(n *sitter.Node) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	ex.out.Functions = append(ex.out.Functions, types.FunctionRecord{
		Name:       name.Content(ex.source),
		Line:       int(n.StartPoint().Row) + 1,
		Args:       ex.paramNames(n.ChildByFieldName("parameters")),
		Docstring:  ex.blockDocstring(n.ChildByFieldName("body")),
		Decorators: ex.decorators(n),
	})
}

func (ex *pyExtractor) class(n *sitter.Node) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	body := n.ChildByFieldName("body")
	ex.out.Classes = append(ex.out.Classes, types.ClassRecord{
		Name:      name.Content(ex.source),
		Line:      int(n.StartPoint().Row) + 1,
		Bases:     ex.classBases(n),
		Docstring: ex.blockDocstring(body),
		Methods:   ex.classMethods(body),
	})
}

func (ex *pyExtractor) classBases(n *sitter.Node) []string {
	args := n.ChildByFieldName("superclasses")
	if args == nil {
		return nil
	}
	var bases []string
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		if child.Type() == "keyword_argument" {
			continue // metaclass= and friends are not bases
		}
		bases = append(bases, child.Content(ex.source))
	}
	return bases
}

// classMethods collects function names from the direct class body,
// looking through decorator wrappers.
func (ex *pyExtractor) classMethods(body *sitter.Node) []string {
	if body == nil {
		return nil
	}
	var methods []string
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() == "decorated_definition" {
			if def := child.ChildByFieldName("definition"); def != nil {
				child = def
			}
		}
		if child.Type() != "function_definition" {
			continue
		}
		if name := child.ChildByFieldName("name"); name != nil {
			methods = append(methods, name.Content(ex.source))
		}
	}
	return methods
}

func (ex *pyExtractor) imports(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			ex.out.Imports = append(ex.out.Imports, child.Content(ex.source))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				ex.out.Imports = append(ex.out.Imports, name.Content(ex.source))
			}
		}
	}
}

// fromImports records one entry per imported name, qualified by the
// source module with leading relative dots stripped.
func (ex *pyExtractor) fromImports(n *sitter.Node) {
	module := ""
	if mod := n.ChildByFieldName("module_name"); mod != nil {
		module = strings.TrimLeft(mod.Content(ex.source), ".")
	}
	// The module is the first named child; the imported names follow.
	for i := 1; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		var name string
		switch child.Type() {
		case "dotted_name":
			name = child.Content(ex.source)
		case "aliased_import":
			if id := child.ChildByFieldName("name"); id != nil {
				name = id.Content(ex.source)
			}
		case "wildcard_import":
			name = "*"
		}
		if name != "" {
			ex.out.Imports = append(ex.out.Imports, fmt.Sprintf("%s.%s", module, name))
		}
	}
}

// assignment records identifier targets, following a = b = ... chains.
// Annotated declarations do not produce variable records.
func (ex *pyExtractor) assignment(n *sitter.Node) {
	if n.ChildByFieldName("type") != nil {
		return
	}
	line := int(n.StartPoint().Row) + 1
	for cur := n; cur != nil && cur.Type() == "assignment"; cur = cur.ChildByFieldName("right") {
		left := cur.ChildByFieldName("left")
		if left == nil || left.Type() != "identifier" {
			continue
		}
		ex.out.Variables = append(ex.out.Variables, types.VariableRecord{
			Name: left.Content(ex.source),
			Line: line,
		})
	}
}

// decorators renders the decorator expressions attached to a wrapped
// definition as source text, without the leading @ marker.
func (ex *pyExtractor) decorators(n *sitter.Node) []string {
	parent := n.Parent()
	if parent == nil || parent.Type() != "decorated_definition" {
		return nil
	}
	var decs []string
	for i := 0; i < int(parent.NamedChildCount()); i++ {
		child := parent.NamedChild(i)
		if child.Type() != "decorator" {
			continue
		}
		if expr := child.NamedChild(0); expr != nil {
			decs = append(decs, expr.Content(ex.source))
		}
	}
	return decs
}

// paramNames keeps positional parameter names: everything before a bare
// * marker or a splat, excluding positional-only names before a / marker.
func (ex *pyExtractor) paramNames(params *sitter.Node) []string {
	if params == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		switch child.Type() {
		case "identifier":
			names = append(names, child.Content(ex.source))
		case "typed_parameter":
			id := child.NamedChild(0)
			if id == nil {
				continue
			}
			switch id.Type() {
			case "identifier":
				names = append(names, id.Content(ex.source))
			case "list_splat_pattern", "dictionary_splat_pattern":
				return names
			}
		case "default_parameter", "typed_default_parameter":
			if name := child.ChildByFieldName("name"); name != nil {
				names = append(names, name.Content(ex.source))
			}
		case "positional_separator":
			names = names[:0]
		case "keyword_separator", "list_splat_pattern", "dictionary_splat_pattern":
			return names
		}
	}
	return names
}

// blockDocstring returns the cleaned docstring when the first statement
// in a block is a plain string expression.
func (ex *pyExtractor) blockDocstring(body *sitter.Node) string {
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return cleanDocstring(ex.stringText(str))
}

// stringText extracts the text between the quotes of a string node.
func (ex *pyExtractor) stringText(str *sitter.Node) string {
	var parts []string
	for i := 0; i < int(str.NamedChildCount()); i++ {
		if child := str.NamedChild(i); child.Type() == "string_content" {
			parts = append(parts, child.Content(ex.source))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "")
	}
	return unquotePyString(str.Content(ex.source))
}

func unquotePyString(s string) string {
	for _, q := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

// cleanDocstring normalizes indentation the way inspect.cleandoc does:
// the first line loses its leading whitespace, later lines lose the
// largest margin common to all of them, and surrounding blank lines go.
func cleanDocstring(doc string) string {
	lines := strings.Split(doc, "\n")
	margin := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		if indent := len(line) - len(trimmed); margin < 0 || indent < margin {
			margin = indent
		}
	}
	out := make([]string, 0, len(lines))
	out = append(out, strings.TrimLeft(lines[0], " \t"))
	for _, line := range lines[1:] {
		if margin > 0 && len(line) >= margin {
			line = line[margin:]
		} else if margin > 0 {
			line = strings.TrimLeft(line, " \t")
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
