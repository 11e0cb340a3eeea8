package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/dshills/repolens/pkg/types"
)

// goStrategy extracts structure from Go source via the standard library
// AST. Functions and methods become function records (methods also appear
// in their receiver type's method list), struct and interface types become
// class records with embedded types as bases.
type goStrategy struct{}

func newGoStrategy() *goStrategy {
	return &goStrategy{}
}

func (s *goStrategy) Name() string { return "go" }

func (s *goStrategy) Extract(content string) (*Extraction, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "src.go", content, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("go parse failed: %w", err)
	}

	e := &goExtractor{fset: fset, classIndex: make(map[string]int)}
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			e.extractFunction(d)
		case *ast.GenDecl:
			e.extractGenDecl(d)
		}
	}
	e.attachMethods()

	ext := &e.out
	for _, imp := range file.Imports {
		ext.Imports = append(ext.Imports, strings.Trim(imp.Path.Value, `"`))
	}
	return ext, nil
}

type goExtractor struct {
	fset *token.FileSet
	out  Extraction

	classIndex map[string]int // type name -> index in out.Classes
	methods    []methodRef
}

type methodRef struct {
	receiver string
	name     string
}

func (e *goExtractor) extractFunction(funcDecl *ast.FuncDecl) {
	rec := types.FunctionRecord{
		Name:      funcDecl.Name.Name,
		Line:      e.fset.Position(funcDecl.Pos()).Line,
		Args:      e.paramNames(funcDecl.Type.Params),
		Docstring: docText(funcDecl.Doc),
	}
	e.out.Functions = append(e.out.Functions, rec)

	if funcDecl.Recv != nil && len(funcDecl.Recv.List) > 0 {
		if recv := receiverType(funcDecl.Recv.List[0].Type); recv != "" {
			e.methods = append(e.methods, methodRef{receiver: recv, name: funcDecl.Name.Name})
		}
	}
}

func (e *goExtractor) extractGenDecl(genDecl *ast.GenDecl) {
	for _, spec := range genDecl.Specs {
		switch sp := spec.(type) {
		case *ast.TypeSpec:
			e.extractTypeSpec(sp, genDecl.Doc)
		case *ast.ValueSpec:
			for _, name := range sp.Names {
				e.out.Variables = append(e.out.Variables, types.VariableRecord{
					Name: name.Name,
					Line: e.fset.Position(name.Pos()).Line,
				})
			}
		}
	}
}

func (e *goExtractor) extractTypeSpec(typeSpec *ast.TypeSpec, doc *ast.CommentGroup) {
	rec := types.ClassRecord{
		Name:      typeSpec.Name.Name,
		Line:      e.fset.Position(typeSpec.Pos()).Line,
		Docstring: docText(doc),
	}

	switch t := typeSpec.Type.(type) {
	case *ast.StructType:
		// Embedded fields act as bases
		if t.Fields != nil {
			for _, field := range t.Fields.List {
				if len(field.Names) == 0 {
					rec.Bases = append(rec.Bases, exprToString(field.Type))
				}
			}
		}
	case *ast.InterfaceType:
		if t.Methods != nil {
			for _, field := range t.Methods.List {
				if len(field.Names) == 0 {
					rec.Bases = append(rec.Bases, exprToString(field.Type))
					continue
				}
				for _, name := range field.Names {
					rec.Methods = append(rec.Methods, name.Name)
				}
			}
		}
	default:
		// Aliases and named types carry no structure worth a class record
		return
	}

	e.classIndex[rec.Name] = len(e.out.Classes)
	e.out.Classes = append(e.out.Classes, rec)
}

// attachMethods adds receiver methods to their struct's class record in
// declaration order.
func (e *goExtractor) attachMethods() {
	for _, m := range e.methods {
		if idx, ok := e.classIndex[m.receiver]; ok {
			e.out.Classes[idx].Methods = append(e.out.Classes[idx].Methods, m.name)
		}
	}
}

func (e *goExtractor) paramNames(params *ast.FieldList) []string {
	if params == nil {
		return nil
	}
	var names []string
	for _, field := range params.List {
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
	}
	return names
}

// receiverType extracts the receiver type name from a method declaration
func receiverType(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			return ident.Name
		}
	case *ast.Ident:
		return t.Name
	}
	return ""
}

// exprToString converts a type expression to a source-text rendering
func exprToString(expr ast.Expr) string {
	if expr == nil {
		return ""
	}
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprToString(t.X)
	case *ast.ArrayType:
		return "[]" + exprToString(t.Elt)
	case *ast.MapType:
		return fmt.Sprintf("map[%s]%s", exprToString(t.Key), exprToString(t.Value))
	case *ast.ChanType:
		return "chan " + exprToString(t.Value)
	case *ast.FuncType:
		return "func(...)"
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.SelectorExpr:
		return exprToString(t.X) + "." + t.Sel.Name
	case *ast.Ellipsis:
		return "..." + exprToString(t.Elt)
	default:
		return "..."
	}
}

func docText(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}
