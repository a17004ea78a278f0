package lang

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
)

// GoParser is the structural parser for Go source, backed by go/parser.
type GoParser struct{}

// NewGoParser returns a structural Go parser.
func NewGoParser() *GoParser { return &GoParser{} }

func (g *GoParser) Name() string { return "go" }

func (g *GoParser) CanParse(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".go")
}

// Parse extracts functions, methods, type declarations and exported constants.
func (g *GoParser) Parse(path string, src []byte) ([]Declaration, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse go source: %w", err)
	}

	var decls []Declaration
	for _, d := range file.Decls {
		switch node := d.(type) {
		case *ast.FuncDecl:
			decls = append(decls, g.funcDecl(fset, node))
		case *ast.GenDecl:
			decls = append(decls, g.genDecl(fset, node)...)
		}
	}
	return decls, nil
}

func (g *GoParser) funcDecl(fset *token.FileSet, fn *ast.FuncDecl) Declaration {
	decl := Declaration{
		Kind:       KindFunction,
		Name:       fn.Name.Name,
		Doc:        docText(fn.Doc),
		File:       fset.Position(fn.Pos()).Filename,
		StartLine:  fset.Position(fn.Pos()).Line,
		EndLine:    fset.Position(fn.End()).Line,
		Exported:   fn.Name.IsExported(),
		Confidence: ConfidenceExact,
	}

	if fn.Recv != nil && len(fn.Recv.List) > 0 {
		decl.Kind = KindMethod
		decl.Receiver = typeString(fn.Recv.List[0].Type)
	}

	if fn.Type.Params != nil {
		for _, field := range fn.Type.Params.List {
			typ := typeString(field.Type)
			if len(field.Names) == 0 {
				decl.Params = append(decl.Params, Param{Type: typ})
				continue
			}
			for _, name := range field.Names {
				decl.Params = append(decl.Params, Param{Name: name.Name, Type: typ})
			}
		}
	}

	if fn.Type.Results != nil {
		var parts []string
		for _, field := range fn.Type.Results.List {
			parts = append(parts, typeString(field.Type))
		}
		decl.Returns = strings.Join(parts, ", ")
	}

	return decl
}

func (g *GoParser) genDecl(fset *token.FileSet, gen *ast.GenDecl) []Declaration {
	var decls []Declaration
	switch gen.Tok {
	case token.TYPE:
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			doc := docText(ts.Doc)
			if doc == "" {
				doc = docText(gen.Doc)
			}
			decls = append(decls, Declaration{
				Kind:       typeKind(ts.Type),
				Name:       ts.Name.Name,
				Doc:        doc,
				File:       fset.Position(ts.Pos()).Filename,
				StartLine:  fset.Position(ts.Pos()).Line,
				EndLine:    fset.Position(ts.End()).Line,
				Exported:   ts.Name.IsExported(),
				Confidence: ConfidenceExact,
			})
		}
	case token.CONST:
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			doc := docText(vs.Doc)
			if doc == "" && len(gen.Specs) == 1 {
				doc = docText(gen.Doc)
			}
			for _, name := range vs.Names {
				if !name.IsExported() {
					continue
				}
				decls = append(decls, Declaration{
					Kind:       KindConstant,
					Name:       name.Name,
					Doc:        doc,
					File:       fset.Position(name.Pos()).Filename,
					StartLine:  fset.Position(name.Pos()).Line,
					EndLine:    fset.Position(vs.End()).Line,
					Exported:   true,
					Confidence: ConfidenceExact,
				})
			}
		}
	}
	return decls
}

// typeKind maps struct and interface types to KindClass so multi-language
// templates can treat them like classes; everything else stays KindType.
func typeKind(expr ast.Expr) Kind {
	switch expr.(type) {
	case *ast.StructType, *ast.InterfaceType:
		return KindClass
	default:
		return KindType
	}
}

func docText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	return strings.TrimSpace(cg.Text())
}

func typeString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + typeString(t.X)
	case *ast.SelectorExpr:
		return typeString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		return "[]" + typeString(t.Elt)
	case *ast.MapType:
		return "map[" + typeString(t.Key) + "]" + typeString(t.Value)
	case *ast.Ellipsis:
		return "..." + typeString(t.Elt)
	case *ast.FuncType:
		return "func"
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.ChanType:
		return "chan " + typeString(t.Value)
	case *ast.IndexExpr:
		return typeString(t.X) + "[" + typeString(t.Index) + "]"
	default:
		return "any"
	}
}
