package generator

import "github.com/cadenzalang/cadenzac/pkg/ast"

// csType renders a Cadenza type reference as its C# spelling (spec.md §4.4
// mapping table). Primitive aliases are emitted lower-case everywhere,
// including inside XML docs, never the PascalCase framework names.
func csType(t ast.TypeExpr) string {
	switch tt := t.(type) {
	case *ast.PrimitiveType:
		return string(tt.Kind)
	case *ast.ResultType:
		return "Result<" + csType(tt.Value) + ", " + csType(tt.Error) + ">"
	case *ast.OptionType:
		return "Option<" + csType(tt.Value) + ">"
	case *ast.ListType:
		return "List<" + csType(tt.Elem) + ">"
	case *ast.NamedType:
		return tt.Name
	default:
		return "object"
	}
}
