package generator

import "github.com/cadenzalang/cadenzac/pkg/ast"

// collectUsings decides the `using` directive list for one compilation
// unit by walking its AST, the way the teacher's Go-AST import-list
// manipulation decided which imports a generated file needed — except
// here there is no go/ast.File for astutil to operate on, so the
// collection walks Cadenza's own AST directly (spec.md §4.4).
func collectUsings(file *ast.File) []string {
	set := map[string]bool{"System": true}
	ast.Inspect(file, func(n ast.Node) bool {
		if _, ok := n.(*ast.ListType); ok {
			set["System.Collections.Generic"] = true
		}
		if _, ok := n.(*ast.ListLit); ok {
			set["System.Collections.Generic"] = true
		}
		return true
	})

	ordered := make([]string, 0, len(set))
	for _, candidate := range []string{"System", "System.Collections.Generic"} {
		if set[candidate] {
			ordered = append(ordered, candidate)
		}
	}
	return ordered
}
