package generator

import "github.com/cadenzalang/cadenzac/pkg/ast"

// genStmt emits one statement per the spec.md §4.4 mapping table.
func (g *Generator) genStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.LetStmt:
		g.genLet(st)

	case *ast.ReturnStmt:
		g.emitMapping(st.StartPos)
		if st.Value == nil {
			g.writeln("return;")
			return
		}
		g.writeln("return " + g.genExpr(st.Value) + ";")

	case *ast.IfStmt:
		g.emitMapping(st.StartPos)
		g.writeln("if (" + g.genExpr(st.Cond) + ") {")
		g.indent++
		for _, inner := range st.Then.Stmts {
			g.genStmt(inner)
		}
		g.indent--
		if st.Else != nil {
			g.writeln("} else {")
			g.indent++
			for _, inner := range st.Else.Stmts {
				g.genStmt(inner)
			}
			g.indent--
			g.writeln("}")
		} else {
			g.writeln("}")
		}

	case *ast.GuardStmt:
		// `guard c else { block }` -> `if (!(c)) { block }` (spec.md §4.4).
		g.emitMapping(st.StartPos)
		g.writeln("if (!(" + g.genExpr(st.Cond) + ")) {")
		g.indent++
		for _, inner := range st.Else.Stmts {
			g.genStmt(inner)
		}
		g.indent--
		g.writeln("}")

	case *ast.ExprStmt:
		g.emitMapping(st.X.Pos())
		g.writeln(g.genExpr(st.X) + ";")

	case *ast.BlockStmt:
		g.writeln("{")
		g.indent++
		for _, inner := range st.Stmts {
			g.genStmt(inner)
		}
		g.indent--
		g.writeln("}")
	}
}

// genLet emits `let x = e`. When e is an error-propagation expression the
// single Cadenza statement expands to the two-statement C# form spec.md
// §4.4 specifies: a temp holding the Result, an early return if it failed,
// then the unwrapped binding.
func (g *Generator) genLet(st *ast.LetStmt) {
	g.emitMapping(st.StartPos)
	if prop, ok := st.Value.(*ast.ErrorPropagationExpr); ok {
		tmp := g.nextTemp(st.Name.Name)
		g.writeln("var " + tmp + " = " + g.genExpr(prop.X) + ";")
		g.writeln("if (" + tmp + ".IsError) return " + tmp + ";")
		g.writeln("var " + st.Name.Name + " = " + tmp + ".Value;")
		return
	}
	g.writeln("var " + st.Name.Name + " = " + g.genExpr(st.Value) + ";")
}
