// Package generator turns a checked Cadenza AST into deterministic C#
// source text (spec.md §4.4): identical AST input always produces
// byte-identical output. It also records a position mapping for each
// function and statement it emits so pkg/sourcemap can trace generated code back to .cdz
// source (spec.md §6).
package generator

import (
	"fmt"
	"strings"

	"github.com/cadenzalang/cadenzac/pkg/ast"
	"github.com/cadenzalang/cadenzac/pkg/sema"
	"github.com/cadenzalang/cadenzac/pkg/sourcemap"
	"github.com/cadenzalang/cadenzac/pkg/token"
)

// Output is the result of generating one compilation unit.
type Output struct {
	Source    string
	SourceMap *sourcemap.Generator
}

// Generator accumulates pretty-printed C# text for a single compilation
// unit. It holds no state shared across compilations (spec.md §5).
type Generator struct {
	sourceFile string
	res        *sema.Result
	buf        strings.Builder
	indent     int
	line       int
	col        int
	sm         *sourcemap.Generator

	usesResult bool
	usesOption bool

	tempCounter int
	curReturn   ast.TypeExpr
	bindings    map[string]string
}

// nextTemp returns a fresh compiler-generated variable name, unique within
// the function currently being emitted (spec.md §4.4 `let x = e?` expansion).
func (g *Generator) nextTemp(base string) string {
	g.tempCounter++
	return fmt.Sprintf("%s_result%d", base, g.tempCounter)
}

// Generate produces C# source for file (spec.md §4.4 "Input: validated AST
// plus annotations"). Qualified calls are emitted from the names in the
// AST; res's expression types are consulted only to fill in missing type
// arguments of Ok, Error, Some and None.
func Generate(sourceFile string, file *ast.File, res *sema.Result) Output {
	g := &Generator{sourceFile: sourceFile, res: res, line: 1, col: 1}
	g.sm = sourcemap.NewGenerator(sourceFile, sourceFile+".cs")
	g.scanBoilerplateNeeds(file)

	for _, imp := range collectUsings(file) {
		g.writeln("using " + imp + ";")
	}
	g.writeln("")

	if g.usesResult {
		g.writeRaw(resultBoilerplate)
	}
	if g.usesOption {
		g.writeRaw(optionBoilerplate)
	}

	var topLevel []*ast.FuncDecl
	for _, item := range file.Items {
		switch decl := item.(type) {
		case *ast.ModuleDecl:
			g.genModule(decl)
		case *ast.FuncDecl:
			topLevel = append(topLevel, decl)
		}
	}
	if len(topLevel) > 0 {
		g.writeln("namespace Cadenza {")
		g.indent++
		g.writeln("public static class Program {")
		g.indent++
		for _, fn := range topLevel {
			g.genFunc(fn)
		}
		g.indent--
		g.writeln("}")
		g.indent--
		g.writeln("}")
	}

	return Output{Source: g.buf.String(), SourceMap: g.sm}
}

// scanBoilerplateNeeds decides whether Result<T,E>/Option<T> need emitting
// at all: a unit with neither in play should not carry the dead weight
// (spec.md §4.4 "Emitted boilerplate" says exactly one copy when needed).
func (g *Generator) scanBoilerplateNeeds(file *ast.File) {
	ast.Inspect(file, func(n ast.Node) bool {
		switch t := n.(type) {
		case *ast.ResultType, *ast.OkExpr, *ast.ErrExpr, *ast.ErrorPropagationExpr:
			g.usesResult = true
		case *ast.OptionType, *ast.SomeExpr, *ast.NoneExpr:
			g.usesOption = true
		case *ast.MatchArm:
			switch t.Pattern.(type) {
			case *ast.OkPattern, *ast.ErrPattern:
				g.usesResult = true
			case *ast.SomePattern, *ast.NonePattern:
				g.usesOption = true
			}
		}
		return true
	})
}

// ============================================================================
// Output primitives
// ============================================================================

func (g *Generator) writeRaw(s string) {
	g.buf.WriteString(s)
	for _, r := range s {
		if r == '\n' {
			g.line++
			g.col = 1
		} else {
			g.col++
		}
	}
}

func (g *Generator) writeln(line string) {
	if line != "" {
		g.buf.WriteString(strings.Repeat("    ", g.indent))
		g.buf.WriteString(line)
	}
	g.buf.WriteString("\n")
	g.line++
	g.col = 1
}

// emitMapping records that the next text written corresponds to src.
func (g *Generator) emitMapping(src token.Position) {
	g.sm.AddMapping(src, token.Position{Line: g.line, Column: g.col + len(strings.Repeat("    ", g.indent))})
}

// ============================================================================
// Modules and functions
// ============================================================================

func (g *Generator) genModule(m *ast.ModuleDecl) {
	g.writeln(fmt.Sprintf("namespace Cadenza.Modules.%s {", m.Name.Name))
	g.indent++
	g.writeln(fmt.Sprintf("public static class %s {", m.Name.Name))
	g.indent++
	for _, item := range m.Body {
		if fn, ok := item.(*ast.FuncDecl); ok {
			g.genFunc(fn)
		}
	}
	g.indent--
	g.writeln("}")
	g.indent--
	g.writeln("}")
}

func (g *Generator) genFunc(fn *ast.FuncDecl) {
	g.tempCounter = 0
	g.curReturn = fn.ReturnType
	g.bindings = nil
	g.emitMapping(fn.StartPos)
	g.genDocComment(fn)

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = csType(p.Type) + " " + p.Name.Name
	}
	sig := fmt.Sprintf("public static %s %s(%s) {", csType(fn.ReturnType), fn.Name.Name, strings.Join(params, ", "))
	g.writeln(sig)
	g.indent++
	for _, s := range fn.Body.Stmts {
		g.genStmt(s)
	}
	g.indent--
	g.writeln("}")
}

// genDocComment renders spec.md §4.4's XML-doc mapping for `uses`, `pure`,
// and an attached spec block.
func (g *Generator) genDocComment(fn *ast.FuncDecl) {
	if fn.Spec != nil {
		g.writeln(specBlockMarkerStart)
		g.writeln("/// <summary>")
		for _, line := range strings.Split(fn.Spec.Intent, "\n") {
			g.writeln("/// " + line)
		}
		g.writeln("/// </summary>")
		if len(fn.Spec.Rules) > 0 || len(fn.Spec.Postconditions) > 0 {
			g.writeln("/// <remarks>")
			for _, r := range fn.Spec.Rules {
				g.writeln("/// Rule: " + r)
			}
			for _, p := range fn.Spec.Postconditions {
				g.writeln("/// Postcondition: " + p)
			}
			g.writeln("/// </remarks>")
		}
		g.writeln(specBlockMarkerEnd)
	}
	if fn.IsPure {
		g.writeln("/// Pure function - no side effects")
	}
	if fn.HasUses && len(fn.Effects) > 0 {
		names := make([]string, len(fn.Effects))
		for i, e := range fn.Effects {
			names[i] = string(e)
		}
		g.writeln("/// Effects: " + strings.Join(names, ", "))
	}
}
