package parser

import (
	"testing"

	"github.com/cadenzalang/cadenzac/pkg/ast"
	"github.com/cadenzalang/cadenzac/pkg/lexer"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	toks, lexDiags := lexer.New("test.cdz", []byte(src)).Lex()
	if len(lexDiags.Items()) != 0 {
		t.Fatalf("unexpected lex diagnostics: %v", lexDiags.Items())
	}
	file, diags := ParseFile("test.cdz", toks)
	if len(diags.Items()) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", diags.Items())
	}
	return file
}

func TestParseHelloWorld(t *testing.T) {
	src := `function main() -> string { return "Hello, Cadenza!" }`
	file := parse(t, src)
	if len(file.Items) != 1 {
		t.Fatalf("expected 1 top-level item, got %d", len(file.Items))
	}
	fn, ok := file.Items[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", file.Items[0])
	}
	if fn.Name.Name != "main" {
		t.Errorf("expected function name 'main', got %s", fn.Name.Name)
	}
	if fn.IsPure {
		t.Error("main should not be pure")
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement in body, got %d", len(fn.Body.Stmts))
	}
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected *ast.ReturnStmt, got %T", fn.Body.Stmts[0])
	}
	lit, ok := ret.Value.(*ast.StringLit)
	if !ok || lit.Value != "Hello, Cadenza!" {
		t.Errorf("unexpected return value: %#v", ret.Value)
	}
}

func TestParsePureFunctionWithoutUsesClause(t *testing.T) {
	// Structural parse only; purity-vs-effects validity is pkg/sema's job.
	src := `pure function add(a: int, b: int) -> int { return a + b }`
	file := parse(t, src)
	fn := file.Items[0].(*ast.FuncDecl)
	if !fn.IsPure {
		t.Error("expected IsPure to be true")
	}
	if fn.HasUses {
		t.Error("expected HasUses to be false when no uses clause given")
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
}

func TestParseUsesClause(t *testing.T) {
	src := `function save(x: int) uses [Database, Logging] -> Result<int, string> {
		return Ok(x)
	}`
	file := parse(t, src)
	fn := file.Items[0].(*ast.FuncDecl)
	if !fn.HasUses {
		t.Fatal("expected HasUses to be true")
	}
	if len(fn.Effects) != 2 || fn.Effects[0] != "Database" || fn.Effects[1] != "Logging" {
		t.Errorf("unexpected effects: %v", fn.Effects)
	}
	rt, ok := fn.ReturnType.(*ast.ResultType)
	if !ok {
		t.Fatalf("expected *ast.ResultType, got %T", fn.ReturnType)
	}
	if rt.Value.String() != "int" || rt.Error.String() != "string" {
		t.Errorf("unexpected Result type params: %s", rt.String())
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	src := `function f() -> int { return 1 + 2 * 3 }`
	file := parse(t, src)
	fn := file.Items[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	top, ok := ret.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected top-level *ast.BinaryExpr, got %T", ret.Value)
	}
	if top.Op != ast.BAdd {
		t.Errorf("expected top operator to be +, got %v", top.Op)
	}
	if _, ok := top.Right.(*ast.BinaryExpr); !ok {
		t.Errorf("expected right operand to be a nested multiplication, got %T", top.Right)
	}
	if _, ok := top.Left.(*ast.IntLit); !ok {
		t.Errorf("expected left operand to be an int literal, got %T", top.Left)
	}
}

func TestParseErrorPropagation(t *testing.T) {
	src := `function f(x: Result<int, string>) -> Result<int, string> {
		let y = x?
		return Ok(y)
	}`
	file := parse(t, src)
	fn := file.Items[0].(*ast.FuncDecl)
	let := fn.Body.Stmts[0].(*ast.LetStmt)
	if _, ok := let.Value.(*ast.ErrorPropagationExpr); !ok {
		t.Fatalf("expected *ast.ErrorPropagationExpr, got %T", let.Value)
	}
}

func TestParseGuard(t *testing.T) {
	src := `function f(x: int) -> Result<int, string> {
		guard x > 0 else {
			return Error("must be positive")
		}
		return Ok(x)
	}`
	file := parse(t, src)
	fn := file.Items[0].(*ast.FuncDecl)
	g, ok := fn.Body.Stmts[0].(*ast.GuardStmt)
	if !ok {
		t.Fatalf("expected *ast.GuardStmt, got %T", fn.Body.Stmts[0])
	}
	if len(g.Else.Stmts) != 1 {
		t.Fatalf("expected 1 statement in guard else block, got %d", len(g.Else.Stmts))
	}
}

func TestParseMatchExhaustiveResult(t *testing.T) {
	src := `function f(x: Result<int, string>) -> string {
		return match x {
			Ok(v) -> "got value",
			Error(e) -> e,
		}
	}`
	file := parse(t, src)
	fn := file.Items[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	m, ok := ret.Value.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("expected *ast.MatchExpr, got %T", ret.Value)
	}
	if len(m.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(m.Arms))
	}
	if _, ok := m.Arms[0].Pattern.(*ast.OkPattern); !ok {
		t.Errorf("expected first arm pattern to be *ast.OkPattern, got %T", m.Arms[0].Pattern)
	}
	if _, ok := m.Arms[1].Pattern.(*ast.ErrPattern); !ok {
		t.Errorf("expected second arm pattern to be *ast.ErrPattern, got %T", m.Arms[1].Pattern)
	}
}

func TestParseModuleWithExportsAndImport(t *testing.T) {
	src := `import Math.*

	module Shapes {
		export { area }

		function area(side: int) -> int {
			return side * side
		}
	}`
	file := parse(t, src)
	if len(file.Items) != 2 {
		t.Fatalf("expected 2 top-level items, got %d", len(file.Items))
	}
	imp, ok := file.Items[0].(*ast.ImportDecl)
	if !ok {
		t.Fatalf("expected *ast.ImportDecl, got %T", file.Items[0])
	}
	if imp.Shape != ast.ImportAll || imp.ModuleName.Name != "Math" {
		t.Errorf("unexpected import: %s shape=%v", imp.ModuleName.Name, imp.Shape)
	}
	mod, ok := file.Items[1].(*ast.ModuleDecl)
	if !ok {
		t.Fatalf("expected *ast.ModuleDecl, got %T", file.Items[1])
	}
	if len(mod.Exports) != 1 || mod.Exports[0].Name != "area" {
		t.Errorf("unexpected exports: %v", mod.Exports)
	}
}

func TestParseInterpolatedStringSubExpressions(t *testing.T) {
	src := `function greet(name: string, n: int) -> string {
		return $"Hello {name}, you have {n + 1} messages"
	}`
	file := parse(t, src)
	fn := file.Items[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	interp, ok := ret.Value.(*ast.InterpolatedStringExpr)
	if !ok {
		t.Fatalf("expected *ast.InterpolatedStringExpr, got %T", ret.Value)
	}
	if len(interp.Parts) != 5 {
		t.Fatalf("expected 5 parts, got %d: %#v", len(interp.Parts), interp.Parts)
	}
	if interp.Parts[1].Expr == nil {
		t.Fatal("expected second part to be a re-parsed expression")
	}
	if _, ok := interp.Parts[1].Expr.(*ast.Ident); !ok {
		t.Errorf("expected name reference, got %T", interp.Parts[1].Expr)
	}
	if _, ok := interp.Parts[3].Expr.(*ast.BinaryExpr); !ok {
		t.Errorf("expected n + 1 to parse as a binary expr, got %T", interp.Parts[3].Expr)
	}
}

func TestParseRecoversFromUnexpectedTopLevelToken(t *testing.T) {
	toks, _ := lexer.New("bad.cdz", []byte(`}}} function ok() -> int { return 1 }`)).Lex()
	file, diags := ParseFile("bad.cdz", toks)
	if len(diags.Items()) == 0 {
		t.Fatal("expected at least one diagnostic")
	}
	var found *ast.FuncDecl
	for _, item := range file.Items {
		if fn, ok := item.(*ast.FuncDecl); ok {
			found = fn
		}
	}
	if found == nil || found.Name.Name != "ok" {
		t.Fatal("expected parser to recover and still find function 'ok'")
	}
}
