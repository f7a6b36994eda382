package generator

import (
	"strings"
	"testing"

	"github.com/cadenzalang/cadenzac/pkg/lexer"
	"github.com/cadenzalang/cadenzac/pkg/parser"
	"github.com/cadenzalang/cadenzac/pkg/sema"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	toks, lexDiags := lexer.New("test.cdz", []byte(src)).Lex()
	if len(lexDiags.Items()) != 0 {
		t.Fatalf("unexpected lex diagnostics: %v", lexDiags.Items())
	}
	file, parseDiags := parser.ParseFile("test.cdz", toks)
	if len(parseDiags.Items()) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", parseDiags.Items())
	}
	res, semaDiags := sema.Check("test.cdz", file)
	if len(semaDiags.Items()) != 0 {
		t.Fatalf("unexpected sema diagnostics: %v", semaDiags.Items())
	}
	out := Generate("test.cdz", file, res)
	return out.Source
}

// Precedence / parenthesization: spec.md §4.4 calls this out explicitly
// because flat emission silently changes meaning.
func TestGenerateAddThenMulNeedsParens(t *testing.T) {
	src := `function f() -> int { return (1 + 2) * 3 }`
	out := generate(t, src)
	if !strings.Contains(out, "(1 + 2) * 3") {
		t.Errorf("expected parenthesized left operand, got:\n%s", out)
	}
}

func TestGenerateMulThenAddNeedsNoParens(t *testing.T) {
	src := `function f() -> int { return 1 + 2 * 3 }`
	out := generate(t, src)
	if strings.Contains(out, "(2 * 3)") || strings.Contains(out, "(1 + 2)") {
		t.Errorf("did not expect parens at equal-or-higher precedence, got:\n%s", out)
	}
	if !strings.Contains(out, "1 + 2 * 3") {
		t.Errorf("expected flat emission, got:\n%s", out)
	}
}

func TestGenerateSamePrecedenceRightOperandNeedsParens(t *testing.T) {
	// a - (b - c) must not degenerate to a - b - c, which would
	// re-associate to (a - b) - c under C#'s left-associative '-'.
	src := `function f() -> int { return 1 - (2 - 3) }`
	out := generate(t, src)
	if !strings.Contains(out, "1 - (2 - 3)") {
		t.Errorf("expected right operand of equal precedence to stay parenthesized, got:\n%s", out)
	}
}

func TestGenerateLeftAssociativeSamePrecedenceNeedsNoParens(t *testing.T) {
	src := `function f() -> int { return 1 - 2 - 3 }`
	out := generate(t, src)
	if strings.Contains(out, "(1 - 2)") {
		t.Errorf("left operand at equal precedence should not be parenthesized, got:\n%s", out)
	}
}

func TestGenerateGuardBecomesNegatedIf(t *testing.T) {
	src := `function f(x: int) -> int {
		guard x > 0 else {
			return 0
		}
		return x
	}`
	out := generate(t, src)
	if !strings.Contains(out, "if (!(x > 0)) {") {
		t.Errorf("expected negated guard condition, got:\n%s", out)
	}
}

func TestGenerateErrorPropagationExpandsToTwoStatements(t *testing.T) {
	src := `function f(x: Result<int, string>) -> Result<int, string> {
		let y = x?
		return Ok(y)
	}`
	out := generate(t, src)
	if !strings.Contains(out, "if (y_result1.IsError) return y_result1;") {
		t.Errorf("expected error-propagation early return, got:\n%s", out)
	}
	if !strings.Contains(out, "var y = y_result1.Value;") {
		t.Errorf("expected unwrapped binding, got:\n%s", out)
	}
}

func TestGenerateResultBoilerplateEmittedOnlyWhenUsed(t *testing.T) {
	withResult := generate(t, `function f() -> Result<int, string> { return Ok(1) }`)
	if !strings.Contains(withResult, "struct Result<T, E>") {
		t.Errorf("expected Result<T,E> boilerplate, got:\n%s", withResult)
	}
	if strings.Contains(withResult, "struct Option<T>") {
		t.Errorf("did not expect Option<T> boilerplate when unused, got:\n%s", withResult)
	}

	withoutEither := generate(t, `function f() -> int { return 1 }`)
	if strings.Contains(withoutEither, "struct Result<T, E>") || strings.Contains(withoutEither, "struct Option<T>") {
		t.Errorf("did not expect any boilerplate when neither type is used, got:\n%s", withoutEither)
	}
}

func TestGenerateMatchBecomesTernary(t *testing.T) {
	src := `function describe(x: Option<int>) -> string {
		return match x {
			Some(v) -> "got it",
			None -> "nothing",
		}
	}`
	out := generate(t, src)
	if !strings.Contains(out, "x.HasValue ?") {
		t.Errorf("expected ternary over HasValue, got:\n%s", out)
	}
}

func TestGenerateLiteralPatternComparesScrutinee(t *testing.T) {
	src := `function describe(x: int) -> string {
		return match x {
			1 -> "one",
			2 -> "two",
			_ -> "other",
		}
	}`
	out := generate(t, src)
	if !strings.Contains(out, "x == 1 ?") {
		t.Errorf("expected scrutinee compared against literal 1, got:\n%s", out)
	}
	if !strings.Contains(out, "x == 2 ?") {
		t.Errorf("expected scrutinee compared against literal 2, got:\n%s", out)
	}
	if strings.Contains(out, "(true ? \"one\"") {
		t.Errorf("literal pattern must not collapse to an unconditional true, got:\n%s", out)
	}
}

func TestGenerateQualifiedCallUsesFullyQualifiedName(t *testing.T) {
	src := `module Greeter {
		function hello() -> string { return "hi" }
	}
	function main() -> string { return Greeter.hello() }`
	out := generate(t, src)
	if !strings.Contains(out, "Cadenza.Modules.Greeter.Greeter.hello()") {
		t.Errorf("expected fully qualified call, got:\n%s", out)
	}
}

func TestGeneratePureFunctionDocCommentNotesPurity(t *testing.T) {
	src := `pure function add(a: int, b: int) -> int { return a + b }`
	out := generate(t, src)
	if !strings.Contains(out, "Pure function - no side effects") {
		t.Errorf("expected purity doc comment, got:\n%s", out)
	}
}

func TestGenerateModuleMapsToNamespaceAndClass(t *testing.T) {
	src := `module Math { function square(x: int) -> int { return x * x } }`
	out := generate(t, src)
	if !strings.Contains(out, "namespace Cadenza.Modules.Math {") {
		t.Errorf("expected module namespace, got:\n%s", out)
	}
	if !strings.Contains(out, "public static class Math {") {
		t.Errorf("expected module class, got:\n%s", out)
	}
}

func TestGenerateInterpolatedStringEmitsCSharpInterpolation(t *testing.T) {
	src := `function greet(name: string) -> string { return $"Hello, {name}!" }`
	out := generate(t, src)
	if !strings.Contains(out, `$"Hello, {name}!"`) {
		t.Errorf("expected C# interpolated string, got:\n%s", out)
	}
}
