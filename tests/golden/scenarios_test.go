// Package golden_test exercises the full pipeline against the concrete
// end-to-end scenarios spec.md §8 names, one fixture per scenario, reading
// from tests/golden/fixtures rather than inlining source in Go strings.
package golden_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cadenzalang/cadenzac/pkg/compiler"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("fixtures", name))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	return string(data)
}

func TestHelloWorld(t *testing.T) {
	src := readFixture(t, "hello_world.cdz")
	out, sink := compiler.Compile("hello_world.cdz", src)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Items())
	}
	if !strings.Contains(out.CSharp, "public static string main()") {
		t.Errorf("expected a main() signature, got:\n%s", out.CSharp)
	}
	if !strings.Contains(out.CSharp, `"Hello, Cadenza!"`) {
		t.Errorf("expected the literal greeting, got:\n%s", out.CSharp)
	}
	if strings.Contains(out.CSharp, "Result<") || strings.Contains(out.CSharp, "Option<") {
		t.Errorf("expected no Result/Option boilerplate for a plain string function, got:\n%s", out.CSharp)
	}
}

func TestPureArithmeticWithPrecedence(t *testing.T) {
	src := readFixture(t, "precedence.cdz")
	out, sink := compiler.Compile("precedence.cdz", src)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Items())
	}
	const want = "return a + b * c > 10 && a - b < c || c == 0;"
	if !strings.Contains(out.CSharp, want) {
		t.Errorf("expected precedence-preserving parenthesization %q, got:\n%s", want, out.CSharp)
	}
}

func TestErrorPropagationShortCircuitsOnError(t *testing.T) {
	src := readFixture(t, "error_propagation.cdz")
	out, sink := compiler.Compile("error_propagation.cdz", src)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Items())
	}
	if !strings.Contains(out.CSharp, ".IsError) return") {
		t.Errorf("expected the two-statement error-propagation expansion, got:\n%s", out.CSharp)
	}
	if !strings.Contains(out.CSharp, "public static Result<int, string> divide(") {
		t.Errorf("expected divide's signature preserved, got:\n%s", out.CSharp)
	}
}

func TestEffectViolationIsDetected(t *testing.T) {
	src := readFixture(t, "effect_violation.cdz")
	_, sink := compiler.Compile("effect_violation.cdz", src)
	items := sink.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d: %v", len(items), items)
	}
	if items[0].Rule != "sem.purity-calls-effectful" {
		t.Errorf("expected rule sem.purity-calls-effectful, got %s", items[0].Rule)
	}
	if sink.ExitCode() != 1 {
		t.Errorf("expected exit code 1, got %d", sink.ExitCode())
	}
}

func TestModuleAndQualifiedCall(t *testing.T) {
	src := readFixture(t, "module_call.cdz")
	out, sink := compiler.Compile("module_call.cdz", src)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Items())
	}
	if !strings.Contains(out.CSharp, "namespace Cadenza.Modules.Math {") {
		t.Errorf("expected the Math module's namespace, got:\n%s", out.CSharp)
	}
	if !strings.Contains(out.CSharp, "Cadenza.Modules.Math.Math.add(2, 3)") {
		t.Errorf("expected the fully qualified call, got:\n%s", out.CSharp)
	}
}

func TestInterpolatedStringUsesNativeInterpolation(t *testing.T) {
	src := readFixture(t, "interpolated_string.cdz")
	out, sink := compiler.Compile("interpolated_string.cdz", src)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Items())
	}
	if !strings.Contains(out.CSharp, `$"Hello {name}, you have {n + 1} messages"`) {
		t.Errorf("expected a native C# interpolated string, got:\n%s", out.CSharp)
	}
	if strings.Contains(out.CSharp, `" + name + "`) {
		t.Errorf("expected no string-concatenation fallback, got:\n%s", out.CSharp)
	}
}
