package generator

import (
	"strconv"
	"strings"

	"github.com/cadenzalang/cadenzac/pkg/ast"
)

// genExpr renders e as a C# expression, inserting parentheses only where
// spec.md §4.4's precedence rule requires them.
func (g *Generator) genExpr(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.IntLit:
		return strconv.FormatInt(x.Value, 10)

	case *ast.StringLit:
		return strconv.Quote(x.Value)

	case *ast.BoolLit:
		if x.Value {
			return "true"
		}
		return "false"

	case *ast.Ident:
		if repl, ok := g.bindings[x.Name]; ok {
			return repl
		}
		return x.Name

	case *ast.InterpolatedStringExpr:
		return g.genInterpolated(x)

	case *ast.BinaryExpr:
		return g.genBinary(x)

	case *ast.UnaryExpr:
		operand := g.genExpr(x.X)
		if _, ok := x.X.(*ast.BinaryExpr); ok {
			operand = "(" + operand + ")"
		}
		if x.Op == ast.UNeg {
			return "-" + operand
		}
		return "!" + operand

	case *ast.ListLit:
		elems := make([]string, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = g.genExpr(el)
		}
		return "new List<object> { " + strings.Join(elems, ", ") + " }"

	case *ast.IndexExpr:
		return g.genExpr(x.Target) + "[" + g.genExpr(x.Index) + "]"

	case *ast.OkExpr:
		value, errT := g.resultTypeArgs(x)
		return "Result<" + value + ", " + errT + ">.Ok(" + g.genExpr(x.X) + ")"

	case *ast.ErrExpr:
		value, errT := g.resultTypeArgs(x)
		return "Result<" + value + ", " + errT + ">.Error(" + g.genExpr(x.X) + ")"

	case *ast.SomeExpr:
		value := g.optionTypeArg(x)
		return "Option<" + value + ">.Some(" + g.genExpr(x.X) + ")"

	case *ast.NoneExpr:
		value := g.optionTypeArg(x)
		return "Option<" + value + ">.None()"

	case *ast.ErrorPropagationExpr:
		// Only reachable outside a `let x = e?` binding (spec.md §4.4 covers
		// that case specially in genLet); elsewhere `?` still yields the
		// unwrapped value inline.
		return g.genExpr(x.X) + ".Value"

	case *ast.CallExpr:
		return x.Callee.Name + "(" + g.genArgs(x.Args) + ")"

	case *ast.QualifiedCallExpr:
		return "Cadenza.Modules." + x.Module.Name + "." + x.Module.Name + "." + x.Name.Name + "(" + g.genArgs(x.Args) + ")"

	case *ast.MatchExpr:
		return g.genMatch(x)

	default:
		return ""
	}
}

func (g *Generator) genArgs(args []ast.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = g.genExpr(a)
	}
	return strings.Join(parts, ", ")
}

// genBinary applies spec.md §4.4's parenthesization rule: wrap a binary
// child iff it has strictly lower precedence than the parent, or equal
// precedence as the right operand.
func (g *Generator) genBinary(x *ast.BinaryExpr) string {
	left := g.genExpr(x.Left)
	if needsParens(x.Left, x.Op, false) {
		left = "(" + left + ")"
	}
	right := g.genExpr(x.Right)
	if needsParens(x.Right, x.Op, true) {
		right = "(" + right + ")"
	}
	return left + " " + binaryOpSymbol(x.Op) + " " + right
}

func binaryOpSymbol(op ast.BinaryOp) string {
	switch op {
	case ast.BAdd:
		return "+"
	case ast.BSub:
		return "-"
	case ast.BMul:
		return "*"
	case ast.BDiv:
		return "/"
	case ast.BLt:
		return "<"
	case ast.BGt:
		return ">"
	case ast.BLe:
		return "<="
	case ast.BGe:
		return ">="
	case ast.BEq:
		return "=="
	case ast.BNeq:
		return "!="
	case ast.BAnd:
		return "&&"
	case ast.BOr:
		return "||"
	default:
		return "?"
	}
}

// genInterpolated renders `$"...{expr}..."` as a C# interpolated string,
// recursively emitting each embedded sub-expression (spec.md §3: these
// obey the same resolution rules as any other expression).
func (g *Generator) genInterpolated(x *ast.InterpolatedStringExpr) string {
	var b strings.Builder
	b.WriteString(`$"`)
	for _, part := range x.Parts {
		if part.Expr != nil {
			b.WriteString("{")
			b.WriteString(g.genExpr(part.Expr))
			b.WriteString("}")
			continue
		}
		b.WriteString(strings.ReplaceAll(part.Literal, `"`, `\"`))
	}
	b.WriteString(`"`)
	return b.String()
}

// resultTypeArgs resolves the Result<V,E> generic arguments for an Ok/Error
// expression. The checker records the wrapped side's type but leaves the
// other side Unknown (spec.md §4.3 never needs it to diagnose), so the
// enclosing function's declared Result return type supplies the rest.
func (g *Generator) resultTypeArgs(e ast.Expr) (value, err string) {
	if g.curReturn != nil {
		if rt, ok := g.curReturn.(*ast.ResultType); ok {
			return csType(rt.Value), csType(rt.Error)
		}
	}
	t := g.res.Types[e]
	return t.Value.String(), t.Error.String()
}

// optionTypeArg resolves the Option<T> generic argument the same way
// resultTypeArgs does for Result.
func (g *Generator) optionTypeArg(e ast.Expr) string {
	if g.curReturn != nil {
		if ot, ok := g.curReturn.(*ast.OptionType); ok {
			return csType(ot.Value)
		}
	}
	t := g.res.Types[e]
	return t.Value.String()
}

// ============================================================================
// match -> ternary (spec.md §4.4)
// ============================================================================

func (g *Generator) genMatch(x *ast.MatchExpr) string {
	scrutinee := g.genExpr(x.Scrutinee)
	return g.genMatchArms(x.Arms, 0, scrutinee)
}

func (g *Generator) genMatchArms(arms []*ast.MatchArm, i int, scrutinee string) string {
	arm := arms[i]
	if i == len(arms)-1 {
		return g.genArmBody(arm, scrutinee)
	}
	cond, bound := g.patternCond(arm.Pattern, scrutinee)
	body := g.genArmBody(arm, scrutinee)
	rest := g.genMatchArms(arms, i+1, scrutinee)
	_ = bound
	return "(" + cond + " ? " + body + " : " + rest + ")"
}

// patternCond renders the boolean test for one match arm's pattern.
func (g *Generator) patternCond(pat ast.Pattern, scrutinee string) (cond string, bindingField string) {
	switch pat.(type) {
	case *ast.OkPattern:
		return scrutinee + ".IsSuccess", scrutinee + ".Value"
	case *ast.ErrPattern:
		return scrutinee + ".IsError", scrutinee + ".ErrorValue"
	case *ast.SomePattern:
		return scrutinee + ".HasValue", scrutinee + ".Value"
	case *ast.NonePattern:
		return "!" + scrutinee + ".HasValue", ""
	case *ast.LiteralPattern:
		lit := pat.(*ast.LiteralPattern)
		return scrutinee + " == " + g.genExpr(lit.Value), ""
	case *ast.WildcardPattern:
		return "true", ""
	default:
		return "true", ""
	}
}

// genArmBody binds the arm's pattern name (if any) to the appropriate field
// access on the scrutinee, generates the body with that substitution in
// effect, then restores the previous binding so sibling arms and outer code
// never see it (spec.md §3: pattern bindings are scoped to their arm).
func (g *Generator) genArmBody(arm *ast.MatchArm, scrutinee string) string {
	var name string
	switch p := arm.Pattern.(type) {
	case *ast.OkPattern:
		name = p.Binding.Name
	case *ast.ErrPattern:
		name = p.Binding.Name
	case *ast.SomePattern:
		name = p.Binding.Name
	}

	if name == "" {
		return g.genExpr(arm.Body)
	}

	_, field := g.patternCond(arm.Pattern, scrutinee)
	prev, had := g.bindings[name]
	if g.bindings == nil {
		g.bindings = map[string]string{}
	}
	g.bindings[name] = field
	out := g.genExpr(arm.Body)
	if had {
		g.bindings[name] = prev
	} else {
		delete(g.bindings, name)
	}
	return out
}
