package sema

import (
	"fmt"

	"github.com/cadenzalang/cadenzac/pkg/ast"
	"github.com/cadenzalang/cadenzac/pkg/diagnostics"
	"github.com/cadenzalang/cadenzac/pkg/token"
)

// funcChecker holds the state needed while checking a single function body:
// its own signature (for purity/effect/return-type checks) and the lexical
// scope chain (spec.md §4.3).
type funcChecker struct {
	*Checker
	module string
	sig    *FuncSig
	scope  *scope
}

// ============================================================================
// Statements
// ============================================================================

func (fc *funcChecker) checkBlock(b *ast.BlockStmt) {
	inner := &funcChecker{Checker: fc.Checker, module: fc.module, sig: fc.sig, scope: fc.scope.child()}
	for _, s := range b.Stmts {
		inner.checkStmt(s)
	}
}

func (fc *funcChecker) checkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.LetStmt:
		t := fc.checkExpr(st.Value)
		fc.scope.define(st.Name.Name, t)

	case *ast.ReturnStmt:
		if st.Value == nil {
			return
		}
		t := fc.checkExpr(st.Value)
		if !t.Equal(fc.sig.Return) {
			fc.diags.Errorf(fc.file, st.StartPos, diagnostics.RuleSemTypeMismatch,
				"function '%s' declares return type %s but returns %s", fc.sig.Decl.Name.Name, fc.sig.Return, t)
		}

	case *ast.IfStmt:
		ct := fc.checkExpr(st.Cond)
		if ct.Kind != TBool && ct.Kind != TUnknown {
			fc.diags.Errorf(fc.file, st.Cond.Pos(), diagnostics.RuleSemTypeMismatch,
				"if condition must be bool, got %s", ct)
		}
		fc.checkBlock(st.Then)
		if st.Else != nil {
			fc.checkBlock(st.Else)
		}

	case *ast.GuardStmt:
		ct := fc.checkExpr(st.Cond)
		if ct.Kind != TBool && ct.Kind != TUnknown {
			fc.diags.Errorf(fc.file, st.Cond.Pos(), diagnostics.RuleSemTypeMismatch,
				"guard condition must be bool, got %s", ct)
		}
		fc.checkBlock(st.Else)
		if !blockAlwaysReturns(st.Else) {
			fc.diags.Errorf(fc.file, st.Else.StartPos, diagnostics.RuleSemGuardNonTerminating,
				"guard else-block must return on every path")
		}

	case *ast.ExprStmt:
		fc.checkExpr(st.X)

	case *ast.BlockStmt:
		fc.checkBlock(st)
	}
}

// blockAlwaysReturns reports whether every path through b ends in a return
// (spec.md §4.3 check 7, guard termination).
func blockAlwaysReturns(b *ast.BlockStmt) bool {
	if len(b.Stmts) == 0 {
		return false
	}
	return stmtAlwaysReturns(b.Stmts[len(b.Stmts)-1])
}

func stmtAlwaysReturns(s ast.Stmt) bool {
	switch st := s.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.IfStmt:
		return st.Else != nil && blockAlwaysReturns(st.Then) && blockAlwaysReturns(st.Else)
	case *ast.BlockStmt:
		return blockAlwaysReturns(st)
	default:
		return false
	}
}

// ============================================================================
// Expressions
// ============================================================================

func (fc *funcChecker) checkExpr(e ast.Expr) Type {
	t := fc.inferExpr(e)
	fc.res.Types[e] = t
	return t
}

func (fc *funcChecker) inferExpr(e ast.Expr) Type {
	switch x := e.(type) {
	case *ast.IntLit:
		return Int()
	case *ast.StringLit:
		return String()
	case *ast.BoolLit:
		return Bool()

	case *ast.Ident:
		if t, ok := fc.scope.lookup(x.Name); ok {
			return t
		}
		fc.diags.Errorf(fc.file, x.StartPos, diagnostics.RuleSemUnresolvedName,
			"unresolved name '%s'", x.Name)
		return Unknown()

	case *ast.InterpolatedStringExpr:
		for _, part := range x.Parts {
			if part.Expr != nil {
				fc.checkExpr(part.Expr)
			}
		}
		return String()

	case *ast.BinaryExpr:
		return fc.checkBinary(x)

	case *ast.UnaryExpr:
		t := fc.checkExpr(x.X)
		switch x.Op {
		case ast.UNeg:
			if t.Kind != TInt && t.Kind != TUnknown {
				fc.diags.Errorf(fc.file, x.StartPos, diagnostics.RuleSemTypeMismatch, "unary '-' requires int, got %s", t)
			}
			return Int()
		case ast.UNot:
			if t.Kind != TBool && t.Kind != TUnknown {
				fc.diags.Errorf(fc.file, x.StartPos, diagnostics.RuleSemTypeMismatch, "unary '!' requires bool, got %s", t)
			}
			return Bool()
		}
		return Unknown()

	case *ast.ListLit:
		elem := Unknown()
		for i, el := range x.Elems {
			t := fc.checkExpr(el)
			if i == 0 {
				elem = t
			}
		}
		return List(elem)

	case *ast.IndexExpr:
		target := fc.checkExpr(x.Target)
		idx := fc.checkExpr(x.Index)
		if idx.Kind != TInt && idx.Kind != TUnknown {
			fc.diags.Errorf(fc.file, x.Index.Pos(), diagnostics.RuleSemTypeMismatch, "index must be int, got %s", idx)
		}
		if target.Kind != TList && target.Kind != TUnknown {
			fc.diags.Errorf(fc.file, x.Target.Pos(), diagnostics.RuleSemTypeMismatch, "indexing requires a List<T>, got %s", target)
			return Unknown()
		}
		if target.Kind == TList {
			return *target.Value
		}
		return Unknown()

	case *ast.OkExpr:
		v := fc.checkExpr(x.X)
		return Result(v, Unknown())

	case *ast.ErrExpr:
		v := fc.checkExpr(x.X)
		return Result(Unknown(), v)

	case *ast.SomeExpr:
		v := fc.checkExpr(x.X)
		return Option(v)

	case *ast.NoneExpr:
		return Option(Unknown())

	case *ast.ErrorPropagationExpr:
		return fc.checkErrorPropagation(x)

	case *ast.CallExpr:
		return fc.checkCall(x)

	case *ast.QualifiedCallExpr:
		return fc.checkQualifiedCall(x)

	case *ast.MatchExpr:
		return fc.checkMatch(x)

	default:
		return Unknown()
	}
}

func (fc *funcChecker) checkBinary(x *ast.BinaryExpr) Type {
	l := fc.checkExpr(x.Left)
	r := fc.checkExpr(x.Right)

	switch x.Op {
	case ast.BAdd:
		if l.Kind == TString || r.Kind == TString {
			return String()
		}
		fc.expectInt(x, l, r)
		return Int()
	case ast.BSub, ast.BMul, ast.BDiv:
		fc.expectInt(x, l, r)
		return Int()
	case ast.BLt, ast.BGt, ast.BLe, ast.BGe:
		fc.expectInt(x, l, r)
		return Bool()
	case ast.BEq, ast.BNeq:
		return Bool()
	case ast.BAnd, ast.BOr:
		fc.expectBool(x, l, r)
		return Bool()
	}
	return Unknown()
}

func (fc *funcChecker) expectInt(x *ast.BinaryExpr, l, r Type) {
	if (l.Kind != TInt && l.Kind != TUnknown) || (r.Kind != TInt && r.Kind != TUnknown) {
		fc.diags.Errorf(fc.file, x.StartPos, diagnostics.RuleSemTypeMismatch,
			"arithmetic/comparison operator requires int operands, got %s and %s", l, r)
	}
}

func (fc *funcChecker) expectBool(x *ast.BinaryExpr, l, r Type) {
	if (l.Kind != TBool && l.Kind != TUnknown) || (r.Kind != TBool && r.Kind != TUnknown) {
		fc.diags.Errorf(fc.file, x.StartPos, diagnostics.RuleSemTypeMismatch,
			"'&&'/'||' require bool operands, got %s and %s", l, r)
	}
}

// checkErrorPropagation enforces spec.md §3 invariant 3: `?` only applies
// to a Result, and the enclosing function must itself return a Result with
// a matching error type.
func (fc *funcChecker) checkErrorPropagation(x *ast.ErrorPropagationExpr) Type {
	t := fc.checkExpr(x.X)
	if t.Kind != TResult {
		if t.Kind != TUnknown {
			fc.diags.Errorf(fc.file, x.StartPos, diagnostics.RuleSemPropagationMisuse,
				"'?' requires a Result<_, E> operand, got %s", t)
		}
		return Unknown()
	}
	if fc.sig.Return.Kind != TResult {
		fc.diags.Errorf(fc.file, x.StartPos, diagnostics.RuleSemPropagationMisuse,
			"'?' used in function '%s' which does not return a Result", fc.sig.Decl.Name.Name)
		return *t.Value
	}
	if !t.Error.Equal(*fc.sig.Return.Error) {
		fc.diags.Errorf(fc.file, x.StartPos, diagnostics.RuleSemPropagationMisuse,
			"'?' operand has error type %s, but enclosing function returns error type %s",
			t.Error, fc.sig.Return.Error)
	}
	return *t.Value
}

// ============================================================================
// Calls, purity, and effect coverage (spec.md §4.3 checks 2, 3)
// ============================================================================

func (fc *funcChecker) checkCall(x *ast.CallExpr) Type {
	argTypes := make([]Type, len(x.Args))
	for i, a := range x.Args {
		argTypes[i] = fc.checkExpr(a)
	}
	callee, ok := fc.resolveCall(fc.module, x.Callee.Name)
	if !ok {
		fc.diags.Errorf(fc.file, x.StartPos, diagnostics.RuleSemUnresolvedName,
			"call to unresolved function '%s'", x.Callee.Name)
		return Unknown()
	}
	fc.res.Callee[x] = callee
	fc.checkCallSite(x.StartPos, callee, argTypes)
	return callee.Return
}

func (fc *funcChecker) checkQualifiedCall(x *ast.QualifiedCallExpr) Type {
	argTypes := make([]Type, len(x.Args))
	for i, a := range x.Args {
		argTypes[i] = fc.checkExpr(a)
	}
	callee, ok := fc.funcs[qualify(x.Module.Name, x.Name.Name)]
	if !ok {
		if fc.known[x.Module.Name] {
			fc.diags.Errorf(fc.file, x.StartPos, diagnostics.RuleSemUnresolvedName,
				"'%s' is not a function in module '%s'", x.Name.Name, x.Module.Name)
		}
		// Unknown module: likely resolved in another compilation unit
		// (spec.md §5, one file at a time); let it through permissively.
		return Unknown()
	}
	fc.res.Callee[x] = callee
	fc.checkCallSite(x.StartPos, callee, argTypes)
	return callee.Return
}

// resolveCall looks up an unqualified call first against the current
// module's functions, then against top-level functions (spec.md §3
// invariant 7).
func (fc *funcChecker) resolveCall(module, name string) (*FuncSig, bool) {
	if module != "" {
		if sig, ok := fc.funcs[qualify(module, name)]; ok {
			return sig, true
		}
	}
	sig, ok := fc.funcs[qualify("", name)]
	return sig, ok
}

// checkCallSite enforces purity (invariant 1) and effect coverage
// (invariant 2) for one call from the function currently being checked.
func (fc *funcChecker) checkCallSite(pos token.Position, callee *FuncSig, argTypes []Type) {
	if fc.sig.IsPure && !callee.IsPure {
		fc.diags.Errorf(fc.file, pos, diagnostics.RuleSemPurityCallsEffectful,
			"pure function '%s' calls '%s', which is not pure", fc.sig.Decl.Name.Name, callee.Decl.Name.Name)
	} else {
		for effect := range callee.Effects {
			if !fc.sig.Effects[effect] {
				fc.diags.ErrorfFix(fc.file, pos, diagnostics.RuleSemEffectMissing,
					fmt.Sprintf("add '%s' to %s's uses [...] clause", effect, fc.sig.Decl.Name.Name),
					"function '%s' calls '%s' which uses effect '%s', but does not declare it",
					fc.sig.Decl.Name.Name, callee.Decl.Name.Name, effect)
			}
		}
	}
	if len(argTypes) != len(callee.Params) {
		fc.diags.Errorf(fc.file, pos, diagnostics.RuleSemTypeMismatch,
			"'%s' expects %d argument(s), got %d", callee.Decl.Name.Name, len(callee.Params), len(argTypes))
		return
	}
	for i, at := range argTypes {
		if !at.Equal(callee.Params[i]) {
			fc.diags.Errorf(fc.file, pos, diagnostics.RuleSemTypeMismatch,
				"argument %d to '%s': expected %s, got %s", i+1, callee.Decl.Name.Name, callee.Params[i], at)
		}
	}
}

// ============================================================================
// match exhaustiveness (spec.md §4.3 check 6)
// ============================================================================

func (fc *funcChecker) checkMatch(x *ast.MatchExpr) Type {
	scrutinee := fc.checkExpr(x.Scrutinee)

	var coverage *variantCoverage
	switch scrutinee.Kind {
	case TResult:
		coverage = newVariantCoverage("Ok", "Error")
	case TOption:
		coverage = newVariantCoverage("Some", "None")
	}

	result := Unknown()
	hasWildcard := false
	for i, arm := range x.Arms {
		if coverage != nil {
			coverage.observe(arm.Pattern)
		}
		if _, ok := arm.Pattern.(*ast.WildcardPattern); ok {
			hasWildcard = true
		}
		armFc := &funcChecker{Checker: fc.Checker, module: fc.module, sig: fc.sig, scope: fc.scope.child()}
		armFc.bindPattern(arm.Pattern, scrutinee)
		t := armFc.checkExpr(arm.Body)
		if i == 0 {
			result = t
		}
	}

	if coverage != nil {
		if missing := coverage.missing(); len(missing) > 0 {
			fc.diags.Errorf(fc.file, x.StartPos, diagnostics.RuleSemNonExhaustiveMatch,
				"match is not exhaustive: missing %v", missing)
		}
	} else if !hasWildcard {
		// spec.md §4.3 check 6: exhaustiveness is required for Result and
		// Option; any other scrutinee type must instead carry a wildcard arm.
		fc.diags.Errorf(fc.file, x.StartPos, diagnostics.RuleSemNonExhaustiveMatch,
			"match over a non-Result/Option value requires a wildcard arm")
	}
	return result
}

func (fc *funcChecker) bindPattern(pat ast.Pattern, scrutinee Type) {
	switch p := pat.(type) {
	case *ast.OkPattern:
		if scrutinee.Kind == TResult {
			fc.scope.define(p.Binding.Name, *scrutinee.Value)
		} else {
			fc.scope.define(p.Binding.Name, Unknown())
		}
	case *ast.ErrPattern:
		if scrutinee.Kind == TResult {
			fc.scope.define(p.Binding.Name, *scrutinee.Error)
		} else {
			fc.scope.define(p.Binding.Name, Unknown())
		}
	case *ast.SomePattern:
		if scrutinee.Kind == TOption {
			fc.scope.define(p.Binding.Name, *scrutinee.Value)
		} else {
			fc.scope.define(p.Binding.Name, Unknown())
		}
	}
}
