package generator

import "github.com/cadenzalang/cadenzac/pkg/ast"

// precedence ranks a binary operator from loosest (0) to tightest. It
// mirrors the parser's own precedence-climbing tiers (pkg/parser/expr.go)
// so the generator's parenthesization decisions match what the parser
// accepted without parentheses.
func precedence(op ast.BinaryOp) int {
	switch op {
	case ast.BOr:
		return 0
	case ast.BAnd:
		return 1
	case ast.BEq, ast.BNeq:
		return 2
	case ast.BLt, ast.BGt, ast.BLe, ast.BGe:
		return 3
	case ast.BAdd, ast.BSub:
		return 4
	case ast.BMul, ast.BDiv:
		return 5
	default:
		return 0
	}
}

// needsParens implements spec.md §4.4's parenthesization rule: a child
// sub-expression is wrapped iff it is itself Binary with strictly lower
// precedence than the parent, or equal precedence sitting where the
// parser's left-associative grammar would otherwise regroup it (the right
// operand of a same-precedence operator).
func needsParens(child ast.Expr, parentOp ast.BinaryOp, isRightOperand bool) bool {
	childBin, ok := child.(*ast.BinaryExpr)
	if !ok {
		return false
	}
	childPrec := precedence(childBin.Op)
	parentPrec := precedence(parentOp)
	if childPrec < parentPrec {
		return true
	}
	if childPrec == parentPrec && isRightOperand {
		return true
	}
	return false
}
