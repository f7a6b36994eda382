package parser

import (
	"strconv"

	"github.com/cadenzalang/cadenzac/pkg/ast"
	"github.com/cadenzalang/cadenzac/pkg/lexer"
	"github.com/cadenzalang/cadenzac/pkg/token"
)

// ============================================================================
// Blocks and statements
// ============================================================================

func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.expect(token.LBRACE).Pos
	b := &ast.BlockStmt{StartPos: start}
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		before := p.pos
		s := p.parseStmt()
		if s != nil {
			b.Stmts = append(b.Stmts, s)
		}
		if p.pos == before {
			p.advance()
			p.syncInBlock()
		}
	}
	end := p.expect(token.RBRACE).Pos
	b.EndPos = end
	return b
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.curKind() {
	case token.LET:
		return p.parseLetStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.IF:
		return p.parseIfStmt()
	case token.GUARD:
		return p.parseGuardStmt()
	case token.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseLetStmt() *ast.LetStmt {
	start := p.expect(token.LET).Pos
	name := p.parseIdent()
	p.expect(token.ASSIGN)
	value := p.parseExpr()
	p.match(token.SEMI)
	return &ast.LetStmt{Name: name, Value: value, StartPos: start, EndPos: p.cur().Pos}
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.expect(token.RETURN).Pos
	var value ast.Expr
	if !p.check(token.RBRACE) && !p.check(token.SEMI) && !p.check(token.EOF) {
		value = p.parseExpr()
	}
	p.match(token.SEMI)
	return &ast.ReturnStmt{Value: value, StartPos: start, EndPos: p.cur().Pos}
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.expect(token.IF).Pos
	cond := p.parseExpr()
	then := p.parseBlock()
	ifs := &ast.IfStmt{Cond: cond, Then: then, StartPos: start, EndPos: then.EndPos}
	if p.match(token.ELSE) {
		elseBlock := p.parseBlock()
		ifs.Else = elseBlock
		ifs.EndPos = elseBlock.EndPos
	}
	return ifs
}

// parseGuardStmt parses `guard cond else { block }` (spec.md §3, invariant
// 4: the else block must not fall through — that is checked in pkg/sema,
// not here).
func (p *Parser) parseGuardStmt() *ast.GuardStmt {
	start := p.expect(token.GUARD).Pos
	cond := p.parseExpr()
	p.expect(token.ELSE)
	elseBlock := p.parseBlock()
	return &ast.GuardStmt{Cond: cond, Else: elseBlock, StartPos: start, EndPos: elseBlock.EndPos}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.cur().Pos
	x := p.parseExpr()
	p.match(token.SEMI)
	if x == nil {
		return nil
	}
	_ = start
	return &ast.ExprStmt{X: x}
}

// ============================================================================
// Expressions: precedence climbing
//   or -> and -> eq -> cmp -> add -> mul -> unary -> postfix(?) -> call -> primary
// ============================================================================

func (p *Parser) parseExpr() ast.Expr {
	return p.parseMatchOrOr()
}

func (p *Parser) parseMatchOrOr() ast.Expr {
	if p.check(token.MATCH) {
		return p.parseMatchExpr()
	}
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.check(token.OR) {
		start := p.advance().Pos
		right := p.parseAnd()
		left = &ast.BinaryExpr{Left: left, Op: ast.BOr, Right: right, StartPos: left.Pos(), EndPos: right.End()}
		_ = start
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.check(token.AND) {
		p.advance()
		right := p.parseEquality()
		left = &ast.BinaryExpr{Left: left, Op: ast.BAnd, Right: right, StartPos: left.Pos(), EndPos: right.End()}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for p.check(token.EQ) || p.check(token.NEQ) {
		op := ast.BEq
		if p.curKind() == token.NEQ {
			op = ast.BNeq
		}
		p.advance()
		right := p.parseComparison()
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right, StartPos: left.Pos(), EndPos: right.End()}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdd()
	for p.check(token.LT) || p.check(token.GT) || p.check(token.LE) || p.check(token.GE) {
		var op ast.BinaryOp
		switch p.curKind() {
		case token.LT:
			op = ast.BLt
		case token.GT:
			op = ast.BGt
		case token.LE:
			op = ast.BLe
		case token.GE:
			op = ast.BGe
		}
		p.advance()
		right := p.parseAdd()
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right, StartPos: left.Pos(), EndPos: right.End()}
	}
	return left
}

func (p *Parser) parseAdd() ast.Expr {
	left := p.parseMul()
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := ast.BAdd
		if p.curKind() == token.MINUS {
			op = ast.BSub
		}
		p.advance()
		right := p.parseMul()
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right, StartPos: left.Pos(), EndPos: right.End()}
	}
	return left
}

func (p *Parser) parseMul() ast.Expr {
	left := p.parseUnary()
	for p.check(token.STAR) || p.check(token.SLASH) {
		op := ast.BMul
		if p.curKind() == token.SLASH {
			op = ast.BDiv
		}
		p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Left: left, Op: op, Right: right, StartPos: left.Pos(), EndPos: right.End()}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.check(token.MINUS) || p.check(token.BANG) {
		start := p.cur().Pos
		op := ast.UNeg
		if p.curKind() == token.BANG {
			op = ast.UNot
		}
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Op: op, X: x, StartPos: start, EndPos: x.End()}
	}
	return p.parsePostfix()
}

// parsePostfix handles the error-propagation operator `expr?` and indexing
// `expr[i]`, both of which bind tighter than the binary operators but
// looser than a call's own argument list (spec.md §3, §4.2).
func (p *Parser) parsePostfix() ast.Expr {
	x := p.parseCall()
	for {
		switch p.curKind() {
		case token.QUESTION:
			end := p.advance().Pos
			x = &ast.ErrorPropagationExpr{X: x, StartPos: x.Pos(), EndPos: end}
		case token.LBRACKET:
			p.advance()
			idx := p.parseExpr()
			end := p.expect(token.RBRACKET).Pos
			x = &ast.IndexExpr{Target: x, Index: idx, StartPos: x.Pos(), EndPos: end}
		default:
			return x
		}
	}
}

func (p *Parser) parseCall() ast.Expr {
	return p.parsePrimary()
}

func (p *Parser) parseArgs() []ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Expr
	for !p.check(token.RPAREN) && !p.check(token.EOF) {
		args = append(args, p.parseExpr())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur().Pos
	switch p.curKind() {
	case token.INT:
		lex := p.advance().Lexeme
		v, _ := strconv.ParseInt(lex, 10, 64)
		return &ast.IntLit{Value: v, StartPos: start, EndPos: p.cur().Pos}

	case token.STRING:
		lex := p.advance().Lexeme
		return &ast.StringLit{Value: lex, StartPos: start, EndPos: p.cur().Pos}

	case token.INTERP_STRING:
		lex := p.advance().Lexeme
		return p.parseInterpolated(lex, start)

	case token.TRUE:
		p.advance()
		return &ast.BoolLit{Value: true, StartPos: start, EndPos: p.cur().Pos}

	case token.FALSE:
		p.advance()
		return &ast.BoolLit{Value: false, StartPos: start, EndPos: p.cur().Pos}

	case token.OK:
		p.advance()
		args := p.parseArgs()
		return wrapSingle(args, func(e ast.Expr) ast.Expr {
			return &ast.OkExpr{X: e, StartPos: start, EndPos: p.cur().Pos}
		}, start, p.cur().Pos)

	case token.ERROR:
		p.advance()
		args := p.parseArgs()
		return wrapSingle(args, func(e ast.Expr) ast.Expr {
			return &ast.ErrExpr{X: e, StartPos: start, EndPos: p.cur().Pos}
		}, start, p.cur().Pos)

	case token.SOME:
		p.advance()
		args := p.parseArgs()
		return wrapSingle(args, func(e ast.Expr) ast.Expr {
			return &ast.SomeExpr{X: e, StartPos: start, EndPos: p.cur().Pos}
		}, start, p.cur().Pos)

	case token.NONE:
		p.advance()
		return &ast.NoneExpr{StartPos: start, EndPos: p.cur().Pos}

	case token.LBRACKET:
		p.advance()
		var elems []ast.Expr
		for !p.check(token.RBRACKET) && !p.check(token.EOF) {
			elems = append(elems, p.parseExpr())
			if !p.match(token.COMMA) {
				break
			}
		}
		end := p.expect(token.RBRACKET).Pos
		return &ast.ListLit{Elems: elems, StartPos: start, EndPos: end}

	case token.LPAREN:
		p.advance()
		x := p.parseExpr()
		p.expect(token.RPAREN)
		return x

	case token.IDENT:
		name := p.parseIdent()
		if p.match(token.DOT) {
			member := p.parseIdent()
			if p.check(token.LPAREN) {
				args := p.parseArgs()
				return &ast.QualifiedCallExpr{Module: name, Name: member, Args: args, StartPos: start, EndPos: p.cur().Pos}
			}
			p.unexpected("expected '(' after qualified member reference")
			return name
		}
		if p.check(token.LPAREN) {
			args := p.parseArgs()
			return &ast.CallExpr{Callee: name, Args: args, StartPos: start, EndPos: p.cur().Pos}
		}
		return name

	default:
		p.unexpected("expected an expression")
		p.advance()
		return &ast.Ident{Name: "", StartPos: start, EndPos: start}
	}
}

// wrapSingle enforces that Ok/Error/Some take exactly one argument
// (spec.md §3); on arity mismatch it still returns a node so parsing can
// continue.
func wrapSingle(args []ast.Expr, wrap func(ast.Expr) ast.Expr, start, end token.Position) ast.Expr {
	if len(args) == 1 {
		return wrap(args[0])
	}
	var x ast.Expr = &ast.Ident{Name: "", StartPos: start, EndPos: end}
	if len(args) > 0 {
		x = args[0]
	}
	return wrap(x)
}

// parseInterpolated re-lexes and re-parses each `{expr}` fragment embedded
// in an interpolated string's raw lexeme (spec.md §3, §4.1).
func (p *Parser) parseInterpolated(raw string, start token.Position) *ast.InterpolatedStringExpr {
	node := &ast.InterpolatedStringExpr{StartPos: start}
	var lit []rune
	runes := []rune(raw)
	i := 0
	for i < len(runes) {
		if runes[i] == '{' {
			if len(lit) > 0 {
				node.Parts = append(node.Parts, ast.InterpPart{Literal: string(lit)})
				lit = nil
			}
			depth := 1
			j := i + 1
			for j < len(runes) && depth > 0 {
				switch runes[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth == 0 {
					break
				}
				j++
			}
			sub := string(runes[i+1 : j])
			toks, subDiags := lexer.New("<interpolation>", []byte(sub)).Lex()
			expr, parseDiags := ParseExpr("<interpolation>", toks)
			p.diags.Merge(subDiags)
			p.diags.Merge(parseDiags)
			node.Parts = append(node.Parts, ast.InterpPart{Expr: expr})
			i = j + 1
			continue
		}
		lit = append(lit, runes[i])
		i++
	}
	if len(lit) > 0 {
		node.Parts = append(node.Parts, ast.InterpPart{Literal: string(lit)})
	}
	node.EndPos = p.cur().Pos
	return node
}

// ============================================================================
// match
// ============================================================================

func (p *Parser) parseMatchExpr() *ast.MatchExpr {
	start := p.expect(token.MATCH).Pos
	scrutinee := p.parseOr()
	p.expect(token.LBRACE)
	m := &ast.MatchExpr{Scrutinee: scrutinee, StartPos: start}
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		arm := p.parseMatchArm()
		m.Arms = append(m.Arms, arm)
		p.match(token.COMMA)
	}
	end := p.expect(token.RBRACE).Pos
	m.EndPos = end
	return m
}

func (p *Parser) parseMatchArm() *ast.MatchArm {
	start := p.cur().Pos
	pat := p.parsePattern()
	p.expect(token.ARROW)
	body := p.parseExpr()
	return &ast.MatchArm{Pattern: pat, Body: body, StartPos: start, EndPos: body.End()}
}

func (p *Parser) parsePattern() ast.Pattern {
	start := p.cur().Pos
	switch p.curKind() {
	case token.OK:
		p.advance()
		p.expect(token.LPAREN)
		binding := p.parseIdent()
		end := p.expect(token.RPAREN).Pos
		return &ast.OkPattern{Binding: binding, StartPos: start, EndPos: end}

	case token.ERROR:
		p.advance()
		p.expect(token.LPAREN)
		binding := p.parseIdent()
		end := p.expect(token.RPAREN).Pos
		return &ast.ErrPattern{Binding: binding, StartPos: start, EndPos: end}

	case token.SOME:
		p.advance()
		p.expect(token.LPAREN)
		binding := p.parseIdent()
		end := p.expect(token.RPAREN).Pos
		return &ast.SomePattern{Binding: binding, StartPos: start, EndPos: end}

	case token.NONE:
		p.advance()
		return &ast.NonePattern{StartPos: start, EndPos: p.cur().Pos}

	case token.IDENT:
		if p.cur().Lexeme == "_" {
			p.advance()
			return &ast.WildcardPattern{StartPos: start, EndPos: p.cur().Pos}
		}
		p.unexpected("expected a pattern")
		p.advance()
		return &ast.WildcardPattern{StartPos: start, EndPos: start}

	case token.INT, token.STRING, token.TRUE, token.FALSE:
		v := p.parsePrimary()
		return &ast.LiteralPattern{Value: v, StartPos: start, EndPos: v.End()}

	default:
		p.unexpected("expected a pattern")
		p.advance()
		return &ast.WildcardPattern{StartPos: start, EndPos: start}
	}
}
