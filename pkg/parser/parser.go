// Package parser implements the Cadenza recursive-descent parser
// (spec.md §4.2): token stream in, a compilation-unit AST plus diagnostics
// out. The parser recovers at statement and top-level boundaries so one
// syntax error does not suppress all others.
package parser

import (
	"strconv"

	"github.com/cadenzalang/cadenzac/pkg/ast"
	"github.com/cadenzalang/cadenzac/pkg/diagnostics"
	"github.com/cadenzalang/cadenzac/pkg/token"
)

// Parser consumes a token stream for a single compilation unit. It holds no
// state shared across compilations (spec.md §5).
type Parser struct {
	file  string
	toks  []token.Token
	pos   int
	diags *diagnostics.Sink
}

// New creates a Parser over toks, attributing diagnostics to file. toks
// must be EOF-terminated, as produced by lexer.Lex.
func New(file string, toks []token.Token) *Parser {
	return &Parser{file: file, toks: toks, diags: diagnostics.NewSink()}
}

// ParseFile parses a complete compilation unit (spec.md §4.2 grammar rule
// `unit`).
func ParseFile(file string, toks []token.Token) (*ast.File, *diagnostics.Sink) {
	p := New(file, toks)
	return p.parseFile(), p.diags
}

// ParseExpr parses a single standalone expression, used when re-lexing and
// re-parsing an interpolated string's embedded sub-expressions (spec.md
// §4.1, §4.2).
func ParseExpr(file string, toks []token.Token) (ast.Expr, *diagnostics.Sink) {
	p := New(file, toks)
	expr := p.parseExpr()
	return expr, p.diags
}

// ============================================================================
// Token stream helpers
// ============================================================================

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) curKind() token.Kind { return p.toks[p.pos].Kind }

func (p *Parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.curKind() == k }

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of kind k, or records a diagnostic and returns
// the current token without consuming it.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.check(k) {
		return p.advance()
	}
	cur := p.cur()
	p.diags.Add(diagnostics.Diagnostic{
		Severity: diagnostics.Error,
		Rule:     diagnostics.RuleParseMissingToken,
		Span:     diagnostics.Span{File: p.file, Start: cur.Pos, Length: max(1, len(cur.Lexeme))},
		Lexeme:   cur.Lexeme,
		Message:  "expected " + k.String() + ", found " + describeTok(cur),
	})
	return cur
}

func describeTok(t token.Token) string {
	if t.Kind == token.EOF {
		return "end of file"
	}
	return t.Kind.String() + " " + strconv.Quote(t.Lexeme)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (p *Parser) unexpected(msg string) {
	cur := p.cur()
	p.diags.Add(diagnostics.Diagnostic{
		Severity: diagnostics.Error,
		Rule:     diagnostics.RuleParseUnexpectedToken,
		Span:     diagnostics.Span{File: p.file, Start: cur.Pos, Length: max(1, len(cur.Lexeme))},
		Lexeme:   cur.Lexeme,
		Message:  msg + ": found " + describeTok(cur),
	})
}

// ============================================================================
// Recovery
// ============================================================================

// syncToTopLevel skips tokens until the next function/module/import keyword
// or EOF (spec.md §4.2 recovery policy).
func (p *Parser) syncToTopLevel() {
	for !p.check(token.EOF) {
		switch p.curKind() {
		case token.FUNCTION, token.MODULE, token.IMPORT:
			return
		}
		p.advance()
	}
}

// syncInBlock skips tokens until the next ';' or '}' (spec.md §4.2 recovery
// policy for inside a block).
func (p *Parser) syncInBlock() {
	for !p.check(token.EOF) {
		switch p.curKind() {
		case token.SEMI:
			p.advance()
			return
		case token.RBRACE:
			return
		}
		p.advance()
	}
}

// ============================================================================
// Top level
// ============================================================================

func (p *Parser) parseFile() *ast.File {
	start := p.cur().Pos
	f := &ast.File{StartPos: start}
	for !p.check(token.EOF) {
		before := p.pos
		item := p.parseTopItem()
		if item != nil {
			f.Items = append(f.Items, item)
		}
		if p.pos == before {
			// parseTopItem made no progress: force it so we terminate.
			p.unexpected("expected function, module, or import")
			p.advance()
			p.syncToTopLevel()
		}
	}
	f.EndPos = p.cur().Pos
	return f
}

func (p *Parser) parseTopItem() ast.Decl {
	var spec *ast.SpecBlock
	if p.check(token.SPEC) {
		spec = p.parseSpecBlock()
	}

	switch p.curKind() {
	case token.MODULE:
		return p.parseModule()
	case token.IMPORT:
		return p.parseImport()
	case token.PURE, token.FUNCTION:
		return p.parseFunction(spec)
	default:
		p.unexpected("expected function, module, or import")
		p.syncToTopLevel()
		return nil
	}
}

func (p *Parser) parseSpecBlock() *ast.SpecBlock {
	tok := p.expect(token.SPEC)
	end := tok.Pos
	end.Column += len(tok.Lexeme)
	return ast.ParseSpecBlock(tok.Lexeme, tok.Pos, end)
}

func (p *Parser) parseModule() *ast.ModuleDecl {
	start := p.expect(token.MODULE).Pos
	name := p.parseIdent()
	p.expect(token.LBRACE)

	m := &ast.ModuleDecl{Name: name, StartPos: start}
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		if p.check(token.EXPORT) {
			m.Exports = p.parseExportList()
			continue
		}
		before := p.pos
		item := p.parseTopItem()
		if item != nil {
			m.Body = append(m.Body, item)
		}
		if p.pos == before {
			p.advance()
		}
	}
	end := p.expect(token.RBRACE).Pos
	m.EndPos = end
	return m
}

func (p *Parser) parseExportList() []*ast.Ident {
	p.expect(token.EXPORT)
	p.expect(token.LBRACE)
	var names []*ast.Ident
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		names = append(names, p.parseIdent())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return names
}

func (p *Parser) parseImport() *ast.ImportDecl {
	start := p.expect(token.IMPORT).Pos
	name := p.parseIdent()

	decl := &ast.ImportDecl{ModuleName: name, Shape: ast.ImportBare, StartPos: start}
	if p.match(token.DOT) {
		switch {
		case p.match(token.STAR):
			decl.Shape = ast.ImportAll
		case p.check(token.LBRACE):
			p.advance()
			decl.Shape = ast.ImportOnly
			for !p.check(token.RBRACE) && !p.check(token.EOF) {
				decl.Names = append(decl.Names, p.parseIdent())
				if !p.match(token.COMMA) {
					break
				}
			}
			p.expect(token.RBRACE)
		default:
			p.unexpected("expected '*' or '{' after '.' in import")
		}
	}
	decl.EndPos = p.cur().Pos
	return decl
}

func (p *Parser) parseFunction(spec *ast.SpecBlock) *ast.FuncDecl {
	start := p.cur().Pos
	isPure := p.match(token.PURE)
	p.expect(token.FUNCTION)
	name := p.parseIdent()

	p.expect(token.LPAREN)
	var params []*ast.Param
	for !p.check(token.RPAREN) && !p.check(token.EOF) {
		pStart := p.cur().Pos
		pname := p.parseIdent()
		p.expect(token.COLON)
		ptype := p.parseType()
		params = append(params, &ast.Param{Name: pname, Type: ptype, StartPos: pStart, EndPos: p.cur().Pos})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)

	fn := &ast.FuncDecl{
		Name:     name,
		IsPure:   isPure,
		Params:   params,
		Spec:     spec,
		StartPos: start,
	}

	if p.match(token.USES) {
		fn.HasUses = true
		p.expect(token.LBRACKET)
		for !p.check(token.RBRACKET) && !p.check(token.EOF) {
			e := p.expect(token.IDENT)
			fn.Effects = append(fn.Effects, token.Effect(e.Lexeme))
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACKET)
	}

	p.expect(token.ARROW)
	fn.ReturnType = p.parseType()
	fn.Body = p.parseBlock()
	fn.EndPos = fn.Body.EndPos
	return fn
}

// ============================================================================
// Types
// ============================================================================

func (p *Parser) parseType() ast.TypeExpr {
	start := p.cur().Pos
	switch p.curKind() {
	case token.IDENT:
		name := p.advance().Lexeme
		switch name {
		case string(ast.IntType), string(ast.StringType), string(ast.BoolType):
			return &ast.PrimitiveType{Kind: ast.Primitive(name), StartPos: start, EndPos: p.cur().Pos}
		case "Option":
			p.expect(token.LT)
			value := p.parseType()
			p.expect(token.GT)
			return &ast.OptionType{Value: value, StartPos: start, EndPos: p.cur().Pos}
		case "List":
			p.expect(token.LT)
			elem := p.parseType()
			p.expect(token.GT)
			return &ast.ListType{Elem: elem, StartPos: start, EndPos: p.cur().Pos}
		default:
			return &ast.NamedType{Name: name, StartPos: start, EndPos: p.cur().Pos}
		}
	case token.RESULT:
		p.advance()
		p.expect(token.LT)
		value := p.parseType()
		p.expect(token.COMMA)
		errType := p.parseType()
		p.expect(token.GT)
		return &ast.ResultType{Value: value, Error: errType, StartPos: start, EndPos: p.cur().Pos}
	default:
		p.unexpected("expected a type")
		return &ast.PrimitiveType{Kind: ast.IntType, StartPos: start, EndPos: start}
	}
}

// ============================================================================
// Identifiers
// ============================================================================

func (p *Parser) parseIdent() *ast.Ident {
	start := p.cur().Pos
	if !p.check(token.IDENT) {
		p.unexpected("expected an identifier")
		return &ast.Ident{Name: "", StartPos: start, EndPos: start}
	}
	t := p.advance()
	end := t.Pos
	end.Column += len(t.Lexeme)
	return &ast.Ident{Name: t.Lexeme, StartPos: start, EndPos: end}
}
