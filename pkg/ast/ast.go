// Package ast defines the Cadenza abstract syntax tree: a closed set of
// tagged-variant node types (spec.md §3). Nodes are immutable once the
// parser returns; the semantic checker annotates a side table keyed by
// node identity rather than mutating the tree (spec.md §3, Lifecycle).
package ast

import "github.com/cadenzalang/cadenzac/pkg/token"

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() token.Position
	End() token.Position
	String() string
}

// Decl is a top-level item: a module declaration, import, or function.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement inside a function body.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// TypeExpr is a type reference.
type TypeExpr interface {
	Node
	typeExprNode()
}

// Pattern is a match-arm pattern.
type Pattern interface {
	Node
	patternNode()
}

// ============================================================================
// Compilation unit
// ============================================================================

// File is a single compilation unit: the contents of one .cdz file.
type File struct {
	Items    []Decl
	StartPos token.Position
	EndPos   token.Position
}

func (f *File) Pos() token.Position { return f.StartPos }
func (f *File) End() token.Position { return f.EndPos }
func (f *File) String() string      { return "file" }

// ============================================================================
// Top-level declarations
// ============================================================================

// Ident is an identifier reference or binding occurrence.
type Ident struct {
	Name     string
	StartPos token.Position
	EndPos   token.Position
}

func (i *Ident) Pos() token.Position { return i.StartPos }
func (i *Ident) End() token.Position { return i.EndPos }
func (i *Ident) String() string      { return i.Name }
func (i *Ident) exprNode()           {}

// ModuleDecl is `module Name { items... export { a, b } }`.
// Exports is nil when no export list was given, meaning every function
// declared at module scope is exported (spec.md §3).
type ModuleDecl struct {
	Name     *Ident
	Body     []Decl
	Exports  []*Ident
	StartPos token.Position
	EndPos   token.Position
}

func (m *ModuleDecl) Pos() token.Position { return m.StartPos }
func (m *ModuleDecl) End() token.Position { return m.EndPos }
func (m *ModuleDecl) String() string      { return "module " + m.Name.Name }
func (m *ModuleDecl) declNode()           {}

// ImportShape distinguishes the three import forms in spec.md §3.
type ImportShape int

const (
	ImportAll  ImportShape = iota // import M.*
	ImportOnly                    // import M.{a, b}
	ImportBare                    // import M
)

// ImportDecl is a top-level import statement.
type ImportDecl struct {
	ModuleName *Ident
	Shape      ImportShape
	Names      []*Ident // populated when Shape == ImportOnly
	StartPos   token.Position
	EndPos     token.Position
}

func (i *ImportDecl) Pos() token.Position { return i.StartPos }
func (i *ImportDecl) End() token.Position { return i.EndPos }
func (i *ImportDecl) String() string      { return "import " + i.ModuleName.Name }
func (i *ImportDecl) declNode()           {}

// Param is a single function parameter `name: type`.
type Param struct {
	Name     *Ident
	Type     TypeExpr
	StartPos token.Position
	EndPos   token.Position
}

func (p *Param) Pos() token.Position { return p.StartPos }
func (p *Param) End() token.Position { return p.EndPos }
func (p *Param) String() string      { return p.Name.Name }

// FuncDecl is a function declaration (spec.md §3).
type FuncDecl struct {
	Name       *Ident
	IsPure     bool
	Params     []*Param
	ReturnType TypeExpr
	Effects    []token.Effect // effects named in the `uses [...]` clause
	HasUses    bool           // distinguishes "no uses clause" from "uses []"
	Body       *BlockStmt
	Spec       *SpecBlock // optional /*spec ... */ block
	StartPos   token.Position
	EndPos     token.Position
}

func (f *FuncDecl) Pos() token.Position { return f.StartPos }
func (f *FuncDecl) End() token.Position { return f.EndPos }
func (f *FuncDecl) String() string      { return "function " + f.Name.Name }
func (f *FuncDecl) declNode()           {}

// SpecBlock is the structured `/*spec ... */` comment preserved alongside a
// function declaration (spec.md §4.1, Glossary).
type SpecBlock struct {
	Intent         string
	Rules          []string
	Postconditions []string
	SourceDoc      string
	StartPos       token.Position
	EndPos         token.Position
}

func (s *SpecBlock) Pos() token.Position { return s.StartPos }
func (s *SpecBlock) End() token.Position { return s.EndPos }
func (s *SpecBlock) String() string      { return "spec block" }

// ============================================================================
// Type expressions
// ============================================================================

// Primitive is one of the three built-in scalar types.
type Primitive string

const (
	IntType    Primitive = "int"
	StringType Primitive = "string"
	BoolType   Primitive = "bool"
)

// PrimitiveType is `int`, `string`, or `bool`.
type PrimitiveType struct {
	Kind     Primitive
	StartPos token.Position
	EndPos   token.Position
}

func (p *PrimitiveType) Pos() token.Position { return p.StartPos }
func (p *PrimitiveType) End() token.Position { return p.EndPos }
func (p *PrimitiveType) String() string      { return string(p.Kind) }
func (p *PrimitiveType) typeExprNode()       {}

// ResultType is `Result<T, E>`.
type ResultType struct {
	Value    TypeExpr
	Error    TypeExpr
	StartPos token.Position
	EndPos   token.Position
}

func (r *ResultType) Pos() token.Position { return r.StartPos }
func (r *ResultType) End() token.Position { return r.EndPos }
func (r *ResultType) String() string {
	return "Result<" + r.Value.String() + ", " + r.Error.String() + ">"
}
func (r *ResultType) typeExprNode() {}

// OptionType is `Option<T>`.
type OptionType struct {
	Value    TypeExpr
	StartPos token.Position
	EndPos   token.Position
}

func (o *OptionType) Pos() token.Position { return o.StartPos }
func (o *OptionType) End() token.Position { return o.EndPos }
func (o *OptionType) String() string      { return "Option<" + o.Value.String() + ">" }
func (o *OptionType) typeExprNode()       {}

// ListType is `List<T>`.
type ListType struct {
	Elem     TypeExpr
	StartPos token.Position
	EndPos   token.Position
}

func (l *ListType) Pos() token.Position { return l.StartPos }
func (l *ListType) End() token.Position { return l.EndPos }
func (l *ListType) String() string      { return "List<" + l.Elem.String() + ">" }
func (l *ListType) typeExprNode()       {}

// NamedType is a reference to a user-defined or imported type name.
type NamedType struct {
	Name     string
	StartPos token.Position
	EndPos   token.Position
}

func (n *NamedType) Pos() token.Position { return n.StartPos }
func (n *NamedType) End() token.Position { return n.EndPos }
func (n *NamedType) String() string      { return n.Name }
func (n *NamedType) typeExprNode()       {}

// ============================================================================
// Statements
// ============================================================================

// BlockStmt is `{ stmt... }`.
type BlockStmt struct {
	Stmts    []Stmt
	StartPos token.Position
	EndPos   token.Position
}

func (b *BlockStmt) Pos() token.Position { return b.StartPos }
func (b *BlockStmt) End() token.Position { return b.EndPos }
func (b *BlockStmt) String() string      { return "block" }
func (b *BlockStmt) stmtNode()           {}

// LetStmt is `let name = expr`.
type LetStmt struct {
	Name     *Ident
	Value    Expr
	StartPos token.Position
	EndPos   token.Position
}

func (l *LetStmt) Pos() token.Position { return l.StartPos }
func (l *LetStmt) End() token.Position { return l.EndPos }
func (l *LetStmt) String() string      { return "let " + l.Name.Name }
func (l *LetStmt) stmtNode()           {}

// ReturnStmt is `return expr`.
type ReturnStmt struct {
	Value    Expr
	StartPos token.Position
	EndPos   token.Position
}

func (r *ReturnStmt) Pos() token.Position { return r.StartPos }
func (r *ReturnStmt) End() token.Position { return r.EndPos }
func (r *ReturnStmt) String() string      { return "return" }
func (r *ReturnStmt) stmtNode()           {}

// IfStmt is `if cond { then } else { else }`.
type IfStmt struct {
	Cond     Expr
	Then     *BlockStmt
	Else     *BlockStmt // nil when there is no else branch
	StartPos token.Position
	EndPos   token.Position
}

func (i *IfStmt) Pos() token.Position { return i.StartPos }
func (i *IfStmt) End() token.Position { return i.EndPos }
func (i *IfStmt) String() string      { return "if" }
func (i *IfStmt) stmtNode()           {}

// GuardStmt is `guard cond else { block }` (spec.md §3, invariant 4).
type GuardStmt struct {
	Cond     Expr
	Else     *BlockStmt
	StartPos token.Position
	EndPos   token.Position
}

func (g *GuardStmt) Pos() token.Position { return g.StartPos }
func (g *GuardStmt) End() token.Position { return g.EndPos }
func (g *GuardStmt) String() string      { return "guard" }
func (g *GuardStmt) stmtNode()           {}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	X Expr
}

func (e *ExprStmt) Pos() token.Position { return e.X.Pos() }
func (e *ExprStmt) End() token.Position { return e.X.End() }
func (e *ExprStmt) String() string      { return "expr stmt" }
func (e *ExprStmt) stmtNode()           {}

// ============================================================================
// Expressions
// ============================================================================

// IntLit is an integer literal.
type IntLit struct {
	Value    int64
	StartPos token.Position
	EndPos   token.Position
}

func (i *IntLit) Pos() token.Position { return i.StartPos }
func (i *IntLit) End() token.Position { return i.EndPos }
func (i *IntLit) String() string      { return "int literal" }
func (i *IntLit) exprNode()           {}

// StringLit is a plain (non-interpolated) string literal. Value holds the
// already-unescaped text.
type StringLit struct {
	Value    string
	StartPos token.Position
	EndPos   token.Position
}

func (s *StringLit) Pos() token.Position { return s.StartPos }
func (s *StringLit) End() token.Position { return s.EndPos }
func (s *StringLit) String() string      { return "string literal" }
func (s *StringLit) exprNode()           {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value    bool
	StartPos token.Position
	EndPos   token.Position
}

func (b *BoolLit) Pos() token.Position { return b.StartPos }
func (b *BoolLit) End() token.Position { return b.EndPos }
func (b *BoolLit) String() string      { return "bool literal" }
func (b *BoolLit) exprNode()           {}

// InterpPart is one fragment of an interpolated string: either a literal
// text fragment (Expr == nil) or a re-parsed sub-expression (Literal == "").
type InterpPart struct {
	Literal string
	Expr    Expr
}

// InterpolatedStringExpr is `$"...{expr}..."` (spec.md §3).
type InterpolatedStringExpr struct {
	Parts    []InterpPart
	StartPos token.Position
	EndPos   token.Position
}

func (i *InterpolatedStringExpr) Pos() token.Position { return i.StartPos }
func (i *InterpolatedStringExpr) End() token.Position { return i.EndPos }
func (i *InterpolatedStringExpr) String() string      { return "interpolated string" }
func (i *InterpolatedStringExpr) exprNode()           {}

// BinaryOp is the closed set of binary operators.
type BinaryOp int

const (
	BAdd BinaryOp = iota
	BSub
	BMul
	BDiv
	BLt
	BGt
	BLe
	BGe
	BEq
	BNeq
	BAnd
	BOr
)

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	Left     Expr
	Op       BinaryOp
	Right    Expr
	StartPos token.Position
	EndPos   token.Position
}

func (b *BinaryExpr) Pos() token.Position { return b.StartPos }
func (b *BinaryExpr) End() token.Position { return b.EndPos }
func (b *BinaryExpr) String() string      { return "binary expr" }
func (b *BinaryExpr) exprNode()           {}

// UnaryOp is the closed set of unary operators.
type UnaryOp int

const (
	UNeg UnaryOp = iota // -x
	UNot                // !x
)

// UnaryExpr is `op operand`.
type UnaryExpr struct {
	Op       UnaryOp
	X        Expr
	StartPos token.Position
	EndPos   token.Position
}

func (u *UnaryExpr) Pos() token.Position { return u.StartPos }
func (u *UnaryExpr) End() token.Position { return u.EndPos }
func (u *UnaryExpr) String() string      { return "unary expr" }
func (u *UnaryExpr) exprNode()           {}

// CallExpr is `callee(args...)` for an unqualified callee.
type CallExpr struct {
	Callee   *Ident
	Args     []Expr
	StartPos token.Position
	EndPos   token.Position
}

func (c *CallExpr) Pos() token.Position { return c.StartPos }
func (c *CallExpr) End() token.Position { return c.EndPos }
func (c *CallExpr) String() string      { return "call " + c.Callee.Name }
func (c *CallExpr) exprNode()           {}

// QualifiedCallExpr is `Module.name(args...)`.
type QualifiedCallExpr struct {
	Module   *Ident
	Name     *Ident
	Args     []Expr
	StartPos token.Position
	EndPos   token.Position
}

func (q *QualifiedCallExpr) Pos() token.Position { return q.StartPos }
func (q *QualifiedCallExpr) End() token.Position { return q.EndPos }
func (q *QualifiedCallExpr) String() string {
	return "call " + q.Module.Name + "." + q.Name.Name
}
func (q *QualifiedCallExpr) exprNode() {}

// ListLit is `[e1, e2, ...]`.
type ListLit struct {
	Elems    []Expr
	StartPos token.Position
	EndPos   token.Position
}

func (l *ListLit) Pos() token.Position { return l.StartPos }
func (l *ListLit) End() token.Position { return l.EndPos }
func (l *ListLit) String() string      { return "list literal" }
func (l *ListLit) exprNode()           {}

// IndexExpr is `target[index]`.
type IndexExpr struct {
	Target   Expr
	Index    Expr
	StartPos token.Position
	EndPos   token.Position
}

func (i *IndexExpr) Pos() token.Position { return i.StartPos }
func (i *IndexExpr) End() token.Position { return i.EndPos }
func (i *IndexExpr) String() string      { return "index" }
func (i *IndexExpr) exprNode()           {}

// OkExpr is `Ok(e)`.
type OkExpr struct {
	X        Expr
	StartPos token.Position
	EndPos   token.Position
}

func (o *OkExpr) Pos() token.Position { return o.StartPos }
func (o *OkExpr) End() token.Position { return o.EndPos }
func (o *OkExpr) String() string      { return "Ok(...)" }
func (o *OkExpr) exprNode()           {}

// ErrExpr is `Error(e)`.
type ErrExpr struct {
	X        Expr
	StartPos token.Position
	EndPos   token.Position
}

func (e *ErrExpr) Pos() token.Position { return e.StartPos }
func (e *ErrExpr) End() token.Position { return e.EndPos }
func (e *ErrExpr) String() string      { return "Error(...)" }
func (e *ErrExpr) exprNode()           {}

// SomeExpr is `Some(e)`.
type SomeExpr struct {
	X        Expr
	StartPos token.Position
	EndPos   token.Position
}

func (s *SomeExpr) Pos() token.Position { return s.StartPos }
func (s *SomeExpr) End() token.Position { return s.EndPos }
func (s *SomeExpr) String() string      { return "Some(...)" }
func (s *SomeExpr) exprNode()           {}

// NoneExpr is the literal `None`.
type NoneExpr struct {
	StartPos token.Position
	EndPos   token.Position
}

func (n *NoneExpr) Pos() token.Position { return n.StartPos }
func (n *NoneExpr) End() token.Position { return n.EndPos }
func (n *NoneExpr) String() string      { return "None" }
func (n *NoneExpr) exprNode()           {}

// ErrorPropagationExpr is the postfix `expr?` operator (spec.md §3).
type ErrorPropagationExpr struct {
	X        Expr
	StartPos token.Position
	EndPos   token.Position
}

func (e *ErrorPropagationExpr) Pos() token.Position { return e.StartPos }
func (e *ErrorPropagationExpr) End() token.Position { return e.EndPos }
func (e *ErrorPropagationExpr) String() string      { return "error propagation (?)" }
func (e *ErrorPropagationExpr) exprNode()           {}

// MatchExpr is `match scrutinee { arm, arm, ... }`.
type MatchExpr struct {
	Scrutinee Expr
	Arms      []*MatchArm
	StartPos  token.Position
	EndPos    token.Position
}

func (m *MatchExpr) Pos() token.Position { return m.StartPos }
func (m *MatchExpr) End() token.Position { return m.EndPos }
func (m *MatchExpr) String() string      { return "match" }
func (m *MatchExpr) exprNode()           {}

// MatchArm is `pattern -> body`. The arm separator is `->`; `=>` is not
// accepted.
type MatchArm struct {
	Pattern  Pattern
	Body     Expr
	StartPos token.Position
	EndPos   token.Position
}

func (a *MatchArm) Pos() token.Position { return a.StartPos }
func (a *MatchArm) End() token.Position { return a.EndPos }
func (a *MatchArm) String() string      { return "arm" }

// ============================================================================
// Patterns
// ============================================================================

// OkPattern is `Ok(name)`.
type OkPattern struct {
	Binding  *Ident
	StartPos token.Position
	EndPos   token.Position
}

func (p *OkPattern) Pos() token.Position { return p.StartPos }
func (p *OkPattern) End() token.Position { return p.EndPos }
func (p *OkPattern) String() string      { return "Ok(" + p.Binding.Name + ")" }
func (p *OkPattern) patternNode()        {}

// ErrPattern is `Error(name)`.
type ErrPattern struct {
	Binding  *Ident
	StartPos token.Position
	EndPos   token.Position
}

func (p *ErrPattern) Pos() token.Position { return p.StartPos }
func (p *ErrPattern) End() token.Position { return p.EndPos }
func (p *ErrPattern) String() string      { return "Error(" + p.Binding.Name + ")" }
func (p *ErrPattern) patternNode()        {}

// SomePattern is `Some(name)`.
type SomePattern struct {
	Binding  *Ident
	StartPos token.Position
	EndPos   token.Position
}

func (p *SomePattern) Pos() token.Position { return p.StartPos }
func (p *SomePattern) End() token.Position { return p.EndPos }
func (p *SomePattern) String() string      { return "Some(" + p.Binding.Name + ")" }
func (p *SomePattern) patternNode()        {}

// NonePattern is `None`.
type NonePattern struct {
	StartPos token.Position
	EndPos   token.Position
}

func (p *NonePattern) Pos() token.Position { return p.StartPos }
func (p *NonePattern) End() token.Position { return p.EndPos }
func (p *NonePattern) String() string      { return "None" }
func (p *NonePattern) patternNode()        {}

// LiteralPattern matches a literal int/string/bool value.
type LiteralPattern struct {
	Value    Expr
	StartPos token.Position
	EndPos   token.Position
}

func (p *LiteralPattern) Pos() token.Position { return p.StartPos }
func (p *LiteralPattern) End() token.Position { return p.EndPos }
func (p *LiteralPattern) String() string      { return "literal pattern" }
func (p *LiteralPattern) patternNode()        {}

// WildcardPattern is `_`.
type WildcardPattern struct {
	StartPos token.Position
	EndPos   token.Position
}

func (p *WildcardPattern) Pos() token.Position { return p.StartPos }
func (p *WildcardPattern) End() token.Position { return p.EndPos }
func (p *WildcardPattern) String() string      { return "_" }
func (p *WildcardPattern) patternNode()        {}
