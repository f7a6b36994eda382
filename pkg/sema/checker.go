// Package sema implements the Cadenza semantic checker (spec.md §4.3): name
// resolution, purity and effect coverage, Result/Option match exhaustiveness,
// guard termination, and minimal structural type checking. It never panics:
// every check reports one diagnostic per violation and keeps analysing the
// rest of the unit (spec.md §4.3 failure semantics).
package sema

import (
	"github.com/cadenzalang/cadenzac/pkg/ast"
	"github.com/cadenzalang/cadenzac/pkg/diagnostics"
	"github.com/cadenzalang/cadenzac/pkg/token"
)

// FuncSig is a resolved function signature, visible for name resolution
// and call-site checking regardless of where in the file it was declared
// (spec.md §3 invariant 7: same-module functions are mutually visible).
type FuncSig struct {
	Decl    *ast.FuncDecl
	Module  string // "" for a top-level (non-module) function
	IsPure  bool
	Effects map[token.Effect]bool
	Params  []Type
	Return  Type
}

// Result is the output of Check: a side table of annotations plus whatever
// diagnostics were recorded (spec.md §3 Lifecycle — the AST itself is never
// mutated).
type Result struct {
	Types  map[ast.Expr]Type
	Callee map[ast.Expr]*FuncSig
}

// Checker walks one compilation unit. It holds no state shared with any
// other compilation (spec.md §5).
type Checker struct {
	file    string
	diags   *diagnostics.Sink
	funcs   map[string]*FuncSig            // qualified name -> signature
	exports map[string]map[string]bool     // module name -> exported function names
	known   map[string]bool                // module names declared in this file
	res     *Result
}

// Check runs every pass of spec.md §4.3 over file and returns the
// annotation side table plus the accumulated diagnostics.
func Check(file string, f *ast.File) (*Result, *diagnostics.Sink) {
	c := &Checker{
		file:    file,
		diags:   diagnostics.NewSink(),
		funcs:   make(map[string]*FuncSig),
		exports: make(map[string]map[string]bool),
		known:   make(map[string]bool),
		res:     &Result{Types: make(map[ast.Expr]Type), Callee: make(map[ast.Expr]*FuncSig)},
	}
	c.collectModules(f)
	c.collectSignatures(f)
	c.checkImports(f)
	c.checkBodies(f)
	return c.res, c.diags
}

func qualify(module, name string) string {
	if module == "" {
		return name
	}
	return module + "." + name
}

// ============================================================================
// Pass 1: module/export discovery
// ============================================================================

func (c *Checker) collectModules(f *ast.File) {
	for _, item := range f.Items {
		if m, ok := item.(*ast.ModuleDecl); ok {
			c.known[m.Name.Name] = true
			if m.Exports == nil {
				exported := make(map[string]bool)
				for _, body := range m.Body {
					if fn, ok := body.(*ast.FuncDecl); ok {
						exported[fn.Name.Name] = true
					}
				}
				c.exports[m.Name.Name] = exported
			} else {
				exported := make(map[string]bool)
				seen := make(map[string]bool)
				for _, e := range m.Exports {
					if seen[e.Name] {
						c.diags.Add(diagnostics.Diagnostic{
							Severity: diagnostics.Error,
							Rule:     diagnostics.RuleSemDuplicateExport,
							Span:     diagnostics.Span{File: c.file, Start: e.StartPos, Length: len(e.Name)},
							Lexeme:   e.Name,
							Message:  "duplicate export '" + e.Name + "'",
						})
					}
					seen[e.Name] = true
					exported[e.Name] = true
				}
				c.exports[m.Name.Name] = exported
			}
		}
	}
}

// ============================================================================
// Pass 2: function signature registration (two-pass so forward references
// and mutual recursion within a module resolve, per spec.md §3 invariant 7)
// ============================================================================

func (c *Checker) collectSignatures(f *ast.File) {
	for _, item := range f.Items {
		switch decl := item.(type) {
		case *ast.FuncDecl:
			c.registerFunc("", decl)
		case *ast.ModuleDecl:
			for _, body := range decl.Body {
				if fn, ok := body.(*ast.FuncDecl); ok {
					c.registerFunc(decl.Name.Name, fn)
				}
			}
		}
	}
}

func (c *Checker) registerFunc(module string, decl *ast.FuncDecl) {
	effects := make(map[token.Effect]bool)
	for _, e := range decl.Effects {
		if !token.IsValidEffect(string(e)) {
			c.diags.Errorf(c.file, decl.StartPos, diagnostics.RuleSemUnknownEffect,
				"unknown effect '%s': the effect alphabet is Database, Network, Logging, FileSystem, Memory, IO", e)
			continue
		}
		effects[e] = true
	}

	params := make([]Type, len(decl.Params))
	seen := make(map[string]bool)
	for i, p := range decl.Params {
		if seen[p.Name.Name] {
			c.diags.Add(diagnostics.Diagnostic{
				Severity: diagnostics.Error,
				Rule:     diagnostics.RuleSemDuplicateParam,
				Span:     diagnostics.Span{File: c.file, Start: p.StartPos, Length: len(p.Name.Name)},
				Lexeme:   p.Name.Name,
				Message:  "duplicate parameter '" + p.Name.Name + "'",
			})
		}
		seen[p.Name.Name] = true
		params[i] = fromTypeExpr(p.Type)
	}

	sig := &FuncSig{
		Decl:    decl,
		Module:  module,
		IsPure:  decl.IsPure,
		Effects: effects,
		Params:  params,
		Return:  fromTypeExpr(decl.ReturnType),
	}
	c.funcs[qualify(module, decl.Name.Name)] = sig
}

// ============================================================================
// Pass 3: import validation (spec.md §3 invariant 6)
// ============================================================================

// checkImports validates imports against modules declared in the same
// compilation unit. Cadenza compiles one file at a time with no shared
// state across compilations (spec.md §5), so an import naming a module
// declared elsewhere cannot be resolved here; such references are let
// through permissively rather than flagged, since rejecting them would
// make single-file compilation of any multi-file program impossible.
func (c *Checker) checkImports(f *ast.File) {
	for _, item := range f.Items {
		imp, ok := item.(*ast.ImportDecl)
		if !ok {
			continue
		}
		if !c.known[imp.ModuleName.Name] {
			continue
		}
		if imp.Shape != ast.ImportOnly {
			continue
		}
		exported := c.exports[imp.ModuleName.Name]
		for _, name := range imp.Names {
			if !exported[name.Name] {
				c.diags.Errorf(c.file, name.StartPos, diagnostics.RuleSemUnresolvedName,
					"'%s' is not exported by module '%s'", name.Name, imp.ModuleName.Name)
			}
		}
	}
}

// ============================================================================
// Pass 4: per-function body checking
// ============================================================================

func (c *Checker) checkBodies(f *ast.File) {
	for _, item := range f.Items {
		switch decl := item.(type) {
		case *ast.FuncDecl:
			c.checkFunc("", decl)
		case *ast.ModuleDecl:
			for _, body := range decl.Body {
				if fn, ok := body.(*ast.FuncDecl); ok {
					c.checkFunc(decl.Name.Name, fn)
				}
			}
		}
	}
}

func (c *Checker) checkFunc(module string, decl *ast.FuncDecl) {
	sig := c.funcs[qualify(module, decl.Name.Name)]
	if sig.IsPure && len(sig.Effects) > 0 {
		c.diags.ErrorfFix(c.file, decl.StartPos, diagnostics.RuleSemPurityViolated,
			"remove 'pure' or drop the declared effects",
			"function '%s' is marked pure but declares a non-empty effect set", decl.Name.Name)
	}
	fc := &funcChecker{
		Checker: c,
		module:  module,
		sig:     sig,
		scope:   newScope(nil),
	}
	for i, p := range decl.Params {
		fc.scope.define(p.Name.Name, sig.Params[i])
	}
	if decl.Body != nil {
		fc.checkBlock(decl.Body)
	}
}
