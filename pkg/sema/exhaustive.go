package sema

import "github.com/cadenzalang/cadenzac/pkg/ast"

// variantCoverage checks whether a match's arm patterns cover every variant
// of a single-constructor scrutinee type (Result: Ok/Error, Option:
// Some/None). This generalizes the teacher's tuple-arity decision-tree
// exhaustiveness check to Cadenza's single-position Result/Option
// discriminant (spec.md §4.3 check 6): a wildcard, once present, covers
// every remaining variant, so the check is "seen-set union wildcard
// superset-of-required-set" rather than a full tree walk.
type variantCoverage struct {
	required []string
	seen     map[string]bool
	wildcard bool
}

func newVariantCoverage(required ...string) *variantCoverage {
	return &variantCoverage{required: required, seen: make(map[string]bool)}
}

func (c *variantCoverage) observe(pat ast.Pattern) {
	switch pat.(type) {
	case *ast.OkPattern:
		c.seen["Ok"] = true
	case *ast.ErrPattern:
		c.seen["Error"] = true
	case *ast.SomePattern:
		c.seen["Some"] = true
	case *ast.NonePattern:
		c.seen["None"] = true
	case *ast.WildcardPattern:
		c.wildcard = true
	}
}

func (c *variantCoverage) missing() []string {
	if c.wildcard {
		return nil
	}
	var missing []string
	for _, v := range c.required {
		if !c.seen[v] {
			missing = append(missing, v)
		}
	}
	return missing
}
