package generator

// Provenance markers identify which emitted doc comment came from a
// preserved `/*spec ... */` block (spec.md §4.1, Glossary) versus one the
// generator inferred itself (purity/effects). Downstream tooling can grep
// for these to tell human-authored intent apart from generated text.
const (
	specBlockMarkerStart = "// cadenza:spec-block:start"
	specBlockMarkerEnd   = "// cadenza:spec-block:end"
)
