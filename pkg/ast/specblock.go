package ast

import (
	"strings"

	"github.com/cadenzalang/cadenzac/pkg/token"
	"gopkg.in/yaml.v3"
)

// specBlockYAML mirrors the YAML-like body spec.md §4.1 says a `/*spec`
// block carries: keys `intent`, `rules`, `postconditions`, `source_doc`.
type specBlockYAML struct {
	Intent         string   `yaml:"intent"`
	Rules          []string `yaml:"rules"`
	Postconditions []string `yaml:"postconditions"`
	SourceDoc      string   `yaml:"source_doc"`
}

// ParseSpecBlock decodes the raw payload of a `/*spec ... */` block (the
// lexer hands this over as an opaque string, spec.md §4.1) into a
// SpecBlock. A payload that fails to parse as YAML still produces a
// SpecBlock: its Intent becomes the raw text, since preserving human intent
// verbatim is the whole point of the feature (spec.md Glossary).
func ParseSpecBlock(raw string, start, end token.Position) *SpecBlock {
	var body specBlockYAML
	if err := yaml.Unmarshal([]byte(raw), &body); err != nil {
		return &SpecBlock{
			Intent:   strings.TrimSpace(raw),
			StartPos: start,
			EndPos:   end,
		}
	}

	return &SpecBlock{
		Intent:         strings.TrimSpace(body.Intent),
		Rules:          body.Rules,
		Postconditions: body.Postconditions,
		SourceDoc:      strings.TrimSpace(body.SourceDoc),
		StartPos:       start,
		EndPos:         end,
	}
}
