// Package sourcemap builds Source Map v3 mappings from Cadenza source
// positions to generated C# positions (spec.md §6 — the compiler tracks
// enough position information that diagnostics against generated code, or
// an external debugger, can be translated back to the .cdz source).
package sourcemap

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	gosourcemap "github.com/go-sourcemap/sourcemap"

	"github.com/cadenzalang/cadenzac/pkg/token"
)

// Generator collects position mappings during code generation.
type Generator struct {
	sourceFile string
	genFile    string
	mappings   []Mapping
}

// Mapping is a single position mapping from Cadenza source to generated C#.
type Mapping struct {
	SourceLine   int
	SourceColumn int
	GenLine      int
	GenColumn    int
	Name         string // optional: identifier at this position
}

// NewGenerator creates a source map generator for one compilation unit.
func NewGenerator(sourceFile, genFile string) *Generator {
	return &Generator{sourceFile: sourceFile, genFile: genFile, mappings: make([]Mapping, 0)}
}

// AddMapping records a position mapping from source to generated code.
func (g *Generator) AddMapping(src, gen token.Position) {
	g.mappings = append(g.mappings, Mapping{
		SourceLine:   src.Line,
		SourceColumn: src.Column,
		GenLine:      gen.Line,
		GenColumn:    gen.Column,
	})
}

// AddMappingWithName records a position mapping with an identifier name.
func (g *Generator) AddMappingWithName(src, gen token.Position, name string) {
	g.mappings = append(g.mappings, Mapping{
		SourceLine:   src.Line,
		SourceColumn: src.Column,
		GenLine:      gen.Line,
		GenColumn:    gen.Column,
		Name:         name,
	})
}

// SourceMapV3 is the Source Map v3 JSON structure.
type SourceMapV3 struct {
	Version    int      `json:"version"`
	File       string   `json:"file"`
	SourceRoot string   `json:"sourceRoot"`
	Sources    []string `json:"sources"`
	Names      []string `json:"names"`
	Mappings   string   `json:"mappings"`
}

// Generate produces a source map in JSON form with VLQ-encoded mappings.
func (g *Generator) Generate() ([]byte, error) {
	sorted := make([]Mapping, len(g.mappings))
	copy(sorted, g.mappings)

	valid := make([]Mapping, 0, len(sorted))
	for _, m := range sorted {
		if m.GenLine >= 1 && m.GenColumn >= 1 && m.SourceLine >= 1 && m.SourceColumn >= 1 {
			valid = append(valid, m)
		}
	}

	for i := 0; i < len(valid); i++ {
		for j := i + 1; j < len(valid); j++ {
			if valid[i].GenLine > valid[j].GenLine ||
				(valid[i].GenLine == valid[j].GenLine && valid[i].GenColumn > valid[j].GenColumn) {
				valid[i], valid[j] = valid[j], valid[i]
			}
		}
	}

	names := g.collectUniqueNames(valid)
	namesIndex := make(map[string]int, len(names))
	for i, n := range names {
		namesIndex[n] = i
	}

	sm := SourceMapV3{
		Version:    3,
		File:       g.genFile,
		SourceRoot: "",
		Sources:    []string{g.sourceFile},
		Names:      names,
		Mappings:   generateVLQMappings(valid, namesIndex),
	}

	data, err := json.MarshalIndent(sm, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal source map: %w", err)
	}
	return data, nil
}

func (g *Generator) collectUniqueNames(mappings []Mapping) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, m := range mappings {
		if m.Name != "" && !seen[m.Name] {
			seen[m.Name] = true
			names = append(names, m.Name)
		}
	}
	return names
}

// GenerateInline produces a base64-encoded inline source map comment,
// suitable for appending to generated C# as `// sourceMappingURL=...`.
func (g *Generator) GenerateInline() (string, error) {
	data, err := g.Generate()
	if err != nil {
		return "", err
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("//# sourceMappingURL=data:application/json;base64,%s", encoded), nil
}

// Consumer resolves generated positions back to source positions.
type Consumer struct {
	sm *gosourcemap.Consumer
}

// NewConsumer parses raw source map JSON into a lookup-capable Consumer.
func NewConsumer(data []byte) (*Consumer, error) {
	sm, err := gosourcemap.Parse("", data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source map: %w", err)
	}
	return &Consumer{sm: sm}, nil
}

// Source looks up the original Cadenza position for a generated C#
// position (1-based line/column).
func (c *Consumer) Source(line, column int) (*token.Position, error) {
	_, _, srcLine, srcCol, ok := c.sm.Source(line-1, column-1)
	if !ok {
		return nil, fmt.Errorf("no mapping found for position %d:%d", line, column)
	}
	return &token.Position{Line: srcLine + 1, Column: srcCol + 1}, nil
}
