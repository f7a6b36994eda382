// Package manifest reads cadenza.toml, a project file naming source
// directories and a build target. The compiler core never sees this file
// (spec.md §6: "The core does not parse it"), and no command in
// cmd/cadenzac imports this package: the CLI takes its inputs from
// command-line arguments only.
package manifest

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Target names the kind of output a project's manifest asks for.
type Target string

const (
	TargetCSharpSource Target = "csharp-source"
	TargetAssembly     Target = "assembly"
)

// Manifest is the decoded shape of cadenza.toml.
type Manifest struct {
	Name    string   `toml:"name"`
	Sources []string `toml:"sources"`
	Target  Target   `toml:"target"`
	Out     string   `toml:"out"`
}

// Load reads and decodes a cadenza.toml at path, defaulting Sources and
// Target when the project file leaves them unset.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	if len(m.Sources) == 0 {
		m.Sources = []string{"."}
	}
	if m.Target == "" {
		m.Target = TargetCSharpSource
	}
	if m.Out == "" {
		m.Out = "build"
	}
	return &m, nil
}
