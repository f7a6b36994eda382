// Package diagnostics provides the typed diagnostic sink shared by every
// stage of the Cadenza pipeline (spec.md §7). Diagnostics are values, never
// exceptions: a stage that hits trouble records one and keeps going so the
// caller sees every problem in a single pass.
package diagnostics

import (
	"fmt"

	"github.com/cadenzalang/cadenzac/pkg/token"
)

// Severity classifies a diagnostic. Only Error affects the exit code.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// Rule identifiers, grouped by the taxonomy in spec.md §7.
const (
	RuleLexInvalidChar        = "lex.invalid-char"
	RuleLexUnterminatedString = "lex.unterminated-string"
	RuleLexUnterminatedComment = "lex.unterminated-comment"

	RuleParseUnexpectedToken = "parse.unexpected-token"
	RuleParseMissingToken    = "parse.missing-token"
	RuleParseMalformed       = "parse.malformed-construct"

	RuleSemUnresolvedName       = "sem.unresolved-name"
	RuleSemEffectMissing        = "sem.effect-missing"
	RuleSemPurityViolated       = "sem.purity-violated"
	RuleSemPurityCallsEffectful = "sem.purity-calls-effectful"
	RuleSemUnknownEffect        = "sem.unknown-effect"
	RuleSemPropagationMisuse    = "sem.propagation-misuse"
	RuleSemNonExhaustiveMatch   = "sem.non-exhaustive-match"
	RuleSemGuardNonTerminating  = "sem.guard-non-terminating"
	RuleSemDuplicateParam       = "sem.duplicate-parameter"
	RuleSemDuplicateExport      = "sem.duplicate-export"
	RuleSemTypeMismatch         = "sem.type-mismatch"

	RuleGenUnsupportedNode = "gen.unsupported-node"

	RuleEmitToolchainUnavailable = "emit.toolchain-unavailable"
	RuleEmitBuildFailed          = "emit.build-failed"
)

// Span is the source range a diagnostic points at.
type Span struct {
	File   string
	Start  token.Position
	Length int // in runes, on Start.Line; 1 when unknown
}

// Diagnostic is a single typed finding from any pipeline stage.
type Diagnostic struct {
	Severity Severity
	Rule     string
	Span     Span
	Lexeme   string
	Message  string
	Fix      string // optional suggested fix, empty if none
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s [%s] (%s:%s)", d.Severity, d.Message, d.Rule, d.Span.File, d.Span.Start)
}

// Sink accumulates diagnostics across one compilation. It is not safe for
// concurrent use by multiple goroutines; each compilation owns its own Sink
// (spec.md §5: compilations share no mutable state).
type Sink struct {
	items []Diagnostic
}

// NewSink creates an empty diagnostic sink.
func NewSink() *Sink { return &Sink{} }

// Add records a diagnostic.
func (s *Sink) Add(d Diagnostic) { s.items = append(s.items, d) }

// Errorf records an Error-severity diagnostic at pos.
func (s *Sink) Errorf(file string, pos token.Position, rule, format string, args ...interface{}) {
	s.Add(Diagnostic{
		Severity: Error,
		Rule:     rule,
		Span:     Span{File: file, Start: pos, Length: 1},
		Message:  fmt.Sprintf(format, args...),
	})
}

// ErrorfFix records an Error-severity diagnostic at pos carrying a suggested
// fix, rendered as a trailing "help:" line (pkg/diagnostics/render.go).
func (s *Sink) ErrorfFix(file string, pos token.Position, rule, fix, format string, args ...interface{}) {
	s.Add(Diagnostic{
		Severity: Error,
		Rule:     rule,
		Span:     Span{File: file, Start: pos, Length: 1},
		Message:  fmt.Sprintf(format, args...),
		Fix:      fix,
	})
}

// Warnf records a Warning-severity diagnostic at pos.
func (s *Sink) Warnf(file string, pos token.Position, rule, format string, args ...interface{}) {
	s.Add(Diagnostic{
		Severity: Warning,
		Rule:     rule,
		Span:     Span{File: file, Start: pos, Length: 1},
		Message:  fmt.Sprintf(format, args...),
	})
}

// Items returns all diagnostics recorded so far, in recording order.
func (s *Sink) Items() []Diagnostic { return s.items }

// HasErrors reports whether any Error-severity diagnostic was recorded.
// Per spec.md §7, warnings never cause the overall operation to fail.
func (s *Sink) HasErrors() bool {
	for _, d := range s.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Merge appends other's diagnostics onto s, preserving order.
func (s *Sink) Merge(other *Sink) {
	if other == nil {
		return
	}
	s.items = append(s.items, other.items...)
}

// ExitCode implements spec.md §6: 0 on success, 1 on any Error diagnostic.
// Internal failures (bugs) are signalled separately by the caller with 2.
func (s *Sink) ExitCode() int {
	if s.HasErrors() {
		return 1
	}
	return 0
}
