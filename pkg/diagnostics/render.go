package diagnostics

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// sourceCache memoizes file contents across Render calls within a process,
// mirroring the teacher's pkg/errors/enhanced.go source cache.
var (
	sourceCache   = make(map[string][]string)
	sourceCacheMu sync.RWMutex
)

var (
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	locationStyle = lipgloss.NewStyle().Faint(true)
	caretStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	ruleStyle     = lipgloss.NewStyle().Faint(true)
)

func severityStyle(sev Severity) lipgloss.Style {
	switch sev {
	case Error:
		return errorStyle
	case Warning:
		return warningStyle
	default:
		return infoStyle
	}
}

// Render formats a diagnostic rustc-style: a header line, a two-line
// context-free source snippet with a caret under the offending span, and an
// optional suggestion block. When color is false, no ANSI styling is
// applied (suitable for piping to a file or a non-tty).
func Render(d Diagnostic, color bool) string {
	var buf strings.Builder

	sevStr := d.Severity.String()
	ruleStr := fmt.Sprintf("[%s]", d.Rule)
	if color {
		sevStr = severityStyle(d.Severity).Render(sevStr)
		ruleStr = ruleStyle.Render(ruleStr)
	}

	loc := fmt.Sprintf("%s:%d:%d", filepath.Base(d.Span.File), d.Span.Start.Line, d.Span.Start.Column)
	if color {
		loc = locationStyle.Render(loc)
	}

	fmt.Fprintf(&buf, "%s: %s %s\n  --> %s\n", sevStr, d.Message, ruleStr, loc)

	if d.Span.Start.Line > 0 {
		lines, ok := sourceLine(d.Span.File, d.Span.Start.Line)
		if ok {
			line := lines
			fmt.Fprintf(&buf, "   %4d | %s\n", d.Span.Start.Line, line)

			col := d.Span.Start.Column
			if col < 1 {
				col = 1
			}
			indent := utf8.RuneCountInString(safeSlice(line, col-1))
			length := d.Length()
			caret := strings.Repeat("^", length)
			if color {
				caret = caretStyle.Render(caret)
			}
			fmt.Fprintf(&buf, "        | %s%s\n", strings.Repeat(" ", indent), caret)
		}
	}

	if d.Fix != "" {
		fmt.Fprintf(&buf, "help: %s\n", d.Fix)
	}

	return buf.String()
}

// Length returns the diagnostic's highlighted span length, defaulting to 1.
func (d Diagnostic) Length() int {
	if d.Span.Length < 1 {
		return 1
	}
	return d.Span.Length
}

func safeSlice(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if n > len(s) {
		return s
	}
	return s[:n]
}

func sourceLine(filename string, line int) (string, bool) {
	if filename == "" {
		return "", false
	}

	sourceCacheMu.RLock()
	lines, cached := sourceCache[filename]
	sourceCacheMu.RUnlock()

	if !cached {
		f, err := os.Open(filename)
		if err != nil {
			return "", false
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		var all []string
		for scanner.Scan() {
			all = append(all, scanner.Text())
		}
		if scanner.Err() != nil {
			return "", false
		}

		sourceCacheMu.Lock()
		sourceCache[filename] = all
		sourceCacheMu.Unlock()
		lines = all
	}

	idx := line - 1
	if idx < 0 || idx >= len(lines) {
		return "", false
	}
	return lines[idx], true
}

// ClearSourceCache drops all cached file contents. Exposed for tests that
// reuse a filename across fixtures with different contents.
func ClearSourceCache() {
	sourceCacheMu.Lock()
	sourceCache = make(map[string][]string)
	sourceCacheMu.Unlock()
}

// RenderAll renders every diagnostic in order, separated by blank lines.
func RenderAll(items []Diagnostic, color bool) string {
	var buf strings.Builder
	for i, d := range items {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(Render(d, color))
	}
	return buf.String()
}
