// Package lspshell is a minimal Language Server Protocol front end over
// pkg/compiler: enough to open a .cdz buffer, recompile it on every edit,
// and publish the resulting diagnostics. Cadenza has no foreign-language
// server to proxy (unlike the teacher, which forwards to gopls), so this
// shell talks JSON-RPC directly instead of wrapping another process.
package lspshell

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel controls verbosity, mirroring the teacher's pkg/lsp.LogLevel.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// Logger is the logging surface the server depends on.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type standardLogger struct {
	level  LogLevel
	logger *log.Logger
}

// NewLogger builds a Logger writing to output at the named level
// ("debug", "info", "warn", "error"; unknown values default to info).
func NewLogger(levelStr string, output io.Writer) Logger {
	if output == nil {
		output = os.Stderr
	}
	return &standardLogger{
		level:  parseLogLevel(levelStr),
		logger: log.New(output, "[cadenza-lsp] ", log.Ldate|log.Ltime),
	}
}

func parseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

func (l *standardLogger) Debugf(format string, args ...interface{}) {
	if l.level <= LogLevelDebug {
		l.logger.Output(2, fmt.Sprintf("[DEBUG] "+format, args...))
	}
}

func (l *standardLogger) Infof(format string, args ...interface{}) {
	if l.level <= LogLevelInfo {
		l.logger.Output(2, fmt.Sprintf("[INFO] "+format, args...))
	}
}

func (l *standardLogger) Warnf(format string, args ...interface{}) {
	if l.level <= LogLevelWarn {
		l.logger.Output(2, fmt.Sprintf("[WARN] "+format, args...))
	}
}

func (l *standardLogger) Errorf(format string, args ...interface{}) {
	if l.level <= LogLevelError {
		l.logger.Output(2, fmt.Sprintf("[ERROR] "+format, args...))
	}
}
