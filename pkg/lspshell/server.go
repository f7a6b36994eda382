package lspshell

import (
	"context"
	"encoding/json"

	"go.lsp.dev/protocol"

	"github.com/cadenzalang/cadenzac/pkg/diagnostics"
)

// Server answers just enough of the protocol to keep diagnostics live for
// each open .cdz buffer: initialize, textDocument/didOpen,
// textDocument/didChange, textDocument/didClose.
type Server struct {
	logger Logger
	cache  *compileCache
	notify func(ctx context.Context, method string, params interface{}) error
}

// NewServer builds a Server that sends notifications (diagnostics) back to
// the client through notify — normally a jsonrpc2.Conn's Notify method.
func NewServer(logger Logger, notify func(ctx context.Context, method string, params interface{}) error) *Server {
	return &Server{logger: logger, cache: newCompileCache(), notify: notify}
}

// Handle dispatches one JSON-RPC request or notification by method name,
// the way a jsonrpc2.Handler would. Unknown methods are logged and ignored
// since this shell only ever needs to answer a handful of them.
func (s *Server) Handle(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	switch method {
	case "initialize":
		return s.initialize()
	case "textDocument/didOpen":
		var p protocol.DidOpenTextDocumentParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		s.recompile(ctx, string(p.TextDocument.URI), p.TextDocument.Text)
		return nil, nil
	case "textDocument/didChange":
		var p protocol.DidChangeTextDocumentParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		if len(p.ContentChanges) == 0 {
			return nil, nil
		}
		s.recompile(ctx, string(p.TextDocument.URI), p.ContentChanges[len(p.ContentChanges)-1].Text)
		return nil, nil
	case "textDocument/didClose":
		var p protocol.DidCloseTextDocumentParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		s.cache.invalidate(string(p.TextDocument.URI))
		return nil, nil
	default:
		s.logger.Debugf("unhandled method: %s", method)
		return nil, nil
	}
}

func (s *Server) initialize() (*protocol.InitializeResult, error) {
	syncKind := protocol.TextDocumentSyncKindFull
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: syncKind,
		},
	}, nil
}

func (s *Server) recompile(ctx context.Context, docURI, text string) {
	_, sink := s.cache.get(docURI, text)
	s.logger.Debugf("recompiled %s: %d diagnostics", docURI, len(sink.Items()))

	params := protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(docURI),
		Diagnostics: toProtocolDiagnostics(sink.Items()),
	}
	if err := s.notify(ctx, "textDocument/publishDiagnostics", params); err != nil {
		s.logger.Errorf("publishDiagnostics failed for %s: %v", docURI, err)
	}
}

// toProtocolDiagnostics translates pkg/diagnostics values into LSP wire
// diagnostics, the same position-mapping job the teacher's
// pkg/lsp/transpiler.go's ParseTranspileError does by regexing compiler
// stderr — here the positions come straight off the diagnostic's own Span,
// needing no text scraping since pkg/compiler never shells out to produce
// them.
func toProtocolDiagnostics(items []diagnostics.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(items))
	for _, d := range items {
		line := uint32(0)
		if d.Span.Start.Line > 0 {
			line = uint32(d.Span.Start.Line - 1)
		}
		col := uint32(0)
		if d.Span.Start.Column > 0 {
			col = uint32(d.Span.Start.Column - 1)
		}
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: col},
				End:   protocol.Position{Line: line, Character: col + uint32(d.Length())},
			},
			Severity: severityOf(d.Severity),
			Source:   "cadenzac",
			Code:     d.Rule,
			Message:  d.Message,
		})
	}
	return out
}

func severityOf(sev diagnostics.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case diagnostics.Error:
		return protocol.DiagnosticSeverityError
	case diagnostics.Warning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}
