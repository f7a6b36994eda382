// Command cadenza-lsp is a minimal Language Server Protocol front end for
// Cadenza: it recompiles an open buffer on every edit and publishes the
// resulting diagnostics, the external collaborator spec.md §1 sets outside
// the compiler core's scope.
package main

import (
	"context"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"

	"github.com/cadenzalang/cadenzac/pkg/lspshell"
)

func main() {
	logLevel := os.Getenv("CADENZA_LSP_LOG")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := lspshell.NewLogger(logLevel, os.Stderr)
	logger.Infof("starting cadenza-lsp (log level: %s)", logLevel)

	rwc := &stdinoutCloser{stdin: os.Stdin, stdout: os.Stdout}
	stream := jsonrpc2.NewStream(rwc)
	conn := jsonrpc2.NewConn(stream)

	server := lspshell.NewServer(logger, func(ctx context.Context, method string, params interface{}) error {
		return conn.Notify(ctx, method, params)
	})

	conn.Go(context.Background(), func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		result, err := server.Handle(ctx, req.Method(), req.Params())
		if err != nil {
			return reply(ctx, nil, err)
		}
		return reply(ctx, result, nil)
	})

	<-conn.Done()
	if err := conn.Err(); err != nil {
		logger.Errorf("connection closed: %v", err)
		os.Exit(1)
	}
}

// stdinoutCloser wraps stdin/stdout as one ReadWriteCloser without letting
// Close tear down the process's standard streams, mirroring the teacher's
// cmd/dingo-lsp/main.go.
type stdinoutCloser struct {
	stdin  *os.File
	stdout *os.File
}

func (s *stdinoutCloser) Read(p []byte) (int, error)  { return s.stdin.Read(p) }
func (s *stdinoutCloser) Write(p []byte) (int, error) { return s.stdout.Write(p) }
func (s *stdinoutCloser) Close() error                { return nil }

var _ io.ReadWriteCloser = (*stdinoutCloser)(nil)
