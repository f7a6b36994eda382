// Package emitter implements the optional assembly-emitter backend
// (spec.md §4.5, §6): it takes generated C# source and produces a running
// assembly by shelling out to the managed runtime's own toolchain, since
// Go cannot host the CLR in-process.
package emitter

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cadenzalang/cadenzac/pkg/diagnostics"
	"github.com/cadenzalang/cadenzac/pkg/token"
)

// buildTimeout bounds how long a single dotnet invocation may run before
// the emitter gives up and reports a diagnostic (60 seconds).
const buildTimeout = 60 * time.Second

// projectName is the throwaway project every emission reuses.
const projectName = "cadenza_emit"

// Kind selects the .csproj OutputType spec.md §6's compile operation emits:
// an entry-point executable or a reusable library.
type Kind string

const (
	Executable Kind = "executable"
	Library    Kind = "library"
)

func (k Kind) outputType() string {
	if k == Library {
		return "Library"
	}
	return "Exe"
}

// Cache is a process-wide, lazily-initialized scratch project (spec.md
// §5: "a per-process cache ... initialised lazily on first use"). Every
// Build and Run call within one process shares the same temp directory,
// overwriting Program.cs each time, so repeated builds in one process
// don't pay `dotnet restore` more than once. The .csproj is
// rewritten only when the requested Kind changes from the last build.
type Cache struct {
	mu       sync.Mutex
	dir      string
	created  bool
	lastKind Kind
}

var processCache = &Cache{}

// Dir returns the process-wide scratch project directory, creating (or
// retargeting) its .csproj so OutputType matches kind.
func (c *Cache) Dir(kind Kind) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.created && c.lastKind == kind {
		return c.dir, nil
	}
	if !c.created {
		dir, err := os.MkdirTemp("", "cadenzac-emit-*")
		if err != nil {
			return "", fmt.Errorf("creating scratch project: %w", err)
		}
		c.dir = dir
		c.created = true
	}
	csproj := fmt.Sprintf(`<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <OutputType>%s</OutputType>
    <TargetFramework>net8.0</TargetFramework>
    <Nullable>disable</Nullable>
    <AssemblyName>%s</AssemblyName>
  </PropertyGroup>
</Project>
`, kind.outputType(), projectName)
	if err := os.WriteFile(filepath.Join(c.dir, projectName+".csproj"), []byte(csproj), 0o644); err != nil {
		return "", fmt.Errorf("writing scratch .csproj: %w", err)
	}
	c.lastKind = kind
	return c.dir, nil
}

// Result is the outcome of one Build or Run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Build writes source into the process-wide scratch project and invokes
// `dotnet build`, turning any compiler errors into diagnostics mapped back
// onto the Cadenza file via sourceFile (spec.md §6). kind selects the
// .csproj's OutputType; when outputPath is non-empty, the built assembly is
// copied there afterward.
func Build(ctx context.Context, sourceFile, source string, kind Kind, outputPath string) (Result, *diagnostics.Sink) {
	res, sink := run(ctx, sourceFile, source, []string{"build"}, kind)
	if sink.HasErrors() || outputPath == "" {
		return res, sink
	}
	if err := copyArtifact(kind, outputPath); err != nil {
		sink.Add(diagnostics.Diagnostic{
			Severity: diagnostics.Error,
			Rule:     diagnostics.RuleEmitToolchainUnavailable,
			Message:  fmt.Sprintf("copying build output to %s: %v", outputPath, err),
		})
	}
	return res, sink
}

// Run writes source into the scratch project and invokes `dotnet run`,
// the command surface spec.md §6 calls "compile in memory then invoke the
// resulting entry point." Running always targets an executable.
func Run(ctx context.Context, sourceFile, source string) (Result, *diagnostics.Sink) {
	return run(ctx, sourceFile, source, []string{"run", "--project"}, Executable)
}

// copyArtifact copies the scratch project's build output to outputPath.
func copyArtifact(kind Kind, outputPath string) error {
	dir, err := processCache.Dir(kind)
	if err != nil {
		return err
	}
	ext := ".dll"
	built := filepath.Join(dir, "bin", "Debug", "net8.0", projectName+ext)
	data, err := os.ReadFile(built)
	if err != nil {
		return fmt.Errorf("reading built artifact: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func run(ctx context.Context, sourceFile, source string, verb []string, kind Kind) (Result, *diagnostics.Sink) {
	sink := diagnostics.NewSink()

	dir, err := processCache.Dir(kind)
	if err != nil {
		sink.Add(diagnostics.Diagnostic{
			Severity: diagnostics.Error,
			Rule:     diagnostics.RuleEmitToolchainUnavailable,
			Message:  err.Error(),
		})
		return Result{}, sink
	}

	if err := os.WriteFile(filepath.Join(dir, "Program.cs"), []byte(source), 0o644); err != nil {
		sink.Add(diagnostics.Diagnostic{
			Severity: diagnostics.Error,
			Rule:     diagnostics.RuleEmitToolchainUnavailable,
			Message:  fmt.Sprintf("writing generated source: %v", err),
		})
		return Result{}, sink
	}

	args := append(append([]string{}, verb...), dir)

	ctx, cancel := context.WithTimeout(ctx, buildTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "dotnet", args...)
	cmd.Dir = dir
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		res.ExitCode = exitErr.ExitCode()
	}

	if runErr != nil {
		diags := parseDotnetDiagnostics(sourceFile, res.Stderr+res.Stdout)
		if len(diags) == 0 {
			sink.Add(diagnostics.Diagnostic{
				Severity: diagnostics.Error,
				Rule:     diagnostics.RuleEmitBuildFailed,
				Message:  fmt.Sprintf("dotnet %s failed: %v", strings.Join(verb, " "), runErr),
			})
		}
		for _, d := range diags {
			sink.Add(d)
		}
	}

	return res, sink
}

// parseDotnetDiagnostics extracts `Program.cs(line,col): error CSxxxx:
// message` entries from dotnet's build output and maps them onto
// sourceFile so they read like any other compiler diagnostic (spec.md §7).
func parseDotnetDiagnostics(sourceFile, output string) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, "Program.cs(")
		if idx == -1 {
			continue
		}
		rest := line[idx+len("Program.cs("):]
		closeIdx := strings.Index(rest, ")")
		if closeIdx == -1 {
			continue
		}
		coord := rest[:closeIdx]
		parts := strings.SplitN(coord, ",", 2)
		if len(parts) != 2 {
			continue
		}
		lineNum, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		colNum, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			continue
		}
		msg := strings.TrimSpace(rest[closeIdx+1:])
		msg = strings.TrimPrefix(msg, ":")
		msg = strings.TrimSpace(msg)

		sev := diagnostics.Error
		if strings.HasPrefix(msg, "warning") {
			sev = diagnostics.Warning
		}

		out = append(out, diagnostics.Diagnostic{
			Severity: sev,
			Rule:     diagnostics.RuleEmitBuildFailed,
			Span: diagnostics.Span{
				File:   sourceFile,
				Start:  token.Position{Line: lineNum, Column: colNum},
				Length: 1,
			},
			Message: msg,
		})
	}
	return out
}
