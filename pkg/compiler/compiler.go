// Package compiler wires the pipeline stages — lexer, parser, semantic
// checker, C# generator, and the optional assembly emitter — into the
// single entry point spec.md §5/§6 describes: a pure function of its
// input, with no state shared between calls.
package compiler

import (
	"context"
	"os"

	"github.com/cadenzalang/cadenzac/pkg/diagnostics"
	"github.com/cadenzalang/cadenzac/pkg/emitter"
	"github.com/cadenzalang/cadenzac/pkg/generator"
	"github.com/cadenzalang/cadenzac/pkg/lexer"
	"github.com/cadenzalang/cadenzac/pkg/parser"
	"github.com/cadenzalang/cadenzac/pkg/sema"
	"github.com/cadenzalang/cadenzac/pkg/sourcemap"
)

// Output is the generated C# source and its position map for one
// compilation unit.
type Output struct {
	CSharp    string
	SourceMap *sourcemap.Generator
}

// Compile runs the full pipeline over sourceText and returns the generated
// C# source plus every diagnostic the pipeline produced, in the order the
// stages ran. The lexer, parser and checker all run even when an earlier
// one reported errors, so the caller sees every problem in one pass
// (spec.md §7); the generator is skipped, and Output is empty, whenever
// any of those stages reported an error.
func Compile(file, sourceText string) (Output, *diagnostics.Sink) {
	sink := diagnostics.NewSink()

	toks, lexDiags := lexer.New(file, []byte(sourceText)).Lex()
	sink.Merge(lexDiags)

	astFile, parseDiags := parser.ParseFile(file, toks)
	sink.Merge(parseDiags)

	res, semaDiags := sema.Check(file, astFile)
	sink.Merge(semaDiags)

	if sink.HasErrors() {
		return Output{}, sink
	}

	out := generator.Generate(file, astFile, res)
	return Output{CSharp: out.Source, SourceMap: out.SourceMap}, sink
}

// CompileFile is the path-based convenience overload spec.md §5 names.
func CompileFile(path string) (Output, *diagnostics.Sink) {
	data, err := os.ReadFile(path)
	if err != nil {
		sink := diagnostics.NewSink()
		sink.Add(diagnostics.Diagnostic{
			Severity: diagnostics.Error,
			Rule:     diagnostics.RuleEmitToolchainUnavailable,
			Message:  err.Error(),
		})
		return Output{}, sink
	}
	return Compile(path, string(data))
}

// Transpile implements spec.md §6's `transpile(input_path, output_path,
// target="csharp")`: compile and write the generated source to disk.
func Transpile(inputPath, outputPath string) *diagnostics.Sink {
	out, sink := CompileFile(inputPath)
	if sink.HasErrors() {
		return sink
	}
	if err := os.WriteFile(outputPath, []byte(out.CSharp), 0o644); err != nil {
		sink.Add(diagnostics.Diagnostic{
			Severity: diagnostics.Error,
			Rule:     diagnostics.RuleEmitToolchainUnavailable,
			Message:  err.Error(),
		})
	}
	return sink
}

// Build implements spec.md §6's `compile(input_path, output_path?,
// kind="executable"|"library")`: generate and hand the source to the
// assembly emitter, which shells out to the managed runtime's own build.
// outputPath may be empty, in which case the built artifact stays in the
// emitter's scratch project and is not copied anywhere.
func Build(ctx context.Context, inputPath, outputPath string, kind emitter.Kind) (emitter.Result, *diagnostics.Sink) {
	out, sink := CompileFile(inputPath)
	if sink.HasErrors() {
		return emitter.Result{}, sink
	}
	res, buildDiags := emitter.Build(ctx, inputPath, out.CSharp, kind, outputPath)
	sink.Merge(buildDiags)
	return res, sink
}

// Run implements spec.md §6's `run(input_path)`: compile in memory, then
// invoke the resulting entry point via the assembly emitter.
func Run(ctx context.Context, inputPath string) (emitter.Result, *diagnostics.Sink) {
	out, sink := CompileFile(inputPath)
	if sink.HasErrors() {
		return emitter.Result{}, sink
	}
	res, runDiags := emitter.Run(ctx, inputPath, out.CSharp)
	sink.Merge(runDiags)
	return res, sink
}
