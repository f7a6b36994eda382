package emitter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDotnetDiagnosticsExtractsPosition(t *testing.T) {
	output := "Program.cs(12,5): error CS0029: Cannot implicitly convert type 'int' to 'string'"
	diags := parseDotnetDiagnostics("greet.cdz", output)
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, "greet.cdz", d.Span.File)
	assert.Equal(t, 12, d.Span.Start.Line)
	assert.Equal(t, 5, d.Span.Start.Column)
}

func TestParseDotnetDiagnosticsIgnoresUnrelatedLines(t *testing.T) {
	diags := parseDotnetDiagnostics("greet.cdz", "Build succeeded.\n    0 Warning(s)\n    0 Error(s)")
	assert.Empty(t, diags)
}

func TestCacheDirIsLazyAndStable(t *testing.T) {
	c := &Cache{}
	dir1, err := c.Dir(Executable)
	require.NoError(t, err)
	dir2, err := c.Dir(Executable)
	require.NoError(t, err)
	assert.Equal(t, dir1, dir2)
}

func TestCacheDirRetargetsOutputTypeOnKindChange(t *testing.T) {
	c := &Cache{}
	dir, err := c.Dir(Executable)
	require.NoError(t, err)
	csproj, err := os.ReadFile(filepath.Join(dir, projectName+".csproj"))
	require.NoError(t, err)
	assert.Contains(t, string(csproj), "<OutputType>Exe</OutputType>")

	_, err = c.Dir(Library)
	require.NoError(t, err)
	csproj, err = os.ReadFile(filepath.Join(dir, projectName+".csproj"))
	require.NoError(t, err)
	assert.Contains(t, string(csproj), "<OutputType>Library</OutputType>")
}
