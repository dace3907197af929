package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../../testdata/snapshot.yaml"

type envelope struct {
	Command string          `json:"command"`
	Results json.RawMessage `json:"results"`
	Error   string          `json:"error"`
}

// execute runs the CLI with args and returns stdout, stderr and the error
// main would see.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	c := newCLI()
	var stdout, stderr bytes.Buffer
	c.root.SetOut(&stdout)
	c.root.SetErr(&stderr)
	c.root.SetArgs(args)
	err := c.root.Execute()
	return stdout.String(), stderr.String(), err
}

// importedDB imports the fixture into a fresh database and returns the
// flags pointing at it. The config path never exists so every run sees
// defaults.
func importedDB(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	flags := []string{"--db", filepath.Join(dir, "lint.db"), "--config", filepath.Join(dir, "none.toml"), "--log-level", "error"}
	_, _, err := execute(t, append([]string{"import", fixture}, flags...)...)
	require.NoError(t, err)
	return flags
}

func decode[T any](t *testing.T, out string) (envelope, T) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(out), &env), out)
	var v T
	if len(env.Results) > 0 && string(env.Results) != "null" {
		require.NoError(t, json.Unmarshal(env.Results, &v))
	}
	return env, v
}

func TestImportAndFingerprint(t *testing.T) {
	dir := t.TempDir()
	flags := []string{"--db", filepath.Join(dir, "lint.db"), "--config", filepath.Join(dir, "none.toml")}

	out, _, err := execute(t, append([]string{"import", fixture}, flags...)...)
	require.NoError(t, err)
	env, imp := decode[CLIImport](t, out)
	assert.Equal(t, "import", env.Command)
	assert.Equal(t, fixture, imp.Path)
	assert.Len(t, imp.Fingerprint, 64)

	out, _, err = execute(t, append([]string{"fingerprint", "--format", "text"}, flags...)...)
	require.NoError(t, err)
	assert.Equal(t, imp.Fingerprint+"\n", out)
}

func TestFingerprint_NoSnapshot(t *testing.T) {
	dir := t.TempDir()
	out, _, err := execute(t, "fingerprint", "--db", filepath.Join(dir, "lint.db"), "--config", filepath.Join(dir, "none.toml"))
	require.Error(t, err)
	env, _ := decode[string](t, out)
	assert.Contains(t, env.Error, "run 'lintkit import' first")
}

func TestClear(t *testing.T) {
	flags := importedDB(t)

	out, _, err := execute(t, append([]string{"clear", "--format", "text"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "cleared ")

	_, _, err = execute(t, append([]string{"fingerprint"}, flags...)...)
	assert.ErrorContains(t, err, "no snapshot")
	_, _, err = execute(t, append([]string{"resolve", "core::clone::Clone"}, flags...)...)
	assert.ErrorContains(t, err, "does not resolve")
}

func TestImport_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, stderr, err := execute(t, "import", filepath.Join(dir, "nope.yaml"), "--db", filepath.Join(dir, "lint.db"), "--config", filepath.Join(dir, "none.toml"), "--format", "text")
	require.Error(t, err)
	assert.Contains(t, stderr, "Error:")
}

func TestResolve(t *testing.T) {
	flags := importedDB(t)

	out, _, err := execute(t, append([]string{"resolve", "core::result::Result::Ok"}, flags...)...)
	require.NoError(t, err)
	_, def := decode[CLIDef](t, out)
	assert.Equal(t, "core::result::Result::Ok", def.Path)
	assert.Equal(t, "variant", def.Kind)
	assert.Equal(t, uint32(1), def.Crate)

	out, _, err = execute(t, append([]string{"resolve", "alloc::vec::Vec", "--format", "text"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "alloc::vec::Vec")
	assert.Contains(t, out, "struct")
}

func TestResolve_Errors(t *testing.T) {
	flags := importedDB(t)

	out, _, err := execute(t, append([]string{"resolve", "core::option::Maybe"}, flags...)...)
	require.Error(t, err)
	env, _ := decode[CLIDef](t, out)
	assert.Equal(t, "core::option::Maybe does not resolve", env.Error)

	_, _, err = execute(t, append([]string{"resolve", "core::::Option"}, flags...)...)
	assert.ErrorContains(t, err, "invalid path")
}

func TestTrait(t *testing.T) {
	flags := importedDB(t)

	out, _, err := execute(t, append([]string{"trait", "core::clone::Clone"}, flags...)...)
	require.NoError(t, err)
	_, def := decode[CLIDef](t, out)
	assert.Equal(t, "core::clone::Clone", def.Path)
	assert.Equal(t, "trait", def.Kind)

	_, _, err = execute(t, append([]string{"trait", "alloc::vec::Vec"}, flags...)...)
	assert.ErrorContains(t, err, "is not a trait")
}

func TestExpn(t *testing.T) {
	flags := importedDB(t)

	out, _, err := execute(t, append([]string{"expn", "44..45#2", "my_macro"}, flags...)...)
	require.NoError(t, err)
	_, sp := decode[CLISpan](t, out)
	assert.Equal(t, CLISpan{Lo: 82, Hi: 94, File: "src/lib.rs", Line: 6, Col: 13, Snippet: "my_macro!(1)"}, sp)

	out, _, err = execute(t, append([]string{"expn", "44..45#2", "vec", "--direct", "--format", "text"}, flags...)...)
	require.NoError(t, err)
	assert.Equal(t, "src/lib.rs:2:20 43..51#1\n  vec![$e]\n", out)

	_, _, err = execute(t, append([]string{"expn", "44..45#2", "my_macro", "--direct"}, flags...)...)
	assert.ErrorContains(t, err, "no expansion of my_macro!")
}

func TestChain(t *testing.T) {
	flags := importedDB(t)

	out, _, err := execute(t, append([]string{"chain", "44..45#2"}, flags...)...)
	require.NoError(t, err)
	_, chain := decode[[]CLIExpansion](t, out)
	require.Len(t, chain, 2)
	assert.Equal(t, "vec", chain[0].Callee)
	assert.Nil(t, chain[0].CalleeSpan)
	assert.Equal(t, "my_macro", chain[1].Callee)
	assert.Equal(t, "bang", chain[1].Format)
	require.NotNil(t, chain[1].CalleeSpan)
	assert.Equal(t, "macro_rules! my_macro", chain[1].CalleeSpan.Snippet)

	out, _, err = execute(t, append([]string{"chain", "58..69", "--format", "text"}, flags...)...)
	require.NoError(t, err)
	assert.Equal(t, "CALLEE  FORMAT  CALL SITE  DEFINED AT\n", out)
}

func TestRun_BuiltinChecks(t *testing.T) {
	flags := importedDB(t)

	out, _, err := execute(t, append([]string{"run"}, flags...)...)
	require.ErrorIs(t, err, errFindings)
	_, findings := decode[[]CLIFinding](t, out)
	require.Len(t, findings, 1)
	assert.Equal(t, "macro_origin", findings[0].Check)
	assert.Equal(t, "vec! is invoked from a local macro", findings[0].Message)
	assert.Equal(t, 2, findings[0].Span.Line)

	out, _, err = execute(t, append([]string{"run", "macro_origin", "--format", "text"}, flags...)...)
	require.ErrorIs(t, err, errFindings)
	assert.Equal(t, "src/lib.rs:2:20: macro_origin: vec! is invoked from a local macro\n\n1 finding(s)\n", out)
}

func TestRun_DisabledByConfig(t *testing.T) {
	flags := importedDB(t)
	cfg := filepath.Join(t.TempDir(), "lintkit.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(`disabled_checks = ["macro_origin"]`+"\n"), 0o644))

	out, _, err := execute(t, append(append([]string{"run"}, flags...), "--config", cfg)...)
	require.NoError(t, err)
	_, findings := decode[[]CLIFinding](t, out)
	assert.Empty(t, findings)
}

func TestRun_ScriptsDir(t *testing.T) {
	flags := importedDB(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "checks"), 0o755))
	script := `report("custom", {"lo": 58, "hi": 69, "ctxt": 0}, "main found")` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "checks", "custom.risor"), []byte(script), 0o644))

	out, _, err := execute(t, append([]string{"run", "custom", "--scripts-dir", dir, "--format", "text"}, flags...)...)
	require.ErrorIs(t, err, errFindings)
	assert.Contains(t, out, "src/lib.rs:5:1: custom: main found\n")
}

func TestRun_ScriptError(t *testing.T) {
	flags := importedDB(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.risor"), []byte("undefined_fn()\n"), 0o644))

	out, _, err := execute(t, append([]string{"run", "broken.risor", "--scripts-dir", dir}, flags...)...)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errFindings)
	env, _ := decode[[]CLIFinding](t, out)
	assert.Contains(t, env.Error, "scripts had 1 error(s)")
}

func TestInvalidFlags(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, "fingerprint", "--format", "xml", "--db", filepath.Join(dir, "lint.db"))
	assert.ErrorContains(t, err, `invalid format "xml"`)

	_, _, err = execute(t, "fingerprint", "--log-level", "loud", "--db", filepath.Join(dir, "lint.db"), "--config", filepath.Join(dir, "none.toml"))
	assert.Error(t, err)
}

func TestParseSpan(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "43..51#1", want: "43..51#1"},
		{in: "0..9", want: "0..9#0"},
		{in: "5..5#0", want: "5..5#0"},
		{in: "9..1", wantErr: true},
		{in: "1-2", wantErr: true},
		{in: "a..2", wantErr: true},
		{in: "1..2#x", wantErr: true},
		{in: "-1..2", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			sp, err := parseSpan(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, sp.String())
		})
	}
}

func TestSplitPath(t *testing.T) {
	t.Parallel()
	segs, err := splitPath("core::option::Option")
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "option", "Option"}, segs)

	for _, bad := range []string{"", "::core", "core::", "a::::b"} {
		_, err := splitPath(bad)
		assert.Error(t, err, bad)
	}
}

func TestLineCol(t *testing.T) {
	t.Parallel()
	content := "ab\ncd\n\nx"
	for _, tt := range []struct{ off, line, col int }{
		{0, 1, 1}, {1, 1, 2}, {3, 2, 1}, {4, 2, 2}, {7, 4, 1}, {99, 4, 2},
	} {
		line, col := lineCol(content, tt.off)
		assert.Equal(t, tt.line, line, "line at %d", tt.off)
		assert.Equal(t, tt.col, col, "col at %d", tt.off)
	}
}

func TestScriptPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, filepath.Join("checks", "macro_origin.risor"), scriptPath("macro_origin"))
	assert.Equal(t, "extra/mine.risor", scriptPath("extra/mine.risor"))
}
