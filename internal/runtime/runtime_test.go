package runtime

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/lintkit/internal/ir"
	"github.com/jward/lintkit/internal/memhost"
	"github.com/jward/lintkit/internal/snapshot"
	"github.com/jward/lintkit/internal/store"
)

const rustTestSource = `use std::fmt;

pub struct Server {
    host: String,
    port: u16,
}

fn greet(name: &str) -> String {
    format!("Hello, {}!", name)
}

fn add(a: i32, b: i32) -> i32 {
    a + b
}
`

// parseRustSource is a test helper that parses Rust source using tree-sitter
// directly and registers it in a Runtime's source store.
func parseRustSource(t *testing.T, src string) (*sitter.Tree, *Runtime) {
	t.Helper()

	rt := NewRuntime(nil, "")

	lang, ok := ParserForLanguage("rust")
	require.True(t, ok, "rust language not found")

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)

	rt.sources.store(tree, []byte(src), lang)
	return tree, rt
}

func fixtureSnapshot(t *testing.T) *snapshot.Snapshot {
	t.Helper()
	s, err := snapshot.Load("../../testdata/snapshot.yaml")
	require.NoError(t, err)
	return s
}

// newFixtureRuntime returns a Runtime over the shared snapshot, held in
// memory.
func newFixtureRuntime(t *testing.T, opts ...RuntimeOption) *Runtime {
	t.Helper()
	h, err := memhost.FromSnapshot(fixtureSnapshot(t))
	require.NoError(t, err)
	return NewRuntime(h, "", opts...)
}

// newStoreRuntime returns a Runtime over the shared snapshot imported into
// a fresh SQLite store.
func newStoreRuntime(t *testing.T, opts ...RuntimeOption) *Runtime {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	_, err = s.Import(context.Background(), fixtureSnapshot(t))
	require.NoError(t, err)
	return NewRuntime(store.NewHost(s), "", append(opts, WithStore(s))...)
}

type finding struct {
	check string
	span  ir.Span
	msg   string
}

type collector struct {
	mu       sync.Mutex
	findings []finding
}

func (c *collector) report(check string, sp ir.Span, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.findings = append(c.findings, finding{check, sp, msg})
}

// =============================================================================
// Language detection
// =============================================================================

func TestLanguageForFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"lib.rs", "rust", true},
		{"src/main.RS", "rust", true},
		{"main.go", "", false},
		{"Makefile", "", false},
	}
	for _, tt := range tests {
		got, ok := LanguageForFile(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestParserForLanguage(t *testing.T) {
	t.Parallel()

	lang, ok := ParserForLanguage("rust")
	assert.True(t, ok)
	assert.NotNil(t, lang)

	_, ok = ParserForLanguage("cobol")
	assert.False(t, ok)
}

// =============================================================================
// Tree-sitter host functions
// =============================================================================

func TestParse_RustRootNodeType(t *testing.T) {
	t.Parallel()
	tree, _ := parseRustSource(t, rustTestSource)
	defer tree.Close()

	assert.Equal(t, "source_file", tree.RootNode().Type())
}

func TestParse_InvalidSourceStillReturnsTree(t *testing.T) {
	t.Parallel()
	tree, _ := parseRustSource(t, "fn {{{ not rust")
	defer tree.Close()

	root := tree.RootNode()
	require.NotNil(t, root)
	assert.True(t, root.HasError())
}

func TestNodeText_FunctionName(t *testing.T) {
	t.Parallel()
	tree, rt := parseRustSource(t, rustTestSource)
	defer tree.Close()

	root := tree.RootNode()
	var fn *sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if child := root.NamedChild(i); child.Type() == "function_item" {
			fn = child
			break
		}
	}
	require.NotNil(t, fn, "no function_item found")

	name := fn.ChildByFieldName("name")
	require.NotNil(t, name)
	src, ok := rt.sources.sourceForNode(name)
	require.True(t, ok)
	assert.Equal(t, "greet", name.Content(src))
}

func TestNodeText_UnknownTree(t *testing.T) {
	t.Parallel()
	tree, _ := parseRustSource(t, rustTestSource)
	defer tree.Close()

	other := NewRuntime(nil, "")
	_, ok := other.sources.sourceForNode(tree.RootNode())
	assert.False(t, ok)
}

func TestRunSource_ParseAndQuery(t *testing.T) {
	t.Parallel()
	rt := NewRuntime(nil, "")

	script := `
tree := parse_src(src)
root := tree.RootNode()
assert(root.Type() == "source_file", "expected source_file")

matches := query("(function_item name: (identifier) @name)", root)
assert(len(matches) == 2, 'expected 2 matches, got {len(matches)}')
assert(node_text(matches[0]["name"]) == "greet")
assert(node_text(matches[1]["name"]) == "add")

none := query("(trait_item) @t", root)
assert(len(none) == 0)
`
	err := rt.RunSource(context.Background(), script, map[string]any{"src": rustTestSource})
	require.NoError(t, err)
}

func TestRunSource_NodeChild(t *testing.T) {
	t.Parallel()
	rt := NewRuntime(nil, "")

	script := `
root := parse_src(src, "rust").RootNode()
structs := query("(struct_item) @s", root)
assert(len(structs) == 1)
s := structs[0]["s"]
assert(node_text(node_child(s, "name")) == "Server")
assert(node_child(s, "no_such_field") == nil)
`
	err := rt.RunSource(context.Background(), script, map[string]any{"src": rustTestSource})
	require.NoError(t, err)
}

func TestRunSource_ParseUnsupportedLanguage(t *testing.T) {
	t.Parallel()
	rt := NewRuntime(nil, "")

	err := rt.RunSource(context.Background(), `parse_src("x", "cobol")`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
}

func TestRunSource_QueryInvalidPattern(t *testing.T) {
	t.Parallel()
	rt := NewRuntime(nil, "")

	err := rt.RunSource(context.Background(), `query("(((", parse_src("fn f() {}").RootNode())`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

// =============================================================================
// Naming, known paths, logging and reporting
// =============================================================================

func TestRunSource_CamelCase(t *testing.T) {
	t.Parallel()
	rt := NewRuntime(nil, "")

	script := `
assert(camel_case_until("AbcDef") == 6)
assert(camel_case_until("Abc1Def") == 3)
assert(camel_case_from("AbcDef") == 0)
assert(camel_case_from("Abc1Def") == 4)
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

func TestRunSource_KnownPaths(t *testing.T) {
	t.Parallel()
	rt := NewRuntime(nil, "")

	script := `
p := known_paths["clone"]
assert(len(p) == 3)
assert(p[0] == "core" && p[2] == "Clone")
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

func TestRunSource_LogUsesSlog(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	rt := NewRuntime(nil, "", WithLogger(logger))

	require.NoError(t, rt.RunSource(context.Background(), `log.Warn("careful")`, nil))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "msg=careful")
}

func TestRunSource_Report(t *testing.T) {
	t.Parallel()
	c := &collector{}
	rt := NewRuntime(nil, "", WithReporter(c.report))

	script := `
report("demo_check", {"lo": 3, "hi": 9, "ctxt": 1}, "first")
report("demo_check", nil, "second")
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
	require.Len(t, c.findings, 2)
	assert.Equal(t, finding{"demo_check", ir.Span{Lo: 3, Hi: 9, Ctxt: 1}, "first"}, c.findings[0])
	assert.Equal(t, finding{"demo_check", ir.Span{}, "second"}, c.findings[1])
}

func TestRunSource_ReportWithoutReporterLogs(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	rt := NewRuntime(nil, "", WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	require.NoError(t, rt.RunSource(context.Background(), `report("c", nil, "hello")`, nil))
	assert.Contains(t, buf.String(), "check=c")
}

func TestRunSource_ReportRejectsBadSpan(t *testing.T) {
	t.Parallel()
	rt := NewRuntime(nil, "", WithReporter(func(string, ir.Span, string) {}))

	err := rt.RunSource(context.Background(), `report("c", {"lo": 1}, "m")`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lo and hi are required")
}

func TestRunSource_NoHostHasNoQueryGlobals(t *testing.T) {
	t.Parallel()
	rt := NewRuntime(nil, "")

	err := rt.RunSource(context.Background(), `resolve_path(["core"])`, nil)
	require.Error(t, err)
}

// =============================================================================
// Semantic query globals
// =============================================================================

func TestRunSource_ResolvePath(t *testing.T) {
	t.Parallel()
	rt := newFixtureRuntime(t)

	script := `
opt := resolve_path(["core", "option", "Option"])
assert(opt != nil, "Option not found")
assert(opt["kind"] == "enum", 'got kind {opt["kind"]}')
assert(opt["name"] == "Option")

assert(resolve_path(["core", "option", "Missing"]) == nil)
assert(resolve_path(["nocrate", "x"]) == nil)
assert(resolve_path(["core"]) == nil, "bare crate names resolve to nothing")

assert(trait_def_id(["core", "clone", "Clone"]) != nil)
assert(trait_def_id(["alloc", "vec", "Vec"]) == nil, "Vec is not a trait")
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

func TestRunSource_ResolvePathEmpty(t *testing.T) {
	t.Parallel()
	rt := newFixtureRuntime(t)

	err := rt.RunSource(context.Background(), `resolve_path([])`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty path")
}

func TestRunSource_DefPathAndChildren(t *testing.T) {
	t.Parallel()
	rt := newFixtureRuntime(t)

	script := `
vec := resolve_path(["alloc", "vec", "Vec"])
p := def_path(vec)
assert(len(p) == 3 && p[0] == "alloc" && p[2] == "Vec")
assert(match_def_path(vec, ["alloc", "vec", "Vec"]))
assert(!match_def_path(vec, ["alloc", "vec"]))

result := resolve_path(["core", "result", "Result"])
kids := item_children(result)
assert(len(kids) == 2)
assert(kids[0]["name"] == "Ok" && kids[1]["name"] == "Err")
assert(kids[0]["kind"] == "variant")

names := []
for _, c := range crates() {
    names.append(c["name"])
}
assert(len(names) == 3)
assert(names[0] == "demo")

root := crates()[0]["root"]
top := item_children(root)
assert(top[0]["name"] == "util")
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

func TestRunSource_MacroProvenance(t *testing.T) {
	t.Parallel()
	rt := newFixtureRuntime(t)

	script := `
func sp(ctxt) {
    return {"lo": 0, "hi": 1, "ctxt": ctxt}
}

assert(!in_macro(sp(0)))
assert(in_macro(sp(1)))
assert(!in_external_macro(sp(1)), "my_macro is a local macro_rules")
assert(in_external_macro(sp(2)), "vec has no callee span")
assert(in_external_macro(sp(3)), "attributes are opaque")
assert(!in_macro(sp(4)), "range desugaring is transparent")
assert(in_external_macro(sp(5)), "ext_mac source is not a macro_rules body")

outer := expn_of(sp(2), "my_macro")
assert(outer != nil)
assert(outer["lo"] == 82 && outer["hi"] == 94 && outer["ctxt"] == 0)
assert(snippet(outer) == "my_macro!(1)")

assert(direct_expn_of(sp(2), "my_macro") == nil)
direct := direct_expn_of(sp(2), "vec")
assert(direct["ctxt"] == 1)
assert(snippet(direct) == "vec![$e]")

chain := expn_chain(sp(2))
assert(len(chain) == 2)
assert(chain[0]["callee"] == "vec" && chain[1]["callee"] == "my_macro")
assert(chain[0]["callee_span"] == nil)
assert(chain[1]["format"] == "bang")

assert(differing_contexts(sp(1), sp(2)))
assert(!differing_contexts(sp(2), sp(2)))
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

func TestRunSource_Snippet(t *testing.T) {
	t.Parallel()
	rt := newFixtureRuntime(t)

	script := `
assert(snippet({"lo": 58, "hi": 69}) == "fn main() {")
assert(snippet({"lo": 5000, "hi": 5001}, "..") == "..")
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))

	err := rt.RunSource(context.Background(), `snippet({"lo": 5000, "hi": 5001})`, nil)
	require.Error(t, err)
}

func TestRunSource_SpanOffsetsOutOfRange(t *testing.T) {
	t.Parallel()
	rt := newFixtureRuntime(t)

	for name, src := range map[string]string{
		"negative lo":    `in_macro({"lo": -1, "hi": 1})`,
		"lo above u32":   `in_macro({"lo": 4294967296, "hi": 4294967297})`,
		"hi above u32":   `snippet({"lo": 0, "hi": 4294967297})`,
		"ctxt above u32": `in_macro({"lo": 0, "hi": 1, "ctxt": 4294967297})`,
	} {
		err := rt.RunSource(context.Background(), src, nil)
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "out of range", name)
	}
	require.NoError(t, rt.RunSource(context.Background(), `in_macro({"lo": 4294967295, "hi": 4294967295})`, nil))
}

func TestRunSource_ParseSpan(t *testing.T) {
	t.Parallel()
	rt := newFixtureRuntime(t)

	script := `
tree := parse_span({"lo": 58, "hi": 97})
fns := query("(function_item name: (identifier) @name)", tree.RootNode())
assert(len(fns) == 1)
assert(node_text(fns[0]["name"]) == "main")
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

func TestRunSource_MaxExpansionDepth(t *testing.T) {
	t.Parallel()
	rt := newFixtureRuntime(t, WithMaxExpansionDepth(1))

	script := `
assert(expn_of({"lo": 0, "hi": 0, "ctxt": 2}, "my_macro") == nil)
assert(len(expn_chain({"lo": 0, "hi": 0, "ctxt": 2})) == 1)
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

// =============================================================================
// Store-backed globals
// =============================================================================

func TestRunSource_StoreGlobals(t *testing.T) {
	t.Parallel()
	rt := newStoreRuntime(t)

	script := `
expns := expansions()
assert(len(expns) == 5, 'expected 5 expansions, got {len(expns)}')
assert(expns[0]["ctxt"] == 1 && expns[0]["callee"] == "my_macro")

traits := defs_by_kind("trait")
assert(len(traits) == 5, 'expected 5 traits, got {len(traits)}')

enums := defs_by_kind("enum", "struct")
assert(len(enums) == 5, 'expected 5 enums and structs, got {len(enums)}')

rows := db_query("SELECT name FROM crates WHERE crate_num = ?", 1)
assert(len(rows) == 1 && rows[0]["name"] == "core")

tree := parse_file("src/lib.rs")
macros := query("(macro_definition name: (identifier) @name)", tree.RootNode())
assert(len(macros) == 1)
assert(node_text(macros[0]["name"]) == "my_macro")
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

func TestRunSource_StoreHostAnswersQueries(t *testing.T) {
	t.Parallel()
	rt := newStoreRuntime(t)

	script := `
assert(resolve_path(["core", "iter", "Iterator", "next"])["kind"] == "method")
assert(!in_external_macro({"lo": 0, "hi": 0, "ctxt": 1}))
assert(snippet(expn_of({"lo": 0, "hi": 0, "ctxt": 2}, "my_macro")) == "my_macro!(1)")
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

func TestRunSource_DBQueryRejectsWrites(t *testing.T) {
	t.Parallel()
	rt := newStoreRuntime(t)

	err := rt.RunSource(context.Background(), `db_query("DELETE FROM defs")`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only SELECT")
}

func TestRunSource_DefsByKindUnknown(t *testing.T) {
	t.Parallel()
	rt := newStoreRuntime(t)

	err := rt.RunSource(context.Background(), `defs_by_kind("gizmo")`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestRunSource_ParseFileMissing(t *testing.T) {
	t.Parallel()
	rt := newStoreRuntime(t)

	err := rt.RunSource(context.Background(), `parse_file("src/nope.rs")`, nil)
	require.Error(t, err)
}

func TestRunSource_DefsNamedAndDescendants(t *testing.T) {
	t.Parallel()
	rt := newStoreRuntime(t)

	script := `
somes := defs_named("Some")
assert(len(somes) == 1 && somes[0]["kind"] == "variant" && somes[0]["crate"] == 1)
assert(len(defs_named("Nothing")) == 0)

alloc := descendants("alloc")
assert(len(alloc) == 4, 'expected 4 defs below alloc, got {len(alloc)}')
found := 0
for _, d := range alloc {
    if d["name"] == "Box" || d["name"] == "Vec" {
        found++
    }
}
assert(found == 2)

variants := descendants(resolve_path(["core", "option", "Option"]))
assert(len(variants) == 2)
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))

	err := rt.RunSource(context.Background(), `descendants("std")`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "descendants")
}

func TestRunSource_MemHostHasNoStoreGlobals(t *testing.T) {
	t.Parallel()
	rt := newFixtureRuntime(t)

	err := rt.RunSource(context.Background(), `expansions()`, nil)
	require.Error(t, err)
}

// =============================================================================
// Script loading
// =============================================================================

func TestRunScript_LoadsFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.risor"), []byte(`result := 1 + 1`), 0644))

	rt := NewRuntime(nil, dir)
	require.NoError(t, rt.RunScript(context.Background(), "test.risor", nil))
}

func TestRunScript_MissingFile(t *testing.T) {
	t.Parallel()
	rt := NewRuntime(nil, t.TempDir())

	err := rt.RunScript(context.Background(), "nonexistent.risor", nil)
	require.Error(t, err)
}

func TestLoadScript(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.risor")
	content := `x := 42`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rt := NewRuntime(nil, dir)
	got, err := rt.LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestCheckScriptPath(t *testing.T) {
	t.Parallel()
	path := CheckScriptPath("macro_origin")
	assert.Equal(t, filepath.Join("checks", "macro_origin.risor"), path)
	assert.Equal(t, "macro_origin", CheckName(path))
}

func TestLoadScript_FromFS(t *testing.T) {
	t.Parallel()
	content := `x := 42`
	mapFS := fstest.MapFS{
		"checks/demo.risor": &fstest.MapFile{Data: []byte(content)},
	}
	rt := NewRuntime(nil, "", WithRuntimeFS(mapFS))

	got, err := rt.LoadScript("checks/demo.risor")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	// Absolute-style path should be resolved within the FS.
	got, err = rt.LoadScript("/checks/demo.risor")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLoadScript_FromFS_NotFound(t *testing.T) {
	t.Parallel()
	rt := NewRuntime(nil, "", WithRuntimeFS(fstest.MapFS{}))

	_, err := rt.LoadScript("nonexistent.risor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from fs")
}

func TestRunScript_FromFS(t *testing.T) {
	t.Parallel()
	mapFS := fstest.MapFS{
		"test.risor": &fstest.MapFile{Data: []byte(`result := 1 + 1`)},
	}
	rt := NewRuntime(nil, "", WithRuntimeFS(mapFS))
	require.NoError(t, rt.RunScript(context.Background(), "test.risor", nil))
}

// =============================================================================
// Importer wiring
// =============================================================================

func TestImport_FSImporter(t *testing.T) {
	t.Parallel()
	// Risor's FSImporter resolves "lib_helpers" by trying name + ".risor",
	// so the file must be at the flat path "lib_helpers.risor" in the FS.
	mapFS := fstest.MapFS{
		"lib_helpers.risor": &fstest.MapFile{Data: []byte(`
func strip_prefix(s, n) {
	return s[n:]
}
`)},
	}
	rt := NewRuntime(nil, "", WithRuntimeFS(mapFS))

	script := `
import lib_helpers

rest := lib_helpers.strip_prefix("OptionSome", camel_case_until("OptionSome") - 4)
assert(rest == "Some", 'expected Some, got {rest}')
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

func TestImport_LocalImporter(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "math_utils.risor"), []byte(`
func double(x) {
	return x * 2
}
`), 0644))
	rt := NewRuntime(nil, dir)

	script := `
import math_utils

result := math_utils.double(21)
assert(result == 42, 'expected 42, got {result}')
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

func TestImport_GlobalsAvailableInImportedModules(t *testing.T) {
	t.Parallel()
	// The module references host-provided globals; they must be passed to
	// the importer or it fails to compile.
	mapFS := fstest.MapFS{
		"helper.risor": &fstest.MapFile{Data: []byte(`
func local_macro(ctxt) {
	sp := {"lo": 0, "hi": 0, "ctxt": ctxt}
	return in_macro(sp) && !in_external_macro(sp)
}
`)},
	}
	h, err := memhost.FromSnapshot(fixtureSnapshot(t))
	require.NoError(t, err)
	rt := NewRuntime(h, "", WithRuntimeFS(mapFS))

	script := `
import helper
assert(helper.local_macro(1))
assert(!helper.local_macro(2))
`
	require.NoError(t, rt.RunSource(context.Background(), script, nil))
}

func TestRunSource_ExtraGlobalsOverride(t *testing.T) {
	t.Parallel()
	rt := NewRuntime(nil, "")

	err := rt.RunSource(context.Background(), `assert(answer == 42)`, map[string]any{"answer": 42})
	require.NoError(t, err)
}

func TestNewRuntime_Defaults(t *testing.T) {
	t.Parallel()
	rt := NewRuntime(nil, "/some/dir")
	require.NotNil(t, rt)
	assert.Nil(t, rt.fsys)
	assert.Nil(t, rt.tracker)
	assert.Equal(t, "/some/dir", rt.scriptsDir)
}
