package snapshot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/lintkit/internal/ir"
)

const fixture = "../../testdata/snapshot.yaml"

func TestLoad_Fixture(t *testing.T) {
	t.Parallel()
	s, err := Load(fixture)
	require.NoError(t, err)

	require.Len(t, s.Crates, 3)
	assert.Equal(t, "demo", s.Crates[0].Name)
	assert.Len(t, s.Files, 2)
	assert.Len(t, s.Expansions, 5)
}

func TestWalk_PreorderIndices(t *testing.T) {
	t.Parallel()
	s, err := Decode(strings.NewReader(`
crates:
  - name: core
    items:
      - name: option
        kind: mod
        items:
          - {name: Option, kind: enum}
      - {name: mem, kind: mod}
`))
	require.NoError(t, err)

	var defs []Def
	require.NoError(t, s.Walk(func(d Def) error {
		defs = append(defs, d)
		return nil
	}))
	require.Len(t, defs, 4)
	assert.True(t, defs[0].Root)
	assert.Equal(t, ir.CrateDefIndex, defs[0].Index)
	assert.Equal(t, "core", defs[0].Name)

	assert.Equal(t, Def{Index: 1, Parent: 0, Name: "option", Kind: ir.DefMod}, defs[1])
	assert.Equal(t, Def{Index: 2, Parent: 1, Name: "Option", Kind: ir.DefEnum}, defs[2])
	assert.Equal(t, Def{Index: 3, Parent: 0, Name: "mem", Kind: ir.DefMod}, defs[3])
}

func TestSpan_FileRelative(t *testing.T) {
	t.Parallel()
	s, err := Load(fixture)
	require.NoError(t, err)

	starts := s.FileStarts()
	assert.Equal(t, []ir.BytePos{0, 98}, starts)

	sp, err := s.Span(SpanRef{File: "src/ext.rs", Lo: 0, Hi: 6, Ctxt: 2})
	require.NoError(t, err)
	assert.Equal(t, ir.Span{Lo: 98, Hi: 104, Ctxt: 2}, sp)

	_, err = s.Span(SpanRef{File: "src/ext.rs", Lo: 0, Hi: 500})
	assert.Error(t, err)
	_, err = s.Span(SpanRef{File: "nope.rs"})
	assert.Error(t, err)
	_, err = s.Span(SpanRef{Lo: 5, Hi: 1})
	assert.Error(t, err)
}

func TestDecode_Rejects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", ``, "empty document"},
		{"no crates", `crates: []`, "no crates"},
		{"unknown field", "crates: [{name: a}]\nbogus: 1", "decode"},
		{"duplicate crate", `crates: [{name: a}, {name: a}]`, "duplicate crate"},
		{"bad kind", `crates: [{name: a, items: [{name: x, kind: widget}]}]`, "unknown kind"},
		{"empty ctxt", "crates: [{name: a}]\nexpansions: [{ctxt: 0, callee: m, format: bang, call_site: {lo: 0, hi: 0}}]", "empty context"},
		{"bad format", "crates: [{name: a}]\nexpansions: [{ctxt: 1, callee: m, format: weird, call_site: {lo: 0, hi: 0}}]", "unknown format"},
		{"dangling file", "crates: [{name: a}]\nexpansions: [{ctxt: 1, callee: m, format: bang, call_site: {file: x.rs, lo: 0, hi: 0}}]", "unknown file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
