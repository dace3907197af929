package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/lintkit/internal/ir"
	"github.com/jward/lintkit/internal/memhost"
)

func resolved(names ...string) *ir.ResolvedPath {
	return ir.NewPath(ir.Def{Kind: ir.DefStruct}, names...)
}

func typeRelative(base ir.QPath, seg string) *ir.TypeRelativePath {
	return &ir.TypeRelativePath{
		Base:    &ir.TypeExpr{Kind: &ir.TypePath{QPath: base}},
		Segment: ir.PathSegment{Name: seg},
	}
}

func TestMatchQPath_SuffixAligned(t *testing.T) {
	t.Parallel()
	p := resolved("a", "b", "c")

	assert.True(t, MatchQPath(p, []string{"a", "b", "c"}))
	assert.True(t, MatchQPath(p, []string{"b", "c"}))
	assert.True(t, MatchQPath(p, []string{"c"}))
	assert.True(t, MatchQPath(p, nil), "no comparisons")
	assert.False(t, MatchQPath(p, []string{"a", "b"}))
	assert.True(t, MatchQPath(p, []string{"z", "a", "b", "c"}), "longer query compares only the overlap")
	assert.False(t, MatchQPath(p, []string{"x", "c", "c"}))
}

func TestMatchQPath_TypeRelative(t *testing.T) {
	t.Parallel()
	// Result::Ok through a type-relative path.
	p := typeRelative(resolved("result", "Result"), "Ok")

	assert.True(t, MatchQPath(p, []string{"result", "Result", "Ok"}))
	assert.True(t, MatchQPath(p, []string{"Result", "Ok"}))
	assert.True(t, MatchQPath(p, []string{"Ok"}), "base matches the empty prefix")
	assert.False(t, MatchQPath(p, []string{"Result", "Err"}))
	assert.False(t, MatchQPath(p, []string{"Option", "Ok"}))
	assert.False(t, MatchQPath(p, nil), "empty query")

	notNamed := &ir.TypeRelativePath{
		Base:    &ir.TypeExpr{Kind: &ir.TypeSlice{Elem: &ir.TypeExpr{Kind: &ir.TypeInfer{}}}},
		Segment: ir.PathSegment{Name: "len"},
	}
	assert.False(t, MatchQPath(notNamed, []string{"len"}))

	nested := typeRelative(typeRelative(resolved("a"), "B"), "C")
	assert.True(t, MatchQPath(nested, []string{"a", "B", "C"}))
	assert.False(t, MatchQPath(nested, []string{"a", "X", "C"}))
}

func TestLastAndSingleSegment(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "c", LastSegment(resolved("a", "b", "c")).Name)
	assert.Equal(t, "Ok", LastSegment(typeRelative(resolved("Result"), "Ok")).Name)
	assert.Panics(t, func() { LastSegment(resolved()) })

	seg, ok := SingleSegment(resolved("x"))
	require.True(t, ok)
	assert.Equal(t, "x", seg.Name)
	_, ok = SingleSegment(resolved("a", "b"))
	assert.False(t, ok)
	seg, ok = SingleSegment(typeRelative(resolved("a", "b"), "new"))
	require.True(t, ok)
	assert.Equal(t, "new", seg.Name)
}

func newHost() (*memhost.Host, map[string]ir.DefID) {
	h := memhost.New()
	core := h.AddCrate("core")
	ids := map[string]ir.DefID{}
	ids["Option"] = h.AddPath(core, ir.DefEnum, "option", "Option")
	ids["Clone"] = h.AddPath(core, ir.DefTrait, "clone", "Clone")
	ids["clone"] = h.AddDef(ids["Clone"], "clone", ir.DefMethod)
	ids["impl"] = h.AddDef(ids["Option"], "impl", ir.DefImpl)
	ids["map"] = h.AddDef(ids["impl"], "map", ir.DefMethod)
	return h, ids
}

func TestMatchDefPath(t *testing.T) {
	t.Parallel()
	h, ids := newHost()

	assert.True(t, MatchDefPath(h, ids["Option"], Option))
	assert.False(t, MatchDefPath(h, ids["Option"], []string{"option", "Option"}), "whole path equality")
	assert.False(t, MatchDefPath(h, ir.DefID{Crate: 5}, Option))

	assert.True(t, MatchType(h, &ir.Adt{Def: ids["Option"]}, Option))
	assert.False(t, MatchType(h, &ir.Ref{Elem: &ir.Adt{Def: ids["Option"]}}, Option))
}

func TestMatchTraitAndImplMethod(t *testing.T) {
	t.Parallel()
	h, ids := newHost()
	tables := ir.NewTypeckTables()

	call := &ir.Expr{ID: 1, Kind: &ir.ExprMethodCall{Name: ir.PathSegment{Name: "clone"}}}
	tables.MethodCallees[1] = ids["clone"]
	assert.True(t, MatchTraitMethod(h, tables, call, Clone))
	assert.False(t, MatchImplMethod(h, tables, call, Clone))

	mapCall := &ir.Expr{ID: 2, Kind: &ir.ExprMethodCall{Name: ir.PathSegment{Name: "map"}}}
	tables.MethodCallees[2] = ids["map"]
	assert.True(t, MatchImplMethod(h, tables, mapCall, []string{"core", "option", "Option", "impl"}))
	assert.False(t, MatchTraitMethod(h, tables, mapCall, Clone))

	unknown := &ir.Expr{ID: 3}
	assert.False(t, MatchTraitMethod(h, tables, unknown, Clone))
}

func TestKnownPathsAreAbsolute(t *testing.T) {
	t.Parallel()
	for name, p := range Known {
		assert.GreaterOrEqual(t, len(p), 2, name)
	}
}
