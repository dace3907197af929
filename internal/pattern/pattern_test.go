package pattern

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jward/lintkit/internal/ir"
)

var (
	structDef  = ir.Def{Kind: ir.DefStruct, ID: ir.DefID{Index: 4}}
	variantDef = ir.Def{Kind: ir.DefVariant, ID: ir.DefID{Index: 5}}
	ctorDef    = ir.Def{Kind: ir.DefVariantCtor, ID: ir.DefID{Index: 6}}
	constDef   = ir.Def{Kind: ir.DefConst, ID: ir.DefID{Index: 7}}
)

func pat(k ir.PatKind) *ir.Pat { return &ir.Pat{Kind: k} }
func wild() *ir.Pat            { return pat(&ir.PatWild{}) }
func bind(name string) *ir.Pat { return pat(&ir.PatBinding{Name: name}) }
func litPat(v uint64) *ir.Pat {
	return pat(&ir.PatLit{Expr: &ir.Expr{Kind: &ir.ExprLit{Lit: ir.Lit{Kind: ir.LitInt, Int: v}}}})
}
func rangePat() *ir.Pat {
	lo := &ir.Expr{Kind: &ir.ExprLit{Lit: ir.Lit{Kind: ir.LitInt, Int: 1}}}
	hi := &ir.Expr{Kind: &ir.ExprLit{Lit: ir.Lit{Kind: ir.LitInt, Int: 9}}}
	return pat(&ir.PatRange{Lo: lo, Hi: hi})
}

func TestIsRefutable_Table(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		pat  *ir.Pat
		want bool
	}{
		{"wildcard", wild(), false},
		{"binding", bind("x"), false},
		{"binding with irrefutable sub", pat(&ir.PatBinding{Name: "x", Sub: wild()}), false},
		{"binding with literal sub", pat(&ir.PatBinding{Name: "x", Sub: litPat(2)}), true},
		{"box", pat(&ir.PatBox{Inner: bind("x")}), false},
		{"box of literal", pat(&ir.PatBox{Inner: litPat(1)}), true},
		{"ref", pat(&ir.PatRef{Inner: wild()}), false},
		{"ref of literal", pat(&ir.PatRef{Inner: litPat(0)}), true},
		{"literal", litPat(3), true},
		{"range", rangePat(), true},
		{"path to unit struct", pat(&ir.PatPath{QPath: ir.NewPath(structDef, "Unit")}), false},
		{"path to variant", pat(&ir.PatPath{QPath: ir.NewPath(variantDef, "None")}), true},
		{"path to variant ctor", pat(&ir.PatPath{QPath: ir.NewPath(ctorDef, "Empty")}), true},
		{"path to const", pat(&ir.PatPath{QPath: ir.NewPath(constDef, "MAX")}), false},
		{"tuple", pat(&ir.PatTuple{Elems: []*ir.Pat{wild(), bind("y")}, DotDot: ir.NoDotDot}), false},
		{"tuple with literal", pat(&ir.PatTuple{Elems: []*ir.Pat{wild(), litPat(1)}, DotDot: ir.NoDotDot}), true},
		{"struct", pat(&ir.PatStruct{QPath: ir.NewPath(structDef, "P"), Fields: []ir.FieldPat{{Name: "x", Pat: bind("x")}}}), false},
		{"struct with literal field", pat(&ir.PatStruct{QPath: ir.NewPath(structDef, "P"), Fields: []ir.FieldPat{{Name: "x", Pat: litPat(0)}}}), true},
		{"struct variant", pat(&ir.PatStruct{QPath: ir.NewPath(variantDef, "V"), Etc: true}), true},
		{"tuple struct", pat(&ir.PatTupleStruct{QPath: ir.NewPath(structDef, "W"), Elems: []*ir.Pat{wild()}, DotDot: ir.NoDotDot}), false},
		{"tuple struct variant", pat(&ir.PatTupleStruct{QPath: ir.NewPath(ctorDef, "Some"), Elems: []*ir.Pat{wild()}, DotDot: ir.NoDotDot}), true},
		{"slice", pat(&ir.PatSlice{Head: []*ir.Pat{wild()}, Mid: bind("rest"), Tail: []*ir.Pat{bind("z")}}), false},
		{"slice head literal", pat(&ir.PatSlice{Head: []*ir.Pat{litPat(1)}}), true},
		{"slice mid literal", pat(&ir.PatSlice{Mid: litPat(1)}), true},
		{"slice tail literal", pat(&ir.PatSlice{Tail: []*ir.Pat{wild(), litPat(1)}}), true},
		{"empty slice", pat(&ir.PatSlice{}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRefutable(nil, tt.pat))
		})
	}
}

func TestIsRefutable_TypeRelativeVariant(t *testing.T) {
	t.Parallel()
	qp := &ir.TypeRelativePath{
		Base:    &ir.TypeExpr{Kind: &ir.TypePath{QPath: ir.NewPath(ir.Def{Kind: ir.DefTyAlias}, "Alias")}},
		Segment: ir.PathSegment{Name: "A"},
	}
	p := &ir.Pat{ID: 9, Kind: &ir.PatPath{QPath: qp}}

	tables := ir.NewTypeckTables()
	assert.False(t, IsRefutable(tables, p), "unresolved")
	tables.TypeRelative[9] = variantDef
	assert.True(t, IsRefutable(tables, p))
}

func TestIsRefutable_NilPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { IsRefutable(nil, nil) })
}

// genIrrefutable builds a random pattern whose leaves are all wildcards or
// bindings, nested in boxes, refs, tuples, structs and slices.
func genIrrefutable(r *rand.Rand, depth int) *ir.Pat {
	if depth == 0 {
		if r.IntN(2) == 0 {
			return wild()
		}
		return bind("v")
	}
	kids := func() []*ir.Pat {
		out := make([]*ir.Pat, 1+r.IntN(2))
		for i := range out {
			out[i] = genIrrefutable(r, depth-1)
		}
		return out
	}
	switch r.IntN(7) {
	case 0:
		return pat(&ir.PatBox{Inner: genIrrefutable(r, depth-1)})
	case 1:
		return pat(&ir.PatRef{Inner: genIrrefutable(r, depth-1)})
	case 2:
		return pat(&ir.PatTuple{Elems: kids(), DotDot: ir.NoDotDot})
	case 3:
		var fields []ir.FieldPat
		for _, k := range kids() {
			fields = append(fields, ir.FieldPat{Name: "f", Pat: k})
		}
		return pat(&ir.PatStruct{QPath: ir.NewPath(structDef, "S"), Fields: fields})
	case 4:
		return pat(&ir.PatTupleStruct{QPath: ir.NewPath(structDef, "S"), Elems: kids(), DotDot: ir.NoDotDot})
	case 5:
		s := &ir.PatSlice{Head: kids(), Tail: kids()}
		if r.IntN(2) == 0 {
			s.Mid = genIrrefutable(r, depth-1)
		}
		return pat(s)
	default:
		return pat(&ir.PatBinding{Name: "b", Sub: genIrrefutable(r, depth-1)})
	}
}

// plantRefutable replaces one random leaf of p with a literal or range.
func plantRefutable(r *rand.Rand, p *ir.Pat) {
	var leaves []*ir.Pat
	ir.Walk(p, func(n ir.Node) bool {
		if q, ok := n.(*ir.Pat); ok {
			switch q.Kind.(type) {
			case *ir.PatWild:
				leaves = append(leaves, q)
			case *ir.PatBinding:
				if q.Kind.(*ir.PatBinding).Sub == nil {
					leaves = append(leaves, q)
				}
			}
		}
		return true
	})
	leaf := leaves[r.IntN(len(leaves))]
	if r.IntN(2) == 0 {
		leaf.Kind = litPat(42).Kind
	} else {
		leaf.Kind = rangePat().Kind
	}
}

func TestIsRefutable_Properties(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewPCG(1, 2))
	for i := range 300 {
		p := genIrrefutable(r, 1+i%5)
		assert.False(t, IsRefutable(nil, p), "irrefutable leaves only (case %d)", i)
		plantRefutable(r, p)
		assert.True(t, IsRefutable(nil, p), "one refutable leaf (case %d)", i)
	}
}
