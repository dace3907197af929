package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEraseRegions(t *testing.T) {
	t.Parallel()
	orig := &Ref{Region: "'a", Elem: &Tuple{Elems: []Ty{
		&Ref{Region: StaticRegion, Mut: true, Elem: &Prim{Kind: Str}},
		&Dynamic{Name: "Debug", Region: "'b"},
	}}}

	erased := EraseRegions(orig)
	assert.Equal(t, "&(&mut str, dyn Debug)", erased.String())
	assert.False(t, AnyTy(erased, func(t Ty) bool {
		switch t := t.(type) {
		case *Ref:
			return t.Region != ErasedRegion
		case *Dynamic:
			return t.Region != ErasedRegion
		}
		return false
	}))
	// the input is left alone
	assert.Equal(t, Region("'a"), orig.Region)
}

func TestAnyTy(t *testing.T) {
	t.Parallel()
	ty := &Adt{Name: "Vec", Args: []Ty{&Param{Index: 0, Name: "T"}}}
	isParam := func(t Ty) bool { _, ok := t.(*Param); return ok }
	assert.True(t, AnyTy(ty, isParam))
	assert.False(t, AnyTy(&Slice{Elem: &Prim{Kind: U8}}, isParam))
}

func TestTyString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		ty   Ty
		want string
	}{
		{Unit(), "()"},
		{&Tuple{Elems: []Ty{&Prim{Kind: I32}}}, "(i32,)"},
		{&RawPtr{Elem: &Prim{Kind: U8}}, "*const u8"},
		{&Array{Elem: &Prim{Kind: U8}, Len: 4}, "[u8; 4]"},
		{&FnPtr{Sig: FnSig{Inputs: []Ty{&Prim{Kind: Bool}}, Output: &Never{}, Safety: Unsafe}}, "unsafe fn(bool) -> !"},
		{&Infer{Var: 3}, "?3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ty.String())
	}
}

func TestDefKindRoundTrip(t *testing.T) {
	t.Parallel()
	for k := DefErr; k <= DefLabel; k++ {
		got, ok := ParseDefKind(k.String())
		assert.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := ParseDefKind("nope")
	assert.False(t, ok)
}

func TestDefID(t *testing.T) {
	t.Parallel()
	_, ok := Def{Kind: DefLabel}.DefID()
	assert.False(t, ok)
	id, ok := Def{Kind: DefFn, ID: DefID{Crate: 2, Index: 5}}.DefID()
	assert.True(t, ok)
	assert.Equal(t, "2:5", id.String())
}
