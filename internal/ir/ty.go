package ir

import (
	"fmt"
	"strings"
)

// Ty is a resolved (semantic) type. The set of implementations is closed;
// consumers switch over the concrete pointer types below.
type Ty interface {
	isTy()
	String() string
}

// PrimKind enumerates the built-in scalar and string types.
type PrimKind uint8

const (
	Bool PrimKind = iota
	Char
	Str
	I8
	I16
	I32
	I64
	I128
	Isize
	U8
	U16
	U32
	U64
	U128
	Usize
	F32
	F64
)

var primNames = [...]string{
	Bool: "bool", Char: "char", Str: "str",
	I8: "i8", I16: "i16", I32: "i32", I64: "i64", I128: "i128", Isize: "isize",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64", U128: "u128", Usize: "usize",
	F32: "f32", F64: "f64",
}

func (k PrimKind) String() string {
	if int(k) < len(primNames) {
		return primNames[k]
	}
	return fmt.Sprintf("PrimKind(%d)", uint8(k))
}

// Region is a lifetime. ErasedRegion is what EraseRegions leaves behind.
type Region string

const (
	ErasedRegion Region = ""
	StaticRegion Region = "'static"
)

// Safety is the declared safety qualifier of a function signature.
type Safety uint8

const (
	Safe Safety = iota
	Unsafe
)

// FnSig is a function signature.
type FnSig struct {
	Inputs   []Ty
	Output   Ty
	Safety   Safety
	Variadic bool
}

func (s FnSig) String() string {
	var b strings.Builder
	if s.Safety == Unsafe {
		b.WriteString("unsafe ")
	}
	b.WriteString("fn(")
	writeTys(&b, s.Inputs)
	b.WriteString(")")
	if s.Output != nil {
		if t, ok := s.Output.(*Tuple); !ok || len(t.Elems) > 0 {
			b.WriteString(" -> ")
			b.WriteString(s.Output.String())
		}
	}
	return b.String()
}

type (
	// Prim is a built-in scalar or str.
	Prim struct{ Kind PrimKind }

	// Adt is a struct, enum or union applied to type arguments.
	Adt struct {
		Def  DefID
		Name string
		Args []Ty
	}

	// Ref is a reference `&'r T` or `&'r mut T`.
	Ref struct {
		Region Region
		Mut    bool
		Elem   Ty
	}

	// RawPtr is `*const T` or `*mut T`.
	RawPtr struct {
		Mut  bool
		Elem Ty
	}

	// Tuple is a tuple type; the empty tuple is unit.
	Tuple struct{ Elems []Ty }

	// Array is `[T; N]`.
	Array struct {
		Elem Ty
		Len  uint64
	}

	// Slice is `[T]`.
	Slice struct{ Elem Ty }

	// FnDef is the zero-sized type of one function item.
	FnDef struct {
		Def  DefID
		Args []Ty
		Sig  FnSig
	}

	// FnPtr is a function pointer type.
	FnPtr struct{ Sig FnSig }

	// Param is a generic type parameter, numbered within its declaring
	// generics.
	Param struct {
		Index uint32
		Name  string
	}

	// Infer is an inference variable owned by an inference context.
	Infer struct{ Var uint32 }

	// Dynamic is a trait object `dyn Trait + 'r`.
	Dynamic struct {
		Trait  DefID
		Name   string
		Region Region
	}

	// Never is `!`.
	Never struct{}
)

func (*Prim) isTy()    {}
func (*Adt) isTy()     {}
func (*Ref) isTy()     {}
func (*RawPtr) isTy()  {}
func (*Tuple) isTy()   {}
func (*Array) isTy()   {}
func (*Slice) isTy()   {}
func (*FnDef) isTy()   {}
func (*FnPtr) isTy()   {}
func (*Param) isTy()   {}
func (*Infer) isTy()   {}
func (*Dynamic) isTy() {}
func (*Never) isTy()   {}

// Unit is the empty tuple.
func Unit() *Tuple { return &Tuple{} }

func (t *Prim) String() string { return t.Kind.String() }

func (t *Adt) String() string {
	name := t.Name
	if name == "" {
		name = "adt#" + t.Def.String()
	}
	if len(t.Args) == 0 {
		return name
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteString("<")
	writeTys(&b, t.Args)
	b.WriteString(">")
	return b.String()
}

func (t *Ref) String() string {
	var b strings.Builder
	b.WriteString("&")
	if t.Region != ErasedRegion {
		b.WriteString(string(t.Region))
		b.WriteString(" ")
	}
	if t.Mut {
		b.WriteString("mut ")
	}
	b.WriteString(t.Elem.String())
	return b.String()
}

func (t *RawPtr) String() string {
	if t.Mut {
		return "*mut " + t.Elem.String()
	}
	return "*const " + t.Elem.String()
}

func (t *Tuple) String() string {
	var b strings.Builder
	b.WriteString("(")
	writeTys(&b, t.Elems)
	if len(t.Elems) == 1 {
		b.WriteString(",")
	}
	b.WriteString(")")
	return b.String()
}

func (t *Array) String() string   { return fmt.Sprintf("[%s; %d]", t.Elem, t.Len) }
func (t *Slice) String() string   { return "[" + t.Elem.String() + "]" }
func (t *FnDef) String() string   { return "fn-item#" + t.Def.String() + " " + t.Sig.String() }
func (t *FnPtr) String() string   { return t.Sig.String() }
func (t *Infer) String() string   { return fmt.Sprintf("?%d", t.Var) }
func (t *Never) String() string   { return "!" }
func (t *Dynamic) String() string { return "dyn " + t.Name }

func (t *Param) String() string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("T%d", t.Index)
}

func writeTys(b *strings.Builder, tys []Ty) {
	for i, t := range tys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
}

// FoldTy rebuilds t bottom-up, replacing every node with f(node) after its
// children have been folded. Nodes f returns unchanged are shared.
func FoldTy(t Ty, f func(Ty) Ty) Ty {
	if t == nil {
		return nil
	}
	switch t := t.(type) {
	case *Adt:
		return f(&Adt{Def: t.Def, Name: t.Name, Args: foldTys(t.Args, f)})
	case *Ref:
		return f(&Ref{Region: t.Region, Mut: t.Mut, Elem: FoldTy(t.Elem, f)})
	case *RawPtr:
		return f(&RawPtr{Mut: t.Mut, Elem: FoldTy(t.Elem, f)})
	case *Tuple:
		return f(&Tuple{Elems: foldTys(t.Elems, f)})
	case *Array:
		return f(&Array{Elem: FoldTy(t.Elem, f), Len: t.Len})
	case *Slice:
		return f(&Slice{Elem: FoldTy(t.Elem, f)})
	case *FnDef:
		return f(&FnDef{Def: t.Def, Args: foldTys(t.Args, f), Sig: foldSig(t.Sig, f)})
	case *FnPtr:
		return f(&FnPtr{Sig: foldSig(t.Sig, f)})
	default:
		return f(t)
	}
}

func foldTys(tys []Ty, f func(Ty) Ty) []Ty {
	if tys == nil {
		return nil
	}
	out := make([]Ty, len(tys))
	for i, t := range tys {
		out[i] = FoldTy(t, f)
	}
	return out
}

func foldSig(s FnSig, f func(Ty) Ty) FnSig {
	return FnSig{
		Inputs:   foldTys(s.Inputs, f),
		Output:   FoldTy(s.Output, f),
		Safety:   s.Safety,
		Variadic: s.Variadic,
	}
}

// EraseRegions replaces every region in t with ErasedRegion.
func EraseRegions(t Ty) Ty {
	return FoldTy(t, func(t Ty) Ty {
		switch t := t.(type) {
		case *Ref:
			t.Region = ErasedRegion
		case *Dynamic:
			return &Dynamic{Trait: t.Trait, Name: t.Name}
		}
		return t
	})
}

// AnyTy reports whether pred holds for t or any type nested inside it.
func AnyTy(t Ty, pred func(Ty) bool) bool {
	found := false
	FoldTy(t, func(t Ty) Ty {
		if !found && pred(t) {
			found = true
		}
		return t
	})
	return found
}
