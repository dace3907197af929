package ir

// Pat is a pattern node.
type Pat struct {
	ID   NodeID
	Span Span
	Kind PatKind
}

func (p *Pat) NodeID() NodeID { return p.ID }

// PatKind is the shape of a pattern. The set is closed; see the variants
// below.
type PatKind interface {
	isPatKind()
}

// BindingMode is how a binding pattern captures its value.
type BindingMode uint8

const (
	ByValue BindingMode = iota
	ByValueMut
	ByRef
	ByRefMut
)

// RangeEnd tells inclusive from exclusive range patterns.
type RangeEnd uint8

const (
	RangeIncluded RangeEnd = iota
	RangeExcluded
)

// NoDotDot marks tuple patterns without a `..` rest marker.
const NoDotDot = -1

// FieldPat is `name: pat` inside a struct pattern.
type FieldPat struct {
	Name      string
	Pat       *Pat
	Shorthand bool
}

type (
	// PatWild is `_`.
	PatWild struct{}

	// PatBinding binds a local. Def is the local's identity, the same one
	// path expressions referring to it resolve to.
	PatBinding struct {
		Mode BindingMode
		Def  DefID
		Name string
		Sub  *Pat
	}

	PatBox struct{ Inner *Pat }
	PatRef struct {
		Inner *Pat
		Mut   bool
	}

	// PatLit holds a literal (or negated literal / constant path) expression.
	PatLit   struct{ Expr *Expr }
	PatRange struct {
		Lo, Hi *Expr
		End    RangeEnd
	}

	// PatPath is a unit struct, unit variant or constant.
	PatPath struct{ QPath QPath }

	// PatTuple is `(a, b, .., z)`. DotDot is the position of `..` or NoDotDot.
	PatTuple struct {
		Elems  []*Pat
		DotDot int
	}

	PatStruct struct {
		QPath  QPath
		Fields []FieldPat
		Etc    bool
	}

	PatTupleStruct struct {
		QPath  QPath
		Elems  []*Pat
		DotDot int
	}

	// PatSlice is `[head.., mid, ..tail]`; Mid is nil when absent.
	PatSlice struct {
		Head []*Pat
		Mid  *Pat
		Tail []*Pat
	}
)

func (*PatWild) isPatKind()        {}
func (*PatBinding) isPatKind()     {}
func (*PatBox) isPatKind()         {}
func (*PatRef) isPatKind()         {}
func (*PatLit) isPatKind()         {}
func (*PatRange) isPatKind()       {}
func (*PatPath) isPatKind()        {}
func (*PatTuple) isPatKind()       {}
func (*PatStruct) isPatKind()      {}
func (*PatTupleStruct) isPatKind() {}
func (*PatSlice) isPatKind()       {}
