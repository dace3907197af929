package ir

import "strings"

// PathSegment is one `::`-separated component of a path.
type PathSegment struct {
	Name string
	Span Span
	Args []*TypeExpr
}

// Path is a path whose definition the resolver already determined.
type Path struct {
	Span     Span
	Def      Def
	Segments []PathSegment
}

func (p *Path) String() string {
	names := make([]string, len(p.Segments))
	for i, seg := range p.Segments {
		names[i] = seg.Name
	}
	return strings.Join(names, "::")
}

// QPath is a possibly-qualified path in expression, pattern or type
// position. Implementations: *ResolvedPath, *TypeRelativePath.
type QPath interface {
	isQPath()
}

// ResolvedPath is `<Self as Trait>::a::b` or plain `a::b`; Self is nil for
// unqualified paths.
type ResolvedPath struct {
	Self *TypeExpr
	Path *Path
}

// TypeRelativePath is `Base::segment` where the segment is resolved only
// after type checking (associated items, enum variants through aliases).
type TypeRelativePath struct {
	Base    *TypeExpr
	Segment PathSegment
}

func (*ResolvedPath) isQPath()     {}
func (*TypeRelativePath) isQPath() {}

// NewPath builds an unqualified resolved path from segment names.
func NewPath(def Def, names ...string) *ResolvedPath {
	segs := make([]PathSegment, len(names))
	for i, n := range names {
		segs[i] = PathSegment{Name: n}
	}
	return &ResolvedPath{Path: &Path{Def: def, Segments: segs}}
}

// TypeExpr is a type as written in source.
type TypeExpr struct {
	ID   NodeID
	Span Span
	Kind TypeExprKind
}

func (t *TypeExpr) NodeID() NodeID { return t.ID }

// TypeExprKind is the shape of a written type.
type TypeExprKind interface {
	isTypeExprKind()
}

type (
	TypePath struct{ QPath QPath }
	TypeRef  struct {
		Region Region
		Mut    bool
		Elem   *TypeExpr
	}
	TypePtr struct {
		Mut  bool
		Elem *TypeExpr
	}
	TypeSlice struct{ Elem *TypeExpr }
	TypeTuple struct{ Elems []*TypeExpr }
	TypeNever struct{}
	// TypeInfer is `_`.
	TypeInfer struct{}
)

func (*TypePath) isTypeExprKind()  {}
func (*TypeRef) isTypeExprKind()   {}
func (*TypePtr) isTypeExprKind()   {}
func (*TypeSlice) isTypeExprKind() {}
func (*TypeTuple) isTypeExprKind() {}
func (*TypeNever) isTypeExprKind() {}
func (*TypeInfer) isTypeExprKind() {}
