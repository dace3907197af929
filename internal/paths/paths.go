// Package paths matches qualified paths and definitions against literal
// segment lists such as ["core", "option", "Option"].
package paths

import (
	"slices"

	"github.com/jward/lintkit/internal/ir"
)

// MatchQPath reports whether qpath ends with segments. Resolved paths are
// compared tail-aligned, so a shorter segment list matches any path it is a
// suffix of and the empty list matches everything. A type-relative path
// matches when its base is itself a named type matching all but the last
// segment and its own segment names the last one.
func MatchQPath(qpath ir.QPath, segments []string) bool {
	switch q := qpath.(type) {
	case *ir.ResolvedPath:
		return MatchPath(q.Path, segments)
	case *ir.TypeRelativePath:
		if len(segments) == 0 || q.Base == nil {
			return false
		}
		base, ok := q.Base.Kind.(*ir.TypePath)
		if !ok {
			return false
		}
		n := len(segments)
		return MatchQPath(base.QPath, segments[:n-1]) && q.Segment.Name == segments[n-1]
	}
	return false
}

// MatchPath compares the trailing segments of p with segments, right to
// left, stopping at the shorter of the two.
func MatchPath(p *ir.Path, segments []string) bool {
	if p == nil {
		return false
	}
	i, j := len(p.Segments)-1, len(segments)-1
	for ; i >= 0 && j >= 0; i, j = i-1, j-1 {
		if p.Segments[i].Name != segments[j] {
			return false
		}
	}
	return true
}

// LastSegment returns the final segment of qpath. It panics on a resolved
// path with no segments.
func LastSegment(qpath ir.QPath) ir.PathSegment {
	switch q := qpath.(type) {
	case *ir.ResolvedPath:
		if q.Path == nil || len(q.Path.Segments) == 0 {
			panic("paths: a path must have at least one segment")
		}
		return q.Path.Segments[len(q.Path.Segments)-1]
	case *ir.TypeRelativePath:
		return q.Segment
	}
	panic("paths: unknown qualified path")
}

// SingleSegment returns the segment of a one-segment resolved path or the
// trailing segment of a type-relative path.
func SingleSegment(qpath ir.QPath) (ir.PathSegment, bool) {
	switch q := qpath.(type) {
	case *ir.ResolvedPath:
		if q.Path != nil && len(q.Path.Segments) == 1 {
			return q.Path.Segments[0], true
		}
	case *ir.TypeRelativePath:
		return q.Segment, true
	}
	return ir.PathSegment{}, false
}

// DefPather returns absolute definition paths.
type DefPather interface {
	DefPath(ir.DefID) ([]string, bool)
}

// MatchDefPath reports whether the absolute path of id, crate name first,
// equals segments exactly.
func MatchDefPath(ns DefPather, id ir.DefID, segments []string) bool {
	p, ok := ns.DefPath(id)
	return ok && slices.Equal(p, segments)
}

// MatchType reports whether ty is a struct, enum or union whose definition
// path equals segments.
func MatchType(ns DefPather, ty ir.Ty, segments []string) bool {
	adt, ok := ty.(*ir.Adt)
	return ok && MatchDefPath(ns, adt.Def, segments)
}

// MethodOwner is the namespace view needed to find which trait or impl a
// method belongs to.
type MethodOwner interface {
	DefPather
	DefKind(ir.DefID) (ir.DefKind, bool)
	DefParent(ir.DefID) (ir.DefID, bool)
}

// MatchTraitMethod reports whether the method call expr dispatched to a
// method declared in the trait at segments.
func MatchTraitMethod(ns MethodOwner, tables ir.Tables, expr *ir.Expr, segments []string) bool {
	owner, ok := methodOwner(ns, tables, expr, ir.DefTrait)
	return ok && MatchDefPath(ns, owner, segments)
}

// MatchImplMethod reports whether the method call expr dispatched to a
// method of the impl at segments.
func MatchImplMethod(ns MethodOwner, tables ir.Tables, expr *ir.Expr, segments []string) bool {
	owner, ok := methodOwner(ns, tables, expr, ir.DefImpl)
	return ok && MatchDefPath(ns, owner, segments)
}

func methodOwner(ns MethodOwner, tables ir.Tables, expr *ir.Expr, want ir.DefKind) (ir.DefID, bool) {
	if tables == nil || expr == nil {
		return ir.DefID{}, false
	}
	callee, ok := tables.MethodCallee(expr.ID)
	if !ok {
		return ir.DefID{}, false
	}
	parent, ok := ns.DefParent(callee)
	if !ok {
		return ir.DefID{}, false
	}
	kind, ok := ns.DefKind(parent)
	if !ok || kind != want {
		return ir.DefID{}, false
	}
	return parent, true
}
