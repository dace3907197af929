// Package capability answers trait-implementation, type-equality and
// copy questions through the host's inference contexts, plus a few
// structural type tests that need no inference at all.
package capability

import (
	"github.com/jward/lintkit/internal/ir"
)

// TraitResolver locates traits by absolute path.
type TraitResolver interface {
	TraitDefID(path []string) (ir.DefID, bool)
}

// Checker runs capability queries. Every query opens exactly one inference
// context and the host releases it before the query returns.
type Checker struct {
	infer  ir.InferHost
	traits TraitResolver
}

// New returns a Checker. traits may be nil if ImplementsPath is unused.
func New(infer ir.InferHost, traits TraitResolver) *Checker {
	if infer == nil {
		panic("capability: nil inference host")
	}
	return &Checker{infer: infer, traits: traits}
}

// ImplementsTrait reports whether ty implements trait applied to
// tyParams, as seen from scope (ir.NoNode for no generics). Regions are
// erased first. An undecidable obligation counts as not implemented.
func (c *Checker) ImplementsTrait(ty ir.Ty, trait ir.DefID, tyParams []ir.Ty, scope ir.NodeID) bool {
	ty = ir.EraseRegions(ty)
	return c.infer.Enter(scope, func(cx ir.InferCtxt) bool {
		return cx.EvaluateConservatively(ir.Obligation{Trait: trait, Self: ty, Args: tyParams})
	})
}

// ImplementsPath is ImplementsTrait for a trait named by absolute path.
// An unresolvable path yields false.
func (c *Checker) ImplementsPath(ty ir.Ty, path []string, tyParams []ir.Ty, scope ir.NodeID) bool {
	if c.traits == nil {
		return false
	}
	trait, ok := c.traits.TraitDefID(path)
	if !ok {
		return false
	}
	return c.ImplementsTrait(ty, trait, tyParams, scope)
}

// SameTypes reports whether a and b are equal once the generics of scope
// are substituted into both.
//
// Lifetimes never matter. Generic parameters are compared by position, so
// parameters of unrelated items may compare equal; callers that care must
// check provenance of the parameters themselves.
func (c *Checker) SameTypes(a, b ir.Ty, scope ir.NodeID) bool {
	return c.infer.Enter(scope, func(cx ir.InferCtxt) bool {
		return cx.CanEquate(cx.Substitute(a), cx.Substitute(b))
	})
}

// IsCopy reports whether ty, with scope's generics substituted, is copied
// rather than moved.
func (c *Checker) IsCopy(ty ir.Ty, scope ir.NodeID) bool {
	return c.infer.Enter(scope, func(cx ir.InferCtxt) bool {
		return !cx.MovesByDefault(cx.Substitute(ty))
	})
}

// IsUnsafeFunction reports whether ty is a function item or pointer
// declared unsafe.
func IsUnsafeFunction(ty ir.Ty) bool {
	switch t := ty.(type) {
	case *ir.FnDef:
		return t.Sig.Safety == ir.Unsafe
	case *ir.FnPtr:
		return t.Sig.Safety == ir.Unsafe
	}
	return false
}

// WalkPtrs strips references off ty.
func WalkPtrs(ty ir.Ty) ir.Ty {
	t, _ := WalkPtrsDepth(ty)
	return t
}

// WalkPtrsDepth strips references off ty and counts them. Raw pointers
// are not references and stop the walk.
func WalkPtrsDepth(ty ir.Ty) (ir.Ty, int) {
	depth := 0
	for {
		r, ok := ty.(*ir.Ref)
		if !ok {
			return ty, depth
		}
		ty = r.Elem
		depth++
	}
}

// ReturnType returns the declared output type of a function item; unit
// when none is declared.
func ReturnType(item *ir.Item) (ir.Ty, bool) {
	fn, ok := item.Kind.(*ir.ItemFn)
	if !ok {
		return nil, false
	}
	if fn.Sig.Output == nil {
		return ir.Unit(), true
	}
	return fn.Sig.Output, true
}
