package typeck

import (
	"strings"

	"github.com/jward/lintkit/internal/ir"
)

// EvaluateConservatively decides ob. Anything the solver cannot settle,
// including ambiguity between impls and recursion past the depth bound,
// is answered false.
func (c *inferCtxt) EvaluateConservatively(ob ir.Obligation) bool {
	c.live()
	snap := c.snapshot()
	defer c.rollback(snap)
	return c.evaluate(ob, 0, nil)
}

// MovesByDefault reports whether values of t are moved rather than
// copied.
func (c *inferCtxt) MovesByDefault(t ir.Ty) bool {
	c.live()
	snap := c.snapshot()
	defer c.rollback(snap)
	return !c.isCopy(t, 0, nil)
}

func obligationKey(ob ir.Obligation, c *inferCtxt) string {
	var b strings.Builder
	b.WriteString(ob.Trait.String())
	b.WriteString(" ")
	b.WriteString(c.resolve(ob.Self).String())
	for _, a := range ob.Args {
		b.WriteString(" ")
		b.WriteString(c.resolve(a).String())
	}
	return b.String()
}

func (c *inferCtxt) evaluate(ob ir.Obligation, depth int, stack []string) bool {
	if depth > c.env.maxDepth || ob.Self == nil {
		return false
	}
	key := obligationKey(ob, c)
	for _, k := range stack {
		if k == key {
			return false
		}
	}
	stack = append(stack, key)

	self := c.shallow(ob.Self)
	if _, unresolved := self.(*ir.Infer); unresolved {
		return false
	}

	lang := c.env.lang
	switch {
	case lang.isCopy(ob.Trait):
		switch self.(type) {
		case *ir.Adt, *ir.Param:
		default:
			return c.builtinCopy(self, depth, stack)
		}
	case lang.isSized(ob.Trait):
		return builtinSized(self)
	}

	if p, ok := self.(*ir.Param); ok && c.boundHolds(p, ob) {
		return true
	}
	return c.selectImpl(ob, depth, stack)
}

// boundHolds looks for `p: Trait<Args>` among the scope's bounds.
func (c *inferCtxt) boundHolds(p *ir.Param, ob ir.Obligation) bool {
	def, ok := c.params[p.Index]
	if !ok {
		return false
	}
	for _, b := range def.Bounds {
		if b.Trait != ob.Trait || len(b.Args) != len(ob.Args) {
			continue
		}
		snap := c.snapshot()
		err := c.unifyAll(b.Args, ob.Args, p, p)
		c.rollback(snap)
		if err == nil {
			return true
		}
	}
	return false
}

type candidate struct {
	self  ir.Ty
	args  []ir.Ty
	where []ir.Obligation
}

// selectImpl matches ob against every impl of its trait. Exactly one impl
// may match; its where-clauses must then hold too.
func (c *inferCtxt) selectImpl(ob ir.Obligation, depth int, stack []string) bool {
	var picked *candidate
	for _, impl := range c.env.impls[ob.Trait] {
		cand := c.instantiate(impl)
		snap := c.snapshot()
		ok := c.unify(ob.Self, cand.self) == nil &&
			len(cand.args) == len(ob.Args) &&
			c.unifyAll(ob.Args, cand.args, ob.Self, cand.self) == nil
		c.rollback(snap)
		if !ok {
			continue
		}
		if picked != nil {
			return false
		}
		picked = &cand
	}
	if picked == nil {
		return false
	}

	if c.unify(ob.Self, picked.self) != nil || c.unifyAll(ob.Args, picked.args, ob.Self, picked.self) != nil {
		return false
	}
	for _, w := range picked.where {
		if !c.evaluate(w, depth+1, stack) {
			return false
		}
	}
	return true
}

// instantiate replaces an impl's own parameters with fresh variables.
func (c *inferCtxt) instantiate(impl Impl) candidate {
	vars := make([]ir.Ty, impl.Params)
	for i := range vars {
		vars[i] = c.fresh()
	}
	subst := func(t ir.Ty) ir.Ty {
		return ir.FoldTy(t, func(t ir.Ty) ir.Ty {
			if p, ok := t.(*ir.Param); ok && int(p.Index) < impl.Params {
				return vars[p.Index]
			}
			return t
		})
	}
	cand := candidate{self: subst(impl.Self)}
	for _, a := range impl.TraitArgs {
		cand.args = append(cand.args, subst(a))
	}
	for _, w := range impl.Where {
		inst := ir.Obligation{Trait: w.Trait, Self: subst(w.Self)}
		for _, a := range w.Args {
			inst.Args = append(inst.Args, subst(a))
		}
		cand.where = append(cand.where, inst)
	}
	return cand
}

func (c *inferCtxt) isCopy(t ir.Ty, depth int, stack []string) bool {
	if t == nil {
		return true
	}
	t = c.shallow(t)
	switch t.(type) {
	case *ir.Adt, *ir.Param:
		copyTrait := c.env.lang.Copy
		if copyTrait == (ir.DefID{}) {
			return false
		}
		return c.evaluate(ir.Obligation{Trait: copyTrait, Self: t}, depth, stack)
	}
	return c.builtinCopy(t, depth, stack)
}

// builtinCopy is Copy for types the language defines it on.
func (c *inferCtxt) builtinCopy(t ir.Ty, depth int, stack []string) bool {
	if depth > c.env.maxDepth {
		return false
	}
	switch t := t.(type) {
	case *ir.Prim:
		return t.Kind != ir.Str
	case *ir.Ref:
		return !t.Mut
	case *ir.RawPtr, *ir.FnDef, *ir.FnPtr, *ir.Never:
		return true
	case *ir.Tuple:
		for _, e := range t.Elems {
			if !c.isCopy(e, depth+1, stack) {
				return false
			}
		}
		return true
	case *ir.Array:
		return c.isCopy(t.Elem, depth+1, stack)
	case *ir.Adt, *ir.Param:
		return c.isCopy(t, depth, stack)
	}
	// slices, trait objects and unresolved variables
	return false
}

func builtinSized(t ir.Ty) bool {
	switch t := t.(type) {
	case *ir.Slice, *ir.Dynamic:
		return false
	case *ir.Prim:
		return t.Kind != ir.Str
	}
	return true
}
