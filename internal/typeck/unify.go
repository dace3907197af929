package typeck

import (
	"errors"
	"fmt"
	"maps"

	"github.com/jward/lintkit/internal/ir"
)

// freshBase keeps solver-allocated variables apart from any inference
// variables the caller's types already carry.
const freshBase = 1 << 31

var errReleased = errors.New("typeck: inference context used after release")

// inferCtxt is the ir.InferCtxt handed to Enter callbacks.
type inferCtxt struct {
	env      *Env
	params   map[uint32]ParamDef
	vars     map[uint32]ir.Ty
	next     uint32
	released bool
}

func (c *inferCtxt) release() {
	c.released = true
	c.vars = nil
}

func (c *inferCtxt) live() {
	if c.released {
		panic(errReleased)
	}
}

func (c *inferCtxt) fresh() *ir.Infer {
	v := &ir.Infer{Var: freshBase + c.next}
	c.next++
	return v
}

// snapshot and rollback bracket a trial unification.
func (c *inferCtxt) snapshot() map[uint32]ir.Ty { return maps.Clone(c.vars) }

func (c *inferCtxt) rollback(s map[uint32]ir.Ty) { c.vars = s }

func (c *inferCtxt) EraseRegions(t ir.Ty) ir.Ty {
	c.live()
	return ir.EraseRegions(t)
}

// Substitute maps each parameter of the scope to the scope's own
// declaration of it; parameters the scope does not declare are left as is.
func (c *inferCtxt) Substitute(t ir.Ty) ir.Ty {
	c.live()
	return ir.FoldTy(t, func(t ir.Ty) ir.Ty {
		if p, ok := t.(*ir.Param); ok {
			if def, ok := c.params[p.Index]; ok {
				return &ir.Param{Index: def.Index, Name: def.Name}
			}
		}
		return t
	})
}

// CanEquate reports whether a and b unify. Bindings made while checking
// are discarded.
func (c *inferCtxt) CanEquate(a, b ir.Ty) bool {
	c.live()
	snap := c.snapshot()
	defer c.rollback(snap)
	return c.unify(a, b) == nil
}

// shallow follows variable bindings at the top of t.
func (c *inferCtxt) shallow(t ir.Ty) ir.Ty {
	for {
		v, ok := t.(*ir.Infer)
		if !ok {
			return t
		}
		bound, ok := c.vars[v.Var]
		if !ok {
			return t
		}
		t = bound
	}
}

// resolve substitutes every bound variable in t.
func (c *inferCtxt) resolve(t ir.Ty) ir.Ty {
	return ir.FoldTy(t, func(t ir.Ty) ir.Ty {
		if v, ok := t.(*ir.Infer); ok {
			if bound, ok := c.vars[v.Var]; ok {
				return c.resolve(bound)
			}
		}
		return t
	})
}

func errUnify(a, b ir.Ty) error {
	return fmt.Errorf("cannot unify %s with %s", a, b)
}

func (c *inferCtxt) unify(a, b ir.Ty) error {
	a, b = c.shallow(orUnit(a)), c.shallow(orUnit(b))

	if va, ok := a.(*ir.Infer); ok {
		return c.bind(va, b)
	}
	if vb, ok := b.(*ir.Infer); ok {
		return c.bind(vb, a)
	}

	switch a := a.(type) {
	case *ir.Prim:
		if b, ok := b.(*ir.Prim); ok && a.Kind == b.Kind {
			return nil
		}
	case *ir.Adt:
		if b, ok := b.(*ir.Adt); ok && a.Def == b.Def {
			return c.unifyAll(a.Args, b.Args, a, b)
		}
	case *ir.Ref:
		if b, ok := b.(*ir.Ref); ok && a.Mut == b.Mut {
			return c.unify(a.Elem, b.Elem)
		}
	case *ir.RawPtr:
		if b, ok := b.(*ir.RawPtr); ok && a.Mut == b.Mut {
			return c.unify(a.Elem, b.Elem)
		}
	case *ir.Tuple:
		if b, ok := b.(*ir.Tuple); ok {
			return c.unifyAll(a.Elems, b.Elems, a, b)
		}
	case *ir.Array:
		if b, ok := b.(*ir.Array); ok && a.Len == b.Len {
			return c.unify(a.Elem, b.Elem)
		}
	case *ir.Slice:
		if b, ok := b.(*ir.Slice); ok {
			return c.unify(a.Elem, b.Elem)
		}
	case *ir.FnDef:
		if b, ok := b.(*ir.FnDef); ok && a.Def == b.Def {
			return c.unifyAll(a.Args, b.Args, a, b)
		}
	case *ir.FnPtr:
		if b, ok := b.(*ir.FnPtr); ok {
			return c.unifySig(a.Sig, b.Sig, a, b)
		}
	case *ir.Param:
		if b, ok := b.(*ir.Param); ok && a.Index == b.Index {
			return nil
		}
	case *ir.Dynamic:
		if b, ok := b.(*ir.Dynamic); ok && a.Trait == b.Trait {
			return nil
		}
	case *ir.Never:
		if _, ok := b.(*ir.Never); ok {
			return nil
		}
	}
	return errUnify(a, b)
}

func (c *inferCtxt) unifyAll(as, bs []ir.Ty, a, b ir.Ty) error {
	if len(as) != len(bs) {
		return errUnify(a, b)
	}
	for i := range as {
		if err := c.unify(as[i], bs[i]); err != nil {
			return fmt.Errorf("%w (in %s)", err, a)
		}
	}
	return nil
}

func (c *inferCtxt) unifySig(sa, sb ir.FnSig, a, b ir.Ty) error {
	if sa.Safety != sb.Safety || sa.Variadic != sb.Variadic {
		return errUnify(a, b)
	}
	if err := c.unifyAll(sa.Inputs, sb.Inputs, a, b); err != nil {
		return err
	}
	return c.unify(sa.Output, sb.Output)
}

func (c *inferCtxt) bind(v *ir.Infer, t ir.Ty) error {
	if tv, ok := t.(*ir.Infer); ok && tv.Var == v.Var {
		return nil
	}
	if c.occurs(v, t) {
		return fmt.Errorf("infinite type: ?%d occurs in %s", v.Var, t)
	}
	c.vars[v.Var] = t
	return nil
}

func (c *inferCtxt) occurs(v *ir.Infer, t ir.Ty) bool {
	return ir.AnyTy(c.resolve(t), func(t ir.Ty) bool {
		iv, ok := t.(*ir.Infer)
		return ok && iv.Var == v.Var
	})
}

func orUnit(t ir.Ty) ir.Ty {
	if t == nil {
		return ir.Unit()
	}
	return t
}
