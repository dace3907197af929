// Package nav answers "where am I" questions about IR nodes using the
// parent side table of an ir.Map.
package nav

import "github.com/jward/lintkit/internal/ir"

// ParentExpr returns the expression directly containing id. It fails when
// the parent is a statement, block, pattern or item.
func ParentExpr(m *ir.Map, id ir.NodeID) (*ir.Expr, bool) {
	p := m.Parent(id)
	if p == ir.NoNode || p == id {
		return nil, false
	}
	n, ok := m.Find(p)
	if !ok {
		return nil, false
	}
	e, ok := n.(*ir.Expr)
	return e, ok
}

// EnclosingBlock returns the block forming id's enclosing scope. When the
// scope is a function item, its body block is returned instead.
func EnclosingBlock(m *ir.Map, id ir.NodeID) (*ir.Block, bool) {
	scope := m.EnclosingScope(id)
	if scope == ir.NoNode {
		return nil, false
	}
	n, _ := m.Find(scope)
	switch n := n.(type) {
	case *ir.Block:
		return n, true
	case *ir.Item:
		fn, ok := n.Kind.(*ir.ItemFn)
		if !ok || fn.Body == nil || fn.Body.Value == nil {
			return nil, false
		}
		if b, ok := fn.Body.Value.Kind.(*ir.ExprBlock); ok && b.Block != nil {
			return b.Block, true
		}
	}
	return nil, false
}

// ItemName returns the name of the item containing id.
func ItemName(m *ir.Map, id ir.NodeID) (string, bool) {
	it, ok := m.ParentItem(id)
	if !ok {
		return "", false
	}
	return it.Name, true
}

// InConstant reports whether id is evaluated at compile time, that is,
// whether its item is a const or a static.
func InConstant(m *ir.Map, id ir.NodeID) bool {
	it, ok := m.ParentItem(id)
	if !ok {
		return false
	}
	switch it.Kind.(type) {
	case *ir.ItemConst, *ir.ItemStatic:
		return true
	}
	return false
}
