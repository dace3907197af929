package ir

import "fmt"

// Map is the node arena of one analysis pass. Every node reachable from the
// root items is addressed by a dense NodeID and knows its parent through a
// side table built once by NewMap. A Map is immutable after construction
// and safe for concurrent readers.
type Map struct {
	items   []*Item
	nodes   []Node
	parents []NodeID
}

// NewMap numbers every node reachable from items in preorder, overwriting
// the ID fields, and records each node's parent. Sharing one node between
// two parents is a construction error and panics.
func NewMap(items ...*Item) *Map {
	m := &Map{items: items}
	seen := make(map[Node]struct{})
	var visit func(n Node, parent NodeID)
	visit = func(n Node, parent NodeID) {
		if _, dup := seen[n]; dup {
			panic(fmt.Sprintf("ir: node %T reached twice while building map", n))
		}
		seen[n] = struct{}{}
		id := NodeID(len(m.nodes))
		setID(n, id)
		m.nodes = append(m.nodes, n)
		m.parents = append(m.parents, parent)
		for _, c := range Children(n) {
			visit(c, id)
		}
	}
	for _, it := range items {
		visit(it, NoNode)
	}
	return m
}

func setID(n Node, id NodeID) {
	switch n := n.(type) {
	case *Item:
		n.ID = id
	case *FnParam:
		n.ID = id
	case *Expr:
		n.ID = id
	case *Block:
		n.ID = id
	case *Stmt:
		n.ID = id
	case *Pat:
		n.ID = id
	case *TypeExpr:
		n.ID = id
	default:
		panic(fmt.Sprintf("ir: unknown node type %T", n))
	}
}

// Items returns the root items the map was built from.
func (m *Map) Items() []*Item { return m.items }

// Len returns the number of nodes in the arena.
func (m *Map) Len() int { return len(m.nodes) }

// Find returns the node with the given id.
func (m *Map) Find(id NodeID) (Node, bool) {
	if int(id) >= len(m.nodes) {
		return nil, false
	}
	return m.nodes[id], true
}

// Parent returns the id of id's parent, or NoNode for root items and
// unknown ids.
func (m *Map) Parent(id NodeID) NodeID {
	if int(id) >= len(m.parents) {
		return NoNode
	}
	return m.parents[id]
}

// EnclosingScope returns the nearest strict ancestor of id that is a block
// or an item, or NoNode.
func (m *Map) EnclosingScope(id NodeID) NodeID {
	for p := m.Parent(id); p != NoNode; p = m.Parent(p) {
		switch m.nodes[p].(type) {
		case *Block, *Item:
			return p
		}
	}
	return NoNode
}

// ParentItem returns the nearest item strictly enclosing id.
func (m *Map) ParentItem(id NodeID) (*Item, bool) {
	for p := m.Parent(id); p != NoNode; p = m.Parent(p) {
		if it, ok := m.nodes[p].(*Item); ok {
			return it, true
		}
	}
	return nil, false
}

// Walk visits n and its descendants in preorder. Returning false from fn
// skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Children returns the direct child nodes of n in source order. A fn
// parameter's type is reached through the declaration, not the parameter.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		switch c := c.(type) {
		case *Expr:
			if c == nil {
				return
			}
		case *Pat:
			if c == nil {
				return
			}
		case *TypeExpr:
			if c == nil {
				return
			}
		case *Block:
			if c == nil {
				return
			}
		case *Item:
			if c == nil {
				return
			}
		}
		out = append(out, c)
	}
	addQPath := func(q QPath) {
		switch q := q.(type) {
		case *ResolvedPath:
			add(q.Self)
			if q.Path != nil {
				for _, seg := range q.Path.Segments {
					for _, a := range seg.Args {
						add(a)
					}
				}
			}
		case *TypeRelativePath:
			add(q.Base)
			for _, a := range q.Segment.Args {
				add(a)
			}
		}
	}
	addBody := func(b *Body) {
		if b == nil {
			return
		}
		for _, p := range b.Params {
			out = append(out, p)
		}
		add(b.Value)
	}

	switch n := n.(type) {
	case *Item:
		switch k := n.Kind.(type) {
		case *ItemFn:
			for _, t := range k.Decl.Inputs {
				add(t)
			}
			add(k.Decl.Output)
			addBody(k.Body)
		case *ItemConst:
			add(k.Ty)
			addBody(k.Body)
		case *ItemStatic:
			add(k.Ty)
			addBody(k.Body)
		case *ItemTrait:
			for _, it := range k.Items {
				add(it)
			}
		case *ItemImpl:
			add(k.SelfTy)
			for _, it := range k.Items {
				add(it)
			}
		case *ItemMod:
			for _, it := range k.Items {
				add(it)
			}
		}
	case *FnParam:
		add(n.Pat)
	case *Block:
		for _, s := range n.Stmts {
			out = append(out, s)
		}
		add(n.Expr)
	case *Stmt:
		switch k := n.Kind.(type) {
		case *StmtLocal:
			add(k.Pat)
			add(k.Ty)
			add(k.Init)
		case *StmtExpr:
			add(k.Expr)
		case *StmtSemi:
			add(k.Expr)
		case *StmtItem:
			add(k.Item)
		}
	case *Expr:
		switch k := n.Kind.(type) {
		case *ExprPath:
			addQPath(k.QPath)
		case *ExprCall:
			add(k.Func)
			for _, a := range k.Args {
				add(a)
			}
		case *ExprMethodCall:
			for _, a := range k.Name.Args {
				add(a)
			}
			for _, a := range k.Args {
				add(a)
			}
		case *ExprBlock:
			add(k.Block)
		case *ExprMatch:
			add(k.Scrutinee)
			for _, arm := range k.Arms {
				for _, p := range arm.Pats {
					add(p)
				}
				add(arm.Guard)
				add(arm.Body)
			}
		case *ExprBinary:
			add(k.LHS)
			add(k.RHS)
		case *ExprUnary:
			add(k.Operand)
		case *ExprAddrOf:
			add(k.Operand)
		case *ExprField:
			add(k.Receiver)
		case *ExprTuple:
			for _, e := range k.Elems {
				add(e)
			}
		case *ExprReturn:
			add(k.Value)
		case *ExprAssign:
			add(k.LHS)
			add(k.RHS)
		case *ExprIf:
			add(k.Cond)
			add(k.Then)
			add(k.Else)
		}
	case *Pat:
		switch k := n.Kind.(type) {
		case *PatBinding:
			add(k.Sub)
		case *PatBox:
			add(k.Inner)
		case *PatRef:
			add(k.Inner)
		case *PatLit:
			add(k.Expr)
		case *PatRange:
			add(k.Lo)
			add(k.Hi)
		case *PatPath:
			addQPath(k.QPath)
		case *PatTuple:
			for _, p := range k.Elems {
				add(p)
			}
		case *PatStruct:
			addQPath(k.QPath)
			for _, f := range k.Fields {
				add(f.Pat)
			}
		case *PatTupleStruct:
			addQPath(k.QPath)
			for _, p := range k.Elems {
				add(p)
			}
		case *PatSlice:
			for _, p := range k.Head {
				add(p)
			}
			add(k.Mid)
			for _, p := range k.Tail {
				add(p)
			}
		}
	case *TypeExpr:
		switch k := n.Kind.(type) {
		case *TypePath:
			addQPath(k.QPath)
		case *TypeRef:
			add(k.Elem)
		case *TypePtr:
			add(k.Elem)
		case *TypeSlice:
			add(k.Elem)
		case *TypeTuple:
			for _, t := range k.Elems {
				add(t)
			}
		}
	}
	return out
}
