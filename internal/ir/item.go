package ir

// Item is a top-level or nested item declaration.
type Item struct {
	ID    NodeID
	Def   DefID
	Name  string
	Span  Span
	Attrs []Attribute
	Kind  ItemKind
}

func (it *Item) NodeID() NodeID { return it.ID }

// ItemKind is the shape of an item.
type ItemKind interface {
	isItemKind()
}

// FnParam is one function parameter.
type FnParam struct {
	ID  NodeID
	Pat *Pat
	Ty  *TypeExpr
}

func (p *FnParam) NodeID() NodeID { return p.ID }

// Body is the executable part of a fn, const or static.
type Body struct {
	Params []*FnParam
	Value  *Expr
}

// FnDecl is the written signature of a function. Output is nil for `()`.
type FnDecl struct {
	Inputs []*TypeExpr
	Output *TypeExpr
}

type (
	// ItemFn is a free function or a method inside an impl or trait. Sig is
	// the semantic signature; Body is nil for required trait methods.
	ItemFn struct {
		Decl FnDecl
		Sig  FnSig
		Body *Body
	}
	ItemConst struct {
		Ty   *TypeExpr
		Body *Body
	}
	ItemStatic struct {
		Ty   *TypeExpr
		Mut  bool
		Body *Body
	}
	ItemStruct struct{}
	ItemEnum   struct{}
	ItemTrait  struct{ Items []*Item }
	ItemImpl   struct {
		Trait  *Path
		SelfTy *TypeExpr
		Items  []*Item
	}
	ItemMod struct{ Items []*Item }
)

func (*ItemFn) isItemKind()     {}
func (*ItemConst) isItemKind()  {}
func (*ItemStatic) isItemKind() {}
func (*ItemStruct) isItemKind() {}
func (*ItemEnum) isItemKind()   {}
func (*ItemTrait) isItemKind()  {}
func (*ItemImpl) isItemKind()   {}
func (*ItemMod) isItemKind()    {}

// Body returns the item's body, or nil for items without one.
func (it *Item) Body() *Body {
	switch k := it.Kind.(type) {
	case *ItemFn:
		return k.Body
	case *ItemConst:
		return k.Body
	case *ItemStatic:
		return k.Body
	}
	return nil
}
