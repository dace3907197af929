package ir

// TypeckTables is a map-backed Tables. The zero value is empty and usable;
// populate it before the pass starts and treat it as read-only afterwards.
type TypeckTables struct {
	NodeTypes     map[NodeID]Ty
	TypeRelative  map[NodeID]Def
	MethodCallees map[NodeID]DefID
}

// NewTypeckTables returns empty tables ready for population.
func NewTypeckTables() *TypeckTables {
	return &TypeckTables{
		NodeTypes:     make(map[NodeID]Ty),
		TypeRelative:  make(map[NodeID]Def),
		MethodCallees: make(map[NodeID]DefID),
	}
}

func (t *TypeckTables) NodeType(id NodeID) (Ty, bool) {
	ty, ok := t.NodeTypes[id]
	return ty, ok
}

func (t *TypeckTables) TypeRelativeDef(id NodeID) (Def, bool) {
	d, ok := t.TypeRelative[id]
	return d, ok
}

func (t *TypeckTables) MethodCallee(id NodeID) (DefID, bool) {
	d, ok := t.MethodCallees[id]
	return d, ok
}
