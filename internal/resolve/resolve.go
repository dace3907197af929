// Package resolve maps absolute item paths to definitions by walking the
// host's namespace tree.
package resolve

import (
	"github.com/jward/lintkit/internal/ir"
)

// Namespace is the part of ir.Namespace the resolver walks.
type Namespace interface {
	Crates() []ir.CrateNum
	CrateName(ir.CrateNum) (string, bool)
	ItemChildren(ir.DefID) []ir.Export
}

// Resolver resolves absolute paths. It keeps no state between calls; every
// lookup re-enumerates the namespace, so results always reflect the host.
type Resolver struct {
	ns Namespace
}

// New returns a Resolver over ns.
func New(ns Namespace) *Resolver {
	if ns == nil {
		panic("resolve: nil namespace")
	}
	return &Resolver{ns: ns}
}

// PathToDef resolves path, whose first element names a crate and whose
// remaining elements name nested items. A bare crate name resolves to
// nothing. It panics when path is empty.
func (r *Resolver) PathToDef(path []string) (ir.Def, bool) {
	if len(path) == 0 {
		panic("resolve: empty path")
	}
	krate, ok := r.findCrate(path[0])
	if !ok {
		return ir.Def{}, false
	}
	items := r.ns.ItemChildren(ir.CrateRoot(krate))
	rest := path[1:]
	for i, segment := range rest {
		child, ok := findChild(items, segment)
		if !ok {
			return ir.Def{}, false
		}
		if i == len(rest)-1 {
			return child.Def, true
		}
		id, ok := child.Def.DefID()
		if !ok {
			return ir.Def{}, false
		}
		items = r.ns.ItemChildren(id)
	}
	return ir.Def{}, false
}

// TraitDefID resolves path and returns its identity only when it names a
// trait.
func (r *Resolver) TraitDefID(path []string) (ir.DefID, bool) {
	def, ok := r.PathToDef(path)
	if !ok || def.Kind != ir.DefTrait {
		return ir.DefID{}, false
	}
	return def.ID, true
}

// DefID resolves path to a definition identity of any kind that has one.
func (r *Resolver) DefID(path []string) (ir.DefID, bool) {
	def, ok := r.PathToDef(path)
	if !ok {
		return ir.DefID{}, false
	}
	return def.DefID()
}

// ResolveNode returns the definition qpath at node id refers to.
func (r *Resolver) ResolveNode(tables ir.Tables, qpath ir.QPath, id ir.NodeID) ir.Def {
	return ir.QPathDef(tables, qpath, id)
}

func (r *Resolver) findCrate(name string) (ir.CrateNum, bool) {
	for _, c := range r.ns.Crates() {
		if n, ok := r.ns.CrateName(c); ok && n == name {
			return c, true
		}
	}
	return 0, false
}

func findChild(items []ir.Export, name string) (ir.Export, bool) {
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return ir.Export{}, false
}
