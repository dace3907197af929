// Package memhost is an in-memory implementation of the ir host
// capabilities. Populate a Host first, then share it: once population is
// done, all methods are read-only and safe for concurrent use.
package memhost

import (
	"fmt"
	"sort"

	"github.com/jward/lintkit/internal/ir"
	"github.com/jward/lintkit/internal/snapshot"
)

type def struct {
	name     string
	kind     ir.DefKind
	parent   ir.DefIndex
	root     bool
	children []ir.DefIndex
}

type crate struct {
	name string
	defs []*def
}

type file struct {
	path    string
	start   ir.BytePos
	content string
}

// Host holds crates, source files and expansion records in memory.
type Host struct {
	crates []*crate
	files  []file
	expns  map[ir.SyntaxContext]ir.ExpnInfo
	end    ir.BytePos
}

var (
	_ ir.Namespace  = (*Host)(nil)
	_ ir.Expansions = (*Host)(nil)
	_ ir.SourceMap  = (*Host)(nil)
)

// New returns an empty host.
func New() *Host {
	return &Host{expns: make(map[ir.SyntaxContext]ir.ExpnInfo)}
}

// AddCrate registers a crate and its root module.
func (h *Host) AddCrate(name string) ir.CrateNum {
	h.crates = append(h.crates, &crate{
		name: name,
		defs: []*def{{name: name, kind: ir.DefMod, root: true}},
	})
	return ir.CrateNum(len(h.crates) - 1)
}

// AddDef adds a named child under parent and returns its identity.
func (h *Host) AddDef(parent ir.DefID, name string, kind ir.DefKind) ir.DefID {
	c := h.crate(parent.Crate)
	if c == nil || int(parent.Index) >= len(c.defs) {
		panic(fmt.Sprintf("memhost: unknown parent %s", parent))
	}
	idx := ir.DefIndex(len(c.defs))
	c.defs = append(c.defs, &def{name: name, kind: kind, parent: parent.Index})
	p := c.defs[parent.Index]
	p.children = append(p.children, idx)
	return ir.DefID{Crate: parent.Crate, Index: idx}
}

// AddPath adds every missing segment of path under crate root and returns
// the last one. Intermediate segments are modules; the last gets kind.
func (h *Host) AddPath(crate ir.CrateNum, kind ir.DefKind, path ...string) ir.DefID {
	cur := ir.CrateRoot(crate)
	for i, name := range path {
		k := ir.DefMod
		if i == len(path)-1 {
			k = kind
		}
		if next, ok := h.child(cur, name); ok {
			cur = next
			continue
		}
		cur = h.AddDef(cur, name, k)
	}
	return cur
}

func (h *Host) child(parent ir.DefID, name string) (ir.DefID, bool) {
	for _, e := range h.ItemChildren(parent) {
		if e.Name == name {
			return e.Def.ID, true
		}
	}
	return ir.DefID{}, false
}

// AddExpansion records the expansion that produced ctxt.
func (h *Host) AddExpansion(ctxt ir.SyntaxContext, info ir.ExpnInfo) {
	if ctxt == ir.EmptyCtxt {
		panic("memhost: expansion for the empty context")
	}
	h.expns[ctxt] = info
}

// AddFile appends a source file and returns the span covering it.
func (h *Host) AddFile(path, content string) ir.Span {
	start := h.end
	h.files = append(h.files, file{path: path, start: start, content: content})
	h.end += ir.BytePos(len(content))
	return ir.Span{Lo: start, Hi: h.end}
}

// FromSnapshot builds a host holding everything in s.
func FromSnapshot(s *snapshot.Snapshot) (*Host, error) {
	h := New()
	err := s.Walk(func(d snapshot.Def) error {
		if d.Root {
			h.AddCrate(d.Name)
			return nil
		}
		h.AddDef(ir.DefID{Crate: d.Crate, Index: d.Parent}, d.Name, d.Kind)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, f := range s.Files {
		h.AddFile(f.Path, f.Content)
	}
	for _, e := range s.Expansions {
		info, err := s.ExpnInfo(e)
		if err != nil {
			return nil, fmt.Errorf("memhost: %w", err)
		}
		h.AddExpansion(ir.SyntaxContext(e.Ctxt), info)
	}
	return h, nil
}

func (h *Host) crate(n ir.CrateNum) *crate {
	if int(n) >= len(h.crates) {
		return nil
	}
	return h.crates[n]
}

func (h *Host) def(id ir.DefID) *def {
	c := h.crate(id.Crate)
	if c == nil || int(id.Index) >= len(c.defs) {
		return nil
	}
	return c.defs[id.Index]
}

func (h *Host) Crates() []ir.CrateNum {
	out := make([]ir.CrateNum, len(h.crates))
	for i := range h.crates {
		out[i] = ir.CrateNum(i)
	}
	return out
}

func (h *Host) CrateName(n ir.CrateNum) (string, bool) {
	c := h.crate(n)
	if c == nil {
		return "", false
	}
	return c.name, true
}

func (h *Host) ItemChildren(id ir.DefID) []ir.Export {
	d := h.def(id)
	if d == nil {
		return nil
	}
	c := h.crates[id.Crate]
	out := make([]ir.Export, 0, len(d.children))
	for _, idx := range d.children {
		child := c.defs[idx]
		out = append(out, ir.Export{
			Name: child.name,
			Def:  ir.Def{Kind: child.kind, ID: ir.DefID{Crate: id.Crate, Index: idx}},
		})
	}
	return out
}

func (h *Host) DefKind(id ir.DefID) (ir.DefKind, bool) {
	d := h.def(id)
	if d == nil {
		return ir.DefErr, false
	}
	return d.kind, true
}

func (h *Host) DefParent(id ir.DefID) (ir.DefID, bool) {
	d := h.def(id)
	if d == nil || d.root {
		return ir.DefID{}, false
	}
	return ir.DefID{Crate: id.Crate, Index: d.parent}, true
}

func (h *Host) DefPath(id ir.DefID) ([]string, bool) {
	d := h.def(id)
	if d == nil {
		return nil, false
	}
	var rev []string
	c := h.crates[id.Crate]
	for {
		rev = append(rev, d.name)
		if d.root {
			break
		}
		d = c.defs[d.parent]
	}
	out := make([]string, len(rev))
	for i, name := range rev {
		out[len(rev)-1-i] = name
	}
	return out, true
}

func (h *Host) ExpnInfo(ctxt ir.SyntaxContext) (ir.ExpnInfo, bool) {
	info, ok := h.expns[ctxt]
	return info, ok
}

// SpanToSnippet returns the source covered by sp. The span must lie inside
// a single file.
func (h *Host) SpanToSnippet(sp ir.Span) (string, error) {
	if sp.Hi < sp.Lo {
		return "", fmt.Errorf("memhost: inverted span %s", sp)
	}
	i := sort.Search(len(h.files), func(i int) bool {
		f := h.files[i]
		return f.start+ir.BytePos(len(f.content)) > sp.Lo
	})
	if i == len(h.files) {
		return "", fmt.Errorf("memhost: span %s outside every file", sp)
	}
	f := h.files[i]
	if sp.Lo < f.start || sp.Hi > f.start+ir.BytePos(len(f.content)) {
		return "", fmt.Errorf("memhost: span %s crosses file %s", sp, f.path)
	}
	return f.content[sp.Lo-f.start : sp.Hi-f.start], nil
}
