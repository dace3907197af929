package store

import (
	"sync"

	"github.com/jward/lintkit/internal/ir"
)

// Host serves a Store through the ir host capabilities. The capability
// methods have no error results, so a failed query answers "absent" and
// the first such error is kept for Err.
type Host struct {
	s *Store

	mu  sync.Mutex
	err error
}

var (
	_ ir.Namespace  = (*Host)(nil)
	_ ir.Expansions = (*Host)(nil)
	_ ir.SourceMap  = (*Host)(nil)
)

// NewHost wraps s.
func NewHost(s *Store) *Host {
	return &Host{s: s}
}

// Err returns the first query error seen by h, if any.
func (h *Host) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *Host) fail(err error) {
	h.mu.Lock()
	if h.err == nil {
		h.err = err
	}
	h.mu.Unlock()
}

func (h *Host) Crates() []ir.CrateNum {
	crates, err := h.s.Crates()
	if err != nil {
		h.fail(err)
		return nil
	}
	out := make([]ir.CrateNum, len(crates))
	for i, c := range crates {
		out[i] = c.Num
	}
	return out
}

func (h *Host) CrateName(n ir.CrateNum) (string, bool) {
	c, err := h.s.CrateByNum(n)
	if err != nil {
		h.fail(err)
		return "", false
	}
	if c == nil {
		return "", false
	}
	return c.Name, true
}

func (h *Host) ItemChildren(id ir.DefID) []ir.Export {
	defs, err := h.s.DefChildren(id)
	if err != nil {
		h.fail(err)
		return nil
	}
	out := make([]ir.Export, len(defs))
	for i, d := range defs {
		out[i] = ir.Export{Name: d.Name, Def: ir.Def{Kind: d.Kind, ID: d.ID()}}
	}
	return out
}

func (h *Host) def(id ir.DefID) *Def {
	d, err := h.s.DefByID(id)
	if err != nil {
		h.fail(err)
		return nil
	}
	return d
}

func (h *Host) DefKind(id ir.DefID) (ir.DefKind, bool) {
	d := h.def(id)
	if d == nil {
		return ir.DefErr, false
	}
	return d.Kind, true
}

func (h *Host) DefParent(id ir.DefID) (ir.DefID, bool) {
	d := h.def(id)
	if d == nil || d.ParentIndex == nil {
		return ir.DefID{}, false
	}
	return ir.DefID{Crate: id.Crate, Index: *d.ParentIndex}, true
}

func (h *Host) DefPath(id ir.DefID) ([]string, bool) {
	chain, err := h.s.DefChain(id)
	if err != nil {
		h.fail(err)
		return nil, false
	}
	if len(chain) == 0 {
		return nil, false
	}
	out := make([]string, len(chain))
	for i, d := range chain {
		out[i] = d.Name
	}
	return out, true
}

func (h *Host) ExpnInfo(ctxt ir.SyntaxContext) (ir.ExpnInfo, bool) {
	e, err := h.s.ExpansionByCtxt(ctxt)
	if err != nil {
		h.fail(err)
		return ir.ExpnInfo{}, false
	}
	if e == nil {
		return ir.ExpnInfo{}, false
	}
	return e.Info, true
}

func (h *Host) SpanToSnippet(sp ir.Span) (string, error) {
	return h.s.Snippet(sp)
}
