// Package provenance tells user-written source from code produced by macro
// expansion. It walks the expansion chain recorded for a span's syntax
// context: each ExpnInfo names the macro that produced the span and the
// call site, whose own context leads to the next (outer) layer.
package provenance

import (
	"strings"

	"github.com/jward/lintkit/internal/ir"
)

const (
	// RangeDesugaring is the desugaring that turns `a...b` into a range
	// struct. Spans it produces are reported as not expanded.
	RangeDesugaring = "..."

	// MacroDefKeyword opens the source of a macro whose body is visible.
	MacroDefKeyword = "macro_rules"

	// DefaultMaxDepth bounds expansion chain walks.
	DefaultMaxDepth = 4096
)

// Tracker answers provenance questions for one analysis pass.
type Tracker struct {
	expns    ir.Expansions
	src      ir.SourceMap
	maxDepth int
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithMaxDepth bounds how many expansion layers ExpnOf follows before
// giving up. Non-positive values keep the default.
func WithMaxDepth(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.maxDepth = n
		}
	}
}

// New returns a Tracker reading expansion records from expns and callee
// source text from src. src may be nil, in which case no callee source is
// ever recoverable.
func New(expns ir.Expansions, src ir.SourceMap, opts ...Option) *Tracker {
	if expns == nil {
		panic("provenance: nil expansion table")
	}
	t := &Tracker{expns: expns, src: src, maxDepth: DefaultMaxDepth}
	for _, o := range opts {
		o(t)
	}
	return t
}

// DifferingContexts reports whether a and b come from different
// expansions. Only the context tokens are compared.
func DifferingContexts(a, b ir.Span) bool {
	return a.Ctxt != b.Ctxt
}

// InMacro reports whether sp was produced by an expansion. The range
// desugaring is transparent.
func (t *Tracker) InMacro(sp ir.Span) bool {
	info, ok := t.expns.ExpnInfo(sp.Ctxt)
	if !ok {
		return false
	}
	if info.Callee.Format == ir.CompilerDesugaring {
		return info.Callee.Name != RangeDesugaring
	}
	return true
}

// InExternalMacro reports whether sp was produced by an expansion whose
// definition is opaque: attribute macros, macros without a callee span,
// and macros whose source cannot be read back as a macro_rules body.
func (t *Tracker) InExternalMacro(sp ir.Span) bool {
	info, ok := t.expns.ExpnInfo(sp.Ctxt)
	if !ok {
		return false
	}
	if info.Callee.Format == ir.MacroAttribute {
		return true
	}
	if info.Callee.Span == nil || t.src == nil {
		return true
	}
	code, err := t.src.SpanToSnippet(*info.Callee.Span)
	if err != nil {
		return true
	}
	return !strings.HasPrefix(code, MacroDefKeyword)
}

// ExpnOf walks the expansion chain of sp outward and returns the call site
// of the innermost layer expanded from the macro called name.
func (t *Tracker) ExpnOf(sp ir.Span, name string) (ir.Span, bool) {
	for range t.maxDepth {
		info, ok := t.expns.ExpnInfo(sp.Ctxt)
		if !ok {
			return ir.Span{}, false
		}
		if info.Callee.Name == name {
			return info.CallSite, true
		}
		sp = info.CallSite
	}
	return ir.Span{}, false
}

// DirectExpnOf is ExpnOf restricted to the innermost layer: for
// `foo!(bar!(42))` the literal is a direct expansion of bar only.
func (t *Tracker) DirectExpnOf(sp ir.Span, name string) (ir.Span, bool) {
	info, ok := t.expns.ExpnInfo(sp.Ctxt)
	if !ok || info.Callee.Name != name {
		return ir.Span{}, false
	}
	return info.CallSite, true
}

// Chain returns the expansion layers of sp from innermost to outermost,
// stopping at the depth bound.
func (t *Tracker) Chain(sp ir.Span) []ir.ExpnInfo {
	var out []ir.ExpnInfo
	for range t.maxDepth {
		info, ok := t.expns.ExpnInfo(sp.Ctxt)
		if !ok {
			break
		}
		out = append(out, info)
		sp = info.CallSite
	}
	return out
}
