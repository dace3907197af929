package lintkit

import (
	"fmt"

	"github.com/jward/lintkit/internal/capability"
	"github.com/jward/lintkit/internal/higher"
	"github.com/jward/lintkit/internal/ir"
	"github.com/jward/lintkit/internal/nav"
	"github.com/jward/lintkit/internal/paths"
	"github.com/jward/lintkit/internal/pattern"
	"github.com/jward/lintkit/internal/provenance"
	"github.com/jward/lintkit/internal/resolve"
)

// Context is what checks call into. It binds one Program to the
// snapshot's namespace, expansion records and source text.
//
// All methods are safe for concurrent use. Absence is never an error:
// lookups that find nothing return false or nil.
type Context struct {
	prog     *Program
	ns       ir.Namespace
	src      ir.SourceMap
	resolver *resolve.Resolver
	tracker  *provenance.Tracker
	caps     *capability.Checker
	sink     *findingSink
	check    string
}

func newContext(prog *Program, ns ir.Namespace, src ir.SourceMap, r *resolve.Resolver, t *provenance.Tracker, infer ir.InferHost) *Context {
	return &Context{
		prog:     prog,
		ns:       ns,
		src:      src,
		resolver: r,
		tracker:  t,
		caps:     capability.New(infer, r),
		sink:     &findingSink{},
	}
}

// forCheck returns a Context whose reports are attributed to check. The
// copy shares the finding sink with cx.
func (cx *Context) forCheck(check string) *Context {
	c := *cx
	c.check = check
	return &c
}

// Program returns the program being checked.
func (cx *Context) Program() *Program { return cx.prog }

// Report records a finding for the current check.
func (cx *Context) Report(sp ir.Span, msg string) {
	cx.sink.add(Finding{Check: cx.check, Span: sp, Message: msg})
}

// Reportf is Report with a format string.
func (cx *Context) Reportf(sp ir.Span, format string, args ...any) {
	cx.Report(sp, fmt.Sprintf(format, args...))
}

// Findings returns what has been reported through cx so far, sorted.
func (cx *Context) Findings() []Finding {
	return cx.sink.sorted()
}

// =============================================================================
// Macro provenance
// =============================================================================

func (cx *Context) InMacro(sp ir.Span) bool         { return cx.tracker.InMacro(sp) }
func (cx *Context) InExternalMacro(sp ir.Span) bool { return cx.tracker.InExternalMacro(sp) }

// DifferingContexts reports whether a and b come from different expansions.
func (cx *Context) DifferingContexts(a, b ir.Span) bool {
	return provenance.DifferingContexts(a, b)
}

// ExpnOf returns the call site of the innermost expansion of the macro
// called name that sp came from.
func (cx *Context) ExpnOf(sp ir.Span, name string) (ir.Span, bool) {
	return cx.tracker.ExpnOf(sp, name)
}

// DirectExpnOf is ExpnOf for the innermost layer only.
func (cx *Context) DirectExpnOf(sp ir.Span, name string) (ir.Span, bool) {
	return cx.tracker.DirectExpnOf(sp, name)
}

// ExpnChain lists the expansion layers of sp, innermost first.
func (cx *Context) ExpnChain(sp ir.Span) []ir.ExpnInfo { return cx.tracker.Chain(sp) }

// Snippet returns the source text under sp.
func (cx *Context) Snippet(sp ir.Span) (string, error) { return cx.src.SpanToSnippet(sp) }

// SnippetOr returns the source text under sp, or def when it cannot be
// read.
func (cx *Context) SnippetOr(sp ir.Span, def string) string {
	s, err := cx.src.SpanToSnippet(sp)
	if err != nil {
		return def
	}
	return s
}

// =============================================================================
// Paths and definitions
// =============================================================================

// PathToDef resolves an absolute path such as ["core", "option", "Option"].
// It panics on an empty path.
func (cx *Context) PathToDef(path []string) (ir.Def, bool) { return cx.resolver.PathToDef(path) }

// TraitDefID resolves path only when it names a trait.
func (cx *Context) TraitDefID(path []string) (ir.DefID, bool) { return cx.resolver.TraitDefID(path) }

// ResolveNode returns what qpath at node id refers to.
func (cx *Context) ResolveNode(qpath ir.QPath, id ir.NodeID) ir.Def {
	return cx.resolver.ResolveNode(cx.prog.Tables, qpath, id)
}

// DefPath returns the absolute path of id, crate name first.
func (cx *Context) DefPath(id ir.DefID) ([]string, bool) { return cx.ns.DefPath(id) }

func (cx *Context) MatchQPath(qpath ir.QPath, segments []string) bool {
	return paths.MatchQPath(qpath, segments)
}

func (cx *Context) MatchPath(p *ir.Path, segments []string) bool {
	return paths.MatchPath(p, segments)
}

// LastSegment returns the final segment of qpath. It panics on a
// resolved path with no segments.
func (cx *Context) LastSegment(qpath ir.QPath) ir.PathSegment { return paths.LastSegment(qpath) }

// SingleSegment returns the only segment of a one-segment path.
func (cx *Context) SingleSegment(qpath ir.QPath) (ir.PathSegment, bool) {
	return paths.SingleSegment(qpath)
}

func (cx *Context) MatchDefPath(id ir.DefID, segments []string) bool {
	return paths.MatchDefPath(cx.ns, id, segments)
}

func (cx *Context) MatchType(ty ir.Ty, segments []string) bool {
	return paths.MatchType(cx.ns, ty, segments)
}

// MatchTraitMethod reports whether the method call expr dispatched into
// the trait at segments.
func (cx *Context) MatchTraitMethod(expr *ir.Expr, segments []string) bool {
	return paths.MatchTraitMethod(cx.ns, cx.prog.Tables, expr, segments)
}

// MatchImplMethod reports whether the method call expr dispatched into
// the impl at segments.
func (cx *Context) MatchImplMethod(expr *ir.Expr, segments []string) bool {
	return paths.MatchImplMethod(cx.ns, cx.prog.Tables, expr, segments)
}

// =============================================================================
// Types and traits
// =============================================================================

// NodeType returns the type-check result for a node.
func (cx *Context) NodeType(id ir.NodeID) (ir.Ty, bool) {
	if cx.prog.Tables == nil {
		return nil, false
	}
	return cx.prog.Tables.NodeType(id)
}

func (cx *Context) ImplementsTrait(ty ir.Ty, trait ir.DefID, tyParams []ir.Ty, scope ir.NodeID) bool {
	return cx.caps.ImplementsTrait(ty, trait, tyParams, scope)
}

func (cx *Context) ImplementsPath(ty ir.Ty, path []string, tyParams []ir.Ty, scope ir.NodeID) bool {
	return cx.caps.ImplementsPath(ty, path, tyParams, scope)
}

func (cx *Context) SameTypes(a, b ir.Ty, scope ir.NodeID) bool { return cx.caps.SameTypes(a, b, scope) }
func (cx *Context) IsCopy(ty ir.Ty, scope ir.NodeID) bool      { return cx.caps.IsCopy(ty, scope) }
func (cx *Context) IsUnsafeFunction(ty ir.Ty) bool             { return capability.IsUnsafeFunction(ty) }
func (cx *Context) WalkPtrs(ty ir.Ty) ir.Ty                    { return capability.WalkPtrs(ty) }
func (cx *Context) WalkPtrsDepth(ty ir.Ty) (ir.Ty, int)        { return capability.WalkPtrsDepth(ty) }
func (cx *Context) ReturnType(item *ir.Item) (ir.Ty, bool)     { return capability.ReturnType(item) }

// =============================================================================
// Patterns and expression shapes
// =============================================================================

// IsRefutable reports whether pat can fail to match.
func (cx *Context) IsRefutable(pat *ir.Pat) bool { return pattern.IsRefutable(cx.prog.Tables, pat) }

// MethodChainArgs matches expr against the method chain methods, last
// call outermost, rejecting arguments that come from macros.
func (cx *Context) MethodChainArgs(expr *ir.Expr, methods []string) ([][]*ir.Expr, bool) {
	return higher.MethodChainArgs(cx.tracker, expr, methods)
}

func (cx *Context) RemoveBlocks(expr *ir.Expr) *ir.Expr { return higher.RemoveBlocks(expr) }
func (cx *Context) IsTry(expr *ir.Expr) *ir.Expr        { return higher.IsTry(expr) }
func (cx *Context) IsIntegerLiteral(expr *ir.Expr, value uint64) bool {
	return higher.IsIntegerLiteral(expr, value)
}

func (cx *Context) IsSelf(p *ir.FnParam) bool    { return higher.IsSelf(p) }
func (cx *Context) IsSelfTy(t *ir.TypeExpr) bool { return higher.IsSelfTy(t) }
func (cx *Context) IsAutomaticallyDerived(attrs []ir.Attribute) bool {
	return higher.IsAutomaticallyDerived(attrs)
}

// IterInputPats pairs a fn's declared inputs with its body parameters.
func (cx *Context) IterInputPats(decl ir.FnDecl, body *ir.Body) []*ir.FnParam {
	return higher.IterInputPats(decl, body)
}

// =============================================================================
// Navigation
// =============================================================================

func (cx *Context) ParentExpr(id ir.NodeID) (*ir.Expr, bool) { return nav.ParentExpr(cx.prog.Map, id) }
func (cx *Context) EnclosingBlock(id ir.NodeID) (*ir.Block, bool) {
	return nav.EnclosingBlock(cx.prog.Map, id)
}
func (cx *Context) ItemName(id ir.NodeID) (string, bool) { return nav.ItemName(cx.prog.Map, id) }
func (cx *Context) InConstant(id ir.NodeID) bool         { return nav.InConstant(cx.prog.Map, id) }
