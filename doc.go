// Package lintkit provides the semantic queries static-analysis checks
// need when they walk the typed IR of a compiled program: where a span
// came from in macro expansion, what an absolute path resolves to,
// whether a type implements a trait, whether a pattern is refutable, and
// a handful of structural expression matchers.
//
// # Snapshots
//
// The program being checked is described by a YAML snapshot: the
// namespace tree of every linked crate, the source files, and the
// expansion records of every syntax context. An [Engine] imports it into
// SQLite and answers namespace, expansion and source-map queries from
// there:
//
//	e, err := lintkit.New("lintkit.db")
//	if err != nil { ... }
//	defer e.Close()
//
//	_, err = e.ImportFile(ctx, "snapshot.yaml")
//
// # Checks
//
// Go checks implement [Check] and optionally [ItemChecker]. [Engine.Run]
// hands them every item and expression of a [Program] together with a
// [Context], the query façade:
//
//	findings, err := e.Run(ctx, prog, []lintkit.Check{myCheck{}})
//
// Inside a check:
//
//	func (myCheck) CheckExpr(cx *lintkit.Context, expr *ir.Expr) {
//		if cx.InExternalMacro(expr.Span) {
//			return
//		}
//		if _, ok := cx.MethodChainArgs(expr, []string{"iter", "next"}); ok {
//			cx.Report(expr.Span, "use first() instead")
//		}
//	}
//
// # Scripts
//
// Checks may also be written as Risor scripts. [Engine.RunScripts] runs
// them with host functions for path resolution, macro provenance, source
// snippets, tree-sitter parsing of recovered source, and `report`. The
// built-in scripts live in the scripts package. See the internal/runtime
// package for the full set of globals exposed to scripts.
//
// # Concurrency
//
// Every query is reentrant. Run spreads items over a worker pool and
// RunScripts gives each script its own runtime; checks must not share
// mutable state without their own locking.
package lintkit
