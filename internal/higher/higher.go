// Package higher recognizes expression shapes checks look for: method
// chains, redundant blocks, literal values and lowered `?` matches.
package higher

import (
	"github.com/jward/lintkit/internal/ir"
	"github.com/jward/lintkit/internal/paths"
)

// MacroChecker tells whether a span comes from a macro expansion.
type MacroChecker interface {
	InMacro(ir.Span) bool
}

// MethodChainArgs matches expr against a chain of method calls named by
// methods, last call outermost. For `x.a(1).b().c(2)` and methods
// ["a", "b", "c"] it returns the argument lists of a, b and c, receiver
// first, in that order. It fails if any name differs, the chain is too
// short, or any argument along the way comes from a macro.
func MethodChainArgs(macros MacroChecker, expr *ir.Expr, methods []string) ([][]*ir.Expr, bool) {
	current := expr
	matched := make([][]*ir.Expr, 0, len(methods))
	for i := len(methods) - 1; i >= 0; i-- {
		if current == nil {
			return nil, false
		}
		call, ok := current.Kind.(*ir.ExprMethodCall)
		if !ok || call.Name.Name != methods[i] || len(call.Args) == 0 {
			return nil, false
		}
		for _, arg := range call.Args {
			if macros.InMacro(arg.Span) {
				return nil, false
			}
		}
		matched = append(matched, call.Args)
		current = call.Args[0]
	}
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	return matched, true
}

// RemoveBlocks unwraps `{ e }`, `{{ e }}` and so on down to e. Blocks
// with statements and empty blocks are returned unchanged.
func RemoveBlocks(expr *ir.Expr) *ir.Expr {
	for {
		b, ok := expr.Kind.(*ir.ExprBlock)
		if !ok || b.Block == nil || len(b.Block.Stmts) > 0 || b.Block.Expr == nil {
			return expr
		}
		expr = b.Block.Expr
	}
}

// IsIntegerLiteral reports whether expr is the integer literal value.
// Constants are not evaluated.
func IsIntegerLiteral(expr *ir.Expr, value uint64) bool {
	lit, ok := expr.Kind.(*ir.ExprLit)
	return ok && lit.Lit.Kind == ir.LitInt && lit.Lit.Int == value
}

// IsTry returns expr if it is a match produced by `?`, or an equivalent
// hand-written `match e { Ok(x) => x, Err(..) => ... }` with the arms in
// either order. It returns nil otherwise.
func IsTry(expr *ir.Expr) *ir.Expr {
	m, ok := expr.Kind.(*ir.ExprMatch)
	if !ok {
		return nil
	}
	if m.Source == ir.MatchTryDesugar {
		return expr
	}
	if len(m.Arms) != 2 {
		return nil
	}
	for _, arm := range m.Arms {
		if len(arm.Pats) != 1 || arm.Guard != nil {
			return nil
		}
	}
	a, b := m.Arms[0], m.Arms[1]
	if (isOkArm(a) && isErrArm(b)) || (isOkArm(b) && isErrArm(a)) {
		return expr
	}
	return nil
}

// isOkArm matches `Ok(x) => x`.
func isOkArm(arm *ir.Arm) bool {
	ts, ok := arm.Pats[0].Kind.(*ir.PatTupleStruct)
	if !ok || ts.DotDot != ir.NoDotDot || len(ts.Elems) != 1 {
		return false
	}
	if !paths.MatchQPath(ts.QPath, paths.ResultOk[1:]) {
		return false
	}
	binding, ok := ts.Elems[0].Kind.(*ir.PatBinding)
	if !ok || binding.Sub != nil {
		return false
	}
	if arm.Body == nil {
		return false
	}
	body, ok := arm.Body.Kind.(*ir.ExprPath)
	if !ok {
		return false
	}
	rp, ok := body.QPath.(*ir.ResolvedPath)
	if !ok || rp.Self != nil || rp.Path == nil {
		return false
	}
	id, ok := rp.Path.Def.DefID()
	return ok && id == binding.Def
}

// isErrArm matches `Err(..)` with any sub-patterns.
func isErrArm(arm *ir.Arm) bool {
	ts, ok := arm.Pats[0].Kind.(*ir.PatTupleStruct)
	return ok && paths.MatchQPath(ts.QPath, paths.ResultErr[1:])
}

// IsSelf reports whether a parameter binds `self`.
func IsSelf(p *ir.FnParam) bool {
	if p == nil || p.Pat == nil {
		return false
	}
	b, ok := p.Pat.Kind.(*ir.PatBinding)
	return ok && b.Name == "self"
}

// IsSelfTy reports whether a written type is `Self`.
func IsSelfTy(t *ir.TypeExpr) bool {
	if t == nil {
		return false
	}
	tp, ok := t.Kind.(*ir.TypePath)
	if !ok {
		return false
	}
	rp, ok := tp.QPath.(*ir.ResolvedPath)
	return ok && rp.Self == nil && rp.Path != nil && rp.Path.Def.Kind == ir.DefSelfTy
}

// IterInputPats returns the body parameters matching the declared inputs.
func IterInputPats(decl ir.FnDecl, body *ir.Body) []*ir.FnParam {
	n := min(len(decl.Inputs), len(body.Params))
	return body.Params[:n]
}

// IsAutomaticallyDerived reports whether attrs mark a derived impl.
func IsAutomaticallyDerived(attrs []ir.Attribute) bool {
	for _, a := range attrs {
		if !a.Doc && a.Name == "automatically_derived" {
			return true
		}
	}
	return false
}
