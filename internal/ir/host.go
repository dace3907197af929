package ir

// Host capabilities. Implementations must be safe for concurrent use: the
// query packages are reentrant and call these from any goroutine running
// a check, without synchronization of their own.

// Namespace enumerates the definition tree of every linked crate.
type Namespace interface {
	// Crates lists all crates, the local one included.
	Crates() []CrateNum
	CrateName(CrateNum) (string, bool)
	// ItemChildren lists the named children of a module, type, trait or
	// enum, in declaration order.
	ItemChildren(DefID) []Export
	// DefKind returns the kind of a definition.
	DefKind(DefID) (DefKind, bool)
	// DefParent returns the namespace parent; crate roots have none.
	DefParent(DefID) (DefID, bool)
	// DefPath returns the absolute item path, crate name first.
	DefPath(DefID) ([]string, bool)
}

// Expansions maps syntax contexts to their expansion records.
type Expansions interface {
	ExpnInfo(SyntaxContext) (ExpnInfo, bool)
}

// SourceMap recovers source text.
type SourceMap interface {
	SpanToSnippet(Span) (string, error)
}

// Tables are the type-check results of the bodies being analyzed.
type Tables interface {
	NodeType(NodeID) (Ty, bool)
	// TypeRelativeDef is the definition a type-relative path at the node
	// resolved to.
	TypeRelativeDef(NodeID) (Def, bool)
	// MethodCallee is the method a method-call expression dispatched to.
	MethodCallee(NodeID) (DefID, bool)
}

// Obligation is the proposition "Self implements Trait<Args...>".
type Obligation struct {
	Trait DefID
	Self  Ty
	Args  []Ty
}

// InferCtxt is a scoped inference context. It is valid only inside the
// callback passed to InferHost.Enter.
type InferCtxt interface {
	EraseRegions(Ty) Ty
	// Substitute replaces the free generic parameters of the context's
	// scope.
	Substitute(Ty) Ty
	// EvaluateConservatively answers false when it cannot decide.
	EvaluateConservatively(Obligation) bool
	CanEquate(a, b Ty) bool
	MovesByDefault(Ty) bool
}

// InferHost creates inference contexts. Enter opens a context bound to the
// generics visible at scope (NoNode for none), passes it to fn, and
// releases it once fn returns or panics.
type InferHost interface {
	Enter(scope NodeID, fn func(InferCtxt) bool) bool
}

// QPathDef returns the definition qpath refers to at node id: resolved
// paths carry it, type-relative ones are looked up in tables. The result
// has kind DefErr when nothing is known.
func QPathDef(tables Tables, qpath QPath, id NodeID) Def {
	switch q := qpath.(type) {
	case *ResolvedPath:
		if q.Path != nil {
			return q.Path.Def
		}
	case *TypeRelativePath:
		if tables != nil {
			if d, ok := tables.TypeRelativeDef(id); ok {
				return d
			}
		}
	}
	return Def{Kind: DefErr}
}
