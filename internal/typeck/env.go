// Package typeck is a small trait solver implementing ir.InferHost. It
// knows the impls and generic bounds registered on an Env and answers
// obligations and type equality through unification with inference
// variables.
//
// Known limitation: generic parameters are rigid and compared by index
// only. Two parameters declared by unrelated items that share an index
// therefore compare equal.
package typeck

import (
	"fmt"
	"sync/atomic"

	"github.com/jward/lintkit/internal/ir"
)

// Bound is a trait bound `T: Trait<Args...>` on a generic parameter.
type Bound struct {
	Trait ir.DefID
	Args  []ir.Ty
}

// ParamDef declares one generic type parameter.
type ParamDef struct {
	Index  uint32
	Name   string
	Bounds []Bound
}

// Generics are the parameters an item declares.
type Generics struct {
	Params []ParamDef
}

// Impl is `impl<P0..Pn> Trait<TraitArgs> for Self where Where`. Params in
// Self, TraitArgs and Where with Index < Params are the impl's own and are
// instantiated fresh for every match attempt.
type Impl struct {
	Trait     ir.DefID
	Params    int
	Self      ir.Ty
	TraitArgs []ir.Ty
	Where     []ir.Obligation
}

// LangItems are the traits the solver treats specially. The zero DefID, a
// crate root, means unset.
type LangItems struct {
	Copy  ir.DefID
	Sized ir.DefID
}

func (l LangItems) isCopy(id ir.DefID) bool {
	return l.Copy != (ir.DefID{}) && id == l.Copy
}

func (l LangItems) isSized(id ir.DefID) bool {
	return l.Sized != (ir.DefID{}) && id == l.Sized
}

// DefaultMaxDepth bounds nested where-clause evaluation.
const DefaultMaxDepth = 64

// Env holds everything the solver knows. Register impls and generics
// before handing the Env to queries; afterwards it is read-only and safe
// for concurrent use.
type Env struct {
	impls    map[ir.DefID][]Impl
	generics map[ir.NodeID]Generics
	nodes    *ir.Map
	lang     LangItems
	maxDepth int
	open     atomic.Int64
}

var _ ir.InferHost = (*Env)(nil)

// Option configures an Env.
type Option func(*Env)

// WithLangItems sets the Copy and Sized traits.
func WithLangItems(l LangItems) Option {
	return func(e *Env) { e.lang = l }
}

// WithMap lets scopes inherit the generics of their ancestors.
func WithMap(m *ir.Map) Option {
	return func(e *Env) { e.nodes = m }
}

// WithMaxDepth bounds where-clause recursion.
func WithMaxDepth(n int) Option {
	return func(e *Env) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// NewEnv returns an empty Env.
func NewEnv(opts ...Option) *Env {
	e := &Env{
		impls:    make(map[ir.DefID][]Impl),
		generics: make(map[ir.NodeID]Generics),
		maxDepth: DefaultMaxDepth,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// AddImpl registers an impl.
func (e *Env) AddImpl(impl Impl) {
	if impl.Self == nil {
		panic("typeck: impl without self type")
	}
	e.impls[impl.Trait] = append(e.impls[impl.Trait], impl)
}

// SetGenerics declares the generics introduced at scope, usually an item.
func (e *Env) SetGenerics(scope ir.NodeID, g Generics) {
	e.generics[scope] = g
}

// LangItems returns the configured lang items.
func (e *Env) LangItems() LangItems { return e.lang }

// Open returns the number of inference contexts currently entered.
func (e *Env) Open() int64 { return e.open.Load() }

// Enter opens an inference context for scope, runs fn and releases the
// context on every exit path.
func (e *Env) Enter(scope ir.NodeID, fn func(ir.InferCtxt) bool) bool {
	cx := &inferCtxt{
		env:    e,
		params: e.paramsAt(scope),
		vars:   make(map[uint32]ir.Ty),
	}
	e.open.Add(1)
	defer e.open.Add(-1)
	defer cx.release()
	return fn(cx)
}

// paramsAt collects the parameters visible at scope, inner declarations
// shadowing outer ones with the same index.
func (e *Env) paramsAt(scope ir.NodeID) map[uint32]ParamDef {
	out := make(map[uint32]ParamDef)
	if scope == ir.NoNode {
		return out
	}
	for id := scope; id != ir.NoNode; {
		if g, ok := e.generics[id]; ok {
			for _, p := range g.Params {
				if _, shadowed := out[p.Index]; !shadowed {
					out[p.Index] = p
				}
			}
		}
		if e.nodes == nil {
			break
		}
		id = e.nodes.Parent(id)
	}
	return out
}

func (e *Env) String() string {
	n := 0
	for _, impls := range e.impls {
		n += len(impls)
	}
	return fmt.Sprintf("typeck.Env{impls: %d, scopes: %d}", n, len(e.generics))
}
