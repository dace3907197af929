package lintkit

import (
	"fmt"

	"github.com/jward/lintkit/internal/ir"
	"github.com/jward/lintkit/internal/store"
)

// Public type aliases for the internal types that appear in the Engine
// and Context API. External consumers use these names; no conversion is
// needed.

type Store = store.Store
type Span = ir.Span
type DefID = ir.DefID
type Def = ir.Def

// Program is one analysis unit: the node arena of the bodies being
// checked and their type-check results.
type Program struct {
	Map *ir.Map
	// Tables may be nil when no body has been type-checked.
	Tables ir.Tables
	// Infer answers capability queries. A nil Infer gets an empty
	// typeck.Env over Map.
	Infer ir.InferHost
}

// Finding is one problem a check reported.
type Finding struct {
	Check   string  `json:"check"`
	Span    ir.Span `json:"span"`
	Message string  `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Span, f.Check, f.Message)
}

// less orders findings by position, then check name, then message.
func (f Finding) less(o Finding) bool {
	switch {
	case f.Span.Lo != o.Span.Lo:
		return f.Span.Lo < o.Span.Lo
	case f.Span.Hi != o.Span.Hi:
		return f.Span.Hi < o.Span.Hi
	case f.Span.Ctxt != o.Span.Ctxt:
		return f.Span.Ctxt < o.Span.Ctxt
	case f.Check != o.Check:
		return f.Check < o.Check
	}
	return f.Message < o.Message
}

// Check inspects expressions. Implementations must be safe to call from
// several goroutines at once when the Engine runs in parallel.
type Check interface {
	Name() string
	CheckExpr(cx *Context, e *ir.Expr)
}

// ItemChecker is implemented by checks that also look at items.
type ItemChecker interface {
	CheckItem(cx *Context, item *ir.Item)
}
