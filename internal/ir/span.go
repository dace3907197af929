package ir

import "fmt"

// BytePos is an offset into the snapshot-wide source map. Files occupy
// consecutive, non-overlapping ranges.
type BytePos uint32

// SyntaxContext identifies the expansion (if any) that produced a span.
// EmptyCtxt is user-written source.
type SyntaxContext uint32

// EmptyCtxt is the context of spans not produced by any expansion.
const EmptyCtxt SyntaxContext = 0

// Span is an immutable source range tagged with its expansion context.
type Span struct {
	Lo   BytePos
	Hi   BytePos
	Ctxt SyntaxContext
}

// DummySpan is the zero span.
var DummySpan = Span{}

func (sp Span) String() string {
	return fmt.Sprintf("%d..%d#%d", sp.Lo, sp.Hi, sp.Ctxt)
}

// Len returns the number of bytes covered by sp.
func (sp Span) Len() int {
	if sp.Hi < sp.Lo {
		return 0
	}
	return int(sp.Hi - sp.Lo)
}

// ExpnFormat is how an expansion was invoked.
type ExpnFormat uint8

const (
	// MacroBang is a function-like macro invocation, `name!(...)`.
	MacroBang ExpnFormat = iota
	// MacroAttribute is an attribute or derive expansion, always opaque.
	MacroAttribute
	// CompilerDesugaring is a built-in rewrite performed by the compiler.
	CompilerDesugaring
)

var expnFormatNames = [...]string{
	MacroBang:          "bang",
	MacroAttribute:     "attribute",
	CompilerDesugaring: "desugaring",
}

func (f ExpnFormat) String() string {
	if int(f) < len(expnFormatNames) {
		return expnFormatNames[f]
	}
	return fmt.Sprintf("ExpnFormat(%d)", uint8(f))
}

// ParseExpnFormat is the inverse of ExpnFormat.String.
func ParseExpnFormat(s string) (ExpnFormat, bool) {
	for f, name := range expnFormatNames {
		if name == s {
			return ExpnFormat(f), true
		}
	}
	return MacroBang, false
}

// NameAndSpan describes the callee of an expansion. Span is the callee's
// definition span when the host knows it.
type NameAndSpan struct {
	Format ExpnFormat
	Name   string
	Span   *Span
}

// ExpnInfo is one layer of expansion history. Following CallSite.Ctxt
// yields the next (outer) layer.
type ExpnInfo struct {
	CallSite Span
	Callee   NameAndSpan
}
