// Package pattern classifies patterns as refutable or irrefutable.
package pattern

import (
	"fmt"

	"github.com/jward/lintkit/internal/ir"
)

// IsRefutable reports whether pat can fail to match some value of its
// type. Paths, struct and tuple-struct patterns are refutable when they
// name an enum variant; tables resolve type-relative paths and may be nil
// when the pattern has none.
func IsRefutable(tables ir.Tables, pat *ir.Pat) bool {
	if pat == nil {
		panic("pattern: nil pattern")
	}
	switch k := pat.Kind.(type) {
	case *ir.PatWild:
		return false
	case *ir.PatBinding:
		// `x @ sub` is as refutable as sub
		return k.Sub != nil && IsRefutable(tables, k.Sub)
	case *ir.PatBox:
		return IsRefutable(tables, k.Inner)
	case *ir.PatRef:
		return IsRefutable(tables, k.Inner)
	case *ir.PatLit, *ir.PatRange:
		return true
	case *ir.PatPath:
		return isVariant(tables, k.QPath, pat.ID)
	case *ir.PatTuple:
		return anyRefutable(tables, k.Elems)
	case *ir.PatStruct:
		if isVariant(tables, k.QPath, pat.ID) {
			return true
		}
		for _, f := range k.Fields {
			if IsRefutable(tables, f.Pat) {
				return true
			}
		}
		return false
	case *ir.PatTupleStruct:
		return isVariant(tables, k.QPath, pat.ID) || anyRefutable(tables, k.Elems)
	case *ir.PatSlice:
		if anyRefutable(tables, k.Head) {
			return true
		}
		if k.Mid != nil && IsRefutable(tables, k.Mid) {
			return true
		}
		return anyRefutable(tables, k.Tail)
	}
	panic(fmt.Sprintf("pattern: unknown pattern kind %T", pat.Kind))
}

func anyRefutable(tables ir.Tables, pats []*ir.Pat) bool {
	for _, p := range pats {
		if IsRefutable(tables, p) {
			return true
		}
	}
	return false
}

func isVariant(tables ir.Tables, qpath ir.QPath, id ir.NodeID) bool {
	return ir.QPathDef(tables, qpath, id).IsVariant()
}
