package runtime

import (
	"context"
	"fmt"
	"math"

	"github.com/risor-io/risor/object"

	"github.com/jward/lintkit/internal/ir"
	"github.com/jward/lintkit/internal/paths"
	"github.com/jward/lintkit/internal/provenance"
	"github.com/jward/lintkit/internal/resolve"
)

// Scripts see spans as {lo, hi, ctxt} maps and definitions as
// {crate, index, kind, id[, name]} maps.

func spanToObject(sp ir.Span) *object.Map {
	return object.NewMap(map[string]object.Object{
		"lo":   object.NewInt(int64(sp.Lo)),
		"hi":   object.NewInt(int64(sp.Hi)),
		"ctxt": object.NewInt(int64(sp.Ctxt)),
	})
}

func objectToSpan(obj object.Object) (ir.Span, error) {
	m, err := extractMap(obj)
	if err != nil {
		return ir.Span{}, fmt.Errorf("span: %w", err)
	}
	lo, okLo := getOptionalInt64(m, "lo")
	hi, okHi := getOptionalInt64(m, "hi")
	if !okLo || !okHi {
		return ir.Span{}, fmt.Errorf("span: lo and hi are required")
	}
	ctxt := getInt64(m, "ctxt")
	for _, v := range []int64{lo, hi, ctxt} {
		if v < 0 || v > math.MaxUint32 {
			return ir.Span{}, fmt.Errorf("span: offset %d out of range", v)
		}
	}
	return ir.Span{
		Lo:   ir.BytePos(lo),
		Hi:   ir.BytePos(hi),
		Ctxt: ir.SyntaxContext(ctxt),
	}, nil
}

func defToObject(def ir.Def, name string) *object.Map {
	m := map[string]object.Object{
		"crate": object.NewInt(int64(def.ID.Crate)),
		"index": object.NewInt(int64(def.ID.Index)),
		"kind":  object.NewString(def.Kind.String()),
		"id":    object.NewString(def.ID.String()),
	}
	if name != "" {
		m["name"] = object.NewString(name)
	}
	return object.NewMap(m)
}

func objectToDefID(obj object.Object) (ir.DefID, error) {
	m, err := extractMap(obj)
	if err != nil {
		return ir.DefID{}, fmt.Errorf("def: %w", err)
	}
	krate, okCrate := getOptionalInt64(m, "crate")
	index, okIndex := getOptionalInt64(m, "index")
	if !okCrate || !okIndex {
		return ir.DefID{}, fmt.Errorf("def: crate and index are required")
	}
	return ir.DefID{Crate: ir.CrateNum(krate), Index: ir.DefIndex(index)}, nil
}

func expnInfoToObject(info ir.ExpnInfo) *object.Map {
	return object.NewMap(expnInfoFields(info))
}

func expnInfoFields(info ir.ExpnInfo) map[string]object.Object {
	m := map[string]object.Object{
		"callee":    object.NewString(info.Callee.Name),
		"format":    object.NewString(info.Callee.Format.String()),
		"call_site": spanToObject(info.CallSite),
	}
	if info.Callee.Span != nil {
		m["callee_span"] = spanToObject(*info.Callee.Span)
	} else {
		m["callee_span"] = object.Nil
	}
	return m
}

func stringsToList(segs []string) *object.List {
	items := make([]object.Object, len(segs))
	for i, s := range segs {
		items[i] = object.NewString(s)
	}
	return object.NewList(items)
}

func objectToStrings(obj object.Object) ([]string, error) {
	l, ok := obj.(*object.List)
	if !ok {
		return nil, fmt.Errorf("expected list of strings, got %s", obj.Type())
	}
	out := make([]string, 0, len(l.Value()))
	for _, item := range l.Value() {
		s, err := toString(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// pathArg reads a non-empty path argument.
func pathArg(obj object.Object) ([]string, error) {
	segs, err := objectToStrings(obj)
	if err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("empty path")
	}
	return segs, nil
}

// crates() → [{num, name}]
func makeCratesFn(ns ir.Namespace) *object.Builtin {
	return object.NewBuiltin("crates", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("crates", 0, len(args))
		}
		var results []object.Object
		for _, n := range ns.Crates() {
			name, _ := ns.CrateName(n)
			results = append(results, object.NewMap(map[string]object.Object{
				"num":  object.NewInt(int64(n)),
				"name": object.NewString(name),
				"root": defToObject(ir.Def{Kind: ir.DefMod, ID: ir.CrateRoot(n)}, name),
			}))
		}
		if results == nil {
			results = []object.Object{}
		}
		return object.NewList(results)
	})
}

// resolve_path(segments) → def or nil
func makeResolvePathFn(r *resolve.Resolver) *object.Builtin {
	return object.NewBuiltin("resolve_path", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("resolve_path", 1, len(args))
		}
		segs, err := pathArg(args[0])
		if err != nil {
			return object.Errorf("resolve_path: %v", err)
		}
		def, ok := r.PathToDef(segs)
		if !ok {
			return object.Nil
		}
		return defToObject(def, segs[len(segs)-1])
	})
}

// trait_def_id(segments) → def or nil
func makeTraitDefIDFn(r *resolve.Resolver) *object.Builtin {
	return object.NewBuiltin("trait_def_id", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("trait_def_id", 1, len(args))
		}
		segs, err := pathArg(args[0])
		if err != nil {
			return object.Errorf("trait_def_id: %v", err)
		}
		id, ok := r.TraitDefID(segs)
		if !ok {
			return object.Nil
		}
		return defToObject(ir.Def{Kind: ir.DefTrait, ID: id}, segs[len(segs)-1])
	})
}

// def_path(def) → [string] or nil
func makeDefPathFn(ns ir.Namespace) *object.Builtin {
	return object.NewBuiltin("def_path", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("def_path", 1, len(args))
		}
		id, err := objectToDefID(args[0])
		if err != nil {
			return object.Errorf("def_path: %v", err)
		}
		p, ok := ns.DefPath(id)
		if !ok {
			return object.Nil
		}
		return stringsToList(p)
	})
}

// match_def_path(def, segments) → bool
func makeMatchDefPathFn(ns ir.Namespace) *object.Builtin {
	return object.NewBuiltin("match_def_path", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("match_def_path", 2, len(args))
		}
		id, err := objectToDefID(args[0])
		if err != nil {
			return object.Errorf("match_def_path: %v", err)
		}
		segs, err := objectToStrings(args[1])
		if err != nil {
			return object.Errorf("match_def_path: %v", err)
		}
		return object.NewBool(paths.MatchDefPath(ns, id, segs))
	})
}

// item_children(def) → [def]
func makeItemChildrenFn(ns ir.Namespace) *object.Builtin {
	return object.NewBuiltin("item_children", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("item_children", 1, len(args))
		}
		id, err := objectToDefID(args[0])
		if err != nil {
			return object.Errorf("item_children: %v", err)
		}
		exports := ns.ItemChildren(id)
		results := make([]object.Object, 0, len(exports))
		for _, e := range exports {
			results = append(results, defToObject(e.Def, e.Name))
		}
		return object.NewList(results)
	})
}

// spanPredicate builds a builtin of the form name(span) → bool.
func spanPredicate(name string, fn func(ir.Span) bool) *object.Builtin {
	return object.NewBuiltin(name, func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError(name, 1, len(args))
		}
		sp, err := objectToSpan(args[0])
		if err != nil {
			return object.Errorf("%s: %v", name, err)
		}
		return object.NewBool(fn(sp))
	})
}

// in_macro(span) → bool
func makeInMacroFn(t *provenance.Tracker) *object.Builtin {
	return spanPredicate("in_macro", t.InMacro)
}

// in_external_macro(span) → bool
func makeInExternalMacroFn(t *provenance.Tracker) *object.Builtin {
	return spanPredicate("in_external_macro", t.InExternalMacro)
}

// makeExpnOfFn builds expn_of and direct_expn_of.
//
// expn_of(span, macro) → span or nil
func makeExpnOfFn(name string, fn func(ir.Span, string) (ir.Span, bool)) *object.Builtin {
	return object.NewBuiltin(name, func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError(name, 2, len(args))
		}
		sp, err := objectToSpan(args[0])
		if err != nil {
			return object.Errorf("%s: %v", name, err)
		}
		macro, err := toString(args[1])
		if err != nil {
			return object.Errorf("%s: macro: %v", name, err)
		}
		call, ok := fn(sp, macro)
		if !ok {
			return object.Nil
		}
		return spanToObject(call)
	})
}

// expn_chain(span) → [{callee, format, call_site, callee_span}]
func makeExpnChainFn(t *provenance.Tracker) *object.Builtin {
	return object.NewBuiltin("expn_chain", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("expn_chain", 1, len(args))
		}
		sp, err := objectToSpan(args[0])
		if err != nil {
			return object.Errorf("expn_chain: %v", err)
		}
		chain := t.Chain(sp)
		results := make([]object.Object, 0, len(chain))
		for _, info := range chain {
			results = append(results, expnInfoToObject(info))
		}
		return object.NewList(results)
	})
}

// differing_contexts(a, b) → bool
func makeDifferingContextsFn() *object.Builtin {
	return object.NewBuiltin("differing_contexts", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("differing_contexts", 2, len(args))
		}
		a, err := objectToSpan(args[0])
		if err != nil {
			return object.Errorf("differing_contexts: %v", err)
		}
		b, err := objectToSpan(args[1])
		if err != nil {
			return object.Errorf("differing_contexts: %v", err)
		}
		return object.NewBool(provenance.DifferingContexts(a, b))
	})
}

// snippet(span[, default]) → string
//
// Without a default, an unreadable span is a script error.
func makeSnippetFn(src ir.SourceMap) *object.Builtin {
	return object.NewBuiltin("snippet", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) < 1 || len(args) > 2 {
			return object.Errorf("snippet: expected 1 or 2 arguments, got %d", len(args))
		}
		sp, err := objectToSpan(args[0])
		if err != nil {
			return object.Errorf("snippet: %v", err)
		}
		text, err := src.SpanToSnippet(sp)
		if err == nil {
			return object.NewString(text)
		}
		if len(args) == 2 {
			return args[1]
		}
		return object.Errorf("snippet: %v", err)
	})
}

// parse_span(span[, language]) → *sitter.Tree
//
// Parses the source text under span, which lets scripts inspect the
// syntax of a macro call site or definition.
func makeParseSpanFn(src ir.SourceMap, ss *sourceStore) *object.Builtin {
	return object.NewBuiltin("parse_span", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) < 1 || len(args) > 2 {
			return object.Errorf("parse_span: expected 1 or 2 arguments, got %d", len(args))
		}
		sp, err := objectToSpan(args[0])
		if err != nil {
			return object.Errorf("parse_span: %v", err)
		}
		lang := DefaultLanguage
		if len(args) == 2 {
			if lang, err = toString(args[1]); err != nil {
				return object.Errorf("parse_span: language: %v", err)
			}
		}
		text, err := src.SpanToSnippet(sp)
		if err != nil {
			return object.Errorf("parse_span: %v", err)
		}
		return parseSource(ctx, ss, []byte(text), lang)
	})
}
