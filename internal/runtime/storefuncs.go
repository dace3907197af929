package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/risor-io/risor/object"

	"github.com/jward/lintkit/internal/ir"
	"github.com/jward/lintkit/internal/store"
)

// expansions() → [{ctxt, callee, format, call_site, callee_span}]
func makeExpansionsFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("expansions", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("expansions", 0, len(args))
		}
		expns, err := s.Expansions()
		if err != nil {
			return object.Errorf("expansions: %v", err)
		}
		results := make([]object.Object, 0, len(expns))
		for _, e := range expns {
			m := expnInfoFields(e.Info)
			m["ctxt"] = object.NewInt(int64(e.Ctxt))
			results = append(results, object.NewMap(m))
		}
		return object.NewList(results)
	})
}

// defs_by_kind(kind...) → [def]
func makeDefsByKindFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("defs_by_kind", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) == 0 {
			return object.Errorf("defs_by_kind: expected at least 1 kind")
		}
		kinds := make([]ir.DefKind, 0, len(args))
		for _, arg := range args {
			name, err := toString(arg)
			if err != nil {
				return object.Errorf("defs_by_kind: %v", err)
			}
			k, ok := ir.ParseDefKind(name)
			if !ok {
				return object.Errorf("defs_by_kind: unknown kind %q", name)
			}
			kinds = append(kinds, k)
		}
		defs, err := s.DefsByKind(kinds...)
		if err != nil {
			return object.Errorf("defs_by_kind: %v", err)
		}
		return defsToList(defs)
	})
}

// defs_named(name) → [def]
func makeDefsNamedFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("defs_named", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("defs_named", 1, len(args))
		}
		name, err := toString(args[0])
		if err != nil {
			return object.Errorf("defs_named: %v", err)
		}
		defs, err := s.DefsByName(name)
		if err != nil {
			return object.Errorf("defs_named: %v", err)
		}
		return defsToList(defs)
	})
}

// descendants(def | crate_name) → [def]
//
// Everything below a definition, or below a crate's root when given the
// crate's name.
func makeDescendantsFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("descendants", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("descendants", 1, len(args))
		}
		var root ir.DefID
		if name, ok := args[0].(*object.String); ok {
			c, err := s.CrateByName(name.Value())
			if err != nil {
				return object.Errorf("descendants: %v", err)
			}
			root = ir.CrateRoot(c.Num)
		} else {
			id, err := objectToDefID(args[0])
			if err != nil {
				return object.Errorf("descendants: %v", err)
			}
			root = id
		}
		defs, err := s.Descendants(root)
		if err != nil {
			return object.Errorf("descendants: %v", err)
		}
		return defsToList(defs)
	})
}

// parse_file(path) → *sitter.Tree
//
// Parses a stored source file. The grammar follows the file extension.
func makeParseFileFn(s *store.Store, ss *sourceStore) *object.Builtin {
	return object.NewBuiltin("parse_file", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("parse_file", 1, len(args))
		}
		path, err := toString(args[0])
		if err != nil {
			return object.Errorf("parse_file: %v", err)
		}
		f, err := s.FileByPath(path)
		if err != nil {
			return object.Errorf("parse_file: %v", err)
		}
		if f == nil {
			return object.Errorf("parse_file: no file %q in snapshot", path)
		}
		lang, ok := LanguageForFile(path)
		if !ok {
			lang = DefaultLanguage
		}
		return parseSource(ctx, ss, []byte(f.Content), lang)
	})
}

// makeDBQueryFn creates a db_query bridge that executes arbitrary read-only SQL.
// Returns a list of maps (column name → value).
func makeDBQueryFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("db_query", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) < 1 {
			return object.Errorf("db_query: expected at least 1 argument (sql), got %d", len(args))
		}
		sqlStr, err := toString(args[0])
		if err != nil {
			return object.Errorf("db_query: %v", err)
		}

		// Only allow SELECT statements.
		trimmed := strings.TrimSpace(strings.ToUpper(sqlStr))
		if !strings.HasPrefix(trimmed, "SELECT") {
			return object.Errorf("db_query: only SELECT queries are allowed")
		}

		// Convert remaining args to query parameters.
		var queryArgs []any
		for _, arg := range args[1:] {
			switch v := arg.(type) {
			case *object.Int:
				queryArgs = append(queryArgs, v.Value())
			case *object.Float:
				queryArgs = append(queryArgs, v.Value())
			case *object.String:
				queryArgs = append(queryArgs, v.Value())
			case *object.Bool:
				queryArgs = append(queryArgs, v.Value())
			case *object.NilType:
				queryArgs = append(queryArgs, nil)
			default:
				queryArgs = append(queryArgs, fmt.Sprintf("%v", arg))
			}
		}

		rows, queryErr := s.DB().QueryContext(ctx, sqlStr, queryArgs...)
		if queryErr != nil {
			return object.Errorf("db_query: %v", queryErr)
		}
		defer rows.Close()

		cols, colErr := rows.Columns()
		if colErr != nil {
			return object.Errorf("db_query: columns: %v", colErr)
		}

		var results []object.Object
		for rows.Next() {
			values := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return object.Errorf("db_query: scan: %v", err)
			}
			row := make(map[string]object.Object, len(cols))
			for i, col := range cols {
				row[col] = sqlValueToObject(values[i])
			}
			results = append(results, object.NewMap(row))
		}
		if err := rows.Err(); err != nil {
			return object.Errorf("db_query: rows: %v", err)
		}
		if results == nil {
			results = []object.Object{}
		}
		return object.NewList(results)
	})
}

// sqlValueToObject converts a database value to a Risor object.
func sqlValueToObject(v any) object.Object {
	if v == nil {
		return object.Nil
	}
	switch val := v.(type) {
	case int64:
		return object.NewInt(val)
	case float64:
		return object.NewFloat(val)
	case string:
		return object.NewString(val)
	case bool:
		return object.NewBool(val)
	case []byte:
		return object.NewString(string(val))
	default:
		return object.NewString(fmt.Sprintf("%v", val))
	}
}

// defsToList converts store rows to a Risor list of def maps.
func defsToList(defs []*store.Def) *object.List {
	results := make([]object.Object, 0, len(defs))
	for _, d := range defs {
		results = append(results, defToObject(ir.Def{Kind: d.Kind, ID: d.ID()}, d.Name))
	}
	return object.NewList(results)
}

// --- Map extraction helpers ---

func extractMap(obj object.Object) (map[string]object.Object, error) {
	m, ok := obj.(*object.Map)
	if !ok {
		return nil, fmt.Errorf("expected map, got %s", obj.Type())
	}
	return m.Value(), nil
}

func getInt64(m map[string]object.Object, key string) int64 {
	v, ok := m[key]
	if !ok {
		return 0
	}
	if i, ok := v.(*object.Int); ok {
		return i.Value()
	}
	if f, ok := v.(*object.Float); ok {
		return int64(f.Value())
	}
	return 0
}

func getOptionalInt64(m map[string]object.Object, key string) (int64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	if v == nil || v.Type() == "nil" {
		return 0, false
	}
	if _, ok := v.(*object.NilType); ok {
		return 0, false
	}
	if i, ok := v.(*object.Int); ok {
		return i.Value(), true
	}
	if f, ok := v.(*object.Float); ok {
		return int64(f.Value()), true
	}
	return 0, false
}

func toInt64(obj object.Object) (int64, error) {
	if i, ok := obj.(*object.Int); ok {
		return i.Value(), nil
	}
	if f, ok := obj.(*object.Float); ok {
		return int64(f.Value()), nil
	}
	return 0, fmt.Errorf("expected int, got %s", obj.Type())
}

func toString(obj object.Object) (string, error) {
	if s, ok := obj.(*object.String); ok {
		return s.Value(), nil
	}
	return "", fmt.Errorf("expected string, got %s", obj.Type())
}
