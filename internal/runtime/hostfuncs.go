package runtime

import (
	"context"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/risor-io/risor/object"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/lintkit/internal/ir"
	"github.com/jward/lintkit/internal/naming"
	"github.com/jward/lintkit/internal/paths"
)

// parsed is what node_text and query need back from a tree: the bytes
// it was parsed from and its grammar.
type parsed struct {
	src  []byte
	lang *sitter.Language
}

// sourceStore remembers every tree a runtime parsed, keyed by root node
// address. go-tree-sitter nodes cannot reach their tree, so lookups climb
// Parent() to the root first.
type sourceStore struct {
	mu    sync.RWMutex
	trees map[uintptr]parsed
}

func newSourceStore() *sourceStore {
	return &sourceStore{trees: make(map[uintptr]parsed)}
}

func (s *sourceStore) store(tree *sitter.Tree, src []byte, lang *sitter.Language) {
	key := uintptr(unsafe.Pointer(tree.RootNode()))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees[key] = parsed{src: src, lang: lang}
}

func (s *sourceStore) lookup(node *sitter.Node) (parsed, bool) {
	for node.Parent() != nil {
		node = node.Parent()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.trees[uintptr(unsafe.Pointer(node))]
	return p, ok
}

func (s *sourceStore) sourceForNode(node *sitter.Node) ([]byte, bool) {
	p, ok := s.lookup(node)
	return p.src, ok
}

// makeParseSrcFn creates "parse_src", which parses source text held in
// a string. The language defaults to rust.
//
// parse_src(source[, language]) → *sitter.Tree
func makeParseSrcFn(ss *sourceStore) *object.Builtin {
	return object.NewBuiltin("parse_src", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) < 1 || len(args) > 2 {
			return object.Errorf("parse_src: expected 1 or 2 arguments, got %d", len(args))
		}

		srcStr, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("parse_src: source must be a string, got %s", args[0].Type())
		}

		lang := DefaultLanguage
		if len(args) == 2 {
			langStr, ok := args[1].(*object.String)
			if !ok {
				return object.Errorf("parse_src: language must be a string, got %s", args[1].Type())
			}
			lang = langStr.Value()
		}

		return parseSource(ctx, ss, []byte(srcStr.Value()), lang)
	})
}

// parseSource is the shared implementation for parse_src, parse_file and
// parse_span.
func parseSource(ctx context.Context, ss *sourceStore, src []byte, langName string) object.Object {
	lang, found := ParserForLanguage(langName)
	if !found {
		return object.Errorf("parse: unsupported language %q", langName)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return object.Errorf("parse: tree-sitter parse failed: %v", err)
	}

	ss.store(tree, src, lang)

	proxy, err := object.NewProxy(tree)
	if err != nil {
		return object.Errorf("parse: proxy error: %v", err)
	}
	return proxy
}

// makeNodeTextFn creates the "node_text" host function.
//
// node_text(node) → string
//
// Exists because Risor's proxy system cannot convert strings to []byte
// for node.Content([]byte).
func makeNodeTextFn(ss *sourceStore) *object.Builtin {
	return object.NewBuiltin("node_text", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("node_text", 1, len(args))
		}

		node, errObj := nodeArg("node_text", args[0])
		if errObj != nil {
			return errObj
		}
		src, found := ss.sourceForNode(node)
		if !found {
			return object.Errorf("node_text: node was not parsed by this runtime")
		}
		return object.NewString(node.Content(src))
	})
}

// makeQueryFn creates the "query" host function.
//
// query(pattern, node) → []map[string]any
//
// Each map has capture names as keys and proxied Nodes as values.
func makeQueryFn(ss *sourceStore) *object.Builtin {
	return object.NewBuiltin("query", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("query", 2, len(args))
		}

		patternStr, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("query: pattern must be a string, got %s", args[0].Type())
		}

		node, errObj := nodeArg("query", args[1])
		if errObj != nil {
			return errObj
		}
		tree, found := ss.lookup(node)
		if !found {
			return object.Errorf("query: node was not parsed by this runtime")
		}
		lang, src := tree.lang, tree.src

		q, err := sitter.NewQuery([]byte(patternStr.Value()), lang)
		if err != nil {
			return object.Errorf("query: invalid pattern: %v", err)
		}
		defer q.Close()

		cursor := sitter.NewQueryCursor()
		defer cursor.Close()
		cursor.Exec(q, node)

		var results []object.Object
		for {
			match, ok := cursor.NextMatch()
			if !ok {
				break
			}
			match = cursor.FilterPredicates(match, src)

			matchMap := make(map[string]object.Object)
			for _, capture := range match.Captures {
				name := q.CaptureNameForId(capture.Index)
				nodeP, err := object.NewProxy(capture.Node)
				if err != nil {
					return object.Errorf("query: proxy error for capture %q: %v", name, err)
				}
				matchMap[name] = nodeP
			}
			results = append(results, object.NewMap(matchMap))
		}

		if results == nil {
			results = []object.Object{}
		}
		return object.NewList(results)
	})
}

// nodeArg unwraps a proxied tree-sitter node passed to builtin fn.
func nodeArg(fn string, obj object.Object) (*sitter.Node, *object.Error) {
	proxy, ok := obj.(*object.Proxy)
	if !ok {
		return nil, object.Errorf("%s: expected a node, got %s", fn, obj.Type())
	}
	node, ok := proxy.Interface().(*sitter.Node)
	if !ok || node == nil {
		return nil, object.Errorf("%s: expected a node, got %T", fn, proxy.Interface())
	}
	return node, nil
}

// makeNodeChildFn creates "node_child", a nil-safe wrapper for ChildByFieldName
// that returns Risor nil instead of a proxied Go nil pointer.
//
// node_child(node, fieldName) → Node or nil
func makeNodeChildFn() *object.Builtin {
	return object.NewBuiltin("node_child", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("node_child", 2, len(args))
		}

		node, errObj := nodeArg("node_child", args[0])
		if errObj != nil {
			return errObj
		}

		fieldStr, ok := args[1].(*object.String)
		if !ok {
			return object.Errorf("node_child: field must be a string, got %s", args[1].Type())
		}

		child := node.ChildByFieldName(fieldStr.Value())
		if child == nil {
			return object.Nil
		}

		p, err := object.NewProxy(child)
		if err != nil {
			return object.Errorf("node_child: proxy error: %v", err)
		}
		return p
	})
}

// logObject provides log.Info/Warn/Error methods for Risor scripts.
type logObject struct {
	logger *slog.Logger
}

func (l *logObject) Info(msg string) {
	l.logger.Info(msg, "source", "script")
}

func (l *logObject) Warn(msg string) {
	l.logger.Warn(msg, "source", "script")
}

func (l *logObject) Error(msg string) {
	l.logger.Error(msg, "source", "script")
}

// makeReportFn creates "report", through which checks emit findings. The
// span may be nil for findings without a location.
//
// report(check, span, message)
func makeReportFn(fn ReportFunc, logger *slog.Logger) *object.Builtin {
	return object.NewBuiltin("report", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 3 {
			return object.NewArgsError("report", 3, len(args))
		}
		check, err := toString(args[0])
		if err != nil {
			return object.Errorf("report: check: %v", err)
		}
		var sp ir.Span
		if _, isNil := args[1].(*object.NilType); !isNil {
			sp, err = objectToSpan(args[1])
			if err != nil {
				return object.Errorf("report: %v", err)
			}
		}
		msg, err := toString(args[2])
		if err != nil {
			return object.Errorf("report: message: %v", err)
		}
		if fn == nil {
			logger.Info("finding", "check", check, "span", sp.String(), "message", msg)
			return object.Nil
		}
		fn(check, sp, msg)
		return object.Nil
	})
}

// camel_case_until(name) → int
func makeCamelCaseUntilFn() *object.Builtin {
	return object.NewBuiltin("camel_case_until", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("camel_case_until", 1, len(args))
		}
		s, err := toString(args[0])
		if err != nil {
			return object.Errorf("camel_case_until: %v", err)
		}
		return object.NewInt(int64(naming.CamelCaseUntil(s)))
	})
}

// camel_case_from(name) → int
func makeCamelCaseFromFn() *object.Builtin {
	return object.NewBuiltin("camel_case_from", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("camel_case_from", 1, len(args))
		}
		s, err := toString(args[0])
		if err != nil {
			return object.Errorf("camel_case_from: %v", err)
		}
		return object.NewInt(int64(naming.CamelCaseFrom(s)))
	})
}

// knownPathsObject exposes the well-known library paths as a map of
// segment lists, e.g. known_paths["clone"] == ["core", "clone", "Clone"].
func knownPathsObject() *object.Map {
	m := make(map[string]object.Object, len(paths.Known))
	for name, segs := range paths.Known {
		m[name] = stringsToList(segs)
	}
	return object.NewMap(m)
}
