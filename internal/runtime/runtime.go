package runtime

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/importer"
	"github.com/risor-io/risor/object"

	"github.com/jward/lintkit/internal/ir"
	"github.com/jward/lintkit/internal/provenance"
	"github.com/jward/lintkit/internal/resolve"
	"github.com/jward/lintkit/internal/store"
)

// Host is what check scripts query: the definition namespace, expansion
// records and source text of one program.
type Host interface {
	ir.Namespace
	ir.Expansions
	ir.SourceMap
}

// ReportFunc receives the findings a script reports.
type ReportFunc func(check string, sp ir.Span, message string)

// Runtime embeds a Risor VM and exposes the query engine, tree-sitter
// host functions and optional Store access to check scripts.
type Runtime struct {
	host       Host
	resolver   *resolve.Resolver
	tracker    *provenance.Tracker
	store      *store.Store
	scriptsDir string
	fsys       fs.FS
	sources    *sourceStore
	logger     *slog.Logger
	report     ReportFunc
	maxDepth   int
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithRuntimeFS configures the Runtime to load scripts from an fs.FS
// instead of from disk. Also configures the Risor importer to use
// FSImporter for import statement resolution.
func WithRuntimeFS(fsys fs.FS) RuntimeOption {
	return func(r *Runtime) {
		r.fsys = fsys
	}
}

// WithStore exposes store-only globals (expansions, defs_by_kind,
// defs_named, descendants, db_query, parse_file) to scripts.
func WithStore(s *store.Store) RuntimeOption {
	return func(r *Runtime) {
		r.store = s
	}
}

// WithLogger sets the logger behind the script `log` global.
func WithLogger(l *slog.Logger) RuntimeOption {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithReporter sets the receiver of `report` calls. Without one, reports
// are logged.
func WithReporter(fn ReportFunc) RuntimeOption {
	return func(r *Runtime) {
		r.report = fn
	}
}

// WithMaxExpansionDepth bounds expansion chain walks.
func WithMaxExpansionDepth(n int) RuntimeOption {
	return func(r *Runtime) {
		r.maxDepth = n
	}
}

// NewRuntime creates a Runtime answering queries from h and loading
// scripts from scriptsDir. h may be nil, in which case only the
// tree-sitter, naming and logging globals are available.
func NewRuntime(h Host, scriptsDir string, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		host:       h,
		scriptsDir: scriptsDir,
		sources:    newSourceStore(),
		logger:     slog.Default(),
		maxDepth:   provenance.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	if h != nil {
		r.resolver = resolve.New(h)
		r.tracker = provenance.New(h, h, provenance.WithMaxDepth(r.maxDepth))
	}
	return r
}

// RunScript loads and executes a Risor script with all standard globals
// plus any extra globals provided by the caller.
func (r *Runtime) RunScript(ctx context.Context, scriptPath string, extraGlobals map[string]any) error {
	src, err := r.LoadScript(scriptPath)
	if err != nil {
		return err
	}
	return r.eval(ctx, src, scriptPath, extraGlobals)
}

// RunSource executes Risor source code directly with all standard globals
// plus any extra globals. Useful for testing without script files.
func (r *Runtime) RunSource(ctx context.Context, source string, extraGlobals map[string]any) error {
	return r.eval(ctx, source, "<inline>", extraGlobals)
}

func (r *Runtime) eval(ctx context.Context, source, label string, extraGlobals map[string]any) error {
	globals := r.buildGlobals(extraGlobals)

	var opts []risor.Option
	for name, val := range globals {
		opts = append(opts, risor.WithGlobal(name, val))
	}

	// Wire importer so Risor import statements resolve correctly.
	if imp := r.buildImporter(globals); imp != nil {
		opts = append(opts, risor.WithImporter(imp))
	}

	_, err := risor.Eval(ctx, source, opts...)
	if err != nil {
		return fmt.Errorf("runtime: script %s: %w", label, err)
	}
	return nil
}

// buildImporter returns a Risor importer configured for the Runtime's script source.
// Returns nil if neither fs.FS nor scriptsDir is configured.
func (r *Runtime) buildImporter(globals map[string]any) importer.Importer {
	globalNames := make([]string, 0, len(globals))
	for name := range globals {
		globalNames = append(globalNames, name)
	}

	if r.fsys != nil {
		return importer.NewFSImporter(importer.FSImporterOptions{
			GlobalNames: globalNames,
			SourceFS:    r.fsys,
			Extensions:  []string{".risor"},
		})
	}
	if r.scriptsDir != "" {
		return importer.NewLocalImporter(importer.LocalImporterOptions{
			GlobalNames: globalNames,
			SourceDir:   r.scriptsDir,
			Extensions:  []string{".risor"},
		})
	}
	return nil
}

// LoadScript reads a .risor file and returns its source code.
// When an fs.FS is configured, uses fs.ReadFile on the embedded filesystem.
// Otherwise, uses os.ReadFile with scriptsDir as the base directory.
func (r *Runtime) LoadScript(path string) (string, error) {
	if r.fsys != nil {
		// For fs.FS, strip any leading path separator so the path is
		// relative within the FS (e.g., "/checks/x.risor" -> "checks/x.risor").
		fsPath := strings.TrimPrefix(filepath.ToSlash(path), "/")
		data, err := fs.ReadFile(r.fsys, fsPath)
		if err != nil {
			return "", fmt.Errorf("runtime: loading script %s from fs: %w", fsPath, err)
		}
		return string(data), nil
	}

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(r.scriptsDir, path)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("runtime: loading script %s: %w", fullPath, err)
	}
	return string(data), nil
}

// CheckScriptPath returns the path of a named check script.
func CheckScriptPath(name string) string {
	return filepath.Join("checks", name+".risor")
}

// CheckName returns the check name a script path stands for.
func CheckName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".risor")
}

// buildGlobals constructs the full set of globals exposed to Risor scripts.
func (r *Runtime) buildGlobals(extra map[string]any) map[string]any {
	globals := map[string]any{
		"parse_src":        makeParseSrcFn(r.sources),
		"node_text":        makeNodeTextFn(r.sources),
		"node_child":       makeNodeChildFn(),
		"query":            makeQueryFn(r.sources),
		"camel_case_until": makeCamelCaseUntilFn(),
		"camel_case_from":  makeCamelCaseFromFn(),
		"known_paths":      knownPathsObject(),
		"report":           makeReportFn(r.report, r.logger),
		"log":              mustProxy(&logObject{logger: r.logger}),
	}

	// Semantic queries need a host (nil during some tests).
	if r.host != nil {
		globals["crates"] = makeCratesFn(r.host)
		globals["resolve_path"] = makeResolvePathFn(r.resolver)
		globals["trait_def_id"] = makeTraitDefIDFn(r.resolver)
		globals["def_path"] = makeDefPathFn(r.host)
		globals["match_def_path"] = makeMatchDefPathFn(r.host)
		globals["item_children"] = makeItemChildrenFn(r.host)
		globals["in_macro"] = makeInMacroFn(r.tracker)
		globals["in_external_macro"] = makeInExternalMacroFn(r.tracker)
		globals["expn_of"] = makeExpnOfFn("expn_of", r.tracker.ExpnOf)
		globals["direct_expn_of"] = makeExpnOfFn("direct_expn_of", r.tracker.DirectExpnOf)
		globals["expn_chain"] = makeExpnChainFn(r.tracker)
		globals["differing_contexts"] = makeDifferingContextsFn()
		globals["snippet"] = makeSnippetFn(r.host)
		globals["parse_span"] = makeParseSpanFn(r.host, r.sources)
	}

	// Store-backed listing and raw SQL access.
	if r.store != nil {
		globals["expansions"] = makeExpansionsFn(r.store)
		globals["defs_by_kind"] = makeDefsByKindFn(r.store)
		globals["defs_named"] = makeDefsNamedFn(r.store)
		globals["descendants"] = makeDescendantsFn(r.store)
		globals["parse_file"] = makeParseFileFn(r.store, r.sources)
		globals["db_query"] = makeDBQueryFn(r.store)
	}

	for k, v := range extra {
		globals[k] = v
	}
	return globals
}

func mustProxy(v any) object.Object {
	p, err := object.NewProxy(v)
	if err != nil {
		panic(fmt.Sprintf("runtime: proxy error: %v", err))
	}
	return p
}
