package lintkit

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/jward/lintkit/internal/provenance"
	"github.com/jward/lintkit/internal/resolve"
	"github.com/jward/lintkit/internal/runtime"
	"github.com/jward/lintkit/internal/snapshot"
	"github.com/jward/lintkit/internal/store"
	"github.com/jward/lintkit/internal/typeck"
)

// Engine owns a snapshot store and runs checks against it: Go checks
// through Run, Risor check scripts through RunScripts.
type Engine struct {
	store      *store.Store
	host       *store.Host
	resolver   *resolve.Resolver
	tracker    *provenance.Tracker
	logger     *slog.Logger
	scriptsDir string
	scriptsFS  fs.FS
	disabled   []glob.Glob
	patterns   []string
	maxDepth   int

	// useParallel enables the worker pool in Run and RunScripts.
	useParallel bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for the Engine and its store. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithParallel controls parallel checking. When true (default), Run
// spreads items over a worker pool and RunScripts runs one script per
// worker. Set to false for serial mode.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// WithScriptsDir loads check scripts from dir on disk.
func WithScriptsDir(dir string) Option {
	return func(e *Engine) {
		e.scriptsDir = dir
	}
}

// WithScriptsFS configures the Engine to load Risor scripts from the given
// filesystem instead of from disk. This enables embedding scripts via
// go:embed and takes precedence over WithScriptsDir.
func WithScriptsFS(fsys fs.FS) Option {
	return func(e *Engine) {
		e.scriptsFS = fsys
	}
}

// WithDisabledChecks turns checks off for Run and RunScripts. Each entry
// is a check name or a glob pattern such as "enum_*".
func WithDisabledChecks(patterns ...string) Option {
	return func(e *Engine) {
		e.patterns = append(e.patterns, patterns...)
	}
}

// WithMaxExpansionDepth bounds expansion chain walks.
func WithMaxExpansionDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// New creates an Engine backed by a SQLite snapshot store at dbPath.
func New(dbPath string, opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:      slog.Default(),
		maxDepth:    provenance.DefaultMaxDepth,
		useParallel: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, p := range e.patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("lintkit: invalid disabled check pattern %q: %w", p, err)
		}
		e.disabled = append(e.disabled, g)
	}

	s, err := store.NewStore(dbPath, store.WithLogger(e.logger))
	if err != nil {
		return nil, fmt.Errorf("lintkit: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("lintkit: migrate: %w", err)
	}

	e.store = s
	e.host = store.NewHost(s)
	e.resolver = resolve.New(e.host)
	e.tracker = provenance.New(e.host, e.host, provenance.WithMaxDepth(e.maxDepth))
	return e, nil
}

// Close releases the Engine's database resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the underlying Store for direct access.
func (e *Engine) Store() *Store {
	return e.store
}

// Import replaces the stored snapshot and returns its fingerprint.
func (e *Engine) Import(ctx context.Context, snap *snapshot.Snapshot) (string, error) {
	fp, err := e.store.Import(ctx, snap)
	if err != nil {
		return "", fmt.Errorf("lintkit: import: %w", err)
	}
	return fp, nil
}

// ImportFile loads a YAML snapshot from path and imports it.
func (e *Engine) ImportFile(ctx context.Context, path string) (string, error) {
	snap, err := snapshot.Load(path)
	if err != nil {
		return "", fmt.Errorf("lintkit: %w", err)
	}
	return e.Import(ctx, snap)
}

// Fingerprint returns the hash of the stored snapshot.
func (e *Engine) Fingerprint() (string, error) {
	return e.store.StoredFingerprint()
}

// HostErr returns the first store failure seen by Contexts from Query.
// Query methods report such failures as absence; callers that need to
// tell the two apart check HostErr afterwards. Run and RunScripts use a
// host of their own and report store failures in their error result.
func (e *Engine) HostErr() error {
	return e.host.Err()
}

// Query returns a Context answering queries about prog against the
// stored snapshot. prog may be nil for namespace and expansion queries.
func (e *Engine) Query(prog *Program) *Context {
	if prog == nil {
		prog = &Program{}
	}
	return e.queryOn(prog, e.host, e.resolver, e.tracker)
}

// runHost returns a store host whose errors belong to a single run.
func (e *Engine) runHost() *store.Host {
	return store.NewHost(e.store)
}

func (e *Engine) queryOn(prog *Program, host *store.Host, r *resolve.Resolver, t *provenance.Tracker) *Context {
	infer := prog.Infer
	if infer == nil {
		infer = typeck.NewEnv(typeck.WithMap(prog.Map))
	}
	return newContext(prog, host, host, r, t, infer)
}

// CheckEnabled reports whether name matches none of the disabled check
// patterns.
func (e *Engine) CheckEnabled(name string) bool {
	for _, g := range e.disabled {
		if g.Match(name) {
			return false
		}
	}
	return true
}

// enabledChecks drops disabled checks, keeping order.
func (e *Engine) enabledChecks(checks []Check) []Check {
	out := make([]Check, 0, len(checks))
	for _, c := range checks {
		if e.CheckEnabled(c.Name()) {
			out = append(out, c)
		}
	}
	return out
}

// Scripts lists the check scripts available to RunScripts, sorted by
// path. Scripts come from the configured fs.FS or scripts directory.
func (e *Engine) Scripts() ([]string, error) {
	var paths []string
	collect := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".risor") {
			paths = append(paths, path)
		}
		return nil
	}

	switch {
	case e.scriptsFS != nil:
		if err := fs.WalkDir(e.scriptsFS, ".", collect); err != nil {
			return nil, fmt.Errorf("lintkit: list scripts: %w", err)
		}
	case e.scriptsDir != "":
		err := filepath.WalkDir(e.scriptsDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(e.scriptsDir, path)
			if relErr != nil {
				return relErr
			}
			return collect(rel, d, nil)
		})
		if err != nil {
			return nil, fmt.Errorf("lintkit: list scripts: %w", err)
		}
	}

	slices.Sort(paths)
	return paths, nil
}

// newRuntime builds a script runtime over host reporting into sink. Each
// worker gets its own so tree-sitter parsing stays goroutine-safe.
func (e *Engine) newRuntime(host *store.Host, sink *findingSink) *runtime.Runtime {
	opts := []runtime.RuntimeOption{
		runtime.WithStore(e.store),
		runtime.WithLogger(e.logger),
		runtime.WithMaxExpansionDepth(e.maxDepth),
		runtime.WithReporter(func(check string, sp Span, msg string) {
			if e.CheckEnabled(check) {
				sink.add(Finding{Check: check, Span: sp, Message: msg})
			}
		}),
	}
	if e.scriptsFS != nil {
		opts = append(opts, runtime.WithRuntimeFS(e.scriptsFS))
	}
	return runtime.NewRuntime(host, e.scriptsDir, opts...)
}
