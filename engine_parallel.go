package lintkit

import (
	"context"
	"fmt"
	goruntime "runtime"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/jward/lintkit/internal/ir"
	"github.com/jward/lintkit/internal/provenance"
	"github.com/jward/lintkit/internal/resolve"
	"github.com/jward/lintkit/internal/runtime"
)

// findingSink collects findings from concurrent checks.
type findingSink struct {
	mu       sync.Mutex
	findings []Finding
}

func (s *findingSink) add(f Finding) {
	s.mu.Lock()
	s.findings = append(s.findings, f)
	s.mu.Unlock()
}

// sorted returns the findings ordered by span.
func (s *findingSink) sorted() []Finding {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.findings)
	slices.SortStableFunc(out, func(a, b Finding) int {
		switch {
		case a.less(b):
			return -1
		case b.less(a):
			return 1
		}
		return 0
	})
	return out
}

// Run visits every item of prog and its nested expressions with checks,
// skipping disabled ones. Findings come back sorted by span.
//
// Items are the unit of work: with WithParallel they are spread over a
// worker pool, and ctx is checked between items. A panicking check is
// recorded as an error for that item; the other checks keep running.
func (e *Engine) Run(ctx context.Context, prog *Program, checks []Check) ([]Finding, error) {
	if prog == nil || prog.Map == nil {
		return nil, fmt.Errorf("lintkit: run: program has no node map")
	}
	checks = e.enabledChecks(checks)
	items := prog.Map.Items()
	log := e.logger.With("run", uuid.NewString())
	log.Info("running checks", "checks", len(checks), "items", len(items))

	host := e.runHost()
	cx := e.queryOn(prog, host, resolve.New(host), provenance.New(host, host, provenance.WithMaxDepth(e.maxDepth)))
	visit := func(item *ir.Item) []error {
		return visitItem(cx, item, checks)
	}

	var errs []error
	if e.useParallel && len(items) > 1 {
		errs = runPool(ctx, items, visit)
	} else {
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				errs = append(errs, err)
				break
			}
			errs = append(errs, visit(item)...)
		}
	}
	if err := host.Err(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}

	findings := cx.sink.sorted()
	log.Info("checks finished", "findings", len(findings), "errors", len(errs))
	if len(errs) > 0 {
		for _, err := range errs {
			log.Warn("check failed", "error", err)
		}
		return findings, fmt.Errorf("lintkit: run had %d error(s): %w", len(errs), errs[0])
	}
	return findings, nil
}

// visitItem walks item, handing every item and expression under it to
// each check.
func visitItem(cx *Context, item *ir.Item, checks []Check) []error {
	var errs []error
	for _, c := range checks {
		ccx := cx.forCheck(c.Name())
		ic, isItemChecker := c.(ItemChecker)
		err := guard(c.Name(), func() {
			ir.Walk(item, func(n ir.Node) bool {
				switch n := n.(type) {
				case *ir.Item:
					if isItemChecker {
						ic.CheckItem(ccx, n)
					}
				case *ir.Expr:
					c.CheckExpr(ccx, n)
				}
				return true
			})
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("item %q: %w", item.Name, err))
		}
	}
	return errs
}

// guard turns a panic in fn into an error naming the check.
func guard(check string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check %s panicked: %v", check, r)
		}
	}()
	fn()
	return nil
}

// runPool feeds work to min(NumCPU, len(work)) goroutines and gathers
// their errors. Work not yet started when ctx ends is skipped.
func runPool[T any](ctx context.Context, work []T, fn func(T) []error) []error {
	numWorkers := min(goruntime.NumCPU(), len(work))
	if numWorkers < 1 {
		numWorkers = 1
	}

	workCh := make(chan T, len(work))
	for _, w := range work {
		workCh <- w
	}
	close(workCh)

	var (
		mu       sync.Mutex
		errs     []error
		canceled bool
		wg       sync.WaitGroup
	)
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range workCh {
				if ctx.Err() != nil {
					mu.Lock()
					canceled = true
					mu.Unlock()
					continue
				}
				if werrs := fn(w); len(werrs) > 0 {
					mu.Lock()
					errs = append(errs, werrs...)
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if canceled {
		errs = append(errs, ctx.Err())
	}
	return errs
}

// RunScripts runs the given check scripts against the stored snapshot.
// With no paths it runs every script from Scripts. Scripts whose check
// name is disabled are skipped, as are reports naming a disabled check.
func (e *Engine) RunScripts(ctx context.Context, paths ...string) ([]Finding, error) {
	if len(paths) == 0 {
		all, err := e.Scripts()
		if err != nil {
			return nil, err
		}
		paths = all
	}
	var enabled []string
	for _, p := range paths {
		if e.CheckEnabled(runtime.CheckName(p)) {
			enabled = append(enabled, p)
		}
	}
	log := e.logger.With("run", uuid.NewString())
	log.Info("running check scripts", "scripts", len(enabled))

	host := e.runHost()
	sink := &findingSink{}
	runOne := func(path string) []error {
		if err := e.newRuntime(host, sink).RunScript(ctx, path, nil); err != nil {
			return []error{err}
		}
		return nil
	}

	var errs []error
	if e.useParallel && len(enabled) > 1 {
		errs = runPool(ctx, enabled, runOne)
	} else {
		for _, p := range enabled {
			if err := ctx.Err(); err != nil {
				errs = append(errs, err)
				break
			}
			errs = append(errs, runOne(p)...)
		}
	}
	if err := host.Err(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}

	findings := sink.sorted()
	log.Info("check scripts finished", "findings", len(findings), "errors", len(errs))
	if len(errs) > 0 {
		for _, err := range errs {
			log.Warn("check script failed", "error", err)
		}
		return findings, fmt.Errorf("lintkit: scripts had %d error(s): %w", len(errs), errs[0])
	}
	return findings, nil
}
