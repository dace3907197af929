package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jward/lintkit"
	"github.com/jward/lintkit/internal/ir"
	"github.com/jward/lintkit/internal/runtime"
	"github.com/jward/lintkit/internal/store"
)

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot.yaml>",
		Short: "Import a compiler snapshot into the database",
		Long:  "Replaces the stored snapshot. Importing an unchanged snapshot is a no-op.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd, "import", func(e *lintkit.Engine) (any, error) {
				fp, err := e.ImportFile(cmd.Context(), args[0])
				if err != nil {
					return nil, err
				}
				return CLIImport{Path: args[0], Fingerprint: fp}, nil
			})
		},
	}
}

func (c *cli) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored snapshot, keeping the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd, "clear", func(e *lintkit.Engine) (any, error) {
				if err := e.Store().Clear(); err != nil {
					return nil, err
				}
				return "cleared " + c.cfg.DB, nil
			})
		},
	}
}

func (c *cli) fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the fingerprint of the stored snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd, "fingerprint", func(e *lintkit.Engine) (any, error) {
				fp, err := e.Fingerprint()
				if errors.Is(err, store.ErrSnapshotNotFound) {
					return nil, fmt.Errorf("no snapshot in %s (run 'lintkit import' first)", c.cfg.DB)
				}
				return fp, err
			})
		},
	}
}

func (c *cli) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve an absolute path such as core::option::Option",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd, "resolve", func(e *lintkit.Engine) (any, error) {
				path, err := splitPath(args[0])
				if err != nil {
					return nil, err
				}
				cx := e.Query(nil)
				def, ok := cx.PathToDef(path)
				if !ok {
					return nil, hostErrOr(e, fmt.Errorf("%s does not resolve", args[0]))
				}
				return defToCLI(cx, def), nil
			})
		},
	}
}

func (c *cli) traitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trait <path>",
		Short: "Resolve a path that must name a trait",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd, "trait", func(e *lintkit.Engine) (any, error) {
				path, err := splitPath(args[0])
				if err != nil {
					return nil, err
				}
				cx := e.Query(nil)
				id, ok := cx.TraitDefID(path)
				if !ok {
					return nil, hostErrOr(e, fmt.Errorf("%s is not a trait", args[0]))
				}
				return defToCLI(cx, ir.Def{Kind: ir.DefTrait, ID: id}), nil
			})
		},
	}
}

func (c *cli) expnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expn <lo..hi#ctxt> <macro>",
		Short: "Find the call site of the named macro in a span's expansion history",
		Long:  "Walks the span's expansion chain outward and prints the call site of the first expansion of <macro>. With --direct only the innermost expansion is considered.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd, "expn", func(e *lintkit.Engine) (any, error) {
				sp, err := parseSpan(args[0])
				if err != nil {
					return nil, err
				}
				cx := e.Query(nil)
				find := cx.ExpnOf
				if c.flagDirect {
					find = cx.DirectExpnOf
				}
				call, ok := find(sp, args[1])
				if !ok {
					return nil, hostErrOr(e, fmt.Errorf("no expansion of %s! in the history of %s", args[1], sp))
				}
				return spanToCLI(e, call), nil
			})
		},
	}
	cmd.Flags().BoolVar(&c.flagDirect, "direct", false, "only match the innermost expansion")
	return cmd
}

func (c *cli) chainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chain <lo..hi#ctxt>",
		Short: "Print a span's expansion history, innermost first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd, "chain", func(e *lintkit.Engine) (any, error) {
				sp, err := parseSpan(args[0])
				if err != nil {
					return nil, err
				}
				chain := e.Query(nil).ExpnChain(sp)
				out := make([]CLIExpansion, 0, len(chain))
				for _, info := range chain {
					x := CLIExpansion{
						Callee:   info.Callee.Name,
						Format:   info.Callee.Format.String(),
						CallSite: spanToCLI(e, info.CallSite),
					}
					if info.Callee.Span != nil {
						s := spanToCLI(e, *info.Callee.Span)
						x.CalleeSpan = &s
					}
					out = append(out, x)
				}
				return out, hostErrOr(e, nil)
			})
		},
	}
}

func (c *cli) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [check...]",
		Short: "Run check scripts against the stored snapshot",
		Long:  "Runs the named checks, or every available check when none are named. A check is a script name such as macro_origin or a .risor path relative to the scripts directory. Exits 1 when anything is reported.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var found int
			err := c.withEngine(cmd, "run", func(e *lintkit.Engine) (any, error) {
				paths := make([]string, len(args))
				for i, a := range args {
					paths[i] = scriptPath(a)
				}
				findings, err := e.RunScripts(cmd.Context(), paths...)
				if err != nil {
					return nil, err
				}
				found = len(findings)
				out := make([]CLIFinding, len(findings))
				for i, f := range findings {
					out[i] = CLIFinding{Check: f.Check, Span: spanToCLI(e, f.Span), Message: f.Message}
				}
				return out, nil
			})
			if err == nil && found > 0 {
				return errFindings
			}
			return err
		},
	}
	cmd.Flags().StringVar(&c.flagScriptsDir, "scripts-dir", "", "load checks from this directory instead of the built-in set")
	return cmd
}

// withEngine opens the engine, runs fn and writes its result or error in
// the selected format.
func (c *cli) withEngine(cmd *cobra.Command, command string, fn func(*lintkit.Engine) (any, error)) error {
	e, err := c.openEngine()
	if err != nil {
		return c.outputError(cmd, command, err)
	}
	defer e.Close()

	result, err := fn(e)
	if err != nil {
		return c.outputError(cmd, command, err)
	}
	return c.outputResult(cmd, CLIResult{Command: command, Results: result})
}

// hostErrOr prefers a store failure over err, so a broken database is
// not reported as a missing definition.
func hostErrOr(e *lintkit.Engine, err error) error {
	if herr := e.HostErr(); herr != nil {
		return fmt.Errorf("store: %w", herr)
	}
	return err
}

// splitPath splits "a::b::C" into segments.
func splitPath(s string) ([]string, error) {
	segs := strings.Split(s, "::")
	for _, seg := range segs {
		if seg == "" {
			return nil, fmt.Errorf("invalid path %q", s)
		}
	}
	return segs, nil
}

// parseSpan parses the "lo..hi#ctxt" form printed for spans. The
// context may be omitted.
func parseSpan(s string) (ir.Span, error) {
	rng, ctxt, hasCtxt := strings.Cut(s, "#")
	loStr, hiStr, ok := strings.Cut(rng, "..")
	if !ok {
		return ir.Span{}, fmt.Errorf("invalid span %q: want lo..hi#ctxt", s)
	}
	lo, err := parseUint(loStr, "lo", s)
	if err != nil {
		return ir.Span{}, err
	}
	hi, err := parseUint(hiStr, "hi", s)
	if err != nil {
		return ir.Span{}, err
	}
	var cx uint32
	if hasCtxt {
		if cx, err = parseUint(ctxt, "ctxt", s); err != nil {
			return ir.Span{}, err
		}
	}
	if hi < lo {
		return ir.Span{}, fmt.Errorf("invalid span %q: hi before lo", s)
	}
	return ir.Span{Lo: ir.BytePos(lo), Hi: ir.BytePos(hi), Ctxt: ir.SyntaxContext(cx)}, nil
}

func parseUint(v, name, span string) (uint32, error) {
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s in span %q: must be a non-negative integer", name, span)
	}
	return uint32(n), nil
}

// scriptPath maps a check name to its built-in script path and passes
// .risor paths through.
func scriptPath(arg string) string {
	if strings.HasSuffix(arg, ".risor") {
		return arg
	}
	return runtime.CheckScriptPath(arg)
}

func defToCLI(cx *lintkit.Context, def ir.Def) CLIDef {
	out := CLIDef{Kind: def.Kind.String(), Crate: uint32(def.ID.Crate), Index: uint32(def.ID.Index)}
	if p, ok := cx.DefPath(def.ID); ok {
		out.Path = strings.Join(p, "::")
	}
	return out
}

// spanToCLI resolves sp to a file position. Lookup failures leave the
// position empty.
func spanToCLI(e *lintkit.Engine, sp ir.Span) CLISpan {
	out := CLISpan{Lo: uint32(sp.Lo), Hi: uint32(sp.Hi), Ctxt: uint32(sp.Ctxt)}
	f, err := e.Store().FileAt(sp.Lo)
	if err != nil || f == nil {
		return out
	}
	out.File = f.Path
	out.Line, out.Col = lineCol(f.Content, int(sp.Lo-f.StartPos))
	if s, err := e.Store().Snippet(sp); err == nil {
		out.Snippet = s
	}
	return out
}

// lineCol converts a byte offset into 1-based line and column numbers.
// Columns count bytes.
func lineCol(content string, off int) (int, int) {
	off = min(off, len(content))
	line := 1 + strings.Count(content[:off], "\n")
	col := off + 1
	if i := strings.LastIndexByte(content[:off], '\n'); i >= 0 {
		col = off - i
	}
	return line, col
}
