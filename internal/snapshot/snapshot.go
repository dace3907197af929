// Package snapshot reads the YAML description of an IR snapshot: the
// namespace tree of every crate, the source files, and the expansion
// records. Both the in-memory host and the SQLite store are built from it.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jward/lintkit/internal/ir"
)

// Snapshot is the decoded document. The first crate is the local crate.
type Snapshot struct {
	Crates     []Crate     `yaml:"crates"`
	Files      []File      `yaml:"files,omitempty"`
	Expansions []Expansion `yaml:"expansions,omitempty"`
}

// Crate is one compilation unit and its top-level items.
type Crate struct {
	Name  string `yaml:"name"`
	Items []Item `yaml:"items,omitempty"`
}

// Item is a namespace entry. Kind uses the names of ir.DefKind.
type Item struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Items []Item `yaml:"items,omitempty"`
}

// File is one source file. Files are laid out back to back in the global
// position space in document order.
type File struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

// SpanRef is a span in the document. With File set, Lo and Hi are offsets
// into that file; otherwise they are global positions.
type SpanRef struct {
	File string `yaml:"file,omitempty"`
	Lo   uint32 `yaml:"lo"`
	Hi   uint32 `yaml:"hi"`
	Ctxt uint32 `yaml:"ctxt,omitempty"`
}

// Expansion records how syntax context Ctxt came to be.
type Expansion struct {
	Ctxt       uint32   `yaml:"ctxt"`
	Callee     string   `yaml:"callee"`
	Format     string   `yaml:"format"`
	CallSite   SpanRef  `yaml:"call_site"`
	CalleeSpan *SpanRef `yaml:"callee_span,omitempty"`
}

// Decode parses and validates a snapshot document. Unknown fields are
// rejected.
func Decode(r io.Reader) (*Snapshot, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("snapshot: empty document")
		}
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads the snapshot at path.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Validate checks names, kinds, formats and span references.
func (s *Snapshot) Validate() error {
	if len(s.Crates) == 0 {
		return errors.New("snapshot: no crates")
	}
	crates := make(map[string]bool, len(s.Crates))
	for i, c := range s.Crates {
		if c.Name == "" {
			return fmt.Errorf("snapshot: crate %d has no name", i)
		}
		if crates[c.Name] {
			return fmt.Errorf("snapshot: duplicate crate %q", c.Name)
		}
		crates[c.Name] = true
		if err := validateItems(c.Name, c.Items); err != nil {
			return err
		}
	}

	files := make(map[string]bool, len(s.Files))
	for _, f := range s.Files {
		if f.Path == "" {
			return errors.New("snapshot: file without path")
		}
		if files[f.Path] {
			return fmt.Errorf("snapshot: duplicate file %q", f.Path)
		}
		files[f.Path] = true
	}

	ctxts := make(map[uint32]bool, len(s.Expansions))
	for _, e := range s.Expansions {
		if e.Ctxt == uint32(ir.EmptyCtxt) {
			return errors.New("snapshot: expansion for the empty context")
		}
		if ctxts[e.Ctxt] {
			return fmt.Errorf("snapshot: duplicate expansion for context %d", e.Ctxt)
		}
		ctxts[e.Ctxt] = true
		if _, ok := ir.ParseExpnFormat(e.Format); !ok {
			return fmt.Errorf("snapshot: context %d: unknown format %q", e.Ctxt, e.Format)
		}
		if _, err := s.Span(e.CallSite); err != nil {
			return fmt.Errorf("snapshot: context %d call site: %w", e.Ctxt, err)
		}
		if e.CalleeSpan != nil {
			if _, err := s.Span(*e.CalleeSpan); err != nil {
				return fmt.Errorf("snapshot: context %d callee span: %w", e.Ctxt, err)
			}
		}
	}
	return nil
}

func validateItems(parent string, items []Item) error {
	for _, it := range items {
		path := parent + "::" + it.Name
		if it.Name == "" {
			return fmt.Errorf("snapshot: unnamed item under %s", parent)
		}
		if _, ok := ir.ParseDefKind(it.Kind); !ok {
			return fmt.Errorf("snapshot: %s: unknown kind %q", path, it.Kind)
		}
		if err := validateItems(path, it.Items); err != nil {
			return err
		}
	}
	return nil
}

// FileStarts returns the global start position of each file, in document
// order.
func (s *Snapshot) FileStarts() []ir.BytePos {
	starts := make([]ir.BytePos, len(s.Files))
	var pos ir.BytePos
	for i, f := range s.Files {
		starts[i] = pos
		pos += ir.BytePos(len(f.Content))
	}
	return starts
}

// Span converts a document span into a global ir.Span.
func (s *Snapshot) Span(ref SpanRef) (ir.Span, error) {
	if ref.Hi < ref.Lo {
		return ir.Span{}, fmt.Errorf("inverted span %d..%d", ref.Lo, ref.Hi)
	}
	sp := ir.Span{Lo: ir.BytePos(ref.Lo), Hi: ir.BytePos(ref.Hi), Ctxt: ir.SyntaxContext(ref.Ctxt)}
	if ref.File == "" {
		return sp, nil
	}
	starts := s.FileStarts()
	for i, f := range s.Files {
		if f.Path != ref.File {
			continue
		}
		if int(ref.Hi) > len(f.Content) {
			return ir.Span{}, fmt.Errorf("span %d..%d outside %s", ref.Lo, ref.Hi, f.Path)
		}
		sp.Lo += starts[i]
		sp.Hi += starts[i]
		return sp, nil
	}
	return ir.Span{}, fmt.Errorf("unknown file %q", ref.File)
}

// ExpnInfo converts an expansion record, resolving its spans.
func (s *Snapshot) ExpnInfo(e Expansion) (ir.ExpnInfo, error) {
	format, ok := ir.ParseExpnFormat(e.Format)
	if !ok {
		return ir.ExpnInfo{}, fmt.Errorf("context %d: unknown format %q", e.Ctxt, e.Format)
	}
	callSite, err := s.Span(e.CallSite)
	if err != nil {
		return ir.ExpnInfo{}, fmt.Errorf("context %d: %w", e.Ctxt, err)
	}
	info := ir.ExpnInfo{CallSite: callSite, Callee: ir.NameAndSpan{Format: format, Name: e.Callee}}
	if e.CalleeSpan != nil {
		sp, err := s.Span(*e.CalleeSpan)
		if err != nil {
			return ir.ExpnInfo{}, fmt.Errorf("context %d: %w", e.Ctxt, err)
		}
		info.Callee.Span = &sp
	}
	return info, nil
}

// Def is one namespace entry as produced by Walk.
type Def struct {
	Crate  ir.CrateNum
	Index  ir.DefIndex
	Parent ir.DefIndex
	// Root is set for the crate root, which has no parent.
	Root bool
	Name string
	Kind ir.DefKind
}

// Walk visits every definition in preorder, crate roots included. Crates
// are numbered in document order and indices are dense within a crate,
// the root getting ir.CrateDefIndex.
func (s *Snapshot) Walk(fn func(Def) error) error {
	for ci, c := range s.Crates {
		crate := ir.CrateNum(ci)
		next := ir.CrateDefIndex
		if err := fn(Def{Crate: crate, Index: next, Root: true, Name: c.Name, Kind: ir.DefMod}); err != nil {
			return err
		}
		var walk func(parent ir.DefIndex, items []Item) error
		walk = func(parent ir.DefIndex, items []Item) error {
			for _, it := range items {
				next++
				kind, ok := ir.ParseDefKind(it.Kind)
				if !ok {
					return fmt.Errorf("snapshot: unknown kind %q", it.Kind)
				}
				idx := next
				if err := fn(Def{Crate: crate, Index: idx, Parent: parent, Name: it.Name, Kind: kind}); err != nil {
					return err
				}
				if err := walk(idx, it.Items); err != nil {
					return err
				}
			}
			return nil
		}
		if err := walk(ir.CrateDefIndex, c.Items); err != nil {
			return err
		}
	}
	return nil
}
