package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jward/lintkit/internal/ir"
)

// --- File operations ---

const fileCols = `id, path, start_pos, content`

func scanFile(scanner interface{ Scan(...any) error }) (*File, error) {
	f := &File{}
	return f, scanner.Scan(&f.ID, &f.Path, &f.StartPos, &f.Content)
}

func (s *Store) Files() ([]*File, error) {
	rows, err := s.db.Query("SELECT " + fileCols + " FROM files ORDER BY start_pos")
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// FileByPath returns nil when no file has that path.
func (s *Store) FileByPath(path string) (*File, error) {
	f, err := scanFile(s.db.QueryRow("SELECT "+fileCols+" FROM files WHERE path = ?", path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

// FileAt returns the file containing global position pos, or nil.
func (s *Store) FileAt(pos ir.BytePos) (*File, error) {
	f, err := scanFile(s.db.QueryRow(
		"SELECT "+fileCols+" FROM files WHERE start_pos <= ? AND start_pos + length(CAST(content AS BLOB)) > ? ORDER BY start_pos DESC LIMIT 1",
		pos, pos,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file at: %w", err)
	}
	return f, nil
}

// Snippet returns the source text covered by sp. The span must lie inside
// a single file.
func (s *Store) Snippet(sp ir.Span) (string, error) {
	if sp.Hi < sp.Lo {
		return "", fmt.Errorf("snippet: inverted span %s", sp)
	}
	f, err := s.FileAt(sp.Lo)
	if err != nil {
		return "", fmt.Errorf("snippet: %w", err)
	}
	if f == nil {
		return "", fmt.Errorf("snippet: span %s outside every file", sp)
	}
	if sp.Hi > f.End() {
		return "", fmt.Errorf("snippet: span %s crosses file %s", sp, f.Path)
	}
	return f.Content[sp.Lo-f.StartPos : sp.Hi-f.StartPos], nil
}

// --- Expansion operations ---

const expansionCols = `ctxt, callee_name, format, call_lo, call_hi, call_ctxt, callee_lo, callee_hi, callee_ctxt`

func scanExpansion(scanner interface{ Scan(...any) error }) (*Expansion, error) {
	e := &Expansion{}
	var format string
	var lo, hi, cx sql.NullInt64
	call := &e.Info.CallSite
	if err := scanner.Scan(&e.Ctxt, &e.Info.Callee.Name, &format,
		&call.Lo, &call.Hi, &call.Ctxt, &lo, &hi, &cx); err != nil {
		return nil, err
	}
	f, ok := ir.ParseExpnFormat(format)
	if !ok {
		return nil, fmt.Errorf("expansion %d: unknown format %q", e.Ctxt, format)
	}
	e.Info.Callee.Format = f
	if lo.Valid && hi.Valid {
		e.Info.Callee.Span = &ir.Span{
			Lo:   ir.BytePos(lo.Int64),
			Hi:   ir.BytePos(hi.Int64),
			Ctxt: ir.SyntaxContext(cx.Int64),
		}
	}
	return e, nil
}

// ExpansionByCtxt returns nil when ctxt has no expansion record.
func (s *Store) ExpansionByCtxt(ctxt ir.SyntaxContext) (*Expansion, error) {
	e, err := scanExpansion(s.db.QueryRow("SELECT "+expansionCols+" FROM expansions WHERE ctxt = ?", ctxt))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("expansion by ctxt: %w", err)
	}
	return e, nil
}

func (s *Store) Expansions() ([]*Expansion, error) {
	rows, err := s.db.Query("SELECT " + expansionCols + " FROM expansions ORDER BY ctxt")
	if err != nil {
		return nil, fmt.Errorf("expansions: %w", err)
	}
	defer rows.Close()
	var out []*Expansion
	for rows.Next() {
		e, err := scanExpansion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expansion: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
