package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jward/lintkit/internal/ir"
	"github.com/jward/lintkit/internal/snapshot"
)

// Import replaces the store's contents with snap inside a single
// transaction and returns the snapshot fingerprint. If the stored
// fingerprint already matches, nothing is written.
//
// Insert order respects FK dependencies:
//  1. Crates
//  2. Defs (depend on crate_num)
//  3. Files
//  4. Expansions
//  5. Metadata
func (s *Store) Import(ctx context.Context, snap *snapshot.Snapshot) (string, error) {
	if err := snap.Validate(); err != nil {
		return "", fmt.Errorf("import: %w", err)
	}
	fp, err := Fingerprint(snap)
	if err != nil {
		return "", fmt.Errorf("import: fingerprint: %w", err)
	}
	if prev, err := s.StoredFingerprint(); err == nil && prev == fp {
		s.logger.Debug("snapshot unchanged", "fingerprint", fp)
		return fp, nil
	}

	start := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("import: begin: %w", err)
	}
	defer tx.Rollback()

	if err := clearTx(tx); err != nil {
		return "", fmt.Errorf("import: %w", err)
	}

	var defs int
	err = snap.Walk(func(d snapshot.Def) error {
		if d.Root {
			return insertCrateTx(ctx, tx, &Crate{Num: d.Crate, Name: d.Name})
		}
		defs++
		parent := d.Parent
		return insertDefTx(ctx, tx, &Def{Crate: d.Crate, Index: d.Index, Name: d.Name, Kind: d.Kind, ParentIndex: &parent})
	})
	if err != nil {
		return "", fmt.Errorf("import: %w", err)
	}

	starts := snap.FileStarts()
	for i, f := range snap.Files {
		if err := insertFileTx(ctx, tx, &File{Path: f.Path, StartPos: starts[i], Content: f.Content}); err != nil {
			return "", fmt.Errorf("import: file %q: %w", f.Path, err)
		}
	}

	for _, e := range snap.Expansions {
		info, err := snap.ExpnInfo(e)
		if err != nil {
			return "", fmt.Errorf("import: %w", err)
		}
		if err := insertExpansionTx(ctx, tx, &Expansion{Ctxt: ir.SyntaxContext(e.Ctxt), Info: info}); err != nil {
			return "", fmt.Errorf("import: expansion %d: %w", e.Ctxt, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO metadata (key, value) VALUES (?, ?)", snapshotHashKey, fp,
	); err != nil {
		return "", fmt.Errorf("import: metadata: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("import: commit: %w", err)
	}

	s.logger.Debug("snapshot imported",
		"fingerprint", fp,
		"crates", len(snap.Crates),
		"defs", defs,
		"files", len(snap.Files),
		"expansions", len(snap.Expansions),
		"duration", time.Since(start),
	)
	return fp, nil
}

func insertCrateTx(ctx context.Context, tx *sql.Tx, c *Crate) error {
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO crates (crate_num, name) VALUES (?, ?)", c.Num, c.Name,
	); err != nil {
		return fmt.Errorf("insert crate %q: %w", c.Name, err)
	}
	return insertDefTx(ctx, tx, &Def{Crate: c.Num, Index: ir.CrateDefIndex, Name: c.Name, Kind: ir.DefMod})
}

func insertDefTx(ctx context.Context, tx *sql.Tx, d *Def) error {
	var parent any
	if d.ParentIndex != nil {
		parent = int64(*d.ParentIndex)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO defs (crate_num, def_index, name, kind, parent_index) VALUES (?, ?, ?, ?, ?)",
		d.Crate, d.Index, d.Name, d.Kind.String(), parent,
	); err != nil {
		return fmt.Errorf("insert def %q: %w", d.Name, err)
	}
	return nil
}

func insertFileTx(ctx context.Context, tx *sql.Tx, f *File) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO files (path, start_pos, content) VALUES (?, ?, ?)",
		f.Path, f.StartPos, f.Content,
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	f.ID = id
	return nil
}

func insertExpansionTx(ctx context.Context, tx *sql.Tx, e *Expansion) error {
	call := e.Info.CallSite
	var lo, hi, cx any
	if sp := e.Info.Callee.Span; sp != nil {
		lo, hi, cx = sp.Lo, sp.Hi, sp.Ctxt
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO expansions (ctxt, callee_name, format, call_lo, call_hi, call_ctxt,
			callee_lo, callee_hi, callee_ctxt)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Ctxt, e.Info.Callee.Name, e.Info.Callee.Format.String(),
		call.Lo, call.Hi, call.Ctxt, lo, hi, cx,
	); err != nil {
		return fmt.Errorf("insert expansion: %w", err)
	}
	return nil
}
