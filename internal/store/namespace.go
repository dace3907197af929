package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jward/lintkit/internal/ir"
)

// --- Crate operations ---

func (s *Store) Crates() ([]*Crate, error) {
	rows, err := s.db.Query("SELECT crate_num, name FROM crates ORDER BY crate_num")
	if err != nil {
		return nil, fmt.Errorf("crates: %w", err)
	}
	defer rows.Close()
	var crates []*Crate
	for rows.Next() {
		c := &Crate{}
		if err := rows.Scan(&c.Num, &c.Name); err != nil {
			return nil, fmt.Errorf("scan crate: %w", err)
		}
		crates = append(crates, c)
	}
	return crates, rows.Err()
}

// CrateByNum returns nil when the crate does not exist.
func (s *Store) CrateByNum(n ir.CrateNum) (*Crate, error) {
	c := &Crate{}
	err := s.db.QueryRow("SELECT crate_num, name FROM crates WHERE crate_num = ?", n).Scan(&c.Num, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("crate by num: %w", err)
	}
	return c, nil
}

// CrateByName returns ErrUnknownCrate when no crate has that name.
func (s *Store) CrateByName(name string) (*Crate, error) {
	c := &Crate{}
	err := s.db.QueryRow("SELECT crate_num, name FROM crates WHERE name = ?", name).Scan(&c.Num, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCrate, name)
	}
	if err != nil {
		return nil, fmt.Errorf("crate by name: %w", err)
	}
	return c, nil
}

// --- Def operations ---

const defCols = `crate_num, def_index, name, kind, parent_index`

func scanDef(scanner interface{ Scan(...any) error }) (*Def, error) {
	d := &Def{}
	var kind string
	if err := scanner.Scan(&d.Crate, &d.Index, &d.Name, &kind, &d.ParentIndex); err != nil {
		return nil, err
	}
	k, ok := ir.ParseDefKind(kind)
	if !ok {
		return nil, fmt.Errorf("def %s: unknown kind %q", d.ID(), kind)
	}
	d.Kind = k
	return d, nil
}

func (s *Store) queryDefs(query string, args ...any) ([]*Def, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var defs []*Def
	for rows.Next() {
		d, err := scanDef(rows)
		if err != nil {
			return nil, fmt.Errorf("scan def: %w", err)
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

// DefByID returns nil when id is not in the store.
func (s *Store) DefByID(id ir.DefID) (*Def, error) {
	d, err := scanDef(s.db.QueryRow(
		"SELECT "+defCols+" FROM defs WHERE crate_num = ? AND def_index = ?", id.Crate, id.Index,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("def by id: %w", err)
	}
	return d, nil
}

// DefChildren returns the direct children of id in index order, which is
// the order they were declared in.
func (s *Store) DefChildren(id ir.DefID) ([]*Def, error) {
	defs, err := s.queryDefs(
		"SELECT "+defCols+" FROM defs WHERE crate_num = ? AND parent_index = ? ORDER BY def_index",
		id.Crate, id.Index,
	)
	if err != nil {
		return nil, fmt.Errorf("def children: %w", err)
	}
	return defs, nil
}

func (s *Store) DefsByName(name string) ([]*Def, error) {
	defs, err := s.queryDefs(
		"SELECT "+defCols+" FROM defs WHERE name = ? ORDER BY crate_num, def_index", name,
	)
	if err != nil {
		return nil, fmt.Errorf("defs by name: %w", err)
	}
	return defs, nil
}

// DefChain walks up the parent chain from id to its crate root and returns
// the definitions root first. It returns nil when id is not in the store.
func (s *Store) DefChain(id ir.DefID) ([]*Def, error) {
	defs, err := s.queryDefs(`
		WITH RECURSIVE chain(crate_num, def_index, depth) AS (
			SELECT crate_num, def_index, 0 FROM defs WHERE crate_num = ? AND def_index = ?
			UNION ALL
			SELECT d.crate_num, d.parent_index, c.depth + 1
			FROM chain c JOIN defs d ON d.crate_num = c.crate_num AND d.def_index = c.def_index
			WHERE d.parent_index IS NOT NULL
		)
		SELECT d.crate_num, d.def_index, d.name, d.kind, d.parent_index
		FROM chain c JOIN defs d ON d.crate_num = c.crate_num AND d.def_index = c.def_index
		ORDER BY c.depth DESC`,
		id.Crate, id.Index,
	)
	if err != nil {
		return nil, fmt.Errorf("def chain: %w", err)
	}
	return defs, nil
}

// Descendants returns every definition below id, id excluded, in index
// order.
func (s *Store) Descendants(id ir.DefID) ([]*Def, error) {
	defs, err := s.queryDefs(`
		WITH RECURSIVE sub(crate_num, def_index) AS (
			SELECT crate_num, def_index FROM defs WHERE crate_num = ? AND parent_index = ?
			UNION ALL
			SELECT d.crate_num, d.def_index
			FROM sub s JOIN defs d ON d.crate_num = s.crate_num AND d.parent_index = s.def_index
		)
		SELECT d.crate_num, d.def_index, d.name, d.kind, d.parent_index
		FROM sub s JOIN defs d ON d.crate_num = s.crate_num AND d.def_index = s.def_index
		ORDER BY d.def_index`,
		id.Crate, id.Index,
	)
	if err != nil {
		return nil, fmt.Errorf("descendants: %w", err)
	}
	return defs, nil
}

// DefsByKind returns every definition of one of kinds, across crates.
func (s *Store) DefsByKind(kinds ...ir.DefKind) ([]*Def, error) {
	if len(kinds) == 0 {
		return nil, nil
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	defs, err := s.queryDefs(
		"SELECT "+defCols+" FROM defs WHERE kind IN ("+placeholderList(len(names))+") ORDER BY crate_num, def_index",
		toArgs(names)...,
	)
	if err != nil {
		return nil, fmt.Errorf("defs by kind: %w", err)
	}
	return defs, nil
}
