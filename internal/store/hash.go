package store

import (
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jward/lintkit/internal/snapshot"
)

const snapshotHashKey = "snapshot_hash"

// Fingerprint computes a deterministic hash of a snapshot's semantic
// content: crate and definition rows in index order, files in position
// order and expansion records in document order. Changing an index,
// offset or name changes the hash.
func Fingerprint(snap *snapshot.Snapshot) (string, error) {
	h := sha256.New()

	err := snap.Walk(func(d snapshot.Def) error {
		if d.Root {
			fmt.Fprintf(h, "crate:%d:%s\n", d.Crate, d.Name)
			return nil
		}
		fmt.Fprintf(h, "def:%d:%d:%d:%s:%s\n", d.Crate, d.Index, d.Parent, d.Kind, d.Name)
		return nil
	})
	if err != nil {
		return "", err
	}

	starts := snap.FileStarts()
	for i, f := range snap.Files {
		fmt.Fprintf(h, "file:%s:%d:%d\n", f.Path, starts[i], len(f.Content))
		h.Write([]byte(f.Content))
	}

	for _, e := range snap.Expansions {
		info, err := snap.ExpnInfo(e)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(h, "expn:%d:%s:%s:%s\n", e.Ctxt, info.Callee.Format, info.Callee.Name, info.CallSite)
		if info.Callee.Span != nil {
			fmt.Fprintf(h, "callee:%s\n", *info.Callee.Span)
		}
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// StoredFingerprint returns the fingerprint of the imported snapshot.
func (s *Store) StoredFingerprint() (string, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", snapshotHashKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSnapshotNotFound
	}
	if err != nil {
		return "", fmt.Errorf("stored fingerprint: %w", err)
	}
	return v, nil
}
