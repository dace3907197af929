package store

import "github.com/jward/lintkit/internal/ir"

// Snapshot row types

type Crate struct {
	Num  ir.CrateNum
	Name string
}

// Def is one row of the namespace tree. ParentIndex is nil for crate roots.
type Def struct {
	Crate       ir.CrateNum
	Index       ir.DefIndex
	Name        string
	Kind        ir.DefKind
	ParentIndex *ir.DefIndex
}

// ID returns the definition's identity.
func (d *Def) ID() ir.DefID {
	return ir.DefID{Crate: d.Crate, Index: d.Index}
}

type File struct {
	ID       int64
	Path     string
	StartPos ir.BytePos
	Content  string
}

// End returns the global offset one past the file's last byte.
func (f *File) End() ir.BytePos {
	return f.StartPos + ir.BytePos(len(f.Content))
}

type Expansion struct {
	Ctxt ir.SyntaxContext
	Info ir.ExpnInfo
}
