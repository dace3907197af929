package ir

import "fmt"

// CrateNum identifies one compilation unit inside a snapshot.
type CrateNum uint32

// LocalCrate is the crate under analysis.
const LocalCrate CrateNum = 0

// DefIndex is an item's position in its crate's definition table.
type DefIndex uint32

// CrateDefIndex is the index of every crate's root module.
const CrateDefIndex DefIndex = 0

// DefID names one item in one crate. Two DefIDs are equal iff both fields
// match. The engine never allocates DefIDs; hosts do.
type DefID struct {
	Crate CrateNum
	Index DefIndex
}

// CrateRoot returns the DefID of the root module of crate.
func CrateRoot(crate CrateNum) DefID {
	return DefID{Crate: crate, Index: CrateDefIndex}
}

func (id DefID) String() string {
	return fmt.Sprintf("%d:%d", id.Crate, id.Index)
}

// DefKind is the kind of item a definition denotes.
type DefKind uint8

const (
	DefErr DefKind = iota
	DefMod
	DefStruct
	DefUnion
	DefEnum
	DefVariant
	DefVariantCtor
	DefTrait
	DefTyAlias
	DefAssocTy
	DefTyParam
	DefFn
	DefMethod
	DefConst
	DefAssocConst
	DefStatic
	DefStructCtor
	DefLocal
	DefUpvar
	DefMacro
	DefImpl
	DefPrimTy
	DefSelfTy
	DefLabel
)

var defKindNames = [...]string{
	DefErr:         "err",
	DefMod:         "mod",
	DefStruct:      "struct",
	DefUnion:       "union",
	DefEnum:        "enum",
	DefVariant:     "variant",
	DefVariantCtor: "variant_ctor",
	DefTrait:       "trait",
	DefTyAlias:     "type_alias",
	DefAssocTy:     "assoc_type",
	DefTyParam:     "type_param",
	DefFn:          "fn",
	DefMethod:      "method",
	DefConst:       "const",
	DefAssocConst:  "assoc_const",
	DefStatic:      "static",
	DefStructCtor:  "struct_ctor",
	DefLocal:       "local",
	DefUpvar:       "upvar",
	DefMacro:       "macro",
	DefImpl:        "impl",
	DefPrimTy:      "prim_type",
	DefSelfTy:      "self_type",
	DefLabel:       "label",
}

func (k DefKind) String() string {
	if int(k) < len(defKindNames) {
		return defKindNames[k]
	}
	return fmt.Sprintf("DefKind(%d)", uint8(k))
}

// ParseDefKind maps the textual kind used by snapshots and the store back
// to a DefKind.
func ParseDefKind(s string) (DefKind, bool) {
	for k, name := range defKindNames {
		if name == s {
			return DefKind(k), true
		}
	}
	return DefErr, false
}

// Def is a resolved definition: what a path or namespace entry points at.
type Def struct {
	Kind DefKind
	ID   DefID
}

// DefID returns the definition's identity. Labels, primitive types, Self
// types and error definitions have none.
func (d Def) DefID() (DefID, bool) {
	switch d.Kind {
	case DefLabel, DefPrimTy, DefSelfTy, DefErr:
		return DefID{}, false
	}
	return d.ID, true
}

// IsVariant reports whether d names an enum variant or its constructor.
func (d Def) IsVariant() bool {
	return d.Kind == DefVariant || d.Kind == DefVariantCtor
}

func (d Def) String() string {
	return fmt.Sprintf("%s(%s)", d.Kind, d.ID)
}

// Export is one named child of a namespace node.
type Export struct {
	Name string
	Def  Def
}
