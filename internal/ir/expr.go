package ir

// NodeID addresses a node in a Map. IDs are dense, starting at zero.
type NodeID uint32

// NoNode stands for "no node": a missing parent or an absent scope.
const NoNode NodeID = ^NodeID(0)

// Node is any arena-addressed IR node.
type Node interface {
	NodeID() NodeID
}

// Attribute is an inline attribute such as `#[inline]` or `#[name = "v"]`.
type Attribute struct {
	Name  string
	Value string
	// Doc marks doc comments lowered to attributes.
	Doc bool
}

// Expr is an expression node.
type Expr struct {
	ID    NodeID
	Span  Span
	Kind  ExprKind
	Attrs []Attribute
}

func (e *Expr) NodeID() NodeID { return e.ID }

// ExprKind is the shape of an expression.
type ExprKind interface {
	isExprKind()
}

// LitKind is the kind of a literal token.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitStr
	LitByteStr
	LitChar
	LitByte
	LitBool
)

// Lit is a literal value. Int holds integer, char and byte literals; Text
// holds float, string and byte-string contents.
type Lit struct {
	Kind   LitKind
	Int    uint64
	Text   string
	Bool   bool
	Suffix string
}

// MatchSource records which surface construct a match was lowered from.
type MatchSource uint8

const (
	MatchNormal MatchSource = iota
	MatchIfLetDesugar
	MatchWhileLetDesugar
	MatchForLoopDesugar
	// MatchTryDesugar is a match produced by the `?` operator.
	MatchTryDesugar
)

// BinOp is a binary operator.
type BinOp uint8

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinAnd
	BinOr
	BinBitXor
	BinBitAnd
	BinBitOr
	BinShl
	BinShr
	BinEq
	BinLt
	BinLe
	BinNe
	BinGe
	BinGt
)

// UnOp is a unary operator.
type UnOp uint8

const (
	UnDeref UnOp = iota
	UnNot
	UnNeg
)

type (
	ExprLit  struct{ Lit Lit }
	ExprPath struct{ QPath QPath }
	ExprCall struct {
		Func *Expr
		Args []*Expr
	}
	// ExprMethodCall is `Args[0].Name(Args[1:]...)`; the receiver is the
	// first argument.
	ExprMethodCall struct {
		Name PathSegment
		Args []*Expr
	}
	ExprBlock struct{ Block *Block }
	ExprMatch struct {
		Scrutinee *Expr
		Arms      []*Arm
		Source    MatchSource
	}
	ExprBinary struct {
		Op       BinOp
		LHS, RHS *Expr
	}
	ExprUnary struct {
		Op      UnOp
		Operand *Expr
	}
	ExprAddrOf struct {
		Mut     bool
		Operand *Expr
	}
	ExprField struct {
		Receiver *Expr
		Name     string
	}
	ExprTuple  struct{ Elems []*Expr }
	ExprReturn struct{ Value *Expr }
	ExprAssign struct{ LHS, RHS *Expr }
	ExprIf     struct {
		Cond *Expr
		Then *Expr
		Else *Expr
	}
)

func (*ExprLit) isExprKind()        {}
func (*ExprPath) isExprKind()       {}
func (*ExprCall) isExprKind()       {}
func (*ExprMethodCall) isExprKind() {}
func (*ExprBlock) isExprKind()      {}
func (*ExprMatch) isExprKind()      {}
func (*ExprBinary) isExprKind()     {}
func (*ExprUnary) isExprKind()      {}
func (*ExprAddrOf) isExprKind()     {}
func (*ExprField) isExprKind()      {}
func (*ExprTuple) isExprKind()      {}
func (*ExprReturn) isExprKind()     {}
func (*ExprAssign) isExprKind()     {}
func (*ExprIf) isExprKind()         {}

// BlockRules distinguishes `unsafe { }` from ordinary blocks.
type BlockRules uint8

const (
	DefaultBlock BlockRules = iota
	UnsafeBlock
)

// Block is `{ stmts; expr }`; Expr is the optional trailing expression.
type Block struct {
	ID    NodeID
	Span  Span
	Stmts []*Stmt
	Expr  *Expr
	Rules BlockRules
}

func (b *Block) NodeID() NodeID { return b.ID }

// Stmt is a statement inside a block.
type Stmt struct {
	ID   NodeID
	Span Span
	Kind StmtKind
}

func (s *Stmt) NodeID() NodeID { return s.ID }

// StmtKind is the shape of a statement.
type StmtKind interface {
	isStmtKind()
}

type (
	StmtLocal struct {
		Pat  *Pat
		Ty   *TypeExpr
		Init *Expr
	}
	// StmtExpr is an expression statement without a trailing semicolon.
	StmtExpr struct{ Expr *Expr }
	StmtSemi struct{ Expr *Expr }
	StmtItem struct{ Item *Item }
)

func (*StmtLocal) isStmtKind() {}
func (*StmtExpr) isStmtKind()  {}
func (*StmtSemi) isStmtKind()  {}
func (*StmtItem) isStmtKind()  {}

// Arm is one arm of a match expression.
type Arm struct {
	Attrs []Attribute
	Pats  []*Pat
	Guard *Expr
	Body  *Expr
}
