package onyxmlir

import "github.com/fancysoft-lang/onyxc/ccst"

// Node is implemented by every typed MLIR statement/expression node.
type Node interface {
	mlirNode()
}

// Expr is a typed MLIR expression: every node additionally knows its
// own Onyx type name, resolved during lowering.
type Expr interface {
	Node
	Type() string
}

type base struct{ typ string }

func (b base) Type() string { return b.typ }

func (VarDecl) mlirNode()    {}
func (Assignment) mlirNode() {}
func (*Call) mlirNode()      {}
func (*Cast) mlirNode()      {}
func (*If) mlirNode()        {}
func (*While) mlirNode()     {}
func (*Return) mlirNode()    {}
func (*Block) mlirNode()     {}
func (*IntLit) mlirNode()    {}
func (*StringLit) mlirNode() {}
func (*BoolLit) mlirNode()   {}
func (*Ident) mlirNode()     {}
func (*BinOp) mlirNode()     {}
func (*UnOp) mlirNode()      {}

// VarDecl introduces a new binding with an inferred or annotated type.
type VarDecl struct {
	base
	Name    string
	Storage Storage
	Final   bool
	Value   Expr
}

// Assignment rebinds an existing name.
type Assignment struct {
	base
	Target string
	Value  Expr
}

// CalleeKind distinguishes the three things a Call can bind to (§4.6):
// a compiler builtin, a C function reached through extern "C", or an
// Onyx function specialization.
type CalleeKind int

const (
	CalleeBuiltin CalleeKind = iota
	CalleeCFunc
	CalleeOnyxFunc
)

// Callee is the resolved target of a Call, already disambiguated by
// name resolution (and, for an Onyx function, the specialization
// algorithm) — never a bare name to be looked up again at write time.
type Callee struct {
	Kind CalleeKind
	// Name is set for CalleeBuiltin: the intrinsic's own name.
	Name string
	// CFunc is set for CalleeCFunc: the C prototype resolved via the
	// extern "C" block that declared it.
	CFunc *ccst.FuncDecl
	// Key is set for CalleeOnyxFunc: the bound specialization.
	Key SpecKey
}

// RequiresUnsafe reports whether calling this callee requires an
// enclosing Safety::Unsafe block (§4.6, §8 Property 5): exactly a C
// function call does, since the compiler cannot verify a C
// prototype's contract.
func (c Callee) RequiresUnsafe() bool {
	return c.Kind == CalleeCFunc
}

// Call is a resolved call: Callee names the specialization or foreign
// function it binds to, already disambiguated by name resolution.
type Call struct {
	base
	Callee Callee
	Args   []Expr
}

// Cast is an explicit or inference-inserted type conversion.
type Cast struct {
	base
	Value Expr
}

// If is a typed conditional; Switch lowers into a chain of these
// (§9 Open Question decision 2).
type If struct {
	Cond Expr
	Then *Block
	Else *Block // nil, or another *If wrapped in a Block for "elif"
}

// While is a typed loop.
type While struct {
	Cond Expr
	Body *Block
}

// Return is a typed return; Value is nil for a bare return.
type Return struct {
	Value Expr
}

// Block is a typed statement sequence with its own safety scope.
type Block struct {
	Safety Safety
	Stmts  []Node
}

type IntLit struct {
	base
	Value int64
}

type StringLit struct {
	base
	Value string
}

type BoolLit struct {
	base
	Value bool
}

// Ident is a resolved reference to a binding, parameter, or field.
type Ident struct {
	base
	Name string
}

type BinOp struct {
	base
	Op          string
	Left, Right Expr
}

type UnOp struct {
	base
	Op      string
	Operand Expr
}
