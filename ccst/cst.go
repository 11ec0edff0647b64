// Package ccst builds the C Concrete Syntax Tree for the restricted
// prototype grammar an extern "C" block may contain: type references,
// function prototypes with an ordered argument list and an optional
// trailing varargs marker.
package ccst

import "github.com/fancysoft-lang/onyxc/source"

// TypeRef is an identifier plus a pointer depth, e.g. "char **" is
// TypeRef{Name: "char", PointerDepth: 2}.
type TypeRef struct {
	Placement    source.Placement
	Name         string
	PointerDepth int
}

// Arg is one ordered parameter of a FuncDecl.
type Arg struct {
	Placement source.Placement
	Type      TypeRef
	Name      string // empty when the prototype omits parameter names
}

// FuncDecl is one C function prototype: an ordered Arg list and an
// optional trailing "...".
type FuncDecl struct {
	Placement  source.Placement
	ReturnType TypeRef
	Name       string
	Args       []*Arg
	HasVArg    bool
}
