// Package cast holds the C AST: a flat map from C identifier to
// function prototype, populated by every extern block's C CST and
// shared across the Onyx scopes that need to resolve a C call, per
// spec §4.7.
package cast

import (
	"github.com/fancysoft-lang/onyxc/ccst"
	"github.com/fancysoft-lang/onyxc/diag"
)

// Index is the C identifier -> prototype map for one program. It is
// not safe for concurrent writes; the spec leaves synchronizing it
// across parallel file-level compilation to the external driver (§5).
type Index struct {
	funcs map[string]*ccst.FuncDecl
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{funcs: make(map[string]*ccst.FuncDecl)}
}

// Declare adds decl to the index. Declaring the same name twice with
// an equivalent signature is a no-op (re-declaration, as a header
// included twice would produce); declaring it twice with differing
// signatures is a *diag.Panic naming both placements.
func (idx *Index) Declare(decl *ccst.FuncDecl) error {
	existing, ok := idx.funcs[decl.Name]
	if !ok {
		idx.funcs[decl.Name] = decl
		return nil
	}

	if sameSignature(existing, decl) {
		return nil
	}

	return diag.NewPanic(
		"'"+decl.Name+"' redeclared with a different signature",
		decl.Placement,
	).WithNote("previously declared here", existing.Placement)
}

// Lookup finds the prototype for name, if any.
func (idx *Index) Lookup(name string) (*ccst.FuncDecl, bool) {
	d, ok := idx.funcs[name]
	return d, ok
}

func sameSignature(a, b *ccst.FuncDecl) bool {
	if !sameType(a.ReturnType, b.ReturnType) || a.HasVArg != b.HasVArg || len(a.Args) != len(b.Args) {
		return false
	}

	for i := range a.Args {
		if !sameType(a.Args[i].Type, b.Args[i].Type) {
			return false
		}
	}

	return true
}

func sameType(a, b ccst.TypeRef) bool {
	return a.Name == b.Name && a.PointerDepth == b.PointerDepth
}
