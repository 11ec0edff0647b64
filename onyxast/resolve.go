package onyxast

import (
	"github.com/fancysoft-lang/onyxc/diag"
	"github.com/fancysoft-lang/onyxc/onyxcst"
	"github.com/fancysoft-lang/onyxc/source"
)

// wellKnownLiterals are Simple identifiers resolved specially rather
// than through the scope graph, restoring the "literal-such-as-this"
// phrasing from the distilled spec as a lookup special case instead of
// a distinct lexical kind (see SPEC_FULL.md §4 note on identifier
// kinds).
var wellKnownLiterals = map[string]bool{
	"void": true, "nil": true, "self": true, "this": true,
}

// ResolveQuery resolves an IDQuery against scope, walking outward
// through Parent scopes for the first element (§4.5's parent walk) and
// then descending through each subsequent element's accessor into the
// previous element's member Scope.
func ResolveQuery(scope *Scope, q *onyxcst.IDQuery) (*Superdecl, error) {
	if len(q.Elements) == 0 {
		return nil, diag.NewInternalInvariant("empty id query")
	}

	first := q.Elements[0]

	if wellKnownLiterals[first.Name] && len(q.Elements) == 1 {
		return &Superdecl{Name: first.Name, Category: CategoryVar}, nil
	}

	if first.IsC {
		return resolveExternFunc(scope, first.Name, q.Placement())
	}

	sd, _, ok := scope.Resolve(first.Name)
	if !ok {
		return nil, diag.NewCodedPanic(diag.UndeclaredReference, "undeclared name '"+first.Name+"'", q.Placement())
	}

	for _, elem := range q.Elements[1:] {
		if sd.Scope == nil {
			return nil, diag.NewCodedPanic(
				diag.UndeclaredReference,
				"'"+sd.Name+"' has no member '"+elem.Name+"'",
				q.Placement(),
			)
		}

		next, ok := sd.Scope.Superdecl[elem.Name]
		if !ok {
			return nil, diag.NewCodedPanic(
				diag.UndeclaredReference,
				"'"+sd.Name+"' has no member '"+elem.Name+"' (accessed via "+accessName(elem.Access)+")",
				q.Placement(),
			)
		}

		sd = next
	}

	return sd, nil
}

// resolveExternFunc looks up a "$foo" reference in the C AST collected
// from every extern block in the compilation (§4.5 step 3), rather
// than the Onyx scope graph — it is the dedicated lookup path scope
// resolution falls into for a C-prefixed identifier.
func resolveExternFunc(scope *Scope, name string, pl source.Placement) (*Superdecl, error) {
	idx := scope.Root().Cast
	if idx == nil {
		return nil, diag.NewCodedPanic(diag.UndeclaredReference, "no extern \"C\" block declares '"+name+"'", pl)
	}

	fd, ok := idx.Lookup(name)
	if !ok {
		return nil, diag.NewCodedPanic(diag.UndeclaredReference, "no extern \"C\" block declares '"+name+"'", pl)
	}

	return &Superdecl{Name: name, Category: CategoryExternFunc, ExternFunc: fd}, nil
}

func accessName(a onyxcst.Access) string {
	switch a {
	case onyxcst.AccessStatic:
		return "::"
	case onyxcst.AccessInstance:
		return ":"
	case onyxcst.AccessMember:
		return "."
	default:
		return "self"
	}
}
