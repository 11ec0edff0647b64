package onyxast

import (
	"strconv"
	"strings"

	"github.com/fancysoft-lang/onyxc/ccst"
	"github.com/fancysoft-lang/onyxc/diag"
	"github.com/fancysoft-lang/onyxc/onyxcst"
	"github.com/fancysoft-lang/onyxc/source"
)

// Category distinguishes the kinds of thing a name in a Scope can
// denote, so that a decl/impl and a var of the same name are flagged
// rather than silently merged (§4.7).
type Category string

const (
	CategoryFunc       Category = "func"
	CategoryVar        Category = "var"
	CategoryTrait      Category = "trait"
	CategoryStruct     Category = "struct"
	CategoryClass      Category = "class"
	CategoryEnum       Category = "enum"
	CategoryUnit       Category = "unit"
	CategoryAnnotation Category = "annotation"
	CategoryBuiltin    Category = "builtin"
	// CategoryExternFunc marks the synthetic superdeclaration
	// ResolveQuery manufactures for a "$foo"-spelled reference that
	// resolves via the C AST rather than the Onyx scope graph (§4.5
	// step 3). It never has Contributors: there is no Onyx syntax that
	// declares one.
	CategoryExternFunc Category = "externfunc"
)

// Contributor is one syntactic decl/impl/def/reimpl that feeds a
// Superdecl.
type Contributor struct {
	Action    onyxcst.Action
	Exported  bool
	Node      onyxcst.Node
	Placement source.Placement
}

// Superdecl is the merged view of every contributor sharing a name and
// category in one Scope — the unit name resolution actually binds to
// (§4.7's "superdeclaration").
type Superdecl struct {
	Name         string
	Category     Category
	Contributors []*Contributor
	// Scope is the nested member scope for a type superdeclaration
	// (nil for a func or var superdeclaration).
	Scope *Scope
	// ExternFunc holds the resolved C prototype for a CategoryExternFunc
	// superdeclaration, nil otherwise.
	ExternFunc *ccst.FuncDecl
	// TArgs is the template-argument-decl profile established by the
	// first contributor; every later contributor's own profile must be
	// Compatible with it (§4.5).
	TArgs TArgProfile
}

// TArgProfileEntry is one position of a template-argument-decl
// profile: an alias, its restriction, and its default value, each
// rendered as plain text since compatibility is a structural
// comparison, not a resolved-type one (restriction compilation is
// deferred until specialization, §4.5).
type TArgProfileEntry struct {
	Alias       string
	Restriction string
	Default     string
}

// TArgProfile is the ordered template-argument-decl profile of one
// func/type contributor.
type TArgProfile []TArgProfileEntry

// ProfileConflict names the first incompatible position Compatible
// found, so the P0003 diagnostic it feeds can point at it.
type ProfileConflict struct {
	Index int
	A, B  TArgProfileEntry
}

// Compatible reports whether two template-arg profiles may coexist on
// contributors of the same superdecl: equal aliases in corresponding
// positions, equal restrictions, and no conflicting default values
// (§4.5 "Compatibility of template-arg profiles"). It is symmetric by
// construction (§8 Property 4): Compatible(a, b) and Compatible(b, a)
// always agree, differing only in which side of the reported conflict
// is A versus B.
func Compatible(a, b TArgProfile) (bool, *ProfileConflict) {
	if len(a) != len(b) {
		i := len(a)
		if len(b) < i {
			i = len(b)
		}

		return false, &ProfileConflict{Index: i, A: entryAt(a, i), B: entryAt(b, i)}
	}

	for i := range a {
		if a[i].Alias != b[i].Alias || a[i].Restriction != b[i].Restriction {
			return false, &ProfileConflict{Index: i, A: a[i], B: b[i]}
		}

		if a[i].Default != "" && b[i].Default != "" && a[i].Default != b[i].Default {
			return false, &ProfileConflict{Index: i, A: a[i], B: b[i]}
		}
	}

	return true, nil
}

func entryAt(p TArgProfile, i int) TArgProfileEntry {
	if i < 0 || i >= len(p) {
		return TArgProfileEntry{}
	}

	return p[i]
}

// buildTArgProfile reads a declaration's template-arg-decl list into
// the comparable form Compatible checks.
func buildTArgProfile(args []*onyxcst.TemplateArg) TArgProfile {
	profile := make(TArgProfile, 0, len(args))

	for _, a := range args {
		profile = append(profile, TArgProfileEntry{
			Alias:       a.Name,
			Restriction: idQueryText(a.Restriction),
			Default:     idQueryText(a.Default),
		})
	}

	return profile
}

func idQueryText(q *onyxcst.IDQuery) string {
	if q == nil {
		return ""
	}

	parts := make([]string, 0, len(q.Elements))
	for _, e := range q.Elements {
		parts = append(parts, e.Name)
	}

	return strings.Join(parts, ".")
}

// Exported reports whether any contributor exported this name. Per the
// "first wins, but any export counts" decision recorded in
// SPEC_FULL.md §9, export propagates as a union across contributors.
func (sd *Superdecl) Exported() bool {
	for _, c := range sd.Contributors {
		if c.Exported {
			return true
		}
	}

	return false
}

func (sd *Superdecl) hasDecl() bool {
	for _, c := range sd.Contributors {
		if c.Action == onyxcst.ActionDecl {
			return true
		}
	}

	return false
}

// declare merges one contributor into scope, enforcing the category-
// consistency (P0001), template-arg-profile-compatibility (P0003), and
// duplicate-decl (P0003) invariants from §4.7.
func declare(scope *Scope, name string, category Category, tArgs TArgProfile, c *Contributor) (*Superdecl, error) {
	if existing, ok := scope.Superdecl[name]; ok {
		if existing.Category != category {
			return nil, diag.NewCodedPanic(
				diag.DeclarationCategoryMismatch,
				"'"+name+"' was declared as "+string(existing.Category)+", not "+string(category),
				c.Placement,
			).WithNote("first declared here", existing.Contributors[0].Placement)
		}

		if ok, conflict := Compatible(existing.TArgs, tArgs); !ok {
			return nil, diag.NewCodedPanic(
				diag.AlreadyDeclared,
				"'"+name+"' template-arg profile at position "+strconv.Itoa(conflict.Index)+
					" is incompatible with its previous declaration ("+conflict.A.Alias+" vs "+conflict.B.Alias+")",
				c.Placement,
			).WithNote("previous declaration here", existing.Contributors[0].Placement)
		}

		if c.Action == onyxcst.ActionDecl && existing.hasDecl() {
			return nil, diag.NewCodedPanic(
				diag.AlreadyDeclared,
				"'"+name+"' is already declared",
				c.Placement,
			).WithNote("previous declaration here", existing.Contributors[0].Placement)
		}

		existing.Contributors = append(existing.Contributors, c)

		return existing, nil
	}

	sd := &Superdecl{Name: name, Category: category, TArgs: tArgs, Contributors: []*Contributor{c}}
	scope.Superdecl[name] = sd

	return sd, nil
}

// RemoveContributor drops c from name's superdecl in scope (§4.4's
// incremental re-parse: a unit that's about to be reparsed first
// retracts the contributors it previously fed in). Per §8 Property 3,
// removing the last contributor removes the superdecl from the scope
// entirely rather than leaving an empty husk behind.
func (s *Scope) RemoveContributor(name string, c *Contributor) {
	sd, ok := s.Superdecl[name]
	if !ok {
		return
	}

	for i, existing := range sd.Contributors {
		if existing == c {
			sd.Contributors = append(sd.Contributors[:i], sd.Contributors[i+1:]...)
			break
		}
	}

	if len(sd.Contributors) == 0 {
		delete(s.Superdecl, name)
	}
}
