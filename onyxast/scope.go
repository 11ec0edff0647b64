// Package onyxast turns one or more onyxcst.File trees into a scope
// graph: superdeclarations formed by merging same-name contributors,
// resolved against their lexical parent chain (§4.5, §4.7).
package onyxast

import (
	"github.com/fancysoft-lang/onyxc/cast"
	"github.com/fancysoft-lang/onyxc/source"
)

// Scope is one lexical level of the scope graph: a file, or the body
// of a trait/struct/class/enum/unit declaration nested inside one.
// Every Scope but the root has exactly one Parent, matching the
// "declarations resolve outward through the lexical nesting" rule from
// §4.5.
type Scope struct {
	Name      string
	Parent    *Scope
	Children  map[string]*Scope
	Superdecl map[string]*Superdecl
	// Cast is the C identifier -> prototype index collected from this
	// scope's extern blocks, populated on the root scope only (§4.7).
	Cast *cast.Index
}

// NewScope creates an empty scope nested under parent. parent is nil
// only for the root scope of a compilation.
func NewScope(name string, parent *Scope) *Scope {
	return &Scope{
		Name:      name,
		Parent:    parent,
		Children:  map[string]*Scope{},
		Superdecl: map[string]*Superdecl{},
	}
}

// childScope returns (creating if absent) the nested scope for a type
// declaration's body.
func (s *Scope) childScope(name string) *Scope {
	if c, ok := s.Children[name]; ok {
		return c
	}

	c := NewScope(name, s)
	s.Children[name] = c

	return c
}

// Root walks s's Parent chain to the scope holding the compilation's
// Cast index (§4.7).
func (s *Scope) Root() *Scope {
	cur := s
	for cur.Parent != nil {
		cur = cur.Parent
	}

	return cur
}

// Resolve walks from s outward through Parent looking for name,
// returning the nearest enclosing Superdecl with that name (§4.5's
// "parent walk" for a Simple identifier).
func (s *Scope) Resolve(name string) (*Superdecl, *Scope, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sd, ok := cur.Superdecl[name]; ok {
			return sd, cur, true
		}
	}

	return nil, nil, false
}

// Placement is a convenience accessor returning the placement of a
// scope's first contributor, for diagnostics that need to point at
// "the scope" rather than one specific contributor.
func (s *Scope) Placement() source.Placement {
	for _, sd := range s.Superdecl {
		if len(sd.Contributors) > 0 {
			return sd.Contributors[0].Placement
		}
	}

	return source.Placement{}
}
