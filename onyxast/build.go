package onyxast

import (
	"github.com/fancysoft-lang/onyxc/cast"
	"github.com/fancysoft-lang/onyxc/ccst"
	"github.com/fancysoft-lang/onyxc/onyxcst"
)

// Build constructs a Scope tree for one parsed Onyx file, merging
// contributors into superdeclarations as it goes. It does not stop at
// the first diagnostic: every top-level item is attempted, and all
// Panics encountered are returned together, matching the "a Panic is
// recoverable, the compiler may continue at the next top-level item"
// rule from the diagnostics model. Every extern block's C prototypes
// are collected into the root scope's Cast index as they're found
// (§4.7).
func Build(file *onyxcst.File) (*Scope, []error) {
	root := NewScope(file.Placement().Unit.Name(), nil)
	root.Cast = cast.NewIndex()

	var errs []error

	walkItems(root, file.Items, false, &errs)

	return root, errs
}

func walkItems(scope *Scope, items []onyxcst.Node, exported bool, errs *[]error) {
	for _, item := range items {
		walkItem(scope, item, exported, errs)
	}
}

func walkItem(scope *Scope, item onyxcst.Node, exported bool, errs *[]error) {
	switch n := item.(type) {
	case *onyxcst.Export:
		walkItem(scope, n.Decl, true, errs)
	case *onyxcst.FuncDecl:
		if err := declareFunc(scope, n, exported); err != nil {
			*errs = append(*errs, err)
		}
	case *onyxcst.TypeDef:
		if err := declareType(scope, n, exported, errs); err != nil {
			*errs = append(*errs, err)
		}
	case *onyxcst.VarDef:
		if err := declareVar(scope, n, exported); err != nil {
			*errs = append(*errs, err)
		}
	case *onyxcst.ExternBlock:
		declareExterns(scope, n, errs)
	case *onyxcst.Import, *onyxcst.EmptyLine, *onyxcst.Alias:
		// Directives and formatting markers contribute nothing to the
		// scope graph itself; import resolution is a separate pass.
	default:
		// A bare statement at file scope (the pragmatic parser's
		// catch-all) never binds a name; nothing to merge.
	}
}

// declareExterns feeds every prototype an extern block's C parser
// collected into the scope tree's root Cast index, so Onyx code
// anywhere in the file can resolve a C call by name (§4.7).
func declareExterns(scope *Scope, n *onyxcst.ExternBlock, errs *[]error) {
	root := scope.Root()

	if root.Cast == nil {
		root.Cast = cast.NewIndex()
	}

	for _, d := range n.Decls {
		fd, ok := d.(*ccst.FuncDecl)
		if !ok {
			continue
		}

		if err := root.Cast.Declare(fd); err != nil {
			*errs = append(*errs, err)
		}
	}
}

// declName returns the symbol name a declaration query binds: the
// query's last element, so that an extension like "Point.length"
// declares "length" as a member of Point's scope rather than a new
// top-level name.
func declName(q *onyxcst.IDQuery) string {
	return q.Elements[len(q.Elements)-1].Name
}

// ownerScope walks every element of q but the last, descending into
// nested member scopes, to find where a qualified declaration's name
// actually belongs. A single-element query declares directly in scope.
func ownerScope(scope *Scope, q *onyxcst.IDQuery) *Scope {
	cur := scope

	for _, e := range q.Elements[:len(q.Elements)-1] {
		cur = cur.childScope(e.Name)
	}

	return cur
}

func declareFunc(scope *Scope, n *onyxcst.FuncDecl, exported bool) error {
	owner := ownerScope(scope, n.Query)
	name := declName(n.Query)

	_, err := declare(owner, name, CategoryFunc, buildTArgProfile(n.TemplateArgs), &Contributor{
		Action:    n.Action,
		Exported:  exported,
		Node:      n,
		Placement: n.Placement(),
	})

	return err
}

func declareType(scope *Scope, n *onyxcst.TypeDef, exported bool, errs *[]error) error {
	owner := ownerScope(scope, n.Query)
	name := declName(n.Query)

	sd, err := declare(owner, name, Category(n.Category), buildTArgProfile(n.TemplateArgs), &Contributor{
		Action:    n.Action,
		Exported:  exported,
		Node:      n,
		Placement: n.CategoryPlacement,
	})
	if err != nil {
		return err
	}

	if sd.Scope == nil {
		sd.Scope = owner.childScope(name)
	}

	if n.Body != nil {
		walkItems(sd.Scope, blockStmtNodes(n.Body), false, errs)
	}

	return nil
}

func declareVar(scope *Scope, n *onyxcst.VarDef, exported bool) error {
	_, err := declare(scope, n.Name, CategoryVar, nil, &Contributor{
		Exported:  exported,
		Node:      n,
		Placement: n.Placement(),
	})

	return err
}

// blockStmtNodes widens a Block's []Stmt to []Node so it can be fed
// back through walkItems, which only needs the Node interface.
func blockStmtNodes(b *onyxcst.Block) []onyxcst.Node {
	out := make([]onyxcst.Node, len(b.Stmts))
	for i, s := range b.Stmts {
		out[i] = s
	}

	return out
}
