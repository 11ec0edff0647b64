package onyxmlir

import (
	"strings"

	"github.com/fancysoft-lang/onyxc/diag"
	"github.com/fancysoft-lang/onyxc/onyxast"
	"github.com/fancysoft-lang/onyxc/onyxcst"
)

// specializeFunc implements the §4.6 specialization algorithm for a
// generic function superdecl: compute the specialization key from the
// call's concrete template args, reuse an existing specialization if
// one is already registered in the Module, else pick the narrowest
// matching contributor, bind its template aliases to the concrete
// args, and lower its body.
//
// The in-progress FuncSpec is registered in mod.Functions before its
// body is lowered, not after: a self-recursive generic call (§8
// scenario S3's shape, generalized to a templated callee) resolves
// the already-registered stub instead of recursing into
// specializeFunc a second time.
func specializeFunc(ctx lowerCtx, sd *onyxast.Superdecl, targs []*onyxcst.IDQuery) (Callee, error) {
	concreteArgs := make([]string, 0, len(targs))
	for _, ta := range targs {
		concreteArgs = append(concreteArgs, queryTypeName(ta))
	}

	key := NewSpecKey(sd.Name, concreteArgs...)

	if ctx.mod != nil {
		if _, ok := ctx.mod.Functions[key]; ok {
			return Callee{Kind: CalleeOnyxFunc, Key: key}, nil
		}
	}

	fd, err := selectNarrowestFuncContributor(sd)
	if err != nil {
		return Callee{}, err
	}

	if fd == nil {
		return Callee{}, diag.NewInternalInvariant(
			"specialize: '" + sd.Name + "' has a template-arg profile but no body-bearing contributor",
		)
	}

	subst := make(map[string]string, len(fd.TemplateArgs))

	for i, ta := range fd.TemplateArgs {
		if i < len(concreteArgs) {
			subst[ta.Name] = concreteArgs[i]
		}
	}

	params := make([]Param, 0, len(fd.Args))
	for _, a := range fd.Args {
		params = append(params, Param{Name: a.Name, Type: substituteTypeName(queryTypeName(a.Type), subst)})
	}

	fs := &FuncSpec{
		Key:        key,
		Name:       sd.Name,
		Params:     params,
		ReturnType: substituteTypeName(queryTypeName(fd.ReturnType), subst),
		Safety:     Threadsafe,
	}

	if ctx.mod != nil {
		ctx.mod.Functions[key] = fs
	}

	specCtx := lowerCtx{scope: ctx.scope, safety: Threadsafe, mod: ctx.mod, subst: subst}

	body, err := lowerBlock(specCtx, fd.Body)
	if err != nil {
		return Callee{}, err
	}

	fs.Body = body

	return Callee{Kind: CalleeOnyxFunc, Key: key}, nil
}

// funcCandidate is one body-bearing contributor competing to implement
// a generic call, scored by how many of its forall restrictions are
// non-empty — a narrower restriction set requires an exact structural
// match first (§4.6's "ordered by partial containment"; a real partial-
// containment lattice needs a type system this front end does not
// build, so restriction count stands in as the containment proxy).
type funcCandidate struct {
	fd    *onyxcst.FuncDecl
	score int
	sig   string
}

// selectNarrowestFuncContributor picks the winning implementation for
// a generic call per §4.6: highest restriction score wins; among ties,
// an identical restriction signature means the earlier declaration
// wins (source order, i.e. Contributors order), and a genuine
// structural tie is an AmbiguousImplementation panic.
func selectNarrowestFuncContributor(sd *onyxast.Superdecl) (*onyxcst.FuncDecl, error) {
	var candidates []funcCandidate

	for _, c := range sd.Contributors {
		fd, ok := c.Node.(*onyxcst.FuncDecl)
		if !ok || fd.Body == nil {
			continue
		}

		score, sig := restrictionSignature(fd.Forall)
		candidates = append(candidates, funcCandidate{fd: fd, score: score, sig: sig})
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	best := candidates[0].score

	for _, c := range candidates[1:] {
		if c.score > best {
			best = c.score
		}
	}

	var winners []funcCandidate

	for _, c := range candidates {
		if c.score == best {
			winners = append(winners, c)
		}
	}

	if len(winners) == 1 {
		return winners[0].fd, nil
	}

	first := winners[0]

	for _, w := range winners[1:] {
		if w.sig != first.sig {
			return nil, diag.NewPanic(
				"ambiguous implementation for '"+sd.Name+"': multiple equally narrow specializations match",
				w.fd.Placement(),
			).WithNote("competing implementation here", first.fd.Placement())
		}
	}

	return first.fd, nil
}

func restrictionSignature(forall []*onyxcst.TemplateArg) (int, string) {
	score := 0
	parts := make([]string, 0, len(forall))

	for _, ta := range forall {
		r := queryTypeName(ta.Restriction)
		if r != "" {
			score++
		}

		parts = append(parts, ta.Name+":"+r)
	}

	return score, strings.Join(parts, ",")
}

// substituteTypeName resolves a template alias to the concrete type
// bound for the active specialization; a name that isn't one of its
// aliases passes through unchanged. subst is nil outside a
// specialization's own body, in which case every name passes through.
func substituteTypeName(name string, subst map[string]string) string {
	if subst == nil {
		return name
	}

	if concrete, ok := subst[name]; ok {
		return concrete
	}

	return name
}
