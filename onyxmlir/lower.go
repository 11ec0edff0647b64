package onyxmlir

import (
	"sort"
	"strings"

	"github.com/fancysoft-lang/onyxc/diag"
	"github.com/fancysoft-lang/onyxc/onyxast"
	"github.com/fancysoft-lang/onyxc/onyxcst"
)

// lowerCtx carries everything a single point in the lowering walk
// needs beyond its immediate CST node: the lexical scope a Call should
// resolve names against, the Safety of the block currently being
// lowered (§8 Property 5), the Module specializations are registered
// into (so a generic call discovered deep in one function's body can
// mint a sibling FuncSpec lazily, §4.6), and the template-alias-to-
// concrete-type substitution active inside a specialization's own
// body (nil outside one).
type lowerCtx struct {
	scope  *onyxast.Scope
	safety Safety
	mod    *Module
	subst  map[string]string
}

// Lower walks every superdeclaration reachable from scope and produces
// one FuncSpec or TypeSpec per non-generic declaration, plus the
// implicit main Block (§4.6). A generic (template-bearing) declaration
// is not lowered standalone: §4.6 specializes it lazily, the first
// time a call site with concrete template args is lowered
// (resolveCallee/specializeFunc) — reachable generics end up in
// Module.Functions this way even though this top-level sweep skips
// them. Lowering continues past a failing declaration, collecting
// every error, the same "don't stop at the first problem" policy
// onyxast.Build uses.
func Lower(scope *onyxast.Scope) (*Module, []error) {
	mod := NewModule()

	var errs []error

	for _, name := range sortedSuperdeclNames(scope.Superdecl) {
		sd := scope.Superdecl[name]

		switch sd.Category {
		case onyxast.CategoryFunc:
			fs, err := lowerFuncSuperdecl(name, sd, scope, mod)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			if fs == nil {
				continue
			}

			mod.Functions[fs.Key] = fs

			if name == "main" {
				mod.Main = fs.Body
			}
		case onyxast.CategoryTrait, onyxast.CategoryStruct, onyxast.CategoryClass,
			onyxast.CategoryEnum, onyxast.CategoryUnit, onyxast.CategoryAnnotation:
			ts, err := lowerTypeSuperdecl(name, sd, scope, mod)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			if ts != nil {
				mod.Types[ts.Key] = ts
			}
		case onyxast.CategoryVar:
			// Top-level var initializers are not lowered: neither this
			// pass nor program.Compile adds them to Main, which holds
			// only an explicit "main" function's body.
		}
	}

	return mod, errs
}

func sortedSuperdeclNames(m map[string]*onyxast.Superdecl) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}

	sort.Strings(names)

	return names
}

func lowerFuncSuperdecl(name string, sd *onyxast.Superdecl, scope *onyxast.Scope, mod *Module) (*FuncSpec, error) {
	fd := funcDeclWithBody(sd)
	if fd == nil {
		return nil, nil
	}

	// A template-bearing declaration is never lowered standalone: §4.6
	// specializes it lazily from a call site with concrete template
	// args (resolveCallee/specializeFunc), not from this top-level
	// sweep over every superdeclaration.
	if len(fd.TemplateArgs) > 0 {
		return nil, nil
	}

	params := make([]Param, 0, len(fd.Args))
	for _, a := range fd.Args {
		params = append(params, Param{Name: a.Name, Type: queryTypeName(a.Type)})
	}

	body, err := lowerBlock(lowerCtx{scope: scope, safety: Threadsafe, mod: mod}, fd.Body)
	if err != nil {
		return nil, err
	}

	return &FuncSpec{
		Key:        NewSpecKey(name),
		Name:       name,
		Params:     params,
		ReturnType: queryTypeName(fd.ReturnType),
		Safety:     Threadsafe,
		Body:       body,
	}, nil
}

func funcDeclWithBody(sd *onyxast.Superdecl) *onyxcst.FuncDecl {
	for _, c := range sd.Contributors {
		if fd, ok := c.Node.(*onyxcst.FuncDecl); ok && fd.Body != nil {
			return fd
		}
	}

	return nil
}

func lowerTypeSuperdecl(name string, sd *onyxast.Superdecl, scope *onyxast.Scope, mod *Module) (*TypeSpec, error) {
	category := string(sd.Category)

	td := typeDefFor(sd)
	if td != nil {
		category = td.Category

		if len(td.TemplateArgs) > 0 {
			return nil, nil
		}
	}

	ts := &TypeSpec{
		Key:      NewSpecKey(name),
		Name:     name,
		Category: category,
		Methods:  map[SpecKey]*FuncSpec{},
	}

	if sd.Scope == nil {
		return ts, nil
	}

	for _, mname := range sortedSuperdeclNames(sd.Scope.Superdecl) {
		msd := sd.Scope.Superdecl[mname]

		switch msd.Category {
		case onyxast.CategoryVar:
			vd := varDefFor(msd)
			if vd == nil {
				continue
			}

			storage := StorageInstance

			for _, m := range vd.Modifiers {
				if m == onyxcst.ModStatic {
					storage = StorageStatic
				}
			}

			ts.Fields = append(ts.Fields, Field{Name: vd.Name, Type: queryTypeName(vd.Type), Storage: storage})
		case onyxast.CategoryFunc:
			fs, err := lowerFuncSuperdecl(mname, msd, sd.Scope, mod)
			if err != nil {
				return nil, err
			}

			if fs != nil {
				ts.Methods[fs.Key] = fs
			}
		}
	}

	return ts, nil
}

func typeDefFor(sd *onyxast.Superdecl) *onyxcst.TypeDef {
	for _, c := range sd.Contributors {
		if td, ok := c.Node.(*onyxcst.TypeDef); ok {
			return td
		}
	}

	return nil
}

func varDefFor(sd *onyxast.Superdecl) *onyxcst.VarDef {
	for _, c := range sd.Contributors {
		if vd, ok := c.Node.(*onyxcst.VarDef); ok {
			return vd
		}
	}

	return nil
}

func queryTypeName(q *onyxcst.IDQuery) string {
	if q == nil {
		return ""
	}

	parts := make([]string, 0, len(q.Elements))
	for _, e := range q.Elements {
		parts = append(parts, e.Name)
	}

	return strings.Join(parts, ".")
}

func lowerBlock(ctx lowerCtx, b *onyxcst.Block) (*Block, error) {
	out := &Block{Safety: ctx.safety}

	for _, st := range b.Stmts {
		n, err := lowerStmt(ctx, st)
		if err != nil {
			return nil, err
		}

		if n != nil {
			out.Stmts = append(out.Stmts, n)
		}
	}

	return out, nil
}

func lowerStmt(ctx lowerCtx, s onyxcst.Stmt) (Node, error) {
	switch v := s.(type) {
	case *onyxcst.EmptyLine:
		return nil, nil
	case *onyxcst.FuncDecl, *onyxcst.TypeDef:
		// A nested declaration contributes its own superdeclaration,
		// already walked by the caller of Lower via onyxast.Build; it
		// is not itself a runtime statement.
		return nil, nil
	case *onyxcst.VarDef:
		return lowerVarDef(ctx, v)
	case *onyxcst.ExprStmt:
		return lowerExprStmt(ctx, v)
	case *onyxcst.If:
		return lowerIf(ctx, v)
	case *onyxcst.While:
		cond, err := lowerExpr(ctx, v.Cond)
		if err != nil {
			return nil, err
		}

		body, err := lowerBlock(ctx, v.Body)
		if err != nil {
			return nil, err
		}

		return &While{Cond: cond, Body: body}, nil
	case *onyxcst.Return:
		if v.Value == nil {
			return &Return{}, nil
		}

		val, err := lowerExpr(ctx, v.Value)
		if err != nil {
			return nil, err
		}

		return &Return{Value: val}, nil
	case *onyxcst.Switch:
		return lowerSwitch(ctx, v)
	case *onyxcst.Block:
		return lowerBlock(ctx, v)
	case *onyxcst.SafetyStmt:
		nested := ctx
		nested.safety = safetyFromWord(v.Safety)

		body, err := lowerBlock(nested, v.Body)
		if err != nil {
			return nil, err
		}

		return body, nil
	default:
		return nil, diag.NewInternalInvariant("lower: unhandled statement kind")
	}
}

func safetyFromWord(w string) Safety {
	switch w {
	case "unsafe":
		return Unsafe
	case "fragile":
		return Fragile
	default:
		return Threadsafe
	}
}

func lowerVarDef(ctx lowerCtx, v *onyxcst.VarDef) (*VarDecl, error) {
	var (
		value Expr
		err   error
	)

	if v.Value != nil {
		value, err = lowerExpr(ctx, v.Value)
		if err != nil {
			return nil, err
		}
	}

	typ := substituteTypeName(queryTypeName(v.Type), ctx.subst)
	if typ == "" && value != nil {
		typ = value.Type()
	}

	storage := StorageUndefined

	for _, m := range v.Modifiers {
		if m == onyxcst.ModStatic {
			storage = StorageStatic
		}
	}

	return &VarDecl{
		base:    base{typ},
		Name:    v.Name,
		Storage: storage,
		Final:   v.Keyword == "final",
		Value:   value,
	}, nil
}

// lowerExprStmt recognizes a "target = value" expression statement —
// parsed generically as a BinOp with Op "=" since assignment has no
// dedicated grammar production — and turns it into an Assignment; any
// other bare expression statement lowers to its own Expr node, used
// for its side effects and discarded value.
func lowerExprStmt(ctx lowerCtx, v *onyxcst.ExprStmt) (Node, error) {
	if bin, ok := v.Value.(*onyxcst.BinOp); ok && bin.Op == "=" {
		target, ok := bin.Left.(*onyxcst.IDQuery)
		if !ok {
			return nil, diag.NewPanic("assignment target must be a name", v.Placement())
		}

		value, err := lowerExpr(ctx, bin.Right)
		if err != nil {
			return nil, err
		}

		return &Assignment{base: base{value.Type()}, Target: queryTypeName(target), Value: value}, nil
	}

	return lowerExpr(ctx, v.Value)
}

func lowerIf(ctx lowerCtx, n *onyxcst.If) (*If, error) {
	cond, err := lowerExpr(ctx, n.Cond)
	if err != nil {
		return nil, err
	}

	then, err := lowerBlock(ctx, n.Body)
	if err != nil {
		return nil, err
	}

	var elseBlock *Block

	if n.Else != nil {
		elseBlock, err = lowerBlock(ctx, n.Else)
		if err != nil {
			return nil, err
		}
	}

	for i := len(n.Elifs) - 1; i >= 0; i-- {
		econd, err := lowerExpr(ctx, n.Elifs[i].Cond)
		if err != nil {
			return nil, err
		}

		ebody, err := lowerBlock(ctx, n.Elifs[i].Body)
		if err != nil {
			return nil, err
		}

		elseBlock = &Block{Safety: ctx.safety, Stmts: []Node{&If{Cond: econd, Then: ebody, Else: elseBlock}}}
	}

	return &If{Cond: cond, Then: then, Else: elseBlock}, nil
}

// lowerSwitch folds a Switch into the If chain decided on for §9: each
// case becomes an equality test against Subject, tried in source
// order, with Default (or nothing) as the final fallthrough.
func lowerSwitch(ctx lowerCtx, n *onyxcst.Switch) (*If, error) {
	subject, err := lowerExpr(ctx, n.Subject)
	if err != nil {
		return nil, err
	}

	var tail *Block

	if n.Default != nil {
		tail, err = lowerBlock(ctx, n.Default)
		if err != nil {
			return nil, err
		}
	}

	var result *If

	for i := len(n.Cases) - 1; i >= 0; i-- {
		match, err := lowerExpr(ctx, n.Cases[i].Match)
		if err != nil {
			return nil, err
		}

		body, err := lowerBlock(ctx, n.Cases[i].Body)
		if err != nil {
			return nil, err
		}

		elseForThis := tail
		if result != nil {
			elseForThis = &Block{Safety: ctx.safety, Stmts: []Node{result}}
		}

		cond := &BinOp{base: base{"Bool"}, Op: "==", Left: subject, Right: match}
		result = &If{Cond: cond, Then: body, Else: elseForThis}
	}

	if result == nil {
		result = &If{Cond: &BoolLit{base: base{"Bool"}, Value: false}, Then: &Block{Safety: ctx.safety}, Else: tail}
	}

	return result, nil
}

func lowerExpr(ctx lowerCtx, e onyxcst.Expr) (Expr, error) {
	switch v := e.(type) {
	case *onyxcst.IntLit:
		return &IntLit{base: base{inferIntLitType(v.Value)}, Value: v.Value}, nil
	case *onyxcst.StringLit:
		return &StringLit{base: base{"String"}, Value: v.Value}, nil
	case *onyxcst.BoolLit:
		return &BoolLit{base: base{"Bool"}, Value: v.Value}, nil
	case *onyxcst.SymbolLit:
		return &Ident{base: base{"Symbol"}, Name: v.Name}, nil
	case *onyxcst.IDQuery:
		return &Ident{base: base{}, Name: queryTypeName(v)}, nil
	case *onyxcst.UnOp:
		operand, err := lowerExpr(ctx, v.Operand)
		if err != nil {
			return nil, err
		}

		return &UnOp{base: base{operand.Type()}, Op: v.Op, Operand: operand}, nil
	case *onyxcst.BinOp:
		left, err := lowerExpr(ctx, v.Left)
		if err != nil {
			return nil, err
		}

		right, err := lowerExpr(ctx, v.Right)
		if err != nil {
			return nil, err
		}

		return &BinOp{base: base{left.Type()}, Op: v.Op, Left: left, Right: right}, nil
	case *onyxcst.Call:
		args := make([]Expr, 0, len(v.Args))

		for _, a := range v.Args {
			av, err := lowerExpr(ctx, a.Value)
			if err != nil {
				return nil, err
			}

			args = append(args, av)
		}

		callee, err := resolveCallee(ctx, v.Callee)
		if err != nil {
			return nil, err
		}

		return &Call{base: base{}, Callee: callee, Args: args}, nil
	default:
		return nil, diag.NewInternalInvariant("lower: unhandled expression kind")
	}
}

// resolveCallee determines which of the three things (§4.6) a call's
// query names: a compiler intrinsic (spelled "@name", never entered
// into the scope graph), a C function reached through extern "C", or
// an Onyx function specialization. A C callee additionally enforces
// the safety-monotonicity invariant (§8 Property 5): it requires
// Safety::Unsafe at the call site, since the compiler cannot verify a
// C prototype's contract.
func resolveCallee(ctx lowerCtx, q *onyxcst.IDQuery) (Callee, error) {
	if len(q.Elements) > 0 && q.Elements[0].IsIntrinsic {
		return Callee{Kind: CalleeBuiltin, Name: queryTypeName(q)}, nil
	}

	sd, err := onyxast.ResolveQuery(ctx.scope, q)
	if err != nil {
		return Callee{}, err
	}

	if sd.Category == onyxast.CategoryExternFunc {
		if ctx.safety != Unsafe {
			return Callee{}, diag.NewPanic(
				"calling C function '"+sd.Name+"' requires an unsafe! block",
				q.Placement(),
			)
		}

		return Callee{Kind: CalleeCFunc, CFunc: sd.ExternFunc}, nil
	}

	if last := q.Elements[len(q.Elements)-1]; len(last.TemplateArgs) > 0 {
		return specializeFunc(ctx, sd, last.TemplateArgs)
	}

	return Callee{Kind: CalleeOnyxFunc, Key: NewSpecKey(sd.Name)}, nil
}
