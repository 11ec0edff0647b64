package onyxcst

import (
	"github.com/fancysoft-lang/onyxc/onyxtoken"
	"github.com/fancysoft-lang/onyxc/source"
)

// precedenceOf maps an operator's text to its binary-operator binding
// strength. Operators outside the closed ASCII comparison/logic/
// arithmetic set — the Unicode Mathematical Operators block overloads
// from §4.3 — bind at the loosest comparison tier, since user-defined
// operators have no inherent arithmetic priority.
func precedenceOf(op string) int {
	switch op {
	case "||":
		return 1
	case "&&":
		return 2
	case "==", "!=":
		return 3
	case "<", ">", "<=", ">=":
		return 3
	case "+", "-":
		return 4
	case "*", "/", "%":
		return 5
	default:
		return 3
	}
}

// parseExpr parses a full expression: unary operators bind tighter
// than any binary operator, and a call's argument list binds tightest
// of all (§4.6).
func (p *Parser) parseExpr() (Expr, error) {
	return p.parseBinExpr(1)
}

func (p *Parser) parseBinExpr(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.cur != nil && p.cur.Kind == onyxtoken.Op {
		op := p.cur.Text
		prec := precedenceOf(op)

		if prec < minPrec {
			break
		}

		start := left.Placement().Location.Start

		if err := p.advance(); err != nil {
			return nil, err
		}

		right, err := p.parseBinExpr(prec + 1)
		if err != nil {
			return nil, err
		}

		left = &BinOp{base: base{p.spanFrom(start)}, Op: op, Left: left, Right: right}
	}

	return left, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.cur != nil && p.cur.Kind == onyxtoken.Op && (p.cur.Text == "-" || p.cur.Text == "!" || p.cur.Text == "~") {
		start := p.startPos()
		op := p.cur.Text

		if err := p.advance(); err != nil {
			return nil, err
		}

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &UnOp{base: base{p.spanFrom(start)}, Op: op, Operand: operand}, nil
	}

	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Expr, error) {
	start := p.startPos()

	prim, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		q, ok := prim.(*IDQuery)
		if !ok || !p.isPunct("(") {
			break
		}

		call, err := p.parseCall(start, q)
		if err != nil {
			return nil, err
		}

		prim = call
	}

	return prim, nil
}

func (p *Parser) parseCall(start source.Position, callee *IDQuery) (*Call, error) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}

	if err := p.skipNewlines(); err != nil {
		return nil, err
	}

	var args []*Arg

	if !p.isPunct(")") {
		for {
			argStart := p.startPos()
			label := ""

			if p.cur != nil && p.cur.Kind == onyxtoken.Ident && p.cur.Ident.Kind == onyxtoken.IdentLabel {
				label = p.cur.Ident.Name

				if err := p.advance(); err != nil {
					return nil, err
				}
			}

			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			args = append(args, &Arg{base: base{p.spanFrom(argStart)}, Label: label, Value: val})

			if err := p.skipNewlines(); err != nil {
				return nil, err
			}

			if p.isPunct(",") {
				if err := p.advance(); err != nil {
					return nil, err
				}

				if err := p.skipNewlines(); err != nil {
					return nil, err
				}

				continue
			}

			break
		}
	}

	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	return &Call{base: base{p.spanFrom(start)}, Callee: callee, Args: args}, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	start := p.startPos()

	switch {
	case p.cur == nil:
		return nil, p.unexpected("an expression")
	case p.cur.Kind == onyxtoken.LiteralKindMarker:
		if err := p.advance(); err != nil {
			return nil, err
		}

		return p.parsePrimary()
	case p.cur.Kind == onyxtoken.IntLit:
		v := p.cur.IntVal

		if err := p.advance(); err != nil {
			return nil, err
		}

		return &IntLit{base: base{p.spanFrom(start)}, Value: v}, nil
	case p.cur.Kind == onyxtoken.StringLit:
		v := p.cur.StrVal

		if err := p.advance(); err != nil {
			return nil, err
		}

		return &StringLit{base: base{p.spanFrom(start)}, Value: v}, nil
	case p.cur.Kind == onyxtoken.BoolLit:
		v := p.cur.BoolVal

		if err := p.advance(); err != nil {
			return nil, err
		}

		return &BoolLit{base: base{p.spanFrom(start)}, Value: v}, nil
	case p.cur.Kind == onyxtoken.Ident && p.cur.Ident.Kind == onyxtoken.IdentSymbol:
		name := p.cur.Ident.Name

		if err := p.advance(); err != nil {
			return nil, err
		}

		return &SymbolLit{base: base{p.spanFrom(start)}, Name: name}, nil
	case p.isPunct("("):
		if err := p.advance(); err != nil {
			return nil, err
		}

		if err := p.skipNewlines(); err != nil {
			return nil, err
		}

		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if err := p.skipNewlines(); err != nil {
			return nil, err
		}

		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}

		return e, nil
	case p.cur.Kind == onyxtoken.Ident:
		return p.parseIDQuery()
	default:
		return nil, p.unexpected("an expression")
	}
}
