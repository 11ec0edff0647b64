package onyxcst

import "github.com/fancysoft-lang/onyxc/onyxtoken"

// parseBlockBody parses statements until terminator reports true,
// synthesizing an EmptyLine node for each run of two or more
// consecutive Newline tokens between statements (§4.4, §8 property 2).
// It reports whether the body spanned more than one line, for Block's
// printer-facing MultiLine flag.
func (p *Parser) parseBlockBody(terminator func() bool) ([]Stmt, bool, error) {
	var stmts []Stmt

	multiLine := false

	for {
		if p.cur == nil {
			return nil, multiLine, p.unexpected("")
		}

		if p.cur.Kind == onyxtoken.Comment {
			p.pendingDoc = append(p.pendingDoc, p.cur.Text)

			if err := p.advanceRaw(); err != nil {
				return nil, multiLine, err
			}

			continue
		}

		if p.cur.Kind == onyxtoken.Space {
			if err := p.advanceRaw(); err != nil {
				return nil, multiLine, err
			}

			continue
		}

		if p.cur.Kind == onyxtoken.Newline {
			multiLine = true

			blank, err := p.consumeNewlinesCountingBlank()
			if err != nil {
				return nil, multiLine, err
			}

			if blank && len(stmts) > 0 {
				stmts = append(stmts, &EmptyLine{base{p.here()}})
			}

			continue
		}

		if terminator() {
			break
		}

		st, err := p.parseBlockStmt()
		if err != nil {
			return nil, multiLine, err
		}

		stmts = append(stmts, st)
	}

	return stmts, multiLine, nil
}

func (p *Parser) parseBlockStmt() (Stmt, error) {
	doc := p.takeDoc()

	switch {
	case p.isKeyword("let") || p.isKeyword("final"):
		n, err := p.parseVarDef(doc)
		if err != nil {
			return nil, err
		}

		return n.(Stmt), nil
	case p.isActionKeyword():
		n, err := p.parseFuncOrTypeDecl(doc)
		if err != nil {
			return nil, err
		}

		return n.(Stmt), nil
	default:
		n, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		return n.(Stmt), nil
	}
}

// parseStatement parses one control-flow, safety-scoped, nested-block,
// or bare-expression statement.
func (p *Parser) parseStatement() (Node, error) {
	switch {
	case p.isKeyword("if"):
		return p.parseIf()
	case p.isKeyword("while"):
		return p.parseWhile()
	case p.isKeyword("return"):
		return p.parseReturn()
	case p.isKeyword("switch"):
		return p.parseSwitch()
	case p.isKeyword("unsafe") || p.isKeyword("fragile") || p.isKeyword("threadsafe"):
		return p.parseSafetyStmt()
	case p.isPunct("{") || p.isKeyword("do"):
		return p.parseBlock()
	default:
		start := p.startPos()

		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return &ExprStmt{base: base{p.spanFrom(start)}, Value: e}, nil
	}
}

// parseBlock parses a "{ ... }" or "do ... end" body, preserving which
// surface form was used so the printer can round-trip it.
func (p *Parser) parseBlock() (*Block, error) {
	start := p.startPos()

	switch {
	case p.isPunct("{"):
		if err := p.advance(); err != nil {
			return nil, err
		}

		stmts, multiLine, err := p.parseBlockBody(func() bool { return p.isPunct("}") })
		if err != nil {
			return nil, err
		}

		if _, err := p.expectPunct("}"); err != nil {
			return nil, err
		}

		return &Block{base: base{p.spanFrom(start)}, Style: BraceStyle, MultiLine: multiLine, Stmts: stmts}, nil
	case p.isKeyword("do"):
		if _, err := p.expectKeyword("do"); err != nil {
			return nil, err
		}

		stmts, _, err := p.parseBlockBody(func() bool { return p.isKeyword("end") })
		if err != nil {
			return nil, err
		}

		if _, err := p.expectKeyword("end"); err != nil {
			return nil, err
		}

		return &Block{base: base{p.spanFrom(start)}, Style: DoEndStyle, MultiLine: true, Stmts: stmts}, nil
	default:
		return nil, p.unexpected("a block ('{' or 'do')")
	}
}

func (p *Parser) parseIf() (*If, error) {
	start := p.startPos()

	if _, err := p.expectKeyword("if"); err != nil {
		return nil, err
	}

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.skipNewlines(); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elifs []*ElifCase

	var elseBlock *Block

	for {
		if err := p.skipNewlines(); err != nil {
			return nil, err
		}

		if p.isKeyword("elif") {
			elifStart := p.startPos()

			if err := p.advance(); err != nil {
				return nil, err
			}

			econd, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			if err := p.skipNewlines(); err != nil {
				return nil, err
			}

			ebody, err := p.parseBlock()
			if err != nil {
				return nil, err
			}

			elifs = append(elifs, &ElifCase{base: base{p.spanFrom(elifStart)}, Cond: econd, Body: ebody})

			continue
		}

		if p.isKeyword("else") {
			if err := p.advance(); err != nil {
				return nil, err
			}

			if err := p.skipNewlines(); err != nil {
				return nil, err
			}

			elseBlock, err = p.parseBlock()
			if err != nil {
				return nil, err
			}
		}

		break
	}

	return &If{base: base{p.spanFrom(start)}, Cond: cond, Body: body, Elifs: elifs, Else: elseBlock}, nil
}

func (p *Parser) parseWhile() (*While, error) {
	start := p.startPos()

	if _, err := p.expectKeyword("while"); err != nil {
		return nil, err
	}

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.skipNewlines(); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &While{base: base{p.spanFrom(start)}, Cond: cond, Body: body}, nil
}

func (p *Parser) parseReturn() (*Return, error) {
	start := p.startPos()

	if _, err := p.expectKeyword("return"); err != nil {
		return nil, err
	}

	if p.cur == nil || p.cur.Kind == onyxtoken.Newline || p.isPunct("}") || p.isKeyword("end") {
		return &Return{base: base{p.spanFrom(start)}}, nil
	}

	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &Return{base: base{p.spanFrom(start)}, Value: val}, nil
}

func (p *Parser) parseSafetyStmt() (*SafetyStmt, error) {
	start := p.startPos()
	word := p.cur.Keyword.Word

	if err := p.advance(); err != nil {
		return nil, err
	}

	if err := p.skipNewlines(); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &SafetyStmt{base: base{p.spanFrom(start)}, Safety: word, Body: body}, nil
}

func (p *Parser) parseSwitch() (*Switch, error) {
	start := p.startPos()

	if _, err := p.expectKeyword("switch"); err != nil {
		return nil, err
	}

	subject, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.skipNewlines(); err != nil {
		return nil, err
	}

	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}

	if err := p.skipNewlines(); err != nil {
		return nil, err
	}

	var cases []*SwitchCase

	var def *Block

	for {
		if p.isPunct("}") {
			break
		}

		switch {
		case p.isKeyword("case"):
			cstart := p.startPos()

			if err := p.advance(); err != nil {
				return nil, err
			}

			match, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			if err := p.skipNewlines(); err != nil {
				return nil, err
			}

			bstart := p.startPos()

			stmts, _, err := p.parseBlockBody(func() bool {
				return p.isKeyword("case") || p.isKeyword("default") || p.isPunct("}")
			})
			if err != nil {
				return nil, err
			}

			body := &Block{base: base{p.spanFrom(bstart)}, Style: BraceStyle, MultiLine: true, Stmts: stmts}
			cases = append(cases, &SwitchCase{base: base{p.spanFrom(cstart)}, Match: match, Body: body})
		case p.isKeyword("default"):
			if err := p.advance(); err != nil {
				return nil, err
			}

			if err := p.skipNewlines(); err != nil {
				return nil, err
			}

			bstart := p.startPos()

			stmts, _, err := p.parseBlockBody(func() bool { return p.isPunct("}") })
			if err != nil {
				return nil, err
			}

			def = &Block{base: base{p.spanFrom(bstart)}, Style: BraceStyle, MultiLine: true, Stmts: stmts}
		default:
			return nil, p.unexpected("'case' or 'default'")
		}

		if err := p.skipNewlines(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}

	return &Switch{base: base{p.spanFrom(start)}, Subject: subject, Cases: cases, Default: def}, nil
}
