package ccst

import (
	"io"

	"github.com/fancysoft-lang/onyxc/ctoken"
	"github.com/fancysoft-lang/onyxc/diag"
	"github.com/fancysoft-lang/onyxc/source"
)

// Parser drives a ctoken.Lexer with one token of lookahead, the same
// shape as the Onyx parser, so the Onyx driver can hand control to it
// mid-stream and get it back without either side losing its place.
type Parser struct {
	lex *ctoken.Lexer
	cur *ctoken.Token
}

// NewParser creates a Parser over unit's C content.
func NewParser(unit source.Unit) *Parser {
	return &Parser{lex: ctoken.NewLexer(unit)}
}

// advance refills the one-token lookahead slot, skipping insignificant
// whitespace/newline tokens, which the C grammar never needs to see.
func (p *Parser) advance() error {
	for {
		tok, err := p.lex.Next()
		if err != nil {
			if err == io.EOF {
				if cause := p.lex.Err(); cause != nil {
					return cause
				}

				p.cur = nil

				return nil
			}

			return err
		}

		if tok.Kind == ctoken.Space || tok.Kind == ctoken.Newline {
			continue
		}

		p.cur = tok

		return nil
	}
}

func (p *Parser) expect(kind ctoken.Kind) (*ctoken.Token, error) {
	if p.cur == nil || p.cur.Kind != kind {
		return nil, p.unexpected(kind)
	}

	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}

	return tok, nil
}

func (p *Parser) unexpected(expected ...ctoken.Kind) error {
	if p.cur == nil {
		return diag.NewCodedPanic(diag.UnexpectedEOF, "unexpected end of C prototype", p.eofPlacement())
	}

	names := ""
	for i, k := range expected {
		if i > 0 {
			names += ", "
		}

		names += k.String()
	}

	msg := "unexpected " + p.cur.Kind.String()
	if names != "" {
		msg += ", expected " + names
	}

	return diag.NewPanic(msg, p.cur.Placement)
}

func (p *Parser) eofPlacement() source.Placement {
	return source.NewPlacement(p.lex.Unit(), source.Point(p.lex.Unit().Stream().Pos()))
}

// ParseSingleExpression parses exactly one function prototype and
// returns, giving the Onyx parser a single unit of work it can call
// repeatedly across an extern block's statements. It reads nothing past
// the prototype's ';': the lookahead slot is empty after each call, and
// the next call lexes the following prototype's first token afresh.
func (p *Parser) ParseSingleExpression() (*FuncDecl, error) {
	if p.cur == nil {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	decl, err := p.parseFuncDecl()
	if err != nil {
		return nil, err
	}

	// Consume the trailing ';' without prefetching beyond it: in an
	// extern block this prototype may be the last one, with a '}' that
	// belongs to the Onyx grammar sitting right after it, which this
	// lexer has no rule for.
	if p.cur == nil || p.cur.Kind != ctoken.Semi {
		return nil, p.unexpected(ctoken.Semi)
	}

	p.cur = nil

	return decl, nil
}

func (p *Parser) parseFuncDecl() (*FuncDecl, error) {
	start := p.curStart()

	retType, err := p.parseTypeRef()
	if err != nil {
		return nil, err
	}

	nameTok, err := p.expect(ctoken.Ident)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(ctoken.OpenParen); err != nil {
		return nil, err
	}

	args, hasVArg, err := p.parseArgs()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(ctoken.CloseParen); err != nil {
		return nil, err
	}

	return &FuncDecl{
		Placement:  p.spanFrom(start),
		ReturnType: retType,
		Name:       nameTok.Text,
		Args:       args,
		HasVArg:    hasVArg,
	}, nil
}

func (p *Parser) parseArgs() ([]*Arg, bool, error) {
	var args []*Arg

	if p.cur != nil && p.cur.Kind == ctoken.CloseParen {
		return args, false, nil
	}

	for {
		if p.cur != nil && p.cur.Kind == ctoken.Varg {
			if _, err := p.expect(ctoken.Varg); err != nil {
				return nil, false, err
			}

			return args, true, nil
		}

		arg, err := p.parseArg()
		if err != nil {
			return nil, false, err
		}

		args = append(args, arg)

		if p.cur != nil && p.cur.Kind == ctoken.Comma {
			if _, err := p.expect(ctoken.Comma); err != nil {
				return nil, false, err
			}

			continue
		}

		break
	}

	return args, false, nil
}

func (p *Parser) parseArg() (*Arg, error) {
	start := p.curStart()

	typ, err := p.parseTypeRef()
	if err != nil {
		return nil, err
	}

	name := ""
	if p.cur != nil && p.cur.Kind == ctoken.Ident {
		name = p.cur.Text

		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	return &Arg{Placement: p.spanFrom(start), Type: typ, Name: name}, nil
}

func (p *Parser) parseTypeRef() (TypeRef, error) {
	start := p.curStart()

	nameTok, err := p.expect(ctoken.Ident)
	if err != nil {
		return TypeRef{}, err
	}

	depth := 0
	for p.cur != nil && p.cur.Kind == ctoken.Op && p.cur.Text == "*" {
		depth++

		if err := p.advance(); err != nil {
			return TypeRef{}, err
		}
	}

	return TypeRef{Placement: p.spanFrom(start), Name: nameTok.Text, PointerDepth: depth}, nil
}

func (p *Parser) curStart() source.Position {
	if p.cur == nil {
		return p.lex.Unit().Stream().Pos()
	}

	return p.cur.Placement.Location.Start
}

func (p *Parser) spanFrom(start source.Position) source.Placement {
	return source.NewPlacement(p.lex.Unit(), source.NewLocation(start, p.lex.Unit().Stream().Pos()))
}
