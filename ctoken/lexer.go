package ctoken

import (
	"errors"
	"io"
	"strings"
	"unicode"

	"github.com/fancysoft-lang/onyxc/diag"
	"github.com/fancysoft-lang/onyxc/source"
)

// Lexer is a pull iterator over a C-prototype unit. It never panics
// into the caller: the first error it hits is stored, Next yields
// io.EOF from then on (the call that hit the error included), and Err
// reports the stored error, matching the propagation policy in spec §7 ("lexers never
// throw into the parser — they store the first panic they hit and
// yield end-of-stream").
type Lexer struct {
	unit   source.Unit
	stream *source.RuneStream
	stored error
}

// NewLexer creates a Lexer reading from unit's shared RuneStream.
func NewLexer(unit source.Unit) *Lexer {
	return &Lexer{unit: unit, stream: unit.Stream()}
}

// Unit returns the unit this lexer is reading.
func (l *Lexer) Unit() source.Unit { return l.unit }

// Next returns the next C token. Once a panic has been stored, Next
// keeps returning io.EOF without re-lexing; a caller that sees EOF
// checks Err to tell a stored panic from a clean end of input.
func (l *Lexer) Next() (*Token, error) {
	if l.stored != nil {
		return nil, io.EOF
	}

	tok, err := l.lex()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		l.stored = err

		return nil, io.EOF
	}

	return tok, nil
}

// Err returns the first panic this lexer hit, if any.
func (l *Lexer) Err() error { return l.stored }

func (l *Lexer) lex() (*Token, error) {
	start := l.stream.Pos()

	r, err := l.stream.NextRune()
	if err != nil {
		return nil, err
	}

	switch {
	case r == '\n':
		return l.tok(Newline, "\n", start), nil
	case r == ' ' || r == '\t' || r == '\r':
		return l.lexSpace(r, start)
	case r == ',':
		return l.tok(Comma, ",", start), nil
	case r == ';':
		return l.tok(Semi, ";", start), nil
	case r == '(':
		return l.tok(OpenParen, "(", start), nil
	case r == ')':
		return l.tok(CloseParen, ")", start), nil
	case r == '.':
		return l.lexVarg(start)
	case strings.ContainsRune(Ops, r):
		return l.tok(Op, string(r), start), nil
	case isIdentStart(r):
		return l.lexIdent(r, start)
	default:
		return nil, diag.NewPanic(
			"unexpected character '"+string(r)+"' in C prototype",
			l.placement(start, l.stream.Pos()),
		)
	}
}

func (l *Lexer) lexSpace(first rune, start source.Position) (*Token, error) {
	var sb strings.Builder
	sb.WriteRune(first)

	for {
		r, err := l.stream.NextRune()
		if err != nil {
			break
		}

		if r != ' ' && r != '\t' && r != '\r' {
			l.stream.PrevRune()
			break
		}

		sb.WriteRune(r)
	}

	return l.tok(Space, sb.String(), start), nil
}

func (l *Lexer) lexVarg(start source.Position) (*Token, error) {
	for i := 0; i < 2; i++ {
		r, err := l.stream.NextRune()
		if err != nil || r != '.' {
			return nil, diag.NewPanic("expected '...'", l.placement(start, l.stream.Pos()))
		}
	}

	return l.tok(Varg, "...", start), nil
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// lexIdent reads a normalized identifier: a run of ident characters,
// possibly containing single embedded spaces (as in "unsigned int"),
// with runs of whitespace inside the identifier collapsed to one
// space on lex, per §4.2. Whitespace joins the next word only after a
// C type-modifier word (unsigned, signed, short, long, const,
// volatile, struct, enum, union); after any other word the identifier
// ends and the whitespace is lexed as its own Space token.
func (l *Lexer) lexIdent(first rune, start source.Position) (*Token, error) {
	var sb strings.Builder
	sb.WriteRune(first)

	for {
		r, err := l.stream.NextRune()
		if err != nil {
			break
		}

		if isIdentCont(r) {
			sb.WriteRune(r)
			continue
		}

		if r == ' ' || r == '\t' {
			words := strings.Fields(sb.String())
			switch words[len(words)-1] {
			case "unsigned", "signed", "short", "long", "const", "volatile", "struct", "enum", "union":
			default:
				l.stream.PrevRune()
				goto done
			}

			// Mark before the space, so whitespace that does not join
			// another word is re-lexed as a Space token.
			mark := l.stream.Mark() - 1

			// Skip further horizontal whitespace, then check whether
			// another identifier character follows; if not, this
			// whitespace isn't part of the identifier.
			for {
				r2, err2 := l.stream.NextRune()
				if err2 != nil {
					l.stream.Reset(mark)
					goto done
				}

				if r2 == ' ' || r2 == '\t' {
					continue
				}

				if isIdentCont(r2) {
					sb.WriteRune(' ')
					sb.WriteRune(r2)
					break
				}

				l.stream.Reset(mark)
				goto done
			}

			continue
		}

		l.stream.PrevRune()
		break
	}

done:
	return l.tok(Ident, sb.String(), start), nil
}

func (l *Lexer) tok(kind Kind, text string, start source.Position) *Token {
	return &Token{Kind: kind, Text: text, Placement: l.placement(start, l.stream.Pos())}
}

func (l *Lexer) placement(start, end source.Position) source.Placement {
	return source.NewPlacement(l.unit, source.NewLocation(start, end))
}
