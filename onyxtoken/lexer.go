package onyxtoken

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/fancysoft-lang/onyxc/diag"
	"github.com/fancysoft-lang/onyxc/source"
)

// Lexer is a pull iterator over an Onyx unit. It keeps exactly one
// token of rewind state: after Next returns a token, a single call to
// Rewind puts the stream cursor back to before that token was read, so
// the Onyx parser can hand an unconsumed byte span to the C parser
// when it discovers mid-token that it is looking at the start of an
// extern block's content (§4.3's "yield control" contract, §4.4,
// §5). Like ctoken.Lexer, it never throws: the first error is stored
// and replayed as io.EOF from then on.
type Lexer struct {
	unit   source.Unit
	stream *source.RuneStream
	stored error

	lastMark int // stream.Mark() taken immediately before the last token
	canRewind bool
}

// NewLexer creates a Lexer reading from unit's shared RuneStream.
func NewLexer(unit source.Unit) *Lexer {
	return &Lexer{unit: unit, stream: unit.Stream()}
}

// Unit returns the unit this lexer is reading.
func (l *Lexer) Unit() source.Unit { return l.unit }

// Next returns the next Onyx token.
func (l *Lexer) Next() (*Token, error) {
	if l.stored != nil {
		return nil, io.EOF
	}

	l.lastMark = l.stream.Mark()
	l.canRewind = true

	tok, err := l.lex()
	if err != nil {
		if errors.Is(err, io.EOF) {
			l.canRewind = false
			return nil, io.EOF
		}

		l.stored = err
		l.canRewind = false

		return nil, io.EOF
	}

	return tok, nil
}

// Rewind puts the stream cursor back to immediately before the token
// most recently returned by Next. It panics if called twice in a row
// without an intervening Next, which would indicate a parser bug, not
// a user-facing error.
func (l *Lexer) Rewind() {
	if !l.canRewind {
		panic("onyxtoken: Rewind without a preceding Next")
	}

	l.stream.Reset(l.lastMark)
	l.canRewind = false
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
		return l.tok(Newline, start, func(t *Token) { t.Text = "\n" }), nil
	case r == ' ' || r == '\t' || r == '\r':
		return l.lexSpace(r, start)
	case r == '/' && l.peekIs('/'):
		return l.lexComment(start)
	case r == '"':
		return l.lexString(start)
	case r == '\\':
		return l.lexLiteralKindMarker(start)
	case r == '$':
		return l.lexPrefixedIdent(start, IdentC)
	case r == '@':
		return l.lexPrefixedIdent(start, IdentIntrinsic)
	case r == ':':
		return l.lexColon(start)
	case r == '`':
		return l.lexBacktickIdent(start, IdentSimple)
	case unicode.IsDigit(r):
		return l.lexNumber(r, start)
	case isIdentStart(r):
		return l.lexWord(r, start)
	case isPunctRune(r):
		return l.lexPunct(r, start)
	case isASCIIOperatorRune(r) || isMathOperator(r):
		return l.lexOperator(r, start)
	default:
		return nil, diag.NewPanic("unexpected character '"+string(r)+"'", l.placement(start, l.stream.Pos()))
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isPunctRune(r rune) bool {
	return strings.ContainsRune("{}(),;.", r)
}

func (l *Lexer) peekIs(want rune) bool {
	mark := l.stream.Mark()
	r, err := l.stream.NextRune()
	l.stream.Reset(mark)

	return err == nil && r == want
}

// lexSpace reads a maximal run of horizontal whitespace starting at
// the already-consumed rune first and emits it as a Space token, so
// that concatenating every token's source slice reproduces the
// original byte stream exactly (§8 Property 1) instead of discarding
// inter-token whitespace.
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

	return l.tok(Space, start, func(t *Token) { t.Text = sb.String() }), nil
}

func (l *Lexer) lexComment(start source.Position) (*Token, error) {
	// Consume the second '/'.
	if _, err := l.stream.NextRune(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	for {
		r, err := l.stream.NextRune()
		if err != nil {
			break
		}

		if r == '\n' {
			l.stream.PrevRune()
			break
		}

		sb.WriteRune(r)
	}

	return l.tok(Comment, start, func(t *Token) { t.Text = strings.TrimSpace(sb.String()) }), nil
}

func (l *Lexer) lexString(start source.Position) (*Token, error) {
	var sb strings.Builder

	for {
		r, err := l.stream.NextRune()
		if err != nil {
			return nil, diag.NewCodedPanic(diag.UnexpectedEOF, "unterminated string literal", l.placement(start, l.stream.Pos()))
		}

		if r == '"' {
			break
		}

		if r == '\\' {
			esc, err := l.stream.NextRune()
			if err != nil {
				return nil, diag.NewCodedPanic(diag.UnexpectedEOF, "unterminated string literal", l.placement(start, l.stream.Pos()))
			}

			sb.WriteRune(unescape(esc))
			continue
		}

		sb.WriteRune(r)
	}

	return l.tok(StringLit, start, func(t *Token) { t.StrVal = sb.String() }), nil
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return r
	}
}

func (l *Lexer) lexNumber(first rune, start source.Position) (*Token, error) {
	var sb strings.Builder
	sb.WriteRune(first)

	for {
		r, err := l.stream.NextRune()
		if err != nil {
			break
		}

		if !unicode.IsDigit(r) {
			l.stream.PrevRune()
			break
		}

		sb.WriteRune(r)
	}

	val, err := strconv.ParseInt(sb.String(), 10, 64)
	if err != nil {
		return nil, diag.NewPanic("invalid numeric literal '"+sb.String()+"'", l.placement(start, l.stream.Pos()))
	}

	return l.tok(IntLit, start, func(t *Token) { t.IntVal = val; t.Text = sb.String() }), nil
}

func (l *Lexer) lexLiteralKindMarker(start source.Position) (*Token, error) {
	var sb strings.Builder

	for {
		r, err := l.stream.NextRune()
		if err != nil {
			break
		}

		if !isIdentCont(r) {
			l.stream.PrevRune()
			break
		}

		sb.WriteRune(r)
	}

	if sb.Len() == 0 {
		return nil, diag.NewPanic("expected a literal-kind name after '\\'", l.placement(start, l.stream.Pos()))
	}

	return l.tok(LiteralKindMarker, start, func(t *Token) { t.LitKind = sb.String() }), nil
}

func (l *Lexer) lexPrefixedIdent(start source.Position, kind IdentKind) (*Token, error) {
	r, err := l.stream.NextRune()
	if err != nil {
		return nil, diag.NewCodedPanic(diag.UnexpectedEOF, "expected an identifier", l.placement(start, l.stream.Pos()))
	}

	if r == '`' {
		return l.lexBacktickIdent(start, kind)
	}

	if !isIdentStart(r) {
		return nil, diag.NewPanic("expected an identifier", l.placement(start, l.stream.Pos()))
	}

	return l.lexWordAs(r, start, kind)
}

// lexColon disambiguates "::" (punctuation), ":foo" (a Symbol
// identifier), and a bare ":" (punctuation, used for type ascription
// and UFCS).
func (l *Lexer) lexColon(start source.Position) (*Token, error) {
	r, err := l.stream.NextRune()
	if err == nil && r == ':' {
		return l.tok(Punct, start, func(t *Token) { t.Text = "::" }), nil
	}

	if err == nil && r == '`' {
		return l.lexBacktickIdent(start, IdentSymbol)
	}

	if err == nil && isIdentStart(r) {
		return l.lexWordAs(r, start, IdentSymbol)
	}

	if err == nil {
		l.stream.PrevRune()
	}

	return l.tok(Punct, start, func(t *Token) { t.Text = ":" }), nil
}

func (l *Lexer) lexBacktickIdent(start source.Position, kind IdentKind) (*Token, error) {
	var sb strings.Builder

	for {
		r, err := l.stream.NextRune()
		if err != nil {
			return nil, diag.NewCodedPanic(diag.UnexpectedEOF, "unterminated backtick identifier", l.placement(start, l.stream.Pos()))
		}

		if r == '`' {
			break
		}

		sb.WriteRune(r)
	}

	return l.tok(Ident, start, func(t *Token) {
		t.Ident = IdentPayload{Kind: kind, Name: sb.String(), Backtick: true}
	}), nil
}

// lexWord reads a plain identifier/keyword word starting at the
// already-consumed rune first, then classifies it: true/false as a
// BoolLit, else a keyword if it is in the closed keyword set, else a
// label if immediately followed by a single ':' (not '::'), else a
// Simple identifier.
func (l *Lexer) lexWord(first rune, start source.Position) (*Token, error) {
	word, err := l.readWord(first)
	if err != nil {
		return nil, err
	}

	if word == "true" || word == "false" {
		return l.tok(BoolLit, start, func(t *Token) { t.BoolVal = word == "true" }), nil
	}

	if isKeyword(word) {
		bang := false
		if canBang(word) && l.peekIs('!') {
			_, _ = l.stream.NextRune()
			bang = true
		}

		return l.tok(Keyword, start, func(t *Token) {
			t.Keyword = KeywordPayload{Word: word, Bang: bang}
		}), nil
	}

	if l.peekLabelColon() {
		return l.tok(Ident, start, func(t *Token) {
			t.Ident = IdentPayload{Kind: IdentLabel, Name: word}
		}), nil
	}

	return l.tok(Ident, start, func(t *Token) {
		t.Ident = IdentPayload{Kind: IdentSimple, Name: word}
	}), nil
}

func (l *Lexer) lexWordAs(first rune, start source.Position, kind IdentKind) (*Token, error) {
	word, err := l.readWord(first)
	if err != nil {
		return nil, err
	}

	return l.tok(Ident, start, func(t *Token) {
		t.Ident = IdentPayload{Kind: kind, Name: word}
	}), nil
}

func (l *Lexer) readWord(first rune) (string, error) {
	var sb strings.Builder
	sb.WriteRune(first)

	for {
		r, err := l.stream.NextRune()
		if err != nil {
			break
		}

		if !isIdentCont(r) {
			l.stream.PrevRune()
			break
		}

		sb.WriteRune(r)
	}

	return sb.String(), nil
}

// peekLabelColon reports, and consumes, a single ':' immediately
// following the current position, as long as it is not the start of
// '::'.
func (l *Lexer) peekLabelColon() bool {
	mark := l.stream.Mark()

	r, err := l.stream.NextRune()
	if err != nil || r != ':' {
		l.stream.Reset(mark)
		return false
	}

	r2, err2 := l.stream.NextRune()
	if err2 == nil && r2 == ':' {
		l.stream.Reset(mark)
		return false
	}

	if err2 == nil {
		l.stream.PrevRune()
	}

	return true
}

func (l *Lexer) lexPunct(first rune, start source.Position) (*Token, error) {
	return l.tok(Punct, start, func(t *Token) { t.Text = string(first) }), nil
}

func (l *Lexer) lexOperator(first rune, start source.Position) (*Token, error) {
	var sb strings.Builder
	sb.WriteRune(first)

	// Greedily extend ASCII comparison/logical operators
	// ("==", "!=", "<=", ">=", "&&", "||", "->") by one more rune when
	// it keeps the run inside the same operator character classes.
	if strings.ContainsRune("=!<>&|", first) {
		r, err := l.stream.NextRune()
		if err == nil {
			if (first == r && strings.ContainsRune("&|", first)) || r == '=' {
				sb.WriteRune(r)
			} else {
				l.stream.PrevRune()
			}
		}
	}

	return l.tok(Op, start, func(t *Token) { t.Text = sb.String() }), nil
}

func (l *Lexer) tok(kind Kind, start source.Position, fill func(*Token)) *Token {
	t := &Token{Kind: kind, Placement: l.placement(start, l.stream.Pos())}
	fill(t)

	return t
}

func (l *Lexer) placement(start, end source.Position) source.Placement {
	return source.NewPlacement(l.unit, source.NewLocation(start, end))
}
