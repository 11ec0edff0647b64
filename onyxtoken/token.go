// Package onyxtoken lexes Onyx source into a stream of tokens. It is
// UTF-8 aware, pull-based (one token produced per Next call), and
// supports the single-token rewind the Onyx parser needs to hand a
// shared byte stream off to the C sub-lexer at an extern directive
// (spec §4.3, §4.4, §5).
package onyxtoken

import "github.com/fancysoft-lang/onyxc/source"

// Kind identifies a token's syntactic category.
type Kind int

const (
	Comment Kind = iota
	Keyword
	Ident
	Punct
	Op
	IntLit
	StringLit
	BoolLit
	LiteralKindMarker // e.g. "\Bool", "\uint"
	Newline
	Space // a run of horizontal whitespace (spaces, tabs, carriage returns)
	EOF
)

func (k Kind) String() string {
	switch k {
	case Comment:
		return "Comment"
	case Keyword:
		return "Keyword"
	case Ident:
		return "Ident"
	case Punct:
		return "Punct"
	case Op:
		return "Op"
	case IntLit:
		return "IntLit"
	case StringLit:
		return "StringLit"
	case BoolLit:
		return "BoolLit"
	case LiteralKindMarker:
		return "LiteralKindMarker"
	case Newline:
		return "Newline"
	case Space:
		return "Space"
	case EOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// IdentKind is the five-way classification of identifiers from §4.3.
type IdentKind int

const (
	IdentSimple    IdentKind = iota
	IdentC                   // $foo — references a C declaration
	IdentIntrinsic           // @foo — a compiler intrinsic
	IdentLabel               // foo: — a keyword-argument label
	IdentSymbol              // :foo — a bare symbol literal
)

func (k IdentKind) String() string {
	switch k {
	case IdentSimple:
		return "Simple"
	case IdentC:
		return "C"
	case IdentIntrinsic:
		return "Intrinsic"
	case IdentLabel:
		return "Label"
	case IdentSymbol:
		return "Symbol"
	default:
		return "Unknown"
	}
}

// IdentPayload is the Token.Ident payload: an identifier's kind,
// name, and whether it was written backtick-wrapped (which allows
// arbitrary code points other than the backtick itself).
type IdentPayload struct {
	Kind     IdentKind
	Name     string
	Backtick bool
}

// KeywordPayload is the Token.Keyword payload: the closed keyword and
// whether it carries a trailing "!" (the "-bang" modifier variants
// from §4.3, e.g. "unsafe!").
type KeywordPayload struct {
	Word string
	Bang bool
}

// Token is a single lexed Onyx token, immutable once produced. Exactly
// one of the Kind-specific payload fields is meaningful, selected by
// Kind — this is Go's idiomatic stand-in for the tagged-union payload
// spec §3 describes.
type Token struct {
	Kind      Kind
	Placement source.Placement

	Text     string // source text for Punct/Op/Newline/Space/IntLit; a Comment's trimmed text after "//"
	Ident    IdentPayload
	Keyword  KeywordPayload
	IntVal   int64
	StrVal   string
	BoolVal  bool
	LitKind  string // text following the backslash of a LiteralKindMarker
}
