// Package ctoken lexes embedded C prototype syntax: the restricted
// grammar allowed inside an Onyx extern "C" { ... } block (types,
// pointer depth, ordered args, optional trailing varargs). The lexer
// shares its byte stream with the Onyx lexer via source.BlockUnit, so
// it is a coroutine-style pull iterator exactly like onyxtoken.Lexer:
// one token produced per Next call, panic stored rather than thrown.
package ctoken

import "github.com/fancysoft-lang/onyxc/source"

// Kind identifies the syntactic category of a C token.
type Kind int

const (
	Newline Kind = iota
	Space
	Comma
	Semi
	OpenParen
	CloseParen
	Varg // "..."
	Op   // one of "= ~ + - & * % ^ /"
	Ident
	EOF
)

func (k Kind) String() string {
	switch k {
	case Newline:
		return "Newline"
	case Space:
		return "Space"
	case Comma:
		return "Comma"
	case Semi:
		return "Semi"
	case OpenParen:
		return "OpenParen"
	case CloseParen:
		return "CloseParen"
	case Varg:
		return "Varg"
	case Op:
		return "Op"
	case Ident:
		return "Ident"
	case EOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Token is a single lexed C token. Text holds the normalized slice the
// token was lexed from (identifiers have runs of whitespace collapsed
// to a single space, e.g. "unsigned   int" -> "unsigned int"); Op
// additionally holds the operator rune in Text.
type Token struct {
	Kind      Kind
	Text      string
	Placement source.Placement
}

// Ops is the small closed operator set the C sub-grammar accepts.
const Ops = "=~+-&*%^/"
