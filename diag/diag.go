// Package diag implements the three diagnostic kinds that cross the
// core's public boundaries: Panic (recoverable user error), Unimplemented
// (a named missing code path) and InternalInvariant (a bug, must never
// fire in production). It also renders them for a terminal, caret-and-
// notes style, the way the teacher's token.PosError does.
package diag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fancysoft-lang/onyxc/source"
)

// Code is a stable, user-visible diagnostic id such as "P0001".
type Code string

const (
	DeclarationCategoryMismatch Code = "P0001"
	UndeclaredReference         Code = "P0002"
	AlreadyDeclared             Code = "P0003"
	UnexpectedEOF               Code = "P0004"
)

// Note attaches a secondary message and placement to a Panic, e.g.
// pointing at the original conflicting declaration.
type Note struct {
	Message   string
	Placement *source.Placement
}

// Panic is a recoverable diagnostic: the compiler emits it and may
// continue at the next top-level item. It always carries a primary
// placement plus zero or more notes.
type Panic struct {
	Code    Code
	Message string
	Primary source.Placement
	Notes   []Note
}

// NewPanic constructs a Panic with no Code (an ad-hoc syntax error,
// not one of the stable P-series diagnostics).
func NewPanic(msg string, primary source.Placement, notes ...Note) *Panic {
	return &Panic{Message: msg, Primary: primary, Notes: notes}
}

// NewCodedPanic constructs a Panic carrying one of the stable codes
// from §4.5 (P0001..P0004).
func NewCodedPanic(code Code, msg string, primary source.Placement, notes ...Note) *Panic {
	return &Panic{Code: code, Message: msg, Primary: primary, Notes: notes}
}

func (p *Panic) Error() string {
	if p.Code != "" {
		return string(p.Code) + ": " + p.Message
	}

	return p.Message
}

// WithNote appends a note and returns p, for fluent construction at
// the call site that already holds both placements.
func (p *Panic) WithNote(msg string, placement source.Placement) *Panic {
	p.Notes = append(p.Notes, Note{Message: msg, Placement: &placement})
	return p
}

// Unimplemented marks a code path that remains unwritten. It names the
// file:line of the Go source that raised it, distinct from any Onyx
// source placement, so it never pretends the input program is
// ill-formed.
type Unimplemented struct {
	Message string
	File    string
	Line    int
}

func NewUnimplemented(msg, file string, line int) *Unimplemented {
	return &Unimplemented{Message: msg, File: file, Line: line}
}

func (u *Unimplemented) Error() string {
	return fmt.Sprintf("unimplemented: %s (%s:%d)", u.Message, u.File, u.Line)
}

// InternalInvariant indicates a bug in the compiler itself. Helpers may
// construct and return it early, but it must never surface from a
// correctly-operating binary.
type InternalInvariant struct {
	Message string
}

func NewInternalInvariant(msg string) *InternalInvariant {
	return &InternalInvariant{Message: msg}
}

func (i *InternalInvariant) Error() string {
	return "internal invariant violated: " + i.Message
}

// LinkerFailure wraps an external linker process's captured output.
// The core never invokes a linker; this kind exists so that a driver
// shell built on this package's diagnostic model can report one
// uniformly.
type LinkerFailure struct {
	Output string
}

func NewLinkerFailure(output string) *LinkerFailure {
	return &LinkerFailure{Output: output}
}

func (l *LinkerFailure) Error() string {
	return "linker failed:\n" + l.Output
}

// Explain renders a one-line "message and code" header, a caret-
// annotated excerpt per placement (primary first, then notes in
// order), and one bullet per note — no stack traces, matching §7's
// user-visible output contract. lines supplies the source text of each
// unit referenced by a placement, keyed by Unit.Name(); a missing
// entry degrades to an empty excerpt rather than failing.
func Explain(err error, lines func(unitName string) []string) string {
	if p, ok := err.(*Panic); ok {
		return explainPanic(p, lines)
	}

	if u, ok := err.(*Unimplemented); ok {
		return fmt.Sprintf("error: %s\n  --> %s:%d\n", u.Error(), u.File, u.Line)
	}

	return "error: " + err.Error()
}

func explainPanic(p *Panic, lines func(string) []string) string {
	sb := &strings.Builder{}
	sb.WriteString("error: ")
	sb.WriteString(p.Error())
	sb.WriteString("\n")

	details := append([]placementDetail{{msg: p.Message, pl: p.Primary}}, notesToDetails(p.Notes)...)

	indent := 0
	for _, d := range details {
		if l := len(strconv.Itoa(d.pl.Location.Start.Row)); l > indent {
			indent = l
		}
	}

	for i, d := range details {
		writeExcerpt(sb, d, lines, indent)

		if i < len(details)-1 {
			sb.WriteString(strings.Repeat(" ", indent))
			sb.WriteString("...\n")
		}
	}

	for _, n := range p.Notes {
		sb.WriteString("  - " + n.Message + "\n")
	}

	return sb.String()
}

type placementDetail struct {
	msg string
	pl  source.Placement
}

func notesToDetails(notes []Note) []placementDetail {
	out := make([]placementDetail, 0, len(notes))

	for _, n := range notes {
		// A note without a placement has no excerpt; it still gets its
		// bullet in explainPanic.
		if n.Placement == nil {
			continue
		}

		out = append(out, placementDetail{msg: n.Message, pl: *n.Placement})
	}

	return out
}

func writeExcerpt(sb *strings.Builder, d placementDetail, lines func(string) []string, indent int) {
	sb.WriteString(d.pl.String())
	sb.WriteString("\n")

	src := lines(d.pl.Unit.Name())
	row := d.pl.Location.Start.Row

	var text string
	if row >= 0 && row < len(src) {
		text = src[row]
	}

	pad := strings.Repeat(" ", indent)
	sb.WriteString(pad + " |\n")
	sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"d |%s\n", row, text))
	sb.WriteString(pad + " |")

	col := d.pl.Location.Start.Col
	sb.WriteString(strings.Repeat(" ", col))

	width := 1
	if end := d.pl.Location.End; end != nil && end.Col > col {
		width = end.Col - col
	}

	sb.WriteString(strings.Repeat("^", width))
	sb.WriteString(" " + d.msg + "\n")
}
