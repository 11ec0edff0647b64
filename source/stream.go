package source

import (
	"bufio"
	"io"
)

// RuneStream is the single physical cursor over a Unit's bytes. A file
// unit owns one; a block unit borrows its parent's. Because both the C
// and Onyx lexers read through the same *RuneStream when one delegates
// to the other for an extern block, the "Onyx lexer's cursor lands
// exactly where the C parser stopped" guarantee from spec §4.4/§5 falls
// out of sharing this object rather than requiring an explicit byte-
// offset resync step.
//
// Runes already read remain in buf until Discard trims them, so any
// number of prior runes can be unread with PrevRune as long as they
// have not been discarded — this is what lets a lexer implement a
// one-token rewind without the underlying bufio.Reader supporting more
// than single-byte unread.
type RuneStream struct {
	r      *bufio.Reader
	buf    []runeAt
	bufPos int
	pos    Position // position of the rune NextRune would return next
}

// runeAt pairs a buffered rune with the position it was read from,
// i.e. the position immediately before that rune was consumed.
type runeAt struct {
	r   rune
	pos Position
}

// NewRuneStream wraps r as a fresh stream starting at row 0, col 0.
func NewRuneStream(r io.Reader) *RuneStream {
	return &RuneStream{r: bufio.NewReader(r)}
}

// Pos returns the position of the rune that NextRune would return next.
func (s *RuneStream) Pos() Position {
	return s.pos
}

// Mark returns an opaque cursor that Reset can rewind to, as long as
// the runes between mark and the current position are still buffered
// (i.e. Discard has not been called past mark).
func (s *RuneStream) Mark() int {
	return s.bufPos
}

// Reset rewinds the stream to a previously returned Mark.
func (s *RuneStream) Reset(mark int) {
	s.bufPos = mark

	if mark < len(s.buf) {
		s.pos = s.buf[mark].pos
	}
	// mark == len(s.buf) means "rewind to the live edge", where s.pos is
	// already correct.
}

// NextRune reads the next rune, advancing the cursor. Returns io.EOF at
// end of stream.
func (s *RuneStream) NextRune() (rune, error) {
	if s.bufPos < len(s.buf) {
		ra := s.buf[s.bufPos]
		s.bufPos++
		s.advance(ra)

		return ra.r, nil
	}

	r, _, err := s.r.ReadRune()
	if err != nil {
		return 0, err
	}

	ra := runeAt{r: r, pos: s.pos}
	s.buf = append(s.buf, ra)
	s.bufPos++
	s.advance(ra)

	return r, nil
}

func (s *RuneStream) advance(ra runeAt) {
	if ra.r == '\n' {
		s.pos = Position{Row: ra.pos.Row + 1, Col: 0}
	} else {
		s.pos = Position{Row: ra.pos.Row, Col: ra.pos.Col + 1}
	}
}

// PrevRune unreads the most recently returned rune. It panics if called
// with nothing left to unread, which would indicate a lexer bug
// (unbalanced NextRune/PrevRune calls), not a user-facing error.
func (s *RuneStream) PrevRune() {
	if s.bufPos == 0 {
		panic("source: PrevRune with nothing buffered")
	}

	s.bufPos--
	s.pos = s.buf[s.bufPos].pos
}

// Discard drops buffered runes before mark that will never be unread
// again, bounding memory on long units. It is safe to call with
// mark <= 0 (a no-op).
func (s *RuneStream) Discard(mark int) {
	if mark <= 0 || mark > len(s.buf) {
		return
	}

	s.buf = append([]runeAt{}, s.buf[mark:]...)
	s.bufPos -= mark
}
