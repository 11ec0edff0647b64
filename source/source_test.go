package source_test

import (
	"io"
	"strings"
	"testing"

	"github.com/fancysoft-lang/onyxc/source"
)

func TestRuneStreamPrevRuneUnreadsLastRune(t *testing.T) {
	s := source.NewRuneStream(strings.NewReader("ab"))

	r, err := s.NextRune()
	if err != nil || r != 'a' {
		t.Fatalf("NextRune = %q, %v, want 'a', nil", r, err)
	}

	s.PrevRune()

	r, err = s.NextRune()
	if err != nil || r != 'a' {
		t.Fatalf("NextRune after PrevRune = %q, %v, want 'a', nil", r, err)
	}
}

func TestRuneStreamMarkReset(t *testing.T) {
	s := source.NewRuneStream(strings.NewReader("abc"))

	mark := s.Mark()

	if _, err := s.NextRune(); err != nil {
		t.Fatal(err)
	}

	if _, err := s.NextRune(); err != nil {
		t.Fatal(err)
	}

	s.Reset(mark)

	r, err := s.NextRune()
	if err != nil || r != 'a' {
		t.Fatalf("NextRune after Reset = %q, %v, want 'a', nil", r, err)
	}
}

func TestRuneStreamPositionTracksNewlines(t *testing.T) {
	s := source.NewRuneStream(strings.NewReader("a\nb"))

	if _, err := s.NextRune(); err != nil {
		t.Fatal(err)
	}

	if _, err := s.NextRune(); err != nil { // consumes '\n'
		t.Fatal(err)
	}

	pos := s.Pos()
	if pos.Row != 1 || pos.Col != 0 {
		t.Errorf("pos after newline = %+v, want {1 0}", pos)
	}
}

func TestRuneStreamEOF(t *testing.T) {
	s := source.NewRuneStream(strings.NewReader(""))

	if _, err := s.NextRune(); err != io.EOF {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestPositionLess(t *testing.T) {
	a := source.Position{Row: 0, Col: 5}
	b := source.Position{Row: 1, Col: 0}

	if !a.Less(b) {
		t.Error("expected row 0 to sort before row 1")
	}

	if b.Less(a) {
		t.Error("expected row 1 not to sort before row 0")
	}
}

func TestLocationJoinSpansBoth(t *testing.T) {
	a := source.NewLocation(source.Position{Row: 0, Col: 0}, source.Position{Row: 0, Col: 3})
	b := source.NewLocation(source.Position{Row: 0, Col: 5}, source.Position{Row: 0, Col: 8})

	joined := source.Join(a, b)

	if joined.Start != a.Start {
		t.Errorf("joined start = %+v, want %+v", joined.Start, a.Start)
	}

	if joined.EndOrStart() != *b.End {
		t.Errorf("joined end = %+v, want %+v", joined.EndOrStart(), *b.End)
	}
}

func TestNewLocationPanicsWhenEndPrecedesStart(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic when end precedes start")
		}
	}()

	source.NewLocation(source.Position{Row: 1, Col: 0}, source.Position{Row: 0, Col: 0})
}

func TestFileUnitParsedLifecycle(t *testing.T) {
	u := source.NewFileUnitFromReader("test.nx", strings.NewReader("let x = 1\n"))

	if u.Parsed() {
		t.Fatal("a fresh unit must not report Parsed before anything marks it")
	}

	u.MarkParsed()

	if !u.Parsed() {
		t.Error("expected Parsed to report true after MarkParsed")
	}

	if had := u.Unparse(); !had {
		t.Error("expected Unparse to report that the unit had been parsed")
	}

	if u.Parsed() {
		t.Error("expected Parsed to report false after Unparse")
	}
}

func TestBlockUnitBorrowsParentStream(t *testing.T) {
	parent := source.NewFileUnitFromReader("test.nx", strings.NewReader("extern content"))
	block := source.NewBlockUnit("extern", parent, source.Position{Row: 0, Col: 7})

	if block.Stream() != parent.Stream() {
		t.Error("expected a block unit to share its parent's RuneStream")
	}

	if block.Parent() != source.Unit(parent) {
		t.Error("expected Parent to return the unit the block borrows from")
	}

	block.MarkParsed()

	if !block.Parsed() {
		t.Error("expected Parsed to report true after MarkParsed")
	}
}

func TestPlacementPathResolvesThroughBlockAncestry(t *testing.T) {
	parent := source.NewFileUnitFromReader("test.nx", strings.NewReader("extern \"C\" {}"))
	block := source.NewBlockUnit("extern", parent, source.Position{Row: 0, Col: 12})

	pl := source.NewPlacement(block, source.Point(source.Position{Row: 0, Col: 1}))

	path := pl.Path()
	if len(path) != 2 {
		t.Fatalf("path length = %d, want 2 (file, then block)", len(path))
	}

	if path[0].Unit != source.Unit(parent) {
		t.Errorf("outermost placement unit = %v, want the parent file unit", path[0].Unit)
	}

	if path[1].Unit != source.Unit(block) {
		t.Errorf("innermost placement unit = %v, want the block unit", path[1].Unit)
	}
}
