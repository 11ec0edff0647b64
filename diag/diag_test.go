package diag_test

import (
	"strings"
	"testing"

	"github.com/fancysoft-lang/onyxc/diag"
	"github.com/fancysoft-lang/onyxc/source"
)

func placement(unit source.Unit, row, col int) source.Placement {
	return source.NewPlacement(unit, source.Point(source.Position{Row: row, Col: col}))
}

func TestNewPanicHasNoCode(t *testing.T) {
	unit := source.NewFileUnitFromReader("test.nx", strings.NewReader("x\n"))
	p := diag.NewPanic("calling a C function requires unsafe!", placement(unit, 0, 0))

	if p.Code != "" {
		t.Errorf("Code = %q, want empty for an ad-hoc panic", p.Code)
	}

	if p.Error() != p.Message {
		t.Errorf("Error() = %q, want the bare message when there's no code", p.Error())
	}
}

func TestNewCodedPanicPrefixesCode(t *testing.T) {
	unit := source.NewFileUnitFromReader("test.nx", strings.NewReader("x\n"))
	p := diag.NewCodedPanic(diag.AlreadyDeclared, "'f' is already declared", placement(unit, 0, 0))

	want := "P0003: 'f' is already declared"
	if p.Error() != want {
		t.Errorf("Error() = %q, want %q", p.Error(), want)
	}
}

func TestWithNoteAppends(t *testing.T) {
	unit := source.NewFileUnitFromReader("test.nx", strings.NewReader("x\n"))
	p := diag.NewCodedPanic(diag.AlreadyDeclared, "'f' is already declared", placement(unit, 1, 0)).
		WithNote("previous declaration here", placement(unit, 0, 0))

	if len(p.Notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(p.Notes))
	}

	if p.Notes[0].Message != "previous declaration here" {
		t.Errorf("note message = %q", p.Notes[0].Message)
	}
}

func TestInternalInvariantError(t *testing.T) {
	err := diag.NewInternalInvariant("unreachable lowering branch")

	if !strings.Contains(err.Error(), "unreachable lowering branch") {
		t.Errorf("Error() = %q, want it to contain the message", err.Error())
	}
}

func TestUnimplementedError(t *testing.T) {
	err := diag.NewUnimplemented("generic type specialization", "lower.go", 42)

	got := err.Error()
	if !strings.Contains(got, "lower.go:42") {
		t.Errorf("Error() = %q, want it to name the raising file:line", got)
	}
}

func TestExplainPanicRendersPrimaryAndNotes(t *testing.T) {
	unit := source.NewFileUnitFromReader("test.nx", strings.NewReader("def f()\ndef f()\n"))
	p := diag.NewCodedPanic(diag.AlreadyDeclared, "'f' is already declared", placement(unit, 1, 4)).
		WithNote("previous declaration here", placement(unit, 0, 4))

	lines := func(name string) []string {
		if name != "test.nx" {
			return nil
		}

		return []string{"def f()", "def f()"}
	}

	out := diag.Explain(p, lines)

	if !strings.Contains(out, "P0003") {
		t.Errorf("expected the rendered output to contain the code, got %q", out)
	}

	if !strings.Contains(out, "previous declaration here") {
		t.Errorf("expected the rendered output to contain the note, got %q", out)
	}

	if strings.Count(out, "^") != 2 {
		t.Errorf("expected one caret per placement (primary + note), got %q", out)
	}
}

func TestExplainUnimplemented(t *testing.T) {
	err := diag.NewUnimplemented("generics", "lower.go", 10)

	out := diag.Explain(err, func(string) []string { return nil })
	if !strings.Contains(out, "lower.go:10") {
		t.Errorf("Explain(Unimplemented) = %q, want it to name the file:line", out)
	}
}
