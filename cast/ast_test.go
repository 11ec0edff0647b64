package cast_test

import (
	"strings"
	"testing"

	"github.com/fancysoft-lang/onyxc/cast"
	"github.com/fancysoft-lang/onyxc/ccst"
	"github.com/fancysoft-lang/onyxc/source"
)

func placement(unit source.Unit, row int) source.Placement {
	return source.NewPlacement(unit, source.Point(source.Position{Row: row}))
}

func puts(unit source.Unit, row int) *ccst.FuncDecl {
	return &ccst.FuncDecl{
		Placement:  placement(unit, row),
		ReturnType: ccst.TypeRef{Name: "int"},
		Name:       "puts",
		Args:       []*ccst.Arg{{Type: ccst.TypeRef{Name: "char", PointerDepth: 1}, Name: "s"}},
	}
}

func TestIndexDeclareThenLookup(t *testing.T) {
	idx := cast.NewIndex()
	unit := source.NewFileUnitFromReader("test.nx", strings.NewReader(""))

	if err := idx.Declare(puts(unit, 0)); err != nil {
		t.Fatalf("Declare: %v", err)
	}

	d, ok := idx.Lookup("puts")
	if !ok {
		t.Fatal("expected 'puts' to be found")
	}

	if d.Name != "puts" {
		t.Errorf("Name = %q, want puts", d.Name)
	}
}

func TestIndexLookupMissing(t *testing.T) {
	idx := cast.NewIndex()

	if _, ok := idx.Lookup("nonexistent"); ok {
		t.Error("expected Lookup to report false for an undeclared name")
	}
}

func TestIndexRedeclareSameSignatureIsNoop(t *testing.T) {
	idx := cast.NewIndex()
	unit := source.NewFileUnitFromReader("test.nx", strings.NewReader(""))

	if err := idx.Declare(puts(unit, 0)); err != nil {
		t.Fatalf("first Declare: %v", err)
	}

	if err := idx.Declare(puts(unit, 1)); err != nil {
		t.Errorf("re-declaring an equivalent signature should be a no-op, got %v", err)
	}
}

func TestIndexRedeclareDifferentSignatureConflicts(t *testing.T) {
	idx := cast.NewIndex()
	unit := source.NewFileUnitFromReader("test.nx", strings.NewReader(""))

	if err := idx.Declare(puts(unit, 0)); err != nil {
		t.Fatalf("first Declare: %v", err)
	}

	other := &ccst.FuncDecl{
		Placement:  placement(unit, 1),
		ReturnType: ccst.TypeRef{Name: "void"},
		Name:       "puts",
	}

	err := idx.Declare(other)
	if err == nil {
		t.Fatal("expected a conflict when redeclaring 'puts' with a different signature")
	}

	if !strings.Contains(err.Error(), "puts") {
		t.Errorf("error message = %q, want it to name 'puts'", err.Error())
	}
}
