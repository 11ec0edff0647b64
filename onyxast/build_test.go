package onyxast_test

import (
	"strings"
	"testing"

	"github.com/fancysoft-lang/onyxc/onyxast"
	"github.com/fancysoft-lang/onyxc/onyxcst"
	"github.com/fancysoft-lang/onyxc/source"
)

func parse(t *testing.T, src string) *onyxcst.File {
	t.Helper()

	unit := source.NewFileUnitFromReader("test.nx", strings.NewReader(src))

	file, err := onyxcst.NewParser(unit).ParseFile()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	return file
}

func TestBuildSimpleFunc(t *testing.T) {
	file := parse(t, "def main()\n{\n}\n")

	scope, errs := onyxast.Build(file)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	sd, ok := scope.Superdecl["main"]
	if !ok {
		t.Fatal("expected a 'main' superdecl")
	}

	if sd.Category != onyxast.CategoryFunc {
		t.Errorf("category = %v, want func", sd.Category)
	}
}

func TestBuildDuplicateDecl(t *testing.T) {
	file := parse(t, "decl f()\ndecl f()\n")

	_, errs := onyxast.Build(file)
	if len(errs) != 1 {
		t.Fatalf("errs = %d, want 1", len(errs))
	}
}

func TestBuildCategoryMismatch(t *testing.T) {
	file := parse(t, "let f = 1\ndef f()\n{\n}\n")

	_, errs := onyxast.Build(file)
	if len(errs) != 1 {
		t.Fatalf("errs = %d, want 1", len(errs))
	}
}

func TestBuildExportUnion(t *testing.T) {
	file := parse(t, "export decl f()\nimpl f()\n{\n}\n")

	scope, errs := onyxast.Build(file)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	sd := scope.Superdecl["f"]
	if !sd.Exported() {
		t.Error("expected f to be exported via its decl contributor")
	}
}

func TestBuildStructMember(t *testing.T) {
	file := parse(t, "def struct Point {\ndef length(): Int32\n{\nreturn 0\n}\n}\n")

	scope, errs := onyxast.Build(file)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	point, ok := scope.Superdecl["Point"]
	if !ok {
		t.Fatal("expected a 'Point' superdecl")
	}

	if point.Scope == nil {
		t.Fatal("expected Point to have a member scope")
	}

	if _, ok := point.Scope.Superdecl["length"]; !ok {
		t.Error("expected Point.length to be declared in Point's scope")
	}
}

func TestResolveQueryUndeclared(t *testing.T) {
	file := parse(t, "def main()\n{\n}\n")

	scope, errs := onyxast.Build(file)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	unresolved := onyxcst.NewIDQuery(
		source.NewPlacement(file.Placement().Unit, source.Point(source.Position{})),
		[]*onyxcst.IDElement{{}},
	)
	unresolved.Elements[0].Name = "nonexistent"

	if _, err := onyxast.ResolveQuery(scope, unresolved); err == nil {
		t.Error("expected an undeclared-reference error")
	}
}
