package onyxcst_test

import (
	"strings"
	"testing"

	"github.com/fancysoft-lang/onyxc/onyxcst"
	"github.com/fancysoft-lang/onyxc/source"
)

func parseFile(t *testing.T, src string) *onyxcst.File {
	t.Helper()

	unit := source.NewFileUnitFromReader("test.nx", strings.NewReader(src))

	file, err := onyxcst.NewParser(unit).ParseFile()
	if err != nil {
		t.Fatalf("ParseFile(%q): %v", src, err)
	}

	return file
}

func TestParseImportDefaultForm(t *testing.T) {
	file := parseFile(t, "import Foo from \"pkg\"\n")

	imp, ok := file.Items[0].(*onyxcst.Import)
	if !ok {
		t.Fatalf("item 0 = %T, want *Import", file.Items[0])
	}

	if imp.Star || imp.From != "pkg" {
		t.Fatalf("import = %+v, want a non-star import from pkg", imp)
	}

	if len(imp.Elements) != 1 || imp.Elements[0].Name != "Foo" || imp.Elements[0].Alias != "" {
		t.Errorf("Elements = %+v, want one unaliased Foo", imp.Elements)
	}
}

func TestParseImportStarAsForm(t *testing.T) {
	file := parseFile(t, "import * as Foo from \"pkg\"\n")

	imp, ok := file.Items[0].(*onyxcst.Import)
	if !ok {
		t.Fatalf("item 0 = %T, want *Import", file.Items[0])
	}

	if !imp.Star || imp.StarAs != "Foo" || imp.From != "pkg" {
		t.Errorf("import = %+v, want a star import as Foo from pkg", imp)
	}
}

func TestParseImportBracedForm(t *testing.T) {
	file := parseFile(t, "import { Foo } from \"pkg\"\n")

	imp, ok := file.Items[0].(*onyxcst.Import)
	if !ok {
		t.Fatalf("item 0 = %T, want *Import", file.Items[0])
	}

	if len(imp.Elements) != 1 || imp.Elements[0].Name != "Foo" || imp.Elements[0].Alias != "" {
		t.Errorf("Elements = %+v, want one unaliased Foo", imp.Elements)
	}
}

func TestParseImportBracedAliasedMultiForm(t *testing.T) {
	file := parseFile(t, "import { Foo as Bar, Baz } from \"pkg\"\n")

	imp, ok := file.Items[0].(*onyxcst.Import)
	if !ok {
		t.Fatalf("item 0 = %T, want *Import", file.Items[0])
	}

	if len(imp.Elements) != 2 {
		t.Fatalf("Elements = %+v, want 2", imp.Elements)
	}

	if imp.Elements[0].Name != "Foo" || imp.Elements[0].Alias != "Bar" {
		t.Errorf("Elements[0] = %+v, want Foo as Bar", imp.Elements[0])
	}

	if imp.Elements[1].Name != "Baz" || imp.Elements[1].Alias != "" {
		t.Errorf("Elements[1] = %+v, want unaliased Baz", imp.Elements[1])
	}
}

func TestParseExportWrapsDecl(t *testing.T) {
	file := parseFile(t, "export decl f()\n")

	exp, ok := file.Items[0].(*onyxcst.Export)
	if !ok {
		t.Fatalf("item 0 = %T, want *Export", file.Items[0])
	}

	fd, ok := exp.Decl.(*onyxcst.FuncDecl)
	if !ok {
		t.Fatalf("Decl = %T, want *FuncDecl", exp.Decl)
	}

	if fd.Action != onyxcst.ActionDecl {
		t.Errorf("Action = %v, want ActionDecl", fd.Action)
	}
}

func TestParseBlockBraceStyle(t *testing.T) {
	file := parseFile(t, "def main()\n{\nfinal x: Int32 = 1\n}\n")

	fd, ok := file.Items[0].(*onyxcst.FuncDecl)
	if !ok {
		t.Fatalf("item 0 = %T, want *FuncDecl", file.Items[0])
	}

	if fd.Body.Style != onyxcst.BraceStyle {
		t.Errorf("Style = %v, want BraceStyle", fd.Body.Style)
	}

	if !fd.Body.MultiLine {
		t.Error("expected a brace body spanning multiple lines to be MultiLine")
	}

	if len(fd.Body.Stmts) != 1 {
		t.Errorf("Stmts = %d, want 1", len(fd.Body.Stmts))
	}
}

func TestParseBlockDoEndStyle(t *testing.T) {
	file := parseFile(t, "def main()\ndo\nfinal x: Int32 = 1\nend\n")

	fd, ok := file.Items[0].(*onyxcst.FuncDecl)
	if !ok {
		t.Fatalf("item 0 = %T, want *FuncDecl", file.Items[0])
	}

	if fd.Body.Style != onyxcst.DoEndStyle {
		t.Errorf("Style = %v, want DoEndStyle", fd.Body.Style)
	}

	if !fd.Body.MultiLine {
		t.Error("expected a do/end body to be MultiLine")
	}
}

func TestParseFuncDeclTemplateArgsAndForall(t *testing.T) {
	file := parseFile(t, "def pick<T> forall T: Int32 (a: T): Int32\n{\nreturn a\n}\n")

	fd, ok := file.Items[0].(*onyxcst.FuncDecl)
	if !ok {
		t.Fatalf("item 0 = %T, want *FuncDecl", file.Items[0])
	}

	if len(fd.TemplateArgs) != 1 || fd.TemplateArgs[0].Name != "T" {
		t.Fatalf("TemplateArgs = %+v, want one 'T'", fd.TemplateArgs)
	}

	if len(fd.Forall) != 1 || fd.Forall[0].Name != "T" || fd.Forall[0].Restriction == nil {
		t.Errorf("Forall = %+v, want one restricted 'T'", fd.Forall)
	}
}

func TestParseBuiltinTypeDeclHasNoBody(t *testing.T) {
	file := parseFile(t, "def builtin Int32\n")

	td, ok := file.Items[0].(*onyxcst.TypeDef)
	if !ok {
		t.Fatalf("item 0 = %T, want *TypeDef", file.Items[0])
	}

	if td.Category != "builtin" {
		t.Errorf("Category = %q, want builtin", td.Category)
	}

	if td.Body != nil {
		t.Errorf("Body = %+v, want nil for a builtin type decl", td.Body)
	}
}

func TestParseExternBlockMarksItsUnitParsed(t *testing.T) {
	file := parseFile(t, "extern \"C\" {\nint puts(char *s);\n}\n")

	eb, ok := file.Items[0].(*onyxcst.ExternBlock)
	if !ok {
		t.Fatalf("item 0 = %T, want *ExternBlock", file.Items[0])
	}

	if !eb.Block.Parsed() {
		t.Error("expected the extern block's unit to be marked parsed")
	}

	if len(eb.Decls) != 1 {
		t.Errorf("Decls = %d, want 1", len(eb.Decls))
	}
}
