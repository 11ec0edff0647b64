package program_test

import (
	"io"
	"strings"
	"testing"

	"github.com/fancysoft-lang/onyxc/diag"
	"github.com/fancysoft-lang/onyxc/onyxmlir"
	"github.com/fancysoft-lang/onyxc/program"
)

func compile(t *testing.T, files map[string]string, entry string) *program.Result {
	t.Helper()

	readers := make(map[string]io.Reader, len(files))
	for name, src := range files {
		readers[name] = strings.NewReader(src)
	}

	res, err := program.New(program.Options{Files: readers, Entry: entry}).Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	return res
}

func TestScenarioS1_SimpleLet(t *testing.T) {
	res := compile(t, map[string]string{"a.nx": "let x = 42\n"}, "a.nx")

	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}

	if _, ok := res.Entry.Superdecl["x"]; !ok {
		t.Fatal("expected a root-scope superdecl 'x'")
	}
}

func TestScenarioS2_MultiFunctionUnit(t *testing.T) {
	src := "def a()\n{\n}\ndef b()\n{\na()\n}\n"
	res := compile(t, map[string]string{"a.nx": src}, "a.nx")

	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}

	if _, ok := res.Module.Functions[onyxmlir.NewSpecKey("a")]; !ok {
		t.Error("expected 'a' to lower")
	}

	if _, ok := res.Module.Functions[onyxmlir.NewSpecKey("b")]; !ok {
		t.Error("expected 'b' to lower")
	}
}

func TestScenarioS3_SelfRecursion(t *testing.T) {
	src := "def fib(n: Int32): Int32\n{\nif n <= 1 {\nreturn n\n}\nreturn fib(n) + fib(n)\n}\n"
	res := compile(t, map[string]string{"a.nx": src}, "a.nx")

	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}

	fs, ok := res.Module.Functions[onyxmlir.NewSpecKey("fib")]
	if !ok {
		t.Fatal("expected fib to lower")
	}

	if len(fs.Body.Stmts) != 2 {
		t.Fatalf("fib body stmts = %d, want 2", len(fs.Body.Stmts))
	}
}

func TestDeclThenDefSameCategoryMerges(t *testing.T) {
	src := "decl struct Foo\ndef struct Foo\n{\n}\n"
	res := compile(t, map[string]string{"a.nx": src}, "a.nx")

	if len(res.Diagnostics) != 0 {
		t.Fatalf("expected decl+def of the same category to merge cleanly, got: %v", res.Diagnostics)
	}
}

func TestScenarioS5_BuiltinVsStructCategoryMismatch(t *testing.T) {
	src := "decl struct Foo\ndef builtin Foo\n"
	res := compile(t, map[string]string{"a.nx": src}, "a.nx")

	if len(res.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %d, want 1: %v", len(res.Diagnostics), res.Diagnostics)
	}

	p, ok := res.Diagnostics[0].(*diag.Panic)
	if !ok {
		t.Fatalf("diagnostic type = %T, want *diag.Panic", res.Diagnostics[0])
	}

	if p.Code != diag.DeclarationCategoryMismatch {
		t.Errorf("code = %q, want %q", p.Code, diag.DeclarationCategoryMismatch)
	}

	if len(p.Notes) != 1 {
		t.Fatalf("notes = %d, want 1 (pointing at the original struct keyword)", len(p.Notes))
	}
}

func TestScenarioS4_ExternCallRequiresUnsafe(t *testing.T) {
	src := "extern \"C\" {\nint puts(char *s);\n}\ndef main()\n{\nunsafe {\n$puts(\"hi\")\n}\n}\n"
	res := compile(t, map[string]string{"a.nx": src}, "a.nx")

	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics for a call inside unsafe!: %v", res.Diagnostics)
	}

	main, ok := res.Module.Functions[onyxmlir.NewSpecKey("main")]
	if !ok {
		t.Fatal("expected 'main' to lower")
	}

	block, ok := main.Body.Stmts[0].(*onyxmlir.Block)
	if !ok || block.Safety != onyxmlir.Unsafe {
		t.Fatalf("stmt 0 = %#v, want an Unsafe block", main.Body.Stmts[0])
	}

	if _, ok := block.Stmts[0].(*onyxmlir.Call); !ok {
		t.Fatalf("block stmt 0 = %T, want *onyxmlir.Call", block.Stmts[0])
	}
}

func TestScenarioS4_ExternCallOutsideUnsafeRejected(t *testing.T) {
	src := "extern \"C\" {\nint puts(char *s);\n}\ndef main()\n{\n$puts(\"hi\")\n}\n"
	res := compile(t, map[string]string{"a.nx": src}, "a.nx")

	if len(res.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %d, want 1: %v", len(res.Diagnostics), res.Diagnostics)
	}

	p, ok := res.Diagnostics[0].(*diag.Panic)
	if !ok {
		t.Fatalf("diagnostic type = %T, want *diag.Panic", res.Diagnostics[0])
	}

	if p.Code != "" {
		t.Errorf("code = %q, want an uncoded safety panic", p.Code)
	}
}

func TestScenarioS6_ImportAlias(t *testing.T) {
	files := map[string]string{
		"m.nx": "export def A()\n{\n}\n",
		"x.nx": "import { A as B } from \"./m.nx\"\n",
	}

	res := compile(t, files, "x.nx")

	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}

	if _, ok := res.Entry.Superdecl["B"]; !ok {
		t.Error("expected import alias 'B' to resolve to m.nx's 'A'")
	}

	if _, ok := res.Entry.Superdecl["A"]; ok {
		t.Error("expected bare 'A' to remain undeclared in the importing file")
	}
}

func TestCompileMissingEntry(t *testing.T) {
	_, err := program.New(program.Options{
		Files: map[string]io.Reader{"a.nx": strings.NewReader("let x = 1\n")},
		Entry: "missing.nx",
	}).Compile()
	if err == nil {
		t.Fatal("expected an error for a missing entry unit")
	}
}
