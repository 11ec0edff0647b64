package onyxmlir_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fancysoft-lang/onyxc/onyxast"
	"github.com/fancysoft-lang/onyxc/onyxcst"
	"github.com/fancysoft-lang/onyxc/onyxmlir"
	"github.com/fancysoft-lang/onyxc/source"
)

func lower(t *testing.T, src string) *onyxmlir.Module {
	t.Helper()

	unit := source.NewFileUnitFromReader("test.nx", strings.NewReader(src))

	file, err := onyxcst.NewParser(unit).ParseFile()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	scope, errs := onyxast.Build(file)
	if len(errs) != 0 {
		t.Fatalf("build: %v", errs)
	}

	mod, errs := onyxmlir.Lower(scope)
	if len(errs) != 0 {
		t.Fatalf("lower: %v", errs)
	}

	return mod
}

func TestLowerSimpleFunc(t *testing.T) {
	mod := lower(t, "def add(a: Int32, b: Int32): Int32\n{\nreturn a + b\n}\n")

	fs, ok := mod.Functions[onyxmlir.NewSpecKey("add")]
	if !ok {
		t.Fatal("expected a lowered 'add' function")
	}

	if len(fs.Params) != 2 {
		t.Fatalf("params = %d, want 2", len(fs.Params))
	}

	if fs.ReturnType != "Int32" {
		t.Errorf("return type = %q, want Int32", fs.ReturnType)
	}

	if len(fs.Body.Stmts) != 1 {
		t.Fatalf("body stmts = %d, want 1", len(fs.Body.Stmts))
	}

	ret, ok := fs.Body.Stmts[0].(*onyxmlir.Return)
	if !ok {
		t.Fatalf("stmt = %T, want *Return", fs.Body.Stmts[0])
	}

	if _, ok := ret.Value.(*onyxmlir.BinOp); !ok {
		t.Errorf("return value = %T, want *BinOp", ret.Value)
	}
}

func TestLowerIntLiteralInference(t *testing.T) {
	mod := lower(t, "def main()\n{\nlet x = 1\nlet y = 9999999999\n}\n")

	main, ok := mod.Functions[onyxmlir.NewSpecKey("main")]
	if !ok {
		t.Fatal("expected a lowered 'main' function")
	}

	x, ok := main.Body.Stmts[0].(*onyxmlir.VarDecl)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *VarDecl", main.Body.Stmts[0])
	}

	if x.Type() != "Int32" {
		t.Errorf("x type = %q, want Int32", x.Type())
	}

	y, ok := main.Body.Stmts[1].(*onyxmlir.VarDecl)
	if !ok {
		t.Fatalf("stmt 1 = %T, want *VarDecl", main.Body.Stmts[1])
	}

	if y.Type() != "Int64" {
		t.Errorf("y type = %q, want Int64", y.Type())
	}
}

func TestLowerImplicitMainDefaultsThreadsafe(t *testing.T) {
	mod := lower(t, "let x = 1\n")

	if mod.Main.Safety != onyxmlir.Threadsafe {
		t.Errorf("implicit main safety = %v, want Threadsafe", mod.Main.Safety)
	}
}

func TestLowerSwitchBecomesIfChain(t *testing.T) {
	mod := lower(t, "def classify(n: Int32): Int32\n{\nswitch n {\ncase 1\nreturn 1\ncase 2\nreturn 2\ndefault\nreturn 0\n}\n}\n")

	fs := mod.Functions[onyxmlir.NewSpecKey("classify")]

	top, ok := fs.Body.Stmts[0].(*onyxmlir.If)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *If", fs.Body.Stmts[0])
	}

	if top.Else == nil || len(top.Else.Stmts) != 1 {
		t.Fatal("expected the first case's else branch to hold the next case's If")
	}

	if _, ok := top.Else.Stmts[0].(*onyxmlir.If); !ok {
		t.Errorf("nested else stmt = %T, want *If", top.Else.Stmts[0])
	}
}

func TestLowerSafetyStmtNarrowsScope(t *testing.T) {
	mod := lower(t, "def main()\n{\nunsafe {\nlet x = 1\n}\n}\n")

	fs := mod.Functions[onyxmlir.NewSpecKey("main")]

	block, ok := fs.Body.Stmts[0].(*onyxmlir.Block)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *Block", fs.Body.Stmts[0])
	}

	if block.Safety != onyxmlir.Unsafe {
		t.Errorf("safety = %v, want Unsafe", block.Safety)
	}
}

// TestSpecializationKeysDeterministic guards the §8 property that two
// independent lowering runs over identical input produce identical
// sorted key lists.
func TestSpecializationKeysDeterministic(t *testing.T) {
	src := "def a()\n{\n}\ndef b()\n{\n}\ndef c()\n{\n}\n"

	m1 := lower(t, src)
	m2 := lower(t, src)

	k1 := m1.SortedFunctionKeys()
	k2 := m2.SortedFunctionKeys()

	if len(k1) != len(k2) {
		t.Fatalf("key count differs: %d vs %d", len(k1), len(k2))
	}

	for i := range k1 {
		if k1[i] != k2[i] {
			t.Errorf("key %d differs: %q vs %q", i, k1[i], k2[i])
		}
	}
}

// TestLowerCFuncCallUnderUnsafeResolves exercises the §4.5 step 3
// lookup path end to end: a "$name" callee resolves against the C AST
// collected from an extern block, not the Onyx scope graph.
func TestLowerCFuncCallUnderUnsafeResolves(t *testing.T) {
	src := "extern \"C\" {\nint puts(char *s);\n}\ndef main()\n{\nunsafe {\n$puts(\"hi\")\n}\n}\n"
	mod := lower(t, src)

	main, ok := mod.Functions[onyxmlir.NewSpecKey("main")]
	if !ok {
		t.Fatal("expected a lowered 'main' function")
	}

	block, ok := main.Body.Stmts[0].(*onyxmlir.Block)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *Block", main.Body.Stmts[0])
	}

	call, ok := block.Stmts[0].(*onyxmlir.Call)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *Call", block.Stmts[0])
	}

	if call.Callee.Kind != onyxmlir.CalleeCFunc {
		t.Fatalf("callee kind = %v, want CalleeCFunc", call.Callee.Kind)
	}

	if call.Callee.CFunc == nil || call.Callee.CFunc.Name != "puts" {
		t.Errorf("callee CFunc = %v, want the resolved 'puts' prototype", call.Callee.CFunc)
	}
}

// TestLowerIntrinsicCallNeverConsultsScope guards that an "@name"
// callee never touches the scope graph: it lowers to CalleeBuiltin
// even though no "sizeOf" superdeclaration exists anywhere.
func TestLowerIntrinsicCallNeverConsultsScope(t *testing.T) {
	mod := lower(t, "def main()\n{\n@sizeOf(1)\n}\n")

	main := mod.Functions[onyxmlir.NewSpecKey("main")]

	call, ok := main.Body.Stmts[0].(*onyxmlir.Call)
	if !ok {
		t.Fatalf("stmt 0 = %T, want *Call", main.Body.Stmts[0])
	}

	if call.Callee.Kind != onyxmlir.CalleeBuiltin || call.Callee.Name != "sizeOf" {
		t.Errorf("callee = %+v, want CalleeBuiltin 'sizeOf'", call.Callee)
	}
}

// TestLowerCFuncCallOutsideUnsafeRejected guards §8 Property 5: a C
// call requires Safety::Unsafe at the call site.
func TestLowerCFuncCallOutsideUnsafeRejected(t *testing.T) {
	unit := source.NewFileUnitFromReader("test.nx", strings.NewReader(
		"extern \"C\" {\nint puts(char *s);\n}\ndef main()\n{\n$puts(\"hi\")\n}\n",
	))

	file, err := onyxcst.NewParser(unit).ParseFile()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	scope, errs := onyxast.Build(file)
	if len(errs) != 0 {
		t.Fatalf("build: %v", errs)
	}

	_, errs = onyxmlir.Lower(scope)
	if len(errs) != 1 {
		t.Fatalf("lower errors = %d, want 1: %v", len(errs), errs)
	}
}

// TestSafetyMonotonicity walks every Call node reachable from a
// lowered Module and asserts §8 Property 5: a call's enclosing block
// is never less safe than the callee requires.
func TestSafetyMonotonicity(t *testing.T) {
	mod := lower(t, "extern \"C\" {\nint puts(char *s);\n}\ndef main()\n{\nunsafe {\n$puts(\"hi\")\n}\n}\n")

	var walk func(b *onyxmlir.Block)

	walk = func(b *onyxmlir.Block) {
		if b == nil {
			return
		}

		for _, n := range b.Stmts {
			if call, ok := n.(*onyxmlir.Call); ok {
				if call.Callee.RequiresUnsafe() && b.Safety != onyxmlir.Unsafe {
					t.Errorf("call to %v at safety %v, want Unsafe", call.Callee.CFunc, b.Safety)
				}
			}

			if nested, ok := n.(*onyxmlir.Block); ok {
				walk(nested)
			}
		}
	}

	walk(mod.Main)

	for _, key := range mod.SortedFunctionKeys() {
		walk(mod.Functions[key].Body)
	}
}

func TestModuleWriteProducesRecordSeparatedStream(t *testing.T) {
	m1 := lower(t, "def a()\n{\n}\n")
	m2 := lower(t, "def b()\n{\n}\n")

	var buf bytes.Buffer
	if err := onyxmlir.WriteAll([]*onyxmlir.Module{m1, m2}, &buf); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	if bytes.IndexByte(buf.Bytes(), 0x1C) == -1 {
		t.Error("expected a 0x1C record separator between modules")
	}

	if strings.Count(buf.String(), "func a(") != 1 || strings.Count(buf.String(), "func b(") != 1 {
		t.Error("expected both modules' functions in the amalgamated stream")
	}
}
