package onyxmlir

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Separator selects how Write terminates a Module when several are
// written to the same stream.
type Separator int

const (
	// SeparatorNone writes nothing after the module.
	SeparatorNone Separator = iota
	// SeparatorRecord appends a single 0x1C (ASCII Record Separator)
	// byte, §6's "0x1C-separated amalgamation" format for packing many
	// modules into one artifact.
	SeparatorRecord
)

const recordSeparator = 0x1C

// WriteAll amalgamates modules into w in source order, placing a
// record separator between consecutive modules but not after the
// last one.
func WriteAll(modules []*Module, w io.Writer) error {
	for i, m := range modules {
		sep := SeparatorRecord
		if i == len(modules)-1 {
			sep = SeparatorNone
		}

		if err := m.Write(w, sep); err != nil {
			return err
		}
	}

	return nil
}

// Write serializes m as human-readable typed MLIR text, in the same
// shape the original's HLIR::write/MLIR::write stream operators
// produce, adapted from std::ostream& to io.Writer. It performs no
// LLVM lowering — that remains out of scope.
func (m *Module) Write(w io.Writer, sep Separator) error {
	bw := bufio.NewWriter(w)
	mw := &moduleWriter{w: bw}

	mw.line("module {")
	mw.indent++

	for _, key := range m.SortedTypeKeys() {
		mw.writeType(m.Types[key])
	}

	for _, key := range m.SortedFunctionKeys() {
		mw.writeFunc(m.Functions[key])
	}

	if m.Main != nil {
		mw.line("main " + safetyTag(m.Main.Safety) + " {")
		mw.indent++
		mw.writeBlockBody(m.Main)
		mw.indent--
		mw.line("}")
	}

	mw.indent--
	mw.line("}")

	if sep == SeparatorRecord {
		bw.WriteByte(recordSeparator)
	}

	return bw.Flush()
}

// WriteFile writes m to dir/module.mlir, creating dir if needed — the
// one-file-per-module mode from §6.
func (m *Module) WriteFile(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, "module.mlir"))
	if err != nil {
		return err
	}
	defer f.Close()

	return m.Write(f, SeparatorNone)
}

type moduleWriter struct {
	w      *bufio.Writer
	indent int
}

func (mw *moduleWriter) line(s string) {
	for i := 0; i < mw.indent; i++ {
		mw.w.WriteString("  ")
	}

	mw.w.WriteString(s)
	mw.w.WriteByte('\n')
}

func safetyTag(s Safety) string {
	return "[" + s.String() + "]"
}

func storageTag(s Storage) string {
	switch s {
	case StorageStatic:
		return "static"
	case StorageInstance:
		return "instance"
	default:
		return "undefined"
	}
}

func (mw *moduleWriter) writeFunc(fs *FuncSpec) {
	params := ""

	for i, p := range fs.Params {
		if i > 0 {
			params += ", "
		}

		params += p.Name + ": " + p.Type
	}

	ret := fs.ReturnType
	if ret == "" {
		ret = "void"
	}

	mw.line(fmt.Sprintf("func %s(%s): %s %s {", fs.Key, params, ret, safetyTag(fs.Safety)))
	mw.indent++
	mw.writeBlockBody(fs.Body)
	mw.indent--
	mw.line("}")
}

func (mw *moduleWriter) writeType(ts *TypeSpec) {
	mw.line(fmt.Sprintf("%s %s {", ts.Category, ts.Key))
	mw.indent++

	for _, f := range ts.Fields {
		mw.line(fmt.Sprintf("field %s: %s (%s)", f.Name, f.Type, storageTag(f.Storage)))
	}

	for _, key := range sortedMethodKeys(ts.Methods) {
		mw.writeFunc(ts.Methods[key])
	}

	mw.indent--
	mw.line("}")
}

func sortedMethodKeys(m map[SpecKey]*FuncSpec) []SpecKey {
	keys := make([]SpecKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}

func (mw *moduleWriter) writeBlockBody(b *Block) {
	if b == nil {
		return
	}

	for _, n := range b.Stmts {
		mw.writeNode(n)
	}
}

func (mw *moduleWriter) writeNode(n Node) {
	switch v := n.(type) {
	case *VarDecl:
		kw := "let"
		if v.Final {
			kw = "final"
		}

		mw.line(fmt.Sprintf("%s %s: %s (%s) = %s", kw, v.Name, v.Type(), storageTag(v.Storage), exprText(v.Value)))
	case *Assignment:
		mw.line(fmt.Sprintf("%s = %s", v.Target, exprText(v.Value)))
	case *If:
		mw.line("if " + exprText(v.Cond) + " {")
		mw.indent++
		mw.writeBlockBody(v.Then)
		mw.indent--

		if v.Else != nil {
			mw.line("} else {")
			mw.indent++
			mw.writeBlockBody(v.Else)
			mw.indent--
		}

		mw.line("}")
	case *While:
		mw.line("while " + exprText(v.Cond) + " {")
		mw.indent++
		mw.writeBlockBody(v.Body)
		mw.indent--
		mw.line("}")
	case *Return:
		if v.Value == nil {
			mw.line("return")
		} else {
			mw.line("return " + exprText(v.Value))
		}
	case *Block:
		mw.line(safetyTag(v.Safety) + " {")
		mw.indent++
		mw.writeBlockBody(v)
		mw.indent--
		mw.line("}")
	default:
		// a bare expression used as a statement
		if e, ok := n.(Expr); ok {
			mw.line(exprText(e))
		}
	}
}

func exprText(e Expr) string {
	if e == nil {
		return "<nil>"
	}

	switch v := e.(type) {
	case *IntLit:
		return strconv.FormatInt(v.Value, 10)
	case *StringLit:
		return strconv.Quote(v.Value)
	case *BoolLit:
		return strconv.FormatBool(v.Value)
	case *Ident:
		return v.Name
	case *UnOp:
		return v.Op + exprText(v.Operand)
	case *BinOp:
		return "(" + exprText(v.Left) + " " + v.Op + " " + exprText(v.Right) + ")"
	case *Cast:
		return "cast<" + v.Type() + ">(" + exprText(v.Value) + ")"
	case *Call:
		args := ""

		for i, a := range v.Args {
			if i > 0 {
				args += ", "
			}

			args += exprText(a)
		}

		return calleeText(v.Callee) + "(" + args + ")"
	default:
		return "<?>"
	}
}

// calleeText renders a Call's resolved Callee: "@name" for a builtin,
// the C prototype's own name for a C function (its safety requirement
// is carried on the call site, not repeated here), or the bound
// specialization key for an Onyx function.
func calleeText(c Callee) string {
	switch c.Kind {
	case CalleeBuiltin:
		return "@" + c.Name
	case CalleeCFunc:
		if c.CFunc != nil {
			return "$" + c.CFunc.Name
		}

		return "$<extern>"
	default:
		return string(c.Key)
	}
}
