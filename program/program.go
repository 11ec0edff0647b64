package program

import (
	"io"
	"sort"
	"strings"

	"github.com/fancysoft-lang/onyxc/diag"
	"github.com/fancysoft-lang/onyxc/onyxast"
	"github.com/fancysoft-lang/onyxc/onyxcst"
	"github.com/fancysoft-lang/onyxc/onyxmlir"
	"github.com/fancysoft-lang/onyxc/source"
)

// Program holds one compilation's options and logger handle. It is
// the module's single entry point, kept deliberately thin: everything
// it does is parse, build, wire imports, and lower — no caching, no
// incremental recompilation, no linking (spec.md §1).
type Program struct {
	opts Options
	log  *Logger
}

// New builds a Program from opts, forking a "program" subsystem
// logger from opts.LogHandler/LogLevel.
func New(opts Options) *Program {
	return &Program{
		opts: opts,
		log:  NewLogger(opts.LogHandler, opts.LogLevel).With("program"),
	}
}

// Compile parses every file in Options.Files, builds each one's scope
// graph, wires cross-file imports (spec.md §4.4's four import forms),
// and lowers the entry file's scope into typed MLIR. It does not stop
// at the first file's errors: every file is built so that Diagnostics
// reflects the whole unit set, matching onyxast.Build's "don't stop at
// the first problem" policy.
func (p *Program) Compile() (*Result, error) {
	files := make(map[string]*onyxcst.File, len(p.opts.Files))
	scopes := make(map[string]*onyxast.Scope, len(p.opts.Files))

	var diags []error

	for _, name := range sortedFileNames(p.opts.Files) {
		p.log.Debug("parsing", "unit", name)

		unit := source.NewFileUnitFromReader(name, p.opts.Files[name])

		file, err := onyxcst.NewParser(unit).ParseFile()
		if err != nil {
			diags = append(diags, err)
			continue
		}

		files[name] = file

		scope, errs := onyxast.Build(file)
		scopes[name] = scope
		diags = append(diags, errs...)
	}

	for name, file := range files {
		diags = append(diags, wireImports(name, file, scopes)...)
	}

	entry, ok := scopes[p.opts.Entry]
	if !ok {
		return &Result{Scopes: scopes, Diagnostics: diags},
			diag.NewPanic("no such entry unit '"+p.opts.Entry+"'", source.Placement{})
	}

	p.log.Debug("lowering", "unit", p.opts.Entry)

	mod, lowerErrs := onyxmlir.Lower(entry)
	diags = append(diags, lowerErrs...)

	return &Result{Scopes: scopes, Entry: entry, Module: mod, Diagnostics: diags}, nil
}

func sortedFileNames(files map[string]io.Reader) []string {
	names := make([]string, 0, len(files))
	for k := range files {
		names = append(names, k)
	}

	sort.Strings(names)

	return names
}

// normalizeImportPath strips the local-file prefixing a "from" clause
// carries (e.g. "./m.nx") down to the bare unit name Options.Files
// keys by, since this core has no notion of a filesystem to resolve
// against.
func normalizeImportPath(from string) string {
	from = strings.TrimPrefix(from, "./")
	from = strings.TrimPrefix(from, "/")

	return from
}

// wireImports implements spec.md §4.4's four import surface forms by
// copying the named superdeclaration(s) from the target file's scope
// into the importing file's root scope, under the requested alias.
// "import * as X" binds X to a synthetic namespace superdecl holding
// the target scope directly, since this core has no module-namespace
// Category of its own — X::name.
func wireImports(name string, file *onyxcst.File, scopes map[string]*onyxast.Scope) []error {
	scope, ok := scopes[name]
	if !ok {
		return nil
	}

	var errs []error

	for _, item := range file.Items {
		imp, ok := item.(*onyxcst.Import)
		if !ok {
			continue
		}

		target, ok := scopes[normalizeImportPath(imp.From)]
		if !ok {
			errs = append(errs, diag.NewCodedPanic(
				diag.UndeclaredReference,
				"imported unit '"+imp.From+"' was not compiled",
				imp.Placement(),
			))

			continue
		}

		if imp.Star {
			alias := imp.StarAs
			scope.Superdecl[alias] = &onyxast.Superdecl{Name: alias, Category: onyxast.CategoryUnit, Scope: target}
			continue
		}

		for _, el := range imp.Elements {
			sd, ok := target.Superdecl[el.Name]
			if !ok {
				errs = append(errs, diag.NewCodedPanic(
					diag.UndeclaredReference,
					"'"+el.Name+"' is not declared in '"+imp.From+"'",
					imp.Placement(),
				))

				continue
			}

			localName := el.Name
			if el.Alias != "" {
				localName = el.Alias
			}

			scope.Superdecl[localName] = sd
		}
	}

	return errs
}
