package program

import (
	"github.com/fancysoft-lang/onyxc/onyxast"
	"github.com/fancysoft-lang/onyxc/onyxmlir"
)

// Result is everything Compile produces for one run: every file's
// scope graph (so a driver can inspect an imported file too), the
// entry file's scope, and the lowered MLIR for the entry file.
type Result struct {
	Scopes      map[string]*onyxast.Scope
	Entry       *onyxast.Scope
	Module      *onyxmlir.Module
	Diagnostics []error
}
