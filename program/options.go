package program

import (
	"io"
	"log/slog"
)

// Options is a plain struct the external driver populates; the core
// never reads configuration itself (spec.md §1, §6's CLI option
// table lives entirely outside this module).
type Options struct {
	// Files maps a unit name (as referenced by "import ... from" and
	// extern-block bookkeeping) to its source reader. Exactly one of
	// them, named by Entry, is the compilation's starting point.
	Files map[string]io.Reader
	Entry string

	LogHandler slog.Handler
	LogLevel   Level
}
