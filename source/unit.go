package source

import (
	"io"
	"os"
)

// Unit is a polymorphic compilation unit: either a file on disk or a
// virtual block borrowing a span of a containing unit's stream (the
// body of an extern directive). It owns (file) or borrows (block) an
// underlying byte stream, and remembers whether it has been parsed so
// that Unparse can report that truthfully.
type Unit interface {
	// Name identifies the unit for diagnostics (a path for a file unit,
	// "<parent name>:<label>@<row:col>" for a block unit).
	Name() string

	// Stream returns the unit's RuneStream. File units own theirs;
	// block units return the same *RuneStream as their parent, which is
	// what lets the C and Onyx lexers hand a stream back and forth
	// without an explicit byte-offset resync.
	Stream() *RuneStream

	// Parsed reports whether this unit currently holds a cached CST.
	Parsed() bool

	// MarkParsed records that a parser has successfully built a CST
	// for this unit, so a later Parsed() query (an IDE-style "is this
	// still fresh" check, §4.4) reports truthfully.
	MarkParsed()
}

// FileUnit is a Unit backed by a file on disk. It owns its input
// stream: Close releases the underlying descriptor, and must be called
// on every exit path by whoever calls OpenFile.
type FileUnit struct {
	path   string
	file   *os.File
	stream *RuneStream
	parsed bool
}

// OpenFile opens path and returns a FileUnit ready to be lexed. The
// caller owns the returned Unit and must call Close.
func OpenFile(path string) (*FileUnit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return &FileUnit{
		path:   path,
		file:   f,
		stream: NewRuneStream(f),
	}, nil
}

// NewFileUnitFromReader builds a FileUnit over an already-open reader,
// for tests and for drivers that read source from something other than
// a plain os.File (stdin, an in-memory buffer).
func NewFileUnitFromReader(name string, r io.Reader) *FileUnit {
	return &FileUnit{
		path:   name,
		stream: NewRuneStream(r),
	}
}

func (u *FileUnit) Name() string        { return u.path }
func (u *FileUnit) Stream() *RuneStream { return u.stream }
func (u *FileUnit) Parsed() bool        { return u.parsed }
func (u *FileUnit) MarkParsed()         { u.parsed = true }

// Unparse invalidates any cached CST for this unit and reports whether
// something had previously been parsed.
func (u *FileUnit) Unparse() bool {
	had := u.parsed
	u.parsed = false

	return had
}

// Close releases the underlying file descriptor, if this unit owns one.
func (u *FileUnit) Close() error {
	if u.file == nil {
		return nil
	}

	return u.file.Close()
}

// BlockUnit is a virtual Unit borrowing its parent's stream at a known
// starting Position — the body of an extern "C" { ... } directive.
// Parsing a BlockUnit must leave the parent's stream positioned
// immediately after the block; BlockUnit itself never rewinds the
// parent stream except through the owning parser's one-token rewind.
type BlockUnit struct {
	label  string
	parent Unit
	at     Position
	parsed bool
}

// NewBlockUnit creates a block unit borrowing parent's stream, starting
// at the given position (the position the extern keyword/brace was
// read from).
func NewBlockUnit(label string, parent Unit, at Position) *BlockUnit {
	return &BlockUnit{label: label, parent: parent, at: at}
}

func (u *BlockUnit) Name() string        { return u.parent.Name() + ":" + u.label + "@" + u.at.String() }
func (u *BlockUnit) Stream() *RuneStream { return u.parent.Stream() }
func (u *BlockUnit) Parsed() bool        { return u.parsed }
func (u *BlockUnit) MarkParsed()         { u.parsed = true }

func (u *BlockUnit) Unparse() bool {
	had := u.parsed
	u.parsed = false

	return had
}

// Parent returns the unit this block borrows its stream from.
func (u *BlockUnit) Parent() Unit { return u.parent }

// At returns the position, within the parent's stream, where this
// block starts.
func (u *BlockUnit) At() Position { return u.at }
