package source

// Placement identifies a span of source inside a specific Unit. It is
// the value every diagnostic and every CST/AST/MLIR node carries to
// answer "where did this come from".
type Placement struct {
	Unit     Unit
	Location Location
}

// NewPlacement returns the Placement of loc within unit.
func NewPlacement(unit Unit, loc Location) Placement {
	return Placement{Unit: unit, Location: loc}
}

// Path returns the ordered chain of placements leading from the
// outermost containing unit down to this placement, resolving through
// BlockUnit ancestry. A placement inside a virtual C block inside an
// Onyx file resolves to [file-level placement, block-level placement].
func (p Placement) Path() []Placement {
	var chain []Placement

	cur := p
	for {
		chain = append([]Placement{cur}, chain...)

		block, ok := cur.Unit.(*BlockUnit)
		if !ok {
			break
		}

		cur = Placement{Unit: block.Parent(), Location: Point(block.At())}
	}

	return chain
}

func (p Placement) String() string {
	return p.Unit.Name() + ":" + p.Location.Start.String()
}
