package onyxtoken

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// mathOperators is the Unicode Mathematical Operators block
// (U+2200-U+22FF), which §4.3 adds to the small ASCII operator set so
// that user-defined operator overloads can use symbols like ∀, ∈, ≤.
var mathOperators = func() *unicode.RangeTable {
	runes := make([]rune, 0, 0x22FF-0x2200+1)
	for r := rune(0x2200); r <= 0x22FF; r++ {
		runes = append(runes, r)
	}

	return rangetable.New(runes...)
}()

// isMathOperator reports whether r falls in the Mathematical Operators
// block.
func isMathOperator(r rune) bool {
	return unicode.Is(mathOperators, r)
}

// asciiOperators is the small closed set of ASCII operator characters,
// independent of the Unicode Mathematical Operators block.
const asciiOperators = "+-*/%=<>!&|^~"

func isASCIIOperatorRune(r rune) bool {
	for _, c := range asciiOperators {
		if c == r {
			return true
		}
	}

	return false
}
