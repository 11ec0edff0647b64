package onyxmlir

// inferIntLitType decides the Onyx integer type a bare integer literal
// gets, absent any other use-site evidence: Int32 unless the value
// does not fit, in which case Int64 (§9 Open Question decision 4 —
// the original never narrows a top-level literal below 32 bits).
func inferIntLitType(v int64) string {
	if v >= -2147483648 && v <= 2147483647 {
		return "Int32"
	}

	return "Int64"
}
