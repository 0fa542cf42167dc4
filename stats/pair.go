package stats

// NormalizePair returns the two player identifiers in canonical
// (lexicographic) order, so that (A,B) and (B,A) always name the same
// pair entity.
func NormalizePair(id1, id2 string) (string, string) {
	if id2 < id1 {
		return id2, id1
	}
	return id1, id2
}

// PairKey builds the grouping key for an unordered pair.
func PairKey(id1, id2 string) string {
	a, b := NormalizePair(id1, id2)
	return a + "_" + b
}

// PairLabel builds the human-readable label for a pair. The argument
// order must match the normalized identifier order.
func PairLabel(name1, name2 string) string {
	return name1 + " & " + name2
}
