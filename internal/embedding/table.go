package embedding

// Vector is a single word embedding.
type Vector []float32

// Table maps a lowercased word to its embedding. Vectors are never empty.
type Table map[string]Vector

// Lookup returns the vector for word, which must already be lowercased.
func (t Table) Lookup(word string) (Vector, bool) {
	v, ok := t[word]
	return v, ok
}

// Dimension returns the most common vector length in the table, or 0 when
// the table is empty.
func (t Table) Dimension() int {
	counts := make(map[int]int)
	best, bestCount := 0, 0
	for _, v := range t {
		counts[len(v)]++
		if c := counts[len(v)]; c > bestCount || (c == bestCount && len(v) < best) {
			best, bestCount = len(v), c
		}
	}
	return best
}
