package classifier

// Vector is a sparse feature vector. Indices are strictly increasing and
// every index is below Dim.
type Vector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// Empty reports whether the vector has no non-zero entry.
func (v Vector) Empty() bool {
	for _, x := range v.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

// Dot returns the dot product of v with a dense row. The caller guarantees
// len(row) >= v.Dim.
func (v Vector) Dot(row []float64) float64 {
	var sum float64
	for i, idx := range v.Indices {
		sum += v.Values[i] * row[idx]
	}
	return sum
}
