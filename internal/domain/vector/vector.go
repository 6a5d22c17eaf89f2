// Package vector provides similarity helpers for embedding vectors.
package vector

import "math"

// Cosine returns the cosine similarity of a and b.
// Empty, mismatched, or zero-magnitude vectors score 0 rather than erroring.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
