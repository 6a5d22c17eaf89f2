package vector

import (
	"math"
	"testing"
)

func TestCosine_SelfSimilarity(t *testing.T) {
	v := []float32{0.3, -0.7, 1.2}
	if got := Cosine(v, v); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("expected self-similarity 1.0, got %v", got)
	}
}

func TestCosine_Symmetry(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-2, 0.5, 4}
	if Cosine(a, b) != Cosine(b, a) {
		t.Error("cosine must be symmetric")
	}
}

func TestCosine_Orthogonal(t *testing.T) {
	if got := Cosine([]float32{1, 0}, []float32{0, 1}); math.Abs(got) > 1e-9 {
		t.Errorf("expected 0 for orthogonal vectors, got %v", got)
	}
}

func TestCosine_Opposite(t *testing.T) {
	if got := Cosine([]float32{1, 0}, []float32{-1, 0}); math.Abs(got+1.0) > 1e-6 {
		t.Errorf("expected -1 for opposite vectors, got %v", got)
	}
}

func TestCosine_DegenerateInputs(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
	}{
		{"both empty", nil, nil},
		{"mismatched lengths", []float32{1, 2}, []float32{1}},
		{"zero magnitude", []float32{0, 0}, []float32{1, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Cosine(tc.a, tc.b); got != 0 {
				t.Errorf("expected 0, got %v", got)
			}
		})
	}
}
