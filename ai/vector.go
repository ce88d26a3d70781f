package ai

import (
	"fmt"
	"math"
	"sync/atomic"
)

// NormalizeVector scales v to unit length so that a plain dot product
// between stored vectors is their cosine similarity.
// Returns a new vector; a zero or empty input yields a zero vector of the same length.
func NormalizeVector(v []float32) []float32 {
	out := make([]float32, len(v))
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return out
	}
	inv := 1 / math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

// Dot returns the dot product over the shared prefix of a and b.
// For unit vectors this is the cosine similarity.
func Dot(a, b []float32) float32 {
	n := min(len(a), len(b))
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// DimensionGuard remembers the length of the first vector an embedder
// produced and rejects later vectors of another length.
// The zero value is ready to use.
type DimensionGuard struct {
	dims atomic.Int64
}

// Check validates every vector in vectors against the remembered length.
func (g *DimensionGuard) Check(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("%w: vector %d is empty", ErrEmptyResponse, i)
		}
		g.dims.CompareAndSwap(0, int64(len(v)))
		if want := g.dims.Load(); int64(len(v)) != want {
			return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), want)
		}
	}
	return nil
}

// Dimensions returns the remembered length, or 0 before the first Check.
func (g *DimensionGuard) Dimensions() int {
	return int(g.dims.Load())
}
