package translator

import (
	"math"

	"github.com/haytac/emoji-translator/internal/embedding"
)

// CosineSimilarity returns dot(a,b)/(|a||b|). Vectors of different length,
// empty vectors and zero-norm vectors score exactly 0.
func CosineSimilarity(a, b embedding.Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
