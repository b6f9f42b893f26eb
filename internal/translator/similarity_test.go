package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haytac/emoji-translator/internal/embedding"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b embedding.Vector
		want float64
	}{
		{"identical", embedding.Vector{1, 2, 3}, embedding.Vector{1, 2, 3}, 1},
		{"scaled", embedding.Vector{1, 1}, embedding.Vector{3, 3}, 1},
		{"opposite", embedding.Vector{1, 0}, embedding.Vector{-1, 0}, -1},
		{"orthogonal", embedding.Vector{1, 0}, embedding.Vector{0, 1}, 0},
		{"length mismatch", embedding.Vector{1, 0}, embedding.Vector{1, 0, 0}, 0},
		{"both empty", embedding.Vector{}, embedding.Vector{}, 0},
		{"nil", nil, embedding.Vector{1}, 0},
		{"zero vector", embedding.Vector{0, 0}, embedding.Vector{1, 1}, 0},
		{"both zero", embedding.Vector{0, 0}, embedding.Vector{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineSimilarity_MismatchIsExactlyZero(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity(embedding.Vector{1, 2}, embedding.Vector{1, 2, 3}))
	assert.Equal(t, 0.0, CosineSimilarity(embedding.Vector{0, 0, 0}, embedding.Vector{1, 2, 3}))
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]embedding.Vector{
		{{0.3, -1.2, 4.5}, {2.2, 0.1, -0.7}},
		{{1e-3, 5, 7}, {9, 9, 1e3}},
		{{-1, -1}, {1, 0.5}},
	}
	for _, p := range pairs {
		assert.Equal(t, CosineSimilarity(p[0], p[1]), CosineSimilarity(p[1], p[0]))
	}
}

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	vecs := []embedding.Vector{
		{0.418, 0.24968, -0.41242, 0.1217},
		{-5, 0, 0.001},
		{42},
	}
	for _, v := range vecs {
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-6)
	}
}
