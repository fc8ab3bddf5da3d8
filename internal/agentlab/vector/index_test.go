package vector

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// axisEmbedder maps known texts to fixed vectors so distances are
// deterministic.
type axisEmbedder struct {
	vectors map[string][]float64
}

func (e *axisEmbedder) Embed(texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, ok := e.vectors[t]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", t)
		}
		out[i] = v
	}
	return out, nil
}

func demoIndex(t *testing.T) *Index {
	t.Helper()
	embedder := &axisEmbedder{vectors: map[string][]float64{
		"vector databases": {1, 0, 0},
		"rag systems":      {0, 1, 0},
		"embeddings":       {0.9, 0.1, 0},
		"query":            {1, 0.05, 0},
	}}
	idx, err := Ingest(embedder,
		[]string{"vector databases", "rag systems", "embeddings"},
		[]map[string]string{
			{"topic": "databases"},
			{"topic": "AI"},
			{"topic": "ML"},
		},
	)
	require.NoError(t, err)
	return idx
}

func TestQueryTopK(t *testing.T) {
	idx := demoIndex(t)
	require.Equal(t, 3, idx.Len())

	results, err := idx.Query("query", 2)
	require.NoError(t, err)

	// Exactly k results, ascending (non-decreasing) distance.
	require.Len(t, results, 2)
	assert.LessOrEqual(t, results[0].Distance, results[1].Distance)

	// The aligned chunk comes first and carries its metadata.
	assert.Equal(t, "vector databases", results[0].Chunk.Text)
	assert.Equal(t, "databases", results[0].Chunk.Metadata["topic"])
	assert.Equal(t, "embeddings", results[1].Chunk.Text)
}

func TestQueryKLargerThanIndex(t *testing.T) {
	idx := demoIndex(t)
	results, err := idx.Query("query", 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
	}
}

func TestQueryInvalidK(t *testing.T) {
	idx := demoIndex(t)
	_, err := idx.Query("query", 0)
	assert.Error(t, err)
}

func TestIngestValidation(t *testing.T) {
	embedder := &axisEmbedder{vectors: map[string][]float64{"a": {1}}}

	_, err := Ingest(embedder, nil, nil)
	assert.Error(t, err, "empty ingest should fail")

	_, err = Ingest(embedder, []string{"a"}, []map[string]string{{"k": "v"}, {"k": "v"}})
	assert.Error(t, err, "metadata length mismatch should fail")
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "identical", a: []float64{1, 2, 3}, b: []float64{1, 2, 3}, want: 0},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, want: 1},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-1, 0}, want: 2},
		{name: "zero vector", a: []float64{0, 0}, b: []float64{1, 0}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineDistance(tt.a, tt.b), 1e-9)
		})
	}
}
