// Package vector implements the in-memory similarity index used by the
// similarity demo: build once, query many, discarded at process exit.
package vector

import (
	"fmt"
	"math"
	"sort"

	"github.com/gkassa/agentlab/internal/agentlab"
)

// Chunk is one embedded text fragment. Produced at ingestion and never
// mutated afterwards.
type Chunk struct {
	Text     string
	Vector   []float64
	Metadata map[string]string
}

// Result pairs a chunk with its distance to the query. Lower distance
// means higher semantic similarity.
type Result struct {
	Chunk    Chunk
	Distance float64
}

// Index holds embedded chunks and answers k-nearest-neighbor queries.
type Index struct {
	embedder agentlab.Embedder
	chunks   []Chunk
}

// Ingest embeds every text once and stores (text, vector, metadata)
// triples. metadatas may be nil; otherwise it must match texts in length.
func Ingest(embedder agentlab.Embedder, texts []string, metadatas []map[string]string) (*Index, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to ingest")
	}
	if metadatas != nil && len(metadatas) != len(texts) {
		return nil, fmt.Errorf("metadata count %d does not match text count %d", len(metadatas), len(texts))
	}

	vectors, err := embedder.Embed(texts)
	if err != nil {
		return nil, fmt.Errorf("embedding texts: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}

	idx := &Index{embedder: embedder, chunks: make([]Chunk, len(texts))}
	for i, text := range texts {
		var meta map[string]string
		if metadatas != nil {
			meta = metadatas[i]
		}
		idx.chunks[i] = Chunk{Text: text, Vector: vectors[i], Metadata: meta}
	}
	return idx, nil
}

// Len returns the number of ingested chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Query embeds the query text and returns the k nearest chunks in
// ascending distance order. k larger than the index returns everything.
func (idx *Index) Query(text string, k int) ([]Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	vectors, err := idx.embedder.Embed([]string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	query := vectors[0]

	results := make([]Result, len(idx.chunks))
	for i, chunk := range idx.chunks {
		results[i] = Result{Chunk: chunk, Distance: cosineDistance(query, chunk.Vector)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// cosineDistance returns 1 - cosine similarity. Zero-magnitude vectors
// are maximally distant rather than NaN.
func cosineDistance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
