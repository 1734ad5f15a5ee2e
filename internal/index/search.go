package index

import (
	"errors"
	"sort"

	"logwhisper/internal/domain"
)

// Searcher answers top-k similarity queries over an artifact's vectors
// using brute-force cosine similarity (vectors are L2-normalized at the
// embedder boundary, so cosine reduces to a dot product).
type Searcher struct {
	chunks  []domain.Chunk
	vectors [][]float64
}

// NewSearcher wraps a loaded artifact for querying.
func NewSearcher(a *Artifact) (*Searcher, error) {
	if len(a.Chunks) != len(a.Vectors) {
		return nil, errors.New("chunks and vectors length mismatch")
	}
	return &Searcher{chunks: a.Chunks, vectors: a.Vectors}, nil
}

// Search returns the topK chunks nearest to the query vector, ranked by
// descending score with ties broken by original chunk order.
func (s *Searcher) Search(vector []float64, topK int) []domain.SearchResult {
	if topK <= 0 {
		topK = 6
	}
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = dot(s.vectors[i], vector)
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, domain.SearchResult{Chunk: s.chunks[j], Score: scores[j]})
	}
	return results
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
