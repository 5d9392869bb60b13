package ai

import (
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
)

// HashEmbedder is a deterministic placeholder Embedder. It hashes the
// rune codes of the text into a small fixed-dimension vector. The
// vectors carry no semantic meaning; the mapping from similarity to
// score was tuned against this placeholder and should be recalibrated
// if a real embedding model replaces it.
type HashEmbedder struct {
	Dims int
}

// NewHashEmbedder returns a HashEmbedder with the given dimension count
// (10 when dims <= 0).
func NewHashEmbedder(dims int) HashEmbedder {
	if dims <= 0 {
		dims = 10
	}
	return HashEmbedder{Dims: dims}
}

// Embed returns one vector per input text. It never fails.
func (h HashEmbedder) Embed(_ domain.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		var sum int
		for _, r := range t {
			sum += int(r)
		}
		vec := make([]float64, h.Dims)
		for d := range vec {
			vec[d] = float64(sum%(d+7)) / 10
		}
		out[i] = vec
	}
	return out, nil
}
