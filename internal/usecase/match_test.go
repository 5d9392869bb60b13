package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepwise/ai-interview-evaluator/internal/domain"
)

func TestMatchScorePrimaryIdenticalVectors(t *testing.T) {
	t.Parallel()
	emb := &fakeEmbedder{vecs: [][]float64{{1, 2, 3}}}
	res, fellBack := MatchScore(context.Background(), emb, "q",
		"I focus on testing", "I focus on testing")
	require.False(t, fellBack)
	assert.Equal(t, 1.0, res.Similarity)
	assert.Equal(t, 10, res.Score)
	assert.Empty(t, res.MissingPoints)
}

func TestMatchScorePenalizesMissingPoints(t *testing.T) {
	t.Parallel()
	emb := &fakeEmbedder{vecs: [][]float64{{1, 1, 1}}}
	ideal := "Always write tests first. Deploy incrementally to reduce risk."
	user := "something entirely different"
	res, fellBack := MatchScore(context.Background(), emb, "q", ideal, user)
	require.False(t, fellBack)
	// Similarity 1.0 gives base 10; two missing key points subtract 2.
	assert.Equal(t, 8, res.Score)
	assert.Len(t, res.MissingPoints, 2)
}

func TestMatchScoreNeverNegative(t *testing.T) {
	t.Parallel()
	emb := &fakeEmbedder{vecs: [][]float64{{1, 0}, {0, 1}}}
	// Orthogonal vectors: base score 0; missing points cannot push below.
	ideal := "Point one here. Point two here. Point three here."
	res, _ := MatchScore(context.Background(), emb, "q", ideal, "x")
	assert.Equal(t, 0, res.Score)
}

func TestMatchScorePrimaryEmptyUser(t *testing.T) {
	t.Parallel()
	emb := &fakeEmbedder{vecs: [][]float64{{1, 1}}}
	res, fellBack := MatchScore(context.Background(), emb, "q", "Cover the full rollout process here.", "")
	require.False(t, fellBack)
	assert.Equal(t, 0, res.Score)
	assert.Len(t, res.MissingPoints, 1)
}

func TestMatchScoreEmptyUserSkipsEmbedding(t *testing.T) {
	t.Parallel()
	// Embedder would fail, but an empty answer never reaches it.
	emb := &fakeEmbedder{err: domain.ErrNetwork}
	res, fellBack := MatchScore(context.Background(), emb, "q", "Explain the deployment steps in detail.", "")
	require.False(t, fellBack)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, []string{"Explain the deployment steps in detail"}, res.MissingPoints)
	assert.Zero(t, res.Similarity)
}

func TestMatchFallbackScoring(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		question string
		user     string
		want     int
	}{
		{"no common words short answer", "tell me about testing", "yes", 2},
		{"no common words long answer", "tell me about testing", "this reply rambles on for quite a while regarding nothing at all", 4},
		{"one common word medium answer", "tell me about testing", "testing is my passion", 4},
		{"many common words long answer", "describe integration testing strategies for services",
			"integration testing strategies for services require careful planning and environments", 7},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := matchFallback(tc.question, tc.user)
			assert.Equal(t, tc.want, res.Score)
		})
	}
}

func TestMatchFallbackIdempotent(t *testing.T) {
	t.Parallel()
	a := matchFallback("question about teamwork", "teamwork answer with detail and length beyond fifty characters total")
	b := matchFallback("question about teamwork", "teamwork answer with detail and length beyond fifty characters total")
	assert.Equal(t, a, b)
}

func TestExtractKeyPoints(t *testing.T) {
	t.Parallel()
	points := extractKeyPoints("Short. This fragment is long enough. Ok! Another keeper here?")
	assert.Equal(t, []string{"This fragment is long enough", "Another keeper here"}, points)
}

func TestFindMissingPoints(t *testing.T) {
	t.Parallel()
	points := []string{"Deploy incrementally always", "Write tests"}
	missing := findMissingPoints(points, "I deploy incrementally when I can")
	assert.Equal(t, []string{"Write tests"}, missing)
}

func TestCosineSimilarity(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float64{0, 0}, []float64{1, 1}))
}
