package usecase

import (
	"log/slog"
	"math"
	"strings"

	"github.com/prepwise/ai-interview-evaluator/internal/adapter/observability"
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
	"github.com/prepwise/ai-interview-evaluator/pkg/textx"
)

// MatchScore compares the user answer against the ideal answer.
// Primary path: embed both texts, map cosine similarity to a 0-10 base
// score, then subtract one point per key point of the ideal answer not
// echoed by the user. On embedding failure it falls back to word
// overlap plus answer length; the second return reports the fallback.
func MatchScore(ctx domain.Context, emb domain.Embedder, question, ideal, user string) (domain.MatchResult, bool) {
	if strings.TrimSpace(user) == "" {
		missing := findMissingPoints(extractKeyPoints(ideal), user)
		if missing == nil {
			missing = []string{}
		}
		return domain.MatchResult{Score: 0, MissingPoints: missing, Similarity: 0}, false
	}
	vecs, err := emb.Embed(ctx, []string{ideal, user})
	if err != nil || len(vecs) != 2 {
		slog.Warn("embedding failed, using overlap heuristic", slog.Any("error", err))
		observability.StageFallback("match")
		return matchFallback(question, user), true
	}
	similarity := cosineSimilarity(vecs[0], vecs[1])
	score := domain.ClampScore(int(math.Round(similarity * 10)))
	missing := findMissingPoints(extractKeyPoints(ideal), user)
	score -= len(missing)
	if score < 0 {
		score = 0
	}
	return domain.MatchResult{
		Score:         score,
		MissingPoints: missing,
		Similarity:    math.Round(similarity*100) / 100,
	}, false
}

func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i, x := range a {
		var y float64
		if i < len(b) {
			y = b[i]
		}
		dot += x * y
		normA += x * x
	}
	for _, y := range b {
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// extractKeyPoints splits the ideal answer on sentence terminators and
// keeps fragments longer than six characters.
func extractKeyPoints(answer string) []string {
	var points []string
	for _, s := range textx.Sentences(answer) {
		if len(s) > 6 {
			points = append(points, s)
		}
	}
	return points
}

// findMissingPoints returns the key points whose 8-character prefix
// (case-insensitive) does not appear anywhere in the user answer.
func findMissingPoints(points []string, user string) []string {
	lowerUser := strings.ToLower(user)
	var missing []string
	for _, p := range points {
		prefix := strings.ToLower(p)
		if len(prefix) > 8 {
			prefix = prefix[:8]
		}
		if !strings.Contains(lowerUser, prefix) {
			missing = append(missing, p)
		}
	}
	return missing
}

// matchFallback combines a word-overlap component with an answer-length
// component, capped at 7 so the heuristic can never award a top score.
func matchFallback(question, user string) domain.MatchResult {
	trimmed := strings.TrimSpace(user)
	if trimmed == "" {
		return domain.MatchResult{Score: 0, MissingPoints: []string{}, Similarity: 0}
	}
	questionWords := textx.ContentWords(question)
	userWords := textx.ContentWords(user)
	common := 0
	for _, w := range questionWords {
		if textx.ContainsWord(userWords, w) {
			common++
		}
	}
	overlapScore := 1
	if common > 0 {
		overlapScore = common * 2
		if overlapScore > 6 {
			overlapScore = 6
		}
	}
	lengthScore := 1
	switch {
	case len(trimmed) > 50:
		lengthScore = 3
	case len(trimmed) > 20:
		lengthScore = 2
	}
	score := overlapScore + lengthScore
	if score > 7 {
		score = 7
	}
	return domain.MatchResult{Score: score, MissingPoints: []string{}, Similarity: 0}
}
