package usecase

import (
	"log/slog"
	"strings"

	"github.com/prepwise/ai-interview-evaluator/internal/adapter/observability"
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
)

// GenerateFeedback produces coaching prose for one answer. The fallback
// is score-banded so the caller always gets non-empty text. The second
// return reports whether the fallback was used.
func GenerateFeedback(ctx domain.Context, gen domain.TextGenerator, question, user, ideal string, score, relevance int) (string, bool) {
	out, err := gen.Generate(ctx, feedbackPrompt(question, user, ideal, score, relevance))
	if err == nil && strings.TrimSpace(out) != "" {
		return strings.TrimSpace(out), false
	}
	if err != nil {
		slog.Warn("feedback generation failed", slog.Any("error", err))
	}
	observability.StageFallback("feedback")
	return feedbackFallback(score), true
}

func feedbackFallback(score int) string {
	switch {
	case score <= 2:
		return "This answer doesn't address the question properly. Please focus on providing relevant information that directly answers what was asked."
	case score <= 5:
		return "The answer needs improvement. Try to be more specific and provide more detailed information related to the question."
	default:
		return "Good effort! Consider adding more specific examples or details to strengthen your response."
	}
}
