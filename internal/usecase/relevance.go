package usecase

import (
	"log/slog"
	"strings"

	"github.com/prepwise/ai-interview-evaluator/internal/adapter/ai"
	"github.com/prepwise/ai-interview-evaluator/internal/adapter/observability"
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
	"github.com/prepwise/ai-interview-evaluator/pkg/textx"
)

// CheckRelevance scores 0-10 how on-topic the answer is. The second
// return reports whether the keyword-overlap fallback was used.
func CheckRelevance(ctx domain.Context, gen domain.TextGenerator, question, answer string) (int, bool) {
	out, err := gen.Generate(ctx, relevancePrompt(question, answer))
	if err == nil {
		if n, ok := ai.LeadingInt(out); ok {
			return domain.ClampScore(n), false
		}
		slog.Warn("relevance reply had no leading integer", slog.String("reply", truncate(out, 80)))
	} else {
		slog.Warn("relevance check failed", slog.Any("error", err))
	}
	observability.StageFallback("relevance")
	return relevanceFallback(question, answer), true
}

// relevanceFallback maps the keyword-overlap ratio between question and
// answer through a ten-bucket staircase. Words shorter than four
// characters are ignored so that articles and pronouns do not inflate
// the overlap.
func relevanceFallback(question, answer string) int {
	if strings.TrimSpace(answer) == "" {
		return 0
	}
	questionWords := textx.ContentWords(question)
	answerWords := textx.ContentWords(answer)
	if len(questionWords) == 0 {
		return 0
	}
	common := 0
	for _, w := range questionWords {
		if textx.ContainsWord(answerWords, w) {
			common++
		}
	}
	ratio := float64(common) / float64(len(questionWords))
	if ratio == 0 {
		return 0
	}
	for score := 1; score <= 9; score++ {
		if ratio < float64(score)/10 {
			return score
		}
	}
	return 10
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
