// Package usecase contains the answer-evaluation pipeline and the
// application services around it.
package usecase

import (
	"log/slog"
	"strings"

	"github.com/prepwise/ai-interview-evaluator/internal/adapter/observability"
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
)

// idealUnavailable is returned when no preset exists and generation
// failed; the resolver never propagates an error to the orchestrator.
const idealUnavailable = "Unable to generate ideal answer at this time."

// ResolveIdeal returns a canonical good answer for the question. A
// non-empty preset wins without any provider call. The second return
// reports whether the placeholder fallback was used.
func ResolveIdeal(ctx domain.Context, gen domain.TextGenerator, q domain.Question) (string, bool) {
	if s := strings.TrimSpace(q.IdealAnswer); s != "" {
		return s, false
	}
	out, err := gen.Generate(ctx, idealAnswerPrompt(q.Text))
	if err != nil || strings.TrimSpace(out) == "" {
		slog.Warn("ideal answer generation failed",
			slog.String("question_id", q.ID), slog.Any("error", err))
		observability.StageFallback("ideal")
		return idealUnavailable, true
	}
	return strings.TrimSpace(out), false
}
