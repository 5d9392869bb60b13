package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepwise/ai-interview-evaluator/internal/domain"
	"github.com/prepwise/ai-interview-evaluator/internal/service/signal"
)

func fiveQuestionInterview() domain.Interview {
	iv := domain.Interview{ID: "iv-1"}
	for _, id := range []string{"q1", "q2", "q3", "q4", "q5"} {
		iv.Questions = append(iv.Questions, domain.Question{
			ID:          id,
			Text:        "Describe a challenging project you worked on.",
			IdealAnswer: "Go on.",
		})
	}
	return iv
}

func answersFor(iv domain.Interview, transcript string) []domain.Answer {
	var out []domain.Answer
	for _, q := range iv.Questions {
		out = append(out, domain.Answer{QuestionID: q.ID, Transcript: transcript})
	}
	return out
}

// scriptedGen answers each stage prompt by recognizing its wording.
func scriptedGen(relevance, skills, feedback string) *fakeGen {
	return &fakeGen{reply: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Evaluate the relevance"):
			return relevance, nil
		case strings.Contains(prompt, "four scores separated by commas"):
			return skills, nil
		case strings.Contains(prompt, "constructive feedback"):
			return feedback, nil
		default:
			return "generated ideal answer", nil
		}
	}}
}

func TestEvaluateAggregationExample(t *testing.T) {
	t.Parallel()
	// Content score 6 on every question (cosine 0.6, no missing points)
	// and all four skills 5: overall = (6+5+5+5+5)/5 = 5.2.
	p := NewPipeline(
		scriptedGen("8", "5,5,5,5", "keep going"),
		&fakeEmbedder{vecs: [][]float64{{1, 0}, {0.6, 0.8}}},
		signal.Fixed{},
	)
	iv := fiveQuestionInterview()
	report, err := p.Evaluate(context.Background(), iv, answersFor(iv, "a long and thoughtful answer about the project work"))
	require.NoError(t, err)
	require.Len(t, report.PerQuestion, 5)
	for _, r := range report.PerQuestion {
		assert.Equal(t, 6, r.Score)
		assert.Equal(t, domain.SkillScores{Communication: 5, Grammar: 5, Attitude: 5, SoftSkills: 5}, r.SkillScores)
	}
	assert.Equal(t, 6.0, report.Averages.ContentAccuracy)
	assert.Equal(t, 5.0, report.Averages.Communication)
	assert.Equal(t, 5.2, report.OverallScore)
}

func TestEvaluateTotalFailureStillFullReport(t *testing.T) {
	t.Parallel()
	p := NewPipeline(failingGen(), &fakeEmbedder{err: domain.ErrNetwork}, signal.Fixed{WPM: 130})
	iv := fiveQuestionInterview()
	iv.Questions[0].IdealAnswer = "" // force the ideal stage through the failing generator
	report, err := p.Evaluate(context.Background(), iv, answersFor(iv, "an answer about my project work and the approach I took"))
	require.NoError(t, err)
	require.Len(t, report.PerQuestion, len(iv.Questions))
	for _, r := range report.PerQuestion {
		assert.NotEmpty(t, r.Question)
		assert.NotEmpty(t, r.IdealAnswer)
		assert.NotEmpty(t, r.Feedback)
		assert.NotEmpty(t, r.Skill)
		for _, v := range []int{r.Score, r.SkillScores.Communication, r.SkillScores.Grammar, r.SkillScores.Attitude, r.SkillScores.SoftSkills, r.Relevance} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 10)
		}
	}
	assert.Positive(t, report.OverallScore)
}

func TestEvaluateMissingAnswersStillFullReport(t *testing.T) {
	t.Parallel()
	p := NewPipeline(scriptedGen("5", "5,5,5,5", "ok"), &fakeEmbedder{vecs: [][]float64{{1, 1}}}, signal.Fixed{})
	iv := fiveQuestionInterview()
	report, err := p.Evaluate(context.Background(), iv, nil)
	require.NoError(t, err)
	assert.Len(t, report.PerQuestion, len(iv.Questions))
}

func TestEvaluateIrrelevantAnswerSkipsMatchAndDampens(t *testing.T) {
	t.Parallel()
	p := NewPipeline(scriptedGen("1", "8,8,8,8", "ok"), &fakeEmbedder{vecs: [][]float64{{1, 1}}}, signal.Fixed{})
	iv := fiveQuestionInterview()
	report, err := p.Evaluate(context.Background(), iv, answersFor(iv, "completely off topic reply"))
	require.NoError(t, err)
	r := report.PerQuestion[0]
	assert.Equal(t, 1, r.Score)
	assert.Zero(t, r.Similarity)
	assert.Equal(t, 5, r.SkillScores.Communication)
	assert.Equal(t, 5, r.SkillScores.SoftSkills)
	assert.Equal(t, 8, r.SkillScores.Grammar)
	assert.Equal(t, 8, r.SkillScores.Attitude)
}

func TestEvaluateLowRelevanceCapsScore(t *testing.T) {
	t.Parallel()
	// Identical vectors give base 10, but relevance 4 caps the content
	// score at 5; communication and soft skills drop by 2.
	p := NewPipeline(scriptedGen("4", "8,8,8,8", "ok"), &fakeEmbedder{vecs: [][]float64{{1, 1}}}, signal.Fixed{})
	iv := fiveQuestionInterview()
	report, err := p.Evaluate(context.Background(), iv, answersFor(iv, "go on and on about it"))
	require.NoError(t, err)
	r := report.PerQuestion[0]
	assert.Equal(t, 5, r.Score)
	assert.Equal(t, 6, r.SkillScores.Communication)
	assert.Equal(t, 6, r.SkillScores.SoftSkills)
}

func TestEvaluateCancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPipeline(staticGen("5"), &fakeEmbedder{vecs: [][]float64{{1}}}, signal.Fixed{})
	iv := fiveQuestionInterview()
	_, err := p.Evaluate(ctx, iv, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateBodyLanguageOnlyWithVideo(t *testing.T) {
	t.Parallel()
	p := NewPipeline(scriptedGen("8", "5,5,5,5", "ok"), &fakeEmbedder{vecs: [][]float64{{1, 1}}}, signal.Fixed{Expr: "smiling", Eye: true})
	iv := fiveQuestionInterview()
	answers := answersFor(iv, "an answer")
	answers[0].VideoRef = "video.webm"
	report, err := p.Evaluate(context.Background(), iv, answers)
	require.NoError(t, err)
	require.NotNil(t, report.PerQuestion[0].BodyLanguage)
	assert.Equal(t, "smiling", report.PerQuestion[0].BodyLanguage.Expression)
	assert.Nil(t, report.PerQuestion[1].BodyLanguage)
}

func TestSynthesizeResult(t *testing.T) {
	t.Parallel()
	q := domain.Question{ID: "q1", Text: "Tell me about your experience"}

	long := synthesizeResult(q, domain.Answer{Transcript: "a detailed answer well beyond twenty characters"})
	assert.Equal(t, 6, long.Score)
	assert.Equal(t, 5, long.Relevance)

	short := synthesizeResult(q, domain.Answer{Transcript: "brief words"})
	assert.Equal(t, 4, short.Score)

	empty := synthesizeResult(q, domain.Answer{})
	assert.Equal(t, 2, empty.Score)
	assert.Zero(t, empty.Relevance)
	assert.Equal(t, "No answer provided", empty.UserAnswer)
	assert.NotEmpty(t, empty.Feedback)
}

func TestAggregateEmptyResults(t *testing.T) {
	t.Parallel()
	report := aggregate("iv-1", nil)
	assert.Zero(t, report.OverallScore)
	assert.Empty(t, report.PerQuestion)
}
