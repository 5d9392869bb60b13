package usecase

import (
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/prepwise/ai-interview-evaluator/internal/adapter/observability"
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
	"github.com/prepwise/ai-interview-evaluator/internal/service/signal"
	"github.com/prepwise/ai-interview-evaluator/pkg/textx"
)

// Pipeline sequences the per-question evaluation stages and aggregates
// the results into one Report. Questions are processed strictly
// sequentially: the generation client's interval limiter is shared
// across all stages, so parallel questions would only queue behind each
// other anyway.
type Pipeline struct {
	Gen domain.TextGenerator
	Emb domain.Embedder
	Sig signal.Source
}

// NewPipeline constructs a Pipeline with its stage dependencies.
func NewPipeline(gen domain.TextGenerator, emb domain.Embedder, sig signal.Source) Pipeline {
	return Pipeline{Gen: gen, Emb: emb, Sig: sig}
}

// Evaluate runs every stage for every question. A stage failure is
// absorbed by that stage's fallback and a question failure by a
// synthesized result, so the returned report always carries exactly one
// QuestionResult per question. The only error returned is context
// cancellation, in which case no partial report is produced.
func (p Pipeline) Evaluate(ctx domain.Context, iv domain.Interview, answers []domain.Answer) (domain.Report, error) {
	tracer := otel.Tracer("usecase.pipeline")

	byQuestion := make(map[string]domain.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	results := make([]domain.QuestionResult, 0, len(iv.Questions))
	stageCalls, stageErrors := 0, 0

	for i, q := range iv.Questions {
		if err := ctx.Err(); err != nil {
			return domain.Report{}, err
		}
		ans, ok := byQuestion[q.ID]
		if !ok && i < len(answers) && answers[i].QuestionID == "" {
			ans = answers[i]
		}

		qctx, span := tracer.Start(ctx, "pipeline.question")
		span.SetAttributes(attribute.String("question.id", q.ID))
		res, calls, errs := p.evaluateQuestion(qctx, q, ans)
		span.End()

		stageCalls += calls
		stageErrors += errs
		results = append(results, res)
	}

	if stageCalls > 0 && float64(stageErrors)/float64(stageCalls) > 0.7 {
		slog.Warn("evaluation heavily degraded, most stages served by fallbacks",
			slog.String("interview_id", iv.ID),
			slog.Int("stage_calls", stageCalls),
			slog.Int("stage_errors", stageErrors))
	}

	report := aggregate(iv.ID, results)
	observability.ObserveReport(report.OverallScore)
	return report, nil
}

// evaluateQuestion runs the stage sequence for one question. A panic in
// any stage degrades to the synthesized result rather than aborting the
// run.
func (p Pipeline) evaluateQuestion(ctx domain.Context, q domain.Question, ans domain.Answer) (res domain.QuestionResult, calls int, errs int) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("question evaluation panicked",
				slog.String("question_id", q.ID), slog.Any("panic", r))
			res = synthesizeResult(q, ans)
			errs = calls
		}
	}()

	user := textx.SanitizeText(ans.Transcript)

	ideal, idealFB := ResolveIdeal(ctx, p.Gen, q)
	calls++
	if idealFB {
		errs++
	}

	relevance, relFB := CheckRelevance(ctx, p.Gen, q.Text, user)
	calls++
	if relFB {
		errs++
	}
	observability.RelevanceScoreHistogram.Observe(float64(relevance))

	var match domain.MatchResult
	if relevance <= 2 {
		// Irrelevant answers skip full match scoring; the content score
		// is clamped to the relevance itself.
		match = domain.MatchResult{Score: relevance, MissingPoints: []string{}, Similarity: 0}
	} else {
		var matchFB bool
		match, matchFB = MatchScore(ctx, p.Emb, q.Text, ideal, user)
		calls++
		if matchFB {
			errs++
		}
		if relevance < 5 && match.Score > relevance+1 {
			match.Score = relevance + 1
		}
	}

	skills, diag, skillsFB := AnalyzeSkills(ctx, p.Gen, p.Sig, q.Text, user, ans.AudioRef)
	calls++
	if skillsFB {
		errs++
	}
	skills = dampenSkills(skills, relevance)

	feedback, fbFB := GenerateFeedback(ctx, p.Gen, q.Text, user, ideal, match.Score, relevance)
	calls++
	if fbFB {
		errs++
	}

	body := EstimateBodyLanguage(ans.VideoRef, p.Sig)

	return domain.QuestionResult{
		QuestionID:    q.ID,
		Question:      q.Text,
		UserAnswer:    user,
		IdealAnswer:   ideal,
		Score:         match.Score,
		Skill:         CategorizeSkill(q.Text),
		SkillScores:   skills,
		Relevance:     relevance,
		Feedback:      feedback,
		MissingPoints: match.MissingPoints,
		Similarity:    match.Similarity,
		BodyLanguage:  body,
		Diagnostics:   diag,
	}, calls, errs
}

// dampenSkills reduces the delivery scores for off-topic answers so a
// fluent but irrelevant response cannot score high on communication.
func dampenSkills(s domain.SkillScores, relevance int) domain.SkillScores {
	switch {
	case relevance <= 2:
		s.Communication = maxInt(1, s.Communication-3)
		s.SoftSkills = maxInt(1, s.SoftSkills-3)
	case relevance < 5:
		s.Communication = maxInt(2, s.Communication-2)
		s.SoftSkills = maxInt(2, s.SoftSkills-2)
	}
	return s
}

// synthesizeResult builds a usable result from raw answer text alone,
// for the path where every stage has failed.
func synthesizeResult(q domain.Question, ans domain.Answer) domain.QuestionResult {
	user := textx.SanitizeText(ans.Transcript)
	sentences := textx.Sentences(user)
	totalLen := 0
	for _, s := range sentences {
		totalLen += len(s)
	}
	avgLen := 0.0
	if len(sentences) > 0 {
		avgLen = float64(totalLen) / float64(len(sentences))
	}

	base := 1.0
	if avgLen > 20 {
		base = 2.0
	}
	communication := 0.5*float64(len(sentences)) + base
	if communication > 8 {
		communication = 8
	}
	if communication < 2 {
		communication = 2
	}
	structured := len(sentences) > 1 && avgLen > 10
	grammar := 4
	if structured {
		grammar = 6
	}
	softSkills := communication * 0.8
	if structured {
		softSkills++
	}
	if softSkills > 7 {
		softSkills = 7
	}
	if softSkills < 3 {
		softSkills = 3
	}

	score := 2
	switch {
	case len(user) > 20:
		score = 6
	case len(user) > 10:
		score = 4
	}
	relevance := 0
	feedback := "No answer provided. Please provide a detailed response to the question."
	userOut := user
	if len(user) > 0 {
		relevance = 5
		feedback = "Basic analysis available. Consider providing more detailed responses for better evaluation."
	} else {
		userOut = "No answer provided"
	}

	return domain.QuestionResult{
		QuestionID:  q.ID,
		Question:    q.Text,
		UserAnswer:  userOut,
		IdealAnswer: "AI analysis temporarily unavailable",
		Score:       score,
		Skill:       CategorizeSkill(q.Text),
		SkillScores: domain.SkillScores{
			Communication: int(math.Round(communication)),
			Grammar:       grammar,
			Attitude:      5,
			SoftSkills:    int(math.Round(softSkills)),
		},
		Relevance:     relevance,
		Feedback:      feedback,
		MissingPoints: []string{},
		Similarity:    0,
	}
}

// aggregate computes the per-report skill means and the overall score:
// the mean of the five per-report means, rounded to one decimal.
func aggregate(interviewID string, results []domain.QuestionResult) domain.Report {
	n := float64(len(results))
	report := domain.Report{
		InterviewID: interviewID,
		PerQuestion: results,
		CreatedAt:   time.Now().UTC(),
	}
	if n == 0 {
		return report
	}

	var content, comm, grammar, attitude, soft float64
	for _, r := range results {
		content += float64(r.Score)
		comm += float64(r.SkillScores.Communication)
		grammar += float64(r.SkillScores.Grammar)
		attitude += float64(r.SkillScores.Attitude)
		soft += float64(r.SkillScores.SoftSkills)
	}
	content /= n
	comm /= n
	grammar /= n
	attitude /= n
	soft /= n

	report.Averages = domain.SkillAverages{
		ContentAccuracy: round1(content),
		Communication:   round1(comm),
		Grammar:         round1(grammar),
		Attitude:        round1(attitude),
		SoftSkills:      round1(soft),
	}
	report.OverallScore = round1((content + comm + grammar + attitude + soft) / 5)
	return report
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
