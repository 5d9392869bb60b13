package usecase

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prepwise/ai-interview-evaluator/internal/adapter/ai"
	"github.com/prepwise/ai-interview-evaluator/internal/adapter/observability"
	"github.com/prepwise/ai-interview-evaluator/internal/config"
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
)

// InterviewService generates interview content (questions, ideal
// answers, skills) for a job description and persists the interview.
type InterviewService struct {
	Gen        domain.TextGenerator
	Interviews domain.InterviewRepository
	Bank       config.QuestionBank
}

// NewInterviewService constructs an InterviewService.
func NewInterviewService(gen domain.TextGenerator, repo domain.InterviewRepository, bank config.QuestionBank) InterviewService {
	return InterviewService{Gen: gen, Interviews: repo, Bank: bank}
}

// Generate asks the model for tailored questions, ideal answers, and a
// skill list. Any generation or parse failure falls back to the generic
// question bank; callers always receive a usable interview.
func (s InterviewService) Generate(ctx domain.Context, position, description string, experienceYears int) (domain.Interview, error) {
	if strings.TrimSpace(position) == "" || strings.TrimSpace(description) == "" {
		return domain.Interview{}, fmt.Errorf("%w: position and description required", domain.ErrInvalidArgument)
	}

	questions, ideals, skills, fellBack := s.generateContent(ctx, position, description, experienceYears)
	if fellBack {
		observability.StageFallback("interview_data")
	}

	iv := domain.Interview{
		ID:              uuid.NewString(),
		JobPosition:     position,
		JobDescription:  description,
		ExperienceYears: experienceYears,
		Skills:          skills,
		CreatedAt:       time.Now().UTC(),
	}
	for i, q := range questions {
		ideal := ""
		if i < len(ideals) {
			ideal = ideals[i]
		}
		iv.Questions = append(iv.Questions, domain.Question{
			ID:          uuid.NewString(),
			Text:        q,
			IdealAnswer: ideal,
		})
	}

	id, err := s.Interviews.Create(ctx, iv)
	if err != nil {
		return domain.Interview{}, fmt.Errorf("op=interview.create: %w", err)
	}
	iv.ID = id
	return iv, nil
}

// generateContent runs the single generation call and parses the
// QUESTIONS / IDEAL_ANSWERS / SKILLS sections out of the reply.
// Questions and ideals are paired by the shorter of the two lists.
func (s InterviewService) generateContent(ctx domain.Context, position, description string, experienceYears int) (questions, ideals, skills []string, fellBack bool) {
	out, err := s.Gen.Generate(ctx, interviewDataPrompt(position, description, experienceYears))
	if err != nil {
		slog.Warn("interview data generation failed, serving question bank", slog.Any("error", err))
		return s.Bank.Questions, nil, s.Bank.Skills, true
	}

	questionsSection := ai.ExtractSection(out, "QUESTIONS:", "IDEAL_ANSWERS:")
	idealSection := ai.ExtractSection(out, "IDEAL_ANSWERS:", "SKILLS:")
	skillsSection := ai.ExtractSection(out, "SKILLS:", "")

	for _, line := range ai.Lines(questionsSection) {
		questions = append(questions, ai.StripBulletPrefix(line))
	}
	ideals = ai.Lines(idealSection)
	skills = ai.CommaList(skillsSection)

	if len(questions) == 0 {
		slog.Warn("interview data reply had no questions section, serving question bank")
		return s.Bank.Questions, nil, s.Bank.Skills, true
	}
	if len(ideals) < len(questions) {
		questions = questions[:len(ideals)]
	} else {
		ideals = ideals[:len(questions)]
	}
	if len(questions) == 0 {
		return s.Bank.Questions, nil, s.Bank.Skills, true
	}
	if len(skills) == 0 {
		skills = s.Bank.Skills
	}
	return questions, ideals, skills, false
}
