package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/prepwise/ai-interview-evaluator/internal/domain"
)

// InterviewRepo persists interviews and their ordered question lists.
type InterviewRepo struct{ Pool PgxPool }

// NewInterviewRepo constructs an InterviewRepo with the given pool.
func NewInterviewRepo(p PgxPool) *InterviewRepo { return &InterviewRepo{Pool: p} }

// Create stores the interview and its questions in one transaction. The
// question order is preserved through an explicit position column.
func (r *InterviewRepo) Create(ctx domain.Context, iv domain.Interview) (string, error) {
	tracer := otel.Tracer("repo.interviews")
	ctx, span := tracer.Start(ctx, "interviews.Create")
	defer span.End()

	id := iv.ID
	if id == "" {
		id = uuid.NewString()
	}
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", fmt.Errorf("op=interview.create: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := `INSERT INTO interviews (id, job_position, job_description, experience_years, skills, created_at) VALUES ($1,$2,$3,$4,$5,$6)`
	if _, err := tx.Exec(ctx, q, id, iv.JobPosition, iv.JobDescription, iv.ExperienceYears, iv.Skills, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("op=interview.create: %w", err)
	}
	qq := `INSERT INTO interview_questions (id, interview_id, position, text, ideal_answer) VALUES ($1,$2,$3,$4,$5)`
	for i, question := range iv.Questions {
		qid := question.ID
		if qid == "" {
			qid = uuid.NewString()
		}
		if _, err := tx.Exec(ctx, qq, qid, id, i, question.Text, question.IdealAnswer); err != nil {
			return "", fmt.Errorf("op=interview.create_question: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("op=interview.create: %w", err)
	}
	return id, nil
}

// Get loads an interview with its questions ordered by position.
func (r *InterviewRepo) Get(ctx domain.Context, id string) (domain.Interview, error) {
	tracer := otel.Tracer("repo.interviews")
	ctx, span := tracer.Start(ctx, "interviews.Get")
	defer span.End()

	q := `SELECT id, job_position, job_description, experience_years, skills, created_at FROM interviews WHERE id=$1`
	var iv domain.Interview
	if err := r.Pool.QueryRow(ctx, q, id).Scan(&iv.ID, &iv.JobPosition, &iv.JobDescription, &iv.ExperienceYears, &iv.Skills, &iv.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Interview{}, fmt.Errorf("op=interview.get: %w", domain.ErrNotFound)
		}
		return domain.Interview{}, fmt.Errorf("op=interview.get: %w", err)
	}

	qq := `SELECT id, text, COALESCE(ideal_answer,'') FROM interview_questions WHERE interview_id=$1 ORDER BY position`
	rows, err := r.Pool.Query(ctx, qq, id)
	if err != nil {
		return domain.Interview{}, fmt.Errorf("op=interview.get_questions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var question domain.Question
		if err := rows.Scan(&question.ID, &question.Text, &question.IdealAnswer); err != nil {
			return domain.Interview{}, fmt.Errorf("op=interview.get_questions: %w", err)
		}
		iv.Questions = append(iv.Questions, question)
	}
	if err := rows.Err(); err != nil {
		return domain.Interview{}, fmt.Errorf("op=interview.get_questions: %w", err)
	}
	return iv, nil
}
