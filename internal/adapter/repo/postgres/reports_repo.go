package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/prepwise/ai-interview-evaluator/internal/domain"
)

// ReportRepo persists finished evaluation reports. The per-question
// results are stored as one JSONB document: the pipeline hands the
// report over as an opaque value and nothing queries inside it.
type ReportRepo struct{ Pool PgxPool }

// NewReportRepo constructs a ReportRepo with the given pool.
func NewReportRepo(p PgxPool) *ReportRepo { return &ReportRepo{Pool: p} }

// Upsert inserts or replaces the report for an interview.
func (r *ReportRepo) Upsert(ctx domain.Context, report domain.Report) error {
	tracer := otel.Tracer("repo.reports")
	ctx, span := tracer.Start(ctx, "reports.Upsert")
	defer span.End()

	perQuestion, err := json.Marshal(report.PerQuestion)
	if err != nil {
		return fmt.Errorf("op=report.upsert: %w", err)
	}
	averages, err := json.Marshal(report.Averages)
	if err != nil {
		return fmt.Errorf("op=report.upsert: %w", err)
	}
	q := `INSERT INTO reports (interview_id, per_question, skill_averages, overall_score, created_at)
	VALUES ($1,$2,$3,$4,$5)
	ON CONFLICT (interview_id)
	DO UPDATE SET per_question=EXCLUDED.per_question, skill_averages=EXCLUDED.skill_averages, overall_score=EXCLUDED.overall_score`
	if _, err := r.Pool.Exec(ctx, q, report.InterviewID, perQuestion, averages, report.OverallScore, time.Now().UTC()); err != nil {
		return fmt.Errorf("op=report.upsert: %w", err)
	}
	return nil
}

// GetByInterviewID loads the report for an interview.
func (r *ReportRepo) GetByInterviewID(ctx domain.Context, interviewID string) (domain.Report, error) {
	tracer := otel.Tracer("repo.reports")
	ctx, span := tracer.Start(ctx, "reports.GetByInterviewID")
	defer span.End()

	q := `SELECT interview_id, per_question, skill_averages, overall_score, created_at FROM reports WHERE interview_id=$1`
	var report domain.Report
	var perQuestion, averages []byte
	err := r.Pool.QueryRow(ctx, q, interviewID).Scan(&report.InterviewID, &perQuestion, &averages, &report.OverallScore, &report.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Report{}, fmt.Errorf("op=report.get: %w", domain.ErrNotFound)
		}
		return domain.Report{}, fmt.Errorf("op=report.get: %w", err)
	}
	if err := json.Unmarshal(perQuestion, &report.PerQuestion); err != nil {
		return domain.Report{}, fmt.Errorf("op=report.get: %w", err)
	}
	if err := json.Unmarshal(averages, &report.Averages); err != nil {
		return domain.Report{}, fmt.Errorf("op=report.get: %w", err)
	}
	return report, nil
}
