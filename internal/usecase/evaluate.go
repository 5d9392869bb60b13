package usecase

import (
	"fmt"
	"time"

	"github.com/prepwise/ai-interview-evaluator/internal/adapter/observability"
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
)

// EvaluateService orchestrates job creation and queueing for evaluation.
type EvaluateService struct {
	Jobs       domain.JobRepository
	Queue      domain.Queue
	Interviews domain.InterviewRepository
}

// NewEvaluateService constructs an EvaluateService with its dependencies.
func NewEvaluateService(j domain.JobRepository, q domain.Queue, iv domain.InterviewRepository) EvaluateService {
	return EvaluateService{Jobs: j, Queue: q, Interviews: iv}
}

// Enqueue validates inputs, creates a job, and enqueues the evaluation
// task. A repeated idempotency key returns the existing job id instead
// of a new run.
func (s EvaluateService) Enqueue(ctx domain.Context, interviewID string, answers []domain.Answer, idemKey string) (string, error) {
	if interviewID == "" {
		return "", fmt.Errorf("%w: interview id required", domain.ErrInvalidArgument)
	}
	if idemKey != "" {
		if j, err := s.Jobs.FindByIdempotencyKey(ctx, idemKey); err == nil && j.ID != "" {
			return j.ID, nil
		}
	}
	if _, err := s.Interviews.Get(ctx, interviewID); err != nil {
		return "", fmt.Errorf("op=evaluate.enqueue: %w", err)
	}

	now := time.Now().UTC()
	j := domain.Job{Status: domain.JobQueued, InterviewID: interviewID, CreatedAt: now, UpdatedAt: now}
	if idemKey != "" {
		j.IdemKey = &idemKey
	}
	jobID, err := s.Jobs.Create(ctx, j)
	if err != nil {
		return "", err
	}

	payload := domain.EvaluateTaskPayload{JobID: jobID, InterviewID: interviewID, Answers: answers}
	if _, err := s.Queue.EnqueueEvaluate(ctx, payload); err != nil {
		_ = s.Jobs.UpdateStatus(ctx, jobID, domain.JobFailed, ptr("enqueue failed"))
		return "", err
	}
	observability.EnqueueJob("evaluate")
	return jobID, nil
}

func ptr(s string) *string { return &s }
