package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepwise/ai-interview-evaluator/internal/domain"
)

func seedInterview(t *testing.T, repo *memInterviews) domain.Interview {
	t.Helper()
	iv := domain.Interview{ID: "iv-1", Questions: []domain.Question{{ID: "q1", Text: "Q?"}}, CreatedAt: time.Now().UTC()}
	_, err := repo.Create(context.Background(), iv)
	require.NoError(t, err)
	return iv
}

func TestEnqueueCreatesJobAndTask(t *testing.T) {
	t.Parallel()
	jobs, ivs, q := newMemJobs(), newMemInterviews(), &memQueue{}
	iv := seedInterview(t, ivs)
	svc := NewEvaluateService(jobs, q, ivs)

	answers := []domain.Answer{{QuestionID: "q1", Transcript: "my answer"}}
	jobID, err := svc.Enqueue(context.Background(), iv.ID, answers, "")
	require.NoError(t, err)
	assert.NotEmpty(t, jobID)

	job, err := jobs.Get(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobQueued, job.Status)
	assert.Equal(t, iv.ID, job.InterviewID)

	require.Len(t, q.payloads, 1)
	assert.Equal(t, jobID, q.payloads[0].JobID)
	assert.Equal(t, answers, q.payloads[0].Answers)
}

func TestEnqueueIdempotent(t *testing.T) {
	t.Parallel()
	jobs, ivs, q := newMemJobs(), newMemInterviews(), &memQueue{}
	iv := seedInterview(t, ivs)
	svc := NewEvaluateService(jobs, q, ivs)

	first, err := svc.Enqueue(context.Background(), iv.ID, nil, "idem-1")
	require.NoError(t, err)
	second, err := svc.Enqueue(context.Background(), iv.ID, nil, "idem-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, q.payloads, 1)
}

func TestEnqueueValidatesInterview(t *testing.T) {
	t.Parallel()
	svc := NewEvaluateService(newMemJobs(), &memQueue{}, newMemInterviews())
	_, err := svc.Enqueue(context.Background(), "", nil, "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = svc.Enqueue(context.Background(), "missing", nil, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnqueueMarksJobFailedOnQueueError(t *testing.T) {
	t.Parallel()
	jobs, ivs := newMemJobs(), newMemInterviews()
	iv := seedInterview(t, ivs)
	svc := NewEvaluateService(jobs, &memQueue{err: domain.ErrInternal}, ivs)

	_, err := svc.Enqueue(context.Background(), iv.ID, nil, "")
	require.Error(t, err)
	require.Len(t, jobs.jobs, 1)
	for _, j := range jobs.jobs {
		assert.Equal(t, domain.JobFailed, j.Status)
	}
}
