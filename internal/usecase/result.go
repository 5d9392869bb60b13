package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prepwise/ai-interview-evaluator/internal/domain"
)

// staleAfter marks queued/processing jobs older than this as failed so
// clients polling a dead job eventually get a terminal status.
const staleAfter = 2 * time.Minute

// ResultService provides read access to evaluation results and assembles
// the API response envelope including ETag logic and error mapping.
type ResultService struct {
	Jobs    domain.JobRepository
	Reports domain.ReportRepository
}

// NewResultService constructs a ResultService with the given repositories.
func NewResultService(j domain.JobRepository, r domain.ReportRepository) ResultService {
	return ResultService{Jobs: j, Reports: r}
}

// Fetch returns the HTTP status code, response body, and ETag for the
// given job id. It implements conditional responses (304 Not Modified)
// based on If-None-Match and proper shapes for queued/processing/failed
// states.
func (s ResultService) Fetch(ctx domain.Context, id, ifNoneMatch string) (int, map[string]any, string, error) {
	job, err := s.Jobs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return http.StatusNotFound, nil, "", fmt.Errorf("%w: job not found", domain.ErrNotFound)
		}
		return http.StatusInternalServerError, nil, "", err
	}

	if job.Status != domain.JobCompleted {
		now := time.Now().UTC()
		stale := (job.Status == domain.JobQueued && now.Sub(job.CreatedAt) > staleAfter) ||
			(job.Status == domain.JobProcessing && now.Sub(job.UpdatedAt) > staleAfter)
		if stale {
			slog.Warn("job marked as stale",
				slog.String("job_id", id),
				slog.String("status", string(job.Status)),
				slog.Duration("age", now.Sub(job.CreatedAt)))
			msg := "timeout: job exceeded 2 minutes"
			_ = s.Jobs.UpdateStatus(ctx, id, domain.JobFailed, &msg)
			job.Status = domain.JobFailed
			job.Error = msg
		}
		m := map[string]any{"id": id, "status": string(job.Status)}
		if job.Status == domain.JobFailed {
			m["error"] = map[string]any{"message": job.Error}
		}
		etag := makeETag(m)
		if etag == ifNoneMatch {
			return http.StatusNotModified, nil, etag, nil
		}
		return http.StatusOK, m, etag, nil
	}

	report, err := s.Reports.GetByInterviewID(ctx, job.InterviewID)
	if err != nil {
		return http.StatusInternalServerError, nil, "", err
	}
	m := map[string]any{
		"id":     id,
		"status": string(domain.JobCompleted),
		"result": report,
	}
	etag := makeETag(m)
	if etag == ifNoneMatch {
		return http.StatusNotModified, nil, etag, nil
	}
	return http.StatusOK, m, etag, nil
}

func makeETag(v any) string {
	b, _ := json.Marshal(v)
	s := sha256.Sum256(b)
	return hex.EncodeToString(s[:])
}
