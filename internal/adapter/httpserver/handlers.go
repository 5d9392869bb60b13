package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/prepwise/ai-interview-evaluator/internal/config"
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
	"github.com/prepwise/ai-interview-evaluator/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Interviews usecase.InterviewService
	Evaluate   usecase.EvaluateService
	Results    usecase.ResultService
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, interviews usecase.InterviewService, eval usecase.EvaluateService, results usecase.ResultService, dbCheck, redisCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Interviews: interviews, Evaluate: eval, Results: results, DBCheck: dbCheck, RedisCheck: redisCheck}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

func validationDetails(err error) map[string]string {
	verrs := map[string]string{}
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			verrs[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return verrs
}

// CreateInterviewHandler generates interview content for a job posting.
func (s *Server) CreateInterviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
		var req struct {
			JobPosition     string `json:"job_position" validate:"required,max=200"`
			JobDescription  string `json:"job_description" validate:"required,max=5000"`
			ExperienceYears int    `json:"experience_years" validate:"min=0,max=60"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), validationDetails(err))
			return
		}
		iv, err := s.Interviews.Generate(r.Context(), req.JobPosition, req.JobDescription, req.ExperienceYears)
		if err != nil {
			writeError(w, r, fmt.Errorf("generate interview: %w", err), nil)
			return
		}
		type questionOut struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		}
		out := make([]questionOut, 0, len(iv.Questions))
		for _, q := range iv.Questions {
			out = append(out, questionOut{ID: q.ID, Text: q.Text})
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"id":        iv.ID,
			"skills":    iv.Skills,
			"questions": out,
		})
	}
}

// EvaluateHandler enqueues an evaluation job for submitted answers.
func (s *Server) EvaluateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 4<<20) // transcripts can be long
		interviewID := chi.URLParam(r, "id")
		if interviewID == "" {
			writeError(w, r, fmt.Errorf("%w: interview id missing", domain.ErrInvalidArgument), nil)
			return
		}
		var req struct {
			Answers []struct {
				QuestionID string `json:"question_id"`
				Transcript string `json:"transcript"`
				AudioRef   string `json:"audio_ref"`
				VideoRef   string `json:"video_ref"`
			} `json:"answers" validate:"required,min=1,dive"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), validationDetails(err))
			return
		}
		answers := make([]domain.Answer, 0, len(req.Answers))
		for _, a := range req.Answers {
			answers = append(answers, domain.Answer{
				QuestionID: a.QuestionID,
				Transcript: a.Transcript,
				AudioRef:   a.AudioRef,
				VideoRef:   a.VideoRef,
			})
		}
		jobID, err := s.Evaluate.Enqueue(r.Context(), interviewID, answers, r.Header.Get("Idempotency-Key"))
		if err != nil {
			writeError(w, r, fmt.Errorf("enqueue: %w", err), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": jobID, "status": string(domain.JobQueued)})
	}
}

// ResultHandler returns job status and the report when completed.
func (s *Server) ResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, r, fmt.Errorf("%w: id missing", domain.ErrInvalidArgument), nil)
			return
		}
		status, res, etag, err := s.Results.Fetch(r.Context(), id, r.Header.Get("If-None-Match"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if etag != "" {
			w.Header().Set("ETag", etag)
		}
		if status == http.StatusNotModified {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, status, res)
	}
}

// HealthzHandler reports process liveness.
func HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler probes the DB and Redis dependencies.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 2)
		if s.DBCheck != nil {
			if err := s.DBCheck(ctx); err != nil {
				checks = append(checks, check{Name: "db", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "db", OK: true})
			}
		}
		if s.RedisCheck != nil {
			if err := s.RedisCheck(ctx); err != nil {
				checks = append(checks, check{Name: "redis", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "redis", OK: true})
			}
		}
		st := http.StatusOK
		for _, c := range checks {
			if !c.OK {
				st = http.StatusServiceUnavailable
				break
			}
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
