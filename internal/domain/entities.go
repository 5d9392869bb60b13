package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrRateLimited     = errors.New("rate limited")
	ErrUpstream        = errors.New("upstream error")
	ErrNetwork         = errors.New("network error")
	ErrEmptyResponse   = errors.New("empty response")
	ErrParse           = errors.New("unparsable response")
	ErrInternal        = errors.New("internal error")
)

// Question is a single interview question. Immutable once the interview
// is created. IdealAnswer is an optional precomputed answer; when empty
// the pipeline generates one at evaluation time.
type Question struct {
	ID          string
	Text        string
	IdealAnswer string
}

// Answer holds a candidate's response to one question. Produced once per
// question during the session; immutable thereafter. AudioRef/VideoRef
// are opaque references to recorded media owned by external storage.
type Answer struct {
	QuestionID string `json:"question_id"`
	Transcript string `json:"transcript"`
	AudioRef   string `json:"audio_ref,omitempty"`
	VideoRef   string `json:"video_ref,omitempty"`
}

// SkillScores are the four delivery sub-scores, each an integer in [0,10].
// A QuestionResult always carries them, even when the generation service
// failed for every stage.
type SkillScores struct {
	Communication int `json:"communication"`
	Grammar       int `json:"grammar"`
	Attitude      int `json:"attitude"`
	SoftSkills    int `json:"soft_skills"`
}

// MatchResult is the semantic-match outcome for one answer. Score is an
// integer in [0,10]; Similarity is the raw cosine value in [0,1].
type MatchResult struct {
	Score         int
	MissingPoints []string
	Similarity    float64
}

// SkillDiagnostics is detail attached by the skill-analyzer fallback.
// Callers must not depend on it being present.
type SkillDiagnostics struct {
	FillerWords []string       `json:"filler_words,omitempty"`
	PaceWPM     float64        `json:"pace_wpm,omitempty"`
	Pauses      int            `json:"pauses,omitempty"`
	Cues        map[string]int `json:"cues,omitempty"`
	Sentiment   string         `json:"sentiment,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
}

// BodyLanguage is the simulated expression/eye-contact estimate for an
// answer with a video reference. Omitted when no video was recorded.
type BodyLanguage struct {
	Expression  string   `json:"expression"`
	EyeContact  bool     `json:"eye_contact"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// QuestionResult is the full evaluation of one question. Created once by
// the orchestrator and never mutated; owned exclusively by the Report.
type QuestionResult struct {
	QuestionID    string            `json:"question_id"`
	Question      string            `json:"question"`
	UserAnswer    string            `json:"user_answer"`
	IdealAnswer   string            `json:"ideal_answer"`
	Score         int               `json:"score"`
	Skill         string            `json:"skill"`
	SkillScores   SkillScores       `json:"skill_scores"`
	Relevance     int               `json:"relevance"`
	Feedback      string            `json:"feedback"`
	MissingPoints []string          `json:"missing_points,omitempty"`
	Similarity    float64           `json:"similarity"`
	BodyLanguage  *BodyLanguage     `json:"body_language,omitempty"`
	Diagnostics   *SkillDiagnostics `json:"diagnostics,omitempty"`
}

// SkillAverages are per-report means of each scored dimension, rounded
// to one decimal.
type SkillAverages struct {
	ContentAccuracy float64 `json:"content_accuracy"`
	Communication   float64 `json:"communication"`
	Grammar         float64 `json:"grammar"`
	Attitude        float64 `json:"attitude"`
	SoftSkills      float64 `json:"soft_skills"`
}

// Report is the complete evaluation output for one interview.
// Invariant: len(PerQuestion) equals the interview's question count.
type Report struct {
	InterviewID  string           `json:"interview_id"`
	PerQuestion  []QuestionResult `json:"per_question"`
	Averages     SkillAverages    `json:"skill_averages"`
	OverallScore float64          `json:"overall_score"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Interview aggregates the ordered question list plus the job context it
// was generated for.
type Interview struct {
	ID              string
	JobPosition     string
	JobDescription  string
	ExperienceYears int
	Skills          []string
	Questions       []Question
	CreatedAt       time.Time
}

type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job tracks one evaluation run end to end.
type Job struct {
	ID          string
	Status      JobStatus
	Error       string
	InterviewID string
	IdemKey     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EvaluateTaskPayload is the queue message for one evaluation run.
type EvaluateTaskPayload struct {
	JobID       string   `json:"job_id"`
	InterviewID string   `json:"interview_id"`
	Answers     []Answer `json:"answers"`
}

// Ports

// TextGenerator produces free text for a prompt. Implementations enforce
// rate limiting and retries; a failed call is reported through the error
// taxonomy above so callers can decide whether to fall back.
type TextGenerator interface {
	Generate(ctx Context, prompt string) (string, error)
}

// Embedder turns texts into vectors. The pipeline does not care whether
// the vectors come from a real embedding model or the deterministic
// placeholder.
type Embedder interface {
	Embed(ctx Context, texts []string) ([][]float64, error)
}

type InterviewRepository interface {
	Create(ctx Context, iv Interview) (string, error)
	Get(ctx Context, id string) (Interview, error)
}

type JobRepository interface {
	Create(ctx Context, j Job) (string, error)
	UpdateStatus(ctx Context, id string, status JobStatus, errMsg *string) error
	Get(ctx Context, id string) (Job, error)
	FindByIdempotencyKey(ctx Context, key string) (Job, error)
}

// ReportRepository receives the finished Report keyed by interview id.
// The pipeline does not depend on how it is persisted.
type ReportRepository interface {
	Upsert(ctx Context, r Report) error
	GetByInterviewID(ctx Context, interviewID string) (Report, error)
}

type Queue interface {
	EnqueueEvaluate(ctx Context, payload EvaluateTaskPayload) (string, error)
}

// Context is an alias so adapters and usecases share the std context
// without the domain package importing it everywhere.
type Context = context.Context

// ClampScore bounds an integer score to [0,10].
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// Clamp bounds all four sub-scores to [0,10].
func (s SkillScores) Clamp() SkillScores {
	return SkillScores{
		Communication: ClampScore(s.Communication),
		Grammar:       ClampScore(s.Grammar),
		Attitude:      ClampScore(s.Attitude),
		SoftSkills:    ClampScore(s.SoftSkills),
	}
}
