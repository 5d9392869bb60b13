package usecase

import (
	"fmt"
	"strconv"

	"github.com/prepwise/ai-interview-evaluator/internal/domain"
)

// fakeGen returns canned replies per prompt, or a fixed error.
type fakeGen struct {
	reply func(prompt string) (string, error)
	calls int
}

func (f *fakeGen) Generate(_ domain.Context, prompt string) (string, error) {
	f.calls++
	if f.reply == nil {
		return "", domain.ErrUpstream
	}
	return f.reply(prompt)
}

func failingGen() *fakeGen { return &fakeGen{} }

func staticGen(out string) *fakeGen {
	return &fakeGen{reply: func(string) (string, error) { return out, nil }}
}

// fakeEmbedder returns fixed vectors in call order, or an error.
type fakeEmbedder struct {
	vecs [][]float64
	err  error
}

func (f *fakeEmbedder) Embed(_ domain.Context, texts []string) ([][]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = f.vecs[i%len(f.vecs)]
	}
	return out, nil
}

// In-memory repositories for service tests.

type memJobs struct {
	seq  int
	jobs map[string]domain.Job
}

func newMemJobs() *memJobs { return &memJobs{jobs: map[string]domain.Job{}} }

func (m *memJobs) Create(_ domain.Context, j domain.Job) (string, error) {
	m.seq++
	j.ID = "job-" + strconv.Itoa(m.seq)
	m.jobs[j.ID] = j
	return j.ID, nil
}

func (m *memJobs) UpdateStatus(_ domain.Context, id string, status domain.JobStatus, errMsg *string) error {
	j, ok := m.jobs[id]
	if !ok {
		return fmt.Errorf("%w: job", domain.ErrNotFound)
	}
	j.Status = status
	if errMsg != nil {
		j.Error = *errMsg
	}
	m.jobs[id] = j
	return nil
}

func (m *memJobs) Get(_ domain.Context, id string) (domain.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return domain.Job{}, fmt.Errorf("%w: job", domain.ErrNotFound)
	}
	return j, nil
}

func (m *memJobs) FindByIdempotencyKey(_ domain.Context, key string) (domain.Job, error) {
	for _, j := range m.jobs {
		if j.IdemKey != nil && *j.IdemKey == key {
			return j, nil
		}
	}
	return domain.Job{}, fmt.Errorf("%w: job", domain.ErrNotFound)
}

type memInterviews struct {
	ivs map[string]domain.Interview
}

func newMemInterviews() *memInterviews { return &memInterviews{ivs: map[string]domain.Interview{}} }

func (m *memInterviews) Create(_ domain.Context, iv domain.Interview) (string, error) {
	m.ivs[iv.ID] = iv
	return iv.ID, nil
}

func (m *memInterviews) Get(_ domain.Context, id string) (domain.Interview, error) {
	iv, ok := m.ivs[id]
	if !ok {
		return domain.Interview{}, fmt.Errorf("%w: interview", domain.ErrNotFound)
	}
	return iv, nil
}

type memReports struct {
	reports map[string]domain.Report
}

func newMemReports() *memReports { return &memReports{reports: map[string]domain.Report{}} }

func (m *memReports) Upsert(_ domain.Context, r domain.Report) error {
	m.reports[r.InterviewID] = r
	return nil
}

func (m *memReports) GetByInterviewID(_ domain.Context, id string) (domain.Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return domain.Report{}, fmt.Errorf("%w: report", domain.ErrNotFound)
	}
	return r, nil
}

type memQueue struct {
	payloads []domain.EvaluateTaskPayload
	err      error
}

func (m *memQueue) EnqueueEvaluate(_ domain.Context, p domain.EvaluateTaskPayload) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.payloads = append(m.payloads, p)
	return "task-1", nil
}
