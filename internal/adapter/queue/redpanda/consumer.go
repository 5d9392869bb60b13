package redpanda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/prepwise/ai-interview-evaluator/internal/adapter/observability"
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
	"github.com/prepwise/ai-interview-evaluator/internal/usecase"
)

// jobTimeout bounds one evaluation run end to end; the retry/backoff
// ceiling inside the AI client keeps each stage finite, this is the
// outer safety net.
const jobTimeout = 10 * time.Minute

// Consumer reads evaluation tasks from the evaluate topic and runs the
// pipeline for each. One task is processed at a time per worker: the
// generation client serializes provider calls anyway, so extra
// parallelism would only add queueing.
type Consumer struct {
	client     *kgo.Client
	pipeline   usecase.Pipeline
	jobs       domain.JobRepository
	interviews domain.InterviewRepository
	reports    domain.ReportRepository
}

// NewConsumer joins the worker consumer group on the evaluate topic.
func NewConsumer(brokers []string, group string, pipeline usecase.Pipeline, jobs domain.JobRepository, interviews domain.InterviewRepository, reports domain.ReportRepository) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(TopicEvaluate),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("redpanda client: %w", err)
	}
	if err := createTopicIfNotExists(context.Background(), client, TopicEvaluate, 1, 1); err != nil {
		slog.Warn("ensure topic failed", slog.String("topic", TopicEvaluate), slog.Any("error", err))
	}
	return &Consumer{
		client:     client,
		pipeline:   pipeline,
		jobs:       jobs,
		interviews: interviews,
		reports:    reports,
	}, nil
}

// Run polls until the context is cancelled. Offsets are committed after
// each record is fully processed, so a crash mid-job redelivers the
// task instead of losing it.
func (c *Consumer) Run(ctx context.Context) error {
	slog.Info("worker consuming", slog.String("topic", TopicEvaluate))
	for {
		fetches := c.client.PollFetches(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			for _, fe := range errs {
				if errors.Is(fe.Err, context.Canceled) {
					return ctx.Err()
				}
				slog.Error("fetch error",
					slog.String("topic", fe.Topic), slog.Any("error", fe.Err))
			}
		}
		fetches.EachRecord(func(rec *kgo.Record) {
			c.processRecord(ctx, rec)
		})
		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			slog.Error("commit offsets failed", slog.Any("error", err))
		}
	}
}

func (c *Consumer) processRecord(ctx context.Context, rec *kgo.Record) {
	var payload domain.EvaluateTaskPayload
	if err := json.Unmarshal(rec.Value, &payload); err != nil {
		slog.Error("malformed evaluate task dropped", slog.Any("error", err))
		return
	}
	lg := slog.Default().With(
		slog.String("job_id", payload.JobID),
		slog.String("interview_id", payload.InterviewID))

	jctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	observability.StartProcessingJob("evaluate")
	if err := c.jobs.UpdateStatus(jctx, payload.JobID, domain.JobProcessing, nil); err != nil {
		lg.Error("mark processing failed", slog.Any("error", err))
	}

	if err := c.evaluate(jctx, payload); err != nil {
		lg.Error("evaluation failed", slog.Any("error", err))
		msg := err.Error()
		_ = c.jobs.UpdateStatus(jctx, payload.JobID, domain.JobFailed, &msg)
		observability.FailJob("evaluate")
		return
	}
	if err := c.jobs.UpdateStatus(jctx, payload.JobID, domain.JobCompleted, nil); err != nil {
		lg.Error("mark completed failed", slog.Any("error", err))
	}
	observability.CompleteJob("evaluate")
	lg.Info("evaluation completed")
}

// evaluate loads the interview, runs the pipeline, and stores the
// report. Stage failures never surface here: the pipeline absorbs them
// with fallbacks, so the only errors are missing data, cancellation,
// and storage.
func (c *Consumer) evaluate(ctx context.Context, payload domain.EvaluateTaskPayload) error {
	iv, err := c.interviews.Get(ctx, payload.InterviewID)
	if err != nil {
		return fmt.Errorf("load interview: %w", err)
	}
	report, err := c.pipeline.Evaluate(ctx, iv, payload.Answers)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}
	if err := c.reports.Upsert(ctx, report); err != nil {
		return fmt.Errorf("store report: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (c *Consumer) Close() {
	c.client.Close()
}
