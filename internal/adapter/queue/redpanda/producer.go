// Package redpanda moves evaluation tasks between the API and the
// worker over a Redpanda/Kafka topic.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/prepwise/ai-interview-evaluator/internal/domain"
)

// TopicEvaluate carries one message per evaluation run.
const TopicEvaluate = "interview-evaluate-jobs"

// Producer wraps a Kafka producer and implements domain.Queue.
type Producer struct {
	client *kgo.Client
}

// NewProducer connects to the brokers and ensures the evaluate topic
// exists. Delivery is at-least-once; the worker's report upsert makes
// redelivered tasks harmless.
func NewProducer(brokers []string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.RequestRetries(10),
		kgo.ProducerBatchMaxBytes(1_000_000),
	)
	if err != nil {
		return nil, fmt.Errorf("redpanda client: %w", err)
	}
	if err := createTopicIfNotExists(context.Background(), client, TopicEvaluate, 1, 1); err != nil {
		slog.Warn("ensure topic failed", slog.String("topic", TopicEvaluate), slog.Any("error", err))
	}
	return &Producer{client: client}, nil
}

// EnqueueEvaluate publishes one evaluation task and returns its task id.
func (p *Producer) EnqueueEvaluate(ctx domain.Context, payload domain.EvaluateTaskPayload) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	taskID := ulid.Make().String()
	record := &kgo.Record{
		Topic: TopicEvaluate,
		Key:   []byte(payload.JobID),
		Value: b,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return "", fmt.Errorf("produce evaluate task: %w", err)
	}
	slog.Info("evaluate task enqueued",
		slog.String("task_id", taskID),
		slog.String("job_id", payload.JobID),
		slog.String("interview_id", payload.InterviewID))
	return taskID, nil
}

// Close flushes buffered records and releases the underlying client.
func (p *Producer) Close() error {
	if p.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := p.client.Flush(ctx)
	p.client.Close()
	if err != nil {
		return fmt.Errorf("flush producer: %w", err)
	}
	return nil
}
