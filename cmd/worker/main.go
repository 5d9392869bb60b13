// Command worker consumes evaluation jobs from the Redpanda queue,
// runs the evaluation pipeline, and persists finished reports.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/prepwise/ai-interview-evaluator/internal/adapter/ai"
	"github.com/prepwise/ai-interview-evaluator/internal/adapter/ai/gemini"
	"github.com/prepwise/ai-interview-evaluator/internal/adapter/observability"
	"github.com/prepwise/ai-interview-evaluator/internal/adapter/queue/redpanda"
	"github.com/prepwise/ai-interview-evaluator/internal/adapter/repo/postgres"
	"github.com/prepwise/ai-interview-evaluator/internal/config"
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
	"github.com/prepwise/ai-interview-evaluator/internal/service/signal"
	"github.com/prepwise/ai-interview-evaluator/internal/usecase"
)

const consumerGroup = "interview-evaluator-workers"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: ":9090", Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker metrics server error", slog.Any("error", err))
		}
	}()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	slog.Info("starting worker", slog.String("env", cfg.AppEnv))

	pool, err := postgres.NewPool(context.Background(), cfg.DBURL)
	if err != nil {
		slog.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	jobRepo := postgres.NewJobRepo(pool)
	interviewRepo := postgres.NewInterviewRepo(pool)
	reportRepo := postgres.NewReportRepo(pool)

	var gen domain.TextGenerator = gemini.New(cfg)
	if cfg.RedisURL != "" && cfg.GenCacheTTL > 0 {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid redis url", slog.Any("error", err))
			os.Exit(1)
		}
		gen = ai.NewGenerationCache(gen, redis.NewClient(opts), cfg.GenCacheTTL)
	}

	// The embeddings endpoint shares the Gemini credentials; without a key
	// the deterministic hash embedder stands in.
	var emb domain.Embedder
	if cfg.GeminiAPIKey != "" {
		emb = gemini.New(cfg)
	} else {
		slog.Warn("no generation api key, using hash embedder")
		emb = ai.NewHashEmbedder(64)
	}

	pipeline := usecase.NewPipeline(gen, emb, signal.NewRandom(time.Now().UnixNano()))

	consumer, err := redpanda.NewConsumer(cfg.KafkaBrokers, consumerGroup, pipeline, jobRepo, interviewRepo, reportRepo)
	if err != nil {
		slog.Error("redpanda consumer connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, stop := ossignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("worker consuming", slog.String("group", consumerGroup))
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("consumer stopped", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("worker shut down cleanly")
}
