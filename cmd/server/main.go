// Command server starts the AI interview evaluator HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prepwise/ai-interview-evaluator/internal/adapter/ai"
	"github.com/prepwise/ai-interview-evaluator/internal/adapter/ai/gemini"
	"github.com/prepwise/ai-interview-evaluator/internal/adapter/httpserver"
	"github.com/prepwise/ai-interview-evaluator/internal/adapter/observability"
	"github.com/prepwise/ai-interview-evaluator/internal/adapter/queue/redpanda"
	"github.com/prepwise/ai-interview-evaluator/internal/adapter/repo/postgres"
	"github.com/prepwise/ai-interview-evaluator/internal/app"
	"github.com/prepwise/ai-interview-evaluator/internal/config"
	"github.com/prepwise/ai-interview-evaluator/internal/domain"
	"github.com/prepwise/ai-interview-evaluator/internal/usecase"
)

// redisAdapter narrows *redis.Client to the readiness interface.
type redisAdapter struct{ *redis.Client }

func (r redisAdapter) Ping(ctx context.Context) app.RedisPingResult { return r.Client.Ping(ctx) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	interviewRepo := postgres.NewInterviewRepo(pool)
	jobRepo := postgres.NewJobRepo(pool)
	reportRepo := postgres.NewReportRepo(pool)

	producer, err := redpanda.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		slog.Error("redpanda producer connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			slog.Error("failed to close queue producer", slog.Any("error", err))
		}
	}()

	// Optional Redis cache in front of the generation client.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid redis url", slog.Any("error", err))
			os.Exit(1)
		}
		rdb = redis.NewClient(opts)
	}

	var gen domain.TextGenerator = gemini.New(cfg)
	if rdb != nil && cfg.GenCacheTTL > 0 {
		gen = ai.NewGenerationCache(gen, rdb, cfg.GenCacheTTL)
	}

	bank, err := config.LoadQuestionBank()
	if err != nil {
		slog.Error("question bank load failed", slog.Any("error", err))
		os.Exit(1)
	}

	interviewSvc := usecase.NewInterviewService(gen, interviewRepo, bank)
	evalSvc := usecase.NewEvaluateService(jobRepo, producer, interviewRepo)
	resultSvc := usecase.NewResultService(jobRepo, reportRepo)

	var redisCheckClient app.RedisClient
	if rdb != nil {
		redisCheckClient = redisAdapter{rdb}
	}
	dbCheck, redisCheck := app.BuildReadinessChecks(pool, redisCheckClient)
	if rdb == nil {
		redisCheck = nil
	}

	srv := httpserver.NewServer(cfg, interviewSvc, evalSvc, resultSvc, dbCheck, redisCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
