// Command sweeper periodically auto-rejects pending line items whose approval
// window has expired.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mecanica_jobs/internal/adapter/http/routes"
	"mecanica_jobs/internal/config"
	"mecanica_jobs/internal/infrastructure/observability"
	"mecanica_jobs/internal/usecase"
	"mecanica_jobs/pkg/logger"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error(context.Background(), "[sweeper] invalid configuration", "err", err)
		os.Exit(1)
	}
	logger.Init(&logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.ServiceName+"-sweeper", cfg.OTLPEndpoint)
	if err != nil {
		logger.Error(ctx, "[sweeper] tracing", "err", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	deps, err := routes.BuildDependencies(ctx, cfg, observability.NewMetrics(prometheus.DefaultRegisterer))
	if err != nil {
		logger.Error(ctx, "[sweeper] dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	run(ctx, deps.Jobs, cfg.SweepInterval)
}

func run(ctx context.Context, jobs usecase.IJobUseCase, interval time.Duration) {
	logger.Info(ctx, "[sweeper] started", "interval", interval.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		sweepOnce(ctx, jobs)
		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			logger.Info(context.Background(), "[sweeper] stopped")
			return
		}
	}
}

func sweepOnce(ctx context.Context, jobs usecase.IJobUseCase) {
	res, err := jobs.SweepExpiredLineItems(ctx)
	if err != nil {
		logger.Error(ctx, "[sweeper] sweep failed", "err", err)
		return
	}
	if res.AutoRejected > 0 || res.Failed > 0 {
		logger.Info(ctx, "[sweeper] sweep done", "jobs", res.Jobs, "auto_rejected", res.AutoRejected, "failed", res.Failed)
	}
}
