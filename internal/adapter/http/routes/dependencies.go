package routes

import (
	"context"
	"fmt"

	"mecanica_jobs/internal/adapter/persistence/repository"
	"mecanica_jobs/internal/config"
	"mecanica_jobs/internal/infrastructure/database"
	"mecanica_jobs/internal/infrastructure/messaging"
	"mecanica_jobs/internal/infrastructure/observability"
	"mecanica_jobs/internal/infrastructure/payments"
	"mecanica_jobs/internal/infrastructure/storage"
	"mecanica_jobs/internal/usecase"
	"mecanica_jobs/internal/usecase/interfaces"
	"mecanica_jobs/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Dependencies is the wired façade plus the clients that need closing.
type Dependencies struct {
	Jobs    *usecase.JobUseCase
	closers []func() error
}

func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		_ = d.closers[i]()
	}
}

// BuildDependencies constructs every client named by cfg and hands them to
// the façade. metrics may be nil.
func BuildDependencies(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) (*Dependencies, error) {
	deps := &Dependencies{}

	repo, err := buildJobRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	evidence, err := buildEvidenceStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var (
		notifier interfaces.INotificationSink
		feed     interfaces.IChangeFeed
	)
	if cfg.RedisAddr != "" {
		rdb, err := messaging.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, rdb.Close)
		notifier, feed = redisMessaging(rdb, cfg)
	} else {
		logger.Warn(ctx, "[deps] REDIS_ADDR not set; notifications disabled, change feed is in-process")
		feed = messaging.NewMemoryChangeFeed()
	}

	var gateway interfaces.IPaymentGateway
	mp, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoAccessToken, cfg.PaymentGatewayMock)
	if err != nil {
		logger.Warn(ctx, "[deps] Mercado Pago gateway not configured; payments are skipped", "err", err)
	} else {
		gateway = mp
	}

	opts := []usecase.Option{}
	if metrics != nil {
		opts = append(opts, usecase.WithMetrics(metrics))
	}
	deps.Jobs = usecase.NewJobUseCase(repo, evidence, notifier, feed, gateway, policyFromConfig(cfg.Fees), opts...)
	return deps, nil
}

func buildJobRepository(ctx context.Context, cfg *config.Config) (interfaces.IJobRepository, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn(ctx, "[deps] using in-memory job storage")
		return repository.NewJobMemoryRepository(), nil
	}
	ddb, err := database.ConnectDynamoDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("dynamodb: %w", err)
	}
	if cfg.DynamoDBAutoCreate {
		if err := database.EnsureJobsTable(ctx, ddb, cfg.JobsTable); err != nil {
			return nil, fmt.Errorf("ensure jobs table: %w", err)
		}
	}
	return repository.NewJobDynamoRepository(ddb, cfg.JobsTable), nil
}

func buildEvidenceStore(ctx context.Context, cfg *config.Config) (interfaces.IEvidenceStore, error) {
	if cfg.StorageDriver == config.StorageMemory && cfg.MinioEndpoint == "" {
		logger.Warn(ctx, "[deps] using in-memory evidence storage")
		return storage.NewMemoryEvidenceStore(), nil
	}
	if cfg.MinioEndpoint == "" {
		return nil, fmt.Errorf("evidence store: MINIO_ENDPOINT is required with STORAGE_DRIVER=%s", cfg.StorageDriver)
	}
	store, err := storage.NewMinioEvidenceStore(storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("evidence bucket: %w", err)
	}
	return store, nil
}

func redisMessaging(rdb *redis.Client, cfg *config.Config) (interfaces.INotificationSink, interfaces.IChangeFeed) {
	return messaging.NewRedisNotificationSink(rdb, cfg.NotificationStream, 0),
		messaging.NewRedisChangeFeed(rdb, cfg.ChangeFeedPrefix)
}

func policyFromConfig(fees config.FeePolicy) usecase.Policy {
	p := usecase.DefaultPolicy()
	p.Rates = fees.Rates()
	p.Cancellation = fees.CancellationPolicy()
	p.ApprovalWindow = fees.LineItemApprovalWindow
	p.AcknowledgementVersion = fees.AcknowledgementVersion
	p.MaxPendingLineItems = fees.MaxPendingLineItems
	return p
}
