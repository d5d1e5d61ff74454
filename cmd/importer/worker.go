package main

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/enerflux/market-import-worker/internal/config"
	"github.com/enerflux/market-import-worker/internal/db"
	"github.com/enerflux/market-import-worker/internal/ingest"
	"github.com/enerflux/market-import-worker/internal/mq"
	"github.com/enerflux/market-import-worker/internal/quality"
	"github.com/enerflux/market-import-worker/internal/repository"
	"github.com/enerflux/market-import-worker/internal/service"
)

func startWorker(
	lc fx.Lifecycle,
	conn *mq.Connection,
	cfg *config.Config,
	logger *zap.Logger,
	importer *service.ImporterService,
) (*mq.Consumer, error) {
	// Create context for consumer that will be cancelled on shutdown
	ctx, cancel := context.WithCancel(context.Background())

	consumer, err := mq.NewConsumer(mq.ConsumerConfig{
		Connection:       conn,
		Queue:            cfg.RabbitMQ.ImportQueue,
		DLQQueue:         cfg.RabbitMQ.DLQQueue,
		Exchange:         cfg.RabbitMQ.ImportExchange,
		RoutingKey:       cfg.RabbitMQ.ImportRoutingKey,
		PrefetchCount:    cfg.RabbitMQ.PrefetchCount,
		Logger:           logger,
		MessageProcessor: importer.ProcessMessage,
	})
	if err != nil {
		cancel()
		return nil, err
	}

	// Register lifecycle hooks
	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			logger.Info("starting import consumer",
				zap.String("queue", cfg.RabbitMQ.ImportQueue),
				zap.Int("prefetch", cfg.RabbitMQ.PrefetchCount))
			return consumer.Start(ctx)
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			if err := consumer.Close(); err != nil {
				logger.Error("failed to close consumer", zap.Error(err))
				return err
			}
			logger.Info("worker stopped gracefully")
			return nil
		},
	})

	return consumer, nil
}

// ProvideRepository creates a new repository instance
func ProvideRepository(pool *db.Pool) *repository.Repository {
	return repository.NewRepository(pool)
}

// ProvideQualityChecker creates the advisory price quality checker
func ProvideQualityChecker(cfg *config.Config) *quality.Checker {
	return quality.NewChecker(cfg.Quality.SpikeThreshold, cfg.Quality.MinDataPoints)
}

// ProvideSpotImporter creates the spot price pipeline driver
func ProvideSpotImporter(checker *quality.Checker, cfg *config.Config, logger *zap.Logger) *ingest.SpotImporter {
	return ingest.NewSpotImporter(checker, cfg.Import.StrictNumbers, logger)
}

// ProvideFuturesImporter creates the futures settlement pipeline driver
func ProvideFuturesImporter(logger *zap.Logger) *ingest.FuturesImporter {
	return ingest.NewFuturesImporter(logger)
}

// ProvidePublisher creates a new publisher instance
func ProvidePublisher(conn *mq.Connection, cfg *config.Config, logger *zap.Logger) (*mq.Publisher, error) {
	return mq.NewPublisher(conn, cfg.RabbitMQ.EventsExchange, logger)
}

// ProvideImporterService creates a new importer service instance
func ProvideImporterService(
	repo *repository.Repository,
	publisher *mq.Publisher,
	spot *ingest.SpotImporter,
	futures *ingest.FuturesImporter,
	cfg *config.Config,
	logger *zap.Logger,
) *service.ImporterService {
	return service.NewImporterService(repo, publisher, spot, futures, cfg, logger)
}

// ProvideDBPool creates a new database pool instance
func ProvideDBPool(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (*db.Pool, error) {
	return db.NewPool(lc, logger, cfg.Database.URL)
}

// ProvideMQConnection creates a new RabbitMQ connection instance
func ProvideMQConnection(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (*mq.Connection, error) {
	return mq.NewConnection(lc, logger, cfg.RabbitMQ.URL)
}
