package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enerflux/market-import-worker/internal/columns"
	"github.com/enerflux/market-import-worker/internal/config"
	"github.com/enerflux/market-import-worker/internal/ingest"
	"github.com/enerflux/market-import-worker/internal/logging"
	"github.com/enerflux/market-import-worker/internal/mq"
	"github.com/enerflux/market-import-worker/internal/repository"
)

// Dataset labels accepted in import messages.
const (
	DatasetSpotPrices = "spot_prices"
	DatasetFutures    = "futures"
)

// ImportMessage is the envelope the acquisition side (mailbox poller,
// upload endpoint) publishes for each received vendor export.
type ImportMessage struct {
	RequestID string `json:"request_id"`
	Dataset   string `json:"dataset"`
	Sender    string `json:"sender"`
	FileName  string `json:"file_name"`
	CSV       string `json:"csv"`
}

// ImporterService dispatches incoming exports to the matching ingestion
// pipeline and publishes a completion event per run.
type ImporterService struct {
	repo      *repository.Repository
	publisher *mq.Publisher
	spot      *ingest.SpotImporter
	futures   *ingest.FuturesImporter
	cfg       *config.Config
	logger    *zap.Logger
}

// NewImporterService creates a new importer service
func NewImporterService(
	repo *repository.Repository,
	publisher *mq.Publisher,
	spot *ingest.SpotImporter,
	futures *ingest.FuturesImporter,
	cfg *config.Config,
	logger *zap.Logger,
) *ImporterService {
	return &ImporterService{
		repo:      repo,
		publisher: publisher,
		spot:      spot,
		futures:   futures,
		cfg:       cfg,
		logger:    logger,
	}
}

// IngestSpotPrices runs the spot price pipeline over already-parsed rows.
// The actor identity is persisted on every record.
func (s *ImporterService) IngestSpotPrices(ctx context.Context, rows []columns.Row, actor string) (*ingest.Result, error) {
	writer := s.repo.NewBatchWriter()
	return s.spot.Run(ctx, rows, actor, writer)
}

// IngestFutures runs the futures settlement pipeline over raw export text.
func (s *ImporterService) IngestFutures(ctx context.Context, csvText string) ingest.FuturesResult {
	writer := s.repo.NewBatchWriter()
	return s.futures.Run(ctx, csvText, writer)
}

// ProcessMessage handles one import message from the queue. A returned
// error dead-letters the message; re-running the same export later is safe
// because every write is an idempotent merge-upsert.
func (s *ImporterService) ProcessMessage(ctx context.Context, body []byte) error {
	var msg ImportMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal import message: %w", err)
	}
	if msg.RequestID == "" {
		msg.RequestID = uuid.New().String()
	}

	reqLogger := logging.WithRequestID(s.logger, msg.RequestID)
	reqLogger.Info("processing import message",
		zap.String("dataset", msg.Dataset),
		zap.String("file_name", msg.FileName),
		zap.String("sender", msg.Sender),
	)

	switch msg.Dataset {
	case DatasetSpotPrices:
		return s.processSpotPrices(ctx, msg, reqLogger)
	case DatasetFutures:
		return s.processFutures(ctx, msg, reqLogger)
	default:
		return fmt.Errorf("unknown dataset %q", msg.Dataset)
	}
}

func (s *ImporterService) processSpotPrices(ctx context.Context, msg ImportMessage, logger *zap.Logger) error {
	rows, err := ingest.ParseCSV(msg.CSV)
	if err != nil {
		logger.Error("failed to parse spot price export", zap.Error(err))
		return fmt.Errorf("failed to parse spot price export: %w", err)
	}

	actor := "mailbox-import:" + msg.Sender
	result, err := s.IngestSpotPrices(ctx, rows, actor)
	if err != nil {
		logger.Error("spot price import failed", zap.Error(err))
		return fmt.Errorf("spot price import failed: %w", err)
	}

	logger.Info("spot price import finished",
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("parse_fallbacks", result.ParseFallbacks),
	)
	for _, sample := range result.SkippedRows {
		logger.Warn("skipped spot price row",
			zap.Int("row", sample.RowNumber),
			zap.String("reason", sample.Reason),
		)
	}

	s.publishCompleted(ctx, mq.ImportCompletedEvent{
		RequestID:      msg.RequestID,
		Dataset:        DatasetSpotPrices,
		Actor:          actor,
		Processed:      result.Processed,
		Skipped:        result.Skipped,
		ParseFallbacks: result.ParseFallbacks,
	}, logger)

	return nil
}

func (s *ImporterService) processFutures(ctx context.Context, msg ImportMessage, logger *zap.Logger) error {
	result := s.IngestFutures(ctx, msg.CSV)
	if !result.Success {
		logger.Error("futures import failed", zap.String("error", result.Error))
		return fmt.Errorf("futures import failed: %s", result.Error)
	}

	logger.Info("futures import finished", zap.Int("count", result.Count))

	s.publishCompleted(ctx, mq.ImportCompletedEvent{
		RequestID: msg.RequestID,
		Dataset:   DatasetFutures,
		Processed: result.Count,
	}, logger)

	return nil
}

func (s *ImporterService) publishCompleted(ctx context.Context, event mq.ImportCompletedEvent, logger *zap.Logger) {
	// The records are already committed; a publish failure must not fail
	// the message.
	if err := s.publisher.PublishImportCompleted(ctx, event, s.cfg.RabbitMQ.EventsRoutingKey); err != nil {
		logger.Error("failed to publish import completed event",
			zap.Error(err),
			zap.String("dataset", event.Dataset),
		)
	}
}
