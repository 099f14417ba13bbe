package outbox

import (
	"context"
	"time"

	"go-interview-scheduler/pkg/kafkax"
	"go-interview-scheduler/pkg/logger"
	"go-interview-scheduler/pkg/otelx"

	"github.com/jackc/pgx/v5"
	"github.com/segmentio/kafka-go"
)

// TxStarter is satisfied by *pgxpool.Pool.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type RelayConfig struct {
	Brokers   string
	PollEvery time.Duration
	BatchSize int
}

// Relay moves committed outbox rows to Kafka.
type Relay struct {
	db        TxStarter
	repo      *Repository
	brokers   []string
	pollEvery time.Duration
	batchSize int
}

func NewRelay(db TxStarter, repo *Repository, cfg RelayConfig) *Relay {
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &Relay{
		db:        db,
		repo:      repo,
		brokers:   kafkax.SplitBrokers(cfg.Brokers),
		pollEvery: cfg.PollEvery,
		batchSize: cfg.BatchSize,
	}
}

// Run blocks until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	if len(r.brokers) == 0 {
		logger.Log.Warn("outbox relay disabled (no kafka brokers configured)")
		return
	}

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  r.brokers,
		Balancer: &kafka.Hash{},
	})
	defer writer.Close()

	ticker := time.NewTicker(r.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.PublishBatch(ctx, writer)
			if err != nil {
				logger.Log.Error("outbox publish failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Log.Debug("outbox batch published", "count", n)
			}
		}
	}
}

// PublishBatch sends one locked batch and marks it published in the same transaction.
// A failed write leaves every row of the batch for the next tick.
func (r *Relay) PublishBatch(ctx context.Context, writer MessageWriter) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	records, err := r.repo.FetchUnpublished(ctx, tx, r.batchSize)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, tx.Commit(ctx)
	}

	msgs := make([]kafka.Message, 0, len(records))
	ids := make([]int64, 0, len(records))
	for _, rcd := range records {
		msgCtx := otelx.ContextWithTraceContext(ctx, rcd.Traceparent, rcd.Tracestate)
		msg := kafka.Message{
			Topic: rcd.EventType,
			Key:   []byte(rcd.AggregateID),
			Value: rcd.Payload,
			Headers: []kafka.Header{
				{Key: kafkax.HeaderEventID, Value: []byte(rcd.EventID)},
				{Key: kafkax.HeaderEventType, Value: []byte(rcd.EventType)},
			},
		}
		msg.Headers = kafkax.InjectTraceHeaders(msgCtx, msg.Headers)
		msgs = append(msgs, msg)
		ids = append(ids, rcd.ID)
	}

	if err := writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, err
	}
	if err := r.repo.MarkPublished(ctx, tx, ids); err != nil {
		return 0, err
	}
	return len(records), tx.Commit(ctx)
}
