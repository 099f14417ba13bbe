package consumer

import (
	"context"
	"time"

	"go-interview-scheduler/pkg/kafkax"
	"go-interview-scheduler/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Handler processes one delivered message.
type Handler func(ctx context.Context, msg kafka.Message) error

// Inbox records which events a consumer already handled. Record reports
// false for a duplicate.
type Inbox interface {
	Record(ctx context.Context, eventID, consumer, eventType string) (bool, error)
	Forget(ctx context.Context, eventID, consumer string) error
}

// MessageReader is satisfied by *kafka.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Config struct {
	Name    string // consumer name, also the inbox scope
	Brokers string
	GroupID string
	Topics  []string
}

type Consumer struct {
	name    string
	reader  MessageReader
	inbox   Inbox
	handler Handler

	// retry delay after a failed delivery, doubled up to maxBackoff
	backoff    time.Duration
	maxBackoff time.Duration
}

func New(cfg Config, inbox Inbox, handler Handler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     kafkax.SplitBrokers(cfg.Brokers),
		GroupID:     cfg.GroupID,
		GroupTopics: cfg.Topics,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return NewWithReader(cfg.Name, reader, inbox, handler)
}

func NewWithReader(name string, reader MessageReader, inbox Inbox, handler Handler) *Consumer {
	return &Consumer{
		name:       name,
		reader:     reader,
		inbox:      inbox,
		handler:    handler,
		backoff:    time.Second,
		maxBackoff: time.Minute,
	}
}

// Run fetches until ctx is cancelled. An offset is committed only once its
// message was handled, so a failing message is retried in place and is redelivered
// after a restart.
func (c *Consumer) Run(ctx context.Context) {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Log.Error("kafka fetch error", "consumer", c.name, "error", err)
			if !sleep(ctx, time.Second) {
				return
			}
			continue
		}
		if !c.deliver(ctx, msg) {
			return
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Log.Error("kafka commit error", "consumer", c.name, "topic", msg.Topic, "offset", msg.Offset, "error", err)
		}
	}
}

// deliver retries msg until it is handled or permanently rejected. It reports
// false when ctx ended first, in which case msg must not be committed.
func (c *Consumer) deliver(ctx context.Context, msg kafka.Message) bool {
	delay := c.backoff
	for attempt := 1; ; attempt++ {
		err := c.Process(ctx, msg)
		if err == nil {
			return true
		}
		if kafkax.IsPermanent(err) {
			logger.Log.Error("dropping undeliverable event",
				"consumer", c.name,
				"topic", msg.Topic,
				"offset", msg.Offset,
				"error", err,
			)
			return true
		}
		logger.Log.Warn("event delivery failed, retrying",
			"consumer", c.name,
			"topic", msg.Topic,
			"offset", msg.Offset,
			"attempt", attempt,
			"retry_in", delay.String(),
		)
		if !sleep(ctx, delay) {
			return false
		}
		delay *= 2
		if delay > c.maxBackoff {
			delay = c.maxBackoff
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// Process handles one message at most once per consumer. A handler failure
// releases the inbox entry so the next attempt runs the handler again.
func (c *Consumer) Process(ctx context.Context, msg kafka.Message) error {
	msgCtx := kafkax.ExtractTraceContext(ctx, msg)
	spanCtx, span := otel.Tracer("kafka").Start(msgCtx, "kafka.consume",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", msg.Topic),
			attribute.String("messaging.consumer", c.name),
		),
	)
	defer span.End()

	meta := kafkax.ExtractEventMeta(msg)

	fresh, err := c.inbox.Record(spanCtx, meta.EventID, c.name, meta.EventType)
	if err != nil {
		logger.Log.Error("inbox record failed", "consumer", c.name, "event_id", meta.EventID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "inbox")
		return err
	}
	if !fresh {
		logger.Log.Info("duplicate event ignored", "consumer", c.name, "event_id", meta.EventID, "event_type", meta.EventType)
		return nil
	}

	if err := c.handler(spanCtx, msg); err != nil {
		logger.Log.Error("handler error", "consumer", c.name, "event_id", meta.EventID, "event_type", meta.EventType, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "handler")
		if forgetErr := c.inbox.Forget(spanCtx, meta.EventID, c.name); forgetErr != nil {
			logger.Log.Error("inbox release failed", "consumer", c.name, "event_id", meta.EventID, "error", forgetErr)
		}
		return err
	}
	return nil
}
