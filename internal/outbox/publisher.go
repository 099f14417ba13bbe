package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"go-interview-scheduler/internal/domain"
)

// Publisher implements domain.EventPublisher by appending to the outbox table.
type Publisher struct {
	db   Execer
	repo *Repository
}

func NewPublisher(db Execer, repo *Repository) *Publisher {
	return &Publisher{db: db, repo: repo}
}

var _ domain.EventPublisher = (*Publisher)(nil)

func (p *Publisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	if event.Type == "" || event.AggregateID == "" {
		return fmt.Errorf("outbox: event type and aggregate id are required")
	}
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("outbox: encode %s payload: %w", event.Type, err)
	}
	return p.repo.Insert(ctx, p.db, Event{
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.Type,
		Payload:       payload,
	})
}
