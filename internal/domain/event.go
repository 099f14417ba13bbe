package domain

import (
	"context"
	"time"
)

// EventQuestion is an organiser-defined field collected from the invitee at booking time.
type EventQuestion struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// EventDefinition is a bookable meeting type.
type EventDefinition struct {
	ID              int64           `json:"id"`
	OwnerID         string          `json:"owner_id"`
	Title           string          `json:"title"`
	Description     *string         `json:"description,omitempty"`
	DurationMinutes int             `json:"duration_minutes"` // ceiling; never decreased once granted
	IsActive        bool            `json:"is_active"`
	IsDefault       bool            `json:"is_default"`
	ShareToken      string          `json:"share_token"`
	Questions       []EventQuestion `json:"questions"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type EventInput struct {
	Title           string
	Description     *string
	DurationMinutes int
	IsActive        *bool
	IsDefault       *bool
	Questions       []EventQuestion
}

type EventRepository interface {
	Create(ctx context.Context, event *EventDefinition) error
	GetByID(ctx context.Context, id int64) (*EventDefinition, error)
	GetByShareToken(ctx context.Context, token string) (*EventDefinition, error)
	ListByOwner(ctx context.Context, ownerID string) ([]EventDefinition, error)
	ListByIDs(ctx context.Context, ids []int64) ([]EventDefinition, error)
	Update(ctx context.Context, event *EventDefinition) error
	// ClearDefault unsets is_default on every event of ownerID except keepID
	ClearDefault(ctx context.Context, ownerID string, keepID int64) error
}

type EventUsecase interface {
	CreateEvent(ctx context.Context, ownerID string, input EventInput) (*EventDefinition, error)
	ListEvents(ctx context.Context, ownerID string) ([]EventDefinition, error)
	GetEvent(ctx context.Context, ownerID string, id int64) (*EventDefinition, error)
	GetPublicEvent(ctx context.Context, shareToken string) (*EventDefinition, error)
	UpdateEvent(ctx context.Context, ownerID string, id int64, input EventInput) (*EventDefinition, error)
}
