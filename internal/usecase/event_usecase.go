package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"
)

// maxEventMinutes caps a single meeting at one day.
const maxEventMinutes = 24 * 60

type eventUsecase struct {
	eventRepo domain.EventRepository
}

func NewEventUsecase(eventRepo domain.EventRepository) domain.EventUsecase {
	return &eventUsecase{eventRepo: eventRepo}
}

func (u *eventUsecase) CreateEvent(ctx context.Context, ownerID string, input domain.EventInput) (*domain.EventDefinition, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.BadRequest("Title is required")
	}
	if input.DurationMinutes <= 0 || input.DurationMinutes > maxEventMinutes {
		return nil, apperror.BadRequest(fmt.Sprintf("Duration must be between 1 and %d minutes", maxEventMinutes))
	}
	questions, err := normalizeQuestions(input.Questions)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	event := &domain.EventDefinition{
		OwnerID:         ownerID,
		Title:           title,
		Description:     input.Description,
		DurationMinutes: input.DurationMinutes,
		IsActive:        true,
		ShareToken:      uuid.NewString(),
		Questions:       questions,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if input.IsActive != nil {
		event.IsActive = *input.IsActive
	}
	if input.IsDefault != nil {
		event.IsDefault = *input.IsDefault
	}

	if err := u.eventRepo.Create(ctx, event); err != nil {
		return nil, apperror.Internal(err)
	}
	if event.IsDefault {
		if err := u.eventRepo.ClearDefault(ctx, ownerID, event.ID); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	return event, nil
}

func (u *eventUsecase) ListEvents(ctx context.Context, ownerID string) ([]domain.EventDefinition, error) {
	events, err := u.eventRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return events, nil
}

func (u *eventUsecase) GetEvent(ctx context.Context, ownerID string, id int64) (*domain.EventDefinition, error) {
	event, err := u.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperror.EventNotFound())
	}
	if event.OwnerID != ownerID {
		return nil, apperror.EventNotFound()
	}
	return event, nil
}

// GetPublicEvent resolves an event by its share token. Inactive events are hidden.
func (u *eventUsecase) GetPublicEvent(ctx context.Context, shareToken string) (*domain.EventDefinition, error) {
	event, err := u.eventRepo.GetByShareToken(ctx, shareToken)
	if err != nil {
		return nil, notFoundOr(err, apperror.EventNotFound())
	}
	if !event.IsActive {
		return nil, apperror.EventNotFound()
	}
	return event, nil
}

func (u *eventUsecase) UpdateEvent(ctx context.Context, ownerID string, id int64, input domain.EventInput) (*domain.EventDefinition, error) {
	event, err := u.GetEvent(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		event.Title = title
	}
	if input.Description != nil {
		event.Description = input.Description
	}
	if input.DurationMinutes != 0 {
		if input.DurationMinutes < event.DurationMinutes {
			return nil, apperror.DurationDecrease(fmt.Sprintf(
				"Duration cannot be reduced below the granted %d minutes", event.DurationMinutes))
		}
		if input.DurationMinutes > maxEventMinutes {
			return nil, apperror.BadRequest(fmt.Sprintf("Duration must be between 1 and %d minutes", maxEventMinutes))
		}
		event.DurationMinutes = input.DurationMinutes
	}
	if input.IsActive != nil {
		event.IsActive = *input.IsActive
	}
	if input.IsDefault != nil {
		event.IsDefault = *input.IsDefault
	}
	if input.Questions != nil {
		questions, err := normalizeQuestions(input.Questions)
		if err != nil {
			return nil, err
		}
		event.Questions = questions
	}
	event.UpdatedAt = time.Now()

	if err := u.eventRepo.Update(ctx, event); err != nil {
		return nil, notFoundOr(err, apperror.EventNotFound())
	}
	if event.IsDefault {
		if err := u.eventRepo.ClearDefault(ctx, ownerID, event.ID); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	return event, nil
}

// normalizeQuestions trims keys and labels and rejects blanks and duplicates. Order is kept.
func normalizeQuestions(in []domain.EventQuestion) ([]domain.EventQuestion, error) {
	out := make([]domain.EventQuestion, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, q := range in {
		q.Key = strings.TrimSpace(q.Key)
		q.Label = strings.TrimSpace(q.Label)
		if q.Key == "" || q.Label == "" {
			return nil, apperror.BadRequest("Every question needs a key and a label")
		}
		if seen[q.Key] {
			return nil, apperror.BadRequest(fmt.Sprintf("Duplicate question key %q", q.Key))
		}
		seen[q.Key] = true
		out = append(out, q)
	}
	return out, nil
}
