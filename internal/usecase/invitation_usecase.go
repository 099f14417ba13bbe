package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"
	"go-interview-scheduler/pkg/logger"
)

type invitationUsecase struct {
	invitationRepo domain.InvitationRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	publisher      domain.EventPublisher
}

func NewInvitationUsecase(
	invitationRepo domain.InvitationRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	publisher domain.EventPublisher,
) domain.InvitationUsecase {
	return &invitationUsecase{
		invitationRepo: invitationRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		publisher:      publisher,
	}
}

// ownedEvent returns EventNotFound unless the event exists and belongs to ownerID.
func (u *invitationUsecase) ownedEvent(ctx context.Context, eventID int64, ownerID string) (*domain.EventDefinition, error) {
	event, err := u.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFoundOr(err, apperror.EventNotFound())
	}
	if event.OwnerID != ownerID {
		return nil, apperror.EventNotFound()
	}
	return event, nil
}

func (u *invitationUsecase) Invite(ctx context.Context, eventID int64, inviterID, inviteeEmailOrID string) (*domain.EventInvitation, error) {
	event, err := u.ownedEvent(ctx, eventID, inviterID)
	if err != nil {
		return nil, err
	}

	target := strings.TrimSpace(inviteeEmailOrID)
	if target == "" {
		return nil, apperror.BadRequest("Invitee email or id is required")
	}

	now := time.Now()
	invitation := &domain.EventInvitation{
		EventID:   event.ID,
		InviterID: inviterID,
		Status:    domain.InvitationStatusPending,
		Token:     uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if strings.Contains(target, "@") {
		email := strings.ToLower(target)
		invitation.InviteeEmail = &email
		// bind to a known account when there is one
		if user, err := u.userRepo.GetByEmail(ctx, email); err == nil {
			invitation.InviteeID = &user.ID
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
	} else {
		user, err := u.userRepo.GetByID(ctx, target)
		if err != nil {
			return nil, notFoundOr(err, apperror.NotFound("Invitee not found"))
		}
		invitation.InviteeID = &user.ID
		if user.Email != "" {
			email := strings.ToLower(user.Email)
			invitation.InviteeEmail = &email
		}
	}

	if invitation.InviteeID != nil && *invitation.InviteeID == inviterID {
		return nil, apperror.BadRequest("You cannot invite yourself")
	}

	if err := u.invitationRepo.Create(ctx, invitation); err != nil {
		return nil, apperror.Internal(err)
	}

	u.publishCreated(ctx, invitation, event)
	return invitation, nil
}

func (u *invitationUsecase) publishCreated(ctx context.Context, invitation *domain.EventInvitation, event *domain.EventDefinition) {
	inviter := domain.Participant{ID: invitation.InviterID}
	if user, err := u.userRepo.GetByID(ctx, invitation.InviterID); err == nil {
		inviter = participantOf(user, "")
	}

	err := u.publisher.Publish(ctx, domain.DomainEvent{
		Type:          domain.TopicInvitationCreated,
		AggregateType: domain.AggregateInvitation,
		AggregateID:   idString(invitation.ID),
		Payload: domain.InvitationEventPayload{
			Invitation: *invitation,
			EventTitle: event.Title,
			Inviter:    inviter,
		},
	})
	if err != nil {
		logger.Log.Error("failed to publish invitation event",
			"invitation_id", invitation.ID,
			"error", err,
		)
	}
}

// Respond resolves a pending invitation addressed to actorID. Accepting while the actor
// already holds a different accepted invitation marks this one invalid instead.
func (u *invitationUsecase) Respond(ctx context.Context, invitationID int64, status, actorID string) (*domain.EventInvitation, error) {
	if status != domain.InvitationStatusAccepted && status != domain.InvitationStatusDeclined {
		return nil, apperror.BadRequest("Status must be accepted or declined")
	}

	invitation, err := u.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, notFoundOr(err, apperror.NotFound("Invitation not found"))
	}

	var email string
	if user, err := u.userRepo.GetByID(ctx, actorID); err == nil {
		email = user.Email
	}
	if invitation.Status != domain.InvitationStatusPending || !invitation.AddressedTo(actorID, email) {
		return nil, apperror.NotFound("Invitation not found")
	}

	final := status
	if status == domain.InvitationStatusAccepted {
		taken, err := u.invitationRepo.HasOtherAccepted(ctx, actorID, invitation.ID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if taken {
			final = domain.InvitationStatusInvalid
		}
	}

	err = u.invitationRepo.Resolve(ctx, invitation.ID, final, actorID)
	if errors.Is(err, domain.ErrAlreadyAccepted) {
		// lost a race against another acceptance
		final = domain.InvitationStatusInvalid
		err = u.invitationRepo.Resolve(ctx, invitation.ID, final, actorID)
	}
	if err != nil {
		return nil, notFoundOr(err, apperror.NotFound("Invitation not found"))
	}

	now := time.Now()
	invitation.Status = final
	invitation.InviteeID = &actorID
	invitation.RespondedAt = &now
	invitation.UpdatedAt = now
	return invitation, nil
}

func (u *invitationUsecase) GetByToken(ctx context.Context, token string) (*domain.InvitationDetail, error) {
	invitation, err := u.invitationRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, notFoundOr(err, apperror.NotFound("Invitation not found"))
	}
	event, err := u.eventRepo.GetByID(ctx, invitation.EventID)
	if err != nil {
		return nil, notFoundOr(err, apperror.EventNotFound())
	}
	return &domain.InvitationDetail{Invitation: invitation, Event: event}, nil
}

func (u *invitationUsecase) ListSent(ctx context.Context, inviterID string, eventID int64) ([]domain.EventInvitation, error) {
	if _, err := u.ownedEvent(ctx, eventID, inviterID); err != nil {
		return nil, err
	}
	invitations, err := u.invitationRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return invitations, nil
}

func (u *invitationUsecase) ListReceived(ctx context.Context, actorID string) ([]domain.EventInvitation, error) {
	var email string
	if user, err := u.userRepo.GetByID(ctx, actorID); err == nil {
		email = user.Email
	}
	invitations, err := u.invitationRepo.ListForInvitee(ctx, actorID, email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return invitations, nil
}
