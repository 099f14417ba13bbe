package domain

import (
	"context"
	"strings"
	"time"
)

// Invitation status constants
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"
	InvitationStatusInvalid  = "invalid"
)

// EventInvitation invites one person to an event definition without slot discovery.
// Status flow: pending → accepted / declined / invalid, all terminal.
type EventInvitation struct {
	ID           int64      `json:"id"`
	EventID      int64      `json:"event_id"`
	InviterID    string     `json:"inviter_id"`
	InviteeID    *string    `json:"invitee_id,omitempty"`
	InviteeEmail *string    `json:"invitee_email,omitempty"`
	Status       string     `json:"status"`
	Token        string     `json:"token"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AddressedTo reports whether the invitation targets the given user.
func (i *EventInvitation) AddressedTo(userID, email string) bool {
	if i.InviteeID != nil && *i.InviteeID == userID {
		return true
	}
	return i.InviteeID == nil && i.InviteeEmail != nil && email != "" && equalFoldEmail(*i.InviteeEmail, email)
}

func equalFoldEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// InvitationDetail is what the anonymous token lookup returns.
type InvitationDetail struct {
	Invitation *EventInvitation `json:"invitation"`
	Event      *EventDefinition `json:"event"`
}

type InvitationRepository interface {
	Create(ctx context.Context, invitation *EventInvitation) error
	GetByID(ctx context.Context, id int64) (*EventInvitation, error)
	GetByToken(ctx context.Context, token string) (*EventInvitation, error)
	ListByEvent(ctx context.Context, eventID int64) ([]EventInvitation, error)
	ListForInvitee(ctx context.Context, userID, email string) ([]EventInvitation, error)
	// HasOtherAccepted reports an accepted invitation for the user other than exceptID
	HasOtherAccepted(ctx context.Context, userID string, exceptID int64) (bool, error)
	// Resolve moves a pending invitation to status and binds it to inviteeID.
	// Returns ErrNotFound when it is no longer pending and ErrAlreadyAccepted
	// when the user already holds an accepted invitation.
	Resolve(ctx context.Context, id int64, status, inviteeID string) error
}

type InvitationUsecase interface {
	Invite(ctx context.Context, eventID int64, inviterID, inviteeEmailOrID string) (*EventInvitation, error)
	Respond(ctx context.Context, invitationID int64, status, actorID string) (*EventInvitation, error)
	GetByToken(ctx context.Context, token string) (*InvitationDetail, error)
	ListSent(ctx context.Context, inviterID string, eventID int64) ([]EventInvitation, error)
	ListReceived(ctx context.Context, actorID string) ([]EventInvitation, error)
}
