package postgres

import (
	"context"
	"time"

	"go-interview-scheduler/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const oneAcceptedIndex = "uq_event_invitations_one_accepted"

type invitationRepo struct {
	db *pgxpool.Pool
}

func NewInvitationRepository(db *pgxpool.Pool) domain.InvitationRepository {
	return &invitationRepo{db: db}
}

const invitationColumns = `id, event_id, inviter_id, invitee_id, invitee_email, status, token,
    responded_at, created_at, updated_at`

func scanInvitation(row pgx.Row) (*domain.EventInvitation, error) {
	var i domain.EventInvitation
	if err := row.Scan(
		&i.ID, &i.EventID, &i.InviterID, &i.InviteeID, &i.InviteeEmail, &i.Status, &i.Token,
		&i.RespondedAt, &i.CreatedAt, &i.UpdatedAt,
	); err != nil {
		return nil, rowErr(err)
	}
	return &i, nil
}

func (r *invitationRepo) queryInvitations(ctx context.Context, query string, args ...any) ([]domain.EventInvitation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := []domain.EventInvitation{}
	for rows.Next() {
		i, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, *i)
	}
	return invitations, rows.Err()
}

func (r *invitationRepo) Create(ctx context.Context, invitation *domain.EventInvitation) error {
	query := `INSERT INTO event_invitations
              (event_id, inviter_id, invitee_id, invitee_email, status, token, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return r.db.QueryRow(ctx, query,
		invitation.EventID, invitation.InviterID, invitation.InviteeID, invitation.InviteeEmail,
		invitation.Status, invitation.Token, invitation.CreatedAt, invitation.UpdatedAt,
	).Scan(&invitation.ID)
}

func (r *invitationRepo) GetByID(ctx context.Context, id int64) (*domain.EventInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM event_invitations WHERE id = $1`
	return scanInvitation(r.db.QueryRow(ctx, query, id))
}

func (r *invitationRepo) GetByToken(ctx context.Context, token string) (*domain.EventInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM event_invitations WHERE token = $1`
	return scanInvitation(r.db.QueryRow(ctx, query, token))
}

func (r *invitationRepo) ListByEvent(ctx context.Context, eventID int64) ([]domain.EventInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM event_invitations WHERE event_id = $1 ORDER BY created_at DESC`
	return r.queryInvitations(ctx, query, eventID)
}

// ListForInvitee includes email-only invitations not yet bound to a user.
func (r *invitationRepo) ListForInvitee(ctx context.Context, userID, email string) ([]domain.EventInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM event_invitations
              WHERE invitee_id = $1 OR (invitee_id IS NULL AND lower(invitee_email) = lower($2))
              ORDER BY created_at DESC`
	return r.queryInvitations(ctx, query, userID, email)
}

func (r *invitationRepo) HasOtherAccepted(ctx context.Context, userID string, exceptID int64) (bool, error) {
	query := `SELECT EXISTS (
                  SELECT 1 FROM event_invitations
                  WHERE invitee_id = $1 AND status = 'accepted' AND id <> $2
              )`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, exceptID).Scan(&exists)
	return exists, err
}

// Resolve relies on the partial unique index to settle concurrent acceptances.
func (r *invitationRepo) Resolve(ctx context.Context, id int64, status, inviteeID string) error {
	query := `UPDATE event_invitations
              SET status = $2, invitee_id = $3, responded_at = $4, updated_at = $4
              WHERE id = $1 AND status = 'pending'`
	tag, err := r.db.Exec(ctx, query, id, status, inviteeID, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err, oneAcceptedIndex) {
			return domain.ErrAlreadyAccepted
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
