package postgres

import (
	"context"

	"go-interview-scheduler/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type availabilityRepo struct {
	db *pgxpool.Pool
}

func NewAvailabilityRepository(db *pgxpool.Pool) domain.AvailabilityRepository {
	return &availabilityRepo{db: db}
}

const profileColumns = `id, owner_id, title, timezone, share_token, created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.AvailabilityProfile, error) {
	var p domain.AvailabilityProfile
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Timezone, &p.ShareToken, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, rowErr(err)
	}
	return &p, nil
}

func (r *availabilityRepo) Create(ctx context.Context, profile *domain.AvailabilityProfile) error {
	query := `INSERT INTO availability_profiles (owner_id, title, timezone, share_token, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRow(ctx, query,
		profile.OwnerID, profile.Title, profile.Timezone, profile.ShareToken, profile.CreatedAt, profile.UpdatedAt,
	).Scan(&profile.ID)
}

func (r *availabilityRepo) GetByID(ctx context.Context, id int64) (*domain.AvailabilityProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM availability_profiles WHERE id = $1`
	return scanProfile(r.db.QueryRow(ctx, query, id))
}

func (r *availabilityRepo) GetByShareToken(ctx context.Context, token string) (*domain.AvailabilityProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM availability_profiles WHERE share_token = $1`
	return scanProfile(r.db.QueryRow(ctx, query, token))
}

func (r *availabilityRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.AvailabilityProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM availability_profiles WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []domain.AvailabilityProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// Update never touches share_token.
func (r *availabilityRepo) Update(ctx context.Context, profile *domain.AvailabilityProfile) error {
	query := `UPDATE availability_profiles SET title = $2, timezone = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, profile.ID, profile.Title, profile.Timezone, profile.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete cascades to windows and event links.
func (r *availabilityRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM availability_profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *availabilityRepo) LinkEvent(ctx context.Context, profileID, eventID int64) error {
	query := `INSERT INTO availability_event_links (availability_id, event_id) VALUES ($1, $2)`
	if _, err := r.db.Exec(ctx, query, profileID, eventID); err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *availabilityRepo) UnlinkEvent(ctx context.Context, profileID, eventID int64) error {
	query := `DELETE FROM availability_event_links WHERE availability_id = $1 AND event_id = $2`
	tag, err := r.db.Exec(ctx, query, profileID, eventID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *availabilityRepo) ListLinkedEventIDs(ctx context.Context, profileID int64) ([]int64, error) {
	query := `SELECT event_id FROM availability_event_links WHERE availability_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
