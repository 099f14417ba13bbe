package calendarsync

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresLinks struct {
	pool *pgxpool.Pool
}

func NewPostgresLinks(pool *pgxpool.Pool) *PostgresLinks {
	return &PostgresLinks{pool: pool}
}

func (r *PostgresLinks) Get(ctx context.Context, interviewID int64) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx,
		`SELECT calendar_event_id FROM calendar_links WHERE interview_id = $1`, interviewID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNoLink
	}
	return id, err
}

func (r *PostgresLinks) Save(ctx context.Context, interviewID int64, calendarEventID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO calendar_links (interview_id, calendar_event_id, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (interview_id) DO UPDATE
		SET calendar_event_id = EXCLUDED.calendar_event_id, updated_at = NOW()
	`, interviewID, calendarEventID)
	return err
}
