package postgres

import (
	"context"
	"encoding/json"

	"go-interview-scheduler/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type eventRepo struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) domain.EventRepository {
	return &eventRepo{db: db}
}

const eventColumns = `id, owner_id, title, description, duration_minutes, is_active, is_default,
    share_token, questions, created_at, updated_at`

func scanEvent(row pgx.Row) (*domain.EventDefinition, error) {
	var (
		e         domain.EventDefinition
		questions []byte
	)
	if err := row.Scan(
		&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.DurationMinutes, &e.IsActive, &e.IsDefault,
		&e.ShareToken, &questions, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, rowErr(err)
	}
	e.Questions = []domain.EventQuestion{}
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &e.Questions); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

func (r *eventRepo) queryEvents(ctx context.Context, query string, args ...any) ([]domain.EventDefinition, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.EventDefinition{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func marshalQuestions(questions []domain.EventQuestion) ([]byte, error) {
	if questions == nil {
		questions = []domain.EventQuestion{}
	}
	return json.Marshal(questions)
}

func (r *eventRepo) Create(ctx context.Context, event *domain.EventDefinition) error {
	questions, err := marshalQuestions(event.Questions)
	if err != nil {
		return err
	}
	query := `INSERT INTO event_definitions
              (owner_id, title, description, duration_minutes, is_active, is_default, share_token, questions, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	return r.db.QueryRow(ctx, query,
		event.OwnerID, event.Title, event.Description, event.DurationMinutes, event.IsActive, event.IsDefault,
		event.ShareToken, questions, event.CreatedAt, event.UpdatedAt,
	).Scan(&event.ID)
}

func (r *eventRepo) GetByID(ctx context.Context, id int64) (*domain.EventDefinition, error) {
	query := `SELECT ` + eventColumns + ` FROM event_definitions WHERE id = $1`
	return scanEvent(r.db.QueryRow(ctx, query, id))
}

func (r *eventRepo) GetByShareToken(ctx context.Context, token string) (*domain.EventDefinition, error) {
	query := `SELECT ` + eventColumns + ` FROM event_definitions WHERE share_token = $1`
	return scanEvent(r.db.QueryRow(ctx, query, token))
}

func (r *eventRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.EventDefinition, error) {
	query := `SELECT ` + eventColumns + ` FROM event_definitions WHERE owner_id = $1 ORDER BY is_default DESC, created_at DESC`
	return r.queryEvents(ctx, query, ownerID)
}

func (r *eventRepo) ListByIDs(ctx context.Context, ids []int64) ([]domain.EventDefinition, error) {
	if len(ids) == 0 {
		return []domain.EventDefinition{}, nil
	}
	query := `SELECT ` + eventColumns + ` FROM event_definitions WHERE id = ANY($1) ORDER BY id`
	return r.queryEvents(ctx, query, pq.Array(ids))
}

// Update leaves owner_id and share_token alone.
func (r *eventRepo) Update(ctx context.Context, event *domain.EventDefinition) error {
	questions, err := marshalQuestions(event.Questions)
	if err != nil {
		return err
	}
	query := `UPDATE event_definitions
              SET title = $2, description = $3, duration_minutes = $4, is_active = $5, is_default = $6,
                  questions = $7, updated_at = $8
              WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		event.ID, event.Title, event.Description, event.DurationMinutes, event.IsActive, event.IsDefault,
		questions, event.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepo) ClearDefault(ctx context.Context, ownerID string, keepID int64) error {
	query := `UPDATE event_definitions SET is_default = false, updated_at = now()
              WHERE owner_id = $1 AND id <> $2 AND is_default`
	_, err := r.db.Exec(ctx, query, ownerID, keepID)
	return err
}
