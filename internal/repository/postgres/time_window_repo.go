package postgres

import (
	"context"
	"fmt"
	"time"

	"go-interview-scheduler/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type timeWindowRepo struct {
	db *pgxpool.Pool
}

func NewTimeWindowRepository(db *pgxpool.Pool) domain.TimeWindowRepository {
	return &timeWindowRepo{db: db}
}

const windowColumns = `id, profile_id, start_time, end_time, weekday, specific_date, created_at, updated_at`

func scanWindow(row pgx.Row) (*domain.TimeWindow, error) {
	var (
		w        domain.TimeWindow
		weekday  *int16
		specific *time.Time
	)
	if err := row.Scan(&w.ID, &w.ProfileID, &w.StartTime, &w.EndTime, &weekday, &specific, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, rowErr(err)
	}
	w.StartTime = w.StartTime.UTC()
	w.EndTime = w.EndTime.UTC()
	if weekday != nil {
		v := int(*weekday)
		w.Weekday = &v
	}
	if specific != nil {
		s := formatDate(*specific)
		w.SpecificDate = &s
	}
	return &w, nil
}

// windowArgs converts the optional recurrence fields to column values.
func windowArgs(w *domain.TimeWindow) (any, any, error) {
	var weekday, specific any
	if w.Weekday != nil {
		weekday = int16(*w.Weekday)
	}
	if w.SpecificDate != nil {
		d, err := parseDate(*w.SpecificDate)
		if err != nil {
			return nil, nil, fmt.Errorf("specific date %q: %w", *w.SpecificDate, err)
		}
		specific = d
	}
	return weekday, specific, nil
}

func (r *timeWindowRepo) Create(ctx context.Context, window *domain.TimeWindow) error {
	weekday, specific, err := windowArgs(window)
	if err != nil {
		return err
	}
	query := `INSERT INTO time_windows (profile_id, start_time, end_time, weekday, specific_date, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRow(ctx, query,
		window.ProfileID, window.StartTime, window.EndTime, weekday, specific, window.CreatedAt, window.UpdatedAt,
	).Scan(&window.ID)
}

func (r *timeWindowRepo) GetByID(ctx context.Context, id int64) (*domain.TimeWindow, error) {
	query := `SELECT ` + windowColumns + ` FROM time_windows WHERE id = $1`
	return scanWindow(r.db.QueryRow(ctx, query, id))
}

func (r *timeWindowRepo) ListByProfile(ctx context.Context, profileID int64) ([]domain.TimeWindow, error) {
	query := `SELECT ` + windowColumns + ` FROM time_windows WHERE profile_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	windows := []domain.TimeWindow{}
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, *w)
	}
	return windows, rows.Err()
}

func (r *timeWindowRepo) Update(ctx context.Context, window *domain.TimeWindow) error {
	weekday, specific, err := windowArgs(window)
	if err != nil {
		return err
	}
	query := `UPDATE time_windows
              SET start_time = $2, end_time = $3, weekday = $4, specific_date = $5, updated_at = $6
              WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, window.ID, window.StartTime, window.EndTime, weekday, specific, window.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *timeWindowRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM time_windows WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateTimes rewrites start/end of every given window in one transaction.
func (r *timeWindowRepo) UpdateTimes(ctx context.Context, windows []domain.TimeWindow) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, w := range windows {
		batch.Queue(`UPDATE time_windows SET start_time = $2, end_time = $3, updated_at = $4 WHERE id = $1`,
			w.ID, w.StartTime, w.EndTime, w.UpdatedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
