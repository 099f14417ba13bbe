package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-interview-scheduler/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type interviewRepo struct {
	db *pgxpool.Pool
}

func NewInterviewRepository(db *pgxpool.Pool) domain.InterviewRepository {
	return &interviewRepo{db: db}
}

const interviewColumns = `id, COALESCE(availability_id, 0), organiser_id, joinee_id, event_id, application_id,
    start_time_utc, end_time_utc, interview_date, timezone, room_id, is_enabled, answers, version,
    created_at, updated_at`

// completedCondition mirrors ScheduledInterview.Completed.
const completedCondition = `(is_enabled = false OR end_time_utc < $2)`

func scanInterview(row pgx.Row) (*domain.ScheduledInterview, error) {
	var (
		s       domain.ScheduledInterview
		date    time.Time
		answers []byte
	)
	if err := row.Scan(
		&s.ID, &s.AvailabilityID, &s.OrganiserID, &s.JoineeID, &s.EventID, &s.ApplicationID,
		&s.StartTimeUTC, &s.EndTimeUTC, &date, &s.Timezone, &s.RoomID, &s.IsEnabled, &answers, &s.Version,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, rowErr(err)
	}
	s.StartTimeUTC = s.StartTimeUTC.UTC()
	s.EndTimeUTC = s.EndTimeUTC.UTC()
	s.InterviewDate = formatDate(date)
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &s.Answers); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func (r *interviewRepo) Create(ctx context.Context, interview *domain.ScheduledInterview) error {
	date, err := parseDate(interview.InterviewDate)
	if err != nil {
		return fmt.Errorf("interview date %q: %w", interview.InterviewDate, err)
	}
	answers := interview.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	if interview.Version == 0 {
		interview.Version = 1
	}

	var availabilityID any
	if interview.AvailabilityID != 0 {
		availabilityID = interview.AvailabilityID
	}

	query := `INSERT INTO scheduled_interviews
              (availability_id, organiser_id, joinee_id, event_id, application_id,
               start_time_utc, end_time_utc, interview_date, timezone, room_id, is_enabled, answers, version,
               created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	return r.db.QueryRow(ctx, query,
		availabilityID, interview.OrganiserID, interview.JoineeID, interview.EventID, interview.ApplicationID,
		interview.StartTimeUTC, interview.EndTimeUTC, date, interview.Timezone, interview.RoomID, interview.IsEnabled,
		answersJSON, interview.Version, interview.CreatedAt, interview.UpdatedAt,
	).Scan(&interview.ID)
}

func (r *interviewRepo) GetByID(ctx context.Context, id int64) (*domain.ScheduledInterview, error) {
	query := `SELECT ` + interviewColumns + ` FROM scheduled_interviews WHERE id = $1`
	return scanInterview(r.db.QueryRow(ctx, query, id))
}

func (r *interviewRepo) GetByRoomID(ctx context.Context, roomID string) (*domain.ScheduledInterview, error) {
	query := `SELECT ` + interviewColumns + ` FROM scheduled_interviews WHERE room_id = $1`
	return scanInterview(r.db.QueryRow(ctx, query, roomID))
}

func (r *interviewRepo) ListByParticipant(ctx context.Context, userID, filter string, now time.Time) ([]domain.ScheduledInterview, error) {
	query := `SELECT ` + interviewColumns + ` FROM scheduled_interviews
              WHERE (organiser_id = $1 OR joinee_id = $1)`
	args := []any{userID}

	switch filter {
	case domain.InterviewFilterCompleted:
		query += ` AND ` + completedCondition + ` ORDER BY start_time_utc DESC`
		args = append(args, now)
	case domain.InterviewFilterUpcoming:
		query += ` AND NOT ` + completedCondition + ` ORDER BY start_time_utc ASC`
		args = append(args, now)
	default:
		query += ` ORDER BY start_time_utc DESC`
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interviews := []domain.ScheduledInterview{}
	for rows.Next() {
		s, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, *s)
	}
	return interviews, rows.Err()
}

// versionedUpdate runs an UPDATE guarded by "AND version = $n". A miss is
// classified as ErrNotFound or ErrVersionConflict with a follow-up read.
func (r *interviewRepo) versionedUpdate(ctx context.Context, interview *domain.ScheduledInterview, query string, args ...any) error {
	var (
		version   int
		updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, query, args...).Scan(&version, &updatedAt)
	if err == nil {
		interview.Version = version
		interview.UpdatedAt = updatedAt
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM scheduled_interviews WHERE id = $1)`, interview.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrVersionConflict
}

func (r *interviewRepo) UpdateSchedule(ctx context.Context, interview *domain.ScheduledInterview) error {
	date, err := parseDate(interview.InterviewDate)
	if err != nil {
		return fmt.Errorf("interview date %q: %w", interview.InterviewDate, err)
	}
	query := `UPDATE scheduled_interviews
              SET start_time_utc = $3, end_time_utc = $4, interview_date = $5, timezone = $6,
                  version = version + 1, updated_at = now()
              WHERE id = $1 AND version = $2 AND is_enabled
              RETURNING version, updated_at`
	return r.versionedUpdate(ctx, interview, query,
		interview.ID, interview.Version, interview.StartTimeUTC, interview.EndTimeUTC, date, interview.Timezone,
	)
}

func (r *interviewRepo) Disable(ctx context.Context, interview *domain.ScheduledInterview) error {
	query := `UPDATE scheduled_interviews
              SET is_enabled = false, version = version + 1, updated_at = now()
              WHERE id = $1 AND version = $2
              RETURNING version, updated_at`
	if err := r.versionedUpdate(ctx, interview, query, interview.ID, interview.Version); err != nil {
		return err
	}
	interview.IsEnabled = false
	return nil
}
