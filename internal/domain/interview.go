package domain

import (
	"context"
	"time"
)

// Interview list filters
const (
	InterviewFilterAll       = "all"
	InterviewFilterUpcoming  = "upcoming"
	InterviewFilterCompleted = "completed"
)

// ScheduledInterview is a booked slot between an organiser (availability owner) and a joinee.
// Once IsEnabled is false the schedule never changes again.
type ScheduledInterview struct {
	ID             int64             `json:"id"`
	AvailabilityID int64             `json:"availability_id"`
	OrganiserID    string            `json:"organiser_id"`
	JoineeID       string            `json:"joinee_id"`
	EventID        *int64            `json:"event_id,omitempty"`
	ApplicationID  *int64            `json:"application_id,omitempty"`
	StartTimeUTC   time.Time         `json:"start_time_in_utc"`
	EndTimeUTC     time.Time         `json:"end_time_in_utc"`
	InterviewDate  string            `json:"interview_date"` // DD-MM-YYYY, UTC calendar date of the start
	Timezone       string            `json:"timezone"`       // zone the civil times were given in
	RoomID         string            `json:"room_id"`
	IsEnabled      bool              `json:"is_enabled"`
	Answers        map[string]string `json:"answers,omitempty"`
	Version        int               `json:"version"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	IsCompleted bool `json:"is_completed"`
}

// Completed is the single definition of "this interview is over". The postgres
// repository mirrors it in SQL for completed/upcoming listings.
func (s *ScheduledInterview) Completed(now time.Time) bool {
	return !s.IsEnabled || s.EndTimeUTC.Before(now)
}

// IsParticipant reports whether userID is the organiser or the joinee.
func (s *ScheduledInterview) IsParticipant(userID string) bool {
	return userID != "" && (s.OrganiserID == userID || s.JoineeID == userID)
}

// Participant is the contact information of one side of an interview.
type Participant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Timezone string `json:"timezone"`
}

// InterviewDetail is an interview with both participants resolved.
type InterviewDetail struct {
	Interview *ScheduledInterview `json:"interview"`
	Organiser *Participant        `json:"organiser"`
	Joinee    *Participant        `json:"joinee"`
	Event     *EventDefinition    `json:"event,omitempty"`
}

// BookingInput carries civil date and times as chosen by the requester.
type BookingInput struct {
	Date          string // DD-MM-YYYY
	StartTime     string // HH:mm:ss
	EndTime       string // HH:mm:ss, earlier than StartTime means the next day
	Timezone      string // optional override of the requester preference
	EventID       *int64
	ApplicationID *int64
	Answers       map[string]string
}

// Recording is a stored room recording.
type Recording struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// JoinToken is a room access credential for one participant.
type JoinToken struct {
	RoomID string `json:"room_id"`
	Token  string `json:"token"`
}

// RoomProvider is the external video room service.
type RoomProvider interface {
	CreateRoom(ctx context.Context, name, description string) (string, error)
	EnableRoom(ctx context.Context, roomID string, enabled bool) error
	IssueAuthToken(ctx context.Context, roomID, identity string) (string, error)
	ListRecordings(ctx context.Context, roomID string) ([]Recording, error)
}

type InterviewRepository interface {
	Create(ctx context.Context, interview *ScheduledInterview) error
	GetByID(ctx context.Context, id int64) (*ScheduledInterview, error)
	GetByRoomID(ctx context.Context, roomID string) (*ScheduledInterview, error)
	ListByParticipant(ctx context.Context, userID, filter string, now time.Time) ([]ScheduledInterview, error)
	// UpdateSchedule writes start/end/date/timezone when Version still matches, then bumps it
	UpdateSchedule(ctx context.Context, interview *ScheduledInterview) error
	// Disable sets is_enabled=false when Version still matches, then bumps it
	Disable(ctx context.Context, interview *ScheduledInterview) error
}

type SchedulingUsecase interface {
	BookSlot(ctx context.Context, profileID int64, input BookingInput, requesterID string) (*ScheduledInterview, error)
	Reschedule(ctx context.Context, interviewID int64, input BookingInput, actorID string) (*ScheduledInterview, error)
	EndCall(ctx context.Context, interviewID int64, actorID string) (*ScheduledInterview, error)
	IssueJoinToken(ctx context.Context, roomID, actorID string) (*JoinToken, error)
	GetScheduledEventDetail(ctx context.Context, interviewID int64, actorID string) (*InterviewDetail, error)
	ListInterviews(ctx context.Context, actorID, filter string) ([]ScheduledInterview, error)
	ListRecordings(ctx context.Context, interviewID int64, actorID string) ([]Recording, error)
	ExportInterviews(ctx context.Context, actorID string) ([]byte, string, error)
}
