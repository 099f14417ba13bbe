package domain

import (
	"context"
	"time"
)

// AvailabilityProfile is a publisher's set of bookable windows in one timezone.
type AvailabilityProfile struct {
	ID         int64     `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Title      string    `json:"title"`
	Timezone   string    `json:"timezone"`
	ShareToken string    `json:"share_token"` // immutable after creation
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TimeWindow is either recurring on a weekday or pinned to a specific date, never both.
// StartTime and EndTime are UTC instants anchored to the day the window was written;
// only their time of day in the profile timezone carries meaning.
type TimeWindow struct {
	ID           int64     `json:"id"`
	ProfileID    int64     `json:"profile_id"`
	StartTime    time.Time `json:"start_time_utc"`
	EndTime      time.Time `json:"end_time_utc"`
	Weekday      *int      `json:"weekday,omitempty"`       // 0 = Sunday
	SpecificDate *string   `json:"specific_date,omitempty"` // DD-MM-YYYY
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Civil times in the profile timezone, filled on reads
	LocalStartTime string `json:"start_time,omitempty"`
	LocalEndTime   string `json:"end_time,omitempty"`
}

// IsRecurring reports whether the window repeats weekly.
func (w *TimeWindow) IsRecurring() bool {
	return w.Weekday != nil
}

// AdjustedSlot is a fragment of a window expressed in the requester's timezone for one date.
type AdjustedSlot struct {
	WindowID     int64     `json:"window_id"`
	Date         string    `json:"date"`       // DD-MM-YYYY in the requester timezone
	StartTime    string    `json:"start_time"` // HH:mm:ss
	EndTime      string    `json:"end_time"`   // HH:mm:ss
	Timezone     string    `json:"timezone"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	Weekday      *int      `json:"weekday,omitempty"`
	SpecificDate *string   `json:"specific_date,omitempty"`
	Split        bool      `json:"split"` // true when the window crosses local midnight
}

// AvailabilityDetail is a profile with its windows and linked events.
type AvailabilityDetail struct {
	Profile  *AvailabilityProfile `json:"profile"`
	Windows  []TimeWindow         `json:"windows"`
	EventIDs []int64              `json:"event_ids"`
}

// SlotListing is the public answer to "which slots are open on this date".
type SlotListing struct {
	ProfileID int64             `json:"profile_id"`
	Title     string            `json:"title"`
	Date      string            `json:"date"`
	Timezone  string            `json:"timezone"`
	Events    []EventDefinition `json:"events"`
	Slots     []AdjustedSlot    `json:"slots"`
}

type ProfileInput struct {
	Title    string
	Timezone string
}

type WindowInput struct {
	StartTime    string // HH:mm:ss in the profile timezone
	EndTime      string
	Weekday      *int
	SpecificDate *string
}

type AvailabilityRepository interface {
	Create(ctx context.Context, profile *AvailabilityProfile) error
	GetByID(ctx context.Context, id int64) (*AvailabilityProfile, error)
	GetByShareToken(ctx context.Context, token string) (*AvailabilityProfile, error)
	ListByOwner(ctx context.Context, ownerID string) ([]AvailabilityProfile, error)
	Update(ctx context.Context, profile *AvailabilityProfile) error
	Delete(ctx context.Context, id int64) error
	LinkEvent(ctx context.Context, profileID, eventID int64) error
	UnlinkEvent(ctx context.Context, profileID, eventID int64) error
	ListLinkedEventIDs(ctx context.Context, profileID int64) ([]int64, error)
}

type TimeWindowRepository interface {
	Create(ctx context.Context, window *TimeWindow) error
	GetByID(ctx context.Context, id int64) (*TimeWindow, error)
	ListByProfile(ctx context.Context, profileID int64) ([]TimeWindow, error)
	Update(ctx context.Context, window *TimeWindow) error
	Delete(ctx context.Context, id int64) error
	// UpdateTimes rewrites start/end of several windows atomically
	UpdateTimes(ctx context.Context, windows []TimeWindow) error
}

type AvailabilityUsecase interface {
	CreateProfile(ctx context.Context, ownerID string, input ProfileInput) (*AvailabilityProfile, error)
	ListProfiles(ctx context.Context, ownerID string) ([]AvailabilityProfile, error)
	GetProfile(ctx context.Context, ownerID string, id int64) (*AvailabilityDetail, error)
	UpdateProfile(ctx context.Context, ownerID string, id int64, input ProfileInput) (*AvailabilityProfile, error)
	DeleteProfile(ctx context.Context, ownerID string, id int64) error

	AddWindow(ctx context.Context, ownerID string, profileID int64, input WindowInput) (*TimeWindow, error)
	UpdateWindow(ctx context.Context, ownerID string, windowID int64, input WindowInput) (*TimeWindow, error)
	DeleteWindow(ctx context.Context, ownerID string, windowID int64) error

	LinkEvent(ctx context.Context, ownerID string, profileID, eventID int64) error
	UnlinkEvent(ctx context.Context, ownerID string, profileID, eventID int64) error

	// FindSlots is the anonymous discovery entry point. requesterID may be empty.
	FindSlots(ctx context.Context, shareToken, queryDate, timezoneOverride, requesterID string) (*SlotListing, error)
}
