// Package calendarsync mirrors scheduled interviews into an external calendar.
package calendarsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/kafkax"
	"go-interview-scheduler/pkg/logger"

	"github.com/segmentio/kafka-go"
)

var Topics = []string{
	domain.TopicCalendarInterviewScheduled,
	domain.TopicCalendarInterviewMoved,
}

var ErrNoLink = errors.New("calendarsync: no calendar event for interview")

// CalendarEntry is the provider-neutral shape of an interview on a calendar.
type CalendarEntry struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Timezone    string
	Attendees   []string
}

type CalendarAPI interface {
	Insert(ctx context.Context, entry CalendarEntry) (string, error)
	Update(ctx context.Context, calendarEventID string, entry CalendarEntry) error
}

// LinkStore maps interview ids to calendar event ids.
type LinkStore interface {
	Get(ctx context.Context, interviewID int64) (string, error)
	Save(ctx context.Context, interviewID int64, calendarEventID string) error
}

type Syncer struct {
	api   CalendarAPI
	links LinkStore
}

func New(api CalendarAPI, links LinkStore) *Syncer {
	return &Syncer{api: api, links: links}
}

// Handle is a consumer.Handler.
func (s *Syncer) Handle(ctx context.Context, msg kafka.Message) error {
	if msg.Topic != domain.TopicCalendarInterviewScheduled && msg.Topic != domain.TopicCalendarInterviewMoved {
		return nil
	}

	var payload domain.InterviewEventPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return kafkax.Permanent(fmt.Errorf("calendarsync: decode %s: %w", msg.Topic, err))
	}
	return s.Sync(ctx, payload)
}

// Sync inserts the interview on first sight and updates it afterwards. A
// reschedule that arrives before the original insert falls back to inserting.
func (s *Syncer) Sync(ctx context.Context, p domain.InterviewEventPayload) error {
	entry := EntryFor(p)
	id := p.Interview.ID

	calendarEventID, err := s.links.Get(ctx, id)
	switch {
	case err == nil:
		if err := s.api.Update(ctx, calendarEventID, entry); err != nil {
			return fmt.Errorf("calendarsync: update interview %d: %w", id, err)
		}
		logger.Log.Info("calendar event updated", "interview_id", id, "calendar_event_id", calendarEventID)
		return nil
	case errors.Is(err, ErrNoLink):
	default:
		return err
	}

	calendarEventID, err = s.api.Insert(ctx, entry)
	if err != nil {
		return fmt.Errorf("calendarsync: insert interview %d: %w", id, err)
	}
	if err := s.links.Save(ctx, id, calendarEventID); err != nil {
		return err
	}
	logger.Log.Info("calendar event created", "interview_id", id, "calendar_event_id", calendarEventID)
	return nil
}

func EntryFor(p domain.InterviewEventPayload) CalendarEntry {
	iv := p.Interview
	entry := CalendarEntry{
		Summary:     fmt.Sprintf("Interview: %s / %s", participantLabel(p.Organiser), participantLabel(p.Joinee)),
		Description: fmt.Sprintf("Room %s", iv.RoomID),
		Start:       iv.StartTimeUTC,
		End:         iv.EndTimeUTC,
		Timezone:    iv.Timezone,
	}
	for _, participant := range []domain.Participant{p.Organiser, p.Joinee} {
		if participant.Email != "" {
			entry.Attendees = append(entry.Attendees, participant.Email)
		}
	}
	return entry
}

func participantLabel(p domain.Participant) string {
	if p.Name != "" {
		return p.Name
	}
	if p.Email != "" {
		return p.Email
	}
	return p.ID
}
