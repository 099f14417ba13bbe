package domain

import "context"

// Topics double as event types. notification.* is consumed by the notifier,
// calendar.* by the calendar sync.
const (
	TopicInterviewScheduled         = "notification.interview.scheduled"
	TopicInterviewRescheduled       = "notification.interview.rescheduled"
	TopicInterviewEnded             = "notification.interview.ended"
	TopicInvitationCreated          = "notification.invitation.created"
	TopicCalendarInterviewScheduled = "calendar.interview.scheduled"
	TopicCalendarInterviewMoved     = "calendar.interview.rescheduled"
)

const (
	AggregateInterview  = "scheduled_interview"
	AggregateInvitation = "event_invitation"
)

// DomainEvent is handed to the publisher after the state change is persisted.
type DomainEvent struct {
	Type          string
	AggregateType string
	AggregateID   string
	Payload       any
}

// InterviewEventPayload is the body of every interview event.
type InterviewEventPayload struct {
	Interview ScheduledInterview `json:"interview"`
	Organiser Participant        `json:"organiser"`
	Joinee    Participant        `json:"joinee"`
}

// InvitationEventPayload is the body of invitation events.
type InvitationEventPayload struct {
	Invitation EventInvitation `json:"invitation"`
	EventTitle string          `json:"event_title"`
	Inviter    Participant     `json:"inviter"`
}

// EventPublisher hands events to downstream collaborators. Callers treat failures
// as non-fatal for the state change that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}
