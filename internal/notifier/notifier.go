// Package notifier turns notification.* events into emails.
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/internal/timezone"
	"go-interview-scheduler/pkg/email"
	"go-interview-scheduler/pkg/kafkax"
	"go-interview-scheduler/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// Topics lists what the notifier subscribes to.
var Topics = []string{
	domain.TopicInterviewScheduled,
	domain.TopicInterviewRescheduled,
	domain.TopicInterviewEnded,
	domain.TopicInvitationCreated,
}

const displayLayout = "Mon, 02 Jan 2006 15:04 MST"

type Mailer interface {
	Send(msg email.Message) error
}

type Notifier struct {
	mailer      Mailer
	frontendURL string
}

func New(mailer Mailer, frontendURL string) *Notifier {
	return &Notifier{mailer: mailer, frontendURL: frontendURL}
}

// Handle is a consumer.Handler.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	messages, err := n.Compose(msg.Topic, msg.Value)
	if err != nil {
		return err
	}

	var errs []error
	for _, m := range messages {
		if err := n.mailer.Send(m); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", m.To, err))
			continue
		}
		logger.Log.Info("notification sent", "topic", msg.Topic, "to", m.To)
	}
	return errors.Join(errs...)
}

// Compose builds the emails for one event without sending them.
func (n *Notifier) Compose(topic string, body []byte) ([]email.Message, error) {
	switch topic {
	case domain.TopicInterviewScheduled, domain.TopicInterviewRescheduled, domain.TopicInterviewEnded:
		var payload domain.InterviewEventPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, kafkax.Permanent(fmt.Errorf("notifier: decode %s: %w", topic, err))
		}
		return n.interviewMessages(topic, payload), nil
	case domain.TopicInvitationCreated:
		var payload domain.InvitationEventPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, kafkax.Permanent(fmt.Errorf("notifier: decode %s: %w", topic, err))
		}
		return n.invitationMessages(payload), nil
	default:
		return nil, nil
	}
}

func (n *Notifier) interviewMessages(topic string, p domain.InterviewEventPayload) []email.Message {
	var subject, heading string
	switch topic {
	case domain.TopicInterviewScheduled:
		subject, heading = "Interview scheduled", "Your interview is scheduled"
	case domain.TopicInterviewRescheduled:
		subject, heading = "Interview rescheduled", "Your interview has a new time"
	default:
		subject, heading = "Interview ended", "Your interview has ended"
	}

	messages := make([]email.Message, 0, 2)
	for _, pair := range [][2]domain.Participant{{p.Organiser, p.Joinee}, {p.Joinee, p.Organiser}} {
		recipient, other := pair[0], pair[1]
		if recipient.Email == "" {
			continue
		}
		lines := []string{
			fmt.Sprintf("Interview with %s.", displayName(other)),
			fmt.Sprintf("Starts: %s", LocalTime(p.Interview.StartTimeUTC, recipient.Timezone)),
			fmt.Sprintf("Ends: %s", LocalTime(p.Interview.EndTimeUTC, recipient.Timezone)),
		}
		msg := email.Message{To: recipient.Email, Subject: subject, Heading: heading, Lines: lines}
		if topic != domain.TopicInterviewEnded && n.frontendURL != "" {
			msg.ActionURL = fmt.Sprintf("%s/interviews/%d", n.frontendURL, p.Interview.ID)
			msg.ActionLabel = "Open interview"
		}
		messages = append(messages, msg)
	}
	return messages
}

func (n *Notifier) invitationMessages(p domain.InvitationEventPayload) []email.Message {
	if p.Invitation.InviteeEmail == nil || *p.Invitation.InviteeEmail == "" {
		return nil
	}
	msg := email.Message{
		To:      *p.Invitation.InviteeEmail,
		Subject: fmt.Sprintf("Invitation: %s", p.EventTitle),
		Heading: "You are invited",
		Lines: []string{
			fmt.Sprintf("%s invited you to %q.", displayName(p.Inviter), p.EventTitle),
		},
	}
	if n.frontendURL != "" {
		msg.ActionURL = fmt.Sprintf("%s/invitations/%s", n.frontendURL, p.Invitation.Token)
		msg.ActionLabel = "View invitation"
	}
	return []email.Message{msg}
}

func displayName(p domain.Participant) string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

// LocalTime renders t in tz, falling back to UTC for unknown zones.
func LocalTime(t time.Time, tz string) string {
	loc, err := timezone.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format(displayLayout)
}
