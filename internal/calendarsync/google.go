package calendarsync

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	CalendarID   string
}

func (c GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// GoogleCalendar writes events with a long-lived refresh token of the
// service calendar account.
type GoogleCalendar struct {
	srv        *calendar.Service
	calendarID string
}

func NewGoogleCalendar(ctx context.Context, cfg GoogleConfig) (*GoogleCalendar, error) {
	if !cfg.Enabled() {
		return nil, errors.New("calendarsync: google credentials not configured")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{calendar.CalendarEventsScope},
		Endpoint:     google.Endpoint,
	}
	client := oauthCfg.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}

	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleCalendar{srv: srv, calendarID: calendarID}, nil
}

func (g *GoogleCalendar) Insert(ctx context.Context, entry CalendarEntry) (string, error) {
	created, err := g.srv.Events.Insert(g.calendarID, toGoogleEvent(entry)).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func (g *GoogleCalendar) Update(ctx context.Context, calendarEventID string, entry CalendarEntry) error {
	_, err := g.srv.Events.Patch(g.calendarID, calendarEventID, toGoogleEvent(entry)).
		SendUpdates("all").
		Context(ctx).
		Do()
	return err
}

func toGoogleEvent(entry CalendarEntry) *calendar.Event {
	event := &calendar.Event{
		Summary:     entry.Summary,
		Description: entry.Description,
		Start:       &calendar.EventDateTime{DateTime: entry.Start.UTC().Format(time.RFC3339), TimeZone: entry.Timezone},
		End:         &calendar.EventDateTime{DateTime: entry.End.UTC().Format(time.RFC3339), TimeZone: entry.Timezone},
	}
	for _, email := range entry.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}
	return event
}
