package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/internal/usecase"
	"go-interview-scheduler/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type schedulingFixture struct {
	profiles   *MockAvailabilityRepo
	interviews *MockInterviewRepo
	events     *MockEventRepo
	users      *MockUserRepo
	rooms      *MockRoomProvider
	publisher  *MockPublisher
	uc         domain.SchedulingUsecase
}

func newSchedulingFixture() *schedulingFixture {
	f := &schedulingFixture{
		profiles:   new(MockAvailabilityRepo),
		interviews: new(MockInterviewRepo),
		events:     new(MockEventRepo),
		users:      new(MockUserRepo),
		rooms:      new(MockRoomProvider),
		publisher:  new(MockPublisher),
	}
	f.uc = usecase.NewSchedulingUsecase(f.profiles, f.interviews, f.events, f.users, f.rooms, f.publisher, "UTC")

	f.users.On("GetByID", mock.Anything, "org").Return(&domain.User{ID: "org", Name: "Olivia", Email: "org@example.com", Timezone: strPtr("Europe/Berlin")}, nil).Maybe()
	f.users.On("GetByID", mock.Anything, "joe").Return(&domain.User{ID: "joe", Name: "Joe", Email: "joe@example.com", Timezone: strPtr("America/New_York")}, nil).Maybe()
	f.users.On("GetByID", mock.Anything, "eve").Return(&domain.User{ID: "eve", Email: "eve@example.com"}, nil).Maybe()
	return f
}

func (f *schedulingFixture) withProfile() {
	f.profiles.On("GetByID", mock.Anything, int64(1)).Return(&domain.AvailabilityProfile{ID: 1, OwnerID: "org", Timezone: "Europe/Berlin"}, nil)
}

func bookedInterview() *domain.ScheduledInterview {
	start := time.Date(2030, 1, 14, 14, 0, 0, 0, time.UTC)
	return &domain.ScheduledInterview{
		ID:             42,
		AvailabilityID: 1,
		OrganiserID:    "org",
		JoineeID:       "joe",
		StartTimeUTC:   start,
		EndTimeUTC:     start.Add(time.Hour),
		InterviewDate:  "14-01-2030",
		Timezone:       "America/New_York",
		RoomID:         "room-1",
		IsEnabled:      true,
		Version:        1,
	}
}

func booking(date, start, end string) domain.BookingInput {
	return domain.BookingInput{Date: date, StartTime: start, EndTime: end}
}

func TestRoomNameIsDeterministic(t *testing.T) {
	a := usecase.RoomName("6f1c2a9e-1111-2222-3333-444455556666", "0b9d7c3e-aaaa-bbbb-cccc-ddddeeeeffff")
	b := usecase.RoomName("6f1c2a9e-1111-2222-3333-444455556666", "0b9d7c3e-aaaa-bbbb-cccc-ddddeeeeffff")
	assert.Equal(t, a, b)
	assert.Equal(t, "interview-6f1c2a9e1111-0b9d7c3eaaaa", a)
	assert.NotEqual(t, a, usecase.RoomName("0b9d7c3e-aaaa-bbbb-cccc-ddddeeeeffff", "6f1c2a9e-1111-2222-3333-444455556666"))
}

func TestBookSlotSelfBooking(t *testing.T) {
	f := newSchedulingFixture()
	f.withProfile()

	_, err := f.uc.BookSlot(context.Background(), 1, booking("12-01-2026", "09:00:00", "10:00:00"), "org")
	assert.True(t, apperror.Is(err, apperror.KindSelfBookingNotAllowed))

	f.rooms.AssertNotCalled(t, "CreateRoom", mock.Anything, mock.Anything, mock.Anything)
	f.interviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestBookSlotMissingProfile(t *testing.T) {
	f := newSchedulingFixture()
	f.profiles.On("GetByID", mock.Anything, int64(7)).Return(nil, domain.ErrNotFound)

	_, err := f.uc.BookSlot(context.Background(), 7, booking("12-01-2026", "09:00:00", "10:00:00"), "joe")
	assert.True(t, apperror.Is(err, apperror.KindAvailabilityNotFound))
}

func TestBookSlotPersistsAndPublishes(t *testing.T) {
	f := newSchedulingFixture()
	f.withProfile()
	f.rooms.On("CreateRoom", mock.Anything, usecase.RoomName("org", "joe"), "Interview between Olivia and Joe").Return("room-1", nil)
	f.interviews.On("Create", mock.Anything, mock.AnythingOfType("*domain.ScheduledInterview")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.ScheduledInterview).ID = 42
	})

	var topics []string
	f.publisher.On("Publish", mock.Anything, mock.AnythingOfType("domain.DomainEvent")).Return(nil).Run(func(args mock.Arguments) {
		evt := args.Get(1).(domain.DomainEvent)
		topics = append(topics, evt.Type)
		assert.Equal(t, "42", evt.AggregateID)
		payload := evt.Payload.(domain.InterviewEventPayload)
		assert.Equal(t, "room-1", payload.Interview.RoomID)
		assert.Equal(t, "joe@example.com", payload.Joinee.Email)
	})

	// joe prefers America/New_York, so 09:00 on 12-01-2026 is 14:00 UTC
	interview, err := f.uc.BookSlot(context.Background(), 1, booking("12-01-2026", "09:00:00", "10:00:00"), "joe")
	require.NoError(t, err)

	assert.Equal(t, int64(42), interview.ID)
	assert.Equal(t, time.Date(2026, 1, 12, 14, 0, 0, 0, time.UTC), interview.StartTimeUTC)
	assert.Equal(t, time.Date(2026, 1, 12, 15, 0, 0, 0, time.UTC), interview.EndTimeUTC)
	assert.Equal(t, "12-01-2026", interview.InterviewDate)
	assert.Equal(t, "America/New_York", interview.Timezone)
	assert.Equal(t, "org", interview.OrganiserID)
	assert.Equal(t, "joe", interview.JoineeID)
	assert.True(t, interview.IsEnabled)
	assert.ElementsMatch(t, []string{domain.TopicInterviewScheduled, domain.TopicCalendarInterviewScheduled}, topics)
}

func TestBookSlotOverrideAndOvernight(t *testing.T) {
	f := newSchedulingFixture()
	f.withProfile()
	f.rooms.On("CreateRoom", mock.Anything, mock.Anything, mock.Anything).Return("room-2", nil)
	f.interviews.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	input := booking("31-12-2026", "23:30:00", "00:30:00")
	input.Timezone = "Asia/Tokyo"

	interview, err := f.uc.BookSlot(context.Background(), 1, input, "joe")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 31, 14, 30, 0, 0, time.UTC), interview.StartTimeUTC)
	assert.Equal(t, time.Hour, interview.EndTimeUTC.Sub(interview.StartTimeUTC))
	assert.Equal(t, "Asia/Tokyo", interview.Timezone)
}

func TestBookSlotPublishFailureKeepsBooking(t *testing.T) {
	f := newSchedulingFixture()
	f.withProfile()
	f.rooms.On("CreateRoom", mock.Anything, mock.Anything, mock.Anything).Return("room-1", nil)
	f.interviews.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("outbox down"))

	interview, err := f.uc.BookSlot(context.Background(), 1, booking("12-01-2026", "09:00:00", "10:00:00"), "joe")
	require.NoError(t, err)
	assert.Equal(t, "room-1", interview.RoomID)
	f.publisher.AssertNumberOfCalls(t, "Publish", 2)
}

func TestBookSlotRoomFailure(t *testing.T) {
	f := newSchedulingFixture()
	f.withProfile()
	f.rooms.On("CreateRoom", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("503"))

	_, err := f.uc.BookSlot(context.Background(), 1, booking("12-01-2026", "09:00:00", "10:00:00"), "joe")
	assert.True(t, apperror.Is(err, apperror.KindExternalProviderFailure))
	f.interviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestBookSlotPersistFailureDisablesRoom(t *testing.T) {
	f := newSchedulingFixture()
	f.withProfile()
	f.rooms.On("CreateRoom", mock.Anything, mock.Anything, mock.Anything).Return("room-9", nil)
	f.rooms.On("EnableRoom", mock.Anything, "room-9", false).Return(nil)
	f.interviews.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	_, err := f.uc.BookSlot(context.Background(), 1, booking("12-01-2026", "09:00:00", "10:00:00"), "joe")
	assert.True(t, apperror.Is(err, apperror.KindInternal))
	f.rooms.AssertCalled(t, "EnableRoom", mock.Anything, "room-9", false)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestBookSlotValidation(t *testing.T) {
	tests := []struct {
		name  string
		input domain.BookingInput
		kind  apperror.Kind
	}{
		{"equal times", booking("12-01-2026", "09:00:00", "09:00:00"), apperror.KindInvalidInterviewRange},
		{"bad time", booking("12-01-2026", "9am", "10:00:00"), apperror.KindInvalidTimeFormat},
		{"bad date", booking("2026/01/12", "09:00:00", "10:00:00"), apperror.KindInvalidTimeFormat},
		{"bad zone", domain.BookingInput{Date: "12-01-2026", StartTime: "09:00:00", EndTime: "10:00:00", Timezone: "Nowhere/City"}, apperror.KindInvalidTimezoneOrInstant},
		// 02:30 does not exist in New York on 08-03-2026
		{"dst gap", booking("08-03-2026", "02:30:00", "03:30:00"), apperror.KindInvalidTimezoneOrInstant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSchedulingFixture()
			f.withProfile()

			_, err := f.uc.BookSlot(context.Background(), 1, tt.input, "joe")
			assert.True(t, apperror.Is(err, tt.kind), "got %v", err)
			f.rooms.AssertNotCalled(t, "CreateRoom", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestBookSlotEventRules(t *testing.T) {
	event := &domain.EventDefinition{
		ID:              3,
		OwnerID:         "org",
		DurationMinutes: 30,
		IsActive:        true,
		Questions:       []domain.EventQuestion{{Key: "linkedin", Label: "LinkedIn", Required: true}},
	}

	t.Run("Should cap the interview at the event duration", func(t *testing.T) {
		f := newSchedulingFixture()
		f.withProfile()
		f.events.On("GetByID", mock.Anything, int64(3)).Return(event, nil)

		input := booking("12-01-2026", "09:00:00", "10:00:00")
		input.EventID = int64Ptr(3)
		input.Answers = map[string]string{"linkedin": "in/joe"}

		_, err := f.uc.BookSlot(context.Background(), 1, input, "joe")
		assert.True(t, apperror.Is(err, apperror.KindInvalidInterviewRange))
		f.rooms.AssertNotCalled(t, "CreateRoom", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should require mandatory answers", func(t *testing.T) {
		f := newSchedulingFixture()
		f.withProfile()
		f.events.On("GetByID", mock.Anything, int64(3)).Return(event, nil)

		input := booking("12-01-2026", "09:00:00", "09:30:00")
		input.EventID = int64Ptr(3)

		_, err := f.uc.BookSlot(context.Background(), 1, input, "joe")
		assert.True(t, apperror.Is(err, apperror.KindBadRequest))
	})

	t.Run("Should hide events of other organisers", func(t *testing.T) {
		f := newSchedulingFixture()
		f.withProfile()
		f.events.On("GetByID", mock.Anything, int64(4)).Return(&domain.EventDefinition{ID: 4, OwnerID: "eve", IsActive: true, DurationMinutes: 60}, nil)

		input := booking("12-01-2026", "09:00:00", "09:30:00")
		input.EventID = int64Ptr(4)

		_, err := f.uc.BookSlot(context.Background(), 1, input, "joe")
		assert.True(t, apperror.Is(err, apperror.KindEventNotFound))
	})
}

func TestRescheduleAuthorization(t *testing.T) {
	f := newSchedulingFixture()
	f.interviews.On("GetByID", mock.Anything, int64(42)).Return(bookedInterview(), nil)
	f.interviews.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound)

	_, err := f.uc.Reschedule(context.Background(), 42, booking("15-01-2030", "09:00:00", "10:00:00"), "eve")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	_, err = f.uc.Reschedule(context.Background(), 99, booking("15-01-2030", "09:00:00", "10:00:00"), "org")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	f.interviews.AssertNotCalled(t, "UpdateSchedule", mock.Anything, mock.Anything)
}

func TestRescheduleKeepsRoom(t *testing.T) {
	f := newSchedulingFixture()
	original := bookedInterview()
	f.interviews.On("GetByID", mock.Anything, int64(42)).Return(original, nil)
	f.interviews.On("UpdateSchedule", mock.Anything, mock.AnythingOfType("*domain.ScheduledInterview")).Return(nil)

	var topics []string
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		topics = append(topics, args.Get(1).(domain.DomainEvent).Type)
	})

	// organiser prefers Europe/Berlin
	updated, err := f.uc.Reschedule(context.Background(), 42, booking("15-01-2030", "10:00:00", "11:00:00"), "org")
	require.NoError(t, err)
	assert.Equal(t, "room-1", updated.RoomID)
	assert.Equal(t, time.Date(2030, 1, 15, 9, 0, 0, 0, time.UTC), updated.StartTimeUTC)
	assert.Equal(t, "15-01-2030", updated.InterviewDate)
	assert.Equal(t, "Europe/Berlin", updated.Timezone)
	assert.Equal(t, time.Date(2030, 1, 14, 14, 0, 0, 0, time.UTC), original.StartTimeUTC, "stored record untouched until the write succeeds")
	assert.ElementsMatch(t, []string{domain.TopicInterviewRescheduled, domain.TopicCalendarInterviewMoved}, topics)
	f.rooms.AssertNotCalled(t, "CreateRoom", mock.Anything, mock.Anything, mock.Anything)
}

func TestRescheduleConflictsAndEnded(t *testing.T) {
	t.Run("Should surface concurrent modification", func(t *testing.T) {
		f := newSchedulingFixture()
		f.interviews.On("GetByID", mock.Anything, int64(42)).Return(bookedInterview(), nil)
		f.interviews.On("UpdateSchedule", mock.Anything, mock.Anything).Return(domain.ErrVersionConflict)

		_, err := f.uc.Reschedule(context.Background(), 42, booking("15-01-2030", "10:00:00", "11:00:00"), "joe")
		assert.True(t, apperror.Is(err, apperror.KindConflict))
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("Should refuse to move an ended interview", func(t *testing.T) {
		f := newSchedulingFixture()
		ended := bookedInterview()
		ended.IsEnabled = false
		f.interviews.On("GetByID", mock.Anything, int64(42)).Return(ended, nil)

		_, err := f.uc.Reschedule(context.Background(), 42, booking("15-01-2030", "10:00:00", "11:00:00"), "joe")
		assert.True(t, apperror.Is(err, apperror.KindInterviewEnded))
		f.interviews.AssertNotCalled(t, "UpdateSchedule", mock.Anything, mock.Anything)
	})
}

func TestEndCallScenario(t *testing.T) {
	f := newSchedulingFixture()
	stored := bookedInterview()
	f.interviews.On("GetByID", mock.Anything, int64(42)).Return(stored, nil)
	f.interviews.On("Disable", mock.Anything, mock.AnythingOfType("*domain.ScheduledInterview")).Return(nil).Run(func(args mock.Arguments) {
		stored.IsEnabled = args.Get(1).(*domain.ScheduledInterview).IsEnabled
		stored.Version++
	})
	f.rooms.On("EnableRoom", mock.Anything, "room-1", false).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	ctx := context.Background()

	ended, err := f.uc.EndCall(ctx, 42, "org")
	require.NoError(t, err)
	assert.False(t, ended.IsEnabled)
	assert.True(t, ended.IsCompleted)

	detail, err := f.uc.GetScheduledEventDetail(ctx, 42, "org")
	require.NoError(t, err)
	assert.False(t, detail.Interview.IsEnabled)
	assert.True(t, detail.Interview.IsCompleted)
	assert.Equal(t, "Joe", detail.Joinee.Name)

	_, err = f.uc.EndCall(ctx, 42, "joe")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	// repeat by the organiser is a no-op
	again, err := f.uc.EndCall(ctx, 42, "org")
	require.NoError(t, err)
	assert.False(t, again.IsEnabled)

	f.rooms.AssertNumberOfCalls(t, "EnableRoom", 1)
	f.interviews.AssertNumberOfCalls(t, "Disable", 1)
}

func TestEndCallFailures(t *testing.T) {
	t.Run("Should refuse strangers without touching the record", func(t *testing.T) {
		f := newSchedulingFixture()
		f.interviews.On("GetByID", mock.Anything, int64(42)).Return(bookedInterview(), nil)

		_, err := f.uc.EndCall(context.Background(), 42, "eve")
		assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
		f.interviews.AssertNotCalled(t, "Disable", mock.Anything, mock.Anything)
		f.rooms.AssertNotCalled(t, "EnableRoom", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should report missing interviews", func(t *testing.T) {
		f := newSchedulingFixture()
		f.interviews.On("GetByID", mock.Anything, int64(5)).Return(nil, domain.ErrNotFound)

		_, err := f.uc.EndCall(context.Background(), 5, "org")
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("Should propagate provider failures", func(t *testing.T) {
		f := newSchedulingFixture()
		f.interviews.On("GetByID", mock.Anything, int64(42)).Return(bookedInterview(), nil)
		f.rooms.On("EnableRoom", mock.Anything, "room-1", false).Return(errors.New("timeout"))

		_, err := f.uc.EndCall(context.Background(), 42, "org")
		assert.True(t, apperror.Is(err, apperror.KindExternalProviderFailure))
		f.interviews.AssertNotCalled(t, "Disable", mock.Anything, mock.Anything)
	})

	t.Run("Should re-enable the room when the write fails", func(t *testing.T) {
		f := newSchedulingFixture()
		f.interviews.On("GetByID", mock.Anything, int64(42)).Return(bookedInterview(), nil)
		f.interviews.On("Disable", mock.Anything, mock.Anything).Return(domain.ErrVersionConflict)
		f.rooms.On("EnableRoom", mock.Anything, "room-1", false).Return(nil)
		f.rooms.On("EnableRoom", mock.Anything, "room-1", true).Return(nil)

		_, err := f.uc.EndCall(context.Background(), 42, "org")
		assert.True(t, apperror.Is(err, apperror.KindConflict))
		f.rooms.AssertCalled(t, "EnableRoom", mock.Anything, "room-1", true)
	})
}

func TestIssueJoinToken(t *testing.T) {
	f := newSchedulingFixture()
	f.interviews.On("GetByRoomID", mock.Anything, "room-1").Return(bookedInterview(), nil)
	f.interviews.On("GetByRoomID", mock.Anything, "room-x").Return(nil, domain.ErrNotFound)
	f.rooms.On("IssueAuthToken", mock.Anything, "room-1", "joe").Return("jwt-token", nil)

	_, err := f.uc.IssueJoinToken(context.Background(), "room-1", "eve")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	_, err = f.uc.IssueJoinToken(context.Background(), "room-x", "joe")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	token, err := f.uc.IssueJoinToken(context.Background(), "room-1", "joe")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token.Token)
	assert.Equal(t, "room-1", token.RoomID)
}

func TestIssueJoinTokenForEndedInterview(t *testing.T) {
	f := newSchedulingFixture()
	ended := bookedInterview()
	ended.IsEnabled = false
	f.interviews.On("GetByRoomID", mock.Anything, "room-1").Return(ended, nil)

	_, err := f.uc.IssueJoinToken(context.Background(), "room-1", "eve")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized), "participant check comes first")

	_, err = f.uc.IssueJoinToken(context.Background(), "room-1", "joe")
	assert.True(t, apperror.Is(err, apperror.KindInterviewEnded))
	f.rooms.AssertNotCalled(t, "IssueAuthToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestInterviewReads(t *testing.T) {
	past := bookedInterview()
	past.ID = 1
	past.StartTimeUTC = time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)
	past.EndTimeUTC = past.StartTimeUTC.Add(time.Hour)
	future := bookedInterview()
	future.ID = 2
	disabled := bookedInterview()
	disabled.ID = 3
	disabled.IsEnabled = false

	t.Run("Should flag completed interviews with one predicate", func(t *testing.T) {
		f := newSchedulingFixture()
		f.interviews.On("ListByParticipant", mock.Anything, "joe", domain.InterviewFilterAll, mock.AnythingOfType("time.Time")).
			Return([]domain.ScheduledInterview{*past, *future, *disabled}, nil)

		list, err := f.uc.ListInterviews(context.Background(), "joe", "")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.True(t, list[0].IsCompleted)
		assert.False(t, list[1].IsCompleted)
		assert.True(t, list[2].IsCompleted)
	})

	t.Run("Should reject unknown filters", func(t *testing.T) {
		f := newSchedulingFixture()
		_, err := f.uc.ListInterviews(context.Background(), "joe", "cancelled")
		assert.True(t, apperror.Is(err, apperror.KindBadRequest))
	})

	t.Run("Should hide details from outsiders", func(t *testing.T) {
		f := newSchedulingFixture()
		f.interviews.On("GetByID", mock.Anything, int64(2)).Return(future, nil)

		_, err := f.uc.GetScheduledEventDetail(context.Background(), 2, "eve")
		assert.True(t, apperror.Is(err, apperror.KindNotFound))

		_, err = f.uc.ListRecordings(context.Background(), 2, "eve")
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("Should list recordings for participants", func(t *testing.T) {
		f := newSchedulingFixture()
		f.interviews.On("GetByID", mock.Anything, int64(2)).Return(future, nil)
		f.rooms.On("ListRecordings", mock.Anything, "room-1").Return([]domain.Recording{{Key: "room-1/a.mp4"}}, nil)

		recordings, err := f.uc.ListRecordings(context.Background(), 2, "org")
		require.NoError(t, err)
		assert.Len(t, recordings, 1)
	})

	t.Run("Should export a workbook", func(t *testing.T) {
		f := newSchedulingFixture()
		f.interviews.On("ListByParticipant", mock.Anything, "org", domain.InterviewFilterAll, mock.AnythingOfType("time.Time")).
			Return([]domain.ScheduledInterview{*past, *future}, nil)

		data, filename, err := f.uc.ExportInterviews(context.Background(), "org")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(filename, "interviews_"))
		assert.True(t, strings.HasSuffix(filename, ".xlsx"))
		require.Greater(t, len(data), 4)
		assert.Equal(t, "PK", string(data[:2]), "xlsx is a zip container")
	})
}
