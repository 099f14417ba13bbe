package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/internal/timezone"
	"go-interview-scheduler/pkg/apperror"
	"go-interview-scheduler/pkg/logger"
)

type schedulingUsecase struct {
	profileRepo     domain.AvailabilityRepository
	interviewRepo   domain.InterviewRepository
	eventRepo       domain.EventRepository
	userRepo        domain.UserRepository
	rooms           domain.RoomProvider
	publisher       domain.EventPublisher
	defaultTimezone string
}

func NewSchedulingUsecase(
	profileRepo domain.AvailabilityRepository,
	interviewRepo domain.InterviewRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	rooms domain.RoomProvider,
	publisher domain.EventPublisher,
	defaultTimezone string,
) domain.SchedulingUsecase {
	return &schedulingUsecase{
		profileRepo:     profileRepo,
		interviewRepo:   interviewRepo,
		eventRepo:       eventRepo,
		userRepo:        userRepo,
		rooms:           rooms,
		publisher:       publisher,
		defaultTimezone: defaultTimezone,
	}
}

// RoomName is the deterministic room name for an organiser/joinee pair.
func RoomName(organiserID, joineeID string) string {
	return fmt.Sprintf("interview-%s-%s", shortID(organiserID), shortID(joineeID))
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func roomDescription(organiser, joinee *domain.User) string {
	return fmt.Sprintf("Interview between %s and %s", organiser.DisplayName(), joinee.DisplayName())
}

func (u *schedulingUsecase) BookSlot(ctx context.Context, profileID int64, input domain.BookingInput, requesterID string) (*domain.ScheduledInterview, error) {
	if requesterID == "" {
		return nil, apperror.Unauthenticated("User not authenticated")
	}

	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, notFoundOr(err, apperror.AvailabilityNotFound())
	}
	if profile.OwnerID == requesterID {
		return nil, apperror.SelfBookingNotAllowed()
	}

	organiser, err := u.userRepo.GetByID(ctx, profile.OwnerID)
	if err != nil {
		return nil, notFoundOr(err, apperror.AvailabilityNotFound())
	}
	joinee, err := u.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, notFoundOr(err, apperror.Unauthenticated("User not found"))
	}

	tz := strings.TrimSpace(input.Timezone)
	if tz == "" {
		tz = joinee.PreferredTimezone(u.defaultTimezone)
	}
	start, end, err := resolveRange(input, tz)
	if err != nil {
		return nil, err
	}

	if input.EventID != nil {
		event, err := u.eventRepo.GetByID(ctx, *input.EventID)
		if err != nil {
			return nil, notFoundOr(err, apperror.EventNotFound())
		}
		if event.OwnerID != organiser.ID || !event.IsActive {
			return nil, apperror.EventNotFound()
		}
		if err := checkDuration(event, start, end); err != nil {
			return nil, err
		}
		if err := checkAnswers(event, input.Answers); err != nil {
			return nil, err
		}
	}

	roomID, err := u.rooms.CreateRoom(ctx, RoomName(organiser.ID, joinee.ID), roomDescription(organiser, joinee))
	if err != nil {
		return nil, apperror.ExternalProvider("Could not create the interview room", err)
	}

	now := time.Now()
	interview := &domain.ScheduledInterview{
		AvailabilityID: profile.ID,
		OrganiserID:    organiser.ID,
		JoineeID:       joinee.ID,
		EventID:        input.EventID,
		ApplicationID:  input.ApplicationID,
		StartTimeUTC:   start,
		EndTimeUTC:     end,
		InterviewDate:  timezone.DateOf(start).String(),
		Timezone:       tz,
		RoomID:         roomID,
		IsEnabled:      true,
		Answers:        input.Answers,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.interviewRepo.Create(ctx, interview); err != nil {
		// no room may outlive a failed booking
		if disableErr := u.rooms.EnableRoom(ctx, roomID, false); disableErr != nil {
			logger.Log.Error("failed to disable room after booking failure",
				"room_id", roomID,
				"error", disableErr,
			)
		}
		return nil, apperror.Internal(err)
	}
	interview.IsCompleted = interview.Completed(now)

	payload := interviewPayload(interview, organiser, joinee)
	u.publish(ctx, domain.TopicInterviewScheduled, interview.ID, payload)
	u.publish(ctx, domain.TopicCalendarInterviewScheduled, interview.ID, payload)

	return interview, nil
}

// resolveRange turns civil booking input in tz into a UTC range. An end before the
// start rolls over to the next day.
func resolveRange(input domain.BookingInput, tz string) (time.Time, time.Time, error) {
	startTOD, err := timezone.ParseTimeOfDay(input.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, civilError(err)
	}
	endTOD, err := timezone.ParseTimeOfDay(input.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, civilError(err)
	}
	if startTOD == endTOD {
		return time.Time{}, time.Time{}, apperror.InvalidInterviewRange("End time must differ from start time")
	}

	date, err := timezone.ParseCivilDate(input.Date)
	if err != nil {
		return time.Time{}, time.Time{}, civilError(err)
	}
	endDate := date
	if endTOD.Seconds() < startTOD.Seconds() {
		endDate = date.AddDays(1)
	}

	start, err := timezone.ConvertCivilDateTime(date.String(), input.StartTime, tz, "UTC")
	if err != nil {
		return time.Time{}, time.Time{}, civilError(err)
	}
	end, err := timezone.ConvertCivilDateTime(endDate.String(), input.EndTime, tz, "UTC")
	if err != nil {
		return time.Time{}, time.Time{}, civilError(err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, apperror.InvalidInterviewRange("End time must be after start time")
	}
	return start, end, nil
}

func checkDuration(event *domain.EventDefinition, start, end time.Time) error {
	if end.Sub(start) > time.Duration(event.DurationMinutes)*time.Minute {
		return apperror.InvalidInterviewRange(fmt.Sprintf(
			"Interview cannot be longer than the event duration of %d minutes", event.DurationMinutes))
	}
	return nil
}

func checkAnswers(event *domain.EventDefinition, answers map[string]string) error {
	for _, q := range event.Questions {
		if q.Required && strings.TrimSpace(answers[q.Key]) == "" {
			return apperror.BadRequest(fmt.Sprintf("Answer to %q is required", q.Label))
		}
	}
	return nil
}

func (u *schedulingUsecase) Reschedule(ctx context.Context, interviewID int64, input domain.BookingInput, actorID string) (*domain.ScheduledInterview, error) {
	interview, err := u.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return nil, notFoundOr(err, apperror.NotFound("Interview not found"))
	}
	if !interview.IsParticipant(actorID) {
		return nil, apperror.Unauthorized("Only the organiser or the joinee can reschedule this interview")
	}
	if !interview.IsEnabled {
		return nil, apperror.InterviewEnded()
	}

	tz := strings.TrimSpace(input.Timezone)
	if tz == "" {
		tz = interview.Timezone
		if actor, err := u.userRepo.GetByID(ctx, actorID); err == nil {
			tz = actor.PreferredTimezone(interview.Timezone)
		}
	}
	start, end, err := resolveRange(input, tz)
	if err != nil {
		return nil, err
	}
	if interview.EventID != nil {
		if event, err := u.eventRepo.GetByID(ctx, *interview.EventID); err == nil {
			if err := checkDuration(event, start, end); err != nil {
				return nil, err
			}
		}
	}

	updated := *interview
	updated.StartTimeUTC = start
	updated.EndTimeUTC = end
	updated.InterviewDate = timezone.DateOf(start).String()
	updated.Timezone = tz
	updated.UpdatedAt = time.Now()

	if err := u.interviewRepo.UpdateSchedule(ctx, &updated); err != nil {
		return nil, interviewWriteError(err)
	}
	updated.IsCompleted = updated.Completed(time.Now())

	organiser, joinee := u.participants(ctx, &updated)
	payload := domain.InterviewEventPayload{Interview: updated, Organiser: organiser, Joinee: joinee}
	u.publish(ctx, domain.TopicInterviewRescheduled, updated.ID, payload)
	u.publish(ctx, domain.TopicCalendarInterviewMoved, updated.ID, payload)

	return &updated, nil
}

// EndCall disables the interview and its room. Only the organiser may end a call;
// ending an already ended call returns it unchanged.
func (u *schedulingUsecase) EndCall(ctx context.Context, interviewID int64, actorID string) (*domain.ScheduledInterview, error) {
	interview, err := u.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return nil, notFoundOr(err, apperror.NotFound("Interview not found"))
	}
	if interview.OrganiserID != actorID {
		return nil, apperror.Unauthorized("Only the organiser can end this interview")
	}
	if !interview.IsEnabled {
		interview.IsCompleted = true
		return interview, nil
	}

	if err := u.rooms.EnableRoom(ctx, interview.RoomID, false); err != nil {
		return nil, apperror.ExternalProvider("Could not disable the interview room", err)
	}

	ended := *interview
	ended.IsEnabled = false
	ended.UpdatedAt = time.Now()
	if err := u.interviewRepo.Disable(ctx, &ended); err != nil {
		if enableErr := u.rooms.EnableRoom(ctx, interview.RoomID, true); enableErr != nil {
			logger.Log.Error("failed to re-enable room after end-call failure",
				"room_id", interview.RoomID,
				"error", enableErr,
			)
		}
		return nil, interviewWriteError(err)
	}
	ended.IsCompleted = true

	organiser, joinee := u.participants(ctx, &ended)
	u.publish(ctx, domain.TopicInterviewEnded, ended.ID, domain.InterviewEventPayload{
		Interview: ended, Organiser: organiser, Joinee: joinee,
	})
	return &ended, nil
}

func interviewWriteError(err error) error {
	if errors.Is(err, domain.ErrVersionConflict) {
		return apperror.Conflict("Interview was modified concurrently, please retry")
	}
	return notFoundOr(err, apperror.NotFound("Interview not found"))
}

func (u *schedulingUsecase) IssueJoinToken(ctx context.Context, roomID, actorID string) (*domain.JoinToken, error) {
	interview, err := u.interviewRepo.GetByRoomID(ctx, roomID)
	if err != nil {
		return nil, notFoundOr(err, apperror.NotFound("Room not found"))
	}
	if !interview.IsParticipant(actorID) {
		return nil, apperror.Unauthorized("Only the organiser or the joinee can join this room")
	}
	if !interview.IsEnabled {
		return nil, apperror.InterviewEnded()
	}

	token, err := u.rooms.IssueAuthToken(ctx, roomID, actorID)
	if err != nil {
		return nil, apperror.ExternalProvider("Could not issue a room token", err)
	}
	return &domain.JoinToken{RoomID: roomID, Token: token}, nil
}

// visibleInterview hides interviews from anyone who is not a participant.
func (u *schedulingUsecase) visibleInterview(ctx context.Context, interviewID int64, actorID string) (*domain.ScheduledInterview, error) {
	interview, err := u.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return nil, notFoundOr(err, apperror.NotFound("Interview not found"))
	}
	if !interview.IsParticipant(actorID) {
		return nil, apperror.NotFound("Interview not found")
	}
	interview.IsCompleted = interview.Completed(time.Now())
	return interview, nil
}

func (u *schedulingUsecase) GetScheduledEventDetail(ctx context.Context, interviewID int64, actorID string) (*domain.InterviewDetail, error) {
	interview, err := u.visibleInterview(ctx, interviewID, actorID)
	if err != nil {
		return nil, err
	}

	organiser, joinee := u.participants(ctx, interview)
	detail := &domain.InterviewDetail{
		Interview: interview,
		Organiser: &organiser,
		Joinee:    &joinee,
	}
	if interview.EventID != nil {
		if event, err := u.eventRepo.GetByID(ctx, *interview.EventID); err == nil {
			detail.Event = event
		}
	}
	return detail, nil
}

func (u *schedulingUsecase) ListInterviews(ctx context.Context, actorID, filter string) ([]domain.ScheduledInterview, error) {
	switch filter {
	case "":
		filter = domain.InterviewFilterAll
	case domain.InterviewFilterAll, domain.InterviewFilterUpcoming, domain.InterviewFilterCompleted:
	default:
		return nil, apperror.BadRequest("Status must be one of all, upcoming, completed")
	}

	now := time.Now()
	interviews, err := u.interviewRepo.ListByParticipant(ctx, actorID, filter, now)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	for i := range interviews {
		interviews[i].IsCompleted = interviews[i].Completed(now)
	}
	return interviews, nil
}

func (u *schedulingUsecase) ListRecordings(ctx context.Context, interviewID int64, actorID string) ([]domain.Recording, error) {
	interview, err := u.visibleInterview(ctx, interviewID, actorID)
	if err != nil {
		return nil, err
	}
	recordings, err := u.rooms.ListRecordings(ctx, interview.RoomID)
	if err != nil {
		return nil, apperror.ExternalProvider("Could not list recordings", err)
	}
	return recordings, nil
}

// ExportInterviews renders every interview of the actor as an xlsx workbook.
func (u *schedulingUsecase) ExportInterviews(ctx context.Context, actorID string) ([]byte, string, error) {
	now := time.Now()
	interviews, err := u.interviewRepo.ListByParticipant(ctx, actorID, domain.InterviewFilterAll, now)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheetName := "Interviews"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"ID", "DATE (UTC)", "START (UTC)", "END (UTC)", "TIMEZONE", "ORGANISER", "JOINEE", "ROLE", "STATUS", "ROOM"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	names := make(map[string]string)
	nameOf := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		name := id
		if user, err := u.userRepo.GetByID(ctx, id); err == nil {
			name = user.DisplayName()
		}
		names[id] = name
		return name
	}

	for rowIdx, iv := range interviews {
		role := "joinee"
		if iv.OrganiserID == actorID {
			role = "organiser"
		}
		status := "upcoming"
		if iv.Completed(now) {
			status = "completed"
		}
		values := []any{
			iv.ID,
			iv.InterviewDate,
			iv.StartTimeUTC.UTC().Format(timezone.TimeOfDayLayout),
			iv.EndTimeUTC.UTC().Format(timezone.TimeOfDayLayout),
			iv.Timezone,
			nameOf(iv.OrganiserID),
			nameOf(iv.JoineeID),
			role,
			status,
			iv.RoomID,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := range headers {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", apperror.Internal(fmt.Errorf("failed to write Excel file: %w", err))
	}

	filename := fmt.Sprintf("interviews_%s.xlsx", now.Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

// participants resolves both sides of an interview, falling back to bare ids.
func (u *schedulingUsecase) participants(ctx context.Context, iv *domain.ScheduledInterview) (domain.Participant, domain.Participant) {
	organiser := domain.Participant{ID: iv.OrganiserID, Timezone: iv.Timezone}
	if user, err := u.userRepo.GetByID(ctx, iv.OrganiserID); err == nil {
		organiser = participantOf(user, iv.Timezone)
	}
	joinee := domain.Participant{ID: iv.JoineeID, Timezone: iv.Timezone}
	if user, err := u.userRepo.GetByID(ctx, iv.JoineeID); err == nil {
		joinee = participantOf(user, iv.Timezone)
	}
	return organiser, joinee
}

func interviewPayload(iv *domain.ScheduledInterview, organiser, joinee *domain.User) domain.InterviewEventPayload {
	return domain.InterviewEventPayload{
		Interview: *iv,
		Organiser: participantOf(organiser, iv.Timezone),
		Joinee:    participantOf(joinee, iv.Timezone),
	}
}

func participantOf(user *domain.User, fallbackTz string) domain.Participant {
	return domain.Participant{
		ID:       user.ID,
		Name:     user.DisplayName(),
		Email:    user.Email,
		Timezone: user.PreferredTimezone(fallbackTz),
	}
}

// publish never fails the caller; the state change is already persisted.
func (u *schedulingUsecase) publish(ctx context.Context, topic string, interviewID int64, payload domain.InterviewEventPayload) {
	err := u.publisher.Publish(ctx, domain.DomainEvent{
		Type:          topic,
		AggregateType: domain.AggregateInterview,
		AggregateID:   idString(interviewID),
		Payload:       payload,
	})
	if err != nil {
		logger.Log.Error("failed to publish interview event",
			"topic", topic,
			"interview_id", interviewID,
			"error", err,
		)
	}
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
