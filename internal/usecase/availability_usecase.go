package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/internal/slots"
	"go-interview-scheduler/internal/timezone"
	"go-interview-scheduler/pkg/apperror"
	"go-interview-scheduler/pkg/logger"
)

type availabilityUsecase struct {
	profileRepo     domain.AvailabilityRepository
	windowRepo      domain.TimeWindowRepository
	eventRepo       domain.EventRepository
	userRepo        domain.UserRepository
	defaultTimezone string
}

func NewAvailabilityUsecase(
	profileRepo domain.AvailabilityRepository,
	windowRepo domain.TimeWindowRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	defaultTimezone string,
) domain.AvailabilityUsecase {
	return &availabilityUsecase{
		profileRepo:     profileRepo,
		windowRepo:      windowRepo,
		eventRepo:       eventRepo,
		userRepo:        userRepo,
		defaultTimezone: defaultTimezone,
	}
}

func (u *availabilityUsecase) CreateProfile(ctx context.Context, ownerID string, input domain.ProfileInput) (*domain.AvailabilityProfile, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.BadRequest("Title is required")
	}
	tz := strings.TrimSpace(input.Timezone)
	if tz == "" {
		tz = u.defaultTimezone
	}
	if _, err := timezone.LoadLocation(tz); err != nil {
		return nil, civilError(err)
	}

	now := time.Now()
	profile := &domain.AvailabilityProfile{
		OwnerID:    ownerID,
		Title:      title,
		Timezone:   tz,
		ShareToken: uuid.NewString(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := u.profileRepo.Create(ctx, profile); err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

func (u *availabilityUsecase) ListProfiles(ctx context.Context, ownerID string) ([]domain.AvailabilityProfile, error) {
	profiles, err := u.profileRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return profiles, nil
}

// ownedProfile loads a profile and hides it from everyone but its owner.
func (u *availabilityUsecase) ownedProfile(ctx context.Context, ownerID string, id int64) (*domain.AvailabilityProfile, error) {
	profile, err := u.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperror.NotFound("Availability not found"))
	}
	if profile.OwnerID != ownerID {
		return nil, apperror.NotFound("Availability not found")
	}
	return profile, nil
}

func (u *availabilityUsecase) GetProfile(ctx context.Context, ownerID string, id int64) (*domain.AvailabilityDetail, error) {
	profile, err := u.ownedProfile(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	windows, err := u.windowRepo.ListByProfile(ctx, profile.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	for i := range windows {
		fillLocalTimes(&windows[i], profile.Timezone)
	}
	eventIDs, err := u.profileRepo.ListLinkedEventIDs(ctx, profile.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AvailabilityDetail{Profile: profile, Windows: windows, EventIDs: eventIDs}, nil
}

func (u *availabilityUsecase) UpdateProfile(ctx context.Context, ownerID string, id int64, input domain.ProfileInput) (*domain.AvailabilityProfile, error) {
	profile, err := u.ownedProfile(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		profile.Title = title
	}

	tz := strings.TrimSpace(input.Timezone)
	if tz != "" && tz != profile.Timezone {
		if _, err := timezone.LoadLocation(tz); err != nil {
			return nil, civilError(err)
		}
		if err := u.reanchorWindows(ctx, profile, tz); err != nil {
			return nil, err
		}
		profile.Timezone = tz
	}

	profile.UpdatedAt = time.Now()
	if err := u.profileRepo.Update(ctx, profile); err != nil {
		return nil, notFoundOr(err, apperror.NotFound("Availability not found"))
	}
	return profile, nil
}

// reanchorWindows keeps every window's civil times when the profile moves to another zone.
func (u *availabilityUsecase) reanchorWindows(ctx context.Context, profile *domain.AvailabilityProfile, newTz string) error {
	windows, err := u.windowRepo.ListByProfile(ctx, profile.ID)
	if err != nil {
		return apperror.Internal(err)
	}
	if len(windows) == 0 {
		return nil
	}

	for i := range windows {
		start, err := timezone.UTCToCivilTime(windows[i].StartTime, profile.Timezone)
		if err != nil {
			return civilError(err)
		}
		end, err := timezone.UTCToCivilTime(windows[i].EndTime, profile.Timezone)
		if err != nil {
			return civilError(err)
		}
		if windows[i].StartTime, err = timezone.CivilTimeToUTC(start, newTz); err != nil {
			return civilError(err)
		}
		if windows[i].EndTime, err = timezone.CivilTimeToUTC(end, newTz); err != nil {
			return civilError(err)
		}
		windows[i].UpdatedAt = time.Now()
	}

	if err := u.windowRepo.UpdateTimes(ctx, windows); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (u *availabilityUsecase) DeleteProfile(ctx context.Context, ownerID string, id int64) error {
	profile, err := u.ownedProfile(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := u.profileRepo.Delete(ctx, profile.ID); err != nil {
		return notFoundOr(err, apperror.NotFound("Availability not found"))
	}
	return nil
}

func (u *availabilityUsecase) AddWindow(ctx context.Context, ownerID string, profileID int64, input domain.WindowInput) (*domain.TimeWindow, error) {
	profile, err := u.ownedProfile(ctx, ownerID, profileID)
	if err != nil {
		return nil, err
	}

	window := &domain.TimeWindow{ProfileID: profile.ID}
	if err := applyWindowInput(window, input, profile.Timezone); err != nil {
		return nil, err
	}
	window.CreatedAt = time.Now()
	window.UpdatedAt = window.CreatedAt

	if err := u.windowRepo.Create(ctx, window); err != nil {
		return nil, apperror.Internal(err)
	}
	fillLocalTimes(window, profile.Timezone)
	return window, nil
}

// ownedWindow resolves a window through its parent profile and owner.
func (u *availabilityUsecase) ownedWindow(ctx context.Context, ownerID string, windowID int64) (*domain.TimeWindow, *domain.AvailabilityProfile, error) {
	window, err := u.windowRepo.GetByID(ctx, windowID)
	if err != nil {
		return nil, nil, notFoundOr(err, apperror.NotFound("Time window not found"))
	}
	profile, err := u.profileRepo.GetByID(ctx, window.ProfileID)
	if err != nil || profile.OwnerID != ownerID {
		return nil, nil, apperror.NotFound("Time window not found")
	}
	return window, profile, nil
}

func (u *availabilityUsecase) UpdateWindow(ctx context.Context, ownerID string, windowID int64, input domain.WindowInput) (*domain.TimeWindow, error) {
	window, profile, err := u.ownedWindow(ctx, ownerID, windowID)
	if err != nil {
		return nil, err
	}
	if err := applyWindowInput(window, input, profile.Timezone); err != nil {
		return nil, err
	}
	window.UpdatedAt = time.Now()

	if err := u.windowRepo.Update(ctx, window); err != nil {
		return nil, notFoundOr(err, apperror.NotFound("Time window not found"))
	}
	fillLocalTimes(window, profile.Timezone)
	return window, nil
}

func (u *availabilityUsecase) DeleteWindow(ctx context.Context, ownerID string, windowID int64) error {
	window, _, err := u.ownedWindow(ctx, ownerID, windowID)
	if err != nil {
		return err
	}
	if err := u.windowRepo.Delete(ctx, window.ID); err != nil {
		return notFoundOr(err, apperror.NotFound("Time window not found"))
	}
	return nil
}

// applyWindowInput validates input and writes it onto window. Times are anchored on
// today in tz. An end earlier than the start is an overnight window and is accepted.
func applyWindowInput(window *domain.TimeWindow, input domain.WindowInput, tz string) error {
	hasWeekday := input.Weekday != nil
	hasDate := input.SpecificDate != nil && strings.TrimSpace(*input.SpecificDate) != ""
	if hasWeekday == hasDate {
		return apperror.InvalidWindowSpecification("Exactly one of weekday or specific_date must be set")
	}

	window.Weekday = nil
	window.SpecificDate = nil
	if hasWeekday {
		if *input.Weekday < 0 || *input.Weekday > 6 {
			return apperror.InvalidWindowSpecification("Weekday must be between 0 (Sunday) and 6 (Saturday)")
		}
		weekday := *input.Weekday
		window.Weekday = &weekday
	} else {
		date, err := timezone.ParseCivilDate(strings.TrimSpace(*input.SpecificDate))
		if err != nil {
			return civilError(err)
		}
		specific := date.String()
		window.SpecificDate = &specific
	}

	start, err := timezone.ParseTimeOfDay(input.StartTime)
	if err != nil {
		return civilError(err)
	}
	end, err := timezone.ParseTimeOfDay(input.EndTime)
	if err != nil {
		return civilError(err)
	}
	if start == end {
		return apperror.InvalidWindowSpecification("Start and end time must differ")
	}

	if window.StartTime, err = timezone.CivilTimeToUTC(input.StartTime, tz); err != nil {
		return civilError(err)
	}
	if window.EndTime, err = timezone.CivilTimeToUTC(input.EndTime, tz); err != nil {
		return civilError(err)
	}
	return nil
}

func fillLocalTimes(window *domain.TimeWindow, tz string) {
	if start, err := timezone.UTCToCivilTime(window.StartTime, tz); err == nil {
		window.LocalStartTime = start
	}
	if end, err := timezone.UTCToCivilTime(window.EndTime, tz); err == nil {
		window.LocalEndTime = end
	}
}

func (u *availabilityUsecase) LinkEvent(ctx context.Context, ownerID string, profileID, eventID int64) error {
	profile, err := u.ownedProfile(ctx, ownerID, profileID)
	if err != nil {
		return err
	}
	event, err := u.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return notFoundOr(err, apperror.EventNotFound())
	}
	if event.OwnerID != ownerID {
		return apperror.EventNotFound()
	}

	// linking twice is a no-op
	if err := u.profileRepo.LinkEvent(ctx, profile.ID, event.ID); err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return apperror.Internal(err)
	}
	return nil
}

func (u *availabilityUsecase) UnlinkEvent(ctx context.Context, ownerID string, profileID, eventID int64) error {
	profile, err := u.ownedProfile(ctx, ownerID, profileID)
	if err != nil {
		return err
	}
	if err := u.profileRepo.UnlinkEvent(ctx, profile.ID, eventID); err != nil {
		return notFoundOr(err, apperror.NotFound("Event is not linked to this availability"))
	}
	return nil
}

func (u *availabilityUsecase) FindSlots(ctx context.Context, shareToken, queryDate, timezoneOverride, requesterID string) (*domain.SlotListing, error) {
	profile, err := u.profileRepo.GetByShareToken(ctx, shareToken)
	if err != nil {
		return nil, notFoundOr(err, apperror.AvailabilityNotFound())
	}

	tz := u.requesterTimezone(ctx, profile, timezoneOverride, requesterID)

	windows, err := u.windowRepo.ListByProfile(ctx, profile.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	derived, err := slots.Derive(queryDate, tz, profile.Timezone, windows)
	if err != nil {
		return nil, civilError(err)
	}

	events, err := u.linkedActiveEvents(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	return &domain.SlotListing{
		ProfileID: profile.ID,
		Title:     profile.Title,
		Date:      queryDate,
		Timezone:  tz,
		Events:    events,
		Slots:     derived,
	}, nil
}

// requesterTimezone picks the override, then the requester's stored preference, then the profile zone.
func (u *availabilityUsecase) requesterTimezone(ctx context.Context, profile *domain.AvailabilityProfile, override, requesterID string) string {
	if tz := strings.TrimSpace(override); tz != "" {
		return tz
	}
	if requesterID != "" {
		user, err := u.userRepo.GetByID(ctx, requesterID)
		if err == nil {
			return user.PreferredTimezone(profile.Timezone)
		}
		logger.Log.Warn("requester lookup failed, using profile timezone",
			"requester_id", requesterID,
			"profile_id", profile.ID,
			"error", err,
		)
	}
	return profile.Timezone
}

func (u *availabilityUsecase) linkedActiveEvents(ctx context.Context, profileID int64) ([]domain.EventDefinition, error) {
	ids, err := u.profileRepo.ListLinkedEventIDs(ctx, profileID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(ids) == 0 {
		return []domain.EventDefinition{}, nil
	}
	linked, err := u.eventRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	active := make([]domain.EventDefinition, 0, len(linked))
	for _, e := range linked {
		if e.IsActive {
			active = append(active, e)
		}
	}
	return active, nil
}
