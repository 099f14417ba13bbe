package apperror

import (
	"errors"
	"net/http"
)

// Kind is the stable machine-readable error identifier returned to clients.
type Kind string

const (
	KindBadRequest                 Kind = "BAD_REQUEST"
	KindAuthentication             Kind = "AUTHENTICATION_REQUIRED"
	KindNotFound                   Kind = "NOT_FOUND"
	KindUnauthorized               Kind = "UNAUTHORIZED"
	KindConflict                   Kind = "CONFLICT"
	KindInternal                   Kind = "INTERNAL"
	KindInvalidWindowSpecification Kind = "INVALID_WINDOW_SPECIFICATION"
	KindInvalidTimeFormat          Kind = "INVALID_TIME_FORMAT"
	KindInvalidTimezoneOrInstant   Kind = "INVALID_TIMEZONE_OR_INSTANT"
	KindInvalidInterviewRange      Kind = "INVALID_INTERVIEW_RANGE"
	KindSelfBookingNotAllowed      Kind = "SELF_BOOKING_NOT_ALLOWED"
	KindAvailabilityNotFound       Kind = "AVAILABILITY_NOT_FOUND"
	KindEventNotFound              Kind = "EVENT_NOT_FOUND"
	KindDurationDecrease           Kind = "DURATION_DECREASE_NOT_ALLOWED"
	KindInterviewEnded             Kind = "INTERVIEW_ENDED"
	KindExternalProviderFailure    Kind = "EXTERNAL_PROVIDER_FAILURE"
)

type AppError struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, kind Kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of an AppError anywhere in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, KindBadRequest, message, nil)
}

// Unauthenticated is used when no valid identity accompanies the request.
func Unauthenticated(message string) *AppError {
	return New(http.StatusUnauthorized, KindAuthentication, message, nil)
}

// Unauthorized means the entity exists but the caller lacks the required relationship to it.
func Unauthorized(message string) *AppError {
	return New(http.StatusForbidden, KindUnauthorized, message, nil)
}

// NotFound also covers "exists but not visible to the caller".
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, KindConflict, message, nil)
}

func InvalidWindowSpecification(message string) *AppError {
	return New(http.StatusBadRequest, KindInvalidWindowSpecification, message, nil)
}

func InvalidTimeFormat(message string, err error) *AppError {
	return New(http.StatusBadRequest, KindInvalidTimeFormat, message, err)
}

func InvalidTimezoneOrInstant(message string, err error) *AppError {
	return New(http.StatusBadRequest, KindInvalidTimezoneOrInstant, message, err)
}

func InvalidInterviewRange(message string) *AppError {
	return New(http.StatusBadRequest, KindInvalidInterviewRange, message, nil)
}

func SelfBookingNotAllowed() *AppError {
	return New(http.StatusBadRequest, KindSelfBookingNotAllowed, "You cannot book your own availability", nil)
}

func AvailabilityNotFound() *AppError {
	return New(http.StatusNotFound, KindAvailabilityNotFound, "Availability not found", nil)
}

func EventNotFound() *AppError {
	return New(http.StatusNotFound, KindEventNotFound, "Event not found", nil)
}

func DurationDecrease(message string) *AppError {
	return New(http.StatusBadRequest, KindDurationDecrease, message, nil)
}

func InterviewEnded() *AppError {
	return New(http.StatusConflict, KindInterviewEnded, "Interview has already ended", nil)
}

// ExternalProvider wraps a failure of the video room provider.
func ExternalProvider(message string, err error) *AppError {
	return New(http.StatusBadGateway, KindExternalProviderFailure, message, err)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, KindInternal, "Internal Server Error", err)
}
