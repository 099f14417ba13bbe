package usecase

import (
	"errors"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/internal/timezone"
	"go-interview-scheduler/pkg/apperror"
)

// civilError maps normalizer failures onto the public taxonomy.
func civilError(err error) error {
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, timezone.ErrInvalidTimeFormat):
		return apperror.InvalidTimeFormat(err.Error(), err)
	case errors.Is(err, timezone.ErrInvalidTimezoneOrInstant):
		return apperror.InvalidTimezoneOrInstant(err.Error(), err)
	default:
		return apperror.Internal(err)
	}
}

// notFoundOr returns notFound for a missing row and masks anything else as internal.
func notFoundOr(err error, notFound *apperror.AppError) error {
	if errors.Is(err, domain.ErrNotFound) {
		return notFound
	}
	return apperror.Internal(err)
}
