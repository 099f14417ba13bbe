package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-interview-scheduler/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Run("wrapped app error keeps its kind", func(t *testing.T) {
		err := fmt.Errorf("booking: %w", apperror.SelfBookingNotAllowed())
		assert.Equal(t, apperror.KindSelfBookingNotAllowed, apperror.KindOf(err))
		assert.True(t, apperror.Is(err, apperror.KindSelfBookingNotAllowed))
	})

	t.Run("plain errors are internal", func(t *testing.T) {
		assert.Equal(t, apperror.KindInternal, apperror.KindOf(errors.New("boom")))
		assert.False(t, apperror.Is(nil, apperror.KindInternal))
	})
}

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, apperror.Unauthorized("x").Code)
	assert.Equal(t, http.StatusUnauthorized, apperror.Unauthenticated("x").Code)
	assert.Equal(t, http.StatusNotFound, apperror.AvailabilityNotFound().Code)
	assert.Equal(t, http.StatusBadGateway, apperror.ExternalProvider("x", nil).Code)

	cause := errors.New("db down")
	internal := apperror.Internal(cause)
	assert.ErrorIs(t, internal, cause)
	assert.Equal(t, "Internal Server Error", internal.Error())
}
