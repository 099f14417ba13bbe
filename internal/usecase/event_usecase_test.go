package usecase_test

import (
	"context"
	"testing"

	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/internal/usecase"
	"go-interview-scheduler/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateEvent(t *testing.T) {
	t.Run("Should default to active and clear other defaults", func(t *testing.T) {
		repo := new(MockEventRepo)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.EventDefinition")).Return(nil).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.EventDefinition).ID = 8
		})
		repo.On("ClearDefault", mock.Anything, "org", int64(8)).Return(nil)
		uc := usecase.NewEventUsecase(repo)

		isDefault := true
		event, err := uc.CreateEvent(context.Background(), "org", domain.EventInput{
			Title:           "Tech screen",
			DurationMinutes: 45,
			IsDefault:       &isDefault,
			Questions:       []domain.EventQuestion{{Key: " github ", Label: "GitHub", Required: true}},
		})
		require.NoError(t, err)
		assert.True(t, event.IsActive)
		assert.True(t, event.IsDefault)
		assert.NotEmpty(t, event.ShareToken)
		assert.Equal(t, "github", event.Questions[0].Key)
		repo.AssertExpectations(t)
	})

	t.Run("Should validate duration and questions", func(t *testing.T) {
		uc := usecase.NewEventUsecase(new(MockEventRepo))

		_, err := uc.CreateEvent(context.Background(), "org", domain.EventInput{Title: "x", DurationMinutes: 0})
		assert.True(t, apperror.Is(err, apperror.KindBadRequest))

		_, err = uc.CreateEvent(context.Background(), "org", domain.EventInput{
			Title:           "x",
			DurationMinutes: 30,
			Questions:       []domain.EventQuestion{{Key: "a", Label: "A"}, {Key: "a", Label: "Again"}},
		})
		assert.True(t, apperror.Is(err, apperror.KindBadRequest))
	})
}

func TestUpdateEventDurationNeverDecreases(t *testing.T) {
	newRepo := func() *MockEventRepo {
		repo := new(MockEventRepo)
		repo.On("GetByID", mock.Anything, int64(8)).Return(&domain.EventDefinition{ID: 8, OwnerID: "org", Title: "Screen", DurationMinutes: 45, IsActive: true}, nil)
		return repo
	}

	t.Run("Should refuse a shorter duration", func(t *testing.T) {
		repo := newRepo()
		uc := usecase.NewEventUsecase(repo)

		_, err := uc.UpdateEvent(context.Background(), "org", 8, domain.EventInput{DurationMinutes: 30})
		assert.True(t, apperror.Is(err, apperror.KindDurationDecrease))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Should allow a longer duration", func(t *testing.T) {
		repo := newRepo()
		repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.EventDefinition")).Return(nil)
		uc := usecase.NewEventUsecase(repo)

		event, err := uc.UpdateEvent(context.Background(), "org", 8, domain.EventInput{DurationMinutes: 60})
		require.NoError(t, err)
		assert.Equal(t, 60, event.DurationMinutes)
		assert.Equal(t, "Screen", event.Title)
	})

	t.Run("Should hide foreign events", func(t *testing.T) {
		uc := usecase.NewEventUsecase(newRepo())
		_, err := uc.UpdateEvent(context.Background(), "eve", 8, domain.EventInput{DurationMinutes: 60})
		assert.True(t, apperror.Is(err, apperror.KindEventNotFound))
	})
}

func TestGetPublicEventHidesInactive(t *testing.T) {
	repo := new(MockEventRepo)
	repo.On("GetByShareToken", mock.Anything, "live").Return(&domain.EventDefinition{ID: 1, IsActive: true}, nil)
	repo.On("GetByShareToken", mock.Anything, "off").Return(&domain.EventDefinition{ID: 2, IsActive: false}, nil)
	uc := usecase.NewEventUsecase(repo)

	event, err := uc.GetPublicEvent(context.Background(), "live")
	require.NoError(t, err)
	assert.Equal(t, int64(1), event.ID)

	_, err = uc.GetPublicEvent(context.Background(), "off")
	assert.True(t, apperror.Is(err, apperror.KindEventNotFound))
}
