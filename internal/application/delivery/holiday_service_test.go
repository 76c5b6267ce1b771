package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/shared"
)

func newHolidayService(repo *MockHolidayRepository) *HolidayService {
	return NewHolidayService(repo, zap.NewNop())
}

func TestHolidayServiceCreateFixed(t *testing.T) {
	repo := new(MockHolidayRepository)
	svc := newHolidayService(repo)

	repo.On("Save", mock.Anything, mock.AnythingOfType("*delivery.Holiday")).Return(nil)

	holiday, err := svc.Create(context.Background(), CreateHolidayInput{
		Name: "Diwali",
		Date: time.Date(2026, 11, 8, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "Diwali", holiday.Name)
	assert.False(t, holiday.Recurring)
	require.NotNil(t, holiday.Date)
	assert.Equal(t, time.Date(2026, 11, 8, 0, 0, 0, 0, time.UTC), *holiday.Date)
	repo.AssertExpectations(t)
}

func TestHolidayServiceCreateRecurring(t *testing.T) {
	repo := new(MockHolidayRepository)
	svc := newHolidayService(repo)

	repo.On("Save", mock.Anything, mock.AnythingOfType("*delivery.Holiday")).Return(nil)

	holiday, err := svc.Create(context.Background(), CreateHolidayInput{
		Name:      "Republic Day",
		Recurring: true,
		Month:     time.January,
		Day:       26,
	})
	require.NoError(t, err)
	assert.True(t, holiday.Recurring)
	assert.Equal(t, time.January, holiday.Month)
	assert.Equal(t, 26, holiday.Day)
	assert.Nil(t, holiday.Date)
	repo.AssertExpectations(t)
}

func TestHolidayServiceCreateInvalid(t *testing.T) {
	repo := new(MockHolidayRepository)
	svc := newHolidayService(repo)

	_, err := svc.Create(context.Background(), CreateHolidayInput{
		Recurring: true,
		Month:     time.March,
		Day:       5,
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_NAME", domainErr.Code)

	_, err = svc.Create(context.Background(), CreateHolidayInput{
		Name:      "Bad month",
		Recurring: true,
		Month:     13,
		Day:       5,
	})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_MONTH", domainErr.Code)

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestHolidayServiceCheck(t *testing.T) {
	day := time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC)

	t.Run("holiday", func(t *testing.T) {
		repo := new(MockHolidayRepository)
		svc := newHolidayService(repo)

		holiday, err := delivery.NewRecurringHoliday("Republic Day", time.January, 26)
		require.NoError(t, err)
		repo.On("FindForDate", mock.Anything, day).Return(holiday, nil)

		check, err := svc.Check(context.Background(), day)
		require.NoError(t, err)
		assert.True(t, check.IsHoliday)
		assert.Equal(t, "Republic Day", check.Name)
	})

	t.Run("ordinary day", func(t *testing.T) {
		repo := new(MockHolidayRepository)
		svc := newHolidayService(repo)

		repo.On("FindForDate", mock.Anything, day).Return(nil, shared.ErrNotFound)

		check, err := svc.Check(context.Background(), day)
		require.NoError(t, err)
		assert.False(t, check.IsHoliday)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockHolidayRepository)
		svc := newHolidayService(repo)

		repo.On("FindForDate", mock.Anything, day).Return(nil, assert.AnError)

		_, err := svc.Check(context.Background(), day)
		require.Error(t, err)
	})
}

func TestHolidayServiceDelete(t *testing.T) {
	repo := new(MockHolidayRepository)
	svc := newHolidayService(repo)

	holiday, err := delivery.NewFixedHoliday("Strike", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	repo.On("Delete", mock.Anything, holiday.ID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), holiday.ID))
	repo.AssertExpectations(t)
}
