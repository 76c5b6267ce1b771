package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/shared"
)

// HolidayService manages the delivery blackout calendar behind the holiday
// oracle.
type HolidayService struct {
	holidayRepo delivery.HolidayRepository
	logger      *zap.Logger
}

// NewHolidayService creates a new HolidayService
func NewHolidayService(holidayRepo delivery.HolidayRepository, logger *zap.Logger) *HolidayService {
	return &HolidayService{
		holidayRepo: holidayRepo,
		logger:      logger,
	}
}

// CreateHolidayInput carries the fields for declaring a holiday. A recurring
// holiday fires every year on (month, day); a fixed one on a single date.
type CreateHolidayInput struct {
	Name      string
	Recurring bool
	Date      time.Time
	Month     time.Month
	Day       int
}

// Create declares a new holiday
func (s *HolidayService) Create(ctx context.Context, input CreateHolidayInput) (*delivery.Holiday, error) {
	var holiday *delivery.Holiday
	var err error

	if input.Recurring {
		holiday, err = delivery.NewRecurringHoliday(input.Name, input.Month, input.Day)
	} else {
		holiday, err = delivery.NewFixedHoliday(input.Name, input.Date)
	}
	if err != nil {
		return nil, err
	}

	if err := s.holidayRepo.Save(ctx, holiday); err != nil {
		s.logger.Error("Failed to save holiday", zap.Error(err))
		return nil, fmt.Errorf("failed to save holiday: %w", err)
	}

	s.logger.Info("Holiday created",
		zap.String("holiday_id", holiday.ID.String()),
		zap.String("name", holiday.Name),
		zap.Bool("recurring", holiday.Recurring))

	return holiday, nil
}

// Get returns one holiday
func (s *HolidayService) Get(ctx context.Context, id uuid.UUID) (*delivery.Holiday, error) {
	return s.holidayRepo.FindByID(ctx, id)
}

// List returns the whole calendar
func (s *HolidayService) List(ctx context.Context) ([]delivery.Holiday, error) {
	return s.holidayRepo.FindAll(ctx)
}

// Check answers whether a date is a holiday
func (s *HolidayService) Check(ctx context.Context, date time.Time) (delivery.HolidayCheck, error) {
	holiday, err := s.holidayRepo.FindForDate(ctx, date)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return delivery.HolidayCheck{}, nil
		}
		return delivery.HolidayCheck{}, err
	}
	return delivery.HolidayCheck{IsHoliday: true, Name: holiday.Name}, nil
}

// Delete removes a holiday from the calendar
func (s *HolidayService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.holidayRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Holiday deleted", zap.String("holiday_id", id.String()))
	return nil
}
