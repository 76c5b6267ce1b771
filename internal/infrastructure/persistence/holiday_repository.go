package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/shared"
	"github.com/milkroute/backend/internal/infrastructure/persistence/models"
)

// GormHolidayRepository implements HolidayRepository using GORM
type GormHolidayRepository struct {
	db *gorm.DB
}

// NewGormHolidayRepository creates a new GormHolidayRepository
func NewGormHolidayRepository(db *gorm.DB) *GormHolidayRepository {
	return &GormHolidayRepository{db: db}
}

// FindByID finds a holiday by its ID
func (r *GormHolidayRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.Holiday, error) {
	var model models.HolidayModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindForDate returns the holiday matching a date, fixed or recurring.
// Fixed-date entries win over recurring ones when both match.
func (r *GormHolidayRepository) FindForDate(ctx context.Context, date time.Time) (*delivery.Holiday, error) {
	day := delivery.NormalizeDate(date)

	var model models.HolidayModel
	err := r.db.WithContext(ctx).
		Where("(recurring = false AND date = ?) OR (recurring = true AND month = ? AND day = ?)",
			day, int(day.Month()), day.Day()).
		Order("recurring ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all holidays, fixed dates first
func (r *GormHolidayRepository) FindAll(ctx context.Context) ([]delivery.Holiday, error) {
	var holidayModels []models.HolidayModel
	if err := r.db.WithContext(ctx).
		Order("recurring ASC, date ASC, month ASC, day ASC").
		Find(&holidayModels).Error; err != nil {
		return nil, err
	}

	holidays := make([]delivery.Holiday, len(holidayModels))
	for i := range holidayModels {
		holidays[i] = *holidayModels[i].ToDomain()
	}
	return holidays, nil
}

// Save creates or updates a holiday
func (r *GormHolidayRepository) Save(ctx context.Context, holiday *delivery.Holiday) error {
	model := models.HolidayModelFromDomain(holiday)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a holiday
func (r *GormHolidayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.HolidayModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormHolidayRepository implements HolidayRepository
var _ delivery.HolidayRepository = (*GormHolidayRepository)(nil)

// DbHolidayOracle answers holiday checks from the holidays table.
type DbHolidayOracle struct {
	holidays delivery.HolidayRepository
}

// NewDbHolidayOracle creates a holiday oracle backed by a HolidayRepository
func NewDbHolidayOracle(holidays delivery.HolidayRepository) *DbHolidayOracle {
	return &DbHolidayOracle{holidays: holidays}
}

// IsHoliday reports whether a date is a holiday and, if so, its name
func (o *DbHolidayOracle) IsHoliday(ctx context.Context, date time.Time) (delivery.HolidayCheck, error) {
	holiday, err := o.holidays.FindForDate(ctx, date)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return delivery.HolidayCheck{}, nil
		}
		return delivery.HolidayCheck{}, err
	}
	return delivery.HolidayCheck{IsHoliday: true, Name: holiday.Name}, nil
}

// Ensure DbHolidayOracle implements HolidayOracle
var _ delivery.HolidayOracle = (*DbHolidayOracle)(nil)
