package delivery

import (
	"context"
	"time"

	"github.com/milkroute/backend/internal/domain/shared"
)

// Holiday is a delivery blackout date, either a fixed calendar date or a
// month/day combination that recurs every year.
type Holiday struct {
	shared.BaseEntity
	Name      string     `json:"name"`
	Date      *time.Time `json:"date,omitempty"`
	Month     time.Month `json:"month,omitempty"`
	Day       int        `json:"day,omitempty"`
	Recurring bool       `json:"recurring"`
}

// NewFixedHoliday creates a holiday for one exact date
func NewFixedHoliday(name string, date time.Time) (*Holiday, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Holiday name cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Holiday date cannot be empty")
	}

	normalized := NormalizeDate(date)
	return &Holiday{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Date:       &normalized,
		Recurring:  false,
	}, nil
}

// NewRecurringHoliday creates a holiday that recurs yearly on (month, day)
func NewRecurringHoliday(name string, month time.Month, day int) (*Holiday, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Holiday name cannot be empty")
	}
	if month < time.January || month > time.December {
		return nil, shared.NewDomainError("INVALID_MONTH", "Month must be between 1 and 12")
	}
	if day < 1 || day > 31 {
		return nil, shared.NewDomainError("INVALID_DAY", "Day must be between 1 and 31")
	}

	return &Holiday{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Month:      month,
		Day:        day,
		Recurring:  true,
	}, nil
}

// Matches reports whether the holiday blacks out the given date
func (h *Holiday) Matches(date time.Time) bool {
	date = NormalizeDate(date)
	if h.Recurring {
		return date.Month() == h.Month && date.Day() == h.Day
	}
	if h.Date == nil {
		return false
	}
	return h.Date.Equal(date)
}

// HolidayCheck is the oracle's answer for one date
type HolidayCheck struct {
	IsHoliday bool   `json:"is_holiday"`
	Name      string `json:"name,omitempty"`
}

// HolidayOracle answers whether a date is a delivery blackout.
// Callers treat oracle failures as non-holidays so an unrelated outage never
// blocks record generation.
type HolidayOracle interface {
	IsHoliday(ctx context.Context, date time.Time) (HolidayCheck, error)
}
