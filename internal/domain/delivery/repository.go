package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/milkroute/backend/internal/domain/shared"
)

// DailyRecordFilter defines filtering options for daily record queries
type DailyRecordFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	FromDate   *time.Time
	ToDate     *time.Time
}

// DailyRecordRepository defines the interface for daily record persistence
type DailyRecordRepository interface {
	// FindByID finds a daily record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*DailyRecord, error)

	// FindByCustomerAndDate finds the unique record for (customer, date)
	FindByCustomerAndDate(ctx context.Context, customerID uuid.UUID, date time.Time) (*DailyRecord, error)

	// ExistsByCustomerAndDate checks the (customer, date) idempotency key
	ExistsByCustomerAndDate(ctx context.Context, customerID uuid.UUID, date time.Time) (bool, error)

	// FindByCustomerAndPeriod returns a customer's records within [from, to], ordered by date
	FindByCustomerAndPeriod(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]DailyRecord, error)

	// FindAll returns records matching the filter
	FindAll(ctx context.Context, filter DailyRecordFilter) ([]DailyRecord, error)

	// Count counts records matching the filter
	Count(ctx context.Context, filter DailyRecordFilter) (int64, error)

	// Create persists a new daily record; returns shared.ErrAlreadyExists when
	// a record for (customer, date) already exists
	Create(ctx context.Context, record *DailyRecord) error

	// Save updates an existing daily record
	Save(ctx context.Context, record *DailyRecord) error

	// Delete removes a daily record
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdjustmentFilter defines filtering options for adjustment queries
type AdjustmentFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	Status     *AdjustmentStatus
	FromDate   *time.Time
	ToDate     *time.Time
}

// QuantityAdjustmentRepository defines the interface for adjustment persistence
type QuantityAdjustmentRepository interface {
	// FindByID finds an adjustment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*QuantityAdjustment, error)

	// FindActiveByKey finds the single active (pending or accepted) adjustment
	// for a composite key, or shared.ErrNotFound
	FindActiveByKey(ctx context.Context, key AdjustmentKey) (*QuantityAdjustment, error)

	// FindForCustomerAndDate returns all adjustments targeting (customer, date)
	FindForCustomerAndDate(ctx context.Context, customerID uuid.UUID, date time.Time) ([]QuantityAdjustment, error)

	// FindAll returns adjustments matching the filter
	FindAll(ctx context.Context, filter AdjustmentFilter) ([]QuantityAdjustment, error)

	// Count counts adjustments matching the filter
	Count(ctx context.Context, filter AdjustmentFilter) (int64, error)

	// Save creates or updates an adjustment
	Save(ctx context.Context, adjustment *QuantityAdjustment) error

	// Delete removes an adjustment
	Delete(ctx context.Context, id uuid.UUID) error
}

// HolidayRepository defines the interface for holiday persistence
type HolidayRepository interface {
	// FindByID finds a holiday by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Holiday, error)

	// FindForDate returns the holiday matching a date, fixed or recurring,
	// or shared.ErrNotFound
	FindForDate(ctx context.Context, date time.Time) (*Holiday, error)

	// FindAll returns all holidays
	FindAll(ctx context.Context) ([]Holiday, error)

	// Save creates or updates a holiday
	Save(ctx context.Context, holiday *Holiday) error

	// Delete removes a holiday
	Delete(ctx context.Context, id uuid.UUID) error
}
