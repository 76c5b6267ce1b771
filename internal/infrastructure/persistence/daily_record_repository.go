package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/shared"
	"github.com/milkroute/backend/internal/infrastructure/persistence/models"
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// GormDailyRecordRepository implements DailyRecordRepository using GORM
type GormDailyRecordRepository struct {
	db *gorm.DB
}

// NewGormDailyRecordRepository creates a new GormDailyRecordRepository
func NewGormDailyRecordRepository(db *gorm.DB) *GormDailyRecordRepository {
	return &GormDailyRecordRepository{db: db}
}

// FindByID finds a daily record by its ID
func (r *GormDailyRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.DailyRecord, error) {
	var model models.DailyRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomerAndDate finds the unique record for (customer, date)
func (r *GormDailyRecordRepository) FindByCustomerAndDate(ctx context.Context, customerID uuid.UUID, date time.Time) (*delivery.DailyRecord, error) {
	var model models.DailyRecordModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND record_date = ?", customerID, delivery.NormalizeDate(date)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByCustomerAndDate checks the (customer, date) idempotency key
func (r *GormDailyRecordRepository) ExistsByCustomerAndDate(ctx context.Context, customerID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DailyRecordModel{}).
		Where("customer_id = ? AND record_date = ?", customerID, delivery.NormalizeDate(date)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByCustomerAndPeriod returns a customer's records within [from, to], ordered by date
func (r *GormDailyRecordRepository) FindByCustomerAndPeriod(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]delivery.DailyRecord, error) {
	var recordModels []models.DailyRecordModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND record_date >= ? AND record_date <= ?",
			customerID, delivery.NormalizeDate(from), delivery.NormalizeDate(to)).
		Order("record_date ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	return toDailyRecords(recordModels), nil
}

// FindAll returns records matching the filter
func (r *GormDailyRecordRepository) FindAll(ctx context.Context, filter delivery.DailyRecordFilter) ([]delivery.DailyRecord, error) {
	var recordModels []models.DailyRecordModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.DailyRecordModel{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("record_date DESC, customer_number ASC")

	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}
	return toDailyRecords(recordModels), nil
}

// Count counts records matching the filter
func (r *GormDailyRecordRepository) Count(ctx context.Context, filter delivery.DailyRecordFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.DailyRecordModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new daily record. The unique (customer_id, record_date)
// index backs the generation idempotency contract.
func (r *GormDailyRecordRepository) Create(ctx context.Context, record *delivery.DailyRecord) error {
	model := models.DailyRecordModelFromDomain(record)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates an existing daily record
func (r *GormDailyRecordRepository) Save(ctx context.Context, record *delivery.DailyRecord) error {
	model := models.DailyRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a daily record
func (r *GormDailyRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DailyRecordModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormDailyRecordRepository) applyFilterWithoutPagination(query *gorm.DB, filter delivery.DailyRecordFilter) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.FromDate != nil {
		query = query.Where("record_date >= ?", delivery.NormalizeDate(*filter.FromDate))
	}
	if filter.ToDate != nil {
		query = query.Where("record_date <= ?", delivery.NormalizeDate(*filter.ToDate))
	}
	return query
}

func toDailyRecords(recordModels []models.DailyRecordModel) []delivery.DailyRecord {
	records := make([]delivery.DailyRecord, len(recordModels))
	for i := range recordModels {
		records[i] = *recordModels[i].ToDomain()
	}
	return records
}

// Ensure GormDailyRecordRepository implements DailyRecordRepository
var _ delivery.DailyRecordRepository = (*GormDailyRecordRepository)(nil)
