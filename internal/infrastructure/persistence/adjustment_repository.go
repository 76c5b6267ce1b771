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

// GormQuantityAdjustmentRepository implements QuantityAdjustmentRepository using GORM
type GormQuantityAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormQuantityAdjustmentRepository creates a new GormQuantityAdjustmentRepository
func NewGormQuantityAdjustmentRepository(db *gorm.DB) *GormQuantityAdjustmentRepository {
	return &GormQuantityAdjustmentRepository{db: db}
}

// FindByID finds an adjustment by its ID
func (r *GormQuantityAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.QuantityAdjustment, error) {
	var model models.QuantityAdjustmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByKey finds the single pending or accepted adjustment for a
// composite key. Rejected adjustments are dead and never match.
func (r *GormQuantityAdjustmentRepository) FindActiveByKey(ctx context.Context, key delivery.AdjustmentKey) (*delivery.QuantityAdjustment, error) {
	var model models.QuantityAdjustmentModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND target_date = ? AND slot = ? AND milk_type_id = ? AND subcategory_id = ?",
			key.CustomerID, delivery.NormalizeDate(key.Date), key.Slot, key.MilkTypeID, key.SubcategoryID).
		Where("status IN ?", []delivery.AdjustmentStatus{delivery.AdjustmentStatusPending, delivery.AdjustmentStatusAccepted}).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindForCustomerAndDate returns all adjustments targeting (customer, date)
func (r *GormQuantityAdjustmentRepository) FindForCustomerAndDate(ctx context.Context, customerID uuid.UUID, date time.Time) ([]delivery.QuantityAdjustment, error) {
	var adjustmentModels []models.QuantityAdjustmentModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND target_date = ?", customerID, delivery.NormalizeDate(date)).
		Order("created_at ASC").
		Find(&adjustmentModels).Error; err != nil {
		return nil, err
	}
	return toQuantityAdjustments(adjustmentModels), nil
}

// FindAll returns adjustments matching the filter
func (r *GormQuantityAdjustmentRepository) FindAll(ctx context.Context, filter delivery.AdjustmentFilter) ([]delivery.QuantityAdjustment, error) {
	var adjustmentModels []models.QuantityAdjustmentModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.QuantityAdjustmentModel{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("target_date DESC, created_at DESC")

	if err := query.Find(&adjustmentModels).Error; err != nil {
		return nil, err
	}
	return toQuantityAdjustments(adjustmentModels), nil
}

// Count counts adjustments matching the filter
func (r *GormQuantityAdjustmentRepository) Count(ctx context.Context, filter delivery.AdjustmentFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.QuantityAdjustmentModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an adjustment
func (r *GormQuantityAdjustmentRepository) Save(ctx context.Context, adjustment *delivery.QuantityAdjustment) error {
	model := models.QuantityAdjustmentModelFromDomain(adjustment)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes an adjustment
func (r *GormQuantityAdjustmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.QuantityAdjustmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormQuantityAdjustmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter delivery.AdjustmentFilter) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("target_date >= ?", delivery.NormalizeDate(*filter.FromDate))
	}
	if filter.ToDate != nil {
		query = query.Where("target_date <= ?", delivery.NormalizeDate(*filter.ToDate))
	}
	return query
}

func toQuantityAdjustments(adjustmentModels []models.QuantityAdjustmentModel) []delivery.QuantityAdjustment {
	adjustments := make([]delivery.QuantityAdjustment, len(adjustmentModels))
	for i := range adjustmentModels {
		adjustments[i] = *adjustmentModels[i].ToDomain()
	}
	return adjustments
}

// Ensure GormQuantityAdjustmentRepository implements QuantityAdjustmentRepository
var _ delivery.QuantityAdjustmentRepository = (*GormQuantityAdjustmentRepository)(nil)
