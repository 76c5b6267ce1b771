package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/milkroute/backend/internal/domain/partner"
	"github.com/milkroute/backend/internal/domain/shared"
	"github.com/milkroute/backend/internal/infrastructure/persistence/models"
)

// GormCreditTransactionRepository implements CreditTransactionRepository using GORM
type GormCreditTransactionRepository struct {
	db *gorm.DB
}

// NewGormCreditTransactionRepository creates a new GormCreditTransactionRepository
func NewGormCreditTransactionRepository(db *gorm.DB) *GormCreditTransactionRepository {
	return &GormCreditTransactionRepository{db: db}
}

// FindByID finds a credit transaction by its ID
func (r *GormCreditTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.CreditTransaction, error) {
	var model models.CreditTransactionModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer returns a customer's credit movements, newest first
func (r *GormCreditTransactionRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter partner.CreditTransactionFilter) ([]*partner.CreditTransaction, error) {
	var txModels []models.CreditTransactionModel
	query := conn(ctx, r.db).
		Model(&models.CreditTransactionModel{}).
		Where("customer_id = ?", customerID)
	query = r.applyTypeFilter(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("occurred_at DESC")

	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*partner.CreditTransaction, len(txModels))
	for i := range txModels {
		transactions[i] = txModels[i].ToDomain()
	}
	return transactions, nil
}

// Count counts credit transactions matching the filter
func (r *GormCreditTransactionRepository) Count(ctx context.Context, filter partner.CreditTransactionFilter) (int64, error) {
	var count int64
	query := conn(ctx, r.db).Model(&models.CreditTransactionModel{})
	if filter.CustomerID.Valid {
		query = query.Where("customer_id = ?", filter.CustomerID.UUID)
	}
	query = r.applyTypeFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create appends a credit transaction to the audit trail
func (r *GormCreditTransactionRepository) Create(ctx context.Context, tx *partner.CreditTransaction) error {
	model := models.CreditTransactionModelFromDomain(tx)
	return conn(ctx, r.db).Create(model).Error
}

func (r *GormCreditTransactionRepository) applyTypeFilter(query *gorm.DB, filter partner.CreditTransactionFilter) *gorm.DB {
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	return query
}

// Ensure GormCreditTransactionRepository implements CreditTransactionRepository
var _ partner.CreditTransactionRepository = (*GormCreditTransactionRepository)(nil)
