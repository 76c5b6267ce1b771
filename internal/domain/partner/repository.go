package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/milkroute/backend/internal/domain/shared"
)

// CustomerFilter narrows customer listings
type CustomerFilter struct {
	shared.Filter
	Active *bool
}

// CustomerRepository persists customer aggregates
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByNumber(ctx context.Context, number int) (*Customer, error)
	FindAll(ctx context.Context, filter CustomerFilter) ([]*Customer, error)
	FindActive(ctx context.Context) ([]*Customer, error)
	Count(ctx context.Context, filter CustomerFilter) (int64, error)
	// NextCustomerNumber returns the next free sequential number, starting at 1
	NextCustomerNumber(ctx context.Context) (int, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreditTransactionFilter narrows credit history listings
type CreditTransactionFilter struct {
	shared.Filter
	CustomerID uuid.NullUUID
	Type       CreditTransactionType
}

// CreditTransactionRepository persists the append-only credit audit trail
type CreditTransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CreditTransaction, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter CreditTransactionFilter) ([]*CreditTransaction, error)
	Count(ctx context.Context, filter CreditTransactionFilter) (int64, error)
	Create(ctx context.Context, tx *CreditTransaction) error
}
