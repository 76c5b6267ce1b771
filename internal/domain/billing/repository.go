package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milkroute/backend/internal/domain/shared"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	CustomerID uuid.NullUUID
	Status     InvoiceStatus
	From       *time.Time
	To         *time.Time
}

// InvoiceSummary is the aggregate view across a filtered invoice set
type InvoiceSummary struct {
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	DueAmount   decimal.Decimal `json:"due_amount"`
	ByStatus    map[string]int64 `json:"by_status"`
}

// InvoiceRepository persists invoice aggregates
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, number string) (*Invoice, error)
	// FindOverlapping returns any invoices for the customer whose billing
	// period intersects [start, end].
	FindOverlapping(ctx context.Context, customerID uuid.UUID, start, end time.Time) ([]*Invoice, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter InvoiceFilter) ([]*Invoice, error)
	FindAll(ctx context.Context, filter InvoiceFilter) ([]*Invoice, error)
	FindUnsettled(ctx context.Context, customerID uuid.UUID) ([]*Invoice, error)
	// FindOpen returns every invoice that still carries a positive due amount
	FindOpen(ctx context.Context) ([]*Invoice, error)
	Count(ctx context.Context, filter InvoiceFilter) (int64, error)
	// MaxSequenceForPrefix returns the highest sequence already issued for
	// the given invoice number prefix, 0 when none exist.
	MaxSequenceForPrefix(ctx context.Context, prefix string) (int, error)
	// MaxPaymentSequence returns the highest sequence among generated payment
	// transaction ids for the customer and year, 0 when none exist.
	MaxPaymentSequence(ctx context.Context, customerID uuid.UUID, customerNumber, year int) (int, error)
	Summarize(ctx context.Context, filter InvoiceFilter) (*InvoiceSummary, error)
	Save(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}
