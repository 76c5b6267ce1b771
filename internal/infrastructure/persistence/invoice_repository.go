package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/milkroute/backend/internal/domain/billing"
	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/shared"
	"github.com/milkroute/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an invoice by its invoice number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := conn(ctx, r.db).First(&model, "invoice_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOverlapping returns the customer's invoices whose billing period
// intersects [start, end]
func (r *GormInvoiceRepository) FindOverlapping(ctx context.Context, customerID uuid.UUID, start, end time.Time) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := conn(ctx, r.db).
		Where("customer_id = ? AND period_start <= ? AND period_end >= ?",
			customerID, delivery.NormalizeDate(end), delivery.NormalizeDate(start)).
		Order("period_start ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toInvoices(invoiceModels), nil
}

// FindByCustomer returns a customer's invoices matching the filter
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter billing.InvoiceFilter) ([]*billing.Invoice, error) {
	filter.CustomerID = uuid.NullUUID{UUID: customerID, Valid: true}
	return r.FindAll(ctx, filter)
}

// FindAll returns invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilterWithoutPagination(conn(ctx, r.db).Model(&models.InvoiceModel{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	query = query.Order("period_start DESC, invoice_number DESC")

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toInvoices(invoiceModels), nil
}

// FindUnsettled returns the customer's invoices that still carry a due amount
func (r *GormInvoiceRepository) FindUnsettled(ctx context.Context, customerID uuid.UUID) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := conn(ctx, r.db).
		Where("customer_id = ? AND due_amount > 0", customerID).
		Order("period_start ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toInvoices(invoiceModels), nil
}

// FindOpen returns every invoice that still carries a positive due amount
func (r *GormInvoiceRepository) FindOpen(ctx context.Context) ([]*billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := conn(ctx, r.db).
		Where("due_amount > 0").
		Order("due_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toInvoices(invoiceModels), nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter billing.InvoiceFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(conn(ctx, r.db).Model(&models.InvoiceModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MaxSequenceForPrefix returns the highest sequence already issued for the
// given invoice number prefix, 0 when none exist. The numeric suffix after
// the prefix is the sequence.
func (r *GormInvoiceRepository) MaxSequenceForPrefix(ctx context.Context, prefix string) (int, error) {
	var numbers []string
	if err := conn(ctx, r.db).
		Model(&models.InvoiceModel{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Pluck("invoice_number", &numbers).Error; err != nil {
		return 0, err
	}

	max := 0
	for _, number := range numbers {
		suffix := strings.TrimPrefix(number, prefix)
		sequence, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if sequence > max {
			max = sequence
		}
	}
	return max, nil
}

// MaxPaymentSequence returns the highest sequence among generated payment
// transaction ids for the customer and year, 0 when none exist. Payments live
// inside the invoice JSONB trail, so the customer's invoices are loaded and
// their transaction ids parsed in memory. Ids that do not follow the
// generated format, such as gateway references, are skipped.
func (r *GormInvoiceRepository) MaxPaymentSequence(ctx context.Context, customerID uuid.UUID, customerNumber, year int) (int, error) {
	var invoiceModels []models.InvoiceModel
	if err := conn(ctx, r.db).
		Select("payments").
		Where("customer_id = ?", customerID).
		Find(&invoiceModels).Error; err != nil {
		return 0, err
	}

	max := 0
	for i := range invoiceModels {
		for _, payment := range invoiceModels[i].Payments {
			y, n, sequence, ok := billing.ParsePaymentTransactionID(payment.TransactionID)
			if !ok || y != year || n != customerNumber {
				continue
			}
			if sequence > max {
				max = sequence
			}
		}
	}
	return max, nil
}

// Summarize computes aggregate totals and a per-status breakdown across the
// filtered invoice set
func (r *GormInvoiceRepository) Summarize(ctx context.Context, filter billing.InvoiceFilter) (*billing.InvoiceSummary, error) {
	type totalsRow struct {
		Count       int64
		TotalAmount decimal.Decimal
		AmountPaid  decimal.Decimal
		DueAmount   decimal.Decimal
	}

	var totals totalsRow
	query := r.applyFilterWithoutPagination(conn(ctx, r.db).Model(&models.InvoiceModel{}), filter)
	if err := query.
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total_amount, COALESCE(SUM(amount_paid), 0) AS amount_paid, COALESCE(SUM(due_amount), 0) AS due_amount").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	type statusRow struct {
		Status string
		Count  int64
	}

	var statusRows []statusRow
	statusQuery := r.applyFilterWithoutPagination(conn(ctx, r.db).Model(&models.InvoiceModel{}), filter)
	if err := statusQuery.
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(statusRows))
	for _, row := range statusRows {
		byStatus[row.Status] = row.Count
	}

	return &billing.InvoiceSummary{
		Count:       totals.Count,
		TotalAmount: totals.TotalAmount,
		AmountPaid:  totals.AmountPaid,
		DueAmount:   totals.DueAmount,
		ByStatus:    byStatus,
	}, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	if err := conn(ctx, r.db).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes an invoice
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.InvoiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter billing.InvoiceFilter) *gorm.DB {
	if filter.CustomerID.Valid {
		query = query.Where("customer_id = ?", filter.CustomerID.UUID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("period_end >= ?", delivery.NormalizeDate(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("period_start <= ?", delivery.NormalizeDate(*filter.To))
	}
	if filter.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

func toInvoices(invoiceModels []models.InvoiceModel) []*billing.Invoice {
	invoices := make([]*billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
