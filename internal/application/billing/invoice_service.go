package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/milkroute/backend/internal/domain/billing"
	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/partner"
	"github.com/milkroute/backend/internal/domain/shared"
)

// batchMinDaysRemaining gates batch generation to month end. Single-customer
// generation carries no such guard.
const batchMinDaysRemaining = 3

// InvoiceService aggregates daily records into monthly invoices and manages
// their payment lifecycle.
type InvoiceService struct {
	invoiceRepo  billing.InvoiceRepository
	recordRepo   delivery.DailyRecordRepository
	customerRepo partner.CustomerRepository
	creditTxRepo partner.CreditTransactionRepository
	tx           shared.TransactionManager
	logger       *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	recordRepo delivery.DailyRecordRepository,
	customerRepo partner.CustomerRepository,
	creditTxRepo partner.CreditTransactionRepository,
	tx shared.TransactionManager,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		recordRepo:   recordRepo,
		customerRepo: customerRepo,
		creditTxRepo: creditTxRepo,
		tx:           tx,
		logger:       logger,
	}
}

// GenerateInvoiceInput identifies the customer and billing month
type GenerateInvoiceInput struct {
	CustomerID     uuid.UUID
	Month          int
	Year           int
	UpdateExisting bool
}

// GenerateInvoiceResult reports what Generate did
type GenerateInvoiceResult struct {
	Invoice *billing.Invoice `json:"invoice"`
	Updated bool             `json:"updated"`
}

func monthPeriod(month, year int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_MONTH", "Month must be between 1 and 12")
	}
	if year < 2000 || year > 2200 {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_YEAR", "Year is out of range")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}

// buildItems folds daily records into per-day invoice snapshots
func buildItems(records []delivery.DailyRecord) billing.InvoiceItems {
	items := make(billing.InvoiceItems, 0, len(records))
	for _, record := range records {
		items = append(items, billing.InvoiceItem{
			RecordDate: record.RecordDate,
			Slots:      []delivery.ScheduleSlot(record.Slots),
			Quantity:   record.TotalQuantity,
			Amount:     record.TotalAmount,
		})
	}
	return items
}

// Generate creates (or, with updateExisting, refreshes) the invoice covering
// one customer's month. Overlap is tested by range intersection since an
// earlier invoice may have been extended past its original month.
func (s *InvoiceService) Generate(ctx context.Context, input GenerateInvoiceInput) (*GenerateInvoiceResult, error) {
	periodStart, periodEnd, err := monthPeriod(input.Month, input.Year)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.invoiceRepo.FindOverlapping(ctx, customer.ID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to check overlapping invoices: %w", err)
	}

	if len(overlapping) > 0 {
		existing := overlapping[0]
		if !input.UpdateExisting {
			return nil, shared.NewDomainError("INVOICE_CONFLICT",
				fmt.Sprintf("Invoice %s (id %s) already covers part of this period", existing.InvoiceNumber, existing.ID))
		}
		return s.regenerate(ctx, customer, existing, periodEnd)
	}

	return s.create(ctx, customer, periodStart, periodEnd)
}

// regenerate refreshes an existing invoice's items and period without
// re-applying credit or touching recorded payments.
func (s *InvoiceService) regenerate(ctx context.Context, customer *partner.Customer, invoice *billing.Invoice, periodEnd time.Time) (*GenerateInvoiceResult, error) {
	newEnd := invoice.PeriodEnd
	if periodEnd.After(newEnd) {
		newEnd = periodEnd
	}

	records, err := s.recordRepo.FindByCustomerAndPeriod(ctx, customer.ID, invoice.PeriodStart, newEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily records: %w", err)
	}

	if err := invoice.ExtendPeriod(newEnd); err != nil {
		return nil, err
	}
	invoice.ReplaceItems(buildItems(records))

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.logger.Info("Invoice regenerated",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total_amount", invoice.TotalAmount.String()))

	return &GenerateInvoiceResult{Invoice: invoice, Updated: true}, nil
}

// create issues a fresh invoice and applies the customer's advance credit
func (s *InvoiceService) create(ctx context.Context, customer *partner.Customer, periodStart, periodEnd time.Time) (*GenerateInvoiceResult, error) {
	records, err := s.recordRepo.FindByCustomerAndPeriod(ctx, customer.ID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily records: %w", err)
	}
	if len(records) == 0 {
		return nil, shared.NewDomainError("NO_RECORDS", "No daily records exist for this customer in the requested period")
	}

	prefix := billing.MonthPrefix(periodEnd)
	maxSeq, err := s.invoiceRepo.MaxSequenceForPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to derive invoice sequence: %w", err)
	}
	number := billing.FormatInvoiceNumber(prefix, maxSeq+1)

	invoice, err := billing.NewInvoice(number, customer.ID, customer.CustomerNumber, periodStart, periodEnd, buildItems(records))
	if err != nil {
		return nil, err
	}

	// Credit consumption and the invoice itself land atomically: a failed
	// invoice save must not leave the customer's balance already debited.
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if customer.HasCredit() {
			if err := s.applyCredit(ctx, customer, invoice); err != nil {
				return err
			}
		}
		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice generated",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("customer_id", customer.ID.String()),
		zap.String("total_amount", invoice.TotalAmount.String()),
		zap.String("due_amount", invoice.DueAmount.String()))

	return &GenerateInvoiceResult{Invoice: invoice}, nil
}

// applyCredit settles the new invoice from the advance balance, persisting the
// customer mutation and its audit transaction.
func (s *InvoiceService) applyCredit(ctx context.Context, customer *partner.Customer, invoice *billing.Invoice) error {
	txnID, err := s.nextTransactionID(ctx, customer, time.Now().Year())
	if err != nil {
		return err
	}

	balanceBefore := customer.CreditBalance
	consumed, err := invoice.ApplyCredit(customer.CreditBalance, txnID)
	if err != nil {
		return err
	}
	if consumed.IsZero() {
		return nil
	}

	if err := customer.ConsumeCredit(consumed); err != nil {
		return err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return fmt.Errorf("failed to persist credit consumption: %w", err)
	}

	creditTx, err := partner.NewCreditTransaction(
		customer.ID, partner.CreditTypeInvoiceConsumption,
		consumed.Neg(), balanceBefore, customer.CreditBalance,
		uuid.NullUUID{UUID: invoice.ID, Valid: true},
		fmt.Sprintf("Applied to invoice %s", invoice.InvoiceNumber),
	)
	if err != nil {
		return err
	}
	if err := s.creditTxRepo.Create(ctx, creditTx); err != nil {
		return fmt.Errorf("failed to record credit transaction: %w", err)
	}

	s.logger.Info("Advance credit applied to invoice",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("consumed", consumed.String()),
		zap.String("remaining_credit", customer.CreditBalance.String()))

	return nil
}

// nextTransactionID derives the next generated payment transaction id from
// the highest sequence already issued for the customer this year. Scanning
// the issued ids rather than counting payments keeps the sequence collision
// free when callers supply their own ids in the generated format.
func (s *InvoiceService) nextTransactionID(ctx context.Context, customer *partner.Customer, year int) (string, error) {
	maxSeq, err := s.invoiceRepo.MaxPaymentSequence(ctx, customer.ID, customer.CustomerNumber, year)
	if err != nil {
		return "", fmt.Errorf("failed to derive payment sequence: %w", err)
	}
	return billing.FormatPaymentTransactionID(year, customer.CustomerNumber, maxSeq+1), nil
}

// BatchInvoiceReport summarizes a batch generation run
type BatchInvoiceReport struct {
	Month    int            `json:"month"`
	Year     int            `json:"year"`
	Created  int            `json:"created"`
	Updated  int            `json:"updated"`
	Failed   int            `json:"failed"`
	Failures []BatchFailure `json:"failures,omitempty"`
}

// BatchFailure records one customer whose invoice generation failed
type BatchFailure struct {
	CustomerID     uuid.UUID `json:"customer_id"`
	CustomerNumber int       `json:"customer_number"`
	Error          string    `json:"error"`
}

// GenerateBatch issues invoices for every active customer for one month.
// For the current month it refuses to run until fewer than three days remain,
// so partial months are never billed by the batch path.
func (s *InvoiceService) GenerateBatch(ctx context.Context, month, year int, updateExisting bool) (*BatchInvoiceReport, error) {
	_, periodEnd, err := monthPeriod(month, year)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if now.Year() == year && int(now.Month()) == month {
		remaining := periodEnd.Day() - now.Day()
		if remaining >= batchMinDaysRemaining {
			return nil, shared.NewDomainError("BATCH_TOO_EARLY",
				fmt.Sprintf("Batch generation for the current month opens in its last %d days", batchMinDaysRemaining))
		}
	}

	customers, err := s.customerRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active customers: %w", err)
	}

	report := &BatchInvoiceReport{Month: month, Year: year}
	for _, customer := range customers {
		result, err := s.Generate(ctx, GenerateInvoiceInput{
			CustomerID:     customer.ID,
			Month:          month,
			Year:           year,
			UpdateExisting: updateExisting,
		})
		if err != nil {
			report.Failed++
			report.Failures = append(report.Failures, BatchFailure{
				CustomerID:     customer.ID,
				CustomerNumber: customer.CustomerNumber,
				Error:          err.Error(),
			})
			continue
		}
		if result.Updated {
			report.Updated++
		} else {
			report.Created++
		}
	}

	s.logger.Info("Batch invoice generation finished",
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed))

	return report, nil
}

// AddPaymentInput carries one payment against an invoice
type AddPaymentInput struct {
	InvoiceID     uuid.UUID
	Amount        decimal.Decimal
	Method        billing.PaymentMethod
	TransactionID string
	Notes         string
}

// AddPayment applies a payment to an invoice. Any amount beyond the due is
// routed into the customer's advance credit balance instead of staying on the
// invoice.
func (s *InvoiceService) AddPayment(ctx context.Context, input AddPaymentInput) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, input.InvoiceID)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(ctx, invoice.CustomerID)
	if err != nil {
		return nil, err
	}

	// Cash payments carry no transaction id; ids are generated only for
	// traceable methods when the caller does not supply one.
	txnID := input.TransactionID
	if txnID == "" && input.Method != billing.PaymentMethodCash {
		txnID, err = s.nextTransactionID(ctx, customer, time.Now().Year())
		if err != nil {
			return nil, err
		}
	}

	excess, err := invoice.AddPayment(input.Amount, input.Method, txnID, input.Notes, time.Now())
	if err != nil {
		return nil, err
	}

	// Overpayment credit and the invoice mutation commit together, so a
	// failed invoice save cannot strand credit on the customer.
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if excess.IsPositive() {
			balanceBefore := customer.CreditBalance
			if err := customer.AddCredit(excess); err != nil {
				return err
			}
			if err := s.customerRepo.Save(ctx, customer); err != nil {
				return fmt.Errorf("failed to persist overpayment credit: %w", err)
			}

			creditTx, err := partner.NewCreditTransaction(
				customer.ID, partner.CreditTypeOverpayment,
				excess, balanceBefore, customer.CreditBalance,
				uuid.NullUUID{UUID: invoice.ID, Valid: true},
				fmt.Sprintf("Overpayment on invoice %s", invoice.InvoiceNumber),
			)
			if err != nil {
				return err
			}
			if err := s.creditTxRepo.Create(ctx, creditTx); err != nil {
				return fmt.Errorf("failed to record credit transaction: %w", err)
			}

			s.logger.Info("Overpayment routed to advance credit",
				zap.String("invoice_number", invoice.InvoiceNumber),
				zap.String("excess", excess.String()))
		}

		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment recorded",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("amount", input.Amount.String()),
		zap.String("status", invoice.Status.String()))

	return invoice, nil
}

// Delete removes an invoice. Invoices with recorded payments are immutable.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !invoice.CanDelete() {
		return shared.NewDomainError("INVOICE_HAS_PAYMENTS", "Cannot delete an invoice with recorded payments")
	}

	return s.invoiceRepo.Delete(ctx, id)
}

// OverrideStatus forces an invoice status, bypassing the derived rule
func (s *InvoiceService) OverrideStatus(ctx context.Context, id uuid.UUID, status billing.InvoiceStatus) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := invoice.OverrideStatus(status); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.logger.Warn("Invoice status manually overridden",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("status", status.String()))

	return invoice, nil
}

// Get returns one invoice by id
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.invoiceRepo.FindByID(ctx, id)
}

// List returns invoices matching the filter plus the total count
func (s *InvoiceService) List(ctx context.Context, filter billing.InvoiceFilter) ([]*billing.Invoice, int64, error) {
	invoices, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// Summary returns aggregate counts and sums over the filtered invoice set
func (s *InvoiceService) Summary(ctx context.Context, filter billing.InvoiceFilter) (*billing.InvoiceSummary, error) {
	return s.invoiceRepo.Summarize(ctx, filter)
}

// RefreshOverdue sweeps open invoices and flips any past their due date to
// OVERDUE. Returns how many invoices changed.
func (s *InvoiceService) RefreshOverdue(ctx context.Context) (int, error) {
	invoices, err := s.invoiceRepo.FindOpen(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load open invoices: %w", err)
	}

	now := time.Now()
	changed := 0
	for _, invoice := range invoices {
		if !invoice.RefreshStatus(now) {
			continue
		}
		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			s.logger.Error("Failed to save refreshed invoice status",
				zap.String("invoice_number", invoice.InvoiceNumber),
				zap.Error(err))
			continue
		}
		changed++
	}

	if changed > 0 {
		s.logger.Info("Overdue sweep finished", zap.Int("changed", changed))
	}

	return changed, nil
}
