package billing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/shared"
)

// InvoiceStatus represents the payment lifecycle of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "PENDING"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusOverdue       InvoiceStatus = "OVERDUE"
)

// IsValid checks whether the status is one of the known lifecycle states
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

func (s InvoiceStatus) String() string {
	return string(s)
}

// PaymentMethod is how a payment against an invoice was settled
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "CASH"
	PaymentMethodOnline  PaymentMethod = "ONLINE"
	PaymentMethodAdvance PaymentMethod = "ADVANCE"
)

// IsValid checks whether the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodOnline, PaymentMethodAdvance:
		return true
	}
	return false
}

// DueGraceDays is how long after the billing period end an invoice stays
// payable before it turns overdue.
const DueGraceDays = 15

// PaymentRecord is one settled payment against an invoice
type PaymentRecord struct {
	ID            uuid.UUID       `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	TransactionID string          `json:"transaction_id"`
	Notes         string          `json:"notes"`
	PaidAt        time.Time       `json:"paid_at"`
}

// PaymentRecords is stored as a JSONB column
type PaymentRecords []PaymentRecord

func (p PaymentRecords) Value() (driver.Value, error) {
	if p == nil {
		return json.Marshal(PaymentRecords{})
	}
	return json.Marshal(p)
}

func (p *PaymentRecords) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentRecords{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan PaymentRecords: expected []byte, got %T", value)
	}
	return json.Unmarshal(bytes, p)
}

// InvoiceItem is the per-day snapshot of what a customer received during the
// billing period. Items are copied from daily records at generation time so
// later record edits never alter an issued invoice.
type InvoiceItem struct {
	RecordDate time.Time               `json:"record_date"`
	Slots      []delivery.ScheduleSlot `json:"slots"`
	Quantity   decimal.Decimal         `json:"quantity"`
	Amount     decimal.Decimal         `json:"amount"`
}

// InvoiceItems is stored as a JSONB column
type InvoiceItems []InvoiceItem

func (i InvoiceItems) Value() (driver.Value, error) {
	if i == nil {
		return json.Marshal(InvoiceItems{})
	}
	return json.Marshal(i)
}

func (i *InvoiceItems) Scan(value interface{}) error {
	if value == nil {
		*i = InvoiceItems{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan InvoiceItems: expected []byte, got %T", value)
	}
	return json.Unmarshal(bytes, i)
}

// Invoice aggregates one customer's daily records over a billing period into
// a payable document with its own payment trail.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber    string          `json:"invoice_number"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	CustomerNumber   int             `json:"customer_number"`
	PeriodStart      time.Time       `json:"period_start"`
	PeriodEnd        time.Time       `json:"period_end"`
	Items            InvoiceItems    `json:"items"`
	TotalQuantity    decimal.Decimal `json:"total_quantity"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	DueAmount        decimal.Decimal `json:"due_amount"`
	DueDate          time.Time       `json:"due_date"`
	Status           InvoiceStatus   `json:"status"`
	StatusOverridden bool            `json:"status_overridden"`
	Payments         PaymentRecords  `json:"payments"`
}

// NewInvoice builds an invoice from per-day snapshots. The invoice number is
// assigned by the caller from the monthly sequence.
func NewInvoice(invoiceNumber string, customerID uuid.UUID, customerNumber int, periodStart, periodEnd time.Time, items InvoiceItems) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	periodStart = delivery.NormalizeDate(periodStart)
	periodEnd = delivery.NormalizeDate(periodEnd)
	if periodEnd.Before(periodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Billing period end cannot be before its start")
	}

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerID:        customerID,
		CustomerNumber:    customerNumber,
		PeriodStart:       periodStart,
		PeriodEnd:         periodEnd,
		Items:             items,
		AmountPaid:        decimal.Zero,
		DueDate:           periodEnd.AddDate(0, 0, DueGraceDays),
		Status:            InvoiceStatusPending,
		Payments:          PaymentRecords{},
	}
	invoice.RecalculateTotals()

	invoice.AddDomainEvent(NewInvoiceGeneratedEvent(invoice))

	return invoice, nil
}

// RecalculateTotals recomputes quantity and amount from the item snapshots
// and refreshes the derived due amount and status.
func (i *Invoice) RecalculateTotals() {
	totalQuantity := decimal.Zero
	totalAmount := decimal.Zero
	for _, item := range i.Items {
		totalQuantity = totalQuantity.Add(item.Quantity)
		totalAmount = totalAmount.Add(item.Amount)
	}
	i.TotalQuantity = totalQuantity
	i.TotalAmount = totalAmount.Round(2)
	i.refreshDerived(time.Now())
}

// refreshDerived recomputes DueAmount and, unless the status was manually
// overridden, the lifecycle status. Fully settled wins over overdue.
func (i *Invoice) refreshDerived(now time.Time) {
	i.DueAmount = i.TotalAmount.Sub(i.AmountPaid)
	if i.DueAmount.IsNegative() {
		i.DueAmount = decimal.Zero
	}

	if i.StatusOverridden {
		return
	}

	switch {
	case !i.DueAmount.IsPositive():
		i.Status = InvoiceStatusPaid
	case i.AmountPaid.IsPositive():
		i.Status = InvoiceStatusPartiallyPaid
	case now.After(i.DueDate):
		i.Status = InvoiceStatusOverdue
	default:
		i.Status = InvoiceStatusPending
	}
}

// RefreshStatus re-evaluates the derived status against the given time.
// Used by the overdue sweep.
func (i *Invoice) RefreshStatus(now time.Time) bool {
	before := i.Status
	i.refreshDerived(now)
	if i.Status != before {
		i.Touch()
		i.IncrementVersion()
		return true
	}
	return false
}

// ReplaceItems swaps in a fresh set of per-day snapshots when an invoice for
// the same period is regenerated. Payments already recorded are kept.
func (i *Invoice) ReplaceItems(items InvoiceItems) {
	i.Items = items
	i.RecalculateTotals()
	i.Touch()
	i.IncrementVersion()
}

// ExtendPeriod moves the billing period end forward and shifts the due date
// with it. Used by regeneration; the period never shrinks.
func (i *Invoice) ExtendPeriod(newEnd time.Time) error {
	newEnd = delivery.NormalizeDate(newEnd)
	if newEnd.Before(i.PeriodEnd) {
		return shared.NewDomainError("INVALID_PERIOD", "Billing period can only be extended")
	}

	i.PeriodEnd = newEnd
	i.DueDate = newEnd.AddDate(0, 0, DueGraceDays)
	i.refreshDerived(time.Now())
	i.Touch()
	i.IncrementVersion()

	return nil
}

// AddPayment records a payment against the invoice. The applied amount is
// capped at the outstanding due; the uncaptured excess is returned so the
// caller can route it into advance credit. A payment against an already
// settled invoice leaves the invoice untouched and returns the full amount
// as excess.
func (i *Invoice) AddPayment(amount decimal.Decimal, method PaymentMethod, transactionID, notes string, paidAt time.Time) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return decimal.Zero, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if !i.DueAmount.IsPositive() {
		return amount, nil
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	applied := amount
	excess := decimal.Zero
	if applied.GreaterThan(i.DueAmount) {
		excess = applied.Sub(i.DueAmount)
		applied = i.DueAmount
	}

	record := PaymentRecord{
		ID:            uuid.New(),
		Amount:        applied,
		Method:        method,
		TransactionID: transactionID,
		Notes:         notes,
		PaidAt:        paidAt,
	}
	i.Payments = append(i.Payments, record)
	i.AmountPaid = i.AmountPaid.Add(applied)
	i.refreshDerived(time.Now())
	i.Touch()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoicePaymentRecordedEvent(i, record, excess))

	return excess, nil
}

// ApplyCredit settles part of the invoice from the customer's advance credit
// balance, recorded as a synthetic ADVANCE payment. Returns the amount
// actually consumed, never more than the outstanding due.
func (i *Invoice) ApplyCredit(available decimal.Decimal, transactionID string) (decimal.Decimal, error) {
	if !available.IsPositive() {
		return decimal.Zero, nil
	}
	if !i.DueAmount.IsPositive() {
		return decimal.Zero, nil
	}

	consumed := decimal.Min(available, i.DueAmount)
	_, err := i.AddPayment(consumed, PaymentMethodAdvance, transactionID, "Advance credit applied", time.Now())
	if err != nil {
		return decimal.Zero, err
	}
	return consumed, nil
}

// OverrideStatus forces the status manually. The override sticks until the
// next recalculation is explicitly requested with ClearStatusOverride.
func (i *Invoice) OverrideStatus(status InvoiceStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown invoice status")
	}

	i.Status = status
	i.StatusOverridden = true
	i.Touch()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceStatusOverriddenEvent(i))

	return nil
}

// ClearStatusOverride returns the invoice to derived status handling
func (i *Invoice) ClearStatusOverride() {
	i.StatusOverridden = false
	i.refreshDerived(time.Now())
	i.Touch()
	i.IncrementVersion()
}

// CanDelete reports whether the invoice may be removed. Invoices with any
// recorded payment are immutable.
func (i *Invoice) CanDelete() bool {
	return len(i.Payments) == 0
}

// HasPayments reports whether any payment has been recorded
func (i *Invoice) HasPayments() bool {
	return len(i.Payments) > 0
}

// Overlaps reports whether the invoice period intersects [start, end]
func (i *Invoice) Overlaps(start, end time.Time) bool {
	start = delivery.NormalizeDate(start)
	end = delivery.NormalizeDate(end)
	return !i.PeriodStart.After(end) && !i.PeriodEnd.Before(start)
}
