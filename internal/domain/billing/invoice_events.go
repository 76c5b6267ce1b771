package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milkroute/backend/internal/domain/shared"
)

// InvoiceGeneratedEvent is emitted when an invoice is first issued
type InvoiceGeneratedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

func NewInvoiceGeneratedEvent(invoice *Invoice) *InvoiceGeneratedEvent {
	return &InvoiceGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.generated", "Invoice", invoice.ID),
		InvoiceNumber:   invoice.InvoiceNumber,
		CustomerID:      invoice.CustomerID,
		TotalAmount:     invoice.TotalAmount,
	}
}

// InvoicePaymentRecordedEvent is emitted when a payment is applied. Excess is
// the part of the tendered amount that exceeded the due and was routed to
// advance credit.
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	Excess        decimal.Decimal `json:"excess"`
	NewStatus     InvoiceStatus   `json:"new_status"`
}

func NewInvoicePaymentRecordedEvent(invoice *Invoice, record PaymentRecord, excess decimal.Decimal) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.payment_recorded", "Invoice", invoice.ID),
		InvoiceNumber:   invoice.InvoiceNumber,
		PaymentID:       record.ID,
		Amount:          record.Amount,
		Method:          record.Method,
		Excess:          excess,
		NewStatus:       invoice.Status,
	}
}

// InvoiceStatusOverriddenEvent is emitted on a manual status override
type InvoiceStatusOverriddenEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string        `json:"invoice_number"`
	Status        InvoiceStatus `json:"status"`
}

func NewInvoiceStatusOverriddenEvent(invoice *Invoice) *InvoiceStatusOverriddenEvent {
	return &InvoiceStatusOverriddenEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.status_overridden", "Invoice", invoice.ID),
		InvoiceNumber:   invoice.InvoiceNumber,
		Status:          invoice.Status,
	}
}
