package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milkroute/backend/internal/domain/billing"
	"github.com/milkroute/backend/internal/domain/delivery"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
// Items and the payment trail live in JSONB columns; totals are denormalized
// for summary queries.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber    string                 `gorm:"type:varchar(20);not null;uniqueIndex"`
	CustomerID       uuid.UUID              `gorm:"type:uuid;not null;index"`
	CustomerNumber   int                    `gorm:"not null;index"`
	PeriodStart      time.Time              `gorm:"type:date;not null;index"`
	PeriodEnd        time.Time              `gorm:"type:date;not null;index"`
	Items            billing.InvoiceItems   `gorm:"type:jsonb"`
	TotalQuantity    decimal.Decimal        `gorm:"type:decimal(18,3);not null;default:0"`
	TotalAmount      decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	AmountPaid       decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	DueAmount        decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	DueDate          time.Time              `gorm:"type:date;not null;index"`
	Status           billing.InvoiceStatus  `gorm:"type:varchar(20);not null;index"`
	StatusOverridden bool                   `gorm:"not null;default:false"`
	Payments         billing.PaymentRecords `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		CustomerID:        m.CustomerID,
		CustomerNumber:    m.CustomerNumber,
		PeriodStart:       delivery.NormalizeDate(m.PeriodStart),
		PeriodEnd:         delivery.NormalizeDate(m.PeriodEnd),
		Items:             m.Items,
		TotalQuantity:     m.TotalQuantity,
		TotalAmount:       m.TotalAmount,
		AmountPaid:        m.AmountPaid,
		DueAmount:         m.DueAmount,
		DueDate:           m.DueDate,
		Status:            m.Status,
		StatusOverridden:  m.StatusOverridden,
		Payments:          m.Payments,
	}
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(i *billing.Invoice) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.InvoiceNumber = i.InvoiceNumber
	m.CustomerID = i.CustomerID
	m.CustomerNumber = i.CustomerNumber
	m.PeriodStart = i.PeriodStart
	m.PeriodEnd = i.PeriodEnd
	m.Items = i.Items
	m.TotalQuantity = i.TotalQuantity
	m.TotalAmount = i.TotalAmount
	m.AmountPaid = i.AmountPaid
	m.DueAmount = i.DueAmount
	m.DueDate = i.DueDate
	m.Status = i.Status
	m.StatusOverridden = i.StatusOverridden
	m.Payments = i.Payments
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(i *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(i)
	return m
}

// SchedulerJobModel records one scheduler job run for auditing.
type SchedulerJobModel struct {
	BaseModel
	JobName    string     `gorm:"type:varchar(50);not null;index"`
	Status     string     `gorm:"type:varchar(20);not null"`
	StartedAt  time.Time  `gorm:"not null"`
	FinishedAt *time.Time `gorm:""`
	Detail     string     `gorm:"type:text"`
	Error      string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SchedulerJobModel) TableName() string {
	return "scheduler_job_records"
}
