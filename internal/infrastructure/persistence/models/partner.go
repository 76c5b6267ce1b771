package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer aggregate.
type CustomerModel struct {
	AggregateModel
	CustomerNumber int                       `gorm:"not null;uniqueIndex"`
	Name           string                    `gorm:"type:varchar(200);not null"`
	Phone          string                    `gorm:"type:varchar(20);not null;index"`
	Address        string                    `gorm:"type:text"`
	Schedule       delivery.DeliverySchedule `gorm:"type:jsonb"`
	CreditBalance  decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	Active         bool                      `gorm:"not null;default:true;index"`
	JoinedAt       time.Time                 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer aggregate.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerNumber:    m.CustomerNumber,
		Name:              m.Name,
		Phone:             m.Phone,
		Address:           m.Address,
		Schedule:          m.Schedule,
		CreditBalance:     m.CreditBalance,
		Active:            m.Active,
		JoinedAt:          m.JoinedAt,
	}
}

// FromDomain populates the persistence model from a domain Customer aggregate.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.CustomerNumber = c.CustomerNumber
	m.Name = c.Name
	m.Phone = c.Phone
	m.Address = c.Address
	m.Schedule = c.Schedule
	m.CreditBalance = c.CreditBalance
	m.Active = c.Active
	m.JoinedAt = c.JoinedAt
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// CreditTransactionModel is the persistence model for the append-only credit
// audit trail.
type CreditTransactionModel struct {
	BaseModel
	CustomerID    uuid.UUID                     `gorm:"type:uuid;not null;index"`
	Type          partner.CreditTransactionType `gorm:"type:varchar(30);not null"`
	Amount        decimal.Decimal               `gorm:"type:decimal(18,2);not null"`
	BalanceBefore decimal.Decimal               `gorm:"type:decimal(18,2);not null"`
	BalanceAfter  decimal.Decimal               `gorm:"type:decimal(18,2);not null"`
	ReferenceID   uuid.NullUUID                 `gorm:"type:uuid"`
	Notes         string                        `gorm:"type:text"`
	OccurredAt    time.Time                     `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CreditTransactionModel) TableName() string {
	return "credit_transactions"
}

// ToDomain converts the persistence model to a domain CreditTransaction.
func (m *CreditTransactionModel) ToDomain() *partner.CreditTransaction {
	return &partner.CreditTransaction{
		BaseEntity:    m.BaseModel.ToDomain(),
		CustomerID:    m.CustomerID,
		Type:          m.Type,
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		OccurredAt:    m.OccurredAt,
	}
}

// FromDomain populates the persistence model from a domain CreditTransaction.
func (m *CreditTransactionModel) FromDomain(tx *partner.CreditTransaction) {
	m.FromDomainBaseEntity(tx.BaseEntity)
	m.CustomerID = tx.CustomerID
	m.Type = tx.Type
	m.Amount = tx.Amount
	m.BalanceBefore = tx.BalanceBefore
	m.BalanceAfter = tx.BalanceAfter
	m.ReferenceID = tx.ReferenceID
	m.Notes = tx.Notes
	m.OccurredAt = tx.OccurredAt
}

// CreditTransactionModelFromDomain creates a new persistence model from a
// domain CreditTransaction.
func CreditTransactionModelFromDomain(tx *partner.CreditTransaction) *CreditTransactionModel {
	m := &CreditTransactionModel{}
	m.FromDomain(tx)
	return m
}
