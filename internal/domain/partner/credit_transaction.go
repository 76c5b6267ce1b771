package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milkroute/backend/internal/domain/shared"
)

// CreditTransactionType classifies a credit balance movement
type CreditTransactionType string

const (
	CreditTypeOverpayment        CreditTransactionType = "OVERPAYMENT"
	CreditTypeInvoiceConsumption CreditTransactionType = "INVOICE_CONSUMPTION"
	CreditTypeManualSet          CreditTransactionType = "MANUAL_SET"
	CreditTypeManualClear        CreditTransactionType = "MANUAL_CLEAR"
)

// IsValid checks whether the transaction type is one of the known kinds
func (t CreditTransactionType) IsValid() bool {
	switch t {
	case CreditTypeOverpayment, CreditTypeInvoiceConsumption, CreditTypeManualSet, CreditTypeManualClear:
		return true
	}
	return false
}

func (t CreditTransactionType) String() string {
	return string(t)
}

// CreditTransaction is the immutable audit trail for advance credit
// movements. Amount carries the sign of the movement; BalanceBefore and
// BalanceAfter snapshot the customer balance around it.
type CreditTransaction struct {
	shared.BaseEntity
	CustomerID    uuid.UUID             `json:"customer_id"`
	Type          CreditTransactionType `json:"type"`
	Amount        decimal.Decimal       `json:"amount"`
	BalanceBefore decimal.Decimal       `json:"balance_before"`
	BalanceAfter  decimal.Decimal       `json:"balance_after"`
	ReferenceID   uuid.NullUUID         `json:"reference_id"`
	Notes         string                `json:"notes"`
	OccurredAt    time.Time             `json:"occurred_at"`
}

// NewCreditTransaction records one credit movement. referenceID links the
// invoice or payment that caused it, when one exists.
func NewCreditTransaction(customerID uuid.UUID, txType CreditTransactionType, amount, balanceBefore, balanceAfter decimal.Decimal, referenceID uuid.NullUUID, notes string) (*CreditTransaction, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown credit transaction type")
	}
	if !balanceAfter.Equal(balanceBefore.Add(amount)) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit transaction balances do not reconcile")
	}
	if balanceAfter.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit balance cannot go negative")
	}

	return &CreditTransaction{
		BaseEntity:    shared.NewBaseEntity(),
		CustomerID:    customerID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		ReferenceID:   referenceID,
		Notes:         notes,
		OccurredAt:    time.Now(),
	}, nil
}
