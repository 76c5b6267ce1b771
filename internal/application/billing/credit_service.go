package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/milkroute/backend/internal/domain/billing"
	"github.com/milkroute/backend/internal/domain/partner"
	"github.com/milkroute/backend/internal/domain/shared"
)

// CreditService manages the advance credit balance outside the invoice flow:
// manual corrections, clearing and derived position queries.
type CreditService struct {
	customerRepo partner.CustomerRepository
	creditTxRepo partner.CreditTransactionRepository
	invoiceRepo  billing.InvoiceRepository
	tx           shared.TransactionManager
	logger       *zap.Logger
}

// NewCreditService creates a new CreditService
func NewCreditService(
	customerRepo partner.CustomerRepository,
	creditTxRepo partner.CreditTransactionRepository,
	invoiceRepo billing.InvoiceRepository,
	tx shared.TransactionManager,
	logger *zap.Logger,
) *CreditService {
	return &CreditService{
		customerRepo: customerRepo,
		creditTxRepo: creditTxRepo,
		invoiceRepo:  invoiceRepo,
		tx:           tx,
		logger:       logger,
	}
}

// AddCredit tops up the customer's advance balance directly, recorded as an
// overpayment-type movement without an invoice reference.
func (s *CreditService) AddCredit(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal, notes string) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	balanceBefore := customer.CreditBalance
	if err := customer.AddCredit(amount); err != nil {
		return nil, err
	}

	if err := s.persistWithAudit(ctx, customer, partner.CreditTypeOverpayment, amount, balanceBefore, notes); err != nil {
		return nil, err
	}

	return customer, nil
}

// SetCredit overwrites the balance, the administrative correction path
func (s *CreditService) SetCredit(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal, notes string) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	balanceBefore := customer.CreditBalance
	if err := customer.SetCreditBalance(amount); err != nil {
		return nil, err
	}

	delta := customer.CreditBalance.Sub(balanceBefore)
	if err := s.persistWithAudit(ctx, customer, partner.CreditTypeManualSet, delta, balanceBefore, notes); err != nil {
		return nil, err
	}

	s.logger.Info("Credit balance set",
		zap.String("customer_id", customerID.String()),
		zap.String("balance", customer.CreditBalance.String()))

	return customer, nil
}

// ClearCredit zeroes the balance
func (s *CreditService) ClearCredit(ctx context.Context, customerID uuid.UUID, notes string) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	balanceBefore := customer.CreditBalance
	cleared := customer.ClearCredit()
	if cleared.IsZero() {
		return customer, nil
	}

	if err := s.persistWithAudit(ctx, customer, partner.CreditTypeManualClear, cleared.Neg(), balanceBefore, notes); err != nil {
		return nil, err
	}

	s.logger.Info("Credit balance cleared",
		zap.String("customer_id", customerID.String()),
		zap.String("cleared", cleared.String()))

	return customer, nil
}

// persistWithAudit saves the mutated balance and its audit movement in one
// transaction so the trail never diverges from the balance.
func (s *CreditService) persistWithAudit(ctx context.Context, customer *partner.Customer, txType partner.CreditTransactionType, amount, balanceBefore decimal.Decimal, notes string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.customerRepo.Save(ctx, customer); err != nil {
			return fmt.Errorf("failed to save customer: %w", err)
		}

		creditTx, err := partner.NewCreditTransaction(
			customer.ID, txType,
			amount, balanceBefore, customer.CreditBalance,
			uuid.NullUUID{}, notes,
		)
		if err != nil {
			return err
		}
		if err := s.creditTxRepo.Create(ctx, creditTx); err != nil {
			return fmt.Errorf("failed to record credit transaction: %w", err)
		}
		return nil
	})
}

// NetPosition is the advance balance minus the outstanding due across all of
// the customer's unsettled invoices. Positive means the customer is in credit.
type NetPosition struct {
	CustomerID        uuid.UUID       `json:"customer_id"`
	CreditBalance     decimal.Decimal `json:"credit_balance"`
	OutstandingDue    decimal.Decimal `json:"outstanding_due"`
	Net               decimal.Decimal `json:"net"`
	UnsettledInvoices int             `json:"unsettled_invoices"`
}

// GetNetPosition computes the customer's derived credit/debit standing
func (s *CreditService) GetNetPosition(ctx context.Context, customerID uuid.UUID) (*NetPosition, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.FindUnsettled(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unsettled invoices: %w", err)
	}

	outstanding := decimal.Zero
	for _, invoice := range invoices {
		outstanding = outstanding.Add(invoice.DueAmount)
	}

	return &NetPosition{
		CustomerID:        customerID,
		CreditBalance:     customer.CreditBalance,
		OutstandingDue:    outstanding,
		Net:               customer.CreditBalance.Sub(outstanding),
		UnsettledInvoices: len(invoices),
	}, nil
}

// History returns the customer's credit movements plus the total count
func (s *CreditService) History(ctx context.Context, customerID uuid.UUID, filter partner.CreditTransactionFilter) ([]*partner.CreditTransaction, int64, error) {
	filter.CustomerID = uuid.NullUUID{UUID: customerID, Valid: true}

	transactions, err := s.creditTxRepo.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.creditTxRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}
