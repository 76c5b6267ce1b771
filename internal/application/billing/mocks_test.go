package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/milkroute/backend/internal/domain/billing"
	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/partner"
)

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOverlapping(ctx context.Context, customerID uuid.UUID, start, end time.Time) ([]*billing.Invoice, error) {
	args := m.Called(ctx, customerID, start, end)
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter billing.InvoiceFilter) ([]*billing.Invoice, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]*billing.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindUnsettled(ctx context.Context, customerID uuid.UUID) ([]*billing.Invoice, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOpen(ctx context.Context) ([]*billing.Invoice, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter billing.InvoiceFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) MaxSequenceForPrefix(ctx context.Context, prefix string) (int, error) {
	args := m.Called(ctx, prefix)
	return args.Int(0), args.Error(1)
}

func (m *MockInvoiceRepository) MaxPaymentSequence(ctx context.Context, customerID uuid.UUID, customerNumber, year int) (int, error) {
	args := m.Called(ctx, customerID, customerNumber, year)
	return args.Int(0), args.Error(1)
}

func (m *MockInvoiceRepository) Summarize(ctx context.Context, filter billing.InvoiceFilter) (*billing.InvoiceSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.InvoiceSummary), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDailyRecordRepository is a mock implementation of delivery.DailyRecordRepository
type MockDailyRecordRepository struct {
	mock.Mock
}

func (m *MockDailyRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.DailyRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.DailyRecord), args.Error(1)
}

func (m *MockDailyRecordRepository) FindByCustomerAndDate(ctx context.Context, customerID uuid.UUID, date time.Time) (*delivery.DailyRecord, error) {
	args := m.Called(ctx, customerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.DailyRecord), args.Error(1)
}

func (m *MockDailyRecordRepository) ExistsByCustomerAndDate(ctx context.Context, customerID uuid.UUID, date time.Time) (bool, error) {
	args := m.Called(ctx, customerID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockDailyRecordRepository) FindByCustomerAndPeriod(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]delivery.DailyRecord, error) {
	args := m.Called(ctx, customerID, from, to)
	return args.Get(0).([]delivery.DailyRecord), args.Error(1)
}

func (m *MockDailyRecordRepository) FindAll(ctx context.Context, filter delivery.DailyRecordFilter) ([]delivery.DailyRecord, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]delivery.DailyRecord), args.Error(1)
}

func (m *MockDailyRecordRepository) Count(ctx context.Context, filter delivery.DailyRecordFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDailyRecordRepository) Create(ctx context.Context, record *delivery.DailyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDailyRecordRepository) Save(ctx context.Context, record *delivery.DailyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDailyRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByNumber(ctx context.Context, number int) (*partner.Customer, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter partner.CustomerFilter) ([]*partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindActive(ctx context.Context) ([]*partner.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter partner.CustomerFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) NextCustomerNumber(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCreditTransactionRepository is a mock implementation of partner.CreditTransactionRepository
type MockCreditTransactionRepository struct {
	mock.Mock
}

func (m *MockCreditTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.CreditTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CreditTransaction), args.Error(1)
}

func (m *MockCreditTransactionRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter partner.CreditTransactionFilter) ([]*partner.CreditTransaction, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]*partner.CreditTransaction), args.Error(1)
}

func (m *MockCreditTransactionRepository) Count(ctx context.Context, filter partner.CreditTransactionFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCreditTransactionRepository) Create(ctx context.Context, tx *partner.CreditTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

type txScopeKey struct{}

// inTxScope reports whether ctx was handed out by stubTxManager, so tests can
// assert a repository call ran inside the transactional unit.
func inTxScope(ctx context.Context) bool {
	scoped, _ := ctx.Value(txScopeKey{}).(bool)
	return scoped
}

// stubTxManager implements shared.TransactionManager by running the unit
// inline on a scope-marked context and recording whether it rolled back.
type stubTxManager struct {
	began      int
	rolledBack int
}

func (m *stubTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.began++
	if err := fn(context.WithValue(ctx, txScopeKey{}, true)); err != nil {
		m.rolledBack++
		return err
	}
	return nil
}
