package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/partner"
)

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

// MockAdjustmentRepository is a mock implementation of delivery.QuantityAdjustmentRepository
type MockAdjustmentRepository struct {
	mock.Mock
}

func (m *MockAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.QuantityAdjustment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.QuantityAdjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) FindActiveByKey(ctx context.Context, key delivery.AdjustmentKey) (*delivery.QuantityAdjustment, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.QuantityAdjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) FindForCustomerAndDate(ctx context.Context, customerID uuid.UUID, date time.Time) ([]delivery.QuantityAdjustment, error) {
	args := m.Called(ctx, customerID, date)
	return args.Get(0).([]delivery.QuantityAdjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) FindAll(ctx context.Context, filter delivery.AdjustmentFilter) ([]delivery.QuantityAdjustment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]delivery.QuantityAdjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) Count(ctx context.Context, filter delivery.AdjustmentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdjustmentRepository) Save(ctx context.Context, adjustment *delivery.QuantityAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

func (m *MockAdjustmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockHolidayRepository is a mock implementation of delivery.HolidayRepository
type MockHolidayRepository struct {
	mock.Mock
}

func (m *MockHolidayRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.Holiday, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Holiday), args.Error(1)
}

func (m *MockHolidayRepository) FindForDate(ctx context.Context, date time.Time) (*delivery.Holiday, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Holiday), args.Error(1)
}

func (m *MockHolidayRepository) FindAll(ctx context.Context) ([]delivery.Holiday, error) {
	args := m.Called(ctx)
	return args.Get(0).([]delivery.Holiday), args.Error(1)
}

func (m *MockHolidayRepository) Save(ctx context.Context, holiday *delivery.Holiday) error {
	args := m.Called(ctx, holiday)
	return args.Error(0)
}

func (m *MockHolidayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockHolidayOracle is a mock implementation of delivery.HolidayOracle
type MockHolidayOracle struct {
	mock.Mock
}

func (m *MockHolidayOracle) IsHoliday(ctx context.Context, date time.Time) (delivery.HolidayCheck, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(delivery.HolidayCheck), args.Error(1)
}
