package partner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/partner"
	"github.com/milkroute/backend/internal/domain/shared"
)

// CustomerService manages customer registration, contact details and the
// standing delivery schedule.
type CustomerService struct {
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// CreateCustomerInput carries the fields for registering a customer
type CreateCustomerInput struct {
	Name     string
	Phone    string
	Address  string
	JoinedAt time.Time
	Schedule *delivery.DeliverySchedule
}

// Create registers a new customer and assigns the next sequential number
func (s *CustomerService) Create(ctx context.Context, input CreateCustomerInput) (*partner.Customer, error) {
	customer, err := partner.NewCustomer(input.Name, input.Phone, input.Address, input.JoinedAt)
	if err != nil {
		return nil, err
	}

	if input.Schedule != nil {
		if err := customer.UpdateSchedule(*input.Schedule); err != nil {
			return nil, err
		}
	}

	number, err := s.customerRepo.NextCustomerNumber(ctx)
	if err != nil {
		s.logger.Error("Failed to allocate customer number", zap.Error(err))
		return nil, fmt.Errorf("failed to allocate customer number: %w", err)
	}
	customer.CustomerNumber = number

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.logger.Error("Failed to save customer", zap.Error(err))
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.logger.Info("Customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.Int("customer_number", customer.CustomerNumber))

	return customer, nil
}

// UpdateCustomerInput carries the editable contact fields
type UpdateCustomerInput struct {
	Name    string
	Phone   string
	Address string
}

// Update edits a customer's contact details
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := customer.Update(input.Name, input.Phone, input.Address); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.logger.Error("Failed to update customer", zap.Error(err))
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

// UpdateSchedule replaces a customer's standing delivery schedule
func (s *CustomerService) UpdateSchedule(ctx context.Context, id uuid.UUID, schedule delivery.DeliverySchedule) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := customer.UpdateSchedule(schedule); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.logger.Error("Failed to update customer schedule", zap.Error(err))
		return nil, fmt.Errorf("failed to update customer schedule: %w", err)
	}

	s.logger.Info("Customer schedule updated",
		zap.String("customer_id", customer.ID.String()),
		zap.String("daily_total", customer.Schedule.TotalPrice().String()))

	return customer, nil
}

// SetActive toggles whether the customer receives deliveries
func (s *CustomerService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		customer.Activate()
	} else {
		customer.Deactivate()
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

// Get returns one customer by id
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return s.customerRepo.FindByID(ctx, id)
}

// GetByNumber returns one customer by sequential number
func (s *CustomerService) GetByNumber(ctx context.Context, number int) (*partner.Customer, error) {
	return s.customerRepo.FindByNumber(ctx, number)
}

// List returns customers matching the filter plus the total count
func (s *CustomerService) List(ctx context.Context, filter partner.CustomerFilter) ([]*partner.Customer, int64, error) {
	customers, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.customerRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

// Delete removes a customer. Customers with a positive credit balance must be
// settled first.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if customer.HasCredit() {
		return shared.NewDomainError("CUSTOMER_HAS_CREDIT", "Cannot delete a customer with outstanding credit balance")
	}

	if err := s.customerRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete customer", zap.Error(err))
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	s.logger.Info("Customer deleted", zap.String("customer_id", id.String()))

	return nil
}
