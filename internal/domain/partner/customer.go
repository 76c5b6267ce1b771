package partner

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milkroute/backend/internal/domain/delivery"
	"github.com/milkroute/backend/internal/domain/shared"
)

// Customer is the aggregate root for a subscribing household: identity, the
// standing delivery schedule, and the rolling advance credit balance.
type Customer struct {
	shared.BaseAggregateRoot
	CustomerNumber int                       `json:"customer_number"`
	Name           string                    `json:"name"`
	Phone          string                    `json:"phone"`
	Address        string                    `json:"address"`
	Schedule       delivery.DeliverySchedule `json:"schedule"`
	CreditBalance  decimal.Decimal           `json:"credit_balance"`
	Active         bool                      `json:"active"`
	JoinedAt       time.Time                 `json:"joined_at"`
}

var phonePattern = regexp.MustCompile(`^[0-9+\-\s]{7,15}$`)

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateCustomerPhone(phone string) error {
	if phone == "" {
		return shared.NewDomainError("INVALID_PHONE", "Customer phone cannot be empty")
	}
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Customer phone is not a valid number")
	}
	return nil
}

// NewCustomer creates a new customer. The sequential customer number is
// assigned by the repository on first save; the join date defaults to today
// when zero.
func NewCustomer(name, phone, address string, joinedAt time.Time) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if err := validateCustomerPhone(phone); err != nil {
		return nil, err
	}
	if joinedAt.IsZero() {
		joinedAt = time.Now()
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Phone:             phone,
		Address:           address,
		Schedule:          delivery.DeliverySchedule{},
		CreditBalance:     decimal.Zero,
		Active:            true,
		JoinedAt:          delivery.NormalizeDate(joinedAt),
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Update updates the customer's contact information
func (c *Customer) Update(name, phone, address string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if err := validateCustomerPhone(phone); err != nil {
		return err
	}

	c.Name = name
	c.Phone = phone
	c.Address = address
	c.Touch()
	c.IncrementVersion()

	return nil
}

// UpdateSchedule replaces the standing delivery schedule. The schedule is
// validated and all denormalized totals recomputed before it is accepted.
func (c *Customer) UpdateSchedule(schedule delivery.DeliverySchedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}
	schedule.Recompute()

	c.Schedule = schedule
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerScheduleUpdatedEvent(c))

	return nil
}

// Activate marks the customer as receiving deliveries
func (c *Customer) Activate() {
	c.Active = true
	c.Touch()
	c.IncrementVersion()
}

// Deactivate stops deliveries for the customer
func (c *Customer) Deactivate() {
	c.Active = false
	c.Touch()
	c.IncrementVersion()
}

// AddCredit increases the advance credit balance (overpayment feed)
func (c *Customer) AddCredit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}

	c.CreditBalance = c.CreditBalance.Add(amount)
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerCreditChangedEvent(c, amount))

	return nil
}

// ConsumeCredit deducts from the advance credit balance when a new invoice
// applies it. The balance can never go negative.
func (c *Customer) ConsumeCredit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	if c.CreditBalance.LessThan(amount) {
		return shared.ErrInsufficientCredit
	}

	c.CreditBalance = c.CreditBalance.Sub(amount)
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerCreditChangedEvent(c, amount.Neg()))

	return nil
}

// SetCreditBalance is the administrative correction path, bypassing invoice
// linkage. Negative values are rejected.
func (c *Customer) SetCreditBalance(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit balance cannot be negative")
	}

	delta := amount.Sub(c.CreditBalance)
	c.CreditBalance = amount
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerCreditChangedEvent(c, delta))

	return nil
}

// ClearCredit resets the balance to zero and returns the cleared amount
func (c *Customer) ClearCredit() decimal.Decimal {
	cleared := c.CreditBalance
	c.CreditBalance = decimal.Zero
	c.Touch()
	c.IncrementVersion()

	if !cleared.IsZero() {
		c.AddDomainEvent(NewCustomerCreditChangedEvent(c, cleared.Neg()))
	}

	return cleared
}

// HasCredit returns true when the customer carries a positive advance balance
func (c *Customer) HasCredit() bool {
	return c.CreditBalance.IsPositive()
}
