package partner

import (
	"github.com/shopspring/decimal"

	"github.com/milkroute/backend/internal/domain/shared"
)

// CustomerCreatedEvent is emitted when a new customer is registered
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("customer.created", "Customer", customer.ID),
		Name:            customer.Name,
		Phone:           customer.Phone,
	}
}

// CustomerScheduleUpdatedEvent is emitted when the standing schedule changes
type CustomerScheduleUpdatedEvent struct {
	shared.BaseDomainEvent
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

func NewCustomerScheduleUpdatedEvent(customer *Customer) *CustomerScheduleUpdatedEvent {
	return &CustomerScheduleUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("customer.schedule_updated", "Customer", customer.ID),
		TotalQuantity:   customer.Schedule.TotalQuantity(),
		TotalPrice:      customer.Schedule.TotalPrice(),
	}
}

// CustomerCreditChangedEvent is emitted whenever the advance credit balance
// moves; Delta is negative for consumption.
type CustomerCreditChangedEvent struct {
	shared.BaseDomainEvent
	Delta      decimal.Decimal `json:"delta"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

func NewCustomerCreditChangedEvent(customer *Customer, delta decimal.Decimal) *CustomerCreditChangedEvent {
	return &CustomerCreditChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("customer.credit_changed", "Customer", customer.ID),
		Delta:           delta,
		NewBalance:      customer.CreditBalance,
	}
}
