package delivery

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milkroute/backend/internal/domain/shared"
)

// DailyRecordCreatedEvent is raised when a delivery record is generated for a day
type DailyRecordCreatedEvent struct {
	shared.BaseDomainEvent
	RecordID       uuid.UUID       `json:"record_id"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	CustomerNumber int             `json:"customer_number"`
	RecordDate     time.Time       `json:"record_date"`
	TotalQuantity  decimal.Decimal `json:"total_quantity"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *DailyRecordCreatedEvent) EventType() string {
	return "DailyRecordCreated"
}

// NewDailyRecordCreatedEvent creates a new DailyRecordCreatedEvent
func NewDailyRecordCreatedEvent(r *DailyRecord) *DailyRecordCreatedEvent {
	return &DailyRecordCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DailyRecordCreated", "DailyRecord", r.ID),
		RecordID:        r.ID,
		CustomerID:      r.CustomerID,
		CustomerNumber:  r.CustomerNumber,
		RecordDate:      r.RecordDate,
		TotalQuantity:   r.TotalQuantity,
		TotalAmount:     r.TotalAmount,
	}
}

// DailyRecordUpdatedEvent is raised when a record snapshot is edited by an admin
type DailyRecordUpdatedEvent struct {
	shared.BaseDomainEvent
	RecordID      uuid.UUID       `json:"record_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	RecordDate    time.Time       `json:"record_date"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *DailyRecordUpdatedEvent) EventType() string {
	return "DailyRecordUpdated"
}

// NewDailyRecordUpdatedEvent creates a new DailyRecordUpdatedEvent
func NewDailyRecordUpdatedEvent(r *DailyRecord) *DailyRecordUpdatedEvent {
	return &DailyRecordUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("DailyRecordUpdated", "DailyRecord", r.ID),
		RecordID:        r.ID,
		CustomerID:      r.CustomerID,
		RecordDate:      r.RecordDate,
		TotalQuantity:   r.TotalQuantity,
		TotalAmount:     r.TotalAmount,
	}
}
