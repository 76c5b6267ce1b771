package delivery

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milkroute/backend/internal/domain/shared"
)

// AdjustmentRequestedEvent is raised when an adjustment is created or revised
type AdjustmentRequestedEvent struct {
	shared.BaseDomainEvent
	AdjustmentID uuid.UUID       `json:"adjustment_id"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	TargetDate   time.Time       `json:"target_date"`
	Slot         TimeSlot        `json:"slot"`
	OldQuantity  decimal.Decimal `json:"old_quantity"`
	NewQuantity  decimal.Decimal `json:"new_quantity"`
	Delta        decimal.Decimal `json:"delta"`
}

// EventType returns the event type name
func (e *AdjustmentRequestedEvent) EventType() string {
	return "QuantityAdjustmentRequested"
}

// NewAdjustmentRequestedEvent creates a new AdjustmentRequestedEvent
func NewAdjustmentRequestedEvent(a *QuantityAdjustment) *AdjustmentRequestedEvent {
	return &AdjustmentRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("QuantityAdjustmentRequested", "QuantityAdjustment", a.ID),
		AdjustmentID:    a.ID,
		CustomerID:      a.CustomerID,
		TargetDate:      a.TargetDate,
		Slot:            a.Slot,
		OldQuantity:     a.OldQuantity,
		NewQuantity:     a.NewQuantity,
		Delta:           a.Delta,
	}
}

// AdjustmentResolvedEvent is raised when an adjustment is accepted or rejected
type AdjustmentResolvedEvent struct {
	shared.BaseDomainEvent
	AdjustmentID uuid.UUID        `json:"adjustment_id"`
	CustomerID   uuid.UUID        `json:"customer_id"`
	TargetDate   time.Time        `json:"target_date"`
	Status       AdjustmentStatus `json:"status"`
	Reason       string           `json:"reason"`
}

// EventType returns the event type name
func (e *AdjustmentResolvedEvent) EventType() string {
	return "QuantityAdjustmentResolved"
}

// NewAdjustmentResolvedEvent creates a new AdjustmentResolvedEvent
func NewAdjustmentResolvedEvent(a *QuantityAdjustment) *AdjustmentResolvedEvent {
	return &AdjustmentResolvedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("QuantityAdjustmentResolved", "QuantityAdjustment", a.ID),
		AdjustmentID:    a.ID,
		CustomerID:      a.CustomerID,
		TargetDate:      a.TargetDate,
		Status:          a.Status,
		Reason:          a.Reason,
	}
}
