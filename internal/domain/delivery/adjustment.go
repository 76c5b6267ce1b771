package delivery

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milkroute/backend/internal/domain/shared"
)

// AdjustmentStatus represents the lifecycle status of a quantity adjustment
type AdjustmentStatus string

const (
	AdjustmentStatusPending  AdjustmentStatus = "PENDING"
	AdjustmentStatusAccepted AdjustmentStatus = "ACCEPTED"
	AdjustmentStatusRejected AdjustmentStatus = "REJECTED"
)

// IsValid checks if the status is a valid AdjustmentStatus
func (s AdjustmentStatus) IsValid() bool {
	switch s {
	case AdjustmentStatusPending, AdjustmentStatusAccepted, AdjustmentStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of AdjustmentStatus
func (s AdjustmentStatus) String() string {
	return string(s)
}

// IsActive returns true while the adjustment still participates in record
// generation and upsert-by-key matching (pending or accepted)
func (s AdjustmentStatus) IsActive() bool {
	return s == AdjustmentStatusPending || s == AdjustmentStatusAccepted
}

// DefaultRejectionReason is recorded when a rejection carries no reason
const DefaultRejectionReason = "Rejected by admin"

// AdjustmentKey is the composite key that makes an adjustment unique: one
// active adjustment may exist per line item per customer per date.
type AdjustmentKey struct {
	CustomerID    uuid.UUID
	Date          time.Time
	Slot          TimeSlot
	MilkTypeID    uuid.UUID
	SubcategoryID uuid.UUID
}

// String renders the key for logs and error messages
func (k AdjustmentKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		k.CustomerID, k.Date.Format("2006-01-02"), k.Slot, k.MilkTypeID, k.SubcategoryID)
}

// QuantityAdjustment is a one-off, date-specific override of a scheduled line
// item's quantity, staged for admin approval. It never mutates the customer's
// persisted standing schedule; the record generator applies accepted
// adjustments when the day's record is created.
type QuantityAdjustment struct {
	shared.BaseAggregateRoot
	CustomerID     uuid.UUID           `json:"customer_id"`
	CustomerNumber int                 `json:"customer_number"`
	TargetDate     time.Time           `json:"target_date"`
	Slot           TimeSlot            `json:"slot"`
	MilkTypeID     uuid.UUID           `json:"milk_type_id"`
	SubcategoryID  uuid.UUID           `json:"subcategory_id"`
	OldQuantity    decimal.Decimal     `json:"old_quantity"`
	NewQuantity    decimal.Decimal     `json:"new_quantity"`
	Delta          decimal.Decimal     `json:"delta"`
	Reason         string              `json:"reason"`
	Status         AdjustmentStatus    `json:"status"`
	LastAccepted   decimal.NullDecimal `json:"last_accepted_quantity"`
}

// NewQuantityAdjustment creates a pending adjustment for one line item on one date
func NewQuantityAdjustment(
	customerID uuid.UUID,
	customerNumber int,
	date time.Time,
	slot TimeSlot,
	milkTypeID, subcategoryID uuid.UUID,
	oldQuantity, newQuantity decimal.Decimal,
	reason string,
) (*QuantityAdjustment, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Target date cannot be empty")
	}
	if !slot.IsValid() {
		return nil, shared.NewDomainError("INVALID_SLOT", "Delivery slot must be MORNING or EVENING")
	}
	if milkTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MILK_TYPE", "Milk type ID cannot be empty")
	}
	if subcategoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUBCATEGORY", "Subcategory ID cannot be empty")
	}
	if newQuantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "New quantity cannot be negative")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}

	adj := &QuantityAdjustment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		CustomerNumber:    customerNumber,
		TargetDate:        NormalizeDate(date),
		Slot:              slot,
		MilkTypeID:        milkTypeID,
		SubcategoryID:     subcategoryID,
		OldQuantity:       oldQuantity,
		NewQuantity:       newQuantity,
		Delta:             newQuantity.Sub(oldQuantity),
		Reason:            reason,
		Status:            AdjustmentStatusPending,
	}

	adj.AddDomainEvent(NewAdjustmentRequestedEvent(adj))

	return adj, nil
}

// Key returns the adjustment's composite key
func (a *QuantityAdjustment) Key() AdjustmentKey {
	return AdjustmentKey{
		CustomerID:    a.CustomerID,
		Date:          a.TargetDate,
		Slot:          a.Slot,
		MilkTypeID:    a.MilkTypeID,
		SubcategoryID: a.SubcategoryID,
	}
}

// Revise overwrites the adjustment in place with a repeat request for the same
// key: quantities, delta and reason are replaced and the status resets to
// pending. This is the upsert path; a repeat never creates a duplicate row.
func (a *QuantityAdjustment) Revise(oldQuantity, newQuantity decimal.Decimal, reason string) error {
	if newQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "New quantity cannot be negative")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}

	a.OldQuantity = oldQuantity
	a.NewQuantity = newQuantity
	a.Delta = newQuantity.Sub(oldQuantity)
	a.Reason = reason
	a.Status = AdjustmentStatusPending
	a.Touch()
	a.IncrementVersion()

	a.AddDomainEvent(NewAdjustmentRequestedEvent(a))

	return nil
}

// Accept approves the adjustment. The caller supplies the last known accepted
// quantity so a later rejection can restore the displayed value.
func (a *QuantityAdjustment) Accept(lastAcceptedQuantity decimal.Decimal) error {
	if a.Status == AdjustmentStatusRejected {
		return shared.NewDomainError("INVALID_STATE", "Cannot accept a rejected adjustment")
	}

	a.Status = AdjustmentStatusAccepted
	a.LastAccepted = decimal.NewNullDecimal(lastAcceptedQuantity)
	a.Touch()
	a.IncrementVersion()

	a.AddDomainEvent(NewAdjustmentResolvedEvent(a))

	return nil
}

// Reject declines the adjustment, overwriting the reason with the supplied
// rejection reason (or a placeholder when omitted)
func (a *QuantityAdjustment) Reject(reason string) error {
	if reason == "" {
		reason = DefaultRejectionReason
	}

	a.Status = AdjustmentStatusRejected
	a.Reason = reason
	a.Touch()
	a.IncrementVersion()

	a.AddDomainEvent(NewAdjustmentResolvedEvent(a))

	return nil
}

// IsAccepted is the derived read view of the legacy accept flag
func (a *QuantityAdjustment) IsAccepted() bool {
	return a.Status == AdjustmentStatusAccepted
}

// IsActive returns true while the adjustment is pending or accepted
func (a *QuantityAdjustment) IsActive() bool {
	return a.Status.IsActive()
}

// DisplayQuantity is the quantity shown when the adjustment is projected onto
// the customer's schedule: pending and accepted adjustments override with the
// requested quantity, rejected ones fall back to the last accepted quantity or
// zero if none was recorded.
func (a *QuantityAdjustment) DisplayQuantity() decimal.Decimal {
	if a.Status.IsActive() {
		return a.NewQuantity
	}
	if a.LastAccepted.Valid {
		return a.LastAccepted.Decimal
	}
	return decimal.Zero
}
