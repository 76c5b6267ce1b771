package delivery

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milkroute/backend/internal/domain/shared"
)

// RecordSlots is the per-day snapshot of the resolved schedule, stored as JSONB.
// It carries the quantities and prices as of the delivery day, independent of
// later schedule edits.
type RecordSlots []ScheduleSlot

// Value implements driver.Valuer for JSONB storage
func (r RecordSlots) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB retrieval
func (r *RecordSlots) Scan(value interface{}) error {
	if value == nil {
		*r = RecordSlots{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan RecordSlots: unsupported type")
	}

	if len(bytes) == 0 {
		*r = RecordSlots{}
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// NormalizeDate truncates a timestamp to its calendar date in UTC.
// Daily records and adjustments key on dates, never on times of day.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DailyRecord is one customer's delivery for one calendar date.
// There is at most one record per (customer, date); the pair is the idempotency
// key for generation. The slot snapshot is immutable once created except through
// the explicit Update operation.
type DailyRecord struct {
	shared.BaseAggregateRoot
	CustomerID     uuid.UUID       `json:"customer_id"`
	CustomerNumber int             `json:"customer_number"`
	RecordDate     time.Time       `json:"record_date"`
	Slots          RecordSlots     `json:"slots"`
	TotalQuantity  decimal.Decimal `json:"total_quantity"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// NewDailyRecord creates a daily record from a resolved schedule snapshot
func NewDailyRecord(customerID uuid.UUID, customerNumber int, date time.Time, slots RecordSlots) (*DailyRecord, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Record date cannot be empty")
	}

	record := &DailyRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		CustomerNumber:    customerNumber,
		RecordDate:        NormalizeDate(date),
		Slots:             slots,
	}
	record.Recalculate()

	record.AddDomainEvent(NewDailyRecordCreatedEvent(record))

	return record, nil
}

// Recalculate recomputes slot and daily totals from the line items.
// Invoked on construction and after any explicit slot edit.
func (r *DailyRecord) Recalculate() {
	schedule := DeliverySchedule{Slots: r.Slots}
	schedule.Recompute()
	r.Slots = RecordSlots(schedule.Slots)
	r.TotalQuantity = schedule.TotalQuantity()
	r.TotalAmount = schedule.TotalPrice()
}

// UpdateSlots replaces the snapshot through the explicit admin edit path
func (r *DailyRecord) UpdateSlots(slots RecordSlots) error {
	schedule := DeliverySchedule{Slots: slots}
	if err := schedule.Validate(); err != nil {
		return err
	}

	r.Slots = slots
	r.Recalculate()
	r.Touch()
	r.IncrementVersion()

	r.AddDomainEvent(NewDailyRecordUpdatedEvent(r))

	return nil
}
