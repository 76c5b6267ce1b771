package delivery

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milkroute/backend/internal/domain/shared"
)

// TimeSlot represents a named delivery time of day
type TimeSlot string

const (
	SlotMorning TimeSlot = "MORNING"
	SlotEvening TimeSlot = "EVENING"
)

// IsValid checks if the slot is a known delivery time
func (s TimeSlot) IsValid() bool {
	return s == SlotMorning || s == SlotEvening
}

// String returns the string representation of the slot
func (s TimeSlot) String() string {
	return string(s)
}

// MilkLineItem is one (milk type, subcategory) quantity/price entry within a slot.
// TotalPrice is denormalized and must be kept equal to Quantity * UnitPrice; it is
// only ever written by Recompute.
type MilkLineItem struct {
	MilkTypeID    uuid.UUID       `json:"milk_type_id"`
	SubcategoryID uuid.UUID       `json:"subcategory_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// Matches reports whether the line item is addressed by the given composite key
func (li MilkLineItem) Matches(milkTypeID, subcategoryID uuid.UUID) bool {
	return li.MilkTypeID == milkTypeID && li.SubcategoryID == subcategoryID
}

// ScheduleSlot holds the line items delivered in one time slot
type ScheduleSlot struct {
	Slot          TimeSlot        `json:"slot"`
	Items         []MilkLineItem  `json:"items"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// DeliverySchedule is a customer's standing order, stored as JSONB.
// The invariant is at most one entry per time slot.
type DeliverySchedule struct {
	Slots []ScheduleSlot `json:"slots"`
}

// Value implements driver.Valuer for JSONB storage
func (s DeliverySchedule) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB retrieval
func (s *DeliverySchedule) Scan(value interface{}) error {
	if value == nil {
		*s = DeliverySchedule{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan DeliverySchedule: unsupported type")
	}

	if len(bytes) == 0 {
		*s = DeliverySchedule{}
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// Validate checks slot uniqueness and line item constraints
func (s *DeliverySchedule) Validate() error {
	seen := make(map[TimeSlot]bool, len(s.Slots))
	for _, slot := range s.Slots {
		if !slot.Slot.IsValid() {
			return shared.NewDomainError("INVALID_SLOT", "Delivery slot must be MORNING or EVENING")
		}
		if seen[slot.Slot] {
			return shared.NewDomainError("DUPLICATE_SLOT", "Schedule cannot contain the same slot twice")
		}
		seen[slot.Slot] = true

		for _, item := range slot.Items {
			if item.MilkTypeID == uuid.Nil {
				return shared.NewDomainError("INVALID_MILK_TYPE", "Milk type ID cannot be empty")
			}
			if item.SubcategoryID == uuid.Nil {
				return shared.NewDomainError("INVALID_SUBCATEGORY", "Subcategory ID cannot be empty")
			}
			if item.Quantity.IsNegative() {
				return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
			}
			if item.UnitPrice.IsNegative() {
				return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
			}
		}
	}
	return nil
}

// Recompute recalculates every denormalized total in the schedule.
// Line totals are quantity * unit price rounded to 2 decimals; slot totals are
// sums over their lines. This is the only place totals are written, so callers
// must invoke it after any quantity or price mutation.
func (s *DeliverySchedule) Recompute() {
	for i := range s.Slots {
		slotQty := decimal.Zero
		slotPrice := decimal.Zero
		for j := range s.Slots[i].Items {
			item := &s.Slots[i].Items[j]
			item.TotalPrice = item.Quantity.Mul(item.UnitPrice).Round(2)
			slotQty = slotQty.Add(item.Quantity)
			slotPrice = slotPrice.Add(item.TotalPrice)
		}
		s.Slots[i].TotalQuantity = slotQty
		s.Slots[i].TotalPrice = slotPrice.Round(2)
	}
}

// TotalQuantity returns the sum of quantities across all slots
func (s *DeliverySchedule) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, slot := range s.Slots {
		total = total.Add(slot.TotalQuantity)
	}
	return total
}

// TotalPrice returns the sum of slot totals
func (s *DeliverySchedule) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, slot := range s.Slots {
		total = total.Add(slot.TotalPrice)
	}
	return total.Round(2)
}

// SlotFor returns the schedule entry for a time slot
func (s *DeliverySchedule) SlotFor(slot TimeSlot) (*ScheduleSlot, bool) {
	for i := range s.Slots {
		if s.Slots[i].Slot == slot {
			return &s.Slots[i], true
		}
	}
	return nil, false
}

// FindLine returns the line item addressed by (slot, milk type, subcategory)
func (s *DeliverySchedule) FindLine(slot TimeSlot, milkTypeID, subcategoryID uuid.UUID) (*MilkLineItem, bool) {
	scheduleSlot, ok := s.SlotFor(slot)
	if !ok {
		return nil, false
	}
	for i := range scheduleSlot.Items {
		if scheduleSlot.Items[i].Matches(milkTypeID, subcategoryID) {
			return &scheduleSlot.Items[i], true
		}
	}
	return nil, false
}

// IsEmpty returns true when the schedule has no line items at all
func (s *DeliverySchedule) IsEmpty() bool {
	for _, slot := range s.Slots {
		if len(slot.Items) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the schedule, used for daily record snapshots
func (s *DeliverySchedule) Clone() DeliverySchedule {
	cloned := DeliverySchedule{Slots: make([]ScheduleSlot, len(s.Slots))}
	for i, slot := range s.Slots {
		items := make([]MilkLineItem, len(slot.Items))
		copy(items, slot.Items)
		cloned.Slots[i] = ScheduleSlot{
			Slot:          slot.Slot,
			Items:         items,
			TotalQuantity: slot.TotalQuantity,
			TotalPrice:    slot.TotalPrice,
		}
	}
	return cloned
}
