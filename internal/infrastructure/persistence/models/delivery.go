package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/milkroute/backend/internal/domain/delivery"
)

// DailyRecordModel is the persistence model for the DailyRecord aggregate.
// The (customer_id, record_date) unique index is the generation idempotency key.
type DailyRecordModel struct {
	AggregateModel
	CustomerID     uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_record_customer_date,priority:1"`
	CustomerNumber int                  `gorm:"not null;index"`
	RecordDate     time.Time            `gorm:"type:date;not null;uniqueIndex:idx_record_customer_date,priority:2"`
	Slots          delivery.RecordSlots `gorm:"type:jsonb"`
	TotalQuantity  decimal.Decimal      `gorm:"type:decimal(18,3);not null;default:0"`
	TotalAmount    decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (DailyRecordModel) TableName() string {
	return "daily_records"
}

// ToDomain converts the persistence model to a domain DailyRecord.
func (m *DailyRecordModel) ToDomain() *delivery.DailyRecord {
	return &delivery.DailyRecord{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		CustomerNumber:    m.CustomerNumber,
		RecordDate:        delivery.NormalizeDate(m.RecordDate),
		Slots:             m.Slots,
		TotalQuantity:     m.TotalQuantity,
		TotalAmount:       m.TotalAmount,
	}
}

// FromDomain populates the persistence model from a domain DailyRecord.
func (m *DailyRecordModel) FromDomain(r *delivery.DailyRecord) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.CustomerID = r.CustomerID
	m.CustomerNumber = r.CustomerNumber
	m.RecordDate = r.RecordDate
	m.Slots = r.Slots
	m.TotalQuantity = r.TotalQuantity
	m.TotalAmount = r.TotalAmount
}

// DailyRecordModelFromDomain creates a new persistence model from a domain DailyRecord.
func DailyRecordModelFromDomain(r *delivery.DailyRecord) *DailyRecordModel {
	m := &DailyRecordModel{}
	m.FromDomain(r)
	return m
}

// QuantityAdjustmentModel is the persistence model for QuantityAdjustment.
// A partial unique index on the composite key where status is active keeps
// one live adjustment per line item per date (created in migrations).
type QuantityAdjustmentModel struct {
	AggregateModel
	CustomerID     uuid.UUID                 `gorm:"type:uuid;not null;index"`
	CustomerNumber int                       `gorm:"not null"`
	TargetDate     time.Time                 `gorm:"type:date;not null;index"`
	Slot           delivery.TimeSlot         `gorm:"type:varchar(10);not null"`
	MilkTypeID     uuid.UUID                 `gorm:"type:uuid;not null"`
	SubcategoryID  uuid.UUID                 `gorm:"type:uuid;not null"`
	OldQuantity    decimal.Decimal           `gorm:"type:decimal(18,3);not null;default:0"`
	NewQuantity    decimal.Decimal           `gorm:"type:decimal(18,3);not null"`
	Delta          decimal.Decimal           `gorm:"type:decimal(18,3);not null"`
	Reason         string                    `gorm:"type:text;not null"`
	Status         delivery.AdjustmentStatus `gorm:"type:varchar(10);not null;index"`
	LastAccepted   decimal.NullDecimal       `gorm:"type:decimal(18,3)"`
}

// TableName returns the table name for GORM
func (QuantityAdjustmentModel) TableName() string {
	return "quantity_adjustments"
}

// ToDomain converts the persistence model to a domain QuantityAdjustment.
func (m *QuantityAdjustmentModel) ToDomain() *delivery.QuantityAdjustment {
	return &delivery.QuantityAdjustment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		CustomerNumber:    m.CustomerNumber,
		TargetDate:        delivery.NormalizeDate(m.TargetDate),
		Slot:              m.Slot,
		MilkTypeID:        m.MilkTypeID,
		SubcategoryID:     m.SubcategoryID,
		OldQuantity:       m.OldQuantity,
		NewQuantity:       m.NewQuantity,
		Delta:             m.Delta,
		Reason:            m.Reason,
		Status:            m.Status,
		LastAccepted:      m.LastAccepted,
	}
}

// FromDomain populates the persistence model from a domain QuantityAdjustment.
func (m *QuantityAdjustmentModel) FromDomain(a *delivery.QuantityAdjustment) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.CustomerID = a.CustomerID
	m.CustomerNumber = a.CustomerNumber
	m.TargetDate = a.TargetDate
	m.Slot = a.Slot
	m.MilkTypeID = a.MilkTypeID
	m.SubcategoryID = a.SubcategoryID
	m.OldQuantity = a.OldQuantity
	m.NewQuantity = a.NewQuantity
	m.Delta = a.Delta
	m.Reason = a.Reason
	m.Status = a.Status
	m.LastAccepted = a.LastAccepted
}

// QuantityAdjustmentModelFromDomain creates a new persistence model from a
// domain QuantityAdjustment.
func QuantityAdjustmentModelFromDomain(a *delivery.QuantityAdjustment) *QuantityAdjustmentModel {
	m := &QuantityAdjustmentModel{}
	m.FromDomain(a)
	return m
}

// HolidayModel is the persistence model for Holiday entries.
type HolidayModel struct {
	BaseModel
	Name      string     `gorm:"type:varchar(100);not null"`
	Date      *time.Time `gorm:"type:date;index"`
	Month     int        `gorm:"not null;default:0"`
	Day       int        `gorm:"not null;default:0"`
	Recurring bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (HolidayModel) TableName() string {
	return "holidays"
}

// ToDomain converts the persistence model to a domain Holiday.
func (m *HolidayModel) ToDomain() *delivery.Holiday {
	var date *time.Time
	if m.Date != nil {
		normalized := delivery.NormalizeDate(*m.Date)
		date = &normalized
	}
	return &delivery.Holiday{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Date:       date,
		Month:      time.Month(m.Month),
		Day:        m.Day,
		Recurring:  m.Recurring,
	}
}

// FromDomain populates the persistence model from a domain Holiday.
func (m *HolidayModel) FromDomain(h *delivery.Holiday) {
	m.FromDomainBaseEntity(h.BaseEntity)
	m.Name = h.Name
	m.Date = h.Date
	m.Month = int(h.Month)
	m.Day = h.Day
	m.Recurring = h.Recurring
}

// HolidayModelFromDomain creates a new persistence model from a domain Holiday.
func HolidayModelFromDomain(h *delivery.Holiday) *HolidayModel {
	m := &HolidayModel{}
	m.FromDomain(h)
	return m
}
