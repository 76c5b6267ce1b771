package delivery

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	stamp := time.Date(2026, 2, 14, 23, 45, 0, 0, ist)

	got := NormalizeDate(stamp)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, got, NormalizeDate(got))
}

func TestNewDailyRecord(t *testing.T) {
	customerID := uuid.New()
	slots := RecordSlots(makeSchedule(t).Slots)

	t.Run("creates record with recomputed totals", func(t *testing.T) {
		record, err := NewDailyRecord(customerID, 7, time.Date(2026, 2, 14, 18, 30, 0, 0, time.UTC), slots)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), record.RecordDate)
		assert.Equal(t, "3", record.TotalQuantity.String())
		assert.Equal(t, "190", record.TotalAmount.String())
		assert.Len(t, record.DomainEvents(), 1)
	})

	t.Run("rejects nil customer", func(t *testing.T) {
		_, err := NewDailyRecord(uuid.Nil, 7, time.Now(), slots)
		assert.Error(t, err)
	})

	t.Run("rejects zero date", func(t *testing.T) {
		_, err := NewDailyRecord(customerID, 7, time.Time{}, slots)
		assert.Error(t, err)
	})

	t.Run("empty slots produce a zero record", func(t *testing.T) {
		record, err := NewDailyRecord(customerID, 7, time.Now(), RecordSlots{})
		require.NoError(t, err)
		assert.True(t, record.TotalQuantity.IsZero())
		assert.True(t, record.TotalAmount.IsZero())
	})
}

func TestDailyRecordUpdateSlots(t *testing.T) {
	record, err := NewDailyRecord(uuid.New(), 7, time.Now(), RecordSlots(makeSchedule(t).Slots))
	require.NoError(t, err)

	t.Run("recomputes totals on edit", func(t *testing.T) {
		edited := RecordSlots{
			{
				Slot: SlotMorning,
				Items: []MilkLineItem{
					{
						MilkTypeID:    uuid.New(),
						SubcategoryID: uuid.New(),
						Quantity:      decimal.NewFromInt(2),
						UnitPrice:     decimal.NewFromInt(50),
					},
				},
			},
		}
		require.NoError(t, record.UpdateSlots(edited))
		assert.Equal(t, "2", record.TotalQuantity.String())
		assert.Equal(t, "100", record.TotalAmount.String())
	})

	t.Run("rejects invalid slots", func(t *testing.T) {
		bad := RecordSlots{{Slot: TimeSlot("NOON")}}
		assert.Error(t, record.UpdateSlots(bad))
	})
}
