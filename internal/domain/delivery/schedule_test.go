package delivery

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSchedule(t *testing.T) DeliverySchedule {
	t.Helper()
	return DeliverySchedule{
		Slots: []ScheduleSlot{
			{
				Slot: SlotMorning,
				Items: []MilkLineItem{
					{
						MilkTypeID:    uuid.New(),
						SubcategoryID: uuid.New(),
						Quantity:      decimal.NewFromFloat(1.5),
						UnitPrice:     decimal.NewFromInt(60),
					},
					{
						MilkTypeID:    uuid.New(),
						SubcategoryID: uuid.New(),
						Quantity:      decimal.NewFromFloat(0.5),
						UnitPrice:     decimal.NewFromInt(80),
					},
				},
			},
			{
				Slot: SlotEvening,
				Items: []MilkLineItem{
					{
						MilkTypeID:    uuid.New(),
						SubcategoryID: uuid.New(),
						Quantity:      decimal.NewFromInt(1),
						UnitPrice:     decimal.NewFromInt(60),
					},
				},
			},
		},
	}
}

func TestScheduleValidate(t *testing.T) {
	t.Run("valid schedule passes", func(t *testing.T) {
		s := makeSchedule(t)
		assert.NoError(t, s.Validate())
	})

	t.Run("rejects duplicate slot", func(t *testing.T) {
		s := DeliverySchedule{Slots: []ScheduleSlot{{Slot: SlotMorning}, {Slot: SlotMorning}}}
		assert.Error(t, s.Validate())
	})

	t.Run("rejects unknown slot", func(t *testing.T) {
		s := DeliverySchedule{Slots: []ScheduleSlot{{Slot: TimeSlot("NOON")}}}
		assert.Error(t, s.Validate())
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		s := makeSchedule(t)
		s.Slots[0].Items[0].Quantity = decimal.NewFromInt(-1)
		assert.Error(t, s.Validate())
	})

	t.Run("rejects nil milk type", func(t *testing.T) {
		s := makeSchedule(t)
		s.Slots[0].Items[0].MilkTypeID = uuid.Nil
		assert.Error(t, s.Validate())
	})
}

func TestScheduleRecompute(t *testing.T) {
	s := makeSchedule(t)
	s.Recompute()

	morning, ok := s.SlotFor(SlotMorning)
	require.True(t, ok)
	assert.Equal(t, "2", morning.TotalQuantity.String())
	assert.Equal(t, "130", morning.TotalPrice.String())
	assert.Equal(t, "90", morning.Items[0].TotalPrice.String())

	assert.Equal(t, "3", s.TotalQuantity().String())
	assert.Equal(t, "190", s.TotalPrice().String())
}

func TestScheduleFindLine(t *testing.T) {
	s := makeSchedule(t)
	target := s.Slots[1].Items[0]

	line, ok := s.FindLine(SlotEvening, target.MilkTypeID, target.SubcategoryID)
	require.True(t, ok)
	assert.True(t, line.Quantity.Equal(decimal.NewFromInt(1)))

	_, ok = s.FindLine(SlotEvening, uuid.New(), target.SubcategoryID)
	assert.False(t, ok)
}

func TestScheduleClone(t *testing.T) {
	s := makeSchedule(t)
	s.Recompute()

	cloned := s.Clone()
	cloned.Slots[0].Items[0].Quantity = decimal.NewFromInt(99)

	assert.True(t, s.Slots[0].Items[0].Quantity.Equal(decimal.NewFromFloat(1.5)))
	assert.False(t, s.IsEmpty())
	assert.True(t, (&DeliverySchedule{}).IsEmpty())
}

func TestScheduleScanValue(t *testing.T) {
	s := makeSchedule(t)
	s.Recompute()

	raw, err := s.Value()
	require.NoError(t, err)

	var decoded DeliverySchedule
	require.NoError(t, decoded.Scan(raw))
	require.Len(t, decoded.Slots, 2)
	assert.True(t, decoded.TotalPrice().Equal(s.TotalPrice()))
}
