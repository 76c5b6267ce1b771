package delivery

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeAdjustment(t *testing.T) *QuantityAdjustment {
	t.Helper()
	adj, err := NewQuantityAdjustment(
		uuid.New(), 12,
		time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		SlotMorning,
		uuid.New(), uuid.New(),
		decimal.NewFromFloat(1.5), decimal.NewFromFloat(2.5),
		"Guests visiting",
	)
	require.NoError(t, err)
	return adj
}

func TestNewQuantityAdjustment(t *testing.T) {
	t.Run("creates pending adjustment with delta", func(t *testing.T) {
		adj := makeAdjustment(t)
		assert.Equal(t, AdjustmentStatusPending, adj.Status)
		assert.Equal(t, "1", adj.Delta.String())
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), adj.TargetDate)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewQuantityAdjustment(uuid.New(), 12, time.Now(), SlotMorning,
			uuid.New(), uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(-1), "oops")
		assert.Error(t, err)
	})

	t.Run("requires a reason", func(t *testing.T) {
		_, err := NewQuantityAdjustment(uuid.New(), 12, time.Now(), SlotMorning,
			uuid.New(), uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(2), "")
		assert.Error(t, err)
	})

	t.Run("rejects invalid slot", func(t *testing.T) {
		_, err := NewQuantityAdjustment(uuid.New(), 12, time.Now(), TimeSlot("NOON"),
			uuid.New(), uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(2), "reason")
		assert.Error(t, err)
	})
}

func TestAdjustmentRevise(t *testing.T) {
	adj := makeAdjustment(t)
	require.NoError(t, adj.Accept(adj.OldQuantity))

	require.NoError(t, adj.Revise(decimal.NewFromFloat(2.5), decimal.NewFromInt(4), "More guests"))
	assert.Equal(t, AdjustmentStatusPending, adj.Status)
	assert.Equal(t, "1.5", adj.Delta.String())
	assert.Equal(t, "More guests", adj.Reason)
}

func TestAdjustmentAcceptReject(t *testing.T) {
	t.Run("accept records last accepted quantity", func(t *testing.T) {
		adj := makeAdjustment(t)
		require.NoError(t, adj.Accept(decimal.NewFromFloat(1.5)))
		assert.True(t, adj.IsAccepted())
		assert.True(t, adj.LastAccepted.Valid)
		assert.Equal(t, adj.NewQuantity, adj.DisplayQuantity())
	})

	t.Run("cannot accept a rejected adjustment", func(t *testing.T) {
		adj := makeAdjustment(t)
		require.NoError(t, adj.Reject("Out of stock"))
		assert.Error(t, adj.Accept(decimal.Zero))
	})

	t.Run("reject defaults the reason", func(t *testing.T) {
		adj := makeAdjustment(t)
		require.NoError(t, adj.Reject(""))
		assert.Equal(t, DefaultRejectionReason, adj.Reason)
		assert.False(t, adj.IsActive())
	})

	t.Run("rejected display falls back to last accepted", func(t *testing.T) {
		adj := makeAdjustment(t)
		require.NoError(t, adj.Accept(decimal.NewFromFloat(1.5)))
		require.NoError(t, adj.Reject("Changed mind"))
		assert.Equal(t, "1.5", adj.DisplayQuantity().String())
	})

	t.Run("rejected display is zero without history", func(t *testing.T) {
		adj := makeAdjustment(t)
		require.NoError(t, adj.Reject(""))
		assert.True(t, adj.DisplayQuantity().IsZero())
	})
}

func TestHolidayMatches(t *testing.T) {
	t.Run("fixed date", func(t *testing.T) {
		h, err := NewFixedHoliday("Republic Day 2026", time.Date(2026, 1, 26, 9, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, h.Matches(time.Date(2026, 1, 26, 23, 0, 0, 0, time.UTC)))
		assert.False(t, h.Matches(time.Date(2027, 1, 26, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("recurring", func(t *testing.T) {
		h, err := NewRecurringHoliday("Independence Day", time.August, 15)
		require.NoError(t, err)
		assert.True(t, h.Matches(time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)))
		assert.True(t, h.Matches(time.Date(2030, 8, 15, 0, 0, 0, 0, time.UTC)))
		assert.False(t, h.Matches(time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := NewRecurringHoliday("", time.August, 15)
		assert.Error(t, err)
		_, err = NewRecurringHoliday("Bad", time.Month(13), 1)
		assert.Error(t, err)
		_, err = NewFixedHoliday("Bad", time.Time{})
		assert.Error(t, err)
	})
}
