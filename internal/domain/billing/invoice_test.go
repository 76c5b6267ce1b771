package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPeriod returns the current calendar month so derived due dates land in
// the future and freshly built invoices start out PENDING.
func testPeriod() (time.Time, time.Time) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func makeInvoice(t *testing.T) *Invoice {
	t.Helper()
	start, end := testPeriod()
	items := InvoiceItems{
		{
			RecordDate: start,
			Quantity:   decimal.NewFromInt(2),
			Amount:     decimal.NewFromInt(120),
		},
		{
			RecordDate: start.AddDate(0, 0, 1),
			Quantity:   decimal.NewFromInt(3),
			Amount:     decimal.NewFromInt(180),
		},
	}
	invoice, err := NewInvoice("INV26020001", uuid.New(), 7, start, end, items)
	require.NoError(t, err)
	return invoice
}

func TestNewInvoice(t *testing.T) {
	t.Run("derives totals, due date and status", func(t *testing.T) {
		invoice := makeInvoice(t)
		_, end := testPeriod()
		assert.Equal(t, "5", invoice.TotalQuantity.String())
		assert.Equal(t, "300", invoice.TotalAmount.String())
		assert.Equal(t, "300", invoice.DueAmount.String())
		assert.Equal(t, end.AddDate(0, 0, DueGraceDays), invoice.DueDate)
		assert.Equal(t, InvoiceStatusPending, invoice.Status)
		assert.Len(t, invoice.DomainEvents(), 1)
	})

	t.Run("rejects inverted period", func(t *testing.T) {
		start, end := testPeriod()
		_, err := NewInvoice("INV26020002", uuid.New(), 7, end, start, nil)
		assert.Error(t, err)
	})

	t.Run("rejects empty number", func(t *testing.T) {
		start, end := testPeriod()
		_, err := NewInvoice("", uuid.New(), 7, start, end, nil)
		assert.Error(t, err)
	})
}

func TestInvoiceAddPayment(t *testing.T) {
	t.Run("partial payment", func(t *testing.T) {
		invoice := makeInvoice(t)
		excess, err := invoice.AddPayment(decimal.NewFromInt(100), PaymentMethodCash, "2026_7_1", "", time.Now())
		require.NoError(t, err)
		assert.True(t, excess.IsZero())
		assert.Equal(t, "200", invoice.DueAmount.String())
		assert.Equal(t, InvoiceStatusPartiallyPaid, invoice.Status)
		assert.Len(t, invoice.Payments, 1)
	})

	t.Run("exact payment settles", func(t *testing.T) {
		invoice := makeInvoice(t)
		_, err := invoice.AddPayment(decimal.NewFromInt(300), PaymentMethodOnline, "txn-1", "", time.Now())
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPaid, invoice.Status)
		assert.True(t, invoice.DueAmount.IsZero())
	})

	t.Run("overpayment is capped and excess returned", func(t *testing.T) {
		invoice := makeInvoice(t)
		excess, err := invoice.AddPayment(decimal.NewFromInt(350), PaymentMethodCash, "txn-2", "", time.Now())
		require.NoError(t, err)
		assert.Equal(t, "50", excess.String())
		assert.Equal(t, "300", invoice.AmountPaid.String())
		assert.Equal(t, InvoiceStatusPaid, invoice.Status)
	})

	t.Run("payment on settled invoice routes wholly to excess", func(t *testing.T) {
		invoice := makeInvoice(t)
		_, err := invoice.AddPayment(decimal.NewFromInt(300), PaymentMethodCash, "txn-3", "", time.Now())
		require.NoError(t, err)

		excess, err := invoice.AddPayment(decimal.NewFromInt(10), PaymentMethodCash, "txn-4", "", time.Now())
		require.NoError(t, err)
		assert.Equal(t, "10", excess.String())
		assert.Len(t, invoice.Payments, 1)
		assert.Equal(t, "300", invoice.AmountPaid.String())
		assert.Equal(t, InvoiceStatusPaid, invoice.Status)
	})

	t.Run("rejects non-positive amount and bad method", func(t *testing.T) {
		invoice := makeInvoice(t)
		_, err := invoice.AddPayment(decimal.Zero, PaymentMethodCash, "", "", time.Now())
		assert.Error(t, err)
		_, err = invoice.AddPayment(decimal.NewFromInt(10), PaymentMethod("CHEQUE"), "", "", time.Now())
		assert.Error(t, err)
	})
}

func TestInvoiceApplyCredit(t *testing.T) {
	t.Run("consumes up to the due amount", func(t *testing.T) {
		invoice := makeInvoice(t)
		consumed, err := invoice.ApplyCredit(decimal.NewFromInt(500), "2026_7_1")
		require.NoError(t, err)
		assert.Equal(t, "300", consumed.String())
		assert.Equal(t, InvoiceStatusPaid, invoice.Status)
		require.Len(t, invoice.Payments, 1)
		assert.Equal(t, PaymentMethodAdvance, invoice.Payments[0].Method)
	})

	t.Run("consumes all available when less than due", func(t *testing.T) {
		invoice := makeInvoice(t)
		consumed, err := invoice.ApplyCredit(decimal.NewFromInt(120), "2026_7_2")
		require.NoError(t, err)
		assert.Equal(t, "120", consumed.String())
		assert.Equal(t, "180", invoice.DueAmount.String())
	})

	t.Run("no-op without credit", func(t *testing.T) {
		invoice := makeInvoice(t)
		consumed, err := invoice.ApplyCredit(decimal.Zero, "")
		require.NoError(t, err)
		assert.True(t, consumed.IsZero())
		assert.Empty(t, invoice.Payments)
	})
}

func TestInvoiceStatusLifecycle(t *testing.T) {
	t.Run("past due date turns overdue", func(t *testing.T) {
		invoice := makeInvoice(t)
		invoice.DueDate = time.Now().AddDate(0, 0, -1)
		assert.True(t, invoice.RefreshStatus(time.Now()))
		assert.Equal(t, InvoiceStatusOverdue, invoice.Status)
	})

	t.Run("partial payment wins over overdue", func(t *testing.T) {
		invoice := makeInvoice(t)
		invoice.DueDate = time.Now().AddDate(0, 0, -1)
		_, err := invoice.AddPayment(decimal.NewFromInt(100), PaymentMethodCash, "txn", "", time.Now())
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPartiallyPaid, invoice.Status)
	})

	t.Run("settled wins over overdue", func(t *testing.T) {
		invoice := makeInvoice(t)
		invoice.DueDate = time.Now().AddDate(0, 0, -1)
		_, err := invoice.AddPayment(decimal.NewFromInt(300), PaymentMethodCash, "txn", "", time.Now())
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPaid, invoice.Status)
	})

	t.Run("manual override sticks until cleared", func(t *testing.T) {
		invoice := makeInvoice(t)
		require.NoError(t, invoice.OverrideStatus(InvoiceStatusPaid))
		assert.False(t, invoice.RefreshStatus(time.Now()))
		assert.Equal(t, InvoiceStatusPaid, invoice.Status)

		invoice.ClearStatusOverride()
		assert.Equal(t, InvoiceStatusPending, invoice.Status)
	})

	t.Run("override rejects unknown status", func(t *testing.T) {
		invoice := makeInvoice(t)
		assert.Error(t, invoice.OverrideStatus(InvoiceStatus("VOID")))
	})
}

func TestInvoiceExtendPeriod(t *testing.T) {
	invoice := makeInvoice(t)
	newEnd := invoice.PeriodEnd.AddDate(0, 0, 10)

	require.NoError(t, invoice.ExtendPeriod(newEnd))
	assert.Equal(t, newEnd, invoice.PeriodEnd)
	assert.Equal(t, newEnd.AddDate(0, 0, DueGraceDays), invoice.DueDate)

	assert.Error(t, invoice.ExtendPeriod(newEnd.AddDate(0, 0, -20)))
}

func TestInvoiceReplaceItems(t *testing.T) {
	invoice := makeInvoice(t)
	_, err := invoice.AddPayment(decimal.NewFromInt(100), PaymentMethodCash, "txn", "", time.Now())
	require.NoError(t, err)

	invoice.ReplaceItems(InvoiceItems{
		{
			RecordDate: invoice.PeriodStart,
			Quantity:   decimal.NewFromInt(4),
			Amount:     decimal.NewFromInt(240),
		},
	})

	assert.Equal(t, "240", invoice.TotalAmount.String())
	assert.Equal(t, "140", invoice.DueAmount.String())
	assert.Len(t, invoice.Payments, 1)
}

func TestInvoiceDeleteGuard(t *testing.T) {
	invoice := makeInvoice(t)
	assert.True(t, invoice.CanDelete())

	_, err := invoice.AddPayment(decimal.NewFromInt(10), PaymentMethodCash, "txn", "", time.Now())
	require.NoError(t, err)
	assert.False(t, invoice.CanDelete())
	assert.True(t, invoice.HasPayments())
}

func TestInvoiceOverlaps(t *testing.T) {
	invoice := makeInvoice(t)

	assert.True(t, invoice.Overlaps(invoice.PeriodEnd.AddDate(0, 0, -5), invoice.PeriodEnd.AddDate(0, 0, 20)))
	assert.False(t, invoice.Overlaps(invoice.PeriodEnd.AddDate(0, 0, 1), invoice.PeriodEnd.AddDate(0, 0, 30)))
}

func TestInvoiceNumberFormatting(t *testing.T) {
	prefix := MonthPrefix(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "INV2602", prefix)
	assert.Equal(t, "INV26020007", FormatInvoiceNumber(prefix, 7))
	assert.Equal(t, "2026_7_3", FormatPaymentTransactionID(2026, 7, 3))
}

func TestParsePaymentTransactionID(t *testing.T) {
	t.Run("round trips generated ids", func(t *testing.T) {
		year, customerNumber, sequence, ok := ParsePaymentTransactionID(FormatPaymentTransactionID(2026, 7, 12))
		require.True(t, ok)
		assert.Equal(t, 2026, year)
		assert.Equal(t, 7, customerNumber)
		assert.Equal(t, 12, sequence)
	})

	t.Run("rejects foreign formats", func(t *testing.T) {
		for _, id := range []string{"", "UPI-8832", "2026_7", "2026_7_3_0", "abcd_7_3", "2026_x_3", "2026_7_x"} {
			_, _, _, ok := ParsePaymentTransactionID(id)
			assert.False(t, ok, id)
		}
	})
}
