package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/milkroute/backend/internal/domain/billing"
	"github.com/milkroute/backend/internal/domain/shared"
)

func newMockInvoiceRepository(t *testing.T) (*GormInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormInvoiceRepository(gormDB), mock, mockDB
}

func TestGormInvoiceRepository_FindByNumber(t *testing.T) {
	t.Run("finds invoice by number", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "invoice_number", "customer_number", "status", "due_amount"}).
			AddRow(invoiceID, "INV26020005", 7, "PENDING", decimal.NewFromInt(240))

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE invoice_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("INV26020005", 1).
			WillReturnRows(rows)

		invoice, err := repo.FindByNumber(context.Background(), "INV26020005")

		assert.NoError(t, err)
		assert.Equal(t, "INV26020005", invoice.InvoiceNumber)
		assert.Equal(t, billing.InvoiceStatusPending, invoice.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for unknown number", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE invoice_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("INV26029999", 1).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByNumber(context.Background(), "INV26029999")

		assert.Error(t, err)
	})
}

func TestGormInvoiceRepository_FindOverlapping(t *testing.T) {
	t.Run("matches intersecting billing periods", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "invoice_number", "customer_id", "period_start", "period_end"}).
			AddRow(uuid.New(), "INV26020001", customerID, start, end)

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE customer_id = \$1 AND period_start <= \$2 AND period_end >= \$3 ORDER BY period_start ASC`).
			WithArgs(customerID, end, start).
			WillReturnRows(rows)

		invoices, err := repo.FindOverlapping(context.Background(), customerID, start, end)

		assert.NoError(t, err)
		assert.Len(t, invoices, 1)
		assert.Equal(t, "INV26020001", invoices[0].InvoiceNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_FindOpen(t *testing.T) {
	t.Run("returns invoices with a due amount", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "invoice_number", "status", "due_amount"}).
			AddRow(uuid.New(), "INV26010003", "PENDING", decimal.NewFromInt(120)).
			AddRow(uuid.New(), "INV26020001", "PARTIALLY_PAID", decimal.NewFromInt(50))

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE due_amount > 0 ORDER BY due_date ASC`).
			WillReturnRows(rows)

		invoices, err := repo.FindOpen(context.Background())

		assert.NoError(t, err)
		assert.Len(t, invoices, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_MaxSequenceForPrefix(t *testing.T) {
	t.Run("returns highest numeric suffix", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"invoice_number"}).
			AddRow("INV26020001").
			AddRow("INV26020007").
			AddRow("INV26020003")

		mock.ExpectQuery(`SELECT "invoice_number" FROM "invoices" WHERE invoice_number LIKE \$1`).
			WithArgs("INV2602%").
			WillReturnRows(rows)

		max, err := repo.MaxSequenceForPrefix(context.Background(), "INV2602")

		assert.NoError(t, err)
		assert.Equal(t, 7, max)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero when no invoices carry the prefix", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT "invoice_number" FROM "invoices" WHERE invoice_number LIKE \$1`).
			WithArgs("INV2603%").
			WillReturnRows(sqlmock.NewRows([]string{"invoice_number"}))

		max, err := repo.MaxSequenceForPrefix(context.Background(), "INV2603")

		assert.NoError(t, err)
		assert.Equal(t, 0, max)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ignores malformed suffixes", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"invoice_number"}).
			AddRow("INV26020002").
			AddRow("INV2602-DRAFT")

		mock.ExpectQuery(`SELECT "invoice_number" FROM "invoices" WHERE invoice_number LIKE \$1`).
			WithArgs("INV2602%").
			WillReturnRows(rows)

		max, err := repo.MaxSequenceForPrefix(context.Background(), "INV2602")

		assert.NoError(t, err)
		assert.Equal(t, 2, max)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_MaxPaymentSequence(t *testing.T) {
	t.Run("returns highest generated sequence for the customer and year", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{"payments"}).
			AddRow([]byte(`[{"id":"` + uuid.NewString() + `","amount":"100","method":"ONLINE","transaction_id":"2026_7_1","paid_at":"2026-01-10T00:00:00Z"},{"id":"` + uuid.NewString() + `","amount":"50","method":"ONLINE","transaction_id":"2026_7_2","paid_at":"2026-03-02T00:00:00Z"}]`)).
			AddRow([]byte(`[{"id":"` + uuid.NewString() + `","amount":"80","method":"ONLINE","transaction_id":"2025_7_9","paid_at":"2025-12-28T00:00:00Z"},{"id":"` + uuid.NewString() + `","amount":"60","method":"UPI","transaction_id":"UPI-12345","paid_at":"2026-04-01T00:00:00Z"}]`))

		mock.ExpectQuery(`SELECT "payments" FROM "invoices" WHERE customer_id = \$1`).
			WithArgs(customerID).
			WillReturnRows(rows)

		max, err := repo.MaxPaymentSequence(context.Background(), customerID, 7, 2026)

		assert.NoError(t, err)
		assert.Equal(t, 2, max)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero without generated ids", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{"payments"}).
			AddRow([]byte(`[{"id":"` + uuid.NewString() + `","amount":"100","method":"CASH","transaction_id":"","paid_at":"2026-01-10T00:00:00Z"}]`))

		mock.ExpectQuery(`SELECT "payments" FROM "invoices" WHERE customer_id = \$1`).
			WithArgs(customerID).
			WillReturnRows(rows)

		max, err := repo.MaxPaymentSequence(context.Background(), customerID, 7, 2026)

		assert.NoError(t, err)
		assert.Equal(t, 0, max)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_Summarize(t *testing.T) {
	t.Run("aggregates totals and status counts", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		totals := sqlmock.NewRows([]string{"count", "total_amount", "amount_paid", "due_amount"}).
			AddRow(3, decimal.NewFromInt(600), decimal.NewFromInt(200), decimal.NewFromInt(400))

		mock.ExpectQuery(`SELECT COUNT\(\*\) AS count, COALESCE\(SUM\(total_amount\), 0\) AS total_amount, COALESCE\(SUM\(amount_paid\), 0\) AS amount_paid, COALESCE\(SUM\(due_amount\), 0\) AS due_amount FROM "invoices"`).
			WillReturnRows(totals)

		statuses := sqlmock.NewRows([]string{"status", "count"}).
			AddRow("PENDING", 2).
			AddRow("PAID", 1)

		mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count FROM "invoices" GROUP BY .*status`).
			WillReturnRows(statuses)

		summary, err := repo.Summarize(context.Background(), billing.InvoiceFilter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(3), summary.Count)
		assert.True(t, summary.TotalAmount.Equal(decimal.NewFromInt(600)))
		assert.True(t, summary.DueAmount.Equal(decimal.NewFromInt(400)))
		assert.Equal(t, int64(2), summary.ByStatus["PENDING"])
		assert.Equal(t, int64(1), summary.ByStatus["PAID"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_Delete(t *testing.T) {
	t.Run("returns error for non-existent invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()

		mock.ExpectExec(`DELETE FROM "invoices" WHERE id = \$1`).
			WithArgs(invoiceID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), invoiceID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
