package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionManager(t *testing.T) {
	t.Run("repository calls inside the unit share the transaction", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		manager := NewGormTransactionManager(gormDB)
		repo := NewGormInvoiceRepository(gormDB)
		invoiceID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "invoices" WHERE id = \$1`).
			WithArgs(invoiceID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := manager.WithinTransaction(context.Background(), func(ctx context.Context) error {
			return repo.Delete(ctx, invoiceID)
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("an error from the unit rolls the transaction back", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		manager := NewGormTransactionManager(gormDB)
		repo := NewGormInvoiceRepository(gormDB)
		invoiceID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "invoices" WHERE id = \$1`).
			WithArgs(invoiceID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		err := manager.WithinTransaction(context.Background(), func(ctx context.Context) error {
			if err := repo.Delete(ctx, invoiceID); err != nil {
				return err
			}
			return assert.AnError
		})

		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("calls outside a unit use their own connection", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		repo := NewGormInvoiceRepository(gormDB)
		invoiceID := uuid.New()

		mock.ExpectExec(`DELETE FROM "invoices" WHERE id = \$1`).
			WithArgs(invoiceID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), invoiceID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
