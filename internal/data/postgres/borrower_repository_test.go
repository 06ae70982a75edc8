package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/collections-workflow/internal/domain/borrower"
	"github.com/collections-workflow/internal/domain/workflow"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

var borrowerColumns = []string{
	"id", "loan_id", "full_name", "phone", "address", "status", "days_in_status",
	"last_action_date", "total_loan", "outstanding_balance", "last_payment_date",
}

func TestBorrowerRepository_LoadAll(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(selectBorrowers)
	actionDate := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	paid := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &BorrowerRepository{querier: mock, logger: newTestLogger()}

		rows := pgxmock.NewRows(borrowerColumns).
			AddRow("1", "LN-2023-001", "Alice Johnson", "555-0101", "123 Maple St, Springfield", "NOT_LOCATED", 12,
				actionDate, int64(500000), int64(500000), (*time.Time)(nil)).
			AddRow("2", "LN-2023-002", "Bob Smith", "555-0102", "456 Oak Ave, Metropolis", "LOCATED", 3,
				actionDate, int64(1200000), int64(1150000), &paid)
		mock.ExpectQuery(query).WillReturnRows(rows)

		list, err := repo.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)

		assert.Equal(t, borrower.Borrower{
			ID:                 "1",
			LoanID:             "LN-2023-001",
			FullName:           "Alice Johnson",
			Phone:              "555-0101",
			Address:            "123 Maple St, Springfield",
			Status:             workflow.StatusNotLocated,
			DaysInStatus:       12,
			LastActionDate:     actionDate,
			TotalLoan:          500000,
			OutstandingBalance: 500000,
		}, list[0])
		assert.Equal(t, workflow.StatusLocated, list[1].Status)
		require.NotNil(t, list[1].LastPaymentDate)
		assert.Equal(t, paid, *list[1].LastPaymentDate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &BorrowerRepository{querier: mock, logger: newTestLogger()}

		dbErr := errors.New("relation \"borrowers\" does not exist")
		mock.ExpectQuery(query).WillReturnError(dbErr)

		_, err = repo.LoadAll(ctx)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to query borrowers")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		repo := &BorrowerRepository{querier: mock, logger: newTestLogger()}

		rowErr := errors.New("connection reset")
		rows := pgxmock.NewRows(borrowerColumns).
			AddRow("1", "LN-1", "A", "", "", "MOVING", 0, actionDate, int64(1), int64(1), (*time.Time)(nil)).
			RowError(0, rowErr)
		mock.ExpectQuery(query).WillReturnRows(rows)

		_, err = repo.LoadAll(ctx)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

var _ borrower.Source = (*BorrowerRepository)(nil)
