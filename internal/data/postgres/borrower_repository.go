// Package postgres reads the borrower portfolio that an upstream loan system
// exports into PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/collections-workflow/internal/domain/borrower"
	"github.com/collections-workflow/internal/domain/workflow"
	"github.com/collections-workflow/internal/platform/persistence"
)

const selectBorrowers = `
		SELECT id, loan_id, full_name, phone, address, status, days_in_status,
		       last_action_date, total_loan, outstanding_balance, last_payment_date
		FROM borrowers
		ORDER BY import_seq
	`

// BorrowerRepository implements borrower.Source over the borrowers table
type BorrowerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewBorrowerRepository creates a repository on the database pool
func NewBorrowerRepository(logger *slog.Logger, db *persistence.PostgresDB) *BorrowerRepository {
	return &BorrowerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// LoadAll returns every exported borrower in export order. Rows are not
// validated here; the record store rejects malformed ones on import.
func (r *BorrowerRepository) LoadAll(ctx context.Context) ([]borrower.Borrower, error) {
	rows, err := r.querier.Query(ctx, selectBorrowers)
	if err != nil {
		r.logger.Error("Failed to query borrowers", "error", err)
		return nil, fmt.Errorf("failed to query borrowers: %w", err)
	}
	defer rows.Close()

	var out []borrower.Borrower
	for rows.Next() {
		var (
			b      borrower.Borrower
			status string
		)
		if err := rows.Scan(
			&b.ID,
			&b.LoanID,
			&b.FullName,
			&b.Phone,
			&b.Address,
			&status,
			&b.DaysInStatus,
			&b.LastActionDate,
			&b.TotalLoan,
			&b.OutstandingBalance,
			&b.LastPaymentDate,
		); err != nil {
			r.logger.Error("Failed to scan borrower row", "error", err)
			return nil, fmt.Errorf("failed to scan borrower row: %w", err)
		}
		b.Status = workflow.Status(status)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate borrower rows: %w", err)
	}

	r.logger.Info("Loaded borrowers from PostgreSQL", "count", len(out))
	return out, nil
}
