package borrower

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/collections-workflow/internal/domain/workflow"
)

// Common errors
var (
	ErrEmptyID          = errors.New("borrower id cannot be empty")
	ErrEmptyLoanID      = errors.New("loan id cannot be empty")
	ErrEmptyName        = errors.New("borrower name cannot be empty")
	ErrNegativeAmount   = errors.New("loan amounts cannot be negative")
	ErrNegativeDayCount = errors.New("days in status cannot be negative")
)

// Borrower is one debtor account in the collection workflow
type Borrower struct {
	ID                 string          `json:"id"`
	LoanID             string          `json:"loan_id"`
	FullName           string          `json:"full_name"`
	Phone              string          `json:"phone"`
	Address            string          `json:"address"`
	Status             workflow.Status `json:"status"`
	DaysInStatus       int             `json:"days_in_status"`
	LastActionDate     time.Time       `json:"last_action_date"`
	TotalLoan          int64           `json:"total_loan"`          // Stored in cents/minor units
	OutstandingBalance int64           `json:"outstanding_balance"` // Stored in cents/minor units
	LastPaymentDate    *time.Time      `json:"last_payment_date,omitempty"`
}

// Validate checks the fields an import must provide
func (b *Borrower) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(b.LoanID) == "" {
		return ErrEmptyLoanID
	}
	if strings.TrimSpace(b.FullName) == "" {
		return ErrEmptyName
	}
	if !b.Status.Valid() {
		return fmt.Errorf("%w: %q", workflow.ErrInvalidStatus, string(b.Status))
	}
	if b.TotalLoan < 0 || b.OutstandingBalance < 0 {
		return ErrNegativeAmount
	}
	if b.DaysInStatus < 0 {
		return ErrNegativeDayCount
	}
	return nil
}

// Overdrawn reports the unenforced expectation outstanding_balance <= total_loan being violated
func (b *Borrower) Overdrawn() bool {
	return b.OutstandingBalance > b.TotalLoan
}

// MoveTo sets a new status, resetting the dwell counter and action date.
// It does not consult the transition table; callers apply their policy first.
func (b *Borrower) MoveTo(status workflow.Status, at time.Time) workflow.Status {
	old := b.Status
	b.Status = status
	b.DaysInStatus = 0
	b.LastActionDate = at
	return old
}

// Matches reports whether the borrower satisfies a dashboard search query:
// case-insensitive over name and loan id, plain substring over phone
func (b *Borrower) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.FullName), q) ||
		strings.Contains(strings.ToLower(b.LoanID), q) ||
		strings.Contains(b.Phone, q)
}

// Clone returns a deep copy so callers can't reach the stored record
func (b Borrower) Clone() Borrower {
	if b.LastPaymentDate != nil {
		t := *b.LastPaymentDate
		b.LastPaymentDate = &t
	}
	return b
}
