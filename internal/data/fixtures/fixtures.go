// Package fixtures provides the built-in demonstration portfolio used when no
// external import source is configured.
package fixtures

import (
	"context"
	"time"

	"github.com/collections-workflow/internal/domain/actionlog"
	"github.com/collections-workflow/internal/domain/borrower"
	"github.com/collections-workflow/internal/domain/workflow"
)

// Portfolio implements borrower.Source over the seed data
type Portfolio struct{}

// NewPortfolio returns the seed portfolio source
func NewPortfolio() *Portfolio {
	return &Portfolio{}
}

// LoadAll returns ten borrowers, one or more in every stage of the workflow.
// LastActionDate is left zero so the store stamps the import time.
func (p *Portfolio) LoadAll(_ context.Context) ([]borrower.Borrower, error) {
	return []borrower.Borrower{
		{ID: "1", FullName: "Alice Johnson", LoanID: "LN-2023-001", Phone: "555-0101", Address: "123 Maple St, Springfield",
			Status: workflow.StatusNotLocated, DaysInStatus: 12, TotalLoan: 500000, OutstandingBalance: 500000},
		{ID: "2", FullName: "Bob Smith", LoanID: "LN-2023-002", Phone: "555-0102", Address: "456 Oak Ave, Metropolis",
			Status: workflow.StatusLocated, DaysInStatus: 3, TotalLoan: 1200000, OutstandingBalance: 1150000, LastPaymentDate: date(2023, 12, 1)},
		{ID: "3", FullName: "Charlie Davis", LoanID: "LN-2023-003", Phone: "555-0103", Address: "789 Pine Ln, Gotham",
			Status: workflow.StatusMoving, DaysInStatus: 45, TotalLoan: 300000, OutstandingBalance: 120000, LastPaymentDate: date(2024, 5, 15)},
		{ID: "4", FullName: "Diana Prince", LoanID: "LN-2023-004", Phone: "555-0104", Address: "101 Island Dr, Themyscira",
			Status: workflow.StatusNotMoving, DaysInStatus: 5, TotalLoan: 850000, OutstandingBalance: 850000, LastPaymentDate: date(2024, 1, 20)},
		{ID: "5", FullName: "Evan Wright", LoanID: "LN-2023-005", Phone: "555-0105", Address: "202 Cloud St, Sky City",
			Status: workflow.StatusDemandQueue, DaysInStatus: 2, TotalLoan: 1500000, OutstandingBalance: 1500000},
		{ID: "6", FullName: "Fiona Green", LoanID: "LN-2023-006", Phone: "555-0106", Address: "303 Forest Rd, Emerald City",
			Status: workflow.StatusFirstDemand, DaysInStatus: 16, TotalLoan: 450000, OutstandingBalance: 450000},
		{ID: "7", FullName: "George Hall", LoanID: "LN-2023-007", Phone: "555-0107", Address: "404 Error Way, Silicon Valley",
			Status: workflow.StatusSecondDemand, DaysInStatus: 20, TotalLoan: 250000, OutstandingBalance: 250000},
		{ID: "8", FullName: "Hannah Lee", LoanID: "LN-2023-008", Phone: "555-0108", Address: "505 Ocean Blvd, Atlantis",
			Status: workflow.StatusSmallClaims, DaysInStatus: 60, TotalLoan: 2000000, OutstandingBalance: 1900000, LastPaymentDate: date(2023, 11, 10)},
		{ID: "9", FullName: "Ian Curtis", LoanID: "LN-2023-009", Phone: "555-0109", Address: "606 Dark St, Manchester",
			Status: workflow.StatusWriteOff, DaysInStatus: 120, TotalLoan: 50000, OutstandingBalance: 50000},
		{ID: "10", FullName: "Julia Roberts", LoanID: "LN-2023-010", Phone: "555-0110", Address: "707 Movie Star Dr, Hollywood",
			Status: workflow.StatusWDisclosure, DaysInStatus: 1, TotalLoan: 1000000, OutstandingBalance: 980000, LastPaymentDate: date(2024, 5, 20)},
	}, nil
}

// HistoricLogs returns the audit trail that predates the seed import, newest first
func (p *Portfolio) HistoricLogs() []actionlog.Entry {
	entries := []actionlog.Entry{
		{ID: "101", BorrowerID: "1", ActionType: actionlog.ActionTypeSystem,
			OldStatus: workflow.StatusNotLocated, NewStatus: workflow.StatusNotLocated,
			Notes: "Account imported", PerformedAt: at("2023-10-01T09:00:00Z")},
		{ID: "102", BorrowerID: "5", ActionType: actionlog.ActionTypeStatusChange,
			OldStatus: workflow.StatusNotMoving, NewStatus: workflow.StatusDemandQueue,
			Notes: "Automated escalation due to missed payment", PerformedAt: at("2023-11-15T10:00:00Z")},
		{ID: "103", BorrowerID: "6", ActionType: actionlog.ActionTypeStatusChange,
			OldStatus: workflow.StatusDemandQueue, NewStatus: workflow.StatusFirstDemand,
			Notes: "Generated 1st Demand Letter", PerformedAt: at("2023-11-20T11:00:00Z")},
		{ID: "104", BorrowerID: "2", ActionType: actionlog.ActionTypeStatusChange,
			OldStatus: workflow.StatusNotLocated, NewStatus: workflow.StatusLocated,
			Notes: "Found new address via skip trace", PerformedAt: at("2023-12-01T14:00:00Z")},
		{ID: "105", BorrowerID: "8", ActionType: actionlog.ActionTypeStatusChange,
			OldStatus: workflow.StatusSecondDemand, NewStatus: workflow.StatusSmallClaims,
			Notes: "Approved for legal action", PerformedAt: at("2023-10-05T09:30:00Z")},
	}
	actionlog.SortNewestFirst(entries)
	return entries
}

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func at(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		panic(err)
	}
	return t
}
