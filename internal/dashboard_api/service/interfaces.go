package service

import (
	"context"

	"github.com/collections-workflow/internal/collections_engine/actions"
	"github.com/collections-workflow/internal/collections_engine/analytics"
	"github.com/collections-workflow/internal/collections_engine/store"
	"github.com/collections-workflow/internal/domain/actionlog"
	"github.com/collections-workflow/internal/domain/borrower"
	"github.com/collections-workflow/internal/domain/workflow"
	"github.com/collections-workflow/internal/letters"
)

// BorrowerService defines the interface for borrower queries and workflow mutations
type BorrowerService interface {
	// ListBorrowers returns one page of borrowers matching q and the total match count
	ListBorrowers(ctx context.Context, q store.Query, page, perPage int) ([]borrower.Borrower, int, error)

	// GetBorrower returns the borrower with its next states, primary action and history.
	// Returns borrower.ErrNotFound if the borrower doesn't exist
	GetBorrower(ctx context.Context, id string) (*BorrowerDetail, error)

	// GetLogs returns the borrower's history, newest first
	GetLogs(ctx context.Context, id string) ([]actionlog.Entry, error)

	// ListLogs returns every action log entry, newest first
	ListLogs(ctx context.Context) []actionlog.Entry

	UpdateStatus(ctx context.Context, id string, status workflow.Status, note string) (*actionlog.Entry, error)

	// AddNote returns actions.ErrNoteRequired for a blank note
	AddNote(ctx context.Context, id, note string) (*actionlog.Entry, error)

	BulkUpdateStatus(ctx context.Context, ids []string, status workflow.Status, note string) (store.BulkResult, error)
}

// ActionService defines the interface for primary actions and demand letters
type ActionService interface {
	PerformAction(ctx context.Context, id string, code actions.Code, note string) (*actions.Result, error)

	// RenderLetter returns the PDF and its file name without changing the borrower
	RenderLetter(ctx context.Context, id string, t letters.LetterType) ([]byte, string, error)
}

// ReportService defines the interface for dashboard statistics
type ReportService interface {
	BasicStats(ctx context.Context) analytics.BasicStats
	Portfolio(ctx context.Context) analytics.PortfolioStats
}

// ArchiveReader reads exported action log history
type ArchiveReader interface {
	FindByBorrower(ctx context.Context, borrowerID string, limit int64) ([]actionlog.Entry, error)
}

// RecordStore is the subset of the record store the services use
type RecordStore interface {
	Query(q store.Query) []borrower.Borrower
	Borrower(id string) (borrower.Borrower, error)
	Borrowers() []borrower.Borrower
	Logs() []actionlog.Entry
	LogsForBorrower(id string) []actionlog.Entry
	SetStatus(ctx context.Context, id string, status workflow.Status, note string) (*actionlog.Entry, error)
	AddNote(ctx context.Context, id, note string) (*actionlog.Entry, error)
	BulkSetStatus(ctx context.Context, ids []string, status workflow.Status, note string) (store.BulkResult, error)
}
