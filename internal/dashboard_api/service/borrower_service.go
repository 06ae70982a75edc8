package service

import (
	"context"
	"strings"

	"github.com/collections-workflow/internal/collections_engine/actions"
	"github.com/collections-workflow/internal/collections_engine/store"
	"github.com/collections-workflow/internal/domain/actionlog"
	"github.com/collections-workflow/internal/domain/borrower"
	"github.com/collections-workflow/internal/domain/workflow"
)

// BorrowerDetail is everything the detail panel shows for one borrower
type BorrowerDetail struct {
	Borrower      borrower.Borrower
	NextStates    []workflow.Status
	PrimaryAction *actions.Action
	Logs          []actionlog.Entry
}

// BorrowerServiceImpl implements the BorrowerService interface
type BorrowerServiceImpl struct {
	store RecordStore
}

// NewBorrowerService creates a new borrower service
func NewBorrowerService(store RecordStore) BorrowerService {
	return &BorrowerServiceImpl{store: store}
}

// ListBorrowers filters in the store and pages the result. A page past the end is empty.
func (s *BorrowerServiceImpl) ListBorrowers(_ context.Context, q store.Query, page, perPage int) ([]borrower.Borrower, int, error) {
	all := s.store.Query(q)
	total := len(all)

	start := (page - 1) * perPage
	if start >= total {
		return []borrower.Borrower{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (s *BorrowerServiceImpl) GetBorrower(_ context.Context, id string) (*BorrowerDetail, error) {
	b, err := s.store.Borrower(id)
	if err != nil {
		return nil, err
	}
	return &BorrowerDetail{
		Borrower:      b,
		NextStates:    workflow.NextStates(b.Status),
		PrimaryAction: actions.Primary(b),
		Logs:          s.store.LogsForBorrower(id),
	}, nil
}

func (s *BorrowerServiceImpl) GetLogs(_ context.Context, id string) ([]actionlog.Entry, error) {
	if _, err := s.store.Borrower(id); err != nil {
		return nil, err
	}
	return s.store.LogsForBorrower(id), nil
}

func (s *BorrowerServiceImpl) ListLogs(_ context.Context) []actionlog.Entry {
	return s.store.Logs()
}

func (s *BorrowerServiceImpl) UpdateStatus(ctx context.Context, id string, status workflow.Status, note string) (*actionlog.Entry, error) {
	return s.store.SetStatus(ctx, id, status, note)
}

func (s *BorrowerServiceImpl) AddNote(ctx context.Context, id, note string) (*actionlog.Entry, error) {
	if strings.TrimSpace(note) == "" {
		return nil, actions.ErrNoteRequired
	}
	return s.store.AddNote(ctx, id, note)
}

func (s *BorrowerServiceImpl) BulkUpdateStatus(ctx context.Context, ids []string, status workflow.Status, note string) (store.BulkResult, error) {
	return s.store.BulkSetStatus(ctx, ids, status, note)
}
