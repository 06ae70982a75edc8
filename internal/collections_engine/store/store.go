package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/collections-workflow/internal/domain/actionlog"
	"github.com/collections-workflow/internal/domain/borrower"
	"github.com/collections-workflow/internal/domain/workflow"
	"github.com/google/uuid"
)

// Observer is notified after a mutation has committed.
// It runs outside the store lock and must not call back into mutating methods synchronously.
type Observer interface {
	OnCommit(entries []actionlog.Entry)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(entries []actionlog.Entry)

func (f ObserverFunc) OnCommit(entries []actionlog.Entry) { f(entries) }

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for action timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the generator for action log ids
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithTransitionPolicy selects whether the transition table is enforced
func WithTransitionPolicy(policy workflow.TransitionPolicy) Option {
	return func(s *Store) { s.policy = policy }
}

// WithObserver registers an observer for committed log entries
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observers = append(s.observers, o) }
}

// BulkResult reports the outcome of a bulk status change
type BulkResult struct {
	Updated  []actionlog.Entry `json:"updated"`
	Skipped  []string          `json:"skipped"`
	Rejected []string          `json:"rejected"`
}

// Query narrows the borrower list
type Query struct {
	Filter workflow.Group
	Search string
}

// Store is the in-memory record store for borrowers and their action log.
// Mutations hold the write lock; reads hold the read lock and return copies.
type Store struct {
	mu        sync.RWMutex
	borrowers []*borrower.Borrower
	index     map[string]*borrower.Borrower
	logs      []actionlog.Entry // newest first

	now       func() time.Time
	newID     func() string
	policy    workflow.TransitionPolicy
	observers []Observer
	logger    *slog.Logger
}

// New creates an empty store
func New(logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		index:  make(map[string]*borrower.Borrower),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
		policy: workflow.PolicyPermissive,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the transition policy the store was built with
func (s *Store) Policy() workflow.TransitionPolicy {
	return s.policy
}

// SetStatus moves one borrower to newStatus and records a STATUS_CHANGE entry.
// days_in_status and last_action_date are reset even when the status is unchanged.
func (s *Store) SetStatus(ctx context.Context, id string, newStatus workflow.Status, note string) (*actionlog.Entry, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: %q", workflow.ErrInvalidStatus, string(newStatus))
	}

	s.mu.Lock()
	b, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return nil, borrower.ErrNotFound{BorrowerID: id}
	}
	if err := s.policy.Check(b.Status, newStatus); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("borrower %s: %w", id, err)
	}

	at := s.now()
	old := b.MoveTo(newStatus, at)
	entry := s.newEntry(id, actionlog.ActionTypeStatusChange, old, newStatus, note, at)
	s.prependLogs(entry)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Borrower status changed",
		"borrower_id", id,
		"old_status", old,
		"new_status", newStatus,
	)
	s.notify([]actionlog.Entry{entry})
	return &entry, nil
}

// BulkSetStatus applies one status to many borrowers with a shared timestamp.
// Unknown ids are skipped and, under the strict policy, disallowed moves are
// rejected; neither aborts the batch. An invalid status fails before any change.
func (s *Store) BulkSetStatus(ctx context.Context, ids []string, newStatus workflow.Status, note string) (BulkResult, error) {
	result := BulkResult{
		Updated:  []actionlog.Entry{},
		Skipped:  []string{},
		Rejected: []string{},
	}
	if !newStatus.Valid() {
		return result, fmt.Errorf("%w: %q", workflow.ErrInvalidStatus, string(newStatus))
	}
	if len(ids) == 0 {
		return result, nil
	}

	s.mu.Lock()
	at := s.now()
	for _, id := range ids {
		b, ok := s.index[id]
		if !ok {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		if err := s.policy.Check(b.Status, newStatus); err != nil {
			result.Rejected = append(result.Rejected, id)
			continue
		}
		old := b.MoveTo(newStatus, at)
		result.Updated = append(result.Updated,
			s.newEntry(id, actionlog.ActionTypeStatusChangeBulk, old, newStatus, note, at))
	}
	s.prependLogs(result.Updated...)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Bulk status change applied",
		"new_status", newStatus,
		"updated", len(result.Updated),
		"skipped", len(result.Skipped),
		"rejected", len(result.Rejected),
	)
	if len(result.Updated) > 0 {
		s.notify(result.Updated)
	}
	return result, nil
}

// AddNote records a NOTE entry against the borrower's current status without
// touching the borrower record
func (s *Store) AddNote(ctx context.Context, id, note string) (*actionlog.Entry, error) {
	s.mu.Lock()
	b, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return nil, borrower.ErrNotFound{BorrowerID: id}
	}
	entry := s.newEntry(id, actionlog.ActionTypeNote, b.Status, b.Status, note, s.now())
	s.prependLogs(entry)
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "Note added", "borrower_id", id)
	s.notify([]actionlog.Entry{entry})
	return &entry, nil
}

// Import appends a borrower produced by an external import and writes a SYSTEM entry
func (s *Store) Import(ctx context.Context, b borrower.Borrower, note string) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("invalid borrower %q: %w", b.ID, err)
	}
	if note == "" {
		note = "Account imported"
	}

	s.mu.Lock()
	if _, exists := s.index[b.ID]; exists {
		s.mu.Unlock()
		return borrower.ErrDuplicateBorrower{BorrowerID: b.ID}
	}
	stored := b.Clone()
	if stored.LastActionDate.IsZero() {
		stored.LastActionDate = s.now()
	}
	s.borrowers = append(s.borrowers, &stored)
	s.index[stored.ID] = &stored
	entry := s.newEntry(stored.ID, actionlog.ActionTypeSystem, stored.Status, stored.Status, note, s.now())
	s.prependLogs(entry)
	s.mu.Unlock()

	if stored.Overdrawn() {
		s.logger.WarnContext(ctx, "Imported borrower owes more than the financed amount",
			"borrower_id", stored.ID,
			"total_loan", stored.TotalLoan,
			"outstanding_balance", stored.OutstandingBalance,
		)
	}
	s.notify([]actionlog.Entry{entry})
	return nil
}

// RestoreLogs appends historic entries, such as seed data, to the end of the
// log without notifying observers. Entries referencing unknown borrowers are kept.
func (s *Store) RestoreLogs(entries ...actionlog.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entries...)
}

// AdvanceDays adds n days of dwell time to every borrower
func (s *Store) AdvanceDays(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.borrowers {
		b.DaysInStatus += n
	}
}

// Borrowers returns every borrower in insertion order
func (s *Store) Borrowers() []borrower.Borrower {
	return s.Query(Query{Filter: workflow.GroupAll})
}

// Query returns the borrowers in the filter group that match the search text
func (s *Store) Query(q Query) []borrower.Borrower {
	filter := q.Filter
	if filter == "" {
		filter = workflow.GroupAll
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]borrower.Borrower, 0, len(s.borrowers))
	for _, b := range s.borrowers {
		if !filter.Contains(b.Status) || !b.Matches(q.Search) {
			continue
		}
		out = append(out, b.Clone())
	}
	return out
}

// Borrower returns a copy of one borrower
func (s *Store) Borrower(id string) (borrower.Borrower, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.index[id]
	if !ok {
		return borrower.Borrower{}, borrower.ErrNotFound{BorrowerID: id}
	}
	return b.Clone(), nil
}

// Logs returns every entry in storage order, newest first
func (s *Store) Logs() []actionlog.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]actionlog.Entry, len(s.logs))
	copy(out, s.logs)
	return out
}

// LogsForBorrower returns the entries of one borrower sorted by PerformedAt descending
func (s *Store) LogsForBorrower(id string) []actionlog.Entry {
	s.mu.RLock()
	out := make([]actionlog.Entry, 0)
	for _, e := range s.logs {
		if e.BorrowerID == id {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	actionlog.SortNewestFirst(out)
	return out
}

// Len returns the number of borrowers
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.borrowers)
}

func (s *Store) newEntry(borrowerID string, kind actionlog.ActionType, old, next workflow.Status, note string, at time.Time) actionlog.Entry {
	return actionlog.Entry{
		ID:          s.newID(),
		BorrowerID:  borrowerID,
		ActionType:  kind,
		OldStatus:   old,
		NewStatus:   next,
		Notes:       note,
		PerformedAt: at,
	}
}

// prependLogs must be called with the write lock held
func (s *Store) prependLogs(entries ...actionlog.Entry) {
	if len(entries) == 0 {
		return
	}
	logs := make([]actionlog.Entry, 0, len(entries)+len(s.logs))
	logs = append(logs, entries...)
	s.logs = append(logs, s.logs...)
}

func (s *Store) notify(entries []actionlog.Entry) {
	for _, o := range s.observers {
		batch := make([]actionlog.Entry, len(entries))
		copy(batch, entries)
		o.OnCommit(batch)
	}
}
