package actionlog

import (
	"context"
	"sort"
	"time"

	"github.com/collections-workflow/internal/domain/workflow"
)

// ActionType classifies an action log entry
type ActionType string

const (
	ActionTypeStatusChange     ActionType = "STATUS_CHANGE"
	ActionTypeStatusChangeBulk ActionType = "STATUS_CHANGE_BULK"
	ActionTypeNote             ActionType = "NOTE"
	ActionTypeSystem           ActionType = "SYSTEM"
)

// Entry is one immutable record in the borrower audit trail
type Entry struct {
	ID          string          `json:"id" bson:"entry_id"`
	BorrowerID  string          `json:"borrower_id" bson:"borrower_id"`
	ActionType  ActionType      `json:"action_type" bson:"action_type"`
	OldStatus   workflow.Status `json:"old_status" bson:"old_status"`
	NewStatus   workflow.Status `json:"new_status" bson:"new_status"`
	Notes       string          `json:"notes" bson:"notes"`
	PerformedAt time.Time       `json:"performed_at" bson:"performed_at"`
}

// ChangesStatus reports whether the entry records a status move
func (e Entry) ChangesStatus() bool {
	return e.ActionType == ActionTypeStatusChange || e.ActionType == ActionTypeStatusChangeBulk
}

// SortNewestFirst orders entries by PerformedAt descending, keeping the
// relative order of entries with equal timestamps
func SortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PerformedAt.After(entries[j].PerformedAt)
	})
}

// Sink receives committed entries for export outside the engine
type Sink interface {
	Name() string
	Deliver(ctx context.Context, entry Entry) error
}
