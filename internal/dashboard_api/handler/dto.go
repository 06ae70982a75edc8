package handler

import (
	"time"

	"github.com/collections-workflow/internal/collections_engine/actions"
	"github.com/collections-workflow/internal/domain/actionlog"
	"github.com/collections-workflow/internal/domain/borrower"
	"github.com/collections-workflow/internal/domain/workflow"
)

// APIPrefix is the base path of every versioned route
const APIPrefix = "/api/v1"

// UpdateStatusRequest represents a request to move one borrower
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// AddNoteRequest represents a request to log a note against a borrower
type AddNoteRequest struct {
	Note string `json:"note" binding:"required"`
}

// BulkStatusRequest represents a request to move many borrowers at once. An empty id list is a no-op.
type BulkStatusRequest struct {
	IDs    []string `json:"ids" binding:"required,dive,required"`
	Status string   `json:"status" binding:"required"`
	Note   string   `json:"note"`
}

// PerformActionRequest carries the optional note for a primary action
type PerformActionRequest struct {
	Note string `json:"note"`
}

// BorrowerResponse represents a borrower in API responses
type BorrowerResponse struct {
	ID                 string  `json:"id"`
	LoanID             string  `json:"loan_id"`
	FullName           string  `json:"full_name"`
	Phone              string  `json:"phone"`
	Address            string  `json:"address"`
	Status             string  `json:"status"`
	StatusLabel        string  `json:"status_label"`
	DaysInStatus       int     `json:"days_in_status"`
	LastActionDate     string  `json:"last_action_date"`
	TotalLoan          int64   `json:"total_loan"`
	OutstandingBalance int64   `json:"outstanding_balance"`
	LastPaymentDate    *string `json:"last_payment_date"`
}

// ActionLogResponse represents an action log entry in API responses
type ActionLogResponse struct {
	ID            string `json:"id"`
	BorrowerID    string `json:"borrower_id"`
	ActionType    string `json:"action_type"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
	Notes         string `json:"notes"`
	StatusChanged bool   `json:"status_changed"`
	PerformedAt   string `json:"performed_at"`
}

// BorrowerDetailResponse is the detail panel payload
type BorrowerDetailResponse struct {
	Borrower      BorrowerResponse    `json:"borrower"`
	NextStates    []string            `json:"next_states"`
	PrimaryAction *actions.Action     `json:"primary_action"`
	Logs          []ActionLogResponse `json:"logs"`
}

// BulkStatusResponse reports a bulk change
type BulkStatusResponse struct {
	Updated  []ActionLogResponse `json:"updated"`
	Skipped  []string            `json:"skipped"`
	Rejected []string            `json:"rejected"`
}

// ActionResultResponse reports a performed primary action. The letter itself
// is fetched separately from the letters endpoint.
type ActionResultResponse struct {
	Entry      ActionLogResponse `json:"entry"`
	LetterName string            `json:"letter_name,omitempty"`
	LetterURL  string            `json:"letter_url,omitempty"`
}

// StatusResponse describes one workflow status
type StatusResponse struct {
	Status   string   `json:"status"`
	Label    string   `json:"label"`
	Next     []string `json:"next"`
	Terminal bool     `json:"terminal"`
}

// GroupResponse describes one dashboard filter group
type GroupResponse struct {
	Group    string   `json:"group"`
	Statuses []string `json:"statuses"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=25" binding:"min=1,max=100"`
}

// BorrowerListParams are the list filters of the dashboard table
type BorrowerListParams struct {
	PaginationParams
	Filter string `form:"filter"`
	Query  string `form:"q"`
}

func mapBorrowerToResponse(b borrower.Borrower) BorrowerResponse {
	resp := BorrowerResponse{
		ID:                 b.ID,
		LoanID:             b.LoanID,
		FullName:           b.FullName,
		Phone:              b.Phone,
		Address:            b.Address,
		Status:             string(b.Status),
		StatusLabel:        b.Status.Label(),
		DaysInStatus:       b.DaysInStatus,
		LastActionDate:     b.LastActionDate.Format(time.RFC3339),
		TotalLoan:          b.TotalLoan,
		OutstandingBalance: b.OutstandingBalance,
	}
	if b.LastPaymentDate != nil {
		paid := b.LastPaymentDate.Format(time.DateOnly)
		resp.LastPaymentDate = &paid
	}
	return resp
}

func mapBorrowersToResponse(list []borrower.Borrower) []BorrowerResponse {
	out := make([]BorrowerResponse, 0, len(list))
	for _, b := range list {
		out = append(out, mapBorrowerToResponse(b))
	}
	return out
}

func mapEntryToResponse(e actionlog.Entry) ActionLogResponse {
	return ActionLogResponse{
		ID:            e.ID,
		BorrowerID:    e.BorrowerID,
		ActionType:    string(e.ActionType),
		OldStatus:     string(e.OldStatus),
		NewStatus:     string(e.NewStatus),
		Notes:         e.Notes,
		StatusChanged: e.ChangesStatus(),
		PerformedAt:   e.PerformedAt.Format(time.RFC3339),
	}
}

func mapEntriesToResponse(entries []actionlog.Entry) []ActionLogResponse {
	out := make([]ActionLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, mapEntryToResponse(e))
	}
	return out
}

func statusStrings(list []workflow.Status) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, string(s))
	}
	return out
}
