package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collections-workflow/internal/collections_engine/store"
	"github.com/collections-workflow/internal/dashboard_api/middleware"
	"github.com/collections-workflow/internal/dashboard_api/service"
	"github.com/collections-workflow/internal/domain/workflow"
)

// BorrowerHandler handles HTTP requests for borrower queries and status changes
type BorrowerHandler struct {
	borrowerService service.BorrowerService
	logger          *slog.Logger
}

// NewBorrowerHandler creates a new borrower handler
func NewBorrowerHandler(logger *slog.Logger, borrowerService service.BorrowerService) *BorrowerHandler {
	return &BorrowerHandler{
		borrowerService: borrowerService,
		logger:          logger,
	}
}

// List returns one page of the borrower table filtered by group and search text
func (h *BorrowerHandler) List(c *gin.Context) {
	var params BorrowerListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	group, ok := workflow.ParseGroup(params.Filter)
	if !ok {
		RespondBadRequest(c, "Invalid filter, expected one of all, legal, moving, stuck")
		return
	}

	list, total, err := h.borrowerService.ListBorrowers(
		c.Request.Context(),
		store.Query{Filter: group, Search: params.Query},
		params.Page,
		params.PerPage,
	)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list borrowers")
		return
	}

	RespondWithPaginatedData(c, http.StatusOK, mapBorrowersToResponse(list), params.Page, params.PerPage, total)
}

// GetByID returns the detail panel for one borrower
func (h *BorrowerHandler) GetByID(c *gin.Context) {
	detail, err := h.borrowerService.GetBorrower(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get borrower")
		return
	}

	RespondOK(c, BorrowerDetailResponse{
		Borrower:      mapBorrowerToResponse(detail.Borrower),
		NextStates:    statusStrings(detail.NextStates),
		PrimaryAction: detail.PrimaryAction,
		Logs:          mapEntriesToResponse(detail.Logs),
	})
}

// GetLogs returns one borrower's history, newest first
func (h *BorrowerHandler) GetLogs(c *gin.Context) {
	logs, err := h.borrowerService.GetLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get borrower logs")
		return
	}
	RespondOK(c, mapEntriesToResponse(logs))
}

// ListLogs returns the whole action log, newest first
func (h *BorrowerHandler) ListLogs(c *gin.Context) {
	RespondOK(c, mapEntriesToResponse(h.borrowerService.ListLogs(c.Request.Context())))
}

// UpdateStatus moves one borrower to a new status
func (h *BorrowerHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	status, err := workflow.ParseStatus(req.Status)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	entry, err := h.borrowerService.UpdateStatus(c.Request.Context(), c.Param("id"), status, req.Note)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update borrower status")
		return
	}

	middleware.RequestLogger(c, h.logger).Info("Borrower status updated via API",
		"borrower_id", entry.BorrowerID,
		"new_status", entry.NewStatus,
	)
	RespondOK(c, mapEntryToResponse(*entry))
}

// AddNote records a note without changing status
func (h *BorrowerHandler) AddNote(c *gin.Context) {
	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.borrowerService.AddNote(c.Request.Context(), c.Param("id"), req.Note)
	if err != nil {
		respondError(c, h.logger, err, "Failed to add note")
		return
	}
	RespondWithData(c, http.StatusCreated, mapEntryToResponse(*entry))
}

// BulkUpdateStatus moves the selected borrowers to one status
func (h *BorrowerHandler) BulkUpdateStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	status, err := workflow.ParseStatus(req.Status)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.borrowerService.BulkUpdateStatus(c.Request.Context(), req.IDs, status, req.Note)
	if err != nil {
		respondError(c, h.logger, err, "Failed to bulk update borrower status")
		return
	}

	middleware.RequestLogger(c, h.logger).Info("Bulk status update via API",
		"requested", len(req.IDs),
		"updated", len(result.Updated),
		"skipped", len(result.Skipped),
		"rejected", len(result.Rejected),
	)
	RespondOK(c, BulkStatusResponse{
		Updated:  mapEntriesToResponse(result.Updated),
		Skipped:  result.Skipped,
		Rejected: result.Rejected,
	})
}
