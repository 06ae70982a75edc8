package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/collections-workflow/internal/dashboard_api/service"
)

const defaultArchiveLimit = 100

// ArchiveParams bounds an archive read
type ArchiveParams struct {
	Limit int64 `form:"limit,default=100" binding:"min=1,max=1000"`
}

// ArchiveHandler reads exported history back from the audit archive
type ArchiveHandler struct {
	archive service.ArchiveReader
	logger  *slog.Logger
}

func NewArchiveHandler(logger *slog.Logger, archive service.ArchiveReader) *ArchiveHandler {
	return &ArchiveHandler{archive: archive, logger: logger}
}

// GetByBorrower returns archived entries for a borrower, including ones from previous runs
func (h *ArchiveHandler) GetByBorrower(c *gin.Context) {
	params := ArchiveParams{Limit: defaultArchiveLimit}
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	entries, err := h.archive.FindByBorrower(c.Request.Context(), c.Param("id"), params.Limit)
	if err != nil {
		h.logger.Error("Failed to read action log archive", "borrower_id", c.Param("id"), "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, mapEntriesToResponse(entries))
}
