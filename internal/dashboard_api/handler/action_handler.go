package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/collections-workflow/internal/collections_engine/actions"
	"github.com/collections-workflow/internal/dashboard_api/middleware"
	"github.com/collections-workflow/internal/dashboard_api/service"
	"github.com/collections-workflow/internal/letters"
)

const pdfContentType = "application/pdf"

// ActionHandler handles primary actions and demand letter downloads
type ActionHandler struct {
	actionService service.ActionService
	logger        *slog.Logger
}

// NewActionHandler creates a new action handler
func NewActionHandler(logger *slog.Logger, actionService service.ActionService) *ActionHandler {
	return &ActionHandler{
		actionService: actionService,
		logger:        logger,
	}
}

// Perform runs the borrower's primary action. Clients that prefer
// application/pdf in Accept receive the generated letter as the body;
// JSON is the default when Accept is absent or a wildcard.
func (h *ActionHandler) Perform(c *gin.Context) {
	var req PerformActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondBadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	id := c.Param("id")
	code := actions.Code(c.Param("code"))

	result, err := h.actionService.PerformAction(c.Request.Context(), id, code, req.Note)
	if err != nil {
		respondError(c, h.logger, err, "Failed to perform action")
		return
	}

	middleware.RequestLogger(c, h.logger).Info("Primary action performed", "borrower_id", id, "action", code)

	if len(result.Letter) > 0 && c.NegotiateFormat(binding.MIMEJSON, pdfContentType) == pdfContentType {
		writePDF(c, result.LetterName, result.Letter)
		return
	}

	resp := ActionResultResponse{Entry: mapEntryToResponse(*result.Entry)}
	if result.LetterName != "" {
		resp.LetterName = result.LetterName
		resp.LetterURL = fmt.Sprintf("%s/borrowers/%s/letters/%s", APIPrefix, id, letterTypeFor(code))
	}
	RespondOK(c, resp)
}

// Letter renders a demand letter preview without touching the borrower
func (h *ActionHandler) Letter(c *gin.Context) {
	t, err := letters.ParseLetterType(c.Param("type"))
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	pdf, name, err := h.actionService.RenderLetter(c.Request.Context(), c.Param("id"), t)
	if err != nil {
		respondError(c, h.logger, err, "Failed to render demand letter")
		return
	}
	writePDF(c, name, pdf)
}

func writePDF(c *gin.Context, name string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, pdfContentType, body)
}

func letterTypeFor(code actions.Code) letters.LetterType {
	if code == actions.CodeSecondLetter {
		return letters.LetterSecond
	}
	return letters.LetterFirst
}
