package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/collections-workflow/internal/collections_engine/actions"
	"github.com/collections-workflow/internal/domain/borrower"
	"github.com/collections-workflow/internal/domain/workflow"
	"github.com/collections-workflow/internal/letters"
)

// respondError maps engine errors onto the response envelope
func respondError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	var notFound borrower.ErrNotFound
	switch {
	case errors.As(err, &notFound):
		RespondNotFound(c, "Borrower not found")
	case errors.Is(err, workflow.ErrInvalidStatus),
		errors.Is(err, letters.ErrUnknownLetterType),
		errors.Is(err, actions.ErrNoteRequired):
		RespondBadRequest(c, err.Error())
	case errors.Is(err, workflow.ErrInvalidTransition):
		RespondUnprocessable(c, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, actions.ErrActionNotAvailable):
		RespondConflict(c, err.Error())
	default:
		logger.Error(msg, "error", err)
		RespondInternalError(c)
	}
}
