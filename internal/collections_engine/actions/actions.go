package actions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/collections-workflow/internal/domain/actionlog"
	"github.com/collections-workflow/internal/domain/borrower"
	"github.com/collections-workflow/internal/domain/workflow"
	"github.com/collections-workflow/internal/letters"
)

// Common errors
var (
	ErrActionNotAvailable = errors.New("action not available for current status")
	ErrNoteRequired       = errors.New("a note is required for this action")
)

// Code identifies a primary action
type Code string

const (
	CodeFirstLetter  Code = "GEN_PDF_1"
	CodeSecondLetter Code = "GEN_PDF_2"
	CodeFileLegal    Code = "FILE_LEGAL"
	CodeLogCall      Code = "LOG_CALL"
)

// Icon hints how a client should decorate the action button
type Icon string

const (
	IconPDF   Icon = "pdf"
	IconCheck Icon = "check"
	IconNone  Icon = "none"
)

// LetterDwellDays is how long a borrower must sit in a demand status before the next escalation is offered
const LetterDwellDays = 14

// Action is the single recommended next step for a borrower
type Action struct {
	Code  Code   `json:"code"`
	Label string `json:"label"`
	Icon  Icon   `json:"icon"`
}

// Primary returns the recommended action for b, or nil when there is none
func Primary(b borrower.Borrower) *Action {
	switch {
	case b.Status == workflow.StatusDemandQueue:
		return &Action{Code: CodeFirstLetter, Label: "Generate 1st Demand Letter", Icon: IconPDF}
	case b.Status == workflow.StatusFirstDemand && b.DaysInStatus > LetterDwellDays:
		return &Action{Code: CodeSecondLetter, Label: "Generate 2nd Demand Letter", Icon: IconPDF}
	case b.Status == workflow.StatusSecondDemand && b.DaysInStatus > LetterDwellDays:
		return &Action{Code: CodeFileLegal, Label: "File Small Claims", Icon: IconCheck}
	case b.Status == workflow.StatusLocated:
		return &Action{Code: CodeLogCall, Label: "Log Call / Outcome", Icon: IconNone}
	default:
		return nil
	}
}

// Recorder is the subset of the record store an action mutates
type Recorder interface {
	Borrower(id string) (borrower.Borrower, error)
	SetStatus(ctx context.Context, id string, status workflow.Status, note string) (*actionlog.Entry, error)
	AddNote(ctx context.Context, id, note string) (*actionlog.Entry, error)
}

// LetterRenderer produces a demand letter document
type LetterRenderer interface {
	Render(w io.Writer, b borrower.Borrower, t letters.LetterType) error
}

// Result describes what performing an action did
type Result struct {
	Entry      *actionlog.Entry `json:"entry"`
	Letter     []byte           `json:"-"`
	LetterName string           `json:"letter_name,omitempty"`
}

// Performer executes primary actions against the record store
type Performer struct {
	store   Recorder
	letters LetterRenderer
	logger  *slog.Logger
}

// NewPerformer creates a Performer
func NewPerformer(logger *slog.Logger, store Recorder, renderer LetterRenderer) *Performer {
	return &Performer{store: store, letters: renderer, logger: logger}
}

// Perform runs code for borrower id. Letter actions render the letter first and
// only escalate the status when rendering succeeded.
func (p *Performer) Perform(ctx context.Context, id string, code Code, note string) (*Result, error) {
	b, err := p.store.Borrower(id)
	if err != nil {
		return nil, err
	}

	offered := Primary(b)
	if offered == nil || offered.Code != code {
		return nil, fmt.Errorf("%w: %s on %s", ErrActionNotAvailable, code, b.Status)
	}

	logger := p.logger.With("borrower_id", id, "action", code)

	switch code {
	case CodeFirstLetter:
		return p.escalateWithLetter(ctx, logger, b, letters.LetterFirst, workflow.StatusFirstDemand, "Generated 1st Demand Letter")
	case CodeSecondLetter:
		return p.escalateWithLetter(ctx, logger, b, letters.LetterSecond, workflow.StatusSecondDemand, "Generated 2nd Demand Letter")
	case CodeFileLegal:
		entry, err := p.store.SetStatus(ctx, id, workflow.StatusSmallClaims, "Filed Small Claims Case")
		if err != nil {
			return nil, err
		}
		logger.Info("Small claims case filed")
		return &Result{Entry: entry}, nil
	case CodeLogCall:
		if strings.TrimSpace(note) == "" {
			return nil, ErrNoteRequired
		}
		entry, err := p.store.AddNote(ctx, id, note)
		if err != nil {
			return nil, err
		}
		return &Result{Entry: entry}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrActionNotAvailable, code)
	}
}

func (p *Performer) escalateWithLetter(
	ctx context.Context,
	logger *slog.Logger,
	b borrower.Borrower,
	t letters.LetterType,
	next workflow.Status,
	note string,
) (*Result, error) {
	var buf bytes.Buffer
	if err := p.letters.Render(&buf, b, t); err != nil {
		logger.Error("Letter rendering failed, status left unchanged", "error", err)
		return nil, err
	}

	entry, err := p.store.SetStatus(ctx, b.ID, next, note)
	if err != nil {
		return nil, err
	}
	logger.Info("Demand letter issued", "letter_type", t, "new_status", next)

	return &Result{
		Entry:      entry,
		Letter:     buf.Bytes(),
		LetterName: letters.FileName(b, t),
	}, nil
}
