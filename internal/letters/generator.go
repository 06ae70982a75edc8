package letters

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/collections-workflow/internal/domain/borrower"
)

const (
	margin    = 20.0
	textWidth = 170.0
	lineH     = 7.0
)

// Generator renders demand letters as single-page A4 PDFs
type Generator struct {
	cfg    Config
	now    func() time.Time
	logger *slog.Logger
}

// NewGenerator creates a Generator with the given sender details
func NewGenerator(logger *slog.Logger, cfg Config) *Generator {
	return &Generator{cfg: cfg, now: time.Now, logger: logger}
}

// Render writes the letter for b to w
func (g *Generator) Render(w io.Writer, b borrower.Borrower, t LetterType) error {
	letter, err := Compose(g.cfg, b, t, g.now())
	if err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(letter.Title, true)
	pdf.SetCreator(g.cfg.CompanyName, true)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	// Header
	pdf.SetY(25)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(textWidth, 10, tr(g.cfg.CompanyName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(textWidth, 6, tr(g.cfg.CompanyAddress), "", 1, "L", false, 0, "")
	pdf.Ln(14)

	// Recipient
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(textWidth, lineH, letter.Date, "", 1, "L", false, 0, "")
	pdf.Ln(3)
	for _, line := range letter.Recipient {
		pdf.CellFormat(textWidth, 5, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(15)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(textWidth, 10, tr(letter.Title), "", 1, "L", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(textWidth, lineH, tr(letter.Salutation), "", 1, "L", false, 0, "")
	pdf.Ln(3)
	pdf.MultiCell(textWidth, lineH, tr(letter.Body), "", "L", false)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(textWidth, lineH, tr(letter.CallToAct), "", 1, "L", false, 0, "")
	pdf.Ln(13)

	// Signature
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(textWidth, lineH, "Sincerely,", "", 1, "L", false, 0, "")
	pdf.Ln(3)
	pdf.CellFormat(textWidth, 5, "Collections Department", "", 1, "L", false, 0, "")
	pdf.CellFormat(textWidth, 5, tr(g.cfg.CompanyName), "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		g.logger.Error("Failed to render demand letter",
			"borrower_id", b.ID,
			"letter_type", t,
			"error", err,
		)
		return fmt.Errorf("render %s letter for borrower %s: %w", t, b.ID, err)
	}

	g.logger.Info("Demand letter rendered", "borrower_id", b.ID, "letter_type", t)
	return nil
}
