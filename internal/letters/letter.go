package letters

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/collections-workflow/internal/domain/borrower"
)

// ErrUnknownLetterType is returned for letter types other than 1ST and 2ND
var ErrUnknownLetterType = errors.New("unknown letter type")

// LetterType selects the escalation level of a demand letter
type LetterType string

const (
	LetterFirst  LetterType = "1ST"
	LetterSecond LetterType = "2ND"
)

// ParseLetterType accepts "1ST" or "2ND" in any case
func ParseLetterType(raw string) (LetterType, error) {
	switch t := LetterType(strings.ToUpper(strings.TrimSpace(raw))); t {
	case LetterFirst, LetterSecond:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLetterType, raw)
	}
}

// Config holds the sender details printed on every letter
type Config struct {
	CompanyName    string
	CompanyAddress string
	ContactPhone   string
	CurrencyPrefix string
}

// Letter is the text content of one demand letter, independent of layout
type Letter struct {
	Type       LetterType
	Date       string
	Recipient  []string
	Title      string
	Salutation string
	Body       string
	CallToAct  string
}

// Compose builds the letter text for a borrower
func Compose(cfg Config, b borrower.Borrower, t LetterType, at time.Time) (Letter, error) {
	amount := cfg.CurrencyPrefix + FormatAmount(b.OutstandingBalance)

	l := Letter{
		Type:       t,
		Date:       at.Format("January 2, 2006"),
		Recipient:  []string{"ATTN: " + b.FullName, b.Address, b.Phone},
		Salutation: fmt.Sprintf("Dear %s,", b.FullName),
		CallToAct:  "PLEASE CONTACT US IMMEDIATELY: " + cfg.ContactPhone,
	}

	switch t {
	case LetterFirst:
		l.Title = "NOTICE OF OUTSTANDING DEBT"
		l.Body = fmt.Sprintf("This letter serves as a formal reminder regarding your outstanding balance of %s "+
			"for Loan ID #%s. Our records indicate that we have not received payment recently. "+
			"Please remit payment immediately to avoid escalation.", amount, b.LoanID)
	case LetterSecond:
		l.Title = "FINAL DEMAND BEFORE LEGAL ACTION"
		l.Body = fmt.Sprintf("This is your FINAL NOTICE regarding the debt of %s associated with Loan ID #%s. "+
			"Despite our previous attempts to contact you, this matter remains unresolved. "+
			"Unless payment is made within 15 days, we will proceed with filing a claim in Small Claims Court.",
			amount, b.LoanID)
	default:
		return Letter{}, fmt.Errorf("%w: %q", ErrUnknownLetterType, string(t))
	}
	return l, nil
}

// FileName returns the download name, e.g. Alice_Johnson_1ST_Demand.pdf
func FileName(b borrower.Borrower, t LetterType) string {
	name := strings.Join(strings.Fields(b.FullName), "_")
	return fmt.Sprintf("%s_%s_Demand.pdf", name, t)
}

// FormatAmount renders minor units as a grouped decimal, e.g. 1234567 -> 12,345.67
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	whole := fmt.Sprintf("%d", minor/100)

	var sb strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return fmt.Sprintf("%s%s.%02d", sign, sb.String(), minor%100)
}
