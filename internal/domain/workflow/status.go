package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrInvalidStatus     = errors.New("invalid workflow status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Status is a borrower's position in the collection workflow
type Status string

const (
	StatusNotLocated   Status = "NOT_LOCATED"
	StatusLocated      Status = "LOCATED"
	StatusWDisclosure  Status = "W_DISCLOSURE"
	StatusWODisclosure Status = "WO_DISCLOSURE"
	StatusMoving       Status = "MOVING"
	StatusNotMoving    Status = "NOT_MOVING"
	StatusDemandQueue  Status = "DEMAND_QUEUE"
	StatusFirstDemand  Status = "1ST_DEMAND"
	StatusSecondDemand Status = "2ND_DEMAND"
	StatusSmallClaims  Status = "SMALL_CLAIMS"
	StatusWriteOff     Status = "WRITE_OFF"
)

// ordered is the enumeration order. Status counts break ties with it.
var ordered = []Status{
	StatusNotLocated,
	StatusLocated,
	StatusWDisclosure,
	StatusWODisclosure,
	StatusMoving,
	StatusNotMoving,
	StatusDemandQueue,
	StatusFirstDemand,
	StatusSecondDemand,
	StatusSmallClaims,
	StatusWriteOff,
}

var rank = func() map[Status]int {
	m := make(map[Status]int, len(ordered))
	for i, s := range ordered {
		m[s] = i
	}
	return m
}()

// All returns every status in enumeration order
func All() []Status {
	out := make([]Status, len(ordered))
	copy(out, ordered)
	return out
}

// ParseStatus converts raw input into a Status, rejecting values outside the enumeration.
// Surrounding whitespace is ignored; matching is case-sensitive.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Valid reports whether s belongs to the enumeration
func (s Status) Valid() bool {
	_, ok := rank[s]
	return ok
}

// Rank is the position of s in the enumeration, or -1 for unknown values
func (s Status) Rank() int {
	if r, ok := rank[s]; ok {
		return r
	}
	return -1
}

// IsTerminal reports whether no transition leaves s
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Label is the display form used by the dashboard ("1ST DEMAND")
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

func (s Status) String() string {
	return string(s)
}
