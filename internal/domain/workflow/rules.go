package workflow

import "fmt"

// transitions is the only place the workflow graph is defined.
// MOVING <-> NOT_MOVING is a cycle and SMALL_CLAIMS may re-enter MOVING on settlement.
var transitions = map[Status][]Status{
	StatusNotLocated:   {StatusLocated},
	StatusLocated:      {StatusWDisclosure, StatusWODisclosure},
	StatusWDisclosure:  {StatusMoving, StatusNotMoving},
	StatusWODisclosure: {StatusMoving, StatusNotMoving},
	StatusMoving:       {StatusNotMoving},
	StatusNotMoving:    {StatusDemandQueue, StatusMoving},
	StatusDemandQueue:  {StatusFirstDemand},
	StatusFirstDemand:  {StatusSecondDemand},
	StatusSecondDemand: {StatusSmallClaims},
	StatusSmallClaims:  {StatusWriteOff, StatusMoving},
	StatusWriteOff:     {},
}

// NextStates returns the statuses reachable in one step from current.
// The result is never nil and callers may modify it freely.
func NextStates(current Status) []Status {
	next := transitions[current]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether to is in NextStates(from)
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns ErrInvalidTransition when to is not reachable from from
func ValidateTransition(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(to))
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// TransitionPolicy decides whether the record store enforces the transition table
type TransitionPolicy int

const (
	// PolicyPermissive accepts any valid status regardless of the current one
	PolicyPermissive TransitionPolicy = iota
	// PolicyStrict only accepts statuses listed in NextStates(current)
	PolicyStrict
)

// Check applies the policy to a requested move
func (p TransitionPolicy) Check(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(to))
	}
	if p == PolicyStrict {
		return ValidateTransition(from, to)
	}
	return nil
}

func (p TransitionPolicy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "permissive"
}
