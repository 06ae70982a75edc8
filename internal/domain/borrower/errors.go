package borrower

import "context"

// ErrNotFound indicates the referenced borrower id does not exist
type ErrNotFound struct {
	BorrowerID string
}

func (e ErrNotFound) Error() string {
	return "borrower not found: " + e.BorrowerID
}

// Is implements the errors.Is interface for ErrNotFound
func (e ErrNotFound) Is(target error) bool {
	t, ok := target.(ErrNotFound)
	if !ok {
		return false
	}
	// An empty target id matches any ErrNotFound
	if t.BorrowerID == "" {
		return true
	}
	return e.BorrowerID == t.BorrowerID
}

// ErrDuplicateBorrower indicates an import reused an existing borrower id
type ErrDuplicateBorrower struct {
	BorrowerID string
}

func (e ErrDuplicateBorrower) Error() string {
	return "borrower already exists: " + e.BorrowerID
}

// Is implements the errors.Is interface for ErrDuplicateBorrower
func (e ErrDuplicateBorrower) Is(target error) bool {
	t, ok := target.(ErrDuplicateBorrower)
	if !ok {
		return false
	}
	if t.BorrowerID == "" {
		return true
	}
	return e.BorrowerID == t.BorrowerID
}

// Source loads borrower records produced by an external import process
type Source interface {
	LoadAll(ctx context.Context) ([]Borrower, error)
}
