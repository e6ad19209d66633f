package errors

import "fmt"

// InsufficientCreditsError is returned when a user doesn't have enough
// credits for a generation
type InsufficientCreditsError struct {
	Requested int
	Available int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: requested %d, available %d", e.Requested, e.Available)
}

// NewInsufficientCreditsError creates a new InsufficientCreditsError
func NewInsufficientCreditsError(requested, available int) *InsufficientCreditsError {
	return &InsufficientCreditsError{
		Requested: requested,
		Available: available,
	}
}
