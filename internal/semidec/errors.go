package semidec

import (
	"errors"
	"fmt"
)

// Domain errors for model operations.
var (
	// ErrInvalidArgument indicates a step argument or constant outside its valid range.
	ErrInvalidArgument = errors.New("semidec: invalid argument")

	// ErrMissingConstant indicates a required constant is absent from a parameter file.
	ErrMissingConstant = errors.New("semidec: missing constant")

	// ErrUnknownCell indicates an input addressed to a cell id that does not exist.
	ErrUnknownCell = errors.New("semidec: unknown cell")
)

// Invalid wraps ErrInvalidArgument with a formatted reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// StepError wraps an error with the cell and step it occurred in.
type StepError struct {
	Cell    int
	Step    int
	Years   float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("cell %d step %d (t=%.4fy): %v", e.Cell, e.Step, e.Years, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
