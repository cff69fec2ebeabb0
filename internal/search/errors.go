package search

import (
	"errors"
	"fmt"

	"github.com/discochess/magics/internal/geometry"
)

// ErrExhausted indicates no magic was found within the attempt budget.
var ErrExhausted = errors.New("search: attempt budget exhausted")

// ExhaustedError reports the square whose search ran out of attempts.
type ExhaustedError struct {
	Pattern  geometry.Pattern
	Square   geometry.Square
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("search: no %s magic for %s after %d attempts", e.Pattern, e.Square, e.Attempts)
}

// Unwrap lets errors.Is match ErrExhausted.
func (e *ExhaustedError) Unwrap() error {
	return ErrExhausted
}
