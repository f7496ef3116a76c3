package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks request problems the caller can fix.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoViableTerm is returned when every evaluated term is filtered out.
	ErrNoViableTerm = errors.New("no term satisfies the requested limits")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
