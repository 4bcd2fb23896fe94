package calculator

import (
	"errors"
	"fmt"
)

// ErrMixedCurrencies is returned by callers that refuse to aggregate bills
// whose currencies differ. The calculator itself never converts currencies.
var ErrMixedCurrencies = errors.New("bills use more than one currency")

// ValidationError is a user-correctable problem with split input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
