package evaluate

import (
	"errors"
	"fmt"
)

// ErrInvalidPrice is matched by every *InvalidPriceError.
var ErrInvalidPrice = errors.New("invalid price")

// InvalidPriceError reports a price that is zero, negative, NaN or infinite.
type InvalidPriceError struct {
	Field string
	Value float64
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid %s %v: must be a positive finite number", e.Field, e.Value)
}

func (e *InvalidPriceError) Is(target error) bool {
	return target == ErrInvalidPrice
}
