package validation

import (
	"errors"
	"math"
)

// ValidateAmount accepts finite money amounts greater than zero.
func ValidateAmount(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New("amount must be a number")
	}
	if v <= 0 {
		return errors.New("amount must be greater than zero")
	}
	return nil
}
