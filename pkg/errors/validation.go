package errors

import (
	"math"
	"unicode"
)

// maxIDLength bounds node identifiers accepted from files and HTTP bodies.
const maxIDLength = 256

// ValidateNodeID validates a node identifier taken from user input.
//
// Rules:
//   - No empty identifiers
//   - Maximum length of 256 bytes
//   - No control characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id %q contains control characters", id)
		}
	}
	return nil
}

// ValidateFinite rejects NaN and infinities for the named value.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParameters, "%s must be finite, got %v", name, v)
	}
	return nil
}

// ValidatePositive rejects values that are not finite and strictly positive.
func ValidatePositive(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidParameters, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateRange rejects values outside [lo, hi].
func ValidateRange(name string, v, lo, hi float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < lo || v > hi {
		return New(ErrCodeInvalidParameters, "%s must be within [%v, %v], got %v", name, lo, hi, v)
	}
	return nil
}
