package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a material, clothing type or order is missing.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock is returned when a stock adjustment would go below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrUnknownClothingType is matched by every UnknownClothingTypeError.
	ErrUnknownClothingType = errors.New("unknown clothing type")
	// ErrInvalidQuantity is returned for non-positive production quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidInput marks a request that fails validation, e.g. an unknown
	// order status.
	ErrInvalidInput = errors.New("invalid input")
)

// UnknownClothingTypeError names the clothing type that has no specification.
type UnknownClothingTypeError struct {
	Type string
}

func (e *UnknownClothingTypeError) Error() string {
	return fmt.Sprintf("unknown clothing type %q", e.Type)
}

// Is makes errors.Is(err, ErrUnknownClothingType) hold.
func (e *UnknownClothingTypeError) Is(target error) bool {
	return target == ErrUnknownClothingType
}
