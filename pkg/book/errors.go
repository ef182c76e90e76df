package book

import "errors"

// Errors returned when constructing orders. Book operations never
// return errors themselves; rejected operations produce empty results.
var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidOrderID  = errors.New("invalid order ID")
)
