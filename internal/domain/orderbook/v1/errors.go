package orderbookv1

import "errors"

// Parse errors returned when converting the external (string-encoded) book
// representation into native form. Each malformed field maps to exactly one
// of these kinds and aborts the whole conversion.
var (
	ErrInvalidHexadecimal = errors.New("invalid hexadecimal")
	ErrInvalidSide        = errors.New("invalid side")
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
	ErrIntegerBounds      = errors.New("integer out of bounds")
	ErrInvalidDecimal     = errors.New("invalid decimal")
	ErrInvalidAddress     = errors.New("invalid address")
)

// Book-level errors.
var (
	ErrNilOrder      = errors.New("order cannot be nil")
	ErrOrderNotFound = errors.New("order not found")
	ErrNotOwner      = errors.New("requester does not own order")
)
