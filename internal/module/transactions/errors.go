package transactions

import "errors"

var (
	// ErrNotInvolved is returned when a transaction does not touch the requested address
	ErrNotInvolved = errors.New("transaction does not involve address")
	// ErrInvalidPage is returned for page or limit values out of range
	ErrInvalidPage = errors.New("invalid page or limit")
)
