package utxo

import "errors"

// Transaction shape errors
var (
	ErrMissingHash = errors.New("transaction hash is required")
	ErrNoOutputs   = errors.New("confirmed transaction has no outputs")
	ErrNoInputs    = errors.New("non-reward transaction has no inputs")
)

// ErrInvalidAddress is returned for strings that cannot be an address
var ErrInvalidAddress = errors.New("invalid address")
