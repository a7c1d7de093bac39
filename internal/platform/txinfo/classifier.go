package txinfo

import (
	"fmt"

	"github.com/kislikjeka/utxoscan/internal/platform/utxo"
	"github.com/kislikjeka/utxoscan/pkg/money"
)

// ConsolidationFunc decides whether tx only moves funds between addresses
// controlled by the same key
type ConsolidationFunc func(tx utxo.Transaction) bool

// ContractFunc decides whether tx was executed inside a contract
type ContractFunc func(tx utxo.Transaction) bool

// Option configures a Classifier
type Option func(*Classifier)

// WithConsolidation overrides the default consolidation predicate
func WithConsolidation(fn ConsolidationFunc) Option {
	return func(c *Classifier) {
		if fn != nil {
			c.isConsolidation = fn
		}
	}
}

// WithContract overrides the default in-contract predicate
func WithContract(fn ContractFunc) Option {
	return func(c *Classifier) {
		if fn != nil {
			c.isInContract = fn
		}
	}
}

// Classifier assigns a direction and info type to a transaction relative to
// one address. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	isConsolidation ConsolidationFunc
	isInContract    ContractFunc
}

// NewClassifier creates a new Classifier
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		isConsolidation: utxo.IsConsolidation,
		isInContract:    utxo.HasContractInput,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify evaluates, in order: pending, consolidation, swap, then the sign
// of the delta. Flags never influence direction or info type.
func (c *Classifier) Classify(tx utxo.Transaction, delta utxo.Delta) (Classification, error) {
	result := Classification{
		IsFailedScript: tx.IsFailedScript(),
		IsInContract:   c.isInContract(tx),
	}

	if tx.IsPending() {
		dir, err := signDirection(delta)
		if err != nil {
			return Classification{}, err
		}
		result.Direction = dir
		result.InfoType = InfoTypePending
		return result, nil
	}

	if c.isConsolidation(tx) {
		result.Direction = DirectionOut
		result.InfoType = InfoTypeMove
		return result, nil
	}

	swap, err := IsSwap(delta)
	if err != nil {
		return Classification{}, err
	}
	if swap {
		result.Direction = DirectionSwap
		result.InfoType = InfoTypeSwap
		return result, nil
	}

	dir, err := signDirection(delta)
	if err != nil {
		return Classification{}, err
	}
	result.Direction = dir
	result.InfoType = InfoType(dir)
	return result, nil
}

// IsSwap reports whether the address both gave and received value where at
// least one side is a token.
func IsSwap(delta utxo.Delta) (bool, error) {
	nativeSign := 0
	if delta.Native != "" {
		s, err := money.Sign(delta.Native)
		if err != nil {
			return false, fmt.Errorf("native delta: %w", err)
		}
		nativeSign = s
	}

	tokenIn, tokenOut, err := tokenSides(delta)
	if err != nil {
		return false, err
	}

	switch {
	case tokenIn && tokenOut:
		return true, nil
	case nativeSign > 0 && tokenOut:
		return true, nil
	case nativeSign < 0 && tokenIn:
		return true, nil
	}
	return false, nil
}

// signDirection uses the native sign, falling back to the token sign when
// the native delta is zero. An all-zero delta counts as incoming.
func signDirection(delta utxo.Delta) (Direction, error) {
	if delta.Native != "" {
		s, err := money.Sign(delta.Native)
		if err != nil {
			return "", fmt.Errorf("native delta: %w", err)
		}
		if s < 0 {
			return DirectionOut, nil
		}
		if s > 0 {
			return DirectionIn, nil
		}
	}

	tokenIn, tokenOut, err := tokenSides(delta)
	if err != nil {
		return "", err
	}
	if tokenOut && !tokenIn {
		return DirectionOut, nil
	}
	return DirectionIn, nil
}

func tokenSides(delta utxo.Delta) (in, out bool, err error) {
	for id, amount := range delta.Tokens {
		s, err := money.Sign(amount)
		if err != nil {
			return false, false, fmt.Errorf("token %s delta: %w", id, err)
		}
		if s > 0 {
			in = true
		} else if s < 0 {
			out = true
		}
	}
	return in, out, nil
}
