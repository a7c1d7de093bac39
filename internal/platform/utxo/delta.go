package utxo

import (
	"fmt"

	"github.com/kislikjeka/utxoscan/pkg/money"
)

// CalcDelta computes outputs minus inputs for address, for the native asset
// and every token present on either side. Tokens with a zero delta are dropped.
func CalcDelta(tx Transaction, address string) (Delta, error) {
	inNative, inTokens, err := AggregateFor(tx.Inputs, address)
	if err != nil {
		return Delta{}, fmt.Errorf("inputs of %s: %w", tx.Hash, err)
	}
	outNative, outTokens, err := AggregateFor(tx.Outputs, address)
	if err != nil {
		return Delta{}, fmt.Errorf("outputs of %s: %w", tx.Hash, err)
	}

	native, err := money.Sub(outNative, inNative)
	if err != nil {
		return Delta{}, err
	}

	tokens := make(map[string]string)
	for id, out := range outTokens {
		in, ok := inTokens[id]
		if !ok {
			in = money.Zero
		}
		if err := putNonZero(tokens, id, out, in); err != nil {
			return Delta{}, err
		}
	}
	for id, in := range inTokens {
		if _, seen := outTokens[id]; seen {
			continue
		}
		if err := putNonZero(tokens, id, money.Zero, in); err != nil {
			return Delta{}, err
		}
	}

	return Delta{Native: native, Tokens: tokens}, nil
}

func putNonZero(dst map[string]string, id, out, in string) error {
	d, err := money.Sub(out, in)
	if err != nil {
		return fmt.Errorf("token %s: %w", id, err)
	}
	zero, err := money.IsZero(d)
	if err != nil {
		return err
	}
	if !zero {
		dst[id] = d
	}
	return nil
}

// IsConsolidation reports whether every addressed input and output of tx
// belongs to one single address, i.e. funds are moved to where they came from.
func IsConsolidation(tx Transaction) bool {
	var only string
	seen := 0
	for _, group := range [][]UTXO{tx.Inputs, tx.Outputs} {
		found := false
		for _, u := range group {
			if !u.HasAddress() {
				continue
			}
			found = true
			if only == "" {
				only = u.Address
			} else if u.Address != only {
				return false
			}
		}
		if found {
			seen++
		}
	}
	return seen == 2
}

// HasContractInput reports whether any input is spent by a contract
func HasContractInput(tx Transaction) bool {
	for _, in := range tx.Inputs {
		if in.ContractInput {
			return true
		}
	}
	return false
}
