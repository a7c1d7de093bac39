package utxo

import (
	"fmt"

	"github.com/kislikjeka/utxoscan/pkg/money"
)

// Sums holds per-address totals of a UTXO list
type Sums struct {
	Native map[string]string            // address → native amount
	Tokens map[string]map[string]string // address → token id → amount
}

// NativeOf returns the native sum for an address ("0" if absent)
func (s Sums) NativeOf(address string) string {
	if v, ok := s.Native[address]; ok {
		return v
	}
	return money.Zero
}

// TokensOf returns the token sums for an address (nil if absent)
func (s Sums) TokensOf(address string) map[string]string {
	return s.Tokens[address]
}

// Aggregate sums native and token amounts of utxos grouped by address.
// Records without an address are skipped, as are missing amount fields:
// reward transactions legitimately carry such entries.
func Aggregate(utxos []UTXO) (Sums, error) {
	sums := Sums{
		Native: make(map[string]string),
		Tokens: make(map[string]map[string]string),
	}

	for _, u := range utxos {
		if !u.HasAddress() {
			continue
		}

		if u.NativeAmount != "" {
			total, err := addQuantity(sums.NativeOf(u.Address), u.NativeAmount)
			if err != nil {
				return Sums{}, fmt.Errorf("native amount of %s: %w", u.Address, err)
			}
			sums.Native[u.Address] = total
		}

		for _, token := range u.Tokens {
			if token.ID == "" || token.Amount == "" {
				continue
			}
			byToken, ok := sums.Tokens[u.Address]
			if !ok {
				byToken = make(map[string]string)
				sums.Tokens[u.Address] = byToken
			}
			current, ok := byToken[token.ID]
			if !ok {
				current = money.Zero
			}
			total, err := addQuantity(current, token.Amount)
			if err != nil {
				return Sums{}, fmt.Errorf("token %s amount of %s: %w", token.ID, u.Address, err)
			}
			byToken[token.ID] = total
		}
	}

	return sums, nil
}

// addQuantity adds an output quantity to a running total. Outputs are
// never negative; a signed value would flip the direction of a delta.
func addQuantity(total, quantity string) (string, error) {
	if _, err := money.ParseAmount(quantity); err != nil {
		return "", err
	}
	return money.Add(total, quantity)
}

// AggregateFor is Aggregate restricted to a single address
func AggregateFor(utxos []UTXO, address string) (native string, tokens map[string]string, err error) {
	filtered := make([]UTXO, 0, len(utxos))
	for _, u := range utxos {
		if u.Address == address {
			filtered = append(filtered, u)
		}
	}

	sums, err := Aggregate(filtered)
	if err != nil {
		return "", nil, err
	}
	return sums.NativeOf(address), sums.TokensOf(address), nil
}
