package utxo

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// minAddressBytes is a type byte plus a 32-byte hash
const minAddressBytes = 33

// ValidateAddress checks that addr is base58 and long enough to hold a
// lockup script. A ":group" suffix is accepted and ignored.
func ValidateAddress(addr string) error {
	body, _, _ := strings.Cut(addr, ":")
	if body == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	if raw := base58.Decode(body); len(raw) < minAddressBytes {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	return nil
}

// Involves reports whether address appears in any input or output of tx
func (t Transaction) Involves(address string) bool {
	for _, group := range [][]UTXO{t.Inputs, t.Outputs} {
		for _, u := range group {
			if u.Address == address {
				return true
			}
		}
	}
	return false
}
