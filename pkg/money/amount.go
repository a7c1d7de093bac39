// Package money implements exact arithmetic over on-chain amounts.
//
// Amounts are signed integers in the smallest unit of an asset, carried as
// decimal strings ("1000000000000000000" is one coin with 18 decimals). They
// routinely exceed the int64 range, so every operation goes through math/big.
package money

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidAmountFormat is returned when a string is not a decimal integer
var ErrInvalidAmountFormat = errors.New("invalid amount format")

// Zero is the canonical zero amount
const Zero = "0"

// Parse converts a decimal integer string into a big.Int.
// Accepts an optional leading '-' followed by one or more ASCII digits.
func Parse(s string) (*big.Int, error) {
	if !isDecimal(s) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmountFormat, s)
	}

	result := new(big.Int)
	if _, ok := result.SetString(s, 10); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmountFormat, s)
	}
	return result, nil
}

// ParseAmount is Parse restricted to unsigned quantities such as UTXO
// outputs. A leading '-' is rejected with ErrInvalidAmountFormat.
func ParseAmount(s string) (*big.Int, error) {
	if len(s) > 0 && s[0] == '-' {
		return nil, fmt.Errorf("%w: negative quantity %q", ErrInvalidAmountFormat, s)
	}
	return Parse(s)
}

// Format returns the canonical string form of v ("0" for nil)
func Format(v *big.Int) string {
	if v == nil {
		return Zero
	}
	return v.String()
}

// Add returns a + b
func Add(a, b string) (string, error) {
	x, y, err := parsePair(a, b)
	if err != nil {
		return "", err
	}
	return x.Add(x, y).String(), nil
}

// Sub returns a - b
func Sub(a, b string) (string, error) {
	x, y, err := parsePair(a, b)
	if err != nil {
		return "", err
	}
	return x.Sub(x, y).String(), nil
}

// Negate returns -a
func Negate(a string) (string, error) {
	x, err := Parse(a)
	if err != nil {
		return "", err
	}
	return x.Neg(x).String(), nil
}

// Sign returns -1, 0 or +1 depending on the sign of a
func Sign(a string) (int, error) {
	x, err := Parse(a)
	if err != nil {
		return 0, err
	}
	return x.Sign(), nil
}

// IsNegative reports whether a < 0
func IsNegative(a string) (bool, error) {
	sign, err := Sign(a)
	if err != nil {
		return false, err
	}
	return sign < 0, nil
}

// IsZero reports whether a == 0
func IsZero(a string) (bool, error) {
	sign, err := Sign(a)
	if err != nil {
		return false, err
	}
	return sign == 0, nil
}

// Cmp compares a and b and returns -1, 0 or +1
func Cmp(a, b string) (int, error) {
	x, y, err := parsePair(a, b)
	if err != nil {
		return 0, err
	}
	return x.Cmp(y), nil
}

// Sum adds all amounts. An empty list sums to "0".
func Sum(amounts ...string) (string, error) {
	total := new(big.Int)
	for _, a := range amounts {
		x, err := Parse(a)
		if err != nil {
			return "", err
		}
		total.Add(total, x)
	}
	return total.String(), nil
}

func parsePair(a, b string) (*big.Int, *big.Int, error) {
	x, err := Parse(a)
	if err != nil {
		return nil, nil, err
	}
	y, err := Parse(b)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// isDecimal checks the -?[0-9]+ grammar. big.Int.SetString alone would also
// accept a leading '+'.
func isDecimal(s string) bool {
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
