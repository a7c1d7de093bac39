package money

import (
	"math/big"
	"strings"
)

// FromBaseUnits renders a base-unit amount string as a human-readable decimal.
// E.g., "150000000" with 8 decimals → "1.5", "-1" with 2 decimals → "-0.01"
func FromBaseUnits(amount string, decimals int) (string, error) {
	v, err := Parse(amount)
	if err != nil {
		return "", err
	}

	negative := v.Sign() < 0
	str := new(big.Int).Abs(v).String()
	if decimals <= 0 {
		return withSign(str, negative), nil
	}

	// Pad with leading zeros if necessary
	if len(str) <= decimals {
		str = strings.Repeat("0", decimals-len(str)+1) + str
	}

	// Insert decimal point
	pos := len(str) - decimals
	result := str[:pos] + "." + str[pos:]

	// Trim trailing zeros after decimal point
	result = strings.TrimRight(result, "0")
	result = strings.TrimRight(result, ".")

	if result == "" || result == "0" {
		return Zero, nil
	}

	return withSign(result, negative), nil
}

func withSign(s string, negative bool) string {
	if negative {
		return "-" + s
	}
	return s
}
