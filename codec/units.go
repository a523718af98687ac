package codec

import (
	"fmt"
	"math/big"
	"strings"
)

const EtherDecimals = 18

// ParseUnits converts a decimal string like "1.5" into an integer amount with the given
// number of decimals. It rejects negative amounts and more fractional digits than decimals.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	frac = strings.TrimRight(frac, "0")
	if len(frac) > decimals {
		return nil, fmt.Errorf("amount %q has more than %d decimals", amount, decimals)
	}
	if strings.ContainsAny(whole+frac, "+-") {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}

	digits := whole + frac + strings.Repeat("0", decimals-len(frac))
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	return n, nil
}

func ParseEther(amount string) (*big.Int, error) {
	return ParseUnits(amount, EtherDecimals)
}

// FormatUnits is the inverse of ParseUnits. Trailing fractional zeros are dropped, so
// 10000000 with 6 decimals formats as "10".
func FormatUnits(value *big.Int, decimals int) string {
	if value == nil {
		return "0"
	}

	sign := ""
	abs := new(big.Int).Set(value)
	if abs.Sign() < 0 {
		sign = "-"
		abs.Neg(abs)
	}

	digits := abs.String()
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}

	whole := digits[:len(digits)-decimals]
	frac := strings.TrimRight(digits[len(digits)-decimals:], "0")
	if frac == "" {
		return sign + whole
	}
	return sign + whole + "." + frac
}

func FormatEther(value *big.Int) string {
	return FormatUnits(value, EtherDecimals)
}
