package eth

import (
	"errors"
	"math/big"
	"strings"
)

// EtherDecimals is the number of fraction digits in one ether.
const EtherDecimals = 18

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrTooPrecise     = errors.New("amount has too many decimal places")
)

// ParseEther converts a decimal ETH string into wei.
func ParseEther(s string) (*big.Int, error) {
	return ParseUnits(s, EtherDecimals)
}

// ParseUnits converts a decimal string into an integer scaled by
// 10^decimals. Trailing fraction zeros beyond decimals are accepted.
func ParseUnits(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "-") {
		return nil, ErrNegativeAmount
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return nil, ErrInvalidAmount
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, ErrInvalidAmount
	}

	frac = strings.TrimRight(frac, "0")
	if len(frac) > decimals {
		return nil, ErrTooPrecise
	}
	frac += strings.Repeat("0", decimals-len(frac))

	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, ErrInvalidAmount
	}
	return v, nil
}

// FormatEther renders wei as a decimal ETH string without trailing zeros.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	sign := ""
	v := new(big.Int).Set(wei)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(EtherDecimals), nil)
	whole, rem := new(big.Int).QuoRem(v, unit, new(big.Int))
	if rem.Sign() == 0 {
		return sign + whole.String()
	}
	frac := rem.String()
	frac = strings.Repeat("0", EtherDecimals-len(frac)) + frac
	return sign + whole.String() + "." + strings.TrimRight(frac, "0")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
