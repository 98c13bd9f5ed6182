package common

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/AlexZinkM/eth-wallet/internal/apperror"
)

// ETHDecimals is the number of decimals of one ether (wei).
const ETHDecimals = 18

// floatPrec is wide enough to hold any float64 times 10^18 exactly.
const floatPrec = 256

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(ETHDecimals), nil)

// WeiToEther converts wei to ether as a float64. Display only: the result
// carries 53 bits of mantissa, so it must not be used for accounting.
func WeiToEther(wei *big.Int) float64 {
	q := new(big.Float).SetPrec(floatPrec).SetInt(wei)
	q.Quo(q, new(big.Float).SetPrec(floatPrec).SetInt(weiPerEther))
	f, _ := q.Float64()
	return f
}

// EtherToWei converts a float64 ether amount to wei, rounding to the nearest wei.
//
// EtherToWei(WeiToEther(v)) == v holds for every v below 7812500000000000 wei
// (2^-7 ether). Under 2^-7 ether adjacent float64 values are at most 2^-60 ether
// (about 0.87 wei) apart, so rounding recovers the integer. From 2^-7 ether on
// the spacing is 2^-59 ether (about 1.73 wei) or wider, so some wei values have
// no float64 of their own and come back off by one or more
// (10^24+1 comes back as 10^24).
func EtherToWei(eth float64) (*big.Int, error) {
	if math.IsNaN(eth) || math.IsInf(eth, 0) {
		return nil, apperror.ErrInvalidAmount(errors.New("amount is not a finite number"))
	}
	if eth < 0 {
		return nil, apperror.ErrInvalidAmount(errors.New("amount is negative"))
	}

	f := new(big.Float).SetPrec(floatPrec).SetFloat64(eth)
	f.Mul(f, new(big.Float).SetPrec(floatPrec).SetInt(weiPerEther))
	f.Add(f, big.NewFloat(0.5))

	wei, _ := f.Int(nil)
	return wei, nil
}

// FormatWei converts wei to an ether string without precision loss
// Example: FormatWei(1500000000000000000) = "1.500000000000000000"
func FormatWei(wei *big.Int) string {
	return formatWithDecimals(wei, ETHDecimals)
}

// ParseEther converts an ether string to wei without precision loss.
// Digits beyond the 18th decimal are truncated.
func ParseEther(eth string) (*big.Int, error) {
	wei, err := parseWithDecimals(eth, ETHDecimals)
	if err != nil {
		return nil, apperror.ErrInvalidAmount(err)
	}
	return wei, nil
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(24981836, 9) = "0.024981836"
func formatWithDecimals(value *big.Int, decimals int) string {
	s := new(big.Int).Abs(value).String()

	// Pad with leading zeros if needed
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	pos := len(s) - decimals
	out := s[:pos] + "." + s[pos:]
	if value.Sign() < 0 {
		return "-" + out
	}
	return out
}

// parseWithDecimals converts decimal string to integer by removing decimal point
// Example: parseWithDecimals("0.024981836", 9) = 24981836
func parseWithDecimals(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty string")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid decimal format")
	}

	whole := parts[0]
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("invalid decimal format")
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, fmt.Errorf("invalid character in %q", s)
	}

	// Pad or truncate fractional part to exact decimals
	if len(frac) < decimals {
		frac += strings.Repeat("0", decimals-len(frac))
	} else if len(frac) > decimals {
		frac = frac[:decimals]
	}

	n, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
