package payments

import (
	"fmt"
	"math/big"
	"strings"

	walletsdk "github.com/coinbase/wallet-sdk/go"
)

// ValidateStringAmount checks a user-supplied decimal amount: it must be a
// string holding a number strictly greater than zero with at most
// maxDecimals fractional digits. The argument is typed as interface{}
// because callers hand through untyped option values.
func ValidateStringAmount(amount interface{}, maxDecimals int) error {
	str, ok := amount.(string)
	if !ok {
		return fmt.Errorf("invalid amount: must be a string")
	}

	str = strings.TrimSpace(str)
	value, ok := new(big.Float).SetString(str)
	if !ok {
		return fmt.Errorf("invalid amount: must be a valid number")
	}
	if value.Sign() <= 0 {
		return fmt.Errorf("invalid amount: must be greater than 0")
	}

	if dot := strings.Index(str, "."); dot >= 0 {
		if len(str)-dot-1 > maxDecimals {
			return fmt.Errorf("invalid amount: must have up to %d decimal places", maxDecimals)
		}
	}
	return nil
}

// ValidateAddress checks the payment recipient and returns its checksummed
// form.
func ValidateAddress(address string) (string, error) {
	if !walletsdk.IsValidAddress(address) {
		return "", fmt.Errorf("invalid recipient address: %s", address)
	}
	return walletsdk.ChecksumAddress(address), nil
}

// ParseAmountToSmallestUnits converts a validated decimal string into raw
// token units at the given precision.
func ParseAmountToSmallestUnits(amount string, decimals int) (*big.Int, error) {
	whole, frac := amount, ""
	if dot := strings.Index(amount, "."); dot >= 0 {
		whole, frac = amount[:dot], amount[dot+1:]
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("amount has more than %d decimal places", decimals)
	}
	frac += strings.Repeat("0", decimals-len(frac))

	if whole == "" {
		whole = "0"
	}
	out, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", amount)
	}
	return out, nil
}

// FormatUnits renders raw token units as a decimal string at the given
// precision, trimming trailing zeros ("10.500000" units -> "10.5").
func FormatUnits(raw *big.Int, decimals int) string {
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(raw, divisor, new(big.Int))

	fracStr := strings.TrimRight(fmt.Sprintf("%0*d", decimals, frac), "0")
	if fracStr == "" {
		return whole.String()
	}
	return whole.String() + "." + fracStr
}
