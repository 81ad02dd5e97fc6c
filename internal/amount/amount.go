// Package amount converts between human-readable token amounts and the
// integer base units stored on chain.
package amount

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

// SOLDecimals is the decimal precision of native SOL.
const SOLDecimals = 9

var (
	// ErrNegative is returned for amounts below zero.
	ErrNegative = errors.New("amount must not be negative")

	// ErrTooPrecise is returned when an amount has more fractional digits
	// than the mint's decimals allow.
	ErrTooPrecise = errors.New("amount has more fractional digits than mint decimals")

	// ErrOverflow is returned when an amount does not fit in a u64.
	ErrOverflow = errors.New("amount exceeds u64 range")
)

var maxU64 = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// ToBaseUnits converts a human amount such as "1000000" or "12.5" into base
// units for a mint with the given decimals. The conversion is exact.
func ToBaseUnits(human string, decimals uint8) (uint64, error) {
	human = strings.TrimSpace(human)
	if human == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(human)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", human, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%q: %w", human, ErrNegative)
	}

	scaled := d.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%q with %d decimals: %w", human, decimals, ErrTooPrecise)
	}
	if scaled.GreaterThan(maxU64) {
		return 0, fmt.Errorf("%q with %d decimals: %w", human, decimals, ErrOverflow)
	}

	return scaled.BigInt().Uint64(), nil
}

// ParseBaseUnits parses an integer base-unit amount such as BURN_AMOUNT.
// Only plain decimal digits are accepted; "1e3" and "1.0" are errors.
func ParseBaseUnits(raw string) (uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if strings.HasPrefix(raw, "-") {
		return 0, fmt.Errorf("%q: %w", raw, ErrNegative)
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("base units %q must be a whole number of digits", raw)
		}
	}

	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%q: %w", raw, ErrOverflow)
		}
		return 0, fmt.Errorf("parse base units %q: %w", raw, err)
	}
	return n, nil
}

// FormatUnits renders base units as a human amount with trailing zeros trimmed.
func FormatUnits(base uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(base), -int32(decimals)).String()
}

// FormatSOL renders lamports as SOL.
func FormatSOL(lamports uint64) string {
	return FormatUnits(lamports, SOLDecimals)
}
