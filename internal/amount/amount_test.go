package amount

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		human    string
		decimals uint8
		want     uint64
	}{
		{"whole tokens nine decimals", "1000000", 9, 1_000_000_000_000_000},
		{"fractional", "12.5", 6, 12_500_000},
		{"zero decimals", "42", 0, 42},
		{"empty means zero", "", 9, 0},
		{"whitespace trimmed", " 3 ", 2, 300},
		{"max u64", "18446744073709551615", 0, 18446744073709551615},
		{"trailing zeros beyond precision", "1.500", 1, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBaseUnits(tt.human, tt.decimals)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToBaseUnits_Errors(t *testing.T) {
	_, err := ToBaseUnits("-1", 9)
	assert.ErrorIs(t, err, ErrNegative)

	_, err = ToBaseUnits("0.0000000001", 9)
	assert.ErrorIs(t, err, ErrTooPrecise)

	_, err = ToBaseUnits("18446744073709551616", 0)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = ToBaseUnits("100000000000", 9)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = ToBaseUnits("abc", 9)
	assert.Error(t, err)
}

func TestParseBaseUnits(t *testing.T) {
	got, err := ParseBaseUnits("500")
	require.NoError(t, err)
	assert.Equal(t, uint64(500), got)

	got, err = ParseBaseUnits("")
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = ParseBaseUnits("1.5")
	assert.Error(t, err)

	_, err = ParseBaseUnits("-5")
	assert.ErrorIs(t, err, ErrNegative)

	got, err = ParseBaseUnits(" 0042 ")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got)

	got, err = ParseBaseUnits("18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got)

	_, err = ParseBaseUnits("18446744073709551616")
	assert.ErrorIs(t, err, ErrOverflow)

	for _, raw := range []string{"1e3", "1E3", "+5", "0x10", "1_000", "1.0"} {
		_, err = ParseBaseUnits(raw)
		assert.Error(t, err, raw)
	}
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "1.5", FormatUnits(1_500_000_000, 9))
	assert.Equal(t, "0", FormatUnits(0, 9))
	assert.Equal(t, "42", FormatUnits(42, 0))
	assert.Equal(t, "0.000001", FormatUnits(1, 6))
}

func TestSOL(t *testing.T) {
	assert.Equal(t, "2.5", FormatSOL(2_500_000_000))
	assert.Equal(t, uint64(LamportsPerSOL), uint64(1_000_000_000))
}
