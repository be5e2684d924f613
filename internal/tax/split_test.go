package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitter_Split(t *testing.T) {
	s, err := NewSplitter(DefaultRate)
	require.NoError(t, err)

	tests := []struct {
		amount string
		tax    string
		net    string
	}{
		{"10000", "1500", "8500"},
		{"100", "15", "85"},
		{"0.01", "0.0015", "0.0085"},
		{"333.33", "49.9995", "283.3305"},
		{"99999.99", "14999.9985", "84999.9915"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)

			got, err := s.Split(amount)
			require.NoError(t, err)

			assert.True(t, got.Tax.Equal(decimal.RequireFromString(tt.tax)), "tax %s", got.Tax)
			assert.True(t, got.Net.Equal(decimal.RequireFromString(tt.net)), "net %s", got.Net)
			assert.True(t, got.Tax.Add(got.Net).Equal(amount))
			assert.True(t, got.Tax.Equal(amount.Mul(decimal.RequireFromString("0.15"))))
			assert.True(t, got.Net.Equal(amount.Mul(decimal.RequireFromString("0.85"))))
		})
	}
}

func TestSplitter_SumIsExactForManyAmounts(t *testing.T) {
	s, err := NewSplitter(DefaultRate)
	require.NoError(t, err)

	for cents := int64(1); cents <= 5000; cents += 7 {
		amount := decimal.New(cents, -2)

		got, err := s.Split(amount)
		require.NoError(t, err)
		require.True(t, got.Tax.Add(got.Net).Equal(amount), "amount %s", amount)
	}
}

func TestSplitter_RejectsNonPositive(t *testing.T) {
	s, err := NewSplitter(DefaultRate)
	require.NoError(t, err)

	for _, raw := range []string{"0", "-1", "-0.01"} {
		_, err := s.Split(decimal.RequireFromString(raw))
		assert.ErrorIs(t, err, ErrInvalidAmount, raw)
	}
}

func TestSplitter_RejectsTooManyDecimals(t *testing.T) {
	s, err := NewSplitter(DefaultRate)
	require.NoError(t, err)

	for _, raw := range []string{"0.001", "10.555", "100.0001"} {
		_, err := s.Split(decimal.RequireFromString(raw))
		assert.ErrorIs(t, err, ErrInvalidAmount, raw)
	}

	// Trailing zeros do not count.
	got, err := s.Split(decimal.RequireFromString("10.5000"))
	require.NoError(t, err)
	assert.True(t, got.Tax.Equal(decimal.RequireFromString("1.575")))
}

func TestSplitter_ProductFitsStorageScale(t *testing.T) {
	for _, rawRate := range []string{"0.15", "0.3", "0.99", "0.01"} {
		s, err := NewSplitter(decimal.RequireFromString(rawRate))
		require.NoError(t, err)

		for cents := int64(1); cents <= 2000; cents += 13 {
			amount := decimal.New(cents, -2)

			got, err := s.Split(amount)
			require.NoError(t, err)
			require.True(t, got.Tax.Equal(got.Tax.Truncate(4)), "rate %s amount %s", rawRate, amount)
			require.True(t, got.Tax.Truncate(4).Add(got.Net.Truncate(4)).Equal(amount), "rate %s amount %s", rawRate, amount)
		}
	}
}

func TestNewSplitter_InvalidRate(t *testing.T) {
	for _, raw := range []string{"0", "1", "1.5", "-0.1", "0.125", "0.001"} {
		_, err := NewSplitter(decimal.RequireFromString(raw))
		assert.ErrorIs(t, err, ErrInvalidRate, raw)
	}
}
