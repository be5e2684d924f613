package tax

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_CheckAccess(t *testing.T) {
	g, err := NewGate(Policy{Month: time.April})
	require.NoError(t, err)

	feb := g.CheckAccess(time.Date(2025, time.February, 14, 12, 0, 0, 0, time.UTC))
	assert.False(t, feb.Allowed)
	assert.NotEmpty(t, feb.Reason)

	apr := g.CheckAccess(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, apr.Allowed)
	assert.Empty(t, apr.Reason)

	// Repeated calls are independent of each other.
	assert.Equal(t, apr, g.CheckAccess(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)))
}

func TestGate_UsesPolicyLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)

	g, err := NewGate(Policy{Month: time.April, Location: loc})
	require.NoError(t, err)

	// 20:00 UTC on March 31 is already April 1 in IST.
	res := g.CheckAccess(time.Date(2025, time.March, 31, 20, 0, 0, 0, time.UTC))
	assert.True(t, res.Allowed)

	// 20:00 UTC on April 30 is May 1 in IST.
	res = g.CheckAccess(time.Date(2025, time.April, 30, 20, 0, 0, 0, time.UTC))
	assert.False(t, res.Allowed)
}

func TestGate_Authorize(t *testing.T) {
	g, err := NewGate(Policy{Month: time.September, DeniedMessage: "closed"})
	require.NoError(t, err)

	err = g.Authorize(time.Date(2025, time.October, 2, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, ErrVaultAccessDenied)
	assert.Contains(t, err.Error(), "closed")

	assert.NoError(t, g.Authorize(time.Date(2025, time.September, 2, 0, 0, 0, 0, time.UTC)))
}

func TestNewGate_InvalidMonth(t *testing.T) {
	_, err := NewGate(Policy{Month: 13})
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = NewGate(Policy{})
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestParseMonth(t *testing.T) {
	cases := map[string]time.Month{
		"4":      time.April,
		"april":  time.April,
		"Apr":    time.April,
		" 12 ":   time.December,
		"JANUARY": time.January,
	}
	for raw, want := range cases {
		got, err := ParseMonth(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"0", "13", "Smarch", ""} {
		_, err := ParseMonth(raw)
		assert.ErrorIs(t, err, ErrInvalidMonth, raw)
	}
}
