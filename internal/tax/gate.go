package tax

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DefaultDeniedMessage = "Access denied. Tax vault funds are locked until tax season."

var (
	ErrVaultAccessDenied = errors.New("tax vault access denied")
	ErrInvalidMonth      = errors.New("invalid season month")
)

// Policy configures the vault release window: a single calendar month per
// year, evaluated in Location.
type Policy struct {
	Month         time.Month
	Location      *time.Location
	DeniedMessage string
}

// AccessResult is the gate decision.
type AccessResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Gate decides whether tax-vault funds may be released at a given instant.
type Gate struct {
	policy Policy
}

func NewGate(p Policy) (*Gate, error) {
	if p.Month < time.January || p.Month > time.December {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMonth, p.Month)
	}

	if p.Location == nil {
		p.Location = time.UTC
	}

	if p.DeniedMessage == "" {
		p.DeniedMessage = DefaultDeniedMessage
	}

	return &Gate{policy: p}, nil
}

// Policy returns the configured policy.
func (g *Gate) Policy() Policy {
	return g.policy
}

// CheckAccess reports whether now falls within the season month.
func (g *Gate) CheckAccess(now time.Time) AccessResult {
	if now.In(g.policy.Location).Month() == g.policy.Month {
		return AccessResult{Allowed: true}
	}

	return AccessResult{Allowed: false, Reason: g.policy.DeniedMessage}
}

// Authorize is CheckAccess in error form: nil when allowed, otherwise
// ErrVaultAccessDenied wrapped with the policy message.
func (g *Gate) Authorize(now time.Time) error {
	res := g.CheckAccess(now)
	if res.Allowed {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrVaultAccessDenied, res.Reason)
}

// ParseMonth accepts a month number (1-12) or an English month name.
func ParseMonth(raw string) (time.Month, error) {
	raw = strings.TrimSpace(raw)

	n, err := strconv.Atoi(raw)
	if err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidMonth, raw)
		}

		return time.Month(n), nil
	}

	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(raw, name) || strings.EqualFold(raw, name[:3]) {
			return m, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidMonth, raw)
}
