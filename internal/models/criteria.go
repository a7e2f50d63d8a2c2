// internal/models/criteria.go
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Number is a numeric criteria field that accepts JSON integers, floats,
// and numeric strings (50000, 50000.0 and "50000" all decode to the same
// value).
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.TrimSpace(strings.Trim(s, `"`))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q: %w", s, err)
	}
	*n = Number(f)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Canonical()), nil
}

// Canonical returns the shortest decimal representation, so integral
// floats render without a trailing ".0".
func (n Number) Canonical() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (n Number) Float64() float64 {
	return float64(n)
}

// Criteria is the caller's filter/preference profile. It is semantically a
// set of filters: field order, numeric representation and incidental
// whitespace carry no meaning.
type Criteria struct {
	Type        *string  `json:"type,omitempty"`
	Budget      *Number  `json:"budget,omitempty"`
	Guests      *Number  `json:"guests,omitempty"`
	Theme       *string  `json:"theme,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}

// TypeValue returns the trimmed event type, or "" when absent.
func (c Criteria) TypeValue() string {
	if c.Type == nil {
		return ""
	}
	return strings.TrimSpace(*c.Type)
}

// BudgetValue returns the budget, or 0 when absent.
func (c Criteria) BudgetValue() float64 {
	if c.Budget == nil {
		return 0
	}
	return c.Budget.Float64()
}

// GuestCount returns the guest count, or 0 when absent.
func (c Criteria) GuestCount() int {
	if c.Guests == nil {
		return 0
	}
	return int(c.Guests.Float64())
}

// ThemeValue returns the trimmed theme string, or "" when absent.
func (c Criteria) ThemeValue() string {
	if c.Theme == nil {
		return ""
	}
	return strings.TrimSpace(*c.Theme)
}

// HasSemanticInput reports whether the criteria carry any free-text signal
// worth sending to the semantic scorer.
func (c Criteria) HasSemanticInput() bool {
	return c.ThemeValue() != "" || len(c.Preferences) > 0
}
