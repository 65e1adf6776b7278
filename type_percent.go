package fundpush

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

// String renders the percentage with two decimals and no explicit sign, e.g. "12.34%".
func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString renders the percentage with an explicit sign, e.g. "+12.34%".
func (p Percent) SignedString() string {
	return fmt.Sprintf("%+.2f%%", float64(p))
}

// ParsePercent parses a percentage text as produced by SignedString ("+12.34%", "-1.50%").
// The sign and the trailing '%' are optional. Sentinels like "N/A" are rejected.
func ParsePercent(s string) (Percent, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid percentage %q", s)
	}
	return Percent(v), nil
}
