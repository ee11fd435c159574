package rating

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalToken matches the first well-formed decimal number in a string:
// an optional minus, digits, and at most one fractional part.
var decimalToken = regexp.MustCompile(`-?[0-9]+(?:\.[0-9]+)?`)

// NormalizePoints converts a raw judge-entered extra-points value into a
// finite float64. The column has been free-text for years, so the input can be
// a clean number, a numeric string, a comma-decimal string, or a corrupted
// concatenation like "00.500.900.202.00". One bad field must never abort a
// recompute, so this is a total function: anything unsalvageable becomes 0.
func NormalizePoints(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case float32:
		return NormalizePoints(float64(v))
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return normalizeString(v)
	default:
		return 0
	}
}

func normalizeString(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}

	// The first well-formed decimal token wins; trailing garbage from
	// corrupted concatenations is discarded.
	if tok := decimalToken.FindString(s); tok != "" {
		if f, err := strconv.ParseFloat(tok, 64); err == nil && !math.IsInf(f, 0) {
			return f
		}
	}

	return salvage(s)
}

// salvage is the last-resort pass: keep digits, a leading minus and periods,
// collapse every period after the first one and try parsing again.
func salvage(s string) float64 {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if parts := strings.Split(cleaned, "."); len(parts) > 2 {
		cleaned = parts[0] + "." + strings.Join(parts[1:], "")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}
