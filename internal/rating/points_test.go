package rating_test

import (
	"math"
	"testing"

	"github.com/mafclub/ledger/internal/rating"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePoints(t *testing.T) {
	testCases := []struct {
		name     string
		raw      any
		expected float64
	}{
		{"nil", nil, 0},
		{"clean float", 0.3, 0.3},
		{"negative float", -0.5, -0.5},
		{"float32", float32(2), 2},
		{"int", 2, 2},
		{"int64", int64(3), 3},
		{"NaN", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 0},
		{"negative infinity", math.Inf(-1), 0},
		{"numeric string", "0.4", 0.4},
		{"integer string", "2", 2},
		{"comma decimal", "0,4", 0.4},
		{"padded string", "  0.7  ", 0.7},
		{"negative string", "-0.3", -0.3},
		{"empty string", "", 0},
		{"whitespace only", "   ", 0},
		{"pure garbage", "abc", 0},
		{"annotated number", "0.5 best move", 0.5},
		{"corrupted concatenation", "00.500.900.202.00", 0.5},
		{"double comma keeps first token", "0,,4", 0},
		{"unsupported type", []string{"0.5"}, 0},
		{"bool", true, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, rating.NormalizePoints(tc.raw), 1e-9)
		})
	}
}

func TestNormalizePointsNeverPanics(t *testing.T) {
	// The column is free text in old data; whatever shows up must come out as
	// a finite number.
	inputs := []any{nil, "", "-", ".", "..", "-.-", "1.2.3.4", "1e309", map[string]any{}, struct{}{}}
	for _, in := range inputs {
		got := rating.NormalizePoints(in)
		assert.False(t, math.IsNaN(got), "input %v produced NaN", in)
		assert.False(t, math.IsInf(got, 0), "input %v produced Inf", in)
	}
}
