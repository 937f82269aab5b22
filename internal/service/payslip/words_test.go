package payslip

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberToWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "Zero Only"},
		{"0.001", "Zero Only"},
		{"-0.004", "Zero Only"},
		{"-5", "Minus Five Only"},
		{"1500.50", "One Thousand Five Hundred and Fifty/100 Only"},
		{"53000", "Fifty Three Thousand Only"},
		{"0.75", "Zero and Seventy Five/100 Only"},
		{"19", "Nineteen Only"},
		{"105", "One Hundred Five Only"},
		{"1000000", "One Million Only"},
		{"1000001", "One Million One Only"},
		{"2010300", "Two Million Ten Thousand Three Hundred Only"},
		{"54250.5", "Fifty Four Thousand Two Hundred Fifty and Fifty/100 Only"},
		{"12.345", "Twelve and Thirty Five/100 Only"},
		{"-10000000", "Minus Ten Million Only"},
		{"1234567890123", "One Trillion Two Hundred Thirty Four Billion Five Hundred Sixty Seven Million Eight Hundred Ninety Thousand One Hundred Twenty Three Only"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NumberToWords(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestNumberToWords_Deterministic(t *testing.T) {
	n := decimal.RequireFromString("987654.32")
	assert.Equal(t, NumberToWords(n), NumberToWords(n))
}

func TestNumberToWords_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := []decimal.Decimal{
		decimal.RequireFromString("-10000000"),
		decimal.RequireFromString("10000000"),
		decimal.RequireFromString("-0.01"),
		decimal.RequireFromString("0.01"),
		decimal.RequireFromString("9999999.99"),
		decimal.RequireFromString("100"),
		decimal.RequireFromString("1000"),
		decimal.RequireFromString("-110.10"),
	}
	for i := 0; i < 5000; i++ {
		cents := rng.Int63n(2_000_000_001) - 1_000_000_000
		values = append(values, decimal.New(cents, -2))
	}

	for _, v := range values {
		words := NumberToWords(v)
		got, err := parseWords(words)
		require.NoError(t, err, words)
		assert.True(t, got.Equal(v.Round(2)), "%s parsed as %s from %q", v, got, words)
	}
}

// parseWords reads the amount back out of a NumberToWords phrase.
func parseWords(s string) (decimal.Decimal, error) {
	s = strings.TrimSuffix(s, " Only")
	negative := strings.HasPrefix(s, "Minus ")
	s = strings.TrimPrefix(s, "Minus ")

	wholePart, centsPart, hasCents := strings.Cut(s, " and ")
	whole, err := parseInteger(wholePart)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.NewFromInt(whole)
	if hasCents {
		cents, err := parseInteger(strings.TrimSuffix(centsPart, "/100"))
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(decimal.New(cents, -2))
	}
	if negative {
		total = total.Neg()
	}
	return total, nil
}

func parseInteger(s string) (int64, error) {
	values := map[string]int64{"Zero": 0}
	for i, w := range ones {
		if w != "" {
			values[w] = int64(i)
		}
	}
	for i, w := range tens {
		if w != "" {
			values[w] = int64(i * 10)
		}
	}
	scaleValues := map[string]int64{}
	mult := int64(1)
	for _, w := range scales {
		if w != "" {
			scaleValues[w] = mult
		}
		mult *= 1000
	}

	var total, current int64
	for _, word := range strings.Fields(s) {
		switch {
		case word == "Hundred":
			current *= 100
		case scaleValues[word] > 0:
			total += current * scaleValues[word]
			current = 0
		default:
			v, ok := values[word]
			if !ok {
				return 0, &unknownWordError{word}
			}
			current += v
		}
	}
	return total + current, nil
}

type unknownWordError struct{ word string }

func (e *unknownWordError) Error() string { return "unknown word " + e.word }
