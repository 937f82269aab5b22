package payslip

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ones = []string{
		"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen",
	}
	tens   = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
	scales = []string{"", "Thousand", "Million", "Billion", "Trillion", "Quadrillion"}
)

// maxWordsAmount is the first magnitude NumberToWords cannot spell.
var maxWordsAmount = decimal.New(1, 18)

// NumberToWords spells an amount the way it is printed on a payslip, e.g.
// 1500.50 becomes "One Thousand Five Hundred and Fifty/100 Only". The amount
// is rounded to two places first. Magnitudes of 10^18 and above are not
// supported.
func NumberToWords(n decimal.Decimal) string {
	n = n.Round(2)
	if n.IsZero() {
		return "Zero Only"
	}

	abs := n.Abs()
	whole := abs.Truncate(0)
	cents := abs.Sub(whole).Shift(2).IntPart()

	var b strings.Builder
	if n.IsNegative() {
		b.WriteString("Minus ")
	}
	if whole.IsZero() {
		b.WriteString("Zero")
	} else {
		b.WriteString(integerWords(whole.IntPart()))
	}
	if cents > 0 {
		b.WriteString(" and ")
		b.WriteString(belowThousand(int(cents)))
		b.WriteString("/100")
	}
	b.WriteString(" Only")
	return b.String()
}

func integerWords(n int64) string {
	var groups []string
	for scale := 0; n > 0; scale++ {
		chunk := int(n % 1000)
		n /= 1000
		if chunk == 0 {
			continue
		}
		words := belowThousand(chunk)
		if scales[scale] != "" {
			words += " " + scales[scale]
		}
		groups = append([]string{words}, groups...)
	}
	return strings.Join(groups, " ")
}

func belowThousand(n int) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, ones[n/100], "Hundred")
		n %= 100
	}
	switch {
	case n >= 20:
		parts = append(parts, tens[n/10])
		if n%10 > 0 {
			parts = append(parts, ones[n%10])
		}
	case n > 0:
		parts = append(parts, ones[n])
	}
	return strings.Join(parts, " ")
}
