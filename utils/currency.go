package utils

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR rounds to whole rupees and groups digits the Indian way
// (12,34,567). NaN and infinities format as "0".
func FormatINR(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "0"
	}

	d := decimal.NewFromFloat(amount).Round(0)
	negative := d.IsNegative()
	digits := d.Abs().String()

	grouped := groupIndian(digits)
	if negative {
		return "-" + grouped
	}
	return grouped
}

// FormatRupees prefixes FormatINR with the rupee sign
func FormatRupees(amount float64) string {
	return "₹ " + FormatINR(amount)
}

// FormatSignedRupees renders a transaction amount as "+ ₹ 1,000" or "- ₹ 1,000"
func FormatSignedRupees(amount float64, credit bool) string {
	if credit {
		return "+ " + FormatRupees(amount)
	}
	return "- " + FormatRupees(amount)
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	last3 := digits[len(digits)-3:]
	rest := digits[:len(digits)-3]

	var groups []string
	for len(rest) > 2 {
		groups = append([]string{rest[len(rest)-2:]}, groups...)
		rest = rest[:len(rest)-2]
	}
	if rest != "" {
		groups = append([]string{rest}, groups...)
	}

	return strings.Join(groups, ",") + "," + last3
}
