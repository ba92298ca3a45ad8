package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const sgdSymbol = "S$"

// amounts below this are grouped by the locale printer; larger ones do not
// fit an int64 and are grouped on their digit string
var maxPrinted = decimal.New(1, 18)

// FormatSGD formats a value as Singapore dollars rounded to whole dollars,
// with grouped thousands: 310000 -> "S$310,000".
func FormatSGD(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return sgdSymbol + "0"
	}
	d := decimal.NewFromFloat(value).Round(0)
	if d.IsNegative() {
		return "-" + sgdSymbol + groupDigits(d.Neg())
	}
	return sgdSymbol + groupDigits(d)
}

// FormatSGDCents formats a value as Singapore dollars with two decimals:
// 2371.0647 -> "S$2,371.06".
func FormatSGDCents(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return sgdSymbol + "0.00"
	}
	d := decimal.NewFromFloat(value).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()
	return fmt.Sprintf("%s%s%s.%02d", sign, sgdSymbol, groupDigits(whole), cents)
}

// RoundCents rounds a monetary amount half away from zero to two decimals.
// NaN and infinities are returned unchanged.
func RoundCents(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// groupDigits renders a non-negative whole amount with thousands separators
func groupDigits(d decimal.Decimal) string {
	if d.LessThan(maxPrinted) {
		return message.NewPrinter(language.English).Sprintf("%d", d.IntPart())
	}
	digits := d.StringFixed(0)
	var b strings.Builder
	for i, ch := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	return b.String()
}
