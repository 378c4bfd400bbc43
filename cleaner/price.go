package cleaner

import (
	"math"
	"strconv"
	"strings"
)

// Amount is the outcome of parsing a price string. When OK is false the
// text was not a number and Value is meaningless.
type Amount struct {
	Value float64
	OK    bool
}

// Unparsed is the zero sentinel returned for unusable price text.
var Unparsed = Amount{}

// Float returns the parsed value, or 0 for an unparsed amount.
func (a Amount) Float() float64 {
	if !a.OK {
		return 0
	}
	return a.Value
}

// ParsePrice strips surrounding whitespace and one leading currency symbol
// from text and parses the remainder as a decimal number. Thousands
// separators, NaN and infinities are not accepted.
func ParsePrice(text, symbol string) Amount {
	s := strings.TrimSpace(text)
	if symbol != "" {
		s = strings.TrimPrefix(s, symbol)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return Unparsed
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Unparsed
	}
	return Amount{Value: v, OK: true}
}

// ConvertPrice applies a multiplicative exchange rate. An unparsed amount
// yields zero for both the source and the converted price.
func ConvertPrice(a Amount, rate float64) (source, converted float64) {
	if !a.OK {
		return 0, 0
	}
	return a.Value, Round2(a.Value * rate)
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
