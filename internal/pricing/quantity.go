package pricing

import (
	"math"
	"regexp"
	"strconv"
)

var digitRunPattern = regexp.MustCompile(`[0-9]+`)

// ExtractQuantity returns the first run of decimal digits in s as an integer.
// Strings without digits yield 0. Only the first run counts, so
// "between 100 and 200 units" is 100.
func ExtractQuantity(s string) int64 {
	run := digitRunPattern.FindString(s)
	if run == "" {
		return 0
	}

	qty, err := strconv.ParseInt(run, 10, 64)
	if err != nil {
		// Out of int64 range is not a usable quantity
		return 0
	}
	return qty
}

// Subtotal prices quantity units at rate. Both factors must be strictly
// positive, otherwise the line prices at 0. A product too large for float64
// also prices at 0.
func Subtotal(quantity int64, rate float64) float64 {
	rate = sanitizeRate(rate)
	if quantity <= 0 || rate <= 0 {
		return 0
	}
	return finiteOrZero(float64(quantity) * rate)
}

// Total sums item subtotals in order. An overflowing sum is 0.
func Total(items []PricedItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Subtotal
	}
	return finiteOrZero(total)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// rateOf coerces an optional upstream rate into a usable non-negative number.
func rateOf(rate *float64) float64 {
	if rate == nil {
		return 0
	}
	return sanitizeRate(*rate)
}

func sanitizeRate(rate float64) float64 {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return 0
	}
	return rate
}
