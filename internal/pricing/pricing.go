// Package pricing computes the amount a requester actually pays: 80% of the
// nominal game price, floored to whole units of the local currency, with
// EUR-marked prices converted via the current exchange rate.
package pricing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ResellerShare is the fraction of the nominal price the requester pays.
const ResellerShare = 0.80

var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// Quote is the result of the payment computation for one order.
type Quote struct {
	// Nominal is the numeric price extracted from the raw string, in its
	// original currency.
	Nominal float64
	// Local is the price expressed in the local currency.
	Local float64
	// Amount is floor(Local × ResellerShare), in whole local currency units.
	Amount int64
	// Converted reports whether an EUR→local conversion was applied.
	Converted bool
	// Rate is the exchange rate used when Converted is true.
	Rate float64
	// Display shows the original price and, if converted, the approximate
	// local equivalent.
	Display string
}

// ExtractAmount pulls the first decimal-number substring out of a raw price
// string, normalizing a comma decimal separator. A string with no numeric
// content yields 0.
func ExtractAmount(rawPrice string) float64 {
	match := numberPattern.FindString(rawPrice)
	if match == "" {
		return 0
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", "."), 64)
	if err != nil {
		return 0
	}

	return value
}

// HasEURMarker reports whether the raw price declares EUR, via the € symbol
// or the token "eur" in any casing. Anything else is assumed to already be
// in the local currency.
func HasEURMarker(rawPrice string) bool {
	lowered := strings.ToLower(rawPrice)
	return strings.Contains(lowered, "€") || strings.Contains(lowered, "eur")
}

// Compute produces the payment quote for a raw price string. rate is the
// current EUR→local multiplier and currency the local currency code used in
// the display string. The computation is pure; the only rounding applied is
// the final floor toward zero.
func Compute(rawPrice string, rate float64, currency string) Quote {
	q := Quote{
		Nominal: ExtractAmount(rawPrice),
		Display: rawPrice,
	}

	q.Local = q.Nominal
	if HasEURMarker(rawPrice) {
		q.Converted = true
		q.Rate = rate
		q.Local = q.Nominal * rate
		q.Display = fmt.Sprintf("%s (≈%d %s)", rawPrice, int64(math.Floor(q.Local)), currency)
	}

	q.Amount = int64(math.Floor(q.Local * ResellerShare))

	return q
}
