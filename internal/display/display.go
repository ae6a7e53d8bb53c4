// Package display derives UI-ready values from fetched odds records:
// grouping by market type, implied probabilities, and fixed-width
// price formatting. Everything here is pure and synchronous.
package display

import (
	"math"
	"strconv"

	"github.com/xavierdc9/sports-betting-analyzer/internal/oddsapi"
)

// NonNumeric is rendered in place of a value whose source text could
// not be parsed into a meaningful number. Malformed prices are an
// upstream data defect; the display layer degrades instead of failing.
const NonNumeric = "-"

// GroupByMarket partitions odds records by their market type,
// preserving the original relative order within each group.
func GroupByMarket(records []oddsapi.OddsRecord) map[string][]oddsapi.OddsRecord {
	groups := make(map[string][]oddsapi.OddsRecord)
	for _, r := range records {
		groups[r.MarketType] = append(groups[r.MarketType], r)
	}
	return groups
}

// FilterMarket returns the subset of records whose market type equals
// market, preserving original relative order. Head-to-head
// (oddsapi.MarketHeadToHead) is the default display filter.
func FilterMarket(records []oddsapi.OddsRecord, market string) []oddsapi.OddsRecord {
	filtered := make([]oddsapi.OddsRecord, 0, len(records))
	for _, r := range records {
		if r.MarketType == market {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// ImpliedProbability returns the probability percentage a decimal
// price implies at face value: 100 / price.
func ImpliedProbability(price float64) float64 {
	return 100 / price
}

// FormatImpliedProbability parses a decimal price and renders its
// implied probability to one decimal place (for price "2.00": "50.0").
// Rounding follows strconv.FormatFloat, i.e. round half to even.
// Unparseable, non-positive, NaN, or infinite prices render as
// NonNumeric rather than panicking.
func FormatImpliedProbability(priceText string) string {
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil || price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return NonNumeric
	}
	return strconv.FormatFloat(ImpliedProbability(price), 'f', 1, 64)
}

// FormatPrice renders a decimal price with two fixed decimals, or
// NonNumeric when the text does not parse to a finite number.
func FormatPrice(priceText string) string {
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return NonNumeric
	}
	return strconv.FormatFloat(price, 'f', 2, 64)
}

// FormatPolymarketPercent renders a prediction-market outcome price
// (a probability between 0 and 1) as a whole-number percentage, e.g.
// "0.28" becomes "28%". Out-of-range or unparseable prices render as
// NonNumeric.
func FormatPolymarketPercent(priceText string) string {
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 || price > 1 {
		return NonNumeric
	}
	return strconv.FormatFloat(math.Round(price*100), 'f', 0, 64) + "%"
}
