package scoring

import (
	"math"

	"github.com/bobmcallan/fundagent/internal/models"
)

// trendWindow is the number of recent periods a trend or CAGR uses.
const trendWindow = 4

// GrowthTrendScore scores the consistency of growth over the last three
// year-over-year deltas of a series (revenue or net income). Requires at
// least four periods.
func GrowthTrendScore(series models.HistoricalSeries) (float64, string) {
	values := series.Recent(trendWindow)
	if len(values) < trendWindow {
		return 0.0, "insufficient history"
	}

	growthYears := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			growthYears++
		}
	}

	switch growthYears {
	case 3:
		return 0.15, "consistent growth over 3 years"
	case 2:
		return 0.10, "grew in 2 of the last 3 years"
	case 1:
		return 0.05, "grew in 1 of the last 3 years"
	default:
		return 0.0, "no growth"
	}
}

// DebtTrendScore scores a total-debt series with the inverted mapping:
// the fewer year-over-year increases, the better.
func DebtTrendScore(series models.HistoricalSeries) (float64, string) {
	values := series.Recent(trendWindow)
	if len(values) < trendWindow {
		return 0.0, "insufficient history"
	}

	increases := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			increases++
		}
	}

	switch increases {
	case 0:
		return 0.15, "debt flat or declining over 3 years"
	case 1:
		return 0.10, "debt rose in 1 of the last 3 years"
	case 2:
		return 0.05, "debt rose in 2 of the last 3 years"
	default:
		return 0.0, "debt rising 3 consecutive years"
	}
}

// CAGR computes the 3-period compound annual growth rate from the earliest
// and most recent of the last four periods. Returns false when the series is
// too short or the earliest value is not positive; an undefined CAGR is not
// an error.
func CAGR(series models.HistoricalSeries) (float64, bool) {
	values := series.Recent(trendWindow)
	if len(values) < trendWindow {
		return 0.0, false
	}

	start := values[0]
	end := values[len(values)-1]
	if start <= 0 {
		return 0.0, false
	}

	return math.Pow(end/start, 1.0/3.0) - 1, true
}

// DividendSustainability scores the consistency and growth of a dividend
// history. Requires at least four periods and uses up to the five most
// recent.
func DividendSustainability(series models.HistoricalSeries) (float64, string) {
	if len(series) < 4 {
		return 0.0, "insufficient dividend history"
	}

	values := series.Recent(5)

	growthYears := 0
	stableYears := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			growthYears++
			stableYears++
		} else if values[i] == values[i-1] && values[i] > 0 {
			stableYears++
		}
	}

	switch {
	case growthYears >= 3:
		return 0.25, "consistently growing dividends"
	case stableYears >= 4:
		return 0.20, "stable dividends"
	case stableYears >= 2:
		return 0.10, "broadly stable dividends"
	default:
		return 0.0, "inconsistent dividends"
	}
}
