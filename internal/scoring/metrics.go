// Package scoring provides the deterministic scoring engine: per-metric
// threshold scorers, historical trend analysis, and the four style
// strategies that combine them into a bounded total.
package scoring

// Metric scorers are pure, total functions from one nullable metric to a
// bounded sub-score. Thresholds are strictly descending and non-overlapping;
// a missing value always scores zero. They never fail.

// ScoreROE scores return on equity.
func ScoreROE(roe *float64) float64 {
	if roe == nil {
		return 0.0
	}
	switch {
	case *roe > 0.20:
		return 0.25
	case *roe > 0.15:
		return 0.15
	case *roe > 0.05:
		return 0.05
	default:
		return 0.0
	}
}

// ScoreDERatio scores the debt-to-equity ratio (unit ratio, not the
// provider's x100 form). Lower is better; missing scores the worst tier.
func ScoreDERatio(deRatio *float64) float64 {
	if deRatio == nil {
		return 0.0
	}
	switch {
	case *deRatio < 0.5:
		return 0.20
	case *deRatio < 1.0:
		return 0.10
	case *deRatio < 2.0:
		return 0.05
	default:
		return 0.0
	}
}

// ScoreMargins scores profit margins.
func ScoreMargins(margins *float64) float64 {
	if margins == nil || *margins <= 0.20 {
		return 0.0
	}
	return 0.10
}

// ScorePERatio scores the trailing P/E ratio. Negative P/E scores zero.
func ScorePERatio(peRatio *float64) float64 {
	if peRatio == nil {
		return 0.0
	}
	switch {
	case *peRatio > 0 && *peRatio < 15:
		return 0.10
	case *peRatio < 25:
		return 0.05
	default:
		return 0.0
	}
}

// ScoreForwardPE scores the forward P/E ratio.
func ScoreForwardPE(forwardPE *float64) float64 {
	if forwardPE == nil {
		return 0.0
	}
	switch {
	case *forwardPE > 0 && *forwardPE < 15:
		return 0.10
	case *forwardPE < 25:
		return 0.05
	default:
		return 0.0
	}
}

// ScorePEGRatio scores the PEG ratio. Lower is better.
func ScorePEGRatio(pegRatio *float64) float64 {
	if pegRatio == nil {
		return 0.0
	}
	switch {
	case *pegRatio > 0 && *pegRatio < 1.0:
		return 0.10
	case *pegRatio < 1.5:
		return 0.05
	default:
		return 0.0
	}
}

// ScorePBRatio scores the price-to-book ratio.
func ScorePBRatio(pbRatio *float64) float64 {
	if pbRatio == nil {
		return 0.0
	}
	if *pbRatio > 0 && *pbRatio < 1.2 {
		return 0.05
	}
	return 0.0
}

// ScoreEPS scores earnings per share on positivity.
func ScoreEPS(eps *float64) float64 {
	if eps == nil || *eps <= 0 {
		return 0.0
	}
	return 0.05
}

// ScoreDividendYield scores the dividend yield.
func ScoreDividendYield(dividendYield *float64) float64 {
	if dividendYield == nil {
		return 0.0
	}
	switch {
	case *dividendYield > 0.04:
		return 0.10
	case *dividendYield > 0.02:
		return 0.05
	default:
		return 0.0
	}
}

// ScoreGrowthRate scores a year-over-year growth rate (revenue or EPS).
func ScoreGrowthRate(growthRate *float64) float64 {
	if growthRate == nil {
		return 0.0
	}
	switch {
	case *growthRate > 0.25:
		return 0.20
	case *growthRate > 0.10:
		return 0.10
	case *growthRate > 0:
		return 0.05
	default:
		return 0.0
	}
}

// ScoreCashFlow scores operating cash flow on positivity.
func ScoreCashFlow(cashFlow *float64) float64 {
	if cashFlow == nil || *cashFlow <= 0 {
		return 0.0
	}
	return 0.10
}
