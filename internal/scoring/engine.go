package scoring

import (
	"math"

	"github.com/bobmcallan/fundagent/internal/models"
)

// Trends holds the pre-computed historical trend sub-scores for one snapshot.
// Computing them once lets the engine, the prompt builder, and the fallback
// share the same values.
type Trends struct {
	RevenueScore float64
	RevenueLabel string

	IncomeScore float64
	IncomeLabel string

	DebtScore float64
	DebtLabel string

	DividendScore float64
	DividendLabel string

	// RevenueCAGR is the 3-year revenue CAGR when defined.
	RevenueCAGR   float64
	RevenueCAGROK bool
}

// Engine scores snapshots deterministically per investment style. It is
// stateless and safe for concurrent use.
type Engine struct{}

// NewEngine returns a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// ComputeTrends derives all historical trend sub-scores for a snapshot.
func (e *Engine) ComputeTrends(snapshot *models.MetricSnapshot) Trends {
	var t Trends
	if snapshot == nil {
		return t
	}

	t.RevenueScore, t.RevenueLabel = GrowthTrendScore(snapshot.HistoricalRevenue)
	t.IncomeScore, t.IncomeLabel = GrowthTrendScore(snapshot.HistoricalNetIncome)
	t.DebtScore, t.DebtLabel = DebtTrendScore(snapshot.HistoricalTotalDebt)
	t.DividendScore, t.DividendLabel = DividendSustainability(snapshot.DividendHistory)
	t.RevenueCAGR, t.RevenueCAGROK = CAGR(snapshot.HistoricalRevenue)

	return t
}

// Score runs the style strategy over a snapshot and returns the rounded
// breakdown. The total is the sum of the unrounded category scores, rounded
// once and clamped to [0, 1].
func (e *Engine) Score(snapshot *models.MetricSnapshot, style models.Style) models.ScoreBreakdown {
	return e.ScoreWithTrends(snapshot, style, e.ComputeTrends(snapshot))
}

// ScoreWithTrends is Score with trends supplied by the caller, avoiding a
// recomputation when they are needed elsewhere in the pipeline.
func (e *Engine) ScoreWithTrends(snapshot *models.MetricSnapshot, style models.Style, trends Trends) models.ScoreBreakdown {
	if snapshot == nil {
		snapshot = &models.MetricSnapshot{}
	}

	var raw map[string]float64
	switch style {
	case models.StyleValue:
		raw = scoreValue(snapshot)
	case models.StyleDividend:
		raw = scoreDividend(snapshot, trends)
	case models.StyleQuality:
		raw = scoreQuality(snapshot, trends)
	default:
		raw = scoreGrowth(snapshot, trends)
	}

	total := 0.0
	breakdown := make(models.ScoreBreakdown, len(raw)+1)
	for name, score := range raw {
		total += score
		breakdown[name] = round2(score)
	}
	breakdown["total"] = math.Min(round2(total), 1.0)

	return breakdown
}

func scoreGrowth(m *models.MetricSnapshot, t Trends) map[string]float64 {
	return map[string]float64{
		"growth": ScoreGrowthRate(m.RevenueGrowth) +
			ScoreGrowthRate(m.EPSGrowth) +
			t.RevenueScore,
		"valuation": ScorePEGRatio(m.PEGRatio) +
			ScoreForwardPE(m.ForwardPE) +
			ScorePERatio(m.PERatio) +
			ScorePBRatio(m.PBRatio),
		"quality": ScoreROE(m.ROE) +
			ScoreDERatio(adjustedDERatio(m.DebtToEquity)) +
			ScoreMargins(m.ProfitMargins) +
			ScoreCashFlow(m.OperatingCashFlow) +
			ScoreEPS(m.EPS) +
			0.5*ScoreDividendYield(m.DividendYield),
	}
}

func scoreValue(m *models.MetricSnapshot) map[string]float64 {
	return map[string]float64{
		"valuation": 3*ScorePERatio(m.PERatio) +
			3*ScorePBRatio(m.PBRatio),
		"financial_health": 2 * ScoreDERatio(adjustedDERatio(m.DebtToEquity)),
		"quality": ScoreROE(m.ROE) +
			ScoreMargins(m.ProfitMargins) +
			ScoreCashFlow(m.OperatingCashFlow) +
			ScoreEPS(m.EPS) +
			ScoreDividendYield(m.DividendYield),
	}
}

func scoreDividend(m *models.MetricSnapshot, t Trends) map[string]float64 {
	return map[string]float64{
		"yield":          2 * ScoreDividendYield(m.DividendYield),
		"sustainability": t.DividendScore,
		"quality": ScoreDERatio(adjustedDERatio(m.DebtToEquity)) +
			ScoreCashFlow(m.OperatingCashFlow) +
			ScoreROE(m.ROE),
	}
}

func scoreQuality(m *models.MetricSnapshot, t Trends) map[string]float64 {
	return map[string]float64{
		"profitability": 2*ScoreROE(m.ROE) +
			2*ScoreMargins(m.ProfitMargins),
		"stability": ScoreDERatio(adjustedDERatio(m.DebtToEquity)) +
			t.DebtScore,
		"earnings_quality": ScoreCashFlow(m.OperatingCashFlow) +
			ScoreEPS(m.EPS) +
			t.IncomeScore,
	}
}

// adjustedDERatio converts the provider's percentage-scaled debt-to-equity
// value to a unit ratio.
func adjustedDERatio(deRatio *float64) *float64 {
	if deRatio == nil {
		return nil
	}
	adjusted := *deRatio / 100.0
	return &adjusted
}

// ClassifyStrength maps a total score to the five-tier signal.
func ClassifyStrength(total float64) models.Strength {
	switch {
	case total >= 0.8:
		return models.StrengthStrongBuy
	case total >= 0.6:
		return models.StrengthBuy
	case total >= 0.4:
		return models.StrengthNeutral
	case total >= 0.2:
		return models.StrengthSell
	default:
		return models.StrengthStrongSell
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
