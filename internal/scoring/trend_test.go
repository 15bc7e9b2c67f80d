package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/fundagent/internal/models"
)

func series(values ...float64) models.HistoricalSeries {
	years := []string{"2020", "2021", "2022", "2023", "2024"}
	s := make(models.HistoricalSeries, len(values))
	for i, v := range values {
		s[years[i]] = v
	}
	return s
}

func TestGrowthTrendScore(t *testing.T) {
	score, label := GrowthTrendScore(series(100, 110, 121, 133))
	assert.Equal(t, 0.15, score)
	assert.Equal(t, "consistent growth over 3 years", label)

	score, _ = GrowthTrendScore(series(100, 110, 105, 120))
	assert.Equal(t, 0.10, score)

	score, _ = GrowthTrendScore(series(100, 110, 105, 90))
	assert.Equal(t, 0.05, score)

	score, label = GrowthTrendScore(series(100, 95, 90, 85))
	assert.Equal(t, 0.0, score)
	assert.Equal(t, "no growth", label)
}

func TestGrowthTrendScoreShortSeries(t *testing.T) {
	score, label := GrowthTrendScore(series(100, 110, 121))
	assert.Equal(t, 0.0, score)
	assert.Equal(t, "insufficient history", label)

	score, _ = GrowthTrendScore(nil)
	assert.Equal(t, 0.0, score)
}

func TestGrowthTrendScoreUsesMostRecentWindow(t *testing.T) {
	// five periods: only the last four count, so the 2020->2021 drop is ignored
	score, _ := GrowthTrendScore(series(200, 100, 110, 121, 133))
	assert.Equal(t, 0.15, score)
}

func TestGrowthTrendScoreFlatYearsDoNotCount(t *testing.T) {
	score, _ := GrowthTrendScore(series(100, 100, 100, 100))
	assert.Equal(t, 0.0, score)
}

func TestDebtTrendScore(t *testing.T) {
	score, _ := DebtTrendScore(series(100, 95, 90, 85))
	assert.Equal(t, 0.15, score)

	score, _ = DebtTrendScore(series(100, 110, 90, 85))
	assert.Equal(t, 0.10, score)

	score, _ = DebtTrendScore(series(100, 110, 120, 85))
	assert.Equal(t, 0.05, score)

	score, _ = DebtTrendScore(series(100, 110, 120, 130))
	assert.Equal(t, 0.0, score)
}

func TestDebtTrendScoreShortSeries(t *testing.T) {
	score, label := DebtTrendScore(series(100, 90))
	assert.Equal(t, 0.0, score)
	assert.Equal(t, "insufficient history", label)
}

func TestCAGR(t *testing.T) {
	got, ok := CAGR(series(100, 110, 121, 133.1))
	assert.True(t, ok)
	assert.InDelta(t, 0.10, got, 1e-9)
}

func TestCAGRDecline(t *testing.T) {
	got, ok := CAGR(series(133.1, 121, 110, 100))
	assert.True(t, ok)
	assert.InDelta(t, -0.0909, got, 1e-4)
}

func TestCAGRUndefined(t *testing.T) {
	_, ok := CAGR(series(0, 110, 121, 133))
	assert.False(t, ok)

	_, ok = CAGR(series(-50, 110, 121, 133))
	assert.False(t, ok)

	_, ok = CAGR(series(100, 110, 121))
	assert.False(t, ok)
}

func TestDividendSustainabilityGrowing(t *testing.T) {
	score, label := DividendSustainability(series(1.00, 1.05, 1.10, 1.15, 1.20))
	assert.Equal(t, 0.25, score)
	assert.Equal(t, "consistently growing dividends", label)
}

func TestDividendSustainabilityStable(t *testing.T) {
	score, _ := DividendSustainability(series(1.00, 1.00, 1.00, 1.00, 1.00))
	assert.Equal(t, 0.20, score)
}

func TestDividendSustainabilityMixed(t *testing.T) {
	score, _ := DividendSustainability(series(1.00, 1.00, 0.80, 0.80, 0.70))
	assert.Equal(t, 0.10, score)
}

func TestDividendSustainabilityErratic(t *testing.T) {
	score, _ := DividendSustainability(series(1.00, 0.50, 0.90, 0.40, 0.70))
	// two growth transitions count as stable years too
	assert.Equal(t, 0.10, score)
}

func TestDividendSustainabilityShortHistory(t *testing.T) {
	score, label := DividendSustainability(series(1.00, 1.05, 1.10))
	assert.Equal(t, 0.0, score)
	assert.Equal(t, "insufficient dividend history", label)
}
