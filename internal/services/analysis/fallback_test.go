package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/fundagent/internal/models"
)

func TestRunRuleBasedValueBothCriteriaMet(t *testing.T) {
	snapshot := &models.MetricSnapshot{
		PERatio: models.Float(12),
		PBRatio: models.Float(0.9),
	}
	result := RunRuleBased("BRK.B", models.StyleValue, snapshot)

	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, models.StrengthStrongBuy, result.Strength)
	assert.Equal(t, models.ActionBuy, result.Action)
	assert.Equal(t, models.SourceFallback, result.Source)
	assert.Equal(t, 1.0, result.ScoreDetails["valuation"])
	assert.Equal(t, 1.0, result.ScoreDetails.Total())
}

func TestRunRuleBasedValueOneCriterionMet(t *testing.T) {
	snapshot := &models.MetricSnapshot{
		PERatio: models.Float(12),
		PBRatio: models.Float(3.5),
	}
	result := RunRuleBased("XOM", models.StyleValue, snapshot)

	assert.InDelta(t, 0.65, result.Score, 1e-9)
	assert.Equal(t, models.StrengthBuy, result.Strength)
	assert.Contains(t, result.Reasoning, "met: P/E between 0 and 15")
	assert.Contains(t, result.Reasoning, "not met: P/B between 0 and 1")
}

func TestRunRuleBasedNoCriteriaMet(t *testing.T) {
	result := RunRuleBased("TSLA", models.StyleValue, &models.MetricSnapshot{})

	assert.InDelta(t, 0.3, result.Score, 1e-9)
	assert.Equal(t, models.StrengthSell, result.Strength)
	assert.Equal(t, models.ActionSell, result.Action)
	assert.Contains(t, result.Reasoning, "no screening criteria met")
}

func TestRunRuleBasedGrowth(t *testing.T) {
	snapshot := &models.MetricSnapshot{
		RevenueGrowth: models.Float(0.25),
		EPSGrowth:     models.Float(0.05),
	}
	result := RunRuleBased("NVDA", models.StyleGrowth, snapshot)

	assert.InDelta(t, 0.65, result.Score, 1e-9)
	assert.Contains(t, result.Reasoning, "Revenue growth > 10%")
	require.Contains(t, result.ScoreDetails, "growth")
}

func TestRunRuleBasedDividend(t *testing.T) {
	snapshot := &models.MetricSnapshot{
		DividendYield: models.Float(0.05),
		DebtToEquity:  models.Float(80), // provider scale: 0.8
	}
	result := RunRuleBased("T", models.StyleDividend, snapshot)

	assert.Equal(t, 1.0, result.Score)
	require.Contains(t, result.ScoreDetails, "yield_and_sustainability")
}

func TestRunRuleBasedQualityNamesROE(t *testing.T) {
	snapshot := &models.MetricSnapshot{
		ROE:          models.Float(0.22),
		DebtToEquity: models.Float(250),
	}
	result := RunRuleBased("MSFT", models.StyleQuality, snapshot)

	assert.InDelta(t, 0.65, result.Score, 1e-9)
	assert.True(t, strings.Contains(result.Reasoning, "ROE > 15%"))
	require.Contains(t, result.ScoreDetails, "quality")
}

func TestRunRuleBasedUnknownStyleUsesValueScreen(t *testing.T) {
	snapshot := &models.MetricSnapshot{PERatio: models.Float(10)}
	result := RunRuleBased("IBM", models.Style("momentum"), snapshot)

	require.Contains(t, result.ScoreDetails, "valuation")
}

func TestRunRuleBasedNilSnapshot(t *testing.T) {
	result := RunRuleBased("AAPL", models.StyleGrowth, nil)

	assert.InDelta(t, 0.3, result.Score, 1e-9)
	assert.NotNil(t, result.KeyMetrics)
}
