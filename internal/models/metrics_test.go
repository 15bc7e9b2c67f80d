package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoricalSeriesRecent(t *testing.T) {
	s := HistoricalSeries{
		"2020": 100, "2021": 110, "2022": 121, "2023": 133, "2024": 146,
	}

	// most recent four, oldest first
	assert.Equal(t, []float64{110, 121, 133, 146}, s.Recent(4))
	assert.Equal(t, []float64{146}, s.Recent(1))
	// asking for more than exists returns everything
	assert.Len(t, s.Recent(10), 5)
	assert.Nil(t, s.Recent(0))
	assert.Nil(t, HistoricalSeries(nil).Recent(4))
}

func TestHistoricalSeriesRecentDateKeys(t *testing.T) {
	s := HistoricalSeries{
		"2023-09-30": 1.0, "2024-09-30": 2.0, "2022-09-30": 0.5,
	}
	assert.Equal(t, []float64{0.5, 1.0, 2.0}, s.Recent(3))
}

func TestMetricSnapshotJSONKeys(t *testing.T) {
	raw := `{
		"ROE": 0.25,
		"Debt to Equity Ratio": 41.5,
		"P/E Ratio": 29.5,
		"Dividend Yield": 0.0051,
		"Historical Revenue": {"2023": 100, "2024": 110}
	}`

	var m MetricSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	require.NotNil(t, m.ROE)
	assert.Equal(t, 0.25, *m.ROE)
	require.NotNil(t, m.DebtToEquity)
	assert.Equal(t, 41.5, *m.DebtToEquity)
	require.NotNil(t, m.PERatio)
	assert.Equal(t, 29.5, *m.PERatio)
	assert.Len(t, m.HistoricalRevenue, 2)
	assert.Nil(t, m.EPS)
}

func TestHasCoreMetrics(t *testing.T) {
	assert.False(t, (&MetricSnapshot{}).HasCoreMetrics())
	assert.False(t, (*MetricSnapshot)(nil).HasCoreMetrics())

	// historical series alone do not make a snapshot usable
	assert.False(t, (&MetricSnapshot{
		HistoricalRevenue: HistoricalSeries{"2024": 1},
	}).HasCoreMetrics())

	assert.True(t, (&MetricSnapshot{EPS: Float(1.2)}).HasCoreMetrics())
}
