// Package models defines the domain types for fundagent
package models

import "sort"

// HistoricalSeries maps a period identifier (a year or date string that
// sorts chronologically) to a reported value.
type HistoricalSeries map[string]float64

// Recent returns up to n of the most recent values ordered oldest to newest.
func (s HistoricalSeries) Recent(n int) []float64 {
	if len(s) == 0 || n <= 0 {
		return nil
	}

	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	if len(keys) > n {
		keys = keys[:n]
	}

	// keys are newest-first; emit oldest-first
	values := make([]float64, len(keys))
	for i, k := range keys {
		values[len(keys)-1-i] = s[k]
	}
	return values
}

// MetricSnapshot is a point-in-time view of a company's fundamental metrics.
// Pointer fields distinguish "missing" from zero; the provider frequently
// omits individual metrics. Scoring never mutates a snapshot.
type MetricSnapshot struct {
	ROE               *float64 `json:"ROE,omitempty"`
	DebtToEquity      *float64 `json:"Debt to Equity Ratio,omitempty"` // provider-scaled x100
	ProfitMargins     *float64 `json:"Profit Margins,omitempty"`
	PERatio           *float64 `json:"P/E Ratio,omitempty"`
	ForwardPE         *float64 `json:"Forward P/E,omitempty"`
	PEGRatio          *float64 `json:"PEG Ratio,omitempty"`
	PBRatio           *float64 `json:"P/B Ratio,omitempty"`
	EPS               *float64 `json:"EPS,omitempty"`
	DividendYield     *float64 `json:"Dividend Yield,omitempty"`
	RevenueGrowth     *float64 `json:"Revenue Growth,omitempty"`
	EPSGrowth         *float64 `json:"EPS Growth,omitempty"`
	OperatingCashFlow *float64 `json:"Operating Cash Flow,omitempty"`

	HistoricalRevenue   HistoricalSeries `json:"Historical Revenue,omitempty"`
	HistoricalNetIncome HistoricalSeries `json:"Historical Net Income,omitempty"`
	HistoricalTotalDebt HistoricalSeries `json:"Historical Total Debt,omitempty"`
	DividendHistory     HistoricalSeries `json:"Dividend History,omitempty"`
}

// HasCoreMetrics reports whether at least one scalar metric is present.
// A snapshot with none of them is unusable for analysis.
func (m *MetricSnapshot) HasCoreMetrics() bool {
	if m == nil {
		return false
	}
	core := []*float64{
		m.ROE, m.DebtToEquity, m.ProfitMargins, m.PERatio, m.ForwardPE,
		m.PEGRatio, m.PBRatio, m.EPS, m.DividendYield, m.RevenueGrowth,
		m.EPSGrowth, m.OperatingCashFlow,
	}
	for _, v := range core {
		if v != nil {
			return true
		}
	}
	return false
}

// Float returns a pointer to v. Convenience for building snapshots.
func Float(v float64) *float64 {
	return &v
}
