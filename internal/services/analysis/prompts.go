package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bobmcallan/fundagent/internal/models"
	"github.com/bobmcallan/fundagent/internal/scoring"
)

// buildPrompt assembles the reasoning prompt for one analysis. The score and
// signal are already decided; the model is asked only to explain them from
// the same metrics, never to re-score.
func buildPrompt(ticker string, style models.Style, snapshot *models.MetricSnapshot, trends scoring.Trends, breakdown models.ScoreBreakdown, strength models.Strength) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are an equity analyst. Explain the %s-style assessment of %s.\n\n", style, ticker)

	sb.WriteString("Fundamental metrics:\n")
	writeMetrics(&sb, snapshot)

	sb.WriteString("\nHistorical trends:\n")
	writeTrends(&sb, trends)

	sb.WriteString("\nDeterministic score breakdown:\n")
	writeBreakdown(&sb, breakdown)

	fmt.Fprintf(&sb, "\nOverall signal: %s (score %.2f of 1.00)\n\n", strength, breakdown.Total())

	sb.WriteString(styleGuidance(style))
	sb.WriteString("\nWrite a concise rationale (3-5 sentences) for an investor. " +
		"Ground every claim in the metrics above; treat N/A metrics as unknown, not as zero. " +
		"Do not propose a different score or signal.")

	return sb.String()
}

func styleGuidance(style models.Style) string {
	switch style {
	case models.StyleValue:
		return "Focus on whether the price is cheap relative to earnings and book value, and whether the balance sheet supports the discount.\n"
	case models.StyleDividend:
		return "Focus on the yield, whether the payout history shows the dividend is dependable, and whether leverage or cash flow threatens it.\n"
	case models.StyleQuality:
		return "Focus on the durability of profitability, balance-sheet strength, and whether reported earnings are backed by cash.\n"
	default:
		return "Focus on the pace and consistency of growth, and whether the current valuation already prices that growth in.\n"
	}
}

func writeMetrics(sb *strings.Builder, m *models.MetricSnapshot) {
	if m == nil {
		m = &models.MetricSnapshot{}
	}
	fmt.Fprintf(sb, "- ROE: %s\n", pct(m.ROE))
	fmt.Fprintf(sb, "- Debt-to-equity: %s\n", ratio(deUnitRatio(m.DebtToEquity)))
	fmt.Fprintf(sb, "- Profit margins: %s\n", pct(m.ProfitMargins))
	fmt.Fprintf(sb, "- P/E: %s\n", ratio(m.PERatio))
	fmt.Fprintf(sb, "- Forward P/E: %s\n", ratio(m.ForwardPE))
	fmt.Fprintf(sb, "- PEG: %s\n", ratio(m.PEGRatio))
	fmt.Fprintf(sb, "- P/B: %s\n", ratio(m.PBRatio))
	fmt.Fprintf(sb, "- EPS: %s\n", ratio(m.EPS))
	fmt.Fprintf(sb, "- Dividend yield: %s\n", pct(m.DividendYield))
	fmt.Fprintf(sb, "- Revenue growth: %s\n", pct(m.RevenueGrowth))
	fmt.Fprintf(sb, "- EPS growth: %s\n", pct(m.EPSGrowth))
	fmt.Fprintf(sb, "- Operating cash flow: %s\n", ratio(m.OperatingCashFlow))
}

func writeTrends(sb *strings.Builder, t scoring.Trends) {
	fmt.Fprintf(sb, "- Revenue: %s\n", t.RevenueLabel)
	fmt.Fprintf(sb, "- Net income: %s\n", t.IncomeLabel)
	fmt.Fprintf(sb, "- Total debt: %s\n", t.DebtLabel)
	fmt.Fprintf(sb, "- Dividends: %s\n", t.DividendLabel)
	if t.RevenueCAGROK {
		fmt.Fprintf(sb, "- 3-year revenue CAGR: %.1f%%\n", t.RevenueCAGR*100)
	}
}

func writeBreakdown(sb *strings.Builder, breakdown models.ScoreBreakdown) {
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		if name != "total" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(sb, "- %s: %.2f\n", name, breakdown[name])
	}
}

func pct(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}

func ratio(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

// deUnitRatio converts the provider-scaled debt-to-equity to a unit ratio
// for presentation.
func deUnitRatio(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := *v / 100
	return &r
}
