package analysis

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bobmcallan/fundagent/internal/models"
	"github.com/bobmcallan/fundagent/internal/scoring"
)

// Rule-based fallback: a deterministic screen used when the reasoning step
// fails. Each style checks two screening criteria; the confidence starts at
// a neutral base and rises with each criterion met.
const (
	fallbackBase      = 0.3
	fallbackIncrement = 0.35
)

type fallbackCriterion struct {
	label string
	met   bool
}

// RunRuleBased produces a complete analysis result from screening rules
// alone. It cannot fail: missing metrics simply leave criteria unmet.
func RunRuleBased(ticker string, style models.Style, snapshot *models.MetricSnapshot) *models.AnalysisResult {
	if snapshot == nil {
		snapshot = &models.MetricSnapshot{}
	}

	category, criteria := fallbackCriteria(style, snapshot)

	score := fallbackBase
	met := make([]string, 0, len(criteria))
	unmet := make([]string, 0, len(criteria))
	for _, c := range criteria {
		if c.met {
			score += fallbackIncrement
			met = append(met, c.label)
		} else {
			unmet = append(unmet, c.label)
		}
	}
	score = math.Round(score*100) / 100
	if score > 1.0 {
		score = 1.0
	}

	strength := scoring.ClassifyStrength(score)

	return &models.AnalysisResult{
		Ticker:   ticker,
		Style:    style,
		Strength: strength,
		Action:   strength.Action(),
		Score:    score,
		ScoreDetails: models.ScoreBreakdown{
			category: score,
			"total":  score,
		},
		Reasoning:   fallbackReasoning(style, met, unmet),
		KeyMetrics:  snapshot,
		Source:      models.SourceFallback,
		GeneratedAt: time.Now().UTC(),
	}
}

func fallbackCriteria(style models.Style, m *models.MetricSnapshot) (string, []fallbackCriterion) {
	switch style {
	case models.StyleGrowth:
		return "growth", []fallbackCriterion{
			{"Revenue growth > 10%", above(m.RevenueGrowth, 0.10)},
			{"EPS growth > 10%", above(m.EPSGrowth, 0.10)},
		}
	case models.StyleDividend:
		return "yield_and_sustainability", []fallbackCriterion{
			{"Dividend yield > 4%", above(m.DividendYield, 0.04)},
			{"Debt-to-equity below 1.0", below(m.DebtToEquity, 100)},
		}
	case models.StyleQuality:
		return "quality", []fallbackCriterion{
			{"ROE > 15%", above(m.ROE, 0.15)},
			{"Debt-to-equity below 1.0", below(m.DebtToEquity, 100)},
		}
	default:
		// value, and the screen of last resort for anything unrecognized
		return "valuation", []fallbackCriterion{
			{"P/E between 0 and 15", inRange(m.PERatio, 0, 15)},
			{"P/B between 0 and 1", inRange(m.PBRatio, 0, 1)},
		}
	}
}

func fallbackReasoning(style models.Style, met, unmet []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Rule-based %s screen:", style)
	if len(met) == 0 {
		sb.WriteString(" no screening criteria met")
	} else {
		fmt.Fprintf(&sb, " met: %s", strings.Join(met, "; "))
	}
	if len(unmet) > 0 {
		fmt.Fprintf(&sb, "; not met: %s", strings.Join(unmet, "; "))
	}
	sb.WriteString(".")
	return sb.String()
}

func above(v *float64, threshold float64) bool {
	return v != nil && *v > threshold
}

func below(v *float64, threshold float64) bool {
	return v != nil && *v < threshold
}

func inRange(v *float64, low, high float64) bool {
	return v != nil && *v > low && *v < high
}
