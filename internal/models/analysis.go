package models

import "time"

// Style selects one of the four scoring strategies.
type Style string

const (
	StyleGrowth   Style = "growth"
	StyleValue    Style = "value"
	StyleDividend Style = "dividend"
	StyleQuality  Style = "quality"
)

// ParseStyle maps a request string to a Style. Empty defaults to growth.
// The second return is false for an unrecognized style.
func ParseStyle(s string) (Style, bool) {
	switch Style(s) {
	case "":
		return StyleGrowth, true
	case StyleGrowth, StyleValue, StyleDividend, StyleQuality:
		return Style(s), true
	default:
		return StyleGrowth, false
	}
}

// Strength is the five-tier investment signal.
type Strength string

const (
	StrengthStrongBuy  Strength = "strong_buy"
	StrengthBuy        Strength = "buy"
	StrengthNeutral    Strength = "neutral"
	StrengthSell       Strength = "sell"
	StrengthStrongSell Strength = "strong_sell"
)

// Action is the reduced three-way signal.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionHold Action = "hold"
	ActionSell Action = "sell"
)

// Action reduces the five-tier strength to buy/hold/sell.
func (s Strength) Action() Action {
	switch s {
	case StrengthStrongBuy, StrengthBuy:
		return ActionBuy
	case StrengthNeutral:
		return ActionHold
	default:
		return ActionSell
	}
}

// ScoreBreakdown maps sub-category names to sub-totals, with the grand
// total under the "total" key. Values are rounded to two decimals and the
// total is clamped to [0, 1].
type ScoreBreakdown map[string]float64

// Total returns the breakdown's grand total.
func (b ScoreBreakdown) Total() float64 {
	return b["total"]
}

// AnalysisSource tags how a result's rationale was produced.
type AnalysisSource string

const (
	SourceGenerated AnalysisSource = "generated"
	SourceFallback  AnalysisSource = "rule_based_fallback"
)

// AnalysisResult is the normalized output of one analysis run.
type AnalysisResult struct {
	Ticker       string          `json:"ticker"`
	Style        Style           `json:"style"`
	Strength     Strength        `json:"strength"`
	Action       Action          `json:"action"`
	Score        float64         `json:"score"`
	ScoreDetails ScoreBreakdown  `json:"score_details"`
	Reasoning    string          `json:"reasoning"`
	KeyMetrics   *MetricSnapshot `json:"key_metrics"`
	Source       AnalysisSource  `json:"analysis_source"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

// Error codes surfaced in the response envelope.
const (
	CodeTickerNotFound   = "TICKER_NOT_FOUND"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeModelError       = "MODEL_ERROR"
	CodeAnalysisFailed   = "ANALYSIS_FAILED"
)

// ResponseError carries a machine-readable error in the envelope.
type ResponseError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// AnalysisData is the success payload of the response envelope.
type AnalysisData struct {
	Ticker          string         `json:"ticker"`
	Style           Style          `json:"style"`
	Action          Action         `json:"action"`
	ConfidenceScore float64        `json:"confidence_score"`
	Reason          string         `json:"reason"`
	Strength        Strength       `json:"strength"`
	ScoreDetails    ScoreBreakdown `json:"score_details"`
	AnalysisSource  AnalysisSource `json:"analysis_source"`
}

// StandardResponse is the agent response envelope.
type StandardResponse struct {
	AgentType string         `json:"agent_type"`
	Version   string         `json:"version"`
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Data      *AnalysisData  `json:"data"`
	Error     *ResponseError `json:"error"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewStandardResponse builds an envelope with agent identity and timestamp set.
func NewStandardResponse(status string, version string) StandardResponse {
	return StandardResponse{
		AgentType: "fundamental",
		Version:   version,
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
