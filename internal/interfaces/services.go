package interfaces

import (
	"context"

	"github.com/bobmcallan/fundagent/internal/models"
)

// MarketDataService acquires metric snapshots, caching successful fetches.
type MarketDataService interface {
	// GetSnapshot returns the metric snapshot for a ticker. Errors wrap
	// models.ErrTickerNotFound or models.ErrInsufficientData.
	GetSnapshot(ctx context.Context, ticker string) (*models.MetricSnapshot, error)
}

// AnalysisService runs the resilient analysis pipeline.
type AnalysisService interface {
	// Analyze produces one normalized result for (ticker, style). A failed
	// reasoning step degrades to the rule-based fallback and still succeeds;
	// only data-acquisition failures surface as errors.
	Analyze(ctx context.Context, ticker string, style models.Style) (*models.AnalysisResult, error)
}
