// Package interfaces defines service contracts for fundagent
package interfaces

import (
	"context"

	"github.com/bobmcallan/fundagent/internal/models"
)

// MarketDataClient provides access to the market-data provider.
type MarketDataClient interface {
	// GetFundamentals retrieves the fundamental metric snapshot for a ticker.
	// Returns an error wrapping models.ErrTickerNotFound when the ticker
	// does not resolve.
	GetFundamentals(ctx context.Context, ticker string) (*models.MetricSnapshot, error)
}

// ReasoningClient produces free-text rationale from a prompt. It may fail;
// callers are expected to recover with the rule-based fallback.
type ReasoningClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
