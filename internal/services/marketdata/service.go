// Package marketdata acquires and caches fundamental metric snapshots.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/fundagent/internal/common"
	"github.com/bobmcallan/fundagent/internal/interfaces"
	"github.com/bobmcallan/fundagent/internal/models"
)

// Service fetches snapshots from the market-data provider with a
// read-through cache. A cached snapshot is reused within maxAge.
type Service struct {
	client interfaces.MarketDataClient
	cache  interfaces.CacheStore
	maxAge time.Duration
	logger *common.Logger
}

// NewService creates a market data service
func NewService(client interfaces.MarketDataClient, cache interfaces.CacheStore, maxAge time.Duration, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		client: client,
		cache:  cache,
		maxAge: maxAge,
		logger: logger,
	}
}

// GetSnapshot returns the metric snapshot for a ticker, from cache when
// fresh. A snapshot with no usable metric is rejected before caching so a
// bad fetch is never served for a full cache period.
func (s *Service) GetSnapshot(ctx context.Context, ticker string) (*models.MetricSnapshot, error) {
	key := cacheKey(ticker)

	var cached models.MetricSnapshot
	age, err := s.cache.Get(ctx, key, &cached)
	if err == nil && age <= s.maxAge {
		s.logger.Debug().Str("ticker", ticker).Dur("age", age).Msg("Snapshot cache hit")
		return &cached, nil
	}
	if err != nil && !errors.Is(err, models.ErrCacheMiss) {
		return nil, fmt.Errorf("reading snapshot cache for %s: %w", ticker, err)
	}

	s.logger.Info().Str("ticker", ticker).Msg("Fetching fundamentals")

	snapshot, err := s.client.GetFundamentals(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetching fundamentals for %s: %w", ticker, err)
	}

	if !snapshot.HasCoreMetrics() {
		return nil, fmt.Errorf("%w: no usable metrics for %s", models.ErrInsufficientData, ticker)
	}

	if err := s.cache.Put(ctx, key, snapshot); err != nil {
		// a write failure degrades to uncached operation
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Failed to cache snapshot")
	}

	return snapshot, nil
}

func cacheKey(ticker string) string {
	return "financial_data_" + ticker
}

// Ensure Service implements MarketDataService
var _ interfaces.MarketDataService = (*Service)(nil)
