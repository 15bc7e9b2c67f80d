// Package analysis runs the resilient analysis pipeline: deterministic
// scoring, generative reasoning, and the rule-based fallback that absorbs
// reasoning failures.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bobmcallan/fundagent/internal/common"
	"github.com/bobmcallan/fundagent/internal/interfaces"
	"github.com/bobmcallan/fundagent/internal/models"
	"github.com/bobmcallan/fundagent/internal/scoring"
)

const DefaultReasoningTimeout = 60 * time.Second

// Service orchestrates one analysis per (ticker, style). Concurrent requests
// for the same pair share a single in-flight run.
type Service struct {
	market           interfaces.MarketDataService
	reasoning        interfaces.ReasoningClient
	cache            interfaces.CacheStore
	engine           *scoring.Engine
	cacheTTL         time.Duration
	reasoningTimeout time.Duration
	logger           *common.Logger
	group            singleflight.Group
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithReasoningTimeout bounds the generative step independently of the
// request deadline.
func WithReasoningTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		if timeout > 0 {
			s.reasoningTimeout = timeout
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates an analysis service
func NewService(market interfaces.MarketDataService, reasoning interfaces.ReasoningClient, cache interfaces.CacheStore, cacheTTL time.Duration, opts ...ServiceOption) *Service {
	s := &Service{
		market:           market,
		reasoning:        reasoning,
		cache:            cache,
		engine:           scoring.NewEngine(),
		cacheTTL:         cacheTTL,
		reasoningTimeout: DefaultReasoningTimeout,
		logger:           common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Analyze produces the analysis result for a ticker and style. Results are
// cached per (ticker, style); within the TTL the cached result is returned
// verbatim, including its original provenance tag.
func (s *Service) Analyze(ctx context.Context, ticker string, style models.Style) (*models.AnalysisResult, error) {
	key := cacheKey(ticker, style)

	var cached models.AnalysisResult
	age, err := s.cache.Get(ctx, key, &cached)
	if err == nil && age <= s.cacheTTL {
		s.logger.Debug().Str("ticker", ticker).Str("style", string(style)).Dur("age", age).Msg("Analysis cache hit")
		return &cached, nil
	}
	if err != nil && !errors.Is(err, models.ErrCacheMiss) {
		return nil, fmt.Errorf("reading analysis cache for %s: %w", ticker, err)
	}

	result, err, _ := s.group.Do(key, func() (any, error) {
		return s.analyze(ctx, ticker, style)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.AnalysisResult), nil
}

func (s *Service) analyze(ctx context.Context, ticker string, style models.Style) (*models.AnalysisResult, error) {
	snapshot, err := s.market.GetSnapshot(ctx, ticker)
	if err != nil {
		return nil, err
	}

	trends := s.engine.ComputeTrends(snapshot)
	breakdown := s.engine.ScoreWithTrends(snapshot, style, trends)
	strength := scoring.ClassifyStrength(breakdown.Total())

	result := &models.AnalysisResult{
		Ticker:       ticker,
		Style:        style,
		Strength:     strength,
		Action:       strength.Action(),
		Score:        breakdown.Total(),
		ScoreDetails: breakdown,
		KeyMetrics:   snapshot,
		Source:       models.SourceGenerated,
		GeneratedAt:  time.Now().UTC(),
	}

	reasoning, err := s.generateReasoning(ctx, ticker, style, snapshot, trends, breakdown, strength)
	if err != nil {
		s.logger.Warn().Str("ticker", ticker).Str("style", string(style)).Err(err).Msg("Reasoning failed, using rule-based fallback")
		result = RunRuleBased(ticker, style, snapshot)
	} else {
		result.Reasoning = reasoning
	}

	// persist before returning so a later identical request is a cache hit
	if err := s.cache.Put(ctx, cacheKey(ticker, style), result); err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Failed to cache analysis")
	}

	return result, nil
}

func (s *Service) generateReasoning(ctx context.Context, ticker string, style models.Style, snapshot *models.MetricSnapshot, trends scoring.Trends, breakdown models.ScoreBreakdown, strength models.Strength) (string, error) {
	if s.reasoning == nil {
		return "", fmt.Errorf("%w: no reasoning client configured", models.ErrReasoning)
	}

	ctx, cancel := context.WithTimeout(ctx, s.reasoningTimeout)
	defer cancel()

	prompt := buildPrompt(ticker, style, snapshot, trends, breakdown, strength)
	text, err := s.reasoning.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrReasoning, err)
	}
	return text, nil
}

func cacheKey(ticker string, style models.Style) string {
	return fmt.Sprintf("analysis_%s_%s", ticker, style)
}

// Ensure Service implements AnalysisService
var _ interfaces.AnalysisService = (*Service)(nil)
