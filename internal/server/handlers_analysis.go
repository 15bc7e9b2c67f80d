package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/fundagent/internal/common"
	"github.com/bobmcallan/fundagent/internal/models"
)

// analyzeRequest is the body of POST /api/analyze.
type analyzeRequest struct {
	Ticker string `json:"ticker"`
	Style  string `json:"style"`
}

// handleAnalyze runs one analysis and writes the response envelope.
// POST /api/analyze
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req analyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		WriteEnvelopeError(w, http.StatusBadRequest, models.CodeAnalysisFailed, "ticker is required", false)
		return
	}

	style, ok := models.ParseStyle(strings.ToLower(strings.TrimSpace(req.Style)))
	if !ok {
		WriteEnvelopeError(w, http.StatusBadRequest, models.CodeAnalysisFailed,
			"unsupported style: expected growth, value, dividend, or quality", false)
		return
	}

	result, err := s.app.AnalysisService.Analyze(r.Context(), ticker, style)
	if err != nil {
		s.writeAnalysisError(w, ticker, err)
		return
	}

	WriteEnvelope(w, &models.AnalysisData{
		Ticker:          result.Ticker,
		Style:           result.Style,
		Action:          result.Action,
		ConfidenceScore: result.Score,
		Reason:          result.Reasoning,
		Strength:        result.Strength,
		ScoreDetails:    result.ScoreDetails,
		AnalysisSource:  result.Source,
	})
}

// writeAnalysisError maps pipeline errors to status codes. Every code the
// pipeline can produce is non-retryable: retrying without new data would
// fail the same way.
func (s *Server) writeAnalysisError(w http.ResponseWriter, ticker string, err error) {
	switch {
	case errors.Is(err, models.ErrTickerNotFound):
		WriteEnvelopeError(w, http.StatusNotFound, models.CodeTickerNotFound,
			"no data found for ticker "+ticker, false)
	case errors.Is(err, models.ErrInsufficientData):
		WriteEnvelopeError(w, http.StatusUnprocessableEntity, models.CodeInsufficientData,
			"insufficient financial data for ticker "+ticker, false)
	default:
		s.logger.Error().Str("ticker", ticker).Err(err).Msg("Analysis failed")
		WriteEnvelopeError(w, http.StatusInternalServerError, models.CodeAnalysisFailed,
			"analysis failed", false)
	}
}

// handleHealth reports liveness.
// GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
		"version": common.GetVersion(),
	})
}

// handleVersion reports build information.
// GET /api/version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
