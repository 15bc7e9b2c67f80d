package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bobmcallan/fundagent/internal/common"
	"github.com/bobmcallan/fundagent/internal/models"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteEnvelope writes a success envelope carrying the analysis payload.
func WriteEnvelope(w http.ResponseWriter, data *models.AnalysisData) {
	resp := models.NewStandardResponse("success", common.GetVersion())
	resp.Data = data
	WriteJSON(w, http.StatusOK, resp)
}

// WriteEnvelopeError writes an error envelope with a machine-readable code.
func WriteEnvelopeError(w http.ResponseWriter, statusCode int, code, message string, retryable bool) {
	resp := models.NewStandardResponse("error", common.GetVersion())
	resp.Error = &models.ResponseError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
	}
	WriteJSON(w, statusCode, resp)
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteEnvelopeError(w, http.StatusMethodNotAllowed, models.CodeAnalysisFailed, "Method not allowed", false)
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteEnvelopeError(w, http.StatusBadRequest, models.CodeAnalysisFailed, "Request body is required", false)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteEnvelopeError(w, http.StatusBadRequest, models.CodeAnalysisFailed, "Invalid JSON: "+err.Error(), false)
		return false
	}
	return true
}
