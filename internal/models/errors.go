package models

import "errors"

// Error taxonomy for the analysis pipeline. Terminal errors cross the
// orchestrator boundary; ErrReasoning is consumed internally by the
// fallback path and never reaches a caller.
var (
	// ErrTickerNotFound: the identifier does not resolve to any data.
	ErrTickerNotFound = errors.New("ticker not found")

	// ErrInsufficientData: the ticker resolves but no usable metric exists.
	ErrInsufficientData = errors.New("insufficient financial data")

	// ErrReasoning: the generative step failed or returned empty output.
	ErrReasoning = errors.New("reasoning generation failed")

	// ErrCacheMiss: no fresh cache entry for the key. Expired or malformed
	// entries report this too; a cache read never fails any other way.
	ErrCacheMiss = errors.New("cache miss")
)
