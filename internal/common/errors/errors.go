// Package errors provides standardized error handling for the
// recommendation engine.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// One strategy failed for one item. Caught by the orchestrator and
	// degraded to a zero contribution; never surfaced to the caller.
	ErrCodeStrategyEvaluationFailed ErrorCode = "STRATEGY_EVALUATION_FAILED"

	// Semantic-scoring dependency errors. The semantic score is a bonus,
	// never a requirement, so these degrade like strategy failures.
	ErrCodeSemanticUnavailable   ErrorCode = "SEMANTIC_UNAVAILABLE"
	ErrCodeSemanticTimeout       ErrorCode = "SEMANTIC_TIMEOUT"
	ErrCodeSemanticScoringFailed ErrorCode = "SEMANTIC_SCORING_FAILED"

	// Candidate fetch failures are fatal: ranking cannot proceed without
	// candidates.
	ErrCodeCandidateSourceFailed ErrorCode = "CANDIDATE_SOURCE_FAILED"

	// Cache backend failures are non-fatal; ranking recomputes fresh
	// results without caching.
	ErrCodeCacheBackendFailed ErrorCode = "CACHE_BACKEND_FAILED"

	ErrCodeStatsQueryFailed ErrorCode = "STATS_QUERY_FAILED"
	ErrCodeInvalidCriteria  ErrorCode = "INVALID_CRITERIA"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewStrategyEvaluationError records a single strategy failing for a
// single item.
func NewStrategyEvaluationError(strategy string, itemID int64, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStrategyEvaluationFailed,
		Message:   fmt.Sprintf("strategy %s failed", strategy),
		Details:   details,
		Retryable: false,
		Metadata: map[string]interface{}{
			"strategy": strategy,
			"itemId":   itemID,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewSemanticUnavailableError signals the semantic dependency is not
// configured or disabled.
func NewSemanticUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSemanticUnavailable,
		Message:   "semantic scoring dependency unavailable",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSemanticTimeoutError signals the external call exceeded its deadline.
func NewSemanticTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSemanticTimeout,
		Message:   "semantic scoring call timed out",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSemanticScoringError signals a network, protocol, or parse failure
// from the semantic dependency.
func NewSemanticScoringError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSemanticScoringFailed,
		Message:   "semantic scoring call failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCandidateSourceError creates the only fatal error in the ranking
// path.
func NewCandidateSourceError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCandidateSourceFailed,
		Message:   "failed to fetch ranking candidates",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheBackendError records a degraded-mode cache failure.
func NewCacheBackendError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheBackendFailed,
		Message:   "cache backend unavailable",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStatsQueryError records an aggregate-statistics query failure.
func NewStatsQueryError(itemID int64, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStatsQueryFailed,
		Message:   "failed to load popularity statistics",
		Details:   details,
		Retryable: true,
		Metadata: map[string]interface{}{
			"itemId": itemID,
		},
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Inspection Helpers
// ==========================

// CodeOf extracts the ErrorCode from err, or "" when err carries none.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsFatal reports whether err must be propagated to the caller instead of
// being degraded.
func IsFatal(err error) bool {
	return CodeOf(err) == ErrCodeCandidateSourceFailed
}

// IsRetryable reports whether the operation that produced err may be
// retried.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}
