// errors.go: comprehensive error handling for xanthos container operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for all container operations.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package xanthos

import (
	goerrors "errors"
	"strconv"

	"github.com/agilira/go-errors"
)

// Error codes for Xanthos container operations
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidConfig     errors.ErrorCode = "XANTHOS_INVALID_CONFIG"
	ErrCodeInvalidCapacity   errors.ErrorCode = "XANTHOS_INVALID_CAPACITY"
	ErrCodeInvalidLoadFactor errors.ErrorCode = "XANTHOS_INVALID_LOAD_FACTOR"
	ErrCodeInvalidWindowSize errors.ErrorCode = "XANTHOS_INVALID_WINDOW_SIZE"
	ErrCodeInvalidCGSize     errors.ErrorCode = "XANTHOS_INVALID_CG_SIZE"
	ErrCodeSentinelCollision errors.ErrorCode = "XANTHOS_SENTINEL_COLLISION"
	ErrCodeInvalidProbing    errors.ErrorCode = "XANTHOS_INVALID_PROBING"

	// Operation errors (2xxx)
	ErrCodeEraseDisabled     errors.ErrorCode = "XANTHOS_ERASE_DISABLED"
	ErrCodeCapacityExhausted errors.ErrorCode = "XANTHOS_CAPACITY_EXHAUSTED"
	ErrCodeOutputTruncated   errors.ErrorCode = "XANTHOS_OUTPUT_TRUNCATED"
	ErrCodeLengthMismatch    errors.ErrorCode = "XANTHOS_LENGTH_MISMATCH"
	ErrCodeRehashOverflow    errors.ErrorCode = "XANTHOS_REHASH_OVERFLOW"

	// Stream errors (3xxx)
	ErrCodeStreamClosed errors.ErrorCode = "XANTHOS_STREAM_CLOSED"

	// Internal errors (5xxx)
	ErrCodeInternalError errors.ErrorCode = "XANTHOS_INTERNAL_ERROR"
)

// Common error messages
const (
	msgInvalidCapacity   = "invalid capacity: must be greater than 0"
	msgInvalidLoadFactor = "invalid load factor: must be in (0, 1]"
	msgInvalidWindowSize = "invalid window size: must be 1, 2, 4 or 8"
	msgInvalidCGSize     = "invalid cooperative-group size: must be 1, 2, 4 or 8"
	msgSentinelCollision = "empty and erased key sentinels must differ"
	msgInvalidProbing    = "probing scheme is nil or carries a mismatched cg size"
	msgEraseDisabled     = "erase requires a distinct erased-key sentinel at construction"
	msgCapacityExhausted = "probing visited every window without finding a free slot"
	msgOutputTruncated   = "destination shorter than the number of live entries"
	msgLengthMismatch    = "input and output ranges have different lengths"
	msgRehashOverflow    = "target extent cannot accommodate the live entries"
	msgStreamClosed      = "stream is closed"
	msgInternalError     = "internal container error"
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// NewErrInvalidCapacity creates an error for an invalid requested capacity
func NewErrInvalidCapacity(capacity int) error {
	return errors.NewWithContext(ErrCodeInvalidCapacity, msgInvalidCapacity, map[string]interface{}{
		"provided_capacity": capacity,
		"minimum_required":  1,
	})
}

// NewErrInvalidLoadFactor creates an error for an invalid load factor
func NewErrInvalidLoadFactor(loadFactor float64) error {
	return errors.NewWithContext(ErrCodeInvalidLoadFactor, msgInvalidLoadFactor, map[string]interface{}{
		"provided_load_factor": loadFactor,
		"valid_range":          "0.0 < load_factor <= 1.0",
	})
}

// NewErrInvalidWindowSize creates an error for an invalid window size
func NewErrInvalidWindowSize(size int) error {
	return errors.NewWithContext(ErrCodeInvalidWindowSize, msgInvalidWindowSize, map[string]interface{}{
		"provided_size": size,
		"valid_values":  "1, 2, 4, 8",
	})
}

// NewErrInvalidCGSize creates an error for an invalid cooperative-group size
func NewErrInvalidCGSize(size int) error {
	return errors.NewWithContext(ErrCodeInvalidCGSize, msgInvalidCGSize, map[string]interface{}{
		"provided_size": size,
		"valid_values":  "1, 2, 4, 8",
	})
}

// NewErrSentinelCollision creates an error when the empty and erased key
// sentinels coincide while erase is enabled
func NewErrSentinelCollision(sentinel uint64) error {
	return errors.NewWithField(ErrCodeSentinelCollision, msgSentinelCollision, "sentinel", strconv.FormatUint(sentinel, 10))
}

// NewErrInvalidProbing creates an error for a nil or mismatched probing scheme
func NewErrInvalidProbing(reason string) error {
	return errors.NewWithField(ErrCodeInvalidProbing, msgInvalidProbing, "reason", reason)
}

// =============================================================================
// OPERATION ERRORS
// =============================================================================

// NewErrEraseDisabled creates an error when erase is invoked on a container
// constructed without an erased-key sentinel
func NewErrEraseDisabled() error {
	return errors.New(ErrCodeEraseDisabled, msgEraseDisabled)
}

// NewErrCapacityExhausted creates an error when a probe visits the full
// window extent without reaching a decision
func NewErrCapacityExhausted(capacity int) error {
	return errors.NewWithContext(ErrCodeCapacityExhausted, msgCapacityExhausted, map[string]interface{}{
		"capacity": capacity,
	}).AsRetryable() // Can be retried after an erase or a rehash to a larger extent
}

// NewErrOutputTruncated creates an error when a retrieve-all destination is
// shorter than the live entry count
func NewErrOutputTruncated(needed, provided int) error {
	return errors.NewWithContext(ErrCodeOutputTruncated, msgOutputTruncated, map[string]interface{}{
		"needed":   needed,
		"provided": provided,
	})
}

// NewErrLengthMismatch creates an error when parallel input/output ranges
// disagree on length
func NewErrLengthMismatch(operation string, in, out int) error {
	return errors.NewWithContext(ErrCodeLengthMismatch, msgLengthMismatch, map[string]interface{}{
		"operation":  operation,
		"input_len":  in,
		"output_len": out,
	})
}

// NewErrRehashOverflow creates an error when a rehash target extent is too
// small for the live entries
func NewErrRehashOverflow(oldCapacity, targetCapacity int) error {
	return errors.NewWithContext(ErrCodeRehashOverflow, msgRehashOverflow, map[string]interface{}{
		"old_capacity":    oldCapacity,
		"target_capacity": targetCapacity,
	})
}

// =============================================================================
// STREAM ERRORS
// =============================================================================

// NewErrStreamClosed creates an error when work is submitted to a closed stream
func NewErrStreamClosed(operation string) error {
	return errors.NewWithField(ErrCodeStreamClosed, msgStreamClosed, "operation", operation)
}

// =============================================================================
// INTERNAL ERRORS
// =============================================================================

// NewErrInternal creates a generic internal error
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithContext("operation", operation).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("warning")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsCapacityExhausted checks if error reports a full table
func IsCapacityExhausted(err error) bool {
	return errors.HasCode(err, ErrCodeCapacityExhausted)
}

// IsOutputTruncated checks if error reports a too-small destination
func IsOutputTruncated(err error) bool {
	return errors.HasCode(err, ErrCodeOutputTruncated)
}

// IsStreamClosed checks if error reports submission to a closed stream
func IsStreamClosed(err error) bool {
	return errors.HasCode(err, ErrCodeStreamClosed)
}

// IsConfigError checks if error is a configuration error
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidConfig || code == ErrCodeInvalidCapacity ||
			code == ErrCodeInvalidLoadFactor || code == ErrCodeInvalidWindowSize ||
			code == ErrCodeInvalidCGSize || code == ErrCodeSentinelCollision ||
			code == ErrCodeInvalidProbing
	}
	return false
}

// IsOperationError checks if error is an operation error
func IsOperationError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeEraseDisabled || code == ErrCodeCapacityExhausted ||
			code == ErrCodeOutputTruncated || code == ErrCodeLengthMismatch ||
			code == ErrCodeRehashOverflow
	}
	return false
}

// IsRetryable checks if the error can be retried
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var xerr *errors.Error
	if goerrors.As(err, &xerr) {
		return xerr.Context
	}
	return nil
}
