// Package domainerrors provides coded errors for the service's error taxonomy.
//
// Stores and external clients return sentinel errors (pkg/platform/sentinel);
// services translate those into coded errors; transport maps codes onto HTTP
// statuses. Nothing in this taxonomy is fatal to the process.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for callers and transport.
type Code string

const (
	// Generic codes.
	CodeBadRequest         Code = "bad_request"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInternal           Code = "internal"
	CodeUnavailable        Code = "unavailable"
	CodeInvariantViolation Code = "invariant_violation"

	// Screening protocol codes.
	//
	// CodeNotConnected: no account attached to the request context.
	// CodeNotInitialized: the FHE subsystem has not reached the ready phase.
	// CodeUserRejected: the account declined to sign a transaction.
	// CodeAlreadyVerified: not a true failure; the record was verified
	// concurrently and the stored clear value is authoritative.
	CodeNotConnected      Code = "not_connected"
	CodeNotInitialized    Code = "not_initialized"
	CodeUserRejected      Code = "user_rejected"
	CodeEncryptionFailed  Code = "encryption_failed"
	CodeProofFailed       Code = "proof_failed"
	CodeTransactionFailed Code = "transaction_failed"
	CodeAlreadyVerified   Code = "already_verified"
)

// Error carries a code, a user-safe message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is/As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.cause
		if err == nil {
			break
		}
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability in handlers.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost user-safe message, or a generic fallback.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// ToHTTPStatus maps a code to its HTTP response status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeNotConnected:
		return http.StatusUnauthorized
	case CodeForbidden, CodeUserRejected:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeNotInitialized, CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeEncryptionFailed, CodeProofFailed, CodeTransactionFailed:
		return http.StatusBadGateway
	case CodeAlreadyVerified:
		// Callers treat this as success with the stored value; handlers that
		// surface it directly report the conflict-free 200 themselves.
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
