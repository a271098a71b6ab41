package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and ledger/SDK clients
// return these (optionally wrapped) so services can translate them into domain
// errors without string-matching messages.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store or on the ledger
// - ErrAlreadyVerified: the record's one-time decryption already happened
// - ErrUserRejected: the account declined to sign the transaction
// - ErrNotInitialized: the FHE subsystem has not reached the ready phase
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrAlreadyVerified = errors.New("already verified")
	ErrUserRejected    = errors.New("user rejected")
	ErrNotInitialized  = errors.New("not initialized")
	ErrInvalidState    = errors.New("invalid state")
	ErrUnavailable     = errors.New("unavailable")
)
