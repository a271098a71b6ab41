package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus tracks an in-flight decryption attempt through the protocol.
type SessionStatus string

const (
	SessionRequested SessionStatus = "requested"
	SessionProving   SessionStatus = "proving"
	SessionSubmitted SessionStatus = "submitted"
	SessionConfirmed SessionStatus = "confirmed"
	SessionFailed    SessionStatus = "failed"
)

// DecryptionSession is ephemeral state for one decryption attempt. It is not
// persisted; it exists only for the duration of one coordinator invocation.
// At most one session per record may be active at a time (enforced by the
// coordinator's per-record lock).
type DecryptionSession struct {
	ID         uuid.UUID
	RecordID   int64
	BusinessID string
	Handle     string
	Status     SessionStatus
	StartedAt  time.Time
}

func NewDecryptionSession(recordID int64, businessID string, now time.Time) *DecryptionSession {
	return &DecryptionSession{
		ID:         uuid.New(),
		RecordID:   recordID,
		BusinessID: businessID,
		Status:     SessionRequested,
		StartedAt:  now,
	}
}
