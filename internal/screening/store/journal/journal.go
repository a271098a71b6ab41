// Package journal persists every submission attempt and its outcome. Because
// each attempt mints a fresh ledger identity, a retry after a
// failed-but-partially-applied transaction can leave orphaned records on the
// ledger; the journal is the operator's trail for spotting them.
package journal

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus is the terminal state of one submission attempt.
type AttemptStatus string

const (
	StatusStarted   AttemptStatus = "started"
	StatusSucceeded AttemptStatus = "succeeded"
	StatusFailed    AttemptStatus = "failed"
)

// Attempt is one submission attempt.
type Attempt struct {
	ID          uuid.UUID
	BusinessID  string
	Account     string
	Name        string
	DiseaseCode int
	Status      AttemptStatus
	Reason      string // failure code or empty
	TxHash      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
