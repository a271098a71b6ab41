package audit

import "time"

// EventCategory classifies audit events by their primary purpose. This
// enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance:
	// the registration and one-time reveal of sensitive screening values.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to monitoring and forensics:
	// rejected signings, failed proofs, repeated decryption attempts.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. These can be sampled with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category   EventCategory
	Timestamp  time.Time
	Account    string // submitting/requesting account address
	BusinessID string // on-ledger record key, when applicable
	Action     string
	Decision   string
	Reason     string
	TxHash     string
	RequestID  string // correlation ID from the request context
}

type AuditEvent string

const (
	// Submission events
	EventScreeningSubmitted    AuditEvent = "screening_submitted"
	EventScreeningSubmitFailed AuditEvent = "screening_submit_failed"

	// Decryption events
	EventDecryptionRequested       AuditEvent = "decryption_requested"
	EventDecryptionVerified        AuditEvent = "decryption_verified"
	EventDecryptionAlreadyVerified AuditEvent = "decryption_already_verified"
	EventDecryptionFailed          AuditEvent = "decryption_failed"

	// Cache events
	EventCacheRefreshFailed AuditEvent = "cache_refresh_failed"
)

// eventCategories maps each audit event to its category; the map is the
// source of truth so producers cannot disagree about routing.
var eventCategories = map[AuditEvent]EventCategory{
	EventScreeningSubmitted: CategoryCompliance,
	EventDecryptionVerified: CategoryCompliance,

	EventScreeningSubmitFailed:     CategorySecurity,
	EventDecryptionFailed:          CategorySecurity,
	EventDecryptionAlreadyVerified: CategorySecurity,

	EventDecryptionRequested: CategoryOperations,
	EventCacheRefreshFailed:  CategoryOperations,
}

// Category returns the routing category for the event, defaulting to
// operations for unknown actions.
func (e AuditEvent) Category() EventCategory {
	if c, ok := eventCategories[e]; ok {
		return c
	}
	return CategoryOperations
}
