package models

import (
	"strconv"
	"strings"
	"time"

	"genescreen/internal/ledger"
	dErrors "genescreen/pkg/domain-errors"
)

// BusinessIDPrefix keys every screening record on the ledger.
const BusinessIDPrefix = "screening-"

// Category is the public classification carried by every create transaction.
const Category = "Genetic Disease Screening"

// Disease codes accepted by the registry.
const (
	MinDiseaseCode = 1
	MaxDiseaseCode = 100
)

// ScreeningRecord is the local view of one on-ledger screening entry.
//
// Invariants:
//   - IsVerified == true implies DecryptedValue is present and immutable
//     thereafter (the ledger enforces the one-time reveal)
//   - DecryptedValue, when present, lies in [1, 10]; a violation indicates a
//     protocol or SDK bug, not a recoverable state
//
// Records are read-only except for the verification transition and are never
// deleted; the local cache drops and re-fetches on refresh.
type ScreeningRecord struct {
	ID             int64  `json:"id"`
	BusinessID     string `json:"businessId"`
	Name           string `json:"name"`
	DiseaseCode    int    `json:"diseaseCode"`   // public value 1
	RiskLevelHint  int    `json:"riskLevelHint"` // public value 2, 0 when absent
	CreatedAt      int64  `json:"createdAt"`     // unix seconds
	Creator        string `json:"creator"`
	IsVerified     bool   `json:"isVerified"`
	DecryptedValue *int   `json:"decryptedValue,omitempty"`
	// EncryptedValueHandle references the ciphertext on the ledger. Fetched
	// lazily by the decryption protocol; empty until then.
	EncryptedValueHandle string `json:"-"`
}

// NewBusinessID mints a fresh timestamp-derived ledger key. Every submission
// attempt gets a new identity; retrying a failed submit therefore creates a
// new record rather than hitting duplicate detection.
func NewBusinessID(now time.Time) string {
	return BusinessIDPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// ParseRecordID derives the stable numeric identity from a business id,
// falling back to the given time when the suffix is unparseable.
func ParseRecordID(businessID string, fallback time.Time) int64 {
	suffix := strings.TrimPrefix(businessID, BusinessIDPrefix)
	if id, err := strconv.ParseInt(suffix, 10, 64); err == nil && id > 0 {
		return id
	}
	return fallback.UnixMilli()
}

// RecordFromBusinessData maps the on-chain view into the local model.
func RecordFromBusinessData(businessID string, data *ledger.BusinessData, now time.Time) ScreeningRecord {
	record := ScreeningRecord{
		ID:            ParseRecordID(businessID, now),
		BusinessID:    businessID,
		Name:          data.Name,
		DiseaseCode:   int(data.PublicValue1),
		RiskLevelHint: int(data.PublicValue2),
		CreatedAt:     data.Timestamp,
		Creator:       data.Creator,
		IsVerified:    data.IsVerified,
	}
	if data.IsVerified {
		v := int(data.DecryptedValue)
		record.DecryptedValue = &v
	}
	return record
}

// ValidateDecryptedValue checks the declared input domain of a revealed clear
// value. Out-of-domain values are invariant violations: the ciphertext could
// only have been produced from 1..10.
func ValidateDecryptedValue(value int) error {
	if value < 1 || value > 10 {
		return dErrors.New(dErrors.CodeInvariantViolation, "decrypted value outside declared domain")
	}
	return nil
}
