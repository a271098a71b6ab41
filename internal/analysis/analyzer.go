// Package analysis derives risk reports from screening records. It is pure
// presentation math: no state, no transport, fed only by already-resolved
// values so it stays deterministic and testable without network mocks.
package analysis

import (
	"math"
	"time"

	"genescreen/internal/screening/models"
)

// DefaultRiskHint substitutes for a missing public hint so a report can be
// rendered before any decryption has happened.
const DefaultRiskHint = 5

// thirtyDays is the decay window of the time factor, in seconds.
const thirtyDays = 60 * 60 * 24 * 30

// Report is the derived risk breakdown for one record.
type Report struct {
	RiskScore       int     `json:"riskScore"`
	Probability     int     `json:"probability"`
	Severity        int     `json:"severity"`
	Confidence      float64 `json:"confidence"`
	PreventionScore int     `json:"preventionScore"`
}

// ResolveRisk picks the risk value a report is computed from. Precedence:
// verified on-chain value, then a locally decrypted override, then the public
// hint, then the public disease code, then DefaultRiskHint. The disease code
// is the only public value guaranteed to be populated, so an unverified record
// still yields a record-specific report.
func ResolveRisk(record models.ScreeningRecord, localValue *int) int {
	if record.IsVerified && record.DecryptedValue != nil {
		return *record.DecryptedValue
	}
	if localValue != nil {
		return *localValue
	}
	if record.RiskLevelHint > 0 {
		return record.RiskLevelHint
	}
	if record.DiseaseCode > 0 {
		return record.DiseaseCode
	}
	return DefaultRiskHint
}

// Analyze computes the derived risk report for a record, optionally using a
// locally decrypted override value. Identical inputs always produce identical
// output; the caller supplies now so tests can pin the time factor.
func Analyze(record models.ScreeningRecord, localValue *int, now time.Time) Report {
	risk := float64(ResolveRisk(record, localValue))
	diseaseCode := float64(record.DiseaseCode)
	if diseaseCode == 0 {
		diseaseCode = DefaultRiskHint
	}

	baseRisk := math.Min(100, math.Round((risk*0.7+diseaseCode*0.3)*10))
	age := float64(now.Unix() - record.CreatedAt)
	timeFactor := clamp(1-age/thirtyDays, 0.7, 1.3)

	return Report{
		RiskScore:       int(math.Round(baseRisk * timeFactor)),
		Probability:     int(math.Round(risk*8 + math.Log(diseaseCode+1)*2)),
		Severity:        int(math.Round(diseaseCode*6 + risk*4)),
		Confidence:      clamp(100-(risk*0.1+diseaseCode*2), 60, 95),
		PreventionScore: int(math.Min(95, math.Round((100-risk)*0.8+diseaseCode*0.2))),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
