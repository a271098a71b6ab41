package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SubmissionsTotal          prometheus.Counter
	SubmissionFailuresTotal   prometheus.Counter
	DecryptionsTotal          prometheus.Counter
	DecryptionFailuresTotal   prometheus.Counter
	DecryptionAlreadyVerified prometheus.Counter
	DecryptionConflictsTotal  prometheus.Counter
	RefreshFailuresTotal      prometheus.Counter
	RefreshDurationSeconds    prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		SubmissionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "genescreen_submissions_total",
			Help: "Total number of screening records successfully submitted",
		}),
		SubmissionFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "genescreen_submission_failures_total",
			Help: "Total number of failed screening submissions",
		}),
		DecryptionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "genescreen_decryptions_total",
			Help: "Total number of decryption verifications confirmed on-chain",
		}),
		DecryptionFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "genescreen_decryption_failures_total",
			Help: "Total number of failed decryption attempts",
		}),
		DecryptionAlreadyVerified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "genescreen_decryption_already_verified_total",
			Help: "Total number of decryption requests short-circuited by an existing verification",
		}),
		DecryptionConflictsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "genescreen_decryption_conflicts_total",
			Help: "Total number of decryption requests rejected because a session was already in flight",
		}),
		RefreshFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "genescreen_record_refresh_failures_total",
			Help: "Total number of failed record cache refreshes",
		}),
		RefreshDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "genescreen_record_refresh_duration_seconds",
			Help:    "Duration of record cache refreshes",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) IncrementSubmissions()        { m.SubmissionsTotal.Inc() }
func (m *Metrics) IncrementSubmissionFailures() { m.SubmissionFailuresTotal.Inc() }
func (m *Metrics) IncrementDecryptions()        { m.DecryptionsTotal.Inc() }
func (m *Metrics) IncrementDecryptionFailures() { m.DecryptionFailuresTotal.Inc() }
func (m *Metrics) IncrementAlreadyVerified()    { m.DecryptionAlreadyVerified.Inc() }
func (m *Metrics) IncrementConflicts()          { m.DecryptionConflictsTotal.Inc() }
func (m *Metrics) IncrementRefreshFailures()    { m.RefreshFailuresTotal.Inc() }
func (m *Metrics) ObserveRefreshDuration(d time.Duration) {
	m.RefreshDurationSeconds.Observe(d.Seconds())
}
