// Package records maintains the local view of the on-ledger record set: the
// cache refresh cycle, lookups, search, and the dashboard aggregates.
package records

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"genescreen/internal/ledger"
	screeningmetrics "genescreen/internal/screening/metrics"
	"genescreen/internal/screening/models"
	dErrors "genescreen/pkg/domain-errors"
	"genescreen/pkg/platform/audit"
	"genescreen/pkg/platform/sentinel"
	"genescreen/pkg/requestcontext"
)

// fetchConcurrency bounds parallel per-record reads during a refresh.
const fetchConcurrency = 8

// Store is the record cache the service refreshes and reads.
type Store interface {
	ReplaceAll(ctx context.Context, records []models.ScreeningRecord) error
	Find(ctx context.Context, id int64) (*models.ScreeningRecord, error)
	List(ctx context.Context) ([]models.ScreeningRecord, error)
}

// Stats are the dashboard aggregates.
type Stats struct {
	Total         int     `json:"total"`
	Verified      int     `json:"verified"`
	AverageHint   float64 `json:"averageHint"`
	HighRiskCount int     `json:"highRiskCount"`
}

// Service is the read side of the screening module.
type Service struct {
	reader  ledger.Reader
	store   Store
	logger  *slog.Logger
	metrics *screeningmetrics.Metrics
	audit   audit.Emitter
}

func NewService(reader ledger.Reader, store Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{reader: reader, store: store, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures optional collaborators.
type Option func(*Service)

func WithMetrics(m *screeningmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAudit(a audit.Emitter) Option {
	return func(s *Service) { s.audit = a }
}

// Refresh re-reads the full record set from the ledger and atomically
// replaces the cache. On failure the cache keeps its previous contents; a
// failed refresh never masquerades as an empty ledger.
//
// Individual record reads that fail are skipped with a warning; only a failed
// id listing (or snapshot write) aborts the refresh.
func (s *Service) Refresh(ctx context.Context) error {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveRefreshDuration(time.Since(start))
		}
	}()

	ids, err := s.reader.GetAllBusinessIDs(ctx)
	if err != nil {
		s.noteRefreshFailure(ctx, err)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load records from ledger")
	}

	now := requestcontext.Now(ctx)
	results := make([]*models.ScreeningRecord, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, businessID := range ids {
		g.Go(func() error {
			data, err := s.reader.GetBusinessData(gctx, businessID)
			if err != nil {
				// One bad entry must not hide the rest of the ledger.
				s.logger.WarnContext(gctx, "skipping unreadable record",
					"business_id", businessID,
					"error", err,
				)
				return nil
			}
			record := models.RecordFromBusinessData(businessID, data, now)
			results[i] = &record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.noteRefreshFailure(ctx, err)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load records from ledger")
	}

	records := make([]models.ScreeningRecord, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}

	if err := s.store.ReplaceAll(ctx, records); err != nil {
		s.noteRefreshFailure(ctx, err)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to update record cache")
	}
	return nil
}

// List returns cached records, optionally filtered by a case-insensitive
// name/business-id match.
func (s *Service) List(ctx context.Context, query string) ([]models.ScreeningRecord, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read record cache")
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return records, nil
	}
	var out []models.ScreeningRecord
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), query) ||
			strings.Contains(strings.ToLower(r.BusinessID), query) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Get returns one cached record by its stable numeric id.
func (s *Service) Get(ctx context.Context, id int64) (*models.ScreeningRecord, error) {
	record, err := s.store.Find(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "screening record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read record cache")
	}
	return record, nil
}

// Stats computes the dashboard aggregates over the cached set.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read record cache")
	}

	stats := &Stats{Total: len(records)}
	if len(records) == 0 {
		return stats, nil
	}
	var hintSum int
	for _, r := range records {
		if r.IsVerified {
			stats.Verified++
		}
		hintSum += r.DiseaseCode
		if r.DiseaseCode > 7 {
			stats.HighRiskCount++
		}
	}
	stats.AverageHint = float64(hintSum) / float64(len(records))
	return stats, nil
}

func (s *Service) noteRefreshFailure(ctx context.Context, cause error) {
	if s.metrics != nil {
		s.metrics.IncrementRefreshFailures()
	}
	s.logger.ErrorContext(ctx, "record refresh failed", "error", cause)
	if s.audit != nil {
		_ = s.audit.Emit(ctx, audit.Event{
			Action:    string(audit.EventCacheRefreshFailed),
			Reason:    cause.Error(),
			RequestID: requestcontext.RequestID(ctx),
		})
	}
}
