// Package submit coordinates the submission pipeline: validate, encrypt,
// transact, await finality, refresh. Each attempt mints a fresh ledger
// identity, so retries create new records instead of tripping duplicate
// detection; the journal records every attempt for the operator.
package submit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"genescreen/internal/fhe"
	"genescreen/internal/ledger"
	screeningmetrics "genescreen/internal/screening/metrics"
	"genescreen/internal/screening/models"
	"genescreen/internal/screening/store/journal"
	dErrors "genescreen/pkg/domain-errors"
	"genescreen/pkg/platform/audit"
	"genescreen/pkg/platform/sentinel"
	"genescreen/pkg/requestcontext"
)

// DefaultFinalityTimeout bounds the wait for transaction confirmation.
const DefaultFinalityTimeout = 2 * time.Minute

// Phase reports submission progress to interactive callers.
type Phase string

const (
	PhaseEncrypting           Phase = "encrypting"
	PhaseAwaitingConfirmation Phase = "awaiting-confirmation"
)

// ProgressFunc receives phase transitions during a submission. May be nil.
type ProgressFunc func(Phase)

// Journal records submission attempts and their outcomes.
type Journal interface {
	Append(ctx context.Context, attempt journal.Attempt) error
	MarkOutcome(ctx context.Context, id uuid.UUID, status journal.AttemptStatus, reason, txHash string) error
}

// Refresher re-syncs the record cache after a confirmed write.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Result is the outcome of a successful submission.
type Result struct {
	BusinessID string `json:"businessId"`
	TxHash     string `json:"txHash"`
}

// Service is the submission coordinator.
type Service struct {
	gateway         *fhe.Gateway
	writer          ledger.Writer
	journal         Journal
	refresher       Refresher
	logger          *slog.Logger
	metrics         *screeningmetrics.Metrics
	audit           audit.Emitter
	tracer          trace.Tracer
	targetContract  string
	finalityTimeout time.Duration
}

func NewService(gateway *fhe.Gateway, writer ledger.Writer, jrnl Journal, refresher Refresher, targetContract string, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		gateway:         gateway,
		writer:          writer,
		journal:         jrnl,
		refresher:       refresher,
		targetContract:  targetContract,
		logger:          logger,
		tracer:          otel.Tracer("genescreen/submit"),
		finalityTimeout: DefaultFinalityTimeout,
	}
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

func WithFinalityTimeout(d time.Duration) Option {
	return func(s *Service) { s.finalityTimeout = d }
}

// Submit runs one submission attempt end to end. The pipeline is strictly
// ordered: validation fails before any network call, encryption before the
// transaction, finality before the cache refresh. A fresh business id is
// minted per call, so Submit is deliberately not idempotent.
func (s *Service) Submit(ctx context.Context, req models.SubmitRequest, progress ProgressFunc) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "screening.submit")
	defer span.End()

	account := requestcontext.Account(ctx)
	if account == "" {
		return nil, dErrors.New(dErrors.CodeNotConnected, "no account connected")
	}

	input, err := req.Parse()
	if err != nil {
		return nil, err
	}

	businessID := models.NewBusinessID(requestcontext.Now(ctx))
	span.SetAttributes(attribute.String("business_id", businessID))

	attempt := journal.Attempt{
		ID:          uuid.New(),
		BusinessID:  businessID,
		Account:     account,
		Name:        input.Name,
		DiseaseCode: input.DiseaseCode,
		Status:      journal.StatusStarted,
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := s.journal.Append(ctx, attempt); err != nil {
		s.logger.WarnContext(ctx, "failed to journal submission attempt",
			"business_id", businessID,
			"error", err,
		)
	}

	result, err := s.run(ctx, account, businessID, input, progress)
	if err != nil {
		s.finish(ctx, attempt.ID, journal.StatusFailed, string(dErrors.CodeOf(err)), "")
		if s.metrics != nil {
			s.metrics.IncrementSubmissionFailures()
		}
		s.emit(ctx, audit.EventScreeningSubmitFailed, account, businessID, dErrors.MessageOf(err), "")
		return nil, err
	}

	s.finish(ctx, attempt.ID, journal.StatusSucceeded, "", result.TxHash)
	if s.metrics != nil {
		s.metrics.IncrementSubmissions()
	}
	s.emit(ctx, audit.EventScreeningSubmitted, account, businessID, "", result.TxHash)

	// Cache refresh is best effort; the record is on the ledger regardless
	// and the next refresh will pick it up.
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.WarnContext(ctx, "post-submit refresh failed",
			"business_id", businessID,
			"error", err,
		)
	}
	return result, nil
}

func (s *Service) run(ctx context.Context, account, businessID string, input *models.SubmitInput, progress ProgressFunc) (*Result, error) {
	report(progress, PhaseEncrypting)
	payload, err := s.gateway.Encrypt(ctx, s.targetContract, account, input.RiskLevel)
	if err != nil {
		return nil, err
	}

	tx, err := s.writer.CreateBusinessData(ctx,
		businessID, input.Name,
		payload.Ciphertext, payload.Proof,
		int64(input.DiseaseCode), 0,
		models.Category,
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrUserRejected) {
			return nil, dErrors.Wrap(err, dErrors.CodeUserRejected, "transaction rejected by account")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeTransactionFailed, "failed to submit screening record")
	}

	report(progress, PhaseAwaitingConfirmation)
	waitCtx, cancel := context.WithTimeout(ctx, s.finalityTimeout)
	defer cancel()
	if err := tx.Wait(waitCtx); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTransactionFailed, "screening record transaction not confirmed")
	}

	return &Result{BusinessID: businessID, TxHash: tx.Hash()}, nil
}

func (s *Service) finish(ctx context.Context, id uuid.UUID, status journal.AttemptStatus, reason, txHash string) {
	if err := s.journal.MarkOutcome(ctx, id, status, reason, txHash); err != nil {
		s.logger.WarnContext(ctx, "failed to journal submission outcome",
			"attempt_id", id,
			"error", err,
		)
	}
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, account, businessID, reason, txHash string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Emit(ctx, audit.Event{
		Account:    account,
		BusinessID: businessID,
		Action:     string(action),
		Reason:     reason,
		TxHash:     txHash,
		RequestID:  requestcontext.RequestID(ctx),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", action, "error", err)
	}
}

func report(progress ProgressFunc, phase Phase) {
	if progress != nil {
		progress(phase)
	}
}
