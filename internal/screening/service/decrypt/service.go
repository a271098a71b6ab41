// Package decrypt coordinates the decryption-verification protocol: per-record
// exclusivity, the off-chain proof request, the on-chain reveal transaction,
// and the post-confirmation cache sync. The ledger enforces the one-time
// reveal; this coordinator's job is to lose races gracefully.
package decrypt

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"genescreen/internal/fhe"
	"genescreen/internal/ledger"
	screeningmetrics "genescreen/internal/screening/metrics"
	"genescreen/internal/screening/models"
	dErrors "genescreen/pkg/domain-errors"
	"genescreen/pkg/platform/audit"
	"genescreen/pkg/platform/keylock"
	"genescreen/pkg/platform/sentinel"
	"genescreen/pkg/requestcontext"
)

// Protocol stage timeouts. Proof generation runs off-chain and can stall
// indefinitely without a bound; finality covers the reveal transaction.
const (
	DefaultProofTimeout    = 5 * time.Minute
	DefaultFinalityTimeout = 2 * time.Minute
)

// Records is the read side the coordinator consults and re-syncs.
type Records interface {
	Get(ctx context.Context, id int64) (*models.ScreeningRecord, error)
	Refresh(ctx context.Context) error
}

// Result is the outcome of a decryption request. AlreadyVerified reports that
// the value came from an earlier verification rather than this attempt.
type Result struct {
	RecordID        int64  `json:"recordId"`
	BusinessID      string `json:"businessId"`
	Value           int    `json:"value"`
	AlreadyVerified bool   `json:"alreadyVerified"`
	TxHash          string `json:"txHash,omitempty"`
}

// Service is the decryption coordinator.
type Service struct {
	sdk             fhe.SDK
	lifecycle       *fhe.Lifecycle
	reader          ledger.Reader
	writer          ledger.Writer
	records         Records
	locks           *keylock.KeyLock
	logger          *slog.Logger
	metrics         *screeningmetrics.Metrics
	audit           audit.Emitter
	tracer          trace.Tracer
	targetContract  string
	proofTimeout    time.Duration
	finalityTimeout time.Duration
}

func NewService(sdk fhe.SDK, lifecycle *fhe.Lifecycle, reader ledger.Reader, writer ledger.Writer, records Records, targetContract string, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		sdk:             sdk,
		lifecycle:       lifecycle,
		reader:          reader,
		writer:          writer,
		records:         records,
		locks:           keylock.New(),
		logger:          logger,
		tracer:          otel.Tracer("genescreen/decrypt"),
		targetContract:  targetContract,
		proofTimeout:    DefaultProofTimeout,
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

func WithTimeouts(proof, finality time.Duration) Option {
	return func(s *Service) {
		s.proofTimeout = proof
		s.finalityTimeout = finality
	}
}

// Decrypt reveals the encrypted risk level of one record.
//
// Already-verified records short-circuit to the stored value without touching
// the proof protocol; that outcome is a success, not an error. At most one
// attempt per record runs at a time; a second concurrent request is rejected
// with a conflict rather than queued, since the first attempt's outcome will
// make the second redundant.
func (s *Service) Decrypt(ctx context.Context, recordID int64) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "screening.decrypt",
		trace.WithAttributes(attribute.Int64("record_id", recordID)))
	defer span.End()

	account := requestcontext.Account(ctx)
	if account == "" {
		return nil, dErrors.New(dErrors.CodeNotConnected, "no account connected")
	}
	if err := s.lifecycle.RequireReady(); err != nil {
		return nil, err
	}

	record, err := s.records.Get(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.IsVerified && record.DecryptedValue != nil {
		return s.verified(ctx, account, record.ID, record.BusinessID, *record.DecryptedValue), nil
	}

	if !s.locks.TryAcquire(record.BusinessID) {
		if s.metrics != nil {
			s.metrics.IncrementConflicts()
		}
		return nil, dErrors.New(dErrors.CodeConflict, "a decryption for this record is already in progress")
	}
	defer s.locks.Release(record.BusinessID)

	result, err := s.run(ctx, account, record)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncrementDecryptionFailures()
		}
		s.emit(ctx, audit.EventDecryptionFailed, account, record.BusinessID, dErrors.MessageOf(err), "")
		return nil, err
	}
	return result, nil
}

func (s *Service) run(ctx context.Context, account string, record *models.ScreeningRecord) (*Result, error) {
	session := models.NewDecryptionSession(record.ID, record.BusinessID, requestcontext.Now(ctx))
	s.logger.InfoContext(ctx, "decryption session started",
		"session_id", session.ID,
		"business_id", record.BusinessID,
	)
	s.emit(ctx, audit.EventDecryptionRequested, account, record.BusinessID, "", "")

	// The cached view may be stale; a concurrent verifier could have won
	// between the cache read and the lock.
	data, err := s.reader.GetBusinessData(ctx, record.BusinessID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read record from ledger")
	}
	if data.IsVerified {
		return s.verified(ctx, account, record.ID, record.BusinessID, int(data.DecryptedValue)), nil
	}

	handle, err := s.reader.GetEncryptedValue(ctx, record.BusinessID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read ciphertext handle")
	}
	session.Handle = handle
	s.advance(ctx, session, models.SessionProving)

	var tx ledger.Tx
	proofCtx, cancelProof := context.WithTimeout(ctx, s.proofTimeout)
	defer cancelProof()
	result, err := s.sdk.RequestDecryptionProof(proofCtx, []string{handle}, s.targetContract,
		func(clearValuesEncoded, decryptionProof []byte) (ledger.Tx, error) {
			s.advance(ctx, session, models.SessionSubmitted)
			t, err := s.writer.VerifyDecryption(ctx, record.BusinessID, clearValuesEncoded, decryptionProof)
			if err != nil {
				return nil, err
			}
			tx = t
			return t, nil
		})
	if err != nil {
		s.advance(ctx, session, models.SessionFailed)
		switch {
		case errors.Is(err, sentinel.ErrAlreadyVerified):
			// Lost the reveal race. The outcome the caller wants exists on
			// the ledger; fetch it instead of surfacing a failure.
			return s.refetchVerified(ctx, account, record)
		case errors.Is(err, sentinel.ErrUserRejected):
			return nil, dErrors.Wrap(err, dErrors.CodeUserRejected, "decryption transaction rejected by account")
		case errors.Is(err, context.DeadlineExceeded):
			return nil, dErrors.Wrap(err, dErrors.CodeProofFailed, "decryption proof timed out")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeProofFailed, "decryption proof failed")
		}
	}
	if tx == nil {
		s.advance(ctx, session, models.SessionFailed)
		return nil, dErrors.New(dErrors.CodeProofFailed, "proof completed without submitting a transaction")
	}

	waitCtx, cancelWait := context.WithTimeout(ctx, s.finalityTimeout)
	defer cancelWait()
	if err := tx.Wait(waitCtx); err != nil {
		s.advance(ctx, session, models.SessionFailed)
		return nil, dErrors.Wrap(err, dErrors.CodeTransactionFailed, "decryption transaction not confirmed")
	}
	s.advance(ctx, session, models.SessionConfirmed)

	revealed, ok := result.ClearValues[handle]
	if !ok {
		return nil, dErrors.New(dErrors.CodeProofFailed, "proof result missing requested handle")
	}
	value := int(revealed)
	if err := models.ValidateDecryptedValue(value); err != nil {
		s.logger.ErrorContext(ctx, "decrypted value outside declared domain",
			"business_id", record.BusinessID,
			"value", value,
		)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementDecryptions()
	}
	s.emit(ctx, audit.EventDecryptionVerified, account, record.BusinessID, "", tx.Hash())
	s.refresh(ctx, record.BusinessID)

	return &Result{
		RecordID:   record.ID,
		BusinessID: record.BusinessID,
		Value:      value,
		TxHash:     tx.Hash(),
	}, nil
}

// advance moves the session to the next protocol state and logs the
// transition; the log stream is the observable record of the state machine.
func (s *Service) advance(ctx context.Context, session *models.DecryptionSession, status models.SessionStatus) {
	session.Status = status
	s.logger.InfoContext(ctx, "decryption session transition",
		"session_id", session.ID,
		"business_id", session.BusinessID,
		"handle", session.Handle,
		"status", status,
	)
}

// refetchVerified resolves the already-verified race by reading the winner's
// value off the ledger.
func (s *Service) refetchVerified(ctx context.Context, account string, record *models.ScreeningRecord) (*Result, error) {
	data, err := s.reader.GetBusinessData(ctx, record.BusinessID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read verified record from ledger")
	}
	if !data.IsVerified {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "record reported verified but carries no decrypted value")
	}
	return s.verified(ctx, account, record.ID, record.BusinessID, int(data.DecryptedValue)), nil
}

func (s *Service) verified(ctx context.Context, account string, recordID int64, businessID string, value int) *Result {
	if s.metrics != nil {
		s.metrics.IncrementAlreadyVerified()
	}
	s.emit(ctx, audit.EventDecryptionAlreadyVerified, account, businessID, "", "")
	return &Result{
		RecordID:        recordID,
		BusinessID:      businessID,
		Value:           value,
		AlreadyVerified: true,
	}
}

func (s *Service) refresh(ctx context.Context, businessID string) {
	if err := s.records.Refresh(ctx); err != nil {
		s.logger.WarnContext(ctx, "post-decrypt refresh failed",
			"business_id", businessID,
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
