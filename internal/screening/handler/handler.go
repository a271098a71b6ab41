// Package handler exposes the screening module over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"genescreen/internal/analysis"
	"genescreen/internal/platform/metrics"
	"genescreen/internal/platform/middleware"
	"genescreen/internal/screening/models"
	"genescreen/internal/screening/service/decrypt"
	"genescreen/internal/screening/service/records"
	"genescreen/internal/screening/service/submit"
	"genescreen/internal/transport/http/shared"
	dErrors "genescreen/pkg/domain-errors"
	"genescreen/pkg/requestcontext"
)

const (
	requestTimeout = 30 * time.Second
	// protocolTimeout bounds the submit and decrypt routes, which wait on
	// proof generation and transaction finality. It must exceed the
	// coordinators' combined stage budgets or those budgets are unreachable.
	protocolTimeout = 8 * time.Minute
)

// RecordsService is the read side consumed by the handler.
type RecordsService interface {
	Refresh(ctx context.Context) error
	List(ctx context.Context, query string) ([]models.ScreeningRecord, error)
	Get(ctx context.Context, id int64) (*models.ScreeningRecord, error)
	Stats(ctx context.Context) (*records.Stats, error)
}

// SubmitService runs the submission pipeline.
type SubmitService interface {
	Submit(ctx context.Context, req models.SubmitRequest, progress submit.ProgressFunc) (*submit.Result, error)
}

// DecryptService runs the decryption-verification protocol.
type DecryptService interface {
	Decrypt(ctx context.Context, recordID int64) (*decrypt.Result, error)
}

// Handler handles screening endpoints.
type Handler struct {
	logger       *slog.Logger
	records      RecordsService
	submit       SubmitService
	decrypt      DecryptService
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
	apiKeyHash   string
}

func New(
	records RecordsService,
	submit SubmitService,
	decrypt DecryptService,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator,
	apiKeyHash string) *Handler {
	return &Handler{
		logger:       logger,
		records:      records,
		submit:       submit,
		decrypt:      decrypt,
		metrics:      metrics,
		jwtValidator: jwtValidator,
		apiKeyHash:   apiKeyHash,
	}
}

// Register mounts the screening routes. Reads are open; writes require an
// authenticated account since they sign ledger transactions.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.LatencyMiddleware(h.metrics))

	router.Group(func(public chi.Router) {
		public.Use(middleware.Timeout(requestTimeout))
		public.Get("/screenings", h.handleList)
		public.Get("/screenings/stats", h.handleStats)
		public.Get("/screenings/{id}", h.handleGet)
		public.Get("/screenings/{id}/analysis", h.handleAnalysis)
		public.Post("/screenings/refresh", h.handleRefresh)
	})

	// The protocol routes wait on the FHE proof and chain finality, so they
	// carry their own, longer budget.
	router.Group(func(auth chi.Router) {
		auth.Use(middleware.Timeout(protocolTimeout))
		auth.Use(middleware.RequireAuth(h.jwtValidator, h.apiKeyHash, h.logger))
		auth.Post("/screenings", h.handleSubmit)
		auth.Post("/screenings/{id}/decrypt", h.handleDecrypt)
	})

	r.Mount("/", router)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.records.List(ctx, r.URL.Query().Get("q"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list records",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	if list == nil {
		list = []models.ScreeningRecord{}
	}
	shared.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.records.Stats(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := recordID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	record, err := h.records.Get(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := recordID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	record, err := h.records.Get(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	// ?local= lets a caller that already decrypted the value client-side get
	// an analysis without waiting for on-chain verification.
	var local *int
	if raw := r.URL.Query().Get("local"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 10 {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "local value must be an integer between 1 and 10"))
			return
		}
		local = &v
	}

	report := analysis.Analyze(*record, local, requestcontext.Now(ctx))
	shared.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.records.Refresh(ctx); err != nil {
		h.logger.ErrorContext(ctx, "manual refresh failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid submit request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.submit.Submit(ctx, req, nil)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "submission failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := recordID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.decrypt.Decrypt(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "decryption failed",
			"request_id", middleware.GetRequestID(ctx),
			"record_id", id,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func recordID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "record id must be a positive integer")
	}
	return id, nil
}
