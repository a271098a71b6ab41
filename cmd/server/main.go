package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"genescreen/internal/fhe"
	"genescreen/internal/fhe/sim"
	jwttoken "genescreen/internal/jwt_token"
	"genescreen/internal/ledger"
	ledgermemory "genescreen/internal/ledger/memory"
	"genescreen/internal/platform/config"
	"genescreen/internal/platform/httpserver"
	"genescreen/internal/platform/logger"
	platformmetrics "genescreen/internal/platform/metrics"
	"genescreen/internal/platform/redis"
	"genescreen/internal/screening/handler"
	screeningmetrics "genescreen/internal/screening/metrics"
	"genescreen/internal/screening/service/decrypt"
	"genescreen/internal/screening/service/records"
	"genescreen/internal/screening/service/submit"
	"genescreen/internal/screening/store/journal"
	recordstore "genescreen/internal/screening/store/record"
	"genescreen/pkg/platform/audit"
	auditpublisher "genescreen/pkg/platform/audit/publisher"
	auditmemory "genescreen/pkg/platform/audit/store/memory"
	auditpostgres "genescreen/pkg/platform/audit/store/postgres"
	auditworker "genescreen/pkg/platform/audit/worker"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// FHE subsystem. The simulator stands in until a production SDK binding
	// is configured; the lifecycle and protocol semantics are identical.
	sdk := sim.New()
	lifecycle := fhe.NewLifecycle(sdk, log)
	gateway := fhe.NewGateway(sdk, lifecycle, log)

	// The ledger follows the same pattern: the in-process implementation
	// carries full registry contract semantics for local development.
	chain := ledgermemory.New()
	var (
		reader ledger.Reader = chain
		writer ledger.Writer = chain
	)

	// Record cache: Redis when configured, otherwise per-process memory.
	var cache records.Store = recordstore.NewInMemoryStore()
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		cache = recordstore.NewRedisStore(redisClient.Client)
		defer redisClient.Close()
	}

	// Submission journal.
	var attempts submit.Journal = journal.NewInMemoryStore()
	if cfg.Postgres.JournalURL != "" {
		pool, err := pgxpool.New(ctx, cfg.Postgres.JournalURL)
		if err != nil {
			log.Error("journal database unavailable", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		attempts = journal.NewPostgresStore(pool)
	}

	// Audit trail: Kafka fan-out when brokers are configured, otherwise a
	// queryable store (postgres or memory) fed through a background worker.
	var auditor audit.Emitter
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := auditpublisher.NewKafka(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		auditor = kafka
	} else {
		var auditStore audit.Store = auditmemory.NewInMemoryStore()
		if cfg.Postgres.AuditURL != "" {
			db, err := sql.Open("postgres", cfg.Postgres.AuditURL)
			if err != nil {
				log.Error("audit database unavailable", "error", err)
				os.Exit(1)
			}
			defer db.Close()
			auditStore = auditpostgres.New(db)
		}
		queue := auditworker.NewQueue(256)
		go func() {
			if err := auditworker.NewWorker(auditStore, queue.Events()).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("audit worker stopped", "error", err)
			}
		}()
		auditor = queue
	}

	metrics := screeningmetrics.New()
	httpMetrics := platformmetrics.New()

	recordsSvc := records.NewService(reader, cache, log,
		records.WithMetrics(metrics),
		records.WithAudit(auditor),
	)
	submitSvc := submit.NewService(gateway, writer, attempts, recordsSvc, cfg.Ledger.TargetContract, log,
		submit.WithMetrics(metrics),
		submit.WithAudit(auditor),
		submit.WithFinalityTimeout(cfg.Ledger.FinalityTimeout),
	)
	decryptSvc := decrypt.NewService(sdk, lifecycle, reader, writer, recordsSvc, cfg.Ledger.TargetContract, log,
		decrypt.WithMetrics(metrics),
		decrypt.WithAudit(auditor),
		decrypt.WithTimeouts(cfg.Ledger.ProofTimeout, cfg.Ledger.FinalityTimeout),
	)

	// Initialize the FHE subsystem in the background; requests arriving
	// before it is ready fail fast with not_initialized and may retry.
	go func() {
		if err := lifecycle.Initialize(ctx); err != nil {
			log.Error("fhe initialization failed", "error", err)
		}
	}()
	go func() {
		if err := recordsSvc.Refresh(ctx); err != nil {
			log.Warn("initial record refresh failed", "error", err)
		}
	}()

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)

	router := chi.NewRouter()
	handler.New(recordsSvc, submitSvc, decryptSvc, log, httpMetrics, jwtService, cfg.Server.APIKeyHash).Register(router)
	router.Get("/healthz", healthz(lifecycle, redisClient))
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Server.Addr, router)
	log.Info("starting genescreen", "addr", cfg.Server.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

func healthz(lifecycle *fhe.Lifecycle, cache *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phase, lastErr := lifecycle.Phase()
		body := map[string]string{
			"status":    "ok",
			"fhe_phase": string(phase),
		}
		if lastErr != nil {
			body["fhe_error"] = lastErr.Error()
		}
		if cache != nil {
			if err := cache.Health(r.Context()); err != nil {
				body["status"] = "degraded"
				body["cache_error"] = err.Error()
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}
}
