package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"genescreen/internal/fhe"
	"genescreen/internal/fhe/sim"
	jwttoken "genescreen/internal/jwt_token"
	ledgermemory "genescreen/internal/ledger/memory"
	"genescreen/internal/screening/handler"
	"genescreen/internal/screening/models"
	"genescreen/internal/screening/service/decrypt"
	"genescreen/internal/screening/service/records"
	"genescreen/internal/screening/service/submit"
	"genescreen/internal/screening/store/journal"
	recordstore "genescreen/internal/screening/store/record"
	"genescreen/pkg/testutil"
)

const testContract = "0x4444444444444444444444444444444444444444"

// The suite serves the real stack over httptest: simulator SDK, in-process
// ledger, and the actual middleware chain including auth.
type HandlerSuite struct {
	suite.Suite
	router *chi.Mux
	jwt    *jwttoken.JWTService
	chain  *ledgermemory.Ledger
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)

	sdk := sim.New()
	lifecycle := fhe.NewLifecycle(sdk, logger)
	s.Require().NoError(lifecycle.Initialize(context.Background()))
	gateway := fhe.NewGateway(sdk, lifecycle, logger)

	s.chain = ledgermemory.New()
	recordsSvc := records.NewService(s.chain, recordstore.NewInMemoryStore(), logger)
	submitSvc := submit.NewService(gateway, s.chain, journal.NewInMemoryStore(), recordsSvc, testContract, logger)
	decryptSvc := decrypt.NewService(sdk, lifecycle, s.chain, s.chain, recordsSvc, testContract, logger)

	s.jwt = jwttoken.NewJWTService("test-signing-key", "genescreen", "genescreen-api")

	s.router = chi.NewRouter()
	handler.New(recordsSvc, submitSvc, decryptSvc, logger, nil, s.jwt, "").Register(s.router)
}

func (s *HandlerSuite) authHeader() string {
	token, err := s.jwt.GenerateAccessToken("0xabc", time.Hour)
	s.Require().NoError(err)
	return "Bearer " + token
}

func (s *HandlerSuite) submitRecord() submit.Result {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/screenings",
		models.SubmitRequest{Name: "BRCA1 panel", DiseaseCode: "42", RiskLevel: "7"})
	req.Header.Set("Authorization", s.authHeader())

	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusCreated, rr.Code, rr.Body.String())

	var result submit.Result
	testutil.DecodeJSON(s.T(), rr, &result)
	return result
}

func (s *HandlerSuite) TestListEmpty() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/screenings"))
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq("[]", rr.Body.String())
}

func (s *HandlerSuite) TestSubmitRequiresAuth() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/screenings",
		models.SubmitRequest{Name: "x", DiseaseCode: "42", RiskLevel: "7"})
	rr := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusUnauthorized, rr.Code)

	ids, err := s.chain.GetAllBusinessIDs(context.Background())
	s.Require().NoError(err)
	s.Empty(ids)
}

func (s *HandlerSuite) TestSubmitAndList() {
	result := s.submitRecord()
	s.NotEmpty(result.BusinessID)
	s.NotEmpty(result.TxHash)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/screenings"))
	s.Require().Equal(http.StatusOK, rr.Code)

	var list []models.ScreeningRecord
	testutil.DecodeJSON(s.T(), rr, &list)
	s.Require().Len(list, 1)
	s.Equal("BRCA1 panel", list[0].Name)
	s.Equal(42, list[0].DiseaseCode)
	s.False(list[0].IsVerified)
}

func (s *HandlerSuite) TestSubmitInvalidBody() {
	s.Run("malformed json", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/screenings")
		req.Header.Set("Authorization", s.authHeader())
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusBadRequest, rr.Code)
	})

	s.Run("out-of-range risk level", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/screenings",
			models.SubmitRequest{Name: "x", DiseaseCode: "42", RiskLevel: "11"})
		req.Header.Set("Authorization", s.authHeader())
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

func (s *HandlerSuite) TestGetRecord() {
	result := s.submitRecord()
	record := s.getRecord(result.BusinessID)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet,
		"/screenings/"+recordPath(record.ID)))
	s.Equal(http.StatusOK, rr.Code)

	s.Run("unknown id", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/screenings/999"))
		s.Equal(http.StatusNotFound, rr.Code)
	})

	s.Run("malformed id", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/screenings/abc"))
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

func (s *HandlerSuite) TestDecrypt() {
	result := s.submitRecord()
	record := s.getRecord(result.BusinessID)

	req := testutil.NewRequest(s.T(), http.MethodPost, "/screenings/"+recordPath(record.ID)+"/decrypt")
	req.Header.Set("Authorization", s.authHeader())
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

	var out decrypt.Result
	testutil.DecodeJSON(s.T(), rr, &out)
	s.Equal(7, out.Value)
	s.False(out.AlreadyVerified)

	s.Run("repeat is already verified", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/screenings/"+recordPath(record.ID)+"/decrypt")
		req.Header.Set("Authorization", s.authHeader())
		rr := testutil.DoRequest(s.router, req)
		s.Require().Equal(http.StatusOK, rr.Code)

		var again decrypt.Result
		testutil.DecodeJSON(s.T(), rr, &again)
		s.True(again.AlreadyVerified)
		s.Equal(7, again.Value)
	})

	s.Run("requires auth", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/screenings/"+recordPath(record.ID)+"/decrypt")
		rr := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusUnauthorized, rr.Code)
	})
}

func (s *HandlerSuite) TestAnalysis() {
	result := s.submitRecord()
	record := s.getRecord(result.BusinessID)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet,
		"/screenings/"+recordPath(record.ID)+"/analysis"))
	s.Require().Equal(http.StatusOK, rr.Code)

	var report map[string]any
	testutil.DecodeJSON(s.T(), rr, &report)
	s.Contains(report, "riskScore")
	s.Contains(report, "preventionScore")

	s.Run("local override out of range", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet,
			"/screenings/"+recordPath(record.ID)+"/analysis?local=12"))
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

func (s *HandlerSuite) TestStats() {
	s.submitRecord()

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/screenings/stats"))
	s.Require().Equal(http.StatusOK, rr.Code)

	var stats records.Stats
	testutil.DecodeJSON(s.T(), rr, &stats)
	s.Equal(1, stats.Total)
	s.Equal(0, stats.Verified)
	s.Equal(1, stats.HighRiskCount)
}

func (s *HandlerSuite) TestRefresh() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/screenings/refresh"))
	s.Equal(http.StatusNoContent, rr.Code)
}

func (s *HandlerSuite) getRecord(businessID string) models.ScreeningRecord {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/screenings"))
	s.Require().Equal(http.StatusOK, rr.Code)
	var list []models.ScreeningRecord
	testutil.DecodeJSON(s.T(), rr, &list)
	for _, r := range list {
		if r.BusinessID == businessID {
			return r
		}
	}
	s.FailNowf("record not found", "business id %s", businessID)
	return models.ScreeningRecord{}
}

func recordPath(id int64) string {
	return strconv.FormatInt(id, 10)
}

// budgetRecorder implements the handler's service interfaces and captures how
// much context budget each route hands to the services.
type budgetRecorder struct {
	list    time.Duration
	submit  time.Duration
	decrypt time.Duration
}

func remainingBudget(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return time.Until(deadline)
}

func (r *budgetRecorder) Refresh(context.Context) error { return nil }

func (r *budgetRecorder) List(ctx context.Context, _ string) ([]models.ScreeningRecord, error) {
	r.list = remainingBudget(ctx)
	return nil, nil
}

func (r *budgetRecorder) Get(_ context.Context, id int64) (*models.ScreeningRecord, error) {
	return &models.ScreeningRecord{ID: id}, nil
}

func (r *budgetRecorder) Stats(context.Context) (*records.Stats, error) {
	return &records.Stats{}, nil
}

func (r *budgetRecorder) Submit(ctx context.Context, _ models.SubmitRequest, _ submit.ProgressFunc) (*submit.Result, error) {
	r.submit = remainingBudget(ctx)
	return &submit.Result{}, nil
}

func (r *budgetRecorder) Decrypt(ctx context.Context, _ int64) (*decrypt.Result, error) {
	r.decrypt = remainingBudget(ctx)
	return &decrypt.Result{}, nil
}

// TestRouteTimeoutBudgets pins the two timeout tiers: reads keep a short
// budget, while the protocol routes must be able to sit out the coordinators'
// proof and finality waits.
func TestRouteTimeoutBudgets(t *testing.T) {
	rec := &budgetRecorder{}
	logger := slog.New(slog.DiscardHandler)
	jwtSvc := jwttoken.NewJWTService("test-signing-key", "genescreen", "genescreen-api")

	router := chi.NewRouter()
	handler.New(rec, rec, rec, logger, nil, jwtSvc, "").Register(router)

	token, err := jwtSvc.GenerateAccessToken("0xabc", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/screenings"))
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	if rec.list <= 0 || rec.list > 30*time.Second {
		t.Errorf("list budget = %v, want a positive budget of at most 30s", rec.list)
	}

	req := testutil.NewJSONRequest(t, http.MethodPost, "/screenings",
		models.SubmitRequest{Name: "x", DiseaseCode: "42", RiskLevel: "7"})
	req.Header.Set("Authorization", "Bearer "+token)
	rr = testutil.DoRequest(router, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("submit status = %d", rr.Code)
	}
	if rec.submit <= submit.DefaultFinalityTimeout {
		t.Errorf("submit budget = %v, must exceed the finality wait %v", rec.submit, submit.DefaultFinalityTimeout)
	}

	req = testutil.NewRequest(t, http.MethodPost, "/screenings/1/decrypt")
	req.Header.Set("Authorization", "Bearer "+token)
	rr = testutil.DoRequest(router, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("decrypt status = %d", rr.Code)
	}
	minBudget := decrypt.DefaultProofTimeout + decrypt.DefaultFinalityTimeout
	if rec.decrypt <= minBudget {
		t.Errorf("decrypt budget = %v, must exceed the proof and finality waits %v", rec.decrypt, minBudget)
	}
}
