//go:build integration

package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"genescreen/internal/screening/store/journal"
	"genescreen/pkg/platform/sentinel"
	"genescreen/pkg/testutil/containers"
)

const journalSchema = `
CREATE TABLE submission_attempts (
    id           UUID PRIMARY KEY,
    business_id  TEXT NOT NULL,
    account      TEXT NOT NULL,
    name         TEXT NOT NULL,
    disease_code INT  NOT NULL,
    status       TEXT NOT NULL,
    reason       TEXT NOT NULL DEFAULT '',
    tx_hash      TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX submission_attempts_account_idx ON submission_attempts (account, created_at DESC);
`

type PostgresJournalSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	pool     *pgxpool.Pool
	store    *journal.PostgresStore
}

func TestPostgresJournalSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresJournalSuite))
}

func (s *PostgresJournalSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T(), journalSchema)

	pool, err := pgxpool.New(context.Background(), s.postgres.URL)
	s.Require().NoError(err)
	s.pool = pool
	s.store = journal.NewPostgresStore(pool)
}

func (s *PostgresJournalSuite) TearDownSuite() {
	s.pool.Close()
}

func (s *PostgresJournalSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "submission_attempts"))
}

func newAttempt(account string) journal.Attempt {
	return journal.Attempt{
		ID:          uuid.New(),
		BusinessID:  "screening-1700000000001",
		Account:     account,
		Name:        "BRCA1 panel",
		DiseaseCode: 42,
		Status:      journal.StatusStarted,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresJournalSuite) TestAppendAndMarkOutcome() {
	ctx := context.Background()
	attempt := newAttempt("0xabc")
	s.Require().NoError(s.store.Append(ctx, attempt))

	s.Require().NoError(s.store.MarkOutcome(ctx, attempt.ID, journal.StatusSucceeded, "", "0xhash"))

	found, err := s.store.Find(ctx, attempt.ID)
	s.Require().NoError(err)
	s.Equal(journal.StatusSucceeded, found.Status)
	s.Equal("0xhash", found.TxHash)
	s.Equal(42, found.DiseaseCode)
}

func (s *PostgresJournalSuite) TestMarkOutcomeUnknownAttempt() {
	err := s.store.MarkOutcome(context.Background(), uuid.New(), journal.StatusFailed, "x", "")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresJournalSuite) TestListByAccount() {
	ctx := context.Background()
	mine := newAttempt("0xabc")
	other := newAttempt("0xdef")
	s.Require().NoError(s.store.Append(ctx, mine))
	s.Require().NoError(s.store.Append(ctx, other))

	attempts, err := s.store.ListByAccount(ctx, "0xabc")
	s.Require().NoError(err)
	s.Require().Len(attempts, 1)
	s.Equal(mine.ID, attempts[0].ID)
}

func (s *PostgresJournalSuite) TestFindUnknown() {
	_, err := s.store.Find(context.Background(), uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
