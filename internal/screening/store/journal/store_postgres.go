package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"genescreen/pkg/platform/sentinel"
)

// PostgresStore persists submission attempts.
//
// Schema:
//
//	CREATE TABLE submission_attempts (
//	    id           UUID PRIMARY KEY,
//	    business_id  TEXT NOT NULL,
//	    account      TEXT NOT NULL,
//	    name         TEXT NOT NULL,
//	    disease_code INT  NOT NULL,
//	    status       TEXT NOT NULL,
//	    reason       TEXT NOT NULL DEFAULT '',
//	    tx_hash      TEXT NOT NULL DEFAULT '',
//	    created_at   TIMESTAMPTZ NOT NULL,
//	    updated_at   TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX submission_attempts_account_idx ON submission_attempts (account, created_at DESC);
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, attempt Attempt) error {
	query := `
		INSERT INTO submission_attempts (
			id, business_id, account, name, disease_code,
			status, reason, tx_hash, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`
	_, err := s.pool.Exec(ctx, query,
		attempt.ID,
		attempt.BusinessID,
		attempt.Account,
		attempt.Name,
		attempt.DiseaseCode,
		string(attempt.Status),
		attempt.Reason,
		attempt.TxHash,
		attempt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission attempt: %w", err)
	}
	return nil
}

func (s *PostgresStore) MarkOutcome(ctx context.Context, id uuid.UUID, status AttemptStatus, reason, txHash string) error {
	query := `
		UPDATE submission_attempts
		SET status = $2, reason = $3, tx_hash = $4, updated_at = now()
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query, id, string(status), reason, txHash)
	if err != nil {
		return fmt.Errorf("update submission attempt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attempt %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) ListByAccount(ctx context.Context, account string) ([]Attempt, error) {
	query := `
		SELECT id, business_id, account, name, disease_code,
		       status, reason, tx_hash, created_at, updated_at
		FROM submission_attempts
		WHERE account = $1
		ORDER BY created_at DESC
	`
	rows, err := s.pool.Query(ctx, query, account)
	if err != nil {
		return nil, fmt.Errorf("query submission attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var (
			a      Attempt
			status string
		)
		err := rows.Scan(
			&a.ID, &a.BusinessID, &a.Account, &a.Name, &a.DiseaseCode,
			&status, &a.Reason, &a.TxHash, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan submission attempt: %w", err)
		}
		a.Status = AttemptStatus(status)
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submission attempts: %w", err)
	}
	return attempts, nil
}

// Find returns one attempt by id.
func (s *PostgresStore) Find(ctx context.Context, id uuid.UUID) (*Attempt, error) {
	query := `
		SELECT id, business_id, account, name, disease_code,
		       status, reason, tx_hash, created_at, updated_at
		FROM submission_attempts
		WHERE id = $1
	`
	var (
		a      Attempt
		status string
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.BusinessID, &a.Account, &a.Name, &a.DiseaseCode,
		&status, &a.Reason, &a.TxHash, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("attempt %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query submission attempt: %w", err)
	}
	a.Status = AttemptStatus(status)
	return &a, nil
}
