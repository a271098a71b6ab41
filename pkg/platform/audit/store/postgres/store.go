// Package postgres persists audit events. Uses database/sql with the pq
// driver; the submission journal keeps its own pgx pool, this trail favors
// the plain interface because nothing here needs pipelining.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	audit "genescreen/pkg/platform/audit"
)

// Store implements audit.Store over an audit_events table.
//
// Schema:
//
//	CREATE TABLE audit_events (
//	    id          UUID PRIMARY KEY,
//	    category    TEXT NOT NULL,
//	    timestamp   TIMESTAMPTZ NOT NULL,
//	    account     TEXT NOT NULL DEFAULT '',
//	    business_id TEXT NOT NULL DEFAULT '',
//	    action      TEXT NOT NULL,
//	    decision    TEXT NOT NULL DEFAULT '',
//	    reason      TEXT NOT NULL DEFAULT '',
//	    tx_hash     TEXT NOT NULL DEFAULT '',
//	    request_id  TEXT NOT NULL DEFAULT ''
//	);
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			id, category, timestamp, account, business_id,
			action, decision, reason, tx_hash, request_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		string(event.Category),
		event.Timestamp,
		event.Account,
		event.BusinessID,
		event.Action,
		event.Decision,
		event.Reason,
		event.TxHash,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByAccount(ctx context.Context, account string) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, account, business_id,
		       action, decision, reason, tx_hash, request_id
		FROM audit_events
		WHERE account = $1
		ORDER BY timestamp DESC
	`
	rows, err := s.db.QueryContext(ctx, query, account)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return s.scanEvents(rows)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, account, business_id,
		       action, decision, reason, tx_hash, request_id
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return s.scanEvents(rows)
}

func (s *Store) scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			category string
			event    audit.Event
		)
		err := rows.Scan(
			&category,
			&event.Timestamp,
			&event.Account,
			&event.BusinessID,
			&event.Action,
			&event.Decision,
			&event.Reason,
			&event.TxHash,
			&event.RequestID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
