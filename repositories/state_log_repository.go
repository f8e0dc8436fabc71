package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/tenantctx"
	"github.com/blogem/vendorflow/workflow"
)

// StateLogRepository is the append-only transition log of the current tenant
type StateLogRepository interface {
	Append(ctx context.Context, entry *models.StateLogEntry) error
	ListForRequest(ctx context.Context, requestID int64) ([]models.StateLogEntry, error)
}

type stateLogRepository struct{}

// NewStateLogRepository creates a new state log repository
func NewStateLogRepository() StateLogRepository {
	return &stateLogRepository{}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertStateLog(ctx context.Context, db execer, entry *models.StateLogEntry) error {
	var source sql.NullString
	if entry.SourceState != nil {
		source = sql.NullString{String: string(*entry.SourceState), Valid: true}
	}

	result, err := db.ExecContext(ctx, `
		INSERT INTO state_logs (request_id, source_state, state, actor_id, timestamp, description)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		entry.RequestID,
		source,
		entry.State,
		nullInt64(entry.ActorID),
		entry.Timestamp,
		entry.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to write state log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted state log ID: %w", err)
	}
	entry.ID = id
	return nil
}

// Append writes a single entry outside of any transition
func (r *stateLogRepository) Append(ctx context.Context, entry *models.StateLogEntry) error {
	db, err := tenantctx.DB(ctx)
	if err != nil {
		return err
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = timeNow()
	}
	return insertStateLog(ctx, db, entry)
}

// ListForRequest returns the log of a request, most recent first
func (r *stateLogRepository) ListForRequest(ctx context.Context, requestID int64) ([]models.StateLogEntry, error) {
	db, err := tenantctx.DB(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, request_id, source_state, state, actor_id, timestamp, description
		FROM state_logs
		WHERE request_id = ?
		ORDER BY timestamp DESC, id DESC
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query state logs: %w", err)
	}
	defer rows.Close()

	var entries []models.StateLogEntry
	for rows.Next() {
		var entry models.StateLogEntry
		var source sql.NullString
		var actor sql.NullInt64

		err := rows.Scan(
			&entry.ID,
			&entry.RequestID,
			&source,
			&entry.State,
			&actor,
			&entry.Timestamp,
			&entry.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan state log: %w", err)
		}

		if source.Valid {
			s := workflow.State(source.String)
			entry.SourceState = &s
		}
		if actor.Valid {
			id := actor.Int64
			entry.ActorID = &id
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating state logs: %w", err)
	}

	return entries, nil
}
