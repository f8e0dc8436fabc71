package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/tenantctx"
	"github.com/blogem/vendorflow/workflow"
)

var (
	// ErrRequestNotFound is returned when no request has the given ID
	ErrRequestNotFound = errors.New("request not found")
	// ErrStaleRequest is returned when the row changed since it was read
	ErrStaleRequest = errors.New("request was modified concurrently")
)

// RequestRepository stores vendor requests in the current tenant's partition.
// The partition is taken from the context (see tenantctx).
type RequestRepository interface {
	Create(ctx context.Context, req *models.Request, created workflow.Transition) error
	GetByID(ctx context.Context, id int64) (*models.Request, error)
	List(ctx context.Context, filter models.RequestFilter) ([]models.Request, error)
	CountByState(ctx context.Context) (map[workflow.State]int, error)
	ApplyTransition(ctx context.Context, req *models.Request, t workflow.Transition) error
}

// requestRepository implements RequestRepository interface
type requestRepository struct{}

// NewRequestRepository creates a new request repository
func NewRequestRepository() RequestRepository {
	return &requestRepository{}
}

const requestColumns = `id, name, description, state, assignee_id, created_by,
		       reject_reason, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*models.Request, error) {
	var req models.Request
	var createdBy sql.NullInt64

	err := row.Scan(
		&req.ID,
		&req.Name,
		&req.Description,
		&req.State,
		&req.AssigneeID,
		&createdBy,
		&req.RejectReason,
		&req.Version,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if createdBy.Valid {
		id := createdBy.Int64
		req.CreatedBy = &id
	}
	return &req, nil
}

// Create inserts a draft request and its creation log entry in one transaction
func (r *requestRepository) Create(ctx context.Context, req *models.Request, created workflow.Transition) error {
	db, err := tenantctx.DB(ctx)
	if err != nil {
		return err
	}

	now := timeNow()
	req.State = workflow.StateDraft
	req.RejectReason = ""
	req.Version = 1
	req.CreatedAt = now
	req.UpdatedAt = now

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO requests (name, description, state, assignee_id, created_by,
		                      reject_reason, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		req.Name,
		req.Description,
		req.State,
		req.AssigneeID,
		nullInt64(req.CreatedBy),
		req.RejectReason,
		req.Version,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	if err := insertStateLog(ctx, tx, models.NewStateLogEntry(id, created, now)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit request: %w", err)
	}

	req.ID = id
	return nil
}

// GetByID retrieves a request by ID
func (r *requestRepository) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	db, err := tenantctx.DB(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = ?`

	req, err := scanRequest(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrRequestNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

// List retrieves requests newest first, optionally filtered by state and assignee
func (r *requestRepository) List(ctx context.Context, filter models.RequestFilter) ([]models.Request, error) {
	db, err := tenantctx.DB(ctx)
	if err != nil {
		return nil, err
	}

	var where []string
	var args []interface{}
	if filter.State != "" {
		where = append(where, "state = ?")
		args = append(args, filter.State)
	}
	if filter.AssigneeID != 0 {
		where = append(where, "assignee_id = ?")
		args = append(args, filter.AssigneeID)
	}

	query := `SELECT ` + requestColumns + ` FROM requests`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, *req)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requests: %w", err)
	}

	return requests, nil
}

// CountByState returns the number of requests in each state
func (r *requestRepository) CountByState(ctx context.Context) (map[workflow.State]int, error) {
	db, err := tenantctx.DB(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT state, COUNT(*) FROM requests GROUP BY state`)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}
	defer rows.Close()

	counts := make(map[workflow.State]int)
	for _, s := range workflow.AllStates() {
		counts[s] = 0
	}
	for rows.Next() {
		var state workflow.State
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("failed to scan request count: %w", err)
		}
		counts[state] = n
	}
	return counts, rows.Err()
}

// ApplyTransition persists a transition and its log entry atomically. The
// update only matches if the row still has req.Version; otherwise nothing is
// written and ErrStaleRequest is returned. On success req is updated in place.
func (r *requestRepository) ApplyTransition(ctx context.Context, req *models.Request, t workflow.Transition) error {
	db, err := tenantctx.DB(ctx)
	if err != nil {
		return err
	}

	now := timeNow()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE requests
		SET state = ?, reject_reason = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`,
		t.To,
		t.RejectReason,
		now,
		req.ID,
		req.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update request state: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d version %d", ErrStaleRequest, req.ID, req.Version)
	}

	if err := insertStateLog(ctx, tx, models.NewStateLogEntry(req.ID, t, now)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transition: %w", err)
	}

	req.State = t.To
	req.RejectReason = t.RejectReason
	req.Version++
	req.UpdatedAt = now
	return nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
