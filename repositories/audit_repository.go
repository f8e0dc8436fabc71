package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blogem/vendorflow/models"
)

// AuditRepository handles audit log persistence
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLogEntry) error
	ListRecent(ctx context.Context, tenant string, limit int) ([]models.AuditLogEntry, error)
}

type sqliteAuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &sqliteAuditRepository{db: db}
}

// Create inserts a new audit log entry
func (r *sqliteAuditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = timeNow()
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (timestamp, user_email, tenant, method, path, form_data, user_agent, ip_address)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.Timestamp,
		entry.UserEmail,
		entry.Tenant,
		entry.Method,
		entry.Path,
		entry.FormData,
		entry.UserAgent,
		entry.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}

	entry.ID, err = result.LastInsertId()
	return err
}

// ListRecent returns the latest entries recorded for a tenant schema
func (r *sqliteAuditRepository) ListRecent(ctx context.Context, tenant string, limit int) ([]models.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, timestamp, user_email, tenant, method, path, form_data, user_agent, ip_address
		FROM audit_log
		WHERE tenant = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, tenant, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditLogEntry
	for rows.Next() {
		var e models.AuditLogEntry
		err := rows.Scan(&e.ID, &e.Timestamp, &e.UserEmail, &e.Tenant, &e.Method,
			&e.Path, &e.FormData, &e.UserAgent, &e.IPAddress)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
