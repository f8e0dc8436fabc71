package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/blogem/vendorflow/models"
)

// MembershipRepository links users to clients
type MembershipRepository interface {
	Get(ctx context.Context, userID int64, clientID uuid.UUID) (*models.Membership, error)
	Create(ctx context.Context, m *models.Membership) error
	ListForUser(ctx context.Context, userID int64) ([]models.Membership, error)
	ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.Membership, error)
	CountActive(ctx context.Context, clientID uuid.UUID) (int, error)
}

type membershipRepository struct {
	db *sql.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *sql.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

const membershipQuery = `
	SELECT m.id, m.user_id, m.client_id, m.role, m.is_active, m.created_at, u.email, u.name
	FROM memberships m
	JOIN users u ON u.id = m.user_id
`

func scanMembership(row rowScanner) (*models.Membership, error) {
	var m models.Membership
	err := row.Scan(&m.ID, &m.UserID, &m.ClientID, &m.Role, &m.IsActive, &m.CreatedAt, &m.UserEmail, &m.UserName)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) list(ctx context.Context, query string, arg interface{}) ([]models.Membership, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	defer rows.Close()

	var memberships []models.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, *m)
	}
	return memberships, rows.Err()
}

// Get retrieves the membership of a user in a client, active or not
func (r *membershipRepository) Get(ctx context.Context, userID int64, clientID uuid.UUID) (*models.Membership, error) {
	m, err := scanMembership(r.db.QueryRowContext(ctx,
		membershipQuery+` WHERE m.user_id = ? AND m.client_id = ?`, userID, clientID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("membership of user %d in %s: %w", userID, clientID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}

// Create inserts a membership. A duplicate user/client pair is rejected by the database.
func (r *membershipRepository) Create(ctx context.Context, m *models.Membership) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = timeNow()
	}
	if m.Role == "" {
		m.Role = models.RoleMember
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO memberships (user_id, client_id, role, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.UserID, m.ClientID, m.Role, m.IsActive, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}
	m.ID = id
	return nil
}

// ListForUser returns the active memberships of a user, oldest first
func (r *membershipRepository) ListForUser(ctx context.Context, userID int64) ([]models.Membership, error) {
	return r.list(ctx, membershipQuery+` WHERE m.user_id = ? AND m.is_active = 1 ORDER BY m.created_at, m.id`, userID)
}

// ListForClient returns every membership of a client, highest role first
func (r *membershipRepository) ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.Membership, error) {
	return r.list(ctx, membershipQuery+`
		WHERE m.client_id = ?
		ORDER BY CASE m.role WHEN 'OWNER' THEN 0 WHEN 'ADMIN' THEN 1 ELSE 2 END, u.email`, clientID)
}

// CountActive counts active memberships of a client
func (r *membershipRepository) CountActive(ctx context.Context, clientID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memberships WHERE client_id = ? AND is_active = 1`, clientID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count memberships: %w", err)
	}
	return n, nil
}
