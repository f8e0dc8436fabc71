package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/blogem/vendorflow/models"
)

// ClientRepository handles tenants and their domains
type ClientRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	GetBySchema(ctx context.Context, schema string) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	GetDomain(ctx context.Context, host string) (*models.Domain, error)
	ListDomains(ctx context.Context, clientID uuid.UUID) ([]models.Domain, error)
	CreateDomain(ctx context.Context, domain *models.Domain) error
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.Client, error) {
	query := `
		SELECT id, name, schema_name, user_limit, brand_color, created_on
		FROM clients
		WHERE ` + where

	var client models.Client
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&client.ID,
		&client.Name,
		&client.SchemaName,
		&client.UserLimit,
		&client.BrandColor,
		&client.CreatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %v: %w", arg, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

// GetByID retrieves a client by ID
func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetBySchema retrieves a client by its schema name
func (r *clientRepository) GetBySchema(ctx context.Context, schema string) (*models.Client, error) {
	return r.getOne(ctx, "schema_name = ?", schema)
}

// Create inserts a new client, assigning an ID when missing
func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	if client.CreatedOn.IsZero() {
		client.CreatedOn = timeNow()
	}
	if client.UserLimit == 0 {
		client.UserLimit = 5
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, schema_name, user_limit, brand_color, created_on)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		client.ID,
		client.Name,
		client.SchemaName,
		client.UserLimit,
		client.BrandColor,
		client.CreatedOn,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// GetDomain retrieves a domain by its bare host name
func (r *clientRepository) GetDomain(ctx context.Context, host string) (*models.Domain, error) {
	var d models.Domain
	err := r.db.QueryRowContext(ctx, `
		SELECT id, domain, client_id, is_primary
		FROM domains
		WHERE domain = ?
	`, host).Scan(&d.ID, &d.Domain, &d.ClientID, &d.IsPrimary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("domain %s: %w", host, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get domain: %w", err)
	}
	return &d, nil
}

// ListDomains returns a client's domains, primary first
func (r *clientRepository) ListDomains(ctx context.Context, clientID uuid.UUID) ([]models.Domain, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, domain, client_id, is_primary
		FROM domains
		WHERE client_id = ?
		ORDER BY is_primary DESC, id ASC
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query domains: %w", err)
	}
	defer rows.Close()

	var domains []models.Domain
	for rows.Next() {
		var d models.Domain
		if err := rows.Scan(&d.ID, &d.Domain, &d.ClientID, &d.IsPrimary); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}

// CreateDomain inserts a new domain
func (r *clientRepository) CreateDomain(ctx context.Context, domain *models.Domain) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO domains (domain, client_id, is_primary)
		VALUES (?, ?, ?)
	`, domain.Domain, domain.ClientID, domain.IsPrimary)
	if err != nil {
		return fmt.Errorf("failed to create domain: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}
	domain.ID = id
	return nil
}
