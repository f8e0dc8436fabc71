// Package tenantctx threads the resolved tenant and its database handle
// through a request context.
package tenantctx

import (
	"context"
	"database/sql"
	"errors"

	"github.com/blogem/vendorflow/models"
)

type contextKey string

const (
	clientKey contextKey = "tenant_client"
	dbKey     contextKey = "tenant_db"
)

// ErrNoTenant is returned when a tenant-scoped operation runs without a tenant
var ErrNoTenant = errors.New("no tenant context")

// WithTenant stores the tenant and its database handle
func WithTenant(ctx context.Context, client *models.Client, db *sql.DB) context.Context {
	ctx = context.WithValue(ctx, clientKey, client)
	return context.WithValue(ctx, dbKey, db)
}

// Client returns the current tenant, or nil on the public host
func Client(ctx context.Context) *models.Client {
	client, _ := ctx.Value(clientKey).(*models.Client)
	return client
}

// Schema returns the current tenant's schema name, or "public"
func Schema(ctx context.Context) string {
	if client := Client(ctx); client != nil {
		return client.SchemaName
	}
	return models.PublicSchema
}

// DB returns the current tenant's database handle
func DB(ctx context.Context) (*sql.DB, error) {
	db, ok := ctx.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, ErrNoTenant
	}
	return db, nil
}
