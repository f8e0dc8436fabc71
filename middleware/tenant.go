package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/blogem/vendorflow/logging"
	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/services"
	"github.com/blogem/vendorflow/tenantctx"
)

// HostResolver maps request hosts onto tenants and opens their partitions
type HostResolver interface {
	ResolveHost(ctx context.Context, host string) (*models.Client, error)
	Database(client *models.Client) (*sql.DB, error)
}

// ResolveTenant binds the tenant owning the request host, together with its
// database, to the request context. The base domain is the public site and
// carries no tenant. Unknown hosts get a 404.
func ResolveTenant(resolver HostResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			client, err := resolver.ResolveHost(ctx, r.Host)
			if errors.Is(err, services.ErrUnknownHost) {
				http.NotFound(w, r)
				return
			}
			if err != nil {
				logging.FromContext(ctx).WithError(err).Error("failed to resolve tenant")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			if client == nil {
				next.ServeHTTP(w, r)
				return
			}

			db, err := resolver.Database(client)
			if err != nil {
				logging.FromContext(ctx).WithError(err).WithField("tenant", client.SchemaName).Error("failed to open tenant database")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			ctx = tenantctx.WithTenant(ctx, client, db)
			ctx = logging.WithEntry(ctx, logging.FromContext(ctx).WithField("tenant", client.SchemaName))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HostSwitch serves tenant hosts with tenant and everything else with public.
// It must run after ResolveTenant.
func HostSwitch(public, tenant http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tenantctx.Client(r.Context()) != nil {
			tenant.ServeHTTP(w, r)
			return
		}
		public.ServeHTTP(w, r)
	})
}
