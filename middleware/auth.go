package middleware

import (
	"context"
	"errors"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/vendorflow/logging"
	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/repositories"
	"github.com/blogem/vendorflow/tenantctx"
	"github.com/blogem/vendorflow/userctx"
)

// Session keys shared with the auth controller
const (
	SessionUserID        = "user_id"
	SessionRedirectAfter = "redirect_after_login"
)

// UserLoader loads the user stored in the session
type UserLoader interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// MembershipLookup finds a user's membership in a tenant
type MembershipLookup interface {
	MembershipFor(ctx context.Context, user *models.User, client *models.Client) (*models.Membership, error)
}

// LoadUser puts the logged-in user, if any, into the request context
func LoadUser(users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.GetSession(r)
			userID, ok := sess.Get(SessionUserID).(int64)
			if !ok || userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if errors.Is(err, repositories.ErrNotFound) {
				// Stale session for a user that no longer exists
				sess.Delete(SessionUserID)
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				logging.FromContext(r.Context()).WithError(err).Error("failed to load session user")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			ctx := userctx.SetUser(r.Context(), user)
			ctx = logging.WithEntry(ctx, logging.FromContext(ctx).WithField("user", user.Email))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the user is authenticated. If not, it stores the
// intended destination and redirects to loginURL.
func RequireAuth(loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userctx.GetUser(r.Context()) == nil {
				sess := session.GetSession(r)
				sess.Set(SessionRedirectAfter, requestURL(r))
				http.Redirect(w, r, loginURL, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestURL rebuilds the absolute URL of r so login can return to the right host
func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// RequireMembership only lets through users with an active membership of at
// least minRole in the current tenant. Staff pass without a membership.
func RequireMembership(memberships MembershipLookup, minRole models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			user := userctx.GetUser(ctx)
			client := tenantctx.Client(ctx)
			if user == nil || client == nil {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			m, err := memberships.MembershipFor(ctx, user, client)
			switch {
			case errors.Is(err, repositories.ErrNotFound):
				m = nil
			case err != nil:
				logging.FromContext(ctx).WithError(err).Error("failed to load membership")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			allowed := m != nil && m.IsActive && m.Role.AtLeast(minRole)
			if !allowed && !user.IsStaff {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			if m != nil && m.IsActive {
				ctx = userctx.SetMembership(ctx, m)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
