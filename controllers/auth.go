package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"net"
	"net/http"
	"net/url"
	"strings"

	"gitea.com/go-chi/session"

	"github.com/blogem/vendorflow/authenticator"
	"github.com/blogem/vendorflow/config"
	"github.com/blogem/vendorflow/logging"
	"github.com/blogem/vendorflow/middleware"
	"github.com/blogem/vendorflow/services"
	"github.com/blogem/vendorflow/userctx"
)

const (
	sessionState     = "state"
	defaultAfterAuth = "/post-login"
)

// AuthController handles login, logout and the post-login hop to a tenant
type AuthController struct {
	cfg      *config.Config
	services *services.Services
}

// NewAuthController creates a new auth controller
func NewAuthController(cfg *config.Config, services *services.Services) *AuthController {
	return &AuthController{
		cfg:      cfg,
		services: services,
	}
}

// Login initiates the authentication process
func (ac *AuthController) Login(auth authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := generateRandomState()
		if err != nil {
			serverError(w, r, "Failed to generate login state", err)
			return
		}

		// Save the state in the session to validate in callback
		sess := session.GetSession(r)
		sess.Set(sessionState, state)

		http.Redirect(w, r, auth.GetAuthURL(state), http.StatusTemporaryRedirect)
	}
}

// Callback handles the callback from the identity provider
func (ac *AuthController) Callback(auth authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)

		storedState, _ := sess.Get(sessionState).(string)
		if storedState == "" {
			http.Error(w, "State not found in session", http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("state") != storedState {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}
		sess.Delete(sessionState)

		if providerErr := r.URL.Query().Get("error"); providerErr != "" {
			http.Error(w, "Login failed: "+providerErr, http.StatusUnauthorized)
			return
		}

		token, err := auth.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			http.Error(w, "Failed to exchange authorization code for a token", http.StatusUnauthorized)
			logging.FromContext(r.Context()).WithError(err).Warn("code exchange failed")
			return
		}

		claims, err := auth.GetClaims(r.Context(), token)
		if err != nil {
			serverError(w, r, "Failed to verify ID token", err)
			return
		}

		user, err := ac.services.Accounts.LoginFromClaims(r.Context(), claims)
		if err != nil {
			serverError(w, r, "Failed to sign in", err)
			return
		}
		sess.Set(middleware.SessionUserID, user.ID)

		target, _ := sess.Get(middleware.SessionRedirectAfter).(string)
		sess.Delete(middleware.SessionRedirectAfter)

		http.Redirect(w, r, ac.safeRedirect(target), http.StatusSeeOther)
	}
}

// Logout clears the session and returns to the public landing page
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	sess.Delete(middleware.SessionUserID)
	sess.Delete(middleware.SessionRedirectAfter)

	http.Redirect(w, r, ac.services.Tenancy.PublicURL("/"), http.StatusSeeOther)
}

// PostLogin handles GET /post-login by sending the user to their first organisation
func (ac *AuthController) PostLogin(w http.ResponseWriter, r *http.Request) {
	user := userctx.GetUser(r.Context())

	target, err := ac.services.Tenancy.PostLoginURL(r.Context(), user)
	if err != nil {
		serverError(w, r, "Failed to load organisations", err)
		return
	}
	if target == "" {
		addFlash(r, "info", "No tenant yet. Create one.")
		http.Redirect(w, r, "/signup-org", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

// safeRedirect only follows local paths and URLs on our own hosts
func (ac *AuthController) safeRedirect(target string) string {
	if target == "" {
		return defaultAfterAuth
	}
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.HasPrefix(target, "/\\") {
		return target
	}

	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return defaultAfterAuth
	}

	host := strings.ToLower(u.Host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	base := strings.ToLower(ac.cfg.BaseDomain)
	if host == base || strings.HasSuffix(host, "."+base) {
		return target
	}
	return defaultAfterAuth
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
