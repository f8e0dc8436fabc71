package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/blogem/vendorflow/authenticator"
	"github.com/blogem/vendorflow/config"
	"github.com/blogem/vendorflow/controllers"
	"github.com/blogem/vendorflow/database"
	"github.com/blogem/vendorflow/logging"
	appmiddleware "github.com/blogem/vendorflow/middleware"
	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/repositories"
	"github.com/blogem/vendorflow/services"
)

const sessionCookieName = "vendorflow_session"

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.New(cfg.LogrusLevel(), cfg.LogFormat)

	// Initialize databases
	publicPath := filepath.Join(cfg.DataDir, cfg.PublicDBName)
	db, err := database.InitializePublicDatabase(publicPath)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	tenants := database.NewTenantPool(filepath.Join(cfg.DataDir, "tenants"))
	defer tenants.Close()

	repos := repositories.NewRepositories(db)
	srvs := services.NewServices(cfg, repos, tenants)

	auth, err := authenticator.NewOpenIDProvider(context.Background(), cfg.OIDC)
	if err != nil {
		logger.Fatalf("Failed to initialize OpenID provider: %v", err)
	}

	handler, err := setupRouter(cfg, logger, srvs, repos, auth)
	if err != nil {
		logger.Fatalf("Failed to setup router: %v", err)
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":     server.Addr,
			"public":   srvs.Tenancy.PublicURL("/"),
			"database": publicPath,
		}).Info("vendorflow starting")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

// setupRouter configures all routes. Requests are dispatched on the Host
// header: the base domain gets the public router, tenant subdomains the
// tenant router.
func setupRouter(
	cfg *config.Config,
	logger *logrus.Logger,
	srvs *services.Services,
	repos *repositories.Repositories,
	auth authenticator.Provider,
) (http.Handler, error) {
	ctrl := controllers.NewControllers(cfg, srvs)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(appmiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second)) // 60 second timeout for OIDC callbacks
	r.Use(middleware.Compress(5))

	// Session middleware. The cookie domain is shared by all tenant subdomains
	// so a login on the public host carries over. Lax keeps the cookie off
	// cross-site POSTs.
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:    "memory",
		CookieName:  sessionCookieName,
		Secure:      cfg.UseHTTPS,
		SameSite:    http.SameSiteLaxMode,
		Domain:      cfg.CookieDomain,
		Gclifetime:  cfg.SessionMaxAge,
		Maxlifetime: cfg.SessionMaxAge,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	r.Use(appmiddleware.ResolveTenant(srvs.Tenancy))
	r.Use(appmiddleware.LoadUser(srvs.Accounts))
	r.Use(appmiddleware.AuditLogger(repos.Audit))

	requireAuth := appmiddleware.RequireAuth(srvs.Tenancy.PublicURL("/login"))

	// PUBLIC HOST
	public := chi.NewRouter()
	public.Get("/", ctrl.Home.Index)
	public.Get("/login", ctrl.Auth.Login(auth))
	public.Get("/callback", ctrl.Auth.Callback(auth))
	public.Get("/logout", ctrl.Auth.Logout)
	public.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "vendorflow"}`)
	})
	if cfg.MetricsEnabled {
		public.Handle("/metrics", promhttp.Handler())
	}

	public.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/post-login", ctrl.Auth.PostLogin)
		r.Get("/signup-org", ctrl.Signup.New)
		r.Post("/signup-org", ctrl.Signup.Create)
		r.Get("/settings", ctrl.Settings.Index)
		r.Get("/settings/profile", ctrl.Settings.Profile)
		r.Post("/settings/profile", ctrl.Settings.UpdateProfile)
	})

	// TENANT HOSTS (membership required)
	tenant := chi.NewRouter()
	tenant.Use(requireAuth)
	tenant.Use(appmiddleware.RequireMembership(srvs.Tenancy, models.RoleMember))

	tenant.Get("/", ctrl.Requests.Index)
	tenant.Get("/assigned/", ctrl.Requests.Assigned)

	tenant.Route("/requests", func(r chi.Router) {
		r.Get("/new/", ctrl.Requests.New)
		r.Post("/new/", ctrl.Requests.Create)
		r.Get("/{state:(draft|review|approved|rejected)}/", ctrl.Requests.ByState)
		r.Get("/{id}/", ctrl.Requests.Show)

		// Transitions are POST only; a GET is not a page
		r.Post("/{id}/submit/", ctrl.Requests.Submit)
		r.Post("/{id}/approve/", ctrl.Requests.Approve)
		r.Post("/{id}/reject/", ctrl.Requests.Reject)
		r.Get("/{id}/submit/", http.NotFound)
		r.Get("/{id}/approve/", http.NotFound)
		r.Get("/{id}/reject/", http.NotFound)
	})

	tenant.Group(func(r chi.Router) {
		r.Use(appmiddleware.RequireMembership(srvs.Tenancy, models.RoleAdmin))

		r.Get("/members/", ctrl.Members.Index)
		r.Post("/members/", ctrl.Members.Create)
	})

	r.Handle("/*", appmiddleware.HostSwitch(public, tenant))

	return r, nil
}
