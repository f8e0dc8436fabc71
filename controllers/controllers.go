package controllers

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"gitea.com/go-chi/session"

	"github.com/blogem/vendorflow/config"
	"github.com/blogem/vendorflow/logging"
	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/services"
	"github.com/blogem/vendorflow/templates"
	"github.com/blogem/vendorflow/tenantctx"
	"github.com/blogem/vendorflow/userctx"
)

const sessionFlashes = "flashes"

var templateFuncs = template.FuncMap{
	"add":            func(a, b int) int { return a + b },
	"sub":            func(a, b int) int { return a - b },
	"lower":          strings.ToLower,
	"formatDate":     models.FormatDate,
	"formatDateTime": models.FormatDateTime,
}

// renderTemplate creates a template set and renders it with the provided data
func renderTemplate(w http.ResponseWriter, templateName string, pageTemplate string, data interface{}) error {
	return renderTemplateWithStatus(w, http.StatusOK, templateName, pageTemplate, data)
}

// renderTemplateWithStatus creates a template set and renders it with the provided data and status code.
// The page is rendered into a buffer first so a template error never leaves a half written response.
func renderTemplateWithStatus(w http.ResponseWriter, statusCode int, templateName string, pageTemplate string, data interface{}) error {
	tmpl, err := template.New(templateName).Funcs(templateFuncs).ParseFS(templates.FS, "layout.html", pageTemplate)
	if err != nil {
		http.Error(w, "Failed to parse template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err = buf.WriteTo(w)
	return err
}

// newPageData collects what the layout needs and pops pending flashes
func newPageData(r *http.Request, title, currentPage string, data interface{}) *models.PageData {
	return &models.PageData{
		Title:       title,
		CurrentPage: currentPage,
		Flashes:     popFlashes(r),
		User:        userctx.GetUser(r.Context()),
		Tenant:      tenantctx.Client(r.Context()),
		Data:        data,
	}
}

// addFlash queues a message for the next rendered page
func addFlash(r *http.Request, kind, message string) {
	sess := session.GetSession(r)
	flashes, _ := sess.Get(sessionFlashes).([]models.FlashMessage)
	flashes = append(flashes, models.FlashMessage{Type: kind, Message: message})
	sess.Set(sessionFlashes, flashes)
}

func popFlashes(r *http.Request) []models.FlashMessage {
	sess := session.GetSession(r)
	flashes, _ := sess.Get(sessionFlashes).([]models.FlashMessage)
	if len(flashes) > 0 {
		sess.Delete(sessionFlashes)
	}
	return flashes
}

// serverError logs the cause and answers 500 without leaking it
func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logging.FromContext(r.Context()).WithError(err).Error(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}

// Controllers holds all controller instances
type Controllers struct {
	Auth     *AuthController
	Home     *HomeController
	Signup   *SignupController
	Settings *SettingsController
	Requests *RequestController
	Members  *MemberController
}

// NewControllers creates and initializes all controller instances
func NewControllers(cfg *config.Config, services *services.Services) *Controllers {
	return &Controllers{
		Auth:     NewAuthController(cfg, services),
		Home:     NewHomeController(services),
		Signup:   NewSignupController(cfg, services),
		Settings: NewSettingsController(services),
		Requests: NewRequestController(services),
		Members:  NewMemberController(services),
	}
}
