package controllers

import (
	"errors"
	"net/http"

	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/services"
	"github.com/blogem/vendorflow/userctx"
)

// SettingsController handles the user's organisations and profile pages
type SettingsController struct {
	services *services.Services
}

// NewSettingsController creates a new settings controller
func NewSettingsController(services *services.Services) *SettingsController {
	return &SettingsController{
		services: services,
	}
}

type profileData struct {
	Form   *models.ProfileForm
	Errors models.ValidationErrors
}

// Index handles GET /settings
func (c *SettingsController) Index(w http.ResponseWriter, r *http.Request) {
	orgs, err := c.services.Tenancy.Organisations(r.Context(), userctx.GetUser(r.Context()))
	if err != nil {
		serverError(w, r, "Failed to load organisations", err)
		return
	}

	data := homeData{Organisations: orgs}
	renderTemplate(w, "settings", "settings.html", newPageData(r, "Organisations", "settings", data))
}

// Profile handles GET /settings/profile
func (c *SettingsController) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := c.services.Accounts.Profile(r.Context(), userctx.GetUser(r.Context()))
	if err != nil {
		serverError(w, r, "Failed to load profile", err)
		return
	}

	data := profileData{Form: &models.ProfileForm{
		JobTitle: profile.JobTitle,
		Phone:    profile.Phone,
		Country:  profile.Country,
	}}
	renderTemplate(w, "profile", "profile.html", newPageData(r, "Profile", "profile", data))
}

// UpdateProfile handles POST /settings/profile
func (c *SettingsController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.ProfileForm{
		JobTitle: r.FormValue("job_title"),
		Phone:    r.FormValue("phone"),
		Country:  r.FormValue("country"),
	}

	if _, err := c.services.Accounts.UpdateProfile(r.Context(), userctx.GetUser(r.Context()), form); err != nil {
		var formErr *services.FormError
		if errors.As(err, &formErr) {
			data := profileData{Form: form, Errors: formErr.Errors}
			renderTemplateWithStatus(w, http.StatusUnprocessableEntity, "profile_error", "profile.html",
				newPageData(r, "Profile", "profile", data))
			return
		}
		serverError(w, r, "Failed to update profile", err)
		return
	}

	addFlash(r, "success", "Profile updated.")
	http.Redirect(w, r, "/settings/profile", http.StatusSeeOther)
}
