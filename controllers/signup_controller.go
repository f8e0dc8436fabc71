package controllers

import (
	"errors"
	"net/http"

	"github.com/blogem/vendorflow/config"
	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/services"
	"github.com/blogem/vendorflow/userctx"
)

// SignupController handles organisation sign-up on the public host
type SignupController struct {
	cfg      *config.Config
	services *services.Services
}

// NewSignupController creates a new sign-up controller
func NewSignupController(cfg *config.Config, services *services.Services) *SignupController {
	return &SignupController{
		cfg:      cfg,
		services: services,
	}
}

type signupData struct {
	Form       *models.SignupForm
	Errors     models.ValidationErrors
	BaseDomain string
}

// New handles GET /signup-org
func (c *SignupController) New(w http.ResponseWriter, r *http.Request) {
	data := signupData{Form: &models.SignupForm{}, BaseDomain: c.cfg.BaseDomain}
	renderTemplate(w, "signup", "signup.html", newPageData(r, "Create organisation", "signup", data))
}

// Create handles POST /signup-org
func (c *SignupController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.SignupForm{
		OrgName:   r.FormValue("org_name"),
		Subdomain: r.FormValue("subdomain"),
	}

	_, domain, err := c.services.Tenancy.SignUp(r.Context(), userctx.GetUser(r.Context()), form)
	if err != nil {
		var formErr *services.FormError
		switch {
		case errors.As(err, &formErr):
			c.renderForm(w, r, form, formErr.Errors)
		case errors.Is(err, services.ErrSubdomainTaken):
			c.renderForm(w, r, form, models.ValidationErrors{
				{Field: "subdomain", Message: "That subdomain is already taken."},
			})
		default:
			serverError(w, r, "Failed to create organisation", err)
		}
		return
	}

	addFlash(r, "success", "Organisation created.")
	http.Redirect(w, r, c.services.Tenancy.TenantURL(domain.Domain, "/"), http.StatusSeeOther)
}

func (c *SignupController) renderForm(w http.ResponseWriter, r *http.Request, form *models.SignupForm, errs models.ValidationErrors) {
	data := signupData{Form: form, Errors: errs, BaseDomain: c.cfg.BaseDomain}
	renderTemplateWithStatus(w, http.StatusUnprocessableEntity, "signup_error", "signup.html",
		newPageData(r, "Create organisation", "signup", data))
}
