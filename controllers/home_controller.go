package controllers

import (
	"net/http"

	"github.com/blogem/vendorflow/services"
	"github.com/blogem/vendorflow/userctx"
)

// HomeController handles the public landing page
type HomeController struct {
	services *services.Services
}

// NewHomeController creates a new home controller
func NewHomeController(services *services.Services) *HomeController {
	return &HomeController{
		services: services,
	}
}

type homeData struct {
	Organisations []services.Organisation
}

// Index handles GET / on the public host
func (c *HomeController) Index(w http.ResponseWriter, r *http.Request) {
	data := homeData{}

	if user := userctx.GetUser(r.Context()); user != nil {
		orgs, err := c.services.Tenancy.Organisations(r.Context(), user)
		if err != nil {
			serverError(w, r, "Failed to load organisations", err)
			return
		}
		data.Organisations = orgs
	}

	renderTemplate(w, "home", "home.html", newPageData(r, "Home", "home", data))
}
