package controllers

import (
	"errors"
	"net/http"

	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/services"
	"github.com/blogem/vendorflow/tenantctx"
)

const recentActivityLimit = 20

// MemberController handles membership administration on a tenant host
type MemberController struct {
	services *services.Services
}

// NewMemberController creates a new member controller
func NewMemberController(services *services.Services) *MemberController {
	return &MemberController{
		services: services,
	}
}

type membersData struct {
	Members   []models.Membership
	Activity  []models.AuditLogEntry
	Form      *models.MemberForm
	Errors    models.ValidationErrors
	Roles     []models.Role
	UserLimit int
}

// Index handles GET /members/
func (c *MemberController) Index(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusOK, &models.MemberForm{Role: models.RoleMember}, nil)
}

// Create handles POST /members/
func (c *MemberController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.MemberForm{
		Email: r.FormValue("email"),
		Role:  models.Role(r.FormValue("role")),
	}

	_, err := c.services.Tenancy.AddMember(r.Context(), tenantctx.Client(r.Context()), form)
	if err != nil {
		var formErr *services.FormError
		switch {
		case errors.As(err, &formErr):
			c.render(w, r, http.StatusUnprocessableEntity, form, formErr.Errors)
		case errors.Is(err, services.ErrUserLimitReached):
			addFlash(r, "error", "User limit reached. Remove a member or raise the limit first.")
			http.Redirect(w, r, "/members/", http.StatusSeeOther)
		default:
			serverError(w, r, "Failed to add member", err)
		}
		return
	}

	addFlash(r, "success", "Member added.")
	http.Redirect(w, r, "/members/", http.StatusSeeOther)
}

func (c *MemberController) render(w http.ResponseWriter, r *http.Request, status int, form *models.MemberForm, errs models.ValidationErrors) {
	ctx := r.Context()
	client := tenantctx.Client(ctx)
	if client == nil {
		http.NotFound(w, r)
		return
	}

	members, err := c.services.Tenancy.Members(ctx, client)
	if err != nil {
		serverError(w, r, "Failed to load members", err)
		return
	}

	activity, err := c.services.Tenancy.RecentActivity(ctx, client, recentActivityLimit)
	if err != nil {
		serverError(w, r, "Failed to load activity", err)
		return
	}

	data := membersData{
		Members:   members,
		Activity:  activity,
		Form:      form,
		Errors:    errs,
		Roles:     []models.Role{models.RoleMember, models.RoleAdmin, models.RoleOwner},
		UserLimit: client.UserLimit,
	}
	renderTemplateWithStatus(w, status, "members", "members.html", newPageData(r, "Members", "members", data))
}
