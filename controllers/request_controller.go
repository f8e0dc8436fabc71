package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/repositories"
	"github.com/blogem/vendorflow/services"
	"github.com/blogem/vendorflow/userctx"
	"github.com/blogem/vendorflow/workflow"
)

// RequestController handles vendor request pages on a tenant host
type RequestController struct {
	services *services.Services
}

// NewRequestController creates a new request controller
func NewRequestController(services *services.Services) *RequestController {
	return &RequestController{
		services: services,
	}
}

type requestListData struct {
	Heading   string
	Requests  []models.Request
	States    []workflow.State
	Counts    map[workflow.State]int
	Assignees map[int64]string
}

type requestFormData struct {
	Form      *models.RequestForm
	Errors    models.ValidationErrors
	Assignees []models.Membership
}

type requestDetailData struct {
	*services.RequestDetail
	Steps []workflow.State
}

// Index handles GET / with an optional ?state= filter
func (c *RequestController) Index(w http.ResponseWriter, r *http.Request) {
	filter := models.RequestFilter{}
	heading := "All requests"

	if raw := r.URL.Query().Get("state"); raw != "" {
		state, ok := workflow.ParseState(strings.ToUpper(raw))
		if !ok {
			http.Error(w, "Unknown state: "+raw, http.StatusBadRequest)
			return
		}
		filter.State = state
		heading = state.Label() + " requests"
	}

	c.renderList(w, r, "requests", heading, filter)
}

// Assigned handles GET /assigned/
func (c *RequestController) Assigned(w http.ResponseWriter, r *http.Request) {
	filter := models.RequestFilter{AssigneeID: userctx.GetUserID(r.Context())}
	c.renderList(w, r, "assigned", "Assigned to me", filter)
}

// ByState handles GET /requests/{state}/
func (c *RequestController) ByState(w http.ResponseWriter, r *http.Request) {
	state, ok := workflow.ParseState(strings.ToUpper(chi.URLParam(r, "state")))
	if !ok {
		http.NotFound(w, r)
		return
	}
	c.renderList(w, r, "requests", state.Label()+" requests", models.RequestFilter{State: state})
}

func (c *RequestController) renderList(w http.ResponseWriter, r *http.Request, currentPage, heading string, filter models.RequestFilter) {
	ctx := r.Context()

	requests, err := c.services.Requests.List(ctx, filter)
	if err != nil {
		if errors.Is(err, workflow.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		serverError(w, r, "Failed to load requests", err)
		return
	}

	counts, err := c.services.Requests.Counts(ctx)
	if err != nil {
		serverError(w, r, "Failed to count requests", err)
		return
	}

	members, err := c.services.Requests.Assignees(ctx)
	if err != nil {
		serverError(w, r, "Failed to load members", err)
		return
	}
	names := make(map[int64]string, len(members))
	for _, m := range members {
		names[m.UserID] = memberName(m)
	}

	data := requestListData{
		Heading:   heading,
		Requests:  requests,
		States:    workflow.AllStates(),
		Counts:    counts,
		Assignees: names,
	}
	renderTemplate(w, "request_list", "request_list.html", newPageData(r, heading, currentPage, data))
}

// New handles GET /requests/new/
func (c *RequestController) New(w http.ResponseWriter, r *http.Request) {
	form := &models.RequestForm{AssigneeID: userctx.GetUserID(r.Context())}
	c.renderForm(w, r, http.StatusOK, form, nil)
}

// Create handles POST /requests/new/
func (c *RequestController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	// A malformed assignee is left at zero and reported by validation
	assigneeID, _ := strconv.ParseInt(r.FormValue("assignee"), 10, 64)
	form := &models.RequestForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		AssigneeID:  assigneeID,
	}

	req, err := c.services.Requests.Create(r.Context(), userctx.Actor(r.Context()), form)
	if err != nil {
		var formErr *services.FormError
		if errors.As(err, &formErr) {
			c.renderForm(w, r, http.StatusUnprocessableEntity, form, formErr.Errors)
			return
		}
		serverError(w, r, "Failed to create request", err)
		return
	}

	addFlash(r, "success", "Request created.")
	http.Redirect(w, r, requestPath(req.ID), http.StatusSeeOther)
}

func (c *RequestController) renderForm(w http.ResponseWriter, r *http.Request, status int, form *models.RequestForm, errs models.ValidationErrors) {
	assignees, err := c.services.Requests.Assignees(r.Context())
	if err != nil {
		serverError(w, r, "Failed to load members", err)
		return
	}

	data := requestFormData{Form: form, Errors: errs, Assignees: assignees}
	renderTemplateWithStatus(w, status, "request_form", "request_form.html", newPageData(r, "New request", "new", data))
}

// Show handles GET /requests/{id}/
func (c *RequestController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	detail, err := c.services.Requests.Detail(r.Context(), id, userctx.Actor(r.Context()))
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			http.Error(w, "Request not found", http.StatusNotFound)
			return
		}
		serverError(w, r, "Failed to load request", err)
		return
	}

	data := requestDetailData{RequestDetail: detail, Steps: workflow.Steps()}
	renderTemplate(w, "request_detail", "request_detail.html", newPageData(r, detail.Request.Name, "requests", data))
}

// Submit handles POST /requests/{id}/submit/
func (c *RequestController) Submit(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, "Submitted for review.", func(id int64, actor workflow.Actor) (*models.Request, error) {
		return c.services.Requests.SubmitForReview(r.Context(), id, actor)
	})
}

// Approve handles POST /requests/{id}/approve/
func (c *RequestController) Approve(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, "Request approved.", func(id int64, actor workflow.Actor) (*models.Request, error) {
		return c.services.Requests.Approve(r.Context(), id, actor)
	})
}

// Reject handles POST /requests/{id}/reject/
func (c *RequestController) Reject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	reason := r.FormValue("reason")

	c.transition(w, r, "Request rejected.", func(id int64, actor workflow.Actor) (*models.Request, error) {
		return c.services.Requests.Reject(r.Context(), id, actor, reason)
	})
}

// transition runs one workflow operation and maps its outcome onto a response:
// 403 when the actor may not act, 404 for an unknown request, otherwise a
// redirect back to the detail page carrying a flash message.
func (c *RequestController) transition(w http.ResponseWriter, r *http.Request, success string, run func(int64, workflow.Actor) (*models.Request, error)) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	_, err := run(id, userctx.Actor(r.Context()))
	if err != nil {
		var transitionErr *workflow.TransitionError
		switch {
		case errors.Is(err, workflow.ErrForbidden):
			msg := "Only assignee or staff can transition."
			if errors.As(err, &transitionErr) {
				msg = transitionErr.UserMessage()
			}
			http.Error(w, msg, http.StatusForbidden)
		case errors.Is(err, repositories.ErrRequestNotFound):
			http.Error(w, "Request not found", http.StatusNotFound)
		case errors.As(err, &transitionErr):
			addFlash(r, "error", transitionErr.UserMessage())
			http.Redirect(w, r, requestPath(id), http.StatusSeeOther)
		case errors.Is(err, repositories.ErrStaleRequest):
			addFlash(r, "error", "The request was changed by someone else. Please try again.")
			http.Redirect(w, r, requestPath(id), http.StatusSeeOther)
		default:
			serverError(w, r, "Failed to update request", err)
		}
		return
	}

	addFlash(r, "success", success)
	http.Redirect(w, r, requestPath(id), http.StatusSeeOther)
}

// requestID parses the {id} URL parameter, answering 400 when it is malformed
func requestID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func requestPath(id int64) string {
	return fmt.Sprintf("/requests/%d/", id)
}

func memberName(m models.Membership) string {
	if m.UserName != "" {
		return m.UserName
	}
	return m.UserEmail
}
