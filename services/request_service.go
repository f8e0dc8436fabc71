package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/blogem/vendorflow/logging"
	"github.com/blogem/vendorflow/metrics"
	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/repositories"
	"github.com/blogem/vendorflow/tenantctx"
	"github.com/blogem/vendorflow/workflow"
)

// maxTransitionAttempts bounds the reload-and-retry loop on concurrent updates
const maxTransitionAttempts = 3

// FormError carries field errors for a rejected form. It matches
// workflow.ErrInvalidInput.
type FormError struct {
	Errors models.ValidationErrors
}

func (e *FormError) Error() string {
	return "validation failed: " + strings.Join(e.Errors.GetMessages(), ", ")
}

// Is makes errors.Is(err, workflow.ErrInvalidInput) true
func (e *FormError) Is(target error) bool {
	return target == workflow.ErrInvalidInput
}

// RequestDetail is everything the detail page shows
type RequestDetail struct {
	Request  *models.Request
	Assignee *models.User
	History  []models.StateLogEntry

	CanTransition bool
	CanSubmit     bool
	CanApprove    bool
	CanReject     bool
}

// RequestService interface defines vendor request business logic
type RequestService interface {
	Create(ctx context.Context, actor workflow.Actor, form *models.RequestForm) (*models.Request, error)
	Get(ctx context.Context, id int64) (*models.Request, error)
	List(ctx context.Context, filter models.RequestFilter) ([]models.Request, error)
	Counts(ctx context.Context) (map[workflow.State]int, error)
	Detail(ctx context.Context, id int64, actor workflow.Actor) (*RequestDetail, error)
	History(ctx context.Context, id int64) ([]models.StateLogEntry, error)
	Assignees(ctx context.Context) ([]models.Membership, error)
	SubmitForReview(ctx context.Context, id int64, actor workflow.Actor) (*models.Request, error)
	Approve(ctx context.Context, id int64, actor workflow.Actor) (*models.Request, error)
	Reject(ctx context.Context, id int64, actor workflow.Actor, reason string) (*models.Request, error)
}

// requestService implements RequestService interface
type requestService struct {
	requestRepo    repositories.RequestRepository
	stateLogRepo   repositories.StateLogRepository
	userRepo       repositories.UserRepository
	membershipRepo repositories.MembershipRepository
}

// NewRequestService creates a new request service
func NewRequestService(
	requestRepo repositories.RequestRepository,
	stateLogRepo repositories.StateLogRepository,
	userRepo repositories.UserRepository,
	membershipRepo repositories.MembershipRepository,
) RequestService {
	return &requestService{
		requestRepo:    requestRepo,
		stateLogRepo:   stateLogRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
	}
}

// Create validates the form and stores a new draft with its creation log entry
func (s *requestService) Create(ctx context.Context, actor workflow.Actor, form *models.RequestForm) (*models.Request, error) {
	if ve := form.Validate(); ve.HasErrors() {
		return nil, &FormError{Errors: ve}
	}

	client := tenantctx.Client(ctx)
	if client == nil {
		return nil, tenantctx.ErrNoTenant
	}

	assignee, err := s.membershipRepo.Get(ctx, form.AssigneeID, client.ID)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && !assignee.IsActive) {
		return nil, &FormError{Errors: models.ValidationErrors{
			{Field: "assignee", Message: "assignee must be a member of this organisation"},
		}}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check assignee: %w", err)
	}

	created := workflow.Created(actor)
	req := &models.Request{
		Name:        form.Name,
		Description: form.Description,
		AssigneeID:  form.AssigneeID,
		CreatedBy:   created.ActorID,
	}

	if err := s.requestRepo.Create(ctx, req, created); err != nil {
		metrics.TransitionsTotal.WithLabelValues(workflow.OpCreate, outcome(err)).Inc()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	metrics.TransitionsTotal.WithLabelValues(workflow.OpCreate, outcome(nil)).Inc()
	metrics.RequestsCreatedTotal.WithLabelValues(client.SchemaName).Inc()
	logging.FromContext(ctx).WithFields(logrus.Fields{
		"request_id": req.ID,
		"assignee":   req.AssigneeID,
	}).Info("request created")

	return req, nil
}

// Get retrieves a request by ID
func (s *requestService) Get(ctx context.Context, id int64) (*models.Request, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id %d", repositories.ErrRequestNotFound, id)
	}
	return s.requestRepo.GetByID(ctx, id)
}

// List retrieves requests matching the filter, newest first
func (s *requestService) List(ctx context.Context, filter models.RequestFilter) ([]models.Request, error) {
	if filter.State != "" && !filter.State.IsValid() {
		return nil, fmt.Errorf("%w: unknown state %q", workflow.ErrInvalidInput, filter.State)
	}
	return s.requestRepo.List(ctx, filter)
}

// Counts returns the number of requests per state
func (s *requestService) Counts(ctx context.Context) (map[workflow.State]int, error) {
	return s.requestRepo.CountByState(ctx)
}

// History returns the transition log of a request, most recent first, with actor names
func (s *requestService) History(ctx context.Context, id int64) ([]models.StateLogEntry, error) {
	entries, err := s.stateLogRepo.ListForRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	var ids []int64
	for _, e := range entries {
		if e.ActorID != nil {
			ids = append(ids, *e.ActorID)
		}
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].ActorName = "system"
		if entries[i].ActorID == nil {
			continue
		}
		if u, ok := users[*entries[i].ActorID]; ok {
			entries[i].ActorName = u.DisplayName()
		} else {
			entries[i].ActorName = fmt.Sprintf("user #%d", *entries[i].ActorID)
		}
	}
	return entries, nil
}

// Detail loads a request with its history and what the actor may do next
func (s *requestService) Detail(ctx context.Context, id int64, actor workflow.Actor) (*RequestDetail, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	history, err := s.History(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &RequestDetail{
		Request:       req,
		History:       history,
		CanTransition: workflow.CanTransition(actor, req.AssigneeID),
	}
	detail.CanSubmit = detail.CanTransition && req.State == workflow.StateDraft
	detail.CanReject = detail.CanTransition && !req.IsTerminal()
	detail.CanApprove = workflow.CanApprove(actor) && req.State == workflow.StateReview

	users, err := s.userRepo.GetByIDs(ctx, []int64{req.AssigneeID})
	if err != nil {
		return nil, err
	}
	if u, ok := users[req.AssigneeID]; ok {
		detail.Assignee = &u
	}

	return detail, nil
}

// Assignees lists the active members of the current tenant
func (s *requestService) Assignees(ctx context.Context) ([]models.Membership, error) {
	client := tenantctx.Client(ctx)
	if client == nil {
		return nil, tenantctx.ErrNoTenant
	}

	all, err := s.membershipRepo.ListForClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	active := make([]models.Membership, 0, len(all))
	for _, m := range all {
		if m.IsActive {
			active = append(active, m)
		}
	}
	return active, nil
}

// SubmitForReview moves a draft into review
func (s *requestService) SubmitForReview(ctx context.Context, id int64, actor workflow.Actor) (*models.Request, error) {
	return s.transition(ctx, workflow.OpSubmit, id, func(subject workflow.Subject) (workflow.Transition, error) {
		return workflow.SubmitForReview(subject, actor)
	})
}

// Approve approves a request under review
func (s *requestService) Approve(ctx context.Context, id int64, actor workflow.Actor) (*models.Request, error) {
	return s.transition(ctx, workflow.OpApprove, id, func(subject workflow.Subject) (workflow.Transition, error) {
		return workflow.Approve(subject, actor)
	})
}

// Reject rejects a draft or a request under review with a reason
func (s *requestService) Reject(ctx context.Context, id int64, actor workflow.Actor, reason string) (*models.Request, error) {
	return s.transition(ctx, workflow.OpReject, id, func(subject workflow.Subject) (workflow.Transition, error) {
		return workflow.Reject(subject, actor, reason)
	})
}

// transition loads the request, decides the transition on the fresh row and
// persists it. A concurrent writer bumps the version, in which case the row is
// reloaded and the decision made again, so the loser sees the new state.
func (s *requestService) transition(
	ctx context.Context,
	op string,
	id int64,
	decide func(workflow.Subject) (workflow.Transition, error),
) (*models.Request, error) {
	log := logging.FromContext(ctx).WithFields(logrus.Fields{
		"request_id": id,
		"operation":  op,
	})

	var err error
	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		var req *models.Request
		req, err = s.Get(ctx, id)
		if err != nil {
			break
		}

		var t workflow.Transition
		t, err = decide(req.Subject())
		if err != nil {
			log.WithError(err).Info("transition refused")
			break
		}

		err = s.requestRepo.ApplyTransition(ctx, req, t)
		if err == nil {
			metrics.TransitionsTotal.WithLabelValues(op, outcome(nil)).Inc()
			log.WithFields(logrus.Fields{
				"from": *t.From,
				"to":   t.To,
			}).Info("request transitioned")
			return req, nil
		}
		if !errors.Is(err, repositories.ErrStaleRequest) {
			break
		}
		log.WithField("attempt", attempt).Debug("request changed concurrently, retrying")
	}

	metrics.TransitionsTotal.WithLabelValues(op, outcome(err)).Inc()
	return nil, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, workflow.ErrForbidden):
		return "forbidden"
	case errors.Is(err, workflow.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, workflow.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, repositories.ErrStaleRequest):
		return "conflict"
	case errors.Is(err, repositories.ErrRequestNotFound):
		return "not_found"
	default:
		return "error"
	}
}
