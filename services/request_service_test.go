package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/blogem/vendorflow/metrics"
	"github.com/blogem/vendorflow/models"
	"github.com/blogem/vendorflow/repositories"
	"github.com/blogem/vendorflow/repositories/mocks"
	"github.com/blogem/vendorflow/tenantctx"
	"github.com/blogem/vendorflow/workflow"
)

const (
	assigneeID int64 = 7
	otherID    int64 = 8
	adminID    int64 = 1
)

var (
	assignee = workflow.Actor{UserID: assigneeID}
	other    = workflow.Actor{UserID: otherID}
	admin    = workflow.Actor{UserID: adminID, Elevated: true}
)

// RequestServiceTestSuite exercises RequestService against mocked repositories
type RequestServiceTestSuite struct {
	suite.Suite
	service            RequestService
	mockRequestRepo    *mocks.MockRequestRepository
	mockStateLogRepo   *mocks.MockStateLogRepository
	mockUserRepo       *mocks.MockUserRepository
	mockMembershipRepo *mocks.MockMembershipRepository

	client *models.Client
	ctx    context.Context
}

// SetupTest sets up the test suite before each test
func (suite *RequestServiceTestSuite) SetupTest() {
	suite.mockRequestRepo = mocks.NewMockRequestRepository(suite.T())
	suite.mockStateLogRepo = mocks.NewMockStateLogRepository(suite.T())
	suite.mockUserRepo = mocks.NewMockUserRepository(suite.T())
	suite.mockMembershipRepo = mocks.NewMockMembershipRepository(suite.T())

	suite.service = NewRequestService(
		suite.mockRequestRepo,
		suite.mockStateLogRepo,
		suite.mockUserRepo,
		suite.mockMembershipRepo,
	)

	suite.client = &models.Client{ID: uuid.New(), Name: "ACME", SchemaName: "acme_suite"}
	suite.ctx = tenantctx.WithTenant(context.Background(), suite.client, nil)
}

func request(state workflow.State, version int) *models.Request {
	r := &models.Request{
		ID:         42,
		Name:       "ACME Cloud",
		State:      state,
		AssigneeID: assigneeID,
		Version:    version,
	}
	if state == workflow.StateRejected {
		r.RejectReason = "No SOC2"
	}
	return r
}

// TestCreate_ValidationFailure tests that an invalid form never reaches storage
func (suite *RequestServiceTestSuite) TestCreate_ValidationFailure() {
	form := &models.RequestForm{Name: "   ", AssigneeID: assigneeID}

	result, err := suite.service.Create(suite.ctx, admin, form)

	assert.Nil(suite.T(), result)
	assert.ErrorIs(suite.T(), err, workflow.ErrInvalidInput)

	var formErr *FormError
	require.ErrorAs(suite.T(), err, &formErr)
	assert.Equal(suite.T(), "name is required", formErr.Errors.For("name"))
}

// TestCreate_NoTenant tests that creation needs a tenant context
func (suite *RequestServiceTestSuite) TestCreate_NoTenant() {
	form := &models.RequestForm{Name: "Vendor", AssigneeID: assigneeID}

	_, err := suite.service.Create(context.Background(), admin, form)

	assert.ErrorIs(suite.T(), err, tenantctx.ErrNoTenant)
}

// TestCreate_AssigneeMustBeMember tests that the assignee has to belong to the tenant
func (suite *RequestServiceTestSuite) TestCreate_AssigneeMustBeMember() {
	suite.mockMembershipRepo.EXPECT().Get(mock.Anything, assigneeID, suite.client.ID).
		Return(nil, repositories.ErrNotFound)

	form := &models.RequestForm{Name: "Vendor", AssigneeID: assigneeID}
	_, err := suite.service.Create(suite.ctx, admin, form)

	var formErr *FormError
	require.ErrorAs(suite.T(), err, &formErr)
	assert.NotEmpty(suite.T(), formErr.Errors.For("assignee"))
}

// TestCreate_Success tests that a new request starts as a draft with a creation entry
func (suite *RequestServiceTestSuite) TestCreate_Success() {
	before := testutil.ToFloat64(metrics.RequestsCreatedTotal.WithLabelValues(suite.client.SchemaName))

	suite.mockMembershipRepo.EXPECT().Get(mock.Anything, assigneeID, suite.client.ID).
		Return(&models.Membership{UserID: assigneeID, Role: models.RoleMember, IsActive: true}, nil)
	suite.mockRequestRepo.EXPECT().Create(mock.Anything, mock.AnythingOfType("*models.Request"), mock.MatchedBy(func(t workflow.Transition) bool {
		return t.Op == workflow.OpCreate && t.From == nil && t.To == workflow.StateDraft &&
			t.ActorID != nil && *t.ActorID == adminID && t.Description == "Created request"
	})).RunAndReturn(func(_ context.Context, req *models.Request, _ workflow.Transition) error {
		req.ID = 42
		req.State = workflow.StateDraft
		return nil
	})

	form := &models.RequestForm{Name: " ACME Cloud ", Description: "Hosting", AssigneeID: assigneeID}
	result, err := suite.service.Create(suite.ctx, admin, form)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(42), result.ID)
	assert.Equal(suite.T(), "ACME Cloud", result.Name)
	assert.Equal(suite.T(), workflow.StateDraft, result.State)
	require.NotNil(suite.T(), result.CreatedBy)
	assert.Equal(suite.T(), adminID, *result.CreatedBy)
	assert.Equal(suite.T(), before+1, testutil.ToFloat64(metrics.RequestsCreatedTotal.WithLabelValues(suite.client.SchemaName)))
}

// TestSubmitForReview_Success tests the assignee moving a draft into review
func (suite *RequestServiceTestSuite) TestSubmitForReview_Success() {
	before := testutil.ToFloat64(metrics.TransitionsTotal.WithLabelValues(workflow.OpSubmit, "ok"))

	suite.mockRequestRepo.EXPECT().GetByID(mock.Anything, int64(42)).Return(request(workflow.StateDraft, 1), nil)
	suite.mockRequestRepo.EXPECT().ApplyTransition(mock.Anything, mock.Anything, mock.MatchedBy(func(t workflow.Transition) bool {
		return *t.From == workflow.StateDraft && t.To == workflow.StateReview && t.Description == "Submitted for review"
	})).RunAndReturn(func(_ context.Context, req *models.Request, t workflow.Transition) error {
		req.State = t.To
		req.Version++
		return nil
	})

	result, err := suite.service.SubmitForReview(suite.ctx, 42, assignee)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), workflow.StateReview, result.State)
	assert.Equal(suite.T(), 2, result.Version)
	assert.Equal(suite.T(), before+1, testutil.ToFloat64(metrics.TransitionsTotal.WithLabelValues(workflow.OpSubmit, "ok")))
}

// TestSubmitForReview_OtherUserForbidden tests that nothing is written for an unauthorized actor
func (suite *RequestServiceTestSuite) TestSubmitForReview_OtherUserForbidden() {
	suite.mockRequestRepo.EXPECT().GetByID(mock.Anything, int64(42)).Return(request(workflow.StateDraft, 1), nil)

	_, err := suite.service.SubmitForReview(suite.ctx, 42, other)

	assert.ErrorIs(suite.T(), err, workflow.ErrForbidden)
	suite.mockRequestRepo.AssertNotCalled(suite.T(), "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
}

// TestApprove_AssigneeAloneForbidden tests that approval needs elevated privilege
func (suite *RequestServiceTestSuite) TestApprove_AssigneeAloneForbidden() {
	suite.mockRequestRepo.EXPECT().GetByID(mock.Anything, int64(42)).Return(request(workflow.StateReview, 2), nil)

	_, err := suite.service.Approve(suite.ctx, 42, assignee)

	assert.ErrorIs(suite.T(), err, workflow.ErrForbidden)
}

// TestApprove_FromDraftIsInvalid tests approving a draft
func (suite *RequestServiceTestSuite) TestApprove_FromDraftIsInvalid() {
	suite.mockRequestRepo.EXPECT().GetByID(mock.Anything, int64(42)).Return(request(workflow.StateDraft, 1), nil)

	_, err := suite.service.Approve(suite.ctx, 42, admin)

	assert.ErrorIs(suite.T(), err, workflow.ErrInvalidTransition)
}

// TestApprove_ConcurrentSecondWriterLoses tests that a writer beaten to the row
// re-reads it and fails the state precondition
func (suite *RequestServiceTestSuite) TestApprove_ConcurrentSecondWriterLoses() {
	suite.mockRequestRepo.EXPECT().GetByID(mock.Anything, int64(42)).Return(request(workflow.StateReview, 2), nil).Once()
	suite.mockRequestRepo.EXPECT().ApplyTransition(mock.Anything, mock.Anything, mock.Anything).
		Return(repositories.ErrStaleRequest).Once()
	suite.mockRequestRepo.EXPECT().GetByID(mock.Anything, int64(42)).Return(request(workflow.StateApproved, 3), nil).Once()

	_, err := suite.service.Approve(suite.ctx, 42, admin)

	assert.ErrorIs(suite.T(), err, workflow.ErrInvalidTransition)
}

// TestApprove_GivesUpAfterRepeatedConflicts tests the retry bound
func (suite *RequestServiceTestSuite) TestApprove_GivesUpAfterRepeatedConflicts() {
	before := testutil.ToFloat64(metrics.TransitionsTotal.WithLabelValues(workflow.OpApprove, "conflict"))

	suite.mockRequestRepo.EXPECT().GetByID(mock.Anything, int64(42)).
		RunAndReturn(func(context.Context, int64) (*models.Request, error) {
			return request(workflow.StateReview, 2), nil
		}).Times(maxTransitionAttempts)
	suite.mockRequestRepo.EXPECT().ApplyTransition(mock.Anything, mock.Anything, mock.Anything).
		Return(repositories.ErrStaleRequest).Times(maxTransitionAttempts)

	_, err := suite.service.Approve(suite.ctx, 42, admin)

	assert.ErrorIs(suite.T(), err, repositories.ErrStaleRequest)
	assert.Equal(suite.T(), before+1, testutil.ToFloat64(metrics.TransitionsTotal.WithLabelValues(workflow.OpApprove, "conflict")))
}

// TestReject_BlankReason tests that a whitespace reason is refused before writing
func (suite *RequestServiceTestSuite) TestReject_BlankReason() {
	suite.mockRequestRepo.EXPECT().GetByID(mock.Anything, int64(42)).Return(request(workflow.StateReview, 2), nil)

	_, err := suite.service.Reject(suite.ctx, 42, admin, "   ")

	assert.ErrorIs(suite.T(), err, workflow.ErrInvalidInput)
	var te *workflow.TransitionError
	require.ErrorAs(suite.T(), err, &te)
	assert.Equal(suite.T(), "Reject reason is required.", te.UserMessage())
}

// TestReject_Success tests the assignee rejecting a draft
func (suite *RequestServiceTestSuite) TestReject_Success() {
	suite.mockRequestRepo.EXPECT().GetByID(mock.Anything, int64(42)).Return(request(workflow.StateDraft, 1), nil)
	suite.mockRequestRepo.EXPECT().ApplyTransition(mock.Anything, mock.Anything, mock.MatchedBy(func(t workflow.Transition) bool {
		return t.To == workflow.StateRejected && t.RejectReason == "No SOC2" && t.Description == "Rejected: No SOC2"
	})).RunAndReturn(func(_ context.Context, req *models.Request, t workflow.Transition) error {
		req.State = t.To
		req.RejectReason = t.RejectReason
		return nil
	})

	result, err := suite.service.Reject(suite.ctx, 42, assignee, "  No SOC2 ")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), workflow.StateRejected, result.State)
	assert.Equal(suite.T(), "No SOC2", result.RejectReason)
}

// TestGet_NotFound tests that unknown and invalid IDs surface ErrRequestNotFound
func (suite *RequestServiceTestSuite) TestGet_NotFound() {
	suite.mockRequestRepo.EXPECT().GetByID(mock.Anything, int64(99)).Return(nil, repositories.ErrRequestNotFound)

	_, err := suite.service.Get(suite.ctx, 99)
	assert.ErrorIs(suite.T(), err, repositories.ErrRequestNotFound)

	_, err = suite.service.Get(suite.ctx, 0)
	assert.ErrorIs(suite.T(), err, repositories.ErrRequestNotFound)

	_, err = suite.service.SubmitForReview(suite.ctx, 0, admin)
	assert.ErrorIs(suite.T(), err, repositories.ErrRequestNotFound)
}

// TestList_UnknownState tests that a bad state filter is invalid input
func (suite *RequestServiceTestSuite) TestList_UnknownState() {
	_, err := suite.service.List(suite.ctx, models.RequestFilter{State: "PENDING"})

	assert.ErrorIs(suite.T(), err, workflow.ErrInvalidInput)
}

// TestDetail_FlagsAndActorNames tests the detail view for an elevated actor
func (suite *RequestServiceTestSuite) TestDetail_FlagsAndActorNames() {
	draft := workflow.StateDraft
	actor := assigneeID
	history := []models.StateLogEntry{
		{ID: 2, RequestID: 42, SourceState: &draft, State: workflow.StateReview, ActorID: &actor, Description: "Submitted for review"},
		{ID: 1, RequestID: 42, State: workflow.StateDraft, Description: "Created request"},
	}

	suite.mockRequestRepo.EXPECT().GetByID(mock.Anything, int64(42)).Return(request(workflow.StateReview, 2), nil)
	suite.mockStateLogRepo.EXPECT().ListForRequest(mock.Anything, int64(42)).Return(history, nil)
	suite.mockUserRepo.EXPECT().GetByIDs(mock.Anything, []int64{assigneeID}).
		Return(map[int64]models.User{assigneeID: {ID: assigneeID, Name: "Ann"}}, nil)

	detail, err := suite.service.Detail(suite.ctx, 42, admin)

	require.NoError(suite.T(), err)
	assert.True(suite.T(), detail.CanTransition)
	assert.True(suite.T(), detail.CanApprove)
	assert.True(suite.T(), detail.CanReject)
	assert.False(suite.T(), detail.CanSubmit)
	require.NotNil(suite.T(), detail.Assignee)
	assert.Equal(suite.T(), "Ann", detail.Assignee.Name)
	require.Len(suite.T(), detail.History, 2)
	assert.Equal(suite.T(), "Ann", detail.History[0].ActorName)
	assert.Equal(suite.T(), "system", detail.History[1].ActorName)
}

// TestDetail_AssigneeCannotApprove tests the flags the assignee sees on a request under review
func (suite *RequestServiceTestSuite) TestDetail_AssigneeCannotApprove() {
	suite.mockRequestRepo.EXPECT().GetByID(mock.Anything, int64(42)).Return(request(workflow.StateReview, 2), nil)
	suite.mockStateLogRepo.EXPECT().ListForRequest(mock.Anything, int64(42)).Return(nil, nil)
	suite.mockUserRepo.EXPECT().GetByIDs(mock.Anything, mock.Anything).Return(map[int64]models.User{}, nil)

	detail, err := suite.service.Detail(suite.ctx, 42, assignee)

	require.NoError(suite.T(), err)
	assert.True(suite.T(), detail.CanTransition)
	assert.False(suite.T(), detail.CanApprove)
	assert.True(suite.T(), detail.CanReject)
}

// TestAssignees_OnlyActiveMembers tests that inactive members are not offered
func (suite *RequestServiceTestSuite) TestAssignees_OnlyActiveMembers() {
	suite.mockMembershipRepo.EXPECT().ListForClient(mock.Anything, suite.client.ID).Return([]models.Membership{
		{UserID: 1, IsActive: true},
		{UserID: 2, IsActive: false},
	}, nil)

	members, err := suite.service.Assignees(suite.ctx)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), members, 1)
	assert.Equal(suite.T(), int64(1), members[0].UserID)
}

// TestRunRequestServiceTestSuite runs the test suite
func TestRunRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RequestServiceTestSuite))
}

func TestOutcome(t *testing.T) {
	cases := map[string]error{
		"ok":                 nil,
		"forbidden":          &workflow.TransitionError{Err: workflow.ErrForbidden},
		"invalid_transition": &workflow.TransitionError{Err: workflow.ErrInvalidTransition},
		"invalid_input":      &FormError{},
		"conflict":           repositories.ErrStaleRequest,
		"not_found":          repositories.ErrRequestNotFound,
		"error":              errors.New("boom"),
	}
	for want, err := range cases {
		assert.Equal(t, want, outcome(err))
	}
}
