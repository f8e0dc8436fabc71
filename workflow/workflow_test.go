package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	assigneeID int64 = 1
	otherID    int64 = 2
	staffID    int64 = 3
)

var (
	assignee = Actor{UserID: assigneeID}
	other    = Actor{UserID: otherID}
	staff    = Actor{UserID: staffID, Elevated: true}
)

func subject(state State) Subject {
	return Subject{State: state, AssigneeID: assigneeID}
}

func TestSubmitForReview_AssigneeMovesDraftToReview(t *testing.T) {
	tr, err := SubmitForReview(subject(StateDraft), assignee)
	require.NoError(t, err)

	assert.Equal(t, StateReview, tr.To)
	require.NotNil(t, tr.From)
	assert.Equal(t, StateDraft, *tr.From)
	require.NotNil(t, tr.ActorID)
	assert.Equal(t, assigneeID, *tr.ActorID)
	assert.Equal(t, "Submitted for review", tr.Description)
	assert.Empty(t, tr.RejectReason)
}

func TestSubmitForReview_StaffMayActForAssignee(t *testing.T) {
	tr, err := SubmitForReview(subject(StateDraft), staff)
	require.NoError(t, err)
	assert.Equal(t, StateReview, tr.To)
}

func TestSubmitForReview_OtherUserForbidden(t *testing.T) {
	_, err := SubmitForReview(subject(StateDraft), other)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmitForReview_AnonymousActorForbidden(t *testing.T) {
	_, err := SubmitForReview(Subject{State: StateDraft}, Actor{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmitForReview_OnlyFromDraft(t *testing.T) {
	for _, s := range []State{StateReview, StateApproved, StateRejected} {
		_, err := SubmitForReview(subject(s), assignee)
		assert.ErrorIs(t, err, ErrInvalidTransition, "state %s", s)
	}
}

func TestApprove_RequiresElevatedActor(t *testing.T) {
	_, err := Approve(subject(StateReview), assignee)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = Approve(subject(StateReview), other)
	assert.ErrorIs(t, err, ErrForbidden)

	tr, err := Approve(subject(StateReview), staff)
	require.NoError(t, err)
	assert.Equal(t, StateApproved, tr.To)
	assert.Equal(t, StateReview, *tr.From)
}

func TestApprove_TwiceOnDraftFailsBothTimes(t *testing.T) {
	s := subject(StateDraft)
	for i := 0; i < 2; i++ {
		_, err := Approve(s, staff)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
	assert.Equal(t, StateDraft, s.State)
}

func TestReject_BlankReasonIsInvalidInput(t *testing.T) {
	for _, reason := range []string{"", "   ", "\t\n"} {
		_, err := Reject(subject(StateDraft), assignee, reason)
		require.ErrorIs(t, err, ErrInvalidInput)

		var te *TransitionError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, "Reject reason is required.", te.UserMessage())
	}
}

func TestReject_FromDraftAndReview(t *testing.T) {
	for _, s := range []State{StateDraft, StateReview} {
		tr, err := Reject(subject(s), assignee, "  missing docs ")
		require.NoError(t, err)
		assert.Equal(t, StateRejected, tr.To)
		assert.Equal(t, s, *tr.From)
		assert.Equal(t, "missing docs", tr.RejectReason)
		assert.Equal(t, "Rejected: missing docs", tr.Description)
	}
}

func TestReject_OtherUserForbidden(t *testing.T) {
	_, err := Reject(subject(StateReview), other, "nope")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTerminalStatesRejectEveryOperation(t *testing.T) {
	for _, s := range []State{StateApproved, StateRejected} {
		sub := subject(s)

		_, err := SubmitForReview(sub, staff)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		_, err = Approve(sub, staff)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		_, err = Reject(sub, staff, "too late")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestRejectReasonOnlyOnRejected(t *testing.T) {
	ops := []func(Subject) (Transition, error){
		func(s Subject) (Transition, error) { return SubmitForReview(s, staff) },
		func(s Subject) (Transition, error) { return Approve(s, staff) },
		func(s Subject) (Transition, error) { return Reject(s, staff, "reason") },
	}
	for _, from := range AllStates() {
		for _, op := range ops {
			tr, err := op(subject(from))
			if err != nil {
				continue
			}
			assert.True(t, tr.To.IsValid())
			assert.Equal(t, tr.To == StateRejected, tr.RejectReason != "")
		}
	}
}

func TestCreated(t *testing.T) {
	tr := Created(assignee)
	assert.Nil(t, tr.From)
	assert.Equal(t, StateDraft, tr.To)
	assert.Equal(t, "Created request", tr.Description)
	require.NotNil(t, tr.ActorID)
	assert.Equal(t, assigneeID, *tr.ActorID)

	assert.Nil(t, Created(Actor{}).ActorID)
}

func TestStateHelpers(t *testing.T) {
	assert.True(t, StateApproved.IsTerminal())
	assert.True(t, StateRejected.IsTerminal())
	assert.False(t, StateDraft.IsTerminal())
	assert.False(t, State("ONBOARDING").IsValid())

	assert.Equal(t, 0, StateDraft.StepIndex())
	assert.Equal(t, 1, StateReview.StepIndex())
	assert.Equal(t, 2, StateApproved.StepIndex())
	assert.Equal(t, 0, StateRejected.StepIndex())
	assert.Equal(t, []State{StateDraft, StateReview, StateApproved}, Steps())

	s, ok := ParseState("REVIEW")
	assert.True(t, ok)
	assert.Equal(t, StateReview, s)
	_, ok = ParseState("review")
	assert.False(t, ok)

	assert.Equal(t, "Draft", StateDraft.Label())
}
