// Package workflow implements the vendor request lifecycle:
//
//	DRAFT --submit--> REVIEW --approve--> APPROVED
//	DRAFT --reject--> REJECTED
//	REVIEW --reject--> REJECTED
//
// Every function here is pure. Persisting the resulting Transition together
// with its audit entry is the caller's job.
package workflow

import (
	"strings"
)

const (
	OpCreate  = "create"
	OpSubmit  = "submit_for_review"
	OpApprove = "approve"
	OpReject  = "reject"
)

// Actor is the user invoking an operation
type Actor struct {
	UserID int64
	// Elevated is true for staff users and tenant owners/admins
	Elevated bool
}

// Subject is the part of a request the engine needs to decide a transition
type Subject struct {
	State      State
	AssigneeID int64
}

// Transition is the outcome of a successful operation
type Transition struct {
	Op string
	// From is nil for the creation entry
	From         *State
	To           State
	ActorID      *int64
	RejectReason string
	Description  string
}

// CanTransition reports whether the actor may advance or reject the request
func CanTransition(actor Actor, assigneeID int64) bool {
	if actor.Elevated {
		return true
	}
	return actor.UserID != 0 && actor.UserID == assigneeID
}

// CanApprove reports whether the actor may approve. Approval requires
// elevated privilege; being the assignee is not enough.
func CanApprove(actor Actor) bool {
	return actor.Elevated
}

// Created returns the entry recorded when a request is first saved
func Created(actor Actor) Transition {
	return Transition{
		Op:          OpCreate,
		To:          StateDraft,
		ActorID:     actorID(actor),
		Description: "Created request",
	}
}

// SubmitForReview moves a draft into review
func SubmitForReview(subject Subject, actor Actor) (Transition, error) {
	if !CanTransition(actor, subject.AssigneeID) {
		return Transition{}, newTransitionError(OpSubmit, subject.State, ErrForbidden, "")
	}
	if subject.State != StateDraft {
		return Transition{}, newTransitionError(OpSubmit, subject.State, ErrInvalidTransition, "")
	}
	return edge(OpSubmit, subject.State, StateReview, actor, "Submitted for review"), nil
}

// Approve moves a request in review to approved
func Approve(subject Subject, actor Actor) (Transition, error) {
	if !CanApprove(actor) {
		return Transition{}, newTransitionError(OpApprove, subject.State, ErrForbidden, "Only staff or tenant admins can approve.")
	}
	if subject.State != StateReview {
		return Transition{}, newTransitionError(OpApprove, subject.State, ErrInvalidTransition, "")
	}
	return edge(OpApprove, subject.State, StateApproved, actor, "Approved"), nil
}

// Reject closes a draft or in-review request. The reason is trimmed and must not be blank.
func Reject(subject Subject, actor Actor, reason string) (Transition, error) {
	if !CanTransition(actor, subject.AssigneeID) {
		return Transition{}, newTransitionError(OpReject, subject.State, ErrForbidden, "")
	}
	if subject.State != StateDraft && subject.State != StateReview {
		return Transition{}, newTransitionError(OpReject, subject.State, ErrInvalidTransition, "")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Transition{}, newTransitionError(OpReject, subject.State, ErrInvalidInput, "Reject reason is required.")
	}
	t := edge(OpReject, subject.State, StateRejected, actor, "Rejected: "+reason)
	t.RejectReason = reason
	return t, nil
}

func edge(op string, from, to State, actor Actor, description string) Transition {
	src := from
	return Transition{
		Op:          op,
		From:        &src,
		To:          to,
		ActorID:     actorID(actor),
		Description: description,
	}
}

func actorID(actor Actor) *int64 {
	if actor.UserID == 0 {
		return nil
	}
	id := actor.UserID
	return &id
}
