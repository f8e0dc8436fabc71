package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when the requested edge is not in the state graph
	ErrInvalidTransition = errors.New("invalid transition from current state")
	// ErrForbidden is returned when the actor may not perform the transition
	ErrForbidden = errors.New("only the assignee or staff can transition this request")
	// ErrInvalidInput is returned when the transition input fails validation
	ErrInvalidInput = errors.New("invalid transition input")
)

// TransitionError describes a failed transition attempt
type TransitionError struct {
	Op   string
	From State
	Err  error
	// Msg overrides the default message shown to users
	Msg string
}

func (e *TransitionError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s from %s: %s", e.Op, e.From, e.Msg)
	}
	return fmt.Sprintf("%s from %s: %v", e.Op, e.From, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// UserMessage is the text safe to show in a flash message
func (e *TransitionError) UserMessage() string {
	if e.Msg != "" {
		return e.Msg
	}
	switch {
	case errors.Is(e.Err, ErrInvalidTransition):
		return "Invalid transition from current state."
	case errors.Is(e.Err, ErrForbidden):
		return "Only assignee or staff can transition."
	default:
		return e.Err.Error()
	}
}

func newTransitionError(op string, from State, err error, msg string) *TransitionError {
	return &TransitionError{Op: op, From: from, Err: err, Msg: msg}
}
