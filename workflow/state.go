package workflow

// State is a lifecycle state of a vendor request
type State string

const (
	StateDraft    State = "DRAFT"
	StateReview   State = "REVIEW"
	StateApproved State = "APPROVED"
	StateRejected State = "REJECTED"
)

var validStates = map[State]bool{
	StateDraft:    true,
	StateReview:   true,
	StateApproved: true,
	StateRejected: true,
}

var terminalStates = map[State]bool{
	StateApproved: true,
	StateRejected: true,
}

var stateLabels = map[State]string{
	StateDraft:    "Draft",
	StateReview:   "Review",
	StateApproved: "Approved",
	StateRejected: "Rejected",
}

// Stepper order used by the UI; REJECTED is not a step.
var stepOrder = []State{StateDraft, StateReview, StateApproved}

// AllStates returns every state in display order
func AllStates() []State {
	return []State{StateDraft, StateReview, StateApproved, StateRejected}
}

// Steps returns the stepper states in order
func Steps() []State {
	return append([]State(nil), stepOrder...)
}

// ParseState converts a raw value (e.g. a ?state= query param) into a State
func ParseState(raw string) (State, bool) {
	s := State(raw)
	return s, s.IsValid()
}

// IsValid returns true if the state is one of the four workflow states
func (s State) IsValid() bool {
	return validStates[s]
}

// IsTerminal returns true if no transition leaves this state
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// Label returns the human readable name
func (s State) Label() string {
	if label, ok := stateLabels[s]; ok {
		return label
	}
	return string(s)
}

// StepIndex is the zero-based position in the stepper. Unknown states render as Draft.
func (s State) StepIndex() int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return 0
}

func (s State) String() string {
	return string(s)
}
