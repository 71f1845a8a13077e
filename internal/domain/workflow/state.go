package workflow

// State represents a claim status in the approval lifecycle
type State string

const (
	StateSubmitted   State = "SUBMITTED"
	StateUnderReview State = "UNDER_REVIEW"
	StateApproved    State = "APPROVED"
	StateProcessed   State = "PROCESSED"
	StateRejected    State = "REJECTED"
	StateSentBack    State = "SENT_BACK"
)

var validStates = map[State]bool{
	StateSubmitted:   true,
	StateUnderReview: true,
	StateApproved:    true,
	StateProcessed:   true,
	StateRejected:    true,
	StateSentBack:    true,
}

var terminalStates = map[State]bool{
	StateProcessed: true,
	StateRejected:  true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a valid claim status
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// Editable reports whether a claim in this state may still be changed by its owner.
// A sent-back claim is awaiting correction, so it remains editable.
func (s State) Editable() bool {
	return s == StateSubmitted || s == StateSentBack
}
