package workflow

// NotifyTarget names who receives a notification after a transition commits.
type NotifyTarget string

const (
	// NotifyOwner targets the lecturer who owns the claim.
	NotifyOwner NotifyTarget = "OWNER"

	// NotifyCoordinators, NotifyManagers and NotifyHRStaff fan out to every
	// current member of the corresponding role.
	NotifyCoordinators NotifyTarget = "COORDINATORS"
	NotifyManagers     NotifyTarget = "MANAGERS"
	NotifyHRStaff      NotifyTarget = "HR_STAFF"
)

// Role returns the role a fan-out target resolves against, or false for
// owner-directed notifications.
func (t NotifyTarget) Role() (Role, bool) {
	switch t {
	case NotifyCoordinators:
		return RoleCoordinator, true
	case NotifyManagers:
		return RoleManager, true
	case NotifyHRStaff:
		return RoleHR, true
	default:
		return "", false
	}
}

// Transition is one legal row of the claim lifecycle: firing Action from the
// From state, by an actor holding Role, moves the claim to To and notifies
// Notify. OwnerOnly transitions additionally require the actor to own the claim.
type Transition struct {
	From      State
	Action    Action
	Role      Role
	To        State
	Notify    NotifyTarget
	OwnerOnly bool
}

// transitions is the single authority on claim lifecycle legality. Every
// status change must match exactly one row here; anything else is rejected.
var transitions = []Transition{
	{From: StateSubmitted, Action: ActionSetUnderReview, Role: RoleCoordinator, To: StateUnderReview, Notify: NotifyManagers},
	{From: StateSubmitted, Action: ActionSendBack, Role: RoleCoordinator, To: StateSentBack, Notify: NotifyOwner},
	{From: StateUnderReview, Action: ActionSendBack, Role: RoleCoordinator, To: StateSentBack, Notify: NotifyOwner},
	{From: StateUnderReview, Action: ActionApprove, Role: RoleManager, To: StateApproved, Notify: NotifyHRStaff},
	{From: StateUnderReview, Action: ActionReject, Role: RoleManager, To: StateRejected, Notify: NotifyOwner},
	{From: StateApproved, Action: ActionMarkProcessed, Role: RoleHR, To: StateProcessed, Notify: NotifyOwner},
	{From: StateSentBack, Action: ActionResubmit, Role: RoleLecturer, To: StateSubmitted, Notify: NotifyCoordinators, OwnerOnly: true},
}

// Lookup returns the transition row for (from, action), if one exists.
func Lookup(from State, action Action) (Transition, bool) {
	for _, t := range transitions {
		if t.From == from && t.Action == action {
			return t, true
		}
	}
	return Transition{}, false
}

// Table returns a copy of every legal transition, for table-driven tests and
// permitted-action listings.
func Table() []Transition {
	out := make([]Transition, len(transitions))
	copy(out, transitions)
	return out
}

// PermittedActions returns the actions that can legally fire from a state.
func PermittedActions(from State) []Action {
	var actions []Action
	for _, t := range transitions {
		if t.From == from {
			actions = append(actions, t.Action)
		}
	}
	return actions
}
