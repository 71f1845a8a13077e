package workflow

// Action represents a role-specific operation that moves a claim between states
type Action string

const (
	ActionSetUnderReview Action = "SET_UNDER_REVIEW"
	ActionSendBack       Action = "SEND_BACK"
	ActionApprove        Action = "APPROVE"
	ActionReject         Action = "REJECT"
	ActionMarkProcessed  Action = "MARK_PROCESSED"
	ActionResubmit       Action = "RESUBMIT"
)

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}

// Role identifies which kind of actor may perform a transition
type Role string

const (
	RoleLecturer    Role = "Lecturer"
	RoleCoordinator Role = "Coordinator"
	RoleManager     Role = "Manager"
	RoleHR          Role = "HR"
)

var validRoles = map[Role]bool{
	RoleLecturer:    true,
	RoleCoordinator: true,
	RoleManager:     true,
	RoleHR:          true,
}

// IsValid returns true if the role is one of the four workflow roles
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}
