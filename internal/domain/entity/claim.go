package entity

import (
	"time"

	"github.com/tmabena/claimflow/internal/domain/workflow"
)

// Claim bounds applied at input validation. The verification ceiling on the
// hourly rate is stricter and configured separately.
const (
	MaxHoursPerMonth = 176.0
	MinHourlyRate    = 50.0
	MaxHourlyRate    = 1000.0
	MaxNotesLength   = 500
)

// Claim represents a lecturer's monthly hours-worked submission
type Claim struct {
	ID           int64          `json:"id"`
	OwnerID      string         `json:"owner_id"`
	LecturerName string         `json:"lecturer_name"`
	HoursWorked  float64        `json:"hours_worked"`
	HourlyRate   float64        `json:"hourly_rate"`
	TotalAmount  float64        `json:"total_amount"`
	Notes        string         `json:"notes,omitempty"`
	Status       workflow.State `json:"status"`
	SubmittedAt  time.Time      `json:"submitted_at"`

	// Version increments on every status write; concurrent transitions are
	// detected through it and the conditional status update.
	Version int64 `json:"version"`

	Documents []*SupportingDocument `json:"documents,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecomputeTotal derives TotalAmount from hours and rate. It is the only way
// the total is ever set.
func (c *Claim) RecomputeTotal() {
	c.TotalAmount = c.HoursWorked * c.HourlyRate
}

// SubmissionMonth returns the calendar year and month the claim was submitted
// in, the window the monthly hour cap and duplicate checks apply to.
func (c *Claim) SubmissionMonth() (int, time.Month) {
	return c.SubmittedAt.Year(), c.SubmittedAt.Month()
}

// VerificationResult holds the advisory business-rule checks computed for a
// claim. It is ephemeral: computed fresh on each request, never persisted,
// and never blocks a transition.
type VerificationResult struct {
	HourlyRateValid bool `json:"hourly_rate_valid"`
	TotalHoursValid bool `json:"total_hours_valid"`
	DuplicateClaim  bool `json:"duplicate_claim"`
}

// ClaimFilter narrows ListClaims results. Zero values mean "no restriction".
type ClaimFilter struct {
	OwnerID  string
	Status   workflow.State
	Statuses []workflow.State
	Search   string
}
