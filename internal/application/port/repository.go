package port

import (
	"context"
	"time"

	"github.com/tmabena/claimflow/internal/domain/entity"
	"github.com/tmabena/claimflow/internal/domain/workflow"
)

// ClaimRepository defines persistence operations for Claim
type ClaimRepository interface {
	Create(ctx context.Context, claim *entity.Claim) error

	// GetByID returns the claim with its documents, or entity.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*entity.Claim, error)

	// Update rewrites the mutable claim fields (hours, rate, total, notes,
	// lecturer name, submitted-at). Owner and id are never touched. The write
	// only lands while the claim is still editable: a claim that review has
	// picked up in the meantime maps to entity.ErrConflict, a missing claim
	// to entity.ErrNotFound.
	Update(ctx context.Context, claim *entity.Claim) error

	// UpdateStatus conditionally moves a claim from one status to another.
	// The write only lands if the stored status still equals from; it reports
	// whether a row was updated so callers can detect lost races.
	UpdateStatus(ctx context.Context, id int64, from, to workflow.State) (bool, error)

	List(ctx context.Context, filter entity.ClaimFilter) ([]*entity.Claim, error)

	// SumHoursForMonth totals HoursWorked over the owner's claims submitted in
	// the given calendar month, excluding excludeID (0 excludes nothing).
	SumHoursForMonth(ctx context.Context, ownerID string, year int, month time.Month, excludeID int64) (float64, error)

	// CountDuplicates counts the owner's other claims in the month with
	// identical hours and rate, excluding excludeID.
	CountDuplicates(ctx context.Context, ownerID string, hours, rate float64, year int, month time.Month, excludeID int64) (int, error)

	Delete(ctx context.Context, id int64) error
}

// NotificationRepository defines persistence operations for Notification
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByID(ctx context.Context, id int64) (*entity.Notification, error)

	// ListUnread returns the user's unread notifications, newest first.
	ListUnread(ctx context.Context, userID string) ([]*entity.Notification, error)

	MarkRead(ctx context.Context, id int64) error
}

// DocumentRepository defines persistence operations for SupportingDocument
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.SupportingDocument) error
	GetByID(ctx context.Context, id int64) (*entity.SupportingDocument, error)
	GetByClaimID(ctx context.Context, claimID int64) ([]*entity.SupportingDocument, error)
	Delete(ctx context.Context, id int64) error
	DeleteByClaimID(ctx context.Context, claimID int64) error
}

// LecturerRepository manages contracted lecturer reference data
type LecturerRepository interface {
	Create(ctx context.Context, lecturer *entity.Lecturer) error
	Update(ctx context.Context, lecturer *entity.Lecturer) error
	GetByEmail(ctx context.Context, email string) (*entity.Lecturer, error)
	GetByID(ctx context.Context, id int64) (*entity.Lecturer, error)
	List(ctx context.Context) ([]*entity.Lecturer, error)
	Delete(ctx context.Context, id int64) error
}

// RoleDirectory resolves current role membership. Implementations must query
// live state on every call: membership can change between workflow steps.
type RoleDirectory interface {
	UsersInRole(ctx context.Context, role workflow.Role) ([]string, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
