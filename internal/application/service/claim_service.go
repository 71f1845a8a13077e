package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/tmabena/claimflow/internal/application/port"
	"github.com/tmabena/claimflow/internal/domain/entity"
	"github.com/tmabena/claimflow/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// CreateClaimInput carries the fields a lecturer submits for a new claim.
type CreateClaimInput struct {
	OwnerID      string
	OwnerEmail   string
	LecturerName string
	HoursWorked  float64
	HourlyRate   float64
	Notes        string
	SubmittedAt  time.Time
}

// EditClaimInput carries the fields an owner may change on an editable claim.
type EditClaimInput struct {
	HoursWorked float64
	HourlyRate  float64
	Notes       string
	SubmittedAt time.Time
}

// ClaimService is the sole authority for creating claims and moving them
// through the approval lifecycle. Every status change goes through Apply or
// the edit/resubmit pathway; both commit the status write and the resulting
// notifications in a single transaction.
type ClaimService interface {
	CreateClaim(ctx context.Context, input CreateClaimInput) (*entity.Claim, error)
	EditClaim(ctx context.Context, claimID int64, actorID string, input EditClaimInput) (*entity.Claim, error)
	Apply(ctx context.Context, claimID int64, action workflow.Action, actorRole workflow.Role, actorID string) (*entity.Claim, error)
	GetClaim(ctx context.Context, id int64) (*entity.Claim, error)
	ListClaims(ctx context.Context, filter entity.ClaimFilter) ([]*entity.Claim, error)
	ListPending(ctx context.Context, role workflow.Role, actorID string) ([]*entity.Claim, error)
	DeleteClaim(ctx context.Context, claimID int64, actorID string) error
	AddDocument(ctx context.Context, claimID int64, actorID string, fileName string, content []byte) (*entity.SupportingDocument, error)
	GetDocument(ctx context.Context, claimID, documentID int64) (*entity.SupportingDocument, []byte, error)
	DeleteDocument(ctx context.Context, claimID, documentID int64, actorID string) error
}

type claimServiceImpl struct {
	claimRepo     port.ClaimRepository
	documentRepo  port.DocumentRepository
	lecturerRepo  port.LecturerRepository
	notifications NotificationService
	verification  VerificationService
	attachments   port.AttachmentStore
	txManager     port.TransactionManager
	logger        Logger
}

// NewClaimService creates a new ClaimService
func NewClaimService(
	claimRepo port.ClaimRepository,
	documentRepo port.DocumentRepository,
	lecturerRepo port.LecturerRepository,
	notifications NotificationService,
	verification VerificationService,
	attachments port.AttachmentStore,
	txManager port.TransactionManager,
	logger Logger,
) ClaimService {
	return &claimServiceImpl{
		claimRepo:     claimRepo,
		documentRepo:  documentRepo,
		lecturerRepo:  lecturerRepo,
		notifications: notifications,
		verification:  verification,
		attachments:   attachments,
		txManager:     txManager,
		logger:        logger,
	}
}

// CreateClaim validates the submission, derives the total, persists the claim
// as Submitted and notifies every current Coordinator in one transaction.
func (s *claimServiceImpl) CreateClaim(ctx context.Context, input CreateClaimInput) (*entity.Claim, error) {
	if input.SubmittedAt.IsZero() {
		input.SubmittedAt = time.Now()
	}

	// Prefill the contracted rate when the submission carries none.
	if input.HourlyRate == 0 && input.OwnerEmail != "" {
		lecturer, err := s.lecturerRepo.GetByEmail(ctx, input.OwnerEmail)
		if err == nil && lecturer != nil {
			input.HourlyRate = lecturer.DefaultHourlyRate
		}
	}

	if err := validateClaimFields(input.LecturerName, input.HoursWorked, input.HourlyRate, input.Notes, input.SubmittedAt); err != nil {
		return nil, err
	}
	if input.OwnerID == "" {
		return nil, &entity.ValidationError{Problems: []string{"owner is required"}}
	}

	claim := &entity.Claim{
		OwnerID:      input.OwnerID,
		LecturerName: input.LecturerName,
		HoursWorked:  input.HoursWorked,
		HourlyRate:   input.HourlyRate,
		Notes:        input.Notes,
		Status:       workflow.StateSubmitted,
		SubmittedAt:  input.SubmittedAt,
	}
	claim.RecomputeTotal()

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.claimRepo.Create(txCtx, claim); err != nil {
			return fmt.Errorf("create claim: %w", err)
		}

		message := fmt.Sprintf("New claim #%d submitted by %s.", claim.ID, claim.LecturerName)
		if err := s.notifications.NotifyRole(txCtx, workflow.RoleCoordinator, message); err != nil {
			return fmt.Errorf("notify coordinators: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create claim", "error", err, "owner_id", input.OwnerID)
		return nil, err
	}

	s.advisoryVerify(ctx, claim)

	s.logger.Info("Claim created", "id", claim.ID, "owner_id", claim.OwnerID, "total_amount", claim.TotalAmount)
	return claim, nil
}

// EditClaim rewrites an editable claim's fields and recomputes the total.
// Editing a sent-back claim is the resubmission pathway: the status returns to
// Submitted and the Coordinators are notified, atomically with the field write.
func (s *claimServiceImpl) EditClaim(ctx context.Context, claimID int64, actorID string, input EditClaimInput) (*entity.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim.OwnerID != actorID {
		return nil, fmt.Errorf("%w: only the claim owner may edit it", entity.ErrForbidden)
	}
	if !claim.Status.Editable() {
		return nil, fmt.Errorf("%w: claim %d is %s and can no longer be edited",
			workflow.ErrInvalidTransition, claimID, claim.Status)
	}

	if input.SubmittedAt.IsZero() {
		input.SubmittedAt = claim.SubmittedAt
	}
	if err := validateClaimFields(claim.LecturerName, input.HoursWorked, input.HourlyRate, input.Notes, input.SubmittedAt); err != nil {
		return nil, err
	}

	previous := claim.Status
	claim.HoursWorked = input.HoursWorked
	claim.HourlyRate = input.HourlyRate
	claim.Notes = input.Notes
	claim.SubmittedAt = input.SubmittedAt
	claim.RecomputeTotal()

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.claimRepo.Update(txCtx, claim); err != nil {
			return fmt.Errorf("update claim: %w", err)
		}

		if previous != workflow.StateSentBack {
			return nil
		}

		// Resubmission: SentBack -> Submitted plus Coordinator fan-out.
		updated, err := s.claimRepo.UpdateStatus(txCtx, claim.ID, workflow.StateSentBack, workflow.StateSubmitted)
		if err != nil {
			return fmt.Errorf("resubmit claim: %w", err)
		}
		if !updated {
			return fmt.Errorf("resubmit claim %d: %w", claim.ID, entity.ErrConflict)
		}

		message := fmt.Sprintf("Claim #%d by %s has been resubmitted.", claim.ID, claim.LecturerName)
		if err := s.notifications.NotifyRole(txCtx, workflow.RoleCoordinator, message); err != nil {
			return fmt.Errorf("notify coordinators: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to edit claim", "error", err, "id", claimID)
		return nil, err
	}

	if previous == workflow.StateSentBack {
		claim.Status = workflow.StateSubmitted
		claim.Version++
	}

	s.advisoryVerify(ctx, claim)

	s.logger.Info("Claim updated", "id", claim.ID, "status", claim.Status.String(), "total_amount", claim.TotalAmount)
	return claim, nil
}

// Apply executes one lifecycle action against a claim. The legality of the
// (status, action, role) triple is decided entirely by the workflow transition
// table; on success the status write and the notification batch commit
// together or not at all.
func (s *claimServiceImpl) Apply(ctx context.Context, claimID int64, action workflow.Action, actorRole workflow.Role, actorID string) (*entity.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	transition, ok := workflow.Lookup(claim.Status, action)
	if !ok {
		return nil, fmt.Errorf("%w: cannot %s a claim that is %s",
			workflow.ErrInvalidTransition, action, claim.Status)
	}
	if transition.Role != actorRole {
		return nil, fmt.Errorf("%w: %s requires the %s role", entity.ErrForbidden, action, transition.Role)
	}
	if transition.OwnerOnly && claim.OwnerID != actorID {
		return nil, fmt.Errorf("%w: %s is restricted to the claim owner", entity.ErrForbidden, action)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		updated, err := s.claimRepo.UpdateStatus(txCtx, claim.ID, transition.From, transition.To)
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if !updated {
			// The stored status no longer matches. Re-read to tell a deleted
			// claim apart from a concurrent transition that won the race.
			if _, err := s.claimRepo.GetByID(txCtx, claim.ID); err != nil {
				return err
			}
			return fmt.Errorf("claim %d already advanced past %s: %w",
				claim.ID, transition.From, entity.ErrConflict)
		}

		return s.dispatchNotification(txCtx, transition, claim)
	})
	if err != nil {
		s.logger.Error("Failed to apply action", "error", err, "id", claimID, "action", action.String())
		return nil, err
	}

	claim.Status = transition.To
	claim.Version++

	s.logger.Info("Claim transitioned",
		"id", claim.ID,
		"action", action.String(),
		"from", transition.From.String(),
		"to", transition.To.String(),
		"actor_role", actorRole.String())
	return claim, nil
}

// GetClaim retrieves a claim with its documents
func (s *claimServiceImpl) GetClaim(ctx context.Context, id int64) (*entity.Claim, error) {
	claim, err := s.claimRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get claim", "error", err, "id", id)
		return nil, err
	}
	return claim, nil
}

// ListClaims retrieves claims matching the filter
func (s *claimServiceImpl) ListClaims(ctx context.Context, filter entity.ClaimFilter) ([]*entity.Claim, error) {
	claims, err := s.claimRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list claims", "error", err)
		return nil, err
	}
	return claims, nil
}

// ListPending returns the claims currently awaiting action from the role, the
// states derived from the transition table. Owner-scoped work (a lecturer's
// sent-back claims) is narrowed to the actor's own claims.
func (s *claimServiceImpl) ListPending(ctx context.Context, role workflow.Role, actorID string) ([]*entity.Claim, error) {
	var filter entity.ClaimFilter
	seen := make(map[workflow.State]bool)
	for _, t := range workflow.Table() {
		if t.Role != role || seen[t.From] {
			continue
		}
		seen[t.From] = true
		filter.Statuses = append(filter.Statuses, t.From)
		if t.OwnerOnly {
			filter.OwnerID = actorID
		}
	}
	if len(filter.Statuses) == 0 {
		return []*entity.Claim{}, nil
	}

	claims, err := s.claimRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list pending claims", "error", err, "role", role.String())
		return nil, err
	}
	return claims, nil
}

// DeleteClaim removes an editable claim together with its document rows and
// stored files. Only the owner may delete, and only before review starts.
func (s *claimServiceImpl) DeleteClaim(ctx context.Context, claimID int64, actorID string) error {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return err
	}
	if claim.OwnerID != actorID {
		return fmt.Errorf("%w: only the claim owner may delete it", entity.ErrForbidden)
	}
	if !claim.Status.Editable() {
		return fmt.Errorf("%w: claim %d is %s and can no longer be deleted",
			workflow.ErrInvalidTransition, claimID, claim.Status)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.documentRepo.DeleteByClaimID(txCtx, claimID); err != nil {
			return fmt.Errorf("delete documents: %w", err)
		}
		if err := s.claimRepo.Delete(txCtx, claimID); err != nil {
			return fmt.Errorf("delete claim: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to delete claim", "error", err, "id", claimID)
		return err
	}

	// Stored files go after the rows commit; a leftover file is recoverable,
	// a dangling row is not.
	for _, doc := range claim.Documents {
		if err := s.attachments.Delete(ctx, doc.StoredPath); err != nil {
			s.logger.Error("Failed to remove stored attachment", "error", err, "path", doc.StoredPath)
		}
	}

	s.logger.Info("Claim deleted", "id", claimID)
	return nil
}

// AddDocument stores an attachment and records it against the claim.
func (s *claimServiceImpl) AddDocument(ctx context.Context, claimID int64, actorID string, fileName string, content []byte) (*entity.SupportingDocument, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim.OwnerID != actorID {
		return nil, fmt.Errorf("%w: only the claim owner may attach documents", entity.ErrForbidden)
	}
	if fileName == "" || len(content) == 0 {
		return nil, &entity.ValidationError{Problems: []string{"document name and content are required"}}
	}

	storedPath, err := s.attachments.Save(ctx, fileName, content)
	if err != nil {
		s.logger.Error("Failed to store attachment", "error", err, "claim_id", claimID)
		return nil, fmt.Errorf("store attachment: %w", err)
	}

	doc := &entity.SupportingDocument{
		ClaimID:    claimID,
		FileName:   fileName,
		StoredPath: storedPath,
		UploadedAt: time.Now(),
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		if delErr := s.attachments.Delete(ctx, storedPath); delErr != nil {
			s.logger.Error("Failed to clean up orphaned attachment", "error", delErr, "path", storedPath)
		}
		s.logger.Error("Failed to record document", "error", err, "claim_id", claimID)
		return nil, fmt.Errorf("record document: %w", err)
	}

	s.logger.Info("Document attached", "claim_id", claimID, "file_name", fileName)
	return doc, nil
}

// GetDocument returns a claim's document together with its stored content.
// The document must belong to the claim in the path; a mismatch reads as not
// found rather than leaking another claim's attachment.
func (s *claimServiceImpl) GetDocument(ctx context.Context, claimID, documentID int64) (*entity.SupportingDocument, []byte, error) {
	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc.ClaimID != claimID {
		return nil, nil, fmt.Errorf("document %d on claim %d: %w", documentID, claimID, entity.ErrNotFound)
	}

	content, err := s.attachments.Load(ctx, doc.StoredPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("stored file for document %d: %w", documentID, entity.ErrNotFound)
		}
		s.logger.Error("Failed to load attachment", "error", err, "document_id", documentID)
		return nil, nil, fmt.Errorf("load attachment: %w", err)
	}

	return doc, content, nil
}

// DeleteDocument removes one attachment from an editable claim. Same access
// rule as claim deletion: owner only, and only before review starts.
func (s *claimServiceImpl) DeleteDocument(ctx context.Context, claimID, documentID int64, actorID string) error {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return err
	}
	if claim.OwnerID != actorID {
		return fmt.Errorf("%w: only the claim owner may remove documents", entity.ErrForbidden)
	}
	if !claim.Status.Editable() {
		return fmt.Errorf("%w: claim %d is %s and its documents can no longer be changed",
			workflow.ErrInvalidTransition, claimID, claim.Status)
	}

	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.ClaimID != claimID {
		return fmt.Errorf("document %d on claim %d: %w", documentID, claimID, entity.ErrNotFound)
	}

	if err := s.documentRepo.Delete(ctx, documentID); err != nil {
		return err
	}

	// The row is gone; a leftover file is recoverable, so removal failures
	// only log.
	if err := s.attachments.Delete(ctx, doc.StoredPath); err != nil {
		s.logger.Error("Failed to remove stored attachment", "error", err, "path", doc.StoredPath)
	}

	s.logger.Info("Document removed", "claim_id", claimID, "document_id", documentID)
	return nil
}

// dispatchNotification resolves the transition's notify target and enqueues
// the message. Role targets fan out to every current member; an empty role is
// a no-op, not a failure.
func (s *claimServiceImpl) dispatchNotification(ctx context.Context, t workflow.Transition, claim *entity.Claim) error {
	message := transitionMessage(t, claim)

	if role, isRole := t.Notify.Role(); isRole {
		if err := s.notifications.NotifyRole(ctx, role, message); err != nil {
			return fmt.Errorf("notify %s: %w", role, err)
		}
		return nil
	}

	if _, err := s.notifications.Enqueue(ctx, claim.OwnerID, message); err != nil {
		return fmt.Errorf("notify owner: %w", err)
	}
	return nil
}

// transitionMessage builds the human-readable text delivered for a transition.
func transitionMessage(t workflow.Transition, claim *entity.Claim) string {
	switch t.Action {
	case workflow.ActionSetUnderReview:
		return fmt.Sprintf("Claim #%d by %s is now under review.", claim.ID, claim.LecturerName)
	case workflow.ActionSendBack:
		return fmt.Sprintf("Your claim #%d has been sent back for corrections.", claim.ID)
	case workflow.ActionApprove:
		return fmt.Sprintf("Claim #%d by %s has been approved and awaits processing.", claim.ID, claim.LecturerName)
	case workflow.ActionReject:
		return fmt.Sprintf("Your claim #%d has been rejected.", claim.ID)
	case workflow.ActionMarkProcessed:
		return fmt.Sprintf("Your claim #%d has been processed for payment.", claim.ID)
	case workflow.ActionResubmit:
		return fmt.Sprintf("Claim #%d by %s has been resubmitted.", claim.ID, claim.LecturerName)
	default:
		return fmt.Sprintf("Claim #%d is now %s.", claim.ID, t.To)
	}
}

// advisoryVerify runs the business-rule checks after a create or edit and logs
// anything flagged. Verification informs the Coordinator review, it never
// blocks the claim.
func (s *claimServiceImpl) advisoryVerify(ctx context.Context, claim *entity.Claim) {
	result, err := s.verification.Verify(ctx, claim)
	if err != nil {
		s.logger.Error("Advisory verification failed", "error", err, "id", claim.ID)
		return
	}
	if !result.HourlyRateValid || !result.TotalHoursValid || result.DuplicateClaim {
		s.logger.Info("Claim flagged by verification",
			"id", claim.ID,
			"hourly_rate_valid", result.HourlyRateValid,
			"total_hours_valid", result.TotalHoursValid,
			"duplicate_claim", result.DuplicateClaim)
	}
}

// validateClaimFields applies the declared input bounds.
func validateClaimFields(lecturerName string, hours, rate float64, notes string, submittedAt time.Time) error {
	verr := &entity.ValidationError{}

	if lecturerName == "" {
		verr.Add("lecturer name is required")
	}
	if hours <= 0 {
		verr.Add("hours worked must be positive")
	} else if hours > entity.MaxHoursPerMonth {
		verr.Add("hours worked cannot exceed %.0f hours per month", entity.MaxHoursPerMonth)
	}
	if rate < entity.MinHourlyRate || rate > entity.MaxHourlyRate {
		verr.Add("hourly rate must be between %.0f and %.0f", entity.MinHourlyRate, entity.MaxHourlyRate)
	}
	if len(notes) > entity.MaxNotesLength {
		verr.Add("notes cannot exceed %d characters", entity.MaxNotesLength)
	}
	if submittedAt.After(time.Now()) {
		verr.Add("submission date cannot be in the future")
	}

	if verr.HasProblems() {
		return verr
	}
	return nil
}
